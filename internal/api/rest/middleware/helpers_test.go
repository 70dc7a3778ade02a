package middleware

import (
	"net/http"
	"sync"
	"time"
)

type recordedAuth struct {
	scheme  string
	outcome string
}

type fakeRecorder struct {
	mu       sync.Mutex
	auth     []recordedAuth
	requests []string
	statuses []int
}

func (f *fakeRecorder) RecordAuth(scheme, outcome string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.auth = append(f.auth, recordedAuth{scheme: scheme, outcome: outcome})
}

func (f *fakeRecorder) RecordRequest(method, route string, statusCode int, _ time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, method+" "+route)
	f.statuses = append(f.statuses, statusCode)
}

func okHandler(called *bool) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		*called = true
		w.WriteHeader(http.StatusOK)
	})
}
