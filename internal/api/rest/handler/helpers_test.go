package handler

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"

	"github.com/go-chi/chi/v5"

	restctx "github.com/dtroode/blog-server/internal/api/rest/context"
	"github.com/dtroode/blog-server/internal/model"
)

type countingRecorder struct {
	issued atomic.Int64
}

func (c *countingRecorder) RecordTokenIssued() {
	c.issued.Add(1)
}

func jsonRequest(method, target, body string) *http.Request {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	req.Header.Set("Content-Type", "application/json")
	return req
}

func withURLParam(req *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

func withPrincipal(req *http.Request, cm *restctx.Manager, principal model.Principal) *http.Request {
	return req.WithContext(cm.SetPrincipalToContext(req.Context(), principal))
}
