package oauth

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/oauth2"
)

const (
	stateCookieName = "__oauth_state"
	pkceCookieName  = "__oauth_pkce"
	flowTTL         = 5 * time.Minute
)

var (
	// ErrStateMismatch is returned when the callback state does not match the cookie.
	ErrStateMismatch = errors.New("oauth state mismatch")
	// ErrMissingVerifier is returned when the PKCE verifier cookie is gone.
	ErrMissingVerifier = errors.New("missing pkce verifier")
)

// Flow is the per-login state kept in the browser between redirect and callback.
type Flow struct {
	State    string
	Verifier string
}

// StartFlow generates state and a PKCE verifier and stores both in short-lived
// HttpOnly cookies.
func StartFlow(w http.ResponseWriter, secure bool) (Flow, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return Flow{}, fmt.Errorf("failed to generate state: %w", err)
	}

	flow := Flow{
		State:    base64.RawURLEncoding.EncodeToString(b),
		Verifier: oauth2.GenerateVerifier(),
	}

	setFlowCookie(w, stateCookieName, flow.State, int(flowTTL.Seconds()), secure)
	setFlowCookie(w, pkceCookieName, flow.Verifier, int(flowTTL.Seconds()), secure)

	return flow, nil
}

// FinishFlow checks the callback state against the cookie and returns the
// stored verifier. The cookies are cleared whatever the outcome.
func FinishFlow(w http.ResponseWriter, r *http.Request, secure bool) (Flow, error) {
	defer func() {
		setFlowCookie(w, stateCookieName, "", -1, secure)
		setFlowCookie(w, pkceCookieName, "", -1, secure)
	}()

	state := r.URL.Query().Get("state")
	cookie, err := r.Cookie(stateCookieName)
	if err != nil || state == "" || subtle.ConstantTimeCompare([]byte(cookie.Value), []byte(state)) != 1 {
		return Flow{}, ErrStateMismatch
	}

	verifier, err := r.Cookie(pkceCookieName)
	if err != nil || verifier.Value == "" {
		return Flow{}, ErrMissingVerifier
	}

	return Flow{State: state, Verifier: verifier.Value}, nil
}

func setFlowCookie(w http.ResponseWriter, name, value string, maxAge int, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   maxAge,
	})
}
