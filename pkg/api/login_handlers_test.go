package api

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/platinummonkey/registry/pkg/auth"
	"github.com/platinummonkey/registry/pkg/policy"
)

func newLoginTestServer(authn *fakeAuthenticator, tokens *fakeTokens) *Server {
	p := policy.New().
		WithPackageStorage(newFakePackages()).
		WithAuthenticator(authn).
		WithTokenAuthorizer(tokens).
		WithConfigurator(fakeConfigurator{})
	return NewServer(p, "https://registry.example.com")
}

func TestStartLogin_ReturnsDoneAndLoginURLs(t *testing.T) {
	s := newLoginTestServer(&fakeAuthenticator{}, &fakeTokens{})

	w := doRequest(s, http.MethodPost, "/-/v1/login", nil)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200, body=%s", w.Code, w.Body.String())
	}
	if want := `"loginUrl":"https://registry.example.com/-/v1/login/www/session-1"`; !strings.Contains(w.Body.String(), want) {
		t.Errorf("body = %s, want substring %s", w.Body.String(), want)
	}
}

func TestPollLogin_PendingReturnsAccepted(t *testing.T) {
	s := newLoginTestServer(&fakeAuthenticator{pollUser: nil}, &fakeTokens{})

	w := doRequest(s, http.MethodGet, "/-/v1/login/poll/session-1", nil)

	if w.Code != http.StatusAccepted {
		t.Fatalf("status = %d, want 202", w.Code)
	}
	if w.Header().Get("retry-after") == "" {
		t.Errorf("expected retry-after header")
	}
}

func TestPollLogin_CompletedIssuesToken(t *testing.T) {
	s := newLoginTestServer(&fakeAuthenticator{pollUser: &auth.User{Name: "alice"}}, &fakeTokens{})

	w := doRequest(s, http.MethodGet, "/-/v1/login/poll/session-1", nil)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200, body=%s", w.Code, w.Body.String())
	}
	if want := `"token":"registry_faketoken"`; !strings.Contains(w.Body.String(), want) {
		t.Errorf("body = %s, want substring %s", w.Body.String(), want)
	}
}

func TestLoginWWW_WithSessionRedirects(t *testing.T) {
	s := newLoginTestServer(&fakeAuthenticator{redirectURL: "https://provider.example.com/oauth/authorize"}, &fakeTokens{})

	req := httptest.NewRequest(http.MethodGet, "/-/v1/login/www/session-1", nil)
	w := httptest.NewRecorder()
	s.ServeHTTP(w, req)

	if w.Code != http.StatusTemporaryRedirect {
		t.Fatalf("status = %d, want 307", w.Code)
	}
	if loc := w.Header().Get("Location"); loc != "https://provider.example.com/oauth/authorize" {
		t.Errorf("Location = %q", loc)
	}
}

func TestLoginWWW_CallbackRendersHTML(t *testing.T) {
	s := newLoginTestServer(&fakeAuthenticator{}, &fakeTokens{})

	w := doRequest(s, http.MethodGet, "/-/v1/login/www", nil)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "text/html; charset=utf-8" {
		t.Errorf("Content-Type = %q", ct)
	}
}
