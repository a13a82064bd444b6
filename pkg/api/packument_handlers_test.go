package api

import (
	"net/http"
	"testing"
)

func TestGetPackument_Hit(t *testing.T) {
	s, packages := newTestServer()
	packages.packuments["left-pad"] = []byte(`{"name":"left-pad"}`)

	w := doRequest(s, http.MethodGet, "/left-pad", nil)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if w.Body.String() != `{"name":"left-pad"}` {
		t.Errorf("body = %s", w.Body.String())
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q", ct)
	}
}

func TestGetPackument_Miss(t *testing.T) {
	s, _ := newTestServer()
	w := doRequest(s, http.MethodGet, "/left-pad", nil)

	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", w.Code)
	}
}

func TestGetPackument_InvalidIdentifier(t *testing.T) {
	s, _ := newTestServer()
	w := doRequest(s, http.MethodGet, "/@scope-only-no-name-that-starts-with-at", nil)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}

func TestGetPackumentScoped_Hit(t *testing.T) {
	s, packages := newTestServer()
	packages.packuments["@acme/left-pad"] = []byte(`{"name":"@acme/left-pad"}`)

	w := doRequest(s, http.MethodGet, "/@acme/left-pad", nil)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if w.Body.String() != `{"name":"@acme/left-pad"}` {
		t.Errorf("body = %s", w.Body.String())
	}
}
