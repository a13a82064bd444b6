package api

import (
	"net/http"
	"testing"
)

func TestGetTarball_Hit(t *testing.T) {
	s, packages := newTestServer()
	packages.tarballs["left-pad:1.0.0"] = []byte("tarball-bytes")

	w := doRequest(s, http.MethodGet, "/left-pad/-/left-pad-1.0.0.tgz", nil)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200, body=%s", w.Code, w.Body.String())
	}
	if w.Body.String() != "tarball-bytes" {
		t.Errorf("body = %s", w.Body.String())
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/octet-stream" {
		t.Errorf("Content-Type = %q", ct)
	}
}

func TestGetTarball_Miss(t *testing.T) {
	s, _ := newTestServer()

	w := doRequest(s, http.MethodGet, "/left-pad/-/left-pad-1.0.0.tgz", nil)

	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", w.Code)
	}
}

func TestGetTarball_FilenameMismatch(t *testing.T) {
	s, packages := newTestServer()
	packages.tarballs["left-pad:1.0.0"] = []byte("tarball-bytes")

	w := doRequest(s, http.MethodGet, "/left-pad/-/wrong-name-1.0.0.tgz", nil)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}

func TestGetTarball_InvalidIdentifier(t *testing.T) {
	s, _ := newTestServer()

	w := doRequest(s, http.MethodGet, "/@scope-only-no-name-that-starts-with-at/-/x-1.0.0.tgz", nil)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}

func TestGetTarballScoped_Hit(t *testing.T) {
	s, packages := newTestServer()
	packages.tarballs["@acme/left-pad:1.0.0"] = []byte("scoped-bytes")

	w := doRequest(s, http.MethodGet, "/@acme/left-pad/-/left-pad-1.0.0.tgz", nil)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200, body=%s", w.Code, w.Body.String())
	}
	if w.Body.String() != "scoped-bytes" {
		t.Errorf("body = %s", w.Body.String())
	}
}
