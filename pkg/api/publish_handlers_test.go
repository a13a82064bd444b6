package api

import (
	"archive/tar"
	"bytes"
	"compress/gzip"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/platinummonkey/registry/pkg/packument"
)

func strp(s string) *string { return &s }

func buildValidTarball(t *testing.T) string {
	t.Helper()
	var buf bytes.Buffer
	gw := gzip.NewWriter(&buf)
	tw := tar.NewWriter(gw)

	files := map[string]string{
		"package/package.json": `{"name":"left-pad","version":"1.0.0"}`,
		"package/index.js":     "module.exports = {}",
	}
	for name, content := range files {
		if err := tw.WriteHeader(&tar.Header{Name: name, Size: int64(len(content)), Mode: 0644}); err != nil {
			t.Fatalf("write tar header: %v", err)
		}
		if _, err := tw.Write([]byte(content)); err != nil {
			t.Fatalf("write tar content: %v", err)
		}
	}
	if err := tw.Close(); err != nil {
		t.Fatalf("close tar writer: %v", err)
	}
	if err := gw.Close(); err != nil {
		t.Fatalf("close gzip writer: %v", err)
	}

	return base64.StdEncoding.EncodeToString(buf.Bytes())
}

func TestPublish_AddStar(t *testing.T) {
	s, packages := newTestServer()
	old := packument.Packument{Name: "left-pad", Stargazers: map[string]bool{}}
	data, _ := json.Marshal(old)
	packages.packuments["left-pad"] = data

	submitted := packument.Packument{Name: "left-pad", Stargazers: map[string]bool{"alice": true}}
	body, _ := json.Marshal(submitted)

	w := doRequest(s, http.MethodPut, "/left-pad", bytes.NewReader(body))

	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201, body=%s", w.Code, w.Body.String())
	}

	var stored packument.Packument
	if err := json.Unmarshal(packages.packuments["left-pad"], &stored); err != nil {
		t.Fatalf("stored packument did not parse: %v", err)
	}
	if !stored.Stargazers["alice"] {
		t.Errorf("expected alice to be stored as a stargazer")
	}
}

func TestPublish_AddVersion_RewritesTarballURL(t *testing.T) {
	s, packages := newTestServer()

	data := buildValidTarball(t)
	submitted := packument.Packument{
		Name:     "left-pad",
		DistTags: &packument.DistTags{Latest: strp("1.0.0")},
		Versions: map[string]packument.PackumentVersion{
			"1.0.0": {Name: "left-pad", Version: "1.0.0"},
		},
		Attachments: map[string]packument.Attachment{
			"left-pad-1.0.0.tgz": {ContentType: "application/octet-stream", Data: data},
		},
	}
	body, _ := json.Marshal(submitted)

	w := doRequest(s, http.MethodPut, "/left-pad", bytes.NewReader(body))

	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201, body=%s", w.Code, w.Body.String())
	}

	var stored packument.Packument
	if err := json.Unmarshal(packages.packuments["left-pad"], &stored); err != nil {
		t.Fatalf("stored packument did not parse: %v", err)
	}
	version, ok := stored.Versions["1.0.0"]
	if !ok {
		t.Fatalf("expected version 1.0.0 to be stored")
	}
	wantURL := "https://registry.example.com/left-pad/-/left-pad-1.0.0.tgz"
	if version.Dist.Tarball != wantURL {
		t.Errorf("tarball URL = %q, want %q", version.Dist.Tarball, wantURL)
	}
	if _, ok := packages.tarballs["left-pad:1.0.0"]; !ok {
		t.Errorf("expected tarball bytes to be stored under left-pad:1.0.0")
	}
}

func TestPublish_InvalidIdentifier(t *testing.T) {
	s, _ := newTestServer()
	body, _ := json.Marshal(packument.Packument{Name: "foo"})

	w := doRequest(s, http.MethodPut, "/@scope-only-no-name-that-starts-with-at", bytes.NewReader(body))

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}

func TestPublish_MalformedBody(t *testing.T) {
	s, _ := newTestServer()

	w := doRequest(s, http.MethodPut, "/left-pad", bytes.NewReader([]byte("not json")))

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}

func TestPublish_AmbiguousChangeRejected(t *testing.T) {
	s, packages := newTestServer()
	old := packument.Packument{Name: "left-pad"}
	data, _ := json.Marshal(old)
	packages.packuments["left-pad"] = data

	submitted := packument.Packument{Name: "left-pad"}
	body, _ := json.Marshal(submitted)

	w := doRequest(s, http.MethodPut, "/left-pad", bytes.NewReader(body))

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400, body=%s", w.Code, w.Body.String())
	}
}
