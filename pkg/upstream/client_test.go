package upstream

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/platinummonkey/registry/pkg/apierrors"
	"github.com/platinummonkey/registry/pkg/packageid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_StreamPackument(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/foo", r.URL.Path)
		w.Write([]byte(`{"name":"foo"}`))
	}))
	defer srv.Close()

	client := New(srv.URL, nil)
	body, err := client.StreamPackument(context.Background(), packageid.Identifier{Name: "foo"})
	require.NoError(t, err)
	defer body.Close()

	data, err := io.ReadAll(body)
	require.NoError(t, err)
	assert.Equal(t, `{"name":"foo"}`, string(data))
}

func TestClient_StreamTarball_Scoped(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/@acme/widget/-/widget-2.3.4.tgz", r.URL.Path)
		w.Write([]byte("tarball-bytes"))
	}))
	defer srv.Close()

	client := New(srv.URL, nil)
	body, err := client.StreamTarball(context.Background(), packageid.Identifier{Scope: "acme", Name: "widget"}, "2.3.4")
	require.NoError(t, err)
	defer body.Close()

	data, err := io.ReadAll(body)
	require.NoError(t, err)
	assert.Equal(t, "tarball-bytes", string(data))
}

func TestClient_NotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	client := New(srv.URL, nil)
	_, err := client.StreamPackument(context.Background(), packageid.Identifier{Name: "missing"})
	require.Error(t, err)
	assert.True(t, apierrors.Is(err, apierrors.KindNotFound))
}

func TestClient_UpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := New(srv.URL, nil)
	_, err := client.StreamPackument(context.Background(), packageid.Identifier{Name: "broken"})
	require.Error(t, err)
	assert.True(t, apierrors.Is(err, apierrors.KindUpstream))
}
