package api

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/platinummonkey/registry/pkg/apierrors"
	"github.com/platinummonkey/registry/pkg/auth"
	"github.com/platinummonkey/registry/pkg/packageid"
	"github.com/platinummonkey/registry/pkg/policy"
)

// fakePackages is an in-memory policy.PackageStorage used across this
// package's tests.
type fakePackages struct {
	packuments map[string][]byte
	tarballs   map[string][]byte
}

func newFakePackages() *fakePackages {
	return &fakePackages{packuments: map[string][]byte{}, tarballs: map[string][]byte{}}
}

func (f *fakePackages) StreamPackument(ctx context.Context, pkg packageid.Identifier) (io.ReadCloser, error) {
	data, ok := f.packuments[pkg.String()]
	if !ok {
		return nil, apierrors.NotFound("packument not found")
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (f *fakePackages) StreamTarball(ctx context.Context, pkg packageid.Identifier, version string) (io.ReadCloser, error) {
	data, ok := f.tarballs[pkg.String()+":"+version]
	if !ok {
		return nil, apierrors.NotFound("tarball not found")
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (f *fakePackages) GetPackument(ctx context.Context, pkg packageid.Identifier) ([]byte, error) {
	data, ok := f.packuments[pkg.String()]
	if !ok {
		return nil, apierrors.NotFound("packument not found")
	}
	return data, nil
}

func (f *fakePackages) PutPackument(ctx context.Context, pkg packageid.Identifier, data []byte) error {
	f.packuments[pkg.String()] = append([]byte(nil), data...)
	return nil
}

func (f *fakePackages) PutTarball(ctx context.Context, pkg packageid.Identifier, version string, data []byte) error {
	f.tarballs[pkg.String()+":"+version] = append([]byte(nil), data...)
	return nil
}

type fakeAuthenticator struct {
	redirectURL string
	pollUser    *auth.User
}

func (f *fakeAuthenticator) StartLoginSession(hostname string) (string, error) {
	return "session-1", nil
}

func (f *fakeAuthenticator) CompleteLoginSessionRedirect(w http.ResponseWriter, sessionID string) (string, error) {
	return f.redirectURL, nil
}

func (f *fakeAuthenticator) CompleteLoginSessionCallback(ctx context.Context, r *http.Request) error {
	return nil
}

func (f *fakeAuthenticator) PollLoginSession(sessionID string) (*auth.User, error) {
	return f.pollUser, nil
}

type fakeTokens struct {
	issued string
	bound  auth.User
}

func (f *fakeTokens) StartSession(user auth.User) (string, error) {
	f.bound = user
	return "registry_faketoken", nil
}

func (f *fakeTokens) AuthenticateSessionBearer(token string) (*auth.User, error) {
	if token != "registry_faketoken" {
		return nil, apierrors.Unauthorized("unknown bearer token")
	}
	u := f.bound
	return &u, nil
}

func (f *fakeTokens) AuthenticateSession(r *http.Request) (*auth.User, error) {
	header := r.Header.Get("Authorization")
	if !strings.HasPrefix(strings.ToLower(header), "bearer ") {
		return nil, apierrors.Unauthorized("missing Authorization header")
	}
	return f.AuthenticateSessionBearer(strings.TrimSpace(header[len("bearer "):]))
}

type fakeUsers struct {
	registered map[string]auth.User
}

func newFakeUsers() *fakeUsers {
	return &fakeUsers{registered: map[string]auth.User{}}
}

func (f *fakeUsers) RegisterUser(ctx context.Context, user auth.User) error {
	f.registered[user.Name] = user
	return nil
}

func (f *fakeUsers) GetUser(ctx context.Context, name string) (*auth.User, error) {
	user, ok := f.registered[name]
	if !ok {
		return nil, apierrors.NotFound("user not registered")
	}
	return &user, nil
}

type fakeConfigurator struct{}

func (fakeConfigurator) FQDN() string         { return "https://registry.example.com" }
func (fakeConfigurator) CookieSecret() []byte { return []byte("secret") }

func newTestServer() (*Server, *fakePackages) {
	packages := newFakePackages()
	p := policy.New().
		WithPackageStorage(packages).
		WithConfigurator(fakeConfigurator{})
	return NewServer(p, "https://registry.example.com"), packages
}

func doRequest(s *Server, method, path string, body io.Reader) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, body)
	w := httptest.NewRecorder()
	s.ServeHTTP(w, req)
	return w
}

func doRequestWithAuth(s *Server, path, bearerToken string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	req.Header.Set("Authorization", "Bearer "+bearerToken)
	w := httptest.NewRecorder()
	s.ServeHTTP(w, req)
	return w
}
