// Package policy composes the registry's five pluggable capabilities —
// package storage, OAuth authentication, bearer-token authorization, user
// storage, and configuration — into a single object that the HTTP layer
// holds and delegates to. Each capability is a plain interface value on
// the Policy struct selected at construction time; there is no dynamic
// trait lookup or reflection involved.
package policy

import (
	"context"
	"io"
	"net/http"

	"github.com/platinummonkey/registry/pkg/apierrors"
	"github.com/platinummonkey/registry/pkg/auth"
	"github.com/platinummonkey/registry/pkg/packageid"
)

// PackageStorage is the package-storage capability: streaming reads
// through the cache-over-upstream composer, plus the direct writes a
// publish applies once a modification has been computed.
type PackageStorage interface {
	StreamPackument(ctx context.Context, pkg packageid.Identifier) (io.ReadCloser, error)
	StreamTarball(ctx context.Context, pkg packageid.Identifier, version string) (io.ReadCloser, error)
	GetPackument(ctx context.Context, pkg packageid.Identifier) ([]byte, error)
	PutPackument(ctx context.Context, pkg packageid.Identifier, data []byte) error
	PutTarball(ctx context.Context, pkg packageid.Identifier, version string, data []byte) error
}

// Authenticator is the OAuth login-session capability.
type Authenticator interface {
	StartLoginSession(hostname string) (string, error)
	CompleteLoginSessionRedirect(w http.ResponseWriter, sessionID string) (string, error)
	CompleteLoginSessionCallback(ctx context.Context, r *http.Request) error
	PollLoginSession(sessionID string) (*auth.User, error)
}

// TokenAuthorizer is the bearer-token session capability.
type TokenAuthorizer interface {
	StartSession(user auth.User) (string, error)
	AuthenticateSessionBearer(token string) (*auth.User, error)
	AuthenticateSession(r *http.Request) (*auth.User, error)
}

// UserStorage is the registered-identity capability.
type UserStorage interface {
	RegisterUser(ctx context.Context, user auth.User) error
	GetUser(ctx context.Context, name string) (*auth.User, error)
}

// Configurator is the settings capability consulted by an Authenticator
// during the OAuth callback (FQDN for the cookie domain/scheme, the
// secret used to sign it).
type Configurator interface {
	FQDN() string
	CookieSecret() []byte
}

// Policy holds the five capability slots and forwards each operation to
// whichever implementation occupies it. Unfilled slots default to a
// stub that fails every operation with NotImplemented (the Configurator
// stub returns an empty FQDN and a nil cookie secret), so a policy built
// with only, say, WithPackageStorage still answers every method call —
// just not usefully for the slots that were never given.
type Policy struct {
	packages PackageStorage
	authn    Authenticator
	tokens   TokenAuthorizer
	users    UserStorage
	config   Configurator
}

// New returns a Policy with every slot defaulted to its not-implemented
// stub. Use the With* methods to fill the slots this registry needs.
func New() *Policy {
	return &Policy{
		packages: notImplementedPackages{},
		authn:    notImplementedAuthenticator{},
		tokens:   notImplementedTokens{},
		users:    notImplementedUsers{},
		config:   notImplementedConfigurator{},
	}
}

// WithPackageStorage replaces the package-storage slot.
func (p *Policy) WithPackageStorage(s PackageStorage) *Policy {
	p.packages = s
	return p
}

// WithAuthenticator replaces the authenticator slot.
func (p *Policy) WithAuthenticator(a Authenticator) *Policy {
	p.authn = a
	return p
}

// WithTokenAuthorizer replaces the token-authorizer slot.
func (p *Policy) WithTokenAuthorizer(t TokenAuthorizer) *Policy {
	p.tokens = t
	return p
}

// WithUserStorage replaces the user-storage slot.
func (p *Policy) WithUserStorage(u UserStorage) *Policy {
	p.users = u
	return p
}

// WithConfigurator replaces the configurator slot.
func (p *Policy) WithConfigurator(c Configurator) *Policy {
	p.config = c
	return p
}

// StreamPackument delegates to the package-storage slot.
func (p *Policy) StreamPackument(ctx context.Context, pkg packageid.Identifier) (io.ReadCloser, error) {
	return p.packages.StreamPackument(ctx, pkg)
}

// StreamTarball delegates to the package-storage slot.
func (p *Policy) StreamTarball(ctx context.Context, pkg packageid.Identifier, version string) (io.ReadCloser, error) {
	return p.packages.StreamTarball(ctx, pkg, version)
}

// GetPackument delegates to the package-storage slot.
func (p *Policy) GetPackument(ctx context.Context, pkg packageid.Identifier) ([]byte, error) {
	return p.packages.GetPackument(ctx, pkg)
}

// PutPackument delegates to the package-storage slot.
func (p *Policy) PutPackument(ctx context.Context, pkg packageid.Identifier, data []byte) error {
	return p.packages.PutPackument(ctx, pkg, data)
}

// PutTarball delegates to the package-storage slot.
func (p *Policy) PutTarball(ctx context.Context, pkg packageid.Identifier, version string, data []byte) error {
	return p.packages.PutTarball(ctx, pkg, version, data)
}

// StartLoginSession delegates to the authenticator slot.
func (p *Policy) StartLoginSession(hostname string) (string, error) {
	return p.authn.StartLoginSession(hostname)
}

// CompleteLoginSessionRedirect delegates to the authenticator slot.
func (p *Policy) CompleteLoginSessionRedirect(w http.ResponseWriter, sessionID string) (string, error) {
	return p.authn.CompleteLoginSessionRedirect(w, sessionID)
}

// CompleteLoginSessionCallback delegates to the authenticator slot. The
// authenticator is handed the policy's own FQDN/CookieSecret via the
// Configurator slot it was constructed with, not via this call — the
// policy does not re-wire the authenticator's dependencies at call time.
func (p *Policy) CompleteLoginSessionCallback(ctx context.Context, r *http.Request) error {
	return p.authn.CompleteLoginSessionCallback(ctx, r)
}

// PollLoginSession delegates to the authenticator slot.
func (p *Policy) PollLoginSession(sessionID string) (*auth.User, error) {
	return p.authn.PollLoginSession(sessionID)
}

// StartTokenSession delegates to the token-authorizer slot.
func (p *Policy) StartTokenSession(user auth.User) (string, error) {
	return p.tokens.StartSession(user)
}

// AuthenticateSessionBearer delegates to the token-authorizer slot.
func (p *Policy) AuthenticateSessionBearer(token string) (*auth.User, error) {
	return p.tokens.AuthenticateSessionBearer(token)
}

// AuthenticateSession delegates to the token-authorizer slot.
func (p *Policy) AuthenticateSession(r *http.Request) (*auth.User, error) {
	return p.tokens.AuthenticateSession(r)
}

// RegisterUser delegates to the user-storage slot.
func (p *Policy) RegisterUser(ctx context.Context, user auth.User) error {
	return p.users.RegisterUser(ctx, user)
}

// GetUser delegates to the user-storage slot.
func (p *Policy) GetUser(ctx context.Context, name string) (*auth.User, error) {
	return p.users.GetUser(ctx, name)
}

// FQDN delegates to the configurator slot.
func (p *Policy) FQDN() string {
	return p.config.FQDN()
}

// CookieSecret delegates to the configurator slot.
func (p *Policy) CookieSecret() []byte {
	return p.config.CookieSecret()
}

type notImplementedPackages struct{}

func (notImplementedPackages) StreamPackument(context.Context, packageid.Identifier) (io.ReadCloser, error) {
	return nil, apierrors.NotImplemented("package_storage")
}

func (notImplementedPackages) StreamTarball(context.Context, packageid.Identifier, string) (io.ReadCloser, error) {
	return nil, apierrors.NotImplemented("package_storage")
}

func (notImplementedPackages) GetPackument(context.Context, packageid.Identifier) ([]byte, error) {
	return nil, apierrors.NotImplemented("package_storage")
}

func (notImplementedPackages) PutPackument(context.Context, packageid.Identifier, []byte) error {
	return apierrors.NotImplemented("package_storage")
}

func (notImplementedPackages) PutTarball(context.Context, packageid.Identifier, string, []byte) error {
	return apierrors.NotImplemented("package_storage")
}

type notImplementedAuthenticator struct{}

func (notImplementedAuthenticator) StartLoginSession(string) (string, error) {
	return "", apierrors.NotImplemented("authenticator")
}

func (notImplementedAuthenticator) CompleteLoginSessionRedirect(http.ResponseWriter, string) (string, error) {
	return "", apierrors.NotImplemented("authenticator")
}

func (notImplementedAuthenticator) CompleteLoginSessionCallback(context.Context, *http.Request) error {
	return apierrors.NotImplemented("authenticator")
}

func (notImplementedAuthenticator) PollLoginSession(string) (*auth.User, error) {
	return nil, apierrors.NotImplemented("authenticator")
}

type notImplementedTokens struct{}

func (notImplementedTokens) StartSession(auth.User) (string, error) {
	return "", apierrors.NotImplemented("token_authorizer")
}

func (notImplementedTokens) AuthenticateSessionBearer(string) (*auth.User, error) {
	return nil, apierrors.NotImplemented("token_authorizer")
}

func (notImplementedTokens) AuthenticateSession(*http.Request) (*auth.User, error) {
	return nil, apierrors.NotImplemented("token_authorizer")
}

type notImplementedUsers struct{}

func (notImplementedUsers) RegisterUser(context.Context, auth.User) error {
	return apierrors.NotImplemented("user_storage")
}

func (notImplementedUsers) GetUser(context.Context, string) (*auth.User, error) {
	return nil, apierrors.NotImplemented("user_storage")
}

type notImplementedConfigurator struct{}

func (notImplementedConfigurator) FQDN() string         { return "" }
func (notImplementedConfigurator) CookieSecret() []byte { return nil }
