package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/gorilla/securecookie"
	"golang.org/x/oauth2"

	"github.com/platinummonkey/registry/pkg/apierrors"
)

// SessionCookieName is the signed cookie carrying the in-flight login
// session id across the redirect and callback phases.
const SessionCookieName = "sid"

// UserStorage is the policy capability that registers and looks up users
// discovered through a completed OAuth login.
type UserStorage interface {
	RegisterUser(ctx context.Context, user User) error
	GetUser(ctx context.Context, name string) (*User, error)
}

// Configurator supplies the environment-derived settings the
// Authenticator needs: where this registry is reachable, and the key
// used to sign the session cookie.
type Configurator interface {
	FQDN() string
	CookieSecret() []byte
}

// Authenticator drives the OAuth login-session state machine described by
// the registry's login flow: start, redirect, callback, poll. Session
// state lives only in memory, behind a single read-write lock, matching
// the source's login-session lifecycle (no durable storage, no
// cross-process sharing).
type Authenticator struct {
	oauthConfig *oauth2.Config
	userInfoURL string
	users       UserStorage
	config      Configurator
	cookies     *securecookie.SecureCookie

	mu       sync.RWMutex
	sessions map[string]*LoginSession
}

// NewAuthenticator builds an Authenticator against a configured OAuth2
// provider (client id/secret, authorize/token endpoints, scopes) and the
// profile endpoint used to resolve the external identity after exchange.
func NewAuthenticator(oauthConfig *oauth2.Config, userInfoURL string, users UserStorage, config Configurator) *Authenticator {
	secret := config.CookieSecret()
	return &Authenticator{
		oauthConfig: oauthConfig,
		userInfoURL: userInfoURL,
		users:       users,
		config:      config,
		cookies:     securecookie.New(secret, nil),
		sessions:    make(map[string]*LoginSession),
	}
}

// StartLoginSession creates a fresh LoginSession and returns its opaque id.
func (a *Authenticator) StartLoginSession(hostname string) (string, error) {
	id, err := randomID()
	if err != nil {
		return "", apierrors.Storage("failed to generate login session id", err)
	}

	a.mu.Lock()
	a.sessions[id] = &LoginSession{InitializedAt: time.Now(), Hostname: hostname}
	a.mu.Unlock()

	return id, nil
}

// CompleteLoginSessionRedirect is the redirect phase: it mints a CSRF
// token for sessionID, stores it, sets the signed sid cookie, and returns
// the OAuth authorize URL the caller should redirect to.
func (a *Authenticator) CompleteLoginSessionRedirect(w http.ResponseWriter, sessionID string) (string, error) {
	a.mu.Lock()
	session, ok := a.sessions[sessionID]
	if !ok {
		a.mu.Unlock()
		return "", apierrors.BadRequest("unknown login session")
	}
	csrf, err := randomID()
	if err != nil {
		a.mu.Unlock()
		return "", apierrors.Storage("failed to generate csrf token", err)
	}
	session.CSRFToken = csrf
	a.mu.Unlock()

	encoded, err := a.cookies.Encode(SessionCookieName, sessionID)
	if err != nil {
		return "", apierrors.Storage("failed to sign session cookie", err)
	}

	fqdn, err := url.Parse(a.config.FQDN())
	if err != nil {
		return "", apierrors.Storage("configured FQDN is not a valid URL", err)
	}

	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    encoded,
		Domain:   fqdn.Hostname(),
		HttpOnly: true,
		Secure:   fqdn.Scheme == "https",
		Path:     "/",
	})

	return a.oauthConfig.AuthCodeURL(csrf), nil
}

// CompleteLoginSessionCallback is the callback phase: it validates the
// CSRF token and signed cookie, exchanges the code, fetches the external
// profile, registers the user, and marks the session complete.
func (a *Authenticator) CompleteLoginSessionCallback(ctx context.Context, r *http.Request) error {
	code := r.URL.Query().Get("code")
	state := r.URL.Query().Get("state")
	if code == "" || state == "" {
		return apierrors.BadRequest("missing code or state query parameter")
	}

	cookie, err := r.Cookie(SessionCookieName)
	if err != nil {
		return apierrors.BadRequest("missing session cookie")
	}
	var sessionID string
	if err := a.cookies.Decode(SessionCookieName, cookie.Value, &sessionID); err != nil {
		return apierrors.BadRequest("invalid session cookie")
	}

	a.mu.RLock()
	session, ok := a.sessions[sessionID]
	a.mu.RUnlock()
	if !ok {
		return apierrors.Unauthorized("unknown login session")
	}
	if session.CSRFToken == "" || state != session.CSRFToken {
		return apierrors.BadRequest("csrf token mismatch")
	}

	token, err := a.oauthConfig.Exchange(ctx, code)
	if err != nil {
		return apierrors.Upstream("failed to exchange oauth code", err)
	}

	user, err := a.fetchProfile(ctx, token)
	if err != nil {
		return err
	}

	if err := a.users.RegisterUser(ctx, *user); err != nil {
		return apierrors.Storage("failed to register logged-in user", err)
	}

	a.mu.Lock()
	session.User = user
	a.mu.Unlock()

	return nil
}

// PollLoginSession reports the outcome of an in-flight login: (nil, nil)
// while pending, the User once the callback has completed (removing the
// session), or an Unauthorized error if the session is unknown.
func (a *Authenticator) PollLoginSession(sessionID string) (*User, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	session, ok := a.sessions[sessionID]
	if !ok {
		return nil, apierrors.Unauthorized("unknown login session")
	}
	if session.User == nil {
		return nil, nil
	}

	delete(a.sessions, sessionID)
	return session.User, nil
}

func (a *Authenticator) fetchProfile(ctx context.Context, token *oauth2.Token) (*User, error) {
	client := a.oauthConfig.Client(ctx, token)
	resp, err := client.Get(a.userInfoURL)
	if err != nil {
		return nil, apierrors.Upstream("failed to fetch external user profile", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, apierrors.Upstream(fmt.Sprintf("profile endpoint returned status %d: %s", resp.StatusCode, string(body)), nil)
	}

	var profile struct {
		Login string `json:"login"`
		Name  string `json:"name"`
		Email string `json:"email"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&profile); err != nil {
		return nil, apierrors.Upstream("failed to decode external user profile", err)
	}
	if profile.Login == "" {
		return nil, apierrors.Upstream("external profile did not include a login", nil)
	}

	return &User{Name: profile.Login, Email: profile.Email, FullName: profile.Name}, nil
}

func randomID() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
