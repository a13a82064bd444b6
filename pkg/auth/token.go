package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/platinummonkey/registry/pkg/apierrors"
)

const (
	// TokenPrefix identifies bearer tokens issued by this registry.
	TokenPrefix = "registry_"
	// TokenLength is the number of random bytes (256 bits) backing a token.
	TokenLength = 32
)

// TokenGenerator mints and hashes bearer tokens.
type TokenGenerator struct{}

// NewTokenGenerator creates a new token generator.
func NewTokenGenerator() *TokenGenerator {
	return &TokenGenerator{}
}

// GenerateToken creates a new bearer token, formatted "registry_<base64url>".
func (tg *TokenGenerator) GenerateToken() (string, error) {
	randomBytes := make([]byte, TokenLength)
	if _, err := rand.Read(randomBytes); err != nil {
		return "", fmt.Errorf("failed to generate random bytes: %w", err)
	}
	return TokenPrefix + base64.RawURLEncoding.EncodeToString(randomBytes), nil
}

// HashToken computes the lookup key for a token: its own value is never
// stored, only this hash.
func (tg *TokenGenerator) HashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

// ValidateTokenFormat checks a token's shape before attempting a lookup.
func (tg *TokenGenerator) ValidateTokenFormat(token string) error {
	if !strings.HasPrefix(token, TokenPrefix) {
		return fmt.Errorf("token must start with %q", TokenPrefix)
	}
	encoded := strings.TrimPrefix(token, TokenPrefix)
	if encoded == "" {
		return fmt.Errorf("token has nothing after %q", TokenPrefix)
	}
	if _, err := base64.RawURLEncoding.DecodeString(encoded); err != nil {
		return fmt.Errorf("invalid token encoding: %w", err)
	}
	return nil
}

// TokenAuthorizer implements the bearer-token session half of the policy:
// start_session mints a token bound to a user, authenticate_session(_bearer)
// looks one up. Sessions live until explicitly removed; there is no
// expiry, matching the source's token-session lifecycle.
type TokenAuthorizer struct {
	generator *TokenGenerator

	mu       sync.RWMutex
	sessions map[string]TokenSession // keyed by token hash
}

// NewTokenAuthorizer creates an empty, in-memory token authorizer.
func NewTokenAuthorizer() *TokenAuthorizer {
	return &TokenAuthorizer{
		generator: NewTokenGenerator(),
		sessions:  make(map[string]TokenSession),
	}
}

// StartSession mints a token for user and stores the binding.
func (a *TokenAuthorizer) StartSession(user User) (string, error) {
	token, err := a.generator.GenerateToken()
	if err != nil {
		return "", apierrors.Storage("failed to generate bearer token", err)
	}

	a.mu.Lock()
	a.sessions[a.generator.HashToken(token)] = TokenSession{InitializedAt: time.Now(), User: user}
	a.mu.Unlock()

	return token, nil
}

// AuthenticateSessionBearer looks up the user bound to token.
func (a *TokenAuthorizer) AuthenticateSessionBearer(token string) (*User, error) {
	if err := a.generator.ValidateTokenFormat(token); err != nil {
		return nil, apierrors.Unauthorized("malformed bearer token")
	}

	a.mu.RLock()
	session, ok := a.sessions[a.generator.HashToken(token)]
	a.mu.RUnlock()
	if !ok {
		return nil, apierrors.Unauthorized("unknown bearer token")
	}

	user := session.User
	return &user, nil
}

// AuthenticateSession extracts the bearer token from r's Authorization
// header (case-insensitive "Bearer" scheme, whitespace trimmed) and
// delegates to AuthenticateSessionBearer.
func (a *TokenAuthorizer) AuthenticateSession(r *http.Request) (*User, error) {
	header := strings.TrimSpace(r.Header.Get("Authorization"))
	if header == "" {
		return nil, apierrors.Unauthorized("missing Authorization header")
	}

	const scheme = "bearer "
	if len(header) < len(scheme) || !strings.EqualFold(header[:len(scheme)], scheme) {
		return nil, apierrors.Unauthorized("Authorization header is not a bearer token")
	}

	token := strings.TrimSpace(header[len(scheme):])
	return a.AuthenticateSessionBearer(token)
}
