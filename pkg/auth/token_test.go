package auth

import (
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/platinummonkey/registry/pkg/apierrors"
)

func TestTokenGenerator_GenerateToken(t *testing.T) {
	tg := NewTokenGenerator()

	token, err := tg.GenerateToken()
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(token, TokenPrefix))
	assert.Greater(t, len(token), len(TokenPrefix)+8)
}

func TestTokenGenerator_GenerateToken_Uniqueness(t *testing.T) {
	tg := NewTokenGenerator()
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		token, err := tg.GenerateToken()
		require.NoError(t, err)
		assert.False(t, seen[token])
		seen[token] = true
	}
}

func TestTokenGenerator_HashToken(t *testing.T) {
	tg := NewTokenGenerator()
	assert.Equal(t, tg.HashToken("registry_abc"), tg.HashToken("registry_abc"))
	assert.NotEqual(t, tg.HashToken("registry_abc"), tg.HashToken("registry_def"))
	assert.Len(t, tg.HashToken("registry_abc"), 64)
}

func TestTokenGenerator_ValidateTokenFormat(t *testing.T) {
	tg := NewTokenGenerator()

	tests := []struct {
		name    string
		token   string
		wantErr bool
	}{
		{"missing prefix", "abc123", true},
		{"wrong prefix", "other_abc123", true},
		{"empty token part", "registry_", true},
		{"invalid base64", "registry_!!!invalid!!!", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tg.ValidateTokenFormat(tt.token)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}

	valid, err := tg.GenerateToken()
	require.NoError(t, err)
	assert.NoError(t, tg.ValidateTokenFormat(valid))
}

func TestTokenAuthorizer_StartSessionThenAuthenticate(t *testing.T) {
	ta := NewTokenAuthorizer()
	user := User{Name: "octocat"}

	token, err := ta.StartSession(user)
	require.NoError(t, err)

	got, err := ta.AuthenticateSessionBearer(token)
	require.NoError(t, err)
	assert.Equal(t, user, *got)
}

func TestTokenAuthorizer_UnknownTokenIsUnauthorized(t *testing.T) {
	ta := NewTokenAuthorizer()
	_, err := ta.AuthenticateSessionBearer(TokenPrefix + "does-not-exist")
	require.Error(t, err)
	assert.True(t, apierrors.Is(err, apierrors.KindUnauthorized))
}

func TestTokenAuthorizer_AuthenticateSession(t *testing.T) {
	ta := NewTokenAuthorizer()
	user := User{Name: "octocat"}
	token, err := ta.StartSession(user)
	require.NoError(t, err)

	req, _ := http.NewRequest(http.MethodGet, "/-/whoami", nil)
	req.Header.Set("Authorization", "bearer "+token)

	got, err := ta.AuthenticateSession(req)
	require.NoError(t, err)
	assert.Equal(t, user, *got)
}

func TestTokenAuthorizer_AuthenticateSession_MissingHeader(t *testing.T) {
	ta := NewTokenAuthorizer()
	req, _ := http.NewRequest(http.MethodGet, "/-/whoami", nil)

	_, err := ta.AuthenticateSession(req)
	require.Error(t, err)
	assert.True(t, apierrors.Is(err, apierrors.KindUnauthorized))
}
