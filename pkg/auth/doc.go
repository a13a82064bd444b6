// Package auth implements the registry's two session-oriented policy
// capabilities: the OAuth login-session state machine (Authenticator) and
// the bearer-token authorizer (TokenAuthorizer) it hands off to once a
// login completes. Both keep their session maps in memory behind a
// sync.RWMutex; neither persists across a process restart.
package auth
