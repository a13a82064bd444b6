package auth

import "time"

// User is an authenticated identity. The reference implementation keeps
// this in memory only; the source's durable-account story is explicitly
// out of scope.
type User struct {
	Name     string `json:"name"`
	Email    string `json:"email,omitempty"`
	FullName string `json:"full_name,omitempty"`
}

// LoginSession tracks one in-flight OAuth login, from the initial
// /-/v1/login POST through the redirect and callback phases, until poll
// observes a completed user and removes it.
type LoginSession struct {
	InitializedAt time.Time
	Hostname      string
	CSRFToken     string
	User          *User
}

// TokenSession binds an issued bearer token to the user it authenticates.
type TokenSession struct {
	InitializedAt time.Time
	User          User
}
