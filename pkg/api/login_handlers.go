package api

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/platinummonkey/registry/pkg/httputil"
)

type startLoginRequest struct {
	Hostname string `json:"hostname"`
}

type startLoginResponse struct {
	DoneURL  string `json:"doneUrl"`
	LoginURL string `json:"loginUrl"`
}

// startLogin handles POST /-/v1/login.
func (s *Server) startLogin(w http.ResponseWriter, r *http.Request) {
	var req startLoginRequest
	// A missing or empty body is valid; hostname is optional.
	_ = json.NewDecoder(r.Body).Decode(&req)

	sessionID, err := s.policy.StartLoginSession(req.Hostname)
	if err != nil {
		writeError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, startLoginResponse{
		DoneURL:  fmt.Sprintf("%s/-/v1/login/poll/%s", s.publicBaseURL, sessionID),
		LoginURL: fmt.Sprintf("%s/-/v1/login/www/%s", s.publicBaseURL, sessionID),
	})
}

type pollLoginResponse struct {
	Token string `json:"token"`
}

// pollLogin handles GET /-/v1/login/poll/{session}.
func (s *Server) pollLogin(w http.ResponseWriter, r *http.Request) {
	session := mux.Vars(r)["session"]

	user, err := s.policy.PollLoginSession(session)
	if err != nil {
		writeError(w, err)
		return
	}
	if user == nil {
		w.Header().Set("retry-after", "5")
		w.WriteHeader(http.StatusAccepted)
		return
	}

	token, err := s.policy.StartTokenSession(*user)
	if err != nil {
		writeError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, pollLoginResponse{Token: token})
}

const loginSuccessHTML = `<!DOCTYPE html>
<html><head><title>Login successful</title></head>
<body><p>You are logged in. You can close this window.</p></body></html>`

// loginWWW handles both phases of the OAuth flow. With a session id in the
// path it is the redirect phase (the npm CLI opened this URL in a
// browser); without one, it is the provider's callback.
func (s *Server) loginWWW(w http.ResponseWriter, r *http.Request) {
	session, hasSession := mux.Vars(r)["session"]
	if hasSession && session != "" {
		url, err := s.policy.CompleteLoginSessionRedirect(w, session)
		if err != nil {
			writeError(w, err)
			return
		}
		http.Redirect(w, r, url, http.StatusTemporaryRedirect)
		return
	}

	if err := s.policy.CompleteLoginSessionCallback(r.Context(), r); err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(loginSuccessHTML))
}
