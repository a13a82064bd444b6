package api

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/platinummonkey/registry/pkg/httputil"
)

// couchUser renders a registered identity in the CouchDB user-document
// shape the npm CLI expects from GET /-/user/org.couchdb.user:{user}.
type couchUser struct {
	ID       string `json:"_id"`
	Name     string `json:"name"`
	Email    string `json:"email,omitempty"`
	FullName string `json:"fullname,omitempty"`
}

// getUser handles GET /-/user/org.couchdb.user:{user}.
func (s *Server) getUser(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["user"]

	user, err := s.policy.GetUser(r.Context(), name)
	if err != nil {
		writeError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, couchUser{
		ID:       "org.couchdb.user:" + user.Name,
		Name:     user.Name,
		Email:    user.Email,
		FullName: user.FullName,
	})
}

type whoamiResponse struct {
	Username string `json:"username"`
}

// whoami handles GET /-/whoami.
func (s *Server) whoami(w http.ResponseWriter, r *http.Request) {
	user, err := s.policy.AuthenticateSession(r)
	if err != nil {
		writeError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, whoamiResponse{Username: user.Name})
}
