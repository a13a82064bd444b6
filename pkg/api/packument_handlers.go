package api

import (
	"io"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/platinummonkey/registry/pkg/packageid"
)

// getPackument handles GET /{pkg}.
func (s *Server) getPackument(w http.ResponseWriter, r *http.Request) {
	pkg, err := parsePackageID(mux.Vars(r)["pkg"])
	if err != nil {
		writeError(w, err)
		return
	}
	s.streamPackument(w, r, pkg)
}

// getPackumentScoped handles GET /@{scope}/{pkg}.
func (s *Server) getPackumentScoped(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	s.streamPackument(w, r, packageid.Identifier{Scope: vars["scope"], Name: vars["pkg"]})
}

func (s *Server) streamPackument(w http.ResponseWriter, r *http.Request, pkg packageid.Identifier) {
	rc, err := s.policy.StreamPackument(r.Context(), pkg)
	if err != nil {
		writeError(w, err)
		return
	}
	defer rc.Close()

	w.Header().Set("Content-Type", "application/json")
	if _, err := io.Copy(w, rc); err != nil {
		// Body already started; nothing more useful we can write now than
		// what the client already received.
		_ = err
	}
}
