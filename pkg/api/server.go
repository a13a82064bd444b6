// Package api implements the npm HTTP registry protocol surface: the
// packument/tarball read-through routes, the publish endpoint, the OAuth
// login-session routes, and the user-lookup routes. Every handler is a
// thin adapter between gorilla/mux and the policy composer; none of the
// domain logic (diffing, validation, caching) lives in this package.
package api

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/platinummonkey/registry/pkg/apierrors"
	"github.com/platinummonkey/registry/pkg/packageid"
	"github.com/platinummonkey/registry/pkg/policy"
)

// Server is the npm registry HTTP surface. It holds a *policy.Policy and
// nothing else domain-specific; every handler is a thin mux.Vars + policy
// delegation.
type Server struct {
	router        *mux.Router
	policy        *policy.Policy
	publicBaseURL string
}

// NewServer builds a Server and registers its routes. publicBaseURL is
// used to rewrite a freshly published version's tarball URL to this
// registry's own canonical location.
func NewServer(p *policy.Policy, publicBaseURL string) *Server {
	s := &Server{
		router:        mux.NewRouter(),
		policy:        p,
		publicBaseURL: publicBaseURL,
	}
	s.setupRoutes()
	return s
}

// ServeHTTP implements http.Handler by delegating to the underlying router.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupRoutes() {
	s.router.HandleFunc("/-/v1/login", s.startLogin).Methods(http.MethodPost)
	s.router.HandleFunc("/-/v1/login/poll/{session}", s.pollLogin).Methods(http.MethodGet)
	s.router.HandleFunc("/-/v1/login/www/{session}", s.loginWWW)
	s.router.HandleFunc("/-/v1/login/www", s.loginWWW)
	s.router.HandleFunc("/-/user/org.couchdb.user:{user}", s.getUser).Methods(http.MethodGet)
	s.router.HandleFunc("/-/whoami", s.whoami).Methods(http.MethodGet)

	s.router.HandleFunc("/@{scope}/{pkg}/-/{tail:.*}", s.getTarballScoped).Methods(http.MethodGet)
	s.router.HandleFunc("/@{scope}/{pkg}/-rev/{rev}", s.publishScoped).Methods(http.MethodPut)
	s.router.HandleFunc("/@{scope}/{pkg}", s.getPackumentScoped).Methods(http.MethodGet)
	s.router.HandleFunc("/@{scope}/{pkg}", s.publishScoped).Methods(http.MethodPut)

	s.router.HandleFunc("/{pkg}/-/{tail:.*}", s.getTarball).Methods(http.MethodGet)
	s.router.HandleFunc("/{pkg}/-rev/{rev}", s.publish).Methods(http.MethodPut)
	s.router.HandleFunc("/{pkg}", s.getPackument).Methods(http.MethodGet)
	s.router.HandleFunc("/{pkg}", s.publish).Methods(http.MethodPut)
}

// parsePackageID parses a single-segment package identifier, wrapping a
// decode/shape failure as a BadRequest so the HTTP layer reports 400
// rather than the 500 a bare parse error would map to.
func parsePackageID(segment string) (packageid.Identifier, error) {
	pkg, err := packageid.Parse(segment)
	if err != nil {
		return packageid.Identifier{}, apierrors.BadRequest(err.Error())
	}
	return pkg, nil
}
