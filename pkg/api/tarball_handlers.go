package api

import (
	"io"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"github.com/platinummonkey/registry/pkg/apierrors"
	"github.com/platinummonkey/registry/pkg/packageid"
)

// getTarball handles GET /{pkg}/-/{tail}.
func (s *Server) getTarball(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	pkg, err := parsePackageID(vars["pkg"])
	if err != nil {
		writeError(w, err)
		return
	}
	s.streamTarball(w, r, pkg, vars["tail"])
}

// getTarballScoped handles GET /@{scope}/{pkg}/-/{tail}.
func (s *Server) getTarballScoped(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	pkg := packageid.Identifier{Scope: vars["scope"], Name: vars["pkg"]}
	s.streamTarball(w, r, pkg, vars["tail"])
}

func (s *Server) streamTarball(w http.ResponseWriter, r *http.Request, pkg packageid.Identifier, tail string) {
	version, err := parseTarballVersion(pkg.Name, tail)
	if err != nil {
		writeError(w, err)
		return
	}

	rc, err := s.policy.StreamTarball(r.Context(), pkg, version)
	if err != nil {
		writeError(w, err)
		return
	}
	defer rc.Close()

	w.Header().Set("Content-Type", "application/octet-stream")
	io.Copy(w, rc)
}

// parseTarballVersion extracts the version from a tarball filename tail,
// given the owning package's bare name (scope excluded). tail must equal
// "{name}-{version}.tgz" exactly.
func parseTarballVersion(name, tail string) (string, error) {
	prefix := name + "-"
	if !strings.HasPrefix(tail, prefix) || !strings.HasSuffix(tail, ".tgz") {
		return "", apierrors.BadRequest("tarball filename does not match the package name")
	}
	version := tail[len(prefix) : len(tail)-len(".tgz")]
	if version == "" {
		return "", apierrors.BadRequest("tarball filename is missing a version")
	}
	return version, nil
}
