package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/platinummonkey/registry/pkg/apierrors"
	"github.com/platinummonkey/registry/pkg/httputil"
	"github.com/platinummonkey/registry/pkg/packageid"
	"github.com/platinummonkey/registry/pkg/packument"
	"github.com/platinummonkey/registry/pkg/publish"
)

type publishAck struct {
	OK bool   `json:"ok"`
	ID string `json:"id"`
}

// publish handles PUT /{pkg} and PUT /{pkg}/-rev/{rev} — both carry the
// same semantics; the rev segment is not consulted for optimistic
// concurrency (see the rev-semantics design note), only parsed off.
func (s *Server) publish(w http.ResponseWriter, r *http.Request) {
	pkg, err := parsePackageID(mux.Vars(r)["pkg"])
	if err != nil {
		writeError(w, err)
		return
	}
	s.applyPublish(w, r, pkg)
}

// publishScoped handles PUT /@{scope}/{pkg} and PUT /@{scope}/{pkg}/-rev/{rev}.
func (s *Server) publishScoped(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	pkg := packageid.Identifier{Scope: vars["scope"], Name: vars["pkg"]}
	s.applyPublish(w, r, pkg)
}

func (s *Server) applyPublish(w http.ResponseWriter, r *http.Request, pkg packageid.Identifier) {
	var submitted packument.Packument
	if err := json.NewDecoder(r.Body).Decode(&submitted); err != nil {
		writeError(w, apierrors.BadRequest("request body is not a valid packument"))
		return
	}

	ctx := r.Context()
	old, err := s.loadExisting(ctx, pkg)
	if err != nil {
		writeError(w, err)
		return
	}

	mod, err := publish.Diff(old, submitted)
	if err != nil {
		writeError(w, err)
		return
	}

	merged := publish.Apply(old, mod, pkg, s.publicBaseURL)

	if mod.Kind == publish.KindAddVersion {
		if err := s.policy.PutTarball(ctx, pkg, mod.Version, mod.Tarball); err != nil {
			writeError(w, err)
			return
		}
	}

	data, err := json.Marshal(merged)
	if err != nil {
		writeError(w, apierrors.Storage("failed to serialize merged packument", err))
		return
	}
	if err := s.policy.PutPackument(ctx, pkg, data); err != nil {
		writeError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, publishAck{OK: true, ID: pkg.String()})
}

// loadExisting returns the packument on file for pkg, or the zero value if
// this is a brand new package (a NotFound from the underlying store is not
// an error here — a first publish has nothing to diff against).
func (s *Server) loadExisting(ctx context.Context, pkg packageid.Identifier) (packument.Packument, error) {
	data, err := s.policy.GetPackument(ctx, pkg)
	if apierrors.Is(err, apierrors.KindNotFound) {
		return packument.Packument{}, nil
	}
	if err != nil {
		return packument.Packument{}, err
	}

	var old packument.Packument
	if err := json.Unmarshal(data, &old); err != nil {
		return packument.Packument{}, apierrors.Storage("failed to parse stored packument", err)
	}
	return old, nil
}
