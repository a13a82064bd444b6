package registrystore

import (
	"encoding/json"
	"strings"

	"github.com/platinummonkey/registry/pkg/apierrors"
	"github.com/platinummonkey/registry/pkg/packument"
)

// rewriteTarballs rewrites every versions[*].dist.tarball URL in a cached
// packument document from the upstream base URL to the public-facing one,
// so clients always fetch tarballs through this registry rather than
// reaching past it to the origin.
func rewriteTarballs(data []byte, upstreamBaseURL, publicBaseURL string) ([]byte, error) {
	if upstreamBaseURL == "" || publicBaseURL == "" || upstreamBaseURL == publicBaseURL {
		return data, nil
	}

	var p packument.Packument
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, apierrors.Storage("cached packument is not valid JSON", err)
	}

	for version, pv := range p.Versions {
		pv.Dist.Tarball = strings.Replace(pv.Dist.Tarball, upstreamBaseURL, publicBaseURL, 1)
		p.Versions[version] = pv
	}

	out, err := json.Marshal(p)
	if err != nil {
		return nil, apierrors.Storage("failed to re-marshal rewritten packument", err)
	}
	return out, nil
}
