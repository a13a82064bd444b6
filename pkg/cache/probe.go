package cache

import (
	"context"

	"github.com/platinummonkey/registry/pkg/apierrors"
)

// StoreProber adapts a Store to a health-check probe: it asks the backend
// for metadata on a key that is never expected to exist. A NotFound error
// means the backend answered, so it is reachable; anything else is a real
// failure.
type StoreProber struct {
	Store Store
}

// Probe reports whether the wrapped Store is reachable.
func (p StoreProber) Probe(ctx context.Context) error {
	_, err := p.Store.Metadata(ctx, "__healthcheck__")
	if err == nil || apierrors.Is(err, apierrors.KindNotFound) {
		return nil
	}
	return err
}
