//go:build wireinject
// +build wireinject

package http

import (
	"github.com/google/wire"

	"github.com/tair/storefront-state/internal/cart"
	"github.com/tair/storefront-state/pkg/storage"
)

// InitializeCartHandler builds the cart store and its HTTP handler on top of
// the given snapshot medium.
func InitializeCartHandler(snapshots storage.SnapshotStore) (*CartHandler, error) {
	wire.Build(
		cart.NewStore,
		NewCartHandler,
	)
	return nil, nil
}
