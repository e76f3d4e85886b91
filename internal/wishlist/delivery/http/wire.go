//go:build wireinject
// +build wireinject

package http

import (
	"github.com/google/wire"

	"github.com/tair/storefront-state/internal/wishlist"
	"github.com/tair/storefront-state/pkg/storage"
)

// InitializeWishlistHandler builds the wishlist store and its HTTP handler
// on top of the given snapshot medium.
func InitializeWishlistHandler(snapshots storage.SnapshotStore) (*WishlistHandler, error) {
	wire.Build(
		wishlist.NewStore,
		NewWishlistHandler,
	)
	return nil, nil
}
