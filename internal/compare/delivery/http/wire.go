//go:build wireinject
// +build wireinject

package http

import (
	"github.com/google/wire"

	"github.com/tair/storefront-state/internal/compare"
	"github.com/tair/storefront-state/pkg/storage"
)

// InitializeCompareHandler builds the compare store and its HTTP handler on
// top of the given snapshot medium.
func InitializeCompareHandler(snapshots storage.SnapshotStore) (*CompareHandler, error) {
	wire.Build(
		compare.NewStore,
		NewCompareHandler,
	)
	return nil, nil
}
