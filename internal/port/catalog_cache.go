package port

import (
	"context"

	"github.com/rl1809/storefront/internal/core/domain"
)

type CatalogCache interface {
	// LoadProducts returns a cached product list, false on miss or cache failure
	LoadProducts(ctx context.Context) ([]domain.Product, bool)

	// StoreProducts saves a product list snapshot, best effort
	StoreProducts(ctx context.Context, products []domain.Product)

	// EvictProducts drops the cached snapshot, best effort
	EvictProducts(ctx context.Context)
}
