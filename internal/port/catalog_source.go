package port

import (
	"context"

	"github.com/rl1809/storefront/internal/core/domain"
)

type CatalogSource interface {
	// FetchProducts returns the product list in source order
	FetchProducts(ctx context.Context) ([]domain.Product, error)
}
