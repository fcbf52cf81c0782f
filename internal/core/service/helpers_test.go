package service

import (
	"context"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/rl1809/storefront/internal/core/domain"
)

func product(id int, title, category, price string) domain.Product {
	return domain.Product{
		ID:       id,
		Title:    title,
		Category: category,
		Price:    decimal.RequireFromString(price),
	}
}

// Mock CatalogSource
type mockSource struct {
	products []domain.Product
	err      error
	panicMsg string

	mu    sync.Mutex
	calls int
}

func (m *mockSource) FetchProducts(ctx context.Context) ([]domain.Product, error) {
	m.mu.Lock()
	m.calls++
	m.mu.Unlock()

	if m.panicMsg != "" {
		panic(m.panicMsg)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return m.products, m.err
}

func (m *mockSource) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

func loadedState(products ...domain.Product) State {
	s, _ := Reduce(NewState(), CatalogLoaded{Catalog: domain.NewCatalog(products)})
	return s
}
