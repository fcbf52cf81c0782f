package service

import (
	"strings"

	"github.com/rl1809/storefront/internal/core/domain"
)

// Filter returns the products matching both the active category and the
// case-insensitive title query, in their original order. It never aliases products.
func Filter(products []domain.Product, activeCategory, searchQuery string) []domain.Product {
	query := strings.ToLower(searchQuery)

	out := make([]domain.Product, 0, len(products))
	for _, p := range products {
		if activeCategory != domain.AllCategories && p.Category != activeCategory {
			continue
		}
		if !strings.Contains(strings.ToLower(p.Title), query) {
			continue
		}
		out = append(out, p)
	}
	return out
}
