package domain

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// AllCategories is the sentinel category that disables category filtering.
const AllCategories = "All"

type Product struct {
	ID        int             `json:"id"`
	Title     string          `json:"title"`
	Category  string          `json:"category"`
	Price     decimal.Decimal `json:"price"`
	Thumbnail string          `json:"thumbnail"`
}

// Catalog is the product list loaded once per session together with its derived category set.
type Catalog struct {
	Products   []Product
	Categories []string
}

// NewCatalog copies products and derives the category set from them.
func NewCatalog(products []Product) Catalog {
	owned := make([]Product, len(products))
	copy(owned, products)
	return Catalog{
		Products:   owned,
		Categories: DeriveCategories(owned),
	}
}

// EmptyCatalog is what a session sees when the catalog could not be loaded.
func EmptyCatalog() Catalog {
	return NewCatalog(nil)
}

// DeriveCategories returns the AllCategories sentinel followed by the distinct
// product categories in first-seen order.
func DeriveCategories(products []Product) []string {
	categories := []string{AllCategories}
	seen := map[string]struct{}{AllCategories: {}}
	for _, p := range products {
		if _, ok := seen[p.Category]; ok {
			continue
		}
		seen[p.Category] = struct{}{}
		categories = append(categories, p.Category)
	}
	return categories
}

// ProductByID finds a product in the catalog.
func (c Catalog) ProductByID(id int) (Product, bool) {
	for _, p := range c.Products {
		if p.ID == id {
			return p, true
		}
	}
	return Product{}, false
}

func (c Catalog) HasCategory(category string) bool {
	for _, known := range c.Categories {
		if known == category {
			return true
		}
	}
	return false
}

var ErrInvalidProduct = errors.New("invalid product")

// ValidateProducts checks the invariants a loaded catalog relies on:
// unique IDs and non-negative prices.
func ValidateProducts(products []Product) error {
	seen := make(map[int]struct{}, len(products))
	for i, p := range products {
		if _, dup := seen[p.ID]; dup {
			return fmt.Errorf("%w: product %d: duplicate id %d", ErrInvalidProduct, i, p.ID)
		}
		seen[p.ID] = struct{}{}
		if p.Price.IsNegative() {
			return fmt.Errorf("%w: product %d: negative price %s", ErrInvalidProduct, p.ID, p.Price)
		}
	}
	return nil
}
