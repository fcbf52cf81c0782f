package service

import (
	"errors"
	"fmt"

	"github.com/rl1809/storefront/internal/core/domain"
)

var (
	ErrUnknownProduct  = errors.New("unknown product")
	ErrUnknownCategory = errors.New("unknown category")
	ErrCatalogLoading  = errors.New("catalog is still loading")
)

// State is the whole storefront session. Transitions go through Reduce only.
type State struct {
	Loading        bool
	Catalog        domain.Catalog
	ActiveCategory string
	SearchQuery    string
	Cart           domain.Cart
	CartOpen       bool
}

func NewState() State {
	return State{
		Loading:        true,
		Catalog:        domain.EmptyCatalog(),
		ActiveCategory: domain.AllCategories,
		Cart:           domain.NewCart(),
	}
}

type Action interface {
	Name() string
}

// CatalogLoaded completes the one catalog load of the session. Err marks a failed load.
type CatalogLoaded struct {
	Catalog domain.Catalog
	Err     error
}

type SelectCategory struct {
	Category string
}

type SetSearchQuery struct {
	Query string
}

type AddToCart struct {
	ProductID int
}

type IncreaseQuantity struct {
	Index int
}

type DecreaseQuantity struct {
	Index int
}

type RemoveItem struct {
	Index int
}

type ToggleCart struct{}

// Checkout is accepted but has no effect: there is no order submission.
type Checkout struct{}

func (CatalogLoaded) Name() string    { return "catalog_loaded" }
func (SelectCategory) Name() string   { return "select_category" }
func (SetSearchQuery) Name() string   { return "set_search_query" }
func (AddToCart) Name() string        { return "add_to_cart" }
func (IncreaseQuantity) Name() string { return "increase_quantity" }
func (DecreaseQuantity) Name() string { return "decrease_quantity" }
func (RemoveItem) Name() string       { return "remove_item" }
func (ToggleCart) Name() string       { return "toggle_cart" }
func (Checkout) Name() string         { return "checkout" }

// Reduce applies a to s and returns the next state. On error the returned
// state is s unchanged.
func Reduce(s State, a Action) (State, error) {
	switch a := a.(type) {
	case CatalogLoaded:
		if !s.Loading {
			return s, nil
		}
		s.Loading = false
		if a.Err != nil {
			s.Catalog = domain.EmptyCatalog()
			return s, nil
		}
		if a.Catalog.Categories == nil {
			a.Catalog = domain.NewCatalog(a.Catalog.Products)
		}
		s.Catalog = a.Catalog

	case SelectCategory:
		if !s.Catalog.HasCategory(a.Category) {
			return s, fmt.Errorf("%w: %q", ErrUnknownCategory, a.Category)
		}
		s.ActiveCategory = a.Category

	case SetSearchQuery:
		s.SearchQuery = a.Query

	case AddToCart:
		if s.Loading {
			return s, ErrCatalogLoading
		}
		p, ok := s.Catalog.ProductByID(a.ProductID)
		if !ok {
			return s, fmt.Errorf("%w: id %d", ErrUnknownProduct, a.ProductID)
		}
		s.Cart = s.Cart.Add(p)

	case IncreaseQuantity:
		cart, err := s.Cart.Increase(a.Index)
		if err != nil {
			return s, err
		}
		s.Cart = cart

	case DecreaseQuantity:
		cart, err := s.Cart.Decrease(a.Index)
		if err != nil {
			return s, err
		}
		s.Cart = cart

	case RemoveItem:
		cart, err := s.Cart.Remove(a.Index)
		if err != nil {
			return s, err
		}
		s.Cart = cart

	case ToggleCart:
		s.CartOpen = !s.CartOpen

	case Checkout:

	default:
		return s, fmt.Errorf("unsupported action %T", a)
	}
	return s, nil
}

// FilteredProducts is the product grid for the current category and query.
func (s State) FilteredProducts() []domain.Product {
	return Filter(s.Catalog.Products, s.ActiveCategory, s.SearchQuery)
}

// View is a read-only snapshot of everything the storefront renders.
type View struct {
	Loading        bool
	Categories     []string
	ActiveCategory string
	SearchQuery    string
	Products       []domain.Product
	CartLines      []domain.CartLine
	CartOpen       bool
	ItemCount      int
	Total          string
}

func (s State) View() View {
	categories := make([]string, len(s.Catalog.Categories))
	copy(categories, s.Catalog.Categories)
	return View{
		Loading:        s.Loading,
		Categories:     categories,
		ActiveCategory: s.ActiveCategory,
		SearchQuery:    s.SearchQuery,
		Products:       s.FilteredProducts(),
		CartLines:      s.Cart.Lines(),
		CartOpen:       s.CartOpen,
		ItemCount:      s.Cart.TotalItemCount(),
		Total:          s.Cart.FormattedTotal(),
	}
}
