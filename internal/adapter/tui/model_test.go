package tui

import (
	"context"
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/go-cmp/cmp"
	"github.com/shopspring/decimal"

	"github.com/rl1809/storefront/internal/core/domain"
)

type stubLoader struct {
	catalog  domain.Catalog
	err      error
	panicMsg string
}

func (s stubLoader) Load(ctx context.Context) (domain.Catalog, error) {
	if s.panicMsg != "" {
		panic(s.panicMsg)
	}
	return s.catalog, s.err
}

func product(id int, title, category, price string) domain.Product {
	return domain.Product{ID: id, Title: title, Category: category, Price: decimal.RequireFromString(price)}
}

func testCatalog() domain.Catalog {
	return domain.NewCatalog([]domain.Product{
		product(1, "Red Shoe", "shoes", "49.99"),
		product(2, "Blue Shirt", "shirts", "19.50"),
		product(3, "Blue Shoe", "shoes", "59.00"),
	})
}

func keys(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func send(t *testing.T, m Model, msgs ...tea.Msg) Model {
	t.Helper()
	for _, msg := range msgs {
		next, _ := m.Update(msg)
		var ok bool
		m, ok = next.(Model)
		if !ok {
			t.Fatalf("Update returned %T, want Model", next)
		}
	}
	return m
}

func loadedModel(t *testing.T) Model {
	t.Helper()
	m := New(context.Background(), stubLoader{}, nil)
	return send(t, m,
		tea.WindowSizeMsg{Width: 120, Height: 40},
		catalogLoadedMsg{catalog: testCatalog()},
	)
}

func TestModel_InitialLoading(t *testing.T) {
	m := New(context.Background(), stubLoader{}, nil)

	if !m.State().Loading {
		t.Error("expected loading on start")
	}
	if !strings.Contains(m.View(), "Loading products...") {
		t.Errorf("expected loading message, got:\n%s", m.View())
	}
	if m.Init() == nil {
		t.Error("expected Init to start the catalog load")
	}
}

func TestModel_CatalogLoaded(t *testing.T) {
	m := loadedModel(t)

	view := m.View()
	for _, want := range []string{"Red Shoe", "Blue Shirt", "Rs. 49.99", "All", "shoes", "shirts"} {
		if !strings.Contains(view, want) {
			t.Errorf("expected view to contain %q", want)
		}
	}
	if strings.Contains(view, "Loading products...") {
		t.Error("expected loading message to be gone")
	}
}

func TestModel_CatalogLoadFailed(t *testing.T) {
	m := New(context.Background(), stubLoader{}, nil)
	m = send(t, m, catalogLoadedMsg{catalog: domain.EmptyCatalog(), err: errors.New("offline")})

	if m.State().Loading {
		t.Error("expected loading cleared")
	}
	if !strings.Contains(m.View(), "No products found.") {
		t.Errorf("expected empty state, got:\n%s", m.View())
	}
}

func TestLoadCatalogCmd(t *testing.T) {
	msg := loadCatalog(context.Background(), stubLoader{catalog: testCatalog()})()

	loaded, ok := msg.(catalogLoadedMsg)
	if !ok {
		t.Fatalf("expected catalogLoadedMsg, got %T", msg)
	}
	if loaded.err != nil || len(loaded.catalog.Products) != 3 {
		t.Errorf("unexpected load result: %+v", loaded)
	}
}

func TestLoadCatalogCmd_PanicBecomesFailedLoad(t *testing.T) {
	msg := loadCatalog(context.Background(), stubLoader{panicMsg: "boom"})()

	loaded, ok := msg.(catalogLoadedMsg)
	if !ok {
		t.Fatalf("expected catalogLoadedMsg, got %T", msg)
	}
	if loaded.err == nil {
		t.Error("expected an error for a panicking loader")
	}

	m := send(t, New(context.Background(), stubLoader{}, nil), loaded)
	if m.State().Loading {
		t.Error("expected loading cleared after a panic")
	}
}

func TestModel_CategoryTabs(t *testing.T) {
	m := loadedModel(t)

	m = send(t, m, tea.KeyMsg{Type: tea.KeyTab})
	if got := m.State().ActiveCategory; got != "shoes" {
		t.Errorf("expected shoes, got %q", got)
	}
	if len(m.visible) != 2 {
		t.Errorf("expected 2 shoes, got %d", len(m.visible))
	}

	m = send(t, m, tea.KeyMsg{Type: tea.KeyShiftTab}, tea.KeyMsg{Type: tea.KeyShiftTab})
	if got := m.State().ActiveCategory; got != "shirts" {
		t.Errorf("expected wrap to shirts, got %q", got)
	}
}

func TestModel_Search(t *testing.T) {
	m := loadedModel(t)

	m = send(t, m, keys("/"), keys("b"), keys("l"), keys("u"), keys("e"), keys(" "), keys("S"), keys("h"), keys("o"))
	if got := m.State().SearchQuery; got != "blue Sho" {
		t.Errorf("expected query %q, got %q", "blue Sho", got)
	}

	var got []string
	for _, p := range m.visible {
		got = append(got, p.Title)
	}
	if diff := cmp.Diff([]string{"Blue Shoe"}, got); diff != "" {
		t.Errorf("unexpected products (-want +got):\n%s", diff)
	}

	// Letters typed into search never reach the cart bindings.
	if !m.State().Cart.IsEmpty() {
		t.Error("expected cart untouched while searching")
	}

	m = send(t, m, tea.KeyMsg{Type: tea.KeyEsc}, keys("a"))
	if m.State().Cart.TotalItemCount() != 1 {
		t.Error("expected add to work after leaving search")
	}
}

func TestModel_SearchNoMatch(t *testing.T) {
	m := loadedModel(t)

	m = send(t, m, keys("/"), keys("z"), keys("z"))

	if !strings.Contains(m.View(), "No products found.") {
		t.Errorf("expected empty state, got:\n%s", m.View())
	}
}

func TestModel_AddToCartBadge(t *testing.T) {
	m := loadedModel(t)

	if strings.Contains(m.renderHeader(), "Cart 1") {
		t.Error("expected no badge for an empty cart")
	}

	m = send(t, m, tea.KeyMsg{Type: tea.KeyEnter}, keys("a"), tea.KeyMsg{Type: tea.KeyDown}, keys("a"))

	s := m.State()
	if s.Cart.Len() != 2 || s.Cart.TotalItemCount() != 3 {
		t.Fatalf("expected 2 lines and 3 items, got %d and %d", s.Cart.Len(), s.Cart.TotalItemCount())
	}
	if !strings.Contains(m.renderHeader(), "3") {
		t.Errorf("expected badge with 3, got %q", m.renderHeader())
	}
}

func TestModel_CartPanel(t *testing.T) {
	m := loadedModel(t)
	m = send(t, m, keys("a"), tea.KeyMsg{Type: tea.KeyDown}, keys("a"), keys("c"))

	if !m.State().CartOpen {
		t.Fatal("expected cart open")
	}
	if view := m.View(); !strings.Contains(view, "Total: Rs. 69.49") {
		t.Errorf("expected total in cart panel, got:\n%s", view)
	}

	m = send(t, m, keys("+"), keys("+"), keys("-"))
	first, _ := m.State().Cart.Line(0)
	if first.Quantity != 2 {
		t.Errorf("expected quantity 2, got %d", first.Quantity)
	}

	m = send(t, m, keys("o"))
	if m.State().Cart.TotalItemCount() != 3 {
		t.Error("expected checkout to change nothing")
	}

	m = send(t, m, tea.KeyMsg{Type: tea.KeyDown}, keys("d"), keys("d"))
	if !m.State().Cart.IsEmpty() {
		t.Fatalf("expected empty cart, got %d lines", m.State().Cart.Len())
	}
	if !strings.Contains(m.View(), "Your cart is empty.") {
		t.Errorf("expected empty cart message, got:\n%s", m.View())
	}

	m = send(t, m, keys("c"))
	if m.State().CartOpen {
		t.Error("expected cart closed")
	}
}

func TestModel_Quit(t *testing.T) {
	m := loadedModel(t)

	for _, msg := range []tea.KeyMsg{keys("q"), {Type: tea.KeyCtrlC}} {
		_, cmd := m.Update(msg)
		if cmd == nil {
			t.Fatalf("expected a quit command for %q", msg.String())
		}
		if _, ok := cmd().(tea.QuitMsg); !ok {
			t.Errorf("expected tea.QuitMsg for %q", msg.String())
		}
	}
}
