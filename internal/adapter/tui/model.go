package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/rl1809/storefront/internal/core/domain"
	"github.com/rl1809/storefront/internal/core/service"
)

const (
	loadingText    = "Loading products..."
	noProductsText = "No products found."
	emptyCartText  = "Your cart is empty."
	currency       = "Rs. "

	// windows at least this wide also show the thumbnail column
	thumbnailMinWidth = 110
	thumbnailWidth    = 40
)

// catalogLoadedMsg carries the outcome of the session's catalog load.
type catalogLoadedMsg struct {
	catalog domain.Catalog
	err     error
}

// Loader is the catalog load the model triggers on start.
type Loader interface {
	Load(ctx context.Context) (domain.Catalog, error)
}

// Model is the storefront terminal view. All storefront state lives in a
// service.State and changes only through service.Reduce.
type Model struct {
	ctx    context.Context
	loader Loader
	log    *zap.Logger

	state   service.State
	visible []domain.Product

	width         int
	height        int
	showThumbnail bool

	search        textinput.Model
	searchFocused bool
	table         table.Model
	spinner       spinner.Model
	cartCursor    int

	styles Styles
}

func New(ctx context.Context, loader Loader, log *zap.Logger) Model {
	if log == nil {
		log = zap.NewNop()
	}

	t := table.New(
		table.WithColumns(productColumns(false)),
		table.WithFocused(true),
		table.WithHeight(15),
	)

	si := textinput.New()
	si.Placeholder = "Search products..."
	si.Prompt = "/ "
	si.CharLimit = 64
	si.Width = 32

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	m := Model{
		ctx:     ctx,
		loader:  loader,
		log:     log,
		state:   service.NewState(),
		search:  si,
		table:   t,
		spinner: sp,
		styles:  DefaultStyles(),
	}
	m.refreshRows()
	return m
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, loadCatalog(m.ctx, m.loader))
}

// loadCatalog always yields a catalogLoadedMsg, even if the loader panics, so
// the loading indicator is cleared exactly once.
func loadCatalog(ctx context.Context, loader Loader) tea.Cmd {
	return func() (msg tea.Msg) {
		defer func() {
			if r := recover(); r != nil {
				msg = catalogLoadedMsg{catalog: domain.EmptyCatalog(), err: fmt.Errorf("catalog load panicked: %v", r)}
			}
		}()
		catalog, err := loader.Load(ctx)
		return catalogLoadedMsg{catalog: catalog, err: err}
	}
}

// State returns the storefront state behind the view.
func (m Model) State() service.State {
	return m.state
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		if h := msg.Height - 10; h > 3 {
			m.table.SetHeight(h)
		}
		if wide := msg.Width >= thumbnailMinWidth; wide != m.showThumbnail {
			m.showThumbnail = wide
			// rows must never have more cells than the columns
			m.table.SetRows(nil)
			m.table.SetColumns(productColumns(wide))
			m.refreshRows()
		}
		return m, nil

	case catalogLoadedMsg:
		m.dispatch(service.CatalogLoaded{Catalog: msg.catalog, Err: msg.err})
		return m, nil

	case spinner.TickMsg:
		if !m.state.Loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		if m.searchFocused {
			return m.updateSearch(msg)
		}
		if m.state.CartOpen {
			return m.updateCart(msg)
		}
		return m.updateCatalog(msg)
	}
	return m, nil
}

func (m Model) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc, tea.KeyEnter:
		m.searchFocused = false
		m.search.Blur()
		return m, nil
	}

	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	if m.search.Value() != m.state.SearchQuery {
		m.dispatch(service.SetSearchQuery{Query: m.search.Value()})
	}
	return m, cmd
}

func (m Model) updateCatalog(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "/":
		m.searchFocused = true
		return m, m.search.Focus()
	case "tab":
		m.cycleCategory(1)
		return m, nil
	case "shift+tab":
		m.cycleCategory(-1)
		return m, nil
	case "c":
		m.dispatch(service.ToggleCart{})
		return m, nil
	case "enter", "a":
		if p, ok := m.selectedProduct(); ok {
			m.dispatch(service.AddToCart{ProductID: p.ID})
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m Model) updateCart(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "c", "esc":
		m.dispatch(service.ToggleCart{})
	case "up", "k":
		if m.cartCursor > 0 {
			m.cartCursor--
		}
	case "down", "j":
		if m.cartCursor < m.state.Cart.Len()-1 {
			m.cartCursor++
		}
	case "+", "=":
		m.dispatch(service.IncreaseQuantity{Index: m.cartCursor})
	case "-":
		m.dispatch(service.DecreaseQuantity{Index: m.cartCursor})
	case "d", "x":
		m.dispatch(service.RemoveItem{Index: m.cartCursor})
	case "o":
		m.dispatch(service.Checkout{})
	}
	return m, nil
}

func (m *Model) dispatch(a service.Action) {
	next, err := service.Reduce(m.state, a)
	if err != nil {
		m.log.Debug("action rejected", zap.String("action", a.Name()), zap.Error(err))
		return
	}
	m.state = next

	if n := m.state.Cart.Len(); m.cartCursor >= n {
		m.cartCursor = max(n-1, 0)
	}
	m.refreshRows()
}

func (m *Model) cycleCategory(step int) {
	categories := m.state.Catalog.Categories
	if len(categories) == 0 {
		return
	}
	current := 0
	for i, c := range categories {
		if c == m.state.ActiveCategory {
			current = i
			break
		}
	}
	next := (current + step + len(categories)) % len(categories)
	m.dispatch(service.SelectCategory{Category: categories[next]})
}

func (m *Model) refreshRows() {
	m.visible = m.state.FilteredProducts()

	rows := make([]table.Row, 0, len(m.visible))
	for _, p := range m.visible {
		row := table.Row{p.Title, p.Category, price(p.Price.StringFixed(2))}
		if m.showThumbnail {
			row = append(row, shortThumbnail(p.Thumbnail, thumbnailWidth))
		}
		rows = append(rows, row)
	}
	m.table.SetRows(rows)
	if c := m.table.Cursor(); c >= len(rows) || c < 0 {
		m.table.SetCursor(max(len(rows)-1, 0))
	}
}

func productColumns(withThumbnail bool) []table.Column {
	cols := []table.Column{
		{Title: "Product", Width: 36},
		{Title: "Category", Width: 18},
		{Title: "Price", Width: 12},
	}
	if withThumbnail {
		cols = append(cols, table.Column{Title: "Thumbnail", Width: thumbnailWidth})
	}
	return cols
}

// shortThumbnail drops the URI scheme and keeps the tail of the path when it
// does not fit in width cells.
func shortThumbnail(uri string, width int) string {
	if uri == "" {
		return "-"
	}
	if i := strings.Index(uri, "://"); i >= 0 {
		uri = uri[i+3:]
	}
	r := []rune(uri)
	if len(r) <= width || width < 2 {
		return uri
	}
	return "…" + string(r[len(r)-width+1:])
}

func (m Model) selectedProduct() (domain.Product, bool) {
	i := m.table.Cursor()
	if i < 0 || i >= len(m.visible) {
		return domain.Product{}, false
	}
	return m.visible[i], true
}

func (m Model) View() string {
	var sb strings.Builder

	sb.WriteString(m.renderHeader())
	sb.WriteString("\n")
	sb.WriteString(m.renderTabs())
	sb.WriteString("\n\n")

	body := m.renderBody()
	if m.state.CartOpen {
		body = lipgloss.JoinHorizontal(lipgloss.Top, body, "  ", m.renderCart())
	}
	sb.WriteString(body)
	sb.WriteString("\n\n")
	sb.WriteString(m.renderHelp())

	return sb.String()
}

func (m Model) renderHeader() string {
	searchStyle := m.styles.Search
	if m.searchFocused {
		searchStyle = m.styles.Focused
	}

	cart := "Cart"
	if n := m.state.Cart.TotalItemCount(); n > 0 {
		cart += " " + m.styles.Badge.Render(fmt.Sprint(n))
	}

	return lipgloss.JoinHorizontal(lipgloss.Center,
		m.styles.Title.Render("Storefront"),
		"   ",
		searchStyle.Render(m.search.View()),
		"   ",
		cart,
		"   ",
		m.styles.Muted.Render("[user]"),
	)
}

func (m Model) renderTabs() string {
	var sb strings.Builder
	for _, c := range m.state.Catalog.Categories {
		style := m.styles.Tab
		if c == m.state.ActiveCategory {
			style = m.styles.ActiveTab
		}
		sb.WriteString(style.Render(c))
	}
	return sb.String()
}

func (m Model) renderBody() string {
	switch {
	case m.state.Loading:
		return m.spinner.View() + " " + loadingText
	case len(m.visible) == 0:
		return m.styles.Muted.Render(noProductsText)
	default:
		return m.table.View()
	}
}

func (m Model) renderCart() string {
	var sb strings.Builder
	sb.WriteString(m.styles.Title.Render("Your Cart"))
	sb.WriteString("\n\n")

	lines := m.state.Cart.Lines()
	if len(lines) == 0 {
		sb.WriteString(m.styles.Muted.Render(emptyCartText))
		return m.styles.Panel.Render(sb.String())
	}

	for i, l := range lines {
		row := fmt.Sprintf("%s\n  %s  x%d", l.Title, price(l.Price.StringFixed(2)), l.Quantity)
		if i == m.cartCursor {
			row = m.styles.Selected.Render("> " + row)
		} else {
			row = "  " + row
		}
		sb.WriteString(row + "\n")
	}

	sb.WriteString("\n")
	sb.WriteString(m.styles.Total.Render("Total: " + price(m.state.Cart.FormattedTotal())))
	sb.WriteString("\n\n")
	sb.WriteString(m.styles.Button.Render("Checkout"))

	return m.styles.Panel.Render(sb.String())
}

func (m Model) renderHelp() string {
	switch {
	case m.searchFocused:
		return m.styles.Muted.Render("[Esc/Enter] Done")
	case m.state.CartOpen:
		return m.styles.Muted.Render("[+/-] Quantity  [d] Remove  [o] Checkout  [c] Close  [q] Quit")
	default:
		return m.styles.Muted.Render("[/] Search  [Tab] Category  [Enter] Add  [c] Cart  [q] Quit")
	}
}

func price(amount string) string {
	return currency + amount
}
