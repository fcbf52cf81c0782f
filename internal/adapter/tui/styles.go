package tui

import "github.com/charmbracelet/lipgloss"

var (
	primary = lipgloss.AdaptiveColor{Light: "#1D4ED8", Dark: "#60A5FA"}
	muted   = lipgloss.AdaptiveColor{Light: "#6B7280", Dark: "#9CA3AF"}
	border  = lipgloss.AdaptiveColor{Light: "#D1D5DB", Dark: "#374151"}
	accent  = lipgloss.AdaptiveColor{Light: "#DC2626", Dark: "#F87171"}
)

type Styles struct {
	Title     lipgloss.Style
	Search    lipgloss.Style
	Focused   lipgloss.Style
	Badge     lipgloss.Style
	Tab       lipgloss.Style
	ActiveTab lipgloss.Style
	Muted     lipgloss.Style
	Panel     lipgloss.Style
	Selected  lipgloss.Style
	Total     lipgloss.Style
	Button    lipgloss.Style
}

func DefaultStyles() Styles {
	search := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(border).
		Padding(0, 1)

	return Styles{
		Title:     lipgloss.NewStyle().Bold(true).Foreground(primary),
		Search:    search,
		Focused:   search.BorderForeground(primary),
		Badge:     lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FFFFFF")).Background(accent).Padding(0, 1),
		Tab:       lipgloss.NewStyle().Foreground(muted).Padding(0, 1),
		ActiveTab: lipgloss.NewStyle().Foreground(primary).Bold(true).Underline(true).Padding(0, 1),
		Muted:     lipgloss.NewStyle().Foreground(muted),
		Panel: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(primary).
			Padding(0, 1).
			Width(44),
		Selected: lipgloss.NewStyle().Foreground(primary).Bold(true),
		Total:    lipgloss.NewStyle().Bold(true),
		Button:   lipgloss.NewStyle().Foreground(lipgloss.Color("#FFFFFF")).Background(primary).Padding(0, 2),
	}
}
