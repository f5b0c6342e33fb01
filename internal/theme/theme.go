package theme

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/sarnrak/internal/model"
)

// Adaptive color pairs (dark terminal value, light terminal value).
var (
	ColorGold    = lipgloss.AdaptiveColor{Dark: "#D4AF37", Light: "#8A6D1D"}
	ColorRose    = lipgloss.AdaptiveColor{Dark: "#E8A0A8", Light: "#B0495A"}
	ColorGreen   = lipgloss.AdaptiveColor{Dark: "#6BCB77", Light: "#2F855A"}
	ColorYellow  = lipgloss.AdaptiveColor{Dark: "#FFD93D", Light: "#B7791F"}
	ColorRed     = lipgloss.AdaptiveColor{Dark: "#FF6B6B", Light: "#C53030"}
	ColorBlue    = lipgloss.AdaptiveColor{Dark: "#5B9BD5", Light: "#2B6CB0"}
	ColorMagenta = lipgloss.AdaptiveColor{Dark: "#CC5DE8", Light: "#805AD5"}
	ColorGray    = lipgloss.AdaptiveColor{Dark: "#868E96", Light: "#718096"}
	ColorWhite   = lipgloss.AdaptiveColor{Dark: "#F8F9FA", Light: "#1A202C"}
	ColorSubtle  = lipgloss.AdaptiveColor{Dark: "#495057", Light: "#CBD5E0"}
	ColorBorder  = lipgloss.AdaptiveColor{Dark: "#6B5B2E", Light: "#E2D6B0"}
)

// HeaderStyle is used for top-level section headers and the application title.
var HeaderStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(lipgloss.Color("#1A1A1A")).
	Background(ColorGold).
	Padding(0, 1)

// TabStyle renders an inactive section tab.
var TabStyle = lipgloss.NewStyle().
	Foreground(ColorGray).
	Padding(0, 1)

// ActiveTabStyle renders the selected section tab.
var ActiveTabStyle = TabStyle.
	Bold(true).
	Foreground(ColorGold).
	Underline(true)

// StatusBarStyle is used for the bottom status bar.
var StatusBarStyle = lipgloss.NewStyle().
	Foreground(ColorWhite).
	Background(ColorSubtle).
	Padding(0, 1)

// PanelStyle wraps framed content such as the dashboard and advice panel.
var PanelStyle = lipgloss.NewStyle().
	Padding(1, 2).
	Border(lipgloss.RoundedBorder()).
	BorderForeground(ColorBorder)

// ListItemStyle is the base style for items in a list.
var ListItemStyle = lipgloss.NewStyle().
	PaddingLeft(2)

// SelectedItemStyle highlights the currently focused list item.
var SelectedItemStyle = lipgloss.NewStyle().
	PaddingLeft(1).
	Bold(true).
	Foreground(ColorGold).
	Border(lipgloss.NormalBorder(), false, false, false, true).
	BorderForeground(ColorGold)

// DimmedStyle renders completed or inactive rows.
var DimmedStyle = lipgloss.NewStyle().
	Foreground(ColorGray).
	Strikethrough(true)

// HelpStyle is used for keyboard shortcut hints and help text.
var HelpStyle = lipgloss.NewStyle().
	Foreground(ColorGray).
	Italic(true)

// WarnStyle flags problems such as an over-budget total or a failed save.
var WarnStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(ColorRed)

// LabelStyle renders field labels on the dashboard.
var LabelStyle = lipgloss.NewStyle().
	Foreground(ColorGray).
	Width(18)

// ValueStyle renders dashboard figures.
var ValueStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(ColorWhite)

// GuestStatusStyle returns a color-coded chip style for an RSVP status.
func GuestStatusStyle(status model.GuestStatus) lipgloss.Style {
	base := lipgloss.NewStyle().Bold(true).Padding(0, 1)

	switch status {
	case model.GuestConfirmed:
		return base.Foreground(ColorGreen)
	case model.GuestDeclined:
		return base.Foreground(ColorRed)
	default:
		return base.Foreground(ColorYellow)
	}
}

// ProductionStatusStyle returns a color-coded style for a production task.
func ProductionStatusStyle(status model.ProductionStatus) lipgloss.Style {
	base := lipgloss.NewStyle().Bold(true).Padding(0, 1)

	switch status {
	case model.ProductionDone:
		return base.Foreground(ColorGreen)
	case model.ProductionInProgress:
		return base.Foreground(ColorBlue)
	default:
		return base.Foreground(ColorGray)
	}
}

// SideStyle colors a guest's side label.
func SideStyle(side model.Side) lipgloss.Style {
	base := lipgloss.NewStyle().Bold(true)

	switch side {
	case model.SideGroom:
		return base.Foreground(ColorBlue)
	case model.SideBride:
		return base.Foreground(ColorRose)
	default:
		return base.Foreground(ColorMagenta)
	}
}

// Bar renders a fixed-width text progress bar for a 0-100 percentage.
func Bar(percent, width int) string {
	if width <= 0 {
		return ""
	}
	percent = max(0, min(percent, 100))
	filled := percent * width / 100
	return lipgloss.NewStyle().Foreground(ColorGold).Render(strings.Repeat("█", filled)) +
		lipgloss.NewStyle().Foreground(ColorSubtle).Render(strings.Repeat("░", width-filled))
}
