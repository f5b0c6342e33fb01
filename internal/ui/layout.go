// Package ui holds the frame shared by all planner screens: the title bar,
// the section tabs and the status bar.
package ui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/sarnrak/internal/theme"
)

// Layout computes the frame around the active screen.
type Layout struct {
	Width           int
	Height          int
	HeaderHeight    int
	StatusBarHeight int
}

// NewLayout creates a Layout for a terminal of the given size. The header
// spans the title bar and the tab strip.
func NewLayout(width, height int) Layout {
	return Layout{
		Width:           width,
		Height:          height,
		HeaderHeight:    2,
		StatusBarHeight: 1,
	}
}

// ContentWidth returns the full available width.
func (l Layout) ContentWidth() int {
	return l.Width
}

// ContentHeight returns the rows left between the header and status bar.
func (l Layout) ContentHeight() int {
	return max(0, l.Height-l.HeaderHeight-l.StatusBarHeight)
}

// RenderHeader renders the title on the left and the save status on the
// right of a full-width bar.
func (l Layout) RenderHeader(title, saveStatus string) string {
	return l.bar(theme.HeaderStyle, theme.HeaderStyle.Render(title), theme.HeaderStyle.Render(saveStatus))
}

// RenderStatusBar renders keyboard hints across the bottom row.
func (l Layout) RenderStatusBar(hints string) string {
	return l.bar(theme.StatusBarStyle, theme.StatusBarStyle.Render(hints), "")
}

// bar joins left and right with a filler in the background of style so the
// row spans the terminal width.
func (l Layout) bar(style lipgloss.Style, left, right string) string {
	gap := max(0, l.Width-lipgloss.Width(left)-lipgloss.Width(right))
	filler := lipgloss.NewStyle().
		Width(gap).
		Background(style.GetBackground()).
		Render("")
	return lipgloss.JoinHorizontal(lipgloss.Top, left, filler, right)
}

// RenderWithFrame stacks header, content and status bar.
func (l Layout) RenderWithFrame(header, content, statusBar string) string {
	return lipgloss.JoinVertical(lipgloss.Left, header, content, statusBar)
}

// RenderTabs renders the section tab strip with active highlighted. Tabs
// are numbered from 1 to match the jump keys. When the strip is wider than
// the terminal, tabs are dropped from the ends until it fits, keeping the
// active tab visible.
func (l Layout) RenderTabs(names []string, active int) string {
	tabs := make([]string, len(names))
	for i, name := range names {
		label := fmt.Sprintf("%d %s", i+1, name)
		if i == active {
			tabs[i] = theme.ActiveTabStyle.Render(label)
		} else {
			tabs[i] = theme.TabStyle.Render(label)
		}
	}

	lo, hi := 0, len(tabs)
	row := lipgloss.JoinHorizontal(lipgloss.Top, tabs[lo:hi]...)
	for l.Width > 0 && lipgloss.Width(row) > l.Width && hi-lo > 1 {
		if active-lo > hi-1-active {
			lo++
		} else {
			hi--
		}
		row = lipgloss.JoinHorizontal(lipgloss.Top, tabs[lo:hi]...)
	}
	return row
}
