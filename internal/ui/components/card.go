package components

import (
	"image/color"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/cermat/internal/ui/theme"
)

const (
	maxContentWidth = 60
	minContentWidth = 20
)

// ContentWidth returns the inner width shared by every card on a screen, so
// stacked cards line up.
func ContentWidth(frameWidth int) int {
	// double frame border (2) + inner padding (4)
	return min(max(frameWidth-6, minContentWidth), maxContentWidth)
}

// Frame centers content inside a double border filling the screen area.
func Frame(content string, width, height int) string {
	return lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(theme.Primary).
		Width(max(width-2, 0)).
		Height(max(height-2, 0)).
		Align(lipgloss.Center, lipgloss.Center).
		Render(content)
}

// CardOption customizes a card.
type CardOption func(*lipgloss.Style)

// WithAccent colors the card border, e.g. for alerts and rewards.
func WithAccent(c color.Color) CardOption {
	return func(s *lipgloss.Style) {
		*s = s.BorderForeground(c)
	}
}

// Compact drops the vertical padding.
func Compact() CardOption {
	return func(s *lipgloss.Style) {
		*s = s.Padding(0, 2)
	}
}

// Card wraps content in a rounded border at content width cw.
func Card(content string, cw int, opts ...CardOption) string {
	s := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border).
		Width(cw - 2).
		Align(lipgloss.Center).
		Padding(1, 2)
	for _, o := range opts {
		o(&s)
	}
	return s.Render(content)
}

// Button renders a call to action. The focused button is filled.
func Button(label string, focused bool, width int) string {
	s := lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Border(lipgloss.RoundedBorder()).
		Padding(0, 1)
	if !focused {
		return s.Foreground(theme.Text).BorderForeground(theme.Border).Render(label)
	}
	return s.Bold(true).
		Foreground(theme.BgDark).
		Background(theme.ArcadeYellow).
		BorderForeground(theme.ArcadeYellow).
		Render("▸ " + label)
}
