package components

import (
	"fmt"
	"image/color"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/cermat/internal/ui/theme"
)

// Meter is a labelled bar showing value out of max, like "XP ████░░ 120/500".
type Meter struct {
	Label string
	Value int
	Max   int
	Width int
	Fill  color.Color
}

// NewMeter creates a meter filled with the theme's secondary color.
func NewMeter(label string, value, maxValue, width int) Meter {
	return Meter{Label: label, Value: value, Max: maxValue, Width: width, Fill: theme.Secondary}
}

// Ratio returns the filled share clamped to [0, 1].
func (m Meter) Ratio() float64 {
	if m.Max <= 0 {
		return 0
	}
	return min(max(float64(m.Value)/float64(m.Max), 0), 1)
}

// View renders the meter on one line.
func (m Meter) View() string {
	label := lipgloss.NewStyle().Foreground(theme.Text).Render(m.Label)
	count := lipgloss.NewStyle().Foreground(theme.TextDim).Render(fmt.Sprintf("%d/%d", m.Value, m.Max))

	bar := max(m.Width-lipgloss.Width(label)-lipgloss.Width(count)-2, 4)
	filled := int(float64(bar) * m.Ratio())

	return label + " " +
		lipgloss.NewStyle().Foreground(m.Fill).Render(strings.Repeat("█", filled)) +
		lipgloss.NewStyle().Foreground(theme.Border).Render(strings.Repeat("░", bar-filled)) +
		" " + count
}
