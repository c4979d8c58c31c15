// Package layout draws the chrome around every screen: header, footer and
// the minimum size notice.
package layout

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/cermat/internal/ui/theme"
)

// Smallest terminal the frame is drawn in.
const (
	MinWidth  = 80
	MinHeight = 24
)

// KeyHint is one key binding shown in the footer.
type KeyHint struct {
	Key         string
	Description string
}

// IsTooSmall reports whether the terminal is below the minimum size.
func IsTooSmall(width, height int) bool {
	return width < MinWidth || height < MinHeight
}

// RenderMinSizeMessage asks the learner to enlarge the window.
func RenderMinSizeMessage(width, height int) string {
	return lipgloss.NewStyle().
		Align(lipgloss.Center).
		Foreground(theme.Text).
		Width(width).
		Height(height).
		Render(fmt.Sprintf(
			"Terminál je příliš malý!\n\nZvětši okno alespoň na\n%d x %d\n\nTeď: %d x %d",
			MinWidth, MinHeight, width, height,
		))
}

// HeaderStats is the learner status shown on the right of the header.
type HeaderStats struct {
	Hearts    int
	MaxHearts int
	XP        int
	Level     int
	Streak    int
}

// heartRow draws full and empty hearts, e.g. ♥♥♥♡♡.
func (s HeaderStats) heartRow() string {
	full := min(max(s.Hearts, 0), s.MaxHearts)
	if s.MaxHearts <= 0 {
		return fmt.Sprintf("♥ %d", s.Hearts)
	}
	return lipgloss.NewStyle().Foreground(theme.Heart).Render(strings.Repeat("♥", full)) +
		lipgloss.NewStyle().Foreground(theme.TextDim).Render(strings.Repeat("♡", s.MaxHearts-full))
}

func (s HeaderStats) render() string {
	parts := []string{
		s.heartRow(),
		lipgloss.NewStyle().Foreground(theme.ArcadeYellow).Render(fmt.Sprintf("⚡ %d XP", s.XP)),
		lipgloss.NewStyle().Foreground(theme.Accent).Render(fmt.Sprintf("🔥 %d", s.Streak)),
	}
	if s.Level > 0 {
		parts = append([]string{lipgloss.NewStyle().Foreground(theme.Secondary).Bold(true).
			Render(fmt.Sprintf("Lv %d", s.Level))}, parts...)
	}
	return strings.Join(parts, "   ")
}

func bar(width int, content string) string {
	return lipgloss.NewStyle().
		Width(width).
		Background(theme.BgCard).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border).
		Render(content)
}

// RenderHeader draws the title bar with the title centered. A nil stats
// leaves the right side empty, as on the login screen.
func RenderHeader(title string, stats *HeaderStats, width int) string {
	left := lipgloss.NewStyle().Foreground(theme.Primary).Bold(true).Render("  CERMAT")
	center := lipgloss.NewStyle().Foreground(theme.Text).Render(title)
	right := ""
	if stats != nil {
		right = stats.render()
	}

	inner := max(width-4, 0)
	lw, cw, rw := lipgloss.Width(left), lipgloss.Width(center), lipgloss.Width(right)
	gapL := max((inner-cw)/2-lw, 1)
	gapR := max(inner-lw-gapL-cw-rw, 1)

	return bar(width, left+strings.Repeat(" ", gapL)+center+strings.Repeat(" ", gapR)+right)
}

// RenderFooter draws the key hints. Hints that do not fit are dropped from
// the end and replaced by an ellipsis.
func RenderFooter(hints []KeyHint, width int) string {
	const sep = "   "
	avail := max(width-6, 0)

	content := ""
	for i, h := range hints {
		part := lipgloss.NewStyle().Foreground(theme.Text).Bold(true).Render(h.Key) + " " +
			lipgloss.NewStyle().Foreground(theme.TextDim).Render(h.Description)
		next := part
		if i > 0 {
			next = content + sep + part
		}
		if lipgloss.Width(next) > avail {
			content += sep + "…"
			break
		}
		content = next
	}
	return bar(width, "  "+content)
}

// RenderFrame stacks header, content and footer, padding the content to
// fill the terminal.
func RenderFrame(header, content, footer string, width, height int) string {
	h := max(height-lipgloss.Height(header)-lipgloss.Height(footer), 0)
	body := lipgloss.NewStyle().Width(width).Height(h).Render(content)
	return lipgloss.JoinVertical(lipgloss.Left, header, body, footer)
}
