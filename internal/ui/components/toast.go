package components

import (
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/cermat/internal/ui/theme"
)

// DefaultToastDuration is how long a toast stays visible.
const DefaultToastDuration = 3 * time.Second

// ToastExpiredMsg hides the toast shown under generation Gen.
type ToastExpiredMsg struct {
	Gen int
}

// Toast is a transient notification. Every Show bumps the generation, so
// the expiry of an older toast never hides a newer one.
type Toast struct {
	Title    string
	Body     string
	Duration time.Duration

	gen     int
	visible bool
}

// Show displays a toast and returns the command that expires it.
func (t *Toast) Show(title, body string) tea.Cmd {
	t.gen++
	t.Title = title
	t.Body = body
	t.visible = true

	d := t.Duration
	if d <= 0 {
		d = DefaultToastDuration
	}
	gen := t.gen
	return tea.Tick(d, func(time.Time) tea.Msg {
		return ToastExpiredMsg{Gen: gen}
	})
}

// Expire hides the toast if msg belongs to the current generation.
func (t *Toast) Expire(msg ToastExpiredMsg) {
	if msg.Gen == t.gen {
		t.visible = false
	}
}

// Visible reports whether the toast is shown.
func (t Toast) Visible() bool {
	return t.visible
}

// View renders the toast, or nothing when hidden.
func (t Toast) View() string {
	if !t.visible {
		return ""
	}
	title := lipgloss.NewStyle().Foreground(theme.ArcadeYellow).Bold(true).Render(t.Title)
	body := lipgloss.NewStyle().Foreground(theme.Text).Render(t.Body)
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.ArcadeYellow).
		Padding(0, 2).
		Render(title + "\n" + body)
}
