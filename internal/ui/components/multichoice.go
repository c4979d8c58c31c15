package components

import (
	"fmt"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/cermat/internal/ui/theme"
)

// MultiChoice is a multiple-choice selector. Answers are compared by text,
// so the component never needs to know the correct option up front.
type MultiChoice struct {
	Question string
	Options  []string
	Selected int

	locked  bool
	chosen  string
	correct string
}

// NewMultiChoice creates a new multiple-choice component.
func NewMultiChoice(question string, options []string) MultiChoice {
	return MultiChoice{
		Question: question,
		Options:  options,
	}
}

// Init returns nil.
func (m MultiChoice) Init() tea.Cmd {
	return nil
}

// Update handles keyboard navigation. Selection is confirmed by the owner.
func (m MultiChoice) Update(msg tea.Msg) (MultiChoice, tea.Cmd) {
	if m.locked {
		return m, nil
	}

	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch kmsg.String() {
	case "up", "k":
		if m.Selected > 0 {
			m.Selected--
		}
	case "down", "j":
		if m.Selected < len(m.Options)-1 {
			m.Selected++
		}
	default:
		if i := optionIndex(kmsg.String()); i >= 0 && i < len(m.Options) {
			m.Selected = i
		}
	}

	return m, nil
}

// Current returns the highlighted option.
func (m MultiChoice) Current() string {
	if m.Selected < 0 || m.Selected >= len(m.Options) {
		return ""
	}
	return m.Options[m.Selected]
}

// Lock freezes the component and shows the outcome.
func (m *MultiChoice) Lock(chosen, correct string) {
	m.locked = true
	m.chosen = chosen
	m.correct = correct
}

// Locked reports whether the outcome is shown.
func (m MultiChoice) Locked() bool {
	return m.locked
}

var labels = []string{"A", "B", "C", "D", "E", "F"}

// optionIndex maps "a"/"1" style shortcuts to an option index.
func optionIndex(key string) int {
	if len(key) != 1 {
		return -1
	}
	switch c := key[0]; {
	case c >= 'a' && c <= 'f':
		return int(c - 'a')
	case c >= '1' && c <= '6':
		return int(c - '1')
	}
	return -1
}

// View renders the multiple-choice component.
func (m MultiChoice) View() string {
	questionStyle := lipgloss.NewStyle().Foreground(theme.Text).Bold(true)
	s := questionStyle.Render(m.Question) + "\n\n"

	for i, opt := range m.Options {
		label := fmt.Sprint(i + 1)
		if i < len(labels) {
			label = labels[i]
		}
		prefix := "  "
		if i == m.Selected && !m.locked {
			prefix = "▸ "
		}

		line := fmt.Sprintf("%s%s)  %s", prefix, label, opt)

		var style lipgloss.Style
		switch {
		case m.locked && opt == m.correct:
			style = lipgloss.NewStyle().Foreground(theme.Success).Bold(true)
		case m.locked && opt == m.chosen:
			style = lipgloss.NewStyle().Foreground(theme.Error).Bold(true)
		case m.locked:
			style = lipgloss.NewStyle().Foreground(theme.TextDim)
		case i == m.Selected:
			style = lipgloss.NewStyle().Foreground(theme.Primary).Bold(true)
		default:
			style = lipgloss.NewStyle().Foreground(theme.Text)
		}
		s += style.Render(line) + "\n"
	}

	return s
}
