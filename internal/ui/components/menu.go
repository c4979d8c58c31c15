package components

import (
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/cermat/internal/ui/theme"
)

// MenuItem is one entry of a Menu.
//
// A Disabled item is skipped by the cursor. A Dimmed item is drawn greyed
// out but can still be selected, e.g. a locked lesson that explains why.
type MenuItem struct {
	Label    string
	Action   func() tea.Cmd
	Disabled bool
	Dimmed   bool
}

// Menu is a vertical list with a cursor.
type Menu struct {
	Items    []MenuItem
	Selected int
	Width    int
}

// NewMenu creates a menu with the cursor on the first enabled item.
func NewMenu(items []MenuItem) Menu {
	m := Menu{Items: items}
	m.Selected = m.next(-1, 1)
	if m.Selected < 0 {
		m.Selected = 0
	}
	return m
}

// Select moves the cursor to i if that item is enabled.
func (m *Menu) Select(i int) bool {
	if i < 0 || i >= len(m.Items) || m.Items[i].Disabled {
		return false
	}
	m.Selected = i
	return true
}

// next finds the first enabled item after from in direction dir, or -1.
func (m Menu) next(from, dir int) int {
	for i := from + dir; i >= 0 && i < len(m.Items); i += dir {
		if !m.Items[i].Disabled {
			return i
		}
	}
	return -1
}

// Init returns nil.
func (m Menu) Init() tea.Cmd {
	return nil
}

// Update moves the cursor and runs the selected action on enter.
func (m Menu) Update(msg tea.Msg) (Menu, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch kmsg.String() {
	case "up", "k":
		m.Select(m.next(m.Selected, -1))
	case "down", "j":
		m.Select(m.next(m.Selected, 1))
	case "home", "g":
		m.Select(m.next(-1, 1))
	case "end", "G":
		m.Select(m.next(len(m.Items), -1))
	case "enter", "space":
		if m.Selected < len(m.Items) {
			item := m.Items[m.Selected]
			if item.Action != nil && !item.Disabled {
				return m, item.Action()
			}
		}
	}
	return m, nil
}

// View renders the items, highlighting the cursor.
func (m Menu) View() string {
	lines := make([]string, len(m.Items))
	for i, item := range m.Items {
		switch {
		case i == m.Selected:
			lines[i] = lipgloss.NewStyle().
				Foreground(theme.BgDark).
				Background(theme.ArcadeYellow).
				Bold(true).
				Render(" ▸ " + item.Label + " ")
		case item.Disabled || item.Dimmed:
			lines[i] = lipgloss.NewStyle().Foreground(theme.TextDim).Render("   " + item.Label)
		default:
			lines[i] = lipgloss.NewStyle().Foreground(theme.Text).Render("   " + item.Label)
		}
	}

	s := lipgloss.NewStyle()
	if m.Width > 0 {
		s = s.Width(m.Width)
	}
	return s.Render(strings.Join(lines, "\n"))
}
