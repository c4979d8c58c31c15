// Package screen defines the contract between the router and the views it
// stacks.
package screen

import (
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/cermat/internal/ui/layout"
)

// Screen is one view on the router stack.
type Screen interface {
	Init() tea.Cmd
	Update(msg tea.Msg) (Screen, tea.Cmd)

	// View renders the content area between header and footer.
	View(width, height int) string

	// Title is shown in the header.
	Title() string
}

// KeyHintProvider lets a screen replace the default footer hints.
type KeyHintProvider interface {
	KeyHints() []layout.KeyHint
}

// Refresher is implemented by screens that mirror live game state. The app
// calls Refresh on the active screen after the state changes behind it,
// e.g. when a heart regenerates or a reward is granted.
type Refresher interface {
	Refresh()
}

// RefreshActive refreshes s if it implements Refresher.
func RefreshActive(s Screen) bool {
	r, ok := s.(Refresher)
	if ok {
		r.Refresh()
	}
	return ok
}
