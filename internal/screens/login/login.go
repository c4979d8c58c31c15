// Package login is the sign-in and registration screen.
package login

import (
	"context"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/cermat/internal/auth"
	"github.com/abhisek/cermat/internal/catalog"
	"github.com/abhisek/cermat/internal/screen"
	"github.com/abhisek/cermat/internal/ui/components"
	"github.com/abhisek/cermat/internal/ui/layout"
	"github.com/abhisek/cermat/internal/ui/theme"
)

const requestTimeout = 10 * time.Second

// Authenticator is the part of auth.Service the screen needs.
type Authenticator interface {
	Register(ctx context.Context, identity, secret string, initial catalog.Catalog) (auth.State, error)
	Authenticate(ctx context.Context, identity, secret string) (auth.State, error)
}

// LoggedInMsg is emitted after a successful login or registration.
type LoggedInMsg struct {
	Identity string
	State    auth.State
}

type resultMsg struct {
	identity string
	state    auth.State
	err      error
}

// LoginScreen collects a username and password.
type LoginScreen struct {
	auth     Authenticator
	username components.TextInput
	password components.TextInput
	focus    int // 0 username, 1 password
	register bool
	busy     bool
	errMsg   string
}

var _ screen.Screen = (*LoginScreen)(nil)
var _ screen.KeyHintProvider = (*LoginScreen)(nil)

// New creates a LoginScreen.
func New(a Authenticator) *LoginScreen {
	s := &LoginScreen{
		auth:     a,
		username: components.NewTextInput("jméno", components.CharLimit(32), components.Accept(components.NoSpaces)),
		password: components.NewTextInput("heslo", components.CharLimit(64), components.Masked()),
	}
	s.username.Focus()
	return s
}

func (s *LoginScreen) Init() tea.Cmd {
	return s.username.Focus()
}

func (s *LoginScreen) Title() string {
	if s.register {
		return "Registrace"
	}
	return "Přihlášení"
}

func (s *LoginScreen) KeyHints() []layout.KeyHint {
	toggle := "Nový účet"
	if s.register {
		toggle = "Mám účet"
	}
	return []layout.KeyHint{
		{Key: "Tab", Description: "Další pole"},
		{Key: "Enter", Description: "Potvrdit"},
		{Key: "Ctrl+R", Description: toggle},
		{Key: "Ctrl+C", Description: "Konec"},
	}
}

func (s *LoginScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case resultMsg:
		s.busy = false
		if msg.err != nil {
			s.errMsg = auth.Message(msg.err)
			s.password.Reset()
			return s, nil
		}
		return s, func() tea.Msg {
			return LoggedInMsg{Identity: msg.identity, State: msg.state}
		}

	case tea.KeyMsg:
		if s.busy {
			return s, nil
		}
		switch msg.String() {
		case "tab", "shift+tab", "up", "down":
			return s, s.toggleFocus()
		case "ctrl+r":
			s.register = !s.register
			s.errMsg = ""
			return s, nil
		case "enter":
			if s.focus == 0 {
				return s, s.toggleFocus()
			}
			return s, s.submit()
		}
	}

	var cmd tea.Cmd
	if s.focus == 0 {
		s.username, cmd = s.username.Update(msg)
	} else {
		s.password, cmd = s.password.Update(msg)
	}
	return s, cmd
}

func (s *LoginScreen) toggleFocus() tea.Cmd {
	if s.focus == 0 {
		s.focus = 1
		s.username.Blur()
		return s.password.Focus()
	}
	s.focus = 0
	s.password.Blur()
	return s.username.Focus()
}

func (s *LoginScreen) submit() tea.Cmd {
	identity := strings.TrimSpace(s.username.Value())
	secret := s.password.Value()
	register := s.register
	s.busy = true
	s.errMsg = ""

	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		var st auth.State
		var err error
		if register {
			st, err = s.auth.Register(ctx, identity, secret, catalog.Default())
		} else {
			st, err = s.auth.Authenticate(ctx, identity, secret)
		}
		return resultMsg{identity: identity, state: st, err: err}
	}
}

func (s *LoginScreen) View(width, height int) string {
	cw := components.ContentWidth(width)

	heading := "Přihlas se"
	if s.register {
		heading = "Vytvoř si účet"
	}

	var b strings.Builder
	b.WriteString(theme.Title.Width(cw).Render(heading))
	b.WriteString("\n\n")
	b.WriteString(field("Jméno", s.username.View(), s.focus == 0))
	b.WriteString("\n\n")
	b.WriteString(field("Heslo", s.password.View(), s.focus == 1))
	b.WriteString("\n\n")

	action := "Přihlásit"
	if s.register {
		action = "Registrovat"
	}
	b.WriteString(components.Button(action, s.focus == 1 && !s.busy, min(cw-8, 24)))
	b.WriteString("\n")

	switch {
	case s.busy:
		b.WriteString(theme.Hint.Render("Chvilku strpení…"))
	case s.errMsg != "":
		b.WriteString(lipgloss.NewStyle().Foreground(theme.Error).Bold(true).Render(s.errMsg))
	}

	card := components.Card(b.String(), cw)
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, card)
}

func field(label, input string, focused bool) string {
	style := lipgloss.NewStyle().Foreground(theme.TextDim)
	if focused {
		style = lipgloss.NewStyle().Foreground(theme.Primary).Bold(true)
	}
	return style.Render(label) + "\n" + input
}
