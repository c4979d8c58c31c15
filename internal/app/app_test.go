package app

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/cermat/internal/auth"
	"github.com/abhisek/cermat/internal/catalog"
	"github.com/abhisek/cermat/internal/game"
	"github.com/abhisek/cermat/internal/profile"
	"github.com/abhisek/cermat/internal/router"
	"github.com/abhisek/cermat/internal/screens/home"
	"github.com/abhisek/cermat/internal/screens/login"
)

type nopAuth struct{}

func (nopAuth) Register(context.Context, string, string, catalog.Catalog) (auth.State, error) {
	return auth.State{}, nil
}

func (nopAuth) Authenticate(context.Context, string, string) (auth.State, error) {
	return auth.State{}, nil
}

func newTestModel() AppModel {
	return newAppModel(Options{
		Auth:   nopAuth{},
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
}

// step applies msg and feeds a resulting router message back in.
func step(t *testing.T, m AppModel, msg tea.Msg) AppModel {
	t.Helper()
	next, cmd := m.Update(msg)
	m = next.(AppModel)
	if cmd != nil {
		if reset, ok := cmd().(router.ResetScreenMsg); ok {
			next, _ = m.Update(reset)
			m = next.(AppModel)
		}
	}
	return m
}

func loggedIn() login.LoggedInMsg {
	p := profile.Template()
	p.Username = "alice"
	p.Theme = profile.ThemeDark
	return login.LoggedInMsg{Identity: "alice", State: auth.State{Profile: p, Catalog: catalog.Default()}}
}

func TestLoginStartsSessionOnHome(t *testing.T) {
	m := newTestModel()
	m = step(t, m, loggedIn())
	t.Cleanup(m.endSession)

	require.NotNil(t, m.game)
	assert.Equal(t, "alice", m.game.Identity())
	assert.IsType(t, &home.HomeScreen{}, m.router.Active())
	assert.Equal(t, 1, m.router.Depth())

	stats := m.headerStats()
	require.NotNil(t, stats)
	assert.Equal(t, profile.MaxHearts, stats.Hearts)
}

func TestLogoutReturnsToLogin(t *testing.T) {
	m := step(t, newTestModel(), loggedIn())

	m = step(t, m, home.LogoutMsg{})
	assert.Nil(t, m.game)
	assert.IsType(t, &login.LoginScreen{}, m.router.Active())
	assert.Nil(t, m.headerStats())
}

func TestNotificationShowsToast(t *testing.T) {
	m := newTestModel()
	m.notify(game.Notification{Kind: game.NoteHeartRestored})

	msg := m.waitForNote()()
	next, cmd := m.Update(msg)
	m = next.(AppModel)
	require.NotNil(t, cmd)
	require.True(t, m.toast.Visible())

	m.width, m.height = 100, 30
	assert.True(t, strings.Contains(m.render(), "Život doplněn"))
}

func TestNotifyDropsWhenFull(t *testing.T) {
	m := newTestModel()
	for range noteBuffer + 5 {
		m.notify(game.Notification{Kind: game.NoteBadge})
	}
	assert.Len(t, m.notes, noteBuffer)
}

func TestTooSmallTerminal(t *testing.T) {
	m := newTestModel()
	next, _ := m.Update(tea.WindowSizeMsg{Width: 20, Height: 5})
	out := next.(AppModel).render()
	// Narrow windows wrap the notice, so check words that cannot be split.
	assert.Contains(t, out, "malý")
	assert.Contains(t, out, "20 x 5")
}
