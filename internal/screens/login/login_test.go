package login

import (
	"context"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/cermat/internal/auth"
	"github.com/abhisek/cermat/internal/catalog"
	"github.com/abhisek/cermat/internal/profile"
)

type fakeAuth struct {
	registered []string
	err        error
}

func (f *fakeAuth) Register(_ context.Context, identity, _ string, c catalog.Catalog) (auth.State, error) {
	if f.err != nil {
		return auth.State{}, f.err
	}
	f.registered = append(f.registered, identity)
	return auth.State{Profile: profile.Template(), Catalog: c}, nil
}

func (f *fakeAuth) Authenticate(_ context.Context, identity, secret string) (auth.State, error) {
	if f.err != nil {
		return auth.State{}, f.err
	}
	if secret != "tajne" {
		return auth.State{}, auth.ErrBadCredentials
	}
	return auth.State{Profile: profile.Template(), Catalog: catalog.Default()}, nil
}

func typeText(s *LoginScreen, text string) {
	for _, r := range text {
		s.Update(tea.KeyPressMsg{Code: r, Text: string(r)})
	}
}

func press(code rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: code}
}

// submit fills both fields and runs the returned command chain.
func submit(t *testing.T, s *LoginScreen, user, pass string) tea.Msg {
	t.Helper()
	typeText(s, user)
	s.Update(press(tea.KeyEnter)) // move to password
	typeText(s, pass)

	_, cmd := s.Update(press(tea.KeyEnter))
	if cmd == nil {
		t.Fatal("expected submit command")
	}
	if !s.busy {
		t.Error("screen should be busy while the request runs")
	}
	_, next := s.Update(cmd())
	if next == nil {
		return nil
	}
	return next()
}

func TestLoginSuccess(t *testing.T) {
	s := New(&fakeAuth{})
	msg := submit(t, s, " jana ", "tajne")

	in, ok := msg.(LoggedInMsg)
	if !ok {
		t.Fatalf("expected LoggedInMsg, got %T", msg)
	}
	if in.Identity != "jana" {
		t.Errorf("identity = %q, want jana without spaces", in.Identity)
	}
}

func TestLoginFailureShowsCzechMessage(t *testing.T) {
	s := New(&fakeAuth{})
	if msg := submit(t, s, "jana", "spatne"); msg != nil {
		t.Fatalf("expected no follow-up message, got %T", msg)
	}
	if s.errMsg != "Špatné heslo." {
		t.Errorf("errMsg = %q", s.errMsg)
	}
	if s.password.Value() != "" {
		t.Error("password should be cleared after a failure")
	}
	if s.busy {
		t.Error("screen should accept input again")
	}
}

func TestRegisterMode(t *testing.T) {
	fa := &fakeAuth{}
	s := New(fa)
	s.Update(tea.KeyPressMsg{Code: 'r', Mod: tea.ModCtrl})
	if !s.register || s.Title() != "Registrace" {
		t.Fatal("ctrl+r should switch to registration")
	}

	msg := submit(t, s, "petr", "heslo")
	if _, ok := msg.(LoggedInMsg); !ok {
		t.Fatalf("expected LoggedInMsg, got %T", msg)
	}
	if len(fa.registered) != 1 || fa.registered[0] != "petr" {
		t.Errorf("registered = %v", fa.registered)
	}
}

func TestDuplicateRegistration(t *testing.T) {
	s := New(&fakeAuth{err: auth.ErrDuplicateIdentity})
	s.register = true
	submit(t, s, "jana", "tajne")
	if s.errMsg != "Uživatel s tímto jménem již existuje." {
		t.Errorf("errMsg = %q", s.errMsg)
	}
}
