package welcome

import (
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/cermat/internal/router"
	"github.com/abhisek/cermat/internal/screen"
)

type loginStub struct{}

func (s *loginStub) Init() tea.Cmd                          { return nil }
func (s *loginStub) Update(tea.Msg) (screen.Screen, tea.Cmd) { return s, nil }
func (s *loginStub) View(int, int) string                   { return "login" }
func (s *loginStub) Title() string                          { return "Přihlášení" }

func newWelcome() (*WelcomeScreen, *int) {
	calls := 0
	return New(func() screen.Screen {
		calls++
		return &loginStub{}
	}), &calls
}

// advance feeds n animation frames and returns the last command.
func advance(w *WelcomeScreen, n int) tea.Cmd {
	var cmd tea.Cmd
	for range n {
		_, cmd = w.Update(frameMsg(time.Now()))
	}
	return cmd
}

func isReplace(t *testing.T, cmd tea.Cmd) bool {
	t.Helper()
	if cmd == nil {
		return false
	}
	msg, ok := cmd().(router.ReplaceScreenMsg)
	return ok && msg.Screen.Title() == "Přihlášení"
}

func TestStageAt(t *testing.T) {
	tests := []struct {
		at   time.Duration
		want stage
	}{
		{0, stageMascot},
		{400 * time.Millisecond, stageMascot},
		{500 * time.Millisecond, stageSparkles},
		{1500 * time.Millisecond, stageBanner},
		{5 * time.Second, stageReady},
	}
	for _, tt := range tests {
		if got := stageAt(tt.at); got != tt.want {
			t.Errorf("stageAt(%s) = %d, want %d", tt.at, got, tt.want)
		}
	}
}

func TestRevealOrder(t *testing.T) {
	w, _ := newWelcome()

	if v := w.View(100, 40); strings.Contains(v, "██") || strings.Contains(v, "★") {
		t.Fatal("only the mascot should be visible at start")
	}

	advance(w, 5)
	if v := w.View(100, 40); !strings.Contains(v, "★") || strings.Contains(v, "██") {
		t.Fatal("sparkles without banner expected after 500ms")
	}

	advance(w, 12)
	v := w.View(100, 40)
	if !strings.Contains(v, "██") {
		t.Fatal("banner expected after 1.5s")
	}
	if strings.Contains(v, tagline) {
		t.Fatal("tagline should still be typing")
	}

	advance(w, 30)
	v = w.View(100, 40)
	if !strings.Contains(v, "přijímačky hrou!") || !strings.Contains(v, "libovolnou klávesu") {
		t.Fatalf("ready stage incomplete:\n%s", v)
	}
}

func TestCompactBannerOnNarrowTerminal(t *testing.T) {
	w, _ := newWelcome()
	advance(w, 20)
	if v := w.View(50, 40); !strings.Contains(v, "C E R M A T") {
		t.Errorf("expected compact banner:\n%s", v)
	}
}

func TestKeyPressSkipsAnimation(t *testing.T) {
	w, calls := newWelcome()
	advance(w, 2)

	_, cmd := w.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if !isReplace(t, cmd) {
		t.Fatal("key press should replace the splash with the login")
	}

	_, cmd = w.Update(tea.KeyPressMsg{Code: 'x', Text: "x"})
	if cmd != nil || *calls != 1 {
		t.Errorf("second key press: cmd = %v, factory calls = %d", cmd, *calls)
	}
	if advance(w, 1) != nil {
		t.Error("frames stop after the hand-over")
	}
}

func TestAutoAdvance(t *testing.T) {
	w, calls := newWelcome()

	frames := int(autoAdvance / frame)
	if cmd := advance(w, frames-1); isReplace(t, cmd) {
		t.Fatal("advanced too early")
	}
	if cmd := advance(w, 1); !isReplace(t, cmd) {
		t.Fatal("expected the splash to hand over by itself")
	}
	if *calls != 1 {
		t.Errorf("factory calls = %d, want 1", *calls)
	}
}

func TestTitleEmpty(t *testing.T) {
	w, _ := newWelcome()
	if w.Title() != "" {
		t.Errorf("title = %q", w.Title())
	}
}
