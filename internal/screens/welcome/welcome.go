// Package welcome is the animated splash shown before login.
package welcome

import (
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/cermat/internal/profile"
	"github.com/abhisek/cermat/internal/router"
	"github.com/abhisek/cermat/internal/screen"
	"github.com/abhisek/cermat/internal/ui/theme"
)

const (
	frame = 100 * time.Millisecond

	// The splash moves on by itself after this long.
	autoAdvance = 6 * time.Second
)

const tagline = "Připrav se na přijímačky hrou!"

const mascotArt = `╭───────────╮
│  ┌─────┐  │
│  │ ◉ ◉ │  │
│  │  ▽  │  │
│  ├─────┤  │
│  │ Á+½ │  │
│  └─────┘  │
╰───────────╯`

// stage is how far the reveal has progressed.
type stage int

const (
	stageMascot stage = iota
	stageSparkles
	stageBanner
	stageReady
)

// stageAt maps elapsed time to the reveal stage.
func stageAt(d time.Duration) stage {
	switch {
	case d < 500*time.Millisecond:
		return stageMascot
	case d < 1500*time.Millisecond:
		return stageSparkles
	case d < 1500*time.Millisecond+time.Duration(len([]rune(tagline)))*frame:
		return stageBanner
	default:
		return stageReady
	}
}

type frameMsg time.Time

// WelcomeScreen reveals the mascot, banner and tagline, then replaces itself
// with the screen built by next.
type WelcomeScreen struct {
	next    func() screen.Screen
	elapsed time.Duration
	frames  int
	done    bool
}

var _ screen.Screen = (*WelcomeScreen)(nil)

// New creates the splash. next is called once, when the splash ends.
func New(next func() screen.Screen) *WelcomeScreen {
	return &WelcomeScreen{next: next}
}

func (w *WelcomeScreen) Title() string { return "" }

func (w *WelcomeScreen) Init() tea.Cmd {
	return tick()
}

func tick() tea.Cmd {
	return tea.Tick(frame, func(t time.Time) tea.Msg { return frameMsg(t) })
}

func (w *WelcomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg.(type) {
	case frameMsg:
		if w.done {
			return w, nil
		}
		w.frames++
		w.elapsed += frame
		if w.elapsed >= autoAdvance {
			return w, w.finish()
		}
		return w, tick()

	case tea.KeyPressMsg:
		return w, w.finish()
	}
	return w, nil
}

// finish hands over to the next screen exactly once.
func (w *WelcomeScreen) finish() tea.Cmd {
	if w.done {
		return nil
	}
	w.done = true
	next := w.next()
	return func() tea.Msg { return router.ReplaceScreenMsg{Screen: next} }
}

func (w *WelcomeScreen) View(width, height int) string {
	st := stageAt(w.elapsed)

	parts := []string{w.mascot(st)}
	if st >= stageBanner {
		parts = append(parts, "", RenderBanner(width), "", w.typedTagline(st))
	}
	if st == stageReady {
		parts = append(parts, "", subjectChips(), "", theme.Hint.Render("stiskni libovolnou klávesu"))
	}

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, strings.Join(parts, "\n"))
}

func (w *WelcomeScreen) mascot(st stage) string {
	lines := strings.Split(lipgloss.NewStyle().Foreground(theme.Primary).Render(mascotArt), "\n")
	if st == stageMascot {
		return strings.Join(lines, "\n")
	}

	// Sparkles alternate sides every frame.
	a, b := lipgloss.NewStyle().Foreground(theme.Accent).Render("★"),
		lipgloss.NewStyle().Foreground(theme.Secondary).Render("✦")
	if w.frames%2 == 1 {
		a, b = b, a
	}
	for i := range lines {
		switch i {
		case 0, len(lines) - 1:
			lines[i] = a + "  " + lines[i] + "  " + b
		case 3:
			lines[i] = b + "  " + lines[i] + "  " + a
		default:
			lines[i] = "   " + lines[i] + "   "
		}
	}
	return strings.Join(lines, "\n")
}

// typedTagline types the tagline one rune per frame once the banner is up.
func (w *WelcomeScreen) typedTagline(st stage) string {
	r := []rune(tagline)
	n := len(r)
	if st == stageBanner {
		n = min(int((w.elapsed-1500*time.Millisecond)/frame), len(r))
	}
	return lipgloss.NewStyle().Foreground(theme.Text).Bold(true).Render(string(r[:n]))
}

func subjectChips() string {
	var chips []string
	for _, s := range profile.AllSubjects() {
		chips = append(chips, lipgloss.NewStyle().
			Foreground(theme.BgDark).
			Background(theme.ArcadeCyan).
			Padding(0, 1).
			Render(s.Icon()+" "+s.DisplayName()))
	}
	return strings.Join(chips, "  ")
}
