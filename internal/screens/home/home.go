package home

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/cermat/internal/game"
	"github.com/abhisek/cermat/internal/profile"
	"github.com/abhisek/cermat/internal/progression"
	"github.com/abhisek/cermat/internal/questions"
	"github.com/abhisek/cermat/internal/router"
	"github.com/abhisek/cermat/internal/screen"
	"github.com/abhisek/cermat/internal/screens/history"
	quizscreen "github.com/abhisek/cermat/internal/screens/quiz"
	"github.com/abhisek/cermat/internal/store"
	"github.com/abhisek/cermat/internal/ui/components"
	"github.com/abhisek/cermat/internal/ui/layout"
	"github.com/abhisek/cermat/internal/ui/theme"
)

// LogoutMsg asks the app to end the live session.
type LogoutMsg struct{}

// HomeScreen is the dashboard: lesson path, practice and settings.
type HomeScreen struct {
	game       *game.Game
	events     store.EventRepo
	offline    bool
	difficulty questions.Difficulty

	menu   components.Menu
	status string
	modal  bool
}

var (
	_ screen.Screen          = (*HomeScreen)(nil)
	_ screen.KeyHintProvider = (*HomeScreen)(nil)
	_ screen.Refresher       = (*HomeScreen)(nil)
)

// New creates a HomeScreen. events may be nil, which hides the history.
// offline marks a session without an LLM provider.
func New(g *game.Game, events store.EventRepo, offline bool) *HomeScreen {
	h := &HomeScreen{
		game:       g,
		events:     events,
		offline:    offline,
		difficulty: questions.DifficultyMedium,
	}
	h.rebuild()
	return h
}

func (h *HomeScreen) Init() tea.Cmd {
	// The mystery chest gets its chance every time the dashboard opens.
	h.game.RollChest()
	h.rebuild()
	return nil
}

func (h *HomeScreen) Title() string {
	return "Domů"
}

func (h *HomeScreen) KeyHints() []layout.KeyHint {
	if h.modal {
		return []layout.KeyHint{{Key: "libovolná klávesa", Description: "Zavřít"}}
	}
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Vybrat"},
		{Key: "Enter", Description: "Spustit"},
		{Key: "S", Description: "Předmět"},
		{Key: "D", Description: "Obtížnost"},
		{Key: "T", Description: "Motiv"},
		{Key: "Ctrl+C", Description: "Konec"},
	}
}

func (h *HomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return h, nil
	}

	if h.modal {
		h.modal = false
		return h, nil
	}

	h.status = ""
	switch kmsg.String() {
	case "s":
		h.switchSubject()
		return h, nil
	case "d":
		h.cycleDifficulty()
		return h, nil
	case "t":
		h.cycleTheme()
		return h, nil
	}

	var cmd tea.Cmd
	h.menu, cmd = h.menu.Update(msg)
	return h, cmd
}

// Refresh redraws the dashboard after the game changed behind it.
func (h *HomeScreen) Refresh() {
	h.rebuild()
}

// rebuild recomputes the menu from the live game state, keeping the cursor.
func (h *HomeScreen) rebuild() {
	p := h.game.Profile()
	cat := h.game.Catalog()

	var items []components.MenuItem
	for _, l := range cat.BySubject(p.CurrentSubject) {
		id := l.ID
		// Locked lessons stay selectable so the learner can read why.
		items = append(items, components.MenuItem{
			Label:  lessonLabel(l),
			Action: func() tea.Cmd { return h.startLesson(id) },
			Dimmed: l.IsLocked,
		})
	}

	if h.game.ChestOnPath() {
		items = append(items, components.MenuItem{
			Label:  "🎁 Tajemná truhla",
			Action: h.openChest,
		})
	}

	items = append(items,
		components.MenuItem{
			Label:  fmt.Sprintf("🎯 Procvičování (%s)", h.difficulty.DisplayName()),
			Action: h.startPractice,
		},
		components.MenuItem{
			Label:    fmt.Sprintf("🧪 Lektvar 2x XP (%d)", p.Inventory.DoubleXPPotions),
			Action:   h.drinkPotion,
			Disabled: p.Inventory.DoubleXPPotions == 0 || p.ActivePowerUp != profile.PowerUpNone,
		},
		components.MenuItem{
			Label:    "📜 Historie",
			Action:   h.openHistory,
			Disabled: h.events == nil,
		},
		components.MenuItem{
			Label:  "🚪 Odhlásit",
			Action: func() tea.Cmd { return func() tea.Msg { return LogoutMsg{} } },
		},
	)

	selected := h.menu.Selected
	h.menu = components.NewMenu(items)
	h.menu.Select(selected)
}

func (h *HomeScreen) startLesson(id string) tea.Cmd {
	s, err := h.game.StartLesson(id)
	if err != nil {
		h.showError(err, id)
		return nil
	}
	return pushQuiz(s)
}

func (h *HomeScreen) startPractice() tea.Cmd {
	p := h.game.Profile()
	s, err := h.game.StartPractice(p.CurrentSubject, h.difficulty)
	if err != nil {
		h.showError(err, "")
		return nil
	}
	return pushQuiz(s)
}

func pushQuiz(s quizscreen.Session) tea.Cmd {
	return func() tea.Msg {
		return router.PushScreenMsg{Screen: quizscreen.New(s)}
	}
}

func (h *HomeScreen) showError(err error, lessonID string) {
	switch {
	case errors.Is(err, game.ErrNoHearts):
		h.modal = true
	case errors.Is(err, game.ErrLessonLocked):
		h.status = h.game.Catalog().LockReason(lessonID)
	default:
		h.status = "Lekci nelze spustit."
	}
}

func (h *HomeScreen) openChest() tea.Cmd {
	if _, err := h.game.OpenChest(); err != nil {
		h.status = "Truhla už zmizela."
	}
	h.rebuild()
	return nil
}

func (h *HomeScreen) drinkPotion() tea.Cmd {
	err := h.game.ActivatePowerUp(profile.PowerUpDoubleXP)
	switch {
	case err == nil:
		h.status = "Lektvar aktivován! Další lekce dá dvojnásobek XP."
	case errors.Is(err, progression.ErrPowerUpActive):
		h.status = "Jeden lektvar už působí."
	case errors.Is(err, progression.ErrNoPotions):
		h.status = "Nemáš žádný lektvar."
	default:
		h.status = "Lektvar nelze použít."
	}
	h.rebuild()
	return nil
}

func (h *HomeScreen) openHistory() tea.Cmd {
	return func() tea.Msg {
		return router.PushScreenMsg{Screen: history.New(h.events, h.game.Identity())}
	}
}

func (h *HomeScreen) switchSubject() {
	subjects := profile.AllSubjects()
	i := slices.Index(subjects, h.game.Profile().CurrentSubject)
	next := subjects[(i+1)%len(subjects)]
	if err := h.game.SwitchSubject(next); err != nil {
		h.status = "Předmět nelze přepnout."
	}
	h.menu.Selected = 0
	h.rebuild()
}

func (h *HomeScreen) cycleDifficulty() {
	all := questions.AllDifficulties()
	i := slices.Index(all, h.difficulty)
	h.difficulty = all[(i+1)%len(all)]
	h.rebuild()
}

func (h *HomeScreen) cycleTheme() {
	all := profile.AllThemes()
	i := slices.Index(all, h.game.Profile().Theme)
	next := all[(i+1)%len(all)]
	if err := h.game.SetTheme(next); err != nil {
		h.status = "Motiv nelze změnit."
		return
	}
	theme.Use(next)
}

func (h *HomeScreen) View(width, height int) string {
	p := h.game.Profile()
	cw := components.ContentWidth(width)

	// height is the content area; estimate full terminal height
	// by adding back header (3) + footer (3) + frame gaps
	compact := height+8 < 30 || width < 100

	if h.modal {
		return components.Frame(renderNoHearts(cw), width, height)
	}

	var sections []string
	if !compact {
		sections = append(sections, renderMascotBox(mascotFor(p), cw))
	}
	sections = append(sections, renderProfileCard(p, cw))
	sections = append(sections, renderSubjectTabs(p.CurrentSubject, cw))
	sections = append(sections, h.menuView(cw))

	if h.status != "" {
		sections = append(sections, lipgloss.NewStyle().
			Foreground(theme.Accent).Width(cw).Align(lipgloss.Center).Render(h.status))
	}
	if h.offline {
		sections = append(sections, renderOfflineBanner(cw))
	}

	return components.Frame(strings.Join(sections, "\n\n"), width, height)
}

func (h *HomeScreen) menuView(cw int) string {
	m := h.menu
	m.Width = cw
	return m.View()
}
