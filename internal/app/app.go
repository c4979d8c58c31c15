package app

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/cermat/internal/game"
	"github.com/abhisek/cermat/internal/profile"
	"github.com/abhisek/cermat/internal/questions"
	"github.com/abhisek/cermat/internal/router"
	"github.com/abhisek/cermat/internal/screen"
	"github.com/abhisek/cermat/internal/screens/home"
	"github.com/abhisek/cermat/internal/screens/login"
	"github.com/abhisek/cermat/internal/screens/welcome"
	"github.com/abhisek/cermat/internal/store"
	"github.com/abhisek/cermat/internal/ui/components"
	"github.com/abhisek/cermat/internal/ui/layout"
	"github.com/abhisek/cermat/internal/ui/theme"
)

const noteBuffer = 16

// Options holds the dependencies of the TUI.
type Options struct {
	Auth   login.Authenticator
	Saver  game.Saver
	Events store.EventRepo // optional; nil hides the history
	Source questions.Source

	// Offline marks a run without an LLM provider.
	Offline bool

	RegenInterval time.Duration
	SummaryDelay  time.Duration
	Logger        *slog.Logger
}

// noteMsg carries a game notification into the update loop.
type noteMsg game.Notification

// AppModel is the root Bubble Tea model.
type AppModel struct {
	opts   Options
	router *router.Router
	game   *game.Game
	notes  chan game.Notification
	toast  components.Toast
	width  int
	height int
}

// newAppModel creates a new AppModel starting at the welcome screen.
func newAppModel(opts Options) AppModel {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	m := AppModel{
		opts:  opts,
		notes: make(chan game.Notification, noteBuffer),
	}
	m.router = router.New(welcome.New(m.loginScreen))
	return m
}

func (m AppModel) loginScreen() screen.Screen {
	return login.New(m.opts.Auth)
}

func (m AppModel) Init() tea.Cmd {
	return tea.Batch(m.router.Active().Init(), m.waitForNote())
}

// waitForNote blocks until the game publishes a notification.
func (m AppModel) waitForNote() tea.Cmd {
	ch := m.notes
	return func() tea.Msg {
		return noteMsg(<-ch)
	}
}

// notify is the game's observer. It runs on game goroutines and drops the
// notification rather than block when the UI falls behind.
func (m AppModel) notify(n game.Notification) {
	select {
	case m.notes <- n:
	default:
		m.opts.Logger.Warn("dropped notification", "kind", n.Kind)
	}
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.endSession()
			return m, tea.Quit
		}

	case login.LoggedInMsg:
		cmd := m.startSession(msg)
		return m, cmd

	case home.LogoutMsg:
		m.endSession()
		return m, func() tea.Msg { return router.ResetScreenMsg{Screen: m.loginScreen()} }

	case noteMsg:
		n := game.Notification(msg)
		show := m.toast.Show(n.Title(), n.Body())
		m.router.Refresh()
		return m, tea.Batch(show, m.waitForNote())

	case components.ToastExpiredMsg:
		m.toast.Expire(msg)
		return m, nil
	}

	cmd := m.router.Update(msg)
	return m, cmd
}

// startSession builds the live game for a freshly logged in learner.
func (m *AppModel) startSession(msg login.LoggedInMsg) tea.Cmd {
	m.endSession()

	logger := m.opts.Logger.With("user", msg.Identity)
	g := game.New(msg.Identity, msg.State.Profile, msg.State.Catalog, m.opts.Source,
		game.WithSaver(m.opts.Saver),
		game.WithEventLog(eventLog(m.opts.Events)),
		game.WithNotifier(m.notify),
		game.WithLogger(logger),
		game.WithRegenInterval(m.opts.RegenInterval),
		game.WithSummaryDelay(m.opts.SummaryDelay),
	)
	if err := g.Start(); err != nil {
		logger.Error("failed to start heart regeneration", "error", err)
	}
	m.game = g

	theme.Use(msg.State.Profile.Theme)
	logger.Info("session started")

	next := home.New(g, m.opts.Events, m.opts.Offline)
	return func() tea.Msg { return router.ResetScreenMsg{Screen: next} }
}

func (m *AppModel) endSession() {
	if m.game == nil {
		return
	}
	m.game.Stop()
	m.opts.Logger.Info("session ended", "user", m.game.Identity())
	m.game = nil
}

// eventLog keeps a nil repo a nil interface.
func eventLog(r store.EventRepo) game.EventLog {
	if r == nil {
		return nil
	}
	return r
}

func (m AppModel) headerStats() *layout.HeaderStats {
	if m.game == nil {
		return nil
	}
	p := m.game.Profile()
	return &layout.HeaderStats{
		Hearts:    p.Hearts,
		MaxHearts: profile.MaxHearts,
		XP:        p.XP,
		Level:     p.Level(),
		Streak:    p.Streak,
	}
}

func (m AppModel) footerHints() []layout.KeyHint {
	if p, ok := m.router.Active().(screen.KeyHintProvider); ok {
		return p.KeyHints()
	}
	if m.router.Depth() > 1 {
		return []layout.KeyHint{
			{Key: "Esc", Description: "Zpět"},
			{Key: "Ctrl+C", Description: "Konec"},
		}
	}
	return []layout.KeyHint{{Key: "Ctrl+C", Description: "Konec"}}
}

func (m AppModel) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true

	if m.width == 0 || m.height == 0 {
		return v
	}
	v.SetContent(m.render())
	return v
}

// render draws the frame for the current window size.
func (m AppModel) render() string {
	if layout.IsTooSmall(m.width, m.height) {
		return layout.RenderMinSizeMessage(m.width, m.height)
	}

	title := ""
	if active := m.router.Active(); active != nil {
		title = active.Title()
	}

	header := layout.RenderHeader(title, m.headerStats(), m.width)
	footer := layout.RenderFooter(m.footerHints(), m.width)

	contentHeight := max(m.height-lipgloss.Height(header)-lipgloss.Height(footer), 0)

	var content string
	if m.toast.Visible() {
		toast := lipgloss.PlaceHorizontal(m.width, lipgloss.Right, m.toast.View())
		rest := max(contentHeight-lipgloss.Height(toast), 0)
		content = toast + "\n" + m.router.View(m.width, rest)
	} else {
		content = m.router.View(m.width, contentHeight)
	}

	return layout.RenderFrame(header, content, footer, m.width, m.height)
}

// Run starts the Bubble Tea program.
func Run(opts Options) error {
	m := newAppModel(opts)
	p := tea.NewProgram(m)
	final, err := p.Run()
	if am, ok := final.(AppModel); ok {
		am.endSession()
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error running program:", err)
		return err
	}
	return nil
}
