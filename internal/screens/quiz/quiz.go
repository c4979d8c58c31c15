// Package quiz renders a quiz attempt and feeds key presses into its state
// machine.
package quiz

import (
	"context"
	"errors"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/cermat/internal/questions"
	"github.com/abhisek/cermat/internal/quiz"
	"github.com/abhisek/cermat/internal/router"
	"github.com/abhisek/cermat/internal/screen"
	"github.com/abhisek/cermat/internal/ui/components"
	"github.com/abhisek/cermat/internal/ui/layout"
)

const (
	loadTimeout    = time.Minute
	spinnerTick    = 120 * time.Millisecond
	heartsPollTick = time.Second
)

// Session is the quiz state machine driven by the screen.
type Session interface {
	Load(ctx context.Context) error
	CheckHearts() quiz.Phase
	Select(answer string) error
	Lock() (quiz.Outcome, error)
	Next() error
	RevealHint() (string, error)
	ToggleReview() (bool, error)
	Exit()
	View() quiz.View
	Config() quiz.Config
}

type loadedMsg struct {
	err error
}

type spinnerTickMsg time.Time

type heartsTickMsg time.Time

// QuizScreen shows one attempt from loading to its result.
type QuizScreen struct {
	session Session
	view    quiz.View

	choice    components.MultiChoice
	input     components.TextInput
	questionN int // index the widgets were built for
	hint      string
	notice    string
	loadErr   error
	spinner   int
}

var (
	_ screen.Screen          = (*QuizScreen)(nil)
	_ screen.KeyHintProvider = (*QuizScreen)(nil)
	_ screen.Refresher       = (*QuizScreen)(nil)
)

// New creates a QuizScreen for a session that has not been loaded yet.
func New(s Session) *QuizScreen {
	return &QuizScreen{
		session:   s,
		view:      s.View(),
		questionN: -1,
	}
}

func (q *QuizScreen) Init() tea.Cmd {
	s := q.session
	load := func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), loadTimeout)
		defer cancel()
		return loadedMsg{err: s.Load(ctx)}
	}
	return tea.Batch(load, spin(), pollHearts())
}

func spin() tea.Cmd {
	return tea.Tick(spinnerTick, func(t time.Time) tea.Msg { return spinnerTickMsg(t) })
}

func pollHearts() tea.Cmd {
	return tea.Tick(heartsPollTick, func(t time.Time) tea.Msg { return heartsTickMsg(t) })
}

// Refresh re-reads the session after a game notification, e.g. a heart
// that regenerated while the learner was reading.
func (q *QuizScreen) Refresh() {
	q.session.CheckHearts()
	q.refresh()
}

func (q *QuizScreen) Title() string {
	cfg := q.session.Config()
	if cfg.LessonID == "" {
		return "Procvičování · " + cfg.Subject.DisplayName()
	}
	return cfg.Subject.DisplayName() + " · " + cfg.Topic
}

func (q *QuizScreen) KeyHints() []layout.KeyHint {
	switch q.view.Phase {
	case quiz.PhaseReady, quiz.PhaseAnswering:
		hints := []layout.KeyHint{
			{Key: "Enter", Description: "Odpovědět"},
			{Key: "Esc", Description: "Ukončit"},
		}
		if q.view.HintAvailable && !q.view.HintShown {
			hints = append(hints, layout.KeyHint{Key: "Tab", Description: "Nápověda"})
		}
		return hints
	case quiz.PhaseAnswerLocked:
		return []layout.KeyHint{
			{Key: "Enter", Description: "Další"},
			{Key: "R", Description: "Označit k opakování"},
			{Key: "Esc", Description: "Ukončit"},
		}
	case quiz.PhaseLoading:
		return []layout.KeyHint{{Key: "Esc", Description: "Zpět"}}
	default:
		return []layout.KeyHint{{Key: "Enter", Description: "Zpět domů"}}
	}
}

func (q *QuizScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case loadedMsg:
		q.loadErr = msg.err
		q.refresh()
		return q, q.focusInput()

	case spinnerTickMsg:
		q.spinner++
		if q.view.Phase == quiz.PhaseLoading {
			return q, spin()
		}
		return q, nil

	case heartsTickMsg:
		// Hearts can also change outside this screen.
		q.session.CheckHearts()
		q.refresh()
		if q.view.Phase.Terminal() {
			return q, nil
		}
		return q, pollHearts()

	case tea.KeyMsg:
		return q.handleKey(msg)
	}
	return q, nil
}

func (q *QuizScreen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	key := msg.String()

	if q.view.Phase.Terminal() {
		if key == "enter" || key == "esc" {
			return q, back()
		}
		return q, nil
	}

	if key == "esc" {
		q.session.Exit()
		return q, back()
	}

	q.notice = ""
	switch q.view.Phase {
	case quiz.PhaseReady, quiz.PhaseAnswering:
		switch key {
		case "enter":
			q.answer()
			return q, nil
		case "tab":
			q.revealHint()
			return q, nil
		}
		var cmd tea.Cmd
		if q.view.Question.Type.HasOptions() {
			q.choice, cmd = q.choice.Update(msg)
		} else {
			q.input, cmd = q.input.Update(msg)
		}
		return q, cmd

	case quiz.PhaseAnswerLocked:
		switch key {
		case "enter", "space":
			if err := q.session.Next(); err != nil && !errors.Is(err, quiz.ErrExhausted) {
				q.notice = err.Error()
			}
			q.refresh()
			return q, q.focusInput()
		case "r":
			if _, err := q.session.ToggleReview(); err == nil {
				q.refresh()
			}
			return q, nil
		}
	}
	return q, nil
}

func (q *QuizScreen) answer() {
	var selected string
	if q.view.Question.Type.HasOptions() {
		selected = q.choice.Current()
	} else {
		selected = q.input.Value()
	}
	if selected == "" {
		q.notice = "Nejdřív vyber odpověď."
		return
	}

	if err := q.session.Select(selected); err != nil {
		q.refresh()
		return
	}
	out, err := q.session.Lock()
	if err != nil {
		q.notice = err.Error()
		return
	}

	if q.view.Question.Type.HasOptions() {
		q.choice.Lock(out.Answer, q.view.Question.Answer)
	} else {
		q.input.Submit(out.Correct)
	}
	q.refresh()
}

func (q *QuizScreen) revealHint() {
	hint, err := q.session.RevealHint()
	if err != nil {
		q.notice = "Nápověda se odemkne po dvou chybách."
		return
	}
	q.hint = hint
	q.refresh()
}

// refresh pulls a fresh snapshot and rebuilds the answer widgets when the
// question changed.
func (q *QuizScreen) refresh() {
	q.view = q.session.View()
	if q.view.Total == 0 || q.view.Index == q.questionN {
		return
	}
	q.questionN = q.view.Index
	q.hint = ""

	question := q.view.Question
	if question.Type.HasOptions() {
		q.choice = components.NewMultiChoice(question.Text, question.Options)
	} else {
		q.input = components.NewTextInput("napiš odpověď", components.CharLimit(40))
	}
}

func (q *QuizScreen) focusInput() tea.Cmd {
	if q.view.Total == 0 || q.view.Question.Type != questions.TypeFillIn {
		return nil
	}
	return q.input.Focus()
}

func back() tea.Cmd {
	return func() tea.Msg { return router.PopScreenMsg{} }
}
