// Package quiz runs a single quiz attempt from question loading to the
// summary handed to the progression engine.
package quiz

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/abhisek/cermat/internal/profile"
	"github.com/abhisek/cermat/internal/progression"
	"github.com/abhisek/cermat/internal/questions"
)

const (
	// HintMistakes is the number of mistakes after which hints unlock for
	// the rest of the attempt.
	HintMistakes = 2

	// DefaultSummaryDelay is how long the finish screen shows before the
	// summary is emitted.
	DefaultSummaryDelay = 2500 * time.Millisecond
)

var (
	ErrWrongPhase      = errors.New("not allowed in the current phase")
	ErrNothingSelected = errors.New("no answer selected")
	ErrHintLocked      = errors.New("hint not available")
	ErrNoQuestions     = errors.New("question source returned no questions")
	ErrExhausted       = errors.New("out of hearts")
)

// HeartKeeper owns the learner's hearts. The session only reads the count
// and asks for one to be spent; the floor is the keeper's business.
type HeartKeeper interface {
	Hearts() int
	SpendHeart()
}

// Config describes the attempt.
type Config struct {
	Subject    profile.Subject
	Topic      string
	LessonID   string // empty for free practice
	Difficulty questions.Difficulty

	// SummaryDelay defaults to DefaultSummaryDelay; a negative value emits
	// without delay.
	SummaryDelay time.Duration
}

// Outcome is the evaluation of a locked answer.
type Outcome struct {
	Answer  string
	Correct bool
}

// Session is one quiz attempt. It is safe for concurrent use; Load may run
// on a different goroutine than the input methods.
type Session struct {
	cfg        Config
	source     questions.Source
	hearts     HeartKeeper
	onComplete func(progression.Summary)
	attemptID  string

	mu        sync.Mutex
	phase     Phase
	questions []questions.Question
	fallback  bool
	current   int
	selected  string
	outcome   Outcome
	xp        int
	correct   int
	mistakes  int
	hintOpen  bool // unlocked for the rest of the attempt
	hintShown bool // revealed on the current question
	reviewed  map[string]bool
	emitOnce  sync.Once
}

// New creates a session in the loading phase. onComplete receives the
// summary exactly once, and only for a finished attempt.
func New(cfg Config, source questions.Source, hearts HeartKeeper, onComplete func(progression.Summary)) *Session {
	if cfg.SummaryDelay == 0 {
		cfg.SummaryDelay = DefaultSummaryDelay
	}
	if cfg.Difficulty == "" {
		cfg.Difficulty = questions.DifficultyMedium
	}
	return &Session{
		cfg:        cfg,
		source:     source,
		hearts:     hearts,
		onComplete: onComplete,
		attemptID:  uuid.NewString(),
		reviewed:   make(map[string]bool),
	}
}

// Load fetches the questions. A learner without hearts never gets past
// loading. A failed fetch aborts the attempt.
func (s *Session) Load(ctx context.Context) error {
	s.mu.Lock()
	if s.phase != PhaseLoading {
		s.mu.Unlock()
		return ErrWrongPhase
	}
	if s.hearts.Hearts() <= 0 {
		s.phase = PhaseExhausted
		s.mu.Unlock()
		return ErrExhausted
	}
	s.mu.Unlock()

	qs, err := s.source.Questions(ctx, questions.Request{
		Subject:    s.cfg.Subject,
		Topic:      s.cfg.Topic,
		Difficulty: s.cfg.Difficulty,
	})

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.phase != PhaseLoading {
		// Exited while the fetch was in flight.
		return ErrWrongPhase
	}
	if err != nil {
		s.phase = PhaseAborted
		return fmt.Errorf("load questions: %w", err)
	}
	if len(qs) == 0 {
		s.phase = PhaseAborted
		return ErrNoQuestions
	}

	s.questions = qs
	s.fallback = questions.IsFallback(qs)
	s.phase = PhaseReady
	return nil
}

// checkHearts moves an interactive session to exhausted when the hearts
// are gone. Caller holds mu.
func (s *Session) checkHearts() bool {
	switch s.phase {
	case PhaseReady, PhaseAnswering, PhaseAnswerLocked:
		if s.hearts.Hearts() <= 0 {
			s.phase = PhaseExhausted
			return false
		}
	}
	return true
}

// CheckHearts re-evaluates the heart gate and returns the resulting phase.
// Front-ends call it whenever they redraw.
func (s *Session) CheckHearts() Phase {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.checkHearts()
	return s.phase
}

// Select sets the pending answer. It may be called repeatedly until the
// answer is locked.
func (s *Session) Select(answer string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.phase != PhaseReady && s.phase != PhaseAnswering {
		return ErrWrongPhase
	}
	if !s.checkHearts() {
		return ErrExhausted
	}
	s.selected = answer
	s.phase = PhaseAnswering
	return nil
}

// Lock evaluates the pending answer.
func (s *Session) Lock() (Outcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.phase == PhaseReady {
		return Outcome{}, ErrNothingSelected
	}
	if s.phase != PhaseAnswering {
		return Outcome{}, ErrWrongPhase
	}

	q := s.questions[s.current]
	s.outcome = Outcome{Answer: s.selected, Correct: q.IsCorrect(s.selected)}
	if s.outcome.Correct {
		s.xp += progression.XPPerCorrect
		s.correct++
	} else {
		s.hearts.SpendHeart()
		s.mistakes++
		if s.mistakes >= HintMistakes {
			s.hintOpen = true
		}
	}
	s.phase = PhaseAnswerLocked
	return s.outcome, nil
}

// Next advances to the following question, or finishes the attempt after
// the last one.
func (s *Session) Next() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.phase != PhaseAnswerLocked {
		return ErrWrongPhase
	}
	if !s.checkHearts() {
		return ErrExhausted
	}

	if s.current == len(s.questions)-1 {
		s.phase = PhaseFinished
		s.scheduleSummary()
		return nil
	}

	s.current++
	s.selected = ""
	s.outcome = Outcome{}
	s.hintShown = false
	s.phase = PhaseReady
	return nil
}

// scheduleSummary emits the summary after the display delay. Caller holds mu.
func (s *Session) scheduleSummary() {
	sum := progression.Summary{
		AttemptID: s.attemptID,
		BaseXP:    s.xp,
		Correct:   s.correct,
		Subject:   s.cfg.Subject,
		Topic:     s.cfg.Topic,
		LessonID:  s.cfg.LessonID,
		Questions: len(s.questions),
		Fallback:  s.fallback,
	}
	for _, q := range s.questions {
		if s.reviewed[q.ID] {
			sum.Reviewed = append(sum.Reviewed, q.ID)
		}
	}

	emit := func() {
		s.emitOnce.Do(func() {
			if s.onComplete != nil {
				s.onComplete(sum)
			}
		})
	}
	time.AfterFunc(max(s.cfg.SummaryDelay, 0), emit)
}

// RevealHint shows the hint of the current question once hints are
// unlocked.
func (s *Session) RevealHint() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.phase != PhaseReady && s.phase != PhaseAnswering {
		return "", ErrWrongPhase
	}
	hint := s.questions[s.current].Hint
	if !s.hintOpen || hint == "" {
		return "", ErrHintLocked
	}
	s.hintShown = true
	return hint, nil
}

// ToggleReview flags or unflags the current question for later review and
// returns the new flag.
func (s *Session) ToggleReview() (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.phase == PhaseLoading || s.phase.Terminal() {
		return false, ErrWrongPhase
	}
	id := s.questions[s.current].ID
	s.reviewed[id] = !s.reviewed[id]
	if !s.reviewed[id] {
		delete(s.reviewed, id)
	}
	return s.reviewed[id], nil
}

// Exit leaves the attempt. Anything short of a finished attempt is aborted
// without a summary. A finished attempt still delivers its summary.
func (s *Session) Exit() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.phase == PhaseFinished {
		return
	}
	s.phase = PhaseAborted
}

// View is a read-only snapshot of the session for rendering.
type View struct {
	Phase         Phase
	Question      questions.Question
	Index         int
	Total         int
	Selected      string
	Outcome       Outcome
	XP            int
	Correct       int
	Mistakes      int
	HintAvailable bool
	HintShown     bool
	Reviewed      bool
	Fallback      bool
}

// View returns the current state.
func (s *Session) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()

	v := View{
		Phase:     s.phase,
		Index:     s.current,
		Total:     len(s.questions),
		Selected:  s.selected,
		Outcome:   s.outcome,
		XP:        s.xp,
		Correct:   s.correct,
		Mistakes:  s.mistakes,
		HintShown: s.hintShown,
		Fallback:  s.fallback,
	}
	if len(s.questions) > 0 {
		q := s.questions[s.current]
		q.Options = slices.Clone(q.Options)
		v.Question = q
		v.HintAvailable = s.hintOpen && q.Hint != ""
		v.Reviewed = s.reviewed[q.ID]
	}
	return v
}

// Phase returns the current phase.
func (s *Session) Phase() Phase {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.phase
}

// AttemptID identifies the attempt in the event log.
func (s *Session) AttemptID() string {
	return s.attemptID
}

// Config returns the attempt configuration.
func (s *Session) Config() Config {
	return s.cfg
}
