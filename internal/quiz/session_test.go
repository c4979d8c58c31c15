package quiz

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/abhisek/cermat/internal/profile"
	"github.com/abhisek/cermat/internal/progression"
	"github.com/abhisek/cermat/internal/questions"
)

type fakeHearts struct {
	mu    sync.Mutex
	count int
	spent int
}

func (f *fakeHearts) Hearts() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.count
}

func (f *fakeHearts) SpendHeart() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.spent++
	f.count = max(f.count-1, 0)
}

func fiveQuestions() []questions.Question {
	qs := make([]questions.Question, 5)
	for i := range qs {
		qs[i] = questions.Question{
			ID:      string(rune('a' + i)),
			Type:    questions.TypeTrueFalse,
			Text:    "Platí to?",
			Options: []string{"Ano", "Ne"},
			Answer:  "Ano",
			Hint:    "Zamysli se.",
		}
	}
	return qs
}

func staticSource(qs []questions.Question, err error) questions.Source {
	return questions.SourceFunc(func(context.Context, questions.Request) ([]questions.Question, error) {
		return qs, err
	})
}

type summarySink struct {
	ch chan progression.Summary
}

func newSink() *summarySink { return &summarySink{ch: make(chan progression.Summary, 4)} }

func (s *summarySink) fn(sum progression.Summary) { s.ch <- sum }

func (s *summarySink) wait(t *testing.T) progression.Summary {
	t.Helper()
	select {
	case sum := <-s.ch:
		return sum
	case <-time.After(2 * time.Second):
		t.Fatal("summary not emitted")
		return progression.Summary{}
	}
}

func (s *summarySink) none(t *testing.T, d time.Duration) {
	t.Helper()
	select {
	case sum := <-s.ch:
		t.Fatalf("unexpected summary %+v", sum)
	case <-time.After(d):
	}
}

func mathConfig() Config {
	return Config{Subject: profile.SubjectMath, Topic: "Zlomky", LessonID: "m-1", SummaryDelay: 10 * time.Millisecond}
}

// answer selects and locks one answer, then advances.
func answer(t *testing.T, s *Session, a string) {
	t.Helper()
	if err := s.Select(a); err != nil {
		t.Fatalf("select: %v", err)
	}
	if _, err := s.Lock(); err != nil {
		t.Fatalf("lock: %v", err)
	}
	if err := s.Next(); err != nil {
		t.Fatalf("next: %v", err)
	}
}

func TestFullAttemptEmitsSummaryOnce(t *testing.T) {
	hearts := &fakeHearts{count: 5}
	sink := newSink()
	s := New(mathConfig(), staticSource(fiveQuestions(), nil), hearts, sink.fn)

	if err := s.Load(context.Background()); err != nil {
		t.Fatal(err)
	}
	for _, a := range []string{"Ano", "Ano", "Ne", "Ano", "Ano"} {
		answer(t, s, a)
	}
	if s.Phase() != PhaseFinished {
		t.Fatalf("phase = %s, want finished", s.Phase())
	}

	sum := sink.wait(t)
	if sum.BaseXP != 40 || sum.Correct != 4 || sum.LessonID != "m-1" || sum.Questions != 5 || sum.Subject != profile.SubjectMath {
		t.Errorf("summary = %+v", sum)
	}
	if sum.AttemptID != s.AttemptID() || sum.Fallback {
		t.Errorf("summary ids = %+v", sum)
	}
	if hearts.spent != 1 {
		t.Errorf("hearts spent = %d, want 1", hearts.spent)
	}

	s.Exit()
	sink.none(t, 30*time.Millisecond)
}

func TestSummaryWaitsForDelay(t *testing.T) {
	sink := newSink()
	cfg := mathConfig()
	cfg.SummaryDelay = 80 * time.Millisecond
	s := New(cfg, staticSource(fiveQuestions()[:1], nil), &fakeHearts{count: 5}, sink.fn)
	if err := s.Load(context.Background()); err != nil {
		t.Fatal(err)
	}

	start := time.Now()
	answer(t, s, "Ano")
	sink.wait(t)
	if elapsed := time.Since(start); elapsed < 80*time.Millisecond {
		t.Fatalf("summary emitted after %v, before the display delay", elapsed)
	}
}

func TestNoHeartsNeverAnswers(t *testing.T) {
	sink := newSink()
	called := false
	src := questions.SourceFunc(func(context.Context, questions.Request) ([]questions.Question, error) {
		called = true
		return fiveQuestions(), nil
	})
	s := New(mathConfig(), src, &fakeHearts{count: 0}, sink.fn)

	if err := s.Load(context.Background()); !errors.Is(err, ErrExhausted) {
		t.Fatalf("load err = %v, want ErrExhausted", err)
	}
	if s.Phase() != PhaseExhausted || called {
		t.Fatalf("phase = %s, source called = %v", s.Phase(), called)
	}
	if err := s.Select("Ano"); !errors.Is(err, ErrWrongPhase) {
		t.Fatalf("select err = %v", err)
	}
	s.Exit()
	sink.none(t, 30*time.Millisecond)
}

func TestSourceFailureAborts(t *testing.T) {
	sink := newSink()
	for name, src := range map[string]questions.Source{
		"error": staticSource(nil, errors.New("boom")),
		"empty": staticSource(nil, nil),
	} {
		t.Run(name, func(t *testing.T) {
			s := New(mathConfig(), src, &fakeHearts{count: 5}, sink.fn)
			if err := s.Load(context.Background()); err == nil {
				t.Fatal("expected load error")
			}
			if s.Phase() != PhaseAborted {
				t.Fatalf("phase = %s, want aborted", s.Phase())
			}
		})
	}
	sink.none(t, 20*time.Millisecond)
}

func TestFallbackSetGovernsLength(t *testing.T) {
	sink := newSink()
	failing := staticSource(nil, errors.New("no credential"))
	s := New(mathConfig(), questions.WithFallback(failing, nil), &fakeHearts{count: 5}, sink.fn)
	if err := s.Load(context.Background()); err != nil {
		t.Fatal(err)
	}

	v := s.View()
	if v.Total != 3 || !v.Fallback {
		t.Fatalf("view = %+v, want 3 fallback questions", v)
	}
	for _, q := range questions.Fallback() {
		answer(t, s, q.Answer)
	}

	sum := sink.wait(t)
	if sum.Questions != 3 || sum.Correct != 3 || sum.BaseXP != 30 || !sum.Fallback {
		t.Errorf("summary = %+v", sum)
	}
}

func TestSelectIsReplaceableUntilLocked(t *testing.T) {
	s := New(mathConfig(), staticSource(fiveQuestions(), nil), &fakeHearts{count: 5}, nil)
	if err := s.Load(context.Background()); err != nil {
		t.Fatal(err)
	}

	if _, err := s.Lock(); !errors.Is(err, ErrNothingSelected) {
		t.Fatalf("lock without selection err = %v", err)
	}
	s.Select("Ne")
	s.Select("Ano")
	out, err := s.Lock()
	if err != nil || !out.Correct || out.Answer != "Ano" {
		t.Fatalf("outcome = %+v, err = %v", out, err)
	}
	if err := s.Select("Ne"); !errors.Is(err, ErrWrongPhase) {
		t.Fatalf("select after lock err = %v", err)
	}
	if _, err := s.Lock(); !errors.Is(err, ErrWrongPhase) {
		t.Fatalf("double lock err = %v", err)
	}
	if v := s.View(); v.XP != 10 || v.Correct != 1 {
		t.Fatalf("view = %+v", v)
	}
}

func TestHintUnlocksAfterTwoMistakes(t *testing.T) {
	s := New(mathConfig(), staticSource(fiveQuestions(), nil), &fakeHearts{count: 5}, nil)
	if err := s.Load(context.Background()); err != nil {
		t.Fatal(err)
	}

	if _, err := s.RevealHint(); !errors.Is(err, ErrHintLocked) {
		t.Fatalf("hint before mistakes err = %v", err)
	}
	answer(t, s, "Ne")
	if s.View().HintAvailable {
		t.Fatal("hint unlocked after one mistake")
	}
	answer(t, s, "Ne")

	for i := 0; i < 3; i++ {
		if !s.View().HintAvailable {
			t.Fatalf("question %d: hint should stay unlocked", i+3)
		}
		hint, err := s.RevealHint()
		if err != nil || hint != "Zamysli se." {
			t.Fatalf("hint = %q, err = %v", hint, err)
		}
		if !s.View().HintShown {
			t.Fatal("hint not marked shown")
		}
		if i < 2 {
			answer(t, s, "Ano")
			if s.View().HintShown {
				t.Fatal("hint visibility must reset on the next question")
			}
		}
	}
}

func TestHeartsRunOutMidAttempt(t *testing.T) {
	hearts := &fakeHearts{count: 1}
	sink := newSink()
	s := New(mathConfig(), staticSource(fiveQuestions(), nil), hearts, sink.fn)
	if err := s.Load(context.Background()); err != nil {
		t.Fatal(err)
	}

	s.Select("Ne")
	out, _ := s.Lock()
	if out.Correct || hearts.Hearts() != 0 {
		t.Fatalf("outcome = %+v hearts = %d", out, hearts.Hearts())
	}
	if err := s.Next(); !errors.Is(err, ErrExhausted) {
		t.Fatalf("next err = %v, want ErrExhausted", err)
	}
	if s.Phase() != PhaseExhausted {
		t.Fatalf("phase = %s", s.Phase())
	}
	s.Exit()
	if s.Phase() != PhaseAborted {
		t.Fatalf("phase after exit = %s", s.Phase())
	}
	sink.none(t, 30*time.Millisecond)
}

func TestCheckHeartsOnRedraw(t *testing.T) {
	hearts := &fakeHearts{count: 2}
	s := New(mathConfig(), staticSource(fiveQuestions(), nil), hearts, nil)
	if err := s.Load(context.Background()); err != nil {
		t.Fatal(err)
	}
	if s.CheckHearts() != PhaseReady {
		t.Fatal("expected ready")
	}
	hearts.count = 0
	if s.CheckHearts() != PhaseExhausted {
		t.Fatal("expected exhausted once hearts are gone")
	}
}

func TestExitAbortsWithoutSummary(t *testing.T) {
	sink := newSink()
	s := New(mathConfig(), staticSource(fiveQuestions(), nil), &fakeHearts{count: 5}, sink.fn)
	if err := s.Load(context.Background()); err != nil {
		t.Fatal(err)
	}
	answer(t, s, "Ano")
	s.Exit()

	if err := s.Select("Ano"); !errors.Is(err, ErrWrongPhase) {
		t.Fatalf("select after exit err = %v", err)
	}
	sink.none(t, 30*time.Millisecond)
}

func TestExitDuringLoadDiscardsQuestions(t *testing.T) {
	release := make(chan struct{})
	src := questions.SourceFunc(func(context.Context, questions.Request) ([]questions.Question, error) {
		<-release
		return fiveQuestions(), nil
	})
	s := New(mathConfig(), src, &fakeHearts{count: 5}, nil)

	done := make(chan error)
	go func() { done <- s.Load(context.Background()) }()
	s.Exit()
	close(release)

	if err := <-done; !errors.Is(err, ErrWrongPhase) {
		t.Fatalf("load err = %v", err)
	}
	if s.Phase() != PhaseAborted {
		t.Fatalf("phase = %s", s.Phase())
	}
}

func TestReviewMarksReachSummary(t *testing.T) {
	sink := newSink()
	s := New(mathConfig(), staticSource(fiveQuestions(), nil), &fakeHearts{count: 5}, sink.fn)
	if err := s.Load(context.Background()); err != nil {
		t.Fatal(err)
	}

	for i := 0; i < 5; i++ {
		if i == 1 || i == 3 {
			if marked, err := s.ToggleReview(); err != nil || !marked {
				t.Fatalf("toggle = %v, %v", marked, err)
			}
		}
		if i == 2 {
			s.ToggleReview()
			if marked, _ := s.ToggleReview(); marked {
				t.Fatal("second toggle should unmark")
			}
		}
		answer(t, s, "Ano")
	}

	sum := sink.wait(t)
	if len(sum.Reviewed) != 2 || sum.Reviewed[0] != "b" || sum.Reviewed[1] != "d" {
		t.Fatalf("reviewed = %v", sum.Reviewed)
	}
}

func TestPhaseString(t *testing.T) {
	tests := map[Phase]string{
		PhaseLoading:      "loading",
		PhaseAnswerLocked: "answer-locked",
		PhaseExhausted:    "exhausted",
		Phase(99):         "unknown",
	}
	for p, want := range tests {
		if p.String() != want {
			t.Errorf("%d.String() = %q, want %q", int(p), p.String(), want)
		}
	}
	if !PhaseAborted.Terminal() || PhaseReady.Terminal() {
		t.Error("terminal phases wrong")
	}
}
