// Package game owns a logged-in learner's live state. It gates quiz
// attempts, commits their results through the progression engine, keeps
// the heart regeneration running and persists every committed change in
// the background.
package game

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/abhisek/cermat/internal/catalog"
	"github.com/abhisek/cermat/internal/hearts"
	"github.com/abhisek/cermat/internal/profile"
	"github.com/abhisek/cermat/internal/progression"
	"github.com/abhisek/cermat/internal/questions"
	"github.com/abhisek/cermat/internal/quiz"
	"github.com/abhisek/cermat/internal/store"
)

// PracticeTopic is requested from the question source for free practice.
const PracticeTopic = "mix otázek k přijímacím zkouškám, všeobecný přehled učiva"

var (
	ErrNoHearts      = errors.New("no hearts left")
	ErrUnknownLesson = errors.New("unknown lesson")
	ErrLessonLocked  = errors.New("lesson is locked")
	ErrNoChest       = errors.New("no mystery chest to open")
)

// Saver persists state without blocking. auth.Saver implements it.
type Saver interface {
	Enqueue(identity string, p profile.Profile, c catalog.Catalog)
}

// EventLog records attempts and rewards. store.EventRepo implements it.
type EventLog interface {
	AppendAttempt(ctx context.Context, data store.AttemptEventData) error
	AppendReward(ctx context.Context, data store.RewardEventData) error
}

// Game serializes every transition of one learner's profile and catalog.
type Game struct {
	identity string
	engine   *progression.Engine
	source   questions.Source
	saver    Saver
	events   EventLog
	notify   func(Notification)
	logger   *slog.Logger

	summaryDelay  time.Duration
	regenInterval time.Duration
	regen         *hearts.Regenerator

	mu          sync.Mutex
	profile     profile.Profile
	catalog     catalog.Catalog
	chest       *progression.Chest
	chestOnPath bool
}

// Option configures a Game.
type Option func(*Game)

// WithEngine sets the progression engine.
func WithEngine(e *progression.Engine) Option {
	return func(g *Game) { g.engine = e }
}

// WithChest sets the mystery chest random source.
func WithChest(c *progression.Chest) Option {
	return func(g *Game) { g.chest = c }
}

// WithSaver sets the background persistence.
func WithSaver(s Saver) Option {
	return func(g *Game) { g.saver = s }
}

// WithEventLog sets the attempt and reward log.
func WithEventLog(l EventLog) Option {
	return func(g *Game) { g.events = l }
}

// WithNotifier sets the notification observer. It is called outside the
// game lock and may call back into the Game.
func WithNotifier(fn func(Notification)) Option {
	return func(g *Game) { g.notify = fn }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(g *Game) { g.logger = l }
}

// WithSummaryDelay sets the quiz finish screen delay.
func WithSummaryDelay(d time.Duration) Option {
	return func(g *Game) { g.summaryDelay = d }
}

// WithRegenInterval sets the heart regeneration period.
func WithRegenInterval(d time.Duration) Option {
	return func(g *Game) { g.regenInterval = d }
}

// New creates a Game for an authenticated learner.
func New(identity string, p profile.Profile, c catalog.Catalog, source questions.Source, opts ...Option) *Game {
	g := &Game{
		identity: identity,
		source:   source,
		profile:  p.Clone(),
		catalog:  c.Clone(),
		logger:   slog.Default(),
	}
	for _, o := range opts {
		o(g)
	}
	if g.engine == nil {
		g.engine = progression.NewEngine()
	}
	if g.chest == nil {
		g.chest = progression.NewSeededChest(uint64(time.Now().UnixNano()))
	}
	if g.source == nil {
		g.source = questions.WithFallback(nil, g.logger)
	}
	g.regen = hearts.NewRegenerator(g.regenInterval, g.RegenTick, g.logger)
	return g
}

// Start begins the live session.
func (g *Game) Start() error {
	return g.regen.Start()
}

// Stop ends the live session. No heart ticks happen after it returns.
func (g *Game) Stop() {
	g.regen.Stop()
}

// Identity returns the learner's identity.
func (g *Game) Identity() string {
	return g.identity
}

// Profile returns a copy of the current profile.
func (g *Game) Profile() profile.Profile {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.profile.Clone()
}

// Catalog returns a copy of the current lesson catalog.
func (g *Game) Catalog() catalog.Catalog {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.catalog.Clone()
}

// Hearts implements quiz.HeartKeeper.
func (g *Game) Hearts() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.profile.Hearts
}

// SpendHeart implements quiz.HeartKeeper.
func (g *Game) SpendHeart() {
	g.mu.Lock()
	g.profile = progression.SpendHeart(g.profile)
	g.persistLocked()
	g.mu.Unlock()
}

// RegenTick restores one heart. Only the step from zero to one heart is
// announced.
func (g *Game) RegenTick() {
	g.mu.Lock()
	next, restored := progression.RegenerateHeart(g.profile)
	changed := next.Hearts != g.profile.Hearts
	g.profile = next
	if changed {
		g.persistLocked()
	}
	g.mu.Unlock()

	if restored {
		g.publish(Notification{Kind: NoteHeartRestored})
	}
}

// StartLesson prepares a quiz for a lesson of the catalog.
func (g *Game) StartLesson(id string) (*quiz.Session, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	lesson, ok := g.catalog.Find(id)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownLesson, id)
	}
	if lesson.IsLocked {
		return nil, fmt.Errorf("%w: %s", ErrLessonLocked, g.catalog.LockReason(id))
	}
	if g.profile.Hearts <= 0 {
		return nil, ErrNoHearts
	}

	return g.newSession(quiz.Config{
		Subject:    lesson.Subject,
		Topic:      lesson.Topic,
		LessonID:   lesson.ID,
		Difficulty: questions.DifficultyMedium,
	}), nil
}

// StartPractice prepares a free practice quiz. Practice never completes or
// unlocks lessons.
func (g *Game) StartPractice(subject profile.Subject, difficulty questions.Difficulty) (*quiz.Session, error) {
	if !subject.Valid() {
		return nil, progression.ErrUnknownSubject
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	if g.profile.Hearts <= 0 {
		return nil, ErrNoHearts
	}
	return g.newSession(quiz.Config{
		Subject:    subject,
		Topic:      PracticeTopic,
		Difficulty: difficulty,
	}), nil
}

func (g *Game) newSession(cfg quiz.Config) *quiz.Session {
	cfg.SummaryDelay = g.summaryDelay
	return quiz.New(cfg, g.source, g, g.Complete)
}

// Complete commits a finished attempt.
func (g *Game) Complete(sum progression.Summary) {
	g.mu.Lock()
	res := g.engine.Apply(g.profile, g.catalog, sum)
	g.profile = res.Profile
	g.catalog = res.Catalog
	g.persistLocked()
	g.mu.Unlock()

	g.logger.Info("attempt committed",
		"identity", g.identity,
		"attempt", sum.AttemptID,
		"lesson", sum.LessonID,
		"correct", sum.Correct,
		"xp", res.FinalXP,
		"stars", res.Stars,
	)

	g.recordAttempt(sum, res)
	g.recordRewards(res.Events)

	notes := []Notification{{Kind: NoteAttemptFinished, XP: res.FinalXP, Stars: res.Stars, Unlocked: res.Unlocked}}
	for _, n := range append(notes, notesFor(res.Events)...) {
		g.publish(n)
	}
}

// RollChest decides whether a mystery chest shows up on the lesson path.
// A chest already on the path stays until opened.
func (g *Game) RollChest() bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	if !g.chestOnPath {
		g.chestOnPath = g.chest.Spawn()
	}
	return g.chestOnPath
}

// ChestOnPath reports whether an unopened chest is shown.
func (g *Game) ChestOnPath() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.chestOnPath
}

// OpenChest credits the mystery bonus and returns the XP found.
func (g *Game) OpenChest() (int, error) {
	g.mu.Lock()
	if !g.chestOnPath {
		g.mu.Unlock()
		return 0, ErrNoChest
	}
	g.chestOnPath = false
	res := g.engine.ApplyBonus(g.profile, g.catalog, g.chest.Roll())
	g.profile = res.Profile
	g.persistLocked()
	g.mu.Unlock()

	g.recordRewards(res.Events)
	for _, n := range notesFor(res.Events) {
		g.publish(n)
	}
	return res.FinalXP, nil
}

// update applies a settings intent and persists the result.
func (g *Game) update(fn func(profile.Profile) (profile.Profile, error)) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	next, err := fn(g.profile)
	if err != nil {
		return err
	}
	g.profile = next
	g.persistLocked()
	return nil
}

// ActivatePowerUp spends a potion on the next attempt.
func (g *Game) ActivatePowerUp(kind profile.PowerUp) error {
	err := g.update(func(p profile.Profile) (profile.Profile, error) {
		return progression.ActivatePowerUp(p, kind)
	})
	if err == nil {
		g.recordRewards([]progression.Event{{Kind: progression.EventPowerUpActivated, Amount: 1}})
	}
	return err
}

func (g *Game) SetWeeklyGoal(goal int) error {
	return g.update(func(p profile.Profile) (profile.Profile, error) {
		return progression.SetWeeklyGoal(p, goal)
	})
}

func (g *Game) SetAvatar(id string) error {
	return g.update(func(p profile.Profile) (profile.Profile, error) {
		return progression.SetAvatar(p, id)
	})
}

func (g *Game) SetTheme(t profile.Theme) error {
	return g.update(func(p profile.Profile) (profile.Profile, error) {
		return progression.SetTheme(p, t)
	})
}

func (g *Game) SwitchSubject(s profile.Subject) error {
	return g.update(func(p profile.Profile) (profile.Profile, error) {
		return progression.SwitchSubject(p, s)
	})
}

func (g *Game) SetStreak(days int) error {
	return g.update(func(p profile.Profile) (profile.Profile, error) {
		return progression.SetStreak(p, days)
	})
}

// persistLocked hands the current state to the saver. Caller holds mu.
func (g *Game) persistLocked() {
	if g.saver != nil {
		g.saver.Enqueue(g.identity, g.profile, g.catalog)
	}
}

func (g *Game) publish(n Notification) {
	if g.notify != nil {
		g.notify(n)
	}
}

func (g *Game) recordAttempt(sum progression.Summary, res progression.Result) {
	if g.events == nil {
		return
	}
	err := g.events.AppendAttempt(context.Background(), store.AttemptEventData{
		Username:  g.identity,
		AttemptID: sum.AttemptID,
		Subject:   string(sum.Subject),
		Topic:     sum.Topic,
		LessonID:  sum.LessonID,
		Questions: sum.Questions,
		Correct:   sum.Correct,
		BaseXP:    sum.BaseXP,
		FinalXP:   res.FinalXP,
		Stars:     res.Stars,
		Fallback:  sum.Fallback,
	})
	if err != nil {
		g.logger.Warn("failed to record attempt", "attempt", sum.AttemptID, "error", err)
	}
}

func (g *Game) recordRewards(events []progression.Event) {
	if g.events == nil {
		return
	}
	for _, ev := range events {
		data := store.RewardEventData{Username: g.identity, Kind: string(ev.Kind), Amount: ev.Amount}
		switch ev.Kind {
		case progression.EventBadge:
			data.Detail = ev.BadgeID
		case progression.EventLessonCompleted, progression.EventLessonUnlocked:
			data.Detail = ev.LessonID
		case progression.EventLevelUp:
			data.Amount = ev.Level
		}
		if err := g.events.AppendReward(context.Background(), data); err != nil {
			g.logger.Warn("failed to record reward", "kind", ev.Kind, "error", err)
		}
	}
}
