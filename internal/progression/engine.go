package progression

import (
	"time"

	"github.com/abhisek/cermat/internal/catalog"
	"github.com/abhisek/cermat/internal/profile"
)

const (
	// AttemptLength is the nominal number of questions in an attempt. Stars,
	// the perfect score badge and the question counter are measured against
	// it regardless of how many questions were actually served.
	AttemptLength = 5

	// XPPerCorrect is the base XP of a correct answer.
	XPPerCorrect = 10

	// PotionStreakInterval grants a potion on every multiple of this streak.
	PotionStreakInterval = 7

	// GeneralTopic is recorded for attempts that are not tied to a topic.
	GeneralTopic = "Obecný mix"
)

// Summary is the outcome of a finished quiz attempt.
type Summary struct {
	AttemptID string
	BaseXP    int
	Correct   int
	Subject   profile.Subject
	Topic     string
	LessonID  string // empty for free practice
	Questions int    // questions actually served
	Fallback  bool   // served from the offline question set
	Reviewed  []string
}

// Result is the outcome of a transition.
type Result struct {
	Profile  profile.Profile
	Catalog  catalog.Catalog
	Events   []Event
	FinalXP  int
	Stars    int
	Unlocked string // lesson unlocked by this attempt, if any
}

// Engine applies completed attempts to a profile. It holds no state besides
// its clock and is safe for concurrent use.
type Engine struct {
	now func() time.Time
}

// Option configures an Engine.
type Option func(*Engine)

// WithClock overrides the wall clock used for calendar-day rules.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// NewEngine creates an Engine.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{now: time.Now}
	for _, o := range opts {
		o(e)
	}
	return e
}

// StarsFor maps correct answers to a 0-3 star rating.
func StarsFor(correct int) int {
	switch {
	case correct >= 5:
		return 3
	case correct == 4:
		return 2
	case correct == 3:
		return 1
	default:
		return 0
	}
}

// Apply runs the ordered reward pipeline for a finished attempt and returns
// the next profile and catalog together with the events it produced. The
// inputs are never modified.
func (e *Engine) Apply(p profile.Profile, c catalog.Catalog, s Summary) Result {
	before := p.Clone()
	next := p.Clone()
	cat := c.Clone()
	var events []Event

	// Power-up.
	finalXP := max(s.BaseXP, 0)
	consumed := before.ActivePowerUp == profile.PowerUpDoubleXP
	if consumed {
		finalXP *= 2
	}

	// Level.
	levelBefore := before.Level()
	levelAfter := profile.LevelFor(before.XP + finalXP)

	stars := StarsFor(s.Correct)

	// Lesson completion. Unknown lesson IDs are treated as free practice.
	var lesson *catalog.Lesson
	unlocked := ""
	subject := s.Subject
	if i := cat.Index(s.LessonID); s.LessonID != "" && i >= 0 {
		l := cat[i]
		lesson = &l
		subject = l.Subject

		cat[i].IsCompleted = true
		cat[i].Stars = max(cat[i].Stars, stars)
		if cat[i].Stars >= catalog.UnlockStars {
			if j := cat.NextInSubject(l.ID); j >= 0 && cat[j].IsLocked {
				cat[j].IsLocked = false
				unlocked = cat[j].ID
			}
		}
	}

	badges := earnedBadges(badgeInput{
		before:   before,
		catalog:  cat,
		lesson:   lesson,
		subject:  subject,
		correct:  s.Correct,
		attempts: AttemptLength,
	})

	// Streak potion, at most once per calendar day.
	potions := 0
	today := e.now().Format(time.DateOnly)
	if before.Streak > 0 && before.Streak%PotionStreakInterval == 0 && before.PotionClaimedOn != today {
		potions = 1
	}

	// Commit.
	next.XP += finalXP
	next.WeeklyProgress += finalXP
	next.Badges = append(next.Badges, badges...)
	if lesson != nil && !next.HasCompleted(lesson.ID) {
		next.CompletedLessons = append(next.CompletedLessons, lesson.ID)
	}
	next.Inventory.DoubleXPPotions += potions
	if potions > 0 {
		next.PotionClaimedOn = today
	}
	next.ActivePowerUp = profile.PowerUpNone

	next.Stats.TotalQuestions += AttemptLength
	next.Stats.TotalCorrect += s.Correct
	if lesson != nil {
		next.Stats.LessonsCompleted++
	}
	if subject.Valid() {
		next.Stats.SubjectXP[subject] += finalXP
	}
	next.Stats.TopicCounts[topicOf(lesson)]++

	if consumed {
		events = append(events, Event{Kind: EventPowerUpConsumed})
	}
	if levelAfter > levelBefore {
		events = append(events, Event{Kind: EventLevelUp, Level: levelAfter})
	}
	if lesson != nil {
		events = append(events, Event{Kind: EventLessonCompleted, LessonID: lesson.ID, Amount: stars})
	}
	if unlocked != "" {
		events = append(events, Event{Kind: EventLessonUnlocked, LessonID: unlocked})
	}
	for _, id := range badges {
		events = append(events, Event{Kind: EventBadge, BadgeID: id})
	}
	if potions > 0 {
		events = append(events, Event{Kind: EventPotion, Amount: potions})
	}

	return Result{
		Profile:  next,
		Catalog:  cat,
		Events:   events,
		FinalXP:  finalXP,
		Stars:    stars,
		Unlocked: unlocked,
	}
}

// topicOf picks the stats bucket. Free practice always counts as the
// general mix, whatever prompt topic was used to fetch its questions.
func topicOf(lesson *catalog.Lesson) string {
	if lesson != nil && lesson.Topic != "" {
		return lesson.Topic
	}
	return GeneralTopic
}
