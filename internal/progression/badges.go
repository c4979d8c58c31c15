package progression

import (
	"slices"

	"github.com/abhisek/cermat/internal/catalog"
	"github.com/abhisek/cermat/internal/profile"
)

const (
	BadgeFirstLesson  = "first_lesson"
	BadgePerfectScore = "perfect_score"
	BadgeStreak3      = "streak_3"
	BadgeStreak30     = "streak_30"
	BadgeMathMaster   = "math_master"
	BadgeCzechMaster  = "czech_master"
)

// Badge is a one-time achievement.
type Badge struct {
	ID          string
	Name        string
	Description string
	Icon        string
}

// Badges returns the badge catalog in display order.
func Badges() []Badge {
	return []Badge{
		{ID: BadgeFirstLesson, Name: "Začátečník", Description: "Dokonči svou první lekci", Icon: "🐣"},
		{ID: BadgePerfectScore, Name: "Ostrostřelec", Description: "100% úspěšnost v lekci", Icon: "🎯"},
		{ID: BadgeStreak3, Name: "Zápal", Description: "Udrž streak 3 dny", Icon: "🔥"},
		{ID: BadgeStreak30, Name: "Legenda", Description: "Udrž streak 30 dní", Icon: "👑"},
		{ID: BadgeMathMaster, Name: "Pythagoras", Description: "Dokonči všechny lekce matematiky", Icon: "📐"},
		{ID: BadgeCzechMaster, Name: "Karel Čapek", Description: "Dokonči všechny lekce češtiny", Icon: "✍️"},
	}
}

// FindBadge looks up a badge by ID.
func FindBadge(id string) (Badge, bool) {
	for _, b := range Badges() {
		if b.ID == id {
			return b, true
		}
	}
	return Badge{}, false
}

// masteryBadge maps a subject to its "all lessons done" badge.
func masteryBadge(s profile.Subject) string {
	switch s {
	case profile.SubjectMath:
		return BadgeMathMaster
	case profile.SubjectCzech:
		return BadgeCzechMaster
	default:
		return ""
	}
}

// badgeInput is everything the badge rules look at.
type badgeInput struct {
	before   profile.Profile
	catalog  catalog.Catalog
	lesson   *catalog.Lesson // nil for free practice
	subject  profile.Subject
	correct  int
	attempts int
}

// earnedBadges returns the badges the attempt qualifies for that the profile
// does not hold yet, in catalog order of evaluation.
func earnedBadges(in badgeInput) []string {
	var ids []string
	award := func(id string, ok bool) {
		if ok && id != "" && !in.before.HasBadge(id) && !slices.Contains(ids, id) {
			ids = append(ids, id)
		}
	}

	award(BadgeFirstLesson, in.lesson != nil && len(in.before.CompletedLessons) == 0)
	award(BadgePerfectScore, in.correct == in.attempts)

	if in.lesson != nil {
		total := in.catalog.CountSubject(in.subject)
		done := completedInSubject(in.before, in.catalog, in.subject, in.lesson.ID)
		award(masteryBadge(in.subject), total > 0 && done >= total)
	}

	award(BadgeStreak3, in.before.Streak >= 3)
	award(BadgeStreak30, in.before.Streak >= 30)
	return ids
}

// completedInSubject counts distinct completed lessons of the subject,
// including the lesson finished right now.
func completedInSubject(p profile.Profile, c catalog.Catalog, s profile.Subject, current string) int {
	seen := map[string]bool{}
	count := func(id string) {
		if l, ok := c.Find(id); ok && l.Subject == s {
			seen[id] = true
		}
	}
	for _, id := range p.CompletedLessons {
		count(id)
	}
	count(current)
	return len(seen)
}
