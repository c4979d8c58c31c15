package progression

// EventKind identifies a progression event.
type EventKind string

const (
	EventLevelUp          EventKind = "level_up"
	EventBadge            EventKind = "badge"
	EventPotion           EventKind = "potion"
	EventPowerUpConsumed  EventKind = "powerup_consumed"
	EventLessonCompleted  EventKind = "lesson_completed"
	EventLessonUnlocked   EventKind = "lesson_unlocked"
	EventBonus            EventKind = "bonus"
	EventHeartRestored    EventKind = "heart_restored"
	EventPowerUpActivated EventKind = "powerup_activated"
)

// Event describes one observable consequence of a transition. Only the
// fields relevant to the kind are set.
type Event struct {
	Kind     EventKind
	Level    int    // level_up: the new level
	BadgeID  string // badge
	LessonID string // lesson_completed, lesson_unlocked
	Amount   int    // potion count, bonus XP, stars for lesson_completed
}
