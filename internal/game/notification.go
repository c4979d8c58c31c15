package game

import (
	"fmt"

	"github.com/abhisek/cermat/internal/progression"
)

// NotificationKind identifies a user-facing notification.
type NotificationKind string

const (
	NoteLevelUp         NotificationKind = "level_up"
	NoteBadge           NotificationKind = "badge"
	NoteHeartRestored   NotificationKind = "heart_restored"
	NoteChestReward     NotificationKind = "chest_reward"
	NotePotionReward    NotificationKind = "potion_reward"
	NoteAttemptFinished NotificationKind = "attempt_finished"
)

// Notification is published after a committed change the learner should
// hear about.
type Notification struct {
	Kind     NotificationKind
	Level    int
	Badge    progression.Badge
	XP       int
	Stars    int
	Potions  int
	Unlocked string
}

// Title and Body are the Czech toast texts.
func (n Notification) Title() string {
	switch n.Kind {
	case NoteLevelUp:
		return "🆙 LEVEL UP!"
	case NoteBadge:
		return "🏅 Nový odznak!"
	case NoteHeartRestored:
		return "❤️ Život doplněn!"
	case NoteChestReward:
		return "🎁 Tajemná odměna!"
	case NotePotionReward:
		return "🎉 Gratulujeme!"
	case NoteAttemptFinished:
		return "Lekce dokončena"
	default:
		return string(n.Kind)
	}
}

func (n Notification) Body() string {
	switch n.Kind {
	case NoteLevelUp:
		return fmt.Sprintf("Dosáhl jsi úrovně %d", n.Level)
	case NoteBadge:
		return n.Badge.Icon + " " + n.Badge.Name
	case NoteHeartRestored:
		return "Můžeš se dál učit."
	case NoteChestReward:
		return fmt.Sprintf("+%d XP", n.XP)
	case NotePotionReward:
		return fmt.Sprintf("Za udržení streaku získáváš %dx XP Lektvar!", n.Potions)
	case NoteAttemptFinished:
		return fmt.Sprintf("+%d XP, %d/3 ⭐", n.XP, n.Stars)
	default:
		return ""
	}
}

// notesFor turns engine events into notifications.
func notesFor(events []progression.Event) []Notification {
	var notes []Notification
	for _, ev := range events {
		switch ev.Kind {
		case progression.EventLevelUp:
			notes = append(notes, Notification{Kind: NoteLevelUp, Level: ev.Level})
		case progression.EventBadge:
			b, ok := progression.FindBadge(ev.BadgeID)
			if !ok {
				b = progression.Badge{ID: ev.BadgeID, Name: ev.BadgeID}
			}
			notes = append(notes, Notification{Kind: NoteBadge, Badge: b})
		case progression.EventPotion:
			notes = append(notes, Notification{Kind: NotePotionReward, Potions: ev.Amount})
		case progression.EventBonus:
			notes = append(notes, Notification{Kind: NoteChestReward, XP: ev.Amount})
		case progression.EventHeartRestored:
			notes = append(notes, Notification{Kind: NoteHeartRestored})
		}
	}
	return notes
}
