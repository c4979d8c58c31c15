package home

import (
	"charm.land/lipgloss/v2"

	"github.com/abhisek/cermat/internal/profile"
	"github.com/abhisek/cermat/internal/ui/theme"
)

// MascotVariant selects which mascot art to display.
type MascotVariant int

const (
	MascotIdle        MascotVariant = iota // Default purple
	MascotCelebrating                      // Gold, star eyes: weekly goal reached
	MascotAlert                            // Orange, exclamation: out of hearts
)

const mascotIdle = `┌─────┐
│ ◉ ◉ │
│  ▽  │
│ Á+½ │
└─────┘`

const mascotCelebrating = `┌─────┐
│ ★ ★ │
│  ▿  │
│ Á+½ │
└─╥═╥─┘
  ╚═╝`

const mascotAlert = `┌─────┐
│ ◉ ◉ │ !
│  ▽  │
│ Á+½ │
└─────┘`

// mascotFor picks the variant for the learner's state.
func mascotFor(p profile.Profile) MascotVariant {
	switch {
	case p.Hearts == 0:
		return MascotAlert
	case p.WeeklyGoalReached():
		return MascotCelebrating
	default:
		return MascotIdle
	}
}

// RenderMascot returns the mascot ASCII art for the given variant.
func RenderMascot(v MascotVariant) string {
	var art string
	var fg = theme.Primary

	switch v {
	case MascotCelebrating:
		art = mascotCelebrating
		fg = theme.ArcadeYellow
	case MascotAlert:
		art = mascotAlert
		fg = theme.Accent
	default:
		art = mascotIdle
	}

	return lipgloss.NewStyle().
		Foreground(fg).
		Render(art)
}
