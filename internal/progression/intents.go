package progression

import (
	"errors"
	"fmt"

	"github.com/abhisek/cermat/internal/profile"
)

var (
	ErrNoPotions      = errors.New("no potions left")
	ErrPowerUpActive  = errors.New("a power-up is already active")
	ErrUnknownPowerUp = errors.New("unknown power-up")
	ErrInvalidGoal    = errors.New("weekly goal must be positive")
	ErrUnknownAvatar  = errors.New("unknown avatar")
	ErrAvatarLocked   = errors.New("avatar is locked")
	ErrUnknownTheme   = errors.New("unknown theme")
	ErrUnknownSubject = errors.New("unknown subject")
	ErrInvalidStreak  = errors.New("streak cannot be negative")
)

// SpendHeart removes one heart, never going below zero.
func SpendHeart(p profile.Profile) profile.Profile {
	next := p.Clone()
	next.Hearts = max(next.Hearts-1, 0)
	return next
}

// RegenerateHeart adds one heart up to the cap. restored is true only when
// the learner goes from no hearts to one, the moment they can play again.
func RegenerateHeart(p profile.Profile) (next profile.Profile, restored bool) {
	next = p.Clone()
	if next.Hearts >= profile.MaxHearts {
		return next, false
	}
	next.Hearts++
	return next, p.Hearts == 0 && next.Hearts == 1
}

// ActivatePowerUp spends a potion to arm the power-up for the next attempt.
func ActivatePowerUp(p profile.Profile, kind profile.PowerUp) (profile.Profile, error) {
	if kind != profile.PowerUpDoubleXP {
		return p, fmt.Errorf("%w: %q", ErrUnknownPowerUp, kind)
	}
	if p.ActivePowerUp != profile.PowerUpNone {
		return p, ErrPowerUpActive
	}
	if p.Inventory.DoubleXPPotions <= 0 {
		return p, ErrNoPotions
	}
	next := p.Clone()
	next.Inventory.DoubleXPPotions--
	next.ActivePowerUp = kind
	return next, nil
}

// SetWeeklyGoal changes the weekly XP target.
func SetWeeklyGoal(p profile.Profile, goal int) (profile.Profile, error) {
	if goal <= 0 {
		return p, ErrInvalidGoal
	}
	next := p.Clone()
	next.WeeklyGoal = goal
	return next, nil
}

// SetAvatar selects an avatar the learner's streak has unlocked.
func SetAvatar(p profile.Profile, id string) (profile.Profile, error) {
	a, ok := profile.FindAvatar(id)
	if !ok {
		return p, fmt.Errorf("%w: %q", ErrUnknownAvatar, id)
	}
	if !a.Unlocked(p.Streak) {
		return p, fmt.Errorf("%w: needs a %d day streak", ErrAvatarLocked, a.UnlockDay)
	}
	next := p.Clone()
	next.Avatar = id
	return next, nil
}

// SetTheme changes the visual theme.
func SetTheme(p profile.Profile, t profile.Theme) (profile.Profile, error) {
	if !t.Valid() {
		return p, fmt.Errorf("%w: %q", ErrUnknownTheme, t)
	}
	next := p.Clone()
	next.Theme = t
	return next, nil
}

// SwitchSubject changes the subject shown on the home screen.
func SwitchSubject(p profile.Profile, s profile.Subject) (profile.Profile, error) {
	if !s.Valid() {
		return p, fmt.Errorf("%w: %q", ErrUnknownSubject, s)
	}
	next := p.Clone()
	next.CurrentSubject = s
	return next, nil
}

// SetStreak records the streak reported by the calendar tracker.
func SetStreak(p profile.Profile, days int) (profile.Profile, error) {
	if days < 0 {
		return p, ErrInvalidStreak
	}
	next := p.Clone()
	next.Streak = days
	return next, nil
}
