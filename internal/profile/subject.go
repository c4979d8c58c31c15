package profile

// Subject identifies an exam subject.
type Subject string

const (
	SubjectCzech Subject = "czech"
	SubjectMath  Subject = "math"
)

// AllSubjects returns all subjects in display order.
func AllSubjects() []Subject {
	return []Subject{SubjectCzech, SubjectMath}
}

// Valid reports whether s is a known subject.
func (s Subject) Valid() bool {
	switch s {
	case SubjectCzech, SubjectMath:
		return true
	default:
		return false
	}
}

// DisplayName returns the Czech label for the subject.
func (s Subject) DisplayName() string {
	switch s {
	case SubjectCzech:
		return "Čeština"
	case SubjectMath:
		return "Matematika"
	default:
		return string(s)
	}
}

// Icon returns the display icon for the subject.
func (s Subject) Icon() string {
	switch s {
	case SubjectCzech:
		return "📚"
	case SubjectMath:
		return "📐"
	default:
		return "✦"
	}
}

// Theme is the visual theme preference.
type Theme string

const (
	ThemeLight Theme = "light"
	ThemeWarm  Theme = "warm"
	ThemeDark  Theme = "dark"
)

// AllThemes returns the selectable themes.
func AllThemes() []Theme {
	return []Theme{ThemeLight, ThemeWarm, ThemeDark}
}

// Valid reports whether t is a known theme.
func (t Theme) Valid() bool {
	switch t {
	case ThemeLight, ThemeWarm, ThemeDark:
		return true
	default:
		return false
	}
}

// PowerUp is a consumable effect applied to the next completed attempt.
type PowerUp string

const (
	PowerUpNone     PowerUp = ""
	PowerUpDoubleXP PowerUp = "DOUBLE_XP"
)
