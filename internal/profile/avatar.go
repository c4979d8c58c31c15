package profile

// Avatar is a selectable profile picture gated by the learner's streak.
type Avatar struct {
	ID        string
	Name      string
	Icon      string
	UnlockDay int // streak length required
}

// Avatars returns the avatar catalog in display order.
func Avatars() []Avatar {
	return []Avatar{
		{ID: "default", Name: "Student", Icon: "🙂", UnlockDay: 0},
		{ID: "fire", Name: "Zapálený", Icon: "🔥", UnlockDay: 3},
		{ID: "smart", Name: "Chytrolín", Icon: "🤓", UnlockDay: 7},
		{ID: "king", Name: "Král", Icon: "👑", UnlockDay: 30},
	}
}

// FindAvatar looks up an avatar by ID.
func FindAvatar(id string) (Avatar, bool) {
	for _, a := range Avatars() {
		if a.ID == id {
			return a, true
		}
	}
	return Avatar{}, false
}

// Unlocked reports whether the avatar is available at the given streak.
func (a Avatar) Unlocked(streak int) bool {
	return streak >= a.UnlockDay
}
