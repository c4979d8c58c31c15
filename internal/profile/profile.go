package profile

import (
	"encoding/json"
	"fmt"
	"slices"
	"time"
)

const (
	// MaxHearts is the heart capacity.
	MaxHearts = 5

	// XPPerLevel is the XP span of a single level.
	XPPerLevel = 500

	// DefaultWeeklyGoal is the weekly XP target of a new profile.
	DefaultWeeklyGoal = 500

	// DefaultAvatar is the avatar every profile starts with.
	DefaultAvatar = "default"
)

// WeeklyGoalPresets are the goals offered in settings. Custom positive goals
// are accepted too.
var WeeklyGoalPresets = []int{200, 500, 1000}

// Inventory holds consumable items.
type Inventory struct {
	DoubleXPPotions int `json:"doubleXpPotions"`
}

// Stats aggregates lifetime activity.
type Stats struct {
	TotalQuestions   int             `json:"totalQuestions"`
	TotalCorrect     int             `json:"totalCorrect"`
	LessonsCompleted int             `json:"lessonsCompleted"`
	SubjectXP        map[Subject]int `json:"subjectXp"`
	TopicCounts      map[string]int  `json:"topicCounts"`
}

// Profile is the persisted per-user progression state.
type Profile struct {
	Username         string    `json:"username"`
	CreatedAt        time.Time `json:"createdAt"`
	Hearts           int       `json:"hearts"`
	XP               int       `json:"xp"`
	Streak           int       `json:"streak"`
	CurrentSubject   Subject   `json:"currentSubject"`
	CompletedLessons []string  `json:"completedLessons"`
	Avatar           string    `json:"avatar"`
	Badges           []string  `json:"badges"`
	Theme            Theme     `json:"theme"`
	WeeklyGoal       int       `json:"weeklyGoal"`
	WeeklyProgress   int       `json:"weeklyProgress"`
	Inventory        Inventory `json:"inventory"`
	ActivePowerUp    PowerUp   `json:"activePowerUp"`
	Stats            Stats     `json:"stats"`

	// PotionClaimedOn is the calendar day (YYYY-MM-DD) the last streak potion
	// was granted.
	PotionClaimedOn string `json:"potionClaimedOn,omitempty"`
}

// Template returns the default state of a brand new profile.
func Template() Profile {
	return Profile{
		Hearts:           MaxHearts,
		CurrentSubject:   SubjectCzech,
		CompletedLessons: []string{},
		Avatar:           DefaultAvatar,
		Badges:           []string{},
		Theme:            ThemeLight,
		WeeklyGoal:       DefaultWeeklyGoal,
		Inventory:        Inventory{DoubleXPPotions: 1},
		Stats: Stats{
			SubjectXP:   map[Subject]int{},
			TopicCounts: map[string]int{},
		},
	}
}

// New returns the template stamped with the owner and creation time.
func New(username string, now time.Time) Profile {
	p := Template()
	p.Username = username
	p.CreatedAt = now.UTC()
	return p
}

// Decode merges a stored JSON document over the template. Fields missing
// from the document keep their template values, so profiles written by
// older versions pick up newly introduced fields.
func Decode(data []byte) (Profile, error) {
	p := Template()
	if err := json.Unmarshal(data, &p); err != nil {
		return Profile{}, fmt.Errorf("decode profile: %w", err)
	}
	p.normalize()
	return p, nil
}

// Encode serializes the profile for storage.
func Encode(p Profile) ([]byte, error) {
	data, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("encode profile: %w", err)
	}
	return data, nil
}

// normalize repairs values a stored document may have nulled out.
func (p *Profile) normalize() {
	if p.CompletedLessons == nil {
		p.CompletedLessons = []string{}
	}
	if p.Badges == nil {
		p.Badges = []string{}
	}
	if p.Stats.SubjectXP == nil {
		p.Stats.SubjectXP = map[Subject]int{}
	}
	if p.Stats.TopicCounts == nil {
		p.Stats.TopicCounts = map[string]int{}
	}
	p.Hearts = min(max(p.Hearts, 0), MaxHearts)
}

// Clone returns a deep copy of the profile.
func (p Profile) Clone() Profile {
	c := p
	c.CompletedLessons = slices.Clone(p.CompletedLessons)
	c.Badges = slices.Clone(p.Badges)
	c.Stats.SubjectXP = make(map[Subject]int, len(p.Stats.SubjectXP))
	for k, v := range p.Stats.SubjectXP {
		c.Stats.SubjectXP[k] = v
	}
	c.Stats.TopicCounts = make(map[string]int, len(p.Stats.TopicCounts))
	for k, v := range p.Stats.TopicCounts {
		c.Stats.TopicCounts[k] = v
	}
	return c
}

// Level returns the learner's current level.
func (p Profile) Level() int {
	return LevelFor(p.XP)
}

// LevelFor returns the level reached with the given XP.
func LevelFor(xp int) int {
	return xp/XPPerLevel + 1
}

// LevelProgress returns the XP earned within the current level and the span
// of a level.
func LevelProgress(xp int) (int, int) {
	return xp % XPPerLevel, XPPerLevel
}

// HasBadge reports whether the badge was already awarded.
func (p Profile) HasBadge(id string) bool {
	return slices.Contains(p.Badges, id)
}

// HasCompleted reports whether the lesson was completed at least once.
func (p Profile) HasCompleted(lessonID string) bool {
	return slices.Contains(p.CompletedLessons, lessonID)
}

// Accuracy returns the lifetime share of correct answers in percent.
func (p Profile) Accuracy() int {
	if p.Stats.TotalQuestions == 0 {
		return 0
	}
	return p.Stats.TotalCorrect * 100 / p.Stats.TotalQuestions
}

// WeeklyGoalReached reports whether this week's progress meets the goal.
func (p Profile) WeeklyGoalReached() bool {
	return p.WeeklyGoal > 0 && p.WeeklyProgress >= p.WeeklyGoal
}
