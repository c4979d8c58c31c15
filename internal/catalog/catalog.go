package catalog

import (
	"encoding/json"
	"fmt"
	"slices"

	"github.com/abhisek/cermat/internal/profile"
)

// UnlockStars is the star rating that unlocks the next lesson of a subject.
const UnlockStars = 2

// MaxStars is the best possible rating of a lesson.
const MaxStars = 3

// Lesson is a single entry of the per-user lesson catalog.
type Lesson struct {
	ID          string          `json:"id"`
	Title       string          `json:"title"`
	Subject     profile.Subject `json:"subject"`
	Topic       string          `json:"topic"`
	IsCompleted bool            `json:"isCompleted"`
	IsLocked    bool            `json:"isLocked"`
	Stars       int             `json:"stars"`
}

// Catalog is the ordered lesson list. Order defines the unlock chain within
// each subject.
type Catalog []Lesson

// Clone returns an independent copy.
func (c Catalog) Clone() Catalog {
	return slices.Clone(c)
}

// Index returns the position of the lesson or -1.
func (c Catalog) Index(id string) int {
	return slices.IndexFunc(c, func(l Lesson) bool { return l.ID == id })
}

// Find looks up a lesson by ID.
func (c Catalog) Find(id string) (Lesson, bool) {
	if i := c.Index(id); i >= 0 {
		return c[i], true
	}
	return Lesson{}, false
}

// NextInSubject returns the index of the first lesson after id with the same
// subject, or -1 when id is the last of its subject or unknown.
func (c Catalog) NextInSubject(id string) int {
	i := c.Index(id)
	if i < 0 {
		return -1
	}
	subject := c[i].Subject
	for j := i + 1; j < len(c); j++ {
		if c[j].Subject == subject {
			return j
		}
	}
	return -1
}

// previousInSubject mirrors NextInSubject towards the start of the catalog.
func (c Catalog) previousInSubject(i int) int {
	for j := i - 1; j >= 0; j-- {
		if c[j].Subject == c[i].Subject {
			return j
		}
	}
	return -1
}

// CountSubject returns how many lessons the subject has.
func (c Catalog) CountSubject(s profile.Subject) int {
	n := 0
	for _, l := range c {
		if l.Subject == s {
			n++
		}
	}
	return n
}

// BySubject returns the lessons of one subject in catalog order.
func (c Catalog) BySubject(s profile.Subject) []Lesson {
	var out []Lesson
	for _, l := range c {
		if l.Subject == s {
			out = append(out, l)
		}
	}
	return out
}

// StarTotal sums the stars earned in a subject.
func (c Catalog) StarTotal(s profile.Subject) int {
	total := 0
	for _, l := range c {
		if l.Subject == s {
			total += l.Stars
		}
	}
	return total
}

// LockReason explains why a locked lesson cannot be started yet. It returns
// the empty string for unlocked or unknown lessons.
func (c Catalog) LockReason(id string) string {
	i := c.Index(id)
	if i < 0 || !c[i].IsLocked {
		return ""
	}
	if prev := c.previousInSubject(i); prev >= 0 && c[prev].IsCompleted && c[prev].Stars < UnlockStars {
		return fmt.Sprintf("Získej alespoň %d hvězdy v minulé lekci!", UnlockStars)
	}
	return "Nejdřív dokonči předchozí lekci!"
}

// Reconcile carries stored progress over to the current default catalog.
// Lessons keep the default order and content; completion, lock state and
// stars come from the stored entry when one exists. Stored lessons the
// defaults do not know follow in stored order, unchanged.
func Reconcile(stored, defaults Catalog) Catalog {
	out := defaults.Clone()
	for i := range out {
		prev, ok := stored.Find(out[i].ID)
		if !ok {
			continue
		}
		out[i].IsCompleted = out[i].IsCompleted || prev.IsCompleted
		out[i].IsLocked = out[i].IsLocked && prev.IsLocked
		out[i].Stars = min(max(out[i].Stars, prev.Stars), MaxStars)
	}
	for _, l := range stored {
		if out.Index(l.ID) < 0 {
			out = append(out, l)
		}
	}
	return out
}

// Decode parses a stored catalog.
func Decode(data []byte) (Catalog, error) {
	var c Catalog
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	return c, nil
}

// Encode serializes the catalog for storage.
func Encode(c Catalog) ([]byte, error) {
	data, err := json.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("encode catalog: %w", err)
	}
	return data, nil
}
