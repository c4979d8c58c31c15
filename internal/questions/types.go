package questions

import (
	"context"

	"github.com/abhisek/cermat/internal/profile"
)

// Type is the interaction style of a question.
type Type string

const (
	TypeMultipleChoice Type = "MULTIPLE_CHOICE"
	TypeTrueFalse      Type = "TRUE_FALSE"
	TypeFillIn         Type = "FILL_IN"
)

// Valid reports whether t is a known question type.
func (t Type) Valid() bool {
	switch t {
	case TypeMultipleChoice, TypeTrueFalse, TypeFillIn:
		return true
	default:
		return false
	}
}

// HasOptions reports whether the learner picks from listed options.
func (t Type) HasOptions() bool {
	return t == TypeMultipleChoice || t == TypeTrueFalse
}

// Difficulty is the requested question difficulty.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "EASY"
	DifficultyMedium Difficulty = "MEDIUM"
	DifficultyHard   Difficulty = "HARD"
)

// AllDifficulties returns the difficulties in ascending order.
func AllDifficulties() []Difficulty {
	return []Difficulty{DifficultyEasy, DifficultyMedium, DifficultyHard}
}

// DisplayName returns the Czech label for the difficulty.
func (d Difficulty) DisplayName() string {
	switch d {
	case DifficultyEasy:
		return "Lehká"
	case DifficultyMedium:
		return "Střední"
	case DifficultyHard:
		return "Těžká"
	default:
		return string(d)
	}
}

// Question is a single quiz item.
type Question struct {
	ID          string   `json:"id"`
	Type        Type     `json:"type"`
	Text        string   `json:"questionText"`
	Options     []string `json:"options"`
	Answer      string   `json:"correctAnswer"`
	Explanation string   `json:"explanation"`
	Hint        string   `json:"hint"`
}

// IsCorrect compares a submitted answer with the canonical one. Matching is
// exact.
func (q Question) IsCorrect(answer string) bool {
	return answer == q.Answer
}

// Request describes the question set to fetch.
type Request struct {
	Subject    profile.Subject
	Topic      string
	Difficulty Difficulty
	Count      int

	// PriorQuestions holds question texts the learner saw recently on this
	// topic, so a generator can avoid repeating them.
	PriorQuestions []string
}

// Source provides question sets for quiz attempts.
type Source interface {
	Questions(ctx context.Context, req Request) ([]Question, error)
}

// SourceFunc adapts a function to Source.
type SourceFunc func(ctx context.Context, req Request) ([]Question, error)

// Questions calls f.
func (f SourceFunc) Questions(ctx context.Context, req Request) ([]Question, error) {
	return f(ctx, req)
}
