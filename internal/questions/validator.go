package questions

import (
	"fmt"
	"slices"
	"strings"
	"unicode/utf8"
)

// Validator checks a generated question set.
type Validator interface {
	// Name identifies the validator in errors and logs.
	Name() string

	// Validate returns nil when the set passes.
	Validate(qs []Question, req Request) *ValidationError
}

// ValidationError describes why a generated set was rejected.
type ValidationError struct {
	Validator string
	Index     int // offending question, -1 for the whole set
	Message   string
}

func (e *ValidationError) Error() string {
	if e.Index < 0 {
		return fmt.Sprintf("validator %q: %s", e.Validator, e.Message)
	}
	return fmt.Sprintf("validator %q: question %d: %s", e.Validator, e.Index+1, e.Message)
}

// CountValidator requires the requested number of questions.
type CountValidator struct{}

func (v *CountValidator) Name() string { return "count" }

func (v *CountValidator) Validate(qs []Question, req Request) *ValidationError {
	if len(qs) != req.Count {
		return &ValidationError{
			Validator: v.Name(),
			Index:     -1,
			Message:   fmt.Sprintf("got %d questions, want %d", len(qs), req.Count),
		}
	}
	return nil
}

// StructuralValidator checks required fields, lengths and enum values.
type StructuralValidator struct{}

func (v *StructuralValidator) Name() string { return "structural" }

func (v *StructuralValidator) Validate(qs []Question, _ Request) *ValidationError {
	fail := func(i int, msg string) *ValidationError {
		return &ValidationError{Validator: v.Name(), Index: i, Message: msg}
	}

	seen := map[string]bool{}
	for i, q := range qs {
		switch {
		case !q.Type.Valid():
			return fail(i, fmt.Sprintf("unknown type %q", q.Type))
		case strings.TrimSpace(q.Text) == "":
			return fail(i, "questionText is empty")
		case utf8.RuneCountInString(q.Text) > 500:
			return fail(i, "questionText exceeds 500 characters")
		case strings.TrimSpace(q.Answer) == "":
			return fail(i, "correctAnswer is empty")
		case strings.TrimSpace(q.Explanation) == "":
			return fail(i, "explanation is empty")
		case utf8.RuneCountInString(q.Explanation) > 1000:
			return fail(i, "explanation exceeds 1000 characters")
		case q.ID != "" && seen[q.ID]:
			return fail(i, fmt.Sprintf("duplicate id %q", q.ID))
		}
		seen[q.ID] = true

		if q.Type == TypeMultipleChoice && len(q.Options) < 2 {
			return fail(i, "multiple choice needs at least 2 options")
		}
		if q.Type == TypeTrueFalse && len(q.Options) != 2 {
			return fail(i, "true/false needs exactly 2 options")
		}
	}
	return nil
}

// AnswerInOptionsValidator requires the canonical answer to be one of the
// listed options, since answers are matched exactly.
type AnswerInOptionsValidator struct{}

func (v *AnswerInOptionsValidator) Name() string { return "answer-in-options" }

func (v *AnswerInOptionsValidator) Validate(qs []Question, _ Request) *ValidationError {
	for i, q := range qs {
		if !q.Type.HasOptions() {
			continue
		}
		if !slices.Contains(q.Options, q.Answer) {
			return &ValidationError{
				Validator: v.Name(),
				Index:     i,
				Message:   fmt.Sprintf("answer %q is not among the options", q.Answer),
			}
		}
		if hasDuplicates(q.Options) {
			return &ValidationError{
				Validator: v.Name(),
				Index:     i,
				Message:   "options contain duplicates",
			}
		}
	}
	return nil
}

func hasDuplicates(ss []string) bool {
	seen := make(map[string]bool, len(ss))
	for _, s := range ss {
		if seen[s] {
			return true
		}
		seen[s] = true
	}
	return false
}
