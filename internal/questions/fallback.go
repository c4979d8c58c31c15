package questions

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"log/slog"
	"slices"
)

//go:embed fallback.json
var fallbackJSON []byte

// Fallback returns the built-in question set served when no generator is
// available or generation fails.
func Fallback() []Question {
	var qs []Question
	if err := json.Unmarshal(fallbackJSON, &qs); err != nil {
		panic("questions: corrupt embedded fallback set: " + err.Error())
	}
	return qs
}

// FallbackSource always serves the built-in set.
type FallbackSource struct{}

// Questions returns the built-in set.
func (FallbackSource) Questions(context.Context, Request) ([]Question, error) {
	return Fallback(), nil
}

// IsFallback reports whether qs is the built-in set.
func IsFallback(qs []Question) bool {
	fb := Fallback()
	if len(qs) != len(fb) {
		return false
	}
	for i := range qs {
		if qs[i].ID != fb[i].ID || qs[i].Text != fb[i].Text || !slices.Equal(qs[i].Options, fb[i].Options) {
			return false
		}
	}
	return true
}

// resilientSource serves the primary source and degrades to the built-in
// set on any failure.
type resilientSource struct {
	primary Source
	logger  *slog.Logger
}

// WithFallback wraps primary so that a failed, empty or missing primary
// yields the built-in set instead of an error. Only context cancellation is
// reported to the caller. A nil primary always serves the fallback.
func WithFallback(primary Source, logger *slog.Logger) Source {
	if logger == nil {
		logger = slog.Default()
	}
	return &resilientSource{primary: primary, logger: logger}
}

func (s *resilientSource) Questions(ctx context.Context, req Request) ([]Question, error) {
	if s.primary == nil {
		return Fallback(), nil
	}

	qs, err := s.primary.Questions(ctx, req)
	if err != nil {
		if errors.Is(err, context.Canceled) && ctx.Err() != nil {
			return nil, err
		}
		s.logger.Warn("question generation failed, serving fallback set",
			"subject", req.Subject, "topic", req.Topic, "error", err)
		return Fallback(), nil
	}
	if len(qs) == 0 {
		s.logger.Warn("question generation returned no questions, serving fallback set",
			"subject", req.Subject, "topic", req.Topic)
		return Fallback(), nil
	}
	return qs, nil
}
