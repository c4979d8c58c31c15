package questions

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/abhisek/cermat/internal/llm"
)

// Purpose labels question generation requests in the LLM event log.
const Purpose = "question-gen"

// Config controls the LLMSource.
type Config struct {
	// Count is the number of questions per attempt.
	Count int

	// Validators run in order on every generated set; the first failure
	// rejects the set.
	Validators []Validator

	MaxTokens   int
	Temperature float64

	// Timeout bounds a single generation including retries.
	Timeout time.Duration

	// MaxPriorQuestions caps the "already asked" list in the prompt.
	MaxPriorQuestions int
}

// DefaultConfig returns the standard validator chain and limits.
func DefaultConfig() Config {
	return Config{
		Count: 5,
		Validators: []Validator{
			&CountValidator{},
			&StructuralValidator{},
			&AnswerInOptionsValidator{},
		},
		MaxTokens:         4096,
		Temperature:       0.5,
		Timeout:           45 * time.Second,
		MaxPriorQuestions: 10,
	}
}

// LLMSource generates question sets with an LLM provider.
type LLMSource struct {
	provider llm.Provider
	config   Config
}

// NewLLMSource creates an LLMSource.
func NewLLMSource(provider llm.Provider, cfg Config) *LLMSource {
	return &LLMSource{provider: provider, config: cfg}
}

// questionSetOutput is the raw LLM response before validation.
type questionSetOutput struct {
	Questions []Question `json:"questions"`
}

// Questions generates one validated question set.
func (s *LLMSource) Questions(ctx context.Context, req Request) ([]Question, error) {
	if req.Count <= 0 {
		req.Count = s.config.Count
	}
	if req.Difficulty == "" {
		req.Difficulty = DifficultyMedium
	}

	ctx = llm.WithPurpose(ctx, Purpose)
	if s.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.config.Timeout)
		defer cancel()
	}

	resp, err := s.provider.Generate(ctx, llm.Request{
		System: systemPrompt,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: buildUserMessage(req, s.config.MaxPriorQuestions)},
		},
		Schema:      QuestionSetSchema,
		MaxTokens:   s.config.MaxTokens,
		Temperature: s.config.Temperature,
	})
	if err != nil {
		return nil, fmt.Errorf("generate questions: %w", err)
	}

	var out questionSetOutput
	if err := json.Unmarshal(resp.Content, &out); err != nil {
		return nil, fmt.Errorf("parse question set: %w", err)
	}

	qs := make([]Question, len(out.Questions))
	for i, q := range out.Questions {
		q.Text = strings.TrimSpace(q.Text)
		q.Answer = strings.TrimSpace(q.Answer)
		for j := range q.Options {
			q.Options[j] = strings.TrimSpace(q.Options[j])
		}
		if q.ID == "" {
			q.ID = fmt.Sprintf("q-%d", i+1)
		}
		qs[i] = q
	}

	for _, v := range s.config.Validators {
		if verr := v.Validate(qs, req); verr != nil {
			return nil, verr
		}
	}
	return qs, nil
}
