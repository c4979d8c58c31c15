package questions

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/abhisek/cermat/internal/llm"
	"github.com/abhisek/cermat/internal/profile"
)

func validSetJSON() json.RawMessage {
	return json.RawMessage(`{"questions":[
		{"id":"a","type":"MULTIPLE_CHOICE","questionText":"Kolik je 1/2 + 1/4?","options":["3/4","2/6","1/6","2/4"],"correctAnswer":"3/4","explanation":"Společný jmenovatel je 4.","hint":"Převeď na čtvrtiny."},
		{"id":"b","type":"TRUE_FALSE","questionText":"Číslo 7 je prvočíslo.","options":["Ano","Ne"],"correctAnswer":"Ano","explanation":"Je dělitelné jen 1 a 7.","hint":"Hledej dělitele."},
		{"id":"c","type":"FILL_IN","questionText":"Doplň: 2x = 10, x = ?","options":[],"correctAnswer":"5","explanation":"Vydělíme dvěma.","hint":"Vyděl obě strany."},
		{"id":"d","type":"MULTIPLE_CHOICE","questionText":"Kolik je 20 % ze 150?","options":["30","20","15","50"],"correctAnswer":"30","explanation":"0,2 * 150 = 30.","hint":"Desetina je 15."},
		{"id":"e","type":"MULTIPLE_CHOICE","questionText":"Obvod čtverce o straně 3 cm?","options":["9 cm","12 cm","6 cm","3 cm"],"correctAnswer":"12 cm","explanation":"4 * 3 = 12.","hint":"Čtverec má 4 strany."}
	]}`)
}

func mathRequest() Request {
	return Request{Subject: profile.SubjectMath, Topic: "zlomky", Difficulty: DifficultyMedium}
}

func TestLLMSourceGeneratesValidSet(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Content: validSetJSON()})
	src := NewLLMSource(mock, DefaultConfig())

	qs, err := src.Questions(context.Background(), mathRequest())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(qs) != 5 {
		t.Fatalf("got %d questions, want 5", len(qs))
	}
	if qs[2].Type != TypeFillIn || qs[2].Answer != "5" {
		t.Errorf("fill-in question = %+v", qs[2])
	}

	if mock.CallCount() != 1 {
		t.Fatalf("calls = %d", mock.CallCount())
	}
	call := mock.Calls[0]
	if call.Schema != QuestionSetSchema {
		t.Error("expected question set schema")
	}
	msg := call.Messages[0].Content
	if !strings.Contains(msg, "Matematika") || !strings.Contains(msg, "zlomky") || !strings.Contains(msg, "Number of questions: 5") {
		t.Errorf("user message missing request details:\n%s", msg)
	}
}

func TestLLMSourceRejectsAnswerOutsideOptions(t *testing.T) {
	bad := strings.Replace(string(validSetJSON()), `"correctAnswer":"30"`, `"correctAnswer":"31"`, 1)
	mock := llm.NewMockProvider(llm.MockResponse{Content: json.RawMessage(bad)})
	src := NewLLMSource(mock, DefaultConfig())

	_, err := src.Questions(context.Background(), mathRequest())
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("err = %v, want ValidationError", err)
	}
	if verr.Validator != "answer-in-options" || verr.Index != 3 {
		t.Errorf("validator = %q index = %d", verr.Validator, verr.Index)
	}
}

func TestLLMSourceRejectsShortSet(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Content: json.RawMessage(`{"questions":[]}`)})
	src := NewLLMSource(mock, DefaultConfig())

	_, err := src.Questions(context.Background(), mathRequest())
	var verr *ValidationError
	if !errors.As(err, &verr) || verr.Validator != "count" {
		t.Fatalf("err = %v, want count validation error", err)
	}
}

func TestStructuralValidator(t *testing.T) {
	base := Question{ID: "x", Type: TypeTrueFalse, Text: "Q", Options: []string{"Ano", "Ne"}, Answer: "Ano", Explanation: "E"}

	tests := []struct {
		name   string
		mutate func(q *Question)
		ok     bool
	}{
		{"valid", func(q *Question) {}, true},
		{"unknown type", func(q *Question) { q.Type = "ESSAY" }, false},
		{"empty text", func(q *Question) { q.Text = "  " }, false},
		{"empty answer", func(q *Question) { q.Answer = "" }, false},
		{"empty explanation", func(q *Question) { q.Explanation = "" }, false},
		{"true/false with 3 options", func(q *Question) { q.Options = []string{"Ano", "Ne", "Možná"} }, false},
		{"long text", func(q *Question) { q.Text = strings.Repeat("á", 501) }, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := base
			q.Options = append([]string(nil), base.Options...)
			tt.mutate(&q)
			err := (&StructuralValidator{}).Validate([]Question{q}, Request{})
			if tt.ok && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
			if !tt.ok && err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestWithFallbackOnProviderError(t *testing.T) {
	failing := SourceFunc(func(context.Context, Request) ([]Question, error) {
		return nil, &llm.ErrProviderUnavailable{Err: errors.New("timeout")}
	})
	qs, err := WithFallback(failing, nil).Questions(context.Background(), mathRequest())
	if err != nil {
		t.Fatalf("fallback should swallow provider errors: %v", err)
	}
	if !IsFallback(qs) {
		t.Error("expected the built-in set")
	}
}

func TestWithFallbackNilPrimary(t *testing.T) {
	qs, err := WithFallback(nil, nil).Questions(context.Background(), mathRequest())
	if err != nil {
		t.Fatal(err)
	}
	if len(qs) != 3 {
		t.Errorf("got %d questions, want 3", len(qs))
	}
}

func TestWithFallbackEmptySet(t *testing.T) {
	empty := SourceFunc(func(context.Context, Request) ([]Question, error) { return nil, nil })
	qs, err := WithFallback(empty, nil).Questions(context.Background(), mathRequest())
	if err != nil || !IsFallback(qs) {
		t.Fatalf("qs = %v err = %v", qs, err)
	}
}

func TestWithFallbackPropagatesCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	src := SourceFunc(func(ctx context.Context, _ Request) ([]Question, error) { return nil, ctx.Err() })

	if _, err := WithFallback(src, nil).Questions(ctx, mathRequest()); !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
}

func TestWithFallbackPassesThrough(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Content: validSetJSON()})
	qs, err := WithFallback(NewLLMSource(mock, DefaultConfig()), nil).Questions(context.Background(), mathRequest())
	if err != nil {
		t.Fatal(err)
	}
	if IsFallback(qs) || len(qs) != 5 {
		t.Errorf("expected generated set, got %d questions", len(qs))
	}
}

func TestFallbackSetIsWellFormed(t *testing.T) {
	fb := Fallback()
	if len(fb) != 3 {
		t.Fatalf("fallback size = %d, want 3", len(fb))
	}
	req := Request{Count: 3}
	for _, v := range []Validator{&CountValidator{}, &StructuralValidator{}, &AnswerInOptionsValidator{}} {
		if err := v.Validate(fb, req); err != nil {
			t.Errorf("fallback fails %s: %v", v.Name(), err)
		}
	}
	if !fb[1].IsCorrect("11") || fb[1].IsCorrect(" 11") {
		t.Error("answers must match exactly")
	}
}

func TestBuildPriorKeepsMostRecent(t *testing.T) {
	got := buildPrior([]string{"a", "b", "c"}, 2)
	if got != "1. b\n2. c" {
		t.Errorf("buildPrior = %q", got)
	}
	if buildPrior(nil, 5) != "None" {
		t.Error("expected None for empty history")
	}
}
