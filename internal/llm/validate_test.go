package llm

import (
	"encoding/json"
	"errors"
	"testing"
)

func quizSchema() *Schema {
	return &Schema{
		Name: "test-quiz",
		Definition: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"items": map[string]any{
					"type": "array",
					"items": map[string]any{
						"type": "object",
						"properties": map[string]any{
							"text": map[string]any{"type": "string"},
							"kind": map[string]any{"type": "string", "enum": []any{"MULTIPLE_CHOICE", "TRUE_FALSE"}},
						},
						"required": []any{"text", "kind"},
					},
				},
			},
			"required": []any{"items"},
		},
	}
}

func TestCheckOutputAgainstSchema(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		wantErr bool
	}{
		{"valid", `{"items":[{"text":"a","kind":"TRUE_FALSE"}]}`, false},
		{"empty list", `{"items":[]}`, false},
		{"missing required", `{}`, true},
		{"wrong item type", `{"items":[{"text":1,"kind":"TRUE_FALSE"}]}`, true},
		{"bad enum", `{"items":[{"text":"a","kind":"ESSAY"}]}`, true},
		{"malformed", `{"items":`, true},
		{"empty body", ``, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := checkOutput(Request{Schema: quizSchema()}, json.RawMessage(tt.raw), "end")
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				var inv *ErrInvalidResponse
				if !errors.As(err, &inv) {
					t.Fatalf("expected ErrInvalidResponse, got %T", err)
				}
			}
		})
	}
}

func TestCheckOutputWithoutSchema(t *testing.T) {
	if err := checkOutput(Request{}, json.RawMessage(`not json`), "end"); err != nil {
		t.Fatalf("requests without a schema accept anything: %v", err)
	}
}

func TestCompileSchemaIsCached(t *testing.T) {
	a, err := compileSchema(quizSchema())
	if err != nil {
		t.Fatal(err)
	}
	b, err := compileSchema(quizSchema())
	if err != nil {
		t.Fatal(err)
	}
	if a != b {
		t.Error("expected the cached schema on the second call")
	}
}

func TestCheckOutputTruncated(t *testing.T) {
	req := Request{Schema: quizSchema()}
	err := checkOutput(req, json.RawMessage(`{"items":[`), "max_tokens")
	var trunc *ErrMaxTokensExceeded
	if !errors.As(err, &trunc) {
		t.Fatalf("err = %v, want ErrMaxTokensExceeded", err)
	}
	if err := checkOutput(Request{}, nil, "max_tokens"); err != nil {
		t.Fatalf("unstructured output is not checked: %v", err)
	}
}
