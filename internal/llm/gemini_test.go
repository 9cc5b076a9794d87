package llm

import (
	"testing"
)

func TestGeminiModelMapping(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"gemini-flash", "gemini-2.0-flash"},
		{"gemini-pro", "gemini-2.0-pro"},
		{"gemini-2.5-flash", "gemini-2.5-flash"},
	}
	for _, tt := range tests {
		got := resolveModel(tt.input, geminiModels)
		if got != tt.expected {
			t.Errorf("resolveModel(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestBuildGeminiSchema(t *testing.T) {
	def := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"topic": map[string]any{"type": "string"},
			"questions": map[string]any{
				"type":     "array",
				"minItems": 5,
				"maxItems": 5,
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"correctIndex": map[string]any{"type": "integer", "minimum": 0.0, "maximum": 3.0},
					},
				},
			},
		},
		"required": []any{"topic", "questions"},
	}

	schema := buildGeminiSchema(def)

	if schema.Type != "OBJECT" {
		t.Fatalf("expected OBJECT type, got %s", schema.Type)
	}
	if len(schema.Required) != 2 {
		t.Fatalf("expected 2 required fields, got %d", len(schema.Required))
	}

	questions := schema.Properties["questions"]
	if questions.Type != "ARRAY" {
		t.Fatalf("expected ARRAY for questions, got %s", questions.Type)
	}
	if questions.MinItems == nil || *questions.MinItems != 5 || questions.MaxItems == nil || *questions.MaxItems != 5 {
		t.Fatalf("expected item bounds of 5, got %v..%v", questions.MinItems, questions.MaxItems)
	}

	idx := questions.Items.Properties["correctIndex"]
	if idx.Type != "INTEGER" {
		t.Fatalf("expected INTEGER for correctIndex, got %s", idx.Type)
	}
	if idx.Maximum == nil || *idx.Maximum != 3 {
		t.Fatalf("expected maximum 3, got %v", idx.Maximum)
	}
}
