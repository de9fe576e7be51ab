package pipeline

import (
	"testing"

	"github.com/ppiankov/veritas/internal/model"
)

func TestExtractResponse(t *testing.T) {
	tests := []struct {
		name     string
		messages []model.Message
		want     string
	}{
		{
			name: "single agent message",
			messages: []model.Message{
				{Role: model.RoleUser, Text: "the claim"},
				{Role: model.RoleAgent, Text: "VERDICT: TRUE"},
			},
			want: "VERDICT: TRUE",
		},
		{
			name: "multiple agent messages concatenated in order",
			messages: []model.Message{
				{Role: model.RoleUser, Text: "the claim"},
				{Role: model.RoleAgent, Text: "Analysis. "},
				{Role: model.RoleUser, Text: "follow-up"},
				{Role: model.RoleAgent, Text: "Verdict."},
			},
			want: "Analysis. Verdict.",
		},
		{
			name: "user messages only",
			messages: []model.Message{
				{Role: model.RoleUser, Text: "claim"},
			},
			want: "",
		},
		{
			name:     "no messages",
			messages: nil,
			want:     "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExtractResponse(tt.messages); got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestExtractResponse_Idempotent(t *testing.T) {
	messages := []model.Message{
		{Role: model.RoleUser, Text: "claim"},
		{Role: model.RoleAgent, Text: "part one "},
		{Role: model.RoleAgent, Text: "part two"},
	}

	first := ExtractResponse(messages)
	second := ExtractResponse(messages)
	if first != second {
		t.Errorf("extraction not idempotent: %q vs %q", first, second)
	}
}
