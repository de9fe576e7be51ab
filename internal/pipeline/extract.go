package pipeline

import (
	"strings"

	"github.com/ppiankov/veritas/internal/model"
)

// ExtractResponse isolates the verdict text from a completed session:
// every non-user message concatenated in sequence order. User messages are
// the rendered input, not the rendered output, and are skipped entirely.
// No agent messages yields an empty string, not an error.
func ExtractResponse(messages []model.Message) string {
	var b strings.Builder
	for _, m := range messages {
		if m.Role == model.RoleUser {
			continue
		}
		b.WriteString(m.Text)
	}
	return b.String()
}
