package pipeline

import (
	"fmt"
	"strings"

	"github.com/ppiankov/veritas/internal/model"
)

// groundingContentLen bounds each result's content inside the grounding
// message, on top of the retriever's own truncation.
const groundingContentLen = 300

// GroundingMessage renders the user message submitted to the primary
// agent: the claim plus either a structured evidence listing or an
// explicit no-evidence statement. The reasoning stage must never be told
// evidence exists when it does not, so a degraded or empty retrieval
// always produces the knowledge-only framing and no result fields.
func GroundingMessage(claim string, evidence *model.EvidenceSet) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Claim to verify: %s\n\n", claim)

	if evidence == nil || !evidence.RetrievalSucceeded || len(evidence.Results) == 0 {
		b.WriteString("No verified evidence was found for this claim")
		if evidence != nil && evidence.RetrievalError != "" {
			fmt.Fprintf(&b, " (%s)", evidence.RetrievalError)
		}
		b.WriteString(".\nProvide a knowledge-based analysis only, and state explicitly that no web evidence was available.")
		return b.String()
	}

	fmt.Fprintf(&b, "Search Results for '%s':\n\n", claim)
	for i, r := range evidence.Results {
		content := r.Content
		if runes := []rune(content); len(runes) > groundingContentLen {
			content = string(runes[:groundingContentLen]) + "..."
		}
		fmt.Fprintf(&b, "%d. Title: %s\n", i+1, orNA(r.Title))
		fmt.Fprintf(&b, "   URL: %s\n", orNA(r.URL))
		fmt.Fprintf(&b, "   Content: %s\n", orNA(content))
		fmt.Fprintf(&b, "   Source: %s\n\n", orNA(r.Source))
	}

	return b.String()
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}
