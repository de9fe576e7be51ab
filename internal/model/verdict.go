package model

// Verdict is the terminal output of one Verify call. Immutable once
// produced. Succeeded=false always carries a human-readable Error, which
// lets a caller distinguish "no answer" from "wrong answer" without
// parsing error types.
type Verdict struct {
	Claim                   string `json:"claim"`
	SupportingEvidenceCount int    `json:"search_results_count"`
	Text                    string `json:"verdict"`
	Succeeded               bool   `json:"success"`
	Error                   string `json:"error,omitempty"`
}

// FailedVerdict builds the uniform failure shape for a claim.
func FailedVerdict(claim string, err error) Verdict {
	msg := ""
	if err != nil {
		msg = err.Error()
	}
	return Verdict{
		Claim:     claim,
		Succeeded: false,
		Error:     msg,
	}
}
