package rules

import (
	"fmt"
	"strings"

	"github.com/dshills/clausecritic/internal/schema"
)

// Rule is one compliance rule contracts are checked against.
type Rule struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Category    string          `json:"category"`
	Severity    schema.Severity `json:"severity"`
}

// fixed is the rule set applied to every contract, in report order.
// Every result covers exactly these rules; the order here is the order
// checks appear in reports and exports.
var fixed = []Rule{
	{
		ID:          "confidentiality_clause",
		Name:        "Confidentiality Clause Presence",
		Description: "Document must contain a confidentiality clause protecting sensitive information",
		Category:    "Confidentiality",
		Severity:    schema.SeverityHigh,
	},
	{
		ID:          "term_duration",
		Name:        "Contract Term Duration",
		Description: "Contract must specify a clear start and end date or duration",
		Category:    "Term",
		Severity:    schema.SeverityHigh,
	},
	{
		ID:          "termination_clause",
		Name:        "Termination Clause",
		Description: "Document must include termination conditions and notice period",
		Category:    "Termination",
		Severity:    schema.SeverityHigh,
	},
	{
		ID:          "governing_law",
		Name:        "Governing Law Clause",
		Description: "Contract must specify the governing law jurisdiction",
		Category:    "Legal",
		Severity:    schema.SeverityMedium,
	},
	{
		ID:          "indemnification",
		Name:        "Indemnification Clause",
		Description: "Must include indemnification provisions for liability protection",
		Category:    "Liability",
		Severity:    schema.SeverityHigh,
	},
}

// Fixed returns the rule set in canonical order.
// The returned slice is a copy; callers may not mutate the rule set.
func Fixed() []Rule {
	out := make([]Rule, len(fixed))
	copy(out, fixed)
	return out
}

// ByID returns the rule with the given id.
func ByID(id string) (Rule, bool) {
	for _, r := range fixed {
		if r.ID == id {
			return r, true
		}
	}
	return Rule{}, false
}

// FormatForPrompt returns the rule list formatted for injection into the
// LLM system prompt.
func FormatForPrompt(rs []Rule) string {
	if len(rs) == 0 {
		return ""
	}

	var sb strings.Builder
	sb.WriteString("Compliance rules (return exactly one check per rule id):\n")
	for _, r := range rs {
		sb.WriteString(fmt.Sprintf("- %s: %s. %s (category: %s, severity: %s)\n",
			r.ID, r.Name, r.Description, r.Category, r.Severity))
	}
	return sb.String()
}
