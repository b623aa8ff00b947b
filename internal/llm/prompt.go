package llm

import (
	"fmt"
	"strings"

	"github.com/dshills/clausecritic/internal/rules"
)

const systemPromptBase = `You are a contract compliance reviewer. Your job is to check a contract against a fixed set of compliance rules.

For every rule you must return exactly one check with a verdict:
- PASS: the contract satisfies the rule
- FAIL: the contract does not satisfy the rule, or its language is too vague to satisfy it

Confidence levels:
- HIGH: the relevant clause is explicit and unambiguous
- MEDIUM: the finding relies on interpreting indirect language
- LOW: the text is unclear or the relevant section may be missing from extraction

Grounding rules:
- Judge only the contract text between the <contract> tags
- Reference the clause or section that supports each verdict in the explanation
- Do not invent clauses that are not present in the text
- Every FAIL check must include a remediation describing the language to add or change
- Amendments are optional; when given, "before" must quote exact contract text

Output rules:
- Return JSON only — no prose, no markdown fences, no explanation outside the JSON
- Return exactly one check per rule, using only the rule ids listed below
- JSON must match the provided schema exactly
- Do not include summary counts or an overall verdict — those are computed externally`

const schemaExample = `{
  "checks": [
    {
      "rule_id": "confidentiality_clause",
      "verdict": "PASS",
      "confidence": "HIGH",
      "explanation": "Section 4 binds both parties to confidentiality for five years",
      "remediation": ""
    }
  ],
  "amendments": [
    {
      "rule_id": "termination_clause",
      "before": "exact contract text to be replaced",
      "after": "replacement clause language"
    }
  ]
}`

// BuildSystemPrompt constructs the system prompt with the compliance rules
// appended.
func BuildSystemPrompt(rs []rules.Rule) string {
	var sb strings.Builder
	sb.WriteString(systemPromptBase)

	if formatted := rules.FormatForPrompt(rs); formatted != "" {
		sb.WriteString("\n\n")
		sb.WriteString(formatted)
	}

	return sb.String()
}

// BuildUserPrompt constructs the user prompt with the contract text and the
// JSON schema example. text is the extracted (and possibly redacted)
// contract content, not the PDF bytes.
func BuildUserPrompt(filename, text string) string {
	var sb strings.Builder

	sb.WriteString("Check the following contract against the compliance rules.\n\n")

	sb.WriteString(fmt.Sprintf("<contract file=%q>\n", filename))
	sb.WriteString(text)
	if !strings.HasSuffix(text, "\n") {
		sb.WriteString("\n")
	}
	sb.WriteString("</contract>\n")

	sb.WriteString("\nReturn your checks as JSON with this structure:\n")
	sb.WriteString(schemaExample)

	return sb.String()
}
