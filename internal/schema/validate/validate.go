package validate

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/dshills/clausecritic/internal/rules"
	"github.com/dshills/clausecritic/internal/schema"
)

// modelOutputSchema is the structural contract the raw model payload must
// satisfy before field-level validation runs. Enum and cross-field checks
// are done in Go so error messages can name the offending field.
var modelOutputSchema = map[string]any{
	"type":     "object",
	"required": []any{"checks"},
	"properties": map[string]any{
		"checks": map[string]any{
			"type": "array",
			"items": map[string]any{
				"type":     "object",
				"required": []any{"rule_id", "verdict", "confidence", "explanation"},
				"properties": map[string]any{
					"rule_id":     map[string]any{"type": "string"},
					"verdict":     map[string]any{"type": "string"},
					"confidence":  map[string]any{"type": "string"},
					"explanation": map[string]any{"type": "string"},
					"remediation": map[string]any{"type": "string"},
				},
			},
		},
		"amendments": map[string]any{
			// Models regularly emit null instead of [] when there is
			// nothing to amend; both are accepted.
			"type": []any{"array", "null"},
			"items": map[string]any{
				"type":     "object",
				"required": []any{"rule_id", "before", "after"},
				"properties": map[string]any{
					"rule_id": map[string]any{"type": "string"},
					"before":  map[string]any{"type": "string"},
					"after":   map[string]any{"type": "string"},
				},
			},
		},
	},
}

var compiledSchema = mustCompile(modelOutputSchema)

func mustCompile(m map[string]any) *jsonschema.Schema {
	b, err := json.Marshal(m)
	if err != nil {
		panic(err)
	}
	c := jsonschema.NewCompiler()
	if err := c.AddResource("model_output.json", bytes.NewReader(b)); err != nil {
		panic(err)
	}
	s, err := c.Compile("model_output.json")
	if err != nil {
		panic(err)
	}
	return s
}

// Parse strips markdown fences, validates the payload against the model
// output schema, and enforces the fixed-rule invariants: every rule checked
// exactly once, no unknown rule ids. Checks come back in canonical rule
// order regardless of the order the model used.
func Parse(raw string) (*schema.ModelOutput, error) {
	cleaned := stripFences(raw)

	var v any
	if err := json.Unmarshal([]byte(cleaned), &v); err != nil {
		return nil, fmt.Errorf("JSON parse failed: %w", err)
	}
	if err := compiledSchema.Validate(v); err != nil {
		return nil, fmt.Errorf("schema validation failed: %w", err)
	}

	var out schema.ModelOutput
	if err := json.Unmarshal([]byte(cleaned), &out); err != nil {
		return nil, fmt.Errorf("JSON parse failed: %w", err)
	}

	if err := validateOutput(&out); err != nil {
		return nil, err
	}

	canonicalize(&out)
	return &out, nil
}

// stripFences removes leading/trailing markdown code fences (```json ... ``` or ``` ... ```).
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") {
		// Remove first line (the fence opener)
		idx := strings.Index(s, "\n")
		if idx >= 0 {
			s = s[idx+1:]
		}
	}
	if strings.HasSuffix(s, "```") {
		idx := strings.LastIndex(s, "\n```")
		if idx >= 0 {
			s = s[:idx]
		}
	}
	return strings.TrimSpace(s)
}

func validateOutput(out *schema.ModelOutput) error {
	seen := make(map[string]bool, len(out.Checks))
	for i, ck := range out.Checks {
		prefix := fmt.Sprintf("check[%d]", i)

		if _, ok := rules.ByID(ck.RuleID); !ok {
			return fmt.Errorf("%s: unknown rule id %q", prefix, ck.RuleID)
		}
		if seen[ck.RuleID] {
			return fmt.Errorf("%s: duplicate check for rule %q", prefix, ck.RuleID)
		}
		seen[ck.RuleID] = true

		if !schema.IsValidVerdict(ck.Verdict) {
			return fmt.Errorf("%s: invalid verdict %q (must be PASS or FAIL)", prefix, ck.Verdict)
		}
		if !schema.IsValidConfidence(ck.Confidence) {
			return fmt.Errorf("%s: invalid confidence %q (must be HIGH, MEDIUM, or LOW)", prefix, ck.Confidence)
		}
		if strings.TrimSpace(ck.Explanation) == "" {
			return fmt.Errorf("%s: explanation is required", prefix)
		}
	}

	for _, r := range rules.Fixed() {
		if !seen[r.ID] {
			return fmt.Errorf("missing check for rule %q", r.ID)
		}
	}

	for i, a := range out.Amendments {
		prefix := fmt.Sprintf("amendment[%d]", i)
		if _, ok := rules.ByID(a.RuleID); !ok {
			return fmt.Errorf("%s: unknown rule id %q", prefix, a.RuleID)
		}
		if a.Before == "" {
			return fmt.Errorf("%s: before text is required", prefix)
		}
		if a.After == "" {
			return fmt.Errorf("%s: after text is required", prefix)
		}
	}

	return nil
}

// canonicalize orders checks to match the fixed rule order.
// validateOutput has already guaranteed a complete one-to-one mapping.
func canonicalize(out *schema.ModelOutput) {
	byID := make(map[string]schema.ModelCheck, len(out.Checks))
	for _, ck := range out.Checks {
		byID[ck.RuleID] = ck
	}
	ordered := make([]schema.ModelCheck, 0, len(out.Checks))
	for _, r := range rules.Fixed() {
		ordered = append(ordered, byID[r.ID])
	}
	out.Checks = ordered
}
