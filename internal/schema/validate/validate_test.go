package validate

import (
	"strings"
	"testing"
)

const validJSON = `{
  "checks": [
    {"rule_id": "confidentiality_clause", "verdict": "PASS", "confidence": "HIGH", "explanation": "Section 4 binds both parties to confidentiality", "remediation": ""},
    {"rule_id": "term_duration", "verdict": "PASS", "confidence": "HIGH", "explanation": "Term of two years stated in section 1", "remediation": ""},
    {"rule_id": "termination_clause", "verdict": "FAIL", "confidence": "MEDIUM", "explanation": "No notice period is specified", "remediation": "Add a termination section with a 30-day notice period"},
    {"rule_id": "governing_law", "verdict": "PASS", "confidence": "HIGH", "explanation": "Delaware law governs per section 9", "remediation": ""},
    {"rule_id": "indemnification", "verdict": "FAIL", "confidence": "LOW", "explanation": "No indemnification language found", "remediation": "Add mutual indemnification provisions"}
  ],
  "amendments": [
    {"rule_id": "termination_clause", "before": "This agreement continues until completed.", "after": "Either party may terminate this agreement with 30 days written notice."}
  ]
}`

func TestParse_ValidOutput(t *testing.T) {
	out, err := Parse(validJSON)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(out.Checks) != 5 {
		t.Errorf("expected 5 checks, got %d", len(out.Checks))
	}
	if len(out.Amendments) != 1 {
		t.Errorf("expected 1 amendment, got %d", len(out.Amendments))
	}
}

func TestParse_StripsFences(t *testing.T) {
	fenced := "```json\n" + validJSON + "\n```"
	out, err := Parse(fenced)
	if err != nil {
		t.Fatalf("Parse with fences: %v", err)
	}
	if out == nil {
		t.Error("expected non-nil output")
	}
}

func TestParse_CanonicalizesCheckOrder(t *testing.T) {
	// Same checks as validJSON but listed in reverse.
	shuffled := `{
  "checks": [
    {"rule_id": "indemnification", "verdict": "PASS", "confidence": "HIGH", "explanation": "e"},
    {"rule_id": "governing_law", "verdict": "PASS", "confidence": "HIGH", "explanation": "e"},
    {"rule_id": "termination_clause", "verdict": "PASS", "confidence": "HIGH", "explanation": "e"},
    {"rule_id": "term_duration", "verdict": "PASS", "confidence": "HIGH", "explanation": "e"},
    {"rule_id": "confidentiality_clause", "verdict": "PASS", "confidence": "HIGH", "explanation": "e"}
  ]
}`
	out, err := Parse(shuffled)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	wantOrder := []string{
		"confidentiality_clause",
		"term_duration",
		"termination_clause",
		"governing_law",
		"indemnification",
	}
	for i, id := range wantOrder {
		if out.Checks[i].RuleID != id {
			t.Errorf("check[%d].RuleID = %q, want %q", i, out.Checks[i].RuleID, id)
		}
	}
}

func TestParse_InvalidJSON(t *testing.T) {
	_, err := Parse("{not valid json}")
	if err == nil {
		t.Error("expected error for invalid JSON, got nil")
	}
}

func TestParse_MissingChecksField(t *testing.T) {
	_, err := Parse(`{"amendments": []}`)
	if err == nil {
		t.Error("expected error when checks field is absent, got nil")
	}
}

func TestParse_ChecksWrongType(t *testing.T) {
	_, err := Parse(`{"checks": "none"}`)
	if err == nil {
		t.Error("expected error when checks is not an array, got nil")
	}
}

func TestParse_MissingRule(t *testing.T) {
	// Four checks only; indemnification is absent.
	missing := strings.Replace(validJSON,
		`,
    {"rule_id": "indemnification", "verdict": "FAIL", "confidence": "LOW", "explanation": "No indemnification language found", "remediation": "Add mutual indemnification provisions"}`,
		"", 1)
	_, err := Parse(missing)
	if err == nil {
		t.Fatal("expected error for missing rule, got nil")
	}
	if !strings.Contains(err.Error(), "indemnification") {
		t.Errorf("error should name the missing rule: %v", err)
	}
}

func TestParse_DuplicateRule(t *testing.T) {
	dup := strings.Replace(validJSON, `"rule_id": "term_duration"`, `"rule_id": "confidentiality_clause"`, 1)
	_, err := Parse(dup)
	if err == nil {
		t.Error("expected error for duplicate rule, got nil")
	}
}

func TestParse_UnknownRuleID(t *testing.T) {
	bad := strings.Replace(validJSON, `"rule_id": "governing_law"`, `"rule_id": "force_majeure"`, 1)
	_, err := Parse(bad)
	if err == nil {
		t.Fatal("expected error for unknown rule id, got nil")
	}
	if !strings.Contains(err.Error(), "force_majeure") {
		t.Errorf("error should name the unknown rule: %v", err)
	}
}

func TestParse_InvalidVerdict(t *testing.T) {
	bad := strings.Replace(validJSON, `"verdict": "PASS"`, `"verdict": "COMPLIANT"`, 1)
	_, err := Parse(bad)
	if err == nil {
		t.Error("expected error for invalid verdict, got nil")
	}
}

func TestParse_InvalidConfidence(t *testing.T) {
	bad := strings.Replace(validJSON, `"confidence": "MEDIUM"`, `"confidence": "MAYBE"`, 1)
	_, err := Parse(bad)
	if err == nil {
		t.Error("expected error for invalid confidence, got nil")
	}
}

func TestParse_EmptyExplanation(t *testing.T) {
	bad := strings.Replace(validJSON, `"explanation": "Delaware law governs per section 9"`, `"explanation": "   "`, 1)
	_, err := Parse(bad)
	if err == nil {
		t.Error("expected error for blank explanation, got nil")
	}
}

func TestParse_AmendmentUnknownRule(t *testing.T) {
	bad := strings.Replace(validJSON, `{"rule_id": "termination_clause", "before"`, `{"rule_id": "nonexistent", "before"`, 1)
	_, err := Parse(bad)
	if err == nil {
		t.Error("expected error for amendment with unknown rule, got nil")
	}
}

func TestParse_AmendmentEmptyBefore(t *testing.T) {
	bad := strings.Replace(validJSON, `"before": "This agreement continues until completed."`, `"before": ""`, 1)
	_, err := Parse(bad)
	if err == nil {
		t.Error("expected error for amendment with empty before text, got nil")
	}
}

func TestParse_NoAmendmentsIsValid(t *testing.T) {
	noAmendments := strings.Replace(validJSON,
		`"amendments": [
    {"rule_id": "termination_clause", "before": "This agreement continues until completed.", "after": "Either party may terminate this agreement with 30 days written notice."}
  ]`,
		`"amendments": []`, 1)
	out, err := Parse(noAmendments)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(out.Amendments) != 0 {
		t.Errorf("expected no amendments, got %d", len(out.Amendments))
	}
}

func TestParse_NullAmendmentsIsValid(t *testing.T) {
	nullAmendments := strings.Replace(validJSON,
		`"amendments": [
    {"rule_id": "termination_clause", "before": "This agreement continues until completed.", "after": "Either party may terminate this agreement with 30 days written notice."}
  ]`,
		`"amendments": null`, 1)
	out, err := Parse(nullAmendments)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(out.Amendments) != 0 {
		t.Errorf("expected no amendments, got %d", len(out.Amendments))
	}
}

func TestStripFences(t *testing.T) {
	if got := stripFences("```json\n{}\n```"); got != "{}" {
		t.Errorf("stripFences fenced = %q, want {}", got)
	}
	if got := stripFences("{}"); got != "{}" {
		t.Errorf("stripFences bare = %q, want {}", got)
	}
	if got := stripFences("```\n{}\n```"); got != "{}" {
		t.Errorf("stripFences plain fence = %q, want {}", got)
	}
}
