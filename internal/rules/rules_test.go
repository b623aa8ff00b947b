package rules

import (
	"strings"
	"testing"

	"github.com/dshills/clausecritic/internal/schema"
)

func TestFixed_FiveRulesInOrder(t *testing.T) {
	rs := Fixed()
	if len(rs) != 5 {
		t.Fatalf("Fixed returned %d rules, want 5", len(rs))
	}

	wantOrder := []string{
		"confidentiality_clause",
		"term_duration",
		"termination_clause",
		"governing_law",
		"indemnification",
	}
	for i, id := range wantOrder {
		if rs[i].ID != id {
			t.Errorf("rule[%d].ID = %q, want %q", i, rs[i].ID, id)
		}
	}
}

func TestFixed_ReturnsCopy(t *testing.T) {
	rs := Fixed()
	rs[0].Name = "mutated"

	if Fixed()[0].Name == "mutated" {
		t.Error("mutating the returned slice changed the rule set")
	}
}

func TestFixed_AllFieldsPopulated(t *testing.T) {
	for _, r := range Fixed() {
		if r.ID == "" || r.Name == "" || r.Description == "" || r.Category == "" {
			t.Errorf("rule %q has an empty field: %+v", r.ID, r)
		}
		switch r.Severity {
		case schema.SeverityHigh, schema.SeverityMedium, schema.SeverityLow:
		default:
			t.Errorf("rule %q has invalid severity %q", r.ID, r.Severity)
		}
	}
}

func TestByID_Known(t *testing.T) {
	r, ok := ByID("governing_law")
	if !ok {
		t.Fatal("ByID(governing_law) not found")
	}
	if r.Name != "Governing Law Clause" {
		t.Errorf("Name = %q, want Governing Law Clause", r.Name)
	}
	if r.Severity != schema.SeverityMedium {
		t.Errorf("Severity = %q, want MEDIUM", r.Severity)
	}
}

func TestByID_Unknown(t *testing.T) {
	if _, ok := ByID("force_majeure"); ok {
		t.Error("ByID(force_majeure) = found, want not found")
	}
}

func TestFormatForPrompt_ContainsEveryRule(t *testing.T) {
	out := FormatForPrompt(Fixed())
	for _, r := range Fixed() {
		if !strings.Contains(out, r.ID) {
			t.Errorf("prompt rules missing id %q", r.ID)
		}
		if !strings.Contains(out, r.Description) {
			t.Errorf("prompt rules missing description for %q", r.ID)
		}
	}
}

func TestFormatForPrompt_Empty(t *testing.T) {
	if out := FormatForPrompt(nil); out != "" {
		t.Errorf("FormatForPrompt(nil) = %q, want empty", out)
	}
}
