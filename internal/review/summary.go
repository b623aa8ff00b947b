package review

import "github.com/dshills/clausecritic/internal/schema"

// Counts returns the passed and failed check counts.
func Counts(checks []schema.RuleCheck) (passed, failed int) {
	for _, c := range checks {
		switch c.Verdict {
		case schema.VerdictPass:
			passed++
		case schema.VerdictFail:
			failed++
		}
	}
	return
}

// Overall computes the deterministic overall verdict from all checks.
// A contract passes only when every rule passes; a single failing rule
// fails the contract. The verdict is computed here, never taken from
// the model.
func Overall(checks []schema.RuleCheck) schema.Verdict {
	if len(checks) == 0 {
		return schema.VerdictFail
	}
	for _, c := range checks {
		if c.Verdict != schema.VerdictPass {
			return schema.VerdictFail
		}
	}
	return schema.VerdictPass
}

// Rate returns the percentage of checks that passed, truncated to an integer.
func Rate(checks []schema.RuleCheck) int {
	if len(checks) == 0 {
		return 0
	}
	passed, _ := Counts(checks)
	return passed * 100 / len(checks)
}

// Failing returns only the checks that failed, preserving rule order.
func Failing(checks []schema.RuleCheck) []schema.RuleCheck {
	out := make([]schema.RuleCheck, 0, len(checks))
	for _, c := range checks {
		if c.Verdict == schema.VerdictFail {
			out = append(out, c)
		}
	}
	return out
}
