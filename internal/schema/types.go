package schema

// Result is the top-level compliance output for one checked contract.
type Result struct {
	Tool       string      `json:"tool"`
	Version    string      `json:"version"`
	Input      Input       `json:"input"`
	Summary    Summary     `json:"summary"`
	Checks     []RuleCheck `json:"checks"`
	Amendments []Amendment `json:"amendments"`
	Meta       Meta        `json:"meta"`
}

// Input captures the parameters used for this check.
type Input struct {
	Filename     string `json:"filename"`
	ContractHash string `json:"contract_hash"` // SHA-256 of the uploaded bytes, computed before redaction
	Pages        int    `json:"pages"`
	Model        string `json:"model"`
	Redacted     bool   `json:"redacted"`
}

// Summary holds the computed overall verdict and check counts.
// These are always derived from the per-rule verdicts, never taken
// from the model.
type Summary struct {
	Verdict Verdict `json:"verdict"`
	Passed  int     `json:"passed"`
	Failed  int     `json:"failed"`
	Rate    int     `json:"rate"` // percentage of passing checks
}

// Meta holds runtime metadata about the LLM call.
type Meta struct {
	Model       string  `json:"model"`
	Temperature float64 `json:"temperature"`
}

// Verdict is the outcome of a single rule check, and of the whole result.
type Verdict string

const (
	VerdictPass Verdict = "PASS"
	VerdictFail Verdict = "FAIL"
)

// IsValidVerdict reports whether v is PASS or FAIL.
func IsValidVerdict(v Verdict) bool {
	return v == VerdictPass || v == VerdictFail
}

// Severity ranks how serious a rule violation is.
type Severity string

const (
	SeverityHigh   Severity = "HIGH"
	SeverityMedium Severity = "MEDIUM"
	SeverityLow    Severity = "LOW"
)

// Confidence grades how certain the model is about a check.
type Confidence string

const (
	ConfidenceHigh   Confidence = "HIGH"
	ConfidenceMedium Confidence = "MEDIUM"
	ConfidenceLow    Confidence = "LOW"
)

// IsValidConfidence reports whether c is one of the three defined levels.
func IsValidConfidence(c Confidence) bool {
	switch c {
	case ConfidenceHigh, ConfidenceMedium, ConfidenceLow:
		return true
	}
	return false
}

// RuleCheck is the outcome of checking one rule against the contract.
// Rule name, category, and severity come from the fixed rule set; only
// verdict, confidence, explanation, and remediation originate from the model.
type RuleCheck struct {
	RuleID      string     `json:"rule_id"`
	RuleName    string     `json:"rule_name"`
	Category    string     `json:"category"`
	Severity    Severity   `json:"severity"`
	Verdict     Verdict    `json:"verdict"`
	Confidence  Confidence `json:"confidence"`
	Explanation string     `json:"explanation"`
	Remediation string     `json:"remediation,omitempty"`
}

// Amendment is model-suggested replacement language for a failing rule.
// Amendments are advisory; internal/amend turns them into applicable diffs.
type Amendment struct {
	RuleID string `json:"rule_id"`
	Before string `json:"before"`
	After  string `json:"after"`
}

// ModelOutput is the raw shape the LLM returns. The full Result is
// assembled externally by joining checks with the fixed rule metadata.
type ModelOutput struct {
	Checks     []ModelCheck `json:"checks"`
	Amendments []Amendment  `json:"amendments"`
}

// ModelCheck is one per-rule finding as returned by the model.
type ModelCheck struct {
	RuleID      string     `json:"rule_id"`
	Verdict     Verdict    `json:"verdict"`
	Confidence  Confidence `json:"confidence"`
	Explanation string     `json:"explanation"`
	Remediation string     `json:"remediation"`
}
