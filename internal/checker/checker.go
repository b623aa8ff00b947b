// Package checker orchestrates a single compliance check: it sends the
// contract text and the fixed rule set to an LLM provider in one completion,
// validates the response, and assembles the final result.
package checker

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/dshills/clausecritic/internal/contract"
	"github.com/dshills/clausecritic/internal/llm"
	"github.com/dshills/clausecritic/internal/review"
	"github.com/dshills/clausecritic/internal/rules"
	"github.com/dshills/clausecritic/internal/schema"
	"github.com/dshills/clausecritic/internal/schema/validate"
)

// AnalysisError reports a failed or unusable model response. RawResponse
// carries the unparsed model output when there was one, so callers can
// surface it for debugging.
type AnalysisError struct {
	Op          string // "complete" or "parse"
	Err         error
	RawResponse string
}

func (e *AnalysisError) Error() string { return fmt.Sprintf("analysis %s: %v", e.Op, e.Err) }

func (e *AnalysisError) Unwrap() error { return e.Err }

// Options configures a Checker.
type Options struct {
	Model       string // provider:model string recorded in results
	Temperature float64
	MaxTokens   int
	Redacted    bool // recorded in results; redaction itself happens upstream
	Version     string
}

// Checker runs the fixed compliance rules against extracted contracts.
type Checker struct {
	provider llm.Provider
	opts     Options
	logger   *slog.Logger
}

// New returns a Checker. A nil logger falls back to slog.Default().
func New(provider llm.Provider, opts Options, logger *slog.Logger) *Checker {
	if logger == nil {
		logger = slog.Default()
	}
	return &Checker{provider: provider, opts: opts, logger: logger}
}

// Check analyzes one extracted contract and returns the assembled result.
// The summary verdict and counts are computed from the per-rule checks,
// never taken from the model.
func (c *Checker) Check(ctx context.Context, doc *contract.Contract) (*schema.Result, error) {
	ruleset := rules.Fixed()

	req := &llm.Request{
		SystemPrompt: llm.BuildSystemPrompt(ruleset),
		UserPrompt:   llm.BuildUserPrompt(doc.Filename, doc.Text),
		Temperature:  c.opts.Temperature,
		MaxTokens:    c.opts.MaxTokens,
	}
	// Full prompt dump; the text is already redacted upstream when redaction
	// is enabled, so this is safe to turn on in trusted environments.
	c.logger.Debug("llm.prompt",
		"system", req.SystemPrompt,
		"user", req.UserPrompt,
	)

	start := time.Now()
	resp, err := c.provider.Complete(ctx, req)
	if err != nil {
		return nil, &AnalysisError{Op: "complete", Err: err}
	}
	c.logger.Info("llm.call.ok",
		"model", resp.Model,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)

	out, err := validate.Parse(resp.Content)
	if err != nil {
		return nil, &AnalysisError{Op: "parse", Err: err, RawResponse: resp.Content}
	}

	checks := joinChecks(ruleset, out.Checks)
	passed, failed := review.Counts(checks)

	return &schema.Result{
		Tool:    "clausecritic",
		Version: c.opts.Version,
		Input: schema.Input{
			Filename:     doc.Filename,
			ContractHash: doc.Hash,
			Pages:        doc.Pages,
			Model:        c.opts.Model,
			Redacted:     c.opts.Redacted,
		},
		Summary: schema.Summary{
			Verdict: review.Overall(checks),
			Passed:  passed,
			Failed:  failed,
			Rate:    review.Rate(checks),
		},
		Checks:     checks,
		Amendments: out.Amendments,
		Meta: schema.Meta{
			Model:       resp.Model,
			Temperature: c.opts.Temperature,
		},
	}, nil
}

// joinChecks merges model-supplied findings with the fixed rule metadata.
// validate.Parse guarantees the model checks cover exactly the fixed rules
// in canonical order, so the two slices align by index.
func joinChecks(ruleset []rules.Rule, model []schema.ModelCheck) []schema.RuleCheck {
	checks := make([]schema.RuleCheck, len(model))
	for i, mc := range model {
		r := ruleset[i]
		checks[i] = schema.RuleCheck{
			RuleID:      r.ID,
			RuleName:    r.Name,
			Category:    r.Category,
			Severity:    r.Severity,
			Verdict:     mc.Verdict,
			Confidence:  mc.Confidence,
			Explanation: mc.Explanation,
			Remediation: mc.Remediation,
		}
	}
	return checks
}
