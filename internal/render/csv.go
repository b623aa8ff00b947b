package render

import (
	"bytes"
	"encoding/csv"
	"fmt"

	"github.com/dshills/clausecritic/internal/schema"
)

type csvRenderer struct{}

// The three-column layout is the CSV contract; the wider column set
// (category, severity, confidence, remediation) lives in the xlsx export.
var csvHeader = []string{"Rule", "Verdict", "Explanation"}

func (r *csvRenderer) Render(res *schema.Result) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(csvHeader); err != nil {
		return nil, fmt.Errorf("writing CSV header: %w", err)
	}
	for _, c := range res.Checks {
		row := []string{c.RuleName, string(c.Verdict), c.Explanation}
		if err := w.Write(row); err != nil {
			return nil, fmt.Errorf("writing CSV row for %s: %w", c.RuleID, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("flushing CSV: %w", err)
	}
	return buf.Bytes(), nil
}

func (r *csvRenderer) ContentType() string { return "text/csv" }
