package amend

import (
	"fmt"
	"io"
	"strings"

	"github.com/dshills/clausecritic/internal/schema"
	"github.com/sergi/go-diff/diffmatchpatch"
)

// diffAmendment is the internal processing type for diff generation.
// schema.Amendment is the JSON-serializable type from the LLM output.
type diffAmendment struct {
	ruleID string
	before string // text to use as diff source
	after  string // text to use as diff target
}

// GenerateDiff converts schema.Amendment entries into a unified diff string
// suitable for downloading as a .patch file. Amendments that cannot be
// located in the contract are skipped with a warning written to w (may be
// nil). Both before and after are normalized before diffing to avoid
// spurious whitespace diffs.
func GenerateDiff(contractText string, amendments []schema.Amendment, w io.Writer) string {
	if len(amendments) == 0 {
		return ""
	}

	// Pre-normalize the contract once for all amendments.
	normText := normalize(contractText)

	dmp := diffmatchpatch.New()
	var out strings.Builder

	for _, a := range amendments {
		da, ok := resolve(a, contractText, normText)
		if !ok {
			if w != nil {
				fmt.Fprintf(w, "WARN: amendment for %s could not be located in contract (before text not matched)\n", a.RuleID)
			}
			continue
		}

		diffs := dmp.DiffMain(da.before, da.after, false)
		patchList := dmp.PatchMake(da.before, diffs)
		patchText := dmp.PatchToText(patchList)
		if patchText == "" {
			continue
		}

		out.WriteString(fmt.Sprintf("# amendment for %s\n", da.ruleID))
		out.WriteString(patchText)
		out.WriteString("\n")
	}

	return out.String()
}

// resolve attempts to locate a.Before in contractText using exact or
// normalized matching. normText is the pre-normalized contract (passed in
// to avoid re-computation). Returns a zero diffAmendment and false if the
// before text cannot be found.
func resolve(a schema.Amendment, contractText, normText string) (diffAmendment, bool) {
	normBefore := normalize(a.Before)
	normAfter := normalize(a.After)

	// Step 1: exact match — use original text so the diff applies to the original contract.
	if strings.Contains(contractText, a.Before) {
		return diffAmendment{ruleID: a.RuleID, before: a.Before, after: a.After}, true
	}

	// Step 2: normalized match (trim trailing whitespace, normalize CRLF).
	if strings.Contains(normText, normBefore) {
		return diffAmendment{ruleID: a.RuleID, before: normBefore, after: normAfter}, true
	}

	return diffAmendment{}, false
}

// normalize trims trailing whitespace from each line and converts CRLF to LF.
func normalize(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " \t")
	}
	return strings.Join(lines, "\n")
}
