package render

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/dshills/clausecritic/internal/schema"
)

type xlsxRenderer struct{}

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

func (r *xlsxRenderer) Render(res *schema.Result) ([]byte, error) {
	f := excelize.NewFile()
	const sheet = "Compliance"
	if index, _ := f.GetSheetIndex(sheet); index == -1 {
		if _, err := f.NewSheet(sheet); err != nil {
			return nil, err
		}
	}
	activeIndex, _ := f.GetSheetIndex(sheet)
	f.SetActiveSheet(activeIndex)

	headers := []string{"Rule", "Category", "Severity", "Verdict", "Confidence", "Explanation", "Remediation"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}

	row := 2
	for _, c := range res.Checks {
		write := func(col int, v any) {
			cell, _ := excelize.CoordinatesToCellName(col, row)
			_ = f.SetCellValue(sheet, cell, v)
		}
		write(1, c.RuleName)
		write(2, c.Category)
		write(3, string(c.Severity))
		write(4, string(c.Verdict))
		write(5, string(c.Confidence))
		write(6, c.Explanation)
		write(7, c.Remediation)
		row++
	}

	// Widen columns so explanations are readable without resizing.
	_ = f.SetColWidth(sheet, "A", "A", 32)
	_ = f.SetColWidth(sheet, "B", "C", 16)
	_ = f.SetColWidth(sheet, "D", "E", 12)
	_ = f.SetColWidth(sheet, "F", "G", 60)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}
	return buf.Bytes(), nil
}

func (r *xlsxRenderer) ContentType() string { return xlsxContentType }
