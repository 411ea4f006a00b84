package pipeline

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"intercepts/internal"
	"intercepts/internal/intercept"
)

const exportSheet = "Intercept messages"

func RenderYAML(records []*intercept.Record) string {
	var b strings.Builder
	b.WriteString("en:\n")
	for _, rec := range records {
		b.WriteString(rec.YAML)
	}
	return b.String()
}

func WriteYAML(path string, records []*intercept.Record) error {
	return writeFile(path, []byte(RenderYAML(records)))
}

func ExportRows(records []*intercept.Record) []internal.ExportRow {
	out := make([]internal.ExportRow, 0, len(records))
	for _, rec := range records {
		out = append(out, internal.ExportRow{Term: rec.Term, Message: rec.Message})
	}
	return out
}

func ExportRowsToXLSX(rows []internal.ExportRow, outputPath string) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), exportSheet); err != nil {
		return err
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"F0F0F0"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "left", Vertical: "top"},
	})
	if err != nil {
		return err
	}
	wrapStyle, err := f.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{Horizontal: "left", Vertical: "top", WrapText: true},
	})
	if err != nil {
		return err
	}

	_ = f.SetColWidth(exportSheet, "A", "A", 20)
	_ = f.SetColWidth(exportSheet, "B", "B", 100)

	_ = f.SetCellValue(exportSheet, "A1", "Term")
	_ = f.SetCellValue(exportSheet, "B1", "Message")
	_ = f.SetCellStyle(exportSheet, "A1", "B1", headerStyle)

	for i, row := range rows {
		r := i + 2
		set := func(col int, value any) {
			cell, _ := excelize.CoordinatesToCellName(col, r)
			_ = f.SetCellValue(exportSheet, cell, value)
		}
		set(1, row.Term)
		set(2, row.Message)
	}
	if len(rows) > 0 {
		last, _ := excelize.CoordinatesToCellName(2, len(rows)+1)
		_ = f.SetCellStyle(exportSheet, "A2", last, wrapStyle)
	}

	if err := f.SetPanes(exportSheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return err
	}
	return f.SaveAs(outputPath)
}

// Report is the diagnostic summary written next to the outputs.
type Report struct {
	SuccessCount         int                            `json:"success_count"`
	ErroneousDigits      []intercept.ErroneousDigit     `json:"erroneous_digits"`
	IncorrectCommodities []intercept.IncorrectCommodity `json:"incorrect_commodities"`
	UselessMessages      []intercept.UselessMessage     `json:"useless_messages"`
	Typos                []string                       `json:"typos"`
}

func NewReport(successCount int, diag *intercept.Diagnostics) Report {
	if diag == nil {
		diag = intercept.NewDiagnostics()
	}
	return Report{
		SuccessCount:         successCount,
		ErroneousDigits:      diag.ErroneousDigits,
		IncorrectCommodities: diag.IncorrectCommodities,
		UselessMessages:      diag.UselessMessages,
		Typos:                []string{},
	}
}

func (r Report) JSON() ([]byte, error) {
	return json.MarshalIndent(r, "", "      ")
}

func WriteReport(path string, report Report) error {
	blob, err := report.JSON()
	if err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	return writeFile(path, blob)
}

func writeFile(path string, blob []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, blob, 0o644)
}
