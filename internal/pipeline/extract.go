package pipeline

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/xuri/excelize/v2"

	"intercepts/internal"
	"intercepts/internal/util"
)

// Source workbook columns by position.
const (
	colTerm        = 0
	colTotalEvents = 1
	colMessage     = 6
	colStatus      = 7
	colGenuineTerm = 8
)

func ReadSourceRows(path, sheet string) ([]internal.SourceRow, error) {
	blob, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	rows, err := parseSource(blob, sheet)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return rows, nil
}

func parseSource(content []byte, sheet string) ([]internal.SourceRow, error) {
	f, err := excelize.OpenReader(bytes.NewReader(content))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	if strings.TrimSpace(sheet) == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, fmt.Errorf("workbook has no sheets")
		}
		sheet = sheets[0]
	}
	if idx, err := f.GetSheetIndex(sheet); err != nil || idx < 0 {
		return nil, fmt.Errorf("sheet not found: %s", sheet)
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, err
	}

	out := make([]internal.SourceRow, 0, len(rows))
	for i, row := range rows {
		if i == 0 {
			continue
		}
		cell := func(col int) string {
			if col < len(row) {
				return row[col]
			}
			return ""
		}
		out = append(out, internal.SourceRow{
			RowNumber:   i + 1,
			Term:        strings.TrimSpace(cell(colTerm)),
			TotalEvents: util.ParseCount(cell(colTotalEvents)),
			Message:     strings.TrimSpace(cell(colMessage)),
			Status:      strings.ToLower(strings.TrimSpace(cell(colStatus))),
			GenuineTerm: strings.ToLower(strings.TrimSpace(cell(colGenuineTerm))),
		})
	}
	return out, nil
}
