package reference

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"intercepts/internal"
)

// plsPublished marks a code line that is live in the tariff.
const plsPublished = "80"

// ParseCommodities reads the tariff extract: a header row, then the code in
// column 1, the PLS flag in column 2 and the entity kind in column 8.
func ParseCommodities(r io.Reader) ([]internal.CommodityRecord, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	out := make([]internal.CommodityRecord, 0)
	line := 0
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("codes line %d: %w", line+1, err)
		}
		line++
		if line == 1 || len(row) < 9 {
			continue
		}
		if strings.TrimSpace(row[2]) != plsPublished {
			continue
		}
		kind, ok := internal.ParseEntityKind(row[8])
		if !ok {
			continue
		}
		code := strings.ReplaceAll(strings.TrimSpace(row[1]), " ", "")
		if code == "" {
			continue
		}
		out = append(out, internal.CommodityRecord{Code: code, Kind: kind})
	}
	return out, nil
}

func LoadCommoditiesFile(path string) ([]internal.CommodityRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ParseCommodities(f)
}

// ParseTypos reads find,replace pairs. Every row is a rule; there is no header.
// Cells are kept verbatim so rules can carry leading or trailing spaces.
func ParseTypos(r io.Reader) ([]internal.TypoRule, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, err
	}
	out := make([]internal.TypoRule, 0, len(rows))
	for _, row := range rows {
		if len(row) < 2 || row[0] == "" {
			continue
		}
		out = append(out, internal.TypoRule{Find: row[0], Replace: row[1]})
	}
	return out, nil
}

// LoadTypos returns no rules and no error when path does not exist.
func LoadTypos(path string) ([]internal.TypoRule, error) {
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ParseTypos(f)
}

// ParseCountryFailures accepts a JSON or YAML list of country names.
func ParseCountryFailures(blob []byte) ([]string, error) {
	var out []string
	if err := yaml.Unmarshal(blob, &out); err != nil {
		return nil, fmt.Errorf("country failures: %w", err)
	}
	return out, nil
}

// LoadCountryFailures returns an empty list when path does not exist.
func LoadCountryFailures(path string) ([]string, error) {
	blob, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return ParseCountryFailures(blob)
}
