package internal

import "strings"

type EntityKind string

const (
	KindHeading    EntityKind = "heading"
	KindSubheading EntityKind = "subheading"
	KindCommodity  EntityKind = "commodity"
)

func ParseEntityKind(value string) (EntityKind, bool) {
	switch EntityKind(strings.ToLower(strings.TrimSpace(value))) {
	case KindHeading:
		return KindHeading, true
	case KindSubheading:
		return KindSubheading, true
	case KindCommodity:
		return KindCommodity, true
	default:
		return "", false
	}
}

type CommodityRecord struct {
	Code string
	Kind EntityKind
}

type TypoRule struct {
	Find    string
	Replace string
}

// SourceRow is one data row of the tariff lookup export.
type SourceRow struct {
	RowNumber   int
	Term        string
	TotalEvents int
	Message     string
	Status      string
	GenuineTerm string
}

type ExportRow struct {
	Term    string
	Message string
}

type RunRow struct {
	ID              int
	TraceID         string
	SourceFile      string
	Variant         string
	SuccessCount    int
	SkippedCount    int
	ExcludedCount   int
	DiagnosticsJSON string
	CreatedAt       string
}

// RecordRow is a normalized record as persisted with its run.
type RecordRow struct {
	Position             int
	Term                 string
	Message              string
	Valid                bool
	CountryReference     bool
	ErroneousDigitLength int
}
