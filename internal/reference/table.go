package reference

import (
	"strings"

	"intercepts/internal"
)

// Table maps zero-padded ten digit codes to their entity kind.
type Table struct {
	kinds map[string]internal.EntityKind
}

func BuildTable(records []internal.CommodityRecord) *Table {
	t := &Table{kinds: make(map[string]internal.EntityKind, len(records))}
	for _, r := range records {
		code := strings.TrimSpace(r.Code)
		if code == "" {
			continue
		}
		t.kinds[code] = r.Kind
	}
	return t
}

func (t *Table) Kind(code string) (internal.EntityKind, bool) {
	kind, ok := t.kinds[code]
	return kind, ok
}

func (t *Table) Len() int { return len(t.kinds) }
