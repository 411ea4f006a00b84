package reference

import (
	"strings"

	"intercepts/internal"
)

// Data is the loaded reference set consulted by the normalizer. It is
// read-only once built and safe for concurrent use.
type Data struct {
	table     *Table
	typos     []internal.TypoRule
	countries map[string]struct{}
}

func NewData(table *Table, typos []internal.TypoRule, countryFailures []string) *Data {
	if table == nil {
		table = BuildTable(nil)
	}
	d := &Data{
		table:     table,
		typos:     typos,
		countries: make(map[string]struct{}, len(countryFailures)),
	}
	for _, c := range countryFailures {
		if key := countryKey(c); key != "" {
			d.countries[key] = struct{}{}
		}
	}
	return d
}

func (d *Data) Kind(code string) (internal.EntityKind, bool) { return d.table.Kind(code) }

func (d *Data) ExcludesCountry(term string) bool {
	_, ok := d.countries[countryKey(term)]
	return ok
}

// Typos returns the shared rule list; callers must not modify it.
func (d *Data) Typos() []internal.TypoRule { return d.typos }

func (d *Data) Table() *Table { return d.table }

func countryKey(s string) string { return strings.ToLower(strings.TrimSpace(s)) }
