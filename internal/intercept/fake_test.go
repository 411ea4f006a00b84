package intercept

import (
	"strings"

	"intercepts/internal"
)

type fakeReference struct {
	kinds     map[string]internal.EntityKind
	countries []string
	typos     []internal.TypoRule
}

func (f fakeReference) Kind(code string) (internal.EntityKind, bool) {
	kind, ok := f.kinds[code]
	return kind, ok
}

func (f fakeReference) ExcludesCountry(term string) bool {
	for _, c := range f.countries {
		if strings.EqualFold(c, strings.TrimSpace(term)) {
			return true
		}
	}
	return false
}

func (f fakeReference) Typos() []internal.TypoRule { return f.typos }

func testReference() fakeReference {
	return fakeReference{
		kinds: map[string]internal.EntityKind{
			"1234000000": internal.KindHeading,
			"4201000000": internal.KindHeading,
			"4202000000": internal.KindHeading,
			"8888000000": internal.KindSubheading,
			"1234567800": internal.KindCommodity,
			"9999000000": internal.KindCommodity,
		},
		countries: []string{"France"},
		typos: []internal.TypoRule{
			{Find: "recieve", Replace: "receive"},
			{Find: "", Replace: "ignored"},
		},
	}
}

func stageByName(t interface{ Fatalf(string, ...any) }, n *Normalizer, name string) Stage {
	for _, s := range n.Stages() {
		if s.Name == name {
			return s
		}
	}
	t.Fatalf("stage %q not enabled", name)
	return Stage{}
}
