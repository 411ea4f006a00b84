package intercept

import (
	"regexp"

	"intercepts/internal"
	"intercepts/internal/util"
)

// Reference is the read-only lookup data the normalizer consults.
type Reference interface {
	Kind(code string) (internal.EntityKind, bool)
	ExcludesCountry(term string) bool
	Typos() []internal.TypoRule
}

type Validation struct {
	Known     bool
	Actual    internal.EntityKind
	Canonical string
}

// Validator checks labelled code fragments against the commodity table.
type Validator struct {
	ref Reference
}

func NewValidator(ref Reference) *Validator {
	return &Validator{ref: ref}
}

// Validate looks up the zero-padded fragment. Unknown codes are reported to
// diag under term.
func (v *Validator) Validate(term, fragment string, diag *Diagnostics) Validation {
	canonical := util.PadCode(fragment)
	kind, ok := v.ref.Kind(canonical)
	if !ok {
		if diag != nil {
			diag.AddIncorrectCommodity(term, fragment, canonical)
		}
		return Validation{Known: false, Canonical: canonical}
	}
	return Validation{Known: true, Actual: kind, Canonical: canonical}
}

type codeCheck struct {
	claimed internal.EntityKind
	pattern *regexp.Regexp
}

var codeChecks = []codeCheck{
	{claimed: internal.KindHeading, pattern: regexp.MustCompile(`(?i)heading ([0-9]{4})[^0-9]`)},
	{claimed: internal.KindSubheading, pattern: regexp.MustCompile(`(?i)subheading ([0-9]{6})[^0-9]`)},
	{claimed: internal.KindSubheading, pattern: regexp.MustCompile(`(?i)subheading ([0-9]{8})[^0-9]`)},
	{claimed: internal.KindCommodity, pattern: regexp.MustCompile(`(?i)commodity ([0-9]{10})[^0-9]`)},
}

// CheckCodes runs the four label patterns in order. Only the first match of
// each pattern is examined; a correctable mismatch rewrites every occurrence
// of that label and fragment.
func (v *Validator) CheckCodes(term, message string, diag *Diagnostics) string {
	for _, check := range codeChecks {
		m := check.pattern.FindStringSubmatch(message)
		if m == nil {
			continue
		}
		fragment := m[1]
		res := v.Validate(term, fragment, diag)
		if !res.Known || res.Actual == check.claimed {
			continue
		}
		message = correctLabel(message, check.claimed, res.Actual, fragment, res.Canonical)
	}
	return message
}

func correctLabel(message string, claimed, actual internal.EntityKind, fragment, canonical string) string {
	switch {
	case claimed == internal.KindHeading && actual == internal.KindCommodity:
		return replaceLabelled(message, claimed, fragment, "commodity "+canonical)
	case claimed == internal.KindHeading && actual == internal.KindSubheading:
		return replaceLabelled(message, claimed, fragment, "subheading "+fragment)
	case claimed == internal.KindSubheading && actual == internal.KindCommodity:
		return replaceLabelled(message, claimed, fragment, "commodity "+canonical)
	default:
		return message
	}
}

// replaceLabelled swaps "<label> <fragment>" as a whole phrase so that
// "heading 1234" never matches inside "subheading 123456". Unlike the
// lookup patterns the rewrite is case-sensitive: a capitalised "Heading 9999"
// is left as written.
func replaceLabelled(message string, label internal.EntityKind, fragment, replacement string) string {
	re := regexp.MustCompile(`\b` + regexp.QuoteMeta(string(label)+" "+fragment) + `\b`)
	return re.ReplaceAllLiteralString(message, replacement)
}
