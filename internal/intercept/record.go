package intercept

import (
	"fmt"
	"strings"
)

// Record is one published search-term message.
type Record struct {
	Term                 string
	Message              string
	Valid                bool
	CountryReference     bool
	ErroneousDigitLength int
	YAML                 string
}

// NormalizeTerm trims term and lower-cases it unless message refers to a country.
func NormalizeTerm(term, message string) string {
	term = strings.TrimSpace(term)
	if strings.Contains(message, countryMarker) {
		return term
	}
	return strings.ToLower(term)
}

// NewRecord normalizes message for term. The only error is a malformed
// message (empty, or a pipe template with an unknown code length).
func NewRecord(n *Normalizer, diag *Diagnostics, term, message, genuineTerm string) (*Record, error) {
	term = NormalizeTerm(term, message)
	res, err := n.Normalize(term, message, strings.TrimSpace(genuineTerm), diag)
	if err != nil {
		return nil, err
	}
	rec := &Record{
		Term:                 term,
		Message:              res.Message,
		Valid:                res.Valid,
		CountryReference:     res.CountryReference,
		ErroneousDigitLength: res.ErroneousDigitLength,
	}
	rec.YAML = Fragment(rec.Term, rec.Message)
	return rec, nil
}

// Fragment renders the locale file entry for one term.
func Fragment(term, message string) string {
	return fmt.Sprintf("  %s:\n    title: \"%s\"\n    message: \"%s\"\n\n", term, term, message)
}
