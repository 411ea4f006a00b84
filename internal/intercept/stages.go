package intercept

import (
	"fmt"
	"regexp"
	"strings"

	"intercepts/internal"
	"intercepts/internal/util"
)

const countryMarker = "COUNTRY"

const countryTemplate = "Search for the goods by name rather than by the country they come from. " +
	"For guidance on importing from and exporting to {country}, see " +
	"[trading with {country}](https://www.gov.uk/world/{country2})."

const pipeTemplate = "Based on your search, we believe you are looking for {term} under {tier} {entity}."

const continuationIndent = "\n              "

var tiers = map[int]internal.EntityKind{
	4:  internal.KindHeading,
	6:  internal.KindSubheading,
	8:  internal.KindSubheading,
	10: internal.KindCommodity,
}

var (
	oddDigitPatterns = []struct {
		length  int
		pattern *regexp.Regexp
	}{
		{5, regexp.MustCompile(`(?:^|[^0-9])[0-9]{5}(?:[^0-9]|$)`)},
		{7, regexp.MustCompile(`(?:^|[^0-9])[0-9]{7}(?:[^0-9]|$)`)},
		{9, regexp.MustCompile(`(?:^|[^0-9])[0-9]{9}(?:[^0-9]|$)`)},
	}

	reWouldDepend = regexp.MustCompile(`([0-9]{2,10})\s+Would depend`)

	reBareCommodity   = regexp.MustCompile(`([^ye]) ([0-9]{10}[^0-9])`)
	reBareSubheading8 = regexp.MustCompile(`([^g]) ([0-9]{8}[^0-9])`)
	reBareSubheading6 = regexp.MustCompile(`([^g]) ([0-9]{6}[^0-9])`)
	reBareHeading     = regexp.MustCompile(`([^g]) ([0-9]{4}[^0-9])`)

	reHeadingSix   = regexp.MustCompile(` heading ([0-9]{6}[^0-9])`)
	reHeadingTen   = regexp.MustCompile(` heading ([0-9]{10})`)
	reHeadingEight = regexp.MustCompile(` heading ([0-9]{8}[^0-9])`)
	reHeadingsOne  = regexp.MustCompile(` headings ([0-9]{4}),`)
)

func (n *Normalizer) substituteCountry(message string, c *Context) (string, error) {
	if !strings.Contains(message, countryMarker) {
		return message, nil
	}
	if n.ref.ExcludesCountry(c.Term) {
		c.Valid = false
		c.Halt()
		return message, nil
	}
	c.CountryReference = true
	return CountryMessage(c.Term), nil
}

// CountryMessage renders the country redirect for term.
func CountryMessage(country string) string {
	return strings.NewReplacer(
		"{country2}", util.Slugify(country),
		"{country}", country,
	).Replace(countryTemplate)
}

func normalizeWhitespace(message string, _ *Context) (string, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return "", ErrEmptyMessage
	}
	message = strings.ReplaceAll(message, `"`, "'")
	message = strings.ReplaceAll(message, " ,", ",")
	message = strings.ReplaceAll(message, "\u00a0", " ")
	return message, nil
}

// expandPipes rewrites the "<code>|<description>" shorthand into a sentence.
func (n *Normalizer) expandPipes(message string, c *Context) (string, error) {
	if !strings.Contains(message, "|") {
		return message, nil
	}
	parts := strings.Split(message, "|")
	entity := strings.TrimSpace(parts[0])
	term := strings.TrimSpace(parts[1])
	if !util.IsDigits(entity) && util.IsDigits(term) {
		entity, term = term, entity
	}
	if term == "" {
		term = c.Term
	}

	switch {
	case strings.HasPrefix(term, "For"):
		if n.variant.PipePrefix == PipeDropFor {
			term = strings.TrimSpace(strings.TrimPrefix(term, "For"))
		} else {
			term = "items for" + strings.TrimPrefix(term, "For")
		}
	case strings.HasPrefix(term, "Under "):
		term = strings.TrimPrefix(term, "Under ")
	}
	term = util.Decapitalize(term)

	tier, ok := tiers[len(entity)]
	if !ok {
		return "", fmt.Errorf("%w: %q has %d characters", ErrUnknownTier, entity, len(entity))
	}

	return strings.NewReplacer(
		"{term}", term,
		"{tier}", string(tier),
		"{entity}", entity,
	).Replace(pipeTemplate), nil
}

func ensureTerminalPeriod(message string, _ *Context) (string, error) {
	if !strings.HasSuffix(message, ".") {
		message += "."
	}
	return message, nil
}

func indentContinuations(message string, _ *Context) (string, error) {
	return strings.ReplaceAll(message, "\n", continuationIndent), nil
}

func detectOddDigits(message string, c *Context) (string, error) {
	for _, odd := range oddDigitPatterns {
		if odd.pattern.MatchString(message) {
			c.ErroneousDigitLength = odd.length
			c.Diagnostics.AddErroneousDigit(c.Term, odd.length)
			break
		}
	}
	return message, nil
}

func (n *Normalizer) correctTypos(message string, _ *Context) (string, error) {
	message = reWouldDepend.ReplaceAllString(message, "${1}. PRECISE would depend")
	for _, typo := range n.ref.Typos() {
		if typo.Find == "" {
			continue
		}
		message = strings.ReplaceAll(message, typo.Find, typo.Replace)
	}
	return message, nil
}

// standardiseLabels puts heading, subheading or commodity in front of bare
// codes and fixes labels that contradict the digit count. The prefix
// character classes stop a run that already carries a label from being
// labelled again.
func (n *Normalizer) standardiseLabels(message string, _ *Context) (string, error) {
	message = util.CollapseSpaces(message)

	message = reBareCommodity.ReplaceAllString(message, "${1} commodity ${2}")
	message = reBareSubheading8.ReplaceAllString(message, "${1} subheading ${2}")
	message = reBareSubheading6.ReplaceAllString(message, "${1} subheading ${2}")
	// twice: adjacent codes share the separating character
	message = reBareHeading.ReplaceAllString(message, "${1} heading ${2}")
	message = reBareHeading.ReplaceAllString(message, "${1} heading ${2}")

	message = reHeadingSix.ReplaceAllString(message, " subheading ${1}")
	message = reHeadingTen.ReplaceAllString(message, " commodity ${1}")
	if n.variant.EightDigitHeadingFix {
		message = reHeadingEight.ReplaceAllString(message, " subheading ${1}")
	}
	message = reHeadingsOne.ReplaceAllString(message, " heading ${1},")
	return message, nil
}

func (n *Normalizer) checkValidity(message string, c *Context) (string, error) {
	return n.validator.CheckCodes(c.Term, message, c.Diagnostics), nil
}
