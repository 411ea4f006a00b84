package intercept

import (
	"regexp"
	"strings"

	"intercepts/internal/util"
)

const (
	atarURL  = "https://www.gov.uk/guidance/apply-for-an-advance-tariff-ruling"
	atarNote = "See more information about [Advance Tariff Rulings](" + atarURL + ")."
)

var (
	reToLabel = regexp.MustCompile(`\bto (heading|subheading|commodity)\b`)

	reCommaRun     = regexp.MustCompile(`,{2,}`)
	reIfArticle    = regexp.MustCompile(`\b([Ii])f (of|a|an) `)
	reIsDependent  = regexp.MustCompile(`\bis dependent (?:on|upon)\b`)
	reAreDependent = regexp.MustCompile(`\bare dependent (?:on|upon)\b`)
	reDependent    = regexp.MustCompile(`\bdependent (?:on|upon)\b`)
	reConnective   = regexp.MustCompile(`\b(\w+) (then|as long as)\b`)
	reDigitDepends = regexp.MustCompile(`([0-9]) (depending on|dependent)\b`)

	// any ATAR mention except inside "Qatar"
	reATAR = regexp.MustCompile(`(?i)(?:^|[^q])atar`)

	usefulSignals = []*regexp.Regexp{
		regexp.MustCompile(`(?i)\bchapters? [0-9]{2}\b`),
		regexp.MustCompile(`(?i)\bheadings? [0-9]{4}\b`),
		regexp.MustCompile(`(?i)\bsubheadings? [0-9]{6}`),
		regexp.MustCompile(`(?i)\bcommodity (?:code )?[0-9]{10}\b`),
		regexp.MustCompile(`(?i)\bsection (?:[ivxl]+|[a-z])\b`),
		regexp.MustCompile(`(?i)http`),
		regexp.MustCompile(`(?i)too generic`),
		regexp.MustCompile(`(?i)too many`),
		regexp.MustCompile(`(?i)not a physical item`),
		regexp.MustCompile(`(?i)not required for this item`),
		reATAR,
	}
)

// words after which a comma before "then" would read wrong
var connectiveLeaders = map[string]struct{}{
	"and": {}, "or": {}, "but": {}, "so": {}, "since": {}, "even": {}, "only": {}, "just": {},
	"is": {}, "are": {}, "was": {}, "be": {}, "will": {}, "would": {}, "can": {}, "may": {},
}

func (n *Normalizer) tidy(message string, _ *Context) (string, error) {
	for strings.Contains(message, "..") {
		message = strings.ReplaceAll(message, "..", ".")
	}
	message = util.CollapseWhitespace(message)
	if !strings.Contains(message, "http") {
		message = strings.ReplaceAll(message, "/", " / ")
	}
	message = reToLabel.ReplaceAllString(message, "under ${1}")

	if n.variant.ConnectiveTidy {
		message = smoothConnectives(message)
	}
	return strings.TrimSpace(util.CollapseWhitespace(message)), nil
}

func smoothConnectives(message string) string {
	message = reCommaRun.ReplaceAllString(message, ",")
	message = reIfArticle.ReplaceAllString(message, "${1}f the item is ${2} ")

	message = reIsDependent.ReplaceAllString(message, "depends on")
	message = reAreDependent.ReplaceAllString(message, "depend on")
	message = reDependent.ReplaceAllString(message, "depending on")

	message = reConnective.ReplaceAllStringFunc(message, func(match string) string {
		m := reConnective.FindStringSubmatch(match)
		if _, ok := connectiveLeaders[strings.ToLower(m[1])]; ok {
			return match
		}
		return m[1] + ", " + m[2]
	})
	message = reDigitDepends.ReplaceAllString(message, "${1}, ${2}")

	return util.UpperFirst(util.CollapseWhitespace(strings.TrimSpace(message)))
}

func appendATARNote(message string, _ *Context) (string, error) {
	if !reATAR.MatchString(message) || strings.Contains(message, atarURL) {
		return message, nil
	}
	return message + " " + atarNote, nil
}

func checkUsefulness(message string, c *Context) (string, error) {
	if !c.Valid {
		return message, nil
	}
	if !IsUseful(message) {
		c.Diagnostics.AddUselessMessage(c.Term, message)
	}
	return message, nil
}

// IsUseful reports whether message points the reader somewhere: a code, a
// section, a link or one of the stock answers. "heading ," means a code was
// lost and always counts as not useful.
func IsUseful(message string) bool {
	if strings.Contains(message, "heading ,") {
		return false
	}
	for _, signal := range usefulSignals {
		if signal.MatchString(message) {
			return true
		}
	}
	return false
}
