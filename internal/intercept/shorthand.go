package intercept

import (
	"fmt"
	"regexp"
	"strings"

	"intercepts/internal/util"
)

const (
	preciseText     = "The full commodity code"
	tooGenericText  = "The search term entered is too generic. Please enter the specific type of goods."
	notPhysicalText = "The search term entered is not a physical item. Please enter the name of the goods you want to classify."
	notRequiredText = "A commodity code is not required for this item."
)

var (
	reChapterFour  = regexp.MustCompile(`(classified under chapter) ([0-9]{2})/([0-9]{2})/([0-9]{2})/([0-9]{2})`)
	reChapterThree = regexp.MustCompile(`(classified under chapter) ([0-9]{2})/([0-9]{2})/([0-9]{2})`)
	reChapterTwo   = regexp.MustCompile(`(classified under chapter) ([0-9]{2})/([0-9]{2})`)

	reHeadingNoSpace = regexp.MustCompile(`heading([0-9])`)

	headingListPatterns = buildHeadingListPatterns(8)
)

type headingListPattern struct {
	pattern     *regexp.Regexp
	replacement string
}

// buildHeadingListPatterns prepares the rules for slash lists of up to
// maxMiddle+2 headings, longest first, e.g. "1234/5678/9012" becomes
// "1234, 5678 or heading 9012".
func buildHeadingListPatterns(maxMiddle int) []headingListPattern {
	out := make([]headingListPattern, 0, maxMiddle+1)
	for i := maxMiddle; i >= 0; i-- {
		expr := `([^0-9][0-9]{4})/` + strings.Repeat(`([0-9]{4})/`, i) + `([0-9]{4}[^0-9])`
		repl := "${1}"
		for j := 0; j < i; j++ {
			repl += fmt.Sprintf(", ${%d}", j+2)
		}
		repl += fmt.Sprintf(" or heading ${%d}", i+2)
		out = append(out, headingListPattern{pattern: regexp.MustCompile(expr), replacement: repl})
	}
	return out
}

func (n *Normalizer) pluralTerm(c *Context) string {
	source := c.Term
	if strings.TrimSpace(c.GenuineTerm) != "" {
		source = c.GenuineTerm
	}
	return util.Capitalize(n.plural.Plural(source))
}

// expandShorthand replaces the editors' all-caps tokens with prose. Longer
// tokens go first so that "TERMS" is not consumed by "TERM".
func (n *Normalizer) expandShorthand(message string, c *Context) (string, error) {
	plural := n.pluralTerm(c)
	single := util.Capitalize(c.Term)

	message = strings.ReplaceAll(message, "TERMS CLASS", plural+" are classified under")
	message = strings.ReplaceAll(message, "TERM CLASS", single+" is classified under")

	message = strings.ReplaceAll(message, "TERM CCHAP", single+" is classified under chapter")
	message = strings.ReplaceAll(message, "TERM CHEAD", single+" is classified under heading")
	message = strings.ReplaceAll(message, "TERM CSHEAD", single+" is classified under subheading")
	message = strings.ReplaceAll(message, "TERM CCOMM", single+" is classified under commodity")

	message = strings.ReplaceAll(message, "TERMS", plural)
	message = strings.ReplaceAll(message, "TERM", single)

	message = strings.ReplaceAll(message, "CCHAP", "are classified under chapter")
	message = strings.ReplaceAll(message, "CHEAD", "are classified under heading")
	message = strings.ReplaceAll(message, "CSHEAD", "are classified under subheading")
	message = strings.ReplaceAll(message, "CCOMM", "are classified under commodity")

	message = reChapterFour.ReplaceAllString(message, "${1} ${2}, chapter ${3}, chapter ${4} or chapter ${5}")
	message = reChapterThree.ReplaceAllString(message, "${1} ${2}, chapter ${3} or chapter ${4}")
	message = reChapterTwo.ReplaceAllString(message, "${1} ${2} or chapter ${3}")

	message = strings.ReplaceAll(message, "PRECISE", preciseText)
	message = strings.ReplaceAll(message, "TOO GENERIC", tooGenericText)

	if n.variant.ExtraShorthand {
		message = strings.ReplaceAll(message, "NOT PHYSICAL", notPhysicalText)
		message = strings.ReplaceAll(message, "NOT REQUIRED", notRequiredText)
	}
	if n.variant.SpaceAfterHeading {
		message = reHeadingNoSpace.ReplaceAllString(message, "heading ${1}")
	}
	return message, nil
}

func expandHeadingLists(message string, _ *Context) (string, error) {
	for _, hl := range headingListPatterns {
		message = hl.pattern.ReplaceAllString(message, hl.replacement)
	}
	return message, nil
}
