package intercept

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func normalize(t *testing.T, v Variant, term, message string) (Result, *Diagnostics) {
	t.Helper()
	diag := NewDiagnostics()
	res, err := NewNormalizer(v, testReference()).Normalize(term, message, "", diag)
	require.NoError(t, err)
	return res, diag
}

func TestNormalizeShorthandHeading(t *testing.T) {
	res, diag := normalize(t, GenericVariant(), "gadget", "TERM CHEAD 1234")

	assert.Equal(t, "Gadget is classified under heading 1234.", res.Message)
	assert.True(t, res.Valid)
	assert.Empty(t, diag.IncorrectCommodities)
	assert.Empty(t, diag.UselessMessages)
}

func TestNormalizePluralShorthand(t *testing.T) {
	res, _ := normalize(t, GenericVariant(), "handbag", "TERMS CHEAD 4202")
	assert.Equal(t, "Handbags are classified under heading 4202.", res.Message)
}

func TestNormalizePluralUsesGenuineTerm(t *testing.T) {
	n := NewNormalizer(GenericVariant(), testReference())
	res, err := n.Normalize("purse", "TERMS CHEAD 4202", "handbag", nil)
	require.NoError(t, err)
	assert.Equal(t, "Handbags are classified under heading 4202.", res.Message)
}

func TestNormalizePipeWithEmptyDescription(t *testing.T) {
	res, _ := normalize(t, GenericVariant(), "handbags", "|4201")
	assert.Equal(t, "Based on your search, we believe you are looking for handbags under heading 4201.", res.Message)
}

func TestNormalizePipeForPrefix(t *testing.T) {
	generic, _ := normalize(t, GenericVariant(), "bag", "4202|For carrying")
	assert.Equal(t, "Based on your search, we believe you are looking for items for carrying under heading 4202.", generic.Message)

	business, _ := normalize(t, BusinessVariant(), "bag", "4202|For carrying")
	assert.Equal(t, "Based on your search, we believe you are looking for carrying under heading 4202.", business.Message)
}

func TestNormalizePipeUnknownTier(t *testing.T) {
	n := NewNormalizer(GenericVariant(), testReference())
	_, err := n.Normalize("widgets", "12345|widgets", "", nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnknownTier))
	assert.Contains(t, err.Error(), StagePipes)
}

func TestNormalizeEmptyMessage(t *testing.T) {
	n := NewNormalizer(GenericVariant(), testReference())
	_, err := n.Normalize("widgets", "  \t ", "", nil)
	assert.True(t, errors.Is(err, ErrEmptyMessage))
}

func TestNormalizeOddDigits(t *testing.T) {
	res, diag := normalize(t, GenericVariant(), "lamp", "See 12345 for details")

	assert.Equal(t, 5, res.ErroneousDigitLength)
	require.Len(t, diag.ErroneousDigits, 1)
	assert.Equal(t, ErroneousDigit{Term: "lamp", Length: 5}, diag.ErroneousDigits[0])
	assert.Equal(t, "See 12345 for details.", res.Message)
}

func TestNormalizeOddDigitsAtEdges(t *testing.T) {
	res, _ := normalize(t, BusinessVariant(), "lamp", "1234567")
	assert.Equal(t, 7, res.ErroneousDigitLength)
}

func TestNormalizeCountry(t *testing.T) {
	res, _ := normalize(t, BusinessVariant(), "Australia", "COUNTRY")

	want := "Search for the goods by name rather than by the country they come from. " +
		"For guidance on importing from and exporting to Australia, see " +
		"[trading with Australia](https://www.gov.uk/world/australia)."
	assert.Equal(t, want, res.Message)
	assert.True(t, res.CountryReference)
	assert.True(t, res.Valid)
}

func TestNormalizeCountryExcluded(t *testing.T) {
	res, _ := normalize(t, BusinessVariant(), "france", "COUNTRY")
	assert.False(t, res.Valid)
	assert.False(t, res.CountryReference)
	assert.Equal(t, "COUNTRY", res.Message)
}

func TestNormalizeCountryIgnoredByGeneric(t *testing.T) {
	res, _ := normalize(t, GenericVariant(), "Australia", "COUNTRY")
	assert.False(t, res.CountryReference)
	assert.Equal(t, "COUNTRY.", res.Message)
}

func TestNormalizeWidensHeadingToCommodity(t *testing.T) {
	res, diag := normalize(t, GenericVariant(), "valve", "See heading 9999 for details")
	assert.Equal(t, "See commodity 9999000000 for details.", res.Message)
	assert.Empty(t, diag.IncorrectCommodities)
}

func TestNormalizeReportsUnknownCodeOnce(t *testing.T) {
	res, diag := normalize(t, GenericVariant(), "horse", "Use commodity 0101210000 or commodity 0101210000")
	require.Len(t, diag.IncorrectCommodities, 1)
	assert.Equal(t, IncorrectCommodity{Term: "horse", Verbatim: "0101210000", Commodity: "0101210000"}, diag.IncorrectCommodities[0])
	assert.Equal(t, "Use commodity 0101210000 or commodity 0101210000.", res.Message)
}

func TestNormalizeSingleTerminalPeriod(t *testing.T) {
	for _, msg := range []string{"Ask a broker", "Ask a broker.", "Ask a broker.."} {
		res, _ := normalize(t, GenericVariant(), "x", msg)
		assert.Equal(t, "Ask a broker.", res.Message, msg)
	}
}

func TestNormalizeWouldDepend(t *testing.T) {
	res, _ := normalize(t, GenericVariant(), "chair", "Heading 1234 Would depend on the material")
	assert.Equal(t, "Heading 1234. The full commodity code would depend on the material.", res.Message)
}

func TestNormalizeTypos(t *testing.T) {
	res, _ := normalize(t, GenericVariant(), "x", "You recieve goods under heading 1234")
	assert.Equal(t, "You receive goods under heading 1234.", res.Message)
}

func TestNormalizeHeadingLists(t *testing.T) {
	res, _ := normalize(t, GenericVariant(), "box", "Classified under heading 1234/5678/9012")
	assert.Equal(t, "Classified under heading 1234, heading 5678 or heading 9012.", res.Message)
}

func TestNormalizeExtraShorthand(t *testing.T) {
	res, _ := normalize(t, BusinessVariant(), "software", "NOT PHYSICAL")
	assert.Equal(t, notPhysicalText, res.Message)

	v := BusinessVariant()
	v.ExtraShorthand = false
	res, _ = normalize(t, v, "software", "NOT PHYSICAL")
	assert.Equal(t, "NOT PHYSICAL.", res.Message)
}

func TestNormalizeSpaceAfterHeading(t *testing.T) {
	res, _ := normalize(t, BusinessVariant(), "box", "See heading1234")
	assert.Equal(t, "See heading 1234.", res.Message)
}

func TestNormalizeEightDigitHeading(t *testing.T) {
	res, _ := normalize(t, GenericVariant(), "x", "See heading 12345678 now")
	assert.Equal(t, "See commodity 1234567800 now.", res.Message)

	v := GenericVariant()
	v.EightDigitHeadingFix = false
	res, _ = normalize(t, v, "x", "See heading 12345678 now")
	assert.Equal(t, "See heading 12345678 now.", res.Message)
}

func TestNormalizeATARNote(t *testing.T) {
	res, _ := normalize(t, GenericVariant(), "x", "Apply for an ATAR")
	assert.Equal(t, "Apply for an ATAR. "+atarNote, res.Message)

	res, _ = normalize(t, GenericVariant(), "x", "Goods from Qatar")
	assert.NotContains(t, res.Message, atarURL)
}

func TestNormalizeATARPlural(t *testing.T) {
	res, diag := normalize(t, GenericVariant(), "widget", "Apply for ATARs")
	assert.Equal(t, "Apply for ATARs. "+atarNote, res.Message)
	assert.Empty(t, diag.UselessMessages)
}

func TestNormalizeUsefulness(t *testing.T) {
	_, diag := normalize(t, GenericVariant(), "thing", "Please ask someone")
	require.Len(t, diag.UselessMessages, 1)
	assert.Equal(t, UselessMessage{Term: "thing", Message: "Please ask someone."}, diag.UselessMessages[0])

	_, diag = normalize(t, BusinessVariant(), "thing", "Please ask someone")
	assert.Empty(t, diag.UselessMessages)
}

func TestStageOrder(t *testing.T) {
	names := func(v Variant) []string {
		var out []string
		for _, s := range NewNormalizer(v, testReference()).Stages() {
			out = append(out, s.Name)
		}
		return out
	}

	assert.Equal(t, []string{
		StageWhitespace, StagePipes, StageTerminal, StageIndent, StageOddDigits, StageTypos,
		StageShorthand, StageHeadingLists, StageLabels, StageValidity, StageTidy, StageATAR, StageUsefulness,
	}, names(GenericVariant()))
	assert.Equal(t, []string{
		StageCountry, StageWhitespace, StagePipes, StageTerminal, StageIndent, StageOddDigits, StageTypos,
		StageShorthand, StageLabels, StageValidity, StageTidy,
	}, names(BusinessVariant()))
}

func TestStagesIdempotent(t *testing.T) {
	n := NewNormalizer(GenericVariant(), testReference())
	inputs := []string{
		"See 1234 and 123456 or 1234567890.",
		"See heading 1234 and subheading 123456.",
		"Goods to heading 1234/5678 if wooden then ok..",
		"Classified under headings 1234, 5678.",
	}
	for _, name := range []string{StageLabels, StageTidy, StageATAR, StageTerminal} {
		stage := stageByName(t, n, name)
		for _, in := range inputs {
			c := &Context{Term: "x", Diagnostics: NewDiagnostics(), Valid: true}
			once, err := stage.Apply(in, c)
			require.NoError(t, err)
			twice, err := stage.Apply(once, c)
			require.NoError(t, err)
			assert.Equal(t, once, twice, "%s(%q)", name, in)
		}
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	inputs := []struct{ term, message string }{
		{"gadget", "TERM CHEAD 1234"},
		{"handbag", "TERMS CHEAD 4202"},
		{"handbags", "|4201"},
		{"valve", "See heading 9999 for details"},
		{"horse", "Use commodity 0101210000 or commodity 0101210000"},
		{"x", "Apply for an ATAR"},
		{"x", "Ask a broker.."},
	}
	for _, in := range inputs {
		once, _ := normalize(t, GenericVariant(), in.term, in.message)
		twice, _ := normalize(t, GenericVariant(), in.term, once.Message)
		assert.Equal(t, once.Message, twice.Message, in.message)
	}
}

func TestStandardiseLabels(t *testing.T) {
	n := NewNormalizer(GenericVariant(), testReference())
	stage := stageByName(t, n, StageLabels)

	cases := []struct {
		in, want string
	}{
		{"See 1234, 123456,  12345678 or 1234567890.", "See heading 1234, subheading 123456, subheading 12345678 or commodity 1234567890."},
		{"Use heading 123456 now.", "Use subheading 123456 now."},
		{"Use heading 12345678 now.", "Use subheading 12345678 now."},
		// the bare commodity rule only skips codes after "commodity" or "code"
		{"Use heading 1234567890.", "Use heading commodity 1234567890."},
		{"See 1234 5678.", "See heading 1234 heading 5678."},
	}
	for _, tc := range cases {
		c := &Context{Term: "x", Diagnostics: NewDiagnostics(), Valid: true}
		got, err := stage.Apply(tc.in, c)
		require.NoError(t, err)
		assert.Equal(t, tc.want, got, tc.in)
	}
}

func TestIndentContinuations(t *testing.T) {
	got, err := indentContinuations("one\ntwo", nil)
	require.NoError(t, err)
	assert.Equal(t, "one\n"+strings.Repeat(" ", 14)+"two", got)
}

func TestSmoothConnectives(t *testing.T) {
	cases := map[string]string{
		"heading 3926 if of plastic":          "Heading 3926 if the item is of plastic",
		"if wooden then heading 4421":         "If wooden, then heading 4421",
		"and then heading 4421":               "And then heading 4421",
		"the rate is dependent on use":        "The rate depends on use",
		"the rates are dependent upon use":    "The rates depend on use",
		"heading 4421 dependent on use":       "Heading 4421, depending on use",
		"commas,, everywhere":                 "Commas, everywhere",
		"heading 1234 as long as it is steel": "Heading 1234, as long as it is steel",
	}
	for in, want := range cases {
		assert.Equal(t, want, smoothConnectives(in), in)
	}
}

func TestTidySpacesSlashes(t *testing.T) {
	n := NewNormalizer(BusinessVariant(), testReference())
	got, err := n.tidy("wood/metal to heading 4421", nil)
	require.NoError(t, err)
	assert.Equal(t, "wood / metal under heading 4421", got)

	got, _ = n.tidy("see https://www.gov.uk/x", nil)
	assert.Equal(t, "see https://www.gov.uk/x", got)
}

func TestIsUseful(t *testing.T) {
	assert.True(t, IsUseful("Gadgets are classified under heading 1234."))
	assert.True(t, IsUseful("See chapter 42."))
	assert.True(t, IsUseful(tooGenericText))
	assert.False(t, IsUseful("Please check the guidance."))
	assert.False(t, IsUseful("Classified under heading , heading 1234."))
	assert.True(t, IsUseful("Apply for ATARs."))
	assert.False(t, IsUseful("Goods from Qatar."))
}

func TestCountryMessageSlug(t *testing.T) {
	got := CountryMessage("United States")
	assert.Contains(t, got, "exporting to United States, see")
	assert.True(t, strings.HasSuffix(got, "(https://www.gov.uk/world/united-states)."))
}
