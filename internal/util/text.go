package util

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

var (
	reSpaces    = regexp.MustCompile(`\s+`)
	reSpaceRuns = regexp.MustCompile(` +`)
)

// CollapseWhitespace folds every whitespace run, newlines included, into a single space.
func CollapseWhitespace(input string) string {
	return reSpaces.ReplaceAllString(input, " ")
}

// CollapseSpaces folds runs of the space character only.
func CollapseSpaces(input string) string {
	return reSpaceRuns.ReplaceAllString(input, " ")
}

// Capitalize upper-cases the first rune and lower-cases the rest.
func Capitalize(input string) string {
	if input == "" {
		return ""
	}
	r, size := utf8.DecodeRuneInString(input)
	return string(unicode.ToUpper(r)) + strings.ToLower(input[size:])
}

// UpperFirst upper-cases the first rune and leaves the rest untouched.
func UpperFirst(input string) string {
	if input == "" {
		return ""
	}
	r, size := utf8.DecodeRuneInString(input)
	return string(unicode.ToUpper(r)) + input[size:]
}

func Decapitalize(input string) string {
	if input == "" {
		return ""
	}
	r, size := utf8.DecodeRuneInString(input)
	return string(unicode.ToLower(r)) + input[size:]
}

// Slugify lower-cases and hyphenates spaces, keeping every other character.
func Slugify(input string) string {
	s := strings.ToLower(strings.TrimSpace(input))
	return reSpaceRuns.ReplaceAllString(s, "-")
}

func IsDigits(input string) bool {
	if input == "" {
		return false
	}
	for _, r := range input {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// PadCode right-pads a code fragment with zeros to the full ten digits.
func PadCode(fragment string) string {
	if len(fragment) >= 10 {
		return fragment
	}
	return fragment + strings.Repeat("0", 10-len(fragment))
}

// SplitList splits a comma list, trims each item and drops empties and
// repeats while keeping first-seen order.
func SplitList(input string) []string {
	parts := strings.Split(input, ",")
	out := make([]string, 0, len(parts))
	seen := map[string]struct{}{}
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}
		out = append(out, p)
	}
	return out
}

func BoolPtr(v bool) *bool { return &v }
