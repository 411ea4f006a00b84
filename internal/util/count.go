package util

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	reGroupedDot   = regexp.MustCompile(`^\d{1,3}(?:\.\d{3})+$`)
	reGroupedComma = regexp.MustCompile(`^\d{1,3}(?:,\d{3})+$`)
)

// ParseCount reads an event counter cell. Spreadsheet exports render these as
// "1,234", "1 234", "1234.0" or leave them blank; anything unreadable is zero.
func ParseCount(input string) int {
	compact := strings.ReplaceAll(strings.TrimSpace(input), " ", "")
	compact = strings.ReplaceAll(compact, "\u00a0", "")
	if compact == "" {
		return 0
	}
	if reGroupedDot.MatchString(compact) {
		compact = strings.ReplaceAll(compact, ".", "")
	}
	if reGroupedComma.MatchString(compact) {
		compact = strings.ReplaceAll(compact, ",", "")
	}
	if n, err := strconv.Atoi(compact); err == nil {
		return n
	}
	f, err := strconv.ParseFloat(strings.ReplaceAll(compact, ",", "."), 64)
	if err != nil || f < 0 {
		return 0
	}
	return int(f)
}
