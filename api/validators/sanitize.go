package validators

import (
	"strings"
	"unicode"
)

// NormalizeCode canonicalizes a shopper-typed identifier such as a coupon
// code or order number: spaces and control runes are dropped, letters are
// upper-cased and the result is capped at maxLen runes.
func NormalizeCode(input string, maxLen int) string {
	var b strings.Builder
	n := 0
	for _, r := range input {
		if unicode.IsSpace(r) || unicode.IsControl(r) {
			continue
		}
		if maxLen > 0 && n == maxLen {
			break
		}
		b.WriteRune(unicode.ToUpper(r))
		n++
	}
	return b.String()
}
