package biz

import "strings"

// Punctuation stripped before comparing locations, so "Palermo, CABA"
// and "palermo caba" match.
const locationPunct = ".,/#!$%^&*;:{}=-_`~()"

// NormalizeLocation lowercases s, strips the fixed punctuation set,
// collapses whitespace runs to single spaces and trims. Total: any
// input, including punctuation-only strings, yields a valid (possibly
// empty) result.
func NormalizeLocation(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range strings.ToLower(s) {
		if strings.ContainsRune(locationPunct, r) {
			continue
		}
		b.WriteRune(r)
	}
	return strings.Join(strings.Fields(b.String()), " ")
}
