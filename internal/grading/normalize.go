package grading

import "strings"

// Normalize canonicalizes text for comparison: trims surrounding whitespace,
// lowercases, and collapses any whitespace run into a single space. Applied to
// both sides before every exact-match and similarity comparison so that casing
// and incidental spacing never affect the grade.
func Normalize(text string) string {
	return strings.Join(strings.Fields(strings.ToLower(text)), " ")
}
