package service

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

var lower = cases.Lower(language.Und)

// Normalize prepares text for embedding. Catalog texts and queries both pass
// through here so their vectors are comparable: NFKC folding, lowercasing and
// collapsing runs of whitespace to a single space.
func Normalize(text string) string {
	folded := norm.NFKC.String(text)
	return strings.Join(strings.Fields(lower.String(folded)), " ")
}
