package search

import (
	"math"
	"strings"
	"unicode/utf8"

	"github.com/xrash/smetrics"
)

// Ratio returns the normalized Indel similarity of a and b in [0,100]. The
// distance counts insertions and deletions as 1 and substitutions as 2.
func Ratio(a, b string) int {
	total := len(a) + len(b)
	if total == 0 {
		return 100
	}
	dist := smetrics.WagnerFischer(a, b, 1, 1, 2)
	return int(math.Round(100 * float64(total-dist) / float64(total)))
}

// PartialRatio scores the best alignment of the shorter string against the
// longer one. Candidate windows are every equally long slice of the longer
// string plus its truncated prefixes and suffixes, where the shorter string
// overhangs an end. It is case-sensitive, symmetric in its arguments and
// returns 100 when one string contains the other. An empty argument scores 0.
func PartialRatio(a, b string) int {
	if a == "" || b == "" {
		return 0
	}

	la, lb := utf8.RuneCountInString(a), utf8.RuneCountInString(b)
	switch {
	case la < lb:
		return partialRatio(a, b)
	case lb < la:
		return partialRatio(b, a)
	default:
		return max(partialRatio(a, b), partialRatio(b, a))
	}
}

func partialRatio(shorter, longer string) int {
	if strings.Contains(longer, shorter) {
		return 100
	}

	runes := []rune(longer)
	width := utf8.RuneCountInString(shorter)

	best := 0
	score := func(window []rune) {
		if r := Ratio(shorter, string(window)); r > best {
			best = r
		}
	}

	for start := 0; start+width <= len(runes); start++ {
		score(runes[start : start+width])
	}
	for n := 1; n < width && n <= len(runes); n++ {
		score(runes[:n])
		score(runes[len(runes)-n:])
	}
	return best
}
