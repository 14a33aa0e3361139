package binder

// This file defines a simple spell checker for use in export errors
// ("Export name 'fo' is not defined. Did you mean 'foo'?")

import (
	"strings"
	"unicode"

	"github.com/texttheater/golang-levenshtein/levenshtein"
)

// editCosts weighs substitutions like single insertions or deletions.
var editCosts = levenshtein.Options{
	InsCost: 1,
	DelCost: 1,
	SubCost: 1,
	Matches: levenshtein.DefaultOptions.Matches,
}

// nearest returns the element of candidates
// nearest to x using the Levenshtein metric,
// or "" if none is close enough.
func nearest(x string, candidates []string) string {
	// Ignore underscores, dollars and case when matching.
	fold := func(s string) []rune {
		return []rune(strings.Map(func(r rune) rune {
			if r == '_' || r == '$' {
				return -1
			}
			return unicode.ToLower(r)
		}, s))
	}

	fx := fold(x)

	var best string
	bestD := (len(fx) + 1) / 2 // allow up to 50% typos
	for _, c := range candidates {
		if c == x || isSyntheticName(c) {
			continue
		}
		d := levenshtein.DistanceForStrings(fx, fold(c), editCosts)
		if d < bestD {
			bestD = d
			best = c
		}
	}
	return best
}

// isSyntheticName reports whether name was made up by the binder
// rather than written in the source.
func isSyntheticName(name string) bool {
	if name == "" {
		return true
	}
	switch name[0] {
	case '*', '#', '!', '4':
		return true
	}
	return name == "this"
}
