// Package filter applies the end-of-pipeline acceptance rules to
// candidate sentence pairs: non-empty, non-identical, and, optionally,
// a minimum alpha-token count and matching end punctuation.
package filter

import (
	"strings"

	"strandmine/internal/util"
)

// EndPunctuation is the admissible sentence-terminator set checked when
// Options.RequireEndPunctuation is set.
var EndPunctuation = []string{".", "?", "!"}

// Options tunes which optional rules the filter enforces; each can be
// switched off independently.
type Options struct {
	MinAlphaTokens        int // 0 disables the minimum-alpha-token rule
	RequireEndPunctuation bool
}

// Pair is one candidate sentence pair under consideration.
type Pair struct {
	Src string
	Tgt string
}

// Accept applies every configured rule to p and reports whether it
// should be retained.
func Accept(p Pair, opts Options) bool {
	if p.Src == "" || p.Tgt == "" {
		return false
	}
	if p.Src == p.Tgt {
		return false
	}
	if opts.MinAlphaTokens > 0 {
		sCount := util.AlphaTokenCount(p.Src)
		tCount := util.AlphaTokenCount(p.Tgt)
		if min(sCount, tCount) < opts.MinAlphaTokens {
			return false
		}
	}
	if opts.RequireEndPunctuation {
		if !hasEndPunctuation(p.Src) || !hasEndPunctuation(p.Tgt) {
			return false
		}
	}
	return true
}

// Filter applies Accept to every pair in order, preserving order and
// dropping rejected pairs — a pure, order-preserving operation.
func Filter(pairs []Pair, opts Options) []Pair {
	out := make([]Pair, 0, len(pairs))
	for _, p := range pairs {
		if Accept(p, opts) {
			out = append(out, p)
		}
	}
	return out
}

func hasEndPunctuation(s string) bool {
	for _, p := range EndPunctuation {
		if strings.HasSuffix(s, p) {
			return true
		}
	}
	return false
}
