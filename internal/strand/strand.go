// Package strand drives the tagchunk encoder and sequence aligner over a
// pair of reduced HTML documents and scores the resulting alignment.
package strand

import (
	"math"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"

	"strandmine/internal/align"
	"strandmine/internal/tagchunk"
)

// MaxProduct bounds |S|*|T| before an alignment is attempted; exceeding it
// yields an empty result rather than a multi-gigabyte DP table.
const MaxProduct = align.MaxProduct

// Bead is one step of the driven alignment, carrying the original
// tagchunks (nil on the gap side) alongside the running alignment cost up
// to and including this step.
type Bead struct {
	SrcIndex int
	Src      *tagchunk.Tagchunk
	TgtIndex int
	Tgt      *tagchunk.Tagchunk
	Cost     int
}

// PairStats summarizes one document-pair alignment for the classifier
// collaborator; the core emits these fields verbatim, it never gates on
// them itself.
type PairStats struct {
	DifferenceRatio   float64
	LengthCorrelation float64
	PValue            float64
	NChunks           int
}

// Result is the output of Align: the bead-level alignment and its
// summary statistics.
type Result struct {
	Alignment []Bead
	Stats     PairStats
}

// Align takes two already reduced tagchunk streams, drives the encoder
// and Needleman–Wunsch aligner over them, and computes difference ratio
// and chunk-length correlation.
//
// Size guard: if len(src)*len(tgt) exceeds MaxProduct, Align returns an
// empty Result without running the DP.
func Align(src, tgt tagchunk.Stream) Result {
	if safeProduct(len(src), len(tgt)) > MaxProduct {
		return Result{}
	}

	srcTokens, tgtTokens := tagchunk.EncodePair(src, tgt)
	res := align.Align(srcTokens, tgtTokens)

	beads := make([]Bead, 0, len(res.Alignment))
	var srcLens, tgtLens []float64

	prevCost := 0
	for _, p := range res.Alignment {
		b := Bead{SrcIndex: p.Src, TgtIndex: p.Tgt}
		if p.Src >= 0 {
			tc := src[p.Src]
			b.Src = &tc
		}
		if p.Tgt >= 0 {
			tc := tgt[p.Tgt]
			b.Tgt = &tc
		}
		stepCost := stepCostFor(b)
		b.Cost = prevCost + stepCost
		prevCost = b.Cost
		beads = append(beads, b)

		if b.Src != nil && b.Tgt != nil && b.Src.Kind == tagchunk.Chunk && b.Tgt.Kind == tagchunk.Chunk {
			srcLens = append(srcLens, float64(b.Src.Length))
			tgtLens = append(tgtLens, float64(b.Tgt.Length))
		}
	}

	denom := len(src) + len(tgt)
	diffRatio := 0.0
	if denom > 0 {
		diffRatio = float64(res.Cost) / float64(denom)
	}

	r, p := correlationAndPValue(srcLens, tgtLens)

	return Result{
		Alignment: beads,
		Stats: PairStats{
			DifferenceRatio:   diffRatio,
			LengthCorrelation: r,
			PValue:            p,
			NChunks:           len(srcLens),
		},
	}
}

// stepCostFor recomputes the per-step cost contribution (0 for a match,
// 1 for a mismatch or a gap) from the bead's own tagchunk content, since
// the generic aligner only returns a cumulative total.
func stepCostFor(b Bead) int {
	if b.Src == nil || b.Tgt == nil {
		return 1
	}
	if b.Src.Kind == b.Tgt.Kind && b.Src.Tag == b.Tgt.Tag {
		return 0
	}
	return 1
}

// correlationAndPValue reports Pearson's r and its two-sided p-value over
// paired chunk lengths. Fewer than two pairs reports r=0, p=0 rather
// than an undefined correlation.
func correlationAndPValue(x, y []float64) (r, p float64) {
	n := len(x)
	if n < 2 {
		return 0, 0
	}
	r = stat.Correlation(x, y, nil)
	if math.IsNaN(r) {
		return 0, 0
	}
	if n < 3 || r >= 1 || r <= -1 {
		return r, 0
	}
	df := float64(n - 2)
	tStat := r * math.Sqrt(df/(1-r*r))
	tdist := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: df}
	p = 2 * (1 - tdist.CDF(math.Abs(tStat)))
	return r, p
}

func safeProduct(a, b int) int64 {
	return int64(a) * int64(b)
}
