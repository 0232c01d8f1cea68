// Package galechurch implements the Gale–Church length-based dynamic
// programming alignment of two sentence sequences, scored by how well
// their character lengths track a fixed mean ratio and variance.
package galechurch

import (
	"math"
	"strings"
)

// MaxProduct bounds |m|*|n| for the DP table; callers exceeding it should
// skip the bead entirely rather than attempt the DP.
const MaxProduct = 1_000_000_000

// meanRatio and varRatio are the standard Gale–Church constants: the
// expected ratio of target to source character counts for genuine
// translations, and its variance.
const (
	meanRatio = 1.0
	varRatio  = 6.8
)

// penalty costs for each non-(1,1) bead shape, in the same units as the
// -log-probability match cost so the DP can compare them directly.
const (
	penaltyIndelFixed  = 2.0 // (1,0) / (0,1): deletion or insertion
	penaltyExpandFixed = 3.0 // (2,1) / (1,2): contraction or expansion
	penaltyMergeFixed  = 4.0 // (2,2): merge
)

// Result is the outcome of Align.
type Result struct {
	Cost   float64
	Source []string
	Target []string
}

// move is one admissible DP transition: how many source/target sentences
// it consumes and its fixed shape penalty. moves is tried in this order
// at every cell, so ties in traceback favor (1,1) over the rest.
type move struct {
	di, dj  int
	penalty float64
}

var moves = []move{
	{1, 1, 0},
	{1, 0, penaltyIndelFixed},
	{0, 1, penaltyIndelFixed},
	{2, 1, penaltyExpandFixed},
	{1, 2, penaltyExpandFixed},
	{2, 2, penaltyMergeFixed},
}

// Align dynamic-programs the minimum-cost bead sequence over src and tgt
// sentence lists, scored by character-length proxy, and returns the
// aligned strings with multi-sentence beads joined by single spaces and
// absent sides emitted as empty strings.
//
// Empty input on either side returns the trivial single-bead alignment of
// the non-empty side, joined by single spaces, against one empty string on
// the other. Exceeding MaxProduct in |src|*|tgt| returns a zero Result — the
// caller is expected to skip this bead rather than attempt the DP.
func Align(src, tgt []string) Result {
	m, n := len(src), len(tgt)
	if m == 0 && n == 0 {
		return Result{}
	}
	if m == 0 {
		return emptySourceResult(tgt)
	}
	if n == 0 {
		return emptyTargetResult(src)
	}
	if int64(m)*int64(n) > MaxProduct {
		return Result{}
	}

	srcLen := lengths(src)
	tgtLen := lengths(tgt)

	const inf = math.MaxFloat64 / 2
	d := make([][]float64, m+1)
	for i := range d {
		d[i] = make([]float64, n+1)
		for j := range d[i] {
			d[i][j] = inf
		}
	}
	d[0][0] = 0

	for i := 0; i <= m; i++ {
		for j := 0; j <= n; j++ {
			if d[i][j] == inf {
				continue
			}
			for _, mv := range moves {
				ni, nj := i+mv.di, j+mv.dj
				if ni > m || nj > n {
					continue
				}
				sLen := sumRange(srcLen, i, ni)
				tLen := sumRange(tgtLen, j, nj)
				cost := d[i][j] + beadCost(sLen, tLen, mv.penalty)
				if cost < d[ni][nj] {
					d[ni][nj] = cost
				}
			}
		}
	}

	alignedSrc, alignedTgt := traceback(src, tgt, srcLen, tgtLen, d)
	return Result{Cost: d[m][n], Source: alignedSrc, Target: alignedTgt}
}

// traceback replays the DP backward from (m,n), at each step picking the
// move whose recorded cost matches the cell's value — ties favor the
// first matching move in moves' declaration order, which lists (1,1) first.
func traceback(src, tgt []string, srcLen, tgtLen []float64, d [][]float64) ([]string, []string) {
	m, n := len(src), len(tgt)
	var revSrc, revTgt []string

	i, j := m, n
	for i > 0 || j > 0 {
		moved := false
		for _, mv := range moves {
			pi, pj := i-mv.di, j-mv.dj
			if pi < 0 || pj < 0 {
				continue
			}
			sLen := sumRange(srcLen, pi, i)
			tLen := sumRange(tgtLen, pj, j)
			want := d[pi][pj] + beadCost(sLen, tLen, mv.penalty)
			if floatsEqual(d[i][j], want) {
				revSrc = append(revSrc, strings.Join(src[pi:i], " "))
				revTgt = append(revTgt, strings.Join(tgt[pj:j], " "))
				i, j = pi, pj
				moved = true
				break
			}
		}
		if !moved {
			break
		}
	}

	alignedSrc := make([]string, len(revSrc))
	alignedTgt := make([]string, len(revTgt))
	for k := range revSrc {
		alignedSrc[k] = revSrc[len(revSrc)-1-k]
		alignedTgt[k] = revTgt[len(revTgt)-1-k]
	}
	return alignedSrc, alignedTgt
}

// beadCost is -log P(match | delta) + the shape's fixed penalty, where
// delta is the standardized deviation of the observed length ratio from
// the expected mean/variance and P is the two-sided standard-normal tail.
func beadCost(srcLen, tgtLen float64, penalty float64) float64 {
	if srcLen == 0 && tgtLen == 0 {
		return penalty
	}
	denom := math.Sqrt(srcLen * varRatio)
	if denom == 0 {
		denom = math.Sqrt(varRatio)
	}
	delta := (tgtLen - meanRatio*srcLen) / denom
	p := twoSidedTail(delta)
	const epsilon = 1e-300
	if p < epsilon {
		p = epsilon
	}
	return -math.Log(p) + penalty
}

// twoSidedTail is 2*(1-Phi(|delta|)), the probability mass of a standard
// normal at least as extreme as delta in either direction.
func twoSidedTail(delta float64) float64 {
	return 2 * (1 - standardNormalCDF(math.Abs(delta)))
}

func standardNormalCDF(x float64) float64 {
	return 0.5 * math.Erfc(-x/math.Sqrt2)
}

func lengths(sentences []string) []float64 {
	out := make([]float64, len(sentences))
	for i, s := range sentences {
		out[i] = float64(len([]rune(s)))
	}
	return out
}

func sumRange(lens []float64, from, to int) float64 {
	sum := 0.0
	for _, l := range lens[from:to] {
		sum += l
	}
	return sum
}

func floatsEqual(a, b float64) bool {
	const eps = 1e-9
	return math.Abs(a-b) < eps
}

func emptySourceResult(tgt []string) Result {
	return Result{
		Cost:   penaltyIndelFixed,
		Source: []string{""},
		Target: []string{strings.Join(tgt, " ")},
	}
}

func emptyTargetResult(src []string) Result {
	return Result{
		Cost:   penaltyIndelFixed,
		Source: []string{strings.Join(src, " ")},
		Target: []string{""},
	}
}
