// Package align implements a generic Needleman–Wunsch global sequence
// aligner over tokens of any comparable type. It has no knowledge of HTML,
// tagchunks, or sentences — the tagchunk and galechurch packages each
// adapt it to their own alphabet.
package align

import "fmt"

const (
	costMatch    = 0
	costMismatch = 1
	costGap      = 1
)

// MaxProduct bounds |S|*|T| for the DP table; callers must check this
// before calling Align (Align itself does not enforce it, since the bound
// is a driver-level policy, not an algorithm property).
const MaxProduct = 1_000_000_000

// Pair is one step of an Alignment: Src/Tgt are indices into the two input
// sequences, or -1 for a gap on that side. (-1,-1) never occurs.
type Pair struct {
	Src int
	Tgt int
}

// Alignment is an ordered list of Pair in document order.
type Alignment []Pair

// Result is the outcome of one Align call.
type Result struct {
	Cost      int
	Alignment Alignment
}

// Align computes the minimum-edit-cost global alignment of s and t under
// fixed costs (match=0, mismatch=1, gap=1). Traceback ties are broken
// deterministically: diagonal (match/mismatch) before up (delete from s)
// before left (insert from t).
//
// Either input empty returns the trivial all-gap alignment over the other,
// with cost equal to its length — the degenerate all-gap case, handled
// without running the DP at all.
func Align[T comparable](s, t []T) Result {
	if len(s) == 0 && len(t) == 0 {
		return Result{Cost: 0, Alignment: nil}
	}
	if len(s) == 0 {
		return allGapTarget(t)
	}
	if len(t) == 0 {
		return allGapSource(s)
	}

	m, n := len(s), len(t)
	d := make([][]int, m+1)
	for i := range d {
		d[i] = make([]int, n+1)
	}
	for i := 0; i <= m; i++ {
		d[i][0] = i
	}
	for j := 0; j <= n; j++ {
		d[0][j] = j
	}
	for i := 1; i <= m; i++ {
		for j := 1; j <= n; j++ {
			sub := costMatch
			if s[i-1] != t[j-1] {
				sub = costMismatch
			}
			diag := d[i-1][j-1] + sub
			up := d[i-1][j] + costGap
			left := d[i][j-1] + costGap
			d[i][j] = min3(diag, up, left)
		}
	}

	alignment := traceback(s, t, d)
	return Result{Cost: d[m][n], Alignment: alignment}
}

// traceback walks the DP table from (m,n) back to (0,0), preferring
// diagonal over up over left whenever multiple predecessors achieve the
// recorded cost — the deterministic tie-break rule.
func traceback[T comparable](s, t []T, d [][]int) Alignment {
	m, n := len(s), len(t)
	var rev Alignment

	i, j := m, n
	for i > 0 || j > 0 {
		switch {
		case i > 0 && j > 0 && d[i][j] == d[i-1][j-1]+subCost(s[i-1], t[j-1]):
			rev = append(rev, Pair{Src: i - 1, Tgt: j - 1})
			i--
			j--
		case i > 0 && d[i][j] == d[i-1][j]+costGap:
			rev = append(rev, Pair{Src: i - 1, Tgt: -1})
			i--
		case j > 0 && d[i][j] == d[i][j-1]+costGap:
			rev = append(rev, Pair{Src: -1, Tgt: j - 1})
			j--
		default:
			panic(fmt.Sprintf("align: unreachable DP cell (%d,%d)", i, j))
		}
	}

	for l, r := 0, len(rev)-1; l < r; l, r = l+1, r-1 {
		rev[l], rev[r] = rev[r], rev[l]
	}
	return rev
}

func subCost[T comparable](a, b T) int {
	if a == b {
		return costMatch
	}
	return costMismatch
}

func allGapTarget[T any](t []T) Result {
	a := make(Alignment, len(t))
	for j := range t {
		a[j] = Pair{Src: -1, Tgt: j}
	}
	return Result{Cost: len(t), Alignment: a}
}

func allGapSource[T any](s []T) Result {
	a := make(Alignment, len(s))
	for i := range s {
		a[i] = Pair{Src: i, Tgt: -1}
	}
	return Result{Cost: len(s), Alignment: a}
}

func min3(a, b, c int) int {
	m := a
	if b < m {
		m = b
	}
	if c < m {
		m = c
	}
	return m
}
