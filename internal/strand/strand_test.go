package strand

import (
	"math"
	"strings"
	"testing"

	"strandmine/internal/tagchunk"
)

func reduce(t *testing.T, html string) tagchunk.Stream {
	t.Helper()
	s, err := tagchunk.Reduce(strings.NewReader(html), tagchunk.DefaultOptions())
	if err != nil {
		t.Fatalf("reduce failed: %v", err)
	}
	return s
}

func TestAlignIdenticalStructure(t *testing.T) {
	src := reduce(t, `<p>Hello world</p>`)
	tgt := reduce(t, `<p>Bonjour monde</p>`)
	res := Align(src, tgt)

	if res.Stats.DifferenceRatio != 0 {
		t.Fatalf("identical structure should have zero difference ratio, got %f", res.Stats.DifferenceRatio)
	}
	if res.Stats.NChunks != 1 {
		t.Fatalf("expected 1 chunk pair, got %d", res.Stats.NChunks)
	}
}

func TestAlignDifferenceRatioBounded(t *testing.T) {
	src := reduce(t, `<p>one</p><div>two</div><span>three</span>`)
	tgt := reduce(t, `<table><tr><td>x</td></tr></table>`)
	res := Align(src, tgt)

	if res.Stats.DifferenceRatio < 0 || res.Stats.DifferenceRatio > 1 {
		t.Fatalf("difference ratio must be in [0,1], got %f", res.Stats.DifferenceRatio)
	}
}

func TestAlignFewerThanTwoChunkPairsGivesZeroCorrelation(t *testing.T) {
	src := reduce(t, `<p>only one chunk</p>`)
	tgt := reduce(t, `<p>un seul morceau</p>`)
	res := Align(src, tgt)

	if res.Stats.NChunks >= 2 {
		t.Skip("fixture produced 2+ chunk pairs; not exercising the <2 branch")
	}
	if res.Stats.LengthCorrelation != 0 || res.Stats.PValue != 0 {
		t.Fatalf("expected r=0, p=0 for fewer than 2 chunk pairs, got r=%f p=%f",
			res.Stats.LengthCorrelation, res.Stats.PValue)
	}
}

func TestAlignCorrelationMatchesProportionalLengths(t *testing.T) {
	src := reduce(t, `<p>a</p><p>bb</p><p>ccc</p><p>dddd</p>`)
	tgt := reduce(t, `<p>aa</p><p>bbbb</p><p>cccccc</p><p>dddddddd</p>`)
	res := Align(src, tgt)

	if res.Stats.NChunks != 4 {
		t.Fatalf("expected 4 chunk pairs, got %d", res.Stats.NChunks)
	}
	if math.Abs(res.Stats.LengthCorrelation-1.0) > 1e-9 {
		t.Fatalf("perfectly proportional lengths should correlate at ~1.0, got %f", res.Stats.LengthCorrelation)
	}
}

func TestAlignSizeGuardReturnsEmptyResult(t *testing.T) {
	big := make(tagchunk.Stream, 40000)
	for i := range big {
		big[i] = tagchunk.NewChunk("x")
	}
	res := Align(big, big)
	if res.Alignment != nil || res.Stats != (PairStats{}) {
		t.Fatalf("expected empty result once |S|*|T| exceeds MaxProduct, got %+v", res)
	}
}

func TestAlignEmptyBothSides(t *testing.T) {
	res := Align(nil, nil)
	if len(res.Alignment) != 0 {
		t.Fatalf("expected empty alignment for two empty streams, got %+v", res.Alignment)
	}
	if res.Stats.DifferenceRatio != 0 {
		t.Fatalf("expected zero difference ratio, got %f", res.Stats.DifferenceRatio)
	}
}

func TestAlignStatsEmitRegardlessOfClassifier(t *testing.T) {
	// The core must always emit PairStats verbatim; nothing here gates on
	// a threshold, matching structures are scored, not filtered.
	src := reduce(t, `<div>wildly different</div>`)
	tgt := reduce(t, `<span>structure</span><span>here</span>`)
	res := Align(src, tgt)
	if res.Stats.DifferenceRatio == 0 {
		t.Fatal("expected a non-zero difference ratio for mismatched structure")
	}
}
