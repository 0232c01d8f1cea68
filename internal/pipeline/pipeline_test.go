package pipeline

import (
	"context"
	"testing"

	"github.com/rs/zerolog"

	"strandmine/internal/config"
)

func testConfig() config.Config {
	return config.Config{
		GridSizeLimit:         1_000_000_000,
		MinAlphaTokens:        0,
		RequireEndPunctuation: false,
		Routes: []config.RouteConfig{
			{Src: "en", Tgt: "fr", OutPrefix: "/tmp/unused"},
		},
	}
}

func TestProcessIdenticalStructureProducesAlignedSentencePairs(t *testing.T) {
	drv := NewDriver(testConfig(), nil, zerolog.Nop())

	src := Triplet{Lang: "en", URL: "http://example.com/en", HTML: []byte(
		`<html><body><p>Hello there. How are you?</p></body></html>`)}
	tgt := Triplet{Lang: "fr", URL: "http://example.com/fr", HTML: []byte(
		`<html><body><p>Bonjour toi. Comment vas-tu?</p></body></html>`)}

	res, err := drv.Process(context.Background(), "k1", src, tgt)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.DifferenceRatio != 0 {
		t.Fatalf("identical structure should align with zero difference ratio, got %f", res.DifferenceRatio)
	}
	if len(res.Pairs) != 2 {
		t.Fatalf("expected 2 aligned sentence pairs, got %d: %+v", len(res.Pairs), res.Pairs)
	}
	if res.Pairs[0].Src != "Hello there." || res.Pairs[0].Tgt != "Bonjour toi." {
		t.Fatalf("unexpected first pair: %+v", res.Pairs[0])
	}
}

func TestProcessEmptyStreamsYieldsNoPairsNoError(t *testing.T) {
	drv := NewDriver(testConfig(), nil, zerolog.Nop())

	src := Triplet{Lang: "en", HTML: []byte(`<script>ignored</script>`)}
	tgt := Triplet{Lang: "fr", HTML: []byte(`<style>ignored</style>`)}

	res, err := drv.Process(context.Background(), "k2", src, tgt)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Pairs) != 0 {
		t.Fatalf("expected no pairs from all-ignored content, got %+v", res.Pairs)
	}
}

func TestResolveRouteFindsFirstMatchingPairAndWarnsOnExtraTriplets(t *testing.T) {
	drv := NewDriver(testConfig(), nil, zerolog.Nop())

	dp := DocumentPair{
		Key: "k3",
		Triplets: []Triplet{
			{Lang: "de", URL: "u-de"},
			{Lang: "en", URL: "u-en"},
			{Lang: "fr", URL: "u-fr"},
		},
	}
	src, tgt, route, ok := drv.ResolveRoute(dp)
	if !ok {
		t.Fatal("expected a matching en-fr route among the triplets")
	}
	if src.Lang != "en" || tgt.Lang != "fr" {
		t.Fatalf("expected en->fr route, got %s->%s", src.Lang, tgt.Lang)
	}
	if route.OutPrefix != "/tmp/unused" {
		t.Fatalf("unexpected route: %+v", route)
	}
}

func TestResolveRouteNoMatch(t *testing.T) {
	drv := NewDriver(testConfig(), nil, zerolog.Nop())
	dp := DocumentPair{Key: "k4", Triplets: []Triplet{{Lang: "de"}, {Lang: "ja"}}}
	if _, _, _, ok := drv.ResolveRoute(dp); ok {
		t.Fatal("expected no route for an unconfigured language pair")
	}
}

func TestDecodeLineRoundTripsEscapedHTML(t *testing.T) {
	line := "key1\ten\thttp://src\t<p>a\\tb\\nc</p>\tfr\thttp://tgt\t<p>d</p>"
	dp, err := DecodeLine(line)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(dp.Triplets) != 2 {
		t.Fatalf("expected 2 triplets, got %d", len(dp.Triplets))
	}
	if string(dp.Triplets[0].HTML) != "<p>a\tb\nc</p>" {
		t.Fatalf("expected unescaped tab/newline, got %q", dp.Triplets[0].HTML)
	}
}

func TestDecodeLineRejectsTooFewFields(t *testing.T) {
	if _, err := DecodeLine("key\tonly\ttwo"); err == nil {
		t.Fatal("expected an error for a line with fewer than 4 fields")
	}
}

func TestDecodeLineRejectsNonConformingTripletCount(t *testing.T) {
	// key + 4 fields: not a multiple of 3.
	if _, err := DecodeLine("key\ten\thttp://a\thtml\textra"); err == nil {
		t.Fatal("expected an error for a non-multiple-of-3 field count")
	}
}

func TestDecodeLineRejectsSingleTriplet(t *testing.T) {
	if _, err := DecodeLine("key\ten\thttp://a\t<p>x</p>"); err == nil {
		t.Fatal("expected an error for a line with only one triplet")
	}
}
