package tagchunk

import (
	"strings"
	"testing"
)

func TestReduceBasicStructure(t *testing.T) {
	html := `<html><body><p>Hello   world</p><p>Second</p></body></html>`
	s, err := Reduce(strings.NewReader(html), DefaultOptions())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var kinds []Kind
	for _, tc := range s {
		kinds = append(kinds, tc.Kind)
	}
	want := []Kind{Start, Start, Start, Chunk, End, Start, Chunk, End, End, End}
	if len(kinds) != len(want) {
		t.Fatalf("got %d tagchunks %v, want %d", len(kinds), kinds, len(want))
	}
	for i := range want {
		if kinds[i] != want[i] {
			t.Fatalf("tagchunk %d: got %v, want %v", i, kinds[i], want[i])
		}
	}
}

func TestReduceWhitespaceCollapse(t *testing.T) {
	html := "<p>a\t\tb\n\nc   d</p>"
	s, err := Reduce(strings.NewReader(html), DefaultOptions())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var chunk *Tagchunk
	for i := range s {
		if s[i].Kind == Chunk {
			chunk = &s[i]
			break
		}
	}
	if chunk == nil {
		t.Fatal("expected a chunk")
	}
	if chunk.Text != "a b c d" {
		t.Fatalf("got %q, want %q", chunk.Text, "a b c d")
	}
	if chunk.Length != len([]rune(chunk.Text)) {
		t.Fatalf("length %d does not match rune count of %q", chunk.Length, chunk.Text)
	}
}

func TestReduceStrandIgnoreTags(t *testing.T) {
	html := `<p>Hello <b>bold</b> world</p>`
	s, err := Reduce(strings.NewReader(html), DefaultOptions())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, tc := range s {
		if tc.Kind == Start && tc.Tag == "b" {
			t.Fatal("expected no Start{b} marker, <b> is in STRAND_IGNORE")
		}
	}
	var texts []string
	for _, tc := range s {
		if tc.Kind == Chunk {
			texts = append(texts, tc.Text)
		}
	}
	if len(texts) != 1 || texts[0] != "Hello bold world" {
		t.Fatalf("got chunks %v, want single merged chunk", texts)
	}
}

func TestReduceWordBreakInjectsSpace(t *testing.T) {
	html := `<p>line1<a href="x">line2</a></p>`
	s, err := Reduce(strings.NewReader(html), DefaultOptions())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var chunk *Tagchunk
	for i := range s {
		if s[i].Kind == Chunk {
			chunk = &s[i]
			break
		}
	}
	if chunk == nil || chunk.Text != "line1 line2" {
		t.Fatalf("got %+v, want merged chunk with injected space", chunk)
	}
}

func TestReduceScriptStyleDiscarded(t *testing.T) {
	html := `<p>before</p><script>var x = "<p>not html</p>";</script><style>.c{color:red}</style><p>after</p>`
	s, err := Reduce(strings.NewReader(html), DefaultOptions())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var texts []string
	for _, tc := range s {
		if tc.Kind == Chunk {
			texts = append(texts, tc.Text)
		}
	}
	if len(texts) != 2 || texts[0] != "before" || texts[1] != "after" {
		t.Fatalf("got %v, want [before after] with script/style content discarded", texts)
	}
}

func TestReduceAnchorIgnoredByDefault(t *testing.T) {
	html := `<p>click <a href="x">here</a> now</p>`
	s, err := Reduce(strings.NewReader(html), DefaultOptions())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, tc := range s {
		if tc.Tag == "a" {
			t.Fatal("expected no Start/End{a} markers under default options")
		}
	}

	opts := Options{IgnoreAnchors: false}
	s2, err := Reduce(strings.NewReader(html), opts)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	found := false
	for _, tc := range s2 {
		if tc.Tag == "a" {
			found = true
		}
	}
	if !found {
		t.Fatal("expected Start/End{a} markers when IgnoreAnchors is false")
	}
}

func TestReduceEmptyChunkNotEmitted(t *testing.T) {
	html := `<p>   </p><div>text</div>`
	s, err := Reduce(strings.NewReader(html), DefaultOptions())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i, tc := range s {
		if tc.Kind == Chunk && tc.Text == "" {
			t.Fatalf("tagchunk %d: empty chunk should never be emitted", i)
		}
	}
}

func TestReduceNoChunkStraddlesStructuralTag(t *testing.T) {
	html := `<div>one<p>two</p>three</div>`
	s, err := Reduce(strings.NewReader(html), DefaultOptions())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i, tc := range s {
		if tc.Kind != Chunk {
			continue
		}
		if i > 0 && s[i-1].Kind == Chunk {
			t.Fatalf("adjacent chunks at %d and %d should have been merged or separated by a marker", i-1, i)
		}
	}
}
