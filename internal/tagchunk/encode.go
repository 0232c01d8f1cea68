package tagchunk

// IntegerToken is the alphabet the sequence aligner operates over: every
// Tagchunk collapses to a single comparable integer.
type IntegerToken int

// chunkToken is the fixed symbol shared by every Chunk tagchunk — the
// aligner only ever sees "there was a text run here", never its contents
// or length.
const chunkToken IntegerToken = 1

// tagBase offsets interned Start tag ids away from chunkToken; tagSpan
// offsets End tag ids away from the Start range so the two never collide.
const (
	tagBase IntegerToken = 2
	tagSpan IntegerToken = 65536
)

// TagTable interns tag names to stable integers for one encoding call. A
// table is never shared across unrelated document pairs: two runs of the
// aligner must not let tag ids leak meaning from one call to the next.
type TagTable struct {
	ids map[string]IntegerToken
}

// NewTagTable returns an empty interning table.
func NewTagTable() *TagTable {
	return &TagTable{ids: make(map[string]IntegerToken)}
}

func (t *TagTable) id(tag string) IntegerToken {
	if id, ok := t.ids[tag]; ok {
		return id
	}
	id := tagBase + IntegerToken(len(t.ids))
	t.ids[tag] = id
	return id
}

// Encode converts a Stream into its IntegerToken sequence, interning tag
// names into table as it goes. Calling Encode on two streams with the same
// table guarantees identical tags map to identical tokens across both —
// required for the aligner's match test to mean anything.
func Encode(s Stream, table *TagTable) []IntegerToken {
	out := make([]IntegerToken, len(s))
	for i, tc := range s {
		switch tc.Kind {
		case Chunk:
			out[i] = chunkToken
		case Start:
			out[i] = table.id(tc.Tag)
		case End:
			out[i] = table.id(tc.Tag) + tagSpan
		}
	}
	return out
}

// IsChunkToken reports whether tok encodes a Chunk marker.
func IsChunkToken(tok IntegerToken) bool { return tok == chunkToken }

// EncodePair builds one shared TagTable and encodes both streams against
// it, so identical tag names in src and tgt receive identical tokens. The
// table is discarded once encoding finishes; callers needing finer control
// (e.g. encoding more than two streams against one table) should use
// NewTagTable and Encode directly instead.
func EncodePair(src, tgt Stream) (srcTokens, tgtTokens []IntegerToken) {
	table := NewTagTable()
	return Encode(src, table), Encode(tgt, table)
}
