// Package tagchunk reduces HTML documents to a structural token stream and
// encodes two such streams into the integer alphabet the sequence aligner
// operates over.
package tagchunk

import "unicode/utf8"

// Kind discriminates the three Tagchunk cases.
type Kind uint8

const (
	// Start marks an opening structural tag, e.g. <p>.
	Start Kind = iota
	// End marks a closing structural tag, e.g. </p>.
	End
	// Chunk marks a run of visible, whitespace-normalized text.
	Chunk
)

func (k Kind) String() string {
	switch k {
	case Start:
		return "Start"
	case End:
		return "End"
	case Chunk:
		return "Chunk"
	default:
		return "Unknown"
	}
}

// Tagchunk is one unit of a reduced document stream: either a structural
// tag marker (Start/End, carrying Tag) or a text run (Chunk, carrying Text
// and its normalized character Length).
type Tagchunk struct {
	Kind   Kind
	Tag    string
	Text   string
	Length int
}

// NewStart builds a Start tagchunk for tag.
func NewStart(tag string) Tagchunk { return Tagchunk{Kind: Start, Tag: tag} }

// NewEnd builds an End tagchunk for tag.
func NewEnd(tag string) Tagchunk { return Tagchunk{Kind: End, Tag: tag} }

// NewChunk builds a Chunk tagchunk from already-normalized text. Length is
// the rune count, not byte length.
func NewChunk(text string) Tagchunk {
	return Tagchunk{Kind: Chunk, Text: text, Length: utf8.RuneCountInString(text)}
}

// Stream is an ordered, read-only sequence of Tagchunks produced by Reduce.
type Stream []Tagchunk
