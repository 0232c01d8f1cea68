package tagchunk

// strandIgnore lists tags that never emit Start/End markers. Text inside
// them still reaches the current chunk (unless the tag is also in
// ignoreContent, which discards it outright).
var strandIgnore = map[string]bool{
	"b": true, "strong": true, "i": true, "em": true, "font": true,
	"span": true, "nobr": true, "sup": true, "sub": true,
	"meta": true, "link": true, "acronym": true,
}

// wordBreak lists tags that inject a single space into the current chunk
// on both open and close, regardless of their strandIgnore classification.
var wordBreak = map[string]bool{
	"br": true, "option": true, "a": true,
}

// ignoreContent lists tags whose entire text content is discarded, never
// reaching the chunk buffer.
var ignoreContent = map[string]bool{
	"script": true, "style": true,
}

// Options tunes reducer behavior left open to configuration.
type Options struct {
	// IgnoreAnchors, when true (the default), puts "a" in the
	// STRAND_IGNORE set so anchors never emit Start/End markers — only
	// the WORD_BREAK space injection applies. When false, "a" emits
	// ordinary Start{a}/End{a} markers like any other structural tag.
	IgnoreAnchors bool
}

// DefaultOptions returns the baseline classification tables.
func DefaultOptions() Options { return Options{IgnoreAnchors: true} }

func (o Options) isStrandIgnore(tag string) bool {
	if tag == "a" {
		return o.IgnoreAnchors
	}
	return strandIgnore[tag]
}

func isWordBreak(tag string) bool { return wordBreak[tag] }

func isIgnoredContent(tag string) bool { return ignoreContent[tag] }
