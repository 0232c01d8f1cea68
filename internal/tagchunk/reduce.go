package tagchunk

import (
	"io"
	"strings"
	"unicode"

	"golang.org/x/net/html"
)

// reducer is the SAX-style handler driving one Reduce call. It is never
// reused across documents.
type reducer struct {
	opts Options

	ignoreStack []string // open script/style tags; their text is discarded

	chunk         strings.Builder
	trailingSpace bool

	buffer []Tagchunk
}

// Reduce walks already-UTF-8 HTML from r and returns its tagchunk stream.
// Malformed HTML is tolerated at the tokenizer level (golang.org/x/net/html
// never errors on bad markup, only on read failures) — a higher-level
// fallback chain for encoding/repair failures lives in repair.go.
func Reduce(r io.Reader, opts Options) (Stream, error) {
	z := html.NewTokenizer(r)
	red := &reducer{opts: opts}

	for {
		switch z.Next() {
		case html.ErrorToken:
			if err := z.Err(); err != nil && err != io.EOF {
				return nil, err
			}
			red.flush()
			return red.buffer, nil

		case html.TextToken:
			red.data(string(z.Text()))

		case html.StartTagToken:
			name, _ := z.TagName()
			red.handleStart(string(name))

		case html.SelfClosingTagToken:
			name, _ := z.TagName()
			tag := string(name)
			red.handleStart(tag)
			red.handleEnd(tag)

		case html.EndTagToken:
			name, _ := z.TagName()
			red.handleEnd(string(name))

		case html.CommentToken, html.DoctypeToken:
			// structurally invisible; no marker, no text.
		}
	}
}

func (r *reducer) data(s string) {
	if len(r.ignoreStack) > 0 {
		return // inside script/style: text discarded entirely
	}
	norm := normalizeWhitespace(s)
	if norm == "" {
		return
	}
	if r.trailingSpace && norm[0] == ' ' {
		norm = norm[1:]
		if norm == "" {
			return
		}
	}
	r.chunk.WriteString(norm)
	r.trailingSpace = strings.HasSuffix(norm, " ")
}

// appendSpace injects a single WORD_BREAK space, collapsing into any space
// already pending so flushed chunks never carry a run longer than one.
func (r *reducer) appendSpace() {
	if r.chunk.Len() == 0 || r.trailingSpace {
		return
	}
	r.chunk.WriteByte(' ')
	r.trailingSpace = true
}

// flush emits the accumulated chunk (if non-empty after trimming) and
// resets the buffer. Called before every non-ignored Start/End marker and
// once more at document close.
func (r *reducer) flush() {
	text := strings.TrimSpace(r.chunk.String())
	r.chunk.Reset()
	r.trailingSpace = false
	if text != "" {
		r.buffer = append(r.buffer, NewChunk(text))
	}
}

func (r *reducer) handleStart(tag string) {
	if isWordBreak(tag) {
		r.appendSpace()
	}
	if !r.opts.isStrandIgnore(tag) {
		r.flush()
		r.buffer = append(r.buffer, NewStart(tag))
		if isIgnoredContent(tag) {
			r.ignoreStack = append(r.ignoreStack, tag)
		}
	}
}

func (r *reducer) handleEnd(tag string) {
	if isWordBreak(tag) {
		r.appendSpace()
	}
	if !r.opts.isStrandIgnore(tag) {
		r.flush()
		r.buffer = append(r.buffer, NewEnd(tag))
	}
	if isIgnoredContent(tag) {
		for i := len(r.ignoreStack) - 1; i >= 0; i-- {
			if r.ignoreStack[i] == tag {
				r.ignoreStack = append(r.ignoreStack[:i], r.ignoreStack[i+1:]...)
				break
			}
		}
	}
}

// normalizeWhitespace collapses any run of Unicode whitespace to a single
// ASCII space. Go's regexp \s is ASCII-only (RE2 has no Unicode flag for
// it), so this walks runes directly — the same justified-stdlib approach
// as util.AlphaTokenCount.
func normalizeWhitespace(s string) string {
	var b strings.Builder
	prevSpace := false
	for _, r := range s {
		if unicode.IsSpace(r) {
			if !prevSpace {
				b.WriteByte(' ')
			}
			prevSpace = true
			continue
		}
		b.WriteRune(r)
		prevSpace = false
	}
	return b.String()
}
