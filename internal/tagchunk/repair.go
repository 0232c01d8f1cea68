package tagchunk

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"

	readability "github.com/go-shiori/go-readability"
	"golang.org/x/net/html/charset"
)

// ErrParseFailed is returned when every lenient-parser pass in the
// fallback chain fails. It is a recoverable, per-document failure,
// not a reason to abort the whole run.
var ErrParseFailed = errors.New("tagchunk: all parser passes failed")

// ReduceDocument runs the fallback chain — strict decode, encoding
// redetection, then soup-style repair — over raw HTML bytes, returning the
// first pass that both decodes and tokenizes successfully.
//
// declaredCharset is the encoding hint carried alongside the HTML (a
// Content-Type charset parameter, when the TSV record preserved one); it
// may be empty.
func ReduceDocument(raw []byte, declaredCharset string, opts Options) (Stream, error) {
	var errs []error

	if s, err := reduceStrict(raw, declaredCharset, opts); err == nil {
		return s, nil
	} else {
		errs = append(errs, fmt.Errorf("strict: %w", err))
	}

	if s, err := reduceRedetected(raw, opts); err == nil {
		return s, nil
	} else {
		errs = append(errs, fmt.Errorf("encoding-redetect: %w", err))
	}

	if s, err := reduceRepaired(raw, opts); err == nil {
		return s, nil
	} else {
		errs = append(errs, fmt.Errorf("soup-repair: %w", err))
	}

	return nil, fmt.Errorf("%w: %v", ErrParseFailed, errs)
}

// reduceStrict decodes using the declared charset (trusting the hint) and
// tokenizes directly.
func reduceStrict(raw []byte, declaredCharset string, opts Options) (Stream, error) {
	utf8Body, err := toUTF8(raw, contentTypeFor(declaredCharset))
	if err != nil {
		return nil, err
	}
	return Reduce(bytes.NewReader(utf8Body), opts)
}

// reduceRedetected ignores the (possibly wrong) declared charset and
// re-sniffs the encoding purely from the document's own bytes (BOM, meta
// charset tags, statistical detection).
func reduceRedetected(raw []byte, opts Options) (Stream, error) {
	utf8Body, err := toUTF8(raw, "")
	if err != nil {
		return nil, err
	}
	return Reduce(bytes.NewReader(utf8Body), opts)
}

// reduceRepaired hands the raw bytes to a forgiving, readability-style
// repair pass (used here purely for its tolerant parse tree, not its
// article-extraction heuristics) and tokenizes the repaired markup.
func reduceRepaired(raw []byte, opts Options) (Stream, error) {
	utf8Body, err := toUTF8(raw, "")
	if err != nil {
		utf8Body = raw
	}
	art, err := readability.FromReader(bytes.NewReader(utf8Body), &url.URL{})
	if err != nil {
		return nil, err
	}
	repaired := art.Content
	if strings.TrimSpace(repaired) == "" {
		return nil, errors.New("readability repair produced empty content")
	}
	return Reduce(strings.NewReader(repaired), opts)
}

// contentTypeFor turns a bare charset label into the contentType form
// golang.org/x/net/html/charset.NewReader expects.
func contentTypeFor(declaredCharset string) string {
	declaredCharset = strings.TrimSpace(declaredCharset)
	if declaredCharset == "" {
		return ""
	}
	return "text/html; charset=" + declaredCharset
}

func toUTF8(raw []byte, contentType string) ([]byte, error) {
	r, err := charset.NewReader(bytes.NewReader(raw), contentType)
	if err != nil {
		return nil, err
	}
	return io.ReadAll(r)
}
