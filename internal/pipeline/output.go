package pipeline

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"
)

// OutputRoute owns the open `.src/.tgt/.annotation/.bi` file handles for
// one configured (src_lang, tgt_lang) route and tracks the running output
// line offset so annotation records can point back into `.src`/`.tgt`.
type OutputRoute struct {
	mu sync.Mutex

	prefix string

	src  *os.File
	tgt  *os.File
	ann  *os.File
	bi   *os.File
	srcW *bufio.Writer
	tgtW *bufio.Writer
	annW *bufio.Writer
	biW  *bufio.Writer

	lineOffset int
}

// OpenOutputRoute creates (or appends to, if rerun against the same
// prefix) the four output files named `<outPrefix>.src`, `.tgt`,
// `.annotation`, and `.bi`.
func OpenOutputRoute(outPrefix string) (*OutputRoute, error) {
	open := func(suffix string) (*os.File, error) {
		return os.OpenFile(outPrefix+suffix, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	}

	src, err := open(".src")
	if err != nil {
		return nil, fmt.Errorf("pipeline: open %s.src: %w", outPrefix, err)
	}
	tgt, err := open(".tgt")
	if err != nil {
		src.Close()
		return nil, fmt.Errorf("pipeline: open %s.tgt: %w", outPrefix, err)
	}
	ann, err := open(".annotation")
	if err != nil {
		src.Close()
		tgt.Close()
		return nil, fmt.Errorf("pipeline: open %s.annotation: %w", outPrefix, err)
	}
	bi, err := open(".bi")
	if err != nil {
		src.Close()
		tgt.Close()
		ann.Close()
		return nil, fmt.Errorf("pipeline: open %s.bi: %w", outPrefix, err)
	}

	offset, err := countLines(outPrefix + ".src")
	if err != nil {
		src.Close()
		tgt.Close()
		ann.Close()
		bi.Close()
		return nil, err
	}

	return &OutputRoute{
		prefix:     outPrefix,
		src:        src,
		tgt:        tgt,
		ann:        ann,
		bi:         bi,
		srcW:       bufio.NewWriter(src),
		tgtW:       bufio.NewWriter(tgt),
		annW:       bufio.NewWriter(ann),
		biW:        bufio.NewWriter(bi),
		lineOffset: offset,
	}, nil
}

// WriteDocumentResult appends every accepted sentence pair from one
// document pair's processing to `.src`/`.tgt`/`.bi`, then writes one
// `.annotation` record summarizing the batch. Output I/O failures are
// fatal and propagate.
func (o *OutputRoute) WriteDocumentResult(srcURL, tgtURL string, pairs []AcceptedPair, differenceRatio float64) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	startOffset := o.lineOffset
	for _, p := range pairs {
		if _, err := o.srcW.WriteString(p.Src + "\n"); err != nil {
			return fmt.Errorf("pipeline: write %s.src: %w", o.prefix, err)
		}
		if _, err := o.tgtW.WriteString(p.Tgt + "\n"); err != nil {
			return fmt.Errorf("pipeline: write %s.tgt: %w", o.prefix, err)
		}
		biLine := strconv.Itoa(o.lineOffset) + "\t" + p.Src + "\t" + strconv.Itoa(o.lineOffset) + "\t" + p.Tgt + "\t" + formatFloat(p.AlignmentCost)
		if _, err := o.biW.WriteString(biLine + "\n"); err != nil {
			return fmt.Errorf("pipeline: write %s.bi: %w", o.prefix, err)
		}
		o.lineOffset++
	}

	if len(pairs) == 0 {
		return nil
	}

	annLine := strings.Join([]string{
		srcURL, tgtURL, strconv.Itoa(startOffset), strconv.Itoa(len(pairs)), formatFloat(differenceRatio),
	}, "\t")
	if _, err := o.annW.WriteString(annLine + "\n"); err != nil {
		return fmt.Errorf("pipeline: write %s.annotation: %w", o.prefix, err)
	}

	for _, w := range []*bufio.Writer{o.srcW, o.tgtW, o.annW, o.biW} {
		if err := w.Flush(); err != nil {
			return fmt.Errorf("pipeline: flush %s: %w", o.prefix, err)
		}
	}
	return nil
}

// Close flushes and closes every underlying file handle.
func (o *OutputRoute) Close() error {
	o.mu.Lock()
	defer o.mu.Unlock()

	var first error
	record := func(err error) {
		if err != nil && first == nil {
			first = err
		}
	}
	record(o.srcW.Flush())
	record(o.tgtW.Flush())
	record(o.annW.Flush())
	record(o.biW.Flush())
	record(o.src.Close())
	record(o.tgt.Close())
	record(o.ann.Close())
	record(o.bi.Close())
	return first
}

// Paths returns the four output file paths this route writes, in
// `.src/.tgt/.annotation/.bi` order — used by the archive sink.
func (o *OutputRoute) Paths() []string {
	return []string{o.prefix + ".src", o.prefix + ".tgt", o.prefix + ".annotation", o.prefix + ".bi"}
}

func countLines(path string) (int, error) {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("pipeline: stat existing output %s: %w", path, err)
	}
	defer f.Close()

	count := 0
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	for scanner.Scan() {
		count++
	}
	if err := scanner.Err(); err != nil {
		return 0, fmt.Errorf("pipeline: count existing output lines %s: %w", path, err)
	}
	return count, nil
}

// RouteTable owns the OutputRoute for every configured (src, tgt) pair
// seen so far, opening each lazily on first use.
type RouteTable struct {
	mu     sync.Mutex
	routes map[string]*OutputRoute
}

// NewRouteTable returns an empty RouteTable.
func NewRouteTable() *RouteTable {
	return &RouteTable{routes: make(map[string]*OutputRoute)}
}

// Get returns the OutputRoute for outPrefix, opening it on first request.
func (rt *RouteTable) Get(outPrefix string) (*OutputRoute, error) {
	rt.mu.Lock()
	defer rt.mu.Unlock()

	if r, ok := rt.routes[outPrefix]; ok {
		return r, nil
	}
	r, err := OpenOutputRoute(outPrefix)
	if err != nil {
		return nil, err
	}
	rt.routes[outPrefix] = r
	return r, nil
}

// CloseAll closes every route opened so far, returning the first error
// encountered (closing continues regardless).
func (rt *RouteTable) CloseAll() error {
	rt.mu.Lock()
	defer rt.mu.Unlock()

	var first error
	for _, r := range rt.routes {
		if err := r.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// AllPaths returns every output file path across every opened route, in
// route-then-quartet order — used to drive the archive sink over a whole
// run.
func (rt *RouteTable) AllPaths() []string {
	rt.mu.Lock()
	defer rt.mu.Unlock()

	var out []string
	for _, r := range rt.routes {
		out = append(out, r.Paths()...)
	}
	return out
}
