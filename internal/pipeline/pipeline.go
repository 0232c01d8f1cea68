package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"strandmine/internal/classifier"
	"strandmine/internal/config"
	"strandmine/internal/filter"
	"strandmine/internal/galechurch"
	"strandmine/internal/observability"
	"strandmine/internal/segment"
	"strandmine/internal/strand"
	"strandmine/internal/tagchunk"
)

// AcceptedPair is one filtered, classifier-annotated sentence pair ready
// to be written to a route's `.src/.tgt/.bi` files.
type AcceptedPair struct {
	Src           string
	Tgt           string
	AlignmentCost float64
	Parallel      bool
	Confidence    float64
}

// Driver wires C1 (tagchunk.ReduceDocument) through C7 (filter.Accept)
// over document pairs, bounded by the route table they resolve to. A
// Driver holds no per-document-pair state — every call to Process starts
// from its own tag-intern map, DP scratch, and segmenter cache, so its
// no-shared-state rule.
type Driver struct {
	cfg         config.Config
	segRegistry *segment.Registry
	classify    classifier.Classifier
	log         zerolog.Logger
}

// NewDriver builds a Driver. classify may be nil, in which case a
// classifier.NullClassifier is used — the classifier only annotates
// accepted pairs, it never gates whether a pair is written out.
func NewDriver(cfg config.Config, classify classifier.Classifier, log zerolog.Logger) *Driver {
	if classify == nil {
		classify = classifier.NullClassifier{}
	}
	return &Driver{
		cfg:         cfg,
		segRegistry: segment.NewRegistry(),
		classify:    classify,
		log:         log,
	}
}

// ResolveRoute tries every ordered pair of triplets in dp, in triplet
// order, and returns the first whose languages match a configured route;
// only that pair is processed, and the remaining triplets are unused. A
// record with more than two triplets is logged. A wildcard route's prefix
// gets ".<src>-<tgt>" appended, so each language pair has its own files.
func (d *Driver) ResolveRoute(dp DocumentPair) (srcT, tgtT Triplet, route config.RouteConfig, ok bool) {
	if len(dp.Triplets) > 2 {
		d.log.Warn().Str("key", dp.Key).Int("triplets", len(dp.Triplets)).
			Msg("document pair carries more than two triplets; only the first matching route is processed")
	}
	for i := 0; i < len(dp.Triplets); i++ {
		for j := 0; j < len(dp.Triplets); j++ {
			if i == j {
				continue
			}
			if r, found := d.cfg.RouteFor(dp.Triplets[i].Lang, dp.Triplets[j].Lang); found {
				if r.Src == "*" || r.Tgt == "*" {
					r.OutPrefix += "." + strings.ToLower(dp.Triplets[i].Lang) + "-" + strings.ToLower(dp.Triplets[j].Lang)
				}
				return dp.Triplets[i], dp.Triplets[j], r, true
			}
		}
	}
	return Triplet{}, Triplet{}, config.RouteConfig{}, false
}

// Result is the outcome of processing one document pair through the full
// C1->C7 chain.
type Result struct {
	Pairs           []AcceptedPair
	DifferenceRatio float64
}

// Process runs one document pair through C1 (twice), C4, and, for every
// CHUNK-CHUNK bead, C5 (twice), C6, and C7. Any error from C1 is returned
// to the caller, which must catch it, log it, and skip the
// document pair rather than propagate it.
func (d *Driver) Process(ctx context.Context, key string, src, tgt Triplet) (Result, error) {
	clog := observability.LoggerWithTrace(ctx)
	opts := tagchunk.DefaultOptions()

	srcStream, err := tagchunk.ReduceDocument(src.HTML, "", opts)
	if err != nil {
		return Result{}, fmt.Errorf("reduce source document: %w", err)
	}
	tgtStream, err := tagchunk.ReduceDocument(tgt.HTML, "", opts)
	if err != nil {
		return Result{}, fmt.Errorf("reduce target document: %w", err)
	}

	if len(srcStream) == 0 || len(tgtStream) == 0 {
		return Result{}, nil // empty stream after reduction: no output, not an error
	}
	limit := d.cfg.GridSizeLimit
	if limit > 0 && int64(len(srcStream))*int64(len(tgtStream)) > limit {
		clog.Warn().Str("key", key).Msg("tagchunk product exceeds grid-size guard; skipping alignment")
		return Result{}, nil
	}

	aligned := strand.Align(srcStream, tgtStream)
	if len(aligned.Alignment) == 0 {
		return Result{}, nil // size guard tripped, or both streams degenerate
	}

	cache := segment.NewCache(d.segRegistry)

	var pairs []AcceptedPair
	nChunkBeads, nGapBeads := 0, 0
	for _, bead := range aligned.Alignment {
		if bead.Src == nil || bead.Tgt == nil {
			nGapBeads++
			continue
		}
		if bead.Src.Kind != tagchunk.Chunk || bead.Tgt.Kind != tagchunk.Chunk {
			continue
		}
		nChunkBeads++

		srcSents := cache.Process(src.Lang, bead.Src.Text)
		tgtSents := cache.Process(tgt.Lang, bead.Tgt.Text)
		sentProduct := int64(len(srcSents)) * int64(len(tgtSents))
		if sentProduct > galechurch.MaxProduct || (limit > 0 && sentProduct > limit) {
			clog.Warn().Str("key", key).Msg("sentence-product exceeds grid-size guard; skipping bead")
			continue
		}

		gc := galechurch.Align(srcSents, tgtSents)
		for i := range gc.Source {
			cand := filter.Pair{Src: gc.Source[i], Tgt: gc.Target[i]}
			if !filter.Accept(cand, filter.Options{
				MinAlphaTokens:        d.cfg.MinAlphaTokens,
				RequireEndPunctuation: d.cfg.RequireEndPunctuation,
			}) {
				continue
			}

			pairs = append(pairs, AcceptedPair{Src: cand.Src, Tgt: cand.Tgt, AlignmentCost: gc.Cost})
		}
	}

	if len(pairs) > 0 {
		features := classifier.FeaturesFrom(classifier.PairStatsLike(aligned.Stats), nChunkBeads, nGapBeads)
		if raw, merr := json.Marshal(features); merr == nil {
			clog.Debug().Str("key", key).RawJSON("features", observability.RedactJSON(raw)).
				Msg("scoring document pair with classifier collaborator")
		}

		parallel, confidence, cerr := d.classify.Score(ctx, features)
		if cerr != nil {
			clog.Warn().Str("key", key).Err(cerr).Msg("classifier collaborator failed; annotating as parallel")
			parallel, confidence = true, 0
		}
		for i := range pairs {
			pairs[i].Parallel = parallel
			pairs[i].Confidence = confidence
		}
	}

	return Result{Pairs: pairs, DifferenceRatio: aligned.Stats.DifferenceRatio}, nil
}
