// Package classifier implements the optional parallel/non-parallel
// judgement collaborator. The core aligner always emits PairStats
// verbatim; a Classifier only ever annotates a decision alongside them —
// it never gates what the pipeline writes to output.
package classifier

import (
	"context"
)

// Features is the flattened view of one alignment's signal a Classifier
// judges: the core's PairStats, spread into named fields, plus bead-shape
// counts.
type Features struct {
	DifferenceRatio   float64
	LengthCorrelation float64
	PValue            float64
	NChunks           int
	NChunkBeads       int
	NGapBeads         int
}

// Classifier judges whether a document pair is likely a parallel
// translation, given its alignment features.
type Classifier interface {
	Score(ctx context.Context, f Features) (parallel bool, confidence float64, err error)
}

// FeaturesFrom flattens a strand.PairStats plus bead-shape counts into the
// Features a Classifier consumes. Kept as a constructor function rather
// than an embedded field so Features itself stays a plain, keyed-literal-
// friendly struct.
func FeaturesFrom(stats PairStatsLike, nChunkBeads, nGapBeads int) Features {
	return Features{
		DifferenceRatio:   stats.DifferenceRatio,
		LengthCorrelation: stats.LengthCorrelation,
		PValue:            stats.PValue,
		NChunks:           stats.NChunks,
		NChunkBeads:       nChunkBeads,
		NGapBeads:         nGapBeads,
	}
}

// PairStatsLike is structurally satisfied by strand.PairStats; declared
// here instead of importing the strand package directly so classifier
// stays a leaf package with no dependency on the aligner it annotates.
type PairStatsLike struct {
	DifferenceRatio   float64
	LengthCorrelation float64
	PValue            float64
	NChunks           int
}

// NullClassifier is the default collaborator: it always reports
// parallel=true at full confidence, so the pipeline's output is governed
// entirely by the core filters (C7) and never by an unspecified
// maxent-style training pipeline.
type NullClassifier struct{}

// Score implements Classifier.
func (NullClassifier) Score(context.Context, Features) (bool, float64, error) {
	return true, 1, nil
}
