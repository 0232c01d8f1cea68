package pipeline

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"strandmine/internal/config"
	"strandmine/internal/distribute"
)

// EnqueueFromInput decodes inputPath and publishes one distribute.Job per
// resolved document pair to producer, instead of processing locally —
// the alternative queue-backed path. Document pairs matching no
// configured route are logged and skipped, same as the local driver.
func EnqueueFromInput(ctx context.Context, cfg config.Config, drv *Driver, inputPath string, producer *distribute.Producer, log zerolog.Logger) error {
	f, err := openInput(inputPath)
	if err != nil {
		return err
	}
	defer f.Close()

	return DecodeGzipTSV(f,
		func(dp DocumentPair) error {
			src, tgt, route, ok := drv.ResolveRoute(dp)
			if !ok {
				log.Warn().Str("key", dp.Key).Msg("no configured route matches this document pair's languages; skipping")
				return nil
			}
			job := distribute.NewJob(src.Lang, tgt.Lang, src.URL, tgt.URL, src.HTML, tgt.HTML, route.OutPrefix)
			if err := producer.Enqueue(ctx, job); err != nil {
				return fmt.Errorf("pipeline: enqueue job for key %q: %w", dp.Key, err)
			}
			return nil
		},
		func(lineNo int, raw string, derr error) {
			log.Warn().Int("line", lineNo).Err(derr).Msg("skipping malformed input line")
		},
	)
}

// ProcessJob runs one distribute.Job through the Driver and writes any
// accepted pairs to its target route — the per-message unit of work for
// the strandmine-worker consumer binary.
func ProcessJob(ctx context.Context, drv *Driver, job distribute.Job, routes *RouteTable, log zerolog.Logger) error {
	src := Triplet{Lang: job.SrcLang, URL: job.SrcURL, HTML: job.SrcHTML}
	tgt := Triplet{Lang: job.TgtLang, URL: job.TgtURL, HTML: job.TgtHTML}

	jobLog := log.With().Str("job_id", job.ID).Str("src_url", job.SrcURL).Str("tgt_url", job.TgtURL).Logger()

	result, err := drv.Process(ctx, job.ID, src, tgt)
	if err != nil {
		jobLog.Warn().Err(err).Msg("job failed to process; skipping")
		return nil
	}
	if len(result.Pairs) == 0 {
		return nil
	}

	out, err := routes.Get(job.OutPrefix)
	if err != nil {
		return fmt.Errorf("pipeline: open output route %q: %w", job.OutPrefix, err)
	}
	if err := out.WriteDocumentResult(job.SrcURL, job.TgtURL, result.Pairs, result.DifferenceRatio); err != nil {
		return err
	}
	jobLog.Info().Int("pairs", len(result.Pairs)).Msg("wrote aligned sentence pairs")
	return nil
}
