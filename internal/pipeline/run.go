package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"runtime"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"strandmine/internal/config"
	"strandmine/internal/objectstore"
)

// Run decodes inputPath (a gzip TSV file) and drives every document pair
// through the Driver, sharding across a bounded local worker pool sized
// to cfg.Workers (default runtime.NumCPU()). Output I/O failures are
// fatal and propagate; every other per-document-pair failure is logged
// and skipped.
func Run(ctx context.Context, cfg config.Config, drv *Driver, inputPath string, routes *RouteTable, log zerolog.Logger) error {
	f, err := openInput(inputPath)
	if err != nil {
		return err
	}
	defer f.Close()

	workers := cfg.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	err = DecodeGzipTSV(f,
		func(dp DocumentPair) error {
			g.Go(func() error {
				return processOne(gctx, drv, cfg, dp, routes, log)
			})
			return nil
		},
		func(lineNo int, raw string, derr error) {
			log.Warn().Int("line", lineNo).Err(derr).Msg("skipping malformed input line")
		},
	)
	if err != nil {
		_ = g.Wait()
		return err
	}
	return g.Wait()
}

// processOne resolves dp's route, runs it through the Driver, and writes
// any accepted pairs to that route's output files. It never returns an
// error for a reducer/aligner failure (those are logged and skipped per
// — only output I/O failures propagate.
func processOne(ctx context.Context, drv *Driver, cfg config.Config, dp DocumentPair, routes *RouteTable, log zerolog.Logger) error {
	docLog := log.With().Str("key", dp.Key).Logger()

	src, tgt, route, ok := drv.ResolveRoute(dp)
	if !ok {
		docLog.Warn().Msg("no configured route matches this document pair's languages; skipping")
		return nil
	}
	docLog = docLog.With().Str("src_url", src.URL).Str("tgt_url", tgt.URL).Logger()

	result, err := drv.Process(ctx, dp.Key, src, tgt)
	if err != nil {
		docLog.Warn().Err(err).Msg("document pair failed to process; skipping")
		return nil
	}
	if len(result.Pairs) == 0 {
		return nil
	}

	out, err := routes.Get(route.OutPrefix)
	if err != nil {
		return fmt.Errorf("pipeline: open output route %q: %w", route.OutPrefix, err)
	}
	if err := out.WriteDocumentResult(src.URL, tgt.URL, result.Pairs, result.DifferenceRatio); err != nil {
		return err // output I/O failure: fatal, propagate
	}
	docLog.Info().Int("pairs", len(result.Pairs)).Float64("difference_ratio", result.DifferenceRatio).
		Msg("wrote aligned sentence pairs")
	return nil
}

// Archive copies every output file produced by routes to store, under
// key prefix archivePrefix, when archiving is enabled. Called once after
// a run completes.
func Archive(ctx context.Context, store objectstore.ObjectStore, archivePrefix string, routes *RouteTable) error {
	for _, path := range routes.AllPaths() {
		body, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("pipeline: read %q for archive: %w", path, err)
		}
		key := archivePrefix + "/" + baseName(path)
		if _, err := store.Put(ctx, key, bytes.NewReader(body), objectstore.PutOptions{ContentType: "text/plain"}); err != nil {
			return fmt.Errorf("pipeline: archive %q: %w", path, err)
		}
	}
	return nil
}

func openInput(inputPath string) (*os.File, error) {
	f, err := os.Open(inputPath)
	if err != nil {
		return nil, fmt.Errorf("pipeline: open input %q: %w", inputPath, err)
	}
	return f, nil
}

func baseName(path string) string {
	for i := len(path) - 1; i >= 0; i-- {
		if path[i] == '/' {
			return path[i+1:]
		}
	}
	return path
}
