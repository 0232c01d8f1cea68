/*
strandmine mines parallel bilingual sentence pairs from a gzip TSV file of
paired HTML documents, using the STRAND structural alignment approach.

Usage:

	strandmine -input pairs.tsv.gz -out /data/out [flags]

Flags:

	-input string
	    Path to the gzip-compressed, tab-separated input file (required)
	-out string
	    Output path prefix; route files are written as <out>.<src>-<tgt>.{src,tgt,annotation,bi} (required unless -config names routes)
	-config string
	    Optional YAML file naming language routes and thresholds
	-workers int
	    Local worker pool size (default: number of CPUs, or STRANDMINE_WORKERS)

Example:

	strandmine -input en-fr.tsv.gz -out /data/out -config routes.yaml
*/
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"

	"strandmine/internal/classifier"
	"strandmine/internal/config"
	"strandmine/internal/distribute"
	"strandmine/internal/objectstore"
	"strandmine/internal/observability"
	"strandmine/internal/pipeline"
)

func main() {
	var (
		input      = flag.String("input", "", "gzip TSV input file (required)")
		outPrefix  = flag.String("out", "", "output path prefix (required unless -config names routes)")
		configPath = flag.String("config", "", "optional YAML route/threshold config")
		workers    = flag.Int("workers", 0, "local worker pool size (0 = runtime.NumCPU())")
	)
	flag.Parse()

	if *input == "" {
		fmt.Fprintln(os.Stderr, "error: -input is required")
		os.Exit(1)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: load config: %v\n", err)
		os.Exit(1)
	}
	if *workers > 0 {
		cfg.Workers = *workers
	}
	if *outPrefix != "" && len(cfg.Routes) == 0 {
		// No route table configured: fall back to a single wildcard
		// route matching every language pair; each pair is written
		// under <out>.<src>-<tgt>.
		cfg.Routes = []config.RouteConfig{{Src: "*", Tgt: "*", OutPrefix: *outPrefix}}
	}

	observability.InitLogger("", "info")

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	shutdown, err := observability.InitOTel(ctx, observability.ObsConfig{
		OTLP:           cfg.Obs.OTLP,
		ServiceName:    cfg.Obs.ServiceName,
		ServiceVersion: cfg.Obs.ServiceVersion,
		Environment:    cfg.Obs.Environment,
	})
	if err != nil {
		log.Warn().Err(err).Msg("otel init failed, continuing without observability")
		shutdown = nil
	}
	if shutdown != nil {
		defer func() { _ = shutdown(context.Background()) }()
	}

	if err := run(ctx, cfg, *input); err != nil {
		log.Error().Err(err).Msg("strandmine run failed")
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config, input string) error {
	var classify classifier.Classifier
	if cfg.Classifier.Enabled {
		c, err := classifier.NewLLMClassifier(cfg.Classifier)
		if err != nil {
			return fmt.Errorf("build classifier: %w", err)
		}
		classify = c
	}

	drv := pipeline.NewDriver(cfg, classify, log.Logger)

	if cfg.Distributor.Enabled {
		producer := distribute.NewProducer(cfg.Distributor.Brokers, cfg.Distributor.Topic)
		defer producer.Close()
		return pipeline.EnqueueFromInput(ctx, cfg, drv, input, producer, log.Logger)
	}

	routes := pipeline.NewRouteTable()
	runErr := pipeline.Run(ctx, cfg, drv, input, routes, log.Logger)
	closeErr := routes.CloseAll()
	if runErr != nil {
		return runErr
	}
	if closeErr != nil {
		return fmt.Errorf("close output routes: %w", closeErr)
	}

	if cfg.Archive.Enabled {
		store, err := objectstore.NewS3Store(ctx, cfg.Archive.S3)
		if err != nil {
			return fmt.Errorf("build archive store: %w", err)
		}
		if err := pipeline.Archive(ctx, store, cfg.Archive.S3.Prefix, routes); err != nil {
			return fmt.Errorf("archive output: %w", err)
		}
	}
	return nil
}
