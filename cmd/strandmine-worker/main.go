/*
strandmine-worker consumes document-pair jobs published to a Kafka topic
by strandmine's distributed mode and runs each through the same
reduce/align/segment/filter pipeline the local driver uses, writing
accepted sentence pairs to its target route's output files.

Usage:

	strandmine-worker -config routes.yaml

Flags:

	-config string
	    YAML file naming language routes, thresholds, and Kafka brokers/topic (required)

The worker runs until interrupted (SIGINT/SIGTERM). Its Kafka group
offset is committed as each job is read, before the job is processed, so
a job interrupted mid-processing is not redelivered.
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
	"strandmine/internal/observability"
	"strandmine/internal/pipeline"
)

func main() {
	configPath := flag.String("config", "", "YAML route/threshold/broker config (required)")
	flag.Parse()

	if *configPath == "" {
		fmt.Fprintln(os.Stderr, "error: -config is required")
		os.Exit(1)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: load config: %v\n", err)
		os.Exit(1)
	}
	if !cfg.Distributor.Enabled {
		fmt.Fprintln(os.Stderr, "error: distributor.enabled must be true in config for strandmine-worker")
		os.Exit(1)
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

	if err := run(ctx, cfg); err != nil {
		log.Error().Err(err).Msg("strandmine-worker stopped")
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config) error {
	var classify classifier.Classifier
	if cfg.Classifier.Enabled {
		c, err := classifier.NewLLMClassifier(cfg.Classifier)
		if err != nil {
			return fmt.Errorf("build classifier: %w", err)
		}
		classify = c
	}

	drv := pipeline.NewDriver(cfg, classify, log.Logger)
	routes := pipeline.NewRouteTable()
	defer routes.CloseAll()

	consumer := distribute.NewConsumer(cfg.Distributor.Brokers, cfg.Distributor.Topic, cfg.Distributor.GroupID)
	defer consumer.Close()

	for {
		job, err := consumer.Next(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil // interrupted: clean shutdown, not a failure
			}
			return fmt.Errorf("consume job: %w", err)
		}
		if err := pipeline.ProcessJob(ctx, drv, job, routes, log.Logger); err != nil {
			return fmt.Errorf("process job %s: %w", job.ID, err)
		}
	}
}
