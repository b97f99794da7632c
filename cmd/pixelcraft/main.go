package main

import (
	"context"
	"fmt"
	"os"

	"github.com/dunamismax/pixelcraft/internal/cli"
	"github.com/dunamismax/pixelcraft/internal/config"
	"github.com/dunamismax/pixelcraft/internal/logging"
	"github.com/dunamismax/pixelcraft/internal/metrics"
	"github.com/dunamismax/pixelcraft/internal/pipeline"
	"github.com/dunamismax/pixelcraft/internal/storage"
	"github.com/dunamismax/pixelcraft/internal/telemetry"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	os.Exit(run())
}

func run() int {
	// A missing .env is normal.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return cli.ExitFailure
	}

	logger, err := logging.New(cfg.Log, os.Stderr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return cli.ExitFailure
	}
	defer func() { _ = logger.Sync() }()

	ctx := context.Background()
	shutdownTracing, err := telemetry.SetupTracing(ctx, telemetry.TraceConfig{
		ServiceName:    "pixelcraft",
		ServiceVersion: cli.Version,
		Exporter:       cfg.Trace.Exporter,
		OTLPEndpoint:   cfg.Trace.OTLPEndpoint,
		OTLPInsecure:   cfg.Trace.OTLPInsecure,
	}, logger)
	if err != nil {
		logger.Error("tracing setup failed", zap.Error(err))
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return cli.ExitFailure
	}
	defer func() {
		if err := shutdownTracing(ctx); err != nil {
			logger.Warn("tracing shutdown failed", zap.Error(err))
		}
	}()

	if err := pipeline.Startup(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return cli.ExitFailure
	}
	defer pipeline.Shutdown()

	recorder := metrics.New()
	opts := []pipeline.ProcessorOption{
		pipeline.WithLogger(logger),
		pipeline.WithObserver(recorder),
		pipeline.WithCodecOptions(pipeline.CodecOptions{
			JPEGQuality:    cfg.Output.JPEGQuality,
			PNGCompression: cfg.Output.PNGCompression,
		}),
		pipeline.WithFontLoader(pipeline.NewFontLoader(
			pipeline.WithFontNames(cfg.Fonts.Names...),
			pipeline.WithFontDirs(cfg.Fonts.Dirs...),
			pipeline.WithFontLogger(logger.Named("fonts")),
		)),
	}

	if cfg.Storage.Enabled() {
		client, err := storage.NewClient(storage.Config{
			Endpoint: cfg.Storage.Endpoint,
			Access:   cfg.Storage.AccessKey,
			Secret:   cfg.Storage.SecretKey,
			Region:   cfg.Storage.Region,
			UseSSL:   cfg.Storage.UseSSL,
		})
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return cli.ExitFailure
		}
		opts = append(opts, pipeline.WithObjectStore(client))
	}

	processor, err := pipeline.NewLocalProcessor(opts...)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return cli.ExitFailure
	}

	code := cli.Run(ctx, cli.App{Runner: processor, Logger: logger}, os.Args[1:], os.Stdout, os.Stderr)

	if path := cfg.Metrics.TextfilePath; path != "" {
		if err := recorder.WriteTextfile(path); err != nil {
			logger.Warn("metrics textfile write failed", zap.String("path", path), zap.Error(err))
		}
	}
	return code
}
