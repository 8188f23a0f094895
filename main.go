package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/google/uuid"

	"kamap-housing/api"
	"kamap-housing/config"
	"kamap-housing/services"
	"kamap-housing/utils"
)

func main() {
	serve := flag.Bool("serve", false, "serve the enriched CSV over HTTP instead of running the pipeline")
	fromProcessed := flag.Bool("from-processed", false, "skip parsing and geocode the existing processed CSV")
	input := flag.String("input", "", "availability document (.pdf or .txt), overrides PDF_INPUT_PATH/TEXT_INPUT_PATH")
	flag.Parse()

	cfg := config.Load()
	if *input != "" {
		if strings.EqualFold(filepath.Ext(*input), ".pdf") {
			cfg.PDFInputPath, cfg.TextInputPath = *input, ""
		} else {
			cfg.TextInputPath = *input
		}
	}

	runID := uuid.New().String()
	logger := newLogger(cfg).With("run_id", runID)

	if err := cfg.Validate(); err != nil {
		logger.Error("Invalid configuration: %v", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if *serve {
		if err := runServer(ctx, cfg, logger); err != nil {
			logger.Error("API server failed: %v", err)
			os.Exit(1)
		}
		return
	}

	logger.Info("=== Kamap housing pipeline starting ===")
	logger.Info("Config: reference year: %d | geocoding: %t | rate: %dms",
		cfg.ReferenceYear, cfg.GeocodeEnabled, cfg.GeocodeRateMs)

	res, err := NewPipeline(cfg, nil, runID, logger).Run(ctx, *fromProcessed)
	if errors.Is(err, ErrNoRecords) {
		logger.Error("No listings were extracted. Exiting.")
		os.Exit(1)
	}
	if err != nil {
		logger.Error("Pipeline failed: %v", err)
		os.Exit(1)
	}

	if res.Report != nil {
		services.NewInsightService(logger).Print(res.Report)
		fmt.Printf("  Done. Processed → %s | Enriched → %s\n\n", cfg.ProcessedCSVPath, cfg.EnrichedCSVPath)
		return
	}
	fmt.Printf("  Done. Processed → %s (%d records)\n\n", cfg.ProcessedCSVPath, len(res.Records))
}

func newLogger(cfg *config.Config) *utils.Logger {
	opts := utils.LoggerOptions{
		Level: utils.ParseLevel(cfg.LogLevel),
		JSON:  cfg.LogJSON,
	}
	if cfg.FluentEnabled {
		client, err := utils.NewFluentClient(cfg.FluentHost, cfg.FluentPort, "kamap")
		if err != nil {
			fmt.Fprintf(os.Stderr, "fluent: %v (continuing without log forwarding)\n", err)
		} else {
			opts.Fluent = client
			opts.FluentTag = "kamap.pipeline"
		}
	}
	return utils.NewLoggerWithOptions(opts)
}

func runServer(ctx context.Context, cfg *config.Config, logger *utils.Logger) error {
	data, err := api.LoadDataset(cfg.EnrichedCSVPath)
	if err != nil {
		return fmt.Errorf("load %s (run the pipeline first): %w", cfg.EnrichedCSVPath, err)
	}
	logger.Info("Serving %d listings from %s", len(data.Listings()), cfg.EnrichedCSVPath)

	handler := api.NewListingHandler(data, services.NewInsightService(logger), logger)
	return api.NewServer(cfg.HTTPAddr, handler, cfg.CORSOrigins, logger).Run(ctx)
}
