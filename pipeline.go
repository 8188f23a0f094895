package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"kamap-housing/config"
	"kamap-housing/models"
	"kamap-housing/parser/kamap"
	"kamap-housing/report"
	"kamap-housing/services"
	"kamap-housing/storage"
	"kamap-housing/utils"
)

// ErrNoRecords is returned when the availability document yields nothing.
var ErrNoRecords = errors.New("no listing records extracted")

// Pipeline runs parse → processed CSV → geocode → geocoded CSV → enrich →
// enriched CSV and the optional exports.
type Pipeline struct {
	cfg      *config.Config
	logger   *utils.Logger
	geocoder services.Geocoder
	runID    string
	now      func() time.Time
}

// Result is what a pipeline run produced.
type Result struct {
	Records  []*models.ListingRecord
	Enriched []*models.EnrichedListing
	Report   *models.InsightReport
}

// NewPipeline creates a Pipeline. A nil geocoder builds a Nominatim client
// from cfg.
func NewPipeline(cfg *config.Config, geocoder services.Geocoder, runID string, logger *utils.Logger) *Pipeline {
	if geocoder == nil {
		geocoder = services.NewNominatimGeocoder(services.GeocoderOptions{
			BaseURL:     cfg.GeocoderURL,
			UserAgent:   cfg.GeocoderUserAgent,
			RateLimitMs: cfg.GeocodeRateMs,
			MaxRetries:  cfg.MaxRetries,
		}, logger)
	}
	return &Pipeline{cfg: cfg, logger: logger, geocoder: geocoder, runID: runID, now: time.Now}
}

// Run executes the pipeline. With fromProcessed set, parsing is skipped and
// records are read back from the processed CSV.
func (p *Pipeline) Run(ctx context.Context, fromProcessed bool) (*Result, error) {
	if err := p.ensureDirectories(); err != nil {
		return nil, err
	}

	// Step 1: Parse
	var records []*models.ListingRecord
	var err error
	if fromProcessed {
		records, err = storage.ReadRecords(p.cfg.ProcessedCSVPath)
		if err != nil {
			return nil, fmt.Errorf("load processed records: %w", err)
		}
		p.logger.Info("[pipeline] Loaded %d records from %s", len(records), p.cfg.ProcessedCSVPath)
	} else {
		records, err = p.parse()
		if err != nil {
			return nil, err
		}
	}
	res := &Result{Records: records}
	if len(records) == 0 {
		return res, ErrNoRecords
	}

	if !p.cfg.GeocodeEnabled {
		p.logger.Warn("[pipeline] Geocoding disabled; stopping after %s", p.cfg.ProcessedCSVPath)
		return res, nil
	}

	// Step 2: Geocode
	coords, err := services.GeocodeAll(ctx, p.geocoder, records, p.logger)
	if err != nil {
		return res, err
	}
	csvWriter := storage.NewCSVWriter(p.logger)
	if _, err := csvWriter.WriteGeocoded(p.cfg.GeocodedCSVPath, records, coords); err != nil {
		return res, err
	}

	// Step 3: Enrich
	enricher := services.NewEnricher(services.EnrichOptions{
		Campus:            models.Coordinates{Latitude: p.cfg.CampusLat, Longitude: p.cfg.CampusLon},
		DelPlaya:          models.Coordinates{Latitude: p.cfg.DelPlayaLat, Longitude: p.cfg.DelPlayaLon},
		WalkMetersPerMin:  p.cfg.WalkMetersPerMin,
		NoiseRadiusMeters: p.cfg.NoiseRadiusMeters,
	}, p.logger)
	res.Enriched = enricher.Enrich(records, coords)
	if _, err := csvWriter.WriteEnriched(p.cfg.EnrichedCSVPath, res.Enriched); err != nil {
		return res, err
	}

	// Optional exports
	if p.cfg.XLSXPath != "" {
		if _, err := storage.NewXLSXWriter(p.logger).WriteEnriched(p.cfg.XLSXPath, res.Enriched); err != nil {
			return res, err
		}
	}
	if p.cfg.ShapefilePath != "" {
		if _, err := storage.NewShapefileWriter(p.logger).WriteEnriched(p.cfg.ShapefilePath, res.Enriched); err != nil {
			return res, err
		}
	}

	res.Report = services.NewInsightService(p.logger).Generate(res.Enriched)

	if p.cfg.ReportPDFPath != "" {
		renderer := report.NewPDFRenderer(p.cfg.ChromeBin, p.logger)
		err := renderer.WriteReport(ctx, p.cfg.ReportPDFPath, report.Data{
			RunID:       p.runID,
			GeneratedAt: p.now(),
			Insights:    res.Report,
			Listings:    res.Enriched,
		})
		if err != nil {
			p.logger.Error("[pipeline] PDF report failed: %v", err)
		}
	}

	return res, nil
}

func (p *Pipeline) parse() ([]*models.ListingRecord, error) {
	amenities := kamap.DefaultAmenityTable()
	if p.cfg.AmenityTablePath != "" {
		table, err := kamap.LoadAmenityTable(p.cfg.AmenityTablePath)
		if err != nil {
			return nil, err
		}
		amenities = table
		p.logger.Info("[pipeline] Loaded %d amenity rules from %s", len(table), p.cfg.AmenityTablePath)
	}

	input := p.cfg.PDFInputPath
	if p.cfg.TextInputPath != "" {
		input = p.cfg.TextInputPath
	}
	p.logger.Info("[pipeline] Reading %s", input)
	text, err := kamap.LoadDocument(input)
	if err != nil {
		return nil, err
	}

	parser := kamap.New(kamap.Options{
		ReferenceYear: p.cfg.ReferenceYear,
		SourceLabel:   p.cfg.SourceLabel,
		SourceURL:     p.cfg.SourceURL,
		AddressSuffix: p.cfg.AddressSuffix,
		Amenities:     amenities,
		Now:           p.now,
	}, p.logger)
	records := parser.Parse(text)

	if _, err := storage.NewCSVWriter(p.logger).WriteRecords(p.cfg.ProcessedCSVPath, records); err != nil {
		return nil, err
	}
	return records, nil
}

func (p *Pipeline) ensureDirectories() error {
	for _, path := range []string{p.cfg.ProcessedCSVPath, p.cfg.GeocodedCSVPath, p.cfg.EnrichedCSVPath} {
		if path == "" {
			continue
		}
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return fmt.Errorf("create %s: %w", filepath.Dir(path), err)
		}
	}
	return nil
}
