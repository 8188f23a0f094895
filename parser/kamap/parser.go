package kamap

import (
	"strings"
	"time"

	"kamap-housing/models"
	"kamap-housing/utils"
)

// Options configures a Parser. Zero values fall back to the Kamap defaults.
type Options struct {
	ReferenceYear int
	SourceLabel   string
	SourceURL     string
	AddressSuffix string
	Streets       []string
	Amenities     AmenityTable
	Now           func() time.Time
}

// Stats counts what a parse pass saw.
type Stats struct {
	Lines        int
	AddressLines int
	ListingLines int
	SkippedLines int
	Duplicates   int
	Records      int
}

// Parser walks availability-document text and collects listing records.
// It keeps no state between Parse calls.
type Parser struct {
	classifier *Classifier
	assembler  *Assembler
	now        func() time.Time
	logger     *utils.Logger
}

// New creates a Parser.
func New(opts Options, logger *utils.Logger) *Parser {
	if opts.ReferenceYear == 0 {
		opts.ReferenceYear = time.Now().Year()
	}
	if opts.SourceLabel == "" {
		opts.SourceLabel = "Kamap Property Management"
	}
	if opts.SourceURL == "" {
		opts.SourceURL = "https://www.kamap.net/"
	}
	if opts.Amenities == nil {
		opts.Amenities = DefaultAmenityTable()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if logger == nil {
		logger = utils.NewLogger()
	}

	return &Parser{
		classifier: NewClassifier(opts.Streets),
		assembler: &Assembler{
			ReferenceYear: opts.ReferenceYear,
			SourceLabel:   opts.SourceLabel,
			SourceURL:     opts.SourceURL,
			AddressSuffix: opts.AddressSuffix,
			Amenities:     opts.Amenities,
		},
		now:    opts.Now,
		logger: logger,
	}
}

// Parse returns the ordered listing records found in text. A document with
// nothing recognizable yields an empty slice.
func (p *Parser) Parse(text string) []*models.ListingRecord {
	records, _ := p.ParseWithStats(text)
	return records
}

// ParseWithStats is Parse plus counters for logging.
func (p *Parser) ParseWithStats(text string) ([]*models.ListingRecord, Stats) {
	var (
		ctx     AddressContext
		stats   Stats
		seen    = utils.NewStringSet()
		records = make([]*models.ListingRecord, 0)
		runAt   = p.now()
	)

	for _, raw := range splitLines(text) {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}
		stats.Lines++

		kind, addr := p.classifier.Classify(line, &ctx)
		switch kind {
		case LineAddress:
			stats.AddressLines++
			ctx.Enter(addr)
		case LineListing:
			stats.ListingLines++
			address, _ := ctx.Current()
			assembled := p.assembler.Assemble(line, address, runAt)
			if len(assembled) == 0 {
				stats.SkippedLines++
				p.logger.Debug("[parser] Skipping unparseable listing line under %s: %q", address, line)
				continue
			}
			for _, rec := range assembled {
				key := rec.ListingID + "|" + rec.AvailableDate.Format("2006-01-02")
				if !seen.Add(key) {
					stats.Duplicates++
					p.logger.Debug("[parser] Duplicate unit/date skipped: %s", key)
					continue
				}
				records = append(records, rec)
			}
		}
	}

	stats.Records = len(records)
	p.logger.Info("[parser] %d lines → %d address blocks, %d listing lines, %d records (skipped %d lines, %d duplicates)",
		stats.Lines, stats.AddressLines, stats.ListingLines, stats.Records, stats.SkippedLines, stats.Duplicates)
	return records, stats
}

func splitLines(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	return strings.Split(text, "\n")
}
