package storage

import "kamap-housing/models"

// RecordWriter is the interface any canonical-table backend must satisfy.
// It returns the number of records written.
type RecordWriter interface {
	WriteRecords(path string, records []*models.ListingRecord) (int, error)
}

// EnrichedWriter is the interface for persisting geocoded, enriched listings.
type EnrichedWriter interface {
	WriteEnriched(path string, listings []*models.EnrichedListing) (int, error)
}

var (
	_ RecordWriter   = (*CSVWriter)(nil)
	_ EnrichedWriter = (*CSVWriter)(nil)
	_ EnrichedWriter = (*XLSXWriter)(nil)
	_ EnrichedWriter = (*ShapefileWriter)(nil)
)
