package storage

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"kamap-housing/models"
	"kamap-housing/utils"
)

// CSVWriter materializes listing tables as CSV files. Every write goes to a
// temporary file in the destination directory and is renamed into place, so
// a failed run never leaves a partial table behind. It is safe for
// concurrent use.
type CSVWriter struct {
	mu     sync.Mutex
	logger *utils.Logger
}

// NewCSVWriter creates a CSVWriter.
func NewCSVWriter(logger *utils.Logger) *CSVWriter {
	if logger == nil {
		logger = utils.NewLogger()
	}
	return &CSVWriter{logger: logger}
}

// WriteRecords writes the canonical table to path, replacing any previous
// file, and returns the number of records written.
func (c *CSVWriter) WriteRecords(path string, records []*models.ListingRecord) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	err := writeAtomic(path, func(w io.Writer) error {
		return writeCSV(w, ListingColumns, len(records), func(i int) []string {
			return listingRow(records[i])
		})
	})
	if err != nil {
		return 0, err
	}
	c.logger.Info("[csv] Wrote %d records to %s", len(records), path)
	return len(records), nil
}

// WriteGeocoded writes the records that have coordinates (keyed by address)
// along with their latitude and longitude. Records without a point are left
// out.
func (c *CSVWriter) WriteGeocoded(path string, records []*models.ListingRecord, coords map[string]models.Coordinates) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	type located struct {
		rec *models.ListingRecord
		pt  models.Coordinates
	}
	rows := make([]located, 0, len(records))
	for _, r := range records {
		if pt, ok := coords[r.Address]; ok {
			rows = append(rows, located{r, pt})
		}
	}

	err := writeAtomic(path, func(w io.Writer) error {
		return writeCSV(w, GeocodedColumns, len(rows), func(i int) []string {
			return geocodedRow(rows[i].rec, rows[i].pt)
		})
	})
	if err != nil {
		return 0, err
	}
	c.logger.Info("[csv] Wrote %d geocoded records to %s (%d without coordinates)", len(rows), path, len(records)-len(rows))
	return len(rows), nil
}

// WriteEnriched writes the enriched table to path.
func (c *CSVWriter) WriteEnriched(path string, listings []*models.EnrichedListing) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := writeAtomic(path, func(w io.Writer) error { return WriteEnrichedTo(w, listings) }); err != nil {
		return 0, err
	}
	c.logger.Info("[csv] Wrote %d enriched listings to %s", len(listings), path)
	return len(listings), nil
}

// WriteEnrichedTo streams the enriched table to w.
func WriteEnrichedTo(w io.Writer, listings []*models.EnrichedListing) error {
	return writeCSV(w, EnrichedColumns, len(listings), func(i int) []string {
		return enrichedRow(listings[i])
	})
}

func writeCSV(w io.Writer, header []string, n int, row func(i int) []string) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("csv: write header: %w", err)
	}
	for i := 0; i < n; i++ {
		if err := cw.Write(row(i)); err != nil {
			return fmt.Errorf("csv: write row %d: %w", i+1, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("csv: flush: %w", err)
	}
	return nil
}

// writeAtomic runs fill against a temporary file next to path and renames it
// over path only if fill and the close both succeed.
func writeAtomic(path string, fill func(w io.Writer) error) (err error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("storage: create output dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("storage: create temp file in %q: %w", dir, err)
	}
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmp.Name())
		}
	}()

	if err = fill(tmp); err != nil {
		return err
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("storage: close temp file: %w", err)
	}
	if err = os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("storage: replace %q: %w", path, err)
	}
	return nil
}
