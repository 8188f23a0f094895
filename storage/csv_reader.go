package storage

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"kamap-housing/models"
)

// ErrMissingColumn is returned when a table lacks a required header.
var ErrMissingColumn = errors.New("missing column")

// ReadRecords loads a canonical table written by WriteRecords.
func ReadRecords(path string) ([]*models.ListingRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("csv: open %q: %w", path, err)
	}
	defer f.Close()

	var records []*models.ListingRecord
	err = readTable(f, ListingColumns, func(row tableRow) error {
		rec, err := row.listing()
		if err != nil {
			return err
		}
		records = append(records, rec)
		return nil
	})
	return records, err
}

// ReadEnriched loads an enriched table written by WriteEnriched.
func ReadEnriched(path string) ([]*models.EnrichedListing, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("csv: open %q: %w", path, err)
	}
	defer f.Close()
	return ReadEnrichedFrom(f)
}

// ReadEnrichedFrom decodes an enriched table. Columns are matched by header
// name, so extra or reordered columns are tolerated.
func ReadEnrichedFrom(r io.Reader) ([]*models.EnrichedListing, error) {
	var listings []*models.EnrichedListing
	err := readTable(r, EnrichedColumns, func(row tableRow) error {
		rec, err := row.listing()
		if err != nil {
			return err
		}
		l := &models.EnrichedListing{ListingRecord: *rec, Geohash: row.get("geohash")}
		for _, f := range []struct {
			col string
			dst *float64
		}{
			{"latitude", &l.Latitude},
			{"longitude", &l.Longitude},
			{"distance_to_ucsb_meters", &l.DistanceToUCSBMeters},
			{"walk_time_to_campus_min", &l.WalkTimeToCampusMin},
			{"distance_to_del_playa_meters", &l.DistanceToDelPlayaMeters},
			{"noise_score", &l.NoiseScore},
		} {
			if *f.dst, err = row.float(f.col); err != nil {
				return err
			}
		}
		listings = append(listings, l)
		return nil
	})
	return listings, err
}

type tableRow struct {
	line   int
	index  map[string]int
	values []string
}

func readTable(r io.Reader, required []string, each func(tableRow) error) error {
	cr := csv.NewReader(r)
	header, err := cr.Read()
	if err != nil {
		return fmt.Errorf("csv: read header: %w", err)
	}
	index := make(map[string]int, len(header))
	for i, h := range header {
		index[h] = i
	}
	for _, col := range required {
		if _, ok := index[col]; !ok {
			return fmt.Errorf("csv: %w %q", ErrMissingColumn, col)
		}
	}

	for line := 2; ; line++ {
		values, err := cr.Read()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("csv: line %d: %w", line, err)
		}
		if err := each(tableRow{line: line, index: index, values: values}); err != nil {
			return err
		}
	}
}

func (r tableRow) get(col string) string {
	i, ok := r.index[col]
	if !ok || i >= len(r.values) {
		return ""
	}
	return r.values[i]
}

func (r tableRow) fail(col string, err error) error {
	return fmt.Errorf("csv: line %d column %s: %w", r.line, col, err)
}

func (r tableRow) float(col string) (float64, error) {
	s := r.get(col)
	if s == "" {
		return 0, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, r.fail(col, err)
	}
	return v, nil
}

func (r tableRow) floatPtr(col string) (*float64, error) {
	if r.get(col) == "" {
		return nil, nil
	}
	v, err := r.float(col)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func (r tableRow) intPtr(col string) (*int, error) {
	s := r.get(col)
	if s == "" {
		return nil, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return nil, r.fail(col, err)
	}
	return &v, nil
}

func (r tableRow) boolean(col string) (bool, error) {
	s := r.get(col)
	if s == "" {
		return false, nil
	}
	v, err := strconv.ParseBool(s)
	if err != nil {
		return false, r.fail(col, err)
	}
	return v, nil
}

func (r tableRow) date(col, layout string) (time.Time, error) {
	s := r.get(col)
	if s == "" {
		return time.Time{}, nil
	}
	t, err := time.ParseInLocation(layout, s, time.UTC)
	if err != nil {
		return time.Time{}, r.fail(col, err)
	}
	return t, nil
}

func (r tableRow) listing() (*models.ListingRecord, error) {
	rec := &models.ListingRecord{
		ListingID:          r.get("listing_id"),
		PropertyManagement: r.get("property_management"),
		Address:            r.get("address"),
		UnitNumber:         r.get("unit_number"),
		SourceURL:          r.get("source_url"),
		RoomType:           r.get("room_type"),
		Amenities:          r.get("amenities"),
		Description:        r.get("description"),
	}

	var err error
	if rec.PriceMonthly, err = r.floatPtr("price_monthly"); err != nil {
		return nil, err
	}
	if rec.AvailableDate, err = r.date("available_date", dateLayout); err != nil {
		return nil, err
	}
	if rec.ScrapedDate, err = r.date("scraped_date", timestampLayout); err != nil {
		return nil, err
	}
	if rec.Bedrooms, err = r.intPtr("bedrooms"); err != nil {
		return nil, err
	}
	if rec.Bathrooms, err = r.floatPtr("bathrooms"); err != nil {
		return nil, err
	}
	if rec.PersonCapacity, err = r.intPtr("person_capacity"); err != nil {
		return nil, err
	}
	if rec.ParkingCostYearly, err = r.float("parking_cost_yearly"); err != nil {
		return nil, err
	}

	for _, f := range []struct {
		col string
		dst *bool
	}{
		{"is_remodeled", &rec.IsRemodeled},
		{"has_balcony", &rec.HasBalcony},
		{"has_patio", &rec.HasPatio},
		{"has_parking", &rec.HasParking},
		{"split_floor_plan", &rec.SplitFloorPlan},
	} {
		if *f.dst, err = r.boolean(f.col); err != nil {
			return nil, err
		}
	}
	return rec, nil
}
