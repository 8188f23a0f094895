package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jonas-p/go-shp"

	"kamap-housing/models"
	"kamap-housing/utils"
)

// shapefileFields is the DBF schema of the point layer. DBF limits field
// names to 10 characters.
var shapefileFields = []shp.Field{
	shp.StringField("LISTING_ID", 80),
	shp.StringField("ADDRESS", 120),
	shp.StringField("UNIT", 16),
	shp.FloatField("PRICE", 12, 2),
	shp.NumberField("BEDS", 4),
	shp.FloatField("BATHS", 5, 1),
	shp.StringField("AVAILABLE", 10),
	shp.FloatField("DIST_UCSB", 10, 1),
	shp.FloatField("WALK_MIN", 8, 1),
	shp.FloatField("NOISE", 6, 2),
	shp.StringField("GEOHASH", 12),
}

// ShapefileWriter exports enriched listings as a WGS-84 point layer
// (.shp/.shx/.dbf) for GIS tools.
type ShapefileWriter struct {
	logger *utils.Logger
}

// NewShapefileWriter creates a ShapefileWriter.
func NewShapefileWriter(logger *utils.Logger) *ShapefileWriter {
	if logger == nil {
		logger = utils.NewLogger()
	}
	return &ShapefileWriter{logger: logger}
}

// WriteEnriched writes one point per listing. A missing ".shp" extension is
// appended to path.
func (s *ShapefileWriter) WriteEnriched(path string, listings []*models.EnrichedListing) (int, error) {
	if !strings.EqualFold(filepath.Ext(path), ".shp") {
		path += ".shp"
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return 0, fmt.Errorf("shapefile: create output dir: %w", err)
	}

	w, err := shp.Create(path, shp.POINT)
	if err != nil {
		return 0, fmt.Errorf("shapefile: create %q: %w", path, err)
	}
	defer w.Close()

	if err := w.SetFields(shapefileFields); err != nil {
		return 0, fmt.Errorf("shapefile: set fields: %w", err)
	}

	for _, l := range listings {
		row := int(w.Write(&shp.Point{X: l.Longitude, Y: l.Latitude}))
		for field, v := range shapefileAttributes(l) {
			if v == nil {
				continue
			}
			if err := w.WriteAttribute(row, field, v); err != nil {
				return 0, fmt.Errorf("shapefile: row %d field %d: %w", row, field, err)
			}
		}
	}

	s.logger.Info("[shapefile] Wrote %d points to %s", len(listings), path)
	return len(listings), nil
}

func shapefileAttributes(l *models.EnrichedListing) []any {
	attrs := []any{
		clip(l.ListingID, 80),
		clip(l.Address, 120),
		clip(l.UnitNumber, 16),
		nil,
		nil,
		nil,
		formatDate(l.AvailableDate, dateLayout),
		l.DistanceToUCSBMeters,
		l.WalkTimeToCampusMin,
		l.NoiseScore,
		l.Geohash,
	}
	if l.PriceMonthly != nil {
		attrs[3] = *l.PriceMonthly
	}
	if l.Bedrooms != nil {
		attrs[4] = *l.Bedrooms
	}
	if l.Bathrooms != nil {
		attrs[5] = *l.Bathrooms
	}
	return attrs
}

func clip(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
