package storage

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"kamap-housing/models"
	"kamap-housing/utils"
)

const listingsSheet = "Listings"

// XLSXWriter exports the enriched table as a single-sheet workbook for
// spreadsheet users. Numeric columns are written as numbers.
type XLSXWriter struct {
	logger *utils.Logger
}

// NewXLSXWriter creates an XLSXWriter.
func NewXLSXWriter(logger *utils.Logger) *XLSXWriter {
	if logger == nil {
		logger = utils.NewLogger()
	}
	return &XLSXWriter{logger: logger}
}

// WriteEnriched writes listings to a workbook at path.
func (x *XLSXWriter) WriteEnriched(path string, listings []*models.EnrichedListing) (int, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", listingsSheet); err != nil {
		return 0, fmt.Errorf("xlsx: rename sheet: %w", err)
	}

	for i, h := range EnrichedColumns {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(listingsSheet, cell, h); err != nil {
			return 0, fmt.Errorf("xlsx: write header: %w", err)
		}
	}

	for r, l := range listings {
		for c, v := range enrichedCells(l) {
			if v == nil {
				continue
			}
			cell, _ := excelize.CoordinatesToCellName(c+1, r+2)
			if err := f.SetCellValue(listingsSheet, cell, v); err != nil {
				return 0, fmt.Errorf("xlsx: write %s: %w", cell, err)
			}
		}
	}

	_ = f.SetPanes(listingsSheet, &excelize.Panes{Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft"})
	_ = f.SetColWidth(listingsSheet, "A", "A", 34) // id
	_ = f.SetColWidth(listingsSheet, "B", "C", 30) // manager, address
	_ = f.SetColWidth(listingsSheet, "S", "T", 48) // amenities, description

	err := writeAtomic(path, func(w io.Writer) error {
		if err := f.Write(w); err != nil {
			return fmt.Errorf("xlsx: write workbook: %w", err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	x.logger.Info("[xlsx] Wrote %d listings to %s", len(listings), path)
	return len(listings), nil
}

// enrichedCells mirrors enrichedRow with typed values; nil leaves a blank.
func enrichedCells(l *models.EnrichedListing) []any {
	cells := make([]any, 0, len(EnrichedColumns))
	cells = append(cells,
		l.ListingID,
		l.PropertyManagement,
		l.Address,
		l.UnitNumber,
		floatCell(l.PriceMonthly),
		formatDate(l.AvailableDate, dateLayout),
		l.SourceURL,
		formatDate(l.ScrapedDate, timestampLayout),
		intCell(l.Bedrooms),
		floatCell(l.Bathrooms),
		l.RoomType,
		intCell(l.PersonCapacity),
		l.IsRemodeled,
		l.HasBalcony,
		l.HasPatio,
		l.HasParking,
		l.SplitFloorPlan,
		l.ParkingCostYearly,
		l.Amenities,
		l.Description,
		l.Latitude,
		l.Longitude,
		l.DistanceToUCSBMeters,
		l.WalkTimeToCampusMin,
		l.DistanceToDelPlayaMeters,
		l.NoiseScore,
		l.Geohash,
	)
	return cells
}

func floatCell(p *float64) any {
	if p == nil {
		return nil
	}
	return *p
}

func intCell(p *int) any {
	if p == nil {
		return nil
	}
	return *p
}
