package services

import (
	"io"
	"time"

	"kamap-housing/models"
	"kamap-housing/utils"
)

func quietLogger() *utils.Logger {
	return utils.NewLoggerWithOptions(utils.LoggerOptions{Writer: io.Discard})
}

func ptrInt(v int) *int           { return &v }
func ptrFloat(v float64) *float64 { return &v }

func day(month time.Month, d int) time.Time {
	return time.Date(2026, month, d, 0, 0, 0, 0, time.UTC)
}

func sampleListings() []*models.EnrichedListing {
	return []*models.EnrichedListing{
		{
			ListingRecord: models.ListingRecord{ListingID: "kamap_6543_segovia_rd_a1", Address: "6543 Segovia Rd", UnitNumber: "A1",
				PriceMonthly: ptrFloat(3250), Bedrooms: ptrInt(2), Bathrooms: ptrFloat(2), AvailableDate: day(time.August, 15), IsRemodeled: true},
			WalkTimeToCampusMin: 7.5, NoiseScore: 3.2,
		},
		{
			ListingRecord: models.ListingRecord{ListingID: "kamap_6543_segovia_rd_a2", Address: "6543 Segovia Rd", UnitNumber: "A2",
				PriceMonthly: ptrFloat(2600), Bedrooms: ptrInt(1), Bathrooms: ptrFloat(1), AvailableDate: day(time.June, 15), HasBalcony: true},
			WalkTimeToCampusMin: 7.5, NoiseScore: 3.2,
		},
		{
			ListingRecord: models.ListingRecord{ListingID: "kamap_6681_el_nido_ln_1", Address: "6681 El Nido Ln", UnitNumber: "1",
				PriceMonthly: ptrFloat(4800), Bedrooms: ptrInt(4), Bathrooms: ptrFloat(2), AvailableDate: day(time.September, 1), HasParking: true},
			WalkTimeToCampusMin: 12.2, NoiseScore: 8.4,
		},
		{
			ListingRecord: models.ListingRecord{ListingID: "kamap_6510_trigo_rd_s1", Address: "6510 Trigo Rd", UnitNumber: "S1",
				AvailableDate: day(time.September, 1), HasPatio: true},
			WalkTimeToCampusMin: 5.2, NoiseScore: 0,
		},
	}
}
