package storage

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

var scrapedAt = time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC)

func sampleRecords() []*models.ListingRecord {
	return []*models.ListingRecord{
		{
			ListingID:          "kamap_6543_segovia_rd_a101",
			PropertyManagement: "Kamap Property Management",
			Address:            "6543 Segovia Rd, Isla Vista, CA 93117",
			UnitNumber:         "A101",
			PriceMonthly:       ptrFloat(3250),
			AvailableDate:      time.Date(2026, 8, 15, 0, 0, 0, 0, time.UTC),
			SourceURL:          "https://www.kamap.net/",
			ScrapedDate:        scrapedAt,
			Bedrooms:           ptrInt(2),
			Bathrooms:          ptrFloat(1.5),
			RoomType:           "Bed",
			PersonCapacity:     ptrInt(2),
			IsRemodeled:        true,
			HasParking:         true,
			ParkingCostYearly:  300,
			Amenities:          "Free Internet, Gas Included",
			Description:        `$3,250 2 Bed / 1.5 Bath Unit #A101 (8/15) "Remodeled", Parking Available $300 per year`,
		},
		{
			ListingID:          "kamap_6510_trigo_rd_s1",
			PropertyManagement: "Kamap Property Management",
			Address:            "6510 Trigo Rd, Isla Vista, CA 93117",
			UnitNumber:         "S1",
			AvailableDate:      time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC),
			SourceURL:          "https://www.kamap.net/",
			ScrapedDate:        scrapedAt,
			RoomType:           "Unknown",
			Amenities:          "None listed",
			Description:        "$TBD Studio Unit #S1 (9/1)",
		},
	}
}

func sampleEnriched() []*models.EnrichedListing {
	recs := sampleRecords()
	return []*models.EnrichedListing{
		{
			ListingRecord:            *recs[0],
			Latitude:                 34.4125,
			Longitude:                -119.8555,
			DistanceToUCSBMeters:     622.4,
			WalkTimeToCampusMin:      7.8,
			DistanceToDelPlayaMeters: 508.1,
			NoiseScore:               3.65,
			Geohash:                  "9q4gu1y4z",
		},
		{
			ListingRecord:            *recs[1],
			Latitude:                 34.4119,
			Longitude:                -119.8577,
			DistanceToUCSBMeters:     836,
			WalkTimeToCampusMin:      10.45,
			DistanceToDelPlayaMeters: 316.7,
			NoiseScore:               6.04,
			Geohash:                  "9q4gu1tmv",
		},
	}
}
