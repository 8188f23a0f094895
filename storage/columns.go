package storage

import (
	"strconv"
	"time"

	"kamap-housing/models"
)

const (
	dateLayout      = "2006-01-02"
	timestampLayout = "2006-01-02 15:04:05"
)

// ListingColumns is the canonical table header, in column order.
var ListingColumns = []string{
	"listing_id",
	"property_management",
	"address",
	"unit_number",
	"price_monthly",
	"available_date",
	"source_url",
	"scraped_date",
	"bedrooms",
	"bathrooms",
	"room_type",
	"person_capacity",
	"is_remodeled",
	"has_balcony",
	"has_patio",
	"has_parking",
	"split_floor_plan",
	"parking_cost_yearly",
	"amenities",
	"description",
}

// GeocodedColumns extend the canonical header with the resolved point.
var GeocodedColumns = append(append([]string{}, ListingColumns...),
	"latitude",
	"longitude",
)

// EnrichedColumns extend the canonical header with location metrics.
var EnrichedColumns = append(append([]string{}, GeocodedColumns...),
	"distance_to_ucsb_meters",
	"walk_time_to_campus_min",
	"distance_to_del_playa_meters",
	"noise_score",
	"geohash",
)

func listingRow(r *models.ListingRecord) []string {
	return []string{
		r.ListingID,
		r.PropertyManagement,
		r.Address,
		r.UnitNumber,
		formatFloatPtr(r.PriceMonthly),
		formatDate(r.AvailableDate, dateLayout),
		r.SourceURL,
		formatDate(r.ScrapedDate, timestampLayout),
		formatIntPtr(r.Bedrooms),
		formatFloatPtr(r.Bathrooms),
		r.RoomType,
		formatIntPtr(r.PersonCapacity),
		strconv.FormatBool(r.IsRemodeled),
		strconv.FormatBool(r.HasBalcony),
		strconv.FormatBool(r.HasPatio),
		strconv.FormatBool(r.HasParking),
		strconv.FormatBool(r.SplitFloorPlan),
		formatFloat(r.ParkingCostYearly),
		r.Amenities,
		r.Description,
	}
}

func geocodedRow(r *models.ListingRecord, c models.Coordinates) []string {
	return append(listingRow(r), formatFloat(c.Latitude), formatFloat(c.Longitude))
}

func enrichedRow(l *models.EnrichedListing) []string {
	return append(geocodedRow(&l.ListingRecord, models.Coordinates{Latitude: l.Latitude, Longitude: l.Longitude}),
		formatFloat(l.DistanceToUCSBMeters),
		formatFloat(l.WalkTimeToCampusMin),
		formatFloat(l.DistanceToDelPlayaMeters),
		formatFloat(l.NoiseScore),
		l.Geohash,
	)
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func formatFloatPtr(p *float64) string {
	if p == nil {
		return ""
	}
	return formatFloat(*p)
}

func formatIntPtr(p *int) string {
	if p == nil {
		return ""
	}
	return strconv.Itoa(*p)
}

func formatDate(t time.Time, layout string) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(layout)
}
