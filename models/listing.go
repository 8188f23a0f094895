package models

import "time"

// ListingRecord is one rentable unit-availability entry parsed from the
// availability PDF. Numeric fields that could not be recognized are nil,
// never zero.
type ListingRecord struct {
	ListingID          string
	PropertyManagement string
	Address            string
	UnitNumber         string
	PriceMonthly       *float64
	AvailableDate      time.Time
	SourceURL          string
	ScrapedDate        time.Time

	Bedrooms       *int
	Bathrooms      *float64
	RoomType       string
	PersonCapacity *int

	IsRemodeled       bool
	HasBalcony        bool
	HasPatio          bool
	HasParking        bool
	SplitFloorPlan    bool
	ParkingCostYearly float64
	Amenities         string

	Description string
}

// Coordinates is a WGS-84 point.
type Coordinates struct {
	Latitude  float64
	Longitude float64
}

// EnrichedListing is a ListingRecord with resolved coordinates and the
// derived location metrics appended.
type EnrichedListing struct {
	ListingRecord

	Latitude                 float64
	Longitude                float64
	DistanceToUCSBMeters     float64
	WalkTimeToCampusMin      float64
	DistanceToDelPlayaMeters float64
	NoiseScore               float64
	Geohash                  string
}

// InsightReport holds the computed analytics over the enriched dataset.
type InsightReport struct {
	TotalListings    int
	BuildingsCovered int
	AveragePrice     float64
	MinPrice         float64
	MaxPrice         float64
	AverageWalkMin   float64
	AverageNoise     float64
	MostExpensive    *EnrichedListing
	ClosestToCampus  []*EnrichedListing
	ListingsByBeds   map[int]int
	ListingsByMonth  map[string]int
	PriceBands       map[string]int
}
