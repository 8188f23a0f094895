package api

import (
	"sort"
	"time"

	"kamap-housing/models"
	"kamap-housing/services"
)

// ListingDTO is the JSON view of an enriched listing.
type ListingDTO struct {
	ListingID          string   `json:"listing_id"`
	PropertyManagement string   `json:"property_management"`
	Address            string   `json:"address"`
	UnitNumber         string   `json:"unit_number"`
	PriceMonthly       *float64 `json:"price_monthly"`
	PriceColor         string   `json:"price_color,omitempty"`
	AvailableDate      string   `json:"available_date"`
	SourceURL          string   `json:"source_url"`
	ScrapedDate        string   `json:"scraped_date"`

	Bedrooms       *int     `json:"bedrooms"`
	Bathrooms      *float64 `json:"bathrooms"`
	RoomType       string   `json:"room_type"`
	PersonCapacity *int     `json:"person_capacity"`

	IsRemodeled       bool    `json:"is_remodeled"`
	HasBalcony        bool    `json:"has_balcony"`
	HasPatio          bool    `json:"has_patio"`
	HasParking        bool    `json:"has_parking"`
	SplitFloorPlan    bool    `json:"split_floor_plan"`
	ParkingCostYearly float64 `json:"parking_cost_yearly"`
	Amenities         string  `json:"amenities"`
	Description       string  `json:"description"`

	Latitude                 float64 `json:"latitude"`
	Longitude                float64 `json:"longitude"`
	DistanceToUCSBMeters     float64 `json:"distance_to_ucsb_meters"`
	WalkTimeToCampusMin      float64 `json:"walk_time_to_campus_min"`
	DistanceToDelPlayaMeters float64 `json:"distance_to_del_playa_meters"`
	NoiseScore               float64 `json:"noise_score"`
	Geohash                  string  `json:"geohash"`
}

// ListingsResponse is a page of filtered listings.
type ListingsResponse struct {
	Total    int          `json:"total"`
	Limit    int          `json:"limit,omitempty"`
	Offset   int          `json:"offset,omitempty"`
	Listings []ListingDTO `json:"listings"`
}

// StatsResponse carries the dashboard's headline metrics and chart series.
type StatsResponse struct {
	Count            int            `json:"count"`
	BuildingsCovered int            `json:"buildings_covered"`
	AveragePrice     float64        `json:"avg_price"`
	MinPrice         float64        `json:"min_price"`
	MaxPrice         float64        `json:"max_price"`
	AverageWalkMin   float64        `json:"avg_walk_min"`
	AverageNoise     float64        `json:"avg_noise"`
	ByMonth          map[string]int `json:"availability_by_month"`
	ByBedrooms       map[int]int    `json:"listings_by_bedrooms"`
	PriceBands       map[string]int `json:"price_bands"`
	ClosestToCampus  []ListingDTO   `json:"closest_to_campus"`
}

// FilterOptionsResponse gives the slider bounds and choice lists for the
// dashboard sidebar.
type FilterOptionsResponse struct {
	MinPrice      *float64  `json:"min_price"`
	MaxPrice      *float64  `json:"max_price"`
	Bedrooms      []int     `json:"bedrooms"`
	Bathrooms     []float64 `json:"bathrooms"`
	MaxWalkMin    float64   `json:"max_walk_min"`
	AvailableFrom string    `json:"available_from,omitempty"`
	AvailableTo   string    `json:"available_to,omitempty"`
	SortKeys      []string  `json:"sort_keys"`
}

func toListingDTO(l *models.EnrichedListing) ListingDTO {
	dto := ListingDTO{
		ListingID:          l.ListingID,
		PropertyManagement: l.PropertyManagement,
		Address:            l.Address,
		UnitNumber:         l.UnitNumber,
		PriceMonthly:       l.PriceMonthly,
		AvailableDate:      formatDate(l.AvailableDate, dateLayout),
		SourceURL:          l.SourceURL,
		ScrapedDate:        formatDate(l.ScrapedDate, "2006-01-02 15:04:05"),

		Bedrooms:       l.Bedrooms,
		Bathrooms:      l.Bathrooms,
		RoomType:       l.RoomType,
		PersonCapacity: l.PersonCapacity,

		IsRemodeled:       l.IsRemodeled,
		HasBalcony:        l.HasBalcony,
		HasPatio:          l.HasPatio,
		HasParking:        l.HasParking,
		SplitFloorPlan:    l.SplitFloorPlan,
		ParkingCostYearly: l.ParkingCostYearly,
		Amenities:         l.Amenities,
		Description:       l.Description,

		Latitude:                 l.Latitude,
		Longitude:                l.Longitude,
		DistanceToUCSBMeters:     l.DistanceToUCSBMeters,
		WalkTimeToCampusMin:      l.WalkTimeToCampusMin,
		DistanceToDelPlayaMeters: l.DistanceToDelPlayaMeters,
		NoiseScore:               l.NoiseScore,
		Geohash:                  l.Geohash,
	}
	if l.PriceMonthly != nil {
		dto.PriceColor = services.PriceBand(*l.PriceMonthly)
	}
	return dto
}

func toListingDTOs(listings []*models.EnrichedListing) []ListingDTO {
	out := make([]ListingDTO, 0, len(listings))
	for _, l := range listings {
		out = append(out, toListingDTO(l))
	}
	return out
}

func toStatsResponse(r *models.InsightReport) StatsResponse {
	return StatsResponse{
		Count:            r.TotalListings,
		BuildingsCovered: r.BuildingsCovered,
		AveragePrice:     r.AveragePrice,
		MinPrice:         r.MinPrice,
		MaxPrice:         r.MaxPrice,
		AverageWalkMin:   r.AverageWalkMin,
		AverageNoise:     r.AverageNoise,
		ByMonth:          r.ListingsByMonth,
		ByBedrooms:       r.ListingsByBeds,
		PriceBands:       r.PriceBands,
		ClosestToCampus:  toListingDTOs(r.ClosestToCampus),
	}
}

func toFilterOptions(listings []*models.EnrichedListing) FilterOptionsResponse {
	opts := FilterOptionsResponse{
		Bedrooms:  []int{},
		Bathrooms: []float64{},
		SortKeys:  services.ValidSortKeys,
	}
	beds := make(map[int]bool)
	baths := make(map[float64]bool)

	for _, l := range listings {
		if p := l.PriceMonthly; p != nil {
			if opts.MinPrice == nil || *p < *opts.MinPrice {
				v := *p
				opts.MinPrice = &v
			}
			if opts.MaxPrice == nil || *p > *opts.MaxPrice {
				v := *p
				opts.MaxPrice = &v
			}
		}
		if l.Bedrooms != nil && !beds[*l.Bedrooms] {
			beds[*l.Bedrooms] = true
			opts.Bedrooms = append(opts.Bedrooms, *l.Bedrooms)
		}
		if l.Bathrooms != nil && !baths[*l.Bathrooms] {
			baths[*l.Bathrooms] = true
			opts.Bathrooms = append(opts.Bathrooms, *l.Bathrooms)
		}
		if l.WalkTimeToCampusMin > opts.MaxWalkMin {
			opts.MaxWalkMin = l.WalkTimeToCampusMin
		}
		if !l.AvailableDate.IsZero() {
			d := l.AvailableDate.Format(dateLayout)
			if opts.AvailableFrom == "" || d < opts.AvailableFrom {
				opts.AvailableFrom = d
			}
			if d > opts.AvailableTo {
				opts.AvailableTo = d
			}
		}
	}
	sort.Ints(opts.Bedrooms)
	sort.Float64s(opts.Bathrooms)
	return opts
}

func formatDate(t time.Time, layout string) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(layout)
}
