package services

import (
	"slices"
	"sort"
	"time"

	"kamap-housing/models"
)

// Sort keys accepted by ListingFilter.SortBy.
const (
	SortByPrice     = "price_monthly"
	SortByWalkTime  = "walk_time_to_campus_min"
	SortByNoise     = "noise_score"
	SortByAvailable = "available_date"
	SortByBedrooms  = "bedrooms"
)

// ValidSortKeys lists the accepted sort keys.
var ValidSortKeys = []string{SortByPrice, SortByWalkTime, SortByNoise, SortByAvailable, SortByBedrooms}

// Price bands used to color map markers.
const (
	PriceBandGreen  = "green"
	PriceBandOrange = "orange"
	PriceBandRed    = "red"
)

// ListingFilter is the dashboard's sidebar state. Nil pointers and empty
// slices leave that dimension unconstrained; a bound on a dimension excludes
// listings where it is unknown.
type ListingFilter struct {
	MinPrice      *float64
	MaxPrice      *float64
	Bedrooms      []int
	Bathrooms     []float64
	MaxWalkMin    *float64
	MaxNoise      *float64
	RemodeledOnly bool
	ParkingOnly   bool
	OutdoorOnly   bool
	AvailableFrom *time.Time
	AvailableTo   *time.Time

	SortBy     string
	Descending bool
}

// Match reports whether l passes every active constraint.
func (f ListingFilter) Match(l *models.EnrichedListing) bool {
	if f.MinPrice != nil || f.MaxPrice != nil {
		if l.PriceMonthly == nil {
			return false
		}
		if f.MinPrice != nil && *l.PriceMonthly < *f.MinPrice {
			return false
		}
		if f.MaxPrice != nil && *l.PriceMonthly > *f.MaxPrice {
			return false
		}
	}
	if len(f.Bedrooms) > 0 && (l.Bedrooms == nil || !slices.Contains(f.Bedrooms, *l.Bedrooms)) {
		return false
	}
	if len(f.Bathrooms) > 0 && (l.Bathrooms == nil || !slices.Contains(f.Bathrooms, *l.Bathrooms)) {
		return false
	}
	if f.MaxWalkMin != nil && l.WalkTimeToCampusMin > *f.MaxWalkMin {
		return false
	}
	if f.MaxNoise != nil && l.NoiseScore > *f.MaxNoise {
		return false
	}
	if f.RemodeledOnly && !l.IsRemodeled {
		return false
	}
	if f.ParkingOnly && !l.HasParking {
		return false
	}
	if f.OutdoorOnly && !l.HasBalcony && !l.HasPatio {
		return false
	}
	if f.AvailableFrom != nil && l.AvailableDate.Before(*f.AvailableFrom) {
		return false
	}
	if f.AvailableTo != nil && l.AvailableDate.After(*f.AvailableTo) {
		return false
	}
	return true
}

// Apply returns the listings matching f, sorted by f.SortBy when set. The
// input slice is not modified.
func (f ListingFilter) Apply(listings []*models.EnrichedListing) []*models.EnrichedListing {
	out := make([]*models.EnrichedListing, 0, len(listings))
	for _, l := range listings {
		if f.Match(l) {
			out = append(out, l)
		}
	}
	if f.SortBy != "" {
		sortListings(out, f.SortBy, f.Descending)
	}
	return out
}

// sortListings orders listings by key. Listings missing the key always sort
// last.
func sortListings(listings []*models.EnrichedListing, key string, desc bool) {
	value := func(l *models.EnrichedListing) (float64, bool) {
		switch key {
		case SortByPrice:
			if l.PriceMonthly == nil {
				return 0, false
			}
			return *l.PriceMonthly, true
		case SortByWalkTime:
			return l.WalkTimeToCampusMin, true
		case SortByNoise:
			return l.NoiseScore, true
		case SortByAvailable:
			return float64(l.AvailableDate.Unix()), !l.AvailableDate.IsZero()
		case SortByBedrooms:
			if l.Bedrooms == nil {
				return 0, false
			}
			return float64(*l.Bedrooms), true
		}
		return 0, false
	}

	sort.SliceStable(listings, func(i, j int) bool {
		a, okA := value(listings[i])
		b, okB := value(listings[j])
		if okA != okB {
			return okA
		}
		if desc {
			return a > b
		}
		return a < b
	})
}

// PriceBand buckets a monthly rent for map coloring.
func PriceBand(price float64) string {
	switch {
	case price < 2800:
		return PriceBandGreen
	case price < 3500:
		return PriceBandOrange
	default:
		return PriceBandRed
	}
}
