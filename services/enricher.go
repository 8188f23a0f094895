package services

import (
	"math"

	"github.com/mmcloughlin/geohash"

	"kamap-housing/models"
	"kamap-housing/utils"
)

const (
	earthRadiusMeters = 6371000.0
	geohashPrecision  = 9
	maxNoiseScore     = 10.0
)

// EnrichOptions holds the reference points and walking model.
type EnrichOptions struct {
	Campus            models.Coordinates
	DelPlaya          models.Coordinates
	WalkMetersPerMin  float64
	NoiseRadiusMeters float64
}

// DefaultEnrichOptions returns the UCSB / Del Playa reference setup.
func DefaultEnrichOptions() EnrichOptions {
	return EnrichOptions{
		Campus:            models.Coordinates{Latitude: 34.4140, Longitude: -119.8489},
		DelPlaya:          models.Coordinates{Latitude: 34.4133, Longitude: -119.8610},
		WalkMetersPerMin:  80,
		NoiseRadiusMeters: 800,
	}
}

// Enricher derives location metrics for geocoded listings.
type Enricher struct {
	opts   EnrichOptions
	logger *utils.Logger
}

// NewEnricher creates an Enricher. Non-positive speeds and radii fall back to
// the defaults.
func NewEnricher(opts EnrichOptions, logger *utils.Logger) *Enricher {
	def := DefaultEnrichOptions()
	if opts.WalkMetersPerMin <= 0 {
		opts.WalkMetersPerMin = def.WalkMetersPerMin
	}
	if opts.NoiseRadiusMeters <= 0 {
		opts.NoiseRadiusMeters = def.NoiseRadiusMeters
	}
	if logger == nil {
		logger = utils.NewLogger()
	}
	return &Enricher{opts: opts, logger: logger}
}

// Enrich appends coordinates and metrics to every record whose address has
// an entry in coords. Records without coordinates are dropped; order is
// preserved.
func (e *Enricher) Enrich(records []*models.ListingRecord, coords map[string]models.Coordinates) []*models.EnrichedListing {
	out := make([]*models.EnrichedListing, 0, len(records))
	for _, r := range records {
		pt, ok := coords[r.Address]
		if !ok {
			e.logger.Debug("[enricher] No coordinates for %s, dropping %s", r.Address, r.ListingID)
			continue
		}

		toCampus := HaversineMeters(pt, e.opts.Campus)
		toDelPlaya := HaversineMeters(pt, e.opts.DelPlaya)
		out = append(out, &models.EnrichedListing{
			ListingRecord:            *r,
			Latitude:                 pt.Latitude,
			Longitude:                pt.Longitude,
			DistanceToUCSBMeters:     round(toCampus, 1),
			WalkTimeToCampusMin:      round(toCampus/e.opts.WalkMetersPerMin, 1),
			DistanceToDelPlayaMeters: round(toDelPlaya, 1),
			NoiseScore:               NoiseScore(toDelPlaya, e.opts.NoiseRadiusMeters),
			Geohash:                  geohash.EncodeWithPrecision(pt.Latitude, pt.Longitude, geohashPrecision),
		})
	}

	e.logger.Info("[enricher] Enriched %d/%d records", len(out), len(records))
	return out
}

// HaversineMeters is the great-circle distance between a and b.
func HaversineMeters(a, b models.Coordinates) float64 {
	lat1 := a.Latitude * math.Pi / 180
	lat2 := b.Latitude * math.Pi / 180
	dLat := lat2 - lat1
	dLon := (b.Longitude - a.Longitude) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	return 2 * earthRadiusMeters * math.Asin(math.Min(1, math.Sqrt(h)))
}

// NoiseScore maps a distance from the party strip to 0-10: 10 on top of it,
// falling linearly to 0 at radius and beyond.
func NoiseScore(distance, radius float64) float64 {
	if radius <= 0 || distance >= radius {
		return 0
	}
	if distance <= 0 {
		return maxNoiseScore
	}
	return round(maxNoiseScore*(1-distance/radius), 2)
}

func round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
