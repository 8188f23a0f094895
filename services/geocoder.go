package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"kamap-housing/models"
	"kamap-housing/utils"
)

// ErrAddressNotFound is returned when the geocoder has no result for an
// address.
var ErrAddressNotFound = errors.New("address not found")

// Geocoder resolves a postal address to a point.
type Geocoder interface {
	Geocode(ctx context.Context, address string) (models.Coordinates, error)
}

// GeocoderOptions configures a NominatimGeocoder.
type GeocoderOptions struct {
	BaseURL     string
	UserAgent   string
	RateLimitMs int
	MaxRetries  int
	RetryDelay  time.Duration
	HTTPClient  *http.Client
}

type cachedPoint struct {
	coords models.Coordinates
	err    error
}

// NominatimGeocoder queries a Nominatim-compatible /search endpoint. Lookups
// are serialized through a single-worker pool with a minimum interval
// between requests, and every answer (including "not found") is cached per
// address for the life of the geocoder.
type NominatimGeocoder struct {
	baseURL    string
	userAgent  string
	httpClient *http.Client
	retry      *utils.RetryConfig
	pool       *utils.WorkerPool
	logger     *utils.Logger

	mu    sync.Mutex
	cache map[string]cachedPoint
}

// NewNominatimGeocoder creates a geocoder.
func NewNominatimGeocoder(opts GeocoderOptions, logger *utils.Logger) *NominatimGeocoder {
	if logger == nil {
		logger = utils.NewLogger()
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = &http.Client{Timeout: 15 * time.Second}
	}
	if opts.RetryDelay <= 0 {
		opts.RetryDelay = 2 * time.Second
	}
	if opts.UserAgent == "" {
		opts.UserAgent = "kamap-housing/1.0"
	}
	return &NominatimGeocoder{
		baseURL:    strings.TrimRight(opts.BaseURL, "/"),
		userAgent:  opts.UserAgent,
		httpClient: opts.HTTPClient,
		retry: &utils.RetryConfig{
			MaxAttempts: opts.MaxRetries,
			BaseDelay:   opts.RetryDelay,
			Logger:      logger,
		},
		pool:   utils.NewWorkerPool(1, opts.RateLimitMs),
		logger: logger,
		cache:  make(map[string]cachedPoint),
	}
}

// Geocode returns the coordinates of address. It returns an error wrapping
// ErrAddressNotFound when the service has no match.
func (g *NominatimGeocoder) Geocode(ctx context.Context, address string) (models.Coordinates, error) {
	key := strings.ToLower(strings.TrimSpace(address))

	g.mu.Lock()
	hit, ok := g.cache[key]
	g.mu.Unlock()
	if ok {
		return hit.coords, hit.err
	}

	var (
		coords models.Coordinates
		err    error
	)
	if poolErr := g.pool.Do(ctx, func() {
		err = g.retry.Do(ctx, "geocode "+address, func() error {
			var lookupErr error
			coords, lookupErr = g.lookup(ctx, address)
			if errors.Is(lookupErr, ErrAddressNotFound) {
				return fmt.Errorf("%w: %w", utils.ErrPermanent, lookupErr)
			}
			return lookupErr
		})
	}); poolErr != nil {
		return models.Coordinates{}, fmt.Errorf("geocode: %w", poolErr)
	}

	// Transient failures are not cached.
	if err == nil || errors.Is(err, ErrAddressNotFound) {
		g.mu.Lock()
		g.cache[key] = cachedPoint{coords: coords, err: err}
		g.mu.Unlock()
	}
	return coords, err
}

type nominatimResult struct {
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	DisplayName string `json:"display_name"`
}

func (g *NominatimGeocoder) lookup(ctx context.Context, address string) (models.Coordinates, error) {
	params := url.Values{}
	params.Set("q", address)
	params.Set("format", "json")
	params.Set("limit", "1")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.baseURL+"/search?"+params.Encode(), nil)
	if err != nil {
		return models.Coordinates{}, fmt.Errorf("geocode: build request: %v: %w", err, utils.ErrPermanent)
	}
	req.Header.Set("User-Agent", g.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return models.Coordinates{}, fmt.Errorf("geocode: request: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
		return models.Coordinates{}, fmt.Errorf("geocode: status %d", resp.StatusCode)
	default:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return models.Coordinates{}, fmt.Errorf("geocode: status %d: %s: %w", resp.StatusCode, strings.TrimSpace(string(body)), utils.ErrPermanent)
	}

	var results []nominatimResult
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return models.Coordinates{}, fmt.Errorf("geocode: decode response: %w", err)
	}
	if len(results) == 0 {
		return models.Coordinates{}, fmt.Errorf("geocode: %q: %w", address, ErrAddressNotFound)
	}

	lat, err := strconv.ParseFloat(results[0].Lat, 64)
	if err != nil {
		return models.Coordinates{}, fmt.Errorf("geocode: bad latitude %q: %w", results[0].Lat, utils.ErrPermanent)
	}
	lon, err := strconv.ParseFloat(results[0].Lon, 64)
	if err != nil {
		return models.Coordinates{}, fmt.Errorf("geocode: bad longitude %q: %w", results[0].Lon, utils.ErrPermanent)
	}

	g.logger.Debug("[geocoder] %s → %.6f,%.6f (%s)", address, lat, lon, results[0].DisplayName)
	return models.Coordinates{Latitude: lat, Longitude: lon}, nil
}

// GeocodeAll resolves every distinct address among records. Addresses the
// service cannot place are logged and left out of the result; only context
// cancellation aborts the batch.
func GeocodeAll(ctx context.Context, g Geocoder, records []*models.ListingRecord, logger *utils.Logger) (map[string]models.Coordinates, error) {
	if logger == nil {
		logger = utils.NewLogger()
	}

	addresses := make([]string, 0)
	seen := utils.NewStringSet()
	for _, r := range records {
		if seen.Add(r.Address) {
			addresses = append(addresses, r.Address)
		}
	}

	coords := make(map[string]models.Coordinates, len(addresses))
	var missed int
	for i, addr := range addresses {
		if err := ctx.Err(); err != nil {
			return coords, fmt.Errorf("geocode: %w", err)
		}
		pt, err := g.Geocode(ctx, addr)
		if err != nil {
			if ctx.Err() != nil {
				return coords, fmt.Errorf("geocode: %w", ctx.Err())
			}
			missed++
			if errors.Is(err, ErrAddressNotFound) {
				logger.Warn("[geocoder] (%d/%d) No match for %s", i+1, len(addresses), addr)
			} else {
				logger.Error("[geocoder] (%d/%d) %s: %v", i+1, len(addresses), addr, err)
			}
			continue
		}
		coords[addr] = pt
		logger.Info("[geocoder] (%d/%d) %s → %.5f, %.5f", i+1, len(addresses), addr, pt.Latitude, pt.Longitude)
	}

	logger.Info("[geocoder] Resolved %d/%d addresses (%d missed)", len(coords), len(addresses), missed)
	return coords, nil
}
