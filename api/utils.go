package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"slices"
	"strconv"
	"strings"
	"time"

	"kamap-housing/services"
)

const dateLayout = "2006-01-02"

// WriteJSONError sends {"error": message} with the given status.
func WriteJSONError(w http.ResponseWriter, statusCode int, message string) {
	RespondWithJSON(w, statusCode, map[string]string{"error": message})
}

// RespondWithJSON sends payload as JSON.
func RespondWithJSON(w http.ResponseWriter, code int, payload any) {
	response, err := json.Marshal(payload)
	if err != nil {
		http.Error(w, "Failed to marshal JSON response", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_, _ = w.Write(response)
}

// ParseFilter reads the dashboard filter state from query parameters:
// min_price, max_price, bedrooms (comma list), bathrooms (comma list),
// max_walk, max_noise, remodeled, parking, outdoor, available_from,
// available_to (YYYY-MM-DD), sort and order (asc|desc).
func ParseFilter(q url.Values) (services.ListingFilter, error) {
	var f services.ListingFilter
	var err error

	if f.MinPrice, err = floatParam(q, "min_price"); err != nil {
		return f, err
	}
	if f.MaxPrice, err = floatParam(q, "max_price"); err != nil {
		return f, err
	}
	if f.MaxWalkMin, err = floatParam(q, "max_walk"); err != nil {
		return f, err
	}
	if f.MaxNoise, err = floatParam(q, "max_noise"); err != nil {
		return f, err
	}

	for _, s := range listParam(q, "bedrooms") {
		n, err := strconv.Atoi(s)
		if err != nil {
			return f, fmt.Errorf("bedrooms: %q is not an integer", s)
		}
		f.Bedrooms = append(f.Bedrooms, n)
	}
	for _, s := range listParam(q, "bathrooms") {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return f, fmt.Errorf("bathrooms: %q is not a number", s)
		}
		f.Bathrooms = append(f.Bathrooms, v)
	}

	if f.RemodeledOnly, err = boolParam(q, "remodeled"); err != nil {
		return f, err
	}
	if f.ParkingOnly, err = boolParam(q, "parking"); err != nil {
		return f, err
	}
	if f.OutdoorOnly, err = boolParam(q, "outdoor"); err != nil {
		return f, err
	}

	if f.AvailableFrom, err = dateParam(q, "available_from"); err != nil {
		return f, err
	}
	if f.AvailableTo, err = dateParam(q, "available_to"); err != nil {
		return f, err
	}
	if f.AvailableFrom != nil && f.AvailableTo != nil && f.AvailableTo.Before(*f.AvailableFrom) {
		return f, fmt.Errorf("available_to is before available_from")
	}

	if s := q.Get("sort"); s != "" {
		if !slices.Contains(services.ValidSortKeys, s) {
			return f, fmt.Errorf("sort: unknown key %q", s)
		}
		f.SortBy = s
	}
	switch strings.ToLower(q.Get("order")) {
	case "", "asc":
	case "desc":
		f.Descending = true
	default:
		return f, fmt.Errorf("order: must be asc or desc")
	}
	return f, nil
}

func floatParam(q url.Values, key string) (*float64, error) {
	s := q.Get(key)
	if s == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, fmt.Errorf("%s: %q is not a number", key, s)
	}
	return &v, nil
}

func boolParam(q url.Values, key string) (bool, error) {
	s := q.Get(key)
	if s == "" {
		return false, nil
	}
	v, err := strconv.ParseBool(s)
	if err != nil {
		return false, fmt.Errorf("%s: %q is not a boolean", key, s)
	}
	return v, nil
}

func dateParam(q url.Values, key string) (*time.Time, error) {
	s := q.Get(key)
	if s == "" {
		return nil, nil
	}
	t, err := time.ParseInLocation(dateLayout, s, time.UTC)
	if err != nil {
		return nil, fmt.Errorf("%s: %q is not a YYYY-MM-DD date", key, s)
	}
	return &t, nil
}

func listParam(q url.Values, key string) []string {
	var out []string
	for _, raw := range q[key] {
		for _, s := range strings.Split(raw, ",") {
			if s = strings.TrimSpace(s); s != "" {
				out = append(out, s)
			}
		}
	}
	return out
}

// GetLimitOrDefault reads "limit", defaulting to 0 (no limit).
func GetLimitOrDefault(r *http.Request) (int, error) {
	return nonNegativeInt(r, "limit")
}

// GetOffsetOrDefault reads "offset", defaulting to 0.
func GetOffsetOrDefault(r *http.Request) (int, error) {
	return nonNegativeInt(r, "offset")
}

func nonNegativeInt(r *http.Request, key string) (int, error) {
	s := r.URL.Query().Get(key)
	if s == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%s: %q is not a non-negative integer", key, s)
	}
	return n, nil
}
