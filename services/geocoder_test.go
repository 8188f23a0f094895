package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"kamap-housing/models"
)

func newTestGeocoder(url string, retries int) *NominatimGeocoder {
	return NewNominatimGeocoder(GeocoderOptions{
		BaseURL:    url,
		UserAgent:  "kamap-housing-test",
		MaxRetries: retries,
		RetryDelay: time.Millisecond,
	}, quietLogger())
}

func TestGeocodeParsesFirstResult(t *testing.T) {
	var gotQuery, gotAgent string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/search" {
			t.Errorf("path = %q; want /search", r.URL.Path)
		}
		gotQuery = r.URL.Query().Get("q")
		gotAgent = r.Header.Get("User-Agent")
		fmt.Fprint(w, `[{"lat":"34.4125","lon":"-119.8555","display_name":"6543 Segovia Road"}]`)
	}))
	defer srv.Close()

	pt, err := newTestGeocoder(srv.URL, 1).Geocode(context.Background(), "6543 Segovia Rd, Isla Vista, CA 93117")
	if err != nil {
		t.Fatalf("Geocode: %v", err)
	}
	if pt != (models.Coordinates{Latitude: 34.4125, Longitude: -119.8555}) {
		t.Errorf("Geocode = %+v", pt)
	}
	if gotQuery != "6543 Segovia Rd, Isla Vista, CA 93117" {
		t.Errorf("q = %q", gotQuery)
	}
	if gotAgent != "kamap-housing-test" {
		t.Errorf("User-Agent = %q", gotAgent)
	}
}

func TestGeocodeNotFoundIsCachedAndNotRetried(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		fmt.Fprint(w, `[]`)
	}))
	defer srv.Close()

	g := newTestGeocoder(srv.URL, 3)
	for i := 0; i < 2; i++ {
		_, err := g.Geocode(context.Background(), "1 Nowhere St")
		if !errors.Is(err, ErrAddressNotFound) {
			t.Fatalf("call %d: err = %v; want ErrAddressNotFound", i, err)
		}
	}
	if n := atomic.LoadInt32(&calls); n != 1 {
		t.Errorf("server called %d times; want 1", n)
	}
}

func TestGeocodeCachesHitsCaseInsensitively(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		fmt.Fprint(w, `[{"lat":"34.41","lon":"-119.86"}]`)
	}))
	defer srv.Close()

	g := newTestGeocoder(srv.URL, 1)
	for _, addr := range []string{"6510 Trigo Rd", "6510 TRIGO RD ", "6510 trigo rd"} {
		if _, err := g.Geocode(context.Background(), addr); err != nil {
			t.Fatalf("Geocode(%q): %v", addr, err)
		}
	}
	if n := atomic.LoadInt32(&calls); n != 1 {
		t.Errorf("server called %d times; want 1", n)
	}
}

func TestGeocodeRetriesTransientFailures(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		fmt.Fprint(w, `[{"lat":"34.41","lon":"-119.86"}]`)
	}))
	defer srv.Close()

	if _, err := newTestGeocoder(srv.URL, 3).Geocode(context.Background(), "6510 Trigo Rd"); err != nil {
		t.Fatalf("Geocode: %v", err)
	}
	if n := atomic.LoadInt32(&calls); n != 3 {
		t.Errorf("server called %d times; want 3", n)
	}
}

func TestGeocodeClientErrorIsPermanent(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		http.Error(w, "blocked", http.StatusForbidden)
	}))
	defer srv.Close()

	_, err := newTestGeocoder(srv.URL, 5).Geocode(context.Background(), "6510 Trigo Rd")
	if err == nil {
		t.Fatal("expected an error")
	}
	if errors.Is(err, ErrAddressNotFound) {
		t.Error("a 403 is not a missing address")
	}
	if n := atomic.LoadInt32(&calls); n != 1 {
		t.Errorf("server called %d times; want 1", n)
	}
}

func TestGeocodeMalformedCoordinates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `[{"lat":"north","lon":"-119.86"}]`)
	}))
	defer srv.Close()

	if _, err := newTestGeocoder(srv.URL, 1).Geocode(context.Background(), "6510 Trigo Rd"); err == nil {
		t.Error("expected an error for a non-numeric latitude")
	}
}

type stubGeocoder struct {
	points map[string]models.Coordinates
	calls  []string
}

func (s *stubGeocoder) Geocode(_ context.Context, address string) (models.Coordinates, error) {
	s.calls = append(s.calls, address)
	pt, ok := s.points[address]
	if !ok {
		return models.Coordinates{}, ErrAddressNotFound
	}
	return pt, nil
}

func TestGeocodeAllDeduplicatesAndSkipsMisses(t *testing.T) {
	stub := &stubGeocoder{points: map[string]models.Coordinates{
		"6543 Segovia Rd": {Latitude: 34.4125, Longitude: -119.8555},
	}}
	records := []*models.ListingRecord{
		{Address: "6543 Segovia Rd"},
		{Address: "6543 Segovia Rd"},
		{Address: "6681 El Nido Ln"},
	}

	coords, err := GeocodeAll(context.Background(), stub, records, quietLogger())
	if err != nil {
		t.Fatalf("GeocodeAll: %v", err)
	}
	if len(stub.calls) != 2 {
		t.Errorf("geocoder called %d times; want 2", len(stub.calls))
	}
	if len(coords) != 1 {
		t.Errorf("resolved %d addresses; want 1", len(coords))
	}
	if _, ok := coords["6681 El Nido Ln"]; ok {
		t.Error("missed address should not be in the result")
	}
}

func TestGeocodeAllStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	stub := &stubGeocoder{}
	_, err := GeocodeAll(ctx, stub, []*models.ListingRecord{{Address: "6543 Segovia Rd"}}, quietLogger())
	if !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v; want context.Canceled", err)
	}
	if len(stub.calls) != 0 {
		t.Errorf("geocoder called %d times after cancel", len(stub.calls))
	}
}
