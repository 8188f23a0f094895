package api

import (
	"net/url"
	"testing"
	"time"

	"kamap-housing/services"
)

func TestParseFilter(t *testing.T) {
	q, _ := url.ParseQuery("min_price=2500&max_price=3500&bedrooms=1,2&bedrooms=4&bathrooms=1.5&max_walk=10" +
		"&max_noise=6.5&remodeled=true&parking=1&outdoor=false&available_from=2026-08-01&available_to=2026-09-30" +
		"&sort=noise_score&order=DESC")

	f, err := ParseFilter(q)
	if err != nil {
		t.Fatalf("ParseFilter: %v", err)
	}
	if f.MinPrice == nil || *f.MinPrice != 2500 || f.MaxPrice == nil || *f.MaxPrice != 3500 {
		t.Errorf("price bounds = %v, %v", f.MinPrice, f.MaxPrice)
	}
	if len(f.Bedrooms) != 3 || f.Bedrooms[2] != 4 {
		t.Errorf("Bedrooms = %v; want [1 2 4]", f.Bedrooms)
	}
	if len(f.Bathrooms) != 1 || f.Bathrooms[0] != 1.5 {
		t.Errorf("Bathrooms = %v", f.Bathrooms)
	}
	if *f.MaxWalkMin != 10 || *f.MaxNoise != 6.5 {
		t.Errorf("MaxWalkMin %v MaxNoise %v", *f.MaxWalkMin, *f.MaxNoise)
	}
	if !f.RemodeledOnly || !f.ParkingOnly || f.OutdoorOnly {
		t.Errorf("flags = %v %v %v", f.RemodeledOnly, f.ParkingOnly, f.OutdoorOnly)
	}
	if want := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC); !f.AvailableFrom.Equal(want) {
		t.Errorf("AvailableFrom = %v", f.AvailableFrom)
	}
	if f.SortBy != services.SortByNoise || !f.Descending {
		t.Errorf("sort = %q desc=%v", f.SortBy, f.Descending)
	}
}

func TestParseFilterEmpty(t *testing.T) {
	f, err := ParseFilter(url.Values{})
	if err != nil {
		t.Fatalf("ParseFilter: %v", err)
	}
	if f.MinPrice != nil || f.Bedrooms != nil || f.AvailableFrom != nil || f.SortBy != "" || f.Descending {
		t.Errorf("empty query produced constraints: %+v", f)
	}
}
