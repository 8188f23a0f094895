package kamap

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var (
	// priceRegexp captures a dollar-marked numeral group such as "$3,250"
	priceRegexp = regexp.MustCompile(`\$\s*([\d,]+)`)
	// bedRegexp captures "2 Bed", "4 Singles", "3 Person"
	bedRegexp = regexp.MustCompile(`(?i)(\d+)\s*(Bed|Singles?|Person)`)
	// bathRegexp captures "2 Bath", "1.5 Bath"
	bathRegexp = regexp.MustCompile(`(?i)(\d+(?:\.\d+)?)\s*Bath`)
	// unitDateRegexp captures "A101 (8/15)"
	unitDateRegexp = regexp.MustCompile(`(\w+)\s*\((\d{1,2})/(\d{1,2})\)`)
	// parkingCostRegexp captures "$300 per year"
	parkingCostRegexp = regexp.MustCompile(`(?i)\$\s*([\d,]+)\s*per\s+year`)

	remodeledRegexp      = regexp.MustCompile(`(?i)Remodeled`)
	balconyRegexp        = regexp.MustCompile(`(?i)Balcony`)
	patioRegexp          = regexp.MustCompile(`(?i)Patio`)
	parkingRegexp        = regexp.MustCompile(`(?i)Parking\s+Available`)
	splitFloorPlanRegexp = regexp.MustCompile(`(?i)Split\s+Floor\s+Plan`)
)

// unknownRoomType is the label used when no bedroom token is present.
const unknownRoomType = "Unknown"

// RoomConfig is the bedroom/bathroom configuration of a listing.
type RoomConfig struct {
	Bedrooms       *int
	Bathrooms      *float64
	RoomType       string
	PersonCapacity *int
}

// UnitAvailability pairs a unit identifier with its availability date.
type UnitAvailability struct {
	Unit string
	Date time.Time
}

// Features holds the boolean flags, parking cost and amenity tags found in a
// listing's text.
type Features struct {
	IsRemodeled       bool
	HasBalcony        bool
	HasPatio          bool
	HasParking        bool
	SplitFloorPlan    bool
	ParkingCostYearly float64
	Amenities         string
}

// ParsePrice returns the first dollar amount in s with thousands separators
// removed, or nil when s has no dollar-marked numeral.
func ParsePrice(s string) *float64 {
	m := priceRegexp.FindStringSubmatch(s)
	if len(m) < 2 {
		return nil
	}
	return parseAmount(m[1])
}

// ParseRoomConfig derives bedrooms, room type and bathrooms from a fragment
// like "2 Bed / 1.5 Bath". Each half may be missing independently.
func ParseRoomConfig(s string) RoomConfig {
	rc := RoomConfig{RoomType: unknownRoomType}

	if m := bedRegexp.FindStringSubmatch(s); len(m) == 3 {
		if beds, err := strconv.Atoi(m[1]); err == nil {
			capacity := beds
			rc.Bedrooms = &beds
			rc.PersonCapacity = &capacity
			rc.RoomType = roomTypeLabel(m[2])
		}
	}

	if m := bathRegexp.FindStringSubmatch(s); len(m) == 2 {
		if baths, err := strconv.ParseFloat(m[1], 64); err == nil {
			rc.Bathrooms = &baths
		}
	}

	return rc
}

// ParseUnitDates finds every "<unit>(<month>/<day>)" pair in s and dates it
// in year. Pairs with an impossible month/day are dropped.
func ParseUnitDates(s string, year int) []UnitAvailability {
	matches := unitDateRegexp.FindAllStringSubmatch(s, -1)
	units := make([]UnitAvailability, 0, len(matches))

	for _, m := range matches {
		month, err := strconv.Atoi(m[2])
		if err != nil {
			continue
		}
		day, err := strconv.Atoi(m[3])
		if err != nil {
			continue
		}
		date, ok := calendarDate(year, month, day)
		if !ok {
			continue
		}
		units = append(units, UnitAvailability{Unit: m[1], Date: date})
	}
	return units
}

// ExtractFeatures scans text for the boolean features, the yearly parking
// cost and the amenity tags defined by table.
func ExtractFeatures(text string, table AmenityTable) Features {
	return Features{
		IsRemodeled:       remodeledRegexp.MatchString(text),
		HasBalcony:        balconyRegexp.MatchString(text),
		HasPatio:          patioRegexp.MatchString(text),
		HasParking:        parkingRegexp.MatchString(text),
		SplitFloorPlan:    splitFloorPlanRegexp.MatchString(text),
		ParkingCostYearly: ParseParkingCost(text),
		Amenities:         table.Tags(text),
	}
}

// ParseParkingCost returns the "$<n> per year" amount in text, or 0.
func ParseParkingCost(text string) float64 {
	m := parkingCostRegexp.FindStringSubmatch(text)
	if len(m) < 2 {
		return 0
	}
	if v := parseAmount(m[1]); v != nil {
		return *v
	}
	return 0
}

// roomTypeLabel canonicalizes the matched token ("BED", "singles") to title
// case. Casers are stateful, so one is built per call.
func roomTypeLabel(token string) string {
	return cases.Title(language.English).String(strings.ToLower(token))
}

func parseAmount(raw string) *float64 {
	digits := strings.ReplaceAll(raw, ",", "")
	if digits == "" {
		return nil
	}
	v, err := strconv.ParseFloat(digits, 64)
	if err != nil {
		return nil
	}
	return &v
}

func calendarDate(year, month, day int) (time.Time, bool) {
	if month < 1 || month > 12 || day < 1 {
		return time.Time{}, false
	}
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	// time.Date normalizes overflow (2/30 -> 3/2), so a round trip detects it.
	if t.Month() != time.Month(month) || t.Day() != day {
		return time.Time{}, false
	}
	return t, true
}
