package kamap

import (
	"regexp"
	"strings"
	"time"
	"unicode"

	"kamap-housing/models"
)

// idPrefix namespaces listing ids by source.
const idPrefix = "kamap"

// unitMarkerRegexp separates the room fragment from the unit/date fragment.
var unitMarkerRegexp = regexp.MustCompile(`(?i)Units?\s*#`)

// Assembler turns one listing line into typed records.
type Assembler struct {
	ReferenceYear int
	SourceLabel   string
	SourceURL     string
	AddressSuffix string
	Amenities     AmenityTable
}

// ListingID returns the deterministic id for a unit at an address, e.g.
// "kamap_6543_segovia_rd_a101".
func ListingID(address, unit string) string {
	return strings.ToLower(idPrefix + "_" + strings.ReplaceAll(address, " ", "_") + "_" + unit)
}

// Assemble emits one record per unit/date pair on line. It returns nil when
// the line has no "Unit(s) #" marker or no valid pair.
func (a *Assembler) Assemble(line, address string, scrapedAt time.Time) []*models.ListingRecord {
	split := strings.IndexFunc(line, unicode.IsSpace)
	if split < 0 {
		return nil
	}
	priceToken, rest := line[:split], strings.TrimSpace(line[split:])

	loc := unitMarkerRegexp.FindStringIndex(rest)
	if loc == nil {
		return nil
	}
	roomPart := strings.TrimSpace(rest[:loc[0]])
	unitPart := strings.TrimSpace(rest[loc[1]:])

	price := ParsePrice(priceToken)
	room := ParseRoomConfig(roomPart)
	units := ParseUnitDates(unitPart, a.ReferenceYear)
	features := ExtractFeatures(line+" "+unitPart, a.Amenities)

	records := make([]*models.ListingRecord, 0, len(units))
	for _, u := range units {
		records = append(records, &models.ListingRecord{
			ListingID:          ListingID(address, u.Unit),
			PropertyManagement: a.SourceLabel,
			Address:            address + a.AddressSuffix,
			UnitNumber:         u.Unit,
			PriceMonthly:       cloneFloat(price),
			AvailableDate:      u.Date,
			SourceURL:          a.SourceURL,
			ScrapedDate:        scrapedAt,

			Bedrooms:       cloneInt(room.Bedrooms),
			Bathrooms:      cloneFloat(room.Bathrooms),
			RoomType:       room.RoomType,
			PersonCapacity: cloneInt(room.PersonCapacity),

			IsRemodeled:       features.IsRemodeled,
			HasBalcony:        features.HasBalcony,
			HasPatio:          features.HasPatio,
			HasParking:        features.HasParking,
			SplitFloorPlan:    features.SplitFloorPlan,
			ParkingCostYearly: features.ParkingCostYearly,
			Amenities:         features.Amenities,

			Description: strings.TrimSpace(line),
		})
	}
	return records
}

func cloneInt(p *int) *int {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func cloneFloat(p *float64) *float64 {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
