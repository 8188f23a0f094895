package report

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"kamap-housing/models"
)

func ptrFloat(v float64) *float64 { return &v }
func ptrInt(v int) *int           { return &v }

func TestRenderHTML(t *testing.T) {
	listing := &models.EnrichedListing{
		ListingRecord: models.ListingRecord{
			ListingID:     "kamap_6543_segovia_rd_a1",
			Address:       "6543 Segovia Rd",
			UnitNumber:    "A1",
			PriceMonthly:  ptrFloat(3250),
			Bedrooms:      ptrInt(2),
			AvailableDate: time.Date(2026, 8, 15, 0, 0, 0, 0, time.UTC),
			Amenities:     "Water/Trash Included",
		},
		WalkTimeToCampusMin: 7.5,
		NoiseScore:          3.2,
	}
	d := Data{
		RunID:       "run-1",
		GeneratedAt: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC),
		Insights: &models.InsightReport{
			TotalListings:   1,
			AveragePrice:    3250,
			ClosestToCampus: []*models.EnrichedListing{listing},
			ListingsByMonth: map[string]int{"2026-09": 2, "2026-08": 1},
		},
		Listings: []*models.EnrichedListing{listing},
	}

	var buf bytes.Buffer
	if err := RenderHTML(&buf, d); err != nil {
		t.Fatalf("RenderHTML: %v", err)
	}
	out := buf.String()

	for _, want := range []string{
		"<title>Kamap Housing Report</title>",
		"run run-1",
		`<td class="orange">$3250</td>`,
		"2 / ?",
		"Aug 15, 2026",
		"Water/Trash Included",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q", want)
		}
	}
	if strings.Index(out, "2026-08") > strings.Index(out, "2026-09") {
		t.Error("months should be listed in order")
	}
}

func TestRenderHTMLEscapesText(t *testing.T) {
	d := Data{
		Title: "Report",
		Listings: []*models.EnrichedListing{{
			ListingRecord: models.ListingRecord{Address: "<script>alert(1)</script>"},
		}},
	}
	var buf bytes.Buffer
	if err := RenderHTML(&buf, d); err != nil {
		t.Fatalf("RenderHTML: %v", err)
	}
	if strings.Contains(buf.String(), "<script>alert") {
		t.Error("listing text was not escaped")
	}
	if !strings.Contains(buf.String(), "n/a") {
		t.Error("missing price should render as n/a")
	}
}

func TestRenderHTMLNoListings(t *testing.T) {
	var buf bytes.Buffer
	if err := RenderHTML(&buf, Data{}); err != nil {
		t.Fatalf("RenderHTML: %v", err)
	}
	if !strings.Contains(buf.String(), "No listings.") {
		t.Error("empty report should say so")
	}
}

func TestFindChromeBinaryPrefersOverride(t *testing.T) {
	if got := findChromeBinary("/opt/chrome/chrome"); got != "/opt/chrome/chrome" {
		t.Errorf("findChromeBinary = %q", got)
	}
}
