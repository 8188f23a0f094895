package report

import (
	"fmt"
	"html/template"
	"io"
	"sort"
	"time"

	"kamap-housing/models"
	"kamap-housing/services"
)

// Data is everything the printable report shows.
type Data struct {
	Title       string
	RunID       string
	GeneratedAt time.Time
	Insights    *models.InsightReport
	Listings    []*models.EnrichedListing
}

type monthCount struct {
	Month string
	Count int
}

var funcs = template.FuncMap{
	"money": func(p *float64) string {
		if p == nil {
			return "n/a"
		}
		return fmt.Sprintf("$%.0f", *p)
	},
	"band": func(p *float64) string {
		if p == nil {
			return ""
		}
		return services.PriceBand(*p)
	},
	"beds": func(p *int) string {
		if p == nil {
			return "?"
		}
		return fmt.Sprint(*p)
	},
	"baths": func(p *float64) string {
		if p == nil {
			return "?"
		}
		return fmt.Sprint(*p)
	},
	"date": func(t time.Time) string {
		if t.IsZero() {
			return ""
		}
		return t.Format("Jan 2, 2006")
	},
	"months": func(m map[string]int) []monthCount {
		out := make([]monthCount, 0, len(m))
		for k, v := range m {
			out = append(out, monthCount{k, v})
		}
		sort.Slice(out, func(i, j int) bool { return out[i].Month < out[j].Month })
		return out
	},
}

var reportTemplate = template.Must(template.New("report").Funcs(funcs).Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
  body { font-family: Helvetica, Arial, sans-serif; color: #1b1b1b; margin: 24px; font-size: 11px; }
  h1 { color: #003660; margin-bottom: 0; }
  .meta { color: #666; margin-bottom: 18px; }
  .metrics { display: flex; gap: 12px; margin-bottom: 18px; }
  .metric { flex: 1; border: 1px solid #d0d7de; border-radius: 6px; padding: 10px; }
  .metric b { display: block; font-size: 18px; color: #003660; }
  table { border-collapse: collapse; width: 100%; margin-bottom: 18px; }
  th, td { border-bottom: 1px solid #e5e5e5; padding: 4px 6px; text-align: left; }
  th { background: #f3f6f9; }
  .green { color: #2e7d32; } .orange { color: #ef6c00; } .red { color: #c62828; }
</style>
</head>
<body>
<h1>{{.Title}}</h1>
<div class="meta">Generated {{.GeneratedAt.Format "2006-01-02 15:04"}}{{if .RunID}} &middot; run {{.RunID}}{{end}}</div>
{{with .Insights}}
<div class="metrics">
  <div class="metric">Listings<b>{{.TotalListings}}</b></div>
  <div class="metric">Buildings<b>{{.BuildingsCovered}}</b></div>
  <div class="metric">Avg rent<b>${{printf "%.0f" .AveragePrice}}</b></div>
  <div class="metric">Avg walk<b>{{printf "%.1f" .AverageWalkMin}} min</b></div>
  <div class="metric">Avg noise<b>{{printf "%.1f" .AverageNoise}}/10</b></div>
</div>
{{if .ClosestToCampus}}
<h2>Closest to campus</h2>
<table>
  <tr><th>Address</th><th>Unit</th><th>Rent</th><th>Walk</th></tr>
  {{range .ClosestToCampus}}<tr><td>{{.Address}}</td><td>{{.UnitNumber}}</td><td class="{{band .PriceMonthly}}">{{money .PriceMonthly}}</td><td>{{printf "%.1f" .WalkTimeToCampusMin}} min</td></tr>
  {{end}}
</table>
{{end}}
{{if .ListingsByMonth}}
<h2>Availability by month</h2>
<table>
  <tr><th>Month</th><th>Units</th></tr>
  {{range months .ListingsByMonth}}<tr><td>{{.Month}}</td><td>{{.Count}}</td></tr>
  {{end}}
</table>
{{end}}
{{end}}
<h2>All listings</h2>
<table>
  <tr><th>Address</th><th>Unit</th><th>Rent</th><th>Bed/Bath</th><th>Available</th><th>Walk</th><th>Noise</th><th>Amenities</th></tr>
  {{range .Listings}}<tr><td>{{.Address}}</td><td>{{.UnitNumber}}</td><td class="{{band .PriceMonthly}}">{{money .PriceMonthly}}</td><td>{{beds .Bedrooms}} / {{baths .Bathrooms}}</td><td>{{date .AvailableDate}}</td><td>{{printf "%.1f" .WalkTimeToCampusMin}} min</td><td>{{printf "%.1f" .NoiseScore}}</td><td>{{.Amenities}}</td></tr>
  {{else}}<tr><td colspan="8">No listings.</td></tr>
  {{end}}
</table>
</body>
</html>
`))

// RenderHTML writes the report page to w.
func RenderHTML(w io.Writer, d Data) error {
	if d.Title == "" {
		d.Title = "Kamap Housing Report"
	}
	if err := reportTemplate.Execute(w, d); err != nil {
		return fmt.Errorf("report: render html: %w", err)
	}
	return nil
}
