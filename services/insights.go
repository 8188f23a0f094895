package services

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"kamap-housing/models"
	"kamap-housing/utils"
)

const closestCount = 5

type InsightService struct {
	logger *utils.Logger
}

func NewInsightService(logger *utils.Logger) *InsightService {
	return &InsightService{logger: logger}
}

func (s *InsightService) Generate(listings []*models.EnrichedListing) *models.InsightReport {
	report := &models.InsightReport{
		ListingsByBeds:  make(map[int]int),
		ListingsByMonth: make(map[string]int),
		PriceBands:      make(map[string]int),
	}

	if len(listings) == 0 {
		return report
	}

	report.TotalListings = len(listings)

	buildings := utils.NewStringSet()
	var priced []*models.EnrichedListing
	var walkTotal, noiseTotal float64

	for _, l := range listings {
		buildings.Add(l.Address)
		walkTotal += l.WalkTimeToCampusMin
		noiseTotal += l.NoiseScore

		if l.PriceMonthly != nil {
			priced = append(priced, l)
			report.PriceBands[PriceBand(*l.PriceMonthly)]++
		}
		if l.Bedrooms != nil {
			report.ListingsByBeds[*l.Bedrooms]++
		}
		if !l.AvailableDate.IsZero() {
			report.ListingsByMonth[l.AvailableDate.Format("2006-01")]++
		}
	}

	report.BuildingsCovered = buildings.Size()
	report.AverageWalkMin = round2(walkTotal / float64(len(listings)))
	report.AverageNoise = round2(noiseTotal / float64(len(listings)))

	// Price stats (only listings with a known price)
	if len(priced) > 0 {
		report.MinPrice = *priced[0].PriceMonthly
		report.MaxPrice = *priced[0].PriceMonthly
		report.MostExpensive = priced[0]
		var total float64
		for _, l := range priced {
			p := *l.PriceMonthly
			total += p
			if p < report.MinPrice {
				report.MinPrice = p
			}
			if p > report.MaxPrice {
				report.MaxPrice = p
				report.MostExpensive = l
			}
		}
		report.AveragePrice = round2(total / float64(len(priced)))
		report.MinPrice = round2(report.MinPrice)
		report.MaxPrice = round2(report.MaxPrice)
	}

	// Closest to campus
	byWalk := make([]*models.EnrichedListing, len(listings))
	copy(byWalk, listings)
	sort.SliceStable(byWalk, func(i, j int) bool {
		return byWalk[i].WalkTimeToCampusMin < byWalk[j].WalkTimeToCampusMin
	})
	if len(byWalk) > closestCount {
		byWalk = byWalk[:closestCount]
	}
	report.ClosestToCampus = byWalk

	s.logger.Debug("[insights] %d listings across %d buildings", report.TotalListings, report.BuildingsCovered)
	return report
}

func (s *InsightService) Print(r *models.InsightReport) {
	s.Fprint(os.Stdout, r)
}

func (s *InsightService) Fprint(w io.Writer, r *models.InsightReport) {
	sep := strings.Repeat("═", 54)
	thin := strings.Repeat("─", 54)

	fmt.Fprintf(w, "\n\033[1;35m%s\033[0m\n", sep)
	fmt.Fprintf(w, "\033[1;35m  🏠 KAMAP HOUSING INSIGHTS\033[0m\n")
	fmt.Fprintf(w, "\033[1;35m%s\033[0m\n\n", sep)

	// Overview
	fmt.Fprintf(w, "\033[1;33m  Overview\033[0m\n")
	fmt.Fprintf(w, "  %s\n", thin)
	fmt.Fprintf(w, "  Listings            : \033[1m%d\033[0m\n", r.TotalListings)
	fmt.Fprintf(w, "  Buildings covered   : \033[1m%d\033[0m\n", r.BuildingsCovered)
	fmt.Fprintf(w, "  Avg walk to campus  : \033[1m%.1f min\033[0m\n", r.AverageWalkMin)
	fmt.Fprintf(w, "  Avg noise           : \033[1m%.1f/10\033[0m\n", r.AverageNoise)
	fmt.Fprintln(w)

	// Price Stats
	fmt.Fprintf(w, "\033[1;33m  Rent (per month)\033[0m\n")
	fmt.Fprintf(w, "  %s\n", thin)
	if r.AveragePrice > 0 {
		fmt.Fprintf(w, "  Average : \033[1;32m$%.0f\033[0m\n", r.AveragePrice)
		fmt.Fprintf(w, "  Minimum : \033[1;32m$%.0f\033[0m\n", r.MinPrice)
		fmt.Fprintf(w, "  Maximum : \033[1;32m$%.0f\033[0m\n", r.MaxPrice)
		fmt.Fprintf(w, "  Bands   : %d under $2800, %d under $3500, %d above\n",
			r.PriceBands[PriceBandGreen], r.PriceBands[PriceBandOrange], r.PriceBands[PriceBandRed])
	} else {
		fmt.Fprintf(w, "  No price data available\n")
	}
	fmt.Fprintln(w)

	// Most Expensive
	if r.MostExpensive != nil {
		fmt.Fprintf(w, "\033[1;33m  Most Expensive Listing\033[0m\n")
		fmt.Fprintf(w, "  %s\n", thin)
		fmt.Fprintf(w, "  %s #%s\n", truncate(r.MostExpensive.Address, 44), r.MostExpensive.UnitNumber)
		fmt.Fprintf(w, "  Price : \033[1;31m$%.0f/month\033[0m\n", *r.MostExpensive.PriceMonthly)
		fmt.Fprintln(w)
	}

	// ── CLOSEST TO CAMPUS ────────────────────────────────────────────────
	fmt.Fprintf(w, "\033[1;33m  Closest to Campus\033[0m\n")
	fmt.Fprintf(w, "  %s\n", thin)
	if len(r.ClosestToCampus) == 0 {
		fmt.Fprintf(w, "  No geocoded listings\n")
	} else {
		for i, l := range r.ClosestToCampus {
			label := truncate(l.Address, 30) + " #" + l.UnitNumber
			fmt.Fprintf(w, "  \033[1m%d.\033[0m %-40s \033[1;32m%.1f min\033[0m\n",
				i+1, truncate(label, 40), l.WalkTimeToCampusMin)
		}
	}
	fmt.Fprintln(w)

	// Availability by month
	fmt.Fprintf(w, "\033[1;33m  Availability by Month\033[0m\n")
	fmt.Fprintf(w, "  %s\n", thin)
	if len(r.ListingsByMonth) == 0 {
		fmt.Fprintf(w, "  No availability data\n")
	} else {
		months := make([]string, 0, len(r.ListingsByMonth))
		for m := range r.ListingsByMonth {
			months = append(months, m)
		}
		sort.Strings(months)
		for _, m := range months {
			cnt := r.ListingsByMonth[m]
			fmt.Fprintf(w, "  %-10s %s (%d)\n", m, strings.Repeat("█", cnt), cnt)
		}
	}
	fmt.Fprintln(w)

	// Listings by bedroom count
	fmt.Fprintf(w, "\033[1;33m  Listings by Bedrooms\033[0m\n")
	fmt.Fprintf(w, "  %s\n", thin)
	beds := make([]int, 0, len(r.ListingsByBeds))
	for b := range r.ListingsByBeds {
		beds = append(beds, b)
	}
	sort.Ints(beds)
	for _, b := range beds {
		cnt := r.ListingsByBeds[b]
		fmt.Fprintf(w, "  %-10s %s (%d)\n", fmt.Sprintf("%d bed", b), strings.Repeat("█", cnt), cnt)
	}

	fmt.Fprintf(w, "\n\033[1;35m%s\033[0m\n\n", sep)
}

func round2(f float64) float64 {
	return float64(int(f*100+0.5)) / 100
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
