package api

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"kamap-housing/models"
	"kamap-housing/services"
	"kamap-housing/storage"
	"kamap-housing/utils"
)

// ListingHandler serves listing queries over a Dataset.
type ListingHandler struct {
	data     *Dataset
	insights *services.InsightService
	logger   *utils.Logger
	now      func() time.Time
}

// NewListingHandler creates a ListingHandler.
func NewListingHandler(data *Dataset, insights *services.InsightService, logger *utils.Logger) *ListingHandler {
	return &ListingHandler{data: data, insights: insights, logger: logger, now: time.Now}
}

func (h *ListingHandler) filtered(w http.ResponseWriter, r *http.Request) ([]*models.EnrichedListing, bool) {
	f, err := ParseFilter(r.URL.Query())
	if err != nil {
		WriteJSONError(w, http.StatusBadRequest, err.Error())
		return nil, false
	}
	return f.Apply(h.data.Listings()), true
}

// FindListings handles GET /api/v1/listings.
func (h *ListingHandler) FindListings(w http.ResponseWriter, r *http.Request) {
	listings, ok := h.filtered(w, r)
	if !ok {
		return
	}
	limit, err := GetLimitOrDefault(r)
	if err != nil {
		WriteJSONError(w, http.StatusBadRequest, err.Error())
		return
	}
	offset, err := GetOffsetOrDefault(r)
	if err != nil {
		WriteJSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	total := len(listings)
	page := listings[min(offset, total):]
	if limit > 0 && limit < len(page) {
		page = page[:limit]
	}

	RespondWithJSON(w, http.StatusOK, ListingsResponse{
		Total:    total,
		Limit:    limit,
		Offset:   offset,
		Listings: toListingDTOs(page),
	})
}

// GetListing handles GET /api/v1/listings/{listingID}. A unit listed for
// several dates returns one entry per date.
func (h *ListingHandler) GetListing(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "listingID")

	var matches []*models.EnrichedListing
	for _, l := range h.data.Listings() {
		if l.ListingID == id {
			matches = append(matches, l)
		}
	}
	if len(matches) == 0 {
		WriteJSONError(w, http.StatusNotFound, fmt.Sprintf("listing %q not found", id))
		return
	}
	RespondWithJSON(w, http.StatusOK, toListingDTOs(matches))
}

// GetStats handles GET /api/v1/stats.
func (h *ListingHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	listings, ok := h.filtered(w, r)
	if !ok {
		return
	}
	RespondWithJSON(w, http.StatusOK, toStatsResponse(h.insights.Generate(listings)))
}

// GetFilterOptions handles GET /api/v1/filters/options.
func (h *ListingHandler) GetFilterOptions(w http.ResponseWriter, _ *http.Request) {
	RespondWithJSON(w, http.StatusOK, toFilterOptions(h.data.Listings()))
}

// ExportCSV handles GET /api/v1/export.csv, streaming the filtered table.
func (h *ListingHandler) ExportCSV(w http.ResponseWriter, r *http.Request) {
	listings, ok := h.filtered(w, r)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := storage.WriteEnrichedTo(&buf, listings); err != nil {
		h.logger.With("trace_id", TraceID(r.Context())).Error("[api] export failed: %v", err)
		WriteJSONError(w, http.StatusInternalServerError, "export failed")
		return
	}

	name := fmt.Sprintf("ucsb_housing_filtered_%s.csv", h.now().Format("20060102"))
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}
