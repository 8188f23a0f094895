package api

import (
	"sync"

	"kamap-housing/models"
	"kamap-housing/storage"
)

// Dataset is the in-memory listing table the API serves. It can be swapped
// out while requests are in flight.
type Dataset struct {
	mu       sync.RWMutex
	listings []*models.EnrichedListing
}

// NewDataset wraps listings.
func NewDataset(listings []*models.EnrichedListing) *Dataset {
	return &Dataset{listings: listings}
}

// LoadDataset reads an enriched CSV.
func LoadDataset(path string) (*Dataset, error) {
	listings, err := storage.ReadEnriched(path)
	if err != nil {
		return nil, err
	}
	return NewDataset(listings), nil
}

// Listings returns the current snapshot. Callers must not modify it.
func (d *Dataset) Listings() []*models.EnrichedListing {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.listings
}

// Replace swaps in a new snapshot.
func (d *Dataset) Replace(listings []*models.EnrichedListing) {
	d.mu.Lock()
	d.listings = listings
	d.mu.Unlock()
}
