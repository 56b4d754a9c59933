package cards

import (
	"github.com/jyl33/cardscanner-backend/internal/psa"
	"github.com/jyl33/cardscanner-backend/pkg/db/models"
)

// IngestInput is the payload to add a scanned card to inventory.
type IngestInput struct {
	Cert  psa.Certification
	Cost  string
	Value string
}

// ListInput carries the raw filter criteria from the query string.
type ListInput struct {
	Query    string
	Grades   []string
	Statuses []string
	MinPrice string
	MaxPrice string
	MinYear  string
	MaxYear  string
}

// ListResult is the filtered collection plus the derived options and the
// active-filter badge count.
type ListResult struct {
	Cards         []models.Card `json:"cards"`
	Total         int           `json:"total"`
	ActiveFilters int           `json:"active_filters"`
	Options       FilterOptions `json:"filter_options"`
}
