// Package enrich joins validated sales records against the external
// product catalog.
//
// The join key is the numeric portion of the record's product
// identifier. Anything that goes wrong for a single record (no digits
// in the identifier, no catalog entry for the key) degrades that
// record to "unmatched"; enrichment never fails on malformed input.
// Originals are never mutated; enrichment produces copies.
package enrich

import (
	"fmt"
	"strconv"
	"strings"

	"sales-analytics-service/internal/models"
	"sales-analytics-service/pkg/logger"
)

// EnrichStats summarizes a single enrichment pass
type EnrichStats struct {
	Total   int `json:"total"`
	Matched int `json:"matched"`
}

// Unmatched returns the number of records without a catalog match
func (es EnrichStats) Unmatched() int {
	return es.Total - es.Matched
}

// SuccessRate returns the matched fraction as a percentage
func (es EnrichStats) SuccessRate() float64 {
	if es.Total == 0 {
		return 0
	}
	return float64(es.Matched) / float64(es.Total) * 100
}

// String returns a human-readable summary
func (es EnrichStats) String() string {
	return fmt.Sprintf("Enriched %d/%d records (%.2f%%)", es.Matched, es.Total, es.SuccessRate())
}

// ExtractCatalogKey strips all non-digit characters from a product
// identifier and parses the remainder as the numeric catalog key.
// The boolean is false when the identifier contains no digits (or the
// digit run overflows an int64).
func ExtractCatalogKey(productID string) (int64, bool) {
	var digits strings.Builder
	for _, r := range productID {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}

	if digits.Len() == 0 {
		return 0, false
	}

	key, err := strconv.ParseInt(digits.String(), 10, 64)
	if err != nil {
		return 0, false
	}

	return key, true
}

// Enricher produces enriched record copies from a catalog mapping
type Enricher struct {
	logger logger.Logger
}

// NewEnricher creates an Enricher
func NewEnricher() *Enricher {
	return &Enricher{
		logger: logger.WithComponent("enricher"),
	}
}

// Enrich returns one enriched copy per input record, in input order,
// plus matched/total diagnostics. An empty or nil mapping yields all
// records unmatched; an empty catalog is a degraded state, not an
// error.
func (e *Enricher) Enrich(records []*models.SalesRecord, mapping map[int64]models.CatalogEntry) ([]*models.EnrichedRecord, EnrichStats) {
	enriched := make([]*models.EnrichedRecord, 0, len(records))
	stats := EnrichStats{Total: len(records)}

	for _, record := range records {
		copy := &models.EnrichedRecord{SalesRecord: *record}

		if key, ok := ExtractCatalogKey(record.ProductID); ok {
			if entry, found := mapping[key]; found {
				copy.Category = entry.Category
				copy.Brand = entry.Brand
				copy.Rating = entry.Rating
				copy.Matched = true
				stats.Matched++
			}
		}

		enriched = append(enriched, copy)
	}

	e.logger.WithFields(logger.Fields{
		"total":   stats.Total,
		"matched": stats.Matched,
	}).Info("Catalog enrichment completed")

	return enriched, stats
}
