// Package validator applies the business acceptance rules to parsed
// sales records and the optional caller-supplied filters that follow.
//
// Validation and filtering are separate stages: a record that fails an
// acceptance rule is invalid and dropped; a record removed by a filter
// was valid but out of the caller's scope. The two are counted
// separately in the FilterSummary.
package validator

import (
	"fmt"

	"sales-analytics-service/internal/models"
	"sales-analytics-service/pkg/logger"

	"github.com/shopspring/decimal"
)

// Criteria holds the optional post-validation filters. Each filter is
// independently toggled: a nil amount bound or empty region disables
// that filter. Filters apply in fixed order: region, minimum line
// amount, maximum line amount.
type Criteria struct {
	Region    string
	MinAmount *decimal.Decimal
	MaxAmount *decimal.Decimal
}

// HasFilters returns true if any filter is active
func (c Criteria) HasFilters() bool {
	return c.Region != "" || c.MinAmount != nil || c.MaxAmount != nil
}

// FilterSummary describes what validation and filtering removed.
//
// FilteredByRegion and FilteredByAmount are each computed against the
// full validated set, not against the output of the preceding filter
// stage: FilteredByRegion = valid - |valid records in the region|, and
// FilteredByAmount counts validated records outside the min/max bounds
// regardless of their region. Callers replicating these numbers must
// use the same convention. FinalCount reflects the sequentially
// filtered record stream and can therefore be smaller than
// valid - FilteredByRegion - FilteredByAmount would suggest.
type FilterSummary struct {
	TotalInput       int `json:"total_input"`
	Invalid          int `json:"invalid"`
	FilteredByRegion int `json:"filtered_by_region"`
	FilteredByAmount int `json:"filtered_by_amount"`
	FinalCount       int `json:"final_count"`
}

// String returns a human-readable summary
func (fs FilterSummary) String() string {
	return fmt.Sprintf("Input %d, invalid %d, filtered by region %d, filtered by amount %d, final %d",
		fs.TotalInput, fs.Invalid, fs.FilteredByRegion, fs.FilteredByAmount, fs.FinalCount)
}

// Validator validates records against a schema and applies filters
type Validator struct {
	schema models.Schema
	logger logger.Logger
}

// NewValidator creates a Validator for the given identifier schema
func NewValidator(schema models.Schema) (*Validator, error) {
	if err := schema.Validate(); err != nil {
		return nil, fmt.Errorf("invalid schema: %w", err)
	}

	return &Validator{
		schema: schema,
		logger: logger.WithComponent("validator"),
	}, nil
}

// Validate applies the business acceptance rules to each record and
// returns the surviving records plus the count of invalid ones.
// Records failing any rule are dropped whole; no partial records are
// retained.
func (v *Validator) Validate(records []*models.SalesRecord) ([]*models.SalesRecord, int) {
	valid := make([]*models.SalesRecord, 0, len(records))
	invalid := 0

	for _, record := range records {
		if err := record.Validate(v.schema); err != nil {
			v.logger.WithError(err).WithField("transaction_id", record.TransactionID).
				Debug("Record failed validation")
			invalid++
			continue
		}
		valid = append(valid, record)
	}

	return valid, invalid
}

// Apply validates the records and then applies the optional filters in
// fixed order, returning the final record set and a FilterSummary.
func (v *Validator) Apply(records []*models.SalesRecord, criteria Criteria) ([]*models.SalesRecord, FilterSummary) {
	summary := FilterSummary{TotalInput: len(records)}

	valid, invalid := v.Validate(records)
	summary.Invalid = invalid

	// Removal counts are measured against the validated set, each
	// filter independently, while the stream itself is filtered
	// sequentially.
	if criteria.Region != "" {
		summary.FilteredByRegion = countRemoved(valid, func(r *models.SalesRecord) bool {
			return r.Region == criteria.Region
		})
	}
	if criteria.MinAmount != nil {
		summary.FilteredByAmount += countRemoved(valid, func(r *models.SalesRecord) bool {
			return r.LineAmount().GreaterThanOrEqual(*criteria.MinAmount)
		})
	}
	if criteria.MaxAmount != nil {
		summary.FilteredByAmount += countRemoved(valid, func(r *models.SalesRecord) bool {
			return r.LineAmount().LessThanOrEqual(*criteria.MaxAmount)
		})
	}

	final := valid
	if criteria.Region != "" {
		final = keep(final, func(r *models.SalesRecord) bool {
			return r.Region == criteria.Region
		})
	}
	if criteria.MinAmount != nil {
		final = keep(final, func(r *models.SalesRecord) bool {
			return r.LineAmount().GreaterThanOrEqual(*criteria.MinAmount)
		})
	}
	if criteria.MaxAmount != nil {
		final = keep(final, func(r *models.SalesRecord) bool {
			return r.LineAmount().LessThanOrEqual(*criteria.MaxAmount)
		})
	}

	summary.FinalCount = len(final)

	v.logger.WithFields(logger.Fields{
		"total_input":        summary.TotalInput,
		"invalid":            summary.Invalid,
		"filtered_by_region": summary.FilteredByRegion,
		"filtered_by_amount": summary.FilteredByAmount,
		"final_count":        summary.FinalCount,
	}).Info("Validation and filtering completed")

	return final, summary
}

func keep(records []*models.SalesRecord, pred func(*models.SalesRecord) bool) []*models.SalesRecord {
	kept := make([]*models.SalesRecord, 0, len(records))
	for _, r := range records {
		if pred(r) {
			kept = append(kept, r)
		}
	}
	return kept
}

func countRemoved(records []*models.SalesRecord, pred func(*models.SalesRecord) bool) int {
	removed := 0
	for _, r := range records {
		if !pred(r) {
			removed++
		}
	}
	return removed
}
