package reporter

import (
	"sort"

	"github.com/shopspring/decimal"

	"sales-analytics-service/internal/models"
)

// UnmatchedProductNames returns the distinct product names of records
// that found no catalog match, sorted alphabetically.
func UnmatchedProductNames(records []*models.EnrichedRecord) []string {
	seen := make(map[string]struct{})
	for _, record := range records {
		if record == nil || record.Matched {
			continue
		}
		seen[record.ProductName] = struct{}{}
	}

	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// DateRange returns the lexically smallest and largest date tokens in
// the record set. Both are empty when the set is empty.
func DateRange(records []*models.SalesRecord) (first, last string) {
	for _, record := range records {
		if record == nil {
			continue
		}
		if first == "" || record.Date < first {
			first = record.Date
		}
		if record.Date > last {
			last = record.Date
		}
	}
	return first, last
}

// AverageOrderValue divides total revenue by the record count, rounded
// to two decimal places. Zero when the set is empty.
func AverageOrderValue(total decimal.Decimal, count int) decimal.Decimal {
	if count == 0 {
		return decimal.Zero
	}
	return total.Div(decimal.NewFromInt(int64(count))).Round(2)
}
