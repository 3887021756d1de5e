// Package analytics computes the business aggregate views over a
// validated sales record set.
//
// Every view is a pure function of its input: the engine holds no state
// between calls, performs no I/O, and returns freshly constructed
// results with no aliasing between them. An empty record set yields
// empty or zero-valued results, never an error.
package analytics

import (
	"sort"

	"sales-analytics-service/internal/models"
	"sales-analytics-service/pkg/errors"

	"github.com/shopspring/decimal"
)

// RegionStats aggregates revenue for one region
type RegionStats struct {
	Total      decimal.Decimal `json:"total"`
	Count      int             `json:"count"`
	Percentage decimal.Decimal `json:"percentage"`
}

// ProductStats aggregates quantity and revenue for one product
type ProductStats struct {
	ProductName   string          `json:"product_name"`
	TotalQuantity int64           `json:"total_quantity"`
	Revenue       decimal.Decimal `json:"revenue"`
}

// CustomerStats aggregates purchasing behavior for one customer
type CustomerStats struct {
	TotalSpent        decimal.Decimal `json:"total_spent"`
	OrderCount        int             `json:"order_count"`
	AverageOrderValue decimal.Decimal `json:"average_order_value"`
	Products          []string        `json:"products"`
}

// DailyStats aggregates activity for one date token
type DailyStats struct {
	Revenue          decimal.Decimal `json:"revenue"`
	TransactionCount int             `json:"transaction_count"`
	UniqueCustomers  int             `json:"unique_customers"`
}

// DayRevenue pairs a date token with its revenue
type DayRevenue struct {
	Date    string          `json:"date"`
	Revenue decimal.Decimal `json:"revenue"`
}

// Engine computes aggregate views from validated record sets
type Engine struct {
	config *Config
}

// NewEngine creates an aggregation engine with the given configuration
func NewEngine(config *Config) (*Engine, error) {
	if config == nil {
		config = DefaultConfig()
	}

	if err := config.Validate(); err != nil {
		return nil, errors.ConfigurationError(
			errors.CodeInvalidConfig,
			"analytics_config",
			config,
			err,
		).WithSuggestion("Check the analytics configuration values")
	}

	return &Engine{config: config}, nil
}

// TotalRevenue returns the sum of quantity × unit price over all records
func (e *Engine) TotalRevenue(records []*models.SalesRecord) decimal.Decimal {
	total := decimal.Zero
	for _, r := range records {
		total = total.Add(r.LineAmount())
	}
	return total
}

// RegionStatistics returns per-region totals, record counts, and each
// region's percentage of the grand total rounded to two decimal places.
// A zero grand total yields zero percentages rather than an error.
func (e *Engine) RegionStatistics(records []*models.SalesRecord) map[string]RegionStats {
	stats := make(map[string]RegionStats)

	grandTotal := decimal.Zero
	for _, r := range records {
		amount := r.LineAmount()
		entry := stats[r.Region]
		entry.Total = entry.Total.Add(amount)
		entry.Count++
		stats[r.Region] = entry
		grandTotal = grandTotal.Add(amount)
	}

	hundred := decimal.NewFromInt(100)
	for region, entry := range stats {
		if grandTotal.IsZero() {
			entry.Percentage = decimal.Zero
		} else {
			entry.Percentage = entry.Total.Div(grandTotal).Mul(hundred).Round(2)
		}
		stats[region] = entry
	}

	return stats
}

// TopProducts groups records by product name, sums quantity and
// revenue, and returns the first N products ordered by total quantity
// descending. Ties keep the original encounter order.
func (e *Engine) TopProducts(records []*models.SalesRecord) []ProductStats {
	ranked := e.productStats(records)

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].TotalQuantity > ranked[j].TotalQuantity
	})

	if len(ranked) > e.config.TopProductCount {
		ranked = ranked[:e.config.TopProductCount]
	}

	return ranked
}

// LowPerformingProducts returns every product whose total quantity is
// strictly below the configured threshold, each exactly once, in
// encounter order.
func (e *Engine) LowPerformingProducts(records []*models.SalesRecord) []ProductStats {
	var low []ProductStats
	for _, product := range e.productStats(records) {
		if product.TotalQuantity < e.config.LowQuantityThreshold {
			low = append(low, product)
		}
	}
	return low
}

// productStats aggregates quantity and revenue per product name,
// preserving the order in which products are first encountered.
func (e *Engine) productStats(records []*models.SalesRecord) []ProductStats {
	index := make(map[string]int)
	var ordered []ProductStats

	for _, r := range records {
		i, seen := index[r.ProductName]
		if !seen {
			i = len(ordered)
			index[r.ProductName] = i
			ordered = append(ordered, ProductStats{ProductName: r.ProductName})
		}
		ordered[i].TotalQuantity += r.Quantity
		ordered[i].Revenue = ordered[i].Revenue.Add(r.LineAmount())
	}

	return ordered
}

// CustomerAnalysis returns per-customer spending behavior: total spent,
// purchase count, average order value, and the distinct product names
// purchased (sorted for deterministic output).
func (e *Engine) CustomerAnalysis(records []*models.SalesRecord) map[string]CustomerStats {
	type accumulator struct {
		spent    decimal.Decimal
		orders   int
		products map[string]struct{}
	}

	acc := make(map[string]*accumulator)
	for _, r := range records {
		a, ok := acc[r.CustomerID]
		if !ok {
			a = &accumulator{products: make(map[string]struct{})}
			acc[r.CustomerID] = a
		}
		a.spent = a.spent.Add(r.LineAmount())
		a.orders++
		a.products[r.ProductName] = struct{}{}
	}

	stats := make(map[string]CustomerStats, len(acc))
	for customerID, a := range acc {
		products := make([]string, 0, len(a.products))
		for name := range a.products {
			products = append(products, name)
		}
		sort.Strings(products)

		stats[customerID] = CustomerStats{
			TotalSpent:        a.spent,
			OrderCount:        a.orders,
			AverageOrderValue: a.spent.Div(decimal.NewFromInt(int64(a.orders))),
			Products:          products,
		}
	}

	return stats
}

// DailyTrend returns per-date revenue, transaction count, and distinct
// customer count. Dates are opaque sortable tokens.
func (e *Engine) DailyTrend(records []*models.SalesRecord) map[string]DailyStats {
	customers := make(map[string]map[string]struct{})
	stats := make(map[string]DailyStats)

	for _, r := range records {
		entry := stats[r.Date]
		entry.Revenue = entry.Revenue.Add(r.LineAmount())
		entry.TransactionCount++
		stats[r.Date] = entry

		if customers[r.Date] == nil {
			customers[r.Date] = make(map[string]struct{})
		}
		customers[r.Date][r.CustomerID] = struct{}{}
	}

	for date, entry := range stats {
		entry.UniqueCustomers = len(customers[date])
		stats[date] = entry
	}

	return stats
}

// PeakSalesDay returns the date with the highest daily revenue. Ties
// resolve to the lexically earliest date token. The second return is
// false for an empty record set.
func (e *Engine) PeakSalesDay(records []*models.SalesRecord) (DayRevenue, bool) {
	trend := e.DailyTrend(records)
	if len(trend) == 0 {
		return DayRevenue{Revenue: decimal.Zero}, false
	}

	dates := make([]string, 0, len(trend))
	for date := range trend {
		dates = append(dates, date)
	}
	sort.Strings(dates)

	peak := DayRevenue{Date: dates[0], Revenue: trend[dates[0]].Revenue}
	for _, date := range dates[1:] {
		if trend[date].Revenue.GreaterThan(peak.Revenue) {
			peak = DayRevenue{Date: date, Revenue: trend[date].Revenue}
		}
	}

	return peak, true
}
