// Package reporter renders analysis results as reports and as the
// pipe-delimited enriched-record file.
//
// Supported output formats:
//   - Console: human-readable sectioned text for terminal display
//   - JSON: structured data format for programmatic consumption
//
// The console report mirrors the sections of the operational summary:
// overall totals, region performance, product rankings, customer
// analysis, daily trend, and enrichment results.
package reporter

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"sales-analytics-service/internal/analytics"
	"sales-analytics-service/internal/enrich"
	"sales-analytics-service/internal/parsers"
	"sales-analytics-service/internal/validator"
)

// OutputFormat represents the supported report output formats
type OutputFormat string

const (
	FormatConsole OutputFormat = "console"
	FormatJSON    OutputFormat = "json"
)

// IsValid checks if the output format is supported
func (f OutputFormat) IsValid() bool {
	switch f {
	case FormatConsole, FormatJSON:
		return true
	default:
		return false
	}
}

// AnalysisResult collects everything a single pipeline run produced.
// It is the sole input to report generation.
type AnalysisResult struct {
	RunID       string    `json:"run_id"`
	GeneratedAt time.Time `json:"generated_at"`
	SourceFile  string    `json:"source_file"`

	ParseStats    *parsers.ParseStats     `json:"parse_stats"`
	FilterSummary validator.FilterSummary `json:"filter_summary"`

	TotalRevenue      decimal.Decimal `json:"total_revenue"`
	AverageOrderValue decimal.Decimal `json:"average_order_value"`
	FirstDate         string          `json:"first_date"`
	LastDate          string          `json:"last_date"`

	RegionStats   map[string]analytics.RegionStats   `json:"region_stats"`
	TopProducts   []analytics.ProductStats           `json:"top_products"`
	LowPerformers []analytics.ProductStats           `json:"low_performers"`
	Customers     map[string]analytics.CustomerStats `json:"customers"`
	DailyTrend    map[string]analytics.DailyStats    `json:"daily_trend"`
	PeakDay       analytics.DayRevenue               `json:"peak_day"`
	HasPeakDay    bool                               `json:"has_peak_day"`

	EnrichmentSkipped bool               `json:"enrichment_skipped"`
	EnrichStats       enrich.EnrichStats `json:"enrich_stats"`
	UnmatchedProducts []string           `json:"unmatched_products"`
}

// NewAnalysisResult creates a result shell with a fresh run id and
// timestamp. Pipeline stages fill in the rest.
func NewAnalysisResult(sourceFile string) *AnalysisResult {
	return &AnalysisResult{
		RunID:       uuid.New().String(),
		GeneratedAt: time.Now(),
		SourceFile:  sourceFile,
	}
}

// RecordCount returns the number of records the aggregates were
// computed from.
func (r *AnalysisResult) RecordCount() int {
	return r.FilterSummary.FinalCount
}

// ReportConfig holds configuration options for report generation
type ReportConfig struct {
	Format OutputFormat `json:"format"`

	IncludeCustomerAnalysis bool `json:"include_customer_analysis"`
	IncludeDailyTrend       bool `json:"include_daily_trend"`
	IncludeEnrichment       bool `json:"include_enrichment"`

	// Caps on list-style sections
	TopCustomerCount   int `json:"top_customer_count"`
	MaxUnmatchedListed int `json:"max_unmatched_listed"`
}

// DefaultReportConfig returns a default report configuration
func DefaultReportConfig() *ReportConfig {
	return &ReportConfig{
		Format:                  FormatConsole,
		IncludeCustomerAnalysis: true,
		IncludeDailyTrend:       true,
		IncludeEnrichment:       true,
		TopCustomerCount:        5,
		MaxUnmatchedListed:      10,
	}
}

// Validate validates the report configuration
func (c *ReportConfig) Validate() error {
	if !c.Format.IsValid() {
		return fmt.Errorf("invalid output format: %s", c.Format)
	}
	if c.TopCustomerCount < 1 {
		return fmt.Errorf("top customer count must be at least 1, got %d", c.TopCustomerCount)
	}
	if c.MaxUnmatchedListed < 0 {
		return fmt.Errorf("max unmatched listed cannot be negative, got %d", c.MaxUnmatchedListed)
	}
	return nil
}

// ReportGenerator generates analysis reports in various formats
type ReportGenerator struct {
	config *ReportConfig
}

// NewReportGenerator creates a report generator with the specified configuration
func NewReportGenerator(config *ReportConfig) (*ReportGenerator, error) {
	if config == nil {
		config = DefaultReportConfig()
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid report configuration: %w", err)
	}

	return &ReportGenerator{config: config}, nil
}

// GenerateReport renders the result to the writer in the configured format
func (rg *ReportGenerator) GenerateReport(result *AnalysisResult, writer io.Writer) error {
	if result == nil {
		return fmt.Errorf("analysis result cannot be nil")
	}
	if writer == nil {
		return fmt.Errorf("writer cannot be nil")
	}

	switch rg.config.Format {
	case FormatConsole:
		return rg.generateConsoleReport(result, writer)
	case FormatJSON:
		return rg.generateJSONReport(result, writer)
	default:
		return fmt.Errorf("unsupported output format: %s", rg.config.Format)
	}
}

func (rg *ReportGenerator) generateConsoleReport(result *AnalysisResult, writer io.Writer) error {
	fmt.Fprintf(writer, "SALES ANALYTICS REPORT\n")
	fmt.Fprintf(writer, "Generated: %s\n", result.GeneratedAt.Format(time.RFC3339))
	fmt.Fprintf(writer, "Run ID: %s\n", result.RunID)
	if result.SourceFile != "" {
		fmt.Fprintf(writer, "Source: %s\n", result.SourceFile)
	}
	fmt.Fprintf(writer, "\n")

	fmt.Fprintf(writer, "=== OVERALL SUMMARY ===\n")
	rg.printOverallSummary(result, writer)
	fmt.Fprintf(writer, "\n")

	if result.RecordCount() == 0 {
		fmt.Fprintf(writer, "No records remained after validation and filtering.\n")
		return nil
	}

	fmt.Fprintf(writer, "=== REGION PERFORMANCE ===\n")
	rg.printRegionPerformance(result, writer)
	fmt.Fprintf(writer, "\n")

	fmt.Fprintf(writer, "=== TOP PRODUCTS BY QUANTITY ===\n")
	rg.printProductList(result.TopProducts, writer)
	fmt.Fprintf(writer, "\n")

	fmt.Fprintf(writer, "=== LOW PERFORMING PRODUCTS ===\n")
	if len(result.LowPerformers) == 0 {
		fmt.Fprintf(writer, "None\n")
	} else {
		rg.printProductList(result.LowPerformers, writer)
	}
	fmt.Fprintf(writer, "\n")

	if rg.config.IncludeCustomerAnalysis {
		fmt.Fprintf(writer, "=== TOP CUSTOMERS BY SPEND ===\n")
		rg.printTopCustomers(result, writer)
		fmt.Fprintf(writer, "\n")
	}

	if rg.config.IncludeDailyTrend {
		fmt.Fprintf(writer, "=== DAILY TREND ===\n")
		rg.printDailyTrend(result, writer)
		fmt.Fprintf(writer, "\n")
	}

	if rg.config.IncludeEnrichment {
		fmt.Fprintf(writer, "=== CATALOG ENRICHMENT ===\n")
		rg.printEnrichmentSummary(result, writer)
	}

	return nil
}

func (rg *ReportGenerator) generateJSONReport(result *AnalysisResult, writer io.Writer) error {
	encoder := json.NewEncoder(writer)
	encoder.SetIndent("", "  ")
	return encoder.Encode(result)
}

func (rg *ReportGenerator) printOverallSummary(result *AnalysisResult, writer io.Writer) {
	if result.ParseStats != nil {
		fmt.Fprintf(writer, "Lines Read:            %d\n", result.ParseStats.TotalLines)
		fmt.Fprintf(writer, "Records Parsed:        %d\n", result.ParseStats.RecordsValid)
		fmt.Fprintf(writer, "Records Rejected:      %d\n", result.ParseStats.RecordsRejected)
	}
	fmt.Fprintf(writer, "Filtered by Region:    %d\n", result.FilterSummary.FilteredByRegion)
	fmt.Fprintf(writer, "Filtered by Amount:    %d\n", result.FilterSummary.FilteredByAmount)
	fmt.Fprintf(writer, "Records Analyzed:      %d\n", result.RecordCount())
	fmt.Fprintf(writer, "Total Revenue:         %s\n", result.TotalRevenue.StringFixed(2))
	fmt.Fprintf(writer, "Average Order Value:   %s\n", result.AverageOrderValue.StringFixed(2))
	if result.FirstDate != "" {
		fmt.Fprintf(writer, "Date Range:            %s to %s\n", result.FirstDate, result.LastDate)
	}
}

func (rg *ReportGenerator) printRegionPerformance(result *AnalysisResult, writer io.Writer) {
	type regionRow struct {
		name  string
		stats analytics.RegionStats
	}

	rows := make([]regionRow, 0, len(result.RegionStats))
	for name, stats := range result.RegionStats {
		rows = append(rows, regionRow{name: name, stats: stats})
	}
	sort.Slice(rows, func(i, j int) bool {
		if !rows[i].stats.Total.Equal(rows[j].stats.Total) {
			return rows[i].stats.Total.GreaterThan(rows[j].stats.Total)
		}
		return rows[i].name < rows[j].name
	})

	fmt.Fprintf(writer, "%-15s %12s %8s %8s\n", "Region", "Revenue", "Count", "Share")
	fmt.Fprintf(writer, "%s\n", strings.Repeat("-", 46))
	for _, row := range rows {
		fmt.Fprintf(writer, "%-15s %12s %8d %7s%%\n",
			row.name,
			row.stats.Total.StringFixed(2),
			row.stats.Count,
			row.stats.Percentage.StringFixed(2))
	}
}

func (rg *ReportGenerator) printProductList(products []analytics.ProductStats, writer io.Writer) {
	fmt.Fprintf(writer, "%-30s %10s %12s\n", "Product", "Quantity", "Revenue")
	fmt.Fprintf(writer, "%s\n", strings.Repeat("-", 54))
	for _, p := range products {
		fmt.Fprintf(writer, "%-30s %10d %12s\n",
			truncateName(p.ProductName, 30),
			p.TotalQuantity,
			p.Revenue.StringFixed(2))
	}
}

func (rg *ReportGenerator) printTopCustomers(result *AnalysisResult, writer io.Writer) {
	type customerRow struct {
		id    string
		stats analytics.CustomerStats
	}

	rows := make([]customerRow, 0, len(result.Customers))
	for id, stats := range result.Customers {
		rows = append(rows, customerRow{id: id, stats: stats})
	}
	sort.Slice(rows, func(i, j int) bool {
		if !rows[i].stats.TotalSpent.Equal(rows[j].stats.TotalSpent) {
			return rows[i].stats.TotalSpent.GreaterThan(rows[j].stats.TotalSpent)
		}
		return rows[i].id < rows[j].id
	})

	if len(rows) > rg.config.TopCustomerCount {
		rows = rows[:rg.config.TopCustomerCount]
	}

	fmt.Fprintf(writer, "%-12s %12s %8s %12s\n", "Customer", "Spent", "Orders", "Avg Order")
	fmt.Fprintf(writer, "%s\n", strings.Repeat("-", 48))
	for _, row := range rows {
		fmt.Fprintf(writer, "%-12s %12s %8d %12s\n",
			row.id,
			row.stats.TotalSpent.StringFixed(2),
			row.stats.OrderCount,
			row.stats.AverageOrderValue.StringFixed(2))
	}
}

func (rg *ReportGenerator) printDailyTrend(result *AnalysisResult, writer io.Writer) {
	dates := make([]string, 0, len(result.DailyTrend))
	for date := range result.DailyTrend {
		dates = append(dates, date)
	}
	sort.Strings(dates)

	fmt.Fprintf(writer, "%-12s %12s %8s %10s\n", "Date", "Revenue", "Txns", "Customers")
	fmt.Fprintf(writer, "%s\n", strings.Repeat("-", 46))
	for _, date := range dates {
		stats := result.DailyTrend[date]
		fmt.Fprintf(writer, "%-12s %12s %8d %10d\n",
			date,
			stats.Revenue.StringFixed(2),
			stats.TransactionCount,
			stats.UniqueCustomers)
	}

	if result.HasPeakDay {
		fmt.Fprintf(writer, "Peak Sales Day: %s (%s)\n",
			result.PeakDay.Date, result.PeakDay.Revenue.StringFixed(2))
	}
}

func (rg *ReportGenerator) printEnrichmentSummary(result *AnalysisResult, writer io.Writer) {
	if result.EnrichmentSkipped {
		fmt.Fprintf(writer, "Enrichment skipped.\n")
		return
	}

	fmt.Fprintf(writer, "Records Matched:   %d of %d (%.1f%%)\n",
		result.EnrichStats.Matched,
		result.EnrichStats.Total,
		result.EnrichStats.SuccessRate())

	if len(result.UnmatchedProducts) == 0 {
		return
	}

	listed := result.UnmatchedProducts
	if len(listed) > rg.config.MaxUnmatchedListed {
		listed = listed[:rg.config.MaxUnmatchedListed]
	}
	fmt.Fprintf(writer, "Unmatched Products:\n")
	for _, name := range listed {
		fmt.Fprintf(writer, "  - %s\n", name)
	}
	if remaining := len(result.UnmatchedProducts) - len(listed); remaining > 0 {
		fmt.Fprintf(writer, "  ... and %d more\n", remaining)
	}
}

func truncateName(name string, max int) string {
	if len(name) <= max {
		return name
	}
	if max <= 3 {
		return name[:max]
	}
	return name[:max-3] + "..."
}
