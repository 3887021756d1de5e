package reporter

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"sales-analytics-service/internal/analytics"
	"sales-analytics-service/internal/enrich"
	"sales-analytics-service/internal/models"
	"sales-analytics-service/internal/parsers"
	"sales-analytics-service/internal/validator"
)

func sampleResult() *AnalysisResult {
	result := NewAnalysisResult("sales_data.txt")
	result.GeneratedAt = time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC)
	result.ParseStats = &parsers.ParseStats{
		TotalLines:      10,
		RecordsValid:    8,
		RecordsRejected: 2,
	}
	result.FilterSummary = validator.FilterSummary{
		TotalInput:       8,
		FilteredByRegion: 2,
		FilteredByAmount: 1,
		FinalCount:       5,
	}
	result.TotalRevenue = decimal.NewFromInt(1250)
	result.AverageOrderValue = decimal.NewFromInt(250)
	result.FirstDate = "2024-03-01"
	result.LastDate = "2024-03-03"
	result.RegionStats = map[string]analytics.RegionStats{
		"North": {Total: decimal.NewFromInt(750), Count: 3, Percentage: decimal.NewFromInt(60)},
		"South": {Total: decimal.NewFromInt(500), Count: 2, Percentage: decimal.NewFromInt(40)},
	}
	result.TopProducts = []analytics.ProductStats{
		{ProductName: "Laptop", TotalQuantity: 12, Revenue: decimal.NewFromInt(900)},
		{ProductName: "Mouse", TotalQuantity: 8, Revenue: decimal.NewFromInt(350)},
	}
	result.LowPerformers = []analytics.ProductStats{
		{ProductName: "Webcam", TotalQuantity: 3, Revenue: decimal.NewFromInt(90)},
	}
	result.Customers = map[string]analytics.CustomerStats{
		"C001": {TotalSpent: decimal.NewFromInt(800), OrderCount: 3, AverageOrderValue: decimal.NewFromFloat(266.67)},
		"C002": {TotalSpent: decimal.NewFromInt(450), OrderCount: 2, AverageOrderValue: decimal.NewFromInt(225)},
	}
	result.DailyTrend = map[string]analytics.DailyStats{
		"2024-03-01": {Revenue: decimal.NewFromInt(500), TransactionCount: 2, UniqueCustomers: 2},
		"2024-03-03": {Revenue: decimal.NewFromInt(750), TransactionCount: 3, UniqueCustomers: 2},
	}
	result.PeakDay = analytics.DayRevenue{Date: "2024-03-03", Revenue: decimal.NewFromInt(750)}
	result.HasPeakDay = true
	result.EnrichStats = enrich.EnrichStats{Total: 5, Matched: 4}
	result.UnmatchedProducts = []string{"Webcam"}
	return result
}

func TestNewReportGenerator(t *testing.T) {
	tests := []struct {
		name      string
		config    *ReportConfig
		expectErr bool
	}{
		{"nil config uses defaults", nil, false},
		{"valid console config", &ReportConfig{Format: FormatConsole, TopCustomerCount: 5}, false},
		{"valid json config", &ReportConfig{Format: FormatJSON, TopCustomerCount: 3}, false},
		{"invalid format", &ReportConfig{Format: "xml", TopCustomerCount: 5}, true},
		{"zero top customers", &ReportConfig{Format: FormatConsole, TopCustomerCount: 0}, true},
		{"negative unmatched cap", &ReportConfig{Format: FormatConsole, TopCustomerCount: 5, MaxUnmatchedListed: -1}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewReportGenerator(tt.config)
			if tt.expectErr && err == nil {
				t.Error("Expected error but got none")
			}
			if !tt.expectErr && err != nil {
				t.Errorf("Unexpected error: %v", err)
			}
		})
	}
}

func TestConsoleReportSections(t *testing.T) {
	generator, err := NewReportGenerator(nil)
	if err != nil {
		t.Fatalf("NewReportGenerator failed: %v", err)
	}

	var buf bytes.Buffer
	if err := generator.GenerateReport(sampleResult(), &buf); err != nil {
		t.Fatalf("GenerateReport failed: %v", err)
	}

	output := buf.String()
	sections := []string{
		"SALES ANALYTICS REPORT",
		"=== OVERALL SUMMARY ===",
		"=== REGION PERFORMANCE ===",
		"=== TOP PRODUCTS BY QUANTITY ===",
		"=== LOW PERFORMING PRODUCTS ===",
		"=== TOP CUSTOMERS BY SPEND ===",
		"=== DAILY TREND ===",
		"=== CATALOG ENRICHMENT ===",
	}
	for _, section := range sections {
		if !strings.Contains(output, section) {
			t.Errorf("Expected section %q in output", section)
		}
	}

	if !strings.Contains(output, "Total Revenue:         1250.00") {
		t.Error("Expected formatted total revenue")
	}
	if !strings.Contains(output, "Peak Sales Day: 2024-03-03 (750.00)") {
		t.Error("Expected peak sales day line")
	}
	if !strings.Contains(output, "Records Matched:   4 of 5 (80.0%)") {
		t.Errorf("Expected enrichment summary, got:\n%s", output)
	}
}

func TestConsoleReportRegionOrder(t *testing.T) {
	generator, err := NewReportGenerator(nil)
	if err != nil {
		t.Fatalf("NewReportGenerator failed: %v", err)
	}

	var buf bytes.Buffer
	if err := generator.GenerateReport(sampleResult(), &buf); err != nil {
		t.Fatalf("GenerateReport failed: %v", err)
	}

	output := buf.String()
	northIdx := strings.Index(output, "North")
	southIdx := strings.Index(output, "South")
	if northIdx == -1 || southIdx == -1 {
		t.Fatal("Expected both regions in output")
	}
	if northIdx > southIdx {
		t.Error("Expected regions sorted by revenue descending")
	}
}

func TestConsoleReportEmptyResult(t *testing.T) {
	generator, err := NewReportGenerator(nil)
	if err != nil {
		t.Fatalf("NewReportGenerator failed: %v", err)
	}

	result := NewAnalysisResult("empty.txt")
	result.TotalRevenue = decimal.Zero
	result.AverageOrderValue = decimal.Zero

	var buf bytes.Buffer
	if err := generator.GenerateReport(result, &buf); err != nil {
		t.Fatalf("GenerateReport failed: %v", err)
	}

	output := buf.String()
	if !strings.Contains(output, "No records remained") {
		t.Error("Expected empty-set notice")
	}
	if strings.Contains(output, "=== REGION PERFORMANCE ===") {
		t.Error("Did not expect aggregate sections for empty result")
	}
}

func TestConsoleReportEnrichmentSkipped(t *testing.T) {
	generator, err := NewReportGenerator(nil)
	if err != nil {
		t.Fatalf("NewReportGenerator failed: %v", err)
	}

	result := sampleResult()
	result.EnrichmentSkipped = true

	var buf bytes.Buffer
	if err := generator.GenerateReport(result, &buf); err != nil {
		t.Fatalf("GenerateReport failed: %v", err)
	}

	if !strings.Contains(buf.String(), "Enrichment skipped.") {
		t.Error("Expected skip notice in enrichment section")
	}
}

func TestJSONReport(t *testing.T) {
	config := DefaultReportConfig()
	config.Format = FormatJSON
	generator, err := NewReportGenerator(config)
	if err != nil {
		t.Fatalf("NewReportGenerator failed: %v", err)
	}

	var buf bytes.Buffer
	if err := generator.GenerateReport(sampleResult(), &buf); err != nil {
		t.Fatalf("GenerateReport failed: %v", err)
	}

	var decoded map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("Report is not valid JSON: %v", err)
	}
	if decoded["source_file"] != "sales_data.txt" {
		t.Errorf("Unexpected source_file %v", decoded["source_file"])
	}
	if _, ok := decoded["region_stats"]; !ok {
		t.Error("Expected region_stats key in JSON report")
	}
}

func TestGenerateReportNilInputs(t *testing.T) {
	generator, err := NewReportGenerator(nil)
	if err != nil {
		t.Fatalf("NewReportGenerator failed: %v", err)
	}

	var buf bytes.Buffer
	if err := generator.GenerateReport(nil, &buf); err == nil {
		t.Error("Expected error for nil result")
	}
	if err := generator.GenerateReport(sampleResult(), nil); err == nil {
		t.Error("Expected error for nil writer")
	}
}

func TestUnmatchedListCapped(t *testing.T) {
	config := DefaultReportConfig()
	config.MaxUnmatchedListed = 2
	generator, err := NewReportGenerator(config)
	if err != nil {
		t.Fatalf("NewReportGenerator failed: %v", err)
	}

	result := sampleResult()
	result.UnmatchedProducts = []string{"Alpha", "Beta", "Gamma", "Delta"}

	var buf bytes.Buffer
	if err := generator.GenerateReport(result, &buf); err != nil {
		t.Fatalf("GenerateReport failed: %v", err)
	}

	output := buf.String()
	if !strings.Contains(output, "  - Alpha") || !strings.Contains(output, "  - Beta") {
		t.Error("Expected first two unmatched products listed")
	}
	if strings.Contains(output, "  - Gamma") {
		t.Error("Did not expect products past the cap")
	}
	if !strings.Contains(output, "... and 2 more") {
		t.Error("Expected overflow notice")
	}
}

func TestUnmatchedProductNames(t *testing.T) {
	records := []*models.EnrichedRecord{
		{SalesRecord: models.SalesRecord{ProductName: "Webcam"}, Matched: false},
		{SalesRecord: models.SalesRecord{ProductName: "Laptop"}, Matched: true},
		{SalesRecord: models.SalesRecord{ProductName: "Webcam"}, Matched: false},
		{SalesRecord: models.SalesRecord{ProductName: "Adapter"}, Matched: false},
		nil,
	}

	names := UnmatchedProductNames(records)
	expected := []string{"Adapter", "Webcam"}
	if len(names) != len(expected) {
		t.Fatalf("Expected %d names, got %d", len(expected), len(names))
	}
	for i, name := range expected {
		if names[i] != name {
			t.Errorf("Expected names[%d] = %s, got %s", i, name, names[i])
		}
	}
}

func TestDateRange(t *testing.T) {
	records := []*models.SalesRecord{
		{Date: "2024-03-02"},
		{Date: "2024-03-01"},
		{Date: "2024-03-05"},
	}
	first, last := DateRange(records)
	if first != "2024-03-01" || last != "2024-03-05" {
		t.Errorf("Expected range 2024-03-01..2024-03-05, got %s..%s", first, last)
	}

	first, last = DateRange(nil)
	if first != "" || last != "" {
		t.Errorf("Expected empty range for empty set, got %s..%s", first, last)
	}
}

func TestAverageOrderValue(t *testing.T) {
	avg := AverageOrderValue(decimal.NewFromInt(100), 3)
	if avg.StringFixed(2) != "33.33" {
		t.Errorf("Expected 33.33, got %s", avg.StringFixed(2))
	}

	if !AverageOrderValue(decimal.NewFromInt(100), 0).IsZero() {
		t.Error("Expected zero average for zero count")
	}
}

func TestTruncateName(t *testing.T) {
	if got := truncateName("short", 30); got != "short" {
		t.Errorf("Expected unmodified name, got %s", got)
	}
	long := strings.Repeat("x", 40)
	got := truncateName(long, 30)
	if len(got) != 30 || !strings.HasSuffix(got, "...") {
		t.Errorf("Expected 30-char truncated name, got %q", got)
	}
}
