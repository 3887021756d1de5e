package config

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"sales-analytics-service/internal/reporter"
)

func TestCreateSchema(t *testing.T) {
	schema := CreateSchema()
	if schema.TransactionPrefix != "T" || schema.ProductPrefix != "P" || schema.CustomerPrefix != "C" {
		t.Errorf("Unexpected default schema: %+v", schema)
	}
}

func TestCreateFilterCriteria(t *testing.T) {
	tests := []struct {
		name      string
		region    string
		minAmount string
		maxAmount string
		expectErr bool
		hasMin    bool
		hasMax    bool
	}{
		{"no filters", "", "", "", false, false, false},
		{"region only", "North", "", "", false, false, false},
		{"both amounts", "", "100", "5000", false, true, true},
		{"comma in amount", "", "1,200", "", false, true, false},
		{"malformed min", "", "abc", "", true, false, false},
		{"malformed max", "", "", "12.x", true, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			criteria, err := CreateFilterCriteria(tt.region, tt.minAmount, tt.maxAmount)

			if tt.expectErr {
				if err == nil {
					t.Error("Expected error but got none")
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}

			if criteria.Region != tt.region {
				t.Errorf("Expected region %q, got %q", tt.region, criteria.Region)
			}
			if (criteria.MinAmount != nil) != tt.hasMin {
				t.Errorf("MinAmount presence = %v, want %v", criteria.MinAmount != nil, tt.hasMin)
			}
			if (criteria.MaxAmount != nil) != tt.hasMax {
				t.Errorf("MaxAmount presence = %v, want %v", criteria.MaxAmount != nil, tt.hasMax)
			}
		})
	}
}

func TestCreateFilterCriteriaNormalizesCommas(t *testing.T) {
	criteria, err := CreateFilterCriteria("", "1,200", "")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if criteria.MinAmount == nil || !criteria.MinAmount.Equal(decimal.NewFromInt(1200)) {
		t.Errorf("Expected min amount 1200, got %v", criteria.MinAmount)
	}
}

func TestCreateAnalyticsConfig(t *testing.T) {
	config := CreateAnalyticsConfig(3, 20)
	if config.TopProductCount != 3 {
		t.Errorf("Expected top count 3, got %d", config.TopProductCount)
	}
	if config.LowQuantityThreshold != 20 {
		t.Errorf("Expected threshold 20, got %d", config.LowQuantityThreshold)
	}

	// Zero values keep defaults
	config = CreateAnalyticsConfig(0, 0)
	if config.TopProductCount != 5 || config.LowQuantityThreshold != 10 {
		t.Errorf("Expected defaults, got %+v", config)
	}
}

func TestCreateCatalogConfig(t *testing.T) {
	config := CreateCatalogConfig("http://localhost:9000", 3*time.Second)
	if config.BaseURL != "http://localhost:9000" {
		t.Errorf("Unexpected base URL %s", config.BaseURL)
	}
	if config.Timeout != 3*time.Second {
		t.Errorf("Unexpected timeout %v", config.Timeout)
	}

	config = CreateCatalogConfig("", 0)
	if config.BaseURL != "https://dummyjson.com" {
		t.Errorf("Expected default base URL, got %s", config.BaseURL)
	}
	if config.Timeout != 10*time.Second {
		t.Errorf("Expected default timeout, got %v", config.Timeout)
	}
}

func TestCreateReportConfig(t *testing.T) {
	config := CreateReportConfig("json", false)
	if config.Format != reporter.FormatJSON {
		t.Errorf("Expected json format, got %s", config.Format)
	}
	if config.IncludeEnrichment {
		t.Error("Expected enrichment section disabled")
	}

	config = CreateReportConfig("", true)
	if config.Format != reporter.FormatConsole {
		t.Errorf("Expected console default, got %s", config.Format)
	}
}
