// Package config assembles component configurations from CLI inputs.
package config

import (
	"time"

	"github.com/shopspring/decimal"

	"sales-analytics-service/internal/analytics"
	"sales-analytics-service/internal/catalog"
	"sales-analytics-service/internal/models"
	"sales-analytics-service/internal/reporter"
	"sales-analytics-service/internal/validator"
)

// CreateSchema returns the record schema used for parsing and validation
func CreateSchema() models.Schema {
	return models.DefaultSchema()
}

// CreateFilterCriteria builds filter criteria from CLI flag values.
// Empty strings mean the corresponding filter is inactive.
func CreateFilterCriteria(region, minAmount, maxAmount string) (validator.Criteria, error) {
	criteria := validator.Criteria{Region: region}

	if minAmount != "" {
		min, err := decimal.NewFromString(models.NormalizeNumericString(minAmount))
		if err != nil {
			return validator.Criteria{}, err
		}
		criteria.MinAmount = &min
	}

	if maxAmount != "" {
		max, err := decimal.NewFromString(models.NormalizeNumericString(maxAmount))
		if err != nil {
			return validator.Criteria{}, err
		}
		criteria.MaxAmount = &max
	}

	return criteria, nil
}

// CreateAnalyticsConfig creates an analytics configuration with CLI overrides
func CreateAnalyticsConfig(topN, lowQuantityThreshold int) *analytics.Config {
	config := analytics.DefaultConfig()

	if topN > 0 {
		config.TopProductCount = topN
	}
	if lowQuantityThreshold > 0 {
		config.LowQuantityThreshold = int64(lowQuantityThreshold)
	}

	return config
}

// CreateCatalogConfig creates a catalog client configuration with CLI overrides
func CreateCatalogConfig(baseURL string, timeout time.Duration) *catalog.Config {
	config := catalog.DefaultConfig()

	if baseURL != "" {
		config.BaseURL = baseURL
	}
	if timeout > 0 {
		config.Timeout = timeout
	}

	return config
}

// CreateReportConfig creates a report configuration for the requested format
func CreateReportConfig(format string, includeEnrichment bool) *reporter.ReportConfig {
	config := reporter.DefaultReportConfig()

	if format != "" {
		config.Format = reporter.OutputFormat(format)
	}
	config.IncludeEnrichment = includeEnrichment

	return config
}
