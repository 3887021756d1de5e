package analytics

import "fmt"

// Config holds the tunable parameters of the aggregation engine.
// Thresholds are explicit configuration rather than literals so the
// engine stays testable against alternate policies.
type Config struct {
	// TopProductCount is the N of the top-N product ranking.
	TopProductCount int `json:"top_product_count"`

	// LowQuantityThreshold marks a product as low-performing when its
	// total quantity across all records is strictly below it.
	LowQuantityThreshold int64 `json:"low_quantity_threshold"`
}

// DefaultConfig returns the standard engine configuration
func DefaultConfig() *Config {
	return &Config{
		TopProductCount:      5,
		LowQuantityThreshold: 10,
	}
}

// Validate checks the configuration values
func (c *Config) Validate() error {
	if c.TopProductCount <= 0 {
		return fmt.Errorf("top product count must be positive, got %d", c.TopProductCount)
	}

	if c.LowQuantityThreshold <= 0 {
		return fmt.Errorf("low quantity threshold must be positive, got %d", c.LowQuantityThreshold)
	}

	return nil
}
