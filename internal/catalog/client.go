// Package catalog fetches the external product catalog and builds the
// id-keyed mapping consumed by enrichment.
//
// The catalog is an external collaborator: a fetch failure is reported
// to the caller, but callers are expected to degrade to an empty
// mapping (all records unmatched) rather than abort the run.
package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"sales-analytics-service/internal/models"
	"sales-analytics-service/pkg/errors"
	"sales-analytics-service/pkg/logger"
)

// Config holds catalog client configuration
type Config struct {
	BaseURL string        `json:"base_url"`
	Timeout time.Duration `json:"timeout"`
	Limit   int           `json:"limit"`
}

// DefaultConfig returns the standard catalog client configuration
func DefaultConfig() *Config {
	return &Config{
		BaseURL: "https://dummyjson.com",
		Timeout: 10 * time.Second,
		Limit:   100,
	}
}

// Validate checks the client configuration
func (c *Config) Validate() error {
	if c.BaseURL == "" {
		return fmt.Errorf("base URL cannot be empty")
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %v", c.Timeout)
	}
	if c.Limit <= 0 {
		return fmt.Errorf("limit must be positive, got %d", c.Limit)
	}
	return nil
}

// Client fetches product catalog entries over HTTP
type Client struct {
	config     *Config
	httpClient *http.Client
	logger     logger.Logger
}

// NewClient creates a catalog client with the given configuration
func NewClient(config *Config) (*Client, error) {
	if config == nil {
		config = DefaultConfig()
	}

	if err := config.Validate(); err != nil {
		return nil, errors.ConfigurationError(
			errors.CodeInvalidConfig,
			"catalog_config",
			config,
			err,
		).WithSuggestion("Check the catalog client configuration values")
	}

	return &Client{
		config:     config,
		httpClient: &http.Client{Timeout: config.Timeout},
		logger:     logger.WithComponent("catalog_client"),
	}, nil
}

// productsResponse mirrors the catalog endpoint's JSON envelope
type productsResponse struct {
	Products []models.CatalogEntry `json:"products"`
}

// FetchProducts retrieves the product list from the catalog endpoint
func (c *Client) FetchProducts(ctx context.Context) ([]models.CatalogEntry, error) {
	url := fmt.Sprintf("%s/products?limit=%d", c.config.BaseURL, c.config.Limit)

	c.logger.WithField("url", url).Info("Fetching product catalog")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, errors.NetworkError(errors.CodeConnectionFailed, url, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.WithError(err).Warn("Catalog fetch failed")
		return nil, errors.NetworkError(errors.CodeConnectionFailed, url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.logger.WithField("status_code", resp.StatusCode).Warn("Catalog fetch returned unexpected status")
		return nil, errors.NetworkError(
			errors.CodeBadStatus,
			url,
			fmt.Errorf("status %d", resp.StatusCode),
		).WithContext("status_code", resp.StatusCode)
	}

	var parsed productsResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, errors.NetworkError(errors.CodeBadResponse, url, err)
	}

	c.logger.WithField("product_count", len(parsed.Products)).Info("Fetched product catalog")

	return parsed.Products, nil
}

// FetchMapping fetches the catalog and returns it keyed by product id
func (c *Client) FetchMapping(ctx context.Context) (map[int64]models.CatalogEntry, error) {
	products, err := c.FetchProducts(ctx)
	if err != nil {
		return nil, err
	}
	return BuildMapping(products), nil
}

// BuildMapping indexes catalog entries by their numeric product id.
// Later duplicates overwrite earlier ones.
func BuildMapping(entries []models.CatalogEntry) map[int64]models.CatalogEntry {
	mapping := make(map[int64]models.CatalogEntry, len(entries))
	for _, entry := range entries {
		mapping[entry.ID] = entry
	}
	return mapping
}
