// Package models defines the core domain types of the sales analytics
// pipeline: the sales transaction record, the external catalog entry,
// the enriched record copy, and the identifier schema that governs
// validation.
package models

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// FieldCount is the number of pipe-separated fields in a raw sales line.
const FieldCount = 8

// Schema holds the reserved identifier prefixes that mark a field as a
// transaction, product, or customer id. Prefixes are configuration, not
// literals, so the engine stays testable against alternate schemas.
type Schema struct {
	TransactionPrefix string `json:"transaction_prefix"`
	ProductPrefix     string `json:"product_prefix"`
	CustomerPrefix    string `json:"customer_prefix"`
}

// DefaultSchema returns the standard T/P/C prefix schema
func DefaultSchema() Schema {
	return Schema{
		TransactionPrefix: "T",
		ProductPrefix:     "P",
		CustomerPrefix:    "C",
	}
}

// Validate checks that no prefix is empty
func (s Schema) Validate() error {
	if strings.TrimSpace(s.TransactionPrefix) == "" {
		return fmt.Errorf("transaction prefix cannot be empty")
	}
	if strings.TrimSpace(s.ProductPrefix) == "" {
		return fmt.Errorf("product prefix cannot be empty")
	}
	if strings.TrimSpace(s.CustomerPrefix) == "" {
		return fmt.Errorf("customer prefix cannot be empty")
	}
	return nil
}

// SalesRecord represents one validated-or-candidate sales transaction.
// The date is an opaque sortable token, never parsed into a calendar
// type. Records are immutable after parsing; enrichment works on copies.
type SalesRecord struct {
	TransactionID string          `json:"transactionID"`
	Date          string          `json:"date"`
	ProductID     string          `json:"productID"`
	ProductName   string          `json:"productName"`
	Quantity      int64           `json:"quantity"`
	UnitPrice     decimal.Decimal `json:"unitPrice"`
	CustomerID    string          `json:"customerID"`
	Region        string          `json:"region"`
}

// NewSalesRecord creates a new SalesRecord instance
func NewSalesRecord(transactionID, date, productID, productName string, quantity int64, unitPrice decimal.Decimal, customerID, region string) *SalesRecord {
	return &SalesRecord{
		TransactionID: transactionID,
		Date:          date,
		ProductID:     productID,
		ProductName:   productName,
		Quantity:      quantity,
		UnitPrice:     unitPrice,
		CustomerID:    customerID,
		Region:        region,
	}
}

// LineAmount returns quantity × unit price for this record
func (r *SalesRecord) LineAmount() decimal.Decimal {
	return decimal.NewFromInt(r.Quantity).Mul(r.UnitPrice)
}

// Validate checks the record against all business acceptance rules for
// the given schema. Every record in a validated set satisfies this.
func (r *SalesRecord) Validate(schema Schema) error {
	if !strings.HasPrefix(r.TransactionID, schema.TransactionPrefix) {
		return fmt.Errorf("transaction id '%s' must start with '%s'", r.TransactionID, schema.TransactionPrefix)
	}

	if !strings.HasPrefix(r.ProductID, schema.ProductPrefix) {
		return fmt.Errorf("product id '%s' must start with '%s'", r.ProductID, schema.ProductPrefix)
	}

	if !strings.HasPrefix(r.CustomerID, schema.CustomerPrefix) {
		return fmt.Errorf("customer id '%s' must start with '%s'", r.CustomerID, schema.CustomerPrefix)
	}

	if r.Quantity <= 0 {
		return fmt.Errorf("quantity must be positive, got %d", r.Quantity)
	}

	if !r.UnitPrice.IsPositive() {
		return fmt.Errorf("unit price must be positive, got %s", r.UnitPrice.String())
	}

	for name, value := range map[string]string{
		"transaction id": r.TransactionID,
		"date":           r.Date,
		"product id":     r.ProductID,
		"product name":   r.ProductName,
		"customer id":    r.CustomerID,
		"region":         r.Region,
	} {
		if strings.TrimSpace(value) == "" {
			return fmt.Errorf("required field '%s' is empty", name)
		}
	}

	return nil
}

// Fields returns the record as an ordered field slice matching the
// pipe-delimited input layout, so a validated record round-trips
// through the parser unchanged.
func (r *SalesRecord) Fields() []string {
	return []string{
		r.TransactionID,
		r.Date,
		r.ProductID,
		r.ProductName,
		strconv.FormatInt(r.Quantity, 10),
		r.UnitPrice.String(),
		r.CustomerID,
		r.Region,
	}
}

// String returns a string representation of the SalesRecord
func (r *SalesRecord) String() string {
	return fmt.Sprintf("SalesRecord{ID: %s, Date: %s, Product: %s, Qty: %d, Price: %s, Customer: %s, Region: %s}",
		r.TransactionID, r.Date, r.ProductName, r.Quantity, r.UnitPrice.String(), r.CustomerID, r.Region)
}

// Equals compares two SalesRecord instances for equality
func (r *SalesRecord) Equals(other *SalesRecord) bool {
	if other == nil {
		return false
	}

	return r.TransactionID == other.TransactionID &&
		r.Date == other.Date &&
		r.ProductID == other.ProductID &&
		r.ProductName == other.ProductName &&
		r.Quantity == other.Quantity &&
		r.UnitPrice.Equal(other.UnitPrice) &&
		r.CustomerID == other.CustomerID &&
		r.Region == other.Region
}

// CatalogEntry represents one product from the external catalog,
// keyed by numeric product id. Read-only input to enrichment.
type CatalogEntry struct {
	ID       int64           `json:"id"`
	Title    string          `json:"title"`
	Category string          `json:"category"`
	Brand    string          `json:"brand"`
	Price    decimal.Decimal `json:"price"`
	Rating   float64         `json:"rating"`
}

// EnrichedRecord is a copy of a SalesRecord augmented with catalog
// attributes. When Matched is false the catalog fields are zero-valued
// and render as empty in any serialized output.
type EnrichedRecord struct {
	SalesRecord
	Category string  `json:"apiCategory"`
	Brand    string  `json:"apiBrand"`
	Rating   float64 `json:"apiRating"`
	Matched  bool    `json:"apiMatch"`
}

// NormalizeNumericString strips surrounding whitespace and
// thousands-separator commas so "1,250" parses as 1250. This is the
// explicit normalization step applied before any numeric coercion.
func NormalizeNumericString(s string) string {
	return strings.ReplaceAll(strings.TrimSpace(s), ",", "")
}

// ParseQuantityFromString parses an integer quantity after normalization
func ParseQuantityFromString(s string) (int64, error) {
	normalized := NormalizeNumericString(s)
	if normalized == "" {
		return 0, fmt.Errorf("quantity string cannot be empty")
	}

	q, err := strconv.ParseInt(normalized, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid quantity format '%s': %w", s, err)
	}

	return q, nil
}

// ParseDecimalFromString parses a decimal amount after normalization
func ParseDecimalFromString(s string) (decimal.Decimal, error) {
	normalized := NormalizeNumericString(s)
	if normalized == "" {
		return decimal.Zero, fmt.Errorf("amount string cannot be empty")
	}

	d, err := decimal.NewFromString(normalized)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid decimal format '%s': %w", s, err)
	}

	return d, nil
}

// CreateSalesRecordFromFields creates a SalesRecord from the eight raw
// field values of one input line. Fields arrive in input order:
// transaction id, date, product id, product name, quantity, unit price,
// customer id, region. Product name additionally has commas stripped,
// matching the numeric normalization applied to quantity and price.
func CreateSalesRecordFromFields(fields []string) (*SalesRecord, error) {
	if len(fields) != FieldCount {
		return nil, fmt.Errorf("expected %d fields, got %d", FieldCount, len(fields))
	}

	trimmed := make([]string, len(fields))
	for i, f := range fields {
		trimmed[i] = strings.TrimSpace(f)
	}

	quantity, err := ParseQuantityFromString(trimmed[4])
	if err != nil {
		return nil, fmt.Errorf("invalid quantity: %w", err)
	}

	unitPrice, err := ParseDecimalFromString(trimmed[5])
	if err != nil {
		return nil, fmt.Errorf("invalid unit price: %w", err)
	}

	productName := strings.ReplaceAll(trimmed[3], ",", "")

	return NewSalesRecord(
		trimmed[0],
		trimmed[1],
		trimmed[2],
		productName,
		quantity,
		unitPrice,
		trimmed[6],
		trimmed[7],
	), nil
}
