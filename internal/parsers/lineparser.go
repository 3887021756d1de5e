// Package parsers turns raw pipe-delimited sales lines into typed
// records.
//
// Parsing is deliberately forgiving at the file level and strict at the
// line level: a malformed line is rejected, counted, and skipped; it
// never aborts the run. Callers receive the surviving records together
// with ParseStats describing how many lines were seen and why the rest
// were dropped.
package parsers

import (
	"fmt"
	"strings"

	"sales-analytics-service/internal/models"
	"sales-analytics-service/pkg/logger"
)

// Separator is the field separator of the sales log format. The format
// supports no escaping of the separator.
const Separator = "|"

// ParseError represents the rejection of a single input line
type ParseError struct {
	Line    int
	Value   string
	Message string
	Err     error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("parse error at line %d ('%s'): %s: %v", e.Line, e.Value, e.Message, e.Err)
	}
	return fmt.Sprintf("parse error at line %d ('%s'): %s", e.Line, e.Value, e.Message)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// ParseStats holds the running diagnostics of a parsing operation:
// total lines seen and lines rejected, exposed to the caller separately
// from the record stream.
type ParseStats struct {
	TotalLines      int           `json:"total_lines"`
	RecordsValid    int           `json:"records_valid"`
	RecordsRejected int           `json:"records_rejected"`
	Errors          []*ParseError `json:"-"`
}

// NewParseStats creates a new ParseStats instance
func NewParseStats() *ParseStats {
	return &ParseStats{
		Errors: make([]*ParseError, 0),
	}
}

// AddError records a rejected line
func (ps *ParseStats) AddError(err *ParseError) {
	ps.Errors = append(ps.Errors, err)
	ps.RecordsRejected++
}

// HasErrors returns true if any line was rejected
func (ps *ParseStats) HasErrors() bool {
	return ps.RecordsRejected > 0
}

// String returns a human-readable summary of parsing statistics
func (ps *ParseStats) String() string {
	return fmt.Sprintf("Parsed %d lines, %d valid records, %d rejected",
		ps.TotalLines, ps.RecordsValid, ps.RecordsRejected)
}

// GetSampleErrors returns a sample of the rejections for logging
func (ps *ParseStats) GetSampleErrors(maxSamples int) []string {
	if len(ps.Errors) == 0 {
		return nil
	}

	limit := len(ps.Errors)
	if maxSamples > 0 && maxSamples < limit {
		limit = maxSamples
	}

	samples := make([]string, 0, limit)
	for i := 0; i < limit; i++ {
		samples = append(samples, ps.Errors[i].Error())
	}

	return samples
}

// LineParser parses individual pipe-delimited sales lines
type LineParser struct {
	schema models.Schema
	logger logger.Logger
}

// NewLineParser creates a LineParser for the given identifier schema
func NewLineParser(schema models.Schema) (*LineParser, error) {
	if err := schema.Validate(); err != nil {
		return nil, fmt.Errorf("invalid schema: %w", err)
	}

	return &LineParser{
		schema: schema,
		logger: logger.WithComponent("line_parser"),
	}, nil
}

// ParseLine parses one raw line into a SalesRecord, or returns a
// ParseError describing why the line was rejected. lineNum is the
// 1-based line number used for diagnostics only.
func (lp *LineParser) ParseLine(line string, lineNum int) (*models.SalesRecord, *ParseError) {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return nil, &ParseError{
			Line:    lineNum,
			Value:   "",
			Message: "empty line",
		}
	}

	fields := strings.Split(trimmed, Separator)
	if len(fields) != models.FieldCount {
		return nil, &ParseError{
			Line:    lineNum,
			Value:   truncate(trimmed, 60),
			Message: fmt.Sprintf("expected %d fields, got %d", models.FieldCount, len(fields)),
		}
	}

	record, err := models.CreateSalesRecordFromFields(fields)
	if err != nil {
		return nil, &ParseError{
			Line:    lineNum,
			Value:   truncate(trimmed, 60),
			Message: "numeric coercion failed",
			Err:     err,
		}
	}

	if record.Quantity <= 0 {
		return nil, &ParseError{
			Line:    lineNum,
			Value:   fmt.Sprintf("%d", record.Quantity),
			Message: "quantity must be positive",
		}
	}

	if !record.UnitPrice.IsPositive() {
		return nil, &ParseError{
			Line:    lineNum,
			Value:   record.UnitPrice.String(),
			Message: "unit price must be positive",
		}
	}

	if record.CustomerID == "" {
		return nil, &ParseError{
			Line:    lineNum,
			Message: "customer id is empty",
		}
	}

	if record.Region == "" {
		return nil, &ParseError{
			Line:    lineNum,
			Message: "region is empty",
		}
	}

	if !strings.HasPrefix(record.TransactionID, lp.schema.TransactionPrefix) {
		return nil, &ParseError{
			Line:    lineNum,
			Value:   record.TransactionID,
			Message: fmt.Sprintf("transaction id must start with '%s'", lp.schema.TransactionPrefix),
		}
	}

	return record, nil
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
