package parsers

import (
	"bufio"
	"context"
	"os"

	"sales-analytics-service/internal/models"
	"sales-analytics-service/pkg/errors"
	"sales-analytics-service/pkg/logger"
)

// SalesFileParser reads a sales log file line by line and produces the
// surviving records plus parsing diagnostics
type SalesFileParser struct {
	lineParser *LineParser
	logger     logger.Logger
}

// NewSalesFileParser creates a SalesFileParser for the given schema
func NewSalesFileParser(schema models.Schema) (*SalesFileParser, error) {
	lineParser, err := NewLineParser(schema)
	if err != nil {
		return nil, errors.ConfigurationError(
			errors.CodeInvalidConfig,
			"schema",
			schema,
			err,
		).WithSuggestion("Check the identifier prefix configuration")
	}

	return &SalesFileParser{
		lineParser: lineParser,
		logger:     logger.WithComponent("sales_file_parser"),
	}, nil
}

// ParseFile parses a sales log file
func (sp *SalesFileParser) ParseFile(filePath string) ([]*models.SalesRecord, *ParseStats, error) {
	return sp.ParseFileWithContext(context.Background(), filePath)
}

// ParseFileWithContext parses a sales log file with cancellation
// support. Line rejections are collected into the returned stats;
// only file-level problems produce an error.
func (sp *SalesFileParser) ParseFileWithContext(ctx context.Context, filePath string) ([]*models.SalesRecord, *ParseStats, error) {
	sp.logger.WithFields(logger.Fields{
		"file_path": filePath,
		"operation": "parse_sales_file",
	}).Info("Starting sales file parsing")

	file, err := os.Open(filePath)
	if err != nil {
		sp.logger.WithError(err).WithField("file_path", filePath).Error("Failed to open sales file")

		if os.IsNotExist(err) {
			return nil, nil, errors.FileError(errors.CodeFileNotFound, filePath, err)
		}
		if os.IsPermission(err) {
			return nil, nil, errors.FileError(errors.CodeFilePermission, filePath, err)
		}
		return nil, nil, errors.FileError(errors.CodeFileRead, filePath, err)
	}
	defer file.Close()

	records, stats, err := sp.parseLines(ctx, file, filePath)
	if err != nil {
		return records, stats, err
	}

	sp.logger.WithFields(logger.Fields{
		"file_path":        filePath,
		"total_lines":      stats.TotalLines,
		"records_valid":    stats.RecordsValid,
		"records_rejected": stats.RecordsRejected,
	}).Info("Sales file parsing completed")

	if stats.HasErrors() {
		sp.logger.WithField("sample_errors", stats.GetSampleErrors(3)).Warn("Rejected lines during parsing")
	}

	return records, stats, nil
}

func (sp *SalesFileParser) parseLines(ctx context.Context, file *os.File, filePath string) ([]*models.SalesRecord, *ParseStats, error) {
	stats := NewParseStats()
	var records []*models.SalesRecord

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		select {
		case <-ctx.Done():
			sp.logger.Warn("Sales file parsing was cancelled")
			return records, stats, errors.InternalError(
				errors.CodeUnexpectedError,
				"sales_file_parsing",
				ctx.Err(),
			)
		default:
		}

		stats.TotalLines++

		record, parseErr := sp.lineParser.ParseLine(scanner.Text(), stats.TotalLines)
		if parseErr != nil {
			stats.AddError(parseErr)
			continue
		}

		records = append(records, record)
		stats.RecordsValid++
	}

	if err := scanner.Err(); err != nil {
		sp.logger.WithError(err).WithField("file_path", filePath).Error("Failed while reading sales file")
		return records, stats, errors.FileError(errors.CodeFileRead, filePath, err)
	}

	return records, stats, nil
}
