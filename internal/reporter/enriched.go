package reporter

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"sales-analytics-service/internal/models"
	"sales-analytics-service/pkg/errors"
)

// EnrichedHeader is the first line of every enriched-record file.
const EnrichedHeader = "TransactionID|Date|ProductID|ProductName|Quantity|UnitPrice|CustomerID|Region|API_Category|API_Brand|API_Rating|API_Match"

// WriteEnriched writes the header and one pipe-delimited row per
// enriched record, in input order. Catalog columns are empty for
// unmatched records.
func WriteEnriched(records []*models.EnrichedRecord, writer io.Writer) error {
	buffered := bufio.NewWriter(writer)

	if _, err := fmt.Fprintln(buffered, EnrichedHeader); err != nil {
		return err
	}

	for _, record := range records {
		if record == nil {
			continue
		}
		if _, err := fmt.Fprintln(buffered, enrichedRow(record)); err != nil {
			return err
		}
	}

	return buffered.Flush()
}

// WriteEnrichedFile writes enriched records to the given path,
// creating or truncating the file.
func WriteEnrichedFile(path string, records []*models.EnrichedRecord) error {
	file, err := os.Create(path)
	if err != nil {
		return errors.FileError(errors.CodeFileWrite, path, err).
			WithSuggestion("Check that the output directory exists and is writable")
	}
	defer file.Close()

	if err := WriteEnriched(records, file); err != nil {
		return errors.FileError(errors.CodeFileWrite, path, err)
	}

	return nil
}

// WriteReportFile renders the report to the given path using the
// generator's configured format.
func WriteReportFile(path string, generator *ReportGenerator, result *AnalysisResult) error {
	file, err := os.Create(path)
	if err != nil {
		return errors.FileError(errors.CodeFileWrite, path, err).
			WithSuggestion("Check that the output directory exists and is writable")
	}
	defer file.Close()

	if err := generator.GenerateReport(result, file); err != nil {
		return errors.FileError(errors.CodeFileWrite, path, err)
	}

	return nil
}

func enrichedRow(record *models.EnrichedRecord) string {
	fields := record.SalesRecord.Fields()

	category, brand, rating := "", "", ""
	if record.Matched {
		category = record.Category
		brand = record.Brand
		rating = strconv.FormatFloat(record.Rating, 'f', -1, 64)
	}

	fields = append(fields,
		category,
		brand,
		rating,
		strconv.FormatBool(record.Matched),
	)

	return strings.Join(fields, "|")
}
