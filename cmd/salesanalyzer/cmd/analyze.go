package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"sales-analytics-service/cmd/salesanalyzer/config"
	"sales-analytics-service/internal/analytics"
	"sales-analytics-service/internal/catalog"
	"sales-analytics-service/internal/enrich"
	"sales-analytics-service/internal/models"
	"sales-analytics-service/internal/parsers"
	"sales-analytics-service/internal/reporter"
	"sales-analytics-service/internal/validator"
	"sales-analytics-service/pkg/logger"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Flags for the analyze command
var (
	inputFile    string
	reportFile   string
	enrichedFile string
	outputFormat string

	filterRegion string
	minAmount    string
	maxAmount    string

	topN                 int
	lowQuantityThreshold int

	catalogURL     string
	catalogTimeout time.Duration
	skipEnrichment bool
)

// analyzeCmd represents the analyze command
var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Analyze a pipe-delimited sales transaction log",
	Long: `Analyze parses a pipe-delimited sales transaction log, validates and
filters its records, computes revenue and product aggregates, and enriches
the records against an external product catalog.

Each input line carries exactly 8 fields:
  TransactionID|Date|ProductID|ProductName|Quantity|UnitPrice|CustomerID|Region

Examples:
  # Basic analysis to stdout
  salesanalyzer analyze --input sales_data.txt

  # Filter to one region and an amount band
  salesanalyzer analyze --input sales_data.txt --region North \
    --min-amount 100 --max-amount 5000

  # Write report and enriched records to files
  salesanalyzer analyze --input sales_data.txt \
    --report-file report.txt --enriched-file enriched_sales.txt

  # Offline run without catalog enrichment
  salesanalyzer analyze --input sales_data.txt --skip-enrichment`,

	PreRunE: validateAnalyzeFlags,
	RunE:    runAnalyzeE,
}

func init() {
	rootCmd.AddCommand(analyzeCmd)

	// Required flags
	analyzeCmd.Flags().StringVarP(&inputFile, "input", "i", "", "path to pipe-delimited sales file (required)")

	// Output flags
	analyzeCmd.Flags().StringVarP(&outputFormat, "output-format", "f", "console", "report format: console, json")
	analyzeCmd.Flags().StringVarP(&reportFile, "report-file", "o", "", "report file path (default: stdout)")
	analyzeCmd.Flags().StringVar(&enrichedFile, "enriched-file", "", "enriched-record output file path (optional)")

	// Filter flags
	analyzeCmd.Flags().StringVarP(&filterRegion, "region", "r", "", "keep only records from this region")
	analyzeCmd.Flags().StringVar(&minAmount, "min-amount", "", "keep only records with line amount >= this value")
	analyzeCmd.Flags().StringVar(&maxAmount, "max-amount", "", "keep only records with line amount <= this value")

	// Aggregation flags
	analyzeCmd.Flags().IntVar(&topN, "top-n", 5, "number of products in the top ranking")
	analyzeCmd.Flags().IntVar(&lowQuantityThreshold, "low-quantity-threshold", 10, "products with total quantity below this are low performers")

	// Catalog flags
	analyzeCmd.Flags().StringVar(&catalogURL, "catalog-url", "", "product catalog base URL (default: https://dummyjson.com)")
	analyzeCmd.Flags().DurationVar(&catalogTimeout, "catalog-timeout", 10*time.Second, "product catalog request timeout")
	analyzeCmd.Flags().BoolVar(&skipEnrichment, "skip-enrichment", false, "skip catalog enrichment entirely")

	// Mark required flags
	analyzeCmd.MarkFlagRequired("input")

	// Bind flags to viper
	viper.BindPFlag("input", analyzeCmd.Flags().Lookup("input"))
	viper.BindPFlag("output-format", analyzeCmd.Flags().Lookup("output-format"))
	viper.BindPFlag("report-file", analyzeCmd.Flags().Lookup("report-file"))
	viper.BindPFlag("enriched-file", analyzeCmd.Flags().Lookup("enriched-file"))
	viper.BindPFlag("region", analyzeCmd.Flags().Lookup("region"))
	viper.BindPFlag("min-amount", analyzeCmd.Flags().Lookup("min-amount"))
	viper.BindPFlag("max-amount", analyzeCmd.Flags().Lookup("max-amount"))
	viper.BindPFlag("top-n", analyzeCmd.Flags().Lookup("top-n"))
	viper.BindPFlag("low-quantity-threshold", analyzeCmd.Flags().Lookup("low-quantity-threshold"))
	viper.BindPFlag("catalog-url", analyzeCmd.Flags().Lookup("catalog-url"))
	viper.BindPFlag("catalog-timeout", analyzeCmd.Flags().Lookup("catalog-timeout"))
	viper.BindPFlag("skip-enrichment", analyzeCmd.Flags().Lookup("skip-enrichment"))
}

func validateAnalyzeFlags(cmd *cobra.Command, args []string) error {
	// Get values from viper (allows override from config file)
	inputFile = viper.GetString("input")
	outputFormat = viper.GetString("output-format")
	reportFile = viper.GetString("report-file")
	enrichedFile = viper.GetString("enriched-file")
	filterRegion = viper.GetString("region")
	minAmount = viper.GetString("min-amount")
	maxAmount = viper.GetString("max-amount")
	topN = viper.GetInt("top-n")
	lowQuantityThreshold = viper.GetInt("low-quantity-threshold")
	catalogURL = viper.GetString("catalog-url")
	catalogTimeout = viper.GetDuration("catalog-timeout")
	skipEnrichment = viper.GetBool("skip-enrichment")

	if inputFile == "" {
		return fmt.Errorf("input is required")
	}

	if err := validateFileExists(inputFile, "sales file"); err != nil {
		return err
	}

	validFormats := map[string]bool{"console": true, "json": true}
	if !validFormats[outputFormat] {
		return fmt.Errorf("invalid output format '%s'. Valid formats: console, json", outputFormat)
	}

	if topN < 1 {
		return fmt.Errorf("top-n must be at least 1")
	}
	if lowQuantityThreshold < 1 {
		return fmt.Errorf("low-quantity-threshold must be at least 1")
	}

	criteria, err := config.CreateFilterCriteria(filterRegion, minAmount, maxAmount)
	if err != nil {
		return fmt.Errorf("invalid amount filter: %w", err)
	}
	if criteria.MinAmount != nil && criteria.MaxAmount != nil &&
		criteria.MinAmount.GreaterThan(*criteria.MaxAmount) {
		return fmt.Errorf("min-amount cannot exceed max-amount")
	}

	// Validate output directories exist if specified
	for _, outputPath := range []string{reportFile, enrichedFile} {
		if outputPath == "" {
			continue
		}
		dir := filepath.Dir(outputPath)
		if dir != "." {
			if _, err := os.Stat(dir); os.IsNotExist(err) {
				return fmt.Errorf("output directory does not exist: %s", dir)
			}
		}
	}

	return nil
}

func validateFileExists(filePath, description string) error {
	if filePath == "" {
		return fmt.Errorf("%s path cannot be empty", description)
	}

	info, err := os.Stat(filePath)
	if os.IsNotExist(err) {
		return fmt.Errorf("%s does not exist: %s", description, filePath)
	}
	if err != nil {
		return fmt.Errorf("error accessing %s: %w", description, err)
	}

	if info.IsDir() {
		return fmt.Errorf("%s is a directory, expected a file: %s", description, filePath)
	}

	file, err := os.Open(filePath)
	if err != nil {
		return fmt.Errorf("%s is not readable: %w", description, err)
	}
	file.Close()

	return nil
}

func runAnalyzeE(cmd *cobra.Command, args []string) error {
	if err := runAnalyze(context.Background()); err != nil {
		handler := NewCLIErrorHandler()
		os.Exit(handler.HandleError(err))
	}
	return nil
}

func runAnalyze(ctx context.Context) error {
	log := logger.WithComponent("cli")

	if viper.GetBool("verbose") {
		fmt.Fprintf(os.Stderr, "Starting analysis...\n")
		fmt.Fprintf(os.Stderr, "Input file: %s\n", inputFile)
		fmt.Fprintf(os.Stderr, "Output format: %s\n", outputFormat)
		if reportFile != "" {
			fmt.Fprintf(os.Stderr, "Report file: %s\n", reportFile)
		}
		if enrichedFile != "" {
			fmt.Fprintf(os.Stderr, "Enriched file: %s\n", enrichedFile)
		}
	}

	schema := config.CreateSchema()

	// Parse
	parser, err := parsers.NewSalesFileParser(schema)
	if err != nil {
		return fmt.Errorf("failed to create sales file parser: %w", err)
	}

	records, parseStats, err := parser.ParseFileWithContext(ctx, inputFile)
	if err != nil {
		return err
	}

	result := reporter.NewAnalysisResult(inputFile)
	result.ParseStats = parseStats

	// Validate and filter
	val, err := validator.NewValidator(schema)
	if err != nil {
		return fmt.Errorf("failed to create validator: %w", err)
	}

	criteria, err := config.CreateFilterCriteria(filterRegion, minAmount, maxAmount)
	if err != nil {
		return fmt.Errorf("invalid amount filter: %w", err)
	}

	filtered, filterSummary := val.Apply(records, criteria)
	result.FilterSummary = filterSummary

	log.WithFields(logger.Fields{
		"parsed":   parseStats.RecordsValid,
		"rejected": parseStats.RecordsRejected,
		"analyzed": filterSummary.FinalCount,
	}).Info("Input processed")

	// Aggregate
	if len(filtered) > 0 {
		if err := computeAggregates(result, filtered); err != nil {
			return err
		}
	}

	// Enrich
	enriched, err := runEnrichment(ctx, result, filtered)
	if err != nil {
		return err
	}

	if enrichedFile != "" && enriched != nil {
		if err := reporter.WriteEnrichedFile(enrichedFile, enriched); err != nil {
			return err
		}
		if viper.GetBool("verbose") {
			fmt.Fprintf(os.Stderr, "Wrote %d enriched records to %s\n", len(enriched), enrichedFile)
		}
	}

	// Report
	reportConfig := config.CreateReportConfig(outputFormat, !skipEnrichment)
	generator, err := reporter.NewReportGenerator(reportConfig)
	if err != nil {
		return fmt.Errorf("failed to create report generator: %w", err)
	}

	if reportFile != "" {
		if err := reporter.WriteReportFile(reportFile, generator, result); err != nil {
			return err
		}
	} else {
		if err := generator.GenerateReport(result, os.Stdout); err != nil {
			return fmt.Errorf("failed to generate report: %w", err)
		}
	}

	if viper.GetBool("verbose") {
		fmt.Fprintf(os.Stderr, "\nAnalysis completed successfully.\n")
		fmt.Fprintf(os.Stderr, "Analyzed %d of %d parsed records.\n",
			result.RecordCount(), parseStats.RecordsValid)
	}

	return nil
}

func computeAggregates(result *reporter.AnalysisResult, records []*models.SalesRecord) error {
	engineConfig := config.CreateAnalyticsConfig(topN, lowQuantityThreshold)
	engine, err := analytics.NewEngine(engineConfig)
	if err != nil {
		return fmt.Errorf("failed to create analytics engine: %w", err)
	}

	result.TotalRevenue = engine.TotalRevenue(records)
	result.AverageOrderValue = reporter.AverageOrderValue(result.TotalRevenue, len(records))
	result.FirstDate, result.LastDate = reporter.DateRange(records)
	result.RegionStats = engine.RegionStatistics(records)
	result.TopProducts = engine.TopProducts(records)
	result.LowPerformers = engine.LowPerformingProducts(records)
	result.Customers = engine.CustomerAnalysis(records)
	result.DailyTrend = engine.DailyTrend(records)
	result.PeakDay, result.HasPeakDay = engine.PeakSalesDay(records)

	return nil
}

// runEnrichment attaches catalog attributes to the filtered records.
// Catalog failures degrade to an all-unmatched pass instead of
// aborting the run.
func runEnrichment(ctx context.Context, result *reporter.AnalysisResult, records []*models.SalesRecord) ([]*models.EnrichedRecord, error) {
	if skipEnrichment {
		result.EnrichmentSkipped = true
		return nil, nil
	}

	log := logger.WithComponent("cli")

	mapping := map[int64]models.CatalogEntry{}
	client, err := catalog.NewClient(config.CreateCatalogConfig(catalogURL, catalogTimeout))
	if err != nil {
		return nil, err
	}

	fetched, err := client.FetchMapping(ctx)
	if err != nil {
		log.WithError(err).Warn("Catalog unavailable, continuing without matches")
	} else {
		mapping = fetched
	}

	enricher := enrich.NewEnricher()
	enriched, stats := enricher.Enrich(records, mapping)

	result.EnrichStats = stats
	result.UnmatchedProducts = reporter.UnmatchedProductNames(enriched)

	log.WithFields(logger.Fields{
		"matched": stats.Matched,
		"total":   stats.Total,
	}).Info("Enrichment completed")

	return enriched, nil
}
