package main

import (
	"bufio"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// SalesGenerator generates pipe-delimited sales transaction files
type SalesGenerator struct {
	Count     int
	StartDate time.Time
	EndDate   time.Time
	MinPrice  decimal.Decimal
	MaxPrice  decimal.Decimal
	Seed      int64
}

// SalesTemplate represents one sales transaction line
type SalesTemplate struct {
	TransactionID string
	Date          time.Time
	ProductID     string
	ProductName   string
	Quantity      int64
	UnitPrice     decimal.Decimal
	CustomerID    string
	Region        string
}

var regions = []string{"North", "South", "East", "West"}

var products = []struct {
	id   string
	name string
}{
	{"P1", "Essence Mascara Lash Princess"},
	{"P2", "Eyeshadow Palette with Mirror"},
	{"P5", "Red Nail Polish"},
	{"P10", "Calvin Klein CK One"},
	{"P16", "Apple"},
	{"P23", "Green Chili Pepper"},
	{"P31", "Decoration Swing"},
	{"P44", "Family Tree Photo Frame"},
	{"P52", "Blue Frock"},
	{"P78", "Apple MacBook Pro 14 Inch Space Grey"},
	{"P86", "Car Aux Cable"},
	{"P99", "Amazon Echo Plus"},
}

func main() {
	var (
		output     = flag.String("output", "generated_sales.txt", "Output file path")
		count      = flag.Int("count", 1000, "Number of sales records to generate")
		startDate  = flag.String("start-date", "2024-01-01", "Start date (YYYY-MM-DD)")
		endDate    = flag.String("end-date", "2024-12-31", "End date (YYYY-MM-DD)")
		minPrice   = flag.Float64("min-price", 1.00, "Minimum unit price")
		maxPrice   = flag.Float64("max-price", 2500.00, "Maximum unit price")
		seed       = flag.Int64("seed", time.Now().UnixNano(), "Random seed for reproducible generation")
		dirtyLines = flag.Int("dirty-lines", 0, "Number of malformed lines to sprinkle in")
	)
	flag.Parse()

	start, err := time.Parse("2006-01-02", *startDate)
	if err != nil {
		log.Fatalf("Invalid start date: %v", err)
	}

	end, err := time.Parse("2006-01-02", *endDate)
	if err != nil {
		log.Fatalf("Invalid end date: %v", err)
	}

	generator := &SalesGenerator{
		Count:     *count,
		StartDate: start,
		EndDate:   end,
		MinPrice:  decimal.NewFromFloat(*minPrice),
		MaxPrice:  decimal.NewFromFloat(*maxPrice),
		Seed:      *seed,
	}

	records := generator.Generate()

	if err := generator.WriteToFile(*output, records, *dirtyLines); err != nil {
		log.Fatalf("Failed to write sales file: %v", err)
	}

	fmt.Printf("Generated %d sales records in %s\n", len(records), *output)
	fmt.Printf("Date range: %s to %s\n", start.Format("2006-01-02"), end.Format("2006-01-02"))
	fmt.Printf("Seed used: %d\n", *seed)
	if *dirtyLines > 0 {
		fmt.Printf("Malformed lines added: %d\n", *dirtyLines)
	}
}

// Generate creates random sales records distributed across the date range
func (sg *SalesGenerator) Generate() []SalesTemplate {
	rng := rand.New(rand.NewSource(sg.Seed))
	records := make([]SalesTemplate, sg.Count)

	days := int(sg.EndDate.Sub(sg.StartDate)/(24*time.Hour)) + 1
	customerCount := sg.Count/10 + 1

	for i := 0; i < sg.Count; i++ {
		product := products[rng.Intn(len(products))]
		date := sg.StartDate.AddDate(0, 0, rng.Intn(days))

		priceRange := sg.MaxPrice.Sub(sg.MinPrice)
		price := decimal.NewFromFloat(rng.Float64()).Mul(priceRange).Add(sg.MinPrice).Round(2)

		records[i] = SalesTemplate{
			TransactionID: fmt.Sprintf("T%05d", i+1),
			Date:          date,
			ProductID:     product.id,
			ProductName:   product.name,
			Quantity:      int64(rng.Intn(20) + 1),
			UnitPrice:     price,
			CustomerID:    fmt.Sprintf("C%04d", rng.Intn(customerCount)+1),
			Region:        regions[rng.Intn(len(regions))],
		}
	}

	return records
}

// WriteToFile writes records as pipe-delimited lines, optionally
// interleaving malformed lines for parser rejection testing
func (sg *SalesGenerator) WriteToFile(path string, records []SalesTemplate, dirtyLines int) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	rng := rand.New(rand.NewSource(sg.Seed + 1))
	writer := bufio.NewWriter(file)

	dirty := []string{
		"T9999|2024-06-01|P1|Truncated Line|3",
		"X0001|2024-06-01|P1|Bad Prefix Product|2|10.00|C0001|North",
		"T9998|2024-06-02|P2|Zero Quantity|0|15.00|C0002|South",
		"T9997|2024-06-03|P5|Bad Price|2|abc|C0003|East",
		"",
	}

	for i, record := range records {
		line := strings.Join([]string{
			record.TransactionID,
			record.Date.Format("2006-01-02"),
			record.ProductID,
			record.ProductName,
			fmt.Sprintf("%d", record.Quantity),
			record.UnitPrice.String(),
			record.CustomerID,
			record.Region,
		}, "|")

		if _, err := fmt.Fprintln(writer, line); err != nil {
			return err
		}

		if dirtyLines > 0 && i%((len(records)/dirtyLines)+1) == 0 {
			if _, err := fmt.Fprintln(writer, dirty[rng.Intn(len(dirty))]); err != nil {
				return err
			}
			dirtyLines--
		}
	}

	return writer.Flush()
}
