package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/shopspring/decimal"

	"MarketSizer/internal/model"
)

// Header is the column order of the company export.
var Header = []string{
	"name", "sector", "employees", "years_established", "capex",
	"market_share_estimate", "revenue", "revenue_source", "confidence",
}

// WriteCSV writes one row per company. Unset optional fields are empty cells.
func WriteCSV(w io.Writer, companies []model.Company) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, c := range companies {
		if err := cw.Write(row(c)); err != nil {
			return fmt.Errorf("write row %q: %w", c.Name, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteCSVFile writes the export to path, creating parent directories.
func WriteCSVFile(path string, companies []model.Company) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("mkdir %s: %w", dir, err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := WriteCSV(f, companies); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func row(c model.Company) []string {
	share := ""
	if c.MarketShareEstimate != nil {
		share = decimal.NewFromFloat(*c.MarketShareEstimate).String()
	}
	revenue := ""
	if c.Revenue != nil {
		revenue = money(*c.Revenue)
	}
	return []string{
		c.Name,
		c.Sector,
		strconv.Itoa(c.Employees),
		strconv.Itoa(c.YearsEstablished),
		money(c.Capex),
		share,
		revenue,
		string(c.RevenueSource),
		string(c.Confidence),
	}
}

func money(v float64) string {
	return decimal.NewFromFloat(v).StringFixed(2)
}
