package scenario

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"MarketSizer/internal/engine"
	"MarketSizer/internal/model"
)

// Sector is one sector entry of a scenario file. Revenues are in currency units.
type Sector struct {
	Name            string             `yaml:"name"`
	TotalMarketSize float64            `yaml:"total_market_size"`
	KnownCompanies  map[string]float64 `yaml:"known_companies"`
}

// Company is one company entry of a scenario file.
type Company struct {
	Name                string   `yaml:"name"`
	Sector              string   `yaml:"sector"`
	Employees           int      `yaml:"employees"`
	YearsEstablished    int      `yaml:"years_established"`
	Capex               float64  `yaml:"capex"`
	MarketShareEstimate *float64 `yaml:"market_share_estimate"`
}

// Scenario is the input for a batch run.
type Scenario struct {
	Name      string    `yaml:"name"`
	Sectors   []Sector  `yaml:"sectors"`
	Companies []Company `yaml:"companies"`
}

// Load reads and validates a scenario file.
func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario: %w", err)
	}
	var s Scenario
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parse scenario: %w", err)
	}
	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("scenario %s: %w", path, err)
	}
	return &s, nil
}

// Validate checks names and numeric ranges. All problems are reported together.
func (s *Scenario) Validate() error {
	var errs []error
	seenSector := make(map[string]bool)
	for i, sec := range s.Sectors {
		if sec.Name == "" {
			errs = append(errs, fmt.Errorf("sectors[%d]: name is required", i))
			continue
		}
		if seenSector[sec.Name] {
			errs = append(errs, fmt.Errorf("sector %q: listed twice", sec.Name))
		}
		seenSector[sec.Name] = true
		if sec.TotalMarketSize <= 0 {
			errs = append(errs, fmt.Errorf("sector %q: total_market_size must be positive", sec.Name))
		}
		for name, rev := range sec.KnownCompanies {
			if name == "" {
				errs = append(errs, fmt.Errorf("sector %q: known company with empty name", sec.Name))
			}
			if rev < 0 {
				errs = append(errs, fmt.Errorf("sector %q: known company %q has negative revenue", sec.Name, name))
			}
		}
	}

	seenCompany := make(map[string]bool)
	for i, c := range s.Companies {
		if c.Name == "" {
			errs = append(errs, fmt.Errorf("companies[%d]: name is required", i))
			continue
		}
		if seenCompany[c.Name] {
			errs = append(errs, fmt.Errorf("company %q: listed twice", c.Name))
		}
		seenCompany[c.Name] = true
		if c.Sector == "" {
			errs = append(errs, fmt.Errorf("company %q: sector is required", c.Name))
		}
		if c.Employees < 0 || c.YearsEstablished < 0 || c.Capex < 0 {
			errs = append(errs, fmt.Errorf("company %q: indicators must be non-negative", c.Name))
		}
		if m := c.MarketShareEstimate; m != nil && (*m < 0 || *m > 1) {
			errs = append(errs, fmt.Errorf("company %q: market_share_estimate must be within [0, 1]", c.Name))
		}
	}
	return errors.Join(errs...)
}

// Apply loads the scenario into e. Companies go in first so that each
// sector's remaining company count covers the scenario's companies.
func (s *Scenario) Apply(e *engine.Engine) error {
	for _, c := range s.Companies {
		if err := e.AddCompany(c.Name, c.Sector, c.Indicators()); err != nil {
			return fmt.Errorf("add company: %w", err)
		}
	}
	for _, sec := range s.Sectors {
		if _, err := e.RegisterSector(sec.Name, sec.TotalMarketSize, sec.KnownCompanies); err != nil {
			return fmt.Errorf("register sector: %w", err)
		}
	}
	return nil
}

// Indicators converts the entry to engine indicators.
func (c Company) Indicators() model.Indicators {
	return model.Indicators{
		Employees:           c.Employees,
		YearsEstablished:    c.YearsEstablished,
		Capex:               c.Capex,
		MarketShareEstimate: c.MarketShareEstimate,
	}
}
