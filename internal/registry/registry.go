package registry

import (
	"errors"
	"fmt"
	"iter"

	"MarketSizer/internal/model"
)

var (
	ErrDuplicateCompany = errors.New("duplicate company")
	ErrUnknownCompany   = errors.New("unknown company")
)

// Registry holds the companies under study in insertion order.
// It is not safe for concurrent use.
type Registry struct {
	companies []*model.Company
	index     map[string]int
}

// New creates an empty Registry.
func New() *Registry {
	return &Registry{index: make(map[string]int)}
}

// AddCompany inserts a company with unset revenue fields.
func (r *Registry) AddCompany(name, sector string, ind model.Indicators) error {
	if _, ok := r.index[name]; ok {
		return fmt.Errorf("%w: %q", ErrDuplicateCompany, name)
	}
	if ind.MarketShareEstimate != nil {
		ind.MarketShareEstimate = model.Float(*ind.MarketShareEstimate)
	}
	r.index[name] = len(r.companies)
	r.companies = append(r.companies, &model.Company{
		Name:       name,
		Sector:     sector,
		Indicators: ind,
	})
	return nil
}

// Get returns a copy of the named company.
func (r *Registry) Get(name string) (model.Company, error) {
	i, ok := r.index[name]
	if !ok {
		return model.Company{}, fmt.Errorf("%w: %q", ErrUnknownCompany, name)
	}
	return copyCompany(r.companies[i]), nil
}

// Len returns the number of registered companies.
func (r *Registry) Len() int { return len(r.companies) }

// Companies returns copies of all companies in insertion order.
func (r *Registry) Companies() []model.Company {
	out := make([]model.Company, len(r.companies))
	for i, c := range r.companies {
		out[i] = copyCompany(c)
	}
	return out
}

// InSector yields the companies assigned to sector, in insertion order.
func (r *Registry) InSector(sector string) iter.Seq[model.Company] {
	return func(yield func(model.Company) bool) {
		for _, c := range r.companies {
			if c.Sector != sector {
				continue
			}
			if !yield(copyCompany(c)) {
				return
			}
		}
	}
}

// CompaniesNeedingEstimate yields companies whose revenue is unset, in
// insertion order. Each element is checked when it is reached, so a company
// recorded earlier in the same walk is skipped. The sequence can be ranged
// over any number of times.
func (r *Registry) CompaniesNeedingEstimate() iter.Seq[model.Company] {
	return func(yield func(model.Company) bool) {
		for i := 0; i < len(r.companies); i++ {
			c := r.companies[i]
			if c.Revenue != nil {
				continue
			}
			if !yield(copyCompany(c)) {
				return
			}
		}
	}
}

// CountRemaining counts the companies of sector that are not known players.
// This is the figure handed to ledger.RegisterSector.
func (r *Registry) CountRemaining(sector string, known map[string]float64) int {
	n := 0
	for _, c := range r.companies {
		if c.Sector != sector {
			continue
		}
		if _, ok := known[c.Name]; ok {
			continue
		}
		n++
	}
	return n
}

// RecordEstimate overwrites the result fields of an existing company.
func (r *Registry) RecordEstimate(name string, revenue float64, source model.RevenueSource, confidence model.Confidence) error {
	i, ok := r.index[name]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownCompany, name)
	}
	c := r.companies[i]
	c.Revenue = model.Float(revenue)
	c.RevenueSource = source
	c.Confidence = confidence
	return nil
}

func copyCompany(c *model.Company) model.Company {
	out := *c
	if c.Revenue != nil {
		out.Revenue = model.Float(*c.Revenue)
	}
	if c.MarketShareEstimate != nil {
		out.MarketShareEstimate = model.Float(*c.MarketShareEstimate)
	}
	return out
}
