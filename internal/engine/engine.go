package engine

import (
	"errors"
	"log"

	"MarketSizer/internal/estimator"
	"MarketSizer/internal/ledger"
	"MarketSizer/internal/model"
	"MarketSizer/internal/registry"
	"MarketSizer/internal/weighting"
)

// Engine is the orchestrating context for one estimation session: it owns the
// sector ledger and the company registry and drives the estimator over them.
// An Engine has a single writer; callers serialize access.
type Engine struct {
	Ledger    *ledger.Ledger
	Registry  *registry.Registry
	Estimator *estimator.Estimator
}

// New creates an empty Engine using the given weighting model.
func New(w weighting.Model) *Engine {
	l := ledger.New()
	r := registry.New()
	return &Engine{
		Ledger:    l,
		Registry:  r,
		Estimator: estimator.New(l, r, w),
	}
}

// RegisterSector registers sector data, taking the remaining company count
// from the registry's current contents. Companies added afterwards are not
// reflected until the sector is registered again.
func (e *Engine) RegisterSector(name string, totalMarketSize float64, knownCompanies map[string]float64) (*model.Sector, error) {
	remaining := e.Registry.CountRemaining(name, knownCompanies)
	return e.Ledger.RegisterSector(name, totalMarketSize, knownCompanies, remaining)
}

// AddCompany adds a company to the registry.
func (e *Engine) AddCompany(name, sector string, ind model.Indicators) error {
	return e.Registry.AddCompany(name, sector, ind)
}

// EstimateCompany estimates a company from its stored indicators and records
// the result. Nothing is recorded on error.
func (e *Engine) EstimateCompany(name string) (*model.Estimate, error) {
	c, err := e.Registry.Get(name)
	if err != nil {
		return nil, err
	}
	return e.estimateAndRecord(c.Name, c.Indicators)
}

// EstimateWith estimates a company from the given indicators instead of the
// stored ones and records the result.
func (e *Engine) EstimateWith(name string, ind model.Indicators) (*model.Estimate, error) {
	return e.estimateAndRecord(name, ind)
}

func (e *Engine) estimateAndRecord(name string, ind model.Indicators) (*model.Estimate, error) {
	res, err := e.Estimator.Estimate(name, ind)
	if err != nil {
		return nil, err
	}
	if err := e.Registry.RecordEstimate(name, res.Revenue, res.Source, res.Confidence); err != nil {
		return nil, err
	}
	return res, nil
}

// Outcome is the result of one company within a batch.
type Outcome struct {
	Company  string
	Sector   string
	Estimate *model.Estimate // nil on failure
	Err      error
}

// BatchReport summarizes a batch run.
type BatchReport struct {
	Outcomes  []Outcome
	Succeeded int
	Failed    int
}

// BudgetFailures counts outcomes rejected by the residual budget check.
func (b *BatchReport) BudgetFailures() int {
	n := 0
	for _, o := range b.Outcomes {
		if errors.Is(o.Err, estimator.ErrBudgetExceeded) {
			n++
		}
	}
	return n
}

// RunBatch estimates every company without a revenue, in registry order,
// recording each success before moving on. Because each recorded estimate
// reduces what is left of Z, the order decides which company wins when their
// combined estimates do not fit. Failures are collected and not retried.
func (e *Engine) RunBatch() *BatchReport {
	report := &BatchReport{}
	for c := range e.Registry.CompaniesNeedingEstimate() {
		res, err := e.estimateAndRecord(c.Name, c.Indicators)
		report.Outcomes = append(report.Outcomes, Outcome{
			Company:  c.Name,
			Sector:   c.Sector,
			Estimate: res,
			Err:      err,
		})
		if err != nil {
			report.Failed++
			log.Printf("[WARN] estimate %s (%s): %v", c.Name, c.Sector, err)
			continue
		}
		report.Succeeded++
	}
	log.Printf("[INFO] batch finished: %d estimated, %d failed", report.Succeeded, report.Failed)
	return report
}
