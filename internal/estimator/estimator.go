package estimator

import (
	"fmt"

	"MarketSizer/internal/ledger"
	"MarketSizer/internal/model"
	"MarketSizer/internal/registry"
	"MarketSizer/internal/weighting"
)

// Estimator decides between reported and estimated revenue and enforces the
// residual budget of each sector. It reads the ledger and registry it is
// given and never writes to them.
type Estimator struct {
	Ledger   *ledger.Ledger
	Registry *registry.Registry
	Weights  weighting.Model
}

// New creates an Estimator over the given collections.
func New(l *ledger.Ledger, r *registry.Registry, w weighting.Model) *Estimator {
	return &Estimator{Ledger: l, Registry: r, Weights: w}
}

// Estimate computes the revenue of companyName from ind.
//
// Known players return their reported figure with high confidence and skip the
// budget check. Everyone else gets avgSmallPlayerRevenue × weight, rejected
// with a *BudgetExceededError when it would push the sector's estimated total
// past Z. The result is not recorded; call Registry.RecordEstimate with it.
func (e *Estimator) Estimate(companyName string, ind model.Indicators) (*model.Estimate, error) {
	company, err := e.Registry.Get(companyName)
	if err != nil {
		return nil, err
	}
	sector, err := e.Ledger.GetSector(company.Sector)
	if err != nil {
		return nil, fmt.Errorf("%w: %q (company %q)", ErrUnknownSectorData, company.Sector, companyName)
	}

	if revenue, ok := sector.KnownCompanies[companyName]; ok {
		return &model.Estimate{
			Company:    companyName,
			Sector:     sector.Name,
			Revenue:    revenue,
			Source:     model.SourceReported,
			Confidence: model.ConfidenceHigh,
		}, nil
	}

	weight := e.Weights.Compute(ind)
	estimated := sector.AvgSmallPlayerRevenue * weight.Total

	current := e.currentResidualSum(sector, companyName)
	if current+estimated > sector.ResidualMarket {
		return nil, &BudgetExceededError{
			Company:          companyName,
			Sector:           sector.Name,
			ResidualMarket:   sector.ResidualMarket,
			CurrentSum:       current,
			EstimatedRevenue: estimated,
		}
	}

	return &model.Estimate{
		Company:    companyName,
		Sector:     sector.Name,
		Revenue:    estimated,
		Source:     model.SourceEstimated,
		Confidence: model.ConfidenceMedium,
		Weight:     &weight,
	}, nil
}

// currentResidualSum sums the estimated revenue already allocated out of Z in
// sector. The company being estimated is left out since its value is about to
// be replaced.
func (e *Estimator) currentResidualSum(sector *model.Sector, exclude string) float64 {
	var sum float64
	for c := range e.Registry.InSector(sector.Name) {
		if c.Name == exclude || c.RevenueSource != model.SourceEstimated || c.Revenue == nil {
			continue
		}
		if sector.IsKnown(c.Name) {
			continue
		}
		sum += *c.Revenue
	}
	return sum
}
