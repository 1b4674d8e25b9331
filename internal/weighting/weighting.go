package weighting

import "MarketSizer/internal/model"

// Sub-score scales and caps.
const (
	employeesPerPoint = 100.0
	capexPerPoint     = 1_000_000.0
	yearsPerPoint     = 10.0

	maxEmployeeScore = 3.0
	maxCapexScore    = 2.0
	maxAgeScore      = 1.5

	employeeWeight = 0.5
	capexWeight    = 0.3
	ageWeight      = 0.2

	// MinWeight keeps every company without an override above zero.
	MinWeight = 0.1
	// MaxWeight bounds a single small player relative to the sector average.
	MaxWeight = 3.0
)

// Model maps company indicators to a composite weight.
type Model struct {
	// ZeroShareIsOverride makes a market share estimate of exactly 0 an
	// explicit zero weight. When false, 0 is treated as "not supplied" and the
	// indicator scores are used.
	ZeroShareIsOverride bool
}

// Default is the model used by ComputeWeight.
var Default = Model{}

// ComputeWeight returns the composite weight for ind using the Default model.
func ComputeWeight(ind model.Indicators) float64 {
	return Default.Compute(ind).Total
}

// Compute returns the composite weight and the sub-scores behind it.
// A supplied market share estimate is returned unchanged and no indicator
// contributes. It never fails: out-of-range indicators clamp.
func (m Model) Compute(ind model.Indicators) model.WeightBreakdown {
	if m.hasOverride(ind) {
		return model.WeightBreakdown{
			Total:         *ind.MarketShareEstimate,
			PrimaryFactor: model.FactorMarketShare,
		}
	}

	employee := clamp(float64(ind.Employees)/employeesPerPoint, 0, maxEmployeeScore)
	capex := clamp(ind.Capex/capexPerPoint, 0, maxCapexScore)
	age := clamp(float64(ind.YearsEstablished)/yearsPerPoint, 0, maxAgeScore)

	raw := employeeWeight*employee + capexWeight*capex + ageWeight*age

	return model.WeightBreakdown{
		Total:         clamp(raw, MinWeight, MaxWeight),
		PrimaryFactor: model.FactorIndicators,
		EmployeeScore: employee,
		CapexScore:    capex,
		AgeScore:      age,
	}
}

func (m Model) hasOverride(ind model.Indicators) bool {
	if ind.MarketShareEstimate == nil {
		return false
	}
	if *ind.MarketShareEstimate == 0 {
		return m.ZeroShareIsOverride
	}
	return true
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
