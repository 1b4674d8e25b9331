package weighting

import (
	"math"
	"testing"

	"MarketSizer/internal/model"
)

const eps = 1e-9

func TestCompute_SubScores(t *testing.T) {
	tests := []struct {
		name  string
		ind   model.Indicators
		want  float64
		emp   float64
		capex float64
		age   float64
	}{
		{"all caps hit", model.Indicators{Employees: 300, Capex: 1_000_000, YearsEstablished: 10}, 2.0, 3, 1, 1},
		{"unit scores", model.Indicators{Employees: 100, Capex: 1_000_000, YearsEstablished: 10}, 1.0, 1, 1, 1},
		{"zero indicators floor", model.Indicators{}, MinWeight, 0, 0, 0},
		{"tiny company floor", model.Indicators{Employees: 5, YearsEstablished: 1}, MinWeight, 0.05, 0, 0.1},
		{"huge company", model.Indicators{Employees: 100_000, Capex: 1e12, YearsEstablished: 200}, 2.4, 3, 2, 1.5},
		{"negative inputs clamp", model.Indicators{Employees: -50, Capex: -1, YearsEstablished: -3}, MinWeight, 0, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Default.Compute(tt.ind)
			if math.Abs(got.Total-tt.want) > eps {
				t.Errorf("total: expected %.4f, got %.4f", tt.want, got.Total)
			}
			if math.Abs(got.EmployeeScore-tt.emp) > eps || math.Abs(got.CapexScore-tt.capex) > eps || math.Abs(got.AgeScore-tt.age) > eps {
				t.Errorf("sub-scores: expected (%v,%v,%v), got (%v,%v,%v)",
					tt.emp, tt.capex, tt.age, got.EmployeeScore, got.CapexScore, got.AgeScore)
			}
			if got.PrimaryFactor != model.FactorIndicators {
				t.Errorf("expected indicators factor, got %s", got.PrimaryFactor)
			}
		})
	}
}

func TestCompute_MarketShareOverride(t *testing.T) {
	ind := model.Indicators{Employees: 10_000, Capex: 9e9, YearsEstablished: 90, MarketShareEstimate: model.Float(0.1)}
	got := Default.Compute(ind)
	if got.Total != 0.1 {
		t.Errorf("expected exactly 0.1, got %v", got.Total)
	}
	if got.PrimaryFactor != model.FactorMarketShare {
		t.Errorf("expected market_share factor, got %s", got.PrimaryFactor)
	}
	if got.EmployeeScore != 0 || got.CapexScore != 0 || got.AgeScore != 0 {
		t.Errorf("override must not report sub-scores: %+v", got)
	}
	if ComputeWeight(ind) != 0.1 {
		t.Errorf("ComputeWeight mismatch")
	}
}

func TestCompute_ZeroShare(t *testing.T) {
	ind := model.Indicators{Employees: 100, Capex: 1_000_000, YearsEstablished: 10, MarketShareEstimate: model.Float(0)}

	if got := Default.Compute(ind); math.Abs(got.Total-1.0) > eps || got.PrimaryFactor != model.FactorIndicators {
		t.Errorf("default: zero share should fall through to indicators, got %+v", got)
	}

	explicit := Model{ZeroShareIsOverride: true}
	if got := explicit.Compute(ind); got.Total != 0 || got.PrimaryFactor != model.FactorMarketShare {
		t.Errorf("explicit: zero share should be an override, got %+v", got)
	}
}

func TestCompute_MonotonicAndBounded(t *testing.T) {
	for e := 0; e <= 500; e += 25 {
		for y := 0; y <= 30; y += 3 {
			for c := 0.0; c <= 4e6; c += 5e5 {
				base := ComputeWeight(model.Indicators{Employees: e, YearsEstablished: y, Capex: c})
				if base < MinWeight || base > MaxWeight {
					t.Fatalf("weight %v out of bounds for (%d,%d,%v)", base, e, y, c)
				}
				if w := ComputeWeight(model.Indicators{Employees: e + 25, YearsEstablished: y, Capex: c}); w+eps < base {
					t.Fatalf("not monotonic in employees at (%d,%d,%v)", e, y, c)
				}
				if w := ComputeWeight(model.Indicators{Employees: e, YearsEstablished: y + 3, Capex: c}); w+eps < base {
					t.Fatalf("not monotonic in years at (%d,%d,%v)", e, y, c)
				}
				if w := ComputeWeight(model.Indicators{Employees: e, YearsEstablished: y, Capex: c + 5e5}); w+eps < base {
					t.Fatalf("not monotonic in capex at (%d,%d,%v)", e, y, c)
				}
			}
		}
	}
}
