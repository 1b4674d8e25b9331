package estimator

import (
	"errors"
	"fmt"
)

var (
	ErrUnknownSectorData = errors.New("no market data for sector")
	ErrBudgetExceeded    = errors.New("estimate exceeds residual market")
)

// BudgetExceededError carries the figures behind a rejected estimate.
type BudgetExceededError struct {
	Company          string
	Sector           string
	ResidualMarket   float64 // Z
	CurrentSum       float64 // already estimated revenue in the sector
	EstimatedRevenue float64 // the rejected value
}

func (e *BudgetExceededError) Error() string {
	return fmt.Sprintf("estimation for %q would exceed remaining Z market size (%.2f) for sector %q: current Z sum %.2f, estimate %.2f",
		e.Company, e.ResidualMarket, e.Sector, e.CurrentSum, e.EstimatedRevenue)
}

func (e *BudgetExceededError) Is(target error) bool { return target == ErrBudgetExceeded }
