package recorder

import (
	"time"

	"MarketSizer/internal/model"
)

// CompanyResult is the outcome of one company in a batch run.
type CompanyResult struct {
	Company    string
	Sector     string
	Revenue    float64
	Source     model.RevenueSource
	Confidence model.Confidence
	Weight     float64 // 0 for reported results
	Error      string  // empty on success
}

// BatchRun holds everything recorded for one batch.
type BatchRun struct {
	ID        string
	Scenario  string
	StartedAt time.Time
	Sectors   []model.Sector
	Results   []CompanyResult
}

// Succeeded counts results without an error.
func (b *BatchRun) Succeeded() int {
	n := 0
	for _, r := range b.Results {
		if r.Error == "" {
			n++
		}
	}
	return n
}

// RunSummary is a row of the run history.
type RunSummary struct {
	ID        string
	Scenario  string
	StartedAt time.Time
	Succeeded int
	Failed    int
}

// Recorder persists batch run history for later analysis.
type Recorder interface {
	RecordRun(run *BatchRun) error
	RecentRuns(limit int) ([]RunSummary, error)
	Close() error
}
