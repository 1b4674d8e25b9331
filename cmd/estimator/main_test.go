package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"MarketSizer/internal/recorder"
	"MarketSizer/internal/scheduler"
	"MarketSizer/internal/weighting"
)

type closeCounter struct {
	recorder.NoopRecorder
	closed int
}

func (c *closeCounter) Close() error {
	c.closed++
	return nil
}

func TestRunOnce_ClosesRecorderOnFailure(t *testing.T) {
	rec := &closeCounter{}
	missing := filepath.Join(t.TempDir(), "missing.yaml")
	sched := scheduler.NewScheduler(context.Background(), missing, "", weighting.Default, rec, nil)

	if code := runOnce(sched, rec); code != 1 {
		t.Errorf("exit code = %d, want 1", code)
	}
	if rec.closed != 1 {
		t.Errorf("recorder closed %d times, want 1", rec.closed)
	}
}

func TestRunOnce_ClosesRecorderOnSuccess(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "scenario.yaml")
	data := `
name: tiny
sectors:
  - name: Energy
    total_market_size: 100
companies:
  - name: Solo
    sector: Energy
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}
	rec := &closeCounter{}
	sched := scheduler.NewScheduler(context.Background(), path, "", weighting.Default, rec, nil)

	if code := runOnce(sched, rec); code != 0 {
		t.Errorf("exit code = %d, want 0", code)
	}
	if rec.closed != 1 {
		t.Errorf("recorder closed %d times, want 1", rec.closed)
	}
}
