package scheduler

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"

	"MarketSizer/internal/engine"
	"MarketSizer/internal/export"
	"MarketSizer/internal/notifier"
	"MarketSizer/internal/recorder"
	"MarketSizer/internal/scenario"
	"MarketSizer/internal/weighting"
)

// Scheduler runs batch estimations on a cron schedule and on demand.
// Runs are serialized: each run builds its own engine from the scenario file,
// so the engine only ever has one writer.
type Scheduler struct {
	Cron         *cron.Cron
	ScenarioPath string
	CSVPath      string
	Weights      weighting.Model
	Recorder     recorder.Recorder
	Notifier     notifier.Sender // nil disables notifications
	Ctx          context.Context
	NewID        func() string
	Now          func() time.Time

	mu   sync.Mutex
	last *engine.Engine
}

// Result is what one run produced.
type Result struct {
	RunID    string
	Scenario string
	Engine   *engine.Engine
	Report   *engine.BatchReport
}

// NewScheduler creates a new Scheduler.
func NewScheduler(ctx context.Context, scenarioPath, csvPath string, w weighting.Model, rec recorder.Recorder, n notifier.Sender) *Scheduler {
	parser := cron.NewParser(cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)
	return &Scheduler{
		Cron:         cron.New(cron.WithParser(parser)),
		ScenarioPath: scenarioPath,
		CSVPath:      csvPath,
		Weights:      w,
		Recorder:     rec,
		Notifier:     n,
		Ctx:          ctx,
		NewID:        uuid.NewString,
		Now:          time.Now,
	}
}

// Register schedules the batch task.
func (s *Scheduler) Register(batchCron string) error {
	if _, err := s.Cron.AddFunc(batchCron, s.batchTask); err != nil {
		return fmt.Errorf("register batch task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	log.Println("[INFO] scheduler started")
}

// Stop stops the cron scheduler and waits for a running job.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	log.Println("[INFO] scheduler stopped")
}

func (s *Scheduler) batchTask() {
	if _, err := s.RunBatch(); err != nil {
		log.Printf("[ERROR] batch run: %v", err)
		s.trySend(fmt.Sprintf("❌ Batch run failed: %v", err))
	}
}

// RunBatch loads the scenario, estimates every company, exports the registry
// to CSV, records the run and sends the report.
// Export, record and notification failures are logged and do not fail the run.
// The report is sent after the run lock is released so commands stay
// responsive while the notifier backs off.
func (s *Scheduler) RunBatch() (*Result, error) {
	res, report, err := s.run()
	if err != nil {
		return nil, err
	}
	s.trySend(report)
	return res, nil
}

func (s *Scheduler) run() (*Result, string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	log.Printf("[INFO] running batch from %s", s.ScenarioPath)
	startedAt := s.Now()

	sc, err := scenario.Load(s.ScenarioPath)
	if err != nil {
		return nil, "", err
	}
	eng := engine.New(s.Weights)
	if err := sc.Apply(eng); err != nil {
		return nil, "", fmt.Errorf("apply scenario: %w", err)
	}

	report := eng.RunBatch()
	res := &Result{RunID: s.NewID(), Scenario: sc.Name, Engine: eng, Report: report}
	s.last = eng

	if s.CSVPath != "" {
		if err := export.WriteCSVFile(s.CSVPath, eng.Registry.Companies()); err != nil {
			log.Printf("[ERROR] export csv: %v", err)
		} else {
			log.Printf("[INFO] exported %d companies to %s", eng.Registry.Len(), s.CSVPath)
		}
	}

	if err := s.Recorder.RecordRun(buildRun(res, startedAt)); err != nil {
		log.Printf("[ERROR] record run: %v", err)
	}

	return res, notifier.FormatBatchReport(sc.Name, res.RunID, startedAt, report), nil
}

func buildRun(res *Result, startedAt time.Time) *recorder.BatchRun {
	run := &recorder.BatchRun{ID: res.RunID, Scenario: res.Scenario, StartedAt: startedAt}
	for _, name := range res.Engine.Ledger.Sectors() {
		sec, err := res.Engine.Ledger.GetSector(name)
		if err != nil {
			continue
		}
		run.Sectors = append(run.Sectors, *sec)
	}
	for _, o := range res.Report.Outcomes {
		cr := recorder.CompanyResult{Company: o.Company, Sector: o.Sector}
		if o.Err != nil {
			cr.Error = o.Err.Error()
		} else {
			cr.Revenue = o.Estimate.Revenue
			cr.Source = o.Estimate.Source
			cr.Confidence = o.Estimate.Confidence
			if o.Estimate.Weight != nil {
				cr.Weight = o.Estimate.Weight.Total
			}
		}
		run.Results = append(run.Results, cr)
	}
	return run
}

// HandleCommand processes a user command and returns a reply.
func (s *Scheduler) HandleCommand(command, args string) string {
	switch command {
	case "/run":
		if _, err := s.RunBatch(); err != nil {
			return fmt.Sprintf("❌ Batch run failed: %v", err)
		}
		return ""
	case "/sectors":
		eng := s.lastEngine()
		if eng == nil {
			return "No batch has run yet. Send /run first."
		}
		return notifier.FormatSectorList(eng.Ledger.Sectors())
	case "/market":
		eng := s.lastEngine()
		if eng == nil {
			return "No batch has run yet. Send /run first."
		}
		if args == "" {
			return "Usage: /market <sector>"
		}
		comp, err := eng.Ledger.Composition(args)
		if err != nil {
			return fmt.Sprintf("❌ %v", err)
		}
		return notifier.FormatComposition(comp)
	case "/history":
		runs, err := s.Recorder.RecentRuns(5)
		if err != nil {
			return fmt.Sprintf("❌ %v", err)
		}
		return notifier.FormatRecentRuns(runs)
	default:
		return "Available commands:\n• /run\n• /sectors\n• /market &lt;sector&gt;\n• /history"
	}
}

func (s *Scheduler) lastEngine() *engine.Engine {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.last
}

func (s *Scheduler) trySend(text string) {
	if s.Notifier == nil {
		return
	}
	if err := s.Notifier.SendWithRetry(s.Ctx, text, 3); err != nil {
		log.Printf("[ERROR] send notification: %v", err)
	}
}
