package notifier

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"MarketSizer/internal/engine"
	"MarketSizer/internal/estimator"
	"MarketSizer/internal/model"
)

func newTestNotifier(srv *httptest.Server) *TelegramNotifier {
	n := NewTelegramNotifier("TOKEN", "42", "")
	n.APIBase = srv.URL
	n.Client = srv.Client()
	n.Backoff = func(int) time.Duration { return time.Millisecond }
	return n
}

func TestSend_Payload(t *testing.T) {
	var got map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/botTOKEN/sendMessage" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		_ = json.NewDecoder(r.Body).Decode(&got)
	}))
	defer srv.Close()

	if err := newTestNotifier(srv).Send(context.Background(), "hello"); err != nil {
		t.Fatalf("send: %v", err)
	}
	if got["chat_id"] != "42" || got["text"] != "hello" || got["parse_mode"] != "HTML" {
		t.Errorf("unexpected payload: %v", got)
	}
}

func TestSendWithRetry(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
		}
	}))
	defer srv.Close()

	if err := newTestNotifier(srv).SendWithRetry(context.Background(), "x", 3); err != nil {
		t.Fatalf("expected success on third attempt: %v", err)
	}
	if calls != 3 {
		t.Errorf("expected 3 calls, got %d", calls)
	}
}

func TestSendWithRetry_Exhausted(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	err := newTestNotifier(srv).SendWithRetry(context.Background(), "x", 2)
	if err == nil || !strings.Contains(err.Error(), "3 attempts") {
		t.Fatalf("expected exhaustion error, got %v", err)
	}
	if calls != 3 {
		t.Errorf("expected 3 calls, got %d", calls)
	}
}

func TestParseCommand(t *testing.T) {
	tests := []struct{ in, cmd, args string }{
		{"/run", "/run", ""},
		{"  /market   Pharmaceuticals ", "/market", "Pharmaceuticals"},
		{"/market@SizerBot Consumer Goods", "/market", "Consumer Goods"},
	}
	for _, tt := range tests {
		cmd, args := ParseCommand(tt.in)
		if cmd != tt.cmd || args != tt.args {
			t.Errorf("%q: got (%q, %q)", tt.in, cmd, args)
		}
	}
}

func TestMoney(t *testing.T) {
	if got := Money(65_000_000); got != "$65,000,000" {
		t.Errorf("got %s", got)
	}
	if got := Money(-15_000_000.4); got != "-$15,000,000" {
		t.Errorf("got %s", got)
	}
}

func TestFormatBatchReport(t *testing.T) {
	report := &engine.BatchReport{
		Outcomes: []engine.Outcome{
			{Company: "A", Sector: "Pharma", Estimate: &model.Estimate{Revenue: 20_000_000, Source: model.SourceReported, Confidence: model.ConfidenceHigh}},
			{Company: "D", Sector: "Pharma", Estimate: &model.Estimate{
				Revenue: 6_500_000, Source: model.SourceEstimated, Confidence: model.ConfidenceMedium,
				Weight: &model.WeightBreakdown{Total: 0.1},
			}},
			{Company: "C<&>", Sector: "Pharma", Err: &estimator.BudgetExceededError{Company: "C", Sector: "Pharma", ResidualMarket: 65, EstimatedRevenue: 130}},
		},
		Succeeded: 2,
		Failed:    1,
	}
	msg := FormatBatchReport("pharma", "run-1", time.Date(2026, 1, 2, 3, 4, 0, 0, time.UTC), report)
	for _, want := range []string{
		"2026-01-02 03:04",
		"✅ A: $20,000,000 [reported/high]",
		"✅ D: $6,500,000 [estimated/medium] w=0.10",
		"❌ C&lt;&amp;&gt;",
		"Estimated: 2 | Failed: 1 (1 over budget)",
	} {
		if !strings.Contains(msg, want) {
			t.Errorf("missing %q in:\n%s", want, msg)
		}
	}

	empty := FormatBatchReport("", "run-2", time.Now(), &engine.BatchReport{})
	if !strings.Contains(empty, "No companies needed an estimate") {
		t.Errorf("unexpected empty report: %s", empty)
	}
}

func TestFormatComposition(t *testing.T) {
	msg := FormatComposition(&model.Composition{
		Sector: "Pharma", TotalMarket: 100_000_000, KnownRevenue: 35_000_000, Residual: 65_000_000,
		KnownShare: 0.35, ResidualShare: 0.65,
		KnownPlayers: []model.KnownPlayer{{Name: "A", Revenue: 20_000_000}, {Name: "B", Revenue: 15_000_000}},
	})
	for _, want := range []string{"Major players (X): $35,000,000 (35%)", "Remaining market (Z): $65,000,000 (65%)", "A: $20,000,000"} {
		if !strings.Contains(msg, want) {
			t.Errorf("missing %q in:\n%s", want, msg)
		}
	}
}
