package schedule

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"glpiboard/internal/client"
	"glpiboard/internal/domain"
	"glpiboard/internal/invoke/invoketest"
	"glpiboard/internal/storage/sqlite"
)

type recordingNotifier struct {
	delivered  []domain.ExportRecord
	summaries  []string
	deliverErr error
}

func (n *recordingNotifier) Deliver(_ context.Context, rec domain.ExportRecord) error {
	if n.deliverErr != nil {
		return n.deliverErr
	}
	n.delivered = append(n.delivered, rec)
	return nil
}

func (n *recordingNotifier) Summarize(_ context.Context, text string) error {
	n.summaries = append(n.summaries, text)
	return nil
}

func exportReply(args json.RawMessage) (any, error) {
	var a struct {
		Path string `json:"path"`
	}
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	return domain.ExportResult{Path: a.Path, SizeBytes: 2048, DurationMs: 120}, nil
}

func newRunner(t *testing.T, b *invoketest.Backend, n *recordingNotifier, kinds ...string) *Runner {
	t.Helper()
	db, err := sqlite.InitDB(filepath.Join(t.TempDir(), "journal.db"))
	if err != nil {
		t.Fatalf("InitDB failed: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return &Runner{
		Exporter: client.New(b),
		DB:       db,
		Notifier: n,
		Dir:      "/exports",
		Kinds:    kinds,
		Location: time.UTC,
		Now:      func() time.Time { return time.Date(2024, 7, 1, 6, 0, 0, 0, time.UTC) },
	}
}

func TestPreviousMonth(t *testing.T) {
	tests := []struct {
		now      time.Time
		from, to string
	}{
		{time.Date(2024, 7, 1, 6, 0, 0, 0, time.UTC), "2024-06-01", "2024-06-30"},
		{time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC), "2024-02-01", "2024-02-29"},
		{time.Date(2025, 1, 31, 23, 0, 0, 0, time.UTC), "2024-12-01", "2024-12-31"},
	}
	for _, tt := range tests {
		got := PreviousMonth(tt.now)
		if got.DateFrom != tt.from || got.DateTo != tt.to {
			t.Errorf("PreviousMonth(%s) = %s..%s, want %s..%s", tt.now, got.DateFrom, got.DateTo, tt.from, tt.to)
		}
		if got.Period != domain.GranularityWeek {
			t.Errorf("PreviousMonth(%s) period = %s, want week", tt.now, got.Period)
		}
	}
}

func TestExportPath(t *testing.T) {
	at := time.Date(2024, 7, 1, 6, 5, 0, 0, time.UTC)
	if got := ExportPath("/exports", domain.ExportKindStock, at); got != "/exports/stock_20240701_060500.xlsx" {
		t.Errorf("stock path = %q", got)
	}
	if got := ExportPath("/exports", domain.ExportKindPlans, at); got != "/exports/plans_20240701_060500.zip" {
		t.Errorf("plans path = %q", got)
	}
}

func TestExportPathAvoidsExistingFiles(t *testing.T) {
	dir := t.TempDir()
	at := time.Date(2024, 7, 1, 6, 5, 9, 0, time.UTC)
	first := ExportPath(dir, domain.ExportKindStock, at)
	if want := filepath.Join(dir, "stock_20240701_060509.xlsx"); first != want {
		t.Fatalf("first path = %q, want %q", first, want)
	}
	if err := os.WriteFile(first, []byte("xlsx"), 0o644); err != nil {
		t.Fatal(err)
	}
	second := ExportPath(dir, domain.ExportKindStock, at)
	if want := filepath.Join(dir, "stock_20240701_060509_2.xlsx"); second != want {
		t.Fatalf("second path = %q, want %q", second, want)
	}
	if err := os.WriteFile(second, []byte("xlsx"), 0o644); err != nil {
		t.Fatal(err)
	}
	if got := ExportPath(dir, domain.ExportKindStock, at); got != filepath.Join(dir, "stock_20240701_060509_3.xlsx") {
		t.Fatalf("third path = %q", got)
	}
}

func TestRunExportsContinuesAfterFailure(t *testing.T) {
	b := invoketest.NewBackend()
	b.Fail(client.CmdExportStock, "Aucun import actif")
	b.Handle(client.CmdExportAllPlans, exportReply)
	b.Handle(client.CmdExportBilan, exportReply)
	n := &recordingNotifier{}
	r := newRunner(t, b, n, domain.ExportKindStock, domain.ExportKindPlans, domain.ExportKindBilan)

	records, err := r.RunExports(context.Background(), TriggerSchedule)
	if err != nil {
		t.Fatalf("RunExports: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("expected 3 records, got %d", len(records))
	}
	if records[0].Status != domain.ExportStatusFailed || records[0].Error != "Aucun import actif" {
		t.Fatalf("stock record = %+v", records[0])
	}
	for _, rec := range records[1:] {
		if rec.Status != domain.ExportStatusOK || !rec.Delivered || rec.SizeBytes != 2048 {
			t.Fatalf("record = %+v", rec)
		}
	}
	if len(n.delivered) != 2 {
		t.Fatalf("expected 2 deliveries, got %d", len(n.delivered))
	}
	if len(n.summaries) != 1 || !strings.Contains(n.summaries[0], "2 réussi(s), 1 échec(s)") {
		t.Fatalf("summaries = %q", n.summaries)
	}

	calls := b.Calls(client.CmdExportBilan)
	if len(calls) != 1 {
		t.Fatalf("expected 1 bilan export call, got %d", len(calls))
	}
	req, _ := calls[0].Arg("request").(map[string]any)
	if req["dateFrom"] != "2024-06-01" || req["dateTo"] != "2024-06-30" {
		t.Fatalf("bilan request = %v", req)
	}
	if calls[0].Arg("path") != "/exports/bilan_20240701_060000.xlsx" {
		t.Fatalf("bilan path = %v", calls[0].Arg("path"))
	}

	journal, err := sqlite.GetRecentExports(r.DB, 10)
	if err != nil {
		t.Fatalf("GetRecentExports: %v", err)
	}
	if len(journal) != 3 {
		t.Fatalf("expected 3 journal entries, got %d", len(journal))
	}
	for _, rec := range journal {
		if rec.Trigger != TriggerSchedule {
			t.Fatalf("journal trigger = %q", rec.Trigger)
		}
	}
}

func TestRunExportsDeliveryFailureIsNotFatal(t *testing.T) {
	b := invoketest.NewBackend()
	b.Handle(client.CmdExportStock, exportReply)
	n := &recordingNotifier{deliverErr: errors.New("not_in_channel")}
	r := newRunner(t, b, n, domain.ExportKindStock)

	records, err := r.RunExports(context.Background(), TriggerManual)
	if err != nil {
		t.Fatalf("RunExports: %v", err)
	}
	if records[0].Status != domain.ExportStatusOK || records[0].Delivered {
		t.Fatalf("record = %+v", records[0])
	}
}

func TestStartRejectsBadSchedule(t *testing.T) {
	r := &Runner{}
	if err := r.Start(context.Background(), ""); err == nil {
		t.Fatal("expected error for empty schedule")
	}
	if err := r.Start(context.Background(), "not a cron"); err == nil {
		t.Fatal("expected error for invalid schedule")
	}
}

func TestStartStopsOnCancel(t *testing.T) {
	r := &Runner{Location: time.UTC}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- r.Start(ctx, "0 6 1 * *") }()
	cancel()
	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("Start returned %v, want context.Canceled", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Start did not return after cancel")
	}
}
