// Package schedule runs report exports on a cron schedule.
package schedule

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"glpiboard/internal/config"
	"glpiboard/internal/domain"
	"glpiboard/internal/notify"
	"glpiboard/internal/storage/sqlite"
)

const (
	TriggerSchedule = "schedule"
	TriggerManual   = "manual"
)

// Exporter is the part of the backend client the scheduler drives.
type Exporter interface {
	ExportStock(ctx context.Context, path string) (domain.ExportResult, error)
	ExportAllPlans(ctx context.Context, path string) (domain.ExportResult, error)
	ExportBilan(ctx context.Context, path string, r domain.BilanRequest) (domain.ExportResult, error)
}

type Runner struct {
	Exporter Exporter
	DB       *sql.DB
	Notifier notify.Notifier
	Dir      string
	Kinds    []string
	Location *time.Location
	Now      func() time.Time
}

func (r *Runner) now() time.Time {
	now := time.Now()
	if r.Now != nil {
		now = r.Now()
	}
	if r.Location != nil {
		now = now.In(r.Location)
	}
	return now
}

// PreviousMonth is the calendar month before now, as backend dates.
func PreviousMonth(now time.Time) domain.BilanRequest {
	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	from := first.AddDate(0, -1, 0)
	to := first.AddDate(0, 0, -1)
	return domain.BilanRequest{
		Period:   domain.InferGranularity(from, to),
		DateFrom: from.Format(domain.DateLayout),
		DateTo:   to.Format(domain.DateLayout),
	}
}

// ExportPath names an export file after its kind and start time, to the
// second. An existing file at that name gets a numbered sibling instead.
func ExportPath(dir, kind string, at time.Time) string {
	ext := ".xlsx"
	if kind == domain.ExportKindPlans {
		ext = ".zip"
	}
	return UniquePath(filepath.Join(dir, fmt.Sprintf("%s_%s%s", kind, at.Format("20060102_150405"), ext)))
}

// UniquePath returns path, or path with a _2, _3, ... suffix before the
// extension when a file is already there.
func UniquePath(path string) string {
	if _, err := os.Stat(path); err != nil {
		return path
	}
	ext := filepath.Ext(path)
	base := strings.TrimSuffix(path, ext)
	for n := 2; ; n++ {
		candidate := fmt.Sprintf("%s_%d%s", base, n, ext)
		if _, err := os.Stat(candidate); err != nil {
			return candidate
		}
	}
}

// RunExports exports every configured kind, delivers the successful ones and
// journals all of them. A failed export does not stop the others; the
// returned error only reports journaling failures.
func (r *Runner) RunExports(ctx context.Context, trigger string) ([]domain.ExportRecord, error) {
	records := make([]domain.ExportRecord, 0, len(r.Kinds))
	for _, kind := range r.Kinds {
		rec := r.runOne(ctx, kind, trigger)
		if rec.Status == domain.ExportStatusOK && r.Notifier != nil {
			if err := r.Notifier.Deliver(ctx, rec); err != nil {
				log.Printf("export delivery error kind=%s: %v", kind, err)
			} else {
				rec.Delivered = true
			}
		}
		records = append(records, rec)
	}

	if r.Notifier != nil {
		if err := r.Notifier.Summarize(ctx, notify.RunSummary(records)); err != nil {
			log.Printf("export summary post error: %v", err)
		}
	}

	if r.DB == nil {
		return records, nil
	}
	if _, err := sqlite.InsertExportRecords(r.DB, records); err != nil {
		return records, fmt.Errorf("journal exports: %w", err)
	}
	return records, nil
}

func (r *Runner) runOne(ctx context.Context, kind, trigger string) domain.ExportRecord {
	started := r.now()
	rec := domain.ExportRecord{
		Kind:      kind,
		Path:      ExportPath(r.Dir, kind, started),
		Trigger:   trigger,
		StartedAt: started,
	}

	var (
		res domain.ExportResult
		err error
	)
	switch kind {
	case domain.ExportKindStock:
		res, err = r.Exporter.ExportStock(ctx, rec.Path)
	case domain.ExportKindPlans:
		res, err = r.Exporter.ExportAllPlans(ctx, rec.Path)
	case domain.ExportKindBilan:
		res, err = r.Exporter.ExportBilan(ctx, rec.Path, PreviousMonth(started))
	default:
		err = fmt.Errorf("unsupported export kind %q", kind)
	}
	if err != nil {
		log.Printf("export failed kind=%s: %v", kind, err)
		rec.Status = domain.ExportStatusFailed
		rec.Error = err.Error()
		return rec
	}

	rec.Status = domain.ExportStatusOK
	if res.Path != "" {
		rec.Path = res.Path
	}
	rec.SizeBytes = res.SizeBytes
	rec.DurationMs = res.DurationMs
	log.Printf("export done kind=%s file=%s bytes=%d ms=%d", kind, rec.Path, rec.SizeBytes, rec.DurationMs)
	return rec
}

// Start runs RunExports at every tick of the 5-field cron expression until
// ctx is cancelled.
func (r *Runner) Start(ctx context.Context, expr string) error {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return fmt.Errorf("export_schedule is not set")
	}
	sched, err := config.ScheduleParser.Parse(expr)
	if err != nil {
		return fmt.Errorf("invalid export_schedule '%s': %w", expr, err)
	}
	log.Printf("Exports scheduled (cron: %s) kinds=%s", expr, strings.Join(r.Kinds, ","))

	for {
		now := r.now()
		next := sched.Next(now)
		wait := next.Sub(now)
		log.Printf("Next export run at %s (in %s)", next.Format("Mon Jan 2 15:04"), wait.Round(time.Minute))

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}

		records, err := r.RunExports(ctx, TriggerSchedule)
		if err != nil {
			log.Printf("Export run error: %v", err)
		}
		log.Printf("Export run complete: %s", strings.ReplaceAll(notify.RunSummary(records), "\n", "; "))
	}
}
