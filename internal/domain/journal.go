package domain

import "time"

// Export kinds produced by the scheduler and the CLI.
const (
	ExportKindStock = "stock"
	ExportKindPlan  = "plan"
	ExportKindPlans = "plans"
	ExportKindBilan = "bilan"
)

const (
	ExportStatusOK     = "ok"
	ExportStatusFailed = "failed"
)

// ExportRecord is one journal entry of a report export.
type ExportRecord struct {
	ID         int64
	Kind       string
	Path       string
	SizeBytes  int64
	DurationMs int64
	Status     string
	Error      string
	Trigger    string
	Delivered  bool
	StartedAt  time.Time
}

// ExportStats summarises the journal over a period.
type ExportStats struct {
	Total     int
	Failed    int
	Delivered int
	Bytes     int64
}
