// Package importer tracks one streaming CSV import from request to outcome.
package importer

import (
	"context"
	"errors"
	"log"
	"sync"

	"glpiboard/internal/domain"
	"glpiboard/internal/invoke"
)

const commandImportCSV = "import_csv"

// ErrImportInProgress is returned by Start while another import is running.
var ErrImportInProgress = errors.New("an import is already in progress")

type State string

const (
	StateIdle      State = "idle"
	StateImporting State = "importing"
	StateCompleted State = "completed"
	StateFailed    State = "failed"
)

type Snapshot struct {
	State    State
	Progress int
	Phase    domain.ImportPhase
	Warnings []domain.ParseWarning
	Result   *domain.ImportResult
	Error    string
}

// Tracker is the import state machine:
//
//	Idle -> Importing -> Completed | Failed
//
// Reset returns to Idle from any state. Events of an import that was reset
// while running are ignored.
type Tracker struct {
	stream invoke.Streamer

	mu        sync.Mutex
	gen       uint64
	state     State
	progress  int
	phase     domain.ImportPhase
	warnings  []domain.ParseWarning
	result    *domain.ImportResult
	err       string
	observers []func(Snapshot)
}

func NewTracker(s invoke.Streamer) *Tracker {
	return &Tracker{stream: s, state: StateIdle}
}

// OnChange registers fn to receive a snapshot after every transition and
// every applied event. fn runs with the tracker locked and must not call
// back into it.
func (t *Tracker) OnChange(fn func(Snapshot)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.observers = append(t.observers, fn)
}

// Start runs an import of path and blocks until the backend settles it.
func (t *Tracker) Start(ctx context.Context, path string) (domain.ImportResult, error) {
	t.mu.Lock()
	if t.state == StateImporting {
		t.mu.Unlock()
		return domain.ImportResult{}, ErrImportInProgress
	}
	t.gen++
	gen := t.gen
	t.state = StateImporting
	t.progress = 0
	t.phase = ""
	t.warnings = nil
	t.result = nil
	t.err = ""
	t.notifyLocked()
	t.mu.Unlock()

	log.Printf("import start path=%s", path)
	res, err := invoke.Stream[domain.ImportResult](ctx, t.stream, commandImportCSV,
		invoke.Args{"path": path}, func(ev invoke.Event) {
			t.apply(gen, domain.ImportEvent{Event: ev.Name, Data: ev.Data})
		})

	t.mu.Lock()
	defer t.mu.Unlock()
	if t.gen != gen {
		return res, err
	}
	if err != nil {
		t.state = StateFailed
		t.err = invoke.Message(err)
		log.Printf("import failed path=%s err=%s warnings=%d", path, t.err, len(t.warnings))
		t.notifyLocked()
		return res, err
	}
	t.state = StateCompleted
	t.progress = 100
	if len(res.Warnings) > 0 {
		t.warnings = append([]domain.ParseWarning(nil), res.Warnings...)
	}
	r := res
	t.result = &r
	log.Printf("import completed path=%s id=%d tickets=%d warnings=%d", path, res.ImportID, res.TotalTickets, len(t.warnings))
	t.notifyLocked()
	return res, nil
}

func (t *Tracker) apply(gen uint64, ev domain.ImportEvent) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.gen != gen || t.state != StateImporting {
		return
	}
	switch ev.Event {
	case domain.EventProgress:
		d, err := ev.Progress()
		if err != nil {
			log.Printf("import event skipped err=%v", err)
			return
		}
		t.progress = d.Percent()
		t.phase = d.Phase
	case domain.EventWarning:
		d, err := ev.Warning()
		if err != nil {
			log.Printf("import event skipped err=%v", err)
			return
		}
		t.warnings = append(t.warnings, d)
	case domain.EventComplete:
		t.progress = 100
	default:
		return
	}
	t.notifyLocked()
}

// Reset returns the tracker to Idle and detaches any running import.
func (t *Tracker) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.gen++
	t.state = StateIdle
	t.progress = 0
	t.phase = ""
	t.warnings = nil
	t.result = nil
	t.err = ""
	t.notifyLocked()
}

func (t *Tracker) Snapshot() Snapshot {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.snapshotLocked()
}

func (t *Tracker) snapshotLocked() Snapshot {
	s := Snapshot{
		State:    t.state,
		Progress: t.progress,
		Phase:    t.phase,
		Error:    t.err,
	}
	if len(t.warnings) > 0 {
		s.Warnings = append([]domain.ParseWarning(nil), t.warnings...)
	}
	if t.result != nil {
		r := *t.result
		s.Result = &r
	}
	return s
}

func (t *Tracker) notifyLocked() {
	if len(t.observers) == 0 {
		return
	}
	s := t.snapshotLocked()
	for _, fn := range t.observers {
		fn(s)
	}
}
