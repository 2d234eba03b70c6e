package invoke

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"
)

// ErrSuperseded is returned by Hook.Execute when a later call was issued on
// the same hook before this one settled. Its outcome has been discarded.
var ErrSuperseded = errors.New("superseded by a later call")

// State is a snapshot of a hook's single result slot.
//
// Idle: Data nil, Loading false. In flight: Loading true. Settled: Data or
// Error set, Loading false.
type State[T any] struct {
	Data      *T
	Loading   bool
	Error     string
	RequestID string
}

// Hook owns the last-fetched result of one command call site. It neither
// caches across hooks, deduplicates nor retries. Every call is tagged with a
// request id and only the most recently issued call may settle the hook, so
// an older response that arrives late never overwrites a newer one.
type Hook[T any] struct {
	inv   Invoker
	newID func() string

	mu      sync.Mutex
	data    *T
	loading bool
	err     string
	latest  string
}

func NewHook[T any](inv Invoker) *Hook[T] {
	return &Hook[T]{inv: inv, newID: uuid.NewString}
}

func (h *Hook[T]) Execute(ctx context.Context, command string, args any) (T, error) {
	id := h.newID()

	h.mu.Lock()
	h.latest = id
	h.loading = true
	h.err = ""
	h.mu.Unlock()

	out, err := Call[T](WithRequestID(ctx, id), h.inv, command, args)

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.latest != id {
		var zero T
		return zero, ErrSuperseded
	}
	h.loading = false
	if err != nil {
		// Prior data stays on screen next to the message.
		h.err = Message(err)
		return out, err
	}
	h.data = &out
	return out, nil
}

func (h *Hook[T]) Snapshot() State[T] {
	h.mu.Lock()
	defer h.mu.Unlock()
	s := State[T]{Loading: h.loading, Error: h.err, RequestID: h.latest}
	if h.data != nil {
		d := *h.data
		s.Data = &d
	}
	return s
}

// Reset returns the hook to idle. A call still in flight settles nothing.
func (h *Hook[T]) Reset() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.data = nil
	h.loading = false
	h.err = ""
	h.latest = ""
}
