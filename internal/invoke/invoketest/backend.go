// Package invoketest provides a scriptable analytics backend for tests, both
// in-process and behind an httptest server speaking the HTTP protocol.
package invoketest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"glpiboard/internal/invoke"
)

type Handler func(args json.RawMessage) (any, error)

type StreamHandler func(args json.RawMessage, emit func(event string, data any)) (any, error)

type Call struct {
	Command   string
	Args      json.RawMessage
	RequestID string
}

// Arg decodes one argument of the call, or returns nil when it is absent.
func (c Call) Arg(name string) any {
	var m map[string]any
	if err := json.Unmarshal(c.Args, &m); err != nil {
		return nil
	}
	return m[name]
}

type Backend struct {
	mu       sync.Mutex
	handlers map[string]Handler
	streams  map[string]StreamHandler
	calls    []Call
}

func NewBackend() *Backend {
	return &Backend{
		handlers: make(map[string]Handler),
		streams:  make(map[string]StreamHandler),
	}
}

func (b *Backend) Handle(command string, h Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[command] = h
}

func (b *Backend) HandleStream(command string, h StreamHandler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.streams[command] = h
}

// Reply makes command answer payload every time.
func (b *Backend) Reply(command string, payload any) {
	b.Handle(command, func(json.RawMessage) (any, error) { return payload, nil })
}

// Fail makes command answer the error message msg every time.
func (b *Backend) Fail(command, msg string) {
	b.Handle(command, func(json.RawMessage) (any, error) { return nil, errors.New(msg) })
}

// Calls returns the recorded calls of command, or of every command when
// command is empty.
func (b *Backend) Calls(command string) []Call {
	b.mu.Lock()
	defer b.mu.Unlock()
	var out []Call
	for _, c := range b.calls {
		if command == "" || c.Command == command {
			out = append(out, c)
		}
	}
	return out
}

func (b *Backend) record(command string, args json.RawMessage, requestID string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.calls = append(b.calls, Call{Command: command, Args: args, RequestID: requestID})
}

func (b *Backend) handler(command string) (Handler, StreamHandler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.handlers[command], b.streams[command]
}

func (b *Backend) Invoke(ctx context.Context, command string, args any, out any) error {
	raw, err := marshalArgs(args)
	if err != nil {
		return err
	}
	b.record(command, raw, invoke.RequestIDFrom(ctx))
	h, _ := b.handler(command)
	if h == nil {
		return &invoke.Error{Command: command, Message: fmt.Sprintf("unknown command %s", command)}
	}
	payload, err := h(raw)
	if err != nil {
		return &invoke.Error{Command: command, Message: err.Error()}
	}
	return roundTrip(payload, out)
}

func (b *Backend) InvokeStream(ctx context.Context, command string, args any, onEvent func(invoke.Event), out any) error {
	raw, err := marshalArgs(args)
	if err != nil {
		return err
	}
	b.record(command, raw, invoke.RequestIDFrom(ctx))
	_, sh := b.handler(command)
	if sh == nil {
		return &invoke.Error{Command: command, Message: fmt.Sprintf("unknown command %s", command)}
	}
	payload, err := sh(raw, func(event string, data any) {
		encoded, _ := json.Marshal(data)
		if onEvent != nil {
			onEvent(invoke.Event{Name: event, Data: encoded})
		}
	})
	if err != nil {
		return &invoke.Error{Command: command, Message: err.Error()}
	}
	return roundTrip(payload, out)
}

// ServeHTTP implements the backend side of invoke.HTTPTransport.
func (b *Backend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	command, ok := strings.CutPrefix(r.URL.Path, "/invoke/")
	if !ok || r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	raw, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	b.record(command, raw, r.Header.Get(invoke.RequestIDHeader))

	h, sh := b.handler(command)
	if sh != nil && strings.Contains(r.Header.Get("Accept"), "ndjson") {
		b.serveStream(w, raw, sh)
		return
	}
	if h == nil {
		writeError(w, http.StatusNotFound, fmt.Sprintf("unknown command %s", command))
		return
	}
	payload, err := h(raw)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(payload)
}

func (b *Backend) serveStream(w http.ResponseWriter, raw json.RawMessage, sh StreamHandler) {
	w.Header().Set("Content-Type", "application/x-ndjson")
	enc := json.NewEncoder(w)
	flusher, _ := w.(http.Flusher)
	frame := func(event string, data any) {
		_ = enc.Encode(map[string]any{"event": event, "data": data})
		if flusher != nil {
			flusher.Flush()
		}
	}
	payload, err := sh(raw, frame)
	if err != nil {
		frame("error", map[string]string{"message": err.Error()})
		return
	}
	frame("result", payload)
}

// NewServer serves b over HTTP for the duration of the test.
func NewServer(t testing.TB, b *Backend) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(b)
	t.Cleanup(srv.Close)
	return srv
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

func marshalArgs(args any) (json.RawMessage, error) {
	if args == nil {
		return json.RawMessage("{}"), nil
	}
	data, err := json.Marshal(args)
	if err != nil || string(data) != "null" {
		return data, err
	}
	return json.RawMessage("{}"), nil
}

func roundTrip(payload any, out any) error {
	if out == nil || payload == nil {
		return nil
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, out)
}
