package invoke_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"glpiboard/internal/invoke"
)

type gatedInvoker struct {
	started chan string
	release map[string]chan string
}

// newGatedInvoker blocks each call until the test releases it with the value
// to decode. Calls are keyed by their "name" argument.
func newGatedInvoker(names ...string) *gatedInvoker {
	g := &gatedInvoker{started: make(chan string, len(names)), release: make(map[string]chan string)}
	for _, n := range names {
		g.release[n] = make(chan string, 1)
	}
	return g
}

func (g *gatedInvoker) Invoke(ctx context.Context, command string, args any, out any) error {
	name := args.(invoke.Args)["name"].(string)
	g.started <- name
	v := <-g.release[name]
	if v == "fail" {
		return &invoke.Error{Command: command, Message: "boom " + name}
	}
	data, _ := json.Marshal(v)
	return json.Unmarshal(data, out)
}

func waitStarted(t *testing.T, g *gatedInvoker, want string) {
	t.Helper()
	select {
	case got := <-g.started:
		if got != want {
			t.Fatalf("started %q, want %q", got, want)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("call %q never started", want)
	}
}

func TestHookLatestCallWins(t *testing.T) {
	orders := []struct {
		name  string
		first string
	}{
		{name: "older settles first", first: "a"},
		{name: "newer settles first", first: "b"},
	}
	for _, tc := range orders {
		t.Run(tc.name, func(t *testing.T) {
			g := newGatedInvoker("a", "b")
			h := invoke.NewHook[string](g)
			ctx := context.Background()

			type result struct {
				v   string
				err error
			}
			resA := make(chan result, 1)
			resB := make(chan result, 1)
			go func() {
				v, err := h.Execute(ctx, "cmd", invoke.Args{"name": "a"})
				resA <- result{v, err}
			}()
			waitStarted(t, g, "a")
			go func() {
				v, err := h.Execute(ctx, "cmd", invoke.Args{"name": "b"})
				resB <- result{v, err}
			}()
			waitStarted(t, g, "b")

			if !h.Snapshot().Loading {
				t.Fatalf("Loading = false while calls are in flight")
			}

			second := "b"
			if tc.first == "b" {
				second = "a"
			}
			g.release[tc.first] <- "value-" + tc.first
			g.release[second] <- "value-" + second

			a := <-resA
			b := <-resB
			if !errors.Is(a.err, invoke.ErrSuperseded) {
				t.Fatalf("older call err = %v, want ErrSuperseded", a.err)
			}
			if b.err != nil || b.v != "value-b" {
				t.Fatalf("newer call = (%q, %v), want (value-b, nil)", b.v, b.err)
			}
			s := h.Snapshot()
			if s.Loading {
				t.Fatalf("Loading = true after settle")
			}
			if s.Data == nil || *s.Data != "value-b" {
				t.Fatalf("Data = %v, want value-b", s.Data)
			}
		})
	}
}

func TestHookFirstFailureHasNoData(t *testing.T) {
	g := newGatedInvoker("bad")
	g.release["bad"] <- "fail"
	go func() { <-g.started }()
	h := invoke.NewHook[string](g)
	if _, err := h.Execute(context.Background(), "cmd", invoke.Args{"name": "bad"}); err == nil {
		t.Fatalf("Execute err = nil, want failure")
	}
	s := h.Snapshot()
	if s.Error != "boom bad" {
		t.Fatalf("Error = %q, want %q", s.Error, "boom bad")
	}
	if s.Data != nil {
		t.Fatalf("Data = %v, want nil on first failure", *s.Data)
	}
}

func TestHookFailureAfterSuccess(t *testing.T) {
	calls := 0
	inv := invoke.InvokerFunc(func(ctx context.Context, command string, args any, out any) error {
		calls++
		if calls == 2 {
			return &invoke.Error{Command: command, Message: "backend down"}
		}
		*(out.(*int)) = 42
		return nil
	})
	h := invoke.NewHook[int](inv)
	ctx := context.Background()

	if _, err := h.Execute(ctx, "get_answer", nil); err != nil {
		t.Fatalf("first Execute: %v", err)
	}
	if _, err := h.Execute(ctx, "get_answer", nil); err == nil {
		t.Fatalf("second Execute err = nil, want failure")
	}
	s := h.Snapshot()
	if s.Data == nil || *s.Data != 42 {
		t.Fatalf("Data = %v, want prior 42", s.Data)
	}
	if s.Error != "backend down" {
		t.Fatalf("Error = %q, want backend down", s.Error)
	}

	if _, err := h.Execute(ctx, "get_answer", nil); err != nil {
		t.Fatalf("third Execute: %v", err)
	}
	if s := h.Snapshot(); s.Error != "" {
		t.Fatalf("Error = %q after success, want empty", s.Error)
	}
}

func TestHookResetDropsInFlight(t *testing.T) {
	g := newGatedInvoker("a")
	h := invoke.NewHook[string](g)

	done := make(chan error, 1)
	go func() {
		_, err := h.Execute(context.Background(), "cmd", invoke.Args{"name": "a"})
		done <- err
	}()
	waitStarted(t, g, "a")
	h.Reset()
	g.release["a"] <- "late"

	if err := <-done; !errors.Is(err, invoke.ErrSuperseded) {
		t.Fatalf("err = %v, want ErrSuperseded", err)
	}
	s := h.Snapshot()
	if s.Data != nil || s.Loading || s.Error != "" {
		t.Fatalf("state = %+v, want idle", s)
	}
}

func TestHookRequestIDForwarded(t *testing.T) {
	var seen string
	inv := invoke.InvokerFunc(func(ctx context.Context, command string, args any, out any) error {
		seen = invoke.RequestIDFrom(ctx)
		return nil
	})
	h := invoke.NewHook[struct{}](inv)
	if _, err := h.Execute(context.Background(), "noop", nil); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if seen == "" || seen != h.Snapshot().RequestID {
		t.Fatalf("request id = %q, snapshot %q", seen, h.Snapshot().RequestID)
	}
}
