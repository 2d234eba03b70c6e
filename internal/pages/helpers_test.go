package pages

import (
	"encoding/json"
	"testing"
	"time"

	"glpiboard/internal/client"
	"glpiboard/internal/invoke/invoketest"
	"glpiboard/internal/store"
)

func newDeps(t *testing.T) (Deps, *invoketest.Backend) {
	t.Helper()
	b := invoketest.NewBackend()
	return Deps{
		Client: client.New(b),
		Store:  store.New(),
		Now:    func() time.Time { return time.Date(2024, 6, 30, 9, 0, 0, 0, time.UTC) },
	}, b
}

func lastArgs(t *testing.T, b *invoketest.Backend, command string) map[string]any {
	t.Helper()
	calls := b.Calls(command)
	if len(calls) == 0 {
		t.Fatalf("no %s call", command)
	}
	var m map[string]any
	if err := json.Unmarshal(calls[len(calls)-1].Args, &m); err != nil {
		t.Fatalf("decode %s args: %v", command, err)
	}
	return m
}

func sp(s string) *string { return &s }
