// Package pages composes backend commands into the data each screen shows.
// A page owns one hook per section so sections load, fail and retry
// independently.
package pages

import (
	"context"
	"time"

	"glpiboard/internal/client"
	"glpiboard/internal/invoke"
	"glpiboard/internal/store"
)

type Deps struct {
	Client *client.Client
	Store  *store.Store
	// Now defaults to time.Now.
	Now func() time.Time
}

func (d Deps) now() time.Time {
	if d.Now != nil {
		return d.Now()
	}
	return time.Now()
}

func newHook[T any](d Deps) *invoke.Hook[T] {
	return invoke.NewHook[T](d.Client.Transport())
}

func run[T any](ctx context.Context, h *invoke.Hook[T], r client.Request) error {
	_, err := client.Execute(ctx, h, r)
	return err
}

func strPtr(s string) *string {
	return &s
}
