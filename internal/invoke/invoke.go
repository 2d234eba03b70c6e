// Package invoke carries named commands to the analytics backend and back.
//
// The backend exposes a flat command surface: a command name plus a JSON
// argument object, answered by a JSON payload or a single error message.
// Long-running commands (imports) additionally stream events before their
// result.
package invoke

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"glpiboard/internal/domain"
)

// Args is the argument bag of a command. Keys are the backend's camelCase
// parameter names.
type Args map[string]any

// Error is the only failure shape of the command boundary: a message
// attached to the command that produced it.
type Error struct {
	Command string
	Message string
	Err     error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Message returns the user-facing message of any command failure.
func Message(err error) string {
	if err == nil {
		return ""
	}
	var ie *Error
	if errors.As(err, &ie) {
		return ie.Message
	}
	return err.Error()
}

// Event is one frame of a command's progress channel.
type Event struct {
	Name string
	Data json.RawMessage
}

type Invoker interface {
	Invoke(ctx context.Context, command string, args any, out any) error
}

type Streamer interface {
	InvokeStream(ctx context.Context, command string, args any, onEvent func(Event), out any) error
}

type Transport interface {
	Invoker
	Streamer
}

// InvokerFunc adapts a function to Invoker.
type InvokerFunc func(ctx context.Context, command string, args any, out any) error

func (f InvokerFunc) Invoke(ctx context.Context, command string, args any, out any) error {
	return f(ctx, command, args, out)
}

// Call invokes command and decodes its payload into T. Payloads that know
// their own invariants are validated, so a malformed response fails here
// instead of rendering half-filled structures.
func Call[T any](ctx context.Context, inv Invoker, command string, args any) (T, error) {
	var out T
	if err := inv.Invoke(ctx, command, args, &out); err != nil {
		var zero T
		return zero, err
	}
	if err := validate(command, out); err != nil {
		var zero T
		return zero, err
	}
	return out, nil
}

// Stream is Call for streaming commands: onEvent sees every frame in
// emission order before the result is decoded.
func Stream[T any](ctx context.Context, s Streamer, command string, args any, onEvent func(Event)) (T, error) {
	var out T
	if err := s.InvokeStream(ctx, command, args, onEvent, &out); err != nil {
		var zero T
		return zero, err
	}
	if err := validate(command, out); err != nil {
		var zero T
		return zero, err
	}
	return out, nil
}

func validate(command string, v any) error {
	val, ok := v.(domain.Validator)
	if !ok {
		return nil
	}
	if err := val.Validate(); err != nil {
		return &Error{
			Command: command,
			Message: fmt.Sprintf("%s: %v", command, err),
			Err:     err,
		}
	}
	return nil
}

type requestIDKey struct{}

// WithRequestID tags ctx so transports forward id to the backend.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

func RequestIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}
