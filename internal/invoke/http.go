package invoke

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/google/uuid"
)

const (
	// RequestIDHeader carries the per-call id to the backend.
	RequestIDHeader = "X-Request-Id"

	ndjsonContentType = "application/x-ndjson"
	maxResponseBytes  = 64 << 20
	maxFrameBytes     = 4 << 20

	frameResult = "result"
	frameError  = "error"
)

// HTTPTransport speaks the command protocol over HTTP:
//
//	POST {base}/invoke/{command}   body: JSON args
//
// A 2xx body is the payload. Any other status carries {"error": "..."} or a
// plain-text message. Streams answer with newline-delimited JSON frames
// {"event": ..., "data": ...} closed by a "result" or "error" frame.
type HTTPTransport struct {
	baseURL string
	client  *http.Client
	stream  *http.Client
}

func NewHTTPTransport(baseURL string, client, stream *http.Client) *HTTPTransport {
	if client == nil {
		client = http.DefaultClient
	}
	if stream == nil {
		stream = client
	}
	return &HTTPTransport{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  client,
		stream:  stream,
	}
}

func (t *HTTPTransport) Invoke(ctx context.Context, command string, args any, out any) error {
	req, err := t.newRequest(ctx, command, args, "application/json")
	if err != nil {
		return err
	}
	resp, err := t.client.Do(req)
	if err != nil {
		return &Error{Command: command, Message: fmt.Sprintf("%s: %v", command, err), Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return &Error{Command: command, Message: fmt.Sprintf("%s: read response: %v", command, err), Err: err}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &Error{Command: command, Message: errorMessage(data, resp.StatusCode)}
	}
	return decodePayload(command, data, out)
}

func (t *HTTPTransport) InvokeStream(ctx context.Context, command string, args any, onEvent func(Event), out any) error {
	req, err := t.newRequest(ctx, command, args, ndjsonContentType)
	if err != nil {
		return err
	}
	resp, err := t.stream.Do(req)
	if err != nil {
		return &Error{Command: command, Message: fmt.Sprintf("%s: %v", command, err), Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
		return &Error{Command: command, Message: errorMessage(data, resp.StatusCode)}
	}

	scanner := bufio.NewScanner(resp.Body)
	scanner.Buffer(make([]byte, 0, 64*1024), maxFrameBytes)
	for scanner.Scan() {
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		var f struct {
			Event string          `json:"event"`
			Data  json.RawMessage `json:"data"`
		}
		if err := json.Unmarshal(line, &f); err != nil {
			return &Error{Command: command, Message: fmt.Sprintf("%s: malformed stream frame: %v", command, err), Err: err}
		}
		switch f.Event {
		case frameResult:
			return decodePayload(command, f.Data, out)
		case frameError:
			return &Error{Command: command, Message: frameErrorMessage(f.Data)}
		default:
			if onEvent != nil {
				onEvent(Event{Name: f.Event, Data: f.Data})
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return &Error{Command: command, Message: fmt.Sprintf("%s: read stream: %v", command, err), Err: err}
	}
	return &Error{Command: command, Message: fmt.Sprintf("%s: stream ended without a result", command)}
}

func (t *HTTPTransport) newRequest(ctx context.Context, name string, args any, accept string) (*http.Request, error) {
	body, err := encodeArgs(args)
	if err != nil {
		return nil, &Error{Command: name, Message: fmt.Sprintf("%s: encode args: %v", name, err), Err: err}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.baseURL+"/invoke/"+name, bytes.NewReader(body))
	if err != nil {
		return nil, &Error{Command: name, Message: fmt.Sprintf("%s: %v", name, err), Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", accept)

	id := RequestIDFrom(ctx)
	if id == "" {
		id = uuid.NewString()
	}
	req.Header.Set(RequestIDHeader, id)
	return req, nil
}

// encodeArgs always yields a JSON object: a nil bag, typed or not, is {}.
func encodeArgs(args any) ([]byte, error) {
	if args == nil {
		return []byte("{}"), nil
	}
	data, err := json.Marshal(args)
	if err != nil {
		return nil, err
	}
	if bytes.Equal(data, []byte("null")) {
		return []byte("{}"), nil
	}
	return data, nil
}

func decodePayload(command string, data []byte, out any) error {
	if out == nil {
		return nil
	}
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil
	}
	if err := json.Unmarshal(trimmed, out); err != nil {
		return &Error{Command: command, Message: fmt.Sprintf("%s: decode response: %v", command, err), Err: err}
	}
	return nil
}

func errorMessage(body []byte, status int) string {
	var e struct {
		Error string `json:"error"`
	}
	if json.Unmarshal(body, &e) == nil && e.Error != "" {
		return e.Error
	}
	if msg := strings.TrimSpace(string(body)); msg != "" {
		return msg
	}
	return fmt.Sprintf("backend returned %d %s", status, http.StatusText(status))
}

func frameErrorMessage(data json.RawMessage) string {
	var s string
	if json.Unmarshal(data, &s) == nil && s != "" {
		return s
	}
	var m struct {
		Message string `json:"message"`
	}
	if json.Unmarshal(data, &m) == nil && m.Message != "" {
		return m.Message
	}
	return strings.TrimSpace(string(data))
}
