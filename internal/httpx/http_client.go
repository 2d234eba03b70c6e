package httpx

import (
	"net/http"
	"time"
)

// BackendClient is shared by every command transport. Its timeout is zero
// unless configured: a hung backend call then waits for the caller's context.
var BackendClient = &http.Client{}

// StreamClient carries long-running streams (imports). It never times out on
// its own since an import may legitimately run for minutes.
var StreamClient = &http.Client{}

func ConfigureBackendClient(timeoutSeconds int) time.Duration {
	var timeout time.Duration
	if timeoutSeconds > 0 {
		timeout = time.Duration(timeoutSeconds) * time.Second
	}
	BackendClient.Timeout = timeout
	return timeout
}
