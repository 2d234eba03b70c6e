package httpx

import (
	"testing"
	"time"
)

func TestBackendClientHasNoDefaultTimeout(t *testing.T) {
	if BackendClient == nil {
		t.Fatal("BackendClient must not be nil")
	}
	if BackendClient.Timeout != 0 {
		t.Fatalf("BackendClient timeout = %s, want none", BackendClient.Timeout)
	}
}

func TestConfigureBackendClient(t *testing.T) {
	original := BackendClient.Timeout
	t.Cleanup(func() {
		BackendClient.Timeout = original
	})

	got := ConfigureBackendClient(0)
	if got != 0 || BackendClient.Timeout != 0 {
		t.Fatalf("ConfigureBackendClient(0) = %s, client %s; want no timeout", got, BackendClient.Timeout)
	}

	got = ConfigureBackendClient(45)
	if got != 45*time.Second {
		t.Fatalf("ConfigureBackendClient(45) = %s, want %s", got, 45*time.Second)
	}
	if BackendClient.Timeout != 45*time.Second {
		t.Fatalf("configured timeout = %s, want %s", BackendClient.Timeout, 45*time.Second)
	}
	if StreamClient.Timeout != 0 {
		t.Fatalf("StreamClient timeout = %s, want none", StreamClient.Timeout)
	}
}
