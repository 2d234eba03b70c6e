package app

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"glpiboard/internal/client"
	"glpiboard/internal/domain"
	"glpiboard/internal/invoke/invoketest"
	"glpiboard/internal/output"
)

type harness struct {
	t       *testing.T
	backend *invoketest.Backend
	dir     string
	out     bytes.Buffer
	err     bytes.Buffer
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("CONFIG_PATH", filepath.Join(dir, "missing.yaml"))
	t.Setenv("GLPIBOARD_BACKEND_URL", "")
	t.Setenv("GLPIBOARD_HTTP_TIMEOUT_SECONDS", "")
	t.Setenv("GLPIBOARD_STATE_DB", filepath.Join(dir, "state", "glpiboard.db"))
	t.Setenv("GLPIBOARD_EXPORT_DIR", filepath.Join(dir, "exports"))
	t.Setenv("GLPIBOARD_EXPORT_SCHEDULE", "")
	t.Setenv("GLPIBOARD_EXPORT_KINDS", "")
	t.Setenv("GLPIBOARD_COLORS", "false")
	t.Setenv("SLACK_BOT_TOKEN", "")
	t.Setenv("SLACK_CHANNEL_ID", "")
	t.Setenv("TIMEZONE", "UTC")
	return &harness{t: t, backend: invoketest.NewBackend(), dir: dir}
}

func (h *harness) run(args ...string) int {
	h.t.Helper()
	h.out.Reset()
	h.err.Reset()
	return Execute(Options{
		Out:       &h.out,
		Err:       &h.err,
		Transport: h.backend,
		Now:       func() time.Time { return time.Date(2024, 7, 1, 6, 0, 0, 0, time.UTC) },
	}, append([]string{"--color", "never"}, args...))
}

func (h *harness) lastArgs(command string) map[string]any {
	h.t.Helper()
	calls := h.backend.Calls(command)
	if len(calls) == 0 {
		h.t.Fatalf("no %s call", command)
	}
	var m map[string]any
	if err := json.Unmarshal(calls[len(calls)-1].Args, &m); err != nil {
		h.t.Fatalf("decode %s args: %v", command, err)
	}
	return m
}

func (h *harness) replyStock() {
	h.backend.Reply(client.CmdStockOverview, domain.StockOverview{TotalVivants: 3, TotalTermines: 5})
	h.backend.Reply(client.CmdStockByTechnician, []domain.TechnicianStats{
		{Technicien: "Alice Martin", Total: 2, EnCours: 2, CouleurSeuil: "vert"},
		{Technicien: "Bruno Petit", Total: 1, EnAttente: 1, CouleurSeuil: "vert"},
	})
}

func exportReply(args json.RawMessage) (any, error) {
	var a struct {
		Path string `json:"path"`
	}
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	return domain.ExportResult{Path: a.Path, SizeBytes: 2048, DurationMs: 40}, nil
}

func TestExecuteUsageErrors(t *testing.T) {
	h := newHarness(t)
	tests := []struct {
		name string
		args []string
	}{
		{"unknown command", []string{"nope"}},
		{"missing argument", []string{"ticket"}},
		{"unknown flag", []string{"stock", "--bogus"}},
		{"bad color mode", []string{"--color", "sometimes", "filters"}},
		{"bad sort column", []string{"stock", "--sort", "nope"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if code := h.run(tt.args...); code != output.ExitUsageError {
				t.Fatalf("exit = %d, want %d (stderr %q)", code, output.ExitUsageError, h.err.String())
			}
		})
	}
}

func TestExecuteInvalidConfig(t *testing.T) {
	h := newHarness(t)
	path := filepath.Join(h.dir, "config.yaml")
	if err := os.WriteFile(path, []byte("backend_url: ftp://example\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	code := h.run("--config", path, "filters")
	if code != output.ExitConfig {
		t.Fatalf("exit = %d, want %d", code, output.ExitConfig)
	}
	if !strings.Contains(h.err.String(), "configuration invalide") {
		t.Fatalf("stderr = %q", h.err.String())
	}
}

func TestStockFiltersPersist(t *testing.T) {
	h := newHarness(t)
	h.replyStock()

	if code := h.run("stock", "--groupe", "_DSI > Support"); code != output.ExitSuccess {
		t.Fatalf("exit = %d, stderr %q", code, h.err.String())
	}
	if !strings.Contains(h.out.String(), "Alice Martin") {
		t.Fatalf("stock output missing technician:\n%s", h.out.String())
	}

	if code := h.run("stock"); code != output.ExitSuccess {
		t.Fatalf("second run exit = %d", code)
	}
	filters, _ := h.lastArgs(client.CmdStockByTechnician)["filters"].(map[string]any)
	if filters["groupe"] != "_DSI > Support" {
		t.Fatalf("filters = %v, want saved groupe", filters)
	}

	if code := h.run("filters", "reset"); code != output.ExitSuccess {
		t.Fatalf("reset exit = %d", code)
	}
	h.run("stock")
	filters, _ = h.lastArgs(client.CmdStockOverview)["filters"].(map[string]any)
	if filters["groupe"] != nil {
		t.Fatalf("groupe = %v after reset, want nil", filters["groupe"])
	}
}

func TestBackendFailureExitCode(t *testing.T) {
	h := newHarness(t)
	h.backend.Fail(client.CmdStockByGroup, "Aucun import actif")

	if code := h.run("groups"); code != output.ExitBackend {
		t.Fatalf("exit = %d, want %d", code, output.ExitBackend)
	}
	if !strings.Contains(h.out.String()+h.err.String(), "Aucun import actif") {
		t.Fatalf("backend message not shown: out=%q err=%q", h.out.String(), h.err.String())
	}
}

func TestConfigSet(t *testing.T) {
	h := newHarness(t)
	h.backend.Reply(client.CmdGetConfig, domain.DefaultAppConfig())
	h.backend.Reply(client.CmdUpdateConfig, nil)

	if code := h.run("config", "set", "seuilTicketsTechnicien", "25"); code != output.ExitSuccess {
		t.Fatalf("exit = %d, stderr %q", code, h.err.String())
	}
	cfg, _ := h.lastArgs(client.CmdUpdateConfig)["config"].(map[string]any)
	if cfg["seuilTicketsTechnicien"] != float64(25) {
		t.Fatalf("sent seuilTicketsTechnicien = %v", cfg["seuilTicketsTechnicien"])
	}

	if code := h.run("config", "set", "nope", "1"); code != output.ExitUsageError {
		t.Fatalf("unknown key exit = %d", code)
	}
}

func TestConfigSetRejectsInvalidValues(t *testing.T) {
	h := newHarness(t)
	h.backend.Reply(client.CmdGetConfig, domain.DefaultAppConfig())
	h.backend.Reply(client.CmdUpdateConfig, nil)

	if code := h.run("config", "set", "seuilSimilariteDoublons", "1.5"); code != output.ExitValidation {
		t.Fatalf("exit = %d, want %d", code, output.ExitValidation)
	}
	if code := h.run("config", "set-statuses", "--termines", "Nouveau"); code != output.ExitValidation {
		t.Fatalf("overlapping statuses exit = %d, want %d", code, output.ExitValidation)
	}
	if n := len(h.backend.Calls(client.CmdUpdateConfig)); n != 0 {
		t.Fatalf("update_config called %d times for invalid configs", n)
	}
}

func TestExportRunJournal(t *testing.T) {
	h := newHarness(t)
	t.Setenv("GLPIBOARD_EXPORT_KINDS", "stock,bilan")
	h.backend.Handle(client.CmdExportStock, exportReply)
	h.backend.Fail(client.CmdExportBilan, "Aucun import actif")

	code := h.run("export", "run")
	if code != output.ExitGeneral {
		t.Fatalf("exit = %d, want %d when one export fails", code, output.ExitGeneral)
	}
	wantPath := filepath.Join(h.dir, "exports", "stock_20240701_060000.xlsx")
	if got := h.lastArgs(client.CmdExportStock)["path"]; got != wantPath {
		t.Fatalf("stock path = %v, want %s", got, wantPath)
	}
	if got := h.lastArgs(client.CmdExportBilan)["request"].(map[string]any)["dateFrom"]; got != "2024-06-01" {
		t.Fatalf("bilan dateFrom = %v", got)
	}

	if code := h.run("exports"); code != output.ExitSuccess {
		t.Fatalf("exports exit = %d", code)
	}
	journal := h.out.String()
	for _, want := range []string{"stock_20240701_060000.xlsx", "failed", "manual"} {
		if !strings.Contains(journal, want) {
			t.Errorf("journal missing %q:\n%s", want, journal)
		}
	}
}

func TestExportStockJournalsManualRun(t *testing.T) {
	h := newHarness(t)
	h.backend.Handle(client.CmdExportStock, exportReply)

	if code := h.run("export", "stock"); code != output.ExitSuccess {
		t.Fatalf("exit = %d, stderr %q", code, h.err.String())
	}
	if !strings.Contains(h.out.String(), "stock_20240701_060000.xlsx") {
		t.Fatalf("output = %q", h.out.String())
	}
	if code := h.run("exports", "--from", "2024-07-01", "--to", "2024-07-01"); code != output.ExitSuccess {
		t.Fatalf("exports exit = %d", code)
	}
	if !strings.Contains(h.out.String(), "stock_20240701_060000.xlsx") {
		t.Fatalf("journal for the day = %q", h.out.String())
	}
}

func TestExportsDeliverNeedsSlack(t *testing.T) {
	h := newHarness(t)
	if code := h.run("exports", "deliver", "1"); code != output.ExitUsageError {
		t.Fatalf("exit = %d, want %d", code, output.ExitUsageError)
	}
}

func TestScheduleNeedsExpression(t *testing.T) {
	h := newHarness(t)
	if code := h.run("schedule"); code != output.ExitConfig {
		t.Fatalf("exit = %d, want %d", code, output.ExitConfig)
	}
}
