package output

import (
	"bytes"
	"os"
	"strings"
	"testing"
)

func TestParseColorMode(t *testing.T) {
	tests := []struct {
		input string
		want  ColorMode
	}{
		{"", ColorAuto},
		{"auto", ColorAuto},
		{"always", ColorAlways},
		{"never", ColorNever},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseColorMode(tt.input)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("ParseColorMode(%q) = %d, want %d", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseColorMode_Invalid(t *testing.T) {
	if _, err := ParseColorMode("rainbow"); err == nil {
		t.Error("expected error for invalid color mode, got nil")
	}
}

func TestResolveColors(t *testing.T) {
	t.Setenv("NO_COLOR", "1")
	if !ResolveColors(ColorAlways, false) {
		t.Error("ColorAlways should win over NO_COLOR")
	}
	if ResolveColors(ColorAuto, true) {
		t.Error("NO_COLOR should disable colours in auto mode")
	}
	if ResolveColors(ColorNever, true) {
		t.Error("ColorNever should win over config")
	}
}

func TestResolveColors_TermDumb(t *testing.T) {
	os.Unsetenv("NO_COLOR")
	t.Setenv("TERM", "dumb")
	if ResolveColors(ColorAuto, true) {
		t.Error("TERM=dumb should disable colours")
	}

	t.Setenv("TERM", "xterm-256color")
	if !ResolveColors(ColorAuto, true) {
		t.Error("auto mode should follow config without overrides")
	}
	if ResolveColors(ColorAuto, false) {
		t.Error("auto mode should follow config without overrides")
	}
}

func newTestPrinter(quiet bool) (*Printer, *bytes.Buffer, *bytes.Buffer) {
	var out, errOut bytes.Buffer
	return NewPrinter(&out, &errOut, false, quiet), &out, &errOut
}

func TestPrinterQuiet(t *testing.T) {
	p, out, errOut := newTestPrinter(true)
	p.Info("info")
	p.Success("done")
	p.Warning("careful")
	p.Print("plain")
	p.Header("Title")
	if out.Len() != 0 || errOut.Len() != 0 {
		t.Fatalf("quiet printer wrote %q / %q", out.String(), errOut.String())
	}
	p.Error("boom %d", 1)
	if got := errOut.String(); got != "[ERROR] boom 1\n" {
		t.Errorf("Error in quiet mode = %q", got)
	}
}

func TestPrinterPlainPrefixes(t *testing.T) {
	p, out, errOut := newTestPrinter(false)
	p.Success("import %d", 3)
	p.Warning("ligne %d", 7)
	if got := out.String(); got != "[OK] import 3\n" {
		t.Errorf("Success = %q", got)
	}
	if got := errOut.String(); got != "[WARN] ligne 7\n" {
		t.Errorf("Warning = %q", got)
	}
}

func TestPrinterHeader(t *testing.T) {
	p, out, _ := newTestPrinter(false)
	p.Header("Stock")
	if got := out.String(); got != "\nStock\n-----\n" {
		t.Errorf("Header = %q", got)
	}
}

func TestBadgesWithoutColors(t *testing.T) {
	p, _, _ := newTestPrinter(false)
	if got := p.SeverityBadge("high"); got != "[HIGH]" {
		t.Errorf("SeverityBadge = %q", got)
	}
	if got := p.LoadBadge("rouge", "42"); got != "42" {
		t.Errorf("LoadBadge = %q", got)
	}
	if got := p.Bold("x"); got != "x" {
		t.Errorf("Bold = %q", got)
	}
}

func TestFormatError(t *testing.T) {
	p, _, errOut := newTestPrinter(false)
	p.FormatError(&CLIError{
		Summary:    "backend injoignable",
		Detail:     "connection refused",
		Suggestion: "vérifiez backend_url",
		ExitCode:   ExitBackend,
	})
	got := errOut.String()
	for _, want := range []string{"[ERROR] backend injoignable", "Cause : connection refused", "Suggestion : vérifiez backend_url"} {
		if !strings.Contains(got, want) {
			t.Errorf("FormatError output missing %q:\n%s", want, got)
		}
	}
}

func TestFormatError_NoSuggestion(t *testing.T) {
	p, _, errOut := newTestPrinter(false)
	p.FormatError(&CLIError{Summary: "échec"})
	if strings.Contains(errOut.String(), "Suggestion") {
		t.Errorf("unexpected suggestion line: %q", errOut.String())
	}
}
