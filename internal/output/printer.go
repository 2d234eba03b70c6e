// Package output renders pages and command results on the terminal.
package output

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"

	"glpiboard/internal/domain"
)

type ColorMode int

const (
	ColorAuto ColorMode = iota
	ColorAlways
	ColorNever
)

func ParseColorMode(s string) (ColorMode, error) {
	switch s {
	case "auto", "":
		return ColorAuto, nil
	case "always":
		return ColorAlways, nil
	case "never":
		return ColorNever, nil
	}
	return ColorAuto, fmt.Errorf("invalid color mode %q: must be auto, always or never", s)
}

// ResolveColors decides colour use: explicit modes win, otherwise NO_COLOR
// and TERM=dumb disable colours, otherwise the config value applies.
func ResolveColors(mode ColorMode, configColors bool) bool {
	switch mode {
	case ColorAlways:
		return true
	case ColorNever:
		return false
	}
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return false
	}
	if os.Getenv("TERM") == "dumb" {
		return false
	}
	return configColors
}

type Printer struct {
	out       io.Writer
	err       io.Writer
	useColors bool
	quiet     bool
}

func NewPrinter(out, errOut io.Writer, useColors, quiet bool) *Printer {
	if out == nil {
		out = os.Stdout
	}
	if errOut == nil {
		errOut = os.Stderr
	}
	return &Printer{out: out, err: errOut, useColors: useColors, quiet: quiet}
}

// Out is the writer tables render to.
func (p *Printer) Out() io.Writer {
	return p.out
}

func (p *Printer) IsQuiet() bool {
	return p.quiet
}

func (p *Printer) Info(format string, args ...any) {
	if p.quiet {
		return
	}
	if p.useColors {
		color.New(color.FgCyan).Fprintf(p.out, format+"\n", args...)
		return
	}
	fmt.Fprintf(p.out, format+"\n", args...)
}

func (p *Printer) Success(format string, args ...any) {
	if p.quiet {
		return
	}
	if p.useColors {
		color.New(color.FgGreen).Fprintf(p.out, "✓ "+format+"\n", args...)
		return
	}
	fmt.Fprintf(p.out, "[OK] "+format+"\n", args...)
}

func (p *Printer) Warning(format string, args ...any) {
	if p.quiet {
		return
	}
	if p.useColors {
		color.New(color.FgYellow).Fprintf(p.err, "⚠ "+format+"\n", args...)
		return
	}
	fmt.Fprintf(p.err, "[WARN] "+format+"\n", args...)
}

// Error always prints, even in quiet mode.
func (p *Printer) Error(format string, args ...any) {
	if p.useColors {
		color.New(color.FgRed).Fprintf(p.err, "✗ "+format+"\n", args...)
		return
	}
	fmt.Fprintf(p.err, "[ERROR] "+format+"\n", args...)
}

func (p *Printer) Print(format string, args ...any) {
	if p.quiet {
		return
	}
	fmt.Fprintf(p.out, format+"\n", args...)
}

func (p *Printer) Header(title string) {
	if p.quiet {
		return
	}
	rule := strings.Repeat("─", len([]rune(title)))
	if p.useColors {
		color.New(color.FgWhite, color.Bold).Fprintf(p.out, "\n%s\n", title)
		color.New(color.FgWhite).Fprintf(p.out, "%s\n", rule)
		return
	}
	fmt.Fprintf(p.out, "\n%s\n%s\n", title, strings.Repeat("-", len([]rune(title))))
}

func (p *Printer) Bold(text string) string {
	if p.useColors {
		return color.New(color.Bold).Sprint(text)
	}
	return text
}

func (p *Printer) Dim(text string) string {
	if p.useColors {
		return color.New(color.Faint).Sprint(text)
	}
	return text
}

// SeverityBadge marks an anomaly severity.
func (p *Printer) SeverityBadge(severity string) string {
	label := strings.ToUpper(severity)
	if !p.useColors {
		return "[" + label + "]"
	}
	switch strings.ToLower(severity) {
	case domain.SeverityHigh:
		return color.RedString(label)
	case domain.SeverityMedium:
		return color.YellowString(label)
	default:
		return color.WhiteString(label)
	}
}

// LoadBadge colours a technician's load against the backend's threshold
// colour (vert, jaune, orange, rouge).
func (p *Printer) LoadBadge(couleur, text string) string {
	if !p.useColors {
		return text
	}
	switch couleur {
	case "vert":
		return color.GreenString(text)
	case "jaune":
		return color.YellowString(text)
	case "orange":
		return color.New(color.FgHiYellow, color.Bold).Sprint(text)
	case "rouge":
		return color.RedString(text)
	default:
		return text
	}
}
