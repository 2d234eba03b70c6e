package display

import (
	"fmt"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"glpiboard/internal/domain"
)

var frPrinter = message.NewPrinter(language.French)

// FormatNumber groups digits the French way.
func FormatNumber(n int) string {
	return frPrinter.Sprintf("%d", n)
}

// FormatDecimal formats f with prec decimals and a French decimal comma.
func FormatDecimal(f float64, prec int) string {
	return frPrinter.Sprintf(fmt.Sprintf("%%.%df", prec), f)
}

// FormatDate renders a backend date or timestamp as dd/mm/yyyy. Values that
// do not parse are returned unchanged.
func FormatDate(s string) string {
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02 15:04:05", domain.DateLayout} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format("02/01/2006")
		}
	}
	return s
}

// FormatSize renders a byte count in o, Ko or Mo.
func FormatSize(bytes int64) string {
	switch {
	case bytes < 1024:
		return fmt.Sprintf("%d o", bytes)
	case bytes < 1024*1024:
		return fmt.Sprintf("%.1f Ko", float64(bytes)/1024)
	default:
		return fmt.Sprintf("%.2f Mo", float64(bytes)/(1024*1024))
	}
}

// FormatDuration renders milliseconds, switching to seconds from 1000 ms.
func FormatDuration(ms int64) string {
	if ms < 1000 {
		return fmt.Sprintf("%d ms", ms)
	}
	return fmt.Sprintf("%.1f s", float64(ms)/1000)
}

// FormatDays renders an optional day count, "—" when absent.
func FormatDays(d *float64) string {
	if d == nil {
		return "—"
	}
	return FormatDecimal(*d, 1) + " j"
}
