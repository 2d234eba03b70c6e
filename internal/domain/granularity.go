package domain

import (
	"fmt"
	"time"
)

type Granularity string

const (
	GranularityDay     Granularity = "day"
	GranularityWeek    Granularity = "week"
	GranularityMonth   Granularity = "month"
	GranularityQuarter Granularity = "quarter"
)

// DateLayout is the calendar date format exchanged with the backend.
const DateLayout = "2006-01-02"

func ParseGranularity(s string) (Granularity, error) {
	switch g := Granularity(s); g {
	case GranularityDay, GranularityWeek, GranularityMonth, GranularityQuarter:
		return g, nil
	}
	return "", fmt.Errorf("invalid granularity %q: must be day, week, month or quarter", s)
}

// InferGranularity picks the bucket size for a date span: quarter beyond a
// year, month beyond 60 days, week beyond 14 days, day otherwise.
func InferGranularity(from, to time.Time) Granularity {
	days := spanDays(from, to)
	switch {
	case days > 365:
		return GranularityQuarter
	case days > 60:
		return GranularityMonth
	case days > 14:
		return GranularityWeek
	default:
		return GranularityDay
	}
}

// InferGranularityDates is InferGranularity over backend date strings.
func InferGranularityDates(from, to string) (Granularity, error) {
	f, err := time.Parse(DateLayout, from)
	if err != nil {
		return "", fmt.Errorf("parse date %q: %w", from, err)
	}
	t, err := time.Parse(DateLayout, to)
	if err != nil {
		return "", fmt.Errorf("parse date %q: %w", to, err)
	}
	return InferGranularity(f, t), nil
}

func spanDays(from, to time.Time) int {
	f := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, time.UTC)
	t := time.Date(to.Year(), to.Month(), to.Day(), 0, 0, 0, 0, time.UTC)
	d := int(t.Sub(f).Hours() / 24)
	if d < 0 {
		return -d
	}
	return d
}
