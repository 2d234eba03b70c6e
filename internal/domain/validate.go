package domain

import (
	"fmt"
	"math"
	"strings"
)

// ValidationError reports a backend payload that does not satisfy its
// contract. It lists every problem found, not just the first one.
type ValidationError struct {
	Type     string
	Problems []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Type, strings.Join(e.Problems, "; "))
}

// Validator is implemented by payloads that can check their own invariants.
type Validator interface {
	Validate() error
}

type problems struct {
	typ  string
	list []string
}

func newProblems(typ string) *problems {
	return &problems{typ: typ}
}

func (p *problems) addf(format string, args ...any) {
	p.list = append(p.list, fmt.Sprintf(format, args...))
}

func (p *problems) err() error {
	if len(p.list) == 0 {
		return nil
	}
	return &ValidationError{Type: p.typ, Problems: p.list}
}

// Backend percentages are rounded to 0.1 per item, so the drift of a sum grows
// with the number of items.
const (
	percentTolerance     = 1.5
	percentItemTolerance = 0.05
)

// percentShare is one item of a percentage breakdown with the count behind it.
type percentShare struct {
	count   int
	percent float64
}

// checkPercentSum checks that a breakdown sums to ~100. Empty samples (all
// counts zero) carry 0% everywhere and are skipped. A partial breakdown, such
// as a top-N list, only has to stay at or below 100.
func checkPercentSum(p *problems, name string, shares []percentShare, partial bool) {
	if len(shares) == 0 {
		return
	}
	var (
		sum   float64
		total int
	)
	for _, s := range shares {
		sum += s.percent
		total += s.count
	}
	if total == 0 {
		return
	}
	tol := math.Max(percentTolerance, float64(len(shares))*percentItemTolerance)
	switch {
	case partial && sum > 100+tol:
		p.addf("%s percentages sum to %.2f, want <= 100", name, sum)
	case !partial && math.Abs(sum-100) > tol:
		p.addf("%s percentages sum to %.2f, want ~100", name, sum)
	}
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
