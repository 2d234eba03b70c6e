package display

import (
	"sort"

	"glpiboard/internal/domain"
)

const (
	MttrComparatifSize = 20
	TypologieSize      = 10
)

// TopMttrByCount keeps the n dimensions with the most resolved tickets.
func TopMttrByCount(rows []domain.MttrParDimension, n int) []domain.MttrParDimension {
	out := append([]domain.MttrParDimension(nil), rows...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Count > out[j].Count })
	return head(out, n)
}

// TopVentilation keeps the n largest typology items by total.
func TopVentilation(items []domain.VentilationItem, n int) []domain.VentilationItem {
	out := append([]domain.VentilationItem(nil), items...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Total > out[j].Total })
	return head(out, n)
}

// TrendPercent is the relative change from previous to value, in percent.
// ok is false when there is no meaningful baseline.
func TrendPercent(value, previous float64) (pct float64, ok bool) {
	if previous == 0 {
		return 0, false
	}
	return (value - previous) / previous * 100, true
}

// StockValues drops the periods without a cumulative stock value.
func StockValues(periods []domain.PeriodData) []int {
	var out []int
	for _, p := range periods {
		if p.StockCumule != nil {
			out = append(out, *p.StockCumule)
		}
	}
	return out
}
