package display

import (
	"sort"
	"strings"

	"glpiboard/internal/domain"
)

// WordCloudSize is the number of keywords shown in the word cloud.
const WordCloudSize = 50

// TopKeywords returns the first n keywords in backend (score) order.
func TopKeywords(kws []domain.KeywordFrequency, n int) []domain.KeywordFrequency {
	return head(kws, n)
}

// SortDuplicates orders pairs by non-increasing similarity.
func SortDuplicates(pairs []domain.DuplicatePair) []domain.DuplicatePair {
	out := append([]domain.DuplicatePair(nil), pairs...)
	sort.SliceStable(out, func(i, j int) bool { return orderKey(out[i].Similarity) > orderKey(out[j].Similarity) })
	return out
}

// SeverityOrder ranks a severity for display: high, then medium, then any
// other value. Comparison is case-insensitive.
func SeverityOrder(severity string) int {
	switch strings.ToLower(severity) {
	case domain.SeverityHigh:
		return 0
	case domain.SeverityMedium:
		return 1
	default:
		return 2
	}
}

// SortAnomalies orders alerts by severity rank.
func SortAnomalies(alerts []domain.AnomalyAlert) []domain.AnomalyAlert {
	out := append([]domain.AnomalyAlert(nil), alerts...)
	sort.SliceStable(out, func(i, j int) bool {
		return SeverityOrder(out[i].Severity) < SeverityOrder(out[j].Severity)
	})
	return out
}

// ClusterLabel is the cluster's label, or its first three keywords when the
// backend left it blank.
func ClusterLabel(c domain.ClusterInfo) string {
	if strings.TrimSpace(c.Label) != "" {
		return c.Label
	}
	return strings.Join(head(c.TopKeywords, 3), " · ")
}

// DrillDown returns the tickets containing word, matched case-insensitively
// when the exact key is absent.
func DrillDown(m domain.TicketMap, word string) []domain.TicketRef {
	if refs, ok := m[word]; ok {
		return append([]domain.TicketRef(nil), refs...)
	}
	lower := strings.ToLower(word)
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if strings.ToLower(k) == lower {
			return append([]domain.TicketRef(nil), m[k]...)
		}
	}
	return nil
}

func head[T any](s []T, n int) []T {
	if n < 0 {
		n = 0
	}
	if n > len(s) {
		n = len(s)
	}
	return append([]T(nil), s[:n]...)
}
