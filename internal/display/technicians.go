package display

import (
	"math"
	"sort"
	"strings"

	"glpiboard/internal/domain"
)

// Technician table columns.
const (
	ColTechnicien    = "technicien"
	ColTotal         = "total"
	ColEnCours       = "enCours"
	ColEnAttente     = "enAttente"
	ColPlanifie      = "planifie"
	ColNouveau       = "nouveau"
	ColIncidents     = "incidents"
	ColDemandes      = "demandes"
	ColAgeMoyenJours = "ageMoyenJours"
	ColInactifs14j   = "inactifs14j"
	ColEcartSeuil    = "ecartSeuil"
)

// DefaultTechnicianSort is the initial ordering of the technician table.
var DefaultTechnicianSort = Sort{Column: ColTotal, Desc: true}

type Sort struct {
	Column string
	Desc   bool
}

// Ticket types as found in StockFilters.TypeTicket.
const (
	TypeIncident = "Incident"
	TypeDemande  = "Demande"
)

var technicianKeys = map[string]func(domain.TechnicianStats) float64{
	ColTotal:         func(t domain.TechnicianStats) float64 { return float64(t.Total) },
	ColEnCours:       func(t domain.TechnicianStats) float64 { return float64(t.EnCours) },
	ColEnAttente:     func(t domain.TechnicianStats) float64 { return float64(t.EnAttente) },
	ColPlanifie:      func(t domain.TechnicianStats) float64 { return float64(t.Planifie) },
	ColNouveau:       func(t domain.TechnicianStats) float64 { return float64(t.Nouveau) },
	ColIncidents:     func(t domain.TechnicianStats) float64 { return float64(t.Incidents) },
	ColDemandes:      func(t domain.TechnicianStats) float64 { return float64(t.Demandes) },
	ColAgeMoyenJours: func(t domain.TechnicianStats) float64 { return t.AgeMoyenJours },
	ColInactifs14j:   func(t domain.TechnicianStats) float64 { return float64(t.Inactifs14j) },
	ColEcartSeuil:    func(t domain.TechnicianStats) float64 { return float64(t.EcartSeuil) },
}

// TechnicianColumns lists the sortable columns in table order.
func TechnicianColumns() []string {
	return []string{
		ColTechnicien, ColTotal, ColEnCours, ColEnAttente, ColPlanifie, ColNouveau,
		ColIncidents, ColDemandes, ColAgeMoyenJours, ColInactifs14j, ColEcartSeuil,
	}
}

// ValidTechnicianColumn reports whether col can sort the technician table.
func ValidTechnicianColumn(col string) bool {
	_, ok := technicianKeys[col]
	return ok || col == ColTechnicien
}

// SortTechnicians returns rows ordered by s. An unknown column falls back to
// DefaultTechnicianSort.
func SortTechnicians(rows []domain.TechnicianStats, s Sort) []domain.TechnicianStats {
	out := append([]domain.TechnicianStats(nil), rows...)
	if s.Column == ColTechnicien {
		sort.SliceStable(out, func(i, j int) bool {
			if s.Desc {
				return out[i].Technicien > out[j].Technicien
			}
			return out[i].Technicien < out[j].Technicien
		})
		return out
	}
	key, ok := technicianKeys[s.Column]
	if !ok {
		s = DefaultTechnicianSort
		key = technicianKeys[s.Column]
	}
	sort.SliceStable(out, func(i, j int) bool {
		a, b := orderKey(key(out[i])), orderKey(key(out[j]))
		if s.Desc {
			return a > b
		}
		return a < b
	})
	return out
}

// orderKey maps NaN to -Inf so float comparisons stay a total order.
func orderKey(f float64) float64 {
	if math.IsNaN(f) {
		return math.Inf(-1)
	}
	return f
}

// FilterTechnicians keeps the rows relevant to the active stock filters: a
// statut filter keeps technicians with open tickets, a type filter keeps
// those holding at least one ticket of that type.
func FilterTechnicians(rows []domain.TechnicianStats, f domain.StockFilters) []domain.TechnicianStats {
	out := make([]domain.TechnicianStats, 0, len(rows))
	for _, t := range rows {
		if f.Statut != nil && *f.Statut != "" && t.EnCours == 0 && t.Total == 0 {
			continue
		}
		if f.TypeTicket != nil {
			switch *f.TypeTicket {
			case TypeIncident:
				if t.Incidents == 0 {
					continue
				}
			case TypeDemande:
				if t.Demandes == 0 {
					continue
				}
			}
		}
		out = append(out, t)
	}
	return out
}

// GroupOptions returns the distinct first path segments of the technician
// names ("Support > N1" yields "Support"), sorted.
func GroupOptions(rows []domain.TechnicianStats) []string {
	seen := make(map[string]bool)
	var out []string
	for _, t := range rows {
		if t.Technicien == "" {
			continue
		}
		head, _, _ := strings.Cut(t.Technicien, " > ")
		if !seen[head] {
			seen[head] = true
			out = append(out, head)
		}
	}
	sort.Strings(out)
	return out
}
