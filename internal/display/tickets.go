package display

import (
	"sort"

	"glpiboard/internal/domain"
)

// Ticket table columns.
const (
	ColID                = "id"
	ColTitre             = "titre"
	ColStatut            = "statut"
	ColAnciennete        = "ancienneteJours"
	ColInactivite        = "inactiviteJours"
	ColNombreSuivis      = "nombreSuivis"
	ColDateOuverture     = "dateOuverture"
	ColActionRecommandee = "actionRecommandee"
)

// DefaultTicketSort shows the oldest tickets first.
var DefaultTicketSort = Sort{Column: ColAnciennete, Desc: true}

// TicketColumns lists the sortable ticket columns.
func TicketColumns() []string {
	return []string{ColID, ColTitre, ColStatut, ColAnciennete, ColInactivite, ColNombreSuivis, ColDateOuverture, ColActionRecommandee}
}

func ValidTicketColumn(col string) bool {
	return ticketLess(col) != nil
}

// SortTickets orders a technician's tickets. Missing numeric values sort as
// smaller than any present value.
func SortTickets(rows []domain.TicketSummary, s Sort) []domain.TicketSummary {
	out := append([]domain.TicketSummary(nil), rows...)
	less := ticketLess(s.Column)
	if less == nil {
		s = DefaultTicketSort
		less = ticketLess(s.Column)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if s.Desc {
			return less(out[j], out[i])
		}
		return less(out[i], out[j])
	})
	return out
}

func ticketLess(col string) func(a, b domain.TicketSummary) bool {
	switch col {
	case ColID:
		return func(a, b domain.TicketSummary) bool { return a.ID < b.ID }
	case ColTitre:
		return func(a, b domain.TicketSummary) bool { return a.Titre < b.Titre }
	case ColStatut:
		return func(a, b domain.TicketSummary) bool { return a.Statut < b.Statut }
	case ColDateOuverture:
		return func(a, b domain.TicketSummary) bool { return a.DateOuverture < b.DateOuverture }
	case ColAnciennete:
		return func(a, b domain.TicketSummary) bool { return intLess(a.AncienneteJours, b.AncienneteJours) }
	case ColInactivite:
		return func(a, b domain.TicketSummary) bool { return intLess(a.InactiviteJours, b.InactiviteJours) }
	case ColNombreSuivis:
		return func(a, b domain.TicketSummary) bool { return intLess(a.NombreSuivis, b.NombreSuivis) }
	case ColActionRecommandee:
		return func(a, b domain.TicketSummary) bool { return strLess(a.ActionRecommandee, b.ActionRecommandee) }
	}
	return nil
}

func intLess(a, b *int) bool {
	switch {
	case a == nil:
		return b != nil
	case b == nil:
		return false
	default:
		return *a < *b
	}
}

func strLess(a, b *string) bool {
	switch {
	case a == nil:
		return b != nil
	case b == nil:
		return false
	default:
		return *a < *b
	}
}

// Page is one page of a table.
type Page[T any] struct {
	Rows       []T
	Page       int
	PageSize   int
	TotalRows  int
	TotalPages int
}

// Paginate returns page (1-based) of rows. page is clamped to the valid
// range; a non-positive size yields a single page.
func Paginate[T any](rows []T, page, size int) Page[T] {
	total := len(rows)
	if size <= 0 {
		size = total
		if size == 0 {
			size = 1
		}
	}
	pages := (total + size - 1) / size
	if pages == 0 {
		pages = 1
	}
	if page < 1 {
		page = 1
	}
	if page > pages {
		page = pages
	}
	start := (page - 1) * size
	end := start + size
	if start > total {
		start = total
	}
	if end > total {
		end = total
	}
	return Page[T]{
		Rows:       append([]T(nil), rows[start:end]...),
		Page:       page,
		PageSize:   size,
		TotalRows:  total,
		TotalPages: pages,
	}
}
