package pages

import (
	"context"
	"fmt"
	"path/filepath"
	"regexp"

	"golang.org/x/sync/errgroup"

	"glpiboard/internal/client"
	"glpiboard/internal/display"
	"glpiboard/internal/domain"
	"glpiboard/internal/invoke"
)

// StaleTicketDays marks tickets counted as long-standing on the detail page.
const StaleTicketDays = 90

type Technician struct {
	d        Deps
	Tickets  *invoke.Hook[[]domain.TicketSummary]
	Timeline *invoke.Hook[[]domain.TechTimelinePoint]
}

type TechnicianView struct {
	Name       string
	Tickets    invoke.State[[]domain.TicketSummary]
	Timeline   invoke.State[[]domain.TechTimelinePoint]
	Rows       []domain.TicketSummary
	StaleCount int
}

func NewTechnician(d Deps) *Technician {
	return &Technician{
		d:        d,
		Tickets:  newHook[[]domain.TicketSummary](d),
		Timeline: newHook[[]domain.TechTimelinePoint](d),
	}
}

// Load fetches a technician's open tickets and stock history in parallel.
func (p *Technician) Load(ctx context.Context, name string, sort display.Sort) (TechnicianView, error) {
	var filters domain.StockFilters
	if p.d.Store != nil {
		filters = p.d.Store.Snapshot().Filters.StockFilters()
	}
	var g errgroup.Group
	g.Go(func() error {
		return run(ctx, p.Tickets, client.TechnicianTicketsRequest(name, filters))
	})
	g.Go(func() error {
		return run(ctx, p.Timeline, client.TechnicianTimelineRequest(name))
	})
	err := g.Wait()

	v := TechnicianView{Name: name, Tickets: p.Tickets.Snapshot(), Timeline: p.Timeline.Snapshot()}
	if v.Tickets.Data != nil {
		v.Rows = display.SortTickets(*v.Tickets.Data, sort)
		for _, t := range v.Rows {
			if t.AncienneteJours != nil && *t.AncienneteJours > StaleTicketDays {
				v.StaleCount++
			}
		}
	}
	return v, err
}

var whitespace = regexp.MustCompile(`\s+`)

// PlanFilename is the default file name of a technician's action plan.
func PlanFilename(name string) string {
	return fmt.Sprintf("plan_action_%s.xlsx", whitespace.ReplaceAllString(name, "_"))
}

// ExportPlan writes the technician's action plan into dir.
func (p *Technician) ExportPlan(ctx context.Context, dir, name string) (domain.ExportResult, error) {
	return p.d.Client.ExportPlanAction(ctx, filepath.Join(dir, PlanFilename(name)), name)
}
