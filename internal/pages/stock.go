package pages

import (
	"context"

	"golang.org/x/sync/errgroup"

	"glpiboard/internal/client"
	"glpiboard/internal/display"
	"glpiboard/internal/domain"
	"glpiboard/internal/invoke"
)

type Stock struct {
	d           Deps
	Overview    *invoke.Hook[domain.StockOverview]
	Technicians *invoke.Hook[[]domain.TechnicianStats]
	Groups      *invoke.Hook[[]domain.GroupStock]
}

type StockView struct {
	Filters      domain.StockFilters
	Overview     invoke.State[domain.StockOverview]
	Technicians  invoke.State[[]domain.TechnicianStats]
	Rows         []domain.TechnicianStats
	GroupOptions []string
}

func NewStock(d Deps) *Stock {
	return &Stock{
		d:           d,
		Overview:    newHook[domain.StockOverview](d),
		Technicians: newHook[[]domain.TechnicianStats](d),
		Groups:      newHook[[]domain.GroupStock](d),
	}
}

// Load fetches the overview and the per-technician stock in parallel with
// the store's filters. Both sections settle even when one fails; the first
// failure is returned.
func (p *Stock) Load(ctx context.Context, sort display.Sort) (StockView, error) {
	var filters domain.StockFilters
	if p.d.Store != nil {
		filters = p.d.Store.Snapshot().Filters.StockFilters()
	}

	var g errgroup.Group
	g.Go(func() error {
		return run(ctx, p.Overview, client.StockOverviewRequest(filters))
	})
	g.Go(func() error {
		return run(ctx, p.Technicians, client.StockByTechnicianRequest(filters))
	})
	err := g.Wait()

	view := StockView{
		Filters:     filters,
		Overview:    p.Overview.Snapshot(),
		Technicians: p.Technicians.Snapshot(),
	}
	if view.Technicians.Data != nil {
		techs := *view.Technicians.Data
		view.GroupOptions = display.GroupOptions(techs)
		view.Rows = display.SortTechnicians(display.FilterTechnicians(techs, filters), sort)
	}
	return view, err
}

// LoadGroups fetches the stock aggregated by assignment group.
func (p *Stock) LoadGroups(ctx context.Context) (invoke.State[[]domain.GroupStock], error) {
	var filters domain.StockFilters
	if p.d.Store != nil {
		filters = p.d.Store.Snapshot().Filters.StockFilters()
	}
	err := run(ctx, p.Groups, client.StockByGroupRequest(filters))
	return p.Groups.Snapshot(), err
}
