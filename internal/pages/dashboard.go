package pages

import (
	"context"
	"log"

	"glpiboard/internal/client"
	"glpiboard/internal/domain"
	"glpiboard/internal/invoke"
)

type Dashboard struct {
	d       Deps
	History *invoke.Hook[domain.ImportHistoryList]
	Kpi     *invoke.Hook[domain.DashboardKpi]
}

type DashboardView struct {
	// Active is nil when no import is flagged active.
	Active       *domain.ImportHistory
	Query        client.DashboardQuery
	HistoryError string
	Kpi          invoke.State[domain.DashboardKpi]
}

// Empty reports whether there is nothing to show yet.
func (v DashboardView) Empty() bool {
	return v.Kpi.Data == nil && !v.Kpi.Loading && v.Kpi.Error == ""
}

func NewDashboard(d Deps) *Dashboard {
	return &Dashboard{
		d:       d,
		History: newHook[domain.ImportHistoryList](d),
		Kpi:     newHook[domain.DashboardKpi](d),
	}
}

// Load resolves the active import, then fetches KPIs over its date range.
// Without an active import no KPI call is made. When the history itself
// cannot be read, KPIs are requested without a range.
func (p *Dashboard) Load(ctx context.Context) (DashboardView, error) {
	var view DashboardView
	history, err := client.Execute(ctx, p.History, client.ImportHistoryRequest())
	if err != nil {
		view.HistoryError = invoke.Message(err)
		log.Printf("dashboard history failed err=%s", view.HistoryError)
		err = run(ctx, p.Kpi, client.DashboardKpiRequest(client.DashboardQuery{}))
		view.Kpi = p.Kpi.Snapshot()
		return view, err
	}

	active, ok := history.Active()
	if !ok {
		view.Kpi = p.Kpi.Snapshot()
		return view, nil
	}
	view.Active = &active
	if p.d.Store != nil {
		id := active.ID
		if err := p.d.Store.SetCurrentImportID(&id); err != nil {
			log.Printf("dashboard store update failed err=%v", err)
		}
	}

	view.Query = activeRangeQuery(active)
	err = run(ctx, p.Kpi, client.DashboardKpiRequest(view.Query))
	view.Kpi = p.Kpi.Snapshot()
	return view, err
}

// LoadRange fetches KPIs over an explicit range and remembers it.
func (p *Dashboard) LoadRange(ctx context.Context, from, to string) (DashboardView, error) {
	q := client.DashboardQuery{DateDebut: from, DateFin: to}
	if g, err := domain.InferGranularityDates(from, to); err == nil {
		q.Granularity = g
	}
	if p.d.Store != nil {
		if err := p.d.Store.SetDateRange(strPtr(from), strPtr(to)); err != nil {
			log.Printf("dashboard store update failed err=%v", err)
		}
	}
	err := run(ctx, p.Kpi, client.DashboardKpiRequest(q))
	return DashboardView{Query: q, Kpi: p.Kpi.Snapshot()}, err
}

func activeRangeQuery(h domain.ImportHistory) client.DashboardQuery {
	var q client.DashboardQuery
	if h.DateRangeFrom != nil {
		q.DateDebut = datePart(*h.DateRangeFrom)
	}
	if h.DateRangeTo != nil {
		q.DateFin = datePart(*h.DateRangeTo)
	}
	if q.DateDebut != "" && q.DateFin != "" {
		if g, err := domain.InferGranularityDates(q.DateDebut, q.DateFin); err == nil {
			q.Granularity = g
		}
	}
	return q
}

// datePart trims a backend timestamp to its calendar date.
func datePart(s string) string {
	if len(s) > len(domain.DateLayout) {
		return s[:len(domain.DateLayout)]
	}
	return s
}
