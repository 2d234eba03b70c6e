package pages

import (
	"context"
	"strings"

	"glpiboard/internal/client"
	"glpiboard/internal/domain"
	"glpiboard/internal/invoke"
)

type Search struct {
	d          Deps
	Results    *invoke.Hook[[]domain.TicketSearchResult]
	Detail     *invoke.Hook[domain.TicketDetail]
	Prediction *invoke.Hook[domain.PredictionResult]
}

func NewSearch(d Deps) *Search {
	return &Search{
		d:          d,
		Results:    newHook[[]domain.TicketSearchResult](d),
		Detail:     newHook[domain.TicketDetail](d),
		Prediction: newHook[domain.PredictionResult](d),
	}
}

// Query runs a full-text search. A blank query clears the results without
// calling the backend.
func (p *Search) Query(ctx context.Context, q string, limit int) (invoke.State[[]domain.TicketSearchResult], error) {
	q = strings.TrimSpace(q)
	if q == "" {
		p.Results.Reset()
		return p.Results.Snapshot(), nil
	}
	err := run(ctx, p.Results, client.SearchTicketsRequest(q, limit))
	return p.Results.Snapshot(), err
}

func (p *Search) Ticket(ctx context.Context, id int64) (invoke.State[domain.TicketDetail], error) {
	err := run(ctx, p.Detail, client.TicketDetailRequest(id))
	return p.Detail.Snapshot(), err
}

func (p *Search) Predict(ctx context.Context, periodsAhead int) (invoke.State[domain.PredictionResult], error) {
	err := run(ctx, p.Prediction, client.PredictWorkloadRequest(periodsAhead))
	return p.Prediction.Snapshot(), err
}
