package pages

import (
	"context"
	"fmt"
	"log"
	"time"

	"glpiboard/internal/client"
	"glpiboard/internal/domain"
	"glpiboard/internal/invoke"
)

// DefaultBilanDays is the span shown when no range was chosen.
const DefaultBilanDays = 30

type BilanQuery struct {
	From   string
	To     string
	Period domain.Granularity
}

type Bilan struct {
	d     Deps
	Bilan *invoke.Hook[domain.BilanTemporel]
}

type BilanView struct {
	Request domain.BilanRequest
	Bilan   invoke.State[domain.BilanTemporel]
}

func NewBilan(d Deps) *Bilan {
	return &Bilan{d: d, Bilan: newHook[domain.BilanTemporel](d)}
}

// Resolve fills a query's blanks: the store's date range, else the last
// DefaultBilanDays days, and a period inferred from the span.
func (p *Bilan) Resolve(q BilanQuery) (domain.BilanRequest, error) {
	if q.From == "" && q.To == "" && p.d.Store != nil {
		if r := p.d.Store.Snapshot().DateRange; r.IsSet() {
			q.From, q.To = *r.From, *r.To
		}
	}
	today := p.d.now()
	if q.To == "" {
		q.To = today.Format(domain.DateLayout)
	}
	if q.From == "" {
		to, err := time.Parse(domain.DateLayout, q.To)
		if err != nil {
			return domain.BilanRequest{}, fmt.Errorf("parse date %q: %w", q.To, err)
		}
		q.From = to.AddDate(0, 0, -(DefaultBilanDays - 1)).Format(domain.DateLayout)
	}
	period := q.Period
	if period == "" {
		g, err := domain.InferGranularityDates(q.From, q.To)
		if err != nil {
			return domain.BilanRequest{}, err
		}
		period = g
	}
	return domain.BilanRequest{Period: period, DateFrom: q.From, DateTo: q.To}, nil
}

func (p *Bilan) Load(ctx context.Context, q BilanQuery) (BilanView, error) {
	req, err := p.Resolve(q)
	if err != nil {
		return BilanView{}, err
	}
	if p.d.Store != nil && (q.From != "" || q.To != "") {
		if err := p.d.Store.SetDateRange(strPtr(req.DateFrom), strPtr(req.DateTo)); err != nil {
			log.Printf("bilan store update failed err=%v", err)
		}
	}
	err = run(ctx, p.Bilan, client.BilanTemporelRequest(req))
	return BilanView{Request: req, Bilan: p.Bilan.Snapshot()}, err
}
