package pages

import (
	"context"

	"glpiboard/internal/client"
	"glpiboard/internal/domain"
	"glpiboard/internal/invoke"
)

type Timeline struct {
	d          Deps
	Points     *invoke.Hook[[]domain.TimelinePoint]
	Comparison *invoke.Hook[domain.ImportComparison]
}

type TimelineView struct {
	Points invoke.State[[]domain.TimelinePoint]
	// DefaultA and DefaultB are the two latest imports, zero when fewer than
	// two exist.
	DefaultA, DefaultB int64
}

// Comparable reports whether enough imports exist for a longitudinal view.
func (v TimelineView) Comparable() bool {
	return v.Points.Data != nil && len(*v.Points.Data) >= 2
}

func NewTimeline(d Deps) *Timeline {
	return &Timeline{
		d:          d,
		Points:     newHook[[]domain.TimelinePoint](d),
		Comparison: newHook[domain.ImportComparison](d),
	}
}

func (p *Timeline) Load(ctx context.Context) (TimelineView, error) {
	err := run(ctx, p.Points, client.TimelineDataRequest())
	v := TimelineView{Points: p.Points.Snapshot()}
	if v.Comparable() {
		pts := *v.Points.Data
		v.DefaultA = pts[len(pts)-2].ImportID
		v.DefaultB = pts[len(pts)-1].ImportID
	}
	return v, err
}

func (p *Timeline) Compare(ctx context.Context, a, b int64) (invoke.State[domain.ImportComparison], error) {
	err := run(ctx, p.Comparison, client.CompareImportsRequest(a, b))
	return p.Comparison.Snapshot(), err
}
