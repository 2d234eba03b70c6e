package pages

import (
	"context"

	"golang.org/x/sync/errgroup"

	"glpiboard/internal/client"
	"glpiboard/internal/display"
	"glpiboard/internal/domain"
	"glpiboard/internal/invoke"
)

// Text analysis defaults.
const (
	CorpusTitres        = "titres"
	ScopeGlobal         = "global"
	ScopeGroup          = "group"
	DefaultKeywordCount = 50
	groupByGroupe       = "groupe_principal"
)

type MiningQuery struct {
	Corpus      string
	Scope       string
	TopN        int
	NClusters   int
	VivantsOnly bool
}

func (q MiningQuery) analysisRequest() domain.TextAnalysisRequest {
	r := domain.TextAnalysisRequest{Corpus: q.Corpus, Scope: q.Scope}
	if r.Corpus == "" {
		r.Corpus = CorpusTitres
	}
	if r.Scope == "" {
		r.Scope = ScopeGlobal
	}
	if r.Scope == ScopeGroup {
		r.GroupBy = strPtr(groupByGroupe)
	}
	topN := q.TopN
	if topN <= 0 {
		topN = DefaultKeywordCount
	}
	r.TopN = &topN
	return r
}

func (q MiningQuery) clusterQuery() client.ClusterQuery {
	corpus := q.Corpus
	if corpus == "" {
		corpus = CorpusTitres
	}
	return client.ClusterQuery{Corpus: corpus, NClusters: q.NClusters, VivantsOnly: q.VivantsOnly}
}

type Mining struct {
	d             Deps
	Analysis      *invoke.Hook[domain.TextAnalysisResult]
	Clusters      *invoke.Hook[domain.ClusterResult]
	ClusterDetail *invoke.Hook[domain.ClusterDetail]
	Anomalies     *invoke.Hook[domain.AnomalyAlerts]
	Duplicates    *invoke.Hook[domain.DuplicatePairs]
	Cooccurrence  *invoke.Hook[domain.CooccurrenceResult]
}

type MiningView struct {
	Analysis   invoke.State[domain.TextAnalysisResult]
	Clusters   invoke.State[domain.ClusterResult]
	Anomalies  invoke.State[domain.AnomalyAlerts]
	Duplicates invoke.State[domain.DuplicatePairs]

	Keywords         []domain.KeywordFrequency
	SortedAnomalies  []domain.AnomalyAlert
	SortedDuplicates []domain.DuplicatePair
}

func NewMining(d Deps) *Mining {
	return &Mining{
		d:             d,
		Analysis:      newHook[domain.TextAnalysisResult](d),
		Clusters:      newHook[domain.ClusterResult](d),
		ClusterDetail: newHook[domain.ClusterDetail](d),
		Anomalies:     newHook[domain.AnomalyAlerts](d),
		Duplicates:    newHook[domain.DuplicatePairs](d),
		Cooccurrence:  newHook[domain.CooccurrenceResult](d),
	}
}

func (p *Mining) Analyze(ctx context.Context, q MiningQuery) error {
	return run(ctx, p.Analysis, client.TextAnalysisRequest(q.analysisRequest()))
}

func (p *Mining) Cluster(ctx context.Context, q MiningQuery) error {
	return run(ctx, p.Clusters, client.ClustersRequest(q.clusterQuery()))
}

func (p *Mining) DetectAnomalies(ctx context.Context, q MiningQuery) error {
	return run(ctx, p.Anomalies, client.DetectAnomaliesRequest(q.VivantsOnly))
}

func (p *Mining) DetectDuplicates(ctx context.Context, q MiningQuery) error {
	return run(ctx, p.Duplicates, client.DetectDuplicatesRequest(q.VivantsOnly))
}

func (p *Mining) LoadClusterDetail(ctx context.Context, q MiningQuery, clusterID int) (invoke.State[domain.ClusterDetail], error) {
	err := run(ctx, p.ClusterDetail, client.ClusterDetailRequest(q.clusterQuery(), clusterID))
	return p.ClusterDetail.Snapshot(), err
}

func (p *Mining) LoadCooccurrence(ctx context.Context, r domain.CooccurrenceRequest) (invoke.State[domain.CooccurrenceResult], error) {
	err := run(ctx, p.Cooccurrence, client.CooccurrenceRequest(r))
	return p.Cooccurrence.Snapshot(), err
}

// LoadAll runs the four analyses concurrently. Each section keeps its own
// outcome; the first failure is returned.
func (p *Mining) LoadAll(ctx context.Context, q MiningQuery) (MiningView, error) {
	var g errgroup.Group
	g.Go(func() error { return p.Analyze(ctx, q) })
	g.Go(func() error { return p.Cluster(ctx, q) })
	g.Go(func() error { return p.DetectAnomalies(ctx, q) })
	g.Go(func() error { return p.DetectDuplicates(ctx, q) })
	err := g.Wait()
	return p.View(q), err
}

// View assembles the current state of every section.
func (p *Mining) View(q MiningQuery) MiningView {
	v := MiningView{
		Analysis:   p.Analysis.Snapshot(),
		Clusters:   p.Clusters.Snapshot(),
		Anomalies:  p.Anomalies.Snapshot(),
		Duplicates: p.Duplicates.Snapshot(),
	}
	if v.Analysis.Data != nil {
		n := q.TopN
		if n <= 0 {
			n = DefaultKeywordCount
		}
		v.Keywords = display.TopKeywords(v.Analysis.Data.Keywords, n)
	}
	if v.Anomalies.Data != nil {
		v.SortedAnomalies = display.SortAnomalies(*v.Anomalies.Data)
	}
	if v.Duplicates.Data != nil {
		v.SortedDuplicates = display.SortDuplicates(*v.Duplicates.Data)
	}
	return v
}
