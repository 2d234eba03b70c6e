// Package client is the typed command surface of the analytics backend.
// Each method issues one command and returns its validated payload.
package client

import (
	"context"
	"fmt"

	"glpiboard/internal/domain"
	"glpiboard/internal/importer"
	"glpiboard/internal/invoke"
)

type Client struct {
	tr invoke.Transport
}

func New(tr invoke.Transport) *Client {
	return &Client{tr: tr}
}

// Transport returns the underlying transport, for hooks and trackers.
func (c *Client) Transport() invoke.Transport {
	return c.tr
}

// NewImportTracker returns an import state machine bound to this backend.
func (c *Client) NewImportTracker() *importer.Tracker {
	return importer.NewTracker(c.tr)
}

// Do executes r and decodes its payload into T.
func Do[T any](ctx context.Context, inv invoke.Invoker, r Request) (T, error) {
	return invoke.Call[T](ctx, inv, r.Command, r.Args)
}

// Execute runs r on hook h.
func Execute[T any](ctx context.Context, h *invoke.Hook[T], r Request) (T, error) {
	return h.Execute(ctx, r.Command, r.Args)
}

func (c *Client) ImportHistory(ctx context.Context) (domain.ImportHistoryList, error) {
	return Do[domain.ImportHistoryList](ctx, c.tr, ImportHistoryRequest())
}

func (c *Client) DashboardKpi(ctx context.Context, q DashboardQuery) (domain.DashboardKpi, error) {
	return Do[domain.DashboardKpi](ctx, c.tr, DashboardKpiRequest(q))
}

func (c *Client) StockOverview(ctx context.Context, f domain.StockFilters) (domain.StockOverview, error) {
	return Do[domain.StockOverview](ctx, c.tr, StockOverviewRequest(f))
}

func (c *Client) StockByTechnician(ctx context.Context, f domain.StockFilters) ([]domain.TechnicianStats, error) {
	return Do[[]domain.TechnicianStats](ctx, c.tr, StockByTechnicianRequest(f))
}

func (c *Client) StockByGroup(ctx context.Context, f domain.StockFilters) ([]domain.GroupStock, error) {
	return Do[[]domain.GroupStock](ctx, c.tr, StockByGroupRequest(f))
}

func (c *Client) TicketDetail(ctx context.Context, id int64) (domain.TicketDetail, error) {
	return Do[domain.TicketDetail](ctx, c.tr, TicketDetailRequest(id))
}

func (c *Client) TechnicianTickets(ctx context.Context, technician string, f domain.StockFilters) ([]domain.TicketSummary, error) {
	return Do[[]domain.TicketSummary](ctx, c.tr, TechnicianTicketsRequest(technician, f))
}

func (c *Client) BilanTemporel(ctx context.Context, r domain.BilanRequest) (domain.BilanTemporel, error) {
	return Do[domain.BilanTemporel](ctx, c.tr, BilanTemporelRequest(r))
}

func (c *Client) CategoriesTree(ctx context.Context, r domain.CategoriesRequest) (domain.CategoryTree, error) {
	return Do[domain.CategoryTree](ctx, c.tr, CategoriesTreeRequest(r))
}

func (c *Client) TextAnalysis(ctx context.Context, r domain.TextAnalysisRequest) (domain.TextAnalysisResult, error) {
	return Do[domain.TextAnalysisResult](ctx, c.tr, TextAnalysisRequest(r))
}

func (c *Client) Clusters(ctx context.Context, q ClusterQuery) (domain.ClusterResult, error) {
	return Do[domain.ClusterResult](ctx, c.tr, ClustersRequest(q))
}

func (c *Client) ClusterDetail(ctx context.Context, q ClusterQuery, clusterID int) (domain.ClusterDetail, error) {
	return Do[domain.ClusterDetail](ctx, c.tr, ClusterDetailRequest(q, clusterID))
}

func (c *Client) DetectAnomalies(ctx context.Context, vivantsOnly bool) (domain.AnomalyAlerts, error) {
	return Do[domain.AnomalyAlerts](ctx, c.tr, DetectAnomaliesRequest(vivantsOnly))
}

func (c *Client) DetectDuplicates(ctx context.Context, vivantsOnly bool) (domain.DuplicatePairs, error) {
	return Do[domain.DuplicatePairs](ctx, c.tr, DetectDuplicatesRequest(vivantsOnly))
}

func (c *Client) Cooccurrence(ctx context.Context, r domain.CooccurrenceRequest) (domain.CooccurrenceResult, error) {
	return Do[domain.CooccurrenceResult](ctx, c.tr, CooccurrenceRequest(r))
}

func (c *Client) ExportStock(ctx context.Context, path string) (domain.ExportResult, error) {
	return Do[domain.ExportResult](ctx, c.tr, ExportStockRequest(path))
}

func (c *Client) ExportPlanAction(ctx context.Context, path, technician string) (domain.ExportResult, error) {
	return Do[domain.ExportResult](ctx, c.tr, ExportPlanActionRequest(path, technician))
}

func (c *Client) ExportBilan(ctx context.Context, path string, r domain.BilanRequest) (domain.ExportResult, error) {
	return Do[domain.ExportResult](ctx, c.tr, ExportBilanRequest(path, r))
}

func (c *Client) ExportAllPlans(ctx context.Context, path string) (domain.ExportResult, error) {
	return Do[domain.ExportResult](ctx, c.tr, ExportAllPlansRequest(path))
}

func (c *Client) GetConfig(ctx context.Context) (domain.AppConfig, error) {
	return Do[domain.AppConfig](ctx, c.tr, GetConfigRequest())
}

// UpdateConfig validates cfg locally and sends it only when every status is
// classified exactly once and the thresholds are coherent.
func (c *Client) UpdateConfig(ctx context.Context, cfg domain.AppConfig) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("update config: %w", err)
	}
	_, err := Do[struct{}](ctx, c.tr, UpdateConfigRequest(cfg))
	return err
}

func (c *Client) CompareImports(ctx context.Context, a, b int64) (domain.ImportComparison, error) {
	return Do[domain.ImportComparison](ctx, c.tr, CompareImportsRequest(a, b))
}

func (c *Client) TimelineData(ctx context.Context) ([]domain.TimelinePoint, error) {
	return Do[[]domain.TimelinePoint](ctx, c.tr, TimelineDataRequest())
}

func (c *Client) TechnicianTimeline(ctx context.Context, technician string) ([]domain.TechTimelinePoint, error) {
	return Do[[]domain.TechTimelinePoint](ctx, c.tr, TechnicianTimelineRequest(technician))
}

func (c *Client) SearchTickets(ctx context.Context, query string, limit int) ([]domain.TicketSearchResult, error) {
	return Do[[]domain.TicketSearchResult](ctx, c.tr, SearchTicketsRequest(query, limit))
}

func (c *Client) PredictWorkload(ctx context.Context, periodsAhead int) (domain.PredictionResult, error) {
	return Do[domain.PredictionResult](ctx, c.tr, PredictWorkloadRequest(periodsAhead))
}
