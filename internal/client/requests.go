package client

import (
	"glpiboard/internal/domain"
	"glpiboard/internal/invoke"
)

// Backend command names.
const (
	CmdImportCSV             = "import_csv"
	CmdImportHistory         = "get_import_history"
	CmdDashboardKpi          = "get_dashboard_kpi"
	CmdStockOverview         = "get_stock_overview"
	CmdStockByTechnician     = "get_stock_by_technician"
	CmdStockByGroup          = "get_stock_by_group"
	CmdTicketDetail          = "get_ticket_detail"
	CmdTechnicianTickets     = "get_technician_tickets"
	CmdBilanTemporel         = "get_bilan_temporel"
	CmdCategoriesTree        = "get_categories_tree"
	CmdTextAnalysis          = "run_text_analysis"
	CmdClusters              = "get_clusters"
	CmdClusterDetail         = "get_cluster_detail"
	CmdDetectAnomalies       = "detect_anomalies"
	CmdDetectDuplicates      = "detect_duplicates"
	CmdCooccurrence          = "get_cooccurrence_network"
	CmdExportStock           = "export_excel_stock"
	CmdExportPlanAction      = "export_excel_plan_action"
	CmdExportBilan           = "export_excel_bilan"
	CmdExportAllPlans        = "export_all_plans_zip"
	CmdGetConfig             = "get_config"
	CmdUpdateConfig          = "update_config"
	CmdCompareImports        = "compare_imports"
	CmdTimelineData          = "get_timeline_data"
	CmdTechnicianTimeline    = "get_technician_timeline"
	CmdSearchTickets         = "search_tickets"
	CmdPredictWorkload       = "predict_workload"
	DefaultSearchLimit       = 50
	DefaultClusterCorpus     = "titres"
	DefaultPredictionHorizon = 3
	AutoClusterCount         = 0
)

// Request is one command call: a name and its argument object. Page hooks
// execute requests so the arguments are built in one place.
type Request struct {
	Command string
	Args    invoke.Args
}

func ImportHistoryRequest() Request {
	return Request{Command: CmdImportHistory}
}

// DashboardQuery selects the KPI range. Empty fields are omitted so the
// backend falls back to the whole active import.
type DashboardQuery struct {
	DateDebut   string
	DateFin     string
	Granularity domain.Granularity
}

func DashboardKpiRequest(q DashboardQuery) Request {
	args := invoke.Args{}
	if q.DateDebut != "" {
		args["dateDebut"] = q.DateDebut
	}
	if q.DateFin != "" {
		args["dateFin"] = q.DateFin
	}
	if q.Granularity != "" {
		args["granularity"] = q.Granularity
	}
	return Request{Command: CmdDashboardKpi, Args: args}
}

func StockOverviewRequest(f domain.StockFilters) Request {
	return Request{Command: CmdStockOverview, Args: invoke.Args{"filters": f}}
}

func StockByTechnicianRequest(f domain.StockFilters) Request {
	return Request{Command: CmdStockByTechnician, Args: invoke.Args{"filters": f}}
}

func StockByGroupRequest(f domain.StockFilters) Request {
	return Request{Command: CmdStockByGroup, Args: invoke.Args{"filters": f}}
}

func TicketDetailRequest(id int64) Request {
	return Request{Command: CmdTicketDetail, Args: invoke.Args{"ticketId": id}}
}

func TechnicianTicketsRequest(technician string, f domain.StockFilters) Request {
	args := invoke.Args{"technician": technician}
	if !f.IsZero() {
		args["filters"] = f
	}
	return Request{Command: CmdTechnicianTickets, Args: args}
}

func BilanTemporelRequest(r domain.BilanRequest) Request {
	return Request{Command: CmdBilanTemporel, Args: invoke.Args{"request": r}}
}

func CategoriesTreeRequest(r domain.CategoriesRequest) Request {
	return Request{Command: CmdCategoriesTree, Args: invoke.Args{"request": r}}
}

func TextAnalysisRequest(r domain.TextAnalysisRequest) Request {
	return Request{Command: CmdTextAnalysis, Args: invoke.Args{"request": r}}
}

// ClusterQuery selects a clustering run. NClusters 0 lets the backend pick
// the count by silhouette score.
type ClusterQuery struct {
	Corpus      string
	NClusters   int
	VivantsOnly bool
}

func (q ClusterQuery) args() invoke.Args {
	corpus := q.Corpus
	if corpus == "" {
		corpus = DefaultClusterCorpus
	}
	return invoke.Args{"corpus": corpus, "nClusters": q.NClusters, "vivantsOnly": q.VivantsOnly}
}

func ClustersRequest(q ClusterQuery) Request {
	return Request{Command: CmdClusters, Args: q.args()}
}

func ClusterDetailRequest(q ClusterQuery, clusterID int) Request {
	args := q.args()
	args["clusterId"] = clusterID
	return Request{Command: CmdClusterDetail, Args: args}
}

func DetectAnomaliesRequest(vivantsOnly bool) Request {
	return Request{Command: CmdDetectAnomalies, Args: invoke.Args{"vivantsOnly": vivantsOnly}}
}

func DetectDuplicatesRequest(vivantsOnly bool) Request {
	return Request{Command: CmdDetectDuplicates, Args: invoke.Args{"vivantsOnly": vivantsOnly}}
}

func CooccurrenceRequest(r domain.CooccurrenceRequest) Request {
	return Request{Command: CmdCooccurrence, Args: invoke.Args{"request": r}}
}

func ExportStockRequest(path string) Request {
	return Request{Command: CmdExportStock, Args: invoke.Args{"path": path}}
}

func ExportPlanActionRequest(path, technician string) Request {
	return Request{Command: CmdExportPlanAction, Args: invoke.Args{"path": path, "technician": technician}}
}

func ExportBilanRequest(path string, r domain.BilanRequest) Request {
	return Request{Command: CmdExportBilan, Args: invoke.Args{"path": path, "request": r}}
}

func ExportAllPlansRequest(path string) Request {
	return Request{Command: CmdExportAllPlans, Args: invoke.Args{"path": path}}
}

func GetConfigRequest() Request {
	return Request{Command: CmdGetConfig}
}

func UpdateConfigRequest(cfg domain.AppConfig) Request {
	return Request{Command: CmdUpdateConfig, Args: invoke.Args{"config": cfg}}
}

func CompareImportsRequest(a, b int64) Request {
	return Request{Command: CmdCompareImports, Args: invoke.Args{"importIdA": a, "importIdB": b}}
}

func TimelineDataRequest() Request {
	return Request{Command: CmdTimelineData}
}

func TechnicianTimelineRequest(technician string) Request {
	return Request{Command: CmdTechnicianTimeline, Args: invoke.Args{"technicien": technician}}
}

func SearchTicketsRequest(query string, limit int) Request {
	if limit <= 0 {
		limit = DefaultSearchLimit
	}
	return Request{Command: CmdSearchTickets, Args: invoke.Args{"query": query, "limit": limit}}
}

func PredictWorkloadRequest(periodsAhead int) Request {
	if periodsAhead <= 0 {
		periodsAhead = DefaultPredictionHorizon
	}
	return Request{Command: CmdPredictWorkload, Args: invoke.Args{"periodsAhead": periodsAhead}}
}
