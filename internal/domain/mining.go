package domain

type TextAnalysisRequest struct {
	Corpus          string  `json:"corpus"`
	Scope           string  `json:"scope"`
	GroupBy         *string `json:"groupBy,omitempty"`
	TopN            *int    `json:"topN,omitempty"`
	IncludeResolved *bool   `json:"includeResolved,omitempty"`
}

type KeywordFrequency struct {
	Word         string  `json:"word"`
	Count        int     `json:"count"`
	TfidfScore   float64 `json:"tfidfScore"`
	DocFrequency int     `json:"docFrequency"`
}

type GroupKeywords struct {
	GroupName   string             `json:"groupName"`
	Keywords    []KeywordFrequency `json:"keywords"`
	TicketCount int                `json:"ticketCount"`
}

type CorpusStats struct {
	TotalDocuments  int     `json:"totalDocuments"`
	TotalTokens     int     `json:"totalTokens"`
	VocabularySize  int     `json:"vocabularySize"`
	AvgTokensPerDoc float64 `json:"avgTokensPerDoc"`
}

type TicketRef struct {
	ID    int64  `json:"id"`
	Titre string `json:"titre"`
}

// TicketMap indexes keywords to the tickets containing them, for drill-down.
type TicketMap map[string][]TicketRef

type TextAnalysisResult struct {
	Keywords    []KeywordFrequency `json:"keywords"`
	ByGroup     []GroupKeywords    `json:"byGroup"`
	CorpusStats CorpusStats        `json:"corpusStats"`
	TicketMap   TicketMap          `json:"ticketMap"`
}

func (r TextAnalysisResult) Validate() error {
	p := newProblems("TextAnalysisResult")
	checkKeywords(p, "keywords", r.Keywords)
	for _, g := range r.ByGroup {
		checkKeywords(p, "group "+g.GroupName, g.Keywords)
	}
	if r.CorpusStats.TotalDocuments < 0 || r.CorpusStats.TotalTokens < 0 || r.CorpusStats.VocabularySize < 0 {
		p.addf("corpusStats has negative counts")
	}
	return p.err()
}

func checkKeywords(p *problems, scope string, kws []KeywordFrequency) {
	for _, k := range kws {
		if !isFinite(k.TfidfScore) || k.TfidfScore < 0 {
			p.addf("%s: word %q tfidfScore=%v must be a non-negative number", scope, k.Word, k.TfidfScore)
		}
		if k.Count < 0 || k.DocFrequency < 0 {
			p.addf("%s: word %q has negative counts", scope, k.Word)
		}
	}
}

type ClusterInfo struct {
	ID                int      `json:"id"`
	Label             string   `json:"label"`
	TopKeywords       []string `json:"topKeywords"`
	TicketCount       int      `json:"ticketCount"`
	TicketIDs         []int64  `json:"ticketIds"`
	AvgResolutionDays *float64 `json:"avgResolutionDays"`
}

type ClusterResult struct {
	Clusters        []ClusterInfo `json:"clusters"`
	SilhouetteScore float64       `json:"silhouetteScore"`
	TotalTickets    int           `json:"totalTickets"`
}

func (r ClusterResult) Validate() error {
	p := newProblems("ClusterResult")
	if !isFinite(r.SilhouetteScore) || r.SilhouetteScore < -1 || r.SilhouetteScore > 1 {
		p.addf("silhouetteScore=%v outside [-1,1]", r.SilhouetteScore)
	}
	sum := 0
	for _, c := range r.Clusters {
		if c.TicketCount < 0 {
			p.addf("cluster %d has negative ticketCount", c.ID)
		}
		sum += c.TicketCount
	}
	if sum > r.TotalTickets {
		p.addf("cluster ticket counts sum to %d, exceeds totalTickets=%d", sum, r.TotalTickets)
	}
	return p.err()
}

type LabelCount struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

type PeriodCount struct {
	Periode string `json:"periode"`
	Count   int    `json:"count"`
}

type ClusterTicket struct {
	ID              int64   `json:"id"`
	Titre           string  `json:"titre"`
	Statut          string  `json:"statut"`
	Technicien      *string `json:"technicien"`
	AncienneteJours *int    `json:"ancienneteJours"`
	NbSuivis        *int    `json:"nbSuivis"`
}

type ClusterDetail struct {
	ClusterID              int             `json:"clusterId"`
	Tickets                []ClusterTicket `json:"tickets"`
	ParTechnicien          []LabelCount    `json:"parTechnicien"`
	ParGroupe              []LabelCount    `json:"parGroupe"`
	EvolutionMensuelle     []PeriodCount   `json:"evolutionMensuelle"`
	MttrAvg                *float64        `json:"mttrAvg"`
	MttrMedian             *float64        `json:"mttrMedian"`
	GlobalMttrAvg          *float64        `json:"globalMttrAvg"`
	RatioIncidentsDemandes float64         `json:"ratioIncidentsDemandes"`
	NbVivants              int             `json:"nbVivants"`
	AvgSuivis              float64         `json:"avgSuivis"`
	AncienneteAvgVivants   *float64        `json:"ancienneteAvgVivants"`
	StockVivants           int             `json:"stockVivants"`
	StockSansSuivi         int             `json:"stockSansSuivi"`
	StockPlus90j           int             `json:"stockPlus90j"`
	StockInactifs14j       int             `json:"stockInactifs14j"`
}

// Anomaly severities emitted by the backend.
const (
	SeverityHigh   = "high"
	SeverityMedium = "medium"
)

type AnomalyAlert struct {
	TicketID      int64   `json:"ticketId"`
	Titre         string  `json:"titre"`
	AnomalyType   string  `json:"anomalyType"`
	Severity      string  `json:"severity"`
	Description   string  `json:"description"`
	MetricValue   float64 `json:"metricValue"`
	ExpectedRange string  `json:"expectedRange"`
}

type AnomalyAlerts []AnomalyAlert

func (l AnomalyAlerts) Validate() error {
	p := newProblems("anomaly alerts")
	for _, a := range l {
		if a.Severity == "" {
			p.addf("ticket %d anomaly %q has no severity", a.TicketID, a.AnomalyType)
		}
		if !isFinite(a.MetricValue) {
			p.addf("ticket %d metricValue is not a number", a.TicketID)
		}
	}
	return p.err()
}

type DuplicatePair struct {
	TicketAID    int64   `json:"ticketAId"`
	TicketATitre string  `json:"ticketATitre"`
	TicketBID    int64   `json:"ticketBId"`
	TicketBTitre string  `json:"ticketBTitre"`
	Similarity   float64 `json:"similarity"`
	Groupe       string  `json:"groupe"`
}

type DuplicatePairs []DuplicatePair

func (l DuplicatePairs) Validate() error {
	p := newProblems("duplicate pairs")
	for _, d := range l {
		if !isFinite(d.Similarity) || d.Similarity < 0 || d.Similarity > 1 {
			p.addf("pair %d/%d similarity=%v outside [0,1]", d.TicketAID, d.TicketBID, d.Similarity)
		}
		if d.TicketAID == d.TicketBID {
			p.addf("ticket %d paired with itself", d.TicketAID)
		}
	}
	return p.err()
}

type CooccurrenceRequest struct {
	TopNNodes       *int  `json:"topNNodes,omitempty"`
	MaxEdges        *int  `json:"maxEdges,omitempty"`
	IncludeResolved *bool `json:"includeResolved,omitempty"`
}

type CooccurrenceNode struct {
	ID           string  `json:"id"`
	TfidfScore   float64 `json:"tfidfScore"`
	DocFrequency int     `json:"docFrequency"`
}

type CooccurrenceEdge struct {
	Source string  `json:"source"`
	Target string  `json:"target"`
	Weight float64 `json:"weight"`
}

type CooccurrenceResult struct {
	Nodes     []CooccurrenceNode `json:"nodes"`
	Edges     []CooccurrenceEdge `json:"edges"`
	TicketMap TicketMap          `json:"ticketMap"`
}

func (r CooccurrenceResult) Validate() error {
	p := newProblems("CooccurrenceResult")
	ids := make(map[string]bool, len(r.Nodes))
	for _, n := range r.Nodes {
		ids[n.ID] = true
		if !isFinite(n.TfidfScore) || n.TfidfScore < 0 {
			p.addf("node %q tfidfScore=%v must be non-negative", n.ID, n.TfidfScore)
		}
	}
	for _, e := range r.Edges {
		if !ids[e.Source] || !ids[e.Target] {
			p.addf("edge %s-%s references an unknown node", e.Source, e.Target)
		}
		if e.Weight < 0 {
			p.addf("edge %s-%s has negative weight", e.Source, e.Target)
		}
	}
	return p.err()
}
