package domain

type StockOverview struct {
	TotalVivants   int             `json:"totalVivants"`
	TotalTermines  int             `json:"totalTermines"`
	ParStatut      []StatutCount   `json:"parStatut"`
	AgeMoyenJours  float64         `json:"ageMoyenJours"`
	AgeMedianJours float64         `json:"ageMedianJours"`
	ParType        TypeBreakdown   `json:"parType"`
	ParAnciennete  []AgeRangeCount `json:"parAnciennete"`
	Inactifs14j    int             `json:"inactifs14j"`
	Inactifs30j    int             `json:"inactifs30j"`
}

func (o StockOverview) Validate() error {
	p := newProblems("StockOverview")
	vivants := 0
	for _, s := range o.ParStatut {
		if s.Count < 0 {
			p.addf("statut %q has negative count", s.Statut)
		}
		if s.EstVivant {
			vivants += s.Count
		}
	}
	if len(o.ParStatut) > 0 && vivants > o.TotalVivants {
		p.addf("open statut counts sum to %d, exceeds totalVivants=%d", vivants, o.TotalVivants)
	}
	if o.Inactifs30j > o.Inactifs14j {
		p.addf("inactifs30j=%d exceeds inactifs14j=%d", o.Inactifs30j, o.Inactifs14j)
	}
	return p.err()
}

type StatutCount struct {
	Statut    string `json:"statut"`
	Count     int    `json:"count"`
	EstVivant bool   `json:"estVivant"`
}

type TypeBreakdown struct {
	Incidents int `json:"incidents"`
	Demandes  int `json:"demandes"`
}

type AgeRangeCount struct {
	Label         string  `json:"label"`
	ThresholdDays int     `json:"thresholdDays"`
	Count         int     `json:"count"`
	Percentage    float64 `json:"percentage"`
}

type TechnicianStats struct {
	Technicien    string  `json:"technicien"`
	Total         int     `json:"total"`
	EnCours       int     `json:"enCours"`
	EnAttente     int     `json:"enAttente"`
	Planifie      int     `json:"planifie"`
	Nouveau       int     `json:"nouveau"`
	Incidents     int     `json:"incidents"`
	Demandes      int     `json:"demandes"`
	AgeMoyenJours float64 `json:"ageMoyenJours"`
	Inactifs14j   int     `json:"inactifs14j"`
	EcartSeuil    int     `json:"ecartSeuil"`
	CouleurSeuil  string  `json:"couleurSeuil"`
}

type GroupStock struct {
	Groupe        string  `json:"groupe"`
	GroupeNiveau1 string  `json:"groupeNiveau1"`
	GroupeNiveau2 *string `json:"groupeNiveau2"`
	Total         int     `json:"total"`
	EnCours       int     `json:"enCours"`
	EnAttente     int     `json:"enAttente"`
	Incidents     int     `json:"incidents"`
	Demandes      int     `json:"demandes"`
	NbTechniciens int     `json:"nbTechniciens"`
	AgeMoyenJours float64 `json:"ageMoyenJours"`
}

type TicketSummary struct {
	ID                   int64   `json:"id"`
	Titre                string  `json:"titre"`
	Statut               string  `json:"statut"`
	TypeTicket           string  `json:"typeTicket"`
	TechnicienPrincipal  *string `json:"technicienPrincipal"`
	GroupePrincipal      *string `json:"groupePrincipal"`
	DateOuverture        string  `json:"dateOuverture"`
	DerniereModification *string `json:"derniereModification"`
	AncienneteJours      *int    `json:"ancienneteJours"`
	InactiviteJours      *int    `json:"inactiviteJours"`
	NombreSuivis         *int    `json:"nombreSuivis"`
	ActionRecommandee    *string `json:"actionRecommandee"`
	MotifClassification  *string `json:"motifClassification"`
}

type TicketDetail struct {
	ID                   int64    `json:"id"`
	Titre                string   `json:"titre"`
	Statut               string   `json:"statut"`
	TypeTicket           string   `json:"typeTicket"`
	Priorite             *int     `json:"priorite"`
	Urgence              *int     `json:"urgence"`
	Demandeur            string   `json:"demandeur"`
	Techniciens          []string `json:"techniciens"`
	Groupes              []string `json:"groupes"`
	DateOuverture        string   `json:"dateOuverture"`
	DerniereModification *string  `json:"derniereModification"`
	NombreSuivis         *int     `json:"nombreSuivis"`
	SuivisDescription    string   `json:"suivisDescription"`
	Solution             string   `json:"solution"`
	TachesDescription    string   `json:"tachesDescription"`
	AncienneteJours      *int     `json:"ancienneteJours"`
	InactiviteJours      *int     `json:"inactiviteJours"`
	ActionRecommandee    *string  `json:"actionRecommandee"`
	MotifClassification  *string  `json:"motifClassification"`
	Categorie            *string  `json:"categorie"`
}

// StockFilters narrows stock queries. Nil fields are sent as null and mean
// "no filter".
type StockFilters struct {
	Statut        *string `json:"statut"`
	TypeTicket    *string `json:"typeTicket"`
	Groupe        *string `json:"groupe"`
	MinAnciennete *int    `json:"minAnciennete,omitempty"`
	MaxAnciennete *int    `json:"maxAnciennete,omitempty"`
}

func (f StockFilters) IsZero() bool {
	return f.Statut == nil && f.TypeTicket == nil && f.Groupe == nil &&
		f.MinAnciennete == nil && f.MaxAnciennete == nil
}

type TicketSearchResult struct {
	ID                int64   `json:"id"`
	Titre             string  `json:"titre"`
	Statut            string  `json:"statut"`
	Technicien        *string `json:"technicien"`
	TitreHighlight    string  `json:"titreHighlight"`
	SolutionHighlight *string `json:"solutionHighlight"`
	Rank              float64 `json:"rank"`
}

type ForecastPoint struct {
	Period         string  `json:"period"`
	PredictedValue float64 `json:"predictedValue"`
	LowerBound     float64 `json:"lowerBound"`
	UpperBound     float64 `json:"upperBound"`
}

type PredictionResult struct {
	Forecasts     []ForecastPoint `json:"forecasts"`
	ModelInfo     string          `json:"modelInfo"`
	Mae           float64         `json:"mae"`
	HistoryLength int             `json:"historyLength"`
}

func (r PredictionResult) Validate() error {
	p := newProblems("PredictionResult")
	for _, f := range r.Forecasts {
		if f.LowerBound > f.UpperBound {
			p.addf("forecast %s lowerBound %.2f above upperBound %.2f", f.Period, f.LowerBound, f.UpperBound)
		}
	}
	if r.Mae < 0 {
		p.addf("mae=%v is negative", r.Mae)
	}
	return p.err()
}
