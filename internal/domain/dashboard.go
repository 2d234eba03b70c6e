package domain

type DashboardKpi struct {
	Meta          DashboardMeta    `json:"meta"`
	PriseEnCharge PriseEnChargeKpi `json:"priseEnCharge"`
	Resolution    ResolutionKpi    `json:"resolution"`
	TauxN1        TauxN1Kpi        `json:"tauxN1"`
	Volumes       VolumetrieKpi    `json:"volumes"`
	Typologie     TypologieKpi     `json:"typologie"`
}

type DashboardMeta struct {
	TotalTickets        int       `json:"totalTickets"`
	TotalVivants        int       `json:"totalVivants"`
	TotalTermines       int       `json:"totalTermines"`
	PlageDates          [2]string `json:"plageDates"`
	NbTechniciensActifs int       `json:"nbTechniciensActifs"`
	NbGroupes           int       `json:"nbGroupes"`
	HasCategorie        bool      `json:"hasCategorie"`
	CalculDurationMs    int64     `json:"calculDurationMs"`
}

type PriseEnChargeKpi struct {
	Methode         string         `json:"methode"`
	Confiance       string         `json:"confiance"`
	DelaiMoyenJours *float64       `json:"delaiMoyenJours"`
	MedianeJours    *float64       `json:"medianeJours"`
	P90Jours        *float64       `json:"p90Jours"`
	Distribution    []TrancheDelai `json:"distribution"`
	Avertissement   *string        `json:"avertissement"`
}

type ResolutionKpi struct {
	MttrGlobalJours      float64            `json:"mttrGlobalJours"`
	MedianeJours         float64            `json:"medianeJours"`
	P90Jours             float64            `json:"p90Jours"`
	EcartTypeJours       float64            `json:"ecartTypeJours"`
	ParType              []MttrParDimension `json:"parType"`
	ParPriorite          []MttrParDimension `json:"parPriorite"`
	ParGroupe            []MttrParDimension `json:"parGroupe"`
	ParTechnicien        []MttrParDimension `json:"parTechnicien"`
	DistributionTranches []TrancheDelai     `json:"distributionTranches"`
	TrendMensuel         []MttrTrend        `json:"trendMensuel"`
	Echantillon          int                `json:"echantillon"`
}

type TauxN1Kpi struct {
	TotalTermines  int               `json:"totalTermines"`
	N1Strict       TauxDetail        `json:"n1Strict"`
	N1Elargi       TauxDetail        `json:"n1Elargi"`
	MultiNiveaux   TauxDetail        `json:"multiNiveaux"`
	SansTechnicien TauxDetail        `json:"sansTechnicien"`
	ParGroupe      []TauxN1ParGroupe `json:"parGroupe"`
	TrendMensuel   []TauxN1Trend     `json:"trendMensuel"`
	ObjectifItil   float64           `json:"objectifItil"`
}

type VolumetrieKpi struct {
	ParMois                  []VolumePeriode `json:"parMois"`
	TotalCrees               int             `json:"totalCrees"`
	TotalResolus             int             `json:"totalResolus"`
	RatioSortieEntree        float64         `json:"ratioSortieEntree"`
	MoyenneMensuelleCreation float64         `json:"moyenneMensuelleCreation"`
}

type TypologieKpi struct {
	ParType             []VentilationItem `json:"parType"`
	ParPriorite         []VentilationItem `json:"parPriorite"`
	ParGroupe           []VentilationItem `json:"parGroupe"`
	ParCategorie        []VentilationItem `json:"parCategorie"`
	CategorieDisponible bool              `json:"categorieDisponible"`
}

type TrancheDelai struct {
	Label       string  `json:"label"`
	Count       int     `json:"count"`
	Pourcentage float64 `json:"pourcentage"`
}

type MttrParDimension struct {
	Label            string  `json:"label"`
	MttrJours        float64 `json:"mttrJours"`
	MedianeJours     float64 `json:"medianeJours"`
	Count            int     `json:"count"`
	PourcentageTotal float64 `json:"pourcentageTotal"`
}

type MttrTrend struct {
	Periode      string  `json:"periode"`
	MttrJours    float64 `json:"mttrJours"`
	MedianeJours float64 `json:"medianeJours"`
	NbResolus    int     `json:"nbResolus"`
}

type TauxDetail struct {
	Count       int     `json:"count"`
	Pourcentage float64 `json:"pourcentage"`
}

type TauxN1ParGroupe struct {
	Groupe        string  `json:"groupe"`
	TotalResolus  int     `json:"totalResolus"`
	N1StrictCount int     `json:"n1StrictCount"`
	N1StrictPct   float64 `json:"n1StrictPct"`
	N1ElargiCount int     `json:"n1ElargiCount"`
	N1ElargiPct   float64 `json:"n1ElargiPct"`
}

type TauxN1Trend struct {
	Periode      string  `json:"periode"`
	N1StrictPct  float64 `json:"n1StrictPct"`
	N1ElargiPct  float64 `json:"n1ElargiPct"`
	TotalResolus int     `json:"totalResolus"`
}

type VolumePeriode struct {
	Periode string `json:"periode"`
	Crees   int    `json:"crees"`
	Resolus int    `json:"resolus"`
	Delta   int    `json:"delta"`
}

type VentilationItem struct {
	Label            string  `json:"label"`
	Total            int     `json:"total"`
	Vivants          int     `json:"vivants"`
	Termines         int     `json:"termines"`
	PourcentageTotal float64 `json:"pourcentageTotal"`
}

// Validate checks the aggregate counts and that every percentage breakdown
// of a non-empty sample sums to ~100.
func (k DashboardKpi) Validate() error {
	p := newProblems("DashboardKpi")
	m := k.Meta
	if m.TotalVivants+m.TotalTermines > m.TotalTickets {
		p.addf("meta vivants+termines=%d exceeds totalTickets=%d", m.TotalVivants+m.TotalTermines, m.TotalTickets)
	}
	checkPercentSum(p, "priseEnCharge.distribution", trancheShares(k.PriseEnCharge.Distribution), false)
	checkPercentSum(p, "resolution.distributionTranches", trancheShares(k.Resolution.DistributionTranches), false)
	checkPercentSum(p, "typologie.parType", ventilationShares(k.Typologie.ParType), false)
	checkPercentSum(p, "typologie.parPriorite", ventilationShares(k.Typologie.ParPriorite), false)
	// parGroupe is the backend's top 10, shares of the grand total.
	checkPercentSum(p, "typologie.parGroupe", ventilationShares(k.Typologie.ParGroupe), true)
	checkPercentSum(p, "typologie.parCategorie", ventilationShares(k.Typologie.ParCategorie), false)
	if !isFinite(k.Resolution.MttrGlobalJours) || k.Resolution.MttrGlobalJours < 0 {
		p.addf("resolution.mttrGlobalJours=%v out of range", k.Resolution.MttrGlobalJours)
	}
	return p.err()
}

func trancheShares(items []TrancheDelai) []percentShare {
	out := make([]percentShare, 0, len(items))
	for _, it := range items {
		out = append(out, percentShare{count: it.Count, percent: it.Pourcentage})
	}
	return out
}

func ventilationShares(items []VentilationItem) []percentShare {
	out := make([]percentShare, 0, len(items))
	for _, it := range items {
		out = append(out, percentShare{count: it.Total, percent: it.PourcentageTotal})
	}
	return out
}
