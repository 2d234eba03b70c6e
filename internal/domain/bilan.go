package domain

type BilanRequest struct {
	Period   Granularity `json:"period"`
	DateFrom string      `json:"dateFrom"`
	DateTo   string      `json:"dateTo"`
	GroupBy  *string     `json:"groupBy,omitempty"`
}

type BilanTemporel struct {
	Periodes    []PeriodData       `json:"periodes"`
	Totaux      BilanTotaux        `json:"totaux"`
	Ventilation []BilanVentilation `json:"ventilation"`
}

type PeriodData struct {
	PeriodKey   string `json:"periodKey"`
	PeriodLabel string `json:"periodLabel"`
	Entrees     int    `json:"entrees"`
	Sorties     int    `json:"sorties"`
	Delta       int    `json:"delta"`
	StockCumule *int   `json:"stockCumule"`
}

type BilanTotaux struct {
	TotalEntrees             int     `json:"totalEntrees"`
	TotalSorties             int     `json:"totalSorties"`
	DeltaGlobal              int     `json:"deltaGlobal"`
	MoyenneEntreesParPeriode float64 `json:"moyenneEntreesParPeriode"`
	MoyenneSortiesParPeriode float64 `json:"moyenneSortiesParPeriode"`
}

type BilanVentilation struct {
	Label   string `json:"label"`
	Entrees int    `json:"entrees"`
	Sorties int    `json:"sorties"`
	Delta   int    `json:"delta"`
}

func (b BilanTemporel) Validate() error {
	p := newProblems("BilanTemporel")
	entrees, sorties := 0, 0
	for _, pd := range b.Periodes {
		if pd.Entrees-pd.Sorties != pd.Delta {
			p.addf("period %s delta=%d, want %d", pd.PeriodKey, pd.Delta, pd.Entrees-pd.Sorties)
		}
		entrees += pd.Entrees
		sorties += pd.Sorties
	}
	if len(b.Periodes) > 0 && (entrees != b.Totaux.TotalEntrees || sorties != b.Totaux.TotalSorties) {
		p.addf("totals %d/%d do not match periods %d/%d", b.Totaux.TotalEntrees, b.Totaux.TotalSorties, entrees, sorties)
	}
	return p.err()
}

type CategoriesRequest struct {
	Scope  string  `json:"scope"`
	Source *string `json:"source,omitempty"`
}

type CategoryTree struct {
	Source       string         `json:"source"`
	Nodes        []CategoryNode `json:"nodes"`
	TotalTickets int            `json:"totalTickets"`
}

type CategoryNode struct {
	Name       string         `json:"name"`
	FullPath   string         `json:"fullPath"`
	Level      int            `json:"level"`
	Count      int            `json:"count"`
	Percentage float64        `json:"percentage"`
	Incidents  int            `json:"incidents"`
	Demandes   int            `json:"demandes"`
	AgeMoyen   float64        `json:"ageMoyen"`
	Children   []CategoryNode `json:"children"`
}

func (t CategoryTree) Validate() error {
	p := newProblems("CategoryTree")
	sum := 0
	for _, n := range t.Nodes {
		sum += n.Count
		checkNode(p, n)
	}
	if sum > t.TotalTickets {
		p.addf("root counts sum to %d, exceeds totalTickets=%d", sum, t.TotalTickets)
	}
	return p.err()
}

func checkNode(p *problems, n CategoryNode) {
	sum := 0
	for _, c := range n.Children {
		if c.Level <= n.Level {
			p.addf("node %q level %d not below parent level %d", c.FullPath, c.Level, n.Level)
		}
		sum += c.Count
		checkNode(p, c)
	}
	if sum > n.Count {
		p.addf("children of %q sum to %d, exceeds %d", n.FullPath, sum, n.Count)
	}
}
