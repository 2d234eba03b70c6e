package display

import (
	"math"
	"reflect"
	"strings"
	"testing"
	"unicode"

	"glpiboard/internal/domain"
)

func techs() []domain.TechnicianStats {
	return []domain.TechnicianStats{
		{Technicien: "Support > Martin", Total: 5, Incidents: 5},
		{Technicien: "Infra > Bernard", Total: 12, Demandes: 12, AgeMoyenJours: 40},
		{Technicien: "Support > Alice", Total: 12, Incidents: 2, Demandes: 10, AgeMoyenJours: 3},
		{Technicien: "Durand", Total: 0},
	}
}

func names(rows []domain.TechnicianStats) []string {
	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = r.Technicien
	}
	return out
}

func TestSortTechnicians(t *testing.T) {
	tests := []struct {
		name string
		sort Sort
		want []string
	}{
		{"default total desc keeps ties in input order", DefaultTechnicianSort,
			[]string{"Infra > Bernard", "Support > Alice", "Support > Martin", "Durand"}},
		{"unknown column falls back", Sort{Column: "nope"},
			[]string{"Infra > Bernard", "Support > Alice", "Support > Martin", "Durand"}},
		{"name asc", Sort{Column: ColTechnicien},
			[]string{"Durand", "Infra > Bernard", "Support > Alice", "Support > Martin"}},
		{"age asc", Sort{Column: ColAgeMoyenJours},
			[]string{"Support > Martin", "Durand", "Support > Alice", "Infra > Bernard"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			in := techs()
			before := names(in)
			got := SortTechnicians(in, tc.sort)
			if !reflect.DeepEqual(names(got), tc.want) {
				t.Fatalf("order = %v, want %v", names(got), tc.want)
			}
			if !reflect.DeepEqual(names(in), before) {
				t.Fatalf("input mutated: %v", names(in))
			}
			again := SortTechnicians(got, tc.sort)
			if !reflect.DeepEqual(names(again), names(got)) {
				t.Fatalf("not idempotent: %v then %v", names(got), names(again))
			}
		})
	}
}

func TestSortTechniciansNaNAgeSortsLowest(t *testing.T) {
	in := []domain.TechnicianStats{
		{Technicien: "A", AgeMoyenJours: 12},
		{Technicien: "B", AgeMoyenJours: math.NaN()},
		{Technicien: "C", AgeMoyenJours: 3},
		{Technicien: "D", AgeMoyenJours: math.NaN()},
		{Technicien: "E", AgeMoyenJours: 30},
	}
	tests := []struct {
		desc bool
		want []string
	}{
		{true, []string{"E", "A", "C", "B", "D"}},
		{false, []string{"B", "D", "C", "A", "E"}},
	}
	for _, tc := range tests {
		s := Sort{Column: ColAgeMoyenJours, Desc: tc.desc}
		got := SortTechnicians(in, s)
		if !reflect.DeepEqual(names(got), tc.want) {
			t.Fatalf("desc=%v order = %v, want %v", tc.desc, names(got), tc.want)
		}
		if again := SortTechnicians(got, s); !reflect.DeepEqual(names(again), tc.want) {
			t.Fatalf("desc=%v not idempotent: %v", tc.desc, names(again))
		}
	}
}

func TestFilterTechnicians(t *testing.T) {
	inc, dem, st := TypeIncident, TypeDemande, "En cours"
	tests := []struct {
		name    string
		filters domain.StockFilters
		want    []string
	}{
		{"no filter", domain.StockFilters{}, names(techs())},
		{"incidents", domain.StockFilters{TypeTicket: &inc}, []string{"Support > Martin", "Support > Alice"}},
		{"demandes", domain.StockFilters{TypeTicket: &dem}, []string{"Infra > Bernard", "Support > Alice"}},
		{"statut drops empty rows", domain.StockFilters{Statut: &st},
			[]string{"Support > Martin", "Infra > Bernard", "Support > Alice"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := names(FilterTechnicians(techs(), tc.filters))
			if !reflect.DeepEqual(got, tc.want) {
				t.Fatalf("got %v, want %v", got, tc.want)
			}
		})
	}
}

func TestGroupOptions(t *testing.T) {
	got := GroupOptions(techs())
	want := []string{"Durand", "Infra", "Support"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("GroupOptions = %v, want %v", got, want)
	}
}

func intp(i int) *int { return &i }

func TestSortTicketsDefaultOldestFirst(t *testing.T) {
	rows := []domain.TicketSummary{
		{ID: 1, AncienneteJours: intp(3)},
		{ID: 2},
		{ID: 3, AncienneteJours: intp(90)},
		{ID: 4, AncienneteJours: intp(3)},
	}
	got := SortTickets(rows, DefaultTicketSort)
	var ids []int64
	for _, r := range got {
		ids = append(ids, r.ID)
	}
	if !reflect.DeepEqual(ids, []int64{3, 1, 4, 2}) {
		t.Fatalf("ids = %v, want [3 1 4 2]", ids)
	}
}

func TestSortDuplicatesNonIncreasing(t *testing.T) {
	pairs := []domain.DuplicatePair{
		{TicketAID: 1, TicketBID: 2, Similarity: 0.86},
		{TicketAID: 3, TicketBID: 4, Similarity: 0.97},
		{TicketAID: 5, TicketBID: 6, Similarity: 0.86},
		{TicketAID: 7, TicketBID: 8, Similarity: 0.91},
	}
	got := SortDuplicates(pairs)
	for i := 1; i < len(got); i++ {
		if got[i].Similarity > got[i-1].Similarity {
			t.Fatalf("similarity increases at %d: %v", i, got)
		}
	}
	if got[2].TicketAID != 1 || got[3].TicketAID != 5 {
		t.Fatalf("ties reordered: %v", got)
	}
	if pairs[0].Similarity != 0.86 {
		t.Fatalf("input mutated")
	}
}

func TestSortAnomalies(t *testing.T) {
	alerts := []domain.AnomalyAlert{
		{TicketID: 1, Severity: "low"},
		{TicketID: 2, Severity: "medium"},
		{TicketID: 3, Severity: "HIGH"},
		{TicketID: 4, Severity: "high"},
	}
	var ids []int64
	for _, a := range SortAnomalies(alerts) {
		ids = append(ids, a.TicketID)
	}
	if !reflect.DeepEqual(ids, []int64{3, 4, 2, 1}) {
		t.Fatalf("ids = %v, want [3 4 2 1]", ids)
	}
}

func TestTopTruncation(t *testing.T) {
	var dims []domain.MttrParDimension
	for i := 0; i < 30; i++ {
		dims = append(dims, domain.MttrParDimension{Label: string(rune('A' + i)), Count: i})
	}
	top := TopMttrByCount(dims, MttrComparatifSize)
	if len(top) != 20 || top[0].Count != 29 || top[19].Count != 10 {
		t.Fatalf("top = %d rows, first %d last %d", len(top), top[0].Count, top[len(top)-1].Count)
	}

	items := []domain.VentilationItem{{Label: "a", Total: 1}, {Label: "b", Total: 3}}
	if got := TopVentilation(items, TypologieSize); len(got) != 2 || got[0].Label != "b" {
		t.Fatalf("TopVentilation = %v", got)
	}

	kws := []domain.KeywordFrequency{{Word: "vpn"}, {Word: "imprimante"}, {Word: "mot de passe"}}
	if got := TopKeywords(kws, 2); len(got) != 2 || got[1].Word != "imprimante" {
		t.Fatalf("TopKeywords = %v", got)
	}
	if got := TopKeywords(kws, 10); len(got) != 3 {
		t.Fatalf("TopKeywords over length = %v", got)
	}
}

func TestPaginate(t *testing.T) {
	rows := []int{1, 2, 3, 4, 5}
	tests := []struct {
		page, size int
		want       []int
		wantPage   int
		wantPages  int
	}{
		{1, 2, []int{1, 2}, 1, 3},
		{3, 2, []int{5}, 3, 3},
		{9, 2, []int{5}, 3, 3},
		{0, 2, []int{1, 2}, 1, 3},
		{1, 0, []int{1, 2, 3, 4, 5}, 1, 1},
	}
	for _, tc := range tests {
		p := Paginate(rows, tc.page, tc.size)
		if !reflect.DeepEqual(p.Rows, tc.want) || p.Page != tc.wantPage || p.TotalPages != tc.wantPages {
			t.Fatalf("Paginate(%d,%d) = %+v", tc.page, tc.size, p)
		}
	}
	if p := Paginate([]int(nil), 1, 10); len(p.Rows) != 0 || p.TotalPages != 1 {
		t.Fatalf("empty Paginate = %+v", p)
	}
}

func TestClusterLabel(t *testing.T) {
	c := domain.ClusterInfo{TopKeywords: []string{"vpn", "connexion", "accès", "réseau"}}
	if got := ClusterLabel(c); got != "vpn · connexion · accès" {
		t.Fatalf("ClusterLabel = %q", got)
	}
	c.Label = "Accès distant"
	if got := ClusterLabel(c); got != "Accès distant" {
		t.Fatalf("ClusterLabel = %q", got)
	}
}

func TestDrillDown(t *testing.T) {
	m := domain.TicketMap{"VPN": {{ID: 1, Titre: "VPN KO"}}}
	if got := DrillDown(m, "VPN"); len(got) != 1 {
		t.Fatalf("exact = %v", got)
	}
	if got := DrillDown(m, "vpn"); len(got) != 1 || got[0].ID != 1 {
		t.Fatalf("case-insensitive = %v", got)
	}
	if got := DrillDown(m, "wifi"); got != nil {
		t.Fatalf("missing = %v", got)
	}
}

func TestFormatting(t *testing.T) {
	tests := []struct {
		got, want string
	}{
		{FormatSize(512), "512 o"},
		{FormatSize(2048), "2.0 Ko"},
		{FormatSize(3 * 1024 * 1024), "3.00 Mo"},
		{FormatDuration(999), "999 ms"},
		{FormatDuration(1500), "1.5 s"},
		{FormatDate("2024-03-05"), "05/03/2024"},
		{FormatDate("2024-03-05T10:11:12Z"), "05/03/2024"},
		{FormatDate("pas une date"), "pas une date"},
		{FormatDays(nil), "—"},
	}
	for _, tc := range tests {
		if tc.got != tc.want {
			t.Errorf("got %q, want %q", tc.got, tc.want)
		}
	}
}

func TestFormatNumberFrench(t *testing.T) {
	got := FormatNumber(1234567)
	var digits strings.Builder
	seps := 0
	for _, r := range got {
		if unicode.IsDigit(r) {
			digits.WriteRune(r)
		} else {
			seps++
		}
	}
	if digits.String() != "1234567" || seps != 2 {
		t.Fatalf("FormatNumber = %q, want two group separators", got)
	}
	if strings.Contains(got, ",") {
		t.Fatalf("FormatNumber = %q uses a comma", got)
	}
	if d := FormatDecimal(12.5, 1); !strings.Contains(d, ",") {
		t.Fatalf("FormatDecimal = %q, want decimal comma", d)
	}
}

func TestTrendPercent(t *testing.T) {
	if _, ok := TrendPercent(5, 0); ok {
		t.Fatalf("TrendPercent with zero baseline ok = true")
	}
	if p, ok := TrendPercent(15, 10); !ok || p != 50 {
		t.Fatalf("TrendPercent = %v, %v", p, ok)
	}
}

func TestValidTicketColumn(t *testing.T) {
	for _, col := range TicketColumns() {
		if !ValidTicketColumn(col) {
			t.Errorf("ValidTicketColumn(%q) = false", col)
		}
	}
	if ValidTicketColumn("priorite") {
		t.Error("priorite is not a ticket column")
	}
}
