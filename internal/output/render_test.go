package output

import (
	"strings"
	"testing"
	"time"

	"glpiboard/internal/domain"
	"glpiboard/internal/importer"
	"glpiboard/internal/invoke"
	"glpiboard/internal/pages"
)

func assertContains(t *testing.T, got string, wants ...string) {
	t.Helper()
	for _, want := range wants {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q:\n%s", want, got)
		}
	}
}

func TestTableRender(t *testing.T) {
	p, out, _ := newTestPrinter(false)
	tbl := NewTable(p.Out(), "Technicien", "Total")
	tbl.AddRow("Alice", "12")
	tbl.AddRow("Bob", "3")
	if tbl.Len() != 2 {
		t.Fatalf("Len = %d", tbl.Len())
	}
	if err := tbl.Render(); err != nil {
		t.Fatalf("Render: %v", err)
	}
	assertContains(t, out.String(), "Technicien", "Alice", "12", "Bob")
}

func TestDashboardEmpty(t *testing.T) {
	p, out, _ := newTestPrinter(false)
	if err := p.Dashboard(pages.DashboardView{}); err != nil {
		t.Fatal(err)
	}
	assertContains(t, out.String(), "Aucun import actif")
}

func TestDashboardKeepsDataOnError(t *testing.T) {
	p, out, errOut := newTestPrinter(false)
	kpi := domain.DashboardKpi{
		Meta:       domain.DashboardMeta{TotalTickets: 12, TotalVivants: 5, TotalTermines: 7},
		Resolution: domain.ResolutionKpi{ParGroupe: []domain.MttrParDimension{{Label: "_DSI > Support", Count: 7}}},
	}
	v := pages.DashboardView{
		Active: &domain.ImportHistory{ID: 1},
		Kpi:    invoke.State[domain.DashboardKpi]{Data: &kpi, Error: "timeout"},
	}
	if err := p.Dashboard(v); err != nil {
		t.Fatal(err)
	}
	assertContains(t, errOut.String(), "timeout")
	assertContains(t, out.String(), "Tableau de bord", "_DSI > Support")
}

func TestStockPaginates(t *testing.T) {
	p, out, _ := newTestPrinter(false)
	rows := []domain.TechnicianStats{{Technicien: "Alice", Total: 9}, {Technicien: "Bob", Total: 4}, {Technicien: "Chloé", Total: 1}}
	v := pages.StockView{
		Technicians: invoke.State[[]domain.TechnicianStats]{Data: &rows},
		Rows:        rows,
	}
	if err := p.Stock(v, 2, 2); err != nil {
		t.Fatal(err)
	}
	got := out.String()
	assertContains(t, got, "page 2/2", "Chloé")
	if strings.Contains(got, "Alice") {
		t.Errorf("page 2 should not list Alice:\n%s", got)
	}
}

func TestTechnicianNilFields(t *testing.T) {
	p, out, _ := newTestPrinter(false)
	age := 120
	rows := []domain.TicketSummary{
		{ID: 5012, Titre: "Imprimante", Statut: "En attente", DateOuverture: "2024-01-15", AncienneteJours: &age},
		{ID: 5013, Titre: "Badge", Statut: "Nouveau", DateOuverture: "2024-06-01"},
	}
	v := pages.TechnicianView{
		Name:       "Alice",
		Tickets:    invoke.State[[]domain.TicketSummary]{Data: &rows},
		Rows:       rows,
		StaleCount: 1,
	}
	if err := p.Technician(v); err != nil {
		t.Fatal(err)
	}
	assertContains(t, out.String(), "Alice : 2 tickets, 1 de plus de 90 jours", "15/01/2024", "120", "5013")
}

func TestAnomaliesEmpty(t *testing.T) {
	p, out, _ := newTestPrinter(false)
	if err := p.Anomalies(nil); err != nil {
		t.Fatal(err)
	}
	assertContains(t, out.String(), "0 anomalie(s)", "Aucune anomalie détectée")
}

func TestAnomaliesBadges(t *testing.T) {
	p, out, _ := newTestPrinter(false)
	alerts := []domain.AnomalyAlert{{TicketID: 7, Titre: "VPN", AnomalyType: "delai_anormal", Severity: "high", ExpectedRange: "0-30"}}
	if err := p.Anomalies(alerts); err != nil {
		t.Fatal(err)
	}
	assertContains(t, out.String(), "[HIGH]", "VPN", "0-30")
}

func TestCategoriesDepth(t *testing.T) {
	p, out, _ := newTestPrinter(false)
	tree := domain.CategoryTree{
		Source: "categorie",
		Nodes: []domain.CategoryNode{{
			Name:     "Matériel",
			Children: []domain.CategoryNode{{Name: "Imprimante"}},
		}},
	}
	v := pages.CategoriesView{Tree: invoke.State[domain.CategoryTree]{Data: &tree}}
	if err := p.Categories(v, 1); err != nil {
		t.Fatal(err)
	}
	got := out.String()
	assertContains(t, got, "Matériel")
	if strings.Contains(got, "Imprimante") {
		t.Errorf("depth 1 should hide children:\n%s", got)
	}
}

func TestImportProgressLine(t *testing.T) {
	p, out, _ := newTestPrinter(false)
	p.ImportProgress(importer.Snapshot{State: importer.StateImporting, Progress: 42, Phase: domain.PhaseInserting})
	got := out.String()
	assertContains(t, got, " 42%", "Insertion")
	if strings.HasSuffix(got, "\n") {
		t.Errorf("in-flight progress should not end the line: %q", got)
	}
	p.ImportProgress(importer.Snapshot{State: importer.StateCompleted, Progress: 100})
	if !strings.HasSuffix(out.String(), "\n") {
		t.Error("final progress should end the line")
	}
}

func TestImportResultUnclassified(t *testing.T) {
	p, _, errOut := newTestPrinter(false)
	v := pages.ImportView{
		Import:       importer.Snapshot{State: importer.StateCompleted, Result: &domain.ImportResult{ImportID: 3}},
		Unclassified: []string{"Archivé"},
	}
	if err := p.ImportResult(v); err != nil {
		t.Fatal(err)
	}
	assertContains(t, errOut.String(), `Statut non classé : "Archivé"`)
}

func TestJournal(t *testing.T) {
	p, out, _ := newTestPrinter(false)
	records := []domain.ExportRecord{
		{Kind: domain.ExportKindStock, Path: "/tmp/stock.xlsx", SizeBytes: 512, DurationMs: 40, Status: domain.ExportStatusOK, Trigger: "schedule", Delivered: true, StartedAt: time.Date(2024, 7, 1, 6, 0, 0, 0, time.UTC)},
		{Kind: domain.ExportKindBilan, Status: domain.ExportStatusFailed, Error: "no active import", Trigger: "manual", StartedAt: time.Date(2024, 7, 1, 6, 0, 1, 0, time.UTC)},
	}
	if err := p.Journal(records); err != nil {
		t.Fatal(err)
	}
	assertContains(t, out.String(), "/tmp/stock.xlsx", "512 o", "40 ms", "oui", "no active import")
}
