package output

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"glpiboard/internal/display"
	"glpiboard/internal/domain"
	"glpiboard/internal/importer"
	"glpiboard/internal/invoke"
	"glpiboard/internal/pages"
)

const dash = "-"

var phaseLabels = map[domain.ImportPhase]string{
	domain.PhaseParsing:     "Lecture du CSV",
	domain.PhaseNormalizing: "Normalisation",
	domain.PhaseInserting:   "Insertion",
	domain.PhaseIndexing:    "Indexation",
}

func optInt(v *int) string {
	if v == nil {
		return dash
	}
	return strconv.Itoa(*v)
}

func optStr(v *string) string {
	if v == nil || *v == "" {
		return dash
	}
	return *v
}

func pct(f float64) string {
	return display.FormatDecimal(f, 1) + " %"
}

// sectionFailed prints a section's error and reports whether rendering
// should stop. Data kept from an earlier load is still rendered.
func sectionFailed[T any](p *Printer, title string, s invoke.State[T]) bool {
	if s.Error != "" {
		p.Error("%s : %s", title, s.Error)
	}
	return s.Data == nil
}

func (p *Printer) ImportProgress(s importer.Snapshot) {
	if p.quiet {
		return
	}
	phase, ok := phaseLabels[s.Phase]
	if !ok {
		phase = string(s.Phase)
	}
	if phase == "" {
		phase = "Préparation"
	}
	fmt.Fprintf(p.out, "\r%3d%% %-16s avertissements: %d", s.Progress, phase, len(s.Warnings))
	if s.State != importer.StateImporting {
		fmt.Fprintln(p.out)
	}
}

func (p *Printer) ImportResult(v pages.ImportView) error {
	s := v.Import
	if s.State == importer.StateFailed {
		p.Error("Import échoué : %s", s.Error)
	}
	if r := s.Result; r != nil {
		p.Success("Import #%d : %s tickets (%s vivants, %s terminés) en %s",
			r.ImportID, display.FormatNumber(r.TotalTickets), display.FormatNumber(r.VivantsCount),
			display.FormatNumber(r.TerminesCount), display.FormatDuration(r.ParseDurationMs))
		if r.SkippedRows > 0 {
			p.Warning("%d lignes ignorées", r.SkippedRows)
		}
		if len(r.MissingOptionalColumns) > 0 {
			p.Warning("Colonnes optionnelles absentes : %s", strings.Join(r.MissingOptionalColumns, ", "))
		}
	}
	for _, st := range v.Unclassified {
		p.Warning("Statut non classé : %q (ni vivant ni terminé)", st)
	}
	if len(s.Warnings) == 0 {
		return nil
	}
	p.Header("Avertissements")
	t := NewTable(p.out, "Ligne", "Message")
	for _, w := range s.Warnings {
		t.AddRow(strconv.Itoa(w.Line), w.Message)
	}
	return t.Render()
}

func (p *Printer) History(list domain.ImportHistoryList) error {
	t := NewTable(p.out, "", "ID", "Fichier", "Date", "Lignes", "Vivants", "Terminés", "Période")
	for _, h := range list {
		active := ""
		if h.IsActive {
			active = "*"
		}
		t.AddRow(active, strconv.FormatInt(h.ID, 10), h.Filename, display.FormatDate(h.ImportDate),
			display.FormatNumber(h.TotalRows), display.FormatNumber(h.VivantsCount), display.FormatNumber(h.TerminesCount),
			optDate(h.DateRangeFrom)+" → "+optDate(h.DateRangeTo))
	}
	return t.Render()
}

func optDate(s *string) string {
	if s == nil {
		return dash
	}
	return display.FormatDate(*s)
}

func (p *Printer) Dashboard(v pages.DashboardView) error {
	if v.HistoryError != "" {
		p.Warning("Historique indisponible : %s", v.HistoryError)
	}
	if v.Empty() {
		p.Info("Aucun import actif. Importez un fichier CSV GLPI pour commencer.")
		return nil
	}
	if sectionFailed(p, "Tableau de bord", v.Kpi) {
		return nil
	}
	k := *v.Kpi.Data
	m := k.Meta
	p.Header("Tableau de bord")
	if v.Query.DateDebut != "" {
		p.Print("Période : %s → %s (%s)", display.FormatDate(v.Query.DateDebut), display.FormatDate(v.Query.DateFin), v.Query.Granularity)
	}
	p.Print("Tickets : %s  Vivants : %s  Terminés : %s  Techniciens : %d  Groupes : %d",
		display.FormatNumber(m.TotalTickets), display.FormatNumber(m.TotalVivants), display.FormatNumber(m.TotalTermines),
		m.NbTechniciensActifs, m.NbGroupes)
	r := k.Resolution
	p.Print("MTTR : %s j  Médiane : %s j  P90 : %s j  (échantillon %s)",
		display.FormatDecimal(r.MttrGlobalJours, 1), display.FormatDecimal(r.MedianeJours, 1),
		display.FormatDecimal(r.P90Jours, 1), display.FormatNumber(r.Echantillon))
	n1 := k.TauxN1
	p.Print("Taux N1 strict : %s  élargi : %s  (objectif ITIL %s)", pct(n1.N1Strict.Pourcentage), pct(n1.N1Elargi.Pourcentage), pct(n1.ObjectifItil))
	p.Print("Prise en charge : %s (%s)", display.FormatDays(k.PriseEnCharge.DelaiMoyenJours), k.PriseEnCharge.Confiance)
	if w := k.PriseEnCharge.Avertissement; w != nil && *w != "" {
		p.Warning("%s", *w)
	}

	p.Header("MTTR par groupe")
	t := NewTable(p.out, "Groupe", "Tickets", "MTTR (j)", "Médiane (j)", "% total")
	for _, d := range display.TopMttrByCount(r.ParGroupe, display.MttrComparatifSize) {
		t.AddRow(d.Label, display.FormatNumber(d.Count), display.FormatDecimal(d.MttrJours, 1),
			display.FormatDecimal(d.MedianeJours, 1), pct(d.PourcentageTotal))
	}
	if err := t.Render(); err != nil {
		return err
	}

	p.Header("Volumétrie")
	t = NewTable(p.out, "Période", "Créés", "Résolus", "Delta")
	for _, vp := range k.Volumes.ParMois {
		t.AddRow(vp.Periode, display.FormatNumber(vp.Crees), display.FormatNumber(vp.Resolus), strconv.Itoa(vp.Delta))
	}
	if err := t.Render(); err != nil {
		return err
	}

	p.Header("Typologie")
	t = NewTable(p.out, "Type", "Total", "Vivants", "Terminés", "% total")
	for _, it := range display.TopVentilation(k.Typologie.ParType, display.TypologieSize) {
		t.AddRow(it.Label, display.FormatNumber(it.Total), display.FormatNumber(it.Vivants),
			display.FormatNumber(it.Termines), pct(it.PourcentageTotal))
	}
	return t.Render()
}

func (p *Printer) Stock(v pages.StockView, page, pageSize int) error {
	if !sectionFailed(p, "Stock", v.Overview) {
		o := *v.Overview.Data
		p.Header("Stock")
		p.Print("Vivants : %s  Terminés : %s  Âge moyen : %s j  Médian : %s j  Inactifs 14j : %d  30j : %d",
			display.FormatNumber(o.TotalVivants), display.FormatNumber(o.TotalTermines),
			display.FormatDecimal(o.AgeMoyenJours, 1), display.FormatDecimal(o.AgeMedianJours, 1),
			o.Inactifs14j, o.Inactifs30j)
		p.Print("Incidents : %s  Demandes : %s", display.FormatNumber(o.ParType.Incidents), display.FormatNumber(o.ParType.Demandes))
		t := NewTable(p.out, "Ancienneté", "Tickets", "%")
		for _, a := range o.ParAnciennete {
			t.AddRow(a.Label, display.FormatNumber(a.Count), pct(a.Percentage))
		}
		if err := t.Render(); err != nil {
			return err
		}
	}
	if sectionFailed(p, "Techniciens", v.Technicians) {
		return nil
	}
	pg := display.Paginate(v.Rows, page, pageSize)
	p.Header(fmt.Sprintf("Techniciens (%d, page %d/%d)", pg.TotalRows, pg.Page, pg.TotalPages))
	t := NewTable(p.out, "Technicien", "Total", "En cours", "En attente", "Planifié", "Nouveau",
		"Incidents", "Demandes", "Âge moyen", "Inactifs 14j", "Écart seuil")
	for _, r := range pg.Rows {
		t.AddRow(r.Technicien, p.LoadBadge(r.CouleurSeuil, strconv.Itoa(r.Total)), strconv.Itoa(r.EnCours),
			strconv.Itoa(r.EnAttente), strconv.Itoa(r.Planifie), strconv.Itoa(r.Nouveau), strconv.Itoa(r.Incidents),
			strconv.Itoa(r.Demandes), display.FormatDecimal(r.AgeMoyenJours, 1), strconv.Itoa(r.Inactifs14j),
			strconv.Itoa(r.EcartSeuil))
	}
	if err := t.Render(); err != nil {
		return err
	}
	if len(v.GroupOptions) > 0 {
		p.Print("%s", p.Dim("Groupes : "+strings.Join(v.GroupOptions, ", ")))
	}
	return nil
}

func (p *Printer) Groups(s invoke.State[[]domain.GroupStock]) error {
	if sectionFailed(p, "Groupes", s) {
		return nil
	}
	t := NewTable(p.out, "Groupe", "Total", "En cours", "En attente", "Incidents", "Demandes", "Techniciens", "Âge moyen")
	for _, g := range *s.Data {
		t.AddRow(g.Groupe, strconv.Itoa(g.Total), strconv.Itoa(g.EnCours), strconv.Itoa(g.EnAttente),
			strconv.Itoa(g.Incidents), strconv.Itoa(g.Demandes), strconv.Itoa(g.NbTechniciens),
			display.FormatDecimal(g.AgeMoyenJours, 1))
	}
	return t.Render()
}

func (p *Printer) Technician(v pages.TechnicianView) error {
	if !sectionFailed(p, "Tickets", v.Tickets) {
		p.Header(fmt.Sprintf("%s : %d tickets, %d de plus de %d jours", v.Name, len(v.Rows), v.StaleCount, pages.StaleTicketDays))
		t := NewTable(p.out, "ID", "Titre", "Statut", "Ouverture", "Ancienneté", "Inactivité", "Suivis", "Action")
		for _, r := range v.Rows {
			t.AddRow(strconv.FormatInt(r.ID, 10), r.Titre, r.Statut, display.FormatDate(r.DateOuverture),
				optInt(r.AncienneteJours), optInt(r.InactiviteJours), optInt(r.NombreSuivis), optStr(r.ActionRecommandee))
		}
		if err := t.Render(); err != nil {
			return err
		}
	}
	if sectionFailed(p, "Historique", v.Timeline) {
		return nil
	}
	p.Header("Historique")
	t := NewTable(p.out, "Import", "Date", "Tickets", "Âge moyen")
	for _, pt := range *v.Timeline.Data {
		t.AddRow(strconv.FormatInt(pt.ImportID, 10), display.FormatDate(pt.ImportDate),
			strconv.Itoa(pt.TicketCount), display.FormatDecimal(pt.AvgAge, 1))
	}
	return t.Render()
}

func (p *Printer) Ticket(d domain.TicketDetail) {
	p.Header(fmt.Sprintf("#%d %s", d.ID, d.Titre))
	p.Print("Statut : %s  Type : %s  Priorité : %s  Urgence : %s", d.Statut, d.TypeTicket, optInt(d.Priorite), optInt(d.Urgence))
	p.Print("Demandeur : %s", d.Demandeur)
	p.Print("Techniciens : %s", strings.Join(d.Techniciens, ", "))
	p.Print("Groupes : %s", strings.Join(d.Groupes, ", "))
	p.Print("Ouverture : %s  Ancienneté : %s j  Inactivité : %s j", display.FormatDate(d.DateOuverture), optInt(d.AncienneteJours), optInt(d.InactiviteJours))
	p.Print("Catégorie : %s", optStr(d.Categorie))
	if d.ActionRecommandee != nil {
		p.Print("Action recommandée : %s (%s)", *d.ActionRecommandee, optStr(d.MotifClassification))
	}
	if d.Solution != "" {
		p.Print("Solution : %s", d.Solution)
	}
}

func (p *Printer) Bilan(v pages.BilanView) error {
	if sectionFailed(p, "Bilan", v.Bilan) {
		return nil
	}
	b := *v.Bilan.Data
	p.Header(fmt.Sprintf("Bilan %s → %s (%s)", display.FormatDate(v.Request.DateFrom), display.FormatDate(v.Request.DateTo), v.Request.Period))
	t := NewTable(p.out, "Période", "Entrées", "Sorties", "Delta", "Stock")
	for _, pd := range b.Periodes {
		t.AddRow(pd.PeriodLabel, display.FormatNumber(pd.Entrees), display.FormatNumber(pd.Sorties),
			strconv.Itoa(pd.Delta), optInt(pd.StockCumule))
	}
	tot := b.Totaux
	t.AddRow(p.Bold("Total"), display.FormatNumber(tot.TotalEntrees), display.FormatNumber(tot.TotalSorties), strconv.Itoa(tot.DeltaGlobal), "")
	if err := t.Render(); err != nil {
		return err
	}
	p.Print("Moyenne par période : %s entrées, %s sorties",
		display.FormatDecimal(tot.MoyenneEntreesParPeriode, 1), display.FormatDecimal(tot.MoyenneSortiesParPeriode, 1))
	return nil
}

func (p *Printer) Categories(v pages.CategoriesView, depth int) error {
	if sectionFailed(p, "Catégories", v.Tree) {
		return nil
	}
	tree := *v.Tree.Data
	p.Header(fmt.Sprintf("Catégories (%s, %s tickets)", tree.Source, display.FormatNumber(tree.TotalTickets)))
	if v.Top != nil {
		p.Print("Principale : %s (%s)", v.Top.Name, pct(v.Top.Percentage))
	}
	t := NewTable(p.out, "Catégorie", "Tickets", "%", "Incidents", "Demandes", "Âge moyen")
	var walk func(nodes []domain.CategoryNode, level int)
	walk = func(nodes []domain.CategoryNode, level int) {
		for _, n := range nodes {
			t.AddRow(strings.Repeat("  ", level)+n.Name, display.FormatNumber(n.Count), pct(n.Percentage),
				strconv.Itoa(n.Incidents), strconv.Itoa(n.Demandes), display.FormatDecimal(n.AgeMoyen, 1))
			if depth <= 0 || level+1 < depth {
				walk(n.Children, level+1)
			}
		}
	}
	walk(tree.Nodes, 0)
	return t.Render()
}

func (p *Printer) Keywords(v pages.MiningView) error {
	if sectionFailed(p, "Analyse textuelle", v.Analysis) {
		return nil
	}
	cs := v.Analysis.Data.CorpusStats
	p.Header(fmt.Sprintf("Mots-clés (%s documents, vocabulaire %s)", display.FormatNumber(cs.TotalDocuments), display.FormatNumber(cs.VocabularySize)))
	t := NewTable(p.out, "Mot", "Occurrences", "TF-IDF", "Documents")
	for _, k := range v.Keywords {
		t.AddRow(k.Word, display.FormatNumber(k.Count), display.FormatDecimal(k.TfidfScore, 3), display.FormatNumber(k.DocFrequency))
	}
	if err := t.Render(); err != nil {
		return err
	}
	for _, g := range v.Analysis.Data.ByGroup {
		words := make([]string, 0, 10)
		for _, k := range display.TopKeywords(g.Keywords, 10) {
			words = append(words, k.Word)
		}
		p.Print("%s (%d) : %s", p.Bold(g.GroupName), g.TicketCount, strings.Join(words, ", "))
	}
	return nil
}

func (p *Printer) Clusters(s invoke.State[domain.ClusterResult]) error {
	if sectionFailed(p, "Clusters", s) {
		return nil
	}
	r := *s.Data
	p.Header(fmt.Sprintf("Clusters (silhouette %s, %s tickets)", display.FormatDecimal(r.SilhouetteScore, 2), display.FormatNumber(r.TotalTickets)))
	t := NewTable(p.out, "ID", "Thème", "Tickets", "Résolution moy.")
	for _, c := range r.Clusters {
		t.AddRow(strconv.Itoa(c.ID), display.ClusterLabel(c), display.FormatNumber(c.TicketCount), display.FormatDays(c.AvgResolutionDays))
	}
	return t.Render()
}

func (p *Printer) ClusterDetail(s invoke.State[domain.ClusterDetail]) error {
	if sectionFailed(p, "Cluster", s) {
		return nil
	}
	d := *s.Data
	p.Header(fmt.Sprintf("Cluster %d", d.ClusterID))
	p.Print("MTTR : %s (global %s)  Médiane : %s", display.FormatDays(d.MttrAvg), display.FormatDays(d.GlobalMttrAvg), display.FormatDays(d.MttrMedian))
	p.Print("Vivants : %d  Sans suivi : %d  +90j : %d  Inactifs 14j : %d  Ratio inc/dem : %s",
		d.StockVivants, d.StockSansSuivi, d.StockPlus90j, d.StockInactifs14j, display.FormatDecimal(d.RatioIncidentsDemandes, 2))
	t := NewTable(p.out, "ID", "Titre", "Statut", "Technicien", "Ancienneté", "Suivis")
	for _, tk := range d.Tickets {
		t.AddRow(strconv.FormatInt(tk.ID, 10), tk.Titre, tk.Statut, optStr(tk.Technicien), optInt(tk.AncienneteJours), optInt(tk.NbSuivis))
	}
	return t.Render()
}

func (p *Printer) Anomalies(alerts []domain.AnomalyAlert) error {
	p.Header(fmt.Sprintf("%d anomalie(s) détectée(s)", len(alerts)))
	if len(alerts) == 0 {
		p.Info("Aucune anomalie détectée")
		return nil
	}
	t := NewTable(p.out, "Sévérité", "Ticket", "Titre", "Type", "Valeur", "Attendu")
	for _, a := range alerts {
		t.AddRow(p.SeverityBadge(a.Severity), strconv.FormatInt(a.TicketID, 10), a.Titre, a.AnomalyType,
			display.FormatDecimal(a.MetricValue, 1), a.ExpectedRange)
	}
	return t.Render()
}

func (p *Printer) Duplicates(pairs []domain.DuplicatePair) error {
	p.Header(fmt.Sprintf("%d doublon(s) potentiel(s)", len(pairs)))
	if len(pairs) == 0 {
		p.Info("Aucun doublon détecté")
		return nil
	}
	t := NewTable(p.out, "Similarité", "Ticket A", "Ticket B", "Groupe")
	for _, d := range pairs {
		t.AddRow(pct(d.Similarity*100), fmt.Sprintf("#%d %s", d.TicketAID, d.TicketATitre),
			fmt.Sprintf("#%d %s", d.TicketBID, d.TicketBTitre), d.Groupe)
	}
	return t.Render()
}

func (p *Printer) Cooccurrence(r domain.CooccurrenceResult) error {
	p.Header(fmt.Sprintf("Réseau de cooccurrence (%d mots, %d liens)", len(r.Nodes), len(r.Edges)))
	t := NewTable(p.out, "Mot", "Mot", "Poids")
	for _, e := range r.Edges {
		t.AddRow(e.Source, e.Target, display.FormatDecimal(e.Weight, 2))
	}
	return t.Render()
}

func (p *Printer) DrillDown(word string, refs []domain.TicketRef) error {
	p.Header(fmt.Sprintf("Tickets contenant %q (%d)", word, len(refs)))
	t := NewTable(p.out, "ID", "Titre")
	for _, r := range refs {
		t.AddRow(strconv.FormatInt(r.ID, 10), r.Titre)
	}
	return t.Render()
}

func (p *Printer) Search(results []domain.TicketSearchResult) error {
	t := NewTable(p.out, "ID", "Titre", "Statut", "Technicien", "Score")
	for _, r := range results {
		t.AddRow(strconv.FormatInt(r.ID, 10), r.Titre, r.Statut, optStr(r.Technicien), display.FormatDecimal(r.Rank, 2))
	}
	return t.Render()
}

func (p *Printer) Prediction(r domain.PredictionResult) error {
	p.Header(fmt.Sprintf("Prévision de charge (%s, MAE %s, %d périodes d'historique)", r.ModelInfo, display.FormatDecimal(r.Mae, 1), r.HistoryLength))
	t := NewTable(p.out, "Période", "Prévu", "Bas", "Haut")
	for _, f := range r.Forecasts {
		t.AddRow(f.Period, display.FormatDecimal(f.PredictedValue, 0), display.FormatDecimal(f.LowerBound, 0), display.FormatDecimal(f.UpperBound, 0))
	}
	return t.Render()
}

func (p *Printer) Timeline(v pages.TimelineView) error {
	if sectionFailed(p, "Longitudinal", v.Points) {
		return nil
	}
	if !v.Comparable() {
		p.Info("Au moins 2 imports nécessaires pour la vue longitudinale")
	}
	t := NewTable(p.out, "Import", "Fichier", "Date", "Vivants", "Terminés", "Total")
	for _, pt := range *v.Points.Data {
		t.AddRow(strconv.FormatInt(pt.ImportID, 10), pt.Filename, display.FormatDate(pt.ImportDate),
			display.FormatNumber(pt.VivantsCount), display.FormatNumber(pt.TerminesCount), display.FormatNumber(pt.TotalRows))
	}
	return t.Render()
}

func (p *Printer) Comparison(c domain.ImportComparison) error {
	p.Header(fmt.Sprintf("Import #%d → #%d", c.ImportA.ID, c.ImportB.ID))
	p.Print("Delta total : %+d  Delta vivants : %+d  Nouveaux : %d  Disparus : %d",
		c.DeltaTotal, c.DeltaVivants, len(c.NouveauxTickets), len(c.DisparusTickets))
	t := NewTable(p.out, "Technicien", "Avant", "Après", "Delta")
	for _, d := range c.DeltaParTechnicien {
		t.AddRow(d.Technicien, strconv.Itoa(d.CountA), strconv.Itoa(d.CountB), fmt.Sprintf("%+d", d.Delta))
	}
	return t.Render()
}

func (p *Printer) Config(c domain.AppConfig) error {
	t := NewTable(p.out, "Paramètre", "Valeur")
	t.AddRow("seuilTicketsTechnicien", strconv.Itoa(c.SeuilTicketsTechnicien))
	t.AddRow("seuilAncienneteCloturer", strconv.Itoa(c.SeuilAncienneteCloturer))
	t.AddRow("seuilInactiviteCloturer", strconv.Itoa(c.SeuilInactiviteCloturer))
	t.AddRow("seuilAncienneteRelancer", strconv.Itoa(c.SeuilAncienneteRelancer))
	t.AddRow("seuilInactiviteRelancer", strconv.Itoa(c.SeuilInactiviteRelancer))
	t.AddRow("seuilCouleurVert", strconv.Itoa(c.SeuilCouleurVert))
	t.AddRow("seuilCouleurJaune", strconv.Itoa(c.SeuilCouleurJaune))
	t.AddRow("seuilCouleurOrange", strconv.Itoa(c.SeuilCouleurOrange))
	t.AddRow("seuilSimilariteDoublons", strconv.FormatFloat(c.SeuilSimilariteDoublons, 'f', 2, 64))
	t.AddRow("statutsVivants", strings.Join(c.StatutsVivants, ", "))
	t.AddRow("statutsTermines", strings.Join(c.StatutsTermines, ", "))
	return t.Render()
}

func (p *Printer) Export(kind string, r domain.ExportResult) {
	p.Success("Export %s : %s (%s, %s)", kind, r.Path, display.FormatSize(r.SizeBytes), display.FormatDuration(r.DurationMs))
}

func (p *Printer) Journal(records []domain.ExportRecord) error {
	t := NewTable(p.out, "Date", "Type", "Statut", "Fichier", "Taille", "Durée", "Origine", "Livré")
	for _, r := range records {
		status := r.Status
		if r.Error != "" {
			status += " : " + r.Error
		}
		delivered := ""
		if r.Delivered {
			delivered = "oui"
		}
		t.AddRow(r.StartedAt.Local().Format("02/01/2006 15:04"), r.Kind, status, r.Path,
			display.FormatSize(r.SizeBytes), display.FormatDuration(r.DurationMs), r.Trigger, delivered)
	}
	return t.Render()
}

func (p *Printer) ExportStats(s domain.ExportStats, since time.Time) error {
	p.Header("Exports depuis le " + since.Format("02/01/2006"))
	t := NewTable(p.out, "Total", "Échecs", "Livrés", "Volume")
	t.AddRow(strconv.Itoa(s.Total), strconv.Itoa(s.Failed), strconv.Itoa(s.Delivered), display.FormatSize(s.Bytes))
	return t.Render()
}
