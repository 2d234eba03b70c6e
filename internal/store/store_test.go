package store

import (
	"errors"
	"path/filepath"
	"testing"

	"glpiboard/internal/domain"
	"glpiboard/internal/storage/sqlite"
)

func sp(s string) *string { return &s }

func TestMutationsAndSnapshotIsolation(t *testing.T) {
	s := New()
	id := int64(7)
	if err := s.SetCurrentImportID(&id); err != nil {
		t.Fatalf("SetCurrentImportID: %v", err)
	}
	id = 99
	if err := s.SetStatut(sp("En attente")); err != nil {
		t.Fatalf("SetStatut: %v", err)
	}
	if err := s.SetConfig(domain.DefaultAppConfig()); err != nil {
		t.Fatalf("SetConfig: %v", err)
	}

	snap := s.Snapshot()
	if got := *snap.Session.CurrentImportID; got != 7 {
		t.Fatalf("CurrentImportID = %d, want 7 (store must copy)", got)
	}
	*snap.Filters.Statut = "Clos"
	snap.Settings.Config.StatutsVivants[0] = "muté"

	again := s.Snapshot()
	if *again.Filters.Statut != "En attente" {
		t.Fatalf("Statut = %q, snapshot mutation leaked", *again.Filters.Statut)
	}
	if again.Settings.Config.StatutsVivants[0] != "Nouveau" {
		t.Fatalf("config mutation leaked: %v", again.Settings.Config.StatutsVivants)
	}
}

func TestResetFiltersLeavesOtherSlices(t *testing.T) {
	s := New()
	_ = s.SetDateRange(sp("2024-01-01"), sp("2024-06-30"))
	_ = s.SetFilters(Filters{Statut: sp("Nouveau"), TypeTicket: sp("Incident"), Groupe: sp("Support")})

	var changed []string
	s.Subscribe(func(slice string, st State) { changed = append(changed, slice) })

	if err := s.ResetFilters(); err != nil {
		t.Fatalf("ResetFilters: %v", err)
	}
	st := s.Snapshot()
	if st.Filters != (Filters{}) {
		t.Fatalf("filters = %+v, want empty", st.Filters)
	}
	if !st.DateRange.IsSet() || *st.DateRange.From != "2024-01-01" {
		t.Fatalf("date range changed: %+v", st.DateRange)
	}
	if len(changed) != 1 || changed[0] != SliceFilters {
		t.Fatalf("notified slices = %v", changed)
	}
	if !st.Filters.StockFilters().IsZero() {
		t.Fatalf("StockFilters not zero after reset")
	}
}

func TestPersistenceRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.db")
	db, err := sqlite.InitDB(path)
	if err != nil {
		t.Fatalf("InitDB: %v", err)
	}
	s, err := Open(SQLite{DB: db})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	id := int64(3)
	_ = s.SetCurrentImportID(&id)
	_ = s.SetDateRange(sp("2024-02-01"), sp("2024-02-29"))
	_ = s.SetGroupe(sp("Infra"))
	cfg := domain.DefaultAppConfig()
	cfg.SeuilTicketsTechnicien = 25
	_ = s.SetConfig(cfg)
	db.Close()

	db2, err := sqlite.InitDB(path)
	if err != nil {
		t.Fatalf("reopen InitDB: %v", err)
	}
	defer db2.Close()
	restored, err := Open(SQLite{DB: db2})
	if err != nil {
		t.Fatalf("reopen Open: %v", err)
	}
	st := restored.Snapshot()
	if st.Session.CurrentImportID == nil || *st.Session.CurrentImportID != 3 {
		t.Fatalf("session = %+v", st.Session)
	}
	if *st.DateRange.To != "2024-02-29" {
		t.Fatalf("date range = %+v", st.DateRange)
	}
	if st.Filters.Groupe == nil || *st.Filters.Groupe != "Infra" || st.Filters.Statut != nil {
		t.Fatalf("filters = %+v", st.Filters)
	}
	if st.Settings.Config == nil || st.Settings.Config.SeuilTicketsTechnicien != 25 {
		t.Fatalf("settings = %+v", st.Settings)
	}
}

type failingPersister struct{}

func (failingPersister) SaveSlice(string, any) error         { return errors.New("disk full") }
func (failingPersister) LoadSlice(string, any) (bool, error) { return false, nil }

func TestPersistFailureKeepsMemoryState(t *testing.T) {
	s, err := Open(failingPersister{})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := s.SetStatut(sp("Nouveau")); err == nil {
		t.Fatalf("SetStatut err = nil, want persist failure")
	}
	if st := s.Snapshot(); st.Filters.Statut == nil {
		t.Fatalf("in-memory state not updated")
	}
}
