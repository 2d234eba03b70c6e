// Package store holds the client-side state shared by pages: the active
// import, the selected date range, the stock filters and the loaded backend
// configuration. Each concern is its own slice, mutated only through Store
// methods.
package store

import (
	"database/sql"
	"fmt"
	"log"
	"sync"

	"glpiboard/internal/domain"
	"glpiboard/internal/storage/sqlite"
)

// Slice names, also the persistence keys.
const (
	SliceSession   = "session"
	SliceDateRange = "dateRange"
	SliceFilters   = "filters"
	SliceSettings  = "settings"
)

type Session struct {
	CurrentImportID *int64 `json:"currentImportId"`
}

type DateRange struct {
	From *string `json:"from"`
	To   *string `json:"to"`
}

// IsSet reports whether both bounds are chosen.
func (r DateRange) IsSet() bool {
	return r.From != nil && r.To != nil
}

type Filters struct {
	Statut     *string `json:"statut"`
	TypeTicket *string `json:"typeTicket"`
	Groupe     *string `json:"groupe"`
}

// StockFilters converts the slice to the backend filter shape.
func (f Filters) StockFilters() domain.StockFilters {
	return domain.StockFilters{
		Statut:     cloneString(f.Statut),
		TypeTicket: cloneString(f.TypeTicket),
		Groupe:     cloneString(f.Groupe),
	}
}

type Settings struct {
	Config *domain.AppConfig `json:"config"`
}

// State is a deep copy of every slice.
type State struct {
	Session   Session
	DateRange DateRange
	Filters   Filters
	Settings  Settings
}

// Persister saves and restores slices. A nil Persister keeps the store in
// memory only.
type Persister interface {
	SaveSlice(name string, v any) error
	LoadSlice(name string, out any) (bool, error)
}

type Store struct {
	p Persister

	mu        sync.Mutex
	state     State
	listeners []func(slice string, s State)
}

func New() *Store {
	return &Store{}
}

// Open restores every persisted slice from p and writes later mutations
// through to it.
func Open(p Persister) (*Store, error) {
	s := &Store{p: p}
	loads := []struct {
		name string
		out  any
	}{
		{SliceSession, &s.state.Session},
		{SliceDateRange, &s.state.DateRange},
		{SliceFilters, &s.state.Filters},
		{SliceSettings, &s.state.Settings},
	}
	for _, l := range loads {
		if _, err := p.LoadSlice(l.name, l.out); err != nil {
			return nil, fmt.Errorf("load %s slice: %w", l.name, err)
		}
	}
	return s, nil
}

// Subscribe registers fn to run after every mutation with the changed
// slice's name.
func (s *Store) Subscribe(fn func(slice string, st State)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, fn)
}

func (s *Store) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.clone()
}

func (s *Store) SetCurrentImportID(id *int64) error {
	return s.update(SliceSession, func(st *State) any {
		st.Session.CurrentImportID = cloneInt64(id)
		return st.Session
	})
}

func (s *Store) SetDateRange(from, to *string) error {
	return s.update(SliceDateRange, func(st *State) any {
		st.DateRange = DateRange{From: cloneString(from), To: cloneString(to)}
		return st.DateRange
	})
}

func (s *Store) SetStatut(v *string) error {
	return s.update(SliceFilters, func(st *State) any {
		st.Filters.Statut = cloneString(v)
		return st.Filters
	})
}

func (s *Store) SetTypeTicket(v *string) error {
	return s.update(SliceFilters, func(st *State) any {
		st.Filters.TypeTicket = cloneString(v)
		return st.Filters
	})
}

func (s *Store) SetGroupe(v *string) error {
	return s.update(SliceFilters, func(st *State) any {
		st.Filters.Groupe = cloneString(v)
		return st.Filters
	})
}

// SetFilters replaces the whole filter slice.
func (s *Store) SetFilters(f Filters) error {
	return s.update(SliceFilters, func(st *State) any {
		st.Filters = f.clone()
		return st.Filters
	})
}

// ResetFilters clears the filter slice only.
func (s *Store) ResetFilters() error {
	return s.update(SliceFilters, func(st *State) any {
		st.Filters = Filters{}
		return st.Filters
	})
}

func (s *Store) SetConfig(cfg domain.AppConfig) error {
	return s.update(SliceSettings, func(st *State) any {
		c := cloneConfig(cfg)
		st.Settings.Config = &c
		return st.Settings
	})
}

func (s *Store) update(slice string, mutate func(*State) any) error {
	s.mu.Lock()
	value := mutate(&s.state)
	snap := s.state.clone()
	listeners := make([]func(string, State), len(s.listeners))
	copy(listeners, s.listeners)
	p := s.p
	s.mu.Unlock()

	for _, fn := range listeners {
		fn(slice, snap)
	}
	if p == nil {
		return nil
	}
	if err := p.SaveSlice(slice, value); err != nil {
		log.Printf("store persist failed slice=%s err=%v", slice, err)
		return fmt.Errorf("persist %s slice: %w", slice, err)
	}
	return nil
}

func (st State) clone() State {
	out := State{
		Session:   Session{CurrentImportID: cloneInt64(st.Session.CurrentImportID)},
		DateRange: DateRange{From: cloneString(st.DateRange.From), To: cloneString(st.DateRange.To)},
		Filters:   st.Filters.clone(),
	}
	if st.Settings.Config != nil {
		c := cloneConfig(*st.Settings.Config)
		out.Settings.Config = &c
	}
	return out
}

func (f Filters) clone() Filters {
	return Filters{
		Statut:     cloneString(f.Statut),
		TypeTicket: cloneString(f.TypeTicket),
		Groupe:     cloneString(f.Groupe),
	}
}

func cloneConfig(c domain.AppConfig) domain.AppConfig {
	c.StatutsVivants = append([]string(nil), c.StatutsVivants...)
	c.StatutsTermines = append([]string(nil), c.StatutsTermines...)
	return c
}

func cloneString(p *string) *string {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func cloneInt64(p *int64) *int64 {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

// SQLite persists slices in the local state database.
type SQLite struct {
	DB *sql.DB
}

func (s SQLite) SaveSlice(name string, v any) error {
	return sqlite.SaveSlice(s.DB, name, v)
}

func (s SQLite) LoadSlice(name string, out any) (bool, error) {
	return sqlite.LoadSlice(s.DB, name, out)
}
