package domain

import (
	"encoding/json"
	"fmt"
	"math"
)

type ImportPhase string

const (
	PhaseParsing     ImportPhase = "parsing"
	PhaseNormalizing ImportPhase = "normalizing"
	PhaseInserting   ImportPhase = "inserting"
	PhaseIndexing    ImportPhase = "indexing"
)

// Event names carried on the import progress channel.
const (
	EventProgress = "progress"
	EventWarning  = "warning"
	EventComplete = "complete"
)

type ParseWarning struct {
	Line    int    `json:"line"`
	Message string `json:"message"`
}

type ImportResult struct {
	ImportID               int64          `json:"importId"`
	TotalTickets           int            `json:"totalTickets"`
	VivantsCount           int            `json:"vivantsCount"`
	TerminesCount          int            `json:"terminesCount"`
	SkippedRows            int            `json:"skippedRows"`
	Warnings               []ParseWarning `json:"warnings"`
	DetectedColumns        []string       `json:"detectedColumns"`
	MissingOptionalColumns []string       `json:"missingOptionalColumns"`
	UniqueStatuts          []string       `json:"uniqueStatuts"`
	ParseDurationMs        int64          `json:"parseDurationMs"`
}

func (r ImportResult) Validate() error {
	p := newProblems("ImportResult")
	if r.TotalTickets < 0 {
		p.addf("totalTickets=%d is negative", r.TotalTickets)
	}
	if r.VivantsCount < 0 || r.TerminesCount < 0 {
		p.addf("negative status counts vivants=%d termines=%d", r.VivantsCount, r.TerminesCount)
	}
	if r.VivantsCount+r.TerminesCount > r.TotalTickets {
		p.addf("vivantsCount+terminesCount=%d exceeds totalTickets=%d", r.VivantsCount+r.TerminesCount, r.TotalTickets)
	}
	if r.SkippedRows < 0 {
		p.addf("skippedRows=%d is negative", r.SkippedRows)
	}
	if r.ParseDurationMs < 0 {
		p.addf("parseDurationMs=%d is negative", r.ParseDurationMs)
	}
	return p.err()
}

// ImportEvent is one frame of the import progress channel. Data is decoded
// according to Event.
type ImportEvent struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

type ProgressData struct {
	RowsParsed     int         `json:"rowsParsed"`
	TotalEstimated int         `json:"totalEstimated"`
	Phase          ImportPhase `json:"phase"`
}

// Percent is the display percentage for a progress frame. It never reaches
// 100: only completion does.
func (d ProgressData) Percent() int {
	if d.TotalEstimated <= 0 {
		return 0
	}
	pct := int(math.Round(float64(d.RowsParsed) / float64(d.TotalEstimated) * 100))
	if pct < 0 {
		return 0
	}
	if pct > 99 {
		return 99
	}
	return pct
}

type WarningData = ParseWarning

type CompleteData struct {
	DurationMs   int64 `json:"durationMs"`
	TotalTickets int   `json:"totalTickets"`
	Vivants      int   `json:"vivants"`
	Termines     int   `json:"termines"`
}

func (e ImportEvent) Progress() (ProgressData, error) {
	var d ProgressData
	err := e.decode(EventProgress, &d)
	return d, err
}

func (e ImportEvent) Warning() (WarningData, error) {
	var d WarningData
	err := e.decode(EventWarning, &d)
	return d, err
}

func (e ImportEvent) Complete() (CompleteData, error) {
	var d CompleteData
	err := e.decode(EventComplete, &d)
	return d, err
}

func (e ImportEvent) decode(want string, out any) error {
	if e.Event != want {
		return fmt.Errorf("import event is %q, not %q", e.Event, want)
	}
	if len(e.Data) == 0 {
		return fmt.Errorf("import event %q has no data", e.Event)
	}
	if err := json.Unmarshal(e.Data, out); err != nil {
		return fmt.Errorf("decode %s event: %w", e.Event, err)
	}
	return nil
}

type ImportHistory struct {
	ID            int64   `json:"id"`
	Filename      string  `json:"filename"`
	ImportDate    string  `json:"importDate"`
	TotalRows     int     `json:"totalRows"`
	VivantsCount  int     `json:"vivantsCount"`
	TerminesCount int     `json:"terminesCount"`
	DateRangeFrom *string `json:"dateRangeFrom"`
	DateRangeTo   *string `json:"dateRangeTo"`
	IsActive      bool    `json:"isActive"`
}

type ImportHistoryList []ImportHistory

func (l ImportHistoryList) Validate() error {
	p := newProblems("import history")
	active := 0
	for _, h := range l {
		if h.IsActive {
			active++
		}
		if h.VivantsCount+h.TerminesCount > h.TotalRows {
			p.addf("import %d counts exceed totalRows=%d", h.ID, h.TotalRows)
		}
	}
	if active > 1 {
		p.addf("%d imports flagged active", active)
	}
	return p.err()
}

// Active returns the first import flagged active.
func (l ImportHistoryList) Active() (ImportHistory, bool) {
	for _, h := range l {
		if h.IsActive {
			return h, true
		}
	}
	return ImportHistory{}, false
}

type TechnicianDelta struct {
	Technicien string `json:"technicien"`
	CountA     int    `json:"countA"`
	CountB     int    `json:"countB"`
	Delta      int    `json:"delta"`
}

type ImportComparison struct {
	ImportA            ImportHistory     `json:"importA"`
	ImportB            ImportHistory     `json:"importB"`
	DeltaTotal         int               `json:"deltaTotal"`
	DeltaVivants       int               `json:"deltaVivants"`
	NouveauxTickets    []int64           `json:"nouveauxTickets"`
	DisparusTickets    []int64           `json:"disparusTickets"`
	DeltaParTechnicien []TechnicianDelta `json:"deltaParTechnicien"`
}

type TimelinePoint struct {
	ImportID      int64  `json:"importId"`
	Filename      string `json:"filename"`
	ImportDate    string `json:"importDate"`
	VivantsCount  int    `json:"vivantsCount"`
	TerminesCount int    `json:"terminesCount"`
	TotalRows     int    `json:"totalRows"`
}

type TechTimelinePoint struct {
	ImportID    int64   `json:"importId"`
	ImportDate  string  `json:"importDate"`
	TicketCount int     `json:"ticketCount"`
	AvgAge      float64 `json:"avgAge"`
}

type ExportResult struct {
	Path       string `json:"path"`
	SizeBytes  int64  `json:"sizeBytes"`
	DurationMs int64  `json:"durationMs"`
}
