package pages

import (
	"context"
	"log"

	"glpiboard/internal/client"
	"glpiboard/internal/domain"
	"glpiboard/internal/importer"
	"glpiboard/internal/invoke"
)

type Import struct {
	d        Deps
	Tracker  *importer.Tracker
	History  *invoke.Hook[domain.ImportHistoryList]
	settings *Settings
}

type ImportView struct {
	Import  importer.Snapshot
	History invoke.State[domain.ImportHistoryList]
	// Unclassified lists imported statuses that belong to neither status
	// set of the configuration.
	Unclassified []string
}

func NewImport(d Deps) *Import {
	return &Import{
		d:        d,
		Tracker:  d.Client.NewImportTracker(),
		History:  newHook[domain.ImportHistoryList](d),
		settings: NewSettings(d),
	}
}

func (p *Import) LoadHistory(ctx context.Context) (invoke.State[domain.ImportHistoryList], error) {
	err := run(ctx, p.History, client.ImportHistoryRequest())
	return p.History.Snapshot(), err
}

// Run imports path from a clean tracker. On success the new import becomes
// current, the history is refreshed and the imported statuses are checked
// against the configuration.
func (p *Import) Run(ctx context.Context, path string) (ImportView, error) {
	p.Tracker.Reset()
	res, err := p.Tracker.Start(ctx, path)
	if err != nil {
		return ImportView{Import: p.Tracker.Snapshot(), History: p.History.Snapshot()}, err
	}

	if p.d.Store != nil {
		id := res.ImportID
		if err := p.d.Store.SetCurrentImportID(&id); err != nil {
			log.Printf("import store update failed err=%v", err)
		}
	}
	if _, err := p.LoadHistory(ctx); err != nil {
		log.Printf("import history refresh failed err=%s", invoke.Message(err))
	}

	v := ImportView{Import: p.Tracker.Snapshot(), History: p.History.Snapshot()}
	cfg, err := p.settings.CurrentConfig(ctx)
	if err != nil {
		log.Printf("import status check skipped err=%s", invoke.Message(err))
		return v, nil
	}
	v.Unclassified = cfg.Unclassified(res.UniqueStatuts)
	if len(v.Unclassified) > 0 {
		log.Printf("import unclassified statuses=%v", v.Unclassified)
	}
	return v, nil
}
