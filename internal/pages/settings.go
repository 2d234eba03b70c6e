package pages

import (
	"context"
	"log"

	"glpiboard/internal/client"
	"glpiboard/internal/domain"
	"glpiboard/internal/invoke"
)

type Settings struct {
	d      Deps
	Config *invoke.Hook[domain.AppConfig]
}

func NewSettings(d Deps) *Settings {
	return &Settings{d: d, Config: newHook[domain.AppConfig](d)}
}

// Load fetches the backend configuration and caches it in the store.
func (p *Settings) Load(ctx context.Context) (invoke.State[domain.AppConfig], error) {
	cfg, err := client.Execute(ctx, p.Config, client.GetConfigRequest())
	if err == nil && p.d.Store != nil {
		if err := p.d.Store.SetConfig(cfg); err != nil {
			log.Printf("settings store update failed err=%v", err)
		}
	}
	return p.Config.Snapshot(), err
}

// Save validates cfg locally, sends it, then reloads the stored copy.
func (p *Settings) Save(ctx context.Context, cfg domain.AppConfig) (invoke.State[domain.AppConfig], error) {
	if err := p.d.Client.UpdateConfig(ctx, cfg); err != nil {
		return p.Config.Snapshot(), err
	}
	log.Printf("config saved vivants=%d termines=%d", len(cfg.StatutsVivants), len(cfg.StatutsTermines))
	return p.Load(ctx)
}

// CurrentConfig returns the store's copy of the configuration, loading it
// from the backend when absent.
func (p *Settings) CurrentConfig(ctx context.Context) (domain.AppConfig, error) {
	if p.d.Store != nil {
		if c := p.d.Store.Snapshot().Settings.Config; c != nil {
			return *c, nil
		}
	}
	s, err := p.Load(ctx)
	if err != nil {
		return domain.AppConfig{}, err
	}
	return *s.Data, nil
}
