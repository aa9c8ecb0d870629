// Package cli wires the stores into the wt command surface. Commands are
// thin: they parse arguments, call store operations, and print results.
package cli

import (
	"context"
	"os"
	"time"

	"github.com/palpal-apps/work-tracker/internal/config"
	"github.com/palpal-apps/work-tracker/internal/localstore"
	"github.com/palpal-apps/work-tracker/internal/remote"
	"github.com/palpal-apps/work-tracker/internal/settings"
	"github.com/palpal-apps/work-tracker/internal/store"
	"github.com/palpal-apps/work-tracker/internal/timeutil"
)

// timeNow is a variable that can be replaced in tests
var timeNow = func() time.Time { return timeutil.Clock() }

// App holds the assembled application: configuration, the local cache, and
// the entry and settings stores over it.
type App struct {
	config   *config.Config
	local    localstore.Store
	entries  *store.EntryStore
	settings *settings.SettingsStore
}

// NewApp assembles the application from configuration: opens the local cache,
// selects the remote backend, and loads both stores.
func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	if err := os.MkdirAll(cfg.Database.Dir, 0755); err != nil {
		return nil, err
	}
	local, err := localstore.New(cfg.DatabasePath())
	if err != nil {
		return nil, err
	}

	docs, err := remote.NewFromConfig(ctx, cfg)
	if err != nil {
		local.Close()
		return nil, err
	}

	app := newAppWithBackends(cfg, local, docs)
	if err := app.load(ctx); err != nil {
		local.Close()
		return nil, err
	}
	return app, nil
}

// newAppWithBackends assembles the application over explicit backends.
// Production goes through NewApp; tests inject their own.
func newAppWithBackends(cfg *config.Config, local localstore.Store, docs remote.DocumentStore) *App {
	return &App{
		config:   cfg,
		local:    local,
		entries:  store.New(local, docs),
		settings: settings.New(local, docs),
	}
}

func (a *App) load(ctx context.Context) error {
	if err := a.entries.Load(ctx); err != nil {
		return err
	}
	return a.settings.Load(ctx)
}

// Close releases the local cache.
func (a *App) Close() error {
	return a.local.Close()
}

// location returns the display zone for the current timezone preference.
func (a *App) location() *time.Location {
	return timeutil.LoadLocation(a.settings.Timezone())
}
