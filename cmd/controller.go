package cmd

import (
	"database/sql"
	"fmt"

	"github.com/mahideveloper1/Video-editor-assignment/internal"
)

// appContext bundles the wired-up session controller with its local
// store for the duration of one command.
type appContext struct {
	cfg        *internal.Config
	controller *internal.SessionController
	store      *internal.SessionStore
	db         *sql.DB
}

// newAppContext loads config, opens the local store, and restores the
// persisted session into a fresh controller.
func newAppContext() (*appContext, error) {
	cfg, err := internal.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if apiURL != "" {
		cfg.APIURL = apiURL
	}

	db, err := internal.OpenDatabase(cfg.DatabasePath())
	if err != nil {
		return nil, fmt.Errorf("failed to open session store: %w", err)
	}

	store := internal.NewSessionStore(db)
	client := internal.NewClient(cfg.APIURL, cfg.Timeout(), cfg.MaxUploadBytes())
	controller := internal.NewSessionController(client)

	state, err := store.Load()
	if err != nil {
		internal.LogWarn("failed to restore session state: %v", err)
	} else if state != nil {
		controller.RestoreState(state)
		internal.LogDebug("restored session %s (timeline version %d)", state.SessionID, state.Version)
	}

	return &appContext{cfg: cfg, controller: controller, store: store, db: db}, nil
}

// Close releases the store.
func (a *appContext) Close() {
	if a.db != nil {
		_ = a.db.Close()
	}
}

// SaveState persists the controller's session snapshot; a session that
// was reset clears the store instead.
func (a *appContext) SaveState() {
	state := a.controller.ExportState()
	if state == nil {
		if err := a.store.Reset(); err != nil {
			internal.LogWarn("failed to clear session store: %v", err)
		}
		return
	}
	if err := a.store.Save(state); err != nil {
		internal.LogWarn("failed to persist session state: %v", err)
	}
}
