// Package todofast wires the sync engine together: configuration, logger,
// persistent cache, backend gateway, optimistic engine, calendar event
// cache and session. Hosts embed App and drive it from their UI loop.
package todofast

import (
	"context"
	"fmt"
	"sync"
	"time"

	"todofast/config"
	"todofast/internal/cache"
	"todofast/internal/engine"
	"todofast/internal/eventcache"
	"todofast/internal/gateway"
	"todofast/internal/session"
	"todofast/pkg/dates"
	"todofast/pkg/gcalendar"
	"todofast/pkg/log"
)

// App is the assembled engine. Fields are exposed so hosts can reach each
// layer directly; Session gates everything that needs a user.
type App struct {
	Config  *config.Config
	Logger  log.Logger
	Store   cache.Store
	Gateway gateway.Gateway
	Engine  engine.Engine
	Events  eventcache.Cache
	Session session.Session
	Clock   *dates.Clock

	mu       sync.Mutex
	stopSync context.CancelFunc
}

// New loads configuration from the usual locations and assembles the app.
func New(ctx context.Context) (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return NewWithConfig(ctx, cfg)
}

// NewWithConfig assembles the app from an explicit configuration.
func NewWithConfig(ctx context.Context, cfg *config.Config) (*App, error) {
	logger := log.Init(log.ZapConfig{
		Level:        cfg.Logger.Level,
		Mode:         cfg.Logger.Mode,
		Encoding:     cfg.Logger.Encoding,
		ColorEnabled: cfg.Logger.ColorEnabled,
	})

	store, err := cache.New(cfg.Cache.Directory)
	if err != nil {
		return nil, fmt.Errorf("open cache: %w", err)
	}

	gw := gateway.NewClient(gateway.Config{
		BaseURL:       cfg.API.BaseURL,
		Timeout:       cfg.API.Timeout,
		BackgroundRPS: cfg.Sync.BackgroundRPS,
	}, logger)

	eng := engine.New(logger, gw, store, cfg.Sync.ReconcileTimeout)

	clock, err := dates.NewClock(cfg.Calendar.Timezone)
	if err != nil {
		logger.Warnf(ctx, "invalid timezone %q, falling back to UTC: %v", cfg.Calendar.Timezone, err)
		clock, _ = dates.NewClock("UTC")
	}

	// Events come from the backend relay unless direct Google Calendar
	// credentials are configured.
	var source eventcache.EventSource = gw
	if cfg.Calendar.CredentialsPath != "" {
		gcal, gcalErr := gcalendar.NewClientFromCredentialsFile(ctx, cfg.Calendar.CredentialsPath)
		if gcalErr != nil {
			logger.Warnf(ctx, "Google Calendar not available, using backend relay: %v", gcalErr)
		} else {
			loc, locErr := time.LoadLocation(cfg.Calendar.Timezone)
			if locErr != nil {
				loc = time.UTC
			}
			source = &eventcache.GoogleSource{
				Client:     gcal,
				CalendarID: cfg.Calendar.CalendarID,
				Location:   loc,
			}
			logger.Info(ctx, "Google Calendar source initialized")
		}
	}
	events := eventcache.New(logger, source)

	sess := session.New(logger, gw, store, eng, events)

	return &App{
		Config:  cfg,
		Logger:  logger,
		Store:   store,
		Gateway: gw,
		Engine:  eng,
		Events:  events,
		Session: sess,
		Clock:   clock,
	}, nil
}

// StartSync begins periodic background refresh: the calendar is primed
// with the configured initial window around today, then the task
// collections are reloaded and the cached calendar intervals refetched on
// the configured poll interval. Starting again restarts the loop. The
// returned stop function is idempotent.
func (a *App) StartSync(ctx context.Context) (stop func()) {
	syncCtx, cancel := context.WithCancel(ctx)

	a.mu.Lock()
	if a.stopSync != nil {
		a.stopSync()
	}
	a.stopSync = cancel
	a.mu.Unlock()

	go func() {
		if err := a.Events.Prime(syncCtx, a.Clock.Now(), a.Config.Calendar.InitialWindowMonths); err != nil {
			a.Logger.Warnf(syncCtx, "calendar prime: %v", err)
		}
	}()

	stopEvents := a.Events.StartPolling(syncCtx, a.Config.Calendar.PollInterval)

	go func() {
		defer stopEvents()
		ticker := time.NewTicker(a.Config.Calendar.PollInterval)
		defer ticker.Stop()
		for {
			select {
			case <-syncCtx.Done():
				return
			case <-ticker.C:
				sc, ok := a.Session.Scope()
				if !ok || a.Session.State() != session.StateActive {
					continue
				}
				if err := a.Engine.Reload(syncCtx, sc); err != nil {
					a.Logger.Warnf(syncCtx, "background reload: %v", err)
				}
			}
		}
	}()
	return cancel
}

// StopSync cancels the background refresh loop, if running.
func (a *App) StopSync() {
	a.mu.Lock()
	cancel := a.stopSync
	a.stopSync = nil
	a.mu.Unlock()
	if cancel != nil {
		cancel()
	}
}

// Close stops background work and waits for in-flight reconciliations.
func (a *App) Close() {
	a.StopSync()
	a.Engine.Flush()
}
