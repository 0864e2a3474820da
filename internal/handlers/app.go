// Package handlers implements the HTTP API: lead capture, visit and
// scroll ingestion, and the bearer-gated admin aggregation endpoints.
package handlers

import (
	"context"
	"database/sql"

	"github.com/pagepulse/pagepulse/internal/config"
	"github.com/pagepulse/pagepulse/internal/realtime"
)

// CountryResolver maps an IP to an ISO country code, "" when unknown.
type CountryResolver interface {
	Country(ip string) string
}

// App carries the handler dependencies. Everything is injected so tests
// can swap in sqlmock and stub resolvers.
type App struct {
	DB       *sql.DB
	Cfg      *config.Config
	Geo      CountryResolver
	Notifier func(ctx context.Context, payload realtime.EventPayload)
}

func New(db *sql.DB, cfg *config.Config, geo CountryResolver) *App {
	return &App{
		DB:  db,
		Cfg: cfg,
		Geo: geo,
		Notifier: func(ctx context.Context, payload realtime.EventPayload) {
			realtime.NotifyEvent(ctx, db, payload)
		},
	}
}

func (a *App) notify(ctx context.Context, payload realtime.EventPayload) {
	if a.Notifier != nil {
		a.Notifier(ctx, payload)
	}
}
