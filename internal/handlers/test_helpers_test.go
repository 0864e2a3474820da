package handlers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gofiber/fiber/v3"
	"github.com/stretchr/testify/require"

	"github.com/pagepulse/pagepulse/internal/config"
	"github.com/pagepulse/pagepulse/internal/realtime"
)

type testEnv struct {
	app    *fiber.App
	mock   sqlmock.Sqlmock
	events []realtime.EventPayload
}

// newTestEnv wires an App around a sqlmock connection and registers all
// routes without auth middleware.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	env := &testEnv{mock: mock}

	a := &App{
		DB:  db,
		Cfg: &config.Config{SecureCookies: false},
		Notifier: func(_ context.Context, payload realtime.EventPayload) {
			env.events = append(env.events, payload)
		},
	}

	app := fiber.New()
	app.Post("/api/leads", a.CreateLead)
	app.Get("/api/leads", a.ListLeads)
	app.Get("/api/leads/stats", a.GetLeadStats)
	app.Post("/api/visits", a.TrackVisit)
	app.Patch("/api/visits", a.UpdateVisit)
	app.Get("/api/visits/stats", a.GetVisitStats)
	app.Get("/api/visits/export", a.ExportVisits)
	app.Post("/api/scroll", a.TrackScroll)
	app.Get("/api/scroll/stats", a.GetScrollStats)

	env.app = app
	return env
}

func decodeRaw(t *testing.T, resp *http.Response) string {
	t.Helper()
	defer func() { _ = resp.Body.Close() }()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(data)
}

func decodeBody(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	defer func() { _ = resp.Body.Close() }()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var body map[string]any
	require.NoError(t, json.Unmarshal(data, &body))
	return body
}
