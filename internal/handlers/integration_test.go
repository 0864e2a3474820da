//go:build integration

package handlers

import (
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pagepulse/pagepulse/internal/config"
	"github.com/pagepulse/pagepulse/internal/test"
)

// TestTrackingFlow runs the whole funnel against a real Postgres:
// visit, scroll milestones with store-level dedupe, lead capture with
// visit linking, and the stats rollups.
func TestTrackingFlow(t *testing.T) {
	tdb := test.NewTestDB(t)

	a := &App{DB: tdb.DB, Cfg: &config.Config{}}
	app := fiber.New()
	app.Post("/api/leads", a.CreateLead)
	app.Post("/api/visits", a.TrackVisit)
	app.Patch("/api/visits", a.UpdateVisit)
	app.Post("/api/scroll", a.TrackScroll)
	app.Get("/api/visits/stats", a.GetVisitStats)
	app.Get("/api/scroll/stats", a.GetScrollStats)

	// Visit
	req := httptest.NewRequest("POST", "/api/visits",
		strings.NewReader(`{"referrer":"https://news.example.com","page_url":"https://example.com/"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "Mozilla/5.0 (iPhone; CPU iPhone OS 17_0)")
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, 201, resp.StatusCode)
	visitID := int64(decodeBody(t, resp)["visit_id"].(float64))

	// First milestone inserts, the repeat reports a duplicate.
	scrollBody := `{"visit_id":` + itoa(visitID) + `,"milestone":25,"scroll_percentage":26,"section_name":"Intro"}`
	for i, wantStatus := range []int{201, 200} {
		req = httptest.NewRequest("POST", "/api/scroll", strings.NewReader(scrollBody))
		req.Header.Set("Content-Type", "application/json")
		resp, err = app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, wantStatus, resp.StatusCode, "attempt %d", i)
	}

	// Lead capture linking the visit.
	req = httptest.NewRequest("POST", "/api/leads",
		strings.NewReader(`{"name":"Ada","whatsapp":"+55","email":"a@b.c","city":"SP"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Visit-ID", itoa(visitID))
	resp, err = app.Test(req)
	require.NoError(t, err)
	require.Equal(t, 201, resp.StatusCode)

	// The visit is now converted; converted:false must not reset it.
	req = httptest.NewRequest("PATCH", "/api/visits",
		strings.NewReader(`{"visit_id":`+itoa(visitID)+`,"converted":false,"visit_duration":42}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err = app.Test(req)
	require.NoError(t, err)
	require.Equal(t, 200, resp.StatusCode)
	visit := decodeBody(t, resp)["visit"].(map[string]any)
	assert.Equal(t, true, visit["converted"])

	req = httptest.NewRequest("GET", "/api/visits/stats", nil)
	resp, err = app.Test(req)
	require.NoError(t, err)
	stats := decodeBody(t, resp)["stats"].(map[string]any)
	assert.Equal(t, float64(1), stats["total_visits"])
	assert.Equal(t, float64(1), stats["converted_visits"])
	assert.Equal(t, 100.0, stats["conversion_rate"])

	req = httptest.NewRequest("GET", "/api/scroll/stats", nil)
	resp, err = app.Test(req)
	require.NoError(t, err)
	scroll := decodeBody(t, resp)["stats"].(map[string]any)
	assert.Equal(t, float64(1), scroll["total_visits_with_scroll"])
	counts := scroll["milestone_counts"].(map[string]any)
	assert.Equal(t, float64(1), counts["25"])
}

func itoa(n int64) string {
	return strconv.FormatInt(n, 10)
}
