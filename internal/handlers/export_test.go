package handlers

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExportVisits(t *testing.T) {
	env := newTestEnv(t)
	now := time.Now().UTC()

	env.mock.ExpectQuery("FROM visits").
		WillReturnRows(sqlmock.NewRows(visitColumns()).
			AddRow(int64(2), "203.0.113.9", "mobile", "BR", "direct",
				"google", "cpc", "launch", nil, nil, "Mozilla/5.0", "https://example.com/",
				"session_2", true, int64(7), 120, now, now).
			AddRow(int64(1), "198.51.100.2", "desktop", nil, "https://news.example.com",
				nil, nil, nil, nil, nil, nil, nil,
				"session_1", false, nil, nil, now.Add(-time.Hour), nil))

	req := httptest.NewRequest("GET", "/api/visits/export", nil)
	resp, err := env.app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	got := decodeBody(t, resp)
	assert.Equal(t, true, got["success"])
	assert.Equal(t, float64(2), got["count"])

	visits := got["visits"].([]any)
	require.Len(t, visits, 2)
	first := visits[0].(map[string]any)
	assert.Equal(t, float64(2), first["id"])
	assert.Equal(t, "BR", first["country"])
	assert.Equal(t, true, first["converted"])
	second := visits[1].(map[string]any)
	assert.Nil(t, second["lead_id"])
}

func TestExportVisitsEmpty(t *testing.T) {
	env := newTestEnv(t)

	env.mock.ExpectQuery("FROM visits").
		WillReturnRows(sqlmock.NewRows(visitColumns()))

	resp, err := env.app.Test(httptest.NewRequest("GET", "/api/visits/export", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	got := decodeBody(t, resp)
	assert.Equal(t, float64(0), got["count"])
	assert.Equal(t, []any{}, got["visits"])
}
