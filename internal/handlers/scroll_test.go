package handlers

import (
	"database/sql"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pagepulse/pagepulse/internal/realtime"
)

func TestTrackScroll(t *testing.T) {
	env := newTestEnv(t)

	env.mock.ExpectQuery("INSERT INTO scroll_tracking").
		WithArgs(int64(42), 50, 52, "Content", 4800, 900).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(11)))

	body := `{"visit_id":42,"milestone":50,"scroll_percentage":52,"section_name":"Content","page_height":4800,"viewport_height":900}`
	req := httptest.NewRequest("POST", "/api/scroll", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := env.app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 201, resp.StatusCode)

	got := decodeBody(t, resp)
	assert.Equal(t, true, got["success"])
	assert.Equal(t, float64(11), got["scroll_tracking_id"])

	require.Len(t, env.events, 1)
	assert.Equal(t, realtime.EventScroll, env.events[0].Type)
	assert.Equal(t, 50, env.events[0].Milestone)

	require.NoError(t, env.mock.ExpectationsWereMet())
}

func TestTrackScrollDuplicate(t *testing.T) {
	env := newTestEnv(t)

	env.mock.ExpectQuery("INSERT INTO scroll_tracking").
		WillReturnError(sql.ErrNoRows)

	body := `{"visit_id":42,"milestone":50,"scroll_percentage":52}`
	req := httptest.NewRequest("POST", "/api/scroll", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := env.app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	got := decodeBody(t, resp)
	assert.Equal(t, true, got["success"])
	assert.Equal(t, true, got["duplicate"])
	assert.Empty(t, env.events)
}

func TestTrackScrollAnonymousVisit(t *testing.T) {
	env := newTestEnv(t)

	env.mock.ExpectQuery("INSERT INTO scroll_tracking").
		WithArgs(nil, 100, 100, nil, nil, nil).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(12)))

	body := `{"milestone":100,"scroll_percentage":100}`
	req := httptest.NewRequest("POST", "/api/scroll", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := env.app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 201, resp.StatusCode)
	require.NoError(t, env.mock.ExpectationsWereMet())
}

func TestTrackScrollValidation(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"milestone not in set", `{"milestone":30,"scroll_percentage":30}`},
		{"zero milestone", `{"scroll_percentage":10}`},
		{"missing scroll_percentage", `{"milestone":25}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			req := httptest.NewRequest("POST", "/api/scroll", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")

			resp, err := env.app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, 400, resp.StatusCode)
		})
	}
}
