package handlers

import (
	"database/sql"
	"errors"
	"time"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"

	"github.com/pagepulse/pagepulse/internal/logging"
	"github.com/pagepulse/pagepulse/internal/realtime"
)

var validMilestones = map[int]struct{}{25: {}, 50: {}, 75: {}, 100: {}}

// TrackScroll handles POST /api/scroll. A (visit, milestone) pair is
// recorded at most once; the partial unique index makes the insert a
// no-op on repeats and the handler reports the duplicate instead of
// erroring. Rows without a visit_id always insert.
func (a *App) TrackScroll(c fiber.Ctx) error {
	var req ScrollRequest
	if err := c.Bind().Body(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{
			"success": false,
			"message": "Invalid JSON payload",
		})
	}

	if _, ok := validMilestones[req.Milestone]; !ok {
		return c.Status(400).JSON(fiber.Map{
			"success": false,
			"message": "milestone must be one of 25, 50, 75, 100",
		})
	}
	if req.ScrollPercentage == nil {
		return c.Status(400).JSON(fiber.Map{
			"success": false,
			"message": "scroll_percentage is required",
		})
	}

	var id int64
	err := a.DB.QueryRowContext(c.Context(), `
		INSERT INTO scroll_tracking
			(visit_id, milestone, scroll_percentage, section_name, page_height, viewport_height)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (visit_id, milestone) WHERE visit_id IS NOT NULL DO NOTHING
		RETURNING id`,
		req.VisitID, req.Milestone, *req.ScrollPercentage,
		req.SectionName, req.PageHeight, req.ViewportHeight,
	).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return c.Status(200).JSON(fiber.Map{
			"success":   true,
			"message":   "Milestone already recorded for this visit",
			"duplicate": true,
		})
	}
	if err != nil {
		logging.L().Error("failed to insert scroll milestone", zap.Error(err))
		return c.Status(500).JSON(fiber.Map{
			"success": false,
			"message": "Failed to track scroll",
		})
	}

	payload := realtime.EventPayload{
		Type:      realtime.EventScroll,
		Milestone: req.Milestone,
		CreatedAt: time.Now().UTC(),
	}
	if req.VisitID != nil {
		payload.VisitID = *req.VisitID
	}
	a.notify(c.Context(), payload)

	return c.Status(201).JSON(fiber.Map{
		"success":            true,
		"scroll_tracking_id": id,
	})
}
