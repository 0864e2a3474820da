package handlers

import (
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"

	"github.com/pagepulse/pagepulse/internal/logging"
	"github.com/pagepulse/pagepulse/internal/realtime"
)

// TrackVisit handles POST /api/visits. Every call inserts a new visit
// row; the session cookie only groups visits, it never dedupes them.
func (a *App) TrackVisit(c fiber.Ctx) error {
	var req VisitRequest
	if err := c.Bind().Body(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{
			"success": false,
			"message": "Invalid JSON payload",
		})
	}

	userAgent := c.Get("User-Agent")
	device := detectDeviceType(userAgent)
	ip := clientIP(c)

	// The tracker script generates the session identifier and sends it
	// in the body; the cookie and server generation are fallbacks.
	sid := strings.TrimSpace(req.SessionID)
	if sid == "" {
		sid = sessionID(c)
	}

	referrer := strings.TrimSpace(req.Referrer)
	if referrer == "" {
		referrer = "direct"
	}

	pageURL := strings.TrimSpace(req.PageURL)
	if pageURL == "" {
		pageURL = c.Get("Referer")
	}
	if pageURL == "" {
		pageURL = "unknown"
	}

	var country *string
	if a.Geo != nil {
		if code := a.Geo.Country(ip); code != "" {
			country = &code
		}
	}

	var id int64
	var createdAt time.Time
	err := a.DB.QueryRowContext(c.Context(), `
		INSERT INTO visits (ip, device, country, referrer, utm_source, utm_medium,
			utm_campaign, utm_term, utm_content, user_agent, page_url, session_id,
			visit_duration)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING id, created_at`,
		ip, device, country, referrer,
		req.UTMSource, req.UTMMedium, req.UTMCampaign, req.UTMTerm, req.UTMContent,
		userAgent, pageURL, sid, req.VisitDuration,
	).Scan(&id, &createdAt)
	if err != nil {
		logging.L().Error("failed to insert visit", zap.Error(err))
		return c.Status(500).JSON(fiber.Map{
			"success": false,
			"message": "Failed to track visit",
		})
	}

	secure := false
	if a.Cfg != nil {
		secure = a.Cfg.SecureCookies
	}
	setSessionCookie(c, sid, secure)

	a.notify(c.Context(), realtime.EventPayload{
		Type:      realtime.EventVisit,
		VisitID:   id,
		SessionID: sid,
		Device:    device,
		CreatedAt: createdAt,
	})

	return c.Status(201).JSON(fiber.Map{
		"success":    true,
		"visit_id":   id,
		"session_id": sid,
	})
}

// UpdateVisit handles PATCH /api/visits: partial updates for conversion
// linking and visit duration. A converted:false in the payload is
// ignored, the flag never goes back to false.
func (a *App) UpdateVisit(c fiber.Ctx) error {
	var req VisitUpdateRequest
	if err := c.Bind().Body(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{
			"success": false,
			"message": "Invalid JSON payload",
		})
	}

	if req.VisitID == 0 {
		return c.Status(400).JSON(fiber.Map{
			"success": false,
			"message": "visit_id is required",
		})
	}

	markConverted := req.Converted != nil && *req.Converted

	var v Visit
	err := a.DB.QueryRowContext(c.Context(), `
		UPDATE visits SET
			converted = CASE WHEN $2 THEN TRUE ELSE converted END,
			converted_at = CASE WHEN $2 THEN NOW() ELSE converted_at END,
			lead_id = COALESCE($3, lead_id),
			visit_duration = COALESCE($4, visit_duration)
		WHERE id = $1
		RETURNING id, ip, device, country, referrer, utm_source, utm_medium,
			utm_campaign, utm_term, utm_content, user_agent, page_url, session_id,
			converted, lead_id, visit_duration, created_at, converted_at`,
		req.VisitID, markConverted, req.LeadID, req.VisitDuration,
	).Scan(
		&v.ID, &v.IP, &v.Device, &v.Country, &v.Referrer,
		&v.UTMSource, &v.UTMMedium, &v.UTMCampaign, &v.UTMTerm, &v.UTMContent,
		&v.UserAgent, &v.PageURL, &v.SessionID,
		&v.Converted, &v.LeadID, &v.VisitDuration, &v.CreatedAt, &v.ConvertedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return c.Status(404).JSON(fiber.Map{
			"success": false,
			"message": "Visit not found",
		})
	}
	if err != nil {
		logging.L().Error("failed to update visit", zap.Int64("visit_id", req.VisitID), zap.Error(err))
		return c.Status(500).JSON(fiber.Map{
			"success": false,
			"message": "Failed to update visit",
		})
	}

	if markConverted {
		a.notify(c.Context(), realtime.EventPayload{
			Type:      realtime.EventConversion,
			VisitID:   v.ID,
			SessionID: v.SessionID,
			Device:    v.Device,
			CreatedAt: time.Now().UTC(),
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"visit":   v,
	})
}
