package handlers

import (
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"

	"github.com/pagepulse/pagepulse/internal/logging"
	"github.com/pagepulse/pagepulse/internal/realtime"
)

// CreateLead handles POST /api/leads. Lead rows are immutable; the only
// side effect beyond the insert is the best-effort conversion link when
// the tracker sends an X-Visit-ID header.
func (a *App) CreateLead(c fiber.Ctx) error {
	var req LeadRequest
	if err := c.Bind().Body(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{
			"success": false,
			"message": "Invalid JSON payload",
		})
	}

	if strings.TrimSpace(req.Name) == "" ||
		strings.TrimSpace(req.Whatsapp) == "" ||
		strings.TrimSpace(req.Email) == "" ||
		strings.TrimSpace(req.City) == "" {
		return c.Status(400).JSON(fiber.Map{
			"success": false,
			"message": "All fields are required",
		})
	}

	device := detectDeviceType(c.Get("User-Agent"))
	ip := clientIP(c)

	var id int64
	var createdAt time.Time
	err := a.DB.QueryRowContext(c.Context(), `
		INSERT INTO leads (name, whatsapp, email, city, device, ip)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at`,
		req.Name, req.Whatsapp, req.Email, req.City, device, ip,
	).Scan(&id, &createdAt)
	if err != nil {
		logging.L().Error("failed to insert lead", zap.Error(err))
		return c.Status(500).JSON(fiber.Map{
			"success": false,
			"message": "Failed to save lead",
		})
	}

	// Link the originating visit when the tracker tells us which one it
	// was. A failed link never fails the capture.
	a.linkVisit(c, id)

	a.notify(c.Context(), realtime.EventPayload{
		Type:      realtime.EventLead,
		LeadID:    id,
		Device:    device,
		City:      req.City,
		CreatedAt: createdAt,
	})

	return c.Status(201).JSON(fiber.Map{
		"success": true,
		"message": "Lead captured successfully",
		"data": fiber.Map{
			"id":          id,
			"created_at":  createdAt,
			"device_type": device,
		},
	})
}

// linkVisit marks the visit named by X-Visit-ID as converted.
func (a *App) linkVisit(c fiber.Ctx, leadID int64) {
	header := strings.TrimSpace(c.Get("X-Visit-ID"))
	if header == "" {
		return
	}

	visitID, err := strconv.ParseInt(header, 10, 64)
	if err != nil {
		logging.L().Warn("ignoring malformed visit id header", zap.String("visit_id", header))
		return
	}

	result, err := a.DB.ExecContext(c.Context(), `
		UPDATE visits
		SET converted = TRUE, lead_id = $1, converted_at = NOW()
		WHERE id = $2`,
		leadID, visitID,
	)
	if err != nil {
		logging.L().Warn("failed to link visit to lead",
			zap.Int64("visit_id", visitID), zap.Int64("lead_id", leadID), zap.Error(err))
		return
	}

	if rows, err := result.RowsAffected(); err == nil && rows == 0 {
		logging.L().Warn("visit not found for lead link",
			zap.Int64("visit_id", visitID), zap.Int64("lead_id", leadID))
	}
}

// ListLeads handles GET /api/leads (admin).
func (a *App) ListLeads(c fiber.Ctx) error {
	rows, err := a.DB.QueryContext(c.Context(), `
		SELECT id, name, whatsapp, email, city, device, ip, created_at
		FROM leads
		ORDER BY created_at DESC`)
	if err != nil {
		logging.L().Error("failed to query leads", zap.Error(err))
		return c.Status(500).JSON(fiber.Map{
			"success": false,
			"message": "Failed to fetch leads",
		})
	}
	defer func() { _ = rows.Close() }()

	leads := make([]Lead, 0)
	for rows.Next() {
		var l Lead
		if err := rows.Scan(&l.ID, &l.Name, &l.Whatsapp, &l.Email, &l.City, &l.Device, &l.IP, &l.CreatedAt); err != nil {
			logging.L().Error("failed to scan lead", zap.Error(err))
			return c.Status(500).JSON(fiber.Map{
				"success": false,
				"message": "Failed to fetch leads",
			})
		}
		leads = append(leads, l)
	}
	if err := rows.Err(); err != nil {
		logging.L().Error("failed to iterate leads", zap.Error(err))
		return c.Status(500).JSON(fiber.Map{
			"success": false,
			"message": "Failed to fetch leads",
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"leads":   leads,
		"count":   len(leads),
	})
}
