package handlers

import (
	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"

	"github.com/pagepulse/pagepulse/internal/logging"
)

// ExportVisits handles GET /api/visits/export (admin): the full raw
// visit list, newest first. The dashboard turns this into a CSV
// download client-side.
func (a *App) ExportVisits(c fiber.Ctx) error {
	rows, err := a.DB.QueryContext(c.Context(), `
		SELECT id, ip, device, country, referrer, utm_source, utm_medium,
			utm_campaign, utm_term, utm_content, user_agent, page_url, session_id,
			converted, lead_id, visit_duration, created_at, converted_at
		FROM visits
		ORDER BY created_at DESC`)
	if err != nil {
		logging.L().Error("failed to query visits for export", zap.Error(err))
		return c.Status(500).JSON(fiber.Map{
			"success": false,
			"message": "Failed to export visits",
		})
	}
	defer func() { _ = rows.Close() }()

	visits := make([]Visit, 0)
	for rows.Next() {
		var v Visit
		if err := rows.Scan(
			&v.ID, &v.IP, &v.Device, &v.Country, &v.Referrer,
			&v.UTMSource, &v.UTMMedium, &v.UTMCampaign, &v.UTMTerm, &v.UTMContent,
			&v.UserAgent, &v.PageURL, &v.SessionID,
			&v.Converted, &v.LeadID, &v.VisitDuration, &v.CreatedAt, &v.ConvertedAt,
		); err != nil {
			logging.L().Error("failed to scan visit for export", zap.Error(err))
			return c.Status(500).JSON(fiber.Map{
				"success": false,
				"message": "Failed to export visits",
			})
		}
		visits = append(visits, v)
	}
	if err := rows.Err(); err != nil {
		logging.L().Error("failed to iterate visits for export", zap.Error(err))
		return c.Status(500).JSON(fiber.Map{
			"success": false,
			"message": "Failed to export visits",
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"visits":  visits,
		"count":   len(visits),
	})
}
