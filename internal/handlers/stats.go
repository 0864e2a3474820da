package handlers

import (
	"context"
	"fmt"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"

	"github.com/pagepulse/pagepulse/internal/logging"
)

// Milestones every scroll report covers, present even at zero count.
var milestoneSet = []int{25, 50, 75, 100}

// Landing page sections the scroll tracker labels milestones with.
var sectionLabels = []string{"Intro", "3D Book", "Price/Offer", "Content", "Footer"}

func (a *App) statsError(c fiber.Ctx, what string, err error) error {
	logging.L().Error("failed to compute stats", zap.String("stats", what), zap.Error(err))
	return c.Status(500).JSON(fiber.Map{
		"success": false,
		"message": fmt.Sprintf("Failed to compute %s stats", what),
	})
}

func (a *App) countRow(ctx context.Context, query string, args ...any) (int, error) {
	var n int
	err := a.DB.QueryRowContext(ctx, query, args...).Scan(&n)
	return n, err
}

// labelCounts runs a "label, count" aggregation query.
func (a *App) labelCounts(ctx context.Context, query string, args ...any) ([]string, []int, error) {
	rows, err := a.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, nil, err
	}
	defer func() { _ = rows.Close() }()

	var labels []string
	var counts []int
	for rows.Next() {
		var label string
		var count int
		if err := rows.Scan(&label, &count); err != nil {
			return nil, nil, err
		}
		labels = append(labels, label)
		counts = append(counts, count)
	}
	return labels, counts, rows.Err()
}

// GetLeadStats handles GET /api/leads/stats (admin).
func (a *App) GetLeadStats(c fiber.Ctx) error {
	ctx := c.Context()

	total, err := a.countRow(ctx, "SELECT COUNT(*) FROM leads")
	if err != nil {
		return a.statsError(c, "lead", err)
	}

	devices, deviceCounts, err := a.labelCounts(ctx, `
		SELECT device, COUNT(*) FROM leads
		GROUP BY device ORDER BY COUNT(*) DESC`)
	if err != nil {
		return a.statsError(c, "lead", err)
	}
	breakdown := make([]DeviceCount, 0, len(devices))
	for i, device := range devices {
		breakdown = append(breakdown, DeviceCount{
			Device:     device,
			Count:      deviceCounts[i],
			Percentage: breakdownPct(deviceCounts[i], total),
		})
	}

	cities, cityCounts, err := a.labelCounts(ctx, `
		SELECT city, COUNT(*) FROM leads
		GROUP BY city ORDER BY COUNT(*) DESC LIMIT 10`)
	if err != nil {
		return a.statsError(c, "lead", err)
	}
	topCities := make([]CityCount, 0, len(cities))
	for i, city := range cities {
		topCities = append(topCities, CityCount{
			City:       city,
			Count:      cityCounts[i],
			Percentage: breakdownPct(cityCounts[i], total),
		})
	}

	timeline, err := a.leadTimeline(ctx)
	if err != nil {
		return a.statsError(c, "lead", err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"stats": LeadStats{
			TotalLeads:      total,
			DeviceBreakdown: breakdown,
			TopCities:       topCities,
			Timeline:        timeline,
			// Leads carry no referrer column; the dashboard expects
			// the key to exist.
			Referrers: []ReferrerCount{},
		},
	})
}

// leadTimeline returns daily lead counts for the last 30 days, newest
// day first.
func (a *App) leadTimeline(ctx context.Context) ([]DailyCount, error) {
	rows, err := a.DB.QueryContext(ctx, `
		SELECT TO_CHAR(created_at::date, 'YYYY-MM-DD') AS day, COUNT(*)
		FROM leads
		WHERE created_at >= NOW() - INTERVAL '30 days'
		GROUP BY day ORDER BY day DESC`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	timeline := make([]DailyCount, 0)
	for rows.Next() {
		var d DailyCount
		if err := rows.Scan(&d.Date, &d.Count); err != nil {
			return nil, err
		}
		timeline = append(timeline, d)
	}
	return timeline, rows.Err()
}

// GetVisitStats handles GET /api/visits/stats (admin).
func (a *App) GetVisitStats(c fiber.Ctx) error {
	ctx := c.Context()

	totalVisits, err := a.countRow(ctx, "SELECT COUNT(*) FROM visits")
	if err != nil {
		return a.statsError(c, "visit", err)
	}
	totalLeads, err := a.countRow(ctx, "SELECT COUNT(*) FROM leads")
	if err != nil {
		return a.statsError(c, "visit", err)
	}
	converted, err := a.countRow(ctx, "SELECT COUNT(*) FROM visits WHERE converted = TRUE")
	if err != nil {
		return a.statsError(c, "visit", err)
	}
	bounced, err := a.countRow(ctx,
		"SELECT COUNT(*) FROM visits WHERE visit_duration IS NOT NULL AND visit_duration < 10")
	if err != nil {
		return a.statsError(c, "visit", err)
	}

	// Leads created without a tracked visit still count as conversions,
	// so the larger of the two totals wins. With zero visits the rate is
	// pinned to 0 even when such leads exist.
	conversions := totalLeads
	if converted > conversions {
		conversions = converted
	}
	conversionRate := 0.0
	if totalVisits > 0 {
		conversionRate = ratePct(conversions, totalVisits)
	}

	devices, deviceCounts, err := a.labelCounts(ctx, `
		SELECT device, COUNT(*) FROM visits
		GROUP BY device ORDER BY COUNT(*) DESC`)
	if err != nil {
		return a.statsError(c, "visit", err)
	}
	breakdown := make([]DeviceCount, 0, len(devices))
	for i, device := range devices {
		breakdown = append(breakdown, DeviceCount{
			Device:     device,
			Count:      deviceCounts[i],
			Percentage: breakdownPct(deviceCounts[i], totalVisits),
		})
	}

	referrers, referrerCounts, err := a.labelCounts(ctx, `
		SELECT referrer, COUNT(*) FROM visits
		GROUP BY referrer ORDER BY COUNT(*) DESC LIMIT 10`)
	if err != nil {
		return a.statsError(c, "visit", err)
	}
	topReferrers := make([]ReferrerCount, 0, len(referrers))
	for i, referrer := range referrers {
		topReferrers = append(topReferrers, ReferrerCount{
			Referrer:   referrer,
			Count:      referrerCounts[i],
			Percentage: breakdownPct(referrerCounts[i], totalVisits),
		})
	}

	campaigns, campaignCounts, err := a.labelCounts(ctx, `
		SELECT utm_campaign, COUNT(*) FROM visits
		WHERE utm_campaign IS NOT NULL
		GROUP BY utm_campaign ORDER BY COUNT(*) DESC LIMIT 10`)
	if err != nil {
		return a.statsError(c, "visit", err)
	}
	topCampaigns := make([]CampaignCount, 0, len(campaigns))
	for i, campaign := range campaigns {
		topCampaigns = append(topCampaigns, CampaignCount{
			Campaign:   campaign,
			Count:      campaignCounts[i],
			Percentage: breakdownPct(campaignCounts[i], totalVisits),
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"stats": VisitStats{
			TotalVisits:     totalVisits,
			TotalLeads:      totalLeads,
			ConvertedVisits: converted,
			BouncedVisits:   bounced,
			ConversionRate:  conversionRate,
			BounceRate:      ratePct(bounced, totalVisits),
			DeviceBreakdown: breakdown,
			TopReferrers:    topReferrers,
			TopCampaigns:    topCampaigns,
		},
	})
}

// GetScrollStats handles GET /api/scroll/stats (admin). Percentages are
// relative to total visits, so "45% reached the footer" reads off the
// whole audience, not just visitors that scrolled.
func (a *App) GetScrollStats(c fiber.Ctx) error {
	ctx := c.Context()

	totalVisits, err := a.countRow(ctx, "SELECT COUNT(*) FROM visits")
	if err != nil {
		return a.statsError(c, "scroll", err)
	}
	totalRows, err := a.countRow(ctx, "SELECT COUNT(*) FROM scroll_tracking")
	if err != nil {
		return a.statsError(c, "scroll", err)
	}

	milestoneCounts := make(map[int]int, len(milestoneSet))
	for _, m := range milestoneSet {
		milestoneCounts[m] = 0
	}
	rows, err := a.DB.QueryContext(ctx, `
		SELECT milestone, COUNT(*) FROM scroll_tracking GROUP BY milestone`)
	if err != nil {
		return a.statsError(c, "scroll", err)
	}
	for rows.Next() {
		var milestone, count int
		if err := rows.Scan(&milestone, &count); err != nil {
			_ = rows.Close()
			return a.statsError(c, "scroll", err)
		}
		milestoneCounts[milestone] = count
	}
	if err := rows.Err(); err != nil {
		_ = rows.Close()
		return a.statsError(c, "scroll", err)
	}
	_ = rows.Close()

	milestonePcts := make(map[int]float64, len(milestoneSet))
	for _, m := range milestoneSet {
		milestonePcts[m] = ratePct(milestoneCounts[m], totalVisits)
	}

	sections, sectionRowCounts, err := a.labelCounts(ctx, `
		SELECT section_name, COUNT(*) FROM scroll_tracking
		WHERE section_name IS NOT NULL GROUP BY section_name`)
	if err != nil {
		return a.statsError(c, "scroll", err)
	}
	counted := make(map[string]int, len(sections))
	for i, section := range sections {
		counted[section] = sectionRowCounts[i]
	}

	sectionCounts := make(map[string]int, len(sectionLabels))
	sectionPcts := make(map[string]float64, len(sectionLabels))
	for _, label := range sectionLabels {
		sectionCounts[label] = counted[label]
		sectionPcts[label] = ratePct(counted[label], totalVisits)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"stats": ScrollStats{
			TotalVisits:           totalVisits,
			TotalVisitsWithScroll: totalRows,
			MilestoneCounts:       milestoneCounts,
			MilestonePercentages:  milestonePcts,
			SectionCounts:         sectionCounts,
			SectionPercentages:    sectionPcts,
		},
	})
}
