package handlers

import "time"

type LeadRequest struct {
	Name     string `json:"name"`
	Whatsapp string `json:"whatsapp"`
	Email    string `json:"email"`
	City     string `json:"city"`
}

type Lead struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Whatsapp  string    `json:"whatsapp"`
	Email     string    `json:"email"`
	City      string    `json:"city"`
	Device    string    `json:"device"`
	IP        string    `json:"ip"`
	CreatedAt time.Time `json:"created_at"`
}

type VisitRequest struct {
	Referrer      string  `json:"referrer"`
	UTMSource     *string `json:"utm_source"`
	UTMMedium     *string `json:"utm_medium"`
	UTMCampaign   *string `json:"utm_campaign"`
	UTMTerm       *string `json:"utm_term"`
	UTMContent    *string `json:"utm_content"`
	PageURL       string  `json:"page_url"`
	SessionID     string  `json:"session_id"`
	VisitDuration *int    `json:"visit_duration"`
}

type VisitUpdateRequest struct {
	VisitID       int64  `json:"visit_id"`
	Converted     *bool  `json:"converted"`
	LeadID        *int64 `json:"lead_id"`
	VisitDuration *int   `json:"visit_duration"`
}

type Visit struct {
	ID            int64      `json:"id"`
	IP            string     `json:"ip"`
	Device        string     `json:"device"`
	Country       *string    `json:"country"`
	Referrer      string     `json:"referrer"`
	UTMSource     *string    `json:"utm_source"`
	UTMMedium     *string    `json:"utm_medium"`
	UTMCampaign   *string    `json:"utm_campaign"`
	UTMTerm       *string    `json:"utm_term"`
	UTMContent    *string    `json:"utm_content"`
	UserAgent     *string    `json:"user_agent"`
	PageURL       *string    `json:"page_url"`
	SessionID     string     `json:"session_id"`
	Converted     bool       `json:"converted"`
	LeadID        *int64     `json:"lead_id"`
	VisitDuration *int       `json:"visit_duration"`
	CreatedAt     time.Time  `json:"created_at"`
	ConvertedAt   *time.Time `json:"converted_at"`
}

type ScrollRequest struct {
	VisitID          *int64  `json:"visit_id"`
	Milestone        int     `json:"milestone"`
	ScrollPercentage *int    `json:"scroll_percentage"`
	SectionName      *string `json:"section_name"`
	PageHeight       *int    `json:"page_height"`
	ViewportHeight   *int    `json:"viewport_height"`
}

type DeviceCount struct {
	Device     string  `json:"device"`
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}

type CityCount struct {
	City       string  `json:"city"`
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}

type DailyCount struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

type ReferrerCount struct {
	Referrer   string  `json:"referrer"`
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}

type CampaignCount struct {
	Campaign   string  `json:"campaign"`
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}

type LeadStats struct {
	TotalLeads      int             `json:"total_leads"`
	DeviceBreakdown []DeviceCount   `json:"device_breakdown"`
	TopCities       []CityCount     `json:"top_cities"`
	Timeline        []DailyCount    `json:"timeline"`
	Referrers       []ReferrerCount `json:"referrers"`
}

type VisitStats struct {
	TotalVisits     int             `json:"total_visits"`
	TotalLeads      int             `json:"total_leads"`
	ConvertedVisits int             `json:"converted_visits"`
	BouncedVisits   int             `json:"bounced_visits"`
	ConversionRate  float64         `json:"conversion_rate"`
	BounceRate      float64         `json:"bounce_rate"`
	DeviceBreakdown []DeviceCount   `json:"device_breakdown"`
	TopReferrers    []ReferrerCount `json:"top_referrers"`
	TopCampaigns    []CampaignCount `json:"top_campaigns"`
}

type ScrollStats struct {
	TotalVisits           int                `json:"total_visits"`
	TotalVisitsWithScroll int                `json:"total_visits_with_scroll"`
	MilestoneCounts       map[int]int        `json:"milestone_counts"`
	MilestonePercentages  map[int]float64    `json:"milestone_percentages"`
	SectionCounts         map[string]int     `json:"section_counts"`
	SectionPercentages    map[string]float64 `json:"section_percentages"`
}
