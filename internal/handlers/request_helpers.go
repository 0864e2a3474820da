package handlers

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

var mobileMarkers = []string{
	"android", "webos", "iphone", "ipad", "ipod",
	"blackberry", "iemobile", "opera mini",
}

var tabletMarkers = []string{"ipad", "tablet", "playbook", "silk"}

var desktopMarkers = []string{"windows", "macintosh", "linux"}

// detectDeviceType buckets a User-Agent into mobile, tablet, desktop or
// unknown. Tablet markers are only consulted within a mobile match, so
// an iPad is a tablet while a desktop UA mentioning "Tablet PC" stays
// desktop.
func detectDeviceType(userAgent string) string {
	ua := strings.ToLower(userAgent)

	containsAny := func(markers []string) bool {
		for _, m := range markers {
			if strings.Contains(ua, m) {
				return true
			}
		}
		return false
	}

	switch {
	case containsAny(mobileMarkers):
		if containsAny(tabletMarkers) {
			return "tablet"
		}
		return "mobile"
	case containsAny(desktopMarkers):
		return "desktop"
	default:
		return "unknown"
	}
}

// clientIP extracts the visitor IP from proxy headers. The service always
// sits behind a proxy, so the socket address is never consulted.
func clientIP(c fiber.Ctx) string {
	if xff := c.Get("X-Forwarded-For"); xff != "" {
		return strings.TrimSpace(strings.Split(xff, ",")[0])
	}
	if realIP := c.Get("X-Real-IP"); realIP != "" {
		return realIP
	}
	if cip := c.Get("X-Client-IP"); cip != "" {
		return cip
	}
	return "unknown"
}

const sessionCookieName = "session_id"

// sessionID returns the session cookie value, or mints a new
// "session_<unix-ms>_<suffix>" identifier.
func sessionID(c fiber.Ctx) string {
	if sid := c.Cookies(sessionCookieName); sid != "" {
		return sid
	}
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:13]
	return fmt.Sprintf("session_%d_%s", time.Now().UnixMilli(), suffix)
}

func setSessionCookie(c fiber.Ctx, sid string, secure bool) {
	c.Cookie(&fiber.Cookie{
		Name:     sessionCookieName,
		Value:    sid,
		MaxAge:   1800,
		Secure:   secure,
		HTTPOnly: false,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

// breakdownPct rounds a share to one decimal place, the resolution the
// dashboard renders breakdown rows at.
func breakdownPct(count, total int) float64 {
	if total == 0 {
		total = 1
	}
	return math.Round(float64(count)/float64(total)*1000) / 10
}

// ratePct rounds a share to two decimal places, used for conversion,
// bounce and scroll-depth rates.
func ratePct(count, total int) float64 {
	if total == 0 {
		total = 1
	}
	return math.Round(float64(count)/float64(total)*10000) / 100
}
