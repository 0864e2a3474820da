// Package middleware provides Fiber middleware for the admin API.
package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v3"
)

// CredentialChecker reports whether an Authorization header value grants
// admin access. Implementations must tolerate surrounding whitespace.
type CredentialChecker func(authorization string) bool

// SharedSecret returns a checker that accepts exactly
// "Bearer <secret>", with whitespace trimmed on both sides.
func SharedSecret(secret string) CredentialChecker {
	expected := "Bearer " + strings.TrimSpace(secret)
	return func(authorization string) bool {
		if strings.TrimSpace(secret) == "" {
			return false
		}
		return strings.TrimSpace(authorization) == expected
	}
}

// AdminAuth guards admin routes. Requests failing the checker get a
// 401 with a JSON error body and never reach the handler.
func AdminAuth(check CredentialChecker) fiber.Handler {
	return func(c fiber.Ctx) error {
		if !check(c.Get("Authorization")) {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Unauthorized",
			})
		}
		return c.Next()
	}
}
