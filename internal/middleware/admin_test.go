package middleware

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valyala/fasthttp"
)

func TestSharedSecret(t *testing.T) {
	check := SharedSecret("s3cret")

	tests := []struct {
		name   string
		header string
		want   bool
	}{
		{"exact match", "Bearer s3cret", true},
		{"surrounding whitespace", "  Bearer s3cret  ", true},
		{"wrong secret", "Bearer nope", false},
		{"missing scheme", "s3cret", false},
		{"lowercase scheme", "bearer s3cret", false},
		{"empty header", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, check(tt.header))
		})
	}
}

func TestSharedSecretEmptySecretRejectsEverything(t *testing.T) {
	check := SharedSecret("")
	assert.False(t, check("Bearer "))
	assert.False(t, check(""))
}

// Rejections can be asserted on a bare fasthttp request, without any
// routing setup.
func TestAdminAuthRejectsOnRequestCtx(t *testing.T) {
	app := fiber.New()
	handler := AdminAuth(SharedSecret("s3cret"))

	for _, header := range []string{"", "Bearer wrong", "s3cret"} {
		reqCtx := &fasthttp.RequestCtx{}
		if header != "" {
			reqCtx.Request.Header.Set("Authorization", header)
		}
		ctx := app.AcquireCtx(reqCtx)

		require.NoError(t, handler(ctx))
		assert.Equal(t, fiber.StatusUnauthorized, ctx.Response().StatusCode(), "header %q", header)
		assert.Contains(t, string(ctx.Response().Body()), "Unauthorized")

		app.ReleaseCtx(ctx)
	}
}

func TestAdminAuthMiddleware(t *testing.T) {
	app := fiber.New()
	app.Get("/admin", AdminAuth(SharedSecret("s3cret")), func(c fiber.Ctx) error {
		return c.SendString("ok")
	})

	t.Run("rejects missing header", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/admin", nil)
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("rejects wrong secret", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/admin", nil)
		req.Header.Set("Authorization", "Bearer wrong")
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("passes valid secret", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/admin", nil)
		req.Header.Set("Authorization", "Bearer s3cret")
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	})
}
