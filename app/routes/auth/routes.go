package auth

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"go.uber.org/zap"
)

func SetupAuthRoutes(app *fiber.App, h *Handler) {
	auth := app.Group("/auth")

	auth.Post("/login", limiter.New(limiter.Config{
		Max:        10,
		Expiration: time.Minute,
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{"error": "Too many login attempts"})
		},
	}), h.LoginAPI)
	auth.Post("/logout", h.LogoutAPI)

	auth.Get("/session", h.AuthMiddleware, h.SessionAPI)
}

// tokenFrom reads the session token from the cookie, then the Authorization header.
func tokenFrom(c *fiber.Ctx) string {
	if token := c.Cookies(CookieName); token != "" {
		return token
	}
	auth := c.Get(fiber.HeaderAuthorization)
	if strings.HasPrefix(auth, "Bearer ") {
		return strings.TrimPrefix(auth, "Bearer ")
	}
	return ""
}

// AuthMiddleware validates the session token, rejects idle sessions and
// records activity on live ones.
func (h *Handler) AuthMiddleware(c *fiber.Ctx) error {
	tokenString := tokenFrom(c)
	if tokenString == "" {
		return c.Status(401).JSON(fiber.Map{"error": "No token found"})
	}

	claims, err := ValidateJWT([]byte(h.cfg.JWTSecret), tokenString)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": "Invalid token"})
	}

	now := h.now()
	if h.store.IsExpired(claims.SessionID, now) {
		_ = h.store.Clear(claims.SessionID)
		h.logger.Debug("session expired", zap.String("session", claims.SessionID))
		return c.Status(401).JSON(fiber.Map{"error": "Session expired", "expired": true})
	}
	if err := h.store.Touch(claims.SessionID, now); err != nil {
		return c.Status(401).JSON(fiber.Map{"error": "Session expired", "expired": true})
	}

	sess, err := h.store.Get(claims.SessionID)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": "Session expired", "expired": true})
	}
	c.Locals(sessionKey, sess)

	return c.Next()
}
