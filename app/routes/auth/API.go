package auth

import (
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"dsu-attendance/app/config"
	"dsu-attendance/app/models"
	"dsu-attendance/app/session"
)

const (
	CookieName = "session_token"
	sessionKey = "session"
)

var validate = validator.New()

// Handler serves the login endpoints and guards the API.
type Handler struct {
	cfg    config.AuthConfig
	store  session.Store
	logger *zap.Logger
	now    func() time.Time
}

func NewHandler(cfg config.AuthConfig, store session.Store, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{cfg: cfg, store: store, logger: logger.Named("auth"), now: time.Now}
}

func (h *Handler) enabled() bool {
	return h.cfg.Email != "" && h.cfg.PasswordHash != ""
}

func (h *Handler) authenticate(email, password string) error {
	if !strings.EqualFold(strings.TrimSpace(email), h.cfg.Email) {
		return ErrInvalidCredentials
	}
	if !CheckPasswordHash(password, h.cfg.PasswordHash) {
		return ErrInvalidCredentials
	}
	return nil
}

func (h *Handler) LoginAPI(c *fiber.Ctx) error {
	type LoginRequest struct {
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required"`
	}

	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Email and password are required"})
	}

	if !h.enabled() {
		return c.Status(503).JSON(fiber.Map{"error": "Login is not configured"})
	}

	if err := h.authenticate(req.Email, req.Password); err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			h.logger.Info("login rejected", zap.String("email", req.Email), zap.String("ip", c.IP()))
			return c.Status(401).JSON(fiber.Map{"error": "Invalid email or password"})
		}
		return err
	}

	now := h.now()
	sess := models.Session{
		ID:            GenerateSessionID(),
		Email:         h.cfg.Email,
		Authenticated: true,
		CreatedAt:     now,
		LastActivity:  now,
	}
	if err := h.store.Set(sess); err != nil {
		return err
	}

	token, err := GenerateJWT([]byte(h.cfg.JWTSecret), sess.ID, sess.Email, now)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to generate token"})
	}

	c.Cookie(&fiber.Cookie{
		Name:     CookieName,
		Value:    token,
		Expires:  now.Add(tokenTTL),
		HTTPOnly: true,
		SameSite: "Lax",
	})

	h.logger.Info("login", zap.String("email", sess.Email))
	return c.JSON(fiber.Map{
		"message": "Login successful",
		"session": sess,
		"token":   token,
	})
}

func (h *Handler) LogoutAPI(c *fiber.Ctx) error {
	if claims, err := ValidateJWT([]byte(h.cfg.JWTSecret), tokenFrom(c)); err == nil {
		_ = h.store.Clear(claims.SessionID)
	}

	c.Cookie(&fiber.Cookie{
		Name:     CookieName,
		Value:    "",
		Expires:  h.now().Add(-time.Hour),
		HTTPOnly: true,
	})

	return c.JSON(fiber.Map{"message": "Logged out"})
}

func (h *Handler) SessionAPI(c *fiber.Ctx) error {
	sess, ok := CurrentSession(c)
	if !ok {
		return c.Status(401).JSON(fiber.Map{"error": "No session"})
	}
	return c.JSON(fiber.Map{
		"session":    sess,
		"expires_at": sess.LastActivity.Add(h.cfg.SessionTimeout),
	})
}

// CurrentSession returns the session AuthMiddleware attached to the request.
func CurrentSession(c *fiber.Ctx) (models.Session, bool) {
	sess, ok := c.Locals(sessionKey).(models.Session)
	return sess, ok
}
