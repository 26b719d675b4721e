package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"

	"dsu-attendance/app/config"
	"dsu-attendance/app/feeds"
	"dsu-attendance/app/logging"
	"dsu-attendance/app/routes/attendance"
	"dsu-attendance/app/routes/auth"
	"dsu-attendance/app/routes/dashboard"
	"dsu-attendance/app/routes/reports"
	"dsu-attendance/app/routes/students"
	"dsu-attendance/app/services"
	"dsu-attendance/app/session"
)

// customErrorHandler answers every unhandled error as JSON.
func customErrorHandler(c *fiber.Ctx, err error) error {
	// Status code defaults to 500
	code := fiber.StatusInternalServerError

	var e *fiber.Error
	if errors.As(err, &e) {
		code = e.Code
	}

	message := err.Error()
	if code == fiber.StatusInternalServerError {
		message = "Internal server error"
	}

	return c.Status(code).JSON(fiber.Map{
		"success": false,
		"error":   message,
		"code":    code,
	})
}

func newApp(cfg *config.Config, log *zap.Logger, svc *services.AttendanceService, store session.Store) *fiber.App {
	app := fiber.New(fiber.Config{
		JSONEncoder:           sonic.Marshal,
		JSONDecoder:           sonic.Unmarshal,
		ErrorHandler:          customErrorHandler,
		DisableStartupMessage: true,
		ReadTimeout:           15 * time.Second,
		WriteTimeout:          2 * time.Minute,
		IdleTimeout:           90 * time.Second,
	})

	// Middleware
	app.Use(recover.New(recover.Config{EnableStackTrace: true}))
	app.Use(logger.New(logger.Config{
		Format:   "[${time}] ${status} - ${latency} ${method} ${path}\n",
		TimeZone: cfg.Timezone,
	}))
	app.Use(cors.New())
	app.Use(compress.New(compress.Config{Level: compress.LevelDefault}))

	// Routes
	app.Get("/", func(c *fiber.Ctx) error {
		return c.Redirect("/auth/login")
	})
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})

	authHandler := auth.NewHandler(cfg.Auth, store, log)
	auth.SetupAuthRoutes(app, authHandler)

	protect := authHandler.AuthMiddleware
	dashboard.SetupDashboardRoutes(app, svc, protect)
	attendance.SetupAttendanceRoutes(app, svc, protect)
	students.SetupStudentsRoutes(app, svc, protect)
	reports.SetupReportsRoutes(app, svc, protect)

	// Catch-all route for 404 errors (must be last)
	app.Use(func(c *fiber.Ctx) error {
		return fiber.NewError(fiber.StatusNotFound, "Not found: "+c.Path())
	})

	return app
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fallback, _ := logging.New("info", "console")
		fallback.Fatal("failed to load config", zap.Error(err))
	}

	log, err := logging.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		panic(err)
	}
	defer func() { _ = log.Sync() }()

	time.Local = cfg.Location()
	log.Info("time zone set", zap.String("zone", time.Local.String()))

	if !cfg.LoginEnabled() {
		log.Warn("AUTH_EMAIL or AUTH_PASSWORD_HASH is unset; every login will be refused")
	}
	if strings.TrimSpace(cfg.Feeds.PresentURL) == "" {
		log.Warn("PRESENT_FEED_URL is unset; every student will be reported absent")
	}

	store := session.NewMemoryStore(cfg.Auth.SessionTimeout)
	svc := services.NewAttendanceService(feeds.NewClient(cfg.Feeds.Timeout, log), log, services.AttendanceServiceOptions{
		PresentURL: cfg.Feeds.PresentURL,
		RosterURL:  cfg.Feeds.RosterURL,
	})

	// Start background scheduler
	scheduler, err := services.StartScheduler(cfg.Refresh, svc, store, log)
	if err != nil {
		log.Fatal("failed to start scheduler", zap.Error(err))
	}

	app := newApp(cfg, log, svc, store)

	go func() {
		log.Info("server starting", zap.String("port", cfg.Port))
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Fatal("server error", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := app.ShutdownWithContext(ctx); err != nil {
		log.Warn("shutdown", zap.Error(err))
	}
	scheduler.Stop()
}
