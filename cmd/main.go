package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/csrf"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/utils"

	"openhackathon/internal/api"
	"openhackathon/internal/archive"
	"openhackathon/internal/config"
	"openhackathon/internal/daemon"
	"openhackathon/internal/i18n"
	"openhackathon/internal/logger"
	"openhackathon/internal/middleware"
	"openhackathon/internal/ratelimit"
	"openhackathon/internal/session"
	"openhackathon/internal/storage"
	"openhackathon/internal/telemetry"
	"openhackathon/internal/validator"
	"openhackathon/internal/web"
)

func main() {
	if err := run(context.Background()); err != nil {
		panic(err)
	}
}

func run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	// Telemetry first so the logger can bridge into it
	tel, err := telemetry.New(ctx, cfg.Telemetry)
	if err != nil {
		return err
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tel.Shutdown(shutdownCtx); err != nil {
			slog.Error("Failed to shutdown telemetry", "error", err)
		}
	}()

	log := logger.New(*cfg)

	// Set up i18n translator
	defaultLang, err := i18n.ParseLanguage(cfg.Server.Language)
	if err != nil {
		log.Warn("Unsupported default language, falling back", "language", cfg.Server.Language, "fallback", i18n.ZhCN)
		defaultLang = i18n.ZhCN
	}
	translator := i18n.NewTranslator(defaultLang)
	if err := translator.LoadTranslations(); err != nil {
		return err
	}

	client := api.NewClient(cfg.API.BaseURL, cfg.API.Timeout)

	// Set up session store
	sessionStore := session.New(log.Logger, client, session.Config{
		CookieSecure: cfg.Session.CookieSecure,
		Expiration:   cfg.Session.Expiration,
		Storage:      session.NewStorage(cfg.Session),
	})

	var verifyLimiter *ratelimit.Limiter
	if cfg.Redis.URL != "" {
		verifyLimiter, err = ratelimit.NewFromURL(ctx, cfg.Redis.URL, cfg.Redis.VerifyLimit, cfg.Redis.VerifyEvery)
		if err != nil {
			return err
		}
		defer verifyLimiter.Close()
	}

	files, err := storage.New(ctx, cfg.Storage)
	if err != nil {
		return err
	}
	archiver := archive.NewArchiver(log.Logger, files)

	probe := &daemon.Probe{}
	handler := web.NewHandler(log.Logger, &translator, sessionStore, validator.New(), verifyLimiter, archiver)
	handler.Probe = probe

	// Set up Fiber app
	app := fiber.New(fiber.Config{
		ReadTimeout:           cfg.Server.ReadTimeout,
		WriteTimeout:          cfg.Server.WriteTimeout,
		ErrorHandler:          web.ErrorHandler(log.Logger, &translator),
		DisableStartupMessage: true,
	})

	app.Use(recover.New())
	app.Use(telemetry.FiberMiddleware(cfg.Telemetry.ServiceName))
	app.Use(middleware.Logger(log.Logger))

	// CSRF Protection
	app.Use(csrf.New(csrf.Config{
		KeyLookup:      "form:csrf_token",
		CookieName:     "csrf_",
		CookieSameSite: "Lax",
		CookieSecure:   cfg.Session.CookieSecure,
		Expiration:     1 * time.Hour,
		KeyGenerator:   utils.UUIDv4,
		ContextKey:     web.CSRFContextKey,
	}))

	// Rate limiting for sign-in attempts
	signInLimiter := limiter.New(limiter.Config{
		Max:        5,
		Expiration: 15 * time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return fiber.NewError(fiber.StatusTooManyRequests, "Too many sign-in attempts. Please try again later.")
		},
	})

	web.RegisterRoutes(app, handler, signInLimiter)

	manager := daemon.NewDaemonManager(log.Logger)
	if cfg.API.ProbeInterval > 0 {
		manager.Add("api-probe", daemon.APIProbeTask(client, probe, cfg.API.ProbeInterval, log.Logger))
	}
	log.Info("Starting supervised daemons...")
	manager.Start(ctx)

	serverErr := make(chan error, 1)
	go func() {
		addr := cfg.Server.Host + ":" + cfg.Server.Port
		log.Info("Starting HTTP server...", "addr", addr)
		serverErr <- app.Listen(addr)
	}()

	select {
	case <-ctx.Done():
		log.Info("Received shutdown signal")
	case err := <-serverErr:
		if err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
	}

	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		log.Error("Error shutting down", "error", err)
	}
	manager.Wait()

	log.Info("Fiber was successful shutdown.")
	return nil
}
