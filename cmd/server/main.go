package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"

	"devcamper/docs"
	"devcamper/internal/auth"
	"devcamper/internal/cache"
	"devcamper/internal/config"
	"devcamper/internal/events"
	"devcamper/internal/handler"
	"devcamper/internal/logging"
	"devcamper/internal/mailer"
	"devcamper/internal/repository"
	"devcamper/internal/router"
	"devcamper/internal/service"
	"devcamper/internal/validation"
)

const shutdownTimeout = 10 * time.Second

// @title DevCamper API
// @version 1.0
// @description Bootcamp directory API with courses, users and JWT authentication.
// @host localhost:5000
// @BasePath /api/v1
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.New("info", true).Fatal().Err(err).Msg("load config")
	}
	logger := logging.New(cfg.LogLevel, !cfg.IsProduction())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	stores, closeStores, err := repository.Open(ctx, logger, cfg)
	if err != nil {
		logger.Fatal().Err(err).Str("driver", cfg.DBDriver).Msg("database init")
	}
	defer closeStores()

	cacheClient := cache.New(logger, cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	if err := cacheClient.Ping(ctx); err != nil {
		logger.Warn().Err(err).Msg("redis unreachable, caching and token revocation degraded")
	}
	defer cacheClient.Close()

	publisher, err := events.Open(logger, cfg.EventsDriver, cfg.NATSURL, cfg.KafkaBrokers, cfg.KafkaTopic)
	if err != nil {
		logger.Warn().Err(err).Str("driver", cfg.EventsDriver).Msg("event publisher unavailable, events disabled")
		publisher = events.Noop{}
	}
	notifier := events.NewNotifier(logger, publisher)
	defer notifier.Close()

	validator := validation.New()
	jwtService := auth.NewJWTService(cfg.JWTSecret, cfg.JWTExpire)
	tokenStore := auth.NewTokenStore(cacheClient)

	authService := service.NewAuthService(logger, stores.Users, jwtService, tokenStore, mailer.New(logger, cfg.SMTP), validator, notifier)
	bootcampService := service.NewBootcampService(stores.Bootcamps, validator, cacheClient, notifier)
	courseService := service.NewCourseService(stores.Courses, validator, notifier)
	userService := service.NewUserService(stores.Users, validator, notifier)
	seedService := service.NewSeedService(stores.Bootcamps, validator, cacheClient, notifier)

	if cfg.SwaggerHost != "" {
		docs.SwaggerInfo.Host = cfg.SwaggerHost
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	router.Register(e, cfg, router.Deps{
		Logger:      logger,
		Tokens:      jwtService,
		Revocations: tokenStore,
		Users:       stores.Users,
		Auth: handler.NewAuthHandler(authService, handler.CookieSettings{
			TTL:    cfg.CookieTTL(),
			Secure: cfg.IsProduction(),
		}, cfg.ResetURL),
		Bootcamps: handler.NewBootcampHandler(bootcampService),
		Courses:   handler.NewCourseHandler(courseService),
		UserAdmin: handler.NewUserHandler(userService),
		Seed:      handler.NewSeedHandler(seedService),
	})

	go func() {
		addr := ":" + cfg.ServerPort
		logger.Info().Str("addr", addr).Str("env", cfg.Env).Msg("server listening")
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("server start")
		}
	}()

	<-ctx.Done()
	logger.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("server shutdown")
	}
}
