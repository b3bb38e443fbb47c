package api

import (
	"context"
	"fmt"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	_ "github.com/sitepulse/site-presence/docs"
	"github.com/sitepulse/site-presence/internal/api/handler"
	"github.com/sitepulse/site-presence/internal/api/middleware"
	"github.com/sitepulse/site-presence/internal/core/domain"
	"github.com/sitepulse/site-presence/internal/core/service"
	mongostore "github.com/sitepulse/site-presence/internal/infrastructure/db/mongo"
	redisstore "github.com/sitepulse/site-presence/internal/infrastructure/db/redis"
	"github.com/sitepulse/site-presence/internal/infrastructure/queue"
	"github.com/sitepulse/site-presence/internal/pkg/config"
)

// Handlers groups everything the route table serves.
type Handlers struct {
	Auth     *handler.AuthHandler
	Presence *handler.PresenceHandler
	Risk     *handler.RiskHandler
	DPR      *handler.DPRHandler
	Health   *handler.HealthHandler
	Ready    *handler.HealthDependenciesHandler
}

// NewRouter wires repositories, services and handlers and returns the Echo
// instance with all routes registered. The offline check-in dispatcher runs
// until ctx is cancelled.
func NewRouter(ctx context.Context, db *mongo.Database, rdb *redis.Client, cfg *config.Config, log zerolog.Logger) (*echo.Echo, error) {
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}

	// --- Dependencies ---
	authRepo := mongostore.NewAuthRepository(db)
	projectRepo := mongostore.NewProjectRepository(db)
	attendanceRepo := mongostore.NewAttendanceRepository(db)
	dprRepo := mongostore.NewDPRRepository(db)
	signalRepo := mongostore.NewSignalRepository(db)

	if err := mongostore.EnsureIndexes(ctx, authRepo, projectRepo, attendanceRepo, dprRepo, signalRepo); err != nil {
		return nil, fmt.Errorf("ensure indexes: %w", err)
	}

	guard := redisstore.NewCheckInGuard(rdb, cfg.Presence.CheckInGuardTTL)

	authService := service.NewAuthService(authRepo, cfg.JWTSecret, 0)
	presenceService := service.NewPresenceService(projectRepo, attendanceRepo, dprRepo, guard, service.PresenceOptions{
		LocateTimeout: cfg.Presence.LocateTimeout,
		Location:      loc,
	}, log.With().Str("component", "presence").Logger())
	riskService := service.NewRiskService(projectRepo, signalRepo, service.RiskOptions{
		MaxParallel: cfg.Workers.RiskMaxParallel,
		Location:    loc,
	}, log.With().Str("component", "risk").Logger())
	dprService := service.NewDPRService(projectRepo, attendanceRepo, dprRepo, loc, log.With().Str("component", "dpr").Logger())

	dispatcher := queue.NewDispatcher(cfg.Workers.QueueWorkers, presenceService, cfg.Presence.MaxAccuracyM,
		log.With().Str("component", "dispatcher").Logger())
	dispatcher.Start(ctx)

	h := Handlers{
		Auth:     handler.NewAuthHandler(authService),
		Presence: handler.NewPresenceHandler(presenceService, dispatcher, cfg.Presence.MaxAccuracyM),
		Risk:     handler.NewRiskHandler(riskService),
		DPR:      handler.NewDPRHandler(dprService),
		Health:   handler.NewHealthHandler(),
		Ready: handler.NewHealthDependenciesHandler(map[string]handler.DependencyCheck{
			"mongodb": func(ctx context.Context) error {
				return db.RunCommand(ctx, bson.D{{Key: "ping", Value: 1}}).Err()
			},
			"redis": func(ctx context.Context) error {
				return rdb.Ping(ctx).Err()
			},
		}),
	}

	return newEcho(h, cfg.JWTSecret, prometheus.DefaultRegisterer, prometheus.DefaultGatherer, log), nil
}

// newEcho registers middleware and the route table. HTTP request metrics are
// registered on reg and /metrics serves everything gatherer collects.
func newEcho(h Handlers, jwtSecret string, reg prometheus.Registerer, gatherer prometheus.Gatherer, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(requestLogger(log))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  "site_presence",
		Registerer: reg,
	}))

	// --- Auth routes ---
	e.POST("/auth/register", h.Auth.Register)
	e.POST("/auth/login", h.Auth.Login)

	// --- Health probes (no auth required) ---
	e.GET("/health", h.Health.Liveness)       // liveness: is the process alive?
	e.GET("/health/ready", h.Ready.Readiness) // readiness: are dependencies up?

	// --- Operational ---
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: gatherer}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// --- Site presence & risk ---
	v1 := e.Group("/v1", middleware.Auth(jwtSecret))
	engineerOnly := middleware.RBAC(domain.RoleEngineer)
	anyRole := middleware.RBAC(domain.RoleEngineer, domain.RoleOwner)

	v1.POST("/projects/:project_id/check-in", h.Presence.CheckIn, engineerOnly)
	v1.GET("/projects/:project_id/presence", h.Presence.Status, anyRole)
	v1.POST("/check-ins/batch", h.Presence.SyncBatch, engineerOnly)
	v1.POST("/projects/:project_id/dpr", h.DPR.Submit, engineerOnly)
	v1.GET("/projects/:project_id/risk", h.Risk.Project, anyRole)
	v1.GET("/radar", h.Risk.Radar, anyRole)

	return e
}

// requestLogger emits one zerolog line per request.
func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			ev := log.Info()
			if v.Status >= 500 {
				ev = log.Error()
			}
			if v.Error != nil {
				ev = ev.Err(v.Error)
			}
			ev.Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Msg("request")
			return nil
		},
	})
}
