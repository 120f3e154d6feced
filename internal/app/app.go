package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/veilcall/core/internal/config"
	"github.com/veilcall/core/internal/middleware"
	"github.com/veilcall/core/internal/modules/auth/user"
	"github.com/veilcall/core/internal/modules/signaling"
	pkgcron "github.com/veilcall/core/internal/pkg/cron"
	jwtpkg "github.com/veilcall/core/internal/pkg/jwt"
	"github.com/veilcall/core/internal/store"
	"go.uber.org/zap"
)

// App holds all application dependencies. The stores are created here and torn
// down with the app, so each test (and each process) owns its state.
type App struct {
	cfg     *config.AppConfig
	router  *gin.Engine
	hub     *signaling.Hub
	authSvc *user.Service
	sched   *pkgcron.Scheduler
	logger  *zap.Logger
	cancel  context.CancelFunc
}

// New initializes the application: config → stores → hub → routes.
func New(logger *zap.Logger, cfg *config.AppConfig) (*App, error) {
	if cfg == nil {
		return nil, errors.New("config is nil")
	}

	if secret := strings.TrimSpace(cfg.JWTSecret); secret != "" {
		jwtpkg.SetSecret(secret)
	} else {
		logger.Warn("jwt_secret is empty, using built-in default secret")
	}

	if cfg.IsDev() {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.HandleMethodNotAllowed = true
	router.Use(gin.Recovery())
	router.Use(middleware.Logger(logger))

	corsConfig := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
	}
	if len(cfg.AllowedOrigins) > 0 && !cfg.IsDev() {
		patterns := cfg.AllowedOrigins
		corsConfig.AllowOriginFunc = func(origin string) bool {
			host := extractOriginHost(origin)
			for _, pattern := range patterns {
				if matchOriginPattern(pattern, host) {
					return true
				}
			}
			return false
		}
	} else {
		corsConfig.AllowOriginFunc = func(origin string) bool { return true }
	}
	router.Use(cors.New(corsConfig))

	users := store.NewUserStore()
	sessions := store.NewSessionStore()
	authSvc := user.NewService(users, sessions, cfg.SessionTTL, logger)

	hub := signaling.NewHub(cfg.Room.Capacity, cfg.Room.MaxJoinAttempts, func(token string) bool {
		_, err := authSvc.VerifyToken(middleware.NormalizeToken(token))
		return err == nil
	}, logger)

	ctx, cancel := context.WithCancel(context.Background())
	sched := pkgcron.New()
	registerCronJobs(sched, authSvc, hub, cfg, logger)
	go sched.Start(ctx)

	app := &App{
		cfg:     cfg,
		router:  router,
		hub:     hub,
		authSvc: authSvc,
		sched:   sched,
		logger:  logger,
		cancel:  cancel,
	}
	app.registerRoutes()

	return app, nil
}

// Addr returns the listen address.
func (a *App) Addr() string { return fmt.Sprintf(":%d", a.cfg.Port) }

// Router returns the HTTP handler.
func (a *App) Router() http.Handler { return a.router }

// Shutdown disconnects signaling clients and stops background sweeps.
func (a *App) Shutdown() {
	a.cancel()
	a.hub.Close()
}
