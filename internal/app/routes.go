package app

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/veilcall/core/internal/middleware"
	"github.com/veilcall/core/internal/modules/auth/user"
	"github.com/veilcall/core/internal/modules/signaling"
	"github.com/veilcall/core/internal/modules/tasks/crontask"
	"github.com/veilcall/core/internal/pkg/jwt"
)

func (a *App) registerRoutes() {
	authLimiter := middleware.NewLimiter(
		a.cfg.RateLimit.AuthMax, a.cfg.RateLimit.Window,
		"Too many login attempts, please try again later.",
	)
	apiLimiter := middleware.NewLimiter(
		a.cfg.RateLimit.APIMax, a.cfg.RateLimit.Window,
		"Too many requests from this IP, please try again later.",
	)

	authMW := middleware.Auth(func(token string) (*jwt.Claims, error) {
		return a.authSvc.Validate(token)
	})

	api := a.router.Group("/api", apiLimiter.Middleware())

	userHandler := user.NewHandler(a.authSvc)
	userHandler.RegisterRoutes(api, authLimiter.Middleware(), authMW)

	// Cron job management (admin)
	crontask.NewHandler(a.sched).RegisterRoutes(api, authMW)

	api.GET("/gateway/stats", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"connections":     a.hub.ConnectionCount(),
			"rooms":           a.hub.Rooms().RoomCount(),
			"activeSessions":  a.authSvc.ActiveSessions(),
			"registeredUsers": a.authSvc.RegisteredUsers(),
		})
	})

	a.router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// socket.io lives at the root, matching what browser clients expect.
	signaling.RegisterRoutes(&a.router.RouterGroup, a.hub)
}
