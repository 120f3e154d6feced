package app

import (
	"context"
	"time"

	"github.com/veilcall/core/internal/config"
	"github.com/veilcall/core/internal/modules/auth/user"
	"github.com/veilcall/core/internal/modules/signaling"
	pkgcron "github.com/veilcall/core/internal/pkg/cron"
	"go.uber.org/zap"
)

// registerCronJobs registers all scheduled background jobs. They run until the
// app's context is cancelled at shutdown.
func registerCronJobs(sched *pkgcron.Scheduler, authSvc *user.Service, hub *signaling.Hub, cfg *config.AppConfig, logger *zap.Logger) {
	cronLogger := logger.Named("CronService")

	sched.Register(pkgcron.Job{
		Name:        "cleanup_sessions",
		Description: "purge login sessions past their expiry",
		Interval:    cfg.SweepInterval,
		Fn: func(ctx context.Context) error {
			if purged := authSvc.SweepExpired(time.Now()); purged > 0 {
				cronLogger.Info("expired sessions removed", zap.Int("count", purged))
			}
			return nil
		},
	})

	sched.Register(pkgcron.Job{
		Name:        "monitor_stores",
		Description: "log in-memory store sizes",
		Interval:    cfg.MonitorInterval,
		Fn: func(ctx context.Context) error {
			cronLogger.Info("store stats",
				zap.Int("users", authSvc.RegisteredUsers()),
				zap.Int("activeSessions", authSvc.ActiveSessions()),
				zap.Int("rooms", hub.Rooms().RoomCount()),
				zap.Int("connections", hub.Directory().Len()),
			)
			return nil
		},
	})
}
