package cmd

import (
	"context"
	"fmt"

	"movie-booking/internal/usecase"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// sessionCleanupSpec is fixed; only the availability job is configurable.
const sessionCleanupSpec = "@hourly"

// cronLogger routes cron's own logs through zap
type cronLogger struct {
	log *zap.SugaredLogger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.log.Debugw(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.log.Errorw(msg, append(keysAndValues, "error", err)...)
}

// Scheduler runs the background jobs. An empty availabilitySpec disables the
// availability job; the HTTP trigger keeps working either way.
func Scheduler(service *usecase.Service, availabilitySpec string, logger *zap.Logger) (*cron.Cron, error) {
	log := logger.With(zap.String("component", "scheduler"))
	clog := cronLogger{log: log.Sugar()}

	// Run yang masih jalan tidak ditumpuk
	c := cron.New(cron.WithChain(
		cron.Recover(clog),
		cron.SkipIfStillRunning(clog),
	))

	if availabilitySpec != "" {
		if _, err := c.AddFunc(availabilitySpec, func() {
			// Reconcile logs its own report and errors
			_, _ = service.Availability.Reconcile(context.Background())
		}); err != nil {
			return nil, fmt.Errorf("schedule availability job %q: %w", availabilitySpec, err)
		}
		log.Info("Availability job scheduled", zap.String("spec", availabilitySpec))
	}

	if _, err := c.AddFunc(sessionCleanupSpec, func() {
		removed, err := service.Auth.CleanExpiredSessions(context.Background())
		if err != nil {
			log.Error("Failed to clean expired sessions", zap.Error(err))
			return
		}
		log.Info("Expired sessions cleaned", zap.Int64("removed", removed))
	}); err != nil {
		return nil, fmt.Errorf("schedule session cleanup: %w", err)
	}

	return c, nil
}
