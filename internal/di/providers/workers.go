package providers

import (
	"context"

	"github.com/samber/do/v2"

	"github.com/shopfront/shopfront-server/internal/logger"
	"github.com/shopfront/shopfront-server/internal/service"
)

// SessionCleanupJob runs periodic session cleanup.
type SessionCleanupJob struct {
	cancel context.CancelFunc
	done   chan struct{}
}

// Shutdown implements do.Shutdownable.
func (j *SessionCleanupJob) Shutdown() error {
	j.cancel()
	<-j.done
	return nil
}

// ProvideSessionCleanupJob provides the periodic session cleanup job.
func ProvideSessionCleanupJob(i do.Injector) (*SessionCleanupJob, error) {
	sessions := do.MustInvoke[*service.SessionService](i)
	log := do.MustInvoke[*logger.Logger](i)

	ctx, cancel := context.WithCancel(context.Background())
	job := &SessionCleanupJob{cancel: cancel, done: make(chan struct{})}

	go func() {
		defer close(job.done)

		// Initial cleanup on startup
		if _, err := sessions.DeleteExpiredSessions(ctx); err != nil {
			log.Warn("Initial session cleanup failed", "error", err)
		}

		sessions.RunCleanup(ctx, sessionCleanupInterval)
	}()

	log.Info("Session cleanup job started", "interval", sessionCleanupInterval)

	return job, nil
}
