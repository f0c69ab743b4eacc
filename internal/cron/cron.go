package cron

import (
	"context"
	"time"

	"github.com/linskybing/admission-portal/internal/logger"
	"github.com/linskybing/admission-portal/internal/session"
)

// LogCleaner removes review logs older than the retention.
type LogCleaner interface {
	CleanupOldLogs(retentionDays int) (int64, error)
}

// WorkspacePruner releases in-memory state of sessions that ended without
// a logout.
type WorkspacePruner interface {
	PruneExpired(ctx context.Context) int
}

type CleanupOptions struct {
	RetentionDays int
	Interval      time.Duration
	Workspaces    WorkspacePruner
}

// RunCleanup purges expired sessions, their workspaces and review logs past
// retention once.
func RunCleanup(ctx context.Context, logs LogCleaner, sessions session.Store, opts CleanupOptions) {
	log := logger.With("cron")
	retentionDays := opts.RetentionDays

	if sessions != nil {
		n, err := sessions.DeleteExpired(ctx, time.Now())
		if err != nil {
			log.Error().Err(err).Msg("Failed to purge expired sessions")
		} else if n > 0 {
			log.Info().Int("removed", n).Msg("Purged expired sessions")
		}
	}

	if opts.Workspaces != nil {
		if n := opts.Workspaces.PruneExpired(ctx); n > 0 {
			log.Info().Int("removed", n).Msg("Released workspaces of ended sessions")
		}
	}

	if logs != nil && retentionDays > 0 {
		n, err := logs.CleanupOldLogs(retentionDays)
		if err != nil {
			log.Error().Err(err).Msg("Failed to cleanup old review logs")
		} else {
			log.Info().Int64("removed", n).Int("retention_days", retentionDays).Msg("Review log cleanup completed")
		}
	}
}

// StartCleanupTask runs RunCleanup at start-up and then every interval
// until ctx ends.
func StartCleanupTask(ctx context.Context, logs LogCleaner, sessions session.Store, opts CleanupOptions) {
	interval := opts.Interval
	if interval <= 0 {
		interval = 24 * time.Hour
	}

	go func() {
		log := logger.With("cron")
		log.Info().
			Int("retention_days", opts.RetentionDays).
			Dur("interval", interval).
			Msg("Starting background cleanup task")

		RunCleanup(ctx, logs, sessions, opts)

		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				RunCleanup(ctx, logs, sessions, opts)
			case <-ctx.Done():
				return
			}
		}
	}()
}
