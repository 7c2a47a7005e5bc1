package tasks

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/mikestefanello/backlite"
)

// RefreshTokenPurger provides the ability to delete expired refresh tokens.
type RefreshTokenPurger interface {
	DeleteExpired(now time.Time) (int64, error)
}

// CleanupRefreshTokensTask removes refresh tokens past their expiry.
// Revoked tokens are kept until expiry so reuse attempts still fail loudly.
type CleanupRefreshTokensTask struct{}

// Config returns the queue configuration for token cleanup tasks.
func (t CleanupRefreshTokensTask) Config() backlite.QueueConfig {
	return backlite.QueueConfig{
		Name:        "cleanup_refresh_tokens",
		MaxAttempts: 3,
		Backoff:     5 * time.Minute,
		Timeout:     2 * time.Minute,
		Retention: &backlite.Retention{
			Duration:   24 * time.Hour,
			OnlyFailed: false,
			Data:       &backlite.RetainData{OnlyFailed: true},
		},
	}
}

// CleanupRefreshTokensProcessor creates a processor function for CleanupRefreshTokensTask.
func CleanupRefreshTokensProcessor(purger RefreshTokenPurger) backlite.QueueProcessor[CleanupRefreshTokensTask] {
	return func(ctx context.Context, task CleanupRefreshTokensTask) error {
		if purger == nil {
			return fmt.Errorf("token purger not configured")
		}

		deleted, err := purger.DeleteExpired(time.Now())
		if err != nil {
			return fmt.Errorf("cleanup refresh tokens: %w", err)
		}

		log.Printf("[TASK] Purged %d expired refresh tokens", deleted)
		return nil
	}
}

// NewCleanupRefreshTokensQueue creates a backlite queue for token cleanup tasks.
func NewCleanupRefreshTokensQueue(purger RefreshTokenPurger) backlite.Queue {
	return backlite.NewQueue(CleanupRefreshTokensProcessor(purger))
}
