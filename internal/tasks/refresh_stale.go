package tasks

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/mikestefanello/backlite"
	"github.com/libraryhub/libraryhub/internal/entities"
)

// staleBatchLimit caps how many refreshes a single sweep enqueues.
const staleBatchLimit = 200

// StaleBookLister provides the cached books whose metadata is overdue.
type StaleBookLister interface {
	ListStale(ttl time.Duration, limit int) ([]entities.Book, error)
}

// RefreshStaleBooksTask enqueues a RefreshBookTask for every cached book
// whose metadata is older than the TTL.
type RefreshStaleBooksTask struct {
	TTLHours int `json:"ttl_hours"`
}

// Config returns the queue configuration for stale-book sweep tasks.
func (t RefreshStaleBooksTask) Config() backlite.QueueConfig {
	return backlite.QueueConfig{
		Name:        "refresh_stale_books",
		MaxAttempts: 1,
		Backoff:     time.Minute,
		Timeout:     5 * time.Minute,
		Retention: &backlite.Retention{
			Duration:   24 * time.Hour,
			OnlyFailed: false,
			Data:       &backlite.RetainData{OnlyFailed: true},
		},
	}
}

// RefreshStaleBooksProcessor creates a processor function for RefreshStaleBooksTask.
// The sweep itself only fans out; the per-book queue does the fetching so each
// refresh gets its own retry budget.
func RefreshStaleBooksProcessor(lister StaleBookLister, client *Client) backlite.QueueProcessor[RefreshStaleBooksTask] {
	return func(ctx context.Context, task RefreshStaleBooksTask) error {
		if lister == nil || client == nil {
			return fmt.Errorf("stale book sweep not configured")
		}

		ttlHours := task.TTLHours
		if ttlHours <= 0 {
			ttlHours = 30 * 24
		}
		ttl := time.Duration(ttlHours) * time.Hour

		stale, err := lister.ListStale(ttl, staleBatchLimit)
		if err != nil {
			return fmt.Errorf("list stale books: %w", err)
		}
		if len(stale) == 0 {
			log.Println("[TASK] No stale books to refresh")
			return nil
		}

		refreshes := make([]backlite.Task, 0, len(stale))
		for _, book := range stale {
			refreshes = append(refreshes, RefreshBookTask{BookID: book.ID})
		}
		if _, err := client.Add(refreshes...).Ctx(ctx).Save(); err != nil {
			return fmt.Errorf("enqueue refreshes: %w", err)
		}

		log.Printf("[TASK] Enqueued %d book refreshes (older than %s)", len(stale), ttl)
		return nil
	}
}

// NewRefreshStaleBooksQueue creates a backlite queue for stale-book sweeps.
func NewRefreshStaleBooksQueue(lister StaleBookLister, client *Client) backlite.Queue {
	return backlite.NewQueue(RefreshStaleBooksProcessor(lister, client))
}
