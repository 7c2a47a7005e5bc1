package tasks

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/mikestefanello/backlite"
	"github.com/libraryhub/libraryhub/internal/metadata"
)

// RefreshBookTask re-fetches one cached book's metadata from OpenLibrary.
type RefreshBookTask struct {
	BookID uint `json:"book_id"`
}

// Config returns the queue configuration for book refresh tasks.
func (t RefreshBookTask) Config() backlite.QueueConfig {
	return backlite.QueueConfig{
		Name:        "refresh_book",
		MaxAttempts: 3,
		Backoff:     30 * time.Second,
		Timeout:     2 * time.Minute,
		Retention: &backlite.Retention{
			Duration:   24 * time.Hour,
			OnlyFailed: false,
			Data:       &backlite.RetainData{OnlyFailed: true},
		},
	}
}

// RefreshBookProcessor creates a processor function for RefreshBookTask.
func RefreshBookProcessor(enricher *metadata.Enricher) backlite.QueueProcessor[RefreshBookTask] {
	return func(ctx context.Context, task RefreshBookTask) error {
		if enricher == nil {
			return fmt.Errorf("enricher not configured")
		}

		result, err := enricher.RefreshBook(ctx, task.BookID)
		if err != nil {
			return fmt.Errorf("refresh book %d: %w", task.BookID, err)
		}

		if len(result.FieldsUpdated) > 0 {
			log.Printf("[TASK] Refreshed book %d (%s): updated %v",
				task.BookID, result.Book.Title, result.FieldsUpdated)
		} else {
			log.Printf("[TASK] Book %d (%s): metadata already current",
				task.BookID, result.Book.Title)
		}

		return nil
	}
}

// NewRefreshBookQueue creates a backlite queue for book refresh tasks.
func NewRefreshBookQueue(enricher *metadata.Enricher) backlite.Queue {
	return backlite.NewQueue(RefreshBookProcessor(enricher))
}
