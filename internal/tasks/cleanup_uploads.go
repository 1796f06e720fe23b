package tasks

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/mikestefanello/backlite"
)

// CoverURLLister reports every cover URL currently referenced by a book.
type CoverURLLister interface {
	CoverImageURLs() ([]string, error)
}

// UploadSweeper removes stored uploads not in the given in-use set.
type UploadSweeper interface {
	Sweep(inUse []string) (int, error)
}

// CleanupUploadsTask deletes uploaded images no book references
// anymore. Enqueued by the nightly schedule.
type CleanupUploadsTask struct{}

// Config returns the queue configuration for upload cleanup tasks.
func (t CleanupUploadsTask) Config() backlite.QueueConfig {
	return backlite.QueueConfig{
		Name:        "cleanup_uploads",
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

// CleanupUploadsProcessor creates a processor function for CleanupUploadsTask.
func CleanupUploadsProcessor(books CoverURLLister, store UploadSweeper) backlite.QueueProcessor[CleanupUploadsTask] {
	return func(ctx context.Context, task CleanupUploadsTask) error {
		if books == nil || store == nil {
			return fmt.Errorf("upload cleanup not configured")
		}

		inUse, err := books.CoverImageURLs()
		if err != nil {
			return fmt.Errorf("list referenced covers: %w", err)
		}

		removed, err := store.Sweep(inUse)
		if err != nil {
			return fmt.Errorf("sweep uploads: %w", err)
		}

		log.Printf("[TASK] Removed %d orphaned uploads", removed)
		return nil
	}
}

// NewCleanupUploadsQueue creates a backlite queue for upload cleanup tasks.
func NewCleanupUploadsQueue(books CoverURLLister, store UploadSweeper) backlite.Queue {
	return backlite.NewQueue(CleanupUploadsProcessor(books, store))
}
