package tasks

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/mikestefanello/backlite"

	"github.com/bookshelfapp/bookshelf/internal/metadata"
)

// CoverFiller applies a suggested cover to a book, but only while the
// book still has none.
type CoverFiller interface {
	SetCoverImageIfEmpty(id uint, coverURL string) (bool, error)
}

// CoverSuggester resolves a purchase URL into book metadata.
type CoverSuggester interface {
	Suggest(ctx context.Context, purchaseURL string) (*metadata.Suggestion, error)
}

// SuggestCoverTask fills in a book's cover image from its purchase
// link, enqueued after a book is saved without one.
type SuggestCoverTask struct {
	BookID      uint   `json:"book_id"`
	PurchaseURL string `json:"purchase_url"`
}

// Config returns the queue configuration for cover suggestion tasks.
func (t SuggestCoverTask) Config() backlite.QueueConfig {
	return backlite.QueueConfig{
		Name:        "suggest_cover",
		MaxAttempts: 3,
		Backoff:     30 * time.Second,
		Timeout:     time.Minute,
		Retention: &backlite.Retention{
			Duration:   24 * time.Hour,
			OnlyFailed: false,
			Data:       &backlite.RetainData{OnlyFailed: true},
		},
	}
}

// SuggestCoverProcessor creates a processor function for SuggestCoverTask.
func SuggestCoverProcessor(suggester CoverSuggester, books CoverFiller) backlite.QueueProcessor[SuggestCoverTask] {
	return func(ctx context.Context, task SuggestCoverTask) error {
		if suggester == nil || books == nil {
			return fmt.Errorf("cover suggestion not configured")
		}

		suggestion, err := suggester.Suggest(ctx, task.PurchaseURL)
		if err != nil {
			return fmt.Errorf("suggest cover for book %d: %w", task.BookID, err)
		}
		if suggestion == nil || suggestion.CoverImageURL == "" {
			log.Printf("[TASK] No cover found for book %d", task.BookID)
			return nil
		}

		applied, err := books.SetCoverImageIfEmpty(task.BookID, suggestion.CoverImageURL)
		if err != nil {
			return fmt.Errorf("apply cover for book %d: %w", task.BookID, err)
		}
		if applied {
			log.Printf("[TASK] Applied suggested cover to book %d", task.BookID)
		} else {
			log.Printf("[TASK] Book %d already has a cover, suggestion discarded", task.BookID)
		}
		return nil
	}
}

// NewSuggestCoverQueue creates a backlite queue for cover suggestion tasks.
func NewSuggestCoverQueue(suggester CoverSuggester, books CoverFiller) backlite.Queue {
	return backlite.NewQueue(SuggestCoverProcessor(suggester, books))
}
