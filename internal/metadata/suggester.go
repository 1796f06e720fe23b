// Package metadata suggests book details from a purchase link. Amazon
// URLs carrying an ISBN-10 are resolved through the Google Books API;
// everything else quietly produces no suggestion.
package metadata

import (
	"context"
	"time"
)

// volumeLookup is what the suggester needs from the Google Books client.
type volumeLookup interface {
	LookupISBN(ctx context.Context, isbn string) (*Suggestion, error)
}

// Suggester turns purchase URLs into metadata suggestions.
type Suggester struct {
	client volumeLookup
}

// NewSuggester creates a suggester backed by the Google Books API.
func NewSuggester(timeout time.Duration) *Suggester {
	return &Suggester{client: NewGoogleBooksClient(timeout)}
}

// Suggest looks up metadata for a purchase URL. It returns (nil, nil)
// when the URL carries no usable identifier or the lookup finds
// nothing: suggestion is best-effort, never a failure the caller must
// surface.
func (s *Suggester) Suggest(ctx context.Context, purchaseURL string) (*Suggestion, error) {
	id := ExtractVolumeID(purchaseURL)
	if id == "" || !IsLikelyISBN(id) {
		return nil, nil
	}
	return s.client.LookupISBN(ctx, id)
}
