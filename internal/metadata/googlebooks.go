package metadata

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"
)

// Suggestion is the metadata offered for a book, looked up by ISBN.
type Suggestion struct {
	Title         string `json:"title"`
	Author        string `json:"author"`
	CoverImageURL string `json:"cover_image_url,omitempty"`
}

// GoogleBooksClient looks up volumes on the keyless Google Books API.
type GoogleBooksClient struct {
	httpClient  *http.Client
	baseURL     string
	rateLimiter *rateLimiter
}

type rateLimiter struct {
	mu       sync.Mutex
	lastCall time.Time
	interval time.Duration
}

func newRateLimiter(interval time.Duration) *rateLimiter {
	return &rateLimiter{interval: interval}
}

func (r *rateLimiter) wait() {
	r.mu.Lock()
	defer r.mu.Unlock()

	since := time.Since(r.lastCall)
	if since < r.interval {
		time.Sleep(r.interval - since)
	}
	r.lastCall = time.Now()
}

// NewGoogleBooksClient creates a Google Books client with rate limiting.
func NewGoogleBooksClient(timeout time.Duration) *GoogleBooksClient {
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	return &GoogleBooksClient{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseURL:     "https://www.googleapis.com",
		rateLimiter: newRateLimiter(time.Second), // 1 request per second
	}
}

// LookupISBN fetches the best volume match for an ISBN. A miss returns
// (nil, nil); only transport and decode problems are errors.
func (c *GoogleBooksClient) LookupISBN(ctx context.Context, isbn string) (*Suggestion, error) {
	c.rateLimiter.wait()

	query := url.QueryEscape("isbn:" + isbn)
	lookupURL := fmt.Sprintf("%s/books/v1/volumes?q=%s&maxResults=1", c.baseURL, query)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, lookupURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch volume data: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}

	var result volumesResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	if len(result.Items) == 0 {
		return nil, nil
	}

	info := result.Items[0].VolumeInfo
	suggestion := &Suggestion{
		Title:  info.Title,
		Author: strings.Join(info.Authors, ", "),
	}
	if info.ImageLinks.Thumbnail != "" {
		// Google Books hands out mixed-protocol thumbnail URLs
		suggestion.CoverImageURL = strings.Replace(info.ImageLinks.Thumbnail, "http://", "https://", 1)
	}
	return suggestion, nil
}

// Google Books API response types (internal)

type volumesResult struct {
	Items []volumeItem `json:"items"`
}

type volumeItem struct {
	VolumeInfo volumeInfo `json:"volumeInfo"`
}

type volumeInfo struct {
	Title      string     `json:"title"`
	Authors    []string   `json:"authors"`
	ImageLinks imageLinks `json:"imageLinks"`
}

type imageLinks struct {
	Thumbnail string `json:"thumbnail"`
}
