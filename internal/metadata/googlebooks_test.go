package metadata

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(server *httptest.Server) *GoogleBooksClient {
	client := NewGoogleBooksClient(5 * time.Second)
	client.baseURL = server.URL
	client.rateLimiter = newRateLimiter(0)
	return client
}

func TestGoogleBooksClient_LookupISBN(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "isbn:0805047905", r.URL.Query().Get("q"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"items": [{
				"volumeInfo": {
					"title": "Brown Bear, Brown Bear, What Do You See?",
					"authors": ["Bill Martin Jr.", "Eric Carle"],
					"imageLinks": {"thumbnail": "http://books.google.com/books/content?id=abc"}
				}
			}]
		}`))
	}))
	defer server.Close()

	suggestion, err := newTestClient(server).LookupISBN(context.Background(), "0805047905")

	require.NoError(t, err)
	require.NotNil(t, suggestion)
	assert.Equal(t, "Brown Bear, Brown Bear, What Do You See?", suggestion.Title)
	assert.Equal(t, "Bill Martin Jr., Eric Carle", suggestion.Author)
	assert.Equal(t, "https://books.google.com/books/content?id=abc", suggestion.CoverImageURL)
}

func TestGoogleBooksClient_LookupISBN_NoResults(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"totalItems": 0}`))
	}))
	defer server.Close()

	suggestion, err := newTestClient(server).LookupISBN(context.Background(), "0000000000")

	require.NoError(t, err)
	assert.Nil(t, suggestion)
}

func TestGoogleBooksClient_LookupISBN_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	_, err := newTestClient(server).LookupISBN(context.Background(), "0805047905")
	assert.Error(t, err)
}

func TestGoogleBooksClient_LookupISBN_NoThumbnail(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"items": [{"volumeInfo": {"title": "Plain", "authors": ["A"]}}]}`))
	}))
	defer server.Close()

	suggestion, err := newTestClient(server).LookupISBN(context.Background(), "0805047905")

	require.NoError(t, err)
	require.NotNil(t, suggestion)
	assert.Empty(t, suggestion.CoverImageURL)
}

func TestSuggester_Suggest_NonAmazonURL(t *testing.T) {
	s := NewSuggester(time.Second)

	suggestion, err := s.Suggest(context.Background(), "https://bookshop.org/books/some-book")
	require.NoError(t, err)
	assert.Nil(t, suggestion)
}

func TestSuggester_Suggest_AsinNotISBN(t *testing.T) {
	s := NewSuggester(time.Second)

	// Kindle ASINs start with B and cannot be looked up as ISBNs
	suggestion, err := s.Suggest(context.Background(), "https://www.amazon.com/dp/B08N5WRWNW")
	require.NoError(t, err)
	assert.Nil(t, suggestion)
}

func TestSuggester_Suggest_ISBN(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"items": [{"volumeInfo": {"title": "Found", "authors": ["A"]}}]}`))
	}))
	defer server.Close()

	s := &Suggester{client: newTestClient(server)}

	suggestion, err := s.Suggest(context.Background(), "https://www.amazon.com/dp/0805047905")
	require.NoError(t, err)
	require.NotNil(t, suggestion)
	assert.Equal(t, "Found", suggestion.Title)
}
