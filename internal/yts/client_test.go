package yts

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/allyman17/orchard-rss/internal/logging"
	"github.com/allyman17/orchard-rss/internal/ratelimit"
)

func testClient(baseURL string) *Client {
	config := DefaultConfig()
	config.BaseURL = baseURL
	config.Timeout = 5 * time.Second
	return NewClient(config, ratelimit.New(0), logging.New(logging.LevelError))
}

const matrixResponse = `{
	"status": "ok",
	"data": {
		"movie_count": 1,
		"movies": [{
			"id": 10,
			"imdb_code": "tt0133093",
			"title": "The Matrix",
			"title_long": "The Matrix (1999)",
			"year": 1999,
			"rating": 8.7,
			"runtime": 136,
			"summary": "A computer hacker learns about the true nature of reality.",
			"medium_cover_image": "https://img.example/matrix.jpg",
			"torrents": [
				{"quality": "720p", "size": "1.0 GB", "seeds": 50, "peers": 10, "url": "https://yts.mx/t/720", "hash": "AAA"},
				{"quality": "1080p", "size": "2.1 GB", "seeds": 120, "peers": 30, "url": "https://yts.mx/t/1080", "hash": "BBB"}
			]
		}]
	}
}`

func TestSearch_MatchingMovie(t *testing.T) {
	var gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path + "?" + r.URL.RawQuery
		fmt.Fprint(w, matrixResponse)
	}))
	defer server.Close()

	movies := testClient(server.URL).Search(context.Background(), "tt0133093")

	if len(movies) != 1 {
		t.Fatalf("Search returned %d movies, want 1", len(movies))
	}
	movie := movies[0]
	if movie.Title != "The Matrix" {
		t.Errorf("Title = %q, want %q", movie.Title, "The Matrix")
	}
	if movie.Rating.String() != "8.7" {
		t.Errorf("Rating = %q, want exact decimal %q", movie.Rating.String(), "8.7")
	}
	if len(movie.Torrents) != 2 {
		t.Errorf("Torrents = %d, want 2", len(movie.Torrents))
	}
	want := "/api/v2/list_movies.json?query_term=tt0133093&limit=1"
	if gotPath != want {
		t.Errorf("request path = %q, want %q", gotPath, want)
	}
}

func TestSearch_IMDBCodeMismatch(t *testing.T) {
	// The server-side search is fuzzy; a returned movie with a different
	// imdb_code must be filtered out.
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, matrixResponse)
	}))
	defer server.Close()

	movies := testClient(server.URL).Search(context.Background(), "tt9999999")
	if len(movies) != 0 {
		t.Errorf("Search returned %d movies, want 0 for mismatched imdb_code", len(movies))
	}
}

func TestSearch_ZeroResults(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"status": "ok", "data": {"movie_count": 0, "movies": []}}`)
	}))
	defer server.Close()

	movies := testClient(server.URL).Search(context.Background(), "tt0133093")
	if len(movies) != 0 {
		t.Errorf("Search returned %d movies, want 0", len(movies))
	}
}

func TestSearch_ErrorStatusDegradesToEmpty(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"status": "error", "status_message": "quota exceeded"}`)
	}))
	defer server.Close()

	movies := testClient(server.URL).Search(context.Background(), "tt0133093")
	if len(movies) != 0 {
		t.Errorf("Search returned %d movies, want 0 for error status", len(movies))
	}
}

func TestSearch_HTTPFailureDegradesToEmpty(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "internal error", http.StatusInternalServerError)
	}))
	defer server.Close()

	movies := testClient(server.URL).Search(context.Background(), "tt0133093")
	if len(movies) != 0 {
		t.Errorf("Search returned %d movies, want 0 for HTTP 500", len(movies))
	}
}

func TestSearch_MalformedJSONDegradesToEmpty(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"status": "ok", "data": {`)
	}))
	defer server.Close()

	movies := testClient(server.URL).Search(context.Background(), "tt0133093")
	if len(movies) != 0 {
		t.Errorf("Search returned %d movies, want 0 for malformed JSON", len(movies))
	}
}

func TestSearch_UnreachableServerDegradesToEmpty(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // connection refused from here on

	movies := testClient(server.URL).Search(context.Background(), "tt0133093")
	if len(movies) != 0 {
		t.Errorf("Search returned %d movies, want 0 when server is unreachable", len(movies))
	}
}
