// Package yts queries the YTS movie catalog API.
package yts

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/allyman17/orchard-rss/internal/logging"
	"github.com/allyman17/orchard-rss/internal/ratelimit"
)

const DefaultBaseURL = "https://yts.mx"

// Movie is one catalog record returned by the list_movies endpoint.
type Movie struct {
	ID               int         `json:"id"`
	IMDBCode         string      `json:"imdb_code"`
	Title            string      `json:"title"`
	TitleLong        string      `json:"title_long"`
	Year             int         `json:"year"`
	Rating           json.Number `json:"rating"`
	Runtime          int         `json:"runtime"`
	Summary          string      `json:"summary"`
	MediumCoverImage string      `json:"medium_cover_image"`
	Torrents         []Torrent   `json:"torrents"`
}

// Torrent is one quality/size variant of a movie.
type Torrent struct {
	Quality string `json:"quality"`
	Size    string `json:"size"`
	Seeds   int    `json:"seeds"`
	Peers   int    `json:"peers"`
	URL     string `json:"url"`
	Hash    string `json:"hash"`
}

type listMoviesResponse struct {
	Status string `json:"status"`
	Data   struct {
		MovieCount int     `json:"movie_count"`
		Movies     []Movie `json:"movies"`
	} `json:"data"`
}

// Config holds YTS client settings.
type Config struct {
	BaseURL   string
	Timeout   time.Duration
	UserAgent string
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		BaseURL:   DefaultBaseURL,
		Timeout:   30 * time.Second,
		UserAgent: "orchard-rss/1.0",
	}
}

// Client searches YTS by IMDB id. It shares one http.Client across requests
// and spaces calls out through a per-host rate limiter since the upstream is
// quota-limited.
type Client struct {
	config  Config
	client  *http.Client
	limiter *ratelimit.Limiter
	logger  *logging.Logger
}

// NewClient creates a YTS client.
func NewClient(config Config, limiter *ratelimit.Limiter, logger *logging.Logger) *Client {
	if config.BaseURL == "" {
		config.BaseURL = DefaultBaseURL
	}
	return &Client{
		config:  config,
		client:  &http.Client{Timeout: config.Timeout},
		limiter: limiter,
		logger:  logger,
	}
}

// Search returns the catalog movies whose imdb_code exactly matches imdbID.
// The server-side search can be fuzzy, so results are filtered again here.
// Transport, status, and decode failures all degrade to an empty result with
// a logged warning: "upstream broken" and "not found" are deliberately the
// same outcome for callers.
func (c *Client) Search(ctx context.Context, imdbID string) []Movie {
	endpoint := fmt.Sprintf("%s/api/v2/list_movies.json?query_term=%s&limit=1",
		c.config.BaseURL, url.QueryEscape(imdbID))

	if parsed, err := url.Parse(c.config.BaseURL); err == nil {
		c.limiter.Wait(parsed.Host)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		c.logger.Warn("Failed to build YTS request", logging.WithField("error", err.Error()))
		return nil
	}
	req.Header.Set("User-Agent", c.config.UserAgent)

	resp, err := c.client.Do(req)
	if err != nil {
		c.logger.Warn("YTS request failed", logging.WithFields(map[string]interface{}{
			"imdb_id": imdbID,
			"error":   err.Error(),
		}))
		return nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.logger.Warn("YTS returned non-OK status", logging.WithFields(map[string]interface{}{
			"imdb_id": imdbID,
			"status":  resp.StatusCode,
		}))
		return nil
	}

	var data listMoviesResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		c.logger.Warn("Failed to decode YTS response", logging.WithFields(map[string]interface{}{
			"imdb_id": imdbID,
			"error":   err.Error(),
		}))
		return nil
	}

	if data.Status != "ok" || data.Data.MovieCount == 0 {
		c.logger.Debug("Movie not found in YTS catalog", logging.WithField("imdb_id", imdbID))
		return nil
	}

	matches := make([]Movie, 0, 1)
	for _, movie := range data.Data.Movies {
		if movie.IMDBCode == imdbID {
			matches = append(matches, movie)
		}
	}
	if len(matches) == 0 {
		c.logger.Debug("YTS result did not match requested imdb_code",
			logging.WithField("imdb_id", imdbID))
	}
	return matches
}
