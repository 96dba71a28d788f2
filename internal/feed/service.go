// Package feed implements the ingest pipeline and RSS rendering for the
// movie torrent feed.
package feed

import (
	"context"
	"fmt"
	"time"

	"github.com/allyman17/orchard-rss/internal/cache"
	"github.com/allyman17/orchard-rss/internal/imdb"
	"github.com/allyman17/orchard-rss/internal/logging"
	"github.com/allyman17/orchard-rss/internal/models"
	"github.com/allyman17/orchard-rss/internal/yts"
)

// feedCacheKey holds the rendered XML between requests.
const feedCacheKey = "rss:rendered"

// EntryStore persists feed entries. Put appends a freshly keyed entry and
// never overwrites; Scan returns every entry with no ordering guarantee.
type EntryStore interface {
	Put(ctx context.Context, entry models.FeedEntry) error
	Scan(ctx context.Context) ([]models.FeedEntry, error)
}

// Catalog finds candidate movies by IMDB id. An empty result means not
// found; upstream failures are absorbed by the implementation.
type Catalog interface {
	Search(ctx context.Context, imdbID string) []yts.Movie
}

// MovieNotFoundError reports that the catalog had no movie for an IMDB id.
type MovieNotFoundError struct {
	IMDBCode string
}

func (e *MovieNotFoundError) Error() string {
	return fmt.Sprintf("movie %s not found on YTS", e.IMDBCode)
}

// NoVariantError reports a movie that exists but has no target-quality torrent.
type NoVariantError struct {
	Movie string
}

func (e *NoVariantError) Error() string {
	return fmt.Sprintf("no %s version available for %q", TargetQuality, e.Movie)
}

// Service ties the ingest pipeline and feed rendering together.
type Service struct {
	store   EntryStore
	catalog Catalog
	cache   cache.Cache
	config  ChannelConfig
	logger  *logging.Logger
	now     func() time.Time
}

// NewService creates a feed service.
func NewService(store EntryStore, catalog Catalog, feedCache cache.Cache, config ChannelConfig, logger *logging.Logger) *Service {
	return &Service{
		store:   store,
		catalog: catalog,
		cache:   feedCache,
		config:  config,
		logger:  logger,
		now:     time.Now,
	}
}

// IngestResult reports a successful ingest.
type IngestResult struct {
	ItemID   string
	IMDBCode string
}

// Ingest runs the full pipeline for one submission: extract the IMDB id,
// search the catalog, pick the best torrent, build and persist the entry.
// Failure modes surface as imdb.ErrInvalidIdentifier, *MovieNotFoundError,
// *NoVariantError, or a wrapped store error.
func (s *Service) Ingest(ctx context.Context, input string) (*IngestResult, error) {
	imdbID, err := imdb.Extract(input)
	if err != nil {
		return nil, err
	}

	movies := s.catalog.Search(ctx, imdbID)
	if len(movies) == 0 {
		return nil, &MovieNotFoundError{IMDBCode: imdbID}
	}

	movie := movies[0]
	torrent, err := SelectTorrent(movie.Torrents)
	if err != nil {
		return nil, &NoVariantError{Movie: movie.Title}
	}

	entry := BuildEntry(movie, torrent, s.now())

	if err := s.store.Put(ctx, entry); err != nil {
		return nil, fmt.Errorf("persist feed entry %s: %w", entry.ID, err)
	}

	// The cached feed is stale now; drop it so the next render picks the
	// new entry up.
	s.cache.Delete(feedCacheKey)

	s.logger.Info("Added movie to feed", logging.WithFields(map[string]interface{}{
		"item_id": entry.ID,
		"imdb_id": imdbID,
		"seeds":   entry.Seeds,
	}))

	return &IngestResult{ItemID: entry.ID, IMDBCode: imdbID}, nil
}

// RenderFeed returns the feed XML, serving a cached copy when one exists.
func (s *Service) RenderFeed(ctx context.Context) ([]byte, error) {
	if cached, ok := s.cache.Get(feedCacheKey); ok {
		if xmlStr, ok := cached.(string); ok {
			return []byte(xmlStr), nil
		}
	}

	entries, err := s.store.Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("scan feed entries: %w", err)
	}

	body, err := Render(s.config, entries, s.now())
	if err != nil {
		return nil, err
	}

	s.cache.Set(feedCacheKey, string(body))
	return body, nil
}
