package feed

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/allyman17/orchard-rss/internal/models"
	"github.com/allyman17/orchard-rss/internal/yts"
)

// TargetQuality is the only quality class the feed publishes.
const TargetQuality = "1080p"

// Category is the fixed classification tag on every entry.
const Category = "Movies/1080p"

// ErrNoVariantForQuality is returned when a movie has no torrent in the
// target quality class.
var ErrNoVariantForQuality = errors.New("no torrent available in target quality")

// SelectTorrent picks the best target-quality torrent: highest seed count,
// first occurrence winning ties.
func SelectTorrent(torrents []yts.Torrent) (yts.Torrent, error) {
	var best yts.Torrent
	found := false
	for _, t := range torrents {
		if t.Quality != TargetQuality {
			continue
		}
		if !found || t.Seeds > best.Seeds {
			best = t
			found = true
		}
	}
	if !found {
		return yts.Torrent{}, ErrNoVariantForQuality
	}
	return best, nil
}

// BuildEntry derives a persistable feed entry from a movie and its selected
// torrent. The entry id embeds a random fragment so re-ingesting the same
// movie never collides; the store key also includes the timestamp.
func BuildEntry(movie yts.Movie, torrent yts.Torrent, now time.Time) models.FeedEntry {
	id := fmt.Sprintf("%s-%s-%s", movie.IMDBCode, TargetQuality, randomFragment())

	title := fmt.Sprintf("%s (%d) [%s] [%s]", movie.Title, movie.Year, TargetQuality, torrent.Size)

	rating := movie.Rating.String()
	if rating == "" {
		rating = "0"
	}

	summary := movie.Summary
	if summary == "" {
		summary = "No summary available."
	}

	var b strings.Builder
	fmt.Fprintf(&b, "<p><strong>%s (%d)</strong></p>\n", movie.Title, movie.Year)
	fmt.Fprintf(&b, "<p>IMDB: %s | Rating: %s/10 | Runtime: %d min</p>\n", movie.IMDBCode, rating, movie.Runtime)
	fmt.Fprintf(&b, "<p>Quality: %s | Size: %s</p>\n", TargetQuality, torrent.Size)
	fmt.Fprintf(&b, "<p>Seeds: %d | Peers: %d</p>\n", torrent.Seeds, torrent.Peers)
	fmt.Fprintf(&b, "<p>%s</p>\n", summary)
	fmt.Fprintf(&b, `<img src="%s" alt="Poster">`, movie.MediumCoverImage)

	return models.FeedEntry{
		ID:          id,
		Timestamp:   now.Unix(),
		Title:       title,
		Description: b.String(),
		Link:        torrent.URL,
		Guid:        torrent.Hash,
		Category:    Category,
		Size:        torrent.Size,
		Seeds:       torrent.Seeds,
		Peers:       torrent.Peers,
		MovieID:     movie.ID,
		IMDBCode:    movie.IMDBCode,
		Year:        movie.Year,
		Rating:      rating,
		AddedDate:   now.Format(time.RFC3339),
	}
}

// randomFragment returns 8 hex characters. Collision avoidance only, not a
// uniqueness guarantee.
func randomFragment() string {
	u := uuid.New()
	return fmt.Sprintf("%x", u[:4])
}
