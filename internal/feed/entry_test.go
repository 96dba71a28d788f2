package feed

import (
	"encoding/json"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/allyman17/orchard-rss/internal/yts"
)

func TestSelectTorrent(t *testing.T) {
	tests := []struct {
		name     string
		torrents []yts.Torrent
		wantHash string
		wantErr  bool
	}{
		{
			name: "highest seeds wins",
			torrents: []yts.Torrent{
				{Quality: "1080p", Seeds: 10, Hash: "low"},
				{Quality: "1080p", Seeds: 99, Hash: "high"},
				{Quality: "1080p", Seeds: 50, Hash: "mid"},
			},
			wantHash: "high",
		},
		{
			name: "tie broken by input order",
			torrents: []yts.Torrent{
				{Quality: "1080p", Seeds: 42, Hash: "first"},
				{Quality: "1080p", Seeds: 42, Hash: "second"},
			},
			wantHash: "first",
		},
		{
			name: "other qualities ignored",
			torrents: []yts.Torrent{
				{Quality: "2160p", Seeds: 500, Hash: "uhd"},
				{Quality: "1080p", Seeds: 5, Hash: "fhd"},
				{Quality: "720p", Seeds: 300, Hash: "hd"},
			},
			wantHash: "fhd",
		},
		{
			name: "only 720p available",
			torrents: []yts.Torrent{
				{Quality: "720p", Seeds: 300, Hash: "hd"},
			},
			wantErr: true,
		},
		{
			name:    "empty list",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := SelectTorrent(tt.torrents)
			if tt.wantErr {
				if err != ErrNoVariantForQuality {
					t.Fatalf("SelectTorrent error = %v, want ErrNoVariantForQuality", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("SelectTorrent unexpected error: %v", err)
			}
			if got.Hash != tt.wantHash {
				t.Errorf("SelectTorrent hash = %q, want %q", got.Hash, tt.wantHash)
			}
		})
	}
}

func testMovie() yts.Movie {
	return yts.Movie{
		ID:               10,
		IMDBCode:         "tt0133093",
		Title:            "The Matrix",
		Year:             1999,
		Rating:           json.Number("8.7"),
		Runtime:          136,
		Summary:          "A computer hacker learns about the true nature of reality.",
		MediumCoverImage: "https://img.example/matrix.jpg",
	}
}

func testTorrent() yts.Torrent {
	return yts.Torrent{
		Quality: "1080p",
		Size:    "2.1 GB",
		Seeds:   120,
		Peers:   30,
		URL:     "https://yts.mx/torrent/matrix-1080p",
		Hash:    "ABCDEF0123456789",
	}
}

func TestBuildEntry(t *testing.T) {
	now := time.Unix(1700000000, 0).UTC()
	entry := BuildEntry(testMovie(), testTorrent(), now)

	idPattern := regexp.MustCompile(`^tt0133093-1080p-[0-9a-f]{8}$`)
	if !idPattern.MatchString(entry.ID) {
		t.Errorf("ID = %q, want match for %s", entry.ID, idPattern)
	}
	if entry.Title != "The Matrix (1999) [1080p] [2.1 GB]" {
		t.Errorf("Title = %q", entry.Title)
	}
	if entry.Timestamp != 1700000000 {
		t.Errorf("Timestamp = %d, want 1700000000", entry.Timestamp)
	}
	if entry.Link != "https://yts.mx/torrent/matrix-1080p" {
		t.Errorf("Link = %q", entry.Link)
	}
	if entry.Guid != "ABCDEF0123456789" {
		t.Errorf("Guid = %q", entry.Guid)
	}
	if entry.Category != "Movies/1080p" {
		t.Errorf("Category = %q", entry.Category)
	}
	if entry.Seeds != 120 || entry.Peers != 30 {
		t.Errorf("Seeds/Peers = %d/%d, want 120/30", entry.Seeds, entry.Peers)
	}
	if entry.Rating != "8.7" {
		t.Errorf("Rating = %q, want exact decimal %q", entry.Rating, "8.7")
	}
	if entry.AddedDate != now.Format(time.RFC3339) {
		t.Errorf("AddedDate = %q", entry.AddedDate)
	}
}

func TestBuildEntry_UniqueIDs(t *testing.T) {
	now := time.Now()
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		entry := BuildEntry(testMovie(), testTorrent(), now)
		if seen[entry.ID] {
			t.Fatalf("duplicate entry ID %q after %d builds", entry.ID, i)
		}
		seen[entry.ID] = true
	}
}

func TestBuildEntry_DescriptionHTML(t *testing.T) {
	entry := BuildEntry(testMovie(), testTorrent(), time.Now())

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(entry.Description))
	if err != nil {
		t.Fatalf("description is not parseable HTML: %v", err)
	}

	if src, _ := doc.Find("img").Attr("src"); src != "https://img.example/matrix.jpg" {
		t.Errorf("poster img src = %q", src)
	}
	if alt, _ := doc.Find("img").Attr("alt"); alt != "Poster" {
		t.Errorf("poster img alt = %q", alt)
	}

	text := doc.Find("p").Text()
	for _, want := range []string{
		"The Matrix (1999)",
		"Rating: 8.7/10",
		"Runtime: 136 min",
		"Quality: 1080p | Size: 2.1 GB",
		"Seeds: 120 | Peers: 30",
		"true nature of reality",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("description text missing %q", want)
		}
	}
}

func TestBuildEntry_MissingSummaryAndRating(t *testing.T) {
	movie := testMovie()
	movie.Summary = ""
	movie.Rating = json.Number("")

	entry := BuildEntry(movie, testTorrent(), time.Now())

	if !strings.Contains(entry.Description, "No summary available.") {
		t.Error("description should fall back to a placeholder summary")
	}
	if entry.Rating != "0" {
		t.Errorf("Rating = %q, want %q when upstream omits it", entry.Rating, "0")
	}
}
