package feed

import (
	"encoding/xml"
	"fmt"
	"sort"
	"time"

	"github.com/allyman17/orchard-rss/internal/models"
)

// MaxItems caps the number of items in a rendered feed.
const MaxItems = 50

const torrentNamespace = "http://xmlns.ezrss.it/0.1/"

// rssTimeFormat matches what qBittorrent and friends expect in pubDate.
const rssTimeFormat = "Mon, 02 Jan 2006 15:04:05 GMT"

// ChannelConfig holds the fixed channel-level feed metadata.
type ChannelConfig struct {
	Title       string
	Description string
	Link        string
}

// DefaultChannelConfig returns the stock channel metadata.
func DefaultChannelConfig() ChannelConfig {
	return ChannelConfig{
		Title:       "YTS 1080p Movies Feed",
		Description: "Latest 1080p movies from YTS for qBittorrent",
		Link:        "https://example.com/rss",
	}
}

type rssDoc struct {
	XMLName   xml.Name   `xml:"rss"`
	Version   string     `xml:"version,attr"`
	TorrentNS string     `xml:"xmlns:torrent,attr"`
	Channel   rssChannel `xml:"channel"`
}

type rssChannel struct {
	Title         string    `xml:"title"`
	Description   string    `xml:"description"`
	Link          string    `xml:"link"`
	Language      string    `xml:"language"`
	LastBuildDate string    `xml:"lastBuildDate"`
	TTL           int       `xml:"ttl"`
	Items         []rssItem `xml:"item"`
}

type rssItem struct {
	Title       string   `xml:"title"`
	Description rssCDATA `xml:"description"`
	Link        string   `xml:"link"`
	Guid        rssGUID  `xml:"guid"`
	Category    string   `xml:"category"`
	PubDate     string   `xml:"pubDate,omitempty"`

	// ezrss extension elements, emitted only when the source field is set.
	Seeds         string `xml:"torrent:seeds,omitempty"`
	Peers         string `xml:"torrent:peers,omitempty"`
	ContentLength string `xml:"torrent:contentLength,omitempty"`
	InfoHash      string `xml:"torrent:infoHash,omitempty"`
}

type rssCDATA struct {
	Text string `xml:",cdata"`
}

type rssGUID struct {
	IsPermaLink string `xml:"isPermaLink,attr"`
	Value       string `xml:",chardata"`
}

// Render serializes entries into an RSS 2.0 document: newest first, capped
// at MaxItems, stably indented. Pure transform of (entries, now) with no I/O;
// only lastBuildDate varies between calls on the same input.
func Render(config ChannelConfig, entries []models.FeedEntry, now time.Time) ([]byte, error) {
	sorted := make([]models.FeedEntry, len(entries))
	copy(sorted, entries)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Timestamp > sorted[j].Timestamp
	})
	if len(sorted) > MaxItems {
		sorted = sorted[:MaxItems]
	}

	items := make([]rssItem, 0, len(sorted))
	for _, entry := range sorted {
		item := rssItem{
			Title:       entry.Title,
			Description: rssCDATA{Text: entry.Description},
			Link:        entry.Link,
			Guid:        rssGUID{IsPermaLink: "false", Value: entry.Guid},
			Category:    entry.Category,
		}
		if entry.Timestamp != 0 {
			item.PubDate = time.Unix(entry.Timestamp, 0).UTC().Format(rssTimeFormat)
		}
		if entry.Seeds != 0 {
			item.Seeds = fmt.Sprintf("%d", entry.Seeds)
		}
		if entry.Peers != 0 {
			item.Peers = fmt.Sprintf("%d", entry.Peers)
		}
		if entry.Size != "" {
			item.ContentLength = entry.Size
		}
		if entry.Guid != "" {
			item.InfoHash = entry.Guid
		}
		items = append(items, item)
	}

	doc := rssDoc{
		Version:   "2.0",
		TorrentNS: torrentNamespace,
		Channel: rssChannel{
			Title:         config.Title,
			Description:   config.Description,
			Link:          config.Link,
			Language:      "en-US",
			LastBuildDate: now.UTC().Format(rssTimeFormat),
			TTL:           30,
			Items:         items,
		},
	}

	body, err := xml.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal rss: %w", err)
	}

	return append([]byte(xml.Header), body...), nil
}
