package models

// FeedEntry is the persisted unit behind one RSS item. Entries are created
// once at ingest time and never mutated; re-ingesting the same movie makes a
// brand-new entry with a fresh ID.
type FeedEntry struct {
	ID          string `json:"id" dynamodbav:"id"`
	Timestamp   int64  `json:"timestamp" dynamodbav:"timestamp"`
	Title       string `json:"title" dynamodbav:"title"`
	Description string `json:"description" dynamodbav:"description"`
	Link        string `json:"link" dynamodbav:"link"`
	Guid        string `json:"guid" dynamodbav:"guid"`
	Category    string `json:"category" dynamodbav:"category"`
	Size        string `json:"size" dynamodbav:"size"`
	Seeds       int    `json:"seeds" dynamodbav:"seeds"`
	Peers       int    `json:"peers" dynamodbav:"peers"`

	// Source movie metadata, informational only.
	MovieID   int    `json:"movie_id" dynamodbav:"movie_id"`
	IMDBCode  string `json:"imdb_code" dynamodbav:"imdb_code"`
	Year      int    `json:"year" dynamodbav:"year"`
	Rating    string `json:"rating" dynamodbav:"rating"` // exact decimal string, never float
	AddedDate string `json:"added_date" dynamodbav:"added_date"`
}
