package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/allyman17/orchard-rss/internal/models"
)

// EntryStore persists feed entries in Postgres.
type EntryStore struct {
	db *DB
}

func NewEntryStore(db *DB) *EntryStore {
	return &EntryStore{db: db}
}

// Put appends one entry. Keys are freshly generated per ingest, so this is a
// plain insert with no conflict handling.
func (s *EntryStore) Put(ctx context.Context, entry models.FeedEntry) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO feed_entries (
			id, ts, title, description, link, guid, category,
			size, seeds, peers,
			movie_id, imdb_code, year, rating, added_date
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7,
			$8, $9, $10,
			$11, $12, $13, $14, $15
		)`,
		entry.ID,
		entry.Timestamp,
		entry.Title,
		entry.Description,
		entry.Link,
		entry.Guid,
		entry.Category,
		nullString(entry.Size),
		entry.Seeds,
		entry.Peers,
		nullInt(entry.MovieID),
		nullString(entry.IMDBCode),
		nullInt(entry.Year),
		nullString(entry.Rating),
		nullString(entry.AddedDate),
	)
	if err != nil {
		return fmt.Errorf("insert feed entry %s: %w", entry.ID, err)
	}
	return nil
}

// Scan returns every stored entry with no ordering guarantee. The renderer
// sorts and caps; the table stays small enough that a full scan is fine.
func (s *EntryStore) Scan(ctx context.Context) ([]models.FeedEntry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT
			id, ts, title, description, link, guid, category,
			size, seeds, peers,
			movie_id, imdb_code, year, rating, added_date
		FROM feed_entries`)
	if err != nil {
		return nil, fmt.Errorf("scan feed entries: %w", err)
	}
	defer rows.Close()

	entries := make([]models.FeedEntry, 0)
	for rows.Next() {
		var entry models.FeedEntry
		var size, imdbCode, rating, addedDate sql.NullString
		var movieID, year sql.NullInt64

		if err := rows.Scan(
			&entry.ID,
			&entry.Timestamp,
			&entry.Title,
			&entry.Description,
			&entry.Link,
			&entry.Guid,
			&entry.Category,
			&size,
			&entry.Seeds,
			&entry.Peers,
			&movieID,
			&imdbCode,
			&year,
			&rating,
			&addedDate,
		); err != nil {
			return nil, fmt.Errorf("scan feed entry row: %w", err)
		}

		entry.Size = size.String
		entry.IMDBCode = imdbCode.String
		entry.Rating = rating.String
		entry.AddedDate = addedDate.String
		entry.MovieID = int(movieID.Int64)
		entry.Year = int(year.Int64)

		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate feed entries: %w", err)
	}

	return entries, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nullInt(i int) sql.NullInt64 {
	return sql.NullInt64{Int64: int64(i), Valid: i != 0}
}
