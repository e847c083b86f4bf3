package store

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/tripdesk/berlin-cli/internal/model"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS reviews (
	id         TEXT PRIMARY KEY,
	place      TEXT NOT NULL,
	author     TEXT,
	comment    TEXT NOT NULL,
	created_at DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE INDEX IF NOT EXISTS idx_reviews_place ON reviews(place);
CREATE INDEX IF NOT EXISTS idx_reviews_created_at ON reviews(created_at);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) AddReview(ctx context.Context, review model.Review) (*model.Review, error) {
	if strings.TrimSpace(review.Place) == "" {
		return nil, eris.New("sqlite: review place is required")
	}
	if strings.TrimSpace(review.Comment) == "" {
		return nil, eris.New("sqlite: review comment is required")
	}

	review.ID = uuid.New().String()
	review.Place = strings.TrimSpace(review.Place)
	review.CreatedAt = time.Now().UTC()

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO reviews (id, place, author, comment, created_at) VALUES (?, ?, ?, ?, ?)`,
		review.ID, review.Place, review.Author, review.Comment, review.CreatedAt,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: insert review")
	}
	return &review, nil
}

func (s *SQLiteStore) ListReviews(ctx context.Context, place string) ([]model.Review, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, place, author, comment, created_at FROM reviews WHERE place = ? ORDER BY created_at, id`,
		strings.TrimSpace(place),
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list reviews")
	}
	defer rows.Close() //nolint:errcheck

	var reviews []model.Review
	for rows.Next() {
		var r model.Review
		if err := rows.Scan(&r.ID, &r.Place, &r.Author, &r.Comment, &r.CreatedAt); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan review")
		}
		reviews = append(reviews, r)
	}
	return reviews, eris.Wrap(rows.Err(), "sqlite: iterate reviews")
}

func (s *SQLiteStore) ListPlaces(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT DISTINCT place FROM reviews ORDER BY place`,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list places")
	}
	defer rows.Close() //nolint:errcheck

	var places []string
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan place")
		}
		places = append(places, p)
	}
	return places, eris.Wrap(rows.Err(), "sqlite: iterate places")
}
