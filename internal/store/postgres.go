package store

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/tripdesk/berlin-cli/internal/model"
)

// Pool is the subset of pgxpool.Pool the store uses; pgxmock satisfies it
// in tests.
type Pool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Close()
}

// PostgresStore implements Store using pgxpool.
type PostgresStore struct {
	pool Pool
}

// NewPostgres creates a PostgresStore with a connection pool.
func NewPostgres(ctx context.Context, connString string) (*PostgresStore, error) {
	cfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}
	cfg.MaxConnLifetime = 30 * time.Minute
	cfg.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create pool")
	}
	return &PostgresStore{pool: pool}, nil
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS reviews (
	id         TEXT PRIMARY KEY,
	place      TEXT NOT NULL,
	author     TEXT,
	comment    TEXT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_reviews_place ON reviews(place);
CREATE INDEX IF NOT EXISTS idx_reviews_created_at ON reviews(created_at);
`

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

func (s *PostgresStore) AddReview(ctx context.Context, review model.Review) (*model.Review, error) {
	if strings.TrimSpace(review.Place) == "" {
		return nil, eris.New("postgres: review place is required")
	}
	if strings.TrimSpace(review.Comment) == "" {
		return nil, eris.New("postgres: review comment is required")
	}

	review.ID = uuid.New().String()
	review.Place = strings.TrimSpace(review.Place)
	review.CreatedAt = time.Now().UTC()

	_, err := s.pool.Exec(ctx,
		`INSERT INTO reviews (id, place, author, comment, created_at) VALUES ($1, $2, $3, $4, $5)`,
		review.ID, review.Place, review.Author, review.Comment, review.CreatedAt,
	)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: insert review")
	}
	return &review, nil
}

func (s *PostgresStore) ListReviews(ctx context.Context, place string) ([]model.Review, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, place, author, comment, created_at FROM reviews WHERE place = $1 ORDER BY created_at, id`,
		strings.TrimSpace(place),
	)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list reviews")
	}
	defer rows.Close()

	var reviews []model.Review
	for rows.Next() {
		var r model.Review
		if err := rows.Scan(&r.ID, &r.Place, &r.Author, &r.Comment, &r.CreatedAt); err != nil {
			return nil, eris.Wrap(err, "postgres: scan review")
		}
		reviews = append(reviews, r)
	}
	return reviews, eris.Wrap(rows.Err(), "postgres: iterate reviews")
}

func (s *PostgresStore) ListPlaces(ctx context.Context) ([]string, error) {
	rows, err := s.pool.Query(ctx, `SELECT DISTINCT place FROM reviews ORDER BY place`)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list places")
	}
	defer rows.Close()

	var places []string
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			return nil, eris.Wrap(err, "postgres: scan place")
		}
		places = append(places, p)
	}
	return places, eris.Wrap(rows.Err(), "postgres: iterate places")
}
