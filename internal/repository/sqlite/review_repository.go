package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"rentals-api/internal/domain"
	"rentals-api/internal/repository"
)

// At most one review per (author, place) pair.
const createReviewsTable = `
CREATE TABLE IF NOT EXISTS reviews (
	id TEXT PRIMARY KEY,
	author_id TEXT NOT NULL REFERENCES users(id),
	place_id TEXT NOT NULL REFERENCES places(id),
	rating INTEGER NOT NULL CHECK (rating BETWEEN 1 AND 5),
	title TEXT NOT NULL,
	body TEXT NOT NULL,
	created_at DATETIME NOT NULL
);
CREATE UNIQUE INDEX IF NOT EXISTS idx_reviews_author_place ON reviews(author_id, place_id);
CREATE INDEX IF NOT EXISTS idx_reviews_place_id ON reviews(place_id);
`

const reviewColumns = `id, author_id, place_id, rating, title, body, created_at`

var _ repository.ReviewRepository = (*ReviewRepository)(nil)

type ReviewRepository struct {
	db *sql.DB
}

func NewReviewRepository(db *sql.DB) *ReviewRepository {
	return &ReviewRepository{db: db}
}

func (r *ReviewRepository) Init(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, createReviewsTable); err != nil {
		return fmt.Errorf("create reviews table: %w", err)
	}
	return nil
}

func (r *ReviewRepository) Create(ctx context.Context, review *domain.Review) error {
	if review.ID == "" {
		review.ID = uuid.NewString()
	}
	review.CreatedAt = time.Now().UTC()

	_, err := r.db.ExecContext(ctx, `
INSERT INTO reviews (`+reviewColumns+`)
VALUES (?, ?, ?, ?, ?, ?, ?)`,
		review.ID,
		review.AuthorID,
		review.PlaceID,
		review.Rating,
		review.Title,
		review.Body,
		review.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("review by %s for %s: %w", review.AuthorID, review.PlaceID, repository.ErrDuplicate)
		}
		if isForeignKeyViolation(err) {
			return fmt.Errorf("review author or place: %w", repository.ErrNotFound)
		}
		return wrapf(err, "insert review", "author_id", review.AuthorID, "place_id", review.PlaceID)
	}
	return nil
}

func (r *ReviewRepository) GetByID(ctx context.Context, id string) (*domain.Review, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+reviewColumns+` FROM reviews WHERE id = ?`, id)
	review, err := scanReview(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("review %s: %w", id, repository.ErrNotFound)
	}
	return review, err
}

func (r *ReviewRepository) ListByPlace(ctx context.Context, placeID string) ([]domain.Review, error) {
	return r.list(ctx, `SELECT `+reviewColumns+` FROM reviews WHERE place_id = ? ORDER BY created_at DESC`, placeID)
}

func (r *ReviewRepository) ListByAuthor(ctx context.Context, authorID string) ([]domain.Review, error) {
	return r.list(ctx, `SELECT `+reviewColumns+` FROM reviews WHERE author_id = ? ORDER BY created_at DESC`, authorID)
}

func (r *ReviewRepository) list(ctx context.Context, query string, args ...any) ([]domain.Review, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, wrapf(err, "query reviews")
	}
	defer rows.Close()

	reviews := []domain.Review{}
	for rows.Next() {
		review, err := scanReview(rows)
		if err != nil {
			return nil, fmt.Errorf("scan review: %w", err)
		}
		reviews = append(reviews, *review)
	}
	return reviews, rows.Err()
}

func scanReview(row interface {
	Scan(dest ...any) error
}) (*domain.Review, error) {
	var review domain.Review
	if err := row.Scan(
		&review.ID,
		&review.AuthorID,
		&review.PlaceID,
		&review.Rating,
		&review.Title,
		&review.Body,
		&review.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &review, nil
}
