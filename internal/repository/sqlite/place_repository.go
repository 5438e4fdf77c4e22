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

const createPlacesTable = `
CREATE TABLE IF NOT EXISTS places (
	id TEXT PRIMARY KEY,
	owner_id TEXT NOT NULL REFERENCES users(id),
	city_id TEXT NOT NULL REFERENCES cities(id),
	name TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	address TEXT NOT NULL DEFAULT '',
	price_per_night INTEGER NOT NULL DEFAULT 0,
	max_guests INTEGER NOT NULL DEFAULT 1,
	created_at DATETIME NOT NULL,
	updated_at DATETIME NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_places_owner_id ON places(owner_id);
CREATE INDEX IF NOT EXISTS idx_places_city_id ON places(city_id);
`

const placeColumns = `id, owner_id, city_id, name, description, address, price_per_night, max_guests, created_at, updated_at`

var _ repository.PlaceRepository = (*PlaceRepository)(nil)

type PlaceRepository struct {
	db *sql.DB
}

func NewPlaceRepository(db *sql.DB) *PlaceRepository {
	return &PlaceRepository{db: db}
}

func (r *PlaceRepository) Init(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, createPlacesTable); err != nil {
		return fmt.Errorf("create places table: %w", err)
	}
	return nil
}

func (r *PlaceRepository) Create(ctx context.Context, place *domain.Place) error {
	if place.ID == "" {
		place.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	place.CreatedAt = now
	place.UpdatedAt = now

	_, err := r.db.ExecContext(ctx, `
INSERT INTO places (`+placeColumns+`)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		place.ID,
		place.OwnerID,
		place.CityID,
		place.Name,
		place.Description,
		place.Address,
		place.PricePerNight,
		place.MaxGuests,
		place.CreatedAt,
		place.UpdatedAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("place owner or city: %w", repository.ErrNotFound)
		}
		return wrapf(err, "insert place", "place_id", place.ID, "owner_id", place.OwnerID)
	}
	return nil
}

func (r *PlaceRepository) GetByID(ctx context.Context, id string) (*domain.Place, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+placeColumns+` FROM places WHERE id = ?`, id)
	return scanPlace(row)
}

func (r *PlaceRepository) ListByOwner(ctx context.Context, ownerID string) ([]domain.Place, error) {
	return r.list(ctx, `SELECT `+placeColumns+` FROM places WHERE owner_id = ? ORDER BY created_at ASC`, ownerID)
}

func (r *PlaceRepository) ListByCity(ctx context.Context, cityID string) ([]domain.Place, error) {
	return r.list(ctx, `SELECT `+placeColumns+` FROM places WHERE city_id = ? ORDER BY created_at ASC`, cityID)
}

func (r *PlaceRepository) list(ctx context.Context, query string, args ...any) ([]domain.Place, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, wrapf(err, "query places")
	}
	defer rows.Close()

	places := []domain.Place{}
	for rows.Next() {
		place, err := scanPlace(rows)
		if err != nil {
			return nil, err
		}
		places = append(places, *place)
	}
	return places, rows.Err()
}

func scanPlace(row interface {
	Scan(dest ...any) error
}) (*domain.Place, error) {
	var place domain.Place
	if err := row.Scan(
		&place.ID,
		&place.OwnerID,
		&place.CityID,
		&place.Name,
		&place.Description,
		&place.Address,
		&place.PricePerNight,
		&place.MaxGuests,
		&place.CreatedAt,
		&place.UpdatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("place: %w", repository.ErrNotFound)
		}
		return nil, fmt.Errorf("scan place: %w", err)
	}
	return &place, nil
}
