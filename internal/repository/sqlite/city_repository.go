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

const createCitiesTable = `
CREATE TABLE IF NOT EXISTS cities (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL UNIQUE,
	country TEXT NOT NULL DEFAULT '',
	created_at DATETIME NOT NULL
);
`

var _ repository.CityRepository = (*CityRepository)(nil)

type CityRepository struct {
	db *sql.DB
}

func NewCityRepository(db *sql.DB) *CityRepository {
	return &CityRepository{db: db}
}

func (r *CityRepository) Init(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, createCitiesTable); err != nil {
		return fmt.Errorf("create cities table: %w", err)
	}
	return nil
}

func (r *CityRepository) Create(ctx context.Context, city *domain.City) error {
	if city.ID == "" {
		city.ID = uuid.NewString()
	}
	city.CreatedAt = time.Now().UTC()

	_, err := r.db.ExecContext(ctx, `
INSERT INTO cities (id, name, country, created_at)
VALUES (?, ?, ?, ?)`,
		city.ID, city.Name, city.Country, city.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("city %q: %w", city.Name, repository.ErrDuplicate)
		}
		return wrapf(err, "insert city", "city_id", city.ID)
	}
	return nil
}

func (r *CityRepository) GetByID(ctx context.Context, id string) (*domain.City, error) {
	row := r.db.QueryRowContext(ctx, `SELECT id, name, country, created_at FROM cities WHERE id = ?`, id)
	return scanCity(row)
}

func (r *CityRepository) GetByName(ctx context.Context, name string) (*domain.City, error) {
	row := r.db.QueryRowContext(ctx, `SELECT id, name, country, created_at FROM cities WHERE name = ?`, name)
	return scanCity(row)
}

func (r *CityRepository) List(ctx context.Context) ([]domain.City, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name, country, created_at FROM cities ORDER BY name ASC`)
	if err != nil {
		return nil, wrapf(err, "query cities")
	}
	defer rows.Close()

	cities := []domain.City{}
	for rows.Next() {
		city, err := scanCity(rows)
		if err != nil {
			return nil, err
		}
		cities = append(cities, *city)
	}
	return cities, rows.Err()
}

func scanCity(row interface {
	Scan(dest ...any) error
}) (*domain.City, error) {
	var city domain.City
	if err := row.Scan(&city.ID, &city.Name, &city.Country, &city.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("city: %w", repository.ErrNotFound)
		}
		return nil, fmt.Errorf("scan city: %w", err)
	}
	return &city, nil
}
