package repository

import (
	"context"

	"rentals-api/internal/domain"
)

// CityRepository exposes persistence operations for cities.
type CityRepository interface {
	Init(ctx context.Context) error
	Create(ctx context.Context, city *domain.City) error
	GetByID(ctx context.Context, id string) (*domain.City, error)
	GetByName(ctx context.Context, name string) (*domain.City, error)
	List(ctx context.Context) ([]domain.City, error)
}

// PlaceRepository exposes persistence operations for places.
type PlaceRepository interface {
	Init(ctx context.Context) error
	Create(ctx context.Context, place *domain.Place) error
	GetByID(ctx context.Context, id string) (*domain.Place, error)
	ListByOwner(ctx context.Context, ownerID string) ([]domain.Place, error)
	ListByCity(ctx context.Context, cityID string) ([]domain.Place, error)
}

// ReservationRepository exposes persistence operations for reservations.
type ReservationRepository interface {
	Init(ctx context.Context) error
	Create(ctx context.Context, reservation *domain.Reservation) error
	ListByGuest(ctx context.Context, userID string) ([]domain.Reservation, error)
	ListByOwner(ctx context.Context, ownerID string) ([]domain.Reservation, error)
}

// ReviewRepository exposes persistence operations for reviews.
type ReviewRepository interface {
	Init(ctx context.Context) error
	// Create inserts the review and returns ErrDuplicate when the author
	// already reviewed the place.
	Create(ctx context.Context, review *domain.Review) error
	GetByID(ctx context.Context, id string) (*domain.Review, error)
	ListByPlace(ctx context.Context, placeID string) ([]domain.Review, error)
	ListByAuthor(ctx context.Context, authorID string) ([]domain.Review, error)
}
