package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"rentals-api/internal/domain"
	"rentals-api/internal/repository"
)

// PlaceInput carries the fields of a new listing.
type PlaceInput struct {
	CityID        string
	Name          string
	Description   string
	Address       string
	PricePerNight int64
	MaxGuests     int
}

// ReservationInput is a validated booking request; EndDate is after StartDate.
type ReservationInput struct {
	StartDate time.Time
	EndDate   time.Time
}

// CityDetail is a city with its listings.
type CityDetail struct {
	City   domain.City
	Places []domain.Place
}

// PlaceDetail is a listing with its reviews.
type PlaceDetail struct {
	Place   domain.Place
	Reviews []domain.Review
}

// CatalogService serves cities and places and records listings and bookings.
type CatalogService interface {
	ListCities(ctx context.Context) ([]domain.City, error)
	GetCity(ctx context.Context, id string) (*CityDetail, error)
	GetPlace(ctx context.Context, id string) (*PlaceDetail, error)
	CreatePlace(ctx context.Context, ownerID string, in PlaceInput) (*domain.Place, error)
	CreateReservation(ctx context.Context, guestID, placeID string, in ReservationInput) (*domain.Reservation, error)
}

type catalogService struct {
	cities       repository.CityRepository
	places       repository.PlaceRepository
	reservations repository.ReservationRepository
	reviews      repository.ReviewRepository
}

func NewCatalogService(cities repository.CityRepository, places repository.PlaceRepository, reservations repository.ReservationRepository, reviews repository.ReviewRepository) CatalogService {
	return &catalogService{
		cities:       cities,
		places:       places,
		reservations: reservations,
		reviews:      reviews,
	}
}

func (s *catalogService) ListCities(ctx context.Context) ([]domain.City, error) {
	return s.cities.List(ctx)
}

func (s *catalogService) GetCity(ctx context.Context, id string) (*CityDetail, error) {
	city, err := s.cities.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrCityNotFound
		}
		return nil, err
	}

	places, err := s.places.ListByCity(ctx, id)
	if err != nil {
		return nil, err
	}
	return &CityDetail{City: *city, Places: places}, nil
}

func (s *catalogService) GetPlace(ctx context.Context, id string) (*PlaceDetail, error) {
	place, err := s.loadPlace(ctx, id)
	if err != nil {
		return nil, err
	}

	reviews, err := s.reviews.ListByPlace(ctx, id)
	if err != nil {
		return nil, err
	}
	return &PlaceDetail{Place: *place, Reviews: reviews}, nil
}

func (s *catalogService) CreatePlace(ctx context.Context, ownerID string, in PlaceInput) (*domain.Place, error) {
	if _, err := s.cities.GetByID(ctx, in.CityID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrCityNotFound
		}
		return nil, err
	}

	place := &domain.Place{
		OwnerID:       ownerID,
		CityID:        in.CityID,
		Name:          strings.TrimSpace(in.Name),
		Description:   in.Description,
		Address:       in.Address,
		PricePerNight: in.PricePerNight,
		MaxGuests:     in.MaxGuests,
	}
	if err := s.places.Create(ctx, place); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return place, nil
}

// CreateReservation books placeID for guestID. Overlapping bookings are not checked.
func (s *catalogService) CreateReservation(ctx context.Context, guestID, placeID string, in ReservationInput) (*domain.Reservation, error) {
	place, err := s.loadPlace(ctx, placeID)
	if err != nil {
		return nil, err
	}

	reservation := &domain.Reservation{
		UserID:    guestID,
		OwnerID:   place.OwnerID,
		PlaceID:   place.ID,
		StartDate: in.StartDate,
		EndDate:   in.EndDate,
	}
	if err := s.reservations.Create(ctx, reservation); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return reservation, nil
}

func (s *catalogService) loadPlace(ctx context.Context, id string) (*domain.Place, error) {
	place, err := s.places.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrPlaceNotFound
		}
		return nil, err
	}
	return place, nil
}
