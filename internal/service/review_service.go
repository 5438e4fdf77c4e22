package service

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"

	"rentals-api/internal/domain"
	"rentals-api/internal/repository"
)

// ReviewInput is a review body that already passed field validation.
type ReviewInput struct {
	Rating int
	Title  string
	Body   string
}

// ReviewService enforces the review rules: the place must exist, owners cannot
// review their own place and every guest reviews a place at most once.
type ReviewService interface {
	Create(ctx context.Context, authorID, placeID string, in ReviewInput) (*domain.Review, error)
	ListForPlace(ctx context.Context, placeID string) ([]domain.Review, error)
	ListByAuthor(ctx context.Context, authorID string) ([]domain.Review, error)
}

type reviewService struct {
	reviews repository.ReviewRepository
	places  repository.PlaceRepository
	users   repository.UserRepository
	logger  *logrus.Logger
}

func NewReviewService(reviews repository.ReviewRepository, places repository.PlaceRepository, users repository.UserRepository, logger *logrus.Logger) ReviewService {
	if logger == nil {
		logger = logrus.New()
	}
	return &reviewService{
		reviews: reviews,
		places:  places,
		users:   users,
		logger:  logger,
	}
}

func (s *reviewService) Create(ctx context.Context, authorID, placeID string, in ReviewInput) (*domain.Review, error) {
	place, err := s.loadPlace(ctx, placeID)
	if err != nil {
		return nil, err
	}
	if place.OwnerID == authorID {
		return nil, ErrSelfReview
	}

	review := &domain.Review{
		AuthorID: authorID,
		PlaceID:  place.ID,
		Rating:   in.Rating,
		Title:    in.Title,
		Body:     in.Body,
	}
	// The insert is the duplicate check: the store rejects a second
	// review for the same (author, place) pair atomically.
	if err := s.reviews.Create(ctx, review); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrDuplicateReview
		}
		if errors.Is(err, repository.ErrNotFound) {
			// the author was deactivated while holding a live token
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	// The user's review index is a cache; a failed append leaves the review intact.
	if err := s.users.AppendReview(ctx, authorID, review.ID); err != nil {
		s.logger.WithFields(logrus.Fields{
			"user_id":   authorID,
			"review_id": review.ID,
		}).WithError(err).Warn("append review to user index")
	}

	return review, nil
}

func (s *reviewService) ListForPlace(ctx context.Context, placeID string) ([]domain.Review, error) {
	if _, err := s.loadPlace(ctx, placeID); err != nil {
		return nil, err
	}
	return s.reviews.ListByPlace(ctx, placeID)
}

func (s *reviewService) ListByAuthor(ctx context.Context, authorID string) ([]domain.Review, error) {
	return s.reviews.ListByAuthor(ctx, authorID)
}

func (s *reviewService) loadPlace(ctx context.Context, placeID string) (*domain.Place, error) {
	place, err := s.places.GetByID(ctx, placeID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrPlaceNotFound
		}
		return nil, err
	}
	return place, nil
}
