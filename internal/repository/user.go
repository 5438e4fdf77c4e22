package repository

import (
	"context"

	"rentals-api/internal/domain"
)

// UserRepository defines persistence operations for User entities.
type UserRepository interface {
	Init(ctx context.Context) error
	Create(ctx context.Context, user *domain.User) error
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id string) (*domain.User, error)
	Update(ctx context.Context, user *domain.User) error
	// AppendReview adds reviewID to the user's advisory review index.
	AppendReview(ctx context.Context, userID, reviewID string) error
}

// AccountRepository removes an account together with everything that references it.
type AccountRepository interface {
	DeleteCascade(ctx context.Context, userID string) (domain.CascadeResult, error)
}
