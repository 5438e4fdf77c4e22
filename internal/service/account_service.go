package service

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"

	"rentals-api/internal/auth"
	"rentals-api/internal/domain"
	"rentals-api/internal/repository"
)

// AvatarCleaner schedules removal of a deleted account's stored avatars.
type AvatarCleaner interface {
	Enqueue(userID string)
}

// AccountService deactivates accounts after re-authentication.
type AccountService interface {
	Deactivate(ctx context.Context, userID, password string) (domain.CascadeResult, error)
}

type accountService struct {
	users     repository.UserRepository
	accounts  repository.AccountRepository
	passwords auth.PasswordGuard
	cleaner   AvatarCleaner
	logger    *logrus.Logger
}

// NewAccountService builds the deactivation service. cleaner may be nil.
func NewAccountService(users repository.UserRepository, accounts repository.AccountRepository, passwords auth.PasswordGuard, cleaner AvatarCleaner, logger *logrus.Logger) AccountService {
	if logger == nil {
		logger = logrus.New()
	}
	return &accountService{
		users:     users,
		accounts:  accounts,
		passwords: passwords,
		cleaner:   cleaner,
		logger:    logger,
	}
}

// Deactivate verifies password and removes the account with its places,
// reservations (as guest and as host) and reviews. Nothing is deleted unless
// every check passes.
func (s *accountService) Deactivate(ctx context.Context, userID, password string) (domain.CascadeResult, error) {
	if password == "" {
		return domain.CascadeResult{}, ErrDeactivationPassword
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return domain.CascadeResult{}, ErrUserNotFound
		}
		return domain.CascadeResult{}, err
	}

	if !s.passwords.Verify(password, user.PasswordHash) {
		return domain.CascadeResult{}, ErrInvalidCredentials
	}

	result, err := s.accounts.DeleteCascade(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return domain.CascadeResult{}, ErrUserNotFound
		}
		return domain.CascadeResult{}, err
	}

	s.logger.WithFields(logrus.Fields{
		"user_id":      userID,
		"places":       result.Places,
		"reservations": result.Reservations,
		"reviews":      result.Reviews,
	}).Info("account deactivated")

	if s.cleaner != nil && user.AvatarURL != "" {
		s.cleaner.Enqueue(userID)
	}
	return result, nil
}
