package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"rentals-api/internal/auth"
	"rentals-api/internal/domain"
	"rentals-api/internal/repository"
)

// RegisterInput carries the fields of a new account.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

// UpdateInput carries a partial profile edit. Nil pointers leave fields untouched.
// Password re-authenticates an email change; OldPassword authorizes NewPassword.
type UpdateInput struct {
	Name        *string
	Bio         *string
	AvatarURL   *string
	Email       *string
	Password    string
	OldPassword string
	NewPassword string
}

// AvatarUpload is an image received from the client.
type AvatarUpload struct {
	Body        io.Reader
	ContentType string
	Ext         string
}

// AvatarUploader stores avatar images and returns their public URL.
type AvatarUploader interface {
	Upload(ctx context.Context, userID string, body io.Reader, contentType, ext string) (string, error)
}

// UserService describes user lifecycle operations.
type UserService interface {
	Register(ctx context.Context, in RegisterInput) (*domain.User, error)
	Authenticate(ctx context.Context, email, password string) (*domain.User, error)
	GetByID(ctx context.Context, id string) (*domain.User, error)
	Profile(ctx context.Context, id string) (*domain.Profile, error)
	PublicProfile(ctx context.Context, id string) (*domain.Profile, error)
	Update(ctx context.Context, id string, in UpdateInput) (*domain.User, error)
	SetAvatar(ctx context.Context, id string, upload AvatarUpload) (*domain.User, error)
}

type userService struct {
	users        repository.UserRepository
	places       repository.PlaceRepository
	reservations repository.ReservationRepository
	reviews      repository.ReviewRepository
	passwords    auth.PasswordGuard
	avatars      AvatarUploader
}

// NewUserService builds the user service. avatars may be nil when no object
// storage is configured; SetAvatar then fails.
func NewUserService(
	users repository.UserRepository,
	places repository.PlaceRepository,
	reservations repository.ReservationRepository,
	reviews repository.ReviewRepository,
	passwords auth.PasswordGuard,
	avatars AvatarUploader,
) UserService {
	return &userService{
		users:        users,
		places:       places,
		reservations: reservations,
		reviews:      reviews,
		passwords:    passwords,
		avatars:      avatars,
	}
}

func (s *userService) Register(ctx context.Context, in RegisterInput) (*domain.User, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, ErrBlankName
	}
	hash, err := s.hash(in.Password)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Name:         name,
		Email:        normalizeEmail(in.Email),
		PasswordHash: hash,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}

	return sanitizeUser(user), nil
}

func (s *userService) Authenticate(ctx context.Context, email, password string) (*domain.User, error) {
	if email == "" || password == "" {
		return nil, ErrLoginFailed
	}

	user, err := s.users.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrLoginFailed
		}
		return nil, err
	}

	if !s.passwords.Verify(password, user.PasswordHash) {
		return nil, ErrLoginFailed
	}

	return sanitizeUser(user), nil
}

func (s *userService) GetByID(ctx context.Context, id string) (*domain.User, error) {
	user, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	return sanitizeUser(user), nil
}

// Profile assembles the owner's view. Reviews come from the reviews table,
// not from the user's cached review index.
func (s *userService) Profile(ctx context.Context, id string) (*domain.Profile, error) {
	user, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	places, err := s.places.ListByOwner(ctx, id)
	if err != nil {
		return nil, err
	}
	reservations, err := s.reservations.ListByGuest(ctx, id)
	if err != nil {
		return nil, err
	}
	reviews, err := s.reviews.ListByAuthor(ctx, id)
	if err != nil {
		return nil, err
	}

	return &domain.Profile{
		User:         *sanitizeUser(user),
		Places:       places,
		Reservations: reservations,
		Reviews:      reviews,
	}, nil
}

// PublicProfile exposes only the name, avatar and listings of a user.
func (s *userService) PublicProfile(ctx context.Context, id string) (*domain.Profile, error) {
	user, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	places, err := s.places.ListByOwner(ctx, id)
	if err != nil {
		return nil, err
	}

	return &domain.Profile{
		User: domain.User{
			ID:        user.ID,
			Name:      user.Name,
			AvatarURL: user.AvatarURL,
		},
		Places: places,
	}, nil
}

func (s *userService) Update(ctx context.Context, id string, in UpdateInput) (*domain.User, error) {
	user, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	currentHash := user.PasswordHash

	if in.NewPassword != "" {
		if in.OldPassword == "" {
			return nil, ErrOldPasswordRequired
		}
		if !s.passwords.Verify(in.OldPassword, currentHash) {
			return nil, ErrInvalidCredentials
		}
		hash, err := s.hash(in.NewPassword)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = hash
	}

	if in.Email != nil {
		if in.Password == "" {
			return nil, ErrPasswordRequired
		}
		if !s.passwords.Verify(in.Password, currentHash) {
			return nil, ErrInvalidCredentials
		}
		user.Email = normalizeEmail(*in.Email)
	}

	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, ErrBlankName
		}
		user.Name = name
	}
	if in.Bio != nil {
		user.Bio = *in.Bio
	}
	if in.AvatarURL != nil {
		user.AvatarURL = *in.AvatarURL
	}

	if err := s.save(ctx, user); err != nil {
		return nil, err
	}
	return sanitizeUser(user), nil
}

func (s *userService) SetAvatar(ctx context.Context, id string, upload AvatarUpload) (*domain.User, error) {
	if s.avatars == nil {
		return nil, fmt.Errorf("avatar storage is not configured")
	}

	user, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	url, err := s.avatars.Upload(ctx, id, upload.Body, upload.ContentType, upload.Ext)
	if err != nil {
		return nil, fmt.Errorf("upload avatar: %w", err)
	}
	user.AvatarURL = url

	if err := s.save(ctx, user); err != nil {
		return nil, err
	}
	return sanitizeUser(user), nil
}

func (s *userService) load(ctx context.Context, id string) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

func (s *userService) save(ctx context.Context, user *domain.User) error {
	err := s.users.Update(ctx, user)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repository.ErrDuplicate):
		return ErrEmailTaken
	case errors.Is(err, repository.ErrNotFound):
		return ErrUserNotFound
	default:
		return err
	}
}

func (s *userService) hash(password string) (string, error) {
	hash, err := s.passwords.Hash(password)
	if errors.Is(err, auth.ErrPasswordTooLong) {
		return "", ErrPasswordTooLong
	}
	return hash, err
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func sanitizeUser(user *domain.User) *domain.User {
	if user == nil {
		return nil
	}
	clean := *user
	clean.PasswordHash = ""
	clean.ReviewIDs = append([]string(nil), user.ReviewIDs...)
	return &clean
}
