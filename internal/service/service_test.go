package service

import (
	"context"
	"io"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"rentals-api/internal/auth"
	"rentals-api/internal/domain"
	"rentals-api/internal/repository"
	"rentals-api/internal/repository/sqlite"
)

type fixture struct {
	repos    *sqlite.Repositories
	guard    auth.PasswordGuard
	users    UserService
	reviews  ReviewService
	catalog  CatalogService
	accounts AccountService
	cleaner  *recordingCleaner
}

type recordingCleaner struct {
	mu  sync.Mutex
	ids []string
}

func (c *recordingCleaner) Enqueue(userID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ids = append(c.ids, userID)
}

func (c *recordingCleaner) enqueued() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.ids...)
}

type stubUploader struct {
	url  string
	body string
}

func (u *stubUploader) Upload(_ context.Context, userID string, body io.Reader, _ string, ext string) (string, error) {
	b, err := io.ReadAll(body)
	if err != nil {
		return "", err
	}
	u.body = string(b)
	u.url = "https://cdn.example.com/avatars/" + userID + ext
	return u.url, nil
}

func newFixture(t *testing.T, uploader AvatarUploader) *fixture {
	t.Helper()

	db, err := sqlite.Open(filepath.Join(t.TempDir(), "rentals.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	repos := sqlite.NewRepositories(db)
	require.NoError(t, repos.Init(context.Background()))

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	guard := auth.NewBcryptGuard(bcrypt.MinCost)
	cleaner := &recordingCleaner{}
	return &fixture{
		repos:    repos,
		guard:    guard,
		users:    NewUserService(repos.Users, repos.Places, repos.Reservations, repos.Reviews, guard, uploader),
		reviews:  NewReviewService(repos.Reviews, repos.Places, repos.Users, logger),
		catalog:  NewCatalogService(repos.Cities, repos.Places, repos.Reservations, repos.Reviews),
		accounts: NewAccountService(repos.Users, repos.Accounts, guard, cleaner, logger),
		cleaner:  cleaner,
	}
}

func (f *fixture) register(t *testing.T, email string) *domain.User {
	t.Helper()
	user, err := f.users.Register(context.Background(), RegisterInput{Name: "Test", Email: email, Password: "secret-pw"})
	require.NoError(t, err)
	return user
}

func (f *fixture) listPlace(t *testing.T, ownerID string) *domain.Place {
	t.Helper()
	ctx := context.Background()
	city, err := f.repos.Cities.GetByName(ctx, "Porto")
	if err != nil {
		city = &domain.City{Name: "Porto", Country: "Portugal"}
		require.NoError(t, f.repos.Cities.Create(ctx, city))
	}
	place, err := f.catalog.CreatePlace(ctx, ownerID, PlaceInput{CityID: city.ID, Name: "River view", PricePerNight: 9000, MaxGuests: 3})
	require.NoError(t, err)
	return place
}

func TestUserService_RegisterAndAuthenticate(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	user := f.register(t, " Ana@Example.com ")
	assert.Equal(t, "ana@example.com", user.Email)
	assert.Empty(t, user.PasswordHash)

	_, err := f.users.Register(ctx, RegisterInput{Name: "Other", Email: "ana@example.com", Password: "x"})
	assert.ErrorIs(t, err, ErrEmailTaken)
	assert.ErrorIs(t, err, ErrConflict)

	_, err = f.users.Register(ctx, RegisterInput{Name: "   ", Email: "blank@example.com", Password: "secret-pw"})
	assert.ErrorIs(t, err, ErrBlankName)

	_, err = f.users.Register(ctx, RegisterInput{Name: "Long", Email: "long@example.com", Password: strings.Repeat("a", 80)})
	assert.ErrorIs(t, err, ErrPasswordTooLong)
	assert.ErrorIs(t, err, ErrValidation)

	got, err := f.users.Authenticate(ctx, "ANA@example.com", "secret-pw")
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)

	_, err = f.users.Authenticate(ctx, "ana@example.com", "wrong")
	assert.ErrorIs(t, err, ErrLoginFailed)

	_, err = f.users.Authenticate(ctx, "nobody@example.com", "secret-pw")
	assert.ErrorIs(t, err, ErrLoginFailed)
}

func TestUserService_Update(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	user := f.register(t, "bo@example.com")

	name := "Bo"
	bio := "hosts in Porto"
	got, err := f.users.Update(ctx, user.ID, UpdateInput{Name: &name, Bio: &bio})
	require.NoError(t, err)
	assert.Equal(t, "Bo", got.Name)
	assert.Equal(t, "hosts in Porto", got.Bio)

	email := "bo@new.example.com"
	blank := "  "
	tests := []struct {
		name string
		in   UpdateInput
		want error
	}{
		{"email without password", UpdateInput{Email: &email}, ErrPasswordRequired},
		{"email with wrong password", UpdateInput{Email: &email, Password: "nope"}, ErrInvalidCredentials},
		{"new password without old", UpdateInput{NewPassword: "next"}, ErrOldPasswordRequired},
		{"new password with wrong old", UpdateInput{NewPassword: "next", OldPassword: "nope"}, ErrInvalidCredentials},
		{"new password over 72 bytes", UpdateInput{NewPassword: strings.Repeat("a", 80), OldPassword: "secret-pw"}, ErrPasswordTooLong},
		{"blank name", UpdateInput{Name: &blank}, ErrBlankName},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.users.Update(ctx, user.ID, tt.in)
			assert.ErrorIs(t, err, tt.want)
		})
	}

	got, err = f.users.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "Bo", got.Name)

	got, err = f.users.Update(ctx, user.ID, UpdateInput{Email: &email, Password: "secret-pw"})
	require.NoError(t, err)
	assert.Equal(t, email, got.Email)

	_, err = f.users.Update(ctx, user.ID, UpdateInput{NewPassword: "next-pw", OldPassword: "secret-pw"})
	require.NoError(t, err)
	_, err = f.users.Authenticate(ctx, email, "next-pw")
	assert.NoError(t, err)

	taken := f.register(t, "taken@example.com")
	_, err = f.users.Update(ctx, user.ID, UpdateInput{Email: &taken.Email, Password: "next-pw"})
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestUserService_Profiles(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	host := f.register(t, "host@example.com")
	guest := f.register(t, "guest@example.com")
	place := f.listPlace(t, host.ID)

	_, err := f.reviews.Create(ctx, guest.ID, place.ID, ReviewInput{Rating: 4, Title: "Nice", Body: "Clean"})
	require.NoError(t, err)

	profile, err := f.users.Profile(ctx, guest.ID)
	require.NoError(t, err)
	require.Len(t, profile.Reviews, 1)
	assert.Empty(t, profile.User.PasswordHash)

	public, err := f.users.PublicProfile(ctx, host.ID)
	require.NoError(t, err)
	assert.Empty(t, public.User.Email)
	require.Len(t, public.Places, 1)
	assert.Equal(t, place.ID, public.Places[0].ID)

	_, err = f.users.Profile(ctx, "missing")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestUserService_SetAvatar(t *testing.T) {
	uploader := &stubUploader{}
	f := newFixture(t, uploader)
	ctx := context.Background()
	user := f.register(t, "pic@example.com")

	got, err := f.users.SetAvatar(ctx, user.ID, AvatarUpload{Body: stringReader("png-bytes"), ContentType: "image/png", Ext: ".png"})
	require.NoError(t, err)
	assert.Equal(t, uploader.url, got.AvatarURL)
	assert.Equal(t, "png-bytes", uploader.body)

	noStorage := newFixture(t, nil)
	other := noStorage.register(t, "pic@example.com")
	_, err = noStorage.users.SetAvatar(ctx, other.ID, AvatarUpload{Body: stringReader("x")})
	assert.Error(t, err)
}

func TestReviewService_Create(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	host := f.register(t, "host@example.com")
	guest := f.register(t, "guest@example.com")
	place := f.listPlace(t, host.ID)

	t.Run("owner cannot review own place", func(t *testing.T) {
		_, err := f.reviews.Create(ctx, host.ID, place.ID, ReviewInput{Rating: 5, Title: "Mine"})
		assert.ErrorIs(t, err, ErrSelfReview)
		assert.ErrorIs(t, err, ErrForbidden)

		reviews, err := f.reviews.ListForPlace(ctx, place.ID)
		require.NoError(t, err)
		assert.Empty(t, reviews)
	})

	t.Run("unknown place", func(t *testing.T) {
		_, err := f.reviews.Create(ctx, guest.ID, "missing", ReviewInput{Rating: 3, Title: "?"})
		assert.ErrorIs(t, err, ErrPlaceNotFound)
	})

	t.Run("first review succeeds and second is rejected", func(t *testing.T) {
		review, err := f.reviews.Create(ctx, guest.ID, place.ID, ReviewInput{Rating: 4, Title: "Great", Body: "Would stay again"})
		require.NoError(t, err)
		assert.NotEmpty(t, review.ID)

		_, err = f.reviews.Create(ctx, guest.ID, place.ID, ReviewInput{Rating: 1, Title: "Again"})
		assert.ErrorIs(t, err, ErrDuplicateReview)

		author, err := f.repos.Users.GetByID(ctx, guest.ID)
		require.NoError(t, err)
		assert.Equal(t, []string{review.ID}, author.ReviewIDs)
	})
}

func TestReviewService_ConcurrentCreate(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	host := f.register(t, "host@example.com")
	guest := f.register(t, "guest@example.com")
	place := f.listPlace(t, host.ID)

	const attempts = 6
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		created int
		dupes   int
	)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.reviews.Create(ctx, guest.ID, place.ID, ReviewInput{Rating: 3, Title: "Race"})
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				created++
			case assert.ErrorIs(t, err, ErrDuplicateReview):
				dupes++
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, created)
	assert.Equal(t, attempts-1, dupes)

	reviews, err := f.reviews.ListForPlace(ctx, place.ID)
	require.NoError(t, err)
	assert.Len(t, reviews, 1)
}

// failingIndex rejects every review index append.
type failingIndex struct {
	repository.UserRepository
}

func (failingIndex) AppendReview(context.Context, string, string) error {
	return assert.AnError
}

func TestReviewService_IndexFailureKeepsReview(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	host := f.register(t, "host@example.com")
	guest := f.register(t, "guest@example.com")
	place := f.listPlace(t, host.ID)

	logger := logrus.New()
	logger.SetOutput(io.Discard)
	svc := NewReviewService(f.repos.Reviews, f.repos.Places, failingIndex{f.repos.Users}, logger)

	review, err := svc.Create(ctx, guest.ID, place.ID, ReviewInput{Rating: 2, Title: "Meh"})
	require.NoError(t, err)

	stored, err := f.repos.Reviews.GetByID(ctx, review.ID)
	require.NoError(t, err)
	assert.Equal(t, guest.ID, stored.AuthorID)
}

func TestCatalogService(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	host := f.register(t, "host@example.com")
	guest := f.register(t, "guest@example.com")
	place := f.listPlace(t, host.ID)

	_, err := f.catalog.CreatePlace(ctx, host.ID, PlaceInput{CityID: "missing", Name: "Nowhere"})
	assert.ErrorIs(t, err, ErrCityNotFound)

	cities, err := f.catalog.ListCities(ctx)
	require.NoError(t, err)
	require.Len(t, cities, 1)

	city, err := f.catalog.GetCity(ctx, cities[0].ID)
	require.NoError(t, err)
	require.Len(t, city.Places, 1)
	assert.Equal(t, place.ID, city.Places[0].ID)

	_, err = f.catalog.GetCity(ctx, "missing")
	assert.ErrorIs(t, err, ErrCityNotFound)

	start := time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC)
	res, err := f.catalog.CreateReservation(ctx, guest.ID, place.ID, ReservationInput{StartDate: start, EndDate: start.AddDate(0, 0, 2)})
	require.NoError(t, err)
	assert.Equal(t, host.ID, res.OwnerID)
	assert.Equal(t, guest.ID, res.UserID)

	_, err = f.catalog.CreateReservation(ctx, guest.ID, "missing", ReservationInput{StartDate: start, EndDate: start.AddDate(0, 0, 1)})
	assert.ErrorIs(t, err, ErrPlaceNotFound)

	detail, err := f.catalog.GetPlace(ctx, place.ID)
	require.NoError(t, err)
	assert.Equal(t, place.Name, detail.Place.Name)
	assert.Empty(t, detail.Reviews)
}

func TestAccountService_Deactivate(t *testing.T) {
	f := newFixture(t, &stubUploader{})
	ctx := context.Background()
	host := f.register(t, "host@example.com")
	guest := f.register(t, "guest@example.com")
	place := f.listPlace(t, host.ID)

	start := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	_, err := f.catalog.CreateReservation(ctx, guest.ID, place.ID, ReservationInput{StartDate: start, EndDate: start.AddDate(0, 0, 4)})
	require.NoError(t, err)
	_, err = f.reviews.Create(ctx, guest.ID, place.ID, ReviewInput{Rating: 5, Title: "Lovely"})
	require.NoError(t, err)

	t.Run("missing password", func(t *testing.T) {
		_, err := f.accounts.Deactivate(ctx, host.ID, "")
		assert.ErrorIs(t, err, ErrDeactivationPassword)
	})

	t.Run("wrong password deletes nothing", func(t *testing.T) {
		_, err := f.accounts.Deactivate(ctx, host.ID, "wrong")
		assert.ErrorIs(t, err, ErrInvalidCredentials)

		_, err = f.repos.Users.GetByID(ctx, host.ID)
		assert.NoError(t, err)
		_, err = f.repos.Places.GetByID(ctx, place.ID)
		assert.NoError(t, err)
	})

	t.Run("unknown user", func(t *testing.T) {
		_, err := f.accounts.Deactivate(ctx, "missing", "secret-pw")
		assert.ErrorIs(t, err, ErrUserNotFound)
	})

	t.Run("host account cascades", func(t *testing.T) {
		_, err := f.users.SetAvatar(ctx, host.ID, AvatarUpload{Body: stringReader("img"), ContentType: "image/png", Ext: ".png"})
		require.NoError(t, err)

		result, err := f.accounts.Deactivate(ctx, host.ID, "secret-pw")
		require.NoError(t, err)
		assert.Equal(t, domain.CascadeResult{Places: 1, Reservations: 1, Reviews: 1}, result)

		_, err = f.repos.Users.GetByID(ctx, host.ID)
		assert.ErrorIs(t, err, repository.ErrNotFound)
		_, err = f.repos.Places.GetByID(ctx, place.ID)
		assert.ErrorIs(t, err, repository.ErrNotFound)

		reservations, err := f.repos.Reservations.ListByGuest(ctx, guest.ID)
		require.NoError(t, err)
		assert.Empty(t, reservations)

		assert.Equal(t, []string{host.ID}, f.cleaner.enqueued())
	})

	t.Run("guest without avatar is not queued for cleanup", func(t *testing.T) {
		_, err := f.accounts.Deactivate(ctx, guest.ID, "secret-pw")
		require.NoError(t, err)
		assert.Equal(t, []string{host.ID}, f.cleaner.enqueued())
	})
}

func stringReader(s string) io.Reader {
	return strings.NewReader(s)
}
