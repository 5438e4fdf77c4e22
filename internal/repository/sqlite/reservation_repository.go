package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"rentals-api/internal/domain"
	"rentals-api/internal/repository"
)

const createReservationsTable = `
CREATE TABLE IF NOT EXISTS reservations (
	id TEXT PRIMARY KEY,
	user_id TEXT NOT NULL REFERENCES users(id),
	owner_id TEXT NOT NULL REFERENCES users(id),
	place_id TEXT NOT NULL REFERENCES places(id),
	start_date DATETIME NOT NULL,
	end_date DATETIME NOT NULL,
	created_at DATETIME NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_reservations_user_id ON reservations(user_id);
CREATE INDEX IF NOT EXISTS idx_reservations_owner_id ON reservations(owner_id);
CREATE INDEX IF NOT EXISTS idx_reservations_place_id ON reservations(place_id);
`

const reservationColumns = `id, user_id, owner_id, place_id, start_date, end_date, created_at`

var _ repository.ReservationRepository = (*ReservationRepository)(nil)

type ReservationRepository struct {
	db *sql.DB
}

func NewReservationRepository(db *sql.DB) *ReservationRepository {
	return &ReservationRepository{db: db}
}

func (r *ReservationRepository) Init(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, createReservationsTable); err != nil {
		return fmt.Errorf("create reservations table: %w", err)
	}
	return nil
}

func (r *ReservationRepository) Create(ctx context.Context, reservation *domain.Reservation) error {
	if reservation.ID == "" {
		reservation.ID = uuid.NewString()
	}
	reservation.CreatedAt = time.Now().UTC()

	_, err := r.db.ExecContext(ctx, `
INSERT INTO reservations (`+reservationColumns+`)
VALUES (?, ?, ?, ?, ?, ?, ?)`,
		reservation.ID,
		reservation.UserID,
		reservation.OwnerID,
		reservation.PlaceID,
		reservation.StartDate.UTC(),
		reservation.EndDate.UTC(),
		reservation.CreatedAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("reservation guest, owner or place: %w", repository.ErrNotFound)
		}
		return wrapf(err, "insert reservation", "reservation_id", reservation.ID, "place_id", reservation.PlaceID)
	}
	return nil
}

func (r *ReservationRepository) ListByGuest(ctx context.Context, userID string) ([]domain.Reservation, error) {
	return r.list(ctx, `SELECT `+reservationColumns+` FROM reservations WHERE user_id = ? ORDER BY start_date ASC`, userID)
}

func (r *ReservationRepository) ListByOwner(ctx context.Context, ownerID string) ([]domain.Reservation, error) {
	return r.list(ctx, `SELECT `+reservationColumns+` FROM reservations WHERE owner_id = ? ORDER BY start_date ASC`, ownerID)
}

func (r *ReservationRepository) list(ctx context.Context, query string, args ...any) ([]domain.Reservation, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, wrapf(err, "query reservations")
	}
	defer rows.Close()

	reservations := []domain.Reservation{}
	for rows.Next() {
		var res domain.Reservation
		if err := rows.Scan(
			&res.ID,
			&res.UserID,
			&res.OwnerID,
			&res.PlaceID,
			&res.StartDate,
			&res.EndDate,
			&res.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan reservation: %w", err)
		}
		reservations = append(reservations, res)
	}
	return reservations, rows.Err()
}
