package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"rentals-api/internal/domain"
	"rentals-api/internal/repository"
)

var _ repository.AccountRepository = (*AccountRepository)(nil)

// AccountRepository deletes accounts and their dependents in a single transaction.
type AccountRepository struct {
	db *sql.DB
}

func NewAccountRepository(db *sql.DB) *AccountRepository {
	return &AccountRepository{db: db}
}

// DeleteCascade removes reviews, reservations and places referencing userID,
// then the user row. Counts cover the dependents only.
func (r *AccountRepository) DeleteCascade(ctx context.Context, userID string) (domain.CascadeResult, error) {
	var result domain.CascadeResult

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return result, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback() // safe no-op on commit

	res, err := tx.ExecContext(ctx, `
DELETE FROM reviews
WHERE author_id = ?
   OR place_id IN (SELECT id FROM places WHERE owner_id = ?)`,
		userID, userID,
	)
	if err != nil {
		return result, wrapf(err, "delete account reviews", "user_id", userID)
	}
	if result.Reviews, err = res.RowsAffected(); err != nil {
		return result, fmt.Errorf("reviews rows affected: %w", err)
	}

	res, err = tx.ExecContext(ctx, `
DELETE FROM reservations
WHERE user_id = ?
   OR owner_id = ?
   OR place_id IN (SELECT id FROM places WHERE owner_id = ?)`,
		userID, userID, userID,
	)
	if err != nil {
		return result, wrapf(err, "delete account reservations", "user_id", userID)
	}
	if result.Reservations, err = res.RowsAffected(); err != nil {
		return result, fmt.Errorf("reservations rows affected: %w", err)
	}

	res, err = tx.ExecContext(ctx, `DELETE FROM places WHERE owner_id = ?`, userID)
	if err != nil {
		return result, wrapf(err, "delete account places", "user_id", userID)
	}
	if result.Places, err = res.RowsAffected(); err != nil {
		return result, fmt.Errorf("places rows affected: %w", err)
	}

	res, err = tx.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, userID)
	if err != nil {
		return result, wrapf(err, "delete account user", "user_id", userID)
	}
	if err := expectOneRow(res, "user", userID); err != nil {
		return domain.CascadeResult{}, err
	}

	if err := tx.Commit(); err != nil {
		return domain.CascadeResult{}, fmt.Errorf("commit tx: %w", err)
	}
	return result, nil
}
