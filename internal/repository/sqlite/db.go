package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/samber/oops"
	_ "modernc.org/sqlite"
)

// Open opens (or creates) a sqlite database at the given path and ensures directories exist.
func Open(path string) (*sql.DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}

	// pragmas go through the DSN so every pooled connection gets them
	dsn := fmt.Sprintf("file:%s?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	// a single writer keeps sqlite free of SQLITE_BUSY under concurrent requests
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}

	return db, nil
}

// Repositories bundles every sqlite-backed repository sharing one handle.
type Repositories struct {
	Users        *UserRepository
	Cities       *CityRepository
	Places       *PlaceRepository
	Reservations *ReservationRepository
	Reviews      *ReviewRepository
	Accounts     *AccountRepository
}

// NewRepositories wires all repositories to db.
func NewRepositories(db *sql.DB) *Repositories {
	return &Repositories{
		Users:        &UserRepository{db: db},
		Cities:       &CityRepository{db: db},
		Places:       &PlaceRepository{db: db},
		Reservations: &ReservationRepository{db: db},
		Reviews:      &ReviewRepository{db: db},
		Accounts:     &AccountRepository{db: db},
	}
}

// Init creates the schema. Referenced tables are created first.
func (r *Repositories) Init(ctx context.Context) error {
	steps := []struct {
		name string
		init func(context.Context) error
	}{
		{"users", r.Users.Init},
		{"cities", r.Cities.Init},
		{"places", r.Places.Init},
		{"reservations", r.Reservations.Init},
		{"reviews", r.Reviews.Init},
	}
	for _, step := range steps {
		if err := step.init(ctx); err != nil {
			return fmt.Errorf("init %s repository: %w", step.name, err)
		}
	}
	return nil
}

func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(strings.ToLower(err.Error()), "unique constraint")
}

func isForeignKeyViolation(err error) bool {
	return err != nil && strings.Contains(strings.ToLower(err.Error()), "foreign key constraint")
}

// wrapf annotates a driver error with the operation and its identifiers.
func wrapf(err error, op string, kv ...any) error {
	return oops.In("sqlite").With(kv...).Wrapf(err, "%s", op)
}
