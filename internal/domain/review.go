package domain

import "time"

const (
	MinRating      = 1
	MaxRating      = 5
	MaxTitleLength = 32
	MaxBodyLength  = 1000
)

// Review is a guest's rating of a place. At most one exists per (AuthorID, PlaceID).
type Review struct {
	ID        string
	AuthorID  string
	PlaceID   string
	Rating    int
	Title     string
	Body      string
	CreatedAt time.Time
}

// CascadeResult counts the dependent records removed with an account.
type CascadeResult struct {
	Places       int64
	Reservations int64
	Reviews      int64
}
