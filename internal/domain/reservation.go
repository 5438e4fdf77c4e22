package domain

import "time"

// Reservation books a place for a guest between two dates.
// OwnerID mirrors the place owner at booking time so hosts can be matched without a join.
type Reservation struct {
	ID        string
	UserID    string
	OwnerID   string
	PlaceID   string
	StartDate time.Time
	EndDate   time.Time
	CreatedAt time.Time
}
