package domain

import "time"

// User represents a registered account of the marketplace.
type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	Bio          string
	AvatarURL    string
	// ReviewIDs is a denormalized index of reviews written by the user.
	// It may lag behind the reviews table, which stays authoritative.
	ReviewIDs []string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Profile is the authenticated view of a user together with the records it owns.
type Profile struct {
	User         User
	Places       []Place
	Reservations []Reservation
	Reviews      []Review
}
