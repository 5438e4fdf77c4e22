package domain

import "time"

// City groups places by location.
type City struct {
	ID        string
	Name      string
	Country   string
	CreatedAt time.Time
}

// Place is a listing offered by its owner.
type Place struct {
	ID            string
	OwnerID       string
	CityID        string
	Name          string
	Description   string
	Address       string
	PricePerNight int64
	MaxGuests     int
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
