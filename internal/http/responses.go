package http

import (
	"time"

	"rentals-api/internal/domain"
	"rentals-api/internal/service"
)

type userResponse struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Email     string   `json:"email"`
	Bio       string   `json:"bio"`
	Avatar    string   `json:"avatar"`
	ReviewIDs []string `json:"review_ids"`
	CreatedAt string   `json:"created_at"`
	UpdatedAt string   `json:"updated_at"`
}

type profileResponse struct {
	userResponse
	Places       []placeResponse       `json:"places"`
	Reservations []reservationResponse `json:"reservations"`
	Reviews      []reviewResponse      `json:"reviews"`
}

type publicUserResponse struct {
	ID     string          `json:"id"`
	Name   string          `json:"name"`
	Avatar string          `json:"avatar"`
	Places []placeResponse `json:"places"`
}

type cityResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Country   string `json:"country"`
	CreatedAt string `json:"created_at"`
}

type cityDetailResponse struct {
	cityResponse
	Places []placeResponse `json:"places"`
}

type placeResponse struct {
	ID            string `json:"id"`
	OwnerID       string `json:"owner_id"`
	CityID        string `json:"city_id"`
	Name          string `json:"name"`
	Description   string `json:"description"`
	Address       string `json:"address,omitempty"`
	PricePerNight int64  `json:"price_per_night"`
	MaxGuests     int    `json:"max_guests"`
	CreatedAt     string `json:"created_at"`
}

type placeDetailResponse struct {
	placeResponse
	Reviews []reviewResponse `json:"reviews"`
}

type reservationResponse struct {
	ID        string `json:"id"`
	UserID    string `json:"user_id"`
	OwnerID   string `json:"owner_id"`
	PlaceID   string `json:"place_id"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	CreatedAt string `json:"created_at"`
}

type reviewResponse struct {
	ID        string `json:"id"`
	AuthorID  string `json:"author_id"`
	PlaceID   string `json:"place_id"`
	Rating    int    `json:"rating"`
	Title     string `json:"title"`
	Body      string `json:"body"`
	CreatedAt string `json:"created_at"`
}

func userToResponse(user domain.User) userResponse {
	ids := user.ReviewIDs
	if ids == nil {
		ids = []string{}
	}
	return userResponse{
		ID:        user.ID,
		Name:      user.Name,
		Email:     user.Email,
		Bio:       user.Bio,
		Avatar:    user.AvatarURL,
		ReviewIDs: ids,
		CreatedAt: user.CreatedAt.Format(time.RFC3339),
		UpdatedAt: user.UpdatedAt.Format(time.RFC3339),
	}
}

func profileToResponse(profile domain.Profile) profileResponse {
	resp := profileResponse{
		userResponse: userToResponse(profile.User),
		Places:       placesToResponse(profile.Places, profile.User.ID),
		Reservations: make([]reservationResponse, len(profile.Reservations)),
		Reviews:      reviewsToResponse(profile.Reviews),
	}
	for i := range profile.Reservations {
		resp.Reservations[i] = reservationToResponse(profile.Reservations[i])
	}
	return resp
}

func publicUserToResponse(profile domain.Profile) publicUserResponse {
	return publicUserResponse{
		ID:     profile.User.ID,
		Name:   profile.User.Name,
		Avatar: profile.User.AvatarURL,
		Places: placesToResponse(profile.Places, ""),
	}
}

func cityToResponse(city domain.City) cityResponse {
	return cityResponse{
		ID:        city.ID,
		Name:      city.Name,
		Country:   city.Country,
		CreatedAt: city.CreatedAt.Format(time.RFC3339),
	}
}

func cityDetailToResponse(detail service.CityDetail, viewerID string) cityDetailResponse {
	return cityDetailResponse{
		cityResponse: cityToResponse(detail.City),
		Places:       placesToResponse(detail.Places, viewerID),
	}
}

// placeToResponse shows the street address to the owner only.
func placeToResponse(place domain.Place, viewerID string) placeResponse {
	resp := placeResponse{
		ID:            place.ID,
		OwnerID:       place.OwnerID,
		CityID:        place.CityID,
		Name:          place.Name,
		Description:   place.Description,
		PricePerNight: place.PricePerNight,
		MaxGuests:     place.MaxGuests,
		CreatedAt:     place.CreatedAt.Format(time.RFC3339),
	}
	if viewerID != "" && viewerID == place.OwnerID {
		resp.Address = place.Address
	}
	return resp
}

func placesToResponse(places []domain.Place, viewerID string) []placeResponse {
	resp := make([]placeResponse, len(places))
	for i := range places {
		resp[i] = placeToResponse(places[i], viewerID)
	}
	return resp
}

func placeDetailToResponse(detail service.PlaceDetail, viewerID string) placeDetailResponse {
	return placeDetailResponse{
		placeResponse: placeToResponse(detail.Place, viewerID),
		Reviews:       reviewsToResponse(detail.Reviews),
	}
}

func reservationToResponse(res domain.Reservation) reservationResponse {
	return reservationResponse{
		ID:        res.ID,
		UserID:    res.UserID,
		OwnerID:   res.OwnerID,
		PlaceID:   res.PlaceID,
		StartDate: res.StartDate.Format(dateLayout),
		EndDate:   res.EndDate.Format(dateLayout),
		CreatedAt: res.CreatedAt.Format(time.RFC3339),
	}
}

func reviewToResponse(review domain.Review) reviewResponse {
	return reviewResponse{
		ID:        review.ID,
		AuthorID:  review.AuthorID,
		PlaceID:   review.PlaceID,
		Rating:    review.Rating,
		Title:     review.Title,
		Body:      review.Body,
		CreatedAt: review.CreatedAt.Format(time.RFC3339),
	}
}

func reviewsToResponse(reviews []domain.Review) []reviewResponse {
	resp := make([]reviewResponse, len(reviews))
	for i := range reviews {
		resp[i] = reviewToResponse(reviews[i])
	}
	return resp
}
