package http

type registerRequest struct {
	Name     string `json:"name" binding:"required,notblank,max=32"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8,max=72"`
}

func (registerRequest) fieldMessages() map[string]string {
	return map[string]string{
		"name":     "Please provide a name.",
		"email":    "Please provide a valid email.",
		"password": "Please enter a password between 8 and 72 characters.",
	}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (loginRequest) fieldMessages() map[string]string {
	return map[string]string{
		"email":    "Please provide a valid email.",
		"password": "Please enter your password.",
	}
}

type updateUserRequest struct {
	Name        *string `json:"name" binding:"omitnil,notblank,max=32"`
	Bio         *string `json:"bio" binding:"omitnil,max=200"`
	Avatar      *string `json:"avatar" binding:"omitnil,url"`
	Email       *string `json:"email" binding:"omitnil,email"`
	Password    string  `json:"password"`
	OldPassword string  `json:"old_password"`
	NewPassword string  `json:"new_password" binding:"omitempty,min=8,max=72"`
}

func (updateUserRequest) fieldMessages() map[string]string {
	return map[string]string{
		"name":         "Please provide a name that is 32 characters or less.",
		"bio":          "Please provide a bio that is 200 characters or less.",
		"avatar":       "Please provide a valid image URL.",
		"email":        "Please provide a valid email.",
		"new_password": "Please enter a password between 8 and 72 characters.",
	}
}

// readOnlyUserFields are keys a profile edit may never carry.
var readOnlyUserFields = map[string]string{
	"id":           "Cannot change the ID of a user.",
	"_id":          "Cannot change the ID of a user.",
	"places":       "Cannot modify user listings.",
	"reservations": "Cannot modify user reservations.",
	"reviews":      "Cannot modify user reviews.",
}

type deactivateRequest struct {
	Password string `json:"password"`
}

func (deactivateRequest) fieldMessages() map[string]string {
	return map[string]string{"password": "Password required for deactivation."}
}

type placeRequest struct {
	CityID        string `json:"city_id" binding:"required"`
	Name          string `json:"name" binding:"required,max=64"`
	Description   string `json:"description" binding:"max=1000"`
	Address       string `json:"address" binding:"required,max=200"`
	PricePerNight int64  `json:"price_per_night" binding:"gte=0"`
	MaxGuests     int    `json:"max_guests" binding:"required,min=1,max=32"`
}

func (placeRequest) fieldMessages() map[string]string {
	return map[string]string{
		"city_id":         "Please provide a city.",
		"name":            "Please provide a name that is 64 characters or less.",
		"description":     "Please provide a description that is 1000 characters or less.",
		"address":         "Please provide an address that is 200 characters or less.",
		"price_per_night": "Please provide a valid price.",
		"max_guests":      "Please provide a guest limit between 1 and 32.",
	}
}

const dateLayout = "2006-01-02"

type reservationRequest struct {
	StartDate string `json:"start_date" binding:"required,datetime=2006-01-02"`
	EndDate   string `json:"end_date" binding:"required,datetime=2006-01-02"`
}

func (reservationRequest) fieldMessages() map[string]string {
	return map[string]string{
		"start_date": "Please provide a start date (YYYY-MM-DD).",
		"end_date":   "Please provide an end date (YYYY-MM-DD).",
	}
}

type reviewRequest struct {
	Rating int    `json:"rating" binding:"required,min=1,max=5"`
	Title  string `json:"title" binding:"required,notblank,max=32"`
	Body   string `json:"body" binding:"required,notblank,max=1000"`
}

func (reviewRequest) fieldMessages() map[string]string {
	return map[string]string{
		"rating": "Please provide a valid rating.",
		"title":  "Please provide a title that is 32 characters or less.",
		"body":   "Please provide a body that is 1000 characters or less.",
	}
}
