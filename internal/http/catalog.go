package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"rentals-api/internal/service"
)

func (h *Handler) listCities(c *gin.Context) {
	cities, err := h.catalog.ListCities(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}

	resp := make([]cityResponse, len(cities))
	for i := range cities {
		resp[i] = cityToResponse(cities[i])
	}
	c.JSON(http.StatusOK, gin.H{"cities": resp})
}

func (h *Handler) getCity(c *gin.Context) {
	detail, err := h.catalog.GetCity(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, cityDetailToResponse(*detail, viewerID(c)))
}

func (h *Handler) getPlace(c *gin.Context) {
	detail, err := h.catalog.GetPlace(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, placeDetailToResponse(*detail, viewerID(c)))
}

func (h *Handler) createPlace(c *gin.Context) {
	var req placeRequest
	if err := bindJSON(c, &req); err != nil {
		h.writeError(c, err)
		return
	}

	owner := viewerID(c)
	place, err := h.catalog.CreatePlace(c.Request.Context(), owner, service.PlaceInput{
		CityID:        req.CityID,
		Name:          req.Name,
		Description:   req.Description,
		Address:       req.Address,
		PricePerNight: req.PricePerNight,
		MaxGuests:     req.MaxGuests,
	})
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, placeToResponse(*place, owner))
}

func (h *Handler) createReservation(c *gin.Context) {
	var req reservationRequest
	if err := bindJSON(c, &req); err != nil {
		h.writeError(c, err)
		return
	}

	// the datetime binding already checked the layout
	start, _ := time.Parse(dateLayout, req.StartDate)
	end, _ := time.Parse(dateLayout, req.EndDate)
	if !end.After(start) {
		h.writeError(c, invalidField("end_date", "End date must be after the start date."))
		return
	}

	reservation, err := h.catalog.CreateReservation(c.Request.Context(), viewerID(c), c.Param("placeID"), service.ReservationInput{
		StartDate: start,
		EndDate:   end,
	})
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, reservationToResponse(*reservation))
}
