package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"rentals-api/internal/service"
)

func (h *Handler) listReviews(c *gin.Context) {
	reviews, err := h.reviews.ListForPlace(c.Request.Context(), c.Param("placeID"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"reviews": reviewsToResponse(reviews)})
}

func (h *Handler) createReview(c *gin.Context) {
	var req reviewRequest
	if err := bindJSON(c, &req); err != nil {
		h.writeError(c, err)
		return
	}

	review, err := h.reviews.Create(c.Request.Context(), viewerID(c), c.Param("placeID"), service.ReviewInput{
		Rating: req.Rating,
		Title:  req.Title,
		Body:   req.Body,
	})
	if err != nil {
		h.writeError(c, err)
		return
	}
	h.metrics.reviewCreated()

	c.JSON(http.StatusCreated, reviewToResponse(*review))
}
