package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/samber/oops"
	"github.com/sirupsen/logrus"

	"rentals-api/internal/service"
)

const internalErrorMessage = "Something went wrong. Try again later."

// FieldError is one entry of a 400 response body.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type validationError struct {
	fields []FieldError
}

func (e *validationError) Error() string {
	if len(e.fields) == 0 {
		return "validation failed"
	}
	return e.fields[0].Field + ": " + e.fields[0].Message
}

func invalidField(field, message string) *validationError {
	return &validationError{fields: []FieldError{{Field: field, Message: message}}}
}

func statusFor(kind service.Kind) int {
	switch kind {
	case service.KindValidation:
		return http.StatusBadRequest
	case service.KindUnauthenticated, service.KindInvalidCredentials:
		return http.StatusUnauthorized
	case service.KindForbidden:
		return http.StatusForbidden
	case service.KindNotFound:
		return http.StatusNotFound
	case service.KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// writeError maps err to a status and body. Internal failures are logged and
// answered with a generic message.
func (h *Handler) writeError(c *gin.Context, err error) {
	var verr *validationError
	if errors.As(err, &verr) {
		c.JSON(http.StatusBadRequest, gin.H{"errors": verr.fields})
		return
	}

	var serr *service.Error
	if errors.As(err, &serr) && serr.Kind != service.KindInternal {
		c.JSON(statusFor(serr.Kind), gin.H{"message": serr.Message})
		return
	}

	entry := h.logger.WithFields(logrus.Fields{
		"method": c.Request.Method,
		"path":   c.Request.URL.Path,
	})
	if identity, ok := currentIdentity(c); ok {
		entry = entry.WithField("user_id", identity.UserID)
	}
	if oopsErr, ok := oops.AsOops(err); ok {
		entry = entry.WithFields(logrus.Fields(oopsErr.Context())).WithField("domain", oopsErr.Domain())
	}
	entry.WithError(err).Error("request failed")

	c.JSON(http.StatusInternalServerError, gin.H{"message": internalErrorMessage})
}
