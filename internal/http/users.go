package http

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"

	"rentals-api/internal/service"
)

const maxAvatarBytes = 5 << 20

var avatarTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

func (h *Handler) register(c *gin.Context) {
	var req registerRequest
	if err := bindJSON(c, &req); err != nil {
		h.writeError(c, err)
		return
	}

	user, err := h.users.Register(c.Request.Context(), service.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		h.writeError(c, err)
		return
	}

	h.respondWithToken(c, user.ID)
}

func (h *Handler) login(c *gin.Context) {
	var req loginRequest
	if err := bindJSON(c, &req); err != nil {
		h.writeError(c, err)
		return
	}

	user, err := h.users.Authenticate(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		h.writeError(c, err)
		return
	}

	h.respondWithToken(c, user.ID)
}

func (h *Handler) respondWithToken(c *gin.Context, userID string) {
	token, err := h.tokens.Issue(userID)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": token})
}

func (h *Handler) me(c *gin.Context) {
	profile, err := h.users.Profile(c.Request.Context(), viewerID(c))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, profileToResponse(*profile))
}

func (h *Handler) getUser(c *gin.Context) {
	profile, err := h.users.PublicProfile(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, publicUserToResponse(*profile))
}

func (h *Handler) updateUser(c *gin.Context) {
	if err := rejectFields(c, readOnlyUserFields); err != nil {
		h.writeError(c, err)
		return
	}

	var req updateUserRequest
	if err := bindJSON(c, &req); err != nil {
		h.writeError(c, err)
		return
	}

	user, err := h.users.Update(c.Request.Context(), viewerID(c), service.UpdateInput{
		Name:        req.Name,
		Bio:         req.Bio,
		AvatarURL:   req.Avatar,
		Email:       req.Email,
		Password:    req.Password,
		OldPassword: req.OldPassword,
		NewPassword: req.NewPassword,
	})
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, userToResponse(*user))
}

func (h *Handler) uploadAvatar(c *gin.Context) {
	header, err := c.FormFile("avatar")
	if err != nil {
		h.writeError(c, invalidField("avatar", "Please attach an image file."))
		return
	}
	if header.Size > maxAvatarBytes {
		h.writeError(c, invalidField("avatar", "Images must be 5MB or smaller."))
		return
	}
	contentType := strings.ToLower(header.Header.Get("Content-Type"))
	ext, ok := avatarTypes[contentType]
	if !ok {
		h.writeError(c, invalidField("avatar", "Please upload a JPEG, PNG, GIF or WebP image."))
		return
	}

	file, err := header.Open()
	if err != nil {
		h.writeError(c, err)
		return
	}
	defer file.Close()

	user, err := h.users.SetAvatar(c.Request.Context(), viewerID(c), service.AvatarUpload{
		Body:        file,
		ContentType: contentType,
		Ext:         ext,
	})
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, userToResponse(*user))
}

func (h *Handler) deactivate(c *gin.Context) {
	var req deactivateRequest
	// an empty body is answered by the service's missing password error
	if err := c.ShouldBindBodyWith(&req, binding.JSON); err != nil && !errors.Is(err, io.EOF) {
		h.writeError(c, toValidationError(err, req.fieldMessages()))
		return
	}

	result, err := h.accounts.Deactivate(c.Request.Context(), viewerID(c), req.Password)
	if err != nil {
		h.writeError(c, err)
		return
	}
	h.metrics.accountDeactivated()

	c.JSON(http.StatusOK, gin.H{
		"message": "Successfully deactivated account. Bye!",
		"deleted": gin.H{
			"places":       result.Places,
			"reservations": result.Reservations,
			"reviews":      result.Reviews,
		},
	})
}
