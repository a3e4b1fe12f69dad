package handler

import (
	"net/http"

	"cleanify-client/internal/model"
	"cleanify-client/internal/service"

	"github.com/gin-gonic/gin"
)

type ProfileHandler struct {
	profileService *service.ProfileService
}

func NewProfileHandler(profileService *service.ProfileService) *ProfileHandler {
	return &ProfileHandler{profileService: profileService}
}

// Handles GET /profile/badge.
func (h *ProfileHandler) GetBadge(c *gin.Context) {
	badge, err := h.profileService.Badge(c.Request.Context(), displayName(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, badge)
}

// Handles PUT /profile/email.
func (h *ProfileHandler) UpdateEmail(c *gin.Context) {
	var req model.UpdateEmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.profileService.UpdateEmail(c.Request.Context(), displayName(c), req.Email); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "email updated"})
}
