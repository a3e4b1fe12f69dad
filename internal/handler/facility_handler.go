package handler

import (
	"errors"
	"net/http"

	"cleanify-client/internal/geo"
	"cleanify-client/internal/model"
	"cleanify-client/internal/service"

	"github.com/gin-gonic/gin"
)

type FacilityHandler struct {
	facilityService *service.FacilityService
}

func NewFacilityHandler(facilityService *service.FacilityService) *FacilityHandler {
	return &FacilityHandler{facilityService: facilityService}
}

// Handles GET /toilets - optionally ranked around ?nearby=lat,lng.
func (h *FacilityHandler) GetFacilities(c *gin.Context) {
	var near *model.Point
	if nearby := c.Query("nearby"); nearby != "" {
		p, err := geo.ParseText(nearby)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		near = &p
	}

	response, err := h.facilityService.List(c.Request.Context(), near)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, response)
}

// Handles POST /toilets.
func (h *FacilityHandler) CreateFacility(c *gin.Context) {
	var req model.CreateFacilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	facility, err := h.facilityService.Create(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, geo.ErrInvalidCoordinates) || errors.Is(err, service.ErrCoordinatesRequired) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"facility": facility})
}

// Handles PATCH /toilets/:id/status - municipal triage.
func (h *FacilityHandler) UpdateStatus(c *gin.Context) {
	var req model.UpdateFacilityStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.facilityService.UpdateStatus(c.Request.Context(), c.Param("id"), req.Status); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "status updated"})
}

// Handles DELETE /toilets/:id.
func (h *FacilityHandler) DeleteFacility(c *gin.Context) {
	if err := h.facilityService.Delete(c.Request.Context(), c.Param("id")); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "facility deleted"})
}
