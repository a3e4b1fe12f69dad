package handler

import (
	"errors"
	"net/http"
	"strconv"

	"cleanify-client/internal/geo"
	"cleanify-client/internal/model"
	"cleanify-client/internal/service"

	"github.com/gin-gonic/gin"
)

// displayName is the session identity: a user-chosen name, defaulting to
// Anonymous, never a server-issued id.
func displayName(c *gin.Context) string {
	if name := c.GetHeader("X-User-Name"); name != "" {
		return name
	}
	return "Anonymous"
}

type ReportHandler struct {
	reportService *service.ReportService
}

func NewReportHandler(reportService *service.ReportService) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

// Handles GET /reports - city-wide by default, ranked nearby with
// filter=nearby&lat=&lng=.
func (h *ReportHandler) GetReports(c *gin.Context) {
	if c.Query("filter") != "nearby" {
		response, err := h.reportService.List(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, response)
		return
	}

	lat, latErr := strconv.ParseFloat(c.Query("lat"), 64)
	lng, lngErr := strconv.ParseFloat(c.Query("lng"), 64)
	if latErr != nil || lngErr != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "filter=nearby requires lat and lng"})
		return
	}
	ref, err := geo.ValidatePair(lat, lng)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	response, err := h.reportService.ListNearby(c.Request.Context(), ref)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, response)
}

// Handles GET /reports/:id.
func (h *ReportHandler) GetReportByID(c *gin.Context) {
	report, err := h.reportService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "report not found"})
		return
	}
	c.JSON(http.StatusOK, report)
}

// Handles POST /reports - validates coordinates before anything goes on
// the wire; a draft without a usable position is refused.
func (h *ReportHandler) CreateReport(c *gin.Context) {
	var req model.CreateReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	report, badge, err := h.reportService.Submit(c.Request.Context(), displayName(c), &req)
	if err != nil {
		if errors.Is(err, geo.ErrInvalidCoordinates) || errors.Is(err, service.ErrCoordinatesRequired) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"report": report,
		"badge":  badge,
	})
}

// Health check endpoint.
func (h *ReportHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}
