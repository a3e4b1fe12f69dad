package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"cleanify-client/internal/geo"
	"cleanify-client/internal/service"

	"github.com/gin-gonic/gin"
)

type MapHandler struct {
	mapService *service.MapService
}

func NewMapHandler(mapService *service.MapService) *MapHandler {
	return &MapHandler{mapService: mapService}
}

// Handles GET /map/:view/stream - an SSE feed of marker instructions. A
// late-joining client first receives a replay of the drawn state, then
// live batches as reconciles happen. Subscribe registers the client before
// snapshotting, so a reconcile racing the connection is never dropped.
func (h *MapHandler) Stream(c *gin.Context) {
	client, snapshot, err := h.mapService.Subscribe(c.Param("view"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown map view"})
		return
	}
	defer h.mapService.Unsubscribe(client)

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")

	if len(snapshot) > 0 {
		data, _ := json.Marshal(snapshot)
		c.SSEvent("instructions", string(data))
	}
	c.Writer.Flush()

	clientGone := c.Request.Context().Done()

	for {
		select {
		case <-clientGone:
			return
		case batch, ok := <-client.Channel:
			if !ok {
				return
			}
			data, _ := json.Marshal(batch)
			c.SSEvent("instructions", string(data))
			c.Writer.Flush()
		}
	}
}

// Handles PUT /map/:view/selection/:id. Selecting an id that has since
// vanished from the feed clears the selection rather than failing.
func (h *MapHandler) Select(c *gin.Context) {
	if err := h.mapService.Select(c.Param("view"), c.Param("id")); err != nil {
		h.viewError(c, err)
		return
	}
	selected, _ := h.mapService.Selected(c.Param("view"))
	c.JSON(http.StatusOK, gin.H{"selected": selected})
}

// Handles DELETE /map/:view/selection.
func (h *MapHandler) ClearSelection(c *gin.Context) {
	if err := h.mapService.ClearSelection(c.Param("view")); err != nil {
		h.viewError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"selected": ""})
}

// Handles PUT /map/:view/reference - a device location fix from the view
// layer. The pair is range-checked even though device APIs are assumed
// authoritative. A fix for a closed view is dropped with 404.
func (h *MapHandler) SetReference(c *gin.Context) {
	var req struct {
		Lat *float64 `json:"lat" binding:"required"`
		Lng *float64 `json:"lng" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ref, err := geo.ValidatePair(*req.Lat, *req.Lng)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.mapService.SetReference(c.Param("view"), ref); err != nil {
		h.viewError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "reference updated"})
}

func (h *MapHandler) viewError(c *gin.Context, err error) {
	if errors.Is(err, service.ErrViewNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown map view"})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}
