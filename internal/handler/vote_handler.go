package handler

import (
	"net/http"

	"cleanify-client/internal/service"

	"github.com/gin-gonic/gin"
)

type VoteHandler struct {
	voteService *service.VoteService
}

func NewVoteHandler(voteService *service.VoteService) *VoteHandler {
	return &VoteHandler{voteService: voteService}
}

// Handles POST /reports/:id/vote. A duplicate vote is answered 200 with
// already_voted set - it is an idempotent no-op, not a failure.
func (h *VoteHandler) CastVote(c *gin.Context) {
	reportID := c.Param("id")
	if reportID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "report ID required"})
		return
	}

	response, err := h.voteService.CastVote(c.Request.Context(), displayName(c), reportID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, response)
}

// Handles GET /reports/:id/vote - whether this session already voted.
func (h *VoteHandler) GetVote(c *gin.Context) {
	voted, err := h.voteService.HasVoted(displayName(c), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"voted": voted})
}
