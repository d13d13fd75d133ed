package handlers

import (
	"net/http"

	"interviewhub/internal/logger"
	"interviewhub/internal/middleware"
	"interviewhub/internal/services"

	"github.com/gin-gonic/gin"
)

type VoteHandler struct {
	base
	votes *services.VoteService
}

func NewVoteHandler(log *logger.Logger, details bool, votes *services.VoteService) *VoteHandler {
	return &VoteHandler{
		base:  newBase(log, "VoteHandler", details),
		votes: votes,
	}
}

// Vote POST /experiences/:id/vote toggles the caller's vote.
func (h *VoteHandler) Vote(c *gin.Context) {
	user := middleware.CurrentUser(c)

	id, err := experienceID(c)
	if err != nil {
		h.respondError(c, err)
		return
	}

	var in services.VoteInput
	if err := bindJSON(c, &in); err != nil {
		h.respondError(c, err)
		return
	}

	res, err := h.votes.Toggle(c.Request.Context(), id, user.ID, in)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": res.Action.Message(),
		"action":  res.Action,
		"votes":   res.Votes,
	})
}
