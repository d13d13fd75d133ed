package handlers

import (
	"net/http"

	"interviewhub/internal/logger"
	"interviewhub/internal/middleware"
	"interviewhub/internal/services"

	"github.com/gin-gonic/gin"
)

type CommentHandler struct {
	base
	comments *services.CommentService
}

func NewCommentHandler(log *logger.Logger, details bool, comments *services.CommentService) *CommentHandler {
	return &CommentHandler{
		base:     newBase(log, "CommentHandler", details),
		comments: comments,
	}
}

// Create POST /experiences/:id/comment
func (h *CommentHandler) Create(c *gin.Context) {
	user := middleware.CurrentUser(c)

	id, err := experienceID(c)
	if err != nil {
		h.respondError(c, err)
		return
	}

	var in services.CommentInput
	if err := bindJSON(c, &in); err != nil {
		h.respondError(c, err)
		return
	}

	comment, err := h.comments.Create(c.Request.Context(), id, user.ID, in)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"message": "Comment added successfully",
		"comment": comment,
	})
}
