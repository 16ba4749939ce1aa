package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/videotube/videotube-api/internal/middleware"
	"github.com/videotube/videotube-api/internal/models"
)

// CommentHandler serves comment listings and writes.
type CommentHandler struct {
	views    ViewReader
	comments CommentWriter
}

// NewCommentHandler creates a new CommentHandler instance.
func NewCommentHandler(views ViewReader, comments CommentWriter) *CommentHandler {
	return &CommentHandler{
		views:    views,
		comments: comments,
	}
}

// commentsMeta is the listing metadata of GET /videos/:videoId/comments.
type commentsMeta struct {
	TotalCommentsCount int `json:"totalCommentsCount"`
	Page               int `json:"page"`
	Limit              int `json:"limit"`
	TotalPages         int `json:"totalPages"`
}

// List handles GET /videos/:videoId/comments.
func (h *CommentHandler) List(c *gin.Context) {
	page, ok := pageQuery(c)
	if !ok {
		return
	}

	comments, meta, err := h.views.CommentsForVideo(c.Request.Context(), c.Param("videoId"), page, middleware.ViewerID(c))
	if err != nil {
		handleError(c, err)
		return
	}

	respondWithMeta(c, http.StatusOK, comments, commentsMeta{
		// Clients read the comment listing total as totalCommentsCount, not total.
		TotalCommentsCount: meta.Total,
		Page:               meta.Page,
		Limit:              meta.Limit,
		TotalPages:         meta.TotalPages,
	}, "Comments fetched")
}

// Add handles POST /videos/:videoId/comments.
func (h *CommentHandler) Add(c *gin.Context) {
	var req models.CommentRequest
	if !bindJSON(c, &req) {
		return
	}

	comment, err := h.comments.Add(c.Request.Context(), middleware.ViewerID(c), c.Param("videoId"), &req)
	if err != nil {
		handleError(c, err)
		return
	}
	respond(c, http.StatusCreated, comment, "Comment added")
}

// Update handles PATCH /comments/:commentId.
func (h *CommentHandler) Update(c *gin.Context) {
	var req models.UpdateCommentRequest
	if !bindJSON(c, &req) {
		return
	}

	comment, err := h.comments.Update(c.Request.Context(), middleware.ViewerID(c), c.Param("commentId"), &req)
	if err != nil {
		handleError(c, err)
		return
	}
	respond(c, http.StatusOK, comment, "Comment updated")
}

// Delete handles DELETE /comments/:commentId.
func (h *CommentHandler) Delete(c *gin.Context) {
	if err := h.comments.Delete(c.Request.Context(), middleware.ViewerID(c), c.Param("commentId")); err != nil {
		handleError(c, err)
		return
	}
	respond(c, http.StatusOK, gin.H{}, "Comment deleted")
}
