package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/videotube/videotube-api/internal/middleware"
	"github.com/videotube/videotube-api/internal/models"
)

// UserHandler serves account reads and watch history.
type UserHandler struct {
	users UserReader
	views ViewReader
}

// NewUserHandler creates a new UserHandler instance.
func NewUserHandler(users UserReader, views ViewReader) *UserHandler {
	return &UserHandler{
		users: users,
		views: views,
	}
}

// Get handles GET /users/:userId.
func (h *UserHandler) Get(c *gin.Context) {
	user, err := h.users.GetByID(c.Request.Context(), c.Param("userId"))
	if err != nil {
		handleError(c, err)
		return
	}
	respond(c, http.StatusOK, user, "User fetched")
}

// Me handles GET /users/me.
func (h *UserHandler) Me(c *gin.Context) {
	user, err := h.users.Me(c.Request.Context(), middleware.ViewerID(c))
	if err != nil {
		handleError(c, err)
		return
	}
	respond(c, http.StatusOK, user, "Current user fetched")
}

// UpdateAccount handles PATCH /users/me.
func (h *UserHandler) UpdateAccount(c *gin.Context) {
	var req models.UpdateAccountRequest
	if !bindJSON(c, &req) {
		return
	}

	user, err := h.users.UpdateAccount(c.Request.Context(), middleware.ViewerID(c), &req)
	if err != nil {
		handleError(c, err)
		return
	}
	respond(c, http.StatusOK, user, "Account details updated")
}

// History handles GET /users/history.
func (h *UserHandler) History(c *gin.Context) {
	history, err := h.views.WatchHistory(c.Request.Context(), middleware.ViewerID(c))
	if err != nil {
		handleError(c, err)
		return
	}
	respond(c, http.StatusOK, history, "Watch history fetched")
}

// RemoveFromHistory handles DELETE /users/history/:videoId.
func (h *UserHandler) RemoveFromHistory(c *gin.Context) {
	removed, err := h.users.RemoveFromHistory(c.Request.Context(), middleware.ViewerID(c), c.Param("videoId"))
	if err != nil {
		handleError(c, err)
		return
	}
	respond(c, http.StatusOK, gin.H{"removed": removed}, "Video removed from watch history")
}

// ClearHistory handles DELETE /users/history.
func (h *UserHandler) ClearHistory(c *gin.Context) {
	cleared, err := h.users.ClearHistory(c.Request.Context(), middleware.ViewerID(c))
	if err != nil {
		handleError(c, err)
		return
	}
	respond(c, http.StatusOK, gin.H{"removed": cleared}, "Watch history cleared")
}
