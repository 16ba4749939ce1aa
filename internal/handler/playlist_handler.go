package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/videotube/videotube-api/internal/middleware"
	"github.com/videotube/videotube-api/internal/models"
)

// PlaylistHandler serves playlists.
type PlaylistHandler struct {
	playlists PlaylistManager
}

// NewPlaylistHandler creates a new PlaylistHandler instance.
func NewPlaylistHandler(playlists PlaylistManager) *PlaylistHandler {
	return &PlaylistHandler{playlists: playlists}
}

// Create handles POST /playlists.
func (h *PlaylistHandler) Create(c *gin.Context) {
	var req models.PlaylistRequest
	if !bindJSON(c, &req) {
		return
	}

	playlist, err := h.playlists.Create(c.Request.Context(), middleware.ViewerID(c), &req)
	if err != nil {
		handleError(c, err)
		return
	}
	respond(c, http.StatusCreated, playlist, "Playlist created")
}

// Get handles GET /playlists/:playlistId.
func (h *PlaylistHandler) Get(c *gin.Context) {
	playlist, err := h.playlists.Get(c.Request.Context(), c.Param("playlistId"), middleware.ViewerID(c))
	if err != nil {
		handleError(c, err)
		return
	}
	respond(c, http.StatusOK, playlist, "Playlist fetched")
}

// ListByOwner handles GET /playlists/user/:userId.
func (h *PlaylistHandler) ListByOwner(c *gin.Context) {
	playlists, err := h.playlists.ListByOwner(c.Request.Context(), c.Param("userId"))
	if err != nil {
		handleError(c, err)
		return
	}
	respond(c, http.StatusOK, playlists, "Playlists fetched")
}

// Update handles PATCH /playlists/:playlistId.
func (h *PlaylistHandler) Update(c *gin.Context) {
	var req models.UpdatePlaylistRequest
	if !bindJSON(c, &req) {
		return
	}

	playlist, err := h.playlists.Update(c.Request.Context(), middleware.ViewerID(c), c.Param("playlistId"), &req)
	if err != nil {
		handleError(c, err)
		return
	}
	respond(c, http.StatusOK, playlist, "Playlist updated")
}

// Delete handles DELETE /playlists/:playlistId.
func (h *PlaylistHandler) Delete(c *gin.Context) {
	if err := h.playlists.Delete(c.Request.Context(), middleware.ViewerID(c), c.Param("playlistId")); err != nil {
		handleError(c, err)
		return
	}
	respond(c, http.StatusOK, gin.H{}, "Playlist deleted")
}

// AddVideo handles POST /playlists/videos.
func (h *PlaylistHandler) AddVideo(c *gin.Context) {
	var req models.PlaylistVideosRequest
	if !bindJSON(c, &req) {
		return
	}

	added, err := h.playlists.AddVideo(c.Request.Context(), middleware.ViewerID(c), &req)
	if err != nil {
		handleError(c, err)
		return
	}
	respond(c, http.StatusOK, gin.H{"added": added}, "Video added to playlists")
}

// RemoveVideo handles DELETE /playlists/videos.
func (h *PlaylistHandler) RemoveVideo(c *gin.Context) {
	var req models.PlaylistVideosRequest
	if !bindJSON(c, &req) {
		return
	}

	removed, err := h.playlists.RemoveVideo(c.Request.Context(), middleware.ViewerID(c), &req)
	if err != nil {
		handleError(c, err)
		return
	}
	respond(c, http.StatusOK, gin.H{"removed": removed}, "Video removed from playlists")
}
