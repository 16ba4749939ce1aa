package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/videotube/videotube-api/internal/middleware"
	"github.com/videotube/videotube-api/internal/models"
	"github.com/videotube/videotube-api/internal/service"
	"github.com/videotube/videotube-api/pkg/logger"
)

// VideoHandler serves video reads and writes.
type VideoHandler struct {
	views  ViewReader
	videos VideoWriter
}

// NewVideoHandler creates a new VideoHandler instance.
func NewVideoHandler(views ViewReader, videos VideoWriter) *VideoHandler {
	return &VideoHandler{
		views:  views,
		videos: videos,
	}
}

// List handles GET /videos.
func (h *VideoHandler) List(c *gin.Context) {
	page, ok := pageQuery(c)
	if !ok {
		return
	}

	videos, meta, err := h.views.ListVideos(c.Request.Context(), service.VideoListQuery{
		PageQuery: page,
		OwnerID:   c.Query("ownerId"),
		Query:     c.Query("query"),
	}, middleware.ViewerID(c))
	if err != nil {
		handleError(c, err)
		return
	}
	respondWithMeta(c, http.StatusOK, videos, meta, "Videos fetched")
}

// SubscriptionFeed handles GET /videos/subscriptions.
func (h *VideoHandler) SubscriptionFeed(c *gin.Context) {
	page, ok := pageQuery(c)
	if !ok {
		return
	}

	videos, meta, err := h.views.SubscriptionFeed(c.Request.Context(), middleware.ViewerID(c), page)
	if err != nil {
		handleError(c, err)
		return
	}
	respondWithMeta(c, http.StatusOK, videos, meta, "Subscription videos fetched")
}

// Get handles GET /videos/:videoId. Authenticated viewers also get the view
// recorded in their watch history.
func (h *VideoHandler) Get(c *gin.Context) {
	ctx := c.Request.Context()
	videoID := c.Param("videoId")
	viewerID := middleware.ViewerID(c)

	video, err := h.views.VideoDetail(ctx, videoID, viewerID)
	if err != nil {
		handleError(c, err)
		return
	}

	if viewerID != "" {
		views, err := h.videos.RecordView(ctx, viewerID, videoID)
		if err != nil {
			logger.Log.Warn("Failed to record view",
				zap.Error(err),
				zap.String("videoId", videoID),
				zap.String("viewerId", viewerID),
			)
		} else {
			video.Views = views
		}
	}

	respond(c, http.StatusOK, video, "Video fetched")
}

// Publish handles POST /videos.
func (h *VideoHandler) Publish(c *gin.Context) {
	var req models.CreateVideoRequest
	if !bindJSON(c, &req) {
		return
	}

	video, err := h.videos.Publish(c.Request.Context(), middleware.ViewerID(c), &req)
	if err != nil {
		handleError(c, err)
		return
	}
	respond(c, http.StatusCreated, video, "Video published")
}

// Update handles PATCH /videos/:videoId.
func (h *VideoHandler) Update(c *gin.Context) {
	var req models.UpdateVideoRequest
	if !bindJSON(c, &req) {
		return
	}

	video, err := h.videos.Update(c.Request.Context(), middleware.ViewerID(c), c.Param("videoId"), &req)
	if err != nil {
		handleError(c, err)
		return
	}
	respond(c, http.StatusOK, video, "Video updated")
}

// SetVisibility handles PATCH /videos/:videoId/visibility.
func (h *VideoHandler) SetVisibility(c *gin.Context) {
	var req models.VisibilityRequest
	if !bindJSON(c, &req) {
		return
	}

	video, err := h.videos.SetVisibility(c.Request.Context(), middleware.ViewerID(c), c.Param("videoId"), req.Visibility)
	if err != nil {
		handleError(c, err)
		return
	}
	respond(c, http.StatusOK, video, "Visibility updated")
}

// Delete handles DELETE /videos/:videoId.
func (h *VideoHandler) Delete(c *gin.Context) {
	if err := h.videos.Delete(c.Request.Context(), middleware.ViewerID(c), c.Param("videoId")); err != nil {
		handleError(c, err)
		return
	}
	respond(c, http.StatusOK, gin.H{}, "Video deleted")
}
