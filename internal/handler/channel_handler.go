package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/videotube/videotube-api/internal/middleware"
)

// ChannelHandler serves channel profiles and subscription listings.
type ChannelHandler struct {
	views ViewReader
}

// NewChannelHandler creates a new ChannelHandler instance.
func NewChannelHandler(views ViewReader) *ChannelHandler {
	return &ChannelHandler{views: views}
}

// Profile handles GET /users/c/:username.
func (h *ChannelHandler) Profile(c *gin.Context) {
	channel, err := h.views.ChannelProfile(c.Request.Context(), c.Param("username"), middleware.ViewerID(c))
	if err != nil {
		handleError(c, err)
		return
	}
	respond(c, http.StatusOK, channel, "Channel fetched")
}

// SubscribedChannels handles GET /subscriptions/subscribed/:subscriberId.
func (h *ChannelHandler) SubscribedChannels(c *gin.Context) {
	channels, err := h.views.SubscribedChannels(c.Request.Context(), c.Param("subscriberId"))
	if err != nil {
		handleError(c, err)
		return
	}
	respondWithMeta(c, http.StatusOK, channels, gin.H{"subscribedToCount": len(channels)}, "Subscribed channels fetched")
}

// Subscribers handles GET /subscriptions/:channelId/subscribers.
func (h *ChannelHandler) Subscribers(c *gin.Context) {
	subscribers, err := h.views.ChannelSubscribers(c.Request.Context(), c.Param("channelId"))
	if err != nil {
		handleError(c, err)
		return
	}
	respondWithMeta(c, http.StatusOK, subscribers, gin.H{"subscribersCount": len(subscribers)}, "Subscribers fetched")
}
