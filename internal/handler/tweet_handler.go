package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/videotube/videotube-api/internal/middleware"
	"github.com/videotube/videotube-api/internal/models"
)

// TweetHandler serves tweet writes.
type TweetHandler struct {
	tweets TweetWriter
}

// NewTweetHandler creates a new TweetHandler instance.
func NewTweetHandler(tweets TweetWriter) *TweetHandler {
	return &TweetHandler{tweets: tweets}
}

// Create handles POST /tweets.
func (h *TweetHandler) Create(c *gin.Context) {
	var req models.TweetRequest
	if !bindJSON(c, &req) {
		return
	}

	tweet, err := h.tweets.Create(c.Request.Context(), middleware.ViewerID(c), &req)
	if err != nil {
		handleError(c, err)
		return
	}
	respond(c, http.StatusCreated, tweet, "Tweet created")
}

// Delete handles DELETE /tweets/:tweetId.
func (h *TweetHandler) Delete(c *gin.Context) {
	if err := h.tweets.Delete(c.Request.Context(), middleware.ViewerID(c), c.Param("tweetId")); err != nil {
		handleError(c, err)
		return
	}
	respond(c, http.StatusOK, gin.H{}, "Tweet deleted")
}
