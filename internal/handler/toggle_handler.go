package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	dbmodels "github.com/videotube/videotube-api/internal/db/models"
	"github.com/videotube/videotube-api/internal/middleware"
	"github.com/videotube/videotube-api/internal/models"
	"github.com/videotube/videotube-api/internal/service"
)

// ToggleHandler serves like, dislike and subscribe toggles.
type ToggleHandler struct {
	toggles Toggler
	views   ViewReader
}

// NewToggleHandler creates a new ToggleHandler instance.
func NewToggleHandler(toggles Toggler, views ViewReader) *ToggleHandler {
	return &ToggleHandler{
		toggles: toggles,
		views:   views,
	}
}

// Toggle handles POST /toggle/:predicate/:kind/:targetId.
func (h *ToggleHandler) Toggle(c *gin.Context) {
	h.toggle(c, c.Param("predicate"))
}

// ToggleLike handles POST /likes/toggle/:kind/:targetId.
func (h *ToggleHandler) ToggleLike(c *gin.Context) {
	h.toggle(c, string(dbmodels.PredicateLike))
}

// ToggleDislike handles POST /dislikes/toggle/:kind/:targetId.
func (h *ToggleHandler) ToggleDislike(c *gin.Context) {
	h.toggle(c, string(dbmodels.PredicateDislike))
}

// ToggleSubscription handles POST /subscriptions/:channelId.
func (h *ToggleHandler) ToggleSubscription(c *gin.Context) {
	result, err := h.toggles.Toggle(c.Request.Context(), subscriptionRequest(c))
	if err != nil {
		handleError(c, err)
		return
	}
	message := "Unsubscribed successfully"
	if result.Active {
		message = "Subscribed successfully"
	}
	respond(c, http.StatusOK, toggleBody(result), message)
}

// SubscriptionStatus handles GET /subscriptions/:channelId/status.
func (h *ToggleHandler) SubscriptionStatus(c *gin.Context) {
	result, err := h.toggles.Status(c.Request.Context(), subscriptionRequest(c))
	if err != nil {
		handleError(c, err)
		return
	}
	respond(c, http.StatusOK, toggleBody(result), "Subscription status fetched")
}

// LikedVideos handles GET /likes/videos.
func (h *ToggleHandler) LikedVideos(c *gin.Context) {
	videos, err := h.views.LikedVideos(c.Request.Context(), middleware.ViewerID(c))
	if err != nil {
		handleError(c, err)
		return
	}
	respondWithMeta(c, http.StatusOK, videos, gin.H{"totalVideos": len(videos)}, "Liked videos fetched")
}

// DislikedVideos handles GET /dislikes/videos.
func (h *ToggleHandler) DislikedVideos(c *gin.Context) {
	videos, err := h.views.DislikedVideos(c.Request.Context(), middleware.ViewerID(c))
	if err != nil {
		handleError(c, err)
		return
	}
	respondWithMeta(c, http.StatusOK, videos, gin.H{"totalVideos": len(videos)}, "Disliked videos fetched")
}

// ClearLikes handles DELETE /likes.
func (h *ToggleHandler) ClearLikes(c *gin.Context) {
	removed, err := h.toggles.ClearReactions(c.Request.Context(), middleware.ViewerID(c), dbmodels.PredicateLike)
	if err != nil {
		handleError(c, err)
		return
	}
	respond(c, http.StatusOK, gin.H{"removed": removed}, "Liked videos cleared")
}

func (h *ToggleHandler) toggle(c *gin.Context, predicate string) {
	result, err := h.toggles.Toggle(c.Request.Context(), service.ToggleRequest{
		SubjectID:  middleware.ViewerID(c),
		Predicate:  predicate,
		TargetKind: c.Param("kind"),
		TargetID:   c.Param("targetId"),
	})
	if err != nil {
		handleError(c, err)
		return
	}
	respond(c, http.StatusOK, toggleBody(result), "Toggled successfully")
}

func subscriptionRequest(c *gin.Context) service.ToggleRequest {
	return service.ToggleRequest{
		SubjectID:  middleware.ViewerID(c),
		Predicate:  string(dbmodels.PredicateSubscribe),
		TargetKind: string(dbmodels.TargetChannel),
		TargetID:   c.Param("channelId"),
	}
}

// toggleBody renders a toggle result with the predicate's field names. Tweet
// results carry the created edge instead of a count.
func toggleBody(result *models.ToggleResult) gin.H {
	flag, count := "isLiked", "likes"
	switch result.Predicate {
	case dbmodels.PredicateDislike:
		flag, count = "isDisliked", "dislikes"
	case dbmodels.PredicateSubscribe:
		flag, count = "isSubscribed", "subscribersCount"
	}

	body := gin.H{flag: result.Active}
	if result.Count != nil {
		body[count] = *result.Count
	}
	if result.Target.Kind == dbmodels.TargetTweet {
		body["edge"] = result.Edge
	}
	return body
}
