package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/videotube/videotube-api/internal/middleware"
	"github.com/videotube/videotube-api/internal/models"
)

// Handlers groups everything the router mounts.
type Handlers struct {
	Health         *HealthHandler
	Toggles        *ToggleHandler
	Videos         *VideoHandler
	Comments       *CommentHandler
	Channels       *ChannelHandler
	Users          *UserHandler
	Tweets         *TweetHandler
	Playlists      *PlaylistHandler
	Metrics        http.Handler
	MetricsPath    string
	Authenticator  *middleware.JWTAuth
	RequestTimeout time.Duration // bounds /api/v1 requests, zero means none
}

// NewRouter builds the gin engine with every route under /api/v1.
func NewRouter(h Handlers) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger(), middleware.Metrics())

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, models.NewErrorResponse(http.StatusNotFound, "Route not found"))
	})

	r.GET("/health/live", h.Health.LivenessProbe)
	r.GET("/health/ready", h.Health.ReadinessProbe)
	if h.Metrics != nil {
		r.GET(h.MetricsPath, gin.WrapH(h.Metrics))
	}

	required := h.Authenticator.Required()
	optional := h.Authenticator.Optional()

	api := r.Group("/api/v1", middleware.Timeout(h.RequestTimeout))

	api.POST("/toggle/:predicate/:kind/:targetId", required, h.Toggles.Toggle)
	api.POST("/likes/toggle/:kind/:targetId", required, h.Toggles.ToggleLike)
	api.POST("/dislikes/toggle/:kind/:targetId", required, h.Toggles.ToggleDislike)
	api.GET("/likes/videos", required, h.Toggles.LikedVideos)
	api.DELETE("/likes", required, h.Toggles.ClearLikes)
	api.GET("/dislikes/videos", required, h.Toggles.DislikedVideos)

	videos := api.Group("/videos")
	videos.GET("", optional, h.Videos.List)
	videos.POST("", required, h.Videos.Publish)
	videos.GET("/subscriptions", required, h.Videos.SubscriptionFeed)
	videos.GET("/:videoId", optional, h.Videos.Get)
	videos.PATCH("/:videoId", required, h.Videos.Update)
	videos.DELETE("/:videoId", required, h.Videos.Delete)
	videos.PATCH("/:videoId/visibility", required, h.Videos.SetVisibility)
	videos.GET("/:videoId/comments", optional, h.Comments.List)
	videos.POST("/:videoId/comments", required, h.Comments.Add)

	comments := api.Group("/comments", required)
	comments.PATCH("/:commentId", h.Comments.Update)
	comments.DELETE("/:commentId", h.Comments.Delete)

	subscriptions := api.Group("/subscriptions", required)
	subscriptions.GET("/subscribed/:subscriberId", h.Channels.SubscribedChannels)
	subscriptions.POST("/:channelId", h.Toggles.ToggleSubscription)
	subscriptions.GET("/:channelId/status", h.Toggles.SubscriptionStatus)
	subscriptions.GET("/:channelId/subscribers", h.Channels.Subscribers)

	users := api.Group("/users")
	users.GET("/c/:username", optional, h.Channels.Profile)
	users.GET("/me", required, h.Users.Me)
	users.PATCH("/me", required, h.Users.UpdateAccount)
	users.GET("/history", required, h.Users.History)
	users.DELETE("/history", required, h.Users.ClearHistory)
	users.DELETE("/history/:videoId", required, h.Users.RemoveFromHistory)
	users.GET("/:userId", required, h.Users.Get)

	tweets := api.Group("/tweets", required)
	tweets.POST("", h.Tweets.Create)
	tweets.DELETE("/:tweetId", h.Tweets.Delete)

	playlists := api.Group("/playlists", required)
	playlists.POST("", h.Playlists.Create)
	playlists.POST("/videos", h.Playlists.AddVideo)
	playlists.DELETE("/videos", h.Playlists.RemoveVideo)
	playlists.GET("/user/:userId", h.Playlists.ListByOwner)
	playlists.GET("/:playlistId", h.Playlists.Get)
	playlists.PATCH("/:playlistId", h.Playlists.Update)
	playlists.DELETE("/:playlistId", h.Playlists.Delete)

	return r
}
