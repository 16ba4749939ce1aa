package handler

import (
	"context"

	dbmodels "github.com/videotube/videotube-api/internal/db/models"
	"github.com/videotube/videotube-api/internal/models"
	"github.com/videotube/videotube-api/internal/service"
)

// Toggler flips relationship edges.
type Toggler interface {
	Toggle(ctx context.Context, req service.ToggleRequest) (*models.ToggleResult, error)
	Status(ctx context.Context, req service.ToggleRequest) (*models.ToggleResult, error)
	ClearReactions(ctx context.Context, subjectID string, predicate dbmodels.Predicate) (int64, error)
}

// ViewReader builds viewer-relative read models.
type ViewReader interface {
	VideoDetail(ctx context.Context, videoID, viewerID string) (*models.VideoView, error)
	CommentsForVideo(ctx context.Context, videoID string, q service.PageQuery, viewerID string) ([]*models.CommentView, *models.PageMeta, error)
	ChannelProfile(ctx context.Context, username, viewerID string) (*models.ChannelView, error)
	SubscribedChannels(ctx context.Context, subscriberID string) ([]*models.ChannelSummary, error)
	ChannelSubscribers(ctx context.Context, channelID string) ([]*models.ChannelSummary, error)
	WatchHistory(ctx context.Context, viewerID string) ([]*models.VideoSummary, error)
	LikedVideos(ctx context.Context, viewerID string) ([]*models.VideoSummary, error)
	DislikedVideos(ctx context.Context, viewerID string) ([]*models.VideoSummary, error)
	ListVideos(ctx context.Context, q service.VideoListQuery, viewerID string) ([]*models.VideoSummary, *models.PageMeta, error)
	SubscriptionFeed(ctx context.Context, viewerID string, q service.PageQuery) ([]*models.VideoSummary, *models.PageMeta, error)
}

// VideoWriter changes videos and records views.
type VideoWriter interface {
	Publish(ctx context.Context, ownerID string, req *models.CreateVideoRequest) (*models.VideoSummary, error)
	Update(ctx context.Context, viewerID, videoID string, req *models.UpdateVideoRequest) (*models.VideoSummary, error)
	SetVisibility(ctx context.Context, viewerID, videoID, visibility string) (*models.VideoSummary, error)
	Delete(ctx context.Context, viewerID, videoID string) error
	RecordView(ctx context.Context, viewerID, videoID string) (int64, error)
}

// CommentWriter changes comments.
type CommentWriter interface {
	Add(ctx context.Context, viewerID, videoID string, req *models.CommentRequest) (*models.CommentView, error)
	Update(ctx context.Context, viewerID, commentID string, req *models.UpdateCommentRequest) (*models.CommentView, error)
	Delete(ctx context.Context, viewerID, commentID string) error
}

// TweetWriter changes tweets.
type TweetWriter interface {
	Create(ctx context.Context, viewerID string, req *models.TweetRequest) (*models.TweetView, error)
	Delete(ctx context.Context, viewerID, tweetID string) error
}

// PlaylistManager manages playlists.
type PlaylistManager interface {
	Create(ctx context.Context, viewerID string, req *models.PlaylistRequest) (*models.PlaylistView, error)
	Get(ctx context.Context, playlistID, viewerID string) (*models.PlaylistView, error)
	ListByOwner(ctx context.Context, userID string) ([]*models.PlaylistView, error)
	Update(ctx context.Context, viewerID, playlistID string, req *models.UpdatePlaylistRequest) (*models.PlaylistView, error)
	Delete(ctx context.Context, viewerID, playlistID string) error
	AddVideo(ctx context.Context, viewerID string, req *models.PlaylistVideosRequest) (int64, error)
	RemoveVideo(ctx context.Context, viewerID string, req *models.PlaylistVideosRequest) (int64, error)
}

// UserReader reads accounts and manages watch history.
type UserReader interface {
	GetByID(ctx context.Context, userID string) (*models.UserView, error)
	Me(ctx context.Context, viewerID string) (*models.UserView, error)
	UpdateAccount(ctx context.Context, viewerID string, req *models.UpdateAccountRequest) (*models.UserView, error)
	RemoveFromHistory(ctx context.Context, viewerID, videoID string) (int64, error)
	ClearHistory(ctx context.Context, viewerID string) (int64, error)
}

var (
	_ Toggler         = (*service.ToggleService)(nil)
	_ ViewReader      = (*service.ViewService)(nil)
	_ VideoWriter     = (*service.VideoService)(nil)
	_ CommentWriter   = (*service.CommentService)(nil)
	_ TweetWriter     = (*service.TweetService)(nil)
	_ PlaylistManager = (*service.PlaylistService)(nil)
	_ UserReader      = (*service.UserService)(nil)
)
