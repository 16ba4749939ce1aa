// Package models contains the API envelopes, views and request DTOs of the
// videotube service.
package models

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	dbmodels "github.com/videotube/videotube-api/internal/db/models"
)

// Response is the success envelope.
//
//nolint:govet // fieldalignment: Accept minor memory overhead for better readability
type Response struct {
	StatusCode int    `json:"statusCode"`
	Data       any    `json:"data"`
	Meta       any    `json:"meta,omitempty"`
	Message    string `json:"message"`
	Success    bool   `json:"success"`
}

// NewResponse builds an envelope. Success is derived from the status code.
func NewResponse(statusCode int, data any, message string) *Response {
	return &Response{
		StatusCode: statusCode,
		Data:       data,
		Message:    message,
		Success:    statusCode < http.StatusBadRequest,
	}
}

// WithMeta attaches listing metadata.
func (r *Response) WithMeta(meta any) *Response {
	r.Meta = meta
	return r
}

// ErrorResponse is the error envelope.
//
//nolint:govet // fieldalignment: Accept minor memory overhead for better readability
type ErrorResponse struct {
	StatusCode int      `json:"statusCode"`
	Message    string   `json:"message"`
	Success    bool     `json:"success"`
	Errors     []string `json:"errors"`
}

// NewErrorResponse builds an error envelope.
func NewErrorResponse(statusCode int, message string, errs ...string) *ErrorResponse {
	if errs == nil {
		errs = []string{}
	}
	return &ErrorResponse{
		StatusCode: statusCode,
		Message:    message,
		Success:    false,
		Errors:     errs,
	}
}

// PageMeta describes a page of a listing.
type PageMeta struct {
	Total      int `json:"total"`
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	TotalPages int `json:"totalPages"`
}

// OwnerSummary is the public face of a user shown next to content. It never
// carries credentials.
type OwnerSummary struct {
	ID       uuid.UUID `json:"_id"`
	Username string    `json:"username"`
	FullName string    `json:"fullName"`
	Avatar   string    `json:"avatar"`
}

// NewOwnerSummary converts the joined owner columns.
func NewOwnerSummary(u dbmodels.UserSummary) OwnerSummary {
	return OwnerSummary{
		ID:       u.ID,
		Username: u.Username,
		FullName: u.DisplayName,
		Avatar:   u.AvatarURL,
	}
}

// OwnerProfile is an owner summary with subscription facts relative to a viewer.
type OwnerProfile struct {
	OwnerSummary
	SubscribersCount int  `json:"subscribersCount"`
	IsSubscribed     bool `json:"isSubscribed"`
}

// VideoView is the detail view of a video for a viewer.
//
//nolint:govet // fieldalignment: Accept minor memory overhead for better readability
type VideoView struct {
	ID          uuid.UUID    `json:"_id"`
	VideoFile   string       `json:"videoFile"`
	Thumbnail   string       `json:"thumbnail"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Duration    float64      `json:"duration"`
	Views       int64        `json:"views"`
	Visibility  string       `json:"visibility"`
	Category    string       `json:"category"`
	Tags        []string     `json:"tags"`
	CreatedAt   time.Time    `json:"createdAt"`
	UpdatedAt   time.Time    `json:"updatedAt"`
	Owner       OwnerProfile `json:"owner"`
	Likes       int          `json:"likes"`
	Dislikes    int          `json:"dislikes"`
	IsLiked     bool         `json:"isLiked"`
	IsDisliked  bool         `json:"isDisliked"`
}

// VideoSummary is a video as it appears in listings.
//
//nolint:govet // fieldalignment: Accept minor memory overhead for better readability
type VideoSummary struct {
	ID          uuid.UUID    `json:"_id"`
	VideoFile   string       `json:"videoFile"`
	Thumbnail   string       `json:"thumbnail"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Duration    float64      `json:"duration"`
	Views       int64        `json:"views"`
	Visibility  string       `json:"visibility"`
	CreatedAt   time.Time    `json:"createdAt"`
	Owner       OwnerSummary `json:"owner"`
	WatchedAt   *time.Time   `json:"watchedAt,omitempty"`
}

// NewVideoSummary converts a video joined with its owner.
func NewVideoSummary(v *dbmodels.VideoWithOwner) *VideoSummary {
	return &VideoSummary{
		ID:          v.ID,
		VideoFile:   v.VideoFileURL,
		Thumbnail:   v.ThumbnailURL,
		Title:       v.Title,
		Description: v.Description,
		Duration:    v.Duration,
		Views:       v.Views,
		Visibility:  string(v.Visibility),
		CreatedAt:   v.CreatedAt,
		Owner:       NewOwnerSummary(v.Owner),
	}
}

// CommentView is a comment with reaction facts relative to a viewer.
//
//nolint:govet // fieldalignment: Accept minor memory overhead for better readability
type CommentView struct {
	ID              uuid.UUID    `json:"_id"`
	Content         string       `json:"content"`
	VideoID         uuid.UUID    `json:"video"`
	ParentCommentID *uuid.UUID   `json:"parentCommentId"`
	CreatedAt       time.Time    `json:"createdAt"`
	UpdatedAt       time.Time    `json:"updatedAt"`
	Owner           OwnerSummary `json:"owner"`
	Likes           int          `json:"likes"`
	Dislikes        int          `json:"dislikes"`
	IsLiked         bool         `json:"isLiked"`
	IsDisliked      bool         `json:"isDisliked"`
}

// ChannelView is a channel profile for a viewer.
//
//nolint:govet // fieldalignment: Accept minor memory overhead for better readability
type ChannelView struct {
	ID                        uuid.UUID `json:"_id"`
	Username                  string    `json:"username"`
	FullName                  string    `json:"fullName"`
	Avatar                    string    `json:"avatar"`
	CoverImage                string    `json:"coverImage"`
	Description               string    `json:"description"`
	CreatedAt                 time.Time `json:"createdAt"`
	SubscribersCount          int       `json:"subscribersCount"`
	ChannelsSubscribedToCount int       `json:"channelsSubscribedToCount"`
	IsSubscribed              bool      `json:"isSubscribed"`
}

// ChannelSummary is a channel in a subscription listing.
type ChannelSummary struct {
	OwnerSummary
	SubscribersCount int `json:"subscribersCount"`
}

// UserView is the public representation of a user account.
//
//nolint:govet // fieldalignment: Accept minor memory overhead for better readability
type UserView struct {
	ID          uuid.UUID `json:"_id"`
	Username    string    `json:"username"`
	Email       string    `json:"email,omitempty"`
	FullName    string    `json:"fullName"`
	Avatar      string    `json:"avatar"`
	CoverImage  string    `json:"coverImage"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// NewUserView converts a user. Email is only kept when includeEmail is set.
func NewUserView(u *dbmodels.User, includeEmail bool) *UserView {
	view := &UserView{
		ID:          u.ID,
		Username:    u.Username,
		FullName:    u.DisplayName,
		Avatar:      u.AvatarURL,
		CoverImage:  u.BannerURL,
		Description: u.Description,
		CreatedAt:   u.CreatedAt,
		UpdatedAt:   u.UpdatedAt,
	}
	if includeEmail {
		view.Email = u.Email
	}
	return view
}

// TweetView is a tweet as returned by the API.
type TweetView struct {
	ID        uuid.UUID `json:"_id"`
	OwnerID   uuid.UUID `json:"owner"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// NewTweetView converts a tweet.
func NewTweetView(t *dbmodels.Tweet) *TweetView {
	return &TweetView{
		ID:        t.ID,
		OwnerID:   t.OwnerID,
		Content:   t.Content,
		CreatedAt: t.CreatedAt,
		UpdatedAt: t.UpdatedAt,
	}
}

// PlaylistView is a playlist with its videos in insertion order.
//
//nolint:govet // fieldalignment: Accept minor memory overhead for better readability
type PlaylistView struct {
	ID          uuid.UUID       `json:"_id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Thumbnail   string          `json:"thumbnail"`
	OwnerID     uuid.UUID       `json:"owner"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
	Videos      []*VideoSummary `json:"videos"`
	TotalVideos int             `json:"totalVideos"`
}

// NewPlaylistView converts a playlist. Videos may be nil for listings.
func NewPlaylistView(p *dbmodels.Playlist, videos []*VideoSummary) *PlaylistView {
	if videos == nil {
		videos = []*VideoSummary{}
	}
	return &PlaylistView{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Thumbnail:   p.ThumbnailURL,
		OwnerID:     p.OwnerID,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
		Videos:      videos,
		TotalVideos: len(videos),
	}
}

// ToggleResult is the outcome of toggling an edge. Count is nil for tweet
// targets, which return the edge record instead.
//
//nolint:govet // fieldalignment: Accept minor memory overhead for better readability
type ToggleResult struct {
	Predicate dbmodels.Predicate
	Target    dbmodels.Target
	Active    bool
	Count     *int
	Edge      *dbmodels.Edge
}

// EdgeEvent is published after a toggle commits.
//
//nolint:govet // fieldalignment: Accept minor memory overhead for better readability
type EdgeEvent struct {
	ID         uuid.UUID           `json:"id"`
	SubjectID  uuid.UUID           `json:"subjectId"`
	Predicate  dbmodels.Predicate  `json:"predicate"`
	TargetKind dbmodels.TargetKind `json:"targetKind"`
	TargetID   uuid.UUID           `json:"targetId"`
	Active     bool                `json:"active"`
	OccurredAt time.Time           `json:"occurredAt"`
}

// CreateVideoRequest publishes a video from already uploaded files.
type CreateVideoRequest struct {
	Title       string   `json:"title" binding:"required,max=200"`
	Description string   `json:"description" binding:"required"`
	VideoFile   string   `json:"videoFile" binding:"required,url"`
	Thumbnail   string   `json:"thumbnail" binding:"required,url"`
	Duration    float64  `json:"duration" binding:"gte=0"`
	Category    string   `json:"category" binding:"max=50"`
	Tags        []string `json:"tags"`
	Visibility  string   `json:"visibility" binding:"omitempty,oneof=public private unlisted"`
}

// UpdateVideoRequest changes video details. Nil fields are left unchanged.
type UpdateVideoRequest struct {
	Title       *string `json:"title" binding:"omitempty,min=1,max=200"`
	Description *string `json:"description"`
	Thumbnail   *string `json:"thumbnail" binding:"omitempty,url"`
}

// VisibilityRequest sets who can see a video.
type VisibilityRequest struct {
	Visibility string `json:"visibility" binding:"required,oneof=public private unlisted"`
}

// CommentRequest adds a comment, optionally as a reply.
type CommentRequest struct {
	Content         string `json:"content" binding:"required"`
	ParentCommentID string `json:"parentCommentId"`
}

// UpdateCommentRequest replaces a comment's text.
type UpdateCommentRequest struct {
	Content string `json:"content" binding:"required"`
}

// TweetRequest creates a tweet.
type TweetRequest struct {
	Content string `json:"content" binding:"required,max=280"`
}

// PlaylistRequest creates a playlist.
type PlaylistRequest struct {
	Name        string `json:"name" binding:"required,max=150"`
	Description string `json:"description"`
}

// UpdatePlaylistRequest changes playlist details. Nil fields are left unchanged.
type UpdatePlaylistRequest struct {
	Name        *string `json:"name" binding:"omitempty,min=1,max=150"`
	Description *string `json:"description"`
}

// UpdateAccountRequest changes account details. Nil fields are left unchanged.
type UpdateAccountRequest struct {
	FullName    *string `json:"fullName" binding:"omitempty,min=1,max=100"`
	Username    *string `json:"username" binding:"omitempty,min=3,max=50"`
	Email       *string `json:"email" binding:"omitempty,email,max=255"`
	Description *string `json:"description"`
}

// PlaylistVideosRequest adds or removes one video across several playlists.
type PlaylistVideosRequest struct {
	VideoID     string   `json:"videoId" binding:"required"`
	PlaylistIDs []string `json:"playlistIds" binding:"required,min=1"`
}
