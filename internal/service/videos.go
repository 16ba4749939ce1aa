package service

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	dbmodels "github.com/videotube/videotube-api/internal/db/models"
	"github.com/videotube/videotube-api/internal/db/repository"
	"github.com/videotube/videotube-api/internal/models"
	"github.com/videotube/videotube-api/internal/validation"
	"github.com/videotube/videotube-api/pkg/logger"
)

// VideoService publishes, edits and deletes videos and records views.
type VideoService struct {
	videos    repository.VideoRepository
	comments  repository.CommentRepository
	edges     repository.EdgeRepository
	history   repository.HistoryRepository
	tx        Transactor
	validator *validation.Validator
}

// NewVideoService creates a new VideoService.
func NewVideoService(
	videos repository.VideoRepository,
	comments repository.CommentRepository,
	edges repository.EdgeRepository,
	history repository.HistoryRepository,
	tx Transactor,
	validator *validation.Validator,
) *VideoService {
	return &VideoService{
		videos:    videos,
		comments:  comments,
		edges:     edges,
		history:   history,
		tx:        tx,
		validator: validator,
	}
}

// Publish stores a video whose files were already uploaded.
func (s *VideoService) Publish(ctx context.Context, ownerID string, req *models.CreateVideoRequest) (*models.VideoSummary, error) {
	owner, err := requireViewer(ownerID)
	if err != nil {
		return nil, err
	}

	title, err := s.validator.Content("title", req.Title)
	if err != nil {
		return nil, &ValidationError{Message: err.Error()}
	}
	description, err := s.validator.Content("description", req.Description)
	if err != nil {
		return nil, &ValidationError{Message: err.Error()}
	}
	if strings.TrimSpace(req.VideoFile) == "" || strings.TrimSpace(req.Thumbnail) == "" {
		return nil, invalid("videoFile and thumbnail are required")
	}
	if req.Duration < 0 {
		return nil, invalid("duration must not be negative")
	}

	video := dbmodels.NewVideo(owner, title, description, req.VideoFile, req.Thumbnail, req.Duration)
	video.Category = strings.TrimSpace(req.Category)
	video.Tags = normalizeTags(req.Tags)
	if req.Visibility != "" {
		visibility := dbmodels.Visibility(req.Visibility)
		if !visibility.Valid() {
			return nil, invalid("invalid visibility: %s", req.Visibility)
		}
		video.Visibility = visibility
	}

	if err := s.videos.Create(ctx, video); err != nil {
		return nil, storeError(err, "failed to create video", "video", video.ID)
	}

	logger.Log.Info("Video published",
		zap.String("videoId", video.ID.String()),
		zap.String("ownerId", owner.String()),
	)

	return s.summary(ctx, video.ID)
}

// Update changes title, description or thumbnail. Only the owner may update.
func (s *VideoService) Update(ctx context.Context, viewerID, videoID string, req *models.UpdateVideoRequest) (*models.VideoSummary, error) {
	video, err := s.owned(ctx, viewerID, videoID, "update this video")
	if err != nil {
		return nil, err
	}
	if req.Title == nil && req.Description == nil && req.Thumbnail == nil {
		return nil, invalid("nothing to update")
	}

	if req.Title != nil {
		if video.Title, err = s.validator.Content("title", *req.Title); err != nil {
			return nil, &ValidationError{Message: err.Error()}
		}
	}
	if req.Description != nil {
		if video.Description, err = s.validator.Content("description", *req.Description); err != nil {
			return nil, &ValidationError{Message: err.Error()}
		}
	}
	if req.Thumbnail != nil {
		if strings.TrimSpace(*req.Thumbnail) == "" {
			return nil, invalid("thumbnail must not be empty")
		}
		video.ThumbnailURL = *req.Thumbnail
	}

	if err := s.videos.Update(ctx, video); err != nil {
		return nil, storeError(err, "failed to update video", "video", video.ID)
	}
	return s.summary(ctx, video.ID)
}

// SetVisibility changes who can see the video. Only the owner may change it.
func (s *VideoService) SetVisibility(ctx context.Context, viewerID, videoID, visibility string) (*models.VideoSummary, error) {
	v := dbmodels.Visibility(strings.ToLower(strings.TrimSpace(visibility)))
	if !v.Valid() {
		return nil, invalid("invalid visibility: %s", visibility)
	}

	video, err := s.owned(ctx, viewerID, videoID, "change this video")
	if err != nil {
		return nil, err
	}

	if err := s.videos.SetVisibility(ctx, video.ID, v); err != nil {
		return nil, storeError(err, "failed to set visibility", "video", video.ID)
	}
	return s.summary(ctx, video.ID)
}

// Delete removes the video with its comments, playlist entries and every
// edge pointing at the video or its comments.
func (s *VideoService) Delete(ctx context.Context, viewerID, videoID string) error {
	video, err := s.owned(ctx, viewerID, videoID, "delete this video")
	if err != nil {
		return err
	}

	err = s.tx.RunInTx(ctx, func(ctx context.Context) error {
		commentIDs, err := s.comments.ListIDsByVideo(ctx, video.ID)
		if err != nil {
			return storeError(err, "failed to list comments", "video", video.ID)
		}
		if _, err := s.edges.DeleteByTargets(ctx, dbmodels.TargetComment, commentIDs); err != nil {
			return storeError(err, "failed to delete comment edges", "video", video.ID)
		}
		if _, err := s.edges.DeleteByTargets(ctx, dbmodels.TargetVideo, []uuid.UUID{video.ID}); err != nil {
			return storeError(err, "failed to delete video edges", "video", video.ID)
		}
		if err := s.videos.Delete(ctx, video.ID); err != nil {
			return storeError(err, "failed to delete video", "video", video.ID)
		}
		return nil
	})
	if err != nil {
		return err
	}

	logger.Log.Info("Video deleted", zap.String("videoId", video.ID.String()))
	return nil
}

// RecordView appends the video to the viewer's watch history and recomputes
// the view count from history membership. Concurrent views of the same video
// can race between the append and the recount.
func (s *VideoService) RecordView(ctx context.Context, viewerID, videoID string) (int64, error) {
	viewer, err := requireViewer(viewerID)
	if err != nil {
		return 0, err
	}
	id, err := s.validator.ParseID("videoId", videoID)
	if err != nil {
		return 0, &ValidationError{Message: err.Error()}
	}

	video, err := s.videos.GetByID(ctx, id)
	if err != nil {
		return 0, storeError(err, "failed to get video", "video", id)
	}
	if !video.VisibleTo(viewer) {
		return 0, notFound("video", id)
	}

	if err := s.history.Append(ctx, viewer, id); err != nil {
		return 0, storeError(err, "failed to record view", "video", id)
	}

	views, err := s.videos.RefreshViews(ctx, id)
	if err != nil {
		return 0, storeError(err, "failed to refresh views", "video", id)
	}
	return views, nil
}

func (s *VideoService) owned(ctx context.Context, viewerID, videoID, action string) (*dbmodels.Video, error) {
	viewer, err := requireViewer(viewerID)
	if err != nil {
		return nil, err
	}
	id, err := s.validator.ParseID("videoId", videoID)
	if err != nil {
		return nil, &ValidationError{Message: err.Error()}
	}

	video, err := s.videos.GetByID(ctx, id)
	if err != nil {
		return nil, storeError(err, "failed to get video", "video", id)
	}
	if video.OwnerID != viewer {
		if !video.VisibleTo(viewer) {
			return nil, notFound("video", id)
		}
		return nil, forbidden(action)
	}
	return video, nil
}

func (s *VideoService) summary(ctx context.Context, id uuid.UUID) (*models.VideoSummary, error) {
	video, err := s.videos.GetWithOwner(ctx, id)
	if err != nil {
		return nil, storeError(err, "failed to get video", "video", id)
	}
	return models.NewVideoSummary(video), nil
}

func normalizeTags(tags []string) []string {
	seen := make(map[string]struct{}, len(tags))
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		tag = strings.ToLower(strings.TrimSpace(tag))
		if tag == "" {
			continue
		}
		if _, ok := seen[tag]; ok {
			continue
		}
		seen[tag] = struct{}{}
		out = append(out, tag)
	}
	return out
}
