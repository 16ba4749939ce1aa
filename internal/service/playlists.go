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

// PlaylistService manages playlists. Only the owner may change a playlist.
type PlaylistService struct {
	playlists repository.PlaylistRepository
	videos    repository.VideoRepository
	validator *validation.Validator
}

// NewPlaylistService creates a new PlaylistService.
func NewPlaylistService(playlists repository.PlaylistRepository, videos repository.VideoRepository, validator *validation.Validator) *PlaylistService {
	return &PlaylistService{
		playlists: playlists,
		videos:    videos,
		validator: validator,
	}
}

// Create makes an empty playlist for the viewer.
func (s *PlaylistService) Create(ctx context.Context, viewerID string, req *models.PlaylistRequest) (*models.PlaylistView, error) {
	viewer, err := requireViewer(viewerID)
	if err != nil {
		return nil, err
	}
	name, err := s.validator.Content("name", req.Name)
	if err != nil {
		return nil, &ValidationError{Message: err.Error()}
	}

	playlist := dbmodels.NewPlaylist(viewer, name, strings.TrimSpace(req.Description))
	if err := s.playlists.Create(ctx, playlist); err != nil {
		return nil, storeError(err, "failed to create playlist", "playlist", playlist.ID)
	}
	return models.NewPlaylistView(playlist, nil), nil
}

// Get returns a playlist with its videos in insertion order.
func (s *PlaylistService) Get(ctx context.Context, playlistID, viewerID string) (*models.PlaylistView, error) {
	id, err := s.validator.ParseID("playlistId", playlistID)
	if err != nil {
		return nil, &ValidationError{Message: err.Error()}
	}
	viewer, err := optionalViewer(viewerID)
	if err != nil {
		return nil, err
	}

	playlist, err := s.playlists.GetByID(ctx, id)
	if err != nil {
		return nil, storeError(err, "failed to get playlist", "playlist", id)
	}

	rows, err := s.playlists.ListVideos(ctx, id, viewer)
	if err != nil {
		return nil, storeError(err, "failed to list playlist videos", "playlist", id)
	}
	return models.NewPlaylistView(playlist, summarize(rows)), nil
}

// ListByOwner returns a user's playlists without their videos.
func (s *PlaylistService) ListByOwner(ctx context.Context, userID string) ([]*models.PlaylistView, error) {
	owner, err := s.validator.ParseID("userId", userID)
	if err != nil {
		return nil, &ValidationError{Message: err.Error()}
	}

	playlists, err := s.playlists.ListByOwner(ctx, owner)
	if err != nil {
		return nil, storeError(err, "failed to list playlists", "user", owner)
	}

	views := make([]*models.PlaylistView, 0, len(playlists))
	for _, p := range playlists {
		views = append(views, models.NewPlaylistView(p, nil))
	}
	return views, nil
}

// Update renames or re-describes a playlist.
func (s *PlaylistService) Update(ctx context.Context, viewerID, playlistID string, req *models.UpdatePlaylistRequest) (*models.PlaylistView, error) {
	if req.Name == nil && req.Description == nil {
		return nil, invalid("nothing to update")
	}

	playlist, err := s.owned(ctx, viewerID, playlistID, "update this playlist")
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		if playlist.Name, err = s.validator.Content("name", *req.Name); err != nil {
			return nil, &ValidationError{Message: err.Error()}
		}
	}
	if req.Description != nil {
		playlist.Description = strings.TrimSpace(*req.Description)
	}

	if err := s.playlists.Update(ctx, playlist); err != nil {
		return nil, storeError(err, "failed to update playlist", "playlist", playlist.ID)
	}
	return models.NewPlaylistView(playlist, nil), nil
}

// Delete removes a playlist.
func (s *PlaylistService) Delete(ctx context.Context, viewerID, playlistID string) error {
	playlist, err := s.owned(ctx, viewerID, playlistID, "delete this playlist")
	if err != nil {
		return err
	}
	if err := s.playlists.Delete(ctx, playlist.ID); err != nil {
		return storeError(err, "failed to delete playlist", "playlist", playlist.ID)
	}
	return nil
}

// AddVideo adds one video to several of the viewer's playlists. Playlists
// that already hold it are left unchanged.
func (s *PlaylistService) AddVideo(ctx context.Context, viewerID string, req *models.PlaylistVideosRequest) (int64, error) {
	viewer, videoID, playlistIDs, err := s.parseVideosRequest(viewerID, req)
	if err != nil {
		return 0, err
	}

	video, err := s.videos.GetByID(ctx, videoID)
	if err != nil {
		return 0, storeError(err, "failed to get video", "video", videoID)
	}
	if !video.VisibleTo(viewer) {
		return 0, notFound("video", videoID)
	}
	if err := s.checkOwnership(ctx, viewer, playlistIDs); err != nil {
		return 0, err
	}

	added, err := s.playlists.AddVideo(ctx, videoID, playlistIDs)
	if err != nil {
		return 0, storeError(err, "failed to add video to playlists", "playlist", videoID)
	}

	logger.Log.Debug("Video added to playlists",
		zap.String("videoId", videoID.String()),
		zap.Int("playlists", len(playlistIDs)),
		zap.Int64("added", added),
	)
	return added, nil
}

// RemoveVideo drops one video from several of the viewer's playlists.
func (s *PlaylistService) RemoveVideo(ctx context.Context, viewerID string, req *models.PlaylistVideosRequest) (int64, error) {
	viewer, videoID, playlistIDs, err := s.parseVideosRequest(viewerID, req)
	if err != nil {
		return 0, err
	}
	if err := s.checkOwnership(ctx, viewer, playlistIDs); err != nil {
		return 0, err
	}

	removed, err := s.playlists.RemoveVideo(ctx, videoID, playlistIDs)
	if err != nil {
		return 0, storeError(err, "failed to remove video from playlists", "playlist", videoID)
	}
	return removed, nil
}

func (s *PlaylistService) parseVideosRequest(viewerID string, req *models.PlaylistVideosRequest) (uuid.UUID, uuid.UUID, []uuid.UUID, error) {
	viewer, err := requireViewer(viewerID)
	if err != nil {
		return uuid.Nil, uuid.Nil, nil, err
	}
	videoID, err := s.validator.ParseID("videoId", req.VideoID)
	if err != nil {
		return uuid.Nil, uuid.Nil, nil, &ValidationError{Message: err.Error()}
	}
	playlistIDs, err := s.validator.ParseIDs("playlistIds", req.PlaylistIDs)
	if err != nil {
		return uuid.Nil, uuid.Nil, nil, &ValidationError{Message: err.Error()}
	}
	return viewer, videoID, playlistIDs, nil
}

// checkOwnership requires every playlist to exist and belong to viewer.
func (s *PlaylistService) checkOwnership(ctx context.Context, viewer uuid.UUID, ids []uuid.UUID) error {
	playlists, err := s.playlists.GetManyByIDs(ctx, ids)
	if err != nil {
		return storeError(err, "failed to get playlists", "playlist", uuid.Nil)
	}

	found := make(map[uuid.UUID]*dbmodels.Playlist, len(playlists))
	for _, p := range playlists {
		found[p.ID] = p
	}
	for _, id := range ids {
		p, ok := found[id]
		if !ok {
			return notFound("playlist", id)
		}
		if p.OwnerID != viewer {
			return forbidden("change playlist " + id.String())
		}
	}
	return nil
}

func (s *PlaylistService) owned(ctx context.Context, viewerID, playlistID, action string) (*dbmodels.Playlist, error) {
	viewer, err := requireViewer(viewerID)
	if err != nil {
		return nil, err
	}
	id, err := s.validator.ParseID("playlistId", playlistID)
	if err != nil {
		return nil, &ValidationError{Message: err.Error()}
	}

	playlist, err := s.playlists.GetByID(ctx, id)
	if err != nil {
		return nil, storeError(err, "failed to get playlist", "playlist", id)
	}
	if playlist.OwnerID != viewer {
		return nil, forbidden(action)
	}
	return playlist, nil
}
