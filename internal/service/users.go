package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/videotube/videotube-api/internal/db"
	"github.com/videotube/videotube-api/internal/db/repository"
	"github.com/videotube/videotube-api/internal/models"
	"github.com/videotube/videotube-api/internal/validation"
	"github.com/videotube/videotube-api/pkg/logger"
)

// UserService reads accounts and manages the viewer's watch history.
type UserService struct {
	users     repository.UserRepository
	history   repository.HistoryRepository
	validator *validation.Validator
}

// NewUserService creates a new UserService.
func NewUserService(users repository.UserRepository, history repository.HistoryRepository, validator *validation.Validator) *UserService {
	return &UserService{
		users:     users,
		history:   history,
		validator: validator,
	}
}

// GetByID returns the public fields of a user.
func (s *UserService) GetByID(ctx context.Context, userID string) (*models.UserView, error) {
	id, err := s.validator.ParseID("userId", userID)
	if err != nil {
		return nil, &ValidationError{Message: err.Error()}
	}

	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, storeError(err, "failed to get user", "user", id)
	}
	return models.NewUserView(user, false), nil
}

// Me returns the viewer's own account, email included.
func (s *UserService) Me(ctx context.Context, viewerID string) (*models.UserView, error) {
	viewer, err := requireViewer(viewerID)
	if err != nil {
		return nil, err
	}

	user, err := s.users.GetByID(ctx, viewer)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, &UnauthorizedError{Message: "viewer account no longer exists"}
		}
		return nil, storeError(err, "failed to get user", "user", viewer)
	}
	return models.NewUserView(user, true), nil
}

// UpdateAccount changes the viewer's display name, username, email or
// description. A username or email held by another account is a conflict.
func (s *UserService) UpdateAccount(ctx context.Context, viewerID string, req *models.UpdateAccountRequest) (*models.UserView, error) {
	viewer, err := requireViewer(viewerID)
	if err != nil {
		return nil, err
	}
	if req.FullName == nil && req.Username == nil && req.Email == nil && req.Description == nil {
		return nil, invalid("at least one account field is required")
	}
	if req.FullName != nil && strings.TrimSpace(*req.FullName) == "" {
		return nil, invalid("fullName cannot be blank")
	}
	if req.Username != nil && !s.validator.IsValidUsername(*req.Username) {
		return nil, invalid("invalid username: %q", *req.Username)
	}

	current, err := s.users.GetByID(ctx, viewer)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, &UnauthorizedError{Message: "viewer account no longer exists"}
		}
		return nil, storeError(err, "failed to get user", "user", viewer)
	}

	updated := *current
	if req.FullName != nil {
		updated.DisplayName = strings.TrimSpace(*req.FullName)
	}
	if req.Username != nil {
		updated.Username = strings.ToLower(strings.TrimSpace(*req.Username))
	}
	if req.Email != nil {
		updated.Email = strings.ToLower(strings.TrimSpace(*req.Email))
	}
	if req.Description != nil {
		updated.Description = strings.TrimSpace(*req.Description)
	}

	if err := s.users.Update(ctx, &updated); err != nil {
		if db.IsNotFound(err) {
			return nil, &UnauthorizedError{Message: "viewer account no longer exists"}
		}
		return nil, storeError(err, "failed to update account", "username or email", viewer)
	}

	logger.Log.Info("Account updated",
		zap.String("userId", viewer.String()),
	)
	return models.NewUserView(&updated, true), nil
}

// RemoveFromHistory drops a video from the viewer's watch history.
func (s *UserService) RemoveFromHistory(ctx context.Context, viewerID, videoID string) (int64, error) {
	viewer, err := requireViewer(viewerID)
	if err != nil {
		return 0, err
	}
	id, err := s.validator.ParseID("videoId", videoID)
	if err != nil {
		return 0, &ValidationError{Message: err.Error()}
	}

	removed, err := s.history.Remove(ctx, viewer, id)
	if err != nil {
		return 0, storeError(err, "failed to remove from watch history", "video", id)
	}
	if removed == 0 {
		return 0, &NotFoundError{Resource: "watch history entry", ID: id.String()}
	}
	return removed, nil
}

// ClearHistory empties the viewer's watch history.
func (s *UserService) ClearHistory(ctx context.Context, viewerID string) (int64, error) {
	viewer, err := requireViewer(viewerID)
	if err != nil {
		return 0, err
	}

	cleared, err := s.history.Clear(ctx, viewer)
	if err != nil {
		return 0, storeError(err, "failed to clear watch history", "user", viewer)
	}

	logger.Log.Info("Watch history cleared",
		zap.String("userId", viewer.String()),
		zap.Int64("entries", cleared),
	)
	return cleared, nil
}
