package service

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	dbmodels "github.com/videotube/videotube-api/internal/db/models"
	"github.com/videotube/videotube-api/internal/db/repository"
	"github.com/videotube/videotube-api/internal/models"
	"github.com/videotube/videotube-api/internal/validation"
	"github.com/videotube/videotube-api/pkg/logger"
)

// CommentService adds, edits and deletes comments.
type CommentService struct {
	comments  repository.CommentRepository
	videos    repository.VideoRepository
	users     repository.UserRepository
	edges     repository.EdgeRepository
	tx        Transactor
	validator *validation.Validator
}

// NewCommentService creates a new CommentService.
func NewCommentService(
	comments repository.CommentRepository,
	videos repository.VideoRepository,
	users repository.UserRepository,
	edges repository.EdgeRepository,
	tx Transactor,
	validator *validation.Validator,
) *CommentService {
	return &CommentService{
		comments:  comments,
		videos:    videos,
		users:     users,
		edges:     edges,
		tx:        tx,
		validator: validator,
	}
}

// Add comments on a video. A reply's parent must belong to the same video.
func (s *CommentService) Add(ctx context.Context, viewerID, videoID string, req *models.CommentRequest) (*models.CommentView, error) {
	viewer, err := requireViewer(viewerID)
	if err != nil {
		return nil, err
	}
	id, err := s.validator.ParseID("videoId", videoID)
	if err != nil {
		return nil, &ValidationError{Message: err.Error()}
	}
	content, err := s.validator.Content("content", req.Content)
	if err != nil {
		return nil, &ValidationError{Message: err.Error()}
	}
	parentID, err := s.validator.ParseOptionalID("parentCommentId", req.ParentCommentID)
	if err != nil {
		return nil, &ValidationError{Message: err.Error()}
	}

	video, err := s.videos.GetByID(ctx, id)
	if err != nil {
		return nil, storeError(err, "failed to get video", "video", id)
	}
	if !video.VisibleTo(viewer) {
		return nil, notFound("video", id)
	}

	comment := dbmodels.NewComment(id, viewer, content)
	if parentID != uuid.Nil {
		parent, err := s.comments.GetByID(ctx, parentID)
		if err != nil {
			return nil, storeError(err, "failed to get parent comment", "comment", parentID)
		}
		if parent.VideoID != id {
			return nil, invalid("parent comment belongs to another video")
		}
		comment.ParentCommentID = uuid.NullUUID{UUID: parentID, Valid: true}
	}

	if err := s.comments.Create(ctx, comment); err != nil {
		return nil, storeError(err, "failed to create comment", "comment", comment.ID)
	}

	owner, err := s.users.GetByID(ctx, viewer)
	if err != nil {
		return nil, storeError(err, "failed to get comment owner", "user", viewer)
	}

	logger.Log.Debug("Comment added",
		zap.String("commentId", comment.ID.String()),
		zap.String("videoId", id.String()),
	)

	return commentView(comment, owner), nil
}

// Update replaces a comment's text. Only its author may edit it.
func (s *CommentService) Update(ctx context.Context, viewerID, commentID string, req *models.UpdateCommentRequest) (*models.CommentView, error) {
	content, err := s.validator.Content("content", req.Content)
	if err != nil {
		return nil, &ValidationError{Message: err.Error()}
	}

	comment, err := s.owned(ctx, viewerID, commentID, "edit this comment")
	if err != nil {
		return nil, err
	}

	comment.Content = content
	if err := s.comments.UpdateContent(ctx, comment); err != nil {
		return nil, storeError(err, "failed to update comment", "comment", comment.ID)
	}

	owner, err := s.users.GetByID(ctx, comment.OwnerID)
	if err != nil {
		return nil, storeError(err, "failed to get comment owner", "user", comment.OwnerID)
	}
	return commentView(comment, owner), nil
}

// Delete removes a comment, its replies and the reactions on all of them.
func (s *CommentService) Delete(ctx context.Context, viewerID, commentID string) error {
	comment, err := s.owned(ctx, viewerID, commentID, "delete this comment")
	if err != nil {
		return err
	}

	return s.tx.RunInTx(ctx, func(ctx context.Context) error {
		ids, err := s.comments.ListThreadIDs(ctx, comment.ID)
		if err != nil {
			return storeError(err, "failed to list replies", "comment", comment.ID)
		}
		if _, err := s.edges.DeleteByTargets(ctx, dbmodels.TargetComment, ids); err != nil {
			return storeError(err, "failed to delete comment edges", "comment", comment.ID)
		}
		if err := s.comments.Delete(ctx, comment.ID); err != nil {
			return storeError(err, "failed to delete comment", "comment", comment.ID)
		}
		return nil
	})
}

func (s *CommentService) owned(ctx context.Context, viewerID, commentID, action string) (*dbmodels.Comment, error) {
	viewer, err := requireViewer(viewerID)
	if err != nil {
		return nil, err
	}
	id, err := s.validator.ParseID("commentId", commentID)
	if err != nil {
		return nil, &ValidationError{Message: err.Error()}
	}

	comment, err := s.comments.GetByID(ctx, id)
	if err != nil {
		return nil, storeError(err, "failed to get comment", "comment", id)
	}
	if comment.OwnerID != viewer {
		return nil, forbidden(action)
	}
	return comment, nil
}

func commentView(c *dbmodels.Comment, owner *dbmodels.User) *models.CommentView {
	view := &models.CommentView{
		ID:        c.ID,
		Content:   c.Content,
		VideoID:   c.VideoID,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
		Owner: models.OwnerSummary{
			ID:       owner.ID,
			Username: owner.Username,
			FullName: owner.DisplayName,
			Avatar:   owner.AvatarURL,
		},
	}
	if c.ParentCommentID.Valid {
		parent := c.ParentCommentID.UUID
		view.ParentCommentID = &parent
	}
	return view
}
