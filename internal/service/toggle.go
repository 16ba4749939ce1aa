package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	dbmodels "github.com/videotube/videotube-api/internal/db/models"
	"github.com/videotube/videotube-api/internal/db/repository"
	"github.com/videotube/videotube-api/internal/metrics"
	"github.com/videotube/videotube-api/internal/models"
	"github.com/videotube/videotube-api/internal/validation"
	"github.com/videotube/videotube-api/pkg/logger"
)

// ToggleRequest names the edge to flip. All fields are raw request values.
type ToggleRequest struct {
	SubjectID  string
	Predicate  string
	TargetKind string
	TargetID   string
}

// ToggleOptions configures the toggle policy.
type ToggleOptions struct {
	// ExclusiveReactions removes the opposite reaction when a Like or
	// Dislike is created. Off by default, so a subject may hold both.
	ExclusiveReactions bool
}

// ToggleService flips likes, dislikes and subscriptions.
type ToggleService struct {
	edges     repository.EdgeRepository
	videos    repository.VideoRepository
	comments  repository.CommentRepository
	tx        Transactor
	publisher EventPublisher
	validator *validation.Validator
	opts      ToggleOptions
}

// NewToggleService creates a new ToggleService. publisher may be nil.
func NewToggleService(
	edges repository.EdgeRepository,
	videos repository.VideoRepository,
	comments repository.CommentRepository,
	tx Transactor,
	publisher EventPublisher,
	validator *validation.Validator,
	opts ToggleOptions,
) *ToggleService {
	return &ToggleService{
		edges:     edges,
		videos:    videos,
		comments:  comments,
		tx:        tx,
		publisher: publisher,
		validator: validator,
		opts:      opts,
	}
}

// Toggle deletes the edge if it exists and creates it otherwise, then reports
// the new state with the aggregate count for the target. Tweet targets skip
// the count and carry the created edge instead.
func (s *ToggleService) Toggle(ctx context.Context, req ToggleRequest) (*models.ToggleResult, error) {
	key, err := s.parseKey(req)
	if err != nil {
		return nil, err
	}

	result := &models.ToggleResult{Predicate: key.Predicate, Target: key.Target}

	err = s.tx.RunInTx(ctx, func(ctx context.Context) error {
		if err := s.checkTarget(ctx, key); err != nil {
			return err
		}

		removed, err := s.edges.Delete(ctx, key)
		if err != nil {
			return storeError(err, "failed to delete edge", "edge", key.Target.ID)
		}

		if !removed {
			edge, _, err := s.edges.Upsert(ctx, key)
			if err != nil {
				return storeError(err, "failed to create edge", "edge", key.Target.ID)
			}
			result.Active = true
			result.Edge = edge

			if opposite, ok := key.Predicate.Opposite(); ok && s.opts.ExclusiveReactions {
				oppositeKey := key
				oppositeKey.Predicate = opposite
				if _, err := s.edges.Delete(ctx, oppositeKey); err != nil {
					return storeError(err, "failed to delete opposite reaction", "edge", key.Target.ID)
				}
			}
		}

		if key.Target.Kind == dbmodels.TargetTweet {
			return nil
		}

		count, err := s.edges.Count(ctx, key.Predicate, key.Target)
		if err != nil {
			return storeError(err, "failed to count edges", "edge", key.Target.ID)
		}
		active, err := s.edges.Exists(ctx, key)
		if err != nil {
			return storeError(err, "failed to check edge", "edge", key.Target.ID)
		}
		result.Count = &count
		result.Active = active
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.RecordToggle(string(key.Predicate), string(key.Target.Kind), result.Active)

	logger.Log.Debug("Edge toggled",
		zap.String("subjectId", key.SubjectID.String()),
		zap.String("predicate", string(key.Predicate)),
		zap.String("targetKind", string(key.Target.Kind)),
		zap.String("targetId", key.Target.ID.String()),
		zap.Bool("active", result.Active),
	)

	s.publish(ctx, key, result.Active)

	return result, nil
}

// Status reports the subject's edge and the target's count without changing
// anything.
func (s *ToggleService) Status(ctx context.Context, req ToggleRequest) (*models.ToggleResult, error) {
	key, err := s.parseKey(req)
	if err != nil {
		return nil, err
	}

	if err := s.checkTarget(ctx, key); err != nil {
		return nil, err
	}

	count, err := s.edges.Count(ctx, key.Predicate, key.Target)
	if err != nil {
		return nil, storeError(err, "failed to count edges", "edge", key.Target.ID)
	}
	active, err := s.edges.Exists(ctx, key)
	if err != nil {
		return nil, storeError(err, "failed to check edge", "edge", key.Target.ID)
	}

	return &models.ToggleResult{
		Predicate: key.Predicate,
		Target:    key.Target,
		Active:    active,
		Count:     &count,
	}, nil
}

// ClearReactions removes every edge of the predicate the subject holds on
// videos and returns how many were removed.
func (s *ToggleService) ClearReactions(ctx context.Context, subjectID string, predicate dbmodels.Predicate) (int64, error) {
	subject, err := requireViewer(subjectID)
	if err != nil {
		return 0, err
	}
	if predicate != dbmodels.PredicateLike && predicate != dbmodels.PredicateDislike {
		return 0, invalid("cannot clear %s edges", predicate)
	}

	removed, err := s.edges.DeleteBySubject(ctx, subject, predicate, dbmodels.TargetVideo)
	if err != nil {
		return 0, storeError(err, "failed to clear reactions", "edge", subject)
	}

	logger.Log.Info("Reactions cleared",
		zap.String("subjectId", subject.String()),
		zap.String("predicate", string(predicate)),
		zap.Int64("removed", removed),
	)
	return removed, nil
}

func (s *ToggleService) parseKey(req ToggleRequest) (dbmodels.EdgeKey, error) {
	subject, err := requireViewer(req.SubjectID)
	if err != nil {
		return dbmodels.EdgeKey{}, err
	}

	predicate, ok := dbmodels.ParsePredicate(req.Predicate)
	if !ok {
		return dbmodels.EdgeKey{}, invalid("invalid predicate: %q", req.Predicate)
	}
	kind, ok := dbmodels.ParseTargetKind(req.TargetKind)
	if !ok {
		return dbmodels.EdgeKey{}, invalid("invalid target kind: %q", req.TargetKind)
	}
	if !predicate.Accepts(kind) {
		return dbmodels.EdgeKey{}, invalid("%s cannot target %s", predicate, kind)
	}

	targetID, err := s.validator.ParseID(targetIDField(kind), req.TargetID)
	if err != nil {
		return dbmodels.EdgeKey{}, &ValidationError{Message: err.Error()}
	}
	if predicate == dbmodels.PredicateSubscribe && targetID == subject {
		return dbmodels.EdgeKey{}, invalid("cannot subscribe to your own channel")
	}

	return dbmodels.EdgeKey{
		SubjectID: subject,
		Predicate: predicate,
		Target:    dbmodels.Target{Kind: kind, ID: targetID},
	}, nil
}

func (s *ToggleService) publish(ctx context.Context, key dbmodels.EdgeKey, active bool) {
	if s.publisher == nil {
		return
	}

	event := &models.EdgeEvent{
		ID:         uuid.New(),
		SubjectID:  key.SubjectID,
		Predicate:  key.Predicate,
		TargetKind: key.Target.Kind,
		TargetID:   key.Target.ID,
		Active:     active,
		OccurredAt: time.Now(),
	}

	if err := s.publisher.PublishEdgeToggled(ctx, event); err != nil {
		metrics.RecordPublishFailure()
		logger.Log.Error("Failed to publish edge event",
			zap.Error(err),
			zap.String("eventId", event.ID.String()),
		)
	}
}

// checkTarget answers NotFound when the target is missing or hidden from the
// subject. Comments take the visibility of their video.
func (s *ToggleService) checkTarget(ctx context.Context, key dbmodels.EdgeKey) error {
	resource := targetResource(key.Target.Kind)

	videoID := key.Target.ID
	switch key.Target.Kind {
	case dbmodels.TargetComment:
		comment, err := s.comments.GetByID(ctx, key.Target.ID)
		if err != nil {
			return storeError(err, "failed to load comment", resource, key.Target.ID)
		}
		videoID = comment.VideoID
		fallthrough
	case dbmodels.TargetVideo:
		video, err := s.videos.GetByID(ctx, videoID)
		if err != nil {
			return storeError(err, "failed to load video", resource, key.Target.ID)
		}
		if !video.VisibleTo(key.SubjectID) {
			return notFound(resource, key.Target.ID)
		}
		return nil
	}

	exists, err := s.edges.TargetExists(ctx, key.Target)
	if err != nil {
		return storeError(err, "failed to check target", resource, key.Target.ID)
	}
	if !exists {
		return notFound(resource, key.Target.ID)
	}
	return nil
}

func targetResource(kind dbmodels.TargetKind) string {
	switch kind {
	case dbmodels.TargetVideo:
		return "video"
	case dbmodels.TargetComment:
		return "comment"
	case dbmodels.TargetTweet:
		return "tweet"
	case dbmodels.TargetChannel:
		return "channel"
	}
	return "target"
}

func targetIDField(kind dbmodels.TargetKind) string {
	return targetResource(kind) + "Id"
}
