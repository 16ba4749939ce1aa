package service

import (
	"context"

	"github.com/google/uuid"

	dbmodels "github.com/videotube/videotube-api/internal/db/models"
	"github.com/videotube/videotube-api/internal/db/repository"
	"github.com/videotube/videotube-api/internal/models"
	"github.com/videotube/videotube-api/internal/validation"
)

// TweetService creates and deletes tweets.
type TweetService struct {
	tweets    repository.TweetRepository
	edges     repository.EdgeRepository
	tx        Transactor
	validator *validation.Validator
}

// NewTweetService creates a new TweetService.
func NewTweetService(tweets repository.TweetRepository, edges repository.EdgeRepository, tx Transactor, validator *validation.Validator) *TweetService {
	return &TweetService{
		tweets:    tweets,
		edges:     edges,
		tx:        tx,
		validator: validator,
	}
}

// Create posts a tweet on the viewer's channel.
func (s *TweetService) Create(ctx context.Context, viewerID string, req *models.TweetRequest) (*models.TweetView, error) {
	viewer, err := requireViewer(viewerID)
	if err != nil {
		return nil, err
	}
	content, err := s.validator.Content("content", req.Content)
	if err != nil {
		return nil, &ValidationError{Message: err.Error()}
	}

	tweet := dbmodels.NewTweet(viewer, content)
	if err := s.tweets.Create(ctx, tweet); err != nil {
		return nil, storeError(err, "failed to create tweet", "tweet", tweet.ID)
	}
	return models.NewTweetView(tweet), nil
}

// Delete removes a tweet and the reactions on it. Only its author may delete it.
func (s *TweetService) Delete(ctx context.Context, viewerID, tweetID string) error {
	viewer, err := requireViewer(viewerID)
	if err != nil {
		return err
	}
	id, err := s.validator.ParseID("tweetId", tweetID)
	if err != nil {
		return &ValidationError{Message: err.Error()}
	}

	tweet, err := s.tweets.GetByID(ctx, id)
	if err != nil {
		return storeError(err, "failed to get tweet", "tweet", id)
	}
	if tweet.OwnerID != viewer {
		return forbidden("delete this tweet")
	}

	return s.tx.RunInTx(ctx, func(ctx context.Context) error {
		if _, err := s.edges.DeleteByTargets(ctx, dbmodels.TargetTweet, []uuid.UUID{id}); err != nil {
			return storeError(err, "failed to delete tweet edges", "tweet", id)
		}
		if err := s.tweets.Delete(ctx, id); err != nil {
			return storeError(err, "failed to delete tweet", "tweet", id)
		}
		return nil
	})
}
