package handler

import (
	"context"

	"github.com/stretchr/testify/mock"

	dbmodels "github.com/videotube/videotube-api/internal/db/models"
	"github.com/videotube/videotube-api/internal/models"
	"github.com/videotube/videotube-api/internal/service"
)

// MockToggler is a mock implementation of Toggler.
type MockToggler struct {
	mock.Mock
}

func (m *MockToggler) Toggle(ctx context.Context, req service.ToggleRequest) (*models.ToggleResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ToggleResult), args.Error(1)
}

func (m *MockToggler) Status(ctx context.Context, req service.ToggleRequest) (*models.ToggleResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ToggleResult), args.Error(1)
}

func (m *MockToggler) ClearReactions(ctx context.Context, subjectID string, predicate dbmodels.Predicate) (int64, error) {
	args := m.Called(ctx, subjectID, predicate)
	return args.Get(0).(int64), args.Error(1)
}

// MockViewReader is a mock implementation of ViewReader.
type MockViewReader struct {
	mock.Mock
}

func (m *MockViewReader) VideoDetail(ctx context.Context, videoID, viewerID string) (*models.VideoView, error) {
	args := m.Called(ctx, videoID, viewerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.VideoView), args.Error(1)
}

func (m *MockViewReader) CommentsForVideo(ctx context.Context, videoID string, q service.PageQuery, viewerID string) ([]*models.CommentView, *models.PageMeta, error) {
	args := m.Called(ctx, videoID, q, viewerID)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).([]*models.CommentView), args.Get(1).(*models.PageMeta), args.Error(2)
}

func (m *MockViewReader) ChannelProfile(ctx context.Context, username, viewerID string) (*models.ChannelView, error) {
	args := m.Called(ctx, username, viewerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ChannelView), args.Error(1)
}

func (m *MockViewReader) SubscribedChannels(ctx context.Context, subscriberID string) ([]*models.ChannelSummary, error) {
	args := m.Called(ctx, subscriberID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.ChannelSummary), args.Error(1)
}

func (m *MockViewReader) ChannelSubscribers(ctx context.Context, channelID string) ([]*models.ChannelSummary, error) {
	args := m.Called(ctx, channelID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.ChannelSummary), args.Error(1)
}

func (m *MockViewReader) WatchHistory(ctx context.Context, viewerID string) ([]*models.VideoSummary, error) {
	return m.videoList(m.Called(ctx, viewerID))
}

func (m *MockViewReader) LikedVideos(ctx context.Context, viewerID string) ([]*models.VideoSummary, error) {
	return m.videoList(m.Called(ctx, viewerID))
}

func (m *MockViewReader) DislikedVideos(ctx context.Context, viewerID string) ([]*models.VideoSummary, error) {
	return m.videoList(m.Called(ctx, viewerID))
}

func (m *MockViewReader) ListVideos(ctx context.Context, q service.VideoListQuery, viewerID string) ([]*models.VideoSummary, *models.PageMeta, error) {
	return m.videoPage(m.Called(ctx, q, viewerID))
}

func (m *MockViewReader) SubscriptionFeed(ctx context.Context, viewerID string, q service.PageQuery) ([]*models.VideoSummary, *models.PageMeta, error) {
	return m.videoPage(m.Called(ctx, viewerID, q))
}

func (m *MockViewReader) videoList(args mock.Arguments) ([]*models.VideoSummary, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.VideoSummary), args.Error(1)
}

func (m *MockViewReader) videoPage(args mock.Arguments) ([]*models.VideoSummary, *models.PageMeta, error) {
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).([]*models.VideoSummary), args.Get(1).(*models.PageMeta), args.Error(2)
}

// MockVideoWriter is a mock implementation of VideoWriter.
type MockVideoWriter struct {
	mock.Mock
}

func (m *MockVideoWriter) Publish(ctx context.Context, ownerID string, req *models.CreateVideoRequest) (*models.VideoSummary, error) {
	args := m.Called(ctx, ownerID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.VideoSummary), args.Error(1)
}

func (m *MockVideoWriter) Update(ctx context.Context, viewerID, videoID string, req *models.UpdateVideoRequest) (*models.VideoSummary, error) {
	args := m.Called(ctx, viewerID, videoID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.VideoSummary), args.Error(1)
}

func (m *MockVideoWriter) SetVisibility(ctx context.Context, viewerID, videoID, visibility string) (*models.VideoSummary, error) {
	args := m.Called(ctx, viewerID, videoID, visibility)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.VideoSummary), args.Error(1)
}

func (m *MockVideoWriter) Delete(ctx context.Context, viewerID, videoID string) error {
	return m.Called(ctx, viewerID, videoID).Error(0)
}

func (m *MockVideoWriter) RecordView(ctx context.Context, viewerID, videoID string) (int64, error) {
	args := m.Called(ctx, viewerID, videoID)
	return args.Get(0).(int64), args.Error(1)
}

// MockCommentWriter is a mock implementation of CommentWriter.
type MockCommentWriter struct {
	mock.Mock
}

func (m *MockCommentWriter) Add(ctx context.Context, viewerID, videoID string, req *models.CommentRequest) (*models.CommentView, error) {
	args := m.Called(ctx, viewerID, videoID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.CommentView), args.Error(1)
}

func (m *MockCommentWriter) Update(ctx context.Context, viewerID, commentID string, req *models.UpdateCommentRequest) (*models.CommentView, error) {
	args := m.Called(ctx, viewerID, commentID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.CommentView), args.Error(1)
}

func (m *MockCommentWriter) Delete(ctx context.Context, viewerID, commentID string) error {
	return m.Called(ctx, viewerID, commentID).Error(0)
}

// MockTweetWriter is a mock implementation of TweetWriter.
type MockTweetWriter struct {
	mock.Mock
}

func (m *MockTweetWriter) Create(ctx context.Context, viewerID string, req *models.TweetRequest) (*models.TweetView, error) {
	args := m.Called(ctx, viewerID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.TweetView), args.Error(1)
}

func (m *MockTweetWriter) Delete(ctx context.Context, viewerID, tweetID string) error {
	return m.Called(ctx, viewerID, tweetID).Error(0)
}

// MockPlaylistManager is a mock implementation of PlaylistManager.
type MockPlaylistManager struct {
	mock.Mock
}

func (m *MockPlaylistManager) Create(ctx context.Context, viewerID string, req *models.PlaylistRequest) (*models.PlaylistView, error) {
	return m.playlist(m.Called(ctx, viewerID, req))
}

func (m *MockPlaylistManager) Get(ctx context.Context, playlistID, viewerID string) (*models.PlaylistView, error) {
	return m.playlist(m.Called(ctx, playlistID, viewerID))
}

func (m *MockPlaylistManager) ListByOwner(ctx context.Context, userID string) ([]*models.PlaylistView, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.PlaylistView), args.Error(1)
}

func (m *MockPlaylistManager) Update(ctx context.Context, viewerID, playlistID string, req *models.UpdatePlaylistRequest) (*models.PlaylistView, error) {
	return m.playlist(m.Called(ctx, viewerID, playlistID, req))
}

func (m *MockPlaylistManager) Delete(ctx context.Context, viewerID, playlistID string) error {
	return m.Called(ctx, viewerID, playlistID).Error(0)
}

func (m *MockPlaylistManager) AddVideo(ctx context.Context, viewerID string, req *models.PlaylistVideosRequest) (int64, error) {
	args := m.Called(ctx, viewerID, req)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockPlaylistManager) RemoveVideo(ctx context.Context, viewerID string, req *models.PlaylistVideosRequest) (int64, error) {
	args := m.Called(ctx, viewerID, req)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockPlaylistManager) playlist(args mock.Arguments) (*models.PlaylistView, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PlaylistView), args.Error(1)
}

// MockUserReader is a mock implementation of UserReader.
type MockUserReader struct {
	mock.Mock
}

func (m *MockUserReader) GetByID(ctx context.Context, userID string) (*models.UserView, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.UserView), args.Error(1)
}

func (m *MockUserReader) Me(ctx context.Context, viewerID string) (*models.UserView, error) {
	args := m.Called(ctx, viewerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.UserView), args.Error(1)
}

func (m *MockUserReader) UpdateAccount(ctx context.Context, viewerID string, req *models.UpdateAccountRequest) (*models.UserView, error) {
	args := m.Called(ctx, viewerID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.UserView), args.Error(1)
}

func (m *MockUserReader) RemoveFromHistory(ctx context.Context, viewerID, videoID string) (int64, error) {
	args := m.Called(ctx, viewerID, videoID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockUserReader) ClearHistory(ctx context.Context, viewerID string) (int64, error) {
	args := m.Called(ctx, viewerID)
	return args.Get(0).(int64), args.Error(1)
}

// MockPinger is a mock implementation of Pinger.
type MockPinger struct {
	mock.Mock
}

func (m *MockPinger) Ping(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

type staticBroker bool

func (b staticBroker) IsHealthy() bool { return bool(b) }
