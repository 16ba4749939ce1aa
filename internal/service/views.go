package service

import (
	"context"
	"strings"

	"github.com/google/uuid"

	dbmodels "github.com/videotube/videotube-api/internal/db/models"
	"github.com/videotube/videotube-api/internal/db/repository"
	"github.com/videotube/videotube-api/internal/models"
	"github.com/videotube/videotube-api/internal/pagination"
	"github.com/videotube/videotube-api/internal/validation"
)

// ViewService builds the viewer-relative read models. Every flag is computed
// for the viewer passed in and nothing is cached across calls.
type ViewService struct {
	edges     repository.EdgeRepository
	users     repository.UserRepository
	videos    repository.VideoRepository
	comments  repository.CommentRepository
	history   repository.HistoryRepository
	validator *validation.Validator
	policy    pagination.Policy
}

// NewViewService creates a new ViewService.
func NewViewService(
	edges repository.EdgeRepository,
	users repository.UserRepository,
	videos repository.VideoRepository,
	comments repository.CommentRepository,
	history repository.HistoryRepository,
	validator *validation.Validator,
	policy pagination.Policy,
) *ViewService {
	return &ViewService{
		edges:     edges,
		users:     users,
		videos:    videos,
		comments:  comments,
		history:   history,
		validator: validator,
		policy:    policy,
	}
}

// VideoDetail returns a video with its owner's profile, reaction counts and
// the viewer's flags. Private videos are only visible to their owner.
func (s *ViewService) VideoDetail(ctx context.Context, videoID, viewerID string) (*models.VideoView, error) {
	id, err := s.parseID("videoId", videoID)
	if err != nil {
		return nil, err
	}
	viewer, err := optionalViewer(viewerID)
	if err != nil {
		return nil, err
	}

	video, err := s.videos.GetWithOwner(ctx, id)
	if err != nil {
		return nil, storeError(err, "failed to get video", "video", id)
	}
	if !video.VisibleTo(viewer) {
		return nil, notFound("video", id)
	}

	target := dbmodels.Target{Kind: dbmodels.TargetVideo, ID: id}
	likes, err := s.edges.Count(ctx, dbmodels.PredicateLike, target)
	if err != nil {
		return nil, storeError(err, "failed to count likes", "video", id)
	}
	dislikes, err := s.edges.Count(ctx, dbmodels.PredicateDislike, target)
	if err != nil {
		return nil, storeError(err, "failed to count dislikes", "video", id)
	}

	channel := dbmodels.Target{Kind: dbmodels.TargetChannel, ID: video.OwnerID}
	subscribers, err := s.edges.Count(ctx, dbmodels.PredicateSubscribe, channel)
	if err != nil {
		return nil, storeError(err, "failed to count subscribers", "channel", video.OwnerID)
	}

	view := &models.VideoView{
		ID:          video.ID,
		VideoFile:   video.VideoFileURL,
		Thumbnail:   video.ThumbnailURL,
		Title:       video.Title,
		Description: video.Description,
		Duration:    video.Duration,
		Views:       video.Views,
		Visibility:  string(video.Visibility),
		Category:    video.Category,
		Tags:        video.Tags,
		CreatedAt:   video.CreatedAt,
		UpdatedAt:   video.UpdatedAt,
		Owner: models.OwnerProfile{
			OwnerSummary:     models.NewOwnerSummary(video.Owner),
			SubscribersCount: subscribers,
		},
		Likes:    likes,
		Dislikes: dislikes,
	}
	if view.Tags == nil {
		view.Tags = []string{}
	}

	if viewer == uuid.Nil {
		return view, nil
	}

	if view.IsLiked, err = s.has(ctx, viewer, dbmodels.PredicateLike, target); err != nil {
		return nil, err
	}
	if view.IsDisliked, err = s.has(ctx, viewer, dbmodels.PredicateDislike, target); err != nil {
		return nil, err
	}
	if view.Owner.IsSubscribed, err = s.has(ctx, viewer, dbmodels.PredicateSubscribe, channel); err != nil {
		return nil, err
	}

	return view, nil
}

// CommentsForVideo returns a page of a video's comments, flat, with parent
// linkage, reaction counts and the viewer's flags.
func (s *ViewService) CommentsForVideo(ctx context.Context, videoID string, q PageQuery, viewerID string) ([]*models.CommentView, *models.PageMeta, error) {
	id, err := s.parseID("videoId", videoID)
	if err != nil {
		return nil, nil, err
	}
	viewer, err := optionalViewer(viewerID)
	if err != nil {
		return nil, nil, err
	}

	video, err := s.videos.GetByID(ctx, id)
	if err != nil {
		return nil, nil, storeError(err, "failed to get video", "video", id)
	}
	if !video.VisibleTo(viewer) {
		return nil, nil, notFound("video", id)
	}

	window := s.policy.Paginate(q.Page, q.Limit, q.Sort)
	rows, total, err := s.comments.ListByVideo(ctx, id, window.Limit, window.Skip, window.OrderDir())
	if err != nil {
		return nil, nil, storeError(err, "failed to list comments", "video", id)
	}

	ids := make([]uuid.UUID, len(rows))
	for i, c := range rows {
		ids[i] = c.ID
	}

	reactions, err := s.reactions(ctx, viewer, dbmodels.TargetComment, ids)
	if err != nil {
		return nil, nil, err
	}

	views := make([]*models.CommentView, 0, len(rows))
	for _, c := range rows {
		view := &models.CommentView{
			ID:         c.ID,
			Content:    c.Content,
			VideoID:    c.VideoID,
			CreatedAt:  c.CreatedAt,
			UpdatedAt:  c.UpdatedAt,
			Owner:      models.NewOwnerSummary(c.Owner),
			Likes:      reactions.likes[c.ID],
			Dislikes:   reactions.dislikes[c.ID],
			IsLiked:    reactions.liked[c.ID],
			IsDisliked: reactions.disliked[c.ID],
		}
		if c.ParentCommentID.Valid {
			parent := c.ParentCommentID.UUID
			view.ParentCommentID = &parent
		}
		views = append(views, view)
	}

	return views, pageMeta(window, total), nil
}

// ChannelProfile returns a channel by username, ignoring case.
func (s *ViewService) ChannelProfile(ctx context.Context, username, viewerID string) (*models.ChannelView, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, invalid("username is required")
	}
	if !s.validator.IsValidUsername(username) {
		return nil, invalid("invalid username: %s", username)
	}
	viewer, err := optionalViewer(viewerID)
	if err != nil {
		return nil, err
	}

	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return nil, storeError(err, "failed to get channel", "channel", stringID(username))
	}

	channel := dbmodels.Target{Kind: dbmodels.TargetChannel, ID: user.ID}
	subscribers, err := s.edges.Count(ctx, dbmodels.PredicateSubscribe, channel)
	if err != nil {
		return nil, storeError(err, "failed to count subscribers", "channel", user.ID)
	}
	subscribedTo, err := s.edges.CountBySubject(ctx, user.ID, dbmodels.PredicateSubscribe, dbmodels.TargetChannel)
	if err != nil {
		return nil, storeError(err, "failed to count subscriptions", "channel", user.ID)
	}

	view := &models.ChannelView{
		ID:                        user.ID,
		Username:                  user.Username,
		FullName:                  user.DisplayName,
		Avatar:                    user.AvatarURL,
		CoverImage:                user.BannerURL,
		Description:               user.Description,
		CreatedAt:                 user.CreatedAt,
		SubscribersCount:          subscribers,
		ChannelsSubscribedToCount: subscribedTo,
	}

	if viewer != uuid.Nil {
		if view.IsSubscribed, err = s.has(ctx, viewer, dbmodels.PredicateSubscribe, channel); err != nil {
			return nil, err
		}
	}

	return view, nil
}

// SubscribedChannels lists the channels a user subscribes to, each with its
// own subscriber count.
func (s *ViewService) SubscribedChannels(ctx context.Context, subscriberID string) ([]*models.ChannelSummary, error) {
	id, err := s.parseID("subscriberId", subscriberID)
	if err != nil {
		return nil, err
	}

	users, err := s.users.ListSubscribedChannels(ctx, id)
	if err != nil {
		return nil, storeError(err, "failed to list subscribed channels", "user", id)
	}
	return s.channelSummaries(ctx, users)
}

// ChannelSubscribers lists the users subscribed to a channel, each with their
// own subscriber count.
func (s *ViewService) ChannelSubscribers(ctx context.Context, channelID string) ([]*models.ChannelSummary, error) {
	id, err := s.parseID("channelId", channelID)
	if err != nil {
		return nil, err
	}

	users, err := s.users.ListSubscribers(ctx, id)
	if err != nil {
		return nil, storeError(err, "failed to list subscribers", "channel", id)
	}
	return s.channelSummaries(ctx, users)
}

// WatchHistory returns the viewer's watched videos, most recent first. Videos
// deleted since are left out.
func (s *ViewService) WatchHistory(ctx context.Context, viewerID string) ([]*models.VideoSummary, error) {
	viewer, err := requireViewer(viewerID)
	if err != nil {
		return nil, err
	}

	entries, err := s.history.List(ctx, viewer)
	if err != nil {
		return nil, storeError(err, "failed to list watch history", "user", viewer)
	}

	summaries := make([]*models.VideoSummary, 0, len(entries))
	for _, e := range entries {
		summary := models.NewVideoSummary(&e.VideoWithOwner)
		watchedAt := e.WatchedAt
		summary.WatchedAt = &watchedAt
		summaries = append(summaries, summary)
	}
	return summaries, nil
}

// LikedVideos returns the videos the viewer likes, most recent like first.
func (s *ViewService) LikedVideos(ctx context.Context, viewerID string) ([]*models.VideoSummary, error) {
	return s.videosWithEdge(ctx, viewerID, dbmodels.PredicateLike)
}

// DislikedVideos returns the videos the viewer dislikes.
func (s *ViewService) DislikedVideos(ctx context.Context, viewerID string) ([]*models.VideoSummary, error) {
	return s.videosWithEdge(ctx, viewerID, dbmodels.PredicateDislike)
}

// VideoListQuery filters the public video listing.
type VideoListQuery struct {
	PageQuery
	OwnerID string
	Query   string
}

// ListVideos returns a page of public videos. When the viewer lists their own
// channel, private and unlisted uploads are included.
func (s *ViewService) ListVideos(ctx context.Context, q VideoListQuery, viewerID string) ([]*models.VideoSummary, *models.PageMeta, error) {
	owner, err := s.validator.ParseOptionalID("ownerId", q.OwnerID)
	if err != nil {
		return nil, nil, &ValidationError{Message: err.Error()}
	}
	viewer, err := optionalViewer(viewerID)
	if err != nil {
		return nil, nil, err
	}

	window := s.policy.Paginate(q.Page, q.Limit, q.Sort)
	filters := &repository.VideoFilters{
		Query:    strings.TrimSpace(q.Query),
		Limit:    window.Limit,
		Offset:   window.Skip,
		OrderDir: window.OrderDir(),
	}
	if owner != uuid.Nil {
		filters.OwnerID = &owner
		filters.IncludeNonPublic = viewer == owner
	}

	rows, total, err := s.videos.List(ctx, filters)
	if err != nil {
		return nil, nil, storeError(err, "failed to list videos", "video", owner)
	}

	return summarize(rows), pageMeta(window, total), nil
}

// SubscriptionFeed returns public videos from the channels the viewer
// subscribes to. The total uses the same filter as the page.
func (s *ViewService) SubscriptionFeed(ctx context.Context, viewerID string, q PageQuery) ([]*models.VideoSummary, *models.PageMeta, error) {
	viewer, err := requireViewer(viewerID)
	if err != nil {
		return nil, nil, err
	}

	window := s.policy.Paginate(q.Page, q.Limit, q.Sort)
	rows, total, err := s.videos.ListSubscriptionFeed(ctx, viewer, window.Limit, window.Skip, window.OrderDir())
	if err != nil {
		return nil, nil, storeError(err, "failed to list subscription feed", "user", viewer)
	}

	return summarize(rows), pageMeta(window, total), nil
}

func (s *ViewService) videosWithEdge(ctx context.Context, viewerID string, predicate dbmodels.Predicate) ([]*models.VideoSummary, error) {
	viewer, err := requireViewer(viewerID)
	if err != nil {
		return nil, err
	}

	rows, err := s.videos.ListBySubjectEdge(ctx, viewer, predicate)
	if err != nil {
		return nil, storeError(err, "failed to list videos", "user", viewer)
	}
	return summarize(rows), nil
}

func (s *ViewService) channelSummaries(ctx context.Context, users []*dbmodels.User) ([]*models.ChannelSummary, error) {
	ids := make([]uuid.UUID, len(users))
	for i, u := range users {
		ids[i] = u.ID
	}

	counts, err := s.edges.CountBatch(ctx, dbmodels.PredicateSubscribe, dbmodels.TargetChannel, ids)
	if err != nil {
		return nil, storeError(err, "failed to count subscribers", "channel", uuid.Nil)
	}

	summaries := make([]*models.ChannelSummary, 0, len(users))
	for _, u := range users {
		summaries = append(summaries, &models.ChannelSummary{
			OwnerSummary: models.OwnerSummary{
				ID:       u.ID,
				Username: u.Username,
				FullName: u.DisplayName,
				Avatar:   u.AvatarURL,
			},
			SubscribersCount: counts[u.ID],
		})
	}
	return summaries, nil
}

type reactionSet struct {
	likes, dislikes map[uuid.UUID]int
	liked, disliked map[uuid.UUID]bool
}

// reactions batch-fetches like and dislike counts and the viewer's flags.
func (s *ViewService) reactions(ctx context.Context, viewer uuid.UUID, kind dbmodels.TargetKind, ids []uuid.UUID) (*reactionSet, error) {
	var (
		set reactionSet
		err error
	)
	if set.likes, err = s.edges.CountBatch(ctx, dbmodels.PredicateLike, kind, ids); err != nil {
		return nil, storeError(err, "failed to count likes", targetResource(kind), uuid.Nil)
	}
	if set.dislikes, err = s.edges.CountBatch(ctx, dbmodels.PredicateDislike, kind, ids); err != nil {
		return nil, storeError(err, "failed to count dislikes", targetResource(kind), uuid.Nil)
	}
	if set.liked, err = s.edges.SubjectHasBatch(ctx, viewer, dbmodels.PredicateLike, kind, ids); err != nil {
		return nil, storeError(err, "failed to load likes", targetResource(kind), uuid.Nil)
	}
	if set.disliked, err = s.edges.SubjectHasBatch(ctx, viewer, dbmodels.PredicateDislike, kind, ids); err != nil {
		return nil, storeError(err, "failed to load dislikes", targetResource(kind), uuid.Nil)
	}
	return &set, nil
}

func (s *ViewService) has(ctx context.Context, viewer uuid.UUID, predicate dbmodels.Predicate, target dbmodels.Target) (bool, error) {
	ok, err := s.edges.Exists(ctx, dbmodels.EdgeKey{SubjectID: viewer, Predicate: predicate, Target: target})
	if err != nil {
		return false, storeError(err, "failed to check edge", targetResource(target.Kind), target.ID)
	}
	return ok, nil
}

func (s *ViewService) parseID(field, raw string) (uuid.UUID, error) {
	id, err := s.validator.ParseID(field, raw)
	if err != nil {
		return uuid.Nil, &ValidationError{Message: err.Error()}
	}
	return id, nil
}

func summarize(rows []*dbmodels.VideoWithOwner) []*models.VideoSummary {
	summaries := make([]*models.VideoSummary, 0, len(rows))
	for _, v := range rows {
		summaries = append(summaries, models.NewVideoSummary(v))
	}
	return summaries
}

func pageMeta(window pagination.Window, total int) *models.PageMeta {
	return &models.PageMeta{
		Total:      total,
		Page:       window.Page,
		Limit:      window.Limit,
		TotalPages: window.TotalPages(total),
	}
}

// stringID lets a plain string name an entity in a NotFoundError.
type stringID string

func (s stringID) String() string { return string(s) }
