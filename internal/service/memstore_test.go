package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/videotube/videotube-api/internal/db"
	dbmodels "github.com/videotube/videotube-api/internal/db/models"
	"github.com/videotube/videotube-api/internal/db/repository"
)

// memStore is an in-memory stand-in for the Postgres repositories. Each
// accessor returns a view implementing one repository interface.
type memStore struct {
	mu        sync.Mutex
	clock     time.Time
	users     map[uuid.UUID]*dbmodels.User
	videos    map[uuid.UUID]*dbmodels.Video
	comments  map[uuid.UUID]*dbmodels.Comment
	tweets    map[uuid.UUID]*dbmodels.Tweet
	playlists map[uuid.UUID]*dbmodels.Playlist
	entries   map[uuid.UUID][]uuid.UUID // playlist -> videos in order
	edges     map[dbmodels.EdgeKey]*dbmodels.Edge
	history   []historyRow

	failUpsert error
	failCount  error
}

type historyRow struct {
	id      int
	user    uuid.UUID
	video   uuid.UUID
	watched time.Time
}

func newMemStore() *memStore {
	return &memStore{
		clock:     time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		users:     map[uuid.UUID]*dbmodels.User{},
		videos:    map[uuid.UUID]*dbmodels.Video{},
		comments:  map[uuid.UUID]*dbmodels.Comment{},
		tweets:    map[uuid.UUID]*dbmodels.Tweet{},
		playlists: map[uuid.UUID]*dbmodels.Playlist{},
		entries:   map[uuid.UUID][]uuid.UUID{},
		edges:     map[dbmodels.EdgeKey]*dbmodels.Edge{},
	}
}

// tick returns a strictly increasing timestamp.
func (m *memStore) tick() time.Time {
	m.clock = m.clock.Add(time.Second)
	return m.clock
}

func notFoundErr(op string) error {
	return db.WrapError(pgx.ErrNoRows, op)
}

func (m *memStore) addUser(username string) *dbmodels.User {
	m.mu.Lock()
	defer m.mu.Unlock()
	u := dbmodels.NewUser(username, username+"@example.com", strings.ToUpper(username[:1])+username[1:])
	u.CreatedAt = m.tick()
	m.users[u.ID] = u
	return u
}

func (m *memStore) addVideo(owner *dbmodels.User, title string) *dbmodels.Video {
	m.mu.Lock()
	defer m.mu.Unlock()
	v := dbmodels.NewVideo(owner.ID, title, "about "+title, "https://cdn/"+title+".mp4", "https://cdn/"+title+".jpg", 10)
	v.CreatedAt = m.tick()
	m.videos[v.ID] = v
	return v
}

func (m *memStore) addComment(video *dbmodels.Video, owner *dbmodels.User, content string) *dbmodels.Comment {
	m.mu.Lock()
	defer m.mu.Unlock()
	c := dbmodels.NewComment(video.ID, owner.ID, content)
	c.CreatedAt = m.tick()
	m.comments[c.ID] = c
	return c
}

func (m *memStore) addTweet(owner *dbmodels.User, content string) *dbmodels.Tweet {
	m.mu.Lock()
	defer m.mu.Unlock()
	t := dbmodels.NewTweet(owner.ID, content)
	m.tweets[t.ID] = t
	return t
}

func (m *memStore) edgeCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.edges)
}

func (m *memStore) summary(id uuid.UUID) dbmodels.UserSummary {
	u := m.users[id]
	if u == nil {
		return dbmodels.UserSummary{ID: id}
	}
	return dbmodels.UserSummary{ID: u.ID, Username: u.Username, DisplayName: u.DisplayName, AvatarURL: u.AvatarURL}
}

func (m *memStore) withOwner(v *dbmodels.Video) *dbmodels.VideoWithOwner {
	return &dbmodels.VideoWithOwner{Video: *v, Owner: m.summary(v.OwnerID)}
}

// Transactor that snapshots the edges and content maps and restores them when
// fn fails.
func (m *memStore) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	m.mu.Lock()
	edges := make(map[dbmodels.EdgeKey]*dbmodels.Edge, len(m.edges))
	for k, v := range m.edges {
		edges[k] = v
	}
	videos := make(map[uuid.UUID]*dbmodels.Video, len(m.videos))
	for k, v := range m.videos {
		videos[k] = v
	}
	comments := make(map[uuid.UUID]*dbmodels.Comment, len(m.comments))
	for k, v := range m.comments {
		comments[k] = v
	}
	m.mu.Unlock()

	if err := fn(ctx); err != nil {
		m.mu.Lock()
		m.edges, m.videos, m.comments = edges, videos, comments
		m.mu.Unlock()
		return err
	}
	return nil
}

// ---- edges

type memEdges struct{ *memStore }

var _ repository.EdgeRepository = memEdges{}

func (m memEdges) Upsert(_ context.Context, key dbmodels.EdgeKey) (*dbmodels.Edge, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failUpsert != nil {
		return nil, false, m.failUpsert
	}
	if e, ok := m.edges[key]; ok {
		return e, false, nil
	}
	if _, ok := m.users[key.SubjectID]; !ok {
		return nil, false, fmt.Errorf("upsert edge: %w", db.ErrForeignKeyViolation)
	}
	e := dbmodels.NewEdge(key)
	e.CreatedAt = m.tick()
	m.edges[key] = e
	return e, true, nil
}

func (m memEdges) Delete(_ context.Context, key dbmodels.EdgeKey) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.edges[key]
	delete(m.edges, key)
	return ok, nil
}

func (m memEdges) List(_ context.Context, predicate dbmodels.Predicate, target dbmodels.Target) ([]*dbmodels.Edge, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*dbmodels.Edge
	for k, e := range m.edges {
		if k.Predicate == predicate && k.Target == target {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (m memEdges) Count(ctx context.Context, predicate dbmodels.Predicate, target dbmodels.Target) (int, error) {
	if m.failCount != nil {
		return 0, m.failCount
	}
	edges, err := m.List(ctx, predicate, target)
	return len(edges), err
}

func (m memEdges) Exists(_ context.Context, key dbmodels.EdgeKey) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.edges[key]
	return ok, nil
}

func (m memEdges) CountBatch(ctx context.Context, predicate dbmodels.Predicate, kind dbmodels.TargetKind, ids []uuid.UUID) (map[uuid.UUID]int, error) {
	out := make(map[uuid.UUID]int, len(ids))
	for _, id := range ids {
		n, err := m.Count(ctx, predicate, dbmodels.Target{Kind: kind, ID: id})
		if err != nil {
			return nil, err
		}
		out[id] = n
	}
	return out, nil
}

func (m memEdges) SubjectHasBatch(ctx context.Context, subject uuid.UUID, predicate dbmodels.Predicate, kind dbmodels.TargetKind, ids []uuid.UUID) (map[uuid.UUID]bool, error) {
	out := make(map[uuid.UUID]bool, len(ids))
	for _, id := range ids {
		ok, _ := m.Exists(ctx, dbmodels.EdgeKey{SubjectID: subject, Predicate: predicate, Target: dbmodels.Target{Kind: kind, ID: id}})
		out[id] = ok
	}
	return out, nil
}

func (m memEdges) CountBySubject(_ context.Context, subject uuid.UUID, predicate dbmodels.Predicate, kind dbmodels.TargetKind) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for k := range m.edges {
		if k.SubjectID == subject && k.Predicate == predicate && k.Target.Kind == kind {
			n++
		}
	}
	return n, nil
}

func (m memEdges) DeleteBySubject(_ context.Context, subject uuid.UUID, predicate dbmodels.Predicate, kind dbmodels.TargetKind) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for k := range m.edges {
		if k.SubjectID == subject && k.Predicate == predicate && k.Target.Kind == kind {
			delete(m.edges, k)
			n++
		}
	}
	return n, nil
}

func (m memEdges) DeleteByTargets(_ context.Context, kind dbmodels.TargetKind, ids []uuid.UUID) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	set := map[uuid.UUID]bool{}
	for _, id := range ids {
		set[id] = true
	}
	var n int64
	for k := range m.edges {
		if k.Target.Kind == kind && set[k.Target.ID] {
			delete(m.edges, k)
			n++
		}
	}
	return n, nil
}

func (m memEdges) TargetExists(_ context.Context, target dbmodels.Target) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var ok bool
	switch target.Kind {
	case dbmodels.TargetVideo:
		_, ok = m.videos[target.ID]
	case dbmodels.TargetComment:
		_, ok = m.comments[target.ID]
	case dbmodels.TargetTweet:
		_, ok = m.tweets[target.ID]
	case dbmodels.TargetChannel:
		_, ok = m.users[target.ID]
	}
	return ok, nil
}

// ---- users

type memUsers struct{ *memStore }

var _ repository.UserRepository = memUsers{}

func (m memUsers) Create(_ context.Context, u *dbmodels.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[u.ID] = u
	return nil
}

func (m memUsers) GetByID(_ context.Context, id uuid.UUID) (*dbmodels.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u, ok := m.users[id]; ok {
		return u, nil
	}
	return nil, notFoundErr("get user by id")
}

func (m memUsers) Update(_ context.Context, u *dbmodels.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[u.ID]; !ok {
		return notFoundErr("update user")
	}
	for id, other := range m.users {
		if id == u.ID {
			continue
		}
		if strings.EqualFold(other.Username, u.Username) || strings.EqualFold(other.Email, u.Email) {
			return db.WrapError(&pgconn.PgError{Code: "23505", ConstraintName: "users_username_key"}, "update user")
		}
	}
	u.UpdatedAt = m.tick()
	stored := *u
	m.users[u.ID] = &stored
	return nil
}

func (m memUsers) GetByUsername(_ context.Context, username string) (*dbmodels.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if strings.EqualFold(u.Username, username) {
			return u, nil
		}
	}
	return nil, notFoundErr("get user by username")
}

func (m memUsers) ListSubscribedChannels(_ context.Context, subscriber uuid.UUID) ([]*dbmodels.User, error) {
	return m.subscriptionUsers(func(k dbmodels.EdgeKey) (uuid.UUID, bool) {
		return k.Target.ID, k.SubjectID == subscriber
	}), nil
}

func (m memUsers) ListSubscribers(_ context.Context, channel uuid.UUID) ([]*dbmodels.User, error) {
	return m.subscriptionUsers(func(k dbmodels.EdgeKey) (uuid.UUID, bool) {
		return k.SubjectID, k.Target.ID == channel
	}), nil
}

func (m memUsers) subscriptionUsers(match func(dbmodels.EdgeKey) (uuid.UUID, bool)) []*dbmodels.User {
	m.mu.Lock()
	defer m.mu.Unlock()
	var edges []*dbmodels.Edge
	for k, e := range m.edges {
		if k.Predicate != dbmodels.PredicateSubscribe {
			continue
		}
		if _, ok := match(k); ok {
			edges = append(edges, e)
		}
	}
	sort.Slice(edges, func(i, j int) bool { return edges[i].CreatedAt.After(edges[j].CreatedAt) })
	var out []*dbmodels.User
	for _, e := range edges {
		id, _ := match(e.Key())
		if u, ok := m.users[id]; ok {
			out = append(out, u)
		}
	}
	return out
}

// ---- videos

type memVideos struct{ *memStore }

var _ repository.VideoRepository = memVideos{}

func (m memVideos) Create(_ context.Context, v *dbmodels.Video) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	v.CreatedAt = m.tick()
	m.videos[v.ID] = v
	return nil
}

func (m memVideos) GetByID(_ context.Context, id uuid.UUID) (*dbmodels.Video, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if v, ok := m.videos[id]; ok {
		copied := *v
		return &copied, nil
	}
	return nil, notFoundErr("get video by id")
}

func (m memVideos) GetWithOwner(_ context.Context, id uuid.UUID) (*dbmodels.VideoWithOwner, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if v, ok := m.videos[id]; ok {
		return m.withOwner(v), nil
	}
	return nil, notFoundErr("get video with owner")
}

func (m memVideos) Update(_ context.Context, v *dbmodels.Video) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.videos[v.ID]; !ok {
		return notFoundErr("update video")
	}
	copied := *v
	m.videos[v.ID] = &copied
	return nil
}

func (m memVideos) SetVisibility(_ context.Context, id uuid.UUID, visibility dbmodels.Visibility) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.videos[id]
	if !ok {
		return notFoundErr("set video visibility")
	}
	copied := *v
	copied.Visibility = visibility
	m.videos[id] = &copied
	return nil
}

func (m memVideos) Delete(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.videos[id]; !ok {
		return notFoundErr("delete video")
	}
	delete(m.videos, id)
	for cid, c := range m.comments {
		if c.VideoID == id {
			delete(m.comments, cid)
		}
	}
	for pid, vids := range m.entries {
		kept := vids[:0]
		for _, vid := range vids {
			if vid != id {
				kept = append(kept, vid)
			}
		}
		m.entries[pid] = kept
	}
	return nil
}

func (m memVideos) sorted(match func(*dbmodels.Video) bool, orderDir string) []*dbmodels.VideoWithOwner {
	var out []*dbmodels.VideoWithOwner
	for _, v := range m.videos {
		if match(v) {
			out = append(out, m.withOwner(v))
		}
	}
	asc := strings.EqualFold(orderDir, "ASC")
	sort.Slice(out, func(i, j int) bool {
		if asc {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

func window(rows []*dbmodels.VideoWithOwner, limit, offset int) []*dbmodels.VideoWithOwner {
	if offset >= len(rows) {
		return nil
	}
	end := offset + limit
	if end > len(rows) {
		end = len(rows)
	}
	return rows[offset:end]
}

func (m memVideos) List(_ context.Context, f *repository.VideoFilters) ([]*dbmodels.VideoWithOwner, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rows := m.sorted(func(v *dbmodels.Video) bool {
		if !f.IncludeNonPublic && v.Visibility != dbmodels.VisibilityPublic {
			return false
		}
		if f.OwnerID != nil && v.OwnerID != *f.OwnerID {
			return false
		}
		return f.Query == "" || strings.Contains(strings.ToLower(v.Title), strings.ToLower(f.Query))
	}, f.OrderDir)
	return window(rows, f.Limit, f.Offset), len(rows), nil
}

func (m memVideos) ListBySubjectEdge(_ context.Context, subject uuid.UUID, predicate dbmodels.Predicate) ([]*dbmodels.VideoWithOwner, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var edges []*dbmodels.Edge
	for k, e := range m.edges {
		if k.SubjectID == subject && k.Predicate == predicate && k.Target.Kind == dbmodels.TargetVideo {
			edges = append(edges, e)
		}
	}
	sort.Slice(edges, func(i, j int) bool { return edges[i].CreatedAt.After(edges[j].CreatedAt) })
	var out []*dbmodels.VideoWithOwner
	for _, e := range edges {
		if v, ok := m.videos[e.TargetID]; ok && v.VisibleTo(subject) {
			out = append(out, m.withOwner(v))
		}
	}
	return out, nil
}

func (m memVideos) ListSubscriptionFeed(_ context.Context, subscriber uuid.UUID, limit, offset int, orderDir string) ([]*dbmodels.VideoWithOwner, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rows := m.sorted(func(v *dbmodels.Video) bool {
		key := dbmodels.EdgeKey{
			SubjectID: subscriber,
			Predicate: dbmodels.PredicateSubscribe,
			Target:    dbmodels.Target{Kind: dbmodels.TargetChannel, ID: v.OwnerID},
		}
		_, subscribed := m.edges[key]
		return subscribed && v.Visibility == dbmodels.VisibilityPublic
	}, orderDir)
	return window(rows, limit, offset), len(rows), nil
}

func (m memVideos) RefreshViews(_ context.Context, id uuid.UUID) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.videos[id]
	if !ok {
		return 0, notFoundErr("refresh video views")
	}
	viewers := map[uuid.UUID]bool{}
	for _, h := range m.history {
		if h.video == id {
			viewers[h.user] = true
		}
	}
	v.Views = int64(len(viewers))
	return v.Views, nil
}

// ---- comments

type memComments struct{ *memStore }

var _ repository.CommentRepository = memComments{}

func (m memComments) Create(_ context.Context, c *dbmodels.Comment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c.CreatedAt = m.tick()
	m.comments[c.ID] = c
	return nil
}

func (m memComments) GetByID(_ context.Context, id uuid.UUID) (*dbmodels.Comment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if c, ok := m.comments[id]; ok {
		copied := *c
		return &copied, nil
	}
	return nil, notFoundErr("get comment by id")
}

func (m memComments) UpdateContent(_ context.Context, c *dbmodels.Comment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored, ok := m.comments[c.ID]
	if !ok {
		return notFoundErr("update comment")
	}
	stored.Content = c.Content
	return nil
}

func (m memComments) Delete(ctx context.Context, id uuid.UUID) error {
	ids, _ := m.ListThreadIDs(ctx, id)
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.comments[id]; !ok {
		return notFoundErr("delete comment")
	}
	for _, cid := range ids {
		delete(m.comments, cid)
	}
	return nil
}

func (m memComments) ListByVideo(_ context.Context, videoID uuid.UUID, limit, offset int, orderDir string) ([]*dbmodels.CommentWithOwner, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var rows []*dbmodels.CommentWithOwner
	for _, c := range m.comments {
		if c.VideoID == videoID {
			rows = append(rows, &dbmodels.CommentWithOwner{Comment: *c, Owner: m.summary(c.OwnerID)})
		}
	}
	asc := strings.EqualFold(orderDir, "ASC")
	sort.Slice(rows, func(i, j int) bool {
		if asc {
			return rows[i].CreatedAt.Before(rows[j].CreatedAt)
		}
		return rows[i].CreatedAt.After(rows[j].CreatedAt)
	})
	total := len(rows)
	if offset >= total {
		return nil, total, nil
	}
	end := offset + limit
	if end > total {
		end = total
	}
	return rows[offset:end], total, nil
}

func (m memComments) ListIDsByVideo(_ context.Context, videoID uuid.UUID) ([]uuid.UUID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var ids []uuid.UUID
	for _, c := range m.comments {
		if c.VideoID == videoID {
			ids = append(ids, c.ID)
		}
	}
	return ids, nil
}

func (m memComments) ListThreadIDs(_ context.Context, id uuid.UUID) ([]uuid.UUID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ids := []uuid.UUID{id}
	for i := 0; i < len(ids); i++ {
		for _, c := range m.comments {
			if c.ParentCommentID.Valid && c.ParentCommentID.UUID == ids[i] {
				ids = append(ids, c.ID)
			}
		}
	}
	return ids, nil
}

// ---- tweets

type memTweets struct{ *memStore }

var _ repository.TweetRepository = memTweets{}

func (m memTweets) Create(_ context.Context, t *dbmodels.Tweet) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tweets[t.ID] = t
	return nil
}

func (m memTweets) GetByID(_ context.Context, id uuid.UUID) (*dbmodels.Tweet, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if t, ok := m.tweets[id]; ok {
		return t, nil
	}
	return nil, notFoundErr("get tweet by id")
}

func (m memTweets) Delete(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.tweets[id]; !ok {
		return notFoundErr("delete tweet")
	}
	delete(m.tweets, id)
	return nil
}

// ---- playlists

type memPlaylists struct{ *memStore }

var _ repository.PlaylistRepository = memPlaylists{}

func (m memPlaylists) Create(_ context.Context, p *dbmodels.Playlist) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.playlists[p.ID] = p
	return nil
}

func (m memPlaylists) GetByID(_ context.Context, id uuid.UUID) (*dbmodels.Playlist, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if p, ok := m.playlists[id]; ok {
		copied := *p
		return &copied, nil
	}
	return nil, notFoundErr("get playlist by id")
}

func (m memPlaylists) GetManyByIDs(_ context.Context, ids []uuid.UUID) ([]*dbmodels.Playlist, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*dbmodels.Playlist
	for _, id := range ids {
		if p, ok := m.playlists[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m memPlaylists) ListByOwner(_ context.Context, owner uuid.UUID) ([]*dbmodels.Playlist, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*dbmodels.Playlist
	for _, p := range m.playlists {
		if p.OwnerID == owner {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m memPlaylists) Update(_ context.Context, p *dbmodels.Playlist) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.playlists[p.ID]; !ok {
		return notFoundErr("update playlist")
	}
	copied := *p
	m.playlists[p.ID] = &copied
	return nil
}

func (m memPlaylists) Delete(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.playlists[id]; !ok {
		return notFoundErr("delete playlist")
	}
	delete(m.playlists, id)
	delete(m.entries, id)
	return nil
}

func (m memPlaylists) AddVideo(_ context.Context, videoID uuid.UUID, ids []uuid.UUID) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var added int64
	for _, id := range ids {
		if _, ok := m.playlists[id]; !ok {
			continue
		}
		present := false
		for _, v := range m.entries[id] {
			if v == videoID {
				present = true
			}
		}
		if !present {
			m.entries[id] = append(m.entries[id], videoID)
			added++
		}
	}
	return added, nil
}

func (m memPlaylists) RemoveVideo(_ context.Context, videoID uuid.UUID, ids []uuid.UUID) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var removed int64
	for _, id := range ids {
		kept := m.entries[id][:0]
		for _, v := range m.entries[id] {
			if v == videoID {
				removed++
				continue
			}
			kept = append(kept, v)
		}
		m.entries[id] = kept
	}
	return removed, nil
}

func (m memPlaylists) ListVideos(_ context.Context, playlistID, viewer uuid.UUID) ([]*dbmodels.VideoWithOwner, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*dbmodels.VideoWithOwner
	for _, id := range m.entries[playlistID] {
		if v, ok := m.videos[id]; ok && v.VisibleTo(viewer) {
			out = append(out, m.withOwner(v))
		}
	}
	return out, nil
}

// ---- history

type memHistory struct{ *memStore }

var _ repository.HistoryRepository = memHistory{}

func (m memHistory) Append(_ context.Context, user, video uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.history = append(m.history, historyRow{id: len(m.history) + 1, user: user, video: video, watched: m.tick()})
	return nil
}

func (m memHistory) List(_ context.Context, user uuid.UUID) ([]*dbmodels.HistoryEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	seen := map[uuid.UUID]bool{}
	var out []*dbmodels.HistoryEntry
	for i := len(m.history) - 1; i >= 0; i-- {
		h := m.history[i]
		if h.user != user || seen[h.video] {
			continue
		}
		seen[h.video] = true
		v, ok := m.videos[h.video]
		if !ok || !v.VisibleTo(user) {
			continue
		}
		out = append(out, &dbmodels.HistoryEntry{VideoWithOwner: *m.withOwner(v), WatchedAt: h.watched})
	}
	return out, nil
}

func (m memHistory) Remove(_ context.Context, user, video uuid.UUID) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	kept := m.history[:0]
	for _, h := range m.history {
		if h.user == user && h.video == video {
			n++
			continue
		}
		kept = append(kept, h)
	}
	m.history = kept
	return n, nil
}

func (m memHistory) Clear(_ context.Context, user uuid.UUID) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	kept := m.history[:0]
	for _, h := range m.history {
		if h.user == user {
			n++
			continue
		}
		kept = append(kept, h)
	}
	m.history = kept
	return n, nil
}
