package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/videotube/videotube-api/internal/db"
	"github.com/videotube/videotube-api/internal/db/models"
)

// VideoFilters narrows and pages video listings.
type VideoFilters struct {
	OwnerID *uuid.UUID
	// Query matches titles case-insensitively.
	Query string
	// IncludeNonPublic also lists private and unlisted videos.
	IncludeNonPublic bool
	Limit            int
	Offset           int
	OrderDir         string // ASC or DESC on created_at
}

// VideoRepository defines operations for managing videos.
type VideoRepository interface {
	// Create inserts a new video.
	Create(ctx context.Context, video *models.Video) error

	// GetByID retrieves a single video by ID.
	GetByID(ctx context.Context, id uuid.UUID) (*models.Video, error)

	// GetWithOwner retrieves a video joined with its owner's public fields.
	GetWithOwner(ctx context.Context, id uuid.UUID) (*models.VideoWithOwner, error)

	// Update saves title, description and thumbnail.
	Update(ctx context.Context, video *models.Video) error

	// SetVisibility changes who can see the video.
	SetVisibility(ctx context.Context, id uuid.UUID, visibility models.Visibility) error

	// Delete removes the video. Comments and playlist entries cascade.
	Delete(ctx context.Context, id uuid.UUID) error

	// List returns a page of videos and the total matching the same filters.
	List(ctx context.Context, filters *VideoFilters) ([]*models.VideoWithOwner, int, error)

	// ListBySubjectEdge returns the videos subjectID holds an edge with the
	// predicate on, most recent edge first. Private videos of other owners are skipped.
	ListBySubjectEdge(ctx context.Context, subjectID uuid.UUID, predicate models.Predicate) ([]*models.VideoWithOwner, error)

	// ListSubscriptionFeed returns public videos from channels subscriberID
	// subscribes to, with the total matching the same filter.
	ListSubscriptionFeed(ctx context.Context, subscriberID uuid.UUID, limit, offset int, orderDir string) ([]*models.VideoWithOwner, int, error)

	// RefreshViews sets views to the number of distinct users whose history
	// holds the video and returns the new value.
	RefreshViews(ctx context.Context, id uuid.UUID) (int64, error)
}

type videoRepository struct {
	pool *pgxpool.Pool
}

// NewVideoRepository creates a new VideoRepository.
func NewVideoRepository(pool *pgxpool.Pool) VideoRepository {
	return &videoRepository{pool: pool}
}

const videoColumns = `v.id, v.owner_id, v.video_file_url, v.thumbnail_url, v.title, v.description,
	v.duration, v.views, v.visibility, v.category, v.tags, v.created_at, v.updated_at`

const videoWithOwnerColumns = videoColumns + `, u.id, u.username, u.display_name, u.avatar_url`

func (r *videoRepository) Create(ctx context.Context, video *models.Video) error {
	if video.Tags == nil {
		video.Tags = []string{}
	}

	query := `
		INSERT INTO videos (id, owner_id, video_file_url, thumbnail_url, title, description,
			duration, views, visibility, category, tags, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING created_at, updated_at
	`

	err := db.Conn(ctx, r.pool).QueryRow(ctx, query,
		video.ID,
		video.OwnerID,
		video.VideoFileURL,
		video.ThumbnailURL,
		video.Title,
		video.Description,
		video.Duration,
		video.Views,
		video.Visibility,
		video.Category,
		video.Tags,
		video.CreatedAt,
		video.UpdatedAt,
	).Scan(&video.CreatedAt, &video.UpdatedAt)
	if err != nil {
		return db.WrapError(err, "create video")
	}

	return nil
}

func (r *videoRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Video, error) {
	query := `SELECT ` + videoColumns + ` FROM videos v WHERE v.id = $1`

	video := &models.Video{}
	if err := db.Conn(ctx, r.pool).QueryRow(ctx, query, id).Scan(videoDest(video)...); err != nil {
		return nil, db.WrapError(err, "get video by id")
	}
	return video, nil
}

func (r *videoRepository) GetWithOwner(ctx context.Context, id uuid.UUID) (*models.VideoWithOwner, error) {
	query := `
		SELECT ` + videoWithOwnerColumns + `
		FROM videos v
		JOIN users u ON u.id = v.owner_id
		WHERE v.id = $1
	`

	video, err := scanVideoWithOwner(db.Conn(ctx, r.pool).QueryRow(ctx, query, id))
	if err != nil {
		return nil, db.WrapError(err, "get video with owner")
	}
	return video, nil
}

func (r *videoRepository) Update(ctx context.Context, video *models.Video) error {
	query := `
		UPDATE videos
		SET title = $2, description = $3, thumbnail_url = $4, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at
	`

	err := db.Conn(ctx, r.pool).QueryRow(ctx, query,
		video.ID,
		video.Title,
		video.Description,
		video.ThumbnailURL,
	).Scan(&video.UpdatedAt)
	if err != nil {
		return db.WrapError(err, "update video")
	}

	return nil
}

func (r *videoRepository) SetVisibility(ctx context.Context, id uuid.UUID, visibility models.Visibility) error {
	query := `UPDATE videos SET visibility = $2, updated_at = NOW() WHERE id = $1`

	result, err := db.Conn(ctx, r.pool).Exec(ctx, query, id, visibility)
	if err != nil {
		return db.WrapError(err, "set video visibility")
	}
	if result.RowsAffected() == 0 {
		return db.WrapError(pgx.ErrNoRows, "set video visibility")
	}

	return nil
}

func (r *videoRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM videos WHERE id = $1`

	result, err := db.Conn(ctx, r.pool).Exec(ctx, query, id)
	if err != nil {
		return db.WrapError(err, "delete video")
	}
	if result.RowsAffected() == 0 {
		return db.WrapError(pgx.ErrNoRows, "delete video")
	}

	return nil
}

func (r *videoRepository) List(ctx context.Context, filters *VideoFilters) ([]*models.VideoWithOwner, int, error) {
	args := []interface{}{}
	argPos := 1
	var conditions []string

	if !filters.IncludeNonPublic {
		conditions = append(conditions, "v.visibility = 'public'")
	}
	if filters.OwnerID != nil {
		conditions = append(conditions, fmt.Sprintf("v.owner_id = $%d", argPos))
		args = append(args, *filters.OwnerID)
		argPos++
	}
	if filters.Query != "" {
		conditions = append(conditions, fmt.Sprintf("v.title ILIKE $%d", argPos))
		args = append(args, "%"+escapeLike(filters.Query)+"%")
		argPos++
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = "WHERE " + strings.Join(conditions, " AND ")
	}

	conn := db.Conn(ctx, r.pool)

	var total int
	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM videos v %s", whereClause)
	if err := conn.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, db.WrapError(err, "count videos")
	}

	orderDir := orderDirection(filters.OrderDir)
	query := fmt.Sprintf(`
		SELECT %s
		FROM videos v
		JOIN users u ON u.id = v.owner_id
		%s
		ORDER BY v.created_at %s, v.id %s
		LIMIT $%d OFFSET $%d
	`, videoWithOwnerColumns, whereClause, orderDir, orderDir, argPos, argPos+1)

	args = append(args, filters.Limit, filters.Offset)

	rows, err := conn.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, db.WrapError(err, "list videos")
	}
	defer rows.Close()

	videos, err := scanVideosWithOwner(rows)
	if err != nil {
		return nil, 0, err
	}

	return videos, total, nil
}

func (r *videoRepository) ListBySubjectEdge(ctx context.Context, subjectID uuid.UUID, predicate models.Predicate) ([]*models.VideoWithOwner, error) {
	query := `
		SELECT ` + videoWithOwnerColumns + `
		FROM edges e
		JOIN videos v ON v.id = e.target_id
		JOIN users u ON u.id = v.owner_id
		WHERE e.subject_id = $1 AND e.predicate = $2 AND e.target_kind = 'VIDEO'
		  AND (v.visibility <> 'private' OR v.owner_id = $1)
		ORDER BY e.created_at DESC, e.id
	`

	rows, err := db.Conn(ctx, r.pool).Query(ctx, query, subjectID, predicate)
	if err != nil {
		return nil, db.WrapError(err, "list videos by subject edge")
	}
	defer rows.Close()

	return scanVideosWithOwner(rows)
}

func (r *videoRepository) ListSubscriptionFeed(ctx context.Context, subscriberID uuid.UUID, limit, offset int, orderDir string) ([]*models.VideoWithOwner, int, error) {
	whereClause := `
		WHERE v.visibility = 'public'
		  AND v.owner_id IN (
			SELECT target_id FROM edges
			WHERE subject_id = $1 AND predicate = 'SUBSCRIBE' AND target_kind = 'CHANNEL'
		  )
	`

	conn := db.Conn(ctx, r.pool)

	var total int
	if err := conn.QueryRow(ctx, `SELECT COUNT(*) FROM videos v `+whereClause, subscriberID).Scan(&total); err != nil {
		return nil, 0, db.WrapError(err, "count subscription feed")
	}

	dir := orderDirection(orderDir)
	query := fmt.Sprintf(`
		SELECT %s
		FROM videos v
		JOIN users u ON u.id = v.owner_id
		%s
		ORDER BY v.created_at %s, v.id %s
		LIMIT $2 OFFSET $3
	`, videoWithOwnerColumns, whereClause, dir, dir)

	rows, err := conn.Query(ctx, query, subscriberID, limit, offset)
	if err != nil {
		return nil, 0, db.WrapError(err, "list subscription feed")
	}
	defer rows.Close()

	videos, err := scanVideosWithOwner(rows)
	if err != nil {
		return nil, 0, err
	}

	return videos, total, nil
}

// RefreshViews is a read-then-write: two concurrent views may both compute
// the count before either history row is visible.
func (r *videoRepository) RefreshViews(ctx context.Context, id uuid.UUID) (int64, error) {
	query := `
		UPDATE videos
		SET views = (SELECT COUNT(DISTINCT user_id) FROM watch_history WHERE video_id = $1)
		WHERE id = $1
		RETURNING views
	`

	var views int64
	if err := db.Conn(ctx, r.pool).QueryRow(ctx, query, id).Scan(&views); err != nil {
		return 0, db.WrapError(err, "refresh video views")
	}
	return views, nil
}

func videoDest(v *models.Video) []any {
	return []any{
		&v.ID,
		&v.OwnerID,
		&v.VideoFileURL,
		&v.ThumbnailURL,
		&v.Title,
		&v.Description,
		&v.Duration,
		&v.Views,
		&v.Visibility,
		&v.Category,
		&v.Tags,
		&v.CreatedAt,
		&v.UpdatedAt,
	}
}

func ownerDest(o *models.UserSummary) []any {
	return []any{&o.ID, &o.Username, &o.DisplayName, &o.AvatarURL}
}

func scanVideoWithOwner(row pgx.Row) (*models.VideoWithOwner, error) {
	video := &models.VideoWithOwner{}
	dest := append(videoDest(&video.Video), ownerDest(&video.Owner)...)
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}
	return video, nil
}

// Helper function to scan multiple videos with owners from query results
func scanVideosWithOwner(rows pgx.Rows) ([]*models.VideoWithOwner, error) {
	var videos []*models.VideoWithOwner

	for rows.Next() {
		video, err := scanVideoWithOwner(rows)
		if err != nil {
			return nil, fmt.Errorf("scan video: %w", err)
		}
		videos = append(videos, video)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate videos: %w", err)
	}

	return videos, nil
}

func orderDirection(dir string) string {
	if strings.EqualFold(dir, "ASC") {
		return "ASC"
	}
	return "DESC"
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
