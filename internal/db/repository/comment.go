package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/videotube/videotube-api/internal/db"
	"github.com/videotube/videotube-api/internal/db/models"
)

// CommentRepository defines operations for managing comments.
type CommentRepository interface {
	// Create inserts a new comment.
	Create(ctx context.Context, comment *models.Comment) error

	// GetByID retrieves a single comment by ID.
	GetByID(ctx context.Context, id uuid.UUID) (*models.Comment, error)

	// UpdateContent replaces the comment text.
	UpdateContent(ctx context.Context, comment *models.Comment) error

	// Delete removes the comment and, through the foreign key, its replies.
	Delete(ctx context.Context, id uuid.UUID) error

	// ListByVideo returns a page of a video's comments with their authors,
	// ordered by created_at then id, and the total for the same video.
	ListByVideo(ctx context.Context, videoID uuid.UUID, limit, offset int, orderDir string) ([]*models.CommentWithOwner, int, error)

	// ListIDsByVideo returns the ids of every comment on a video.
	ListIDsByVideo(ctx context.Context, videoID uuid.UUID) ([]uuid.UUID, error)

	// ListThreadIDs returns the comment's id and the ids of all its replies.
	ListThreadIDs(ctx context.Context, id uuid.UUID) ([]uuid.UUID, error)
}

type commentRepository struct {
	pool *pgxpool.Pool
}

// NewCommentRepository creates a new CommentRepository.
func NewCommentRepository(pool *pgxpool.Pool) CommentRepository {
	return &commentRepository{pool: pool}
}

const commentColumns = `c.id, c.video_id, c.owner_id, c.parent_comment_id, c.content, c.created_at, c.updated_at`

func (r *commentRepository) Create(ctx context.Context, comment *models.Comment) error {
	query := `
		INSERT INTO comments (id, video_id, owner_id, parent_comment_id, content, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at, updated_at
	`

	err := db.Conn(ctx, r.pool).QueryRow(ctx, query,
		comment.ID,
		comment.VideoID,
		comment.OwnerID,
		comment.ParentCommentID,
		comment.Content,
		comment.CreatedAt,
		comment.UpdatedAt,
	).Scan(&comment.CreatedAt, &comment.UpdatedAt)
	if err != nil {
		return db.WrapError(err, "create comment")
	}

	return nil
}

func (r *commentRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Comment, error) {
	query := `SELECT ` + commentColumns + ` FROM comments c WHERE c.id = $1`

	comment := &models.Comment{}
	if err := db.Conn(ctx, r.pool).QueryRow(ctx, query, id).Scan(commentDest(comment)...); err != nil {
		return nil, db.WrapError(err, "get comment by id")
	}
	return comment, nil
}

func (r *commentRepository) UpdateContent(ctx context.Context, comment *models.Comment) error {
	query := `
		UPDATE comments
		SET content = $2, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at
	`

	if err := db.Conn(ctx, r.pool).QueryRow(ctx, query, comment.ID, comment.Content).Scan(&comment.UpdatedAt); err != nil {
		return db.WrapError(err, "update comment")
	}
	return nil
}

func (r *commentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := db.Conn(ctx, r.pool).Exec(ctx, `DELETE FROM comments WHERE id = $1`, id)
	if err != nil {
		return db.WrapError(err, "delete comment")
	}
	if result.RowsAffected() == 0 {
		return db.WrapError(pgx.ErrNoRows, "delete comment")
	}
	return nil
}

func (r *commentRepository) ListByVideo(ctx context.Context, videoID uuid.UUID, limit, offset int, orderDir string) ([]*models.CommentWithOwner, int, error) {
	conn := db.Conn(ctx, r.pool)

	var total int
	if err := conn.QueryRow(ctx, `SELECT COUNT(*) FROM comments WHERE video_id = $1`, videoID).Scan(&total); err != nil {
		return nil, 0, db.WrapError(err, "count comments")
	}

	dir := orderDirection(orderDir)
	query := fmt.Sprintf(`
		SELECT %s, u.id, u.username, u.display_name, u.avatar_url
		FROM comments c
		JOIN users u ON u.id = c.owner_id
		WHERE c.video_id = $1
		ORDER BY c.created_at %s, c.id %s
		LIMIT $2 OFFSET $3
	`, commentColumns, dir, dir)

	rows, err := conn.Query(ctx, query, videoID, limit, offset)
	if err != nil {
		return nil, 0, db.WrapError(err, "list comments by video")
	}
	defer rows.Close()

	var comments []*models.CommentWithOwner
	for rows.Next() {
		comment := &models.CommentWithOwner{}
		dest := append(commentDest(&comment.Comment), ownerDest(&comment.Owner)...)
		if err := rows.Scan(dest...); err != nil {
			return nil, 0, fmt.Errorf("scan comment: %w", err)
		}
		comments = append(comments, comment)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate comments: %w", err)
	}

	return comments, total, nil
}

func (r *commentRepository) ListIDsByVideo(ctx context.Context, videoID uuid.UUID) ([]uuid.UUID, error) {
	rows, err := db.Conn(ctx, r.pool).Query(ctx, `SELECT id FROM comments WHERE video_id = $1`, videoID)
	if err != nil {
		return nil, db.WrapError(err, "list comment ids by video")
	}
	return collectIDs(rows)
}

func (r *commentRepository) ListThreadIDs(ctx context.Context, id uuid.UUID) ([]uuid.UUID, error) {
	query := `
		WITH RECURSIVE thread AS (
			SELECT id FROM comments WHERE id = $1
			UNION ALL
			SELECT c.id FROM comments c JOIN thread t ON c.parent_comment_id = t.id
		)
		SELECT id FROM thread
	`

	rows, err := db.Conn(ctx, r.pool).Query(ctx, query, id)
	if err != nil {
		return nil, db.WrapError(err, "list comment thread ids")
	}
	return collectIDs(rows)
}

func commentDest(c *models.Comment) []any {
	return []any{
		&c.ID,
		&c.VideoID,
		&c.OwnerID,
		&c.ParentCommentID,
		&c.Content,
		&c.CreatedAt,
		&c.UpdatedAt,
	}
}

func collectIDs(rows pgx.Rows) ([]uuid.UUID, error) {
	ids, err := pgx.CollectRows(rows, pgx.RowTo[uuid.UUID])
	if err != nil {
		return nil, fmt.Errorf("collect ids: %w", err)
	}
	return ids, nil
}
