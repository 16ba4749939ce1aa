package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/videotube/videotube-api/internal/db"
	"github.com/videotube/videotube-api/internal/db/models"
)

// TweetRepository defines operations for managing tweets.
type TweetRepository interface {
	Create(ctx context.Context, tweet *models.Tweet) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Tweet, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type tweetRepository struct {
	pool *pgxpool.Pool
}

// NewTweetRepository creates a new TweetRepository.
func NewTweetRepository(pool *pgxpool.Pool) TweetRepository {
	return &tweetRepository{pool: pool}
}

func (r *tweetRepository) Create(ctx context.Context, tweet *models.Tweet) error {
	query := `
		INSERT INTO tweets (id, owner_id, content, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at, updated_at
	`

	err := db.Conn(ctx, r.pool).QueryRow(ctx, query,
		tweet.ID,
		tweet.OwnerID,
		tweet.Content,
		tweet.CreatedAt,
		tweet.UpdatedAt,
	).Scan(&tweet.CreatedAt, &tweet.UpdatedAt)
	if err != nil {
		return db.WrapError(err, "create tweet")
	}

	return nil
}

func (r *tweetRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Tweet, error) {
	query := `SELECT id, owner_id, content, created_at, updated_at FROM tweets WHERE id = $1`

	tweet := &models.Tweet{}
	err := db.Conn(ctx, r.pool).QueryRow(ctx, query, id).Scan(
		&tweet.ID,
		&tweet.OwnerID,
		&tweet.Content,
		&tweet.CreatedAt,
		&tweet.UpdatedAt,
	)
	if err != nil {
		return nil, db.WrapError(err, "get tweet by id")
	}

	return tweet, nil
}

func (r *tweetRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := db.Conn(ctx, r.pool).Exec(ctx, `DELETE FROM tweets WHERE id = $1`, id)
	if err != nil {
		return db.WrapError(err, "delete tweet")
	}
	if result.RowsAffected() == 0 {
		return db.WrapError(pgx.ErrNoRows, "delete tweet")
	}
	return nil
}
