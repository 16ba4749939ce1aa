package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/videotube/videotube-api/internal/db"
	"github.com/videotube/videotube-api/internal/db/models"
)

// HistoryRepository records and reads users' watch history.
type HistoryRepository interface {
	// Append records that userID watched videoID. Re-watches add a new entry.
	Append(ctx context.Context, userID, videoID uuid.UUID) error

	// List returns one entry per watched video, most recently watched first.
	// Videos that no longer exist are left out.
	List(ctx context.Context, userID uuid.UUID) ([]*models.HistoryEntry, error)

	// Remove drops every entry for videoID and returns how many were removed.
	Remove(ctx context.Context, userID, videoID uuid.UUID) (int64, error)

	// Clear drops the user's whole history.
	Clear(ctx context.Context, userID uuid.UUID) (int64, error)
}

type historyRepository struct {
	pool *pgxpool.Pool
}

// NewHistoryRepository creates a new HistoryRepository.
func NewHistoryRepository(pool *pgxpool.Pool) HistoryRepository {
	return &historyRepository{pool: pool}
}

func (r *historyRepository) Append(ctx context.Context, userID, videoID uuid.UUID) error {
	query := `INSERT INTO watch_history (user_id, video_id, watched_at) VALUES ($1, $2, NOW())`

	if _, err := db.Conn(ctx, r.pool).Exec(ctx, query, userID, videoID); err != nil {
		return db.WrapError(err, "append watch history")
	}
	return nil
}

func (r *historyRepository) List(ctx context.Context, userID uuid.UUID) ([]*models.HistoryEntry, error) {
	query := `
		SELECT ` + videoWithOwnerColumns + `, h.watched_at
		FROM (
			SELECT video_id, MAX(id) AS last_id, MAX(watched_at) AS watched_at
			FROM watch_history
			WHERE user_id = $1
			GROUP BY video_id
		) h
		JOIN videos v ON v.id = h.video_id
		JOIN users u ON u.id = v.owner_id
		WHERE v.visibility <> 'private' OR v.owner_id = $1
		ORDER BY h.last_id DESC
	`

	rows, err := db.Conn(ctx, r.pool).Query(ctx, query, userID)
	if err != nil {
		return nil, db.WrapError(err, "list watch history")
	}
	defer rows.Close()

	var entries []*models.HistoryEntry
	for rows.Next() {
		entry := &models.HistoryEntry{}
		dest := append(videoDest(&entry.Video), ownerDest(&entry.Owner)...)
		dest = append(dest, &entry.WatchedAt)
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("scan watch history: %w", err)
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate watch history: %w", err)
	}

	return entries, nil
}

func (r *historyRepository) Remove(ctx context.Context, userID, videoID uuid.UUID) (int64, error) {
	query := `DELETE FROM watch_history WHERE user_id = $1 AND video_id = $2`

	result, err := db.Conn(ctx, r.pool).Exec(ctx, query, userID, videoID)
	if err != nil {
		return 0, db.WrapError(err, "remove watch history entry")
	}
	return result.RowsAffected(), nil
}

func (r *historyRepository) Clear(ctx context.Context, userID uuid.UUID) (int64, error) {
	result, err := db.Conn(ctx, r.pool).Exec(ctx, `DELETE FROM watch_history WHERE user_id = $1`, userID)
	if err != nil {
		return 0, db.WrapError(err, "clear watch history")
	}
	return result.RowsAffected(), nil
}
