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

// PlaylistRepository defines operations for managing playlists and their videos.
type PlaylistRepository interface {
	Create(ctx context.Context, playlist *models.Playlist) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Playlist, error)

	// GetManyByIDs returns the playlists that exist among ids.
	GetManyByIDs(ctx context.Context, ids []uuid.UUID) ([]*models.Playlist, error)

	// ListByOwner returns an owner's playlists, newest first.
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*models.Playlist, error)

	// Update saves name and description.
	Update(ctx context.Context, playlist *models.Playlist) error

	Delete(ctx context.Context, id uuid.UUID) error

	// AddVideo appends the video to each playlist. Playlists already holding
	// the video are left unchanged. It returns how many rows were added.
	AddVideo(ctx context.Context, videoID uuid.UUID, playlistIDs []uuid.UUID) (int64, error)

	// RemoveVideo drops the video from each playlist and returns how many
	// rows were removed.
	RemoveVideo(ctx context.Context, videoID uuid.UUID, playlistIDs []uuid.UUID) (int64, error)

	// ListVideos returns a playlist's videos in insertion order. Private
	// videos of owners other than viewerID are skipped.
	ListVideos(ctx context.Context, playlistID, viewerID uuid.UUID) ([]*models.VideoWithOwner, error)
}

type playlistRepository struct {
	pool *pgxpool.Pool
}

// NewPlaylistRepository creates a new PlaylistRepository.
func NewPlaylistRepository(pool *pgxpool.Pool) PlaylistRepository {
	return &playlistRepository{pool: pool}
}

const playlistColumns = `id, owner_id, name, description, thumbnail_url, created_at, updated_at`

func (r *playlistRepository) Create(ctx context.Context, playlist *models.Playlist) error {
	query := `
		INSERT INTO playlists (` + playlistColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at, updated_at
	`

	err := db.Conn(ctx, r.pool).QueryRow(ctx, query,
		playlist.ID,
		playlist.OwnerID,
		playlist.Name,
		playlist.Description,
		playlist.ThumbnailURL,
		playlist.CreatedAt,
		playlist.UpdatedAt,
	).Scan(&playlist.CreatedAt, &playlist.UpdatedAt)
	if err != nil {
		return db.WrapError(err, "create playlist")
	}

	return nil
}

func (r *playlistRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Playlist, error) {
	query := `SELECT ` + playlistColumns + ` FROM playlists WHERE id = $1`

	playlist, err := scanPlaylist(db.Conn(ctx, r.pool).QueryRow(ctx, query, id))
	if err != nil {
		return nil, db.WrapError(err, "get playlist by id")
	}
	return playlist, nil
}

func (r *playlistRepository) GetManyByIDs(ctx context.Context, ids []uuid.UUID) ([]*models.Playlist, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	query := `SELECT ` + playlistColumns + ` FROM playlists WHERE id = ANY($1::uuid[])`

	rows, err := db.Conn(ctx, r.pool).Query(ctx, query, uuidStrings(ids))
	if err != nil {
		return nil, db.WrapError(err, "get playlists by ids")
	}
	defer rows.Close()

	return scanPlaylists(rows)
}

func (r *playlistRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*models.Playlist, error) {
	query := `SELECT ` + playlistColumns + ` FROM playlists WHERE owner_id = $1 ORDER BY created_at DESC, id`

	rows, err := db.Conn(ctx, r.pool).Query(ctx, query, ownerID)
	if err != nil {
		return nil, db.WrapError(err, "list playlists by owner")
	}
	defer rows.Close()

	return scanPlaylists(rows)
}

func (r *playlistRepository) Update(ctx context.Context, playlist *models.Playlist) error {
	query := `
		UPDATE playlists
		SET name = $2, description = $3, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at
	`

	err := db.Conn(ctx, r.pool).QueryRow(ctx, query, playlist.ID, playlist.Name, playlist.Description).
		Scan(&playlist.UpdatedAt)
	if err != nil {
		return db.WrapError(err, "update playlist")
	}
	return nil
}

func (r *playlistRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := db.Conn(ctx, r.pool).Exec(ctx, `DELETE FROM playlists WHERE id = $1`, id)
	if err != nil {
		return db.WrapError(err, "delete playlist")
	}
	if result.RowsAffected() == 0 {
		return db.WrapError(pgx.ErrNoRows, "delete playlist")
	}
	return nil
}

func (r *playlistRepository) AddVideo(ctx context.Context, videoID uuid.UUID, playlistIDs []uuid.UUID) (int64, error) {
	if len(playlistIDs) == 0 {
		return 0, nil
	}

	query := `
		INSERT INTO playlist_videos (playlist_id, video_id)
		SELECT p.id, $1 FROM playlists p WHERE p.id = ANY($2::uuid[])
		ON CONFLICT (playlist_id, video_id) DO NOTHING
	`

	result, err := db.Conn(ctx, r.pool).Exec(ctx, query, videoID, uuidStrings(playlistIDs))
	if err != nil {
		return 0, db.WrapError(err, "add video to playlists")
	}
	return result.RowsAffected(), nil
}

func (r *playlistRepository) RemoveVideo(ctx context.Context, videoID uuid.UUID, playlistIDs []uuid.UUID) (int64, error) {
	if len(playlistIDs) == 0 {
		return 0, nil
	}

	query := `DELETE FROM playlist_videos WHERE video_id = $1 AND playlist_id = ANY($2::uuid[])`

	result, err := db.Conn(ctx, r.pool).Exec(ctx, query, videoID, uuidStrings(playlistIDs))
	if err != nil {
		return 0, db.WrapError(err, "remove video from playlists")
	}
	return result.RowsAffected(), nil
}

func (r *playlistRepository) ListVideos(ctx context.Context, playlistID, viewerID uuid.UUID) ([]*models.VideoWithOwner, error) {
	query := `
		SELECT ` + videoWithOwnerColumns + `
		FROM playlist_videos pv
		JOIN videos v ON v.id = pv.video_id
		JOIN users u ON u.id = v.owner_id
		WHERE pv.playlist_id = $1
		  AND (v.visibility <> 'private' OR v.owner_id = $2)
		ORDER BY pv.position
	`

	rows, err := db.Conn(ctx, r.pool).Query(ctx, query, playlistID, viewerID)
	if err != nil {
		return nil, db.WrapError(err, "list playlist videos")
	}
	defer rows.Close()

	return scanVideosWithOwner(rows)
}

func scanPlaylist(row pgx.Row) (*models.Playlist, error) {
	p := &models.Playlist{}
	err := row.Scan(
		&p.ID,
		&p.OwnerID,
		&p.Name,
		&p.Description,
		&p.ThumbnailURL,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return p, nil
}

func scanPlaylists(rows pgx.Rows) ([]*models.Playlist, error) {
	var playlists []*models.Playlist
	for rows.Next() {
		p, err := scanPlaylist(rows)
		if err != nil {
			return nil, fmt.Errorf("scan playlist: %w", err)
		}
		playlists = append(playlists, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate playlists: %w", err)
	}
	return playlists, nil
}
