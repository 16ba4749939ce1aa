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

// UserRepository defines operations for managing users and channels.
type UserRepository interface {
	// Create inserts a new user.
	Create(ctx context.Context, user *models.User) error

	// GetByID retrieves a single user by ID.
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)

	// Update saves the account details of an existing user.
	Update(ctx context.Context, user *models.User) error

	// GetByUsername retrieves a user by username, ignoring case.
	GetByUsername(ctx context.Context, username string) (*models.User, error)

	// ListSubscribedChannels returns the channels subscriberID subscribes to,
	// most recent subscription first.
	ListSubscribedChannels(ctx context.Context, subscriberID uuid.UUID) ([]*models.User, error)

	// ListSubscribers returns the users subscribed to channelID, most recent first.
	ListSubscribers(ctx context.Context, channelID uuid.UUID) ([]*models.User, error)
}

type userRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository creates a new UserRepository.
func NewUserRepository(pool *pgxpool.Pool) UserRepository {
	return &userRepository{pool: pool}
}

const userColumns = `u.id, u.username, u.email, u.display_name, u.description, u.avatar_url, u.banner_url,
	u.password_hash, u.refresh_token_hash, u.created_at, u.updated_at`

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (id, username, email, display_name, description, avatar_url, banner_url,
			password_hash, refresh_token_hash, created_at, updated_at)
		VALUES ($1, LOWER($2), LOWER($3), $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING username, email, created_at, updated_at
	`

	err := db.Conn(ctx, r.pool).QueryRow(ctx, query,
		user.ID,
		user.Username,
		user.Email,
		user.DisplayName,
		user.Description,
		user.AvatarURL,
		user.BannerURL,
		user.PasswordHash,
		user.RefreshTokenHash,
		user.CreatedAt,
		user.UpdatedAt,
	).Scan(&user.Username, &user.Email, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		return db.WrapError(err, "create user")
	}

	return nil
}

func (r *userRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users u WHERE u.id = $1`

	user, err := scanUser(db.Conn(ctx, r.pool).QueryRow(ctx, query, id))
	if err != nil {
		return nil, db.WrapError(err, "get user by id")
	}
	return user, nil
}

func (r *userRepository) Update(ctx context.Context, user *models.User) error {
	query := `
		UPDATE users
		SET username = LOWER($2), email = LOWER($3), display_name = $4, description = $5, updated_at = NOW()
		WHERE id = $1
		RETURNING username, email, updated_at
	`

	err := db.Conn(ctx, r.pool).QueryRow(ctx, query,
		user.ID,
		user.Username,
		user.Email,
		user.DisplayName,
		user.Description,
	).Scan(&user.Username, &user.Email, &user.UpdatedAt)
	if err != nil {
		return db.WrapError(err, "update user")
	}

	return nil
}

func (r *userRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users u WHERE LOWER(u.username) = LOWER($1)`

	user, err := scanUser(db.Conn(ctx, r.pool).QueryRow(ctx, query, username))
	if err != nil {
		return nil, db.WrapError(err, "get user by username")
	}
	return user, nil
}

func (r *userRepository) ListSubscribedChannels(ctx context.Context, subscriberID uuid.UUID) ([]*models.User, error) {
	query := `
		SELECT ` + userColumns + `
		FROM edges e
		JOIN users u ON u.id = e.target_id
		WHERE e.subject_id = $1 AND e.predicate = 'SUBSCRIBE' AND e.target_kind = 'CHANNEL'
		ORDER BY e.created_at DESC, e.id
	`

	rows, err := db.Conn(ctx, r.pool).Query(ctx, query, subscriberID)
	if err != nil {
		return nil, db.WrapError(err, "list subscribed channels")
	}
	defer rows.Close()

	return scanUsers(rows)
}

func (r *userRepository) ListSubscribers(ctx context.Context, channelID uuid.UUID) ([]*models.User, error) {
	query := `
		SELECT ` + userColumns + `
		FROM edges e
		JOIN users u ON u.id = e.subject_id
		WHERE e.target_id = $1 AND e.predicate = 'SUBSCRIBE' AND e.target_kind = 'CHANNEL'
		ORDER BY e.created_at DESC, e.id
	`

	rows, err := db.Conn(ctx, r.pool).Query(ctx, query, channelID)
	if err != nil {
		return nil, db.WrapError(err, "list subscribers")
	}
	defer rows.Close()

	return scanUsers(rows)
}

func scanUser(row pgx.Row) (*models.User, error) {
	user := &models.User{}
	err := row.Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.DisplayName,
		&user.Description,
		&user.AvatarURL,
		&user.BannerURL,
		&user.PasswordHash,
		&user.RefreshTokenHash,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return user, nil
}

func scanUsers(rows pgx.Rows) ([]*models.User, error) {
	var users []*models.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate users: %w", err)
	}
	return users, nil
}
