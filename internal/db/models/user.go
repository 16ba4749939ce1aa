package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// User is a registered account. Every user is also a channel.
type User struct {
	ID               uuid.UUID `db:"id" json:"_id"`
	Username         string    `db:"username" json:"username"`
	Email            string    `db:"email" json:"email"`
	DisplayName      string    `db:"display_name" json:"fullName"`
	Description      string    `db:"description" json:"description"`
	AvatarURL        string    `db:"avatar_url" json:"avatar"`
	BannerURL        string    `db:"banner_url" json:"coverImage"`
	PasswordHash     string    `db:"password_hash" json:"-"`
	RefreshTokenHash string    `db:"refresh_token_hash" json:"-"`
	CreatedAt        time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt        time.Time `db:"updated_at" json:"updatedAt"`
}

// NewUser creates a user with a lower-cased username.
func NewUser(username, email, displayName string) *User {
	now := time.Now()
	return &User{
		ID:          uuid.New(),
		Username:    strings.ToLower(strings.TrimSpace(username)),
		Email:       strings.ToLower(strings.TrimSpace(email)),
		DisplayName: displayName,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}
