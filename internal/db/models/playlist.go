package models

import (
	"time"

	"github.com/google/uuid"
)

// Playlist is an ordered, duplicate-free collection of videos.
type Playlist struct {
	ID           uuid.UUID `db:"id"`
	OwnerID      uuid.UUID `db:"owner_id"`
	Name         string    `db:"name"`
	Description  string    `db:"description"`
	ThumbnailURL string    `db:"thumbnail_url"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}

// NewPlaylist creates an empty playlist.
func NewPlaylist(ownerID uuid.UUID, name, description string) *Playlist {
	now := time.Now()
	return &Playlist{
		ID:          uuid.New(),
		OwnerID:     ownerID,
		Name:        name,
		Description: description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}
