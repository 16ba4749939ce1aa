package models

import (
	"time"

	"github.com/google/uuid"
)

// Visibility controls who can see a video.
type Visibility string

const (
	VisibilityPublic   Visibility = "public"
	VisibilityPrivate  Visibility = "private"
	VisibilityUnlisted Visibility = "unlisted"
)

// Valid reports whether v is a known visibility.
func (v Visibility) Valid() bool {
	switch v {
	case VisibilityPublic, VisibilityPrivate, VisibilityUnlisted:
		return true
	}
	return false
}

// Video is an uploaded video.
type Video struct {
	ID           uuid.UUID  `db:"id"`
	OwnerID      uuid.UUID  `db:"owner_id"`
	VideoFileURL string     `db:"video_file_url"`
	ThumbnailURL string     `db:"thumbnail_url"`
	Title        string     `db:"title"`
	Description  string     `db:"description"`
	Duration     float64    `db:"duration"`
	Views        int64      `db:"views"`
	Visibility   Visibility `db:"visibility"`
	Category     string     `db:"category"`
	Tags         []string   `db:"tags"`
	CreatedAt    time.Time  `db:"created_at"`
	UpdatedAt    time.Time  `db:"updated_at"`
}

// NewVideo creates a public video owned by ownerID.
func NewVideo(ownerID uuid.UUID, title, description, videoFileURL, thumbnailURL string, duration float64) *Video {
	now := time.Now()
	return &Video{
		ID:           uuid.New(),
		OwnerID:      ownerID,
		VideoFileURL: videoFileURL,
		ThumbnailURL: thumbnailURL,
		Title:        title,
		Description:  description,
		Duration:     duration,
		Visibility:   VisibilityPublic,
		Tags:         []string{},
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// VisibleTo reports whether viewerID may see the video. Private videos are
// only visible to their owner.
func (v *Video) VisibleTo(viewerID uuid.UUID) bool {
	if v.Visibility != VisibilityPrivate {
		return true
	}
	return viewerID != uuid.Nil && viewerID == v.OwnerID
}
