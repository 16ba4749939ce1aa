package models

import (
	"time"

	"github.com/google/uuid"
)

// UserSummary holds the public fields of a user shown next to content.
type UserSummary struct {
	ID          uuid.UUID `db:"id"`
	Username    string    `db:"username"`
	DisplayName string    `db:"display_name"`
	AvatarURL   string    `db:"avatar_url"`
}

// VideoWithOwner is a video joined with its owner's public fields.
type VideoWithOwner struct {
	Video
	Owner UserSummary
}

// HistoryEntry is a video from a user's watch history.
type HistoryEntry struct {
	VideoWithOwner
	WatchedAt time.Time `db:"watched_at"`
}
