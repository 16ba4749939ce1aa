package models

import (
	"time"

	"github.com/google/uuid"
)

// Comment is a comment on a video, optionally replying to another comment.
type Comment struct {
	ID              uuid.UUID     `db:"id"`
	VideoID         uuid.UUID     `db:"video_id"`
	OwnerID         uuid.UUID     `db:"owner_id"`
	ParentCommentID uuid.NullUUID `db:"parent_comment_id"`
	Content         string        `db:"content"`
	CreatedAt       time.Time     `db:"created_at"`
	UpdatedAt       time.Time     `db:"updated_at"`
}

// NewComment creates a top-level comment.
func NewComment(videoID, ownerID uuid.UUID, content string) *Comment {
	now := time.Now()
	return &Comment{
		ID:        uuid.New(),
		VideoID:   videoID,
		OwnerID:   ownerID,
		Content:   content,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// CommentWithOwner is a comment joined with its author's public fields.
type CommentWithOwner struct {
	Comment
	Owner UserSummary
}
