package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Predicate is the relationship an edge records.
type Predicate string

const (
	PredicateLike      Predicate = "LIKE"
	PredicateDislike   Predicate = "DISLIKE"
	PredicateSubscribe Predicate = "SUBSCRIBE"
)

// TargetKind is the kind of entity an edge points at.
type TargetKind string

const (
	TargetVideo   TargetKind = "VIDEO"
	TargetComment TargetKind = "COMMENT"
	TargetTweet   TargetKind = "TWEET"
	TargetChannel TargetKind = "CHANNEL"
)

// ParsePredicate accepts the lower-case route form ("like") as well as the
// stored form ("LIKE").
func ParsePredicate(s string) (Predicate, bool) {
	switch p := Predicate(strings.ToUpper(strings.TrimSpace(s))); p {
	case PredicateLike, PredicateDislike, PredicateSubscribe:
		return p, true
	}
	return "", false
}

// ParseTargetKind accepts full names and the single-letter route aliases
// (v, c, t).
func ParseTargetKind(s string) (TargetKind, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "v", "video":
		return TargetVideo, true
	case "c", "comment":
		return TargetComment, true
	case "t", "tweet":
		return TargetTweet, true
	case "channel":
		return TargetChannel, true
	}
	return "", false
}

// Opposite returns the mutually exclusive reaction for Like and Dislike.
func (p Predicate) Opposite() (Predicate, bool) {
	switch p {
	case PredicateLike:
		return PredicateDislike, true
	case PredicateDislike:
		return PredicateLike, true
	}
	return "", false
}

// Accepts reports whether the predicate can point at the given kind.
func (p Predicate) Accepts(kind TargetKind) bool {
	switch p {
	case PredicateSubscribe:
		return kind == TargetChannel
	case PredicateLike, PredicateDislike:
		return kind == TargetVideo || kind == TargetComment || kind == TargetTweet
	}
	return false
}

// Target identifies the entity at the far end of an edge.
type Target struct {
	Kind TargetKind
	ID   uuid.UUID
}

// EdgeKey is the unique identity of an edge.
type EdgeKey struct {
	SubjectID uuid.UUID
	Predicate Predicate
	Target    Target
}

// Edge is a stored relationship between a user and a target.
type Edge struct {
	ID         uuid.UUID  `db:"id" json:"_id"`
	SubjectID  uuid.UUID  `db:"subject_id" json:"subjectId"`
	Predicate  Predicate  `db:"predicate" json:"predicate"`
	TargetKind TargetKind `db:"target_kind" json:"targetKind"`
	TargetID   uuid.UUID  `db:"target_id" json:"targetId"`
	CreatedAt  time.Time  `db:"created_at" json:"createdAt"`
}

// NewEdge creates an edge for the given key.
func NewEdge(key EdgeKey) *Edge {
	return &Edge{
		ID:         uuid.New(),
		SubjectID:  key.SubjectID,
		Predicate:  key.Predicate,
		TargetKind: key.Target.Kind,
		TargetID:   key.Target.ID,
		CreatedAt:  time.Now(),
	}
}

// Key returns the unique identity of the edge.
func (e *Edge) Key() EdgeKey {
	return EdgeKey{
		SubjectID: e.SubjectID,
		Predicate: e.Predicate,
		Target:    Target{Kind: e.TargetKind, ID: e.TargetID},
	}
}
