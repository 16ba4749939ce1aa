// Package service holds the business logic of the videotube API: the
// relationship toggle, the viewer-relative aggregate views and the content
// services around them.
package service

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/videotube/videotube-api/internal/models"
)

// Transactor runs fn in a transaction carried by ctx.
type Transactor interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// EventPublisher delivers activity events after a change commits.
type EventPublisher interface {
	PublishEdgeToggled(ctx context.Context, event *models.EdgeEvent) error
}

// PageQuery is a raw page request. Zero values take the policy defaults.
type PageQuery struct {
	Page  int
	Limit int
	Sort  string
}

// requireViewer parses the authenticated viewer id.
func requireViewer(raw string) (uuid.UUID, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return uuid.Nil, &UnauthorizedError{Message: "authentication required"}
	}
	id, err := uuid.Parse(raw)
	if err != nil || id == uuid.Nil {
		return uuid.Nil, &UnauthorizedError{Message: "invalid viewer identity"}
	}
	return id, nil
}

// optionalViewer parses a viewer id that may be absent. Anonymous viewers
// get uuid.Nil, for which every viewer-relative flag is false.
func optionalViewer(raw string) (uuid.UUID, error) {
	if strings.TrimSpace(raw) == "" {
		return uuid.Nil, nil
	}
	return requireViewer(raw)
}
