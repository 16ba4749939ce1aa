// Package validation checks identifiers and free-text fields before they
// reach the store.
package validation

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
)

// DefaultMaxContentLength bounds comment and description text.
const DefaultMaxContentLength = 5000

var usernameRegex = regexp.MustCompile(`^[a-zA-Z0-9_.-]{1,50}$`)

type Validator struct {
	maxContentLength int
}

func New(maxContentLength int) *Validator {
	if maxContentLength <= 0 {
		maxContentLength = DefaultMaxContentLength
	}
	return &Validator{maxContentLength: maxContentLength}
}

// ParseID parses a required identifier. field names it in the error.
func (v *Validator) ParseID(field, raw string) (uuid.UUID, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return uuid.Nil, fmt.Errorf("%s is required", field)
	}
	id, err := uuid.Parse(raw)
	if err != nil || id == uuid.Nil {
		return uuid.Nil, fmt.Errorf("invalid %s: %s", field, raw)
	}
	return id, nil
}

// ParseOptionalID parses an identifier that may be empty. An empty value
// yields uuid.Nil.
func (v *Validator) ParseOptionalID(field, raw string) (uuid.UUID, error) {
	if strings.TrimSpace(raw) == "" {
		return uuid.Nil, nil
	}
	return v.ParseID(field, raw)
}

// ParseIDs parses a non-empty list of identifiers, dropping duplicates while
// keeping the first occurrence order.
func (v *Validator) ParseIDs(field string, raws []string) ([]uuid.UUID, error) {
	if len(raws) == 0 {
		return nil, fmt.Errorf("%s must not be empty", field)
	}

	seen := make(map[uuid.UUID]struct{}, len(raws))
	ids := make([]uuid.UUID, 0, len(raws))
	for _, raw := range raws {
		id, err := v.ParseID(field, raw)
		if err != nil {
			return nil, err
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	return ids, nil
}

// Content trims text and checks it is non-empty and within the length limit.
func (v *Validator) Content(field, text string) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", fmt.Errorf("%s is required", field)
	}
	if utf8.RuneCountInString(text) > v.maxContentLength {
		return "", fmt.Errorf("%s exceeds maximum length of %d characters", field, v.maxContentLength)
	}
	return text, nil
}

func (v *Validator) IsValidUsername(username string) bool {
	return usernameRegex.MatchString(strings.TrimSpace(username))
}
