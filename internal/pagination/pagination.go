// Package pagination turns page, limit and sort query values into a window
// over a created_at ordered result set.
package pagination

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Direction is the created_at sort direction.
type Direction string

const (
	Ascending  Direction = "asc"
	Descending Direction = "desc"
)

const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100

	// MaxSkip bounds the row offset so far-away pages stay valid for the
	// database and come back empty.
	MaxSkip = math.MaxInt32
)

// ErrInvalidQuery is wrapped by ParseQuery errors.
var ErrInvalidQuery = errors.New("invalid pagination query")

// Policy holds the configurable limits.
type Policy struct {
	DefaultLimit int
	MaxLimit     int
}

// DefaultPolicy returns the policy used when none is configured.
func DefaultPolicy() Policy {
	return Policy{DefaultLimit: DefaultLimit, MaxLimit: MaxLimit}
}

// Window is a resolved page request.
type Window struct {
	Page      int
	Limit     int
	Skip      int
	Direction Direction
}

// Paginate resolves page, limit and sort. Values below 1 fall back to the
// defaults; limit is capped at the policy maximum. Sort is case-insensitive
// and anything other than "asc" means descending.
func (p Policy) Paginate(page, limit int, sort string) Window {
	if p.DefaultLimit < 1 {
		p.DefaultLimit = DefaultLimit
	}
	if page < 1 {
		page = DefaultPage
	}
	if limit < 1 {
		limit = p.DefaultLimit
	}
	if p.MaxLimit > 0 && limit > p.MaxLimit {
		limit = p.MaxLimit
	}

	return Window{
		Page:      page,
		Limit:     limit,
		Skip:      skip(page, limit),
		Direction: ParseDirection(sort),
	}
}

func skip(page, limit int) int {
	if page-1 > MaxSkip/limit {
		return MaxSkip
	}
	return (page - 1) * limit
}

// ParseDirection maps a sort value to a direction, defaulting to descending.
func ParseDirection(sort string) Direction {
	if strings.EqualFold(strings.TrimSpace(sort), string(Ascending)) {
		return Ascending
	}
	return Descending
}

// OrderDir returns the SQL keyword for the direction.
func (w Window) OrderDir() string {
	if w.Direction == Ascending {
		return "ASC"
	}
	return "DESC"
}

// TotalPages returns ceil(total/limit).
func (w Window) TotalPages(total int) int {
	if w.Limit < 1 || total <= 0 {
		return 0
	}
	return (total + w.Limit - 1) / w.Limit
}

// ParseQuery converts raw page and limit query values. Empty values yield 0,
// which Paginate replaces with the defaults.
func ParseQuery(rawPage, rawLimit string) (page, limit int, err error) {
	if page, err = parsePositive("page", rawPage); err != nil {
		return 0, 0, err
	}
	if limit, err = parsePositive("limit", rawLimit); err != nil {
		return 0, 0, err
	}
	return page, limit, nil
}

func parsePositive(name, raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: %s must be a number", ErrInvalidQuery, name)
	}
	if n < 1 {
		return 0, fmt.Errorf("%w: %s must be at least 1", ErrInvalidQuery, name)
	}
	return n, nil
}
