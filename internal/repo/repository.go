package repo

import (
	"errors"
	"fmt"
	"time"
)

// queryTimeout bounds every SQL round-trip.
const queryTimeout = 3 * time.Second

var (
	// ErrBakeryNotFound is returned when a bakery id does not exist.
	ErrBakeryNotFound = errors.New("bakery not found")
	// ErrBakedGoodNotFound is returned when a baked good id does not exist,
	// or when a single-row listing has no rows.
	ErrBakedGoodNotFound = errors.New("baked good not found")
	ErrInvalidOrderBy    = errors.New("invalid order by column")
)

// ListOptions orders and limits a listing. The zero value lists everything by id.
type ListOptions struct {
	OrderBy    string
	Descending bool
	// Limit <= 0 means no limit.
	Limit int
}

var sortableColumns = map[string]bool{
	"id":         true,
	"name":       true,
	"price":      true,
	"created_at": true,
}

func (o ListOptions) normalize() (ListOptions, error) {
	if o.OrderBy == "" {
		o.OrderBy = "id"
	}
	if !sortableColumns[o.OrderBy] {
		return o, fmt.Errorf("%w: %q", ErrInvalidOrderBy, o.OrderBy)
	}
	if o.Limit < 0 {
		o.Limit = 0
	}
	return o, nil
}

func (o ListOptions) direction() string {
	if o.Descending {
		return "DESC"
	}
	return "ASC"
}

// now is the timestamp stored in created_at/updated_at. Postgres keeps
// microseconds, so anything finer would not survive a round-trip.
func now() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}
