package repository

import (
	"context"
	"time"
)

// Repository defines the basic operations shared by the configuration
// entity repositories.
type Repository[T any, ID comparable] interface {
	// Save creates the entity when its ID is zero, otherwise updates it.
	// Updates refresh updated_at and return ErrNotFound for a missing row.
	Save(ctx context.Context, entity T) (T, error)

	// FindByID retrieves an entity by its ID
	// Returns ErrNotFound if the entity doesn't exist
	FindByID(ctx context.Context, id ID) (T, error)

	// FindAll retrieves all entities in the repository's defined order
	FindAll(ctx context.Context) ([]T, error)

	// DeleteByID deletes an entity by its ID
	// Returns ErrNotFound if the entity doesn't exist
	DeleteByID(ctx context.Context, id ID) error

	// ExistsByID checks if an entity exists by its ID
	ExistsByID(ctx context.Context, id ID) (bool, error)
}

// sqlite stores DATETIME defaults as "YYYY-MM-DD HH:MM:SS" text; rows
// written by older builds may carry RFC3339. parseTimestamp accepts both.
func parseTimestamp(s string) time.Time {
	for _, layout := range []string{"2006-01-02 15:04:05", time.RFC3339, "2006-01-02 15:04:05.999999999-07:00"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
