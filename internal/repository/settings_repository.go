package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Djnirds1984/Hybrid-Router/internal/domain"
)

// SettingsRepository is the flat key/value store for system settings. Keys
// are seeded by migration; Set only updates existing keys, Create adds new
// ones.
type SettingsRepository interface {
	Get(ctx context.Context, key string) (domain.Setting, error)
	Set(ctx context.Context, key, value string) (domain.Setting, error)
	Create(ctx context.Context, setting domain.Setting) (domain.Setting, error)
	All(ctx context.Context) ([]domain.Setting, error)
}

type settingsRepositoryImpl struct {
	db *sql.DB
}

// NewSettingsRepository creates a new settings repository
func NewSettingsRepository(db *sql.DB) SettingsRepository {
	return &settingsRepositoryImpl{db: db}
}

// Get retrieves a setting by key
func (r *settingsRepositoryImpl) Get(ctx context.Context, key string) (domain.Setting, error) {
	var s domain.Setting
	var updatedAt string
	err := r.db.QueryRowContext(ctx,
		"SELECT key, value, description, updated_at FROM system_settings WHERE key = ?", key).
		Scan(&s.Key, &s.Value, &s.Description, &updatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return domain.Setting{}, fmt.Errorf("%w: setting '%s'", ErrNotFound, key)
		}
		return domain.Setting{}, fmt.Errorf("failed to get setting: %w", err)
	}
	s.UpdatedAt = parseTimestamp(updatedAt)
	return s, nil
}

// Set updates the value of an existing setting, refreshing updated_at
func (r *settingsRepositoryImpl) Set(ctx context.Context, key, value string) (domain.Setting, error) {
	result, err := r.db.ExecContext(ctx,
		"UPDATE system_settings SET value = ?, updated_at = CURRENT_TIMESTAMP WHERE key = ?", value, key)
	if err != nil {
		return domain.Setting{}, fmt.Errorf("failed to update setting: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return domain.Setting{}, fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return domain.Setting{}, fmt.Errorf("%w: setting '%s'", ErrNotFound, key)
	}

	return r.Get(ctx, key)
}

// Create inserts a new setting, failing with ErrDuplicate on an existing key
func (r *settingsRepositoryImpl) Create(ctx context.Context, setting domain.Setting) (domain.Setting, error) {
	if setting.Key == "" {
		return domain.Setting{}, fmt.Errorf("%w: setting key is required", ErrInvalidEntity)
	}

	var count int
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM system_settings WHERE key = ?", setting.Key).Scan(&count)
	if err != nil {
		return domain.Setting{}, fmt.Errorf("failed to check for duplicate setting key: %w", err)
	}
	if count > 0 {
		return domain.Setting{}, fmt.Errorf("%w: setting '%s'", ErrDuplicate, setting.Key)
	}

	_, err = r.db.ExecContext(ctx,
		"INSERT INTO system_settings (key, value, description) VALUES (?, ?, ?)",
		setting.Key, setting.Value, setting.Description)
	if err != nil {
		return domain.Setting{}, fmt.Errorf("failed to create setting: %w", err)
	}

	return r.Get(ctx, setting.Key)
}

// All lists every setting ordered by key
func (r *settingsRepositoryImpl) All(ctx context.Context) ([]domain.Setting, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT key, value, description, updated_at FROM system_settings ORDER BY key")
	if err != nil {
		return nil, fmt.Errorf("failed to list settings: %w", err)
	}
	defer rows.Close()

	var settings []domain.Setting
	for rows.Next() {
		var s domain.Setting
		var updatedAt string
		if err := rows.Scan(&s.Key, &s.Value, &s.Description, &updatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan setting: %w", err)
		}
		s.UpdatedAt = parseTimestamp(updatedAt)
		settings = append(settings, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating settings: %w", err)
	}

	return settings, nil
}
