package orchestrator

import (
	"context"

	"github.com/Djnirds1984/Hybrid-Router/internal/domain"
)

// Settings lists every system setting ordered by key.
func (o *Orchestrator) Settings(ctx context.Context) ([]domain.Setting, error) {
	return o.settings.All(ctx)
}

// UpdateSetting replaces the value of an existing setting.
func (o *Orchestrator) UpdateSetting(ctx context.Context, key, value string) (domain.Setting, error) {
	if value == "" {
		return domain.Setting{}, invalid("value", "must not be empty")
	}
	return o.settings.Set(ctx, key, value)
}
