package orchestrator

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/Djnirds1984/Hybrid-Router/internal/domain"
)

// setStateFunc matches the SetEnforcementState method of the repositories.
type setStateFunc func(ctx context.Context, id int64, state domain.EnforcementState) error

// enforce pushes one persisted row to the live system and records the
// outcome. The row survives a failed attempt; the caller still sees the
// executor error so the API can report it.
func (o *Orchestrator) enforce(ctx context.Context, setState setStateFunc, id int64, target, operation string, args []string) error {
	if err := setState(ctx, id, domain.EnforcementPending); err != nil {
		return err
	}

	if _, err := o.exec.Invoke(ctx, target, operation, args); err != nil {
		if stateErr := setState(ctx, id, domain.EnforcementFailed); stateErr != nil {
			log.Error().Err(stateErr).Int64("id", id).Str("target", target).
				Msg("failed to record enforcement failure")
		}
		return err
	}

	return setState(ctx, id, domain.EnforcementApplied)
}
