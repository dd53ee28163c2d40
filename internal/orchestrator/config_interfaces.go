package orchestrator

import (
	"context"

	"github.com/Djnirds1984/Hybrid-Router/internal/domain"
)

// CreateInterfaceInput carries a new interface intent. Enabled defaults to
// true and Configuration to an empty object when omitted.
type CreateInterfaceInput struct {
	Name          string
	Kind          string
	Enabled       *bool
	Configuration string
}

// InterfacePatch is a partial update; nil fields are left untouched.
type InterfacePatch struct {
	Enabled       *bool
	Configuration *string
}

// Interfaces lists all persisted interfaces ordered by name.
func (o *Orchestrator) Interfaces(ctx context.Context) ([]domain.Interface, error) {
	return o.interfaces.FindAll(ctx)
}

// CreateInterface validates, persists and enforces a new interface. When
// the interface is enabled the live configuration is pushed immediately;
// a failed push keeps the row with enforcement_state recording the failure.
func (o *Orchestrator) CreateInterface(ctx context.Context, in CreateInterfaceInput) (domain.Interface, error) {
	if in.Name == "" {
		return domain.Interface{}, invalid("name", "must not be empty")
	}
	if !domain.ValidEnum(in.Kind, domain.InterfaceKinds) {
		return domain.Interface{}, invalid("type", "must be one of ethernet, wireless, vlan")
	}

	cfg := in.Configuration
	if cfg == "" {
		cfg = "{}"
	}
	if !validJSONObject(cfg) {
		return domain.Interface{}, invalid("configuration", "must be a JSON object")
	}

	enabled := true
	if in.Enabled != nil {
		enabled = *in.Enabled
	}

	saved, err := o.interfaces.Save(ctx, domain.Interface{
		Name:          in.Name,
		Kind:          in.Kind,
		Enabled:       enabled,
		Configuration: cfg,
	})
	if err != nil {
		return domain.Interface{}, err
	}

	if saved.Enabled {
		if err := o.enforce(ctx, o.interfaces.SetEnforcementState, saved.ID,
			"network", "configure_interface", []string{saved.Name, saved.Configuration}); err != nil {
			return o.reloadInterface(ctx, saved.ID, err)
		}
	}

	return o.interfaces.FindByID(ctx, saved.ID)
}

// UpdateInterface applies a partial update to an existing interface and
// re-enforces it when it ends up enabled.
func (o *Orchestrator) UpdateInterface(ctx context.Context, id int64, patch InterfacePatch) (domain.Interface, error) {
	iface, err := o.interfaces.FindByID(ctx, id)
	if err != nil {
		return domain.Interface{}, err
	}

	if patch.Enabled != nil {
		iface.Enabled = *patch.Enabled
	}
	if patch.Configuration != nil {
		if !validJSONObject(*patch.Configuration) {
			return domain.Interface{}, invalid("configuration", "must be a JSON object")
		}
		iface.Configuration = *patch.Configuration
	}

	saved, err := o.interfaces.Save(ctx, iface)
	if err != nil {
		return domain.Interface{}, err
	}

	if saved.Enabled {
		if err := o.enforce(ctx, o.interfaces.SetEnforcementState, saved.ID,
			"network", "configure_interface", []string{saved.Name, saved.Configuration}); err != nil {
			return o.reloadInterface(ctx, saved.ID, err)
		}
	}

	return o.interfaces.FindByID(ctx, saved.ID)
}

// DeleteInterface removes an interface and its DHCP pools.
func (o *Orchestrator) DeleteInterface(ctx context.Context, id int64) error {
	return o.interfaces.DeleteByID(ctx, id)
}

// reloadInterface returns the row in its post-enforcement state alongside
// the enforcement error.
func (o *Orchestrator) reloadInterface(ctx context.Context, id int64, enforceErr error) (domain.Interface, error) {
	iface, err := o.interfaces.FindByID(ctx, id)
	if err != nil {
		return domain.Interface{}, err
	}
	return iface, enforceErr
}
