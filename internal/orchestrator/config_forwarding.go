package orchestrator

import (
	"context"

	"github.com/Djnirds1984/Hybrid-Router/internal/domain"
)

// CreatePortForwardInput carries a new port forwarding intent.
type CreatePortForwardInput struct {
	Name         string
	ExternalPort int64
	InternalIP   string
	InternalPort int64
	Protocol     string
	Description  string
	Enabled      *bool
}

// PortForwardPatch is a partial update; nil fields are left untouched.
type PortForwardPatch struct {
	Name         *string
	ExternalPort *int64
	InternalIP   *string
	InternalPort *int64
	Protocol     *string
	Description  *string
	Enabled      *bool
}

// PortForwards lists enabled entries ordered by name.
func (o *Orchestrator) PortForwards(ctx context.Context) ([]domain.PortForward, error) {
	return o.forwards.FindAll(ctx)
}

func validatePortForward(fwd domain.PortForward) error {
	if fwd.Name == "" {
		return invalid("name", "must not be empty")
	}
	if !domain.ValidPort(fwd.ExternalPort) {
		return invalid("external_port", "must be between 1 and 65535")
	}
	if !validIP(fwd.InternalIP) {
		return invalid("internal_ip", "must be a valid IP address")
	}
	if !domain.ValidPort(fwd.InternalPort) {
		return invalid("internal_port", "must be between 1 and 65535")
	}
	if !domain.ValidEnum(fwd.Protocol, domain.ForwardProtos) {
		return invalid("protocol", "must be one of tcp, udp, both")
	}
	return nil
}

// CreatePortForward validates and persists a new entry. There is no helper
// operation for port forwarding; entries stay untracked until a NAT refresh
// picks them up out of band.
func (o *Orchestrator) CreatePortForward(ctx context.Context, in CreatePortForwardInput) (domain.PortForward, error) {
	enabled := true
	if in.Enabled != nil {
		enabled = *in.Enabled
	}

	fwd := domain.PortForward{
		Name:         in.Name,
		ExternalPort: in.ExternalPort,
		InternalIP:   in.InternalIP,
		InternalPort: in.InternalPort,
		Protocol:     in.Protocol,
		Description:  in.Description,
		Enabled:      enabled,
	}
	if err := validatePortForward(fwd); err != nil {
		return domain.PortForward{}, err
	}

	return o.forwards.Save(ctx, fwd)
}

// UpdatePortForward applies a partial update to an existing entry.
func (o *Orchestrator) UpdatePortForward(ctx context.Context, id int64, patch PortForwardPatch) (domain.PortForward, error) {
	fwd, err := o.forwards.FindByID(ctx, id)
	if err != nil {
		return domain.PortForward{}, err
	}

	if patch.Name != nil {
		fwd.Name = *patch.Name
	}
	if patch.ExternalPort != nil {
		fwd.ExternalPort = *patch.ExternalPort
	}
	if patch.InternalIP != nil {
		fwd.InternalIP = *patch.InternalIP
	}
	if patch.InternalPort != nil {
		fwd.InternalPort = *patch.InternalPort
	}
	if patch.Protocol != nil {
		fwd.Protocol = *patch.Protocol
	}
	if patch.Description != nil {
		fwd.Description = *patch.Description
	}
	if patch.Enabled != nil {
		fwd.Enabled = *patch.Enabled
	}

	if err := validatePortForward(fwd); err != nil {
		return domain.PortForward{}, err
	}

	return o.forwards.Save(ctx, fwd)
}

// DeletePortForward removes an entry.
func (o *Orchestrator) DeletePortForward(ctx context.Context, id int64) error {
	return o.forwards.DeleteByID(ctx, id)
}
