package orchestrator

import (
	"context"
	"encoding/json"

	"github.com/Djnirds1984/Hybrid-Router/internal/domain"
)

// CreateDhcpPoolInput carries a new DHCP pool intent. LeaseTime defaults to
// 86400 seconds when omitted.
type CreateDhcpPoolInput struct {
	InterfaceID int64
	StartIP     string
	EndIP       string
	SubnetMask  string
	LeaseTime   int64
	Gateway     string
	DNSServers  string
	Enabled     *bool
}

// DhcpPoolPatch is a partial update; nil fields are left untouched.
type DhcpPoolPatch struct {
	StartIP    *string
	EndIP      *string
	SubnetMask *string
	LeaseTime  *int64
	Gateway    *string
	DNSServers *string
	Enabled    *bool
}

// DhcpPools lists all persisted pools.
func (o *Orchestrator) DhcpPools(ctx context.Context) ([]domain.DhcpPool, error) {
	return o.pools.FindAll(ctx)
}

func (o *Orchestrator) validateDhcpPool(pool domain.DhcpPool) error {
	if !validIP(pool.StartIP) {
		return invalid("start_ip", "must be a valid IP address")
	}
	if !validIP(pool.EndIP) {
		return invalid("end_ip", "must be a valid IP address")
	}
	if !validIP(pool.SubnetMask) {
		return invalid("subnet_mask", "must be a valid IP address")
	}
	if !domain.ValidLeaseTime(pool.LeaseTime) {
		return invalid("lease_time", "must be between 300 and 86400 seconds")
	}
	if pool.Gateway != "" && !validIP(pool.Gateway) {
		return invalid("gateway", "must be a valid IP address")
	}
	if pool.DNSServers != "" && !validDNSServers(pool.DNSServers) {
		return invalid("dns_servers", "must be a comma-separated list of IP addresses")
	}
	return nil
}

// CreateDhcpPool validates, persists and enforces a new pool. The
// referenced interface must already exist.
func (o *Orchestrator) CreateDhcpPool(ctx context.Context, in CreateDhcpPoolInput) (domain.DhcpPool, error) {
	if in.InterfaceID < 1 {
		return domain.DhcpPool{}, invalid("interface_id", "must be a positive integer")
	}
	exists, err := o.interfaces.ExistsByID(ctx, in.InterfaceID)
	if err != nil {
		return domain.DhcpPool{}, err
	}
	if !exists {
		return domain.DhcpPool{}, invalid("interface_id", "interface does not exist")
	}

	if in.LeaseTime == 0 {
		in.LeaseTime = 86400
	}
	enabled := true
	if in.Enabled != nil {
		enabled = *in.Enabled
	}

	pool := domain.DhcpPool{
		InterfaceID: in.InterfaceID,
		StartIP:     in.StartIP,
		EndIP:       in.EndIP,
		SubnetMask:  in.SubnetMask,
		LeaseTime:   in.LeaseTime,
		Gateway:     in.Gateway,
		DNSServers:  in.DNSServers,
		Enabled:     enabled,
	}
	if err := o.validateDhcpPool(pool); err != nil {
		return domain.DhcpPool{}, err
	}

	saved, err := o.pools.Save(ctx, pool)
	if err != nil {
		return domain.DhcpPool{}, err
	}

	if saved.Enabled {
		if err := o.enforceDhcpPool(ctx, saved); err != nil {
			return o.reloadDhcpPool(ctx, saved.ID, err)
		}
	}

	return o.pools.FindByID(ctx, saved.ID)
}

// UpdateDhcpPool applies a partial update and re-enforces an enabled pool.
func (o *Orchestrator) UpdateDhcpPool(ctx context.Context, id int64, patch DhcpPoolPatch) (domain.DhcpPool, error) {
	pool, err := o.pools.FindByID(ctx, id)
	if err != nil {
		return domain.DhcpPool{}, err
	}

	if patch.StartIP != nil {
		pool.StartIP = *patch.StartIP
	}
	if patch.EndIP != nil {
		pool.EndIP = *patch.EndIP
	}
	if patch.SubnetMask != nil {
		pool.SubnetMask = *patch.SubnetMask
	}
	if patch.LeaseTime != nil {
		pool.LeaseTime = *patch.LeaseTime
	}
	if patch.Gateway != nil {
		pool.Gateway = *patch.Gateway
	}
	if patch.DNSServers != nil {
		pool.DNSServers = *patch.DNSServers
	}
	if patch.Enabled != nil {
		pool.Enabled = *patch.Enabled
	}

	if err := o.validateDhcpPool(pool); err != nil {
		return domain.DhcpPool{}, err
	}

	saved, err := o.pools.Save(ctx, pool)
	if err != nil {
		return domain.DhcpPool{}, err
	}

	if saved.Enabled {
		if err := o.enforceDhcpPool(ctx, saved); err != nil {
			return o.reloadDhcpPool(ctx, saved.ID, err)
		}
	}

	return o.pools.FindByID(ctx, saved.ID)
}

// DeleteDhcpPool removes a pool.
func (o *Orchestrator) DeleteDhcpPool(ctx context.Context, id int64) error {
	return o.pools.DeleteByID(ctx, id)
}

// enforceDhcpPool pushes the pool to the DHCP helper. The helper takes one
// JSON document naming the interface and the pool parameters.
func (o *Orchestrator) enforceDhcpPool(ctx context.Context, pool domain.DhcpPool) error {
	iface, err := o.interfaces.FindByID(ctx, pool.InterfaceID)
	if err != nil {
		return err
	}

	doc, err := json.Marshal(map[string]any{
		"interface":   iface.Name,
		"start_ip":    pool.StartIP,
		"end_ip":      pool.EndIP,
		"subnet_mask": pool.SubnetMask,
		"lease_time":  pool.LeaseTime,
		"gateway":     pool.Gateway,
		"dns_servers": pool.DNSServers,
	})
	if err != nil {
		return err
	}

	return o.enforce(ctx, o.pools.SetEnforcementState, pool.ID,
		"dhcp", "configure_dhcp", []string{string(doc)})
}

func (o *Orchestrator) reloadDhcpPool(ctx context.Context, id int64, enforceErr error) (domain.DhcpPool, error) {
	pool, err := o.pools.FindByID(ctx, id)
	if err != nil {
		return domain.DhcpPool{}, err
	}
	return pool, enforceErr
}
