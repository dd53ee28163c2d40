package orchestrator

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"
)

// Backup row shapes. The export is a wire format of its own, kept stable
// independently of the domain structs.

type BackupInterface struct {
	ID            int64  `json:"id"`
	Name          string `json:"name"`
	Type          string `json:"type"`
	Enabled       bool   `json:"enabled"`
	Configuration string `json:"configuration"`
	CreatedAt     string `json:"created_at"`
	UpdatedAt     string `json:"updated_at"`
}

type BackupDhcpPool struct {
	ID          int64  `json:"id"`
	InterfaceID int64  `json:"interface_id"`
	StartIP     string `json:"start_ip"`
	EndIP       string `json:"end_ip"`
	SubnetMask  string `json:"subnet_mask"`
	LeaseTime   int64  `json:"lease_time"`
	Gateway     string `json:"gateway,omitempty"`
	DNSServers  string `json:"dns_servers,omitempty"`
	Enabled     bool   `json:"enabled"`
}

type BackupFirewallRule struct {
	ID          int64  `json:"id"`
	Chain       string `json:"chain"`
	Action      string `json:"action"`
	Protocol    string `json:"protocol,omitempty"`
	SourceIP    string `json:"source_ip,omitempty"`
	DestIP      string `json:"dest_ip,omitempty"`
	SourcePort  int64  `json:"source_port,omitempty"`
	DestPort    int64  `json:"dest_port,omitempty"`
	Enabled     bool   `json:"enabled"`
	Priority    int64  `json:"priority"`
	Description string `json:"description,omitempty"`
}

type BackupPortForward struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	ExternalPort int64  `json:"external_port"`
	InternalIP   string `json:"internal_ip"`
	InternalPort int64  `json:"internal_port"`
	Protocol     string `json:"protocol"`
	Enabled      bool   `json:"enabled"`
	Description  string `json:"description,omitempty"`
}

// BackupSetting is the value/description pair keyed by setting name.
type BackupSetting struct {
	Value       string `json:"value"`
	Description string `json:"description"`
}

// BackupDocument is the full configuration export. It contains every row
// of every configuration table, disabled entries included.
type BackupDocument struct {
	Timestamp      time.Time                `json:"timestamp"`
	Version        string                   `json:"version"`
	Interfaces     []BackupInterface        `json:"interfaces"`
	DhcpConfig     []BackupDhcpPool         `json:"dhcp_config"`
	FirewallRules  []BackupFirewallRule     `json:"firewall_rules"`
	PortForwarding []BackupPortForward      `json:"port_forwarding"`
	Settings       map[string]BackupSetting `json:"settings"`
}

// Backup collects the five configuration tables concurrently and merges
// them into a single export document. Any table failure aborts the whole
// export.
func (o *Orchestrator) Backup(ctx context.Context) (BackupDocument, error) {
	doc := BackupDocument{
		Timestamp:      time.Now().UTC(),
		Version:        BackupVersion,
		Interfaces:     []BackupInterface{},
		DhcpConfig:     []BackupDhcpPool{},
		FirewallRules:  []BackupFirewallRule{},
		PortForwarding: []BackupPortForward{},
		Settings:       make(map[string]BackupSetting),
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		ifaces, err := o.interfaces.FindAll(ctx)
		if err != nil {
			return err
		}
		for _, i := range ifaces {
			doc.Interfaces = append(doc.Interfaces, BackupInterface{
				ID:            i.ID,
				Name:          i.Name,
				Type:          i.Kind,
				Enabled:       i.Enabled,
				Configuration: i.Configuration,
				CreatedAt:     i.CreatedAt.UTC().Format(time.RFC3339),
				UpdatedAt:     i.UpdatedAt.UTC().Format(time.RFC3339),
			})
		}
		return nil
	})

	g.Go(func() error {
		pools, err := o.pools.FindAll(ctx)
		if err != nil {
			return err
		}
		for _, p := range pools {
			doc.DhcpConfig = append(doc.DhcpConfig, BackupDhcpPool{
				ID:          p.ID,
				InterfaceID: p.InterfaceID,
				StartIP:     p.StartIP,
				EndIP:       p.EndIP,
				SubnetMask:  p.SubnetMask,
				LeaseTime:   p.LeaseTime,
				Gateway:     p.Gateway,
				DNSServers:  p.DNSServers,
				Enabled:     p.Enabled,
			})
		}
		return nil
	})

	g.Go(func() error {
		rules, err := o.rules.FindAll(ctx)
		if err != nil {
			return err
		}
		for _, r := range rules {
			doc.FirewallRules = append(doc.FirewallRules, BackupFirewallRule{
				ID:          r.ID,
				Chain:       r.Chain,
				Action:      r.Action,
				Protocol:    r.Protocol,
				SourceIP:    r.SourceIP,
				DestIP:      r.DestIP,
				SourcePort:  r.SourcePort,
				DestPort:    r.DestPort,
				Enabled:     r.Enabled,
				Priority:    r.Priority,
				Description: r.Description,
			})
		}
		return nil
	})

	g.Go(func() error {
		fwds, err := o.forwards.FindAllIncludingDisabled(ctx)
		if err != nil {
			return err
		}
		for _, f := range fwds {
			doc.PortForwarding = append(doc.PortForwarding, BackupPortForward{
				ID:           f.ID,
				Name:         f.Name,
				ExternalPort: f.ExternalPort,
				InternalIP:   f.InternalIP,
				InternalPort: f.InternalPort,
				Protocol:     f.Protocol,
				Enabled:      f.Enabled,
				Description:  f.Description,
			})
		}
		return nil
	})

	g.Go(func() error {
		settings, err := o.settings.All(ctx)
		if err != nil {
			return err
		}
		for _, s := range settings {
			doc.Settings[s.Key] = BackupSetting{Value: s.Value, Description: s.Description}
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return BackupDocument{}, err
	}

	return doc, nil
}
