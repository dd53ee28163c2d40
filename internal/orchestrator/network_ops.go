package orchestrator

import (
	"context"
	"encoding/json"

	"github.com/Djnirds1984/Hybrid-Router/internal/domain"
)

// NetworkInterfaces reads the live interface list from the helper.
func (o *Orchestrator) NetworkInterfaces(ctx context.Context) (json.RawMessage, error) {
	result, err := o.exec.Invoke(ctx, "network", "list_interfaces", nil)
	if err != nil {
		return nil, err
	}
	return result.Payload, nil
}

// NetworkStatus reads live connectivity information from the helper.
func (o *Orchestrator) NetworkStatus(ctx context.Context) (json.RawMessage, error) {
	result, err := o.exec.Invoke(ctx, "network", "network_status", nil)
	if err != nil {
		return nil, err
	}
	return result.Payload, nil
}

// ConfigureInterface pushes an ad-hoc interface configuration to the live
// system without touching the configuration store.
func (o *Orchestrator) ConfigureInterface(ctx context.Context, name, configuration string) error {
	if name == "" {
		return invalid("interface", "must not be empty")
	}
	if configuration == "" {
		configuration = "{}"
	}
	if !validJSONObject(configuration) {
		return invalid("config", "must be a JSON object")
	}

	_, err := o.exec.Invoke(ctx, "network", "configure_interface", []string{name, configuration})
	return err
}

// DhcpLeases reads the active lease table from the helper.
func (o *Orchestrator) DhcpLeases(ctx context.Context) (json.RawMessage, error) {
	result, err := o.exec.Invoke(ctx, "dhcp", "dhcp_leases", nil)
	if err != nil {
		return nil, err
	}
	return result.Payload, nil
}

// LiveFirewallRules reads the rules currently loaded in the kernel, which
// may differ from the persisted rule set.
func (o *Orchestrator) LiveFirewallRules(ctx context.Context) (json.RawMessage, error) {
	result, err := o.exec.Invoke(ctx, "firewall", "firewall_rules", nil)
	if err != nil {
		return nil, err
	}
	return result.Payload, nil
}

// AddLiveFirewallRule pushes a rule straight to the live firewall without
// persisting it.
func (o *Orchestrator) AddLiveFirewallRule(ctx context.Context, in CreateFirewallRuleInput) error {
	rule := domain.FirewallRule{
		Chain:      in.Chain,
		Action:     in.Action,
		Protocol:   in.Protocol,
		SourceIP:   in.SourceIP,
		DestIP:     in.DestIP,
		SourcePort: in.SourcePort,
		DestPort:   in.DestPort,
	}
	if err := validateFirewallRule(rule); err != nil {
		return err
	}

	doc, err := firewallRuleDoc(rule)
	if err != nil {
		return err
	}
	_, err = o.exec.Invoke(ctx, "firewall", "add_firewall_rule", []string{doc})
	return err
}

// EnableNAT turns on address translation between a WAN and a LAN
// interface. Repeat calls with the same arguments are safe; the helper
// reports already-enabled as success.
func (o *Orchestrator) EnableNAT(ctx context.Context, method, wan, lan string) error {
	if !domain.ValidEnum(method, domain.NATMethods) {
		return invalid("method", "must be one of nftables, iptables")
	}
	if wan == "" {
		return invalid("wan", "must not be empty")
	}
	if lan == "" {
		return invalid("lan", "must not be empty")
	}

	_, err := o.exec.Invoke(ctx, "firewall", "enable_nat", []string{method, wan, lan})
	return err
}

// DisableNAT turns off address translation.
func (o *Orchestrator) DisableNAT(ctx context.Context, method string) error {
	if !domain.ValidEnum(method, domain.NATMethods) {
		return invalid("method", "must be one of nftables, iptables")
	}

	_, err := o.exec.Invoke(ctx, "firewall", "disable_nat", []string{method})
	return err
}

// NATStatus reads the current translation state from the helper.
func (o *Orchestrator) NATStatus(ctx context.Context) (json.RawMessage, error) {
	result, err := o.exec.Invoke(ctx, "firewall", "nat_status", nil)
	if err != nil {
		return nil, err
	}
	return result.Payload, nil
}
