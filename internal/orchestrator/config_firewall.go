package orchestrator

import (
	"context"
	"encoding/json"

	"github.com/Djnirds1984/Hybrid-Router/internal/domain"
)

// CreateFirewallRuleInput carries a new firewall rule intent. Priority
// defaults to 100 when omitted.
type CreateFirewallRuleInput struct {
	Chain       string
	Action      string
	Protocol    string
	SourceIP    string
	DestIP      string
	SourcePort  int64
	DestPort    int64
	Priority    int64
	Description string
	Enabled     *bool
}

// FirewallRulePatch is a partial update; nil fields are left untouched.
type FirewallRulePatch struct {
	Chain       *string
	Action      *string
	Protocol    *string
	SourceIP    *string
	DestIP      *string
	SourcePort  *int64
	DestPort    *int64
	Priority    *int64
	Description *string
	Enabled     *bool
}

// FirewallRules lists persisted rules in evaluation order.
func (o *Orchestrator) FirewallRules(ctx context.Context) ([]domain.FirewallRule, error) {
	return o.rules.FindAll(ctx)
}

func validateFirewallRule(rule domain.FirewallRule) error {
	if !domain.ValidEnum(rule.Chain, domain.FirewallChains) {
		return invalid("chain", "must be one of INPUT, FORWARD, OUTPUT")
	}
	if !domain.ValidEnum(rule.Action, domain.FirewallActions) {
		return invalid("action", "must be one of ACCEPT, DROP, REJECT")
	}
	if rule.Protocol != "" && !domain.ValidEnum(rule.Protocol, domain.FirewallProtos) {
		return invalid("protocol", "must be one of tcp, udp, icmp, all")
	}
	if rule.SourceIP != "" && !validIP(rule.SourceIP) {
		return invalid("source_ip", "must be a valid IP address")
	}
	if rule.DestIP != "" && !validIP(rule.DestIP) {
		return invalid("dest_ip", "must be a valid IP address")
	}
	if rule.SourcePort != 0 && !domain.ValidPort(rule.SourcePort) {
		return invalid("source_port", "must be between 1 and 65535")
	}
	if rule.DestPort != 0 && !domain.ValidPort(rule.DestPort) {
		return invalid("dest_port", "must be between 1 and 65535")
	}
	if rule.Priority != 0 && !domain.ValidPriority(rule.Priority) {
		return invalid("priority", "must be between 1 and 1000")
	}
	return nil
}

// CreateFirewallRule validates, persists and enforces a new rule.
func (o *Orchestrator) CreateFirewallRule(ctx context.Context, in CreateFirewallRuleInput) (domain.FirewallRule, error) {
	enabled := true
	if in.Enabled != nil {
		enabled = *in.Enabled
	}

	rule := domain.FirewallRule{
		Chain:       in.Chain,
		Action:      in.Action,
		Protocol:    in.Protocol,
		SourceIP:    in.SourceIP,
		DestIP:      in.DestIP,
		SourcePort:  in.SourcePort,
		DestPort:    in.DestPort,
		Priority:    in.Priority,
		Description: in.Description,
		Enabled:     enabled,
	}
	if err := validateFirewallRule(rule); err != nil {
		return domain.FirewallRule{}, err
	}

	saved, err := o.rules.Save(ctx, rule)
	if err != nil {
		return domain.FirewallRule{}, err
	}

	if saved.Enabled {
		if err := o.enforceFirewallRule(ctx, saved); err != nil {
			return o.reloadFirewallRule(ctx, saved.ID, err)
		}
	}

	return o.rules.FindByID(ctx, saved.ID)
}

// UpdateFirewallRule applies a partial update and re-enforces an enabled rule.
func (o *Orchestrator) UpdateFirewallRule(ctx context.Context, id int64, patch FirewallRulePatch) (domain.FirewallRule, error) {
	rule, err := o.rules.FindByID(ctx, id)
	if err != nil {
		return domain.FirewallRule{}, err
	}

	if patch.Chain != nil {
		rule.Chain = *patch.Chain
	}
	if patch.Action != nil {
		rule.Action = *patch.Action
	}
	if patch.Protocol != nil {
		rule.Protocol = *patch.Protocol
	}
	if patch.SourceIP != nil {
		rule.SourceIP = *patch.SourceIP
	}
	if patch.DestIP != nil {
		rule.DestIP = *patch.DestIP
	}
	if patch.SourcePort != nil {
		rule.SourcePort = *patch.SourcePort
	}
	if patch.DestPort != nil {
		rule.DestPort = *patch.DestPort
	}
	if patch.Priority != nil {
		// Unlike the optional ports, priority has no unset value; an
		// explicit zero is out of range, not a clear.
		if !domain.ValidPriority(*patch.Priority) {
			return domain.FirewallRule{}, invalid("priority", "must be between 1 and 1000")
		}
		rule.Priority = *patch.Priority
	}
	if patch.Description != nil {
		rule.Description = *patch.Description
	}
	if patch.Enabled != nil {
		rule.Enabled = *patch.Enabled
	}

	if err := validateFirewallRule(rule); err != nil {
		return domain.FirewallRule{}, err
	}

	saved, err := o.rules.Save(ctx, rule)
	if err != nil {
		return domain.FirewallRule{}, err
	}

	if saved.Enabled {
		if err := o.enforceFirewallRule(ctx, saved); err != nil {
			return o.reloadFirewallRule(ctx, saved.ID, err)
		}
	}

	return o.rules.FindByID(ctx, saved.ID)
}

// DeleteFirewallRule removes a rule.
func (o *Orchestrator) DeleteFirewallRule(ctx context.Context, id int64) error {
	return o.rules.DeleteByID(ctx, id)
}

// firewallRuleDoc is the rule document the firewall helper consumes.
func firewallRuleDoc(rule domain.FirewallRule) (string, error) {
	doc := map[string]any{
		"chain":  rule.Chain,
		"action": rule.Action,
	}
	if rule.Protocol != "" {
		doc["protocol"] = rule.Protocol
	}
	if rule.SourceIP != "" {
		doc["source_ip"] = rule.SourceIP
	}
	if rule.DestIP != "" {
		doc["dest_ip"] = rule.DestIP
	}
	if rule.SourcePort != 0 {
		doc["source_port"] = rule.SourcePort
	}
	if rule.DestPort != 0 {
		doc["dest_port"] = rule.DestPort
	}

	b, err := json.Marshal(doc)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func (o *Orchestrator) enforceFirewallRule(ctx context.Context, rule domain.FirewallRule) error {
	doc, err := firewallRuleDoc(rule)
	if err != nil {
		return err
	}
	return o.enforce(ctx, o.rules.SetEnforcementState, rule.ID,
		"firewall", "add_firewall_rule", []string{doc})
}

func (o *Orchestrator) reloadFirewallRule(ctx context.Context, id int64, enforceErr error) (domain.FirewallRule, error) {
	rule, err := o.rules.FindByID(ctx, id)
	if err != nil {
		return domain.FirewallRule{}, err
	}
	return rule, enforceErr
}
