package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Djnirds1984/Hybrid-Router/internal/domain"
)

// FirewallRuleRepository defines domain-specific operations for firewall
// rules. FindAll returns rules by ascending (priority, id) so callers see
// them in evaluation order.
type FirewallRuleRepository interface {
	Repository[domain.FirewallRule, int64]
	SetEnforcementState(ctx context.Context, id int64, state domain.EnforcementState) error
}

type firewallRuleRepositoryImpl struct {
	db *sql.DB
}

// NewFirewallRuleRepository creates a new firewall rule repository
func NewFirewallRuleRepository(db *sql.DB) FirewallRuleRepository {
	return &firewallRuleRepositoryImpl{db: db}
}

const firewallColumns = "id, chain, action, protocol, source_ip, dest_ip, source_port, dest_port, enabled, priority, description, enforcement_state, created_at, updated_at"

func scanFirewallRule(row interface{ Scan(...any) error }) (domain.FirewallRule, error) {
	var rule domain.FirewallRule
	var createdAt, updatedAt string
	err := row.Scan(&rule.ID, &rule.Chain, &rule.Action, &rule.Protocol,
		&rule.SourceIP, &rule.DestIP, &rule.SourcePort, &rule.DestPort,
		&rule.Enabled, &rule.Priority, &rule.Description, &rule.Enforcement,
		&createdAt, &updatedAt)
	if err != nil {
		return domain.FirewallRule{}, err
	}
	rule.CreatedAt = parseTimestamp(createdAt)
	rule.UpdatedAt = parseTimestamp(updatedAt)
	return rule, nil
}

// Save creates or updates a firewall rule
func (r *firewallRuleRepositoryImpl) Save(ctx context.Context, rule domain.FirewallRule) (domain.FirewallRule, error) {
	if rule.ID == 0 {
		return r.create(ctx, rule)
	}
	return r.update(ctx, rule)
}

func (r *firewallRuleRepositoryImpl) create(ctx context.Context, rule domain.FirewallRule) (domain.FirewallRule, error) {
	if rule.Chain == "" || rule.Action == "" {
		return domain.FirewallRule{}, fmt.Errorf("%w: chain and action are required", ErrInvalidEntity)
	}
	if rule.Priority == 0 {
		rule.Priority = 100
	}

	result, err := r.db.ExecContext(ctx, `
		INSERT INTO firewall_rules (chain, action, protocol, source_ip, dest_ip, source_port, dest_port, enabled, priority, description, enforcement_state)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rule.Chain, rule.Action, rule.Protocol, rule.SourceIP, rule.DestIP,
		rule.SourcePort, rule.DestPort, rule.Enabled, rule.Priority,
		rule.Description, string(rule.Enforcement))
	if err != nil {
		return domain.FirewallRule{}, fmt.Errorf("failed to create firewall rule: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return domain.FirewallRule{}, fmt.Errorf("failed to get firewall rule ID: %w", err)
	}

	return r.FindByID(ctx, id)
}

func (r *firewallRuleRepositoryImpl) update(ctx context.Context, rule domain.FirewallRule) (domain.FirewallRule, error) {
	result, err := r.db.ExecContext(ctx, `
		UPDATE firewall_rules
		SET chain = ?, action = ?, protocol = ?, source_ip = ?, dest_ip = ?,
			source_port = ?, dest_port = ?, enabled = ?, priority = ?, description = ?,
			enforcement_state = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?`,
		rule.Chain, rule.Action, rule.Protocol, rule.SourceIP, rule.DestIP,
		rule.SourcePort, rule.DestPort, rule.Enabled, rule.Priority,
		rule.Description, string(rule.Enforcement), rule.ID)
	if err != nil {
		return domain.FirewallRule{}, fmt.Errorf("failed to update firewall rule: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return domain.FirewallRule{}, fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return domain.FirewallRule{}, fmt.Errorf("%w: firewall rule %d", ErrNotFound, rule.ID)
	}

	return r.FindByID(ctx, rule.ID)
}

// FindByID finds a firewall rule by ID
func (r *firewallRuleRepositoryImpl) FindByID(ctx context.Context, id int64) (domain.FirewallRule, error) {
	row := r.db.QueryRowContext(ctx, "SELECT "+firewallColumns+" FROM firewall_rules WHERE id = ?", id)
	rule, err := scanFirewallRule(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return domain.FirewallRule{}, fmt.Errorf("%w: firewall rule %d", ErrNotFound, id)
		}
		return domain.FirewallRule{}, fmt.Errorf("failed to find firewall rule: %w", err)
	}
	return rule, nil
}

// FindAll lists all firewall rules in evaluation order
func (r *firewallRuleRepositoryImpl) FindAll(ctx context.Context) ([]domain.FirewallRule, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT "+firewallColumns+" FROM firewall_rules ORDER BY priority, id")
	if err != nil {
		return nil, fmt.Errorf("failed to list firewall rules: %w", err)
	}
	defer rows.Close()

	var rules []domain.FirewallRule
	for rows.Next() {
		rule, err := scanFirewallRule(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan firewall rule: %w", err)
		}
		rules = append(rules, rule)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating firewall rules: %w", err)
	}

	return rules, nil
}

// DeleteByID removes a firewall rule by ID
func (r *firewallRuleRepositoryImpl) DeleteByID(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM firewall_rules WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete firewall rule: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: firewall rule %d", ErrNotFound, id)
	}
	return nil
}

// ExistsByID checks if a firewall rule exists by ID
func (r *firewallRuleRepositoryImpl) ExistsByID(ctx context.Context, id int64) (bool, error) {
	var count int
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM firewall_rules WHERE id = ?", id).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to check firewall rule existence: %w", err)
	}
	return count > 0, nil
}

// SetEnforcementState records the outcome of an enforcement attempt
func (r *firewallRuleRepositoryImpl) SetEnforcementState(ctx context.Context, id int64, state domain.EnforcementState) error {
	result, err := r.db.ExecContext(ctx,
		"UPDATE firewall_rules SET enforcement_state = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?",
		string(state), id)
	if err != nil {
		return fmt.Errorf("failed to set enforcement state: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: firewall rule %d", ErrNotFound, id)
	}
	return nil
}
