package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Djnirds1984/Hybrid-Router/internal/domain"
)

// DhcpPoolRepository defines domain-specific operations for DHCP pools
type DhcpPoolRepository interface {
	Repository[domain.DhcpPool, int64]
	FindByInterfaceID(ctx context.Context, interfaceID int64) ([]domain.DhcpPool, error)
	SetEnforcementState(ctx context.Context, id int64, state domain.EnforcementState) error
}

type dhcpPoolRepositoryImpl struct {
	db *sql.DB
}

// NewDhcpPoolRepository creates a new DHCP pool repository
func NewDhcpPoolRepository(db *sql.DB) DhcpPoolRepository {
	return &dhcpPoolRepositoryImpl{db: db}
}

const dhcpColumns = "id, interface_id, start_ip, end_ip, subnet_mask, lease_time, gateway, dns_servers, enabled, enforcement_state, created_at, updated_at"

func scanDhcpPool(row interface{ Scan(...any) error }) (domain.DhcpPool, error) {
	var pool domain.DhcpPool
	var createdAt, updatedAt string
	err := row.Scan(&pool.ID, &pool.InterfaceID, &pool.StartIP, &pool.EndIP,
		&pool.SubnetMask, &pool.LeaseTime, &pool.Gateway, &pool.DNSServers,
		&pool.Enabled, &pool.Enforcement, &createdAt, &updatedAt)
	if err != nil {
		return domain.DhcpPool{}, err
	}
	pool.CreatedAt = parseTimestamp(createdAt)
	pool.UpdatedAt = parseTimestamp(updatedAt)
	return pool, nil
}

// Save creates or updates a DHCP pool
func (r *dhcpPoolRepositoryImpl) Save(ctx context.Context, pool domain.DhcpPool) (domain.DhcpPool, error) {
	if pool.ID == 0 {
		return r.create(ctx, pool)
	}
	return r.update(ctx, pool)
}

func (r *dhcpPoolRepositoryImpl) create(ctx context.Context, pool domain.DhcpPool) (domain.DhcpPool, error) {
	if pool.InterfaceID == 0 {
		return domain.DhcpPool{}, fmt.Errorf("%w: interface_id is required", ErrInvalidEntity)
	}
	if pool.StartIP == "" || pool.EndIP == "" || pool.SubnetMask == "" {
		return domain.DhcpPool{}, fmt.Errorf("%w: start_ip, end_ip and subnet_mask are required", ErrInvalidEntity)
	}

	result, err := r.db.ExecContext(ctx, `
		INSERT INTO dhcp_config (interface_id, start_ip, end_ip, subnet_mask, lease_time, gateway, dns_servers, enabled, enforcement_state)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		pool.InterfaceID, pool.StartIP, pool.EndIP, pool.SubnetMask, pool.LeaseTime,
		pool.Gateway, pool.DNSServers, pool.Enabled, string(pool.Enforcement))
	if err != nil {
		return domain.DhcpPool{}, fmt.Errorf("failed to create dhcp pool: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return domain.DhcpPool{}, fmt.Errorf("failed to get dhcp pool ID: %w", err)
	}

	return r.FindByID(ctx, id)
}

func (r *dhcpPoolRepositoryImpl) update(ctx context.Context, pool domain.DhcpPool) (domain.DhcpPool, error) {
	result, err := r.db.ExecContext(ctx, `
		UPDATE dhcp_config
		SET interface_id = ?, start_ip = ?, end_ip = ?, subnet_mask = ?, lease_time = ?,
			gateway = ?, dns_servers = ?, enabled = ?, enforcement_state = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?`,
		pool.InterfaceID, pool.StartIP, pool.EndIP, pool.SubnetMask, pool.LeaseTime,
		pool.Gateway, pool.DNSServers, pool.Enabled, string(pool.Enforcement), pool.ID)
	if err != nil {
		return domain.DhcpPool{}, fmt.Errorf("failed to update dhcp pool: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return domain.DhcpPool{}, fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return domain.DhcpPool{}, fmt.Errorf("%w: dhcp pool %d", ErrNotFound, pool.ID)
	}

	return r.FindByID(ctx, pool.ID)
}

// FindByID finds a DHCP pool by ID
func (r *dhcpPoolRepositoryImpl) FindByID(ctx context.Context, id int64) (domain.DhcpPool, error) {
	row := r.db.QueryRowContext(ctx, "SELECT "+dhcpColumns+" FROM dhcp_config WHERE id = ?", id)
	pool, err := scanDhcpPool(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return domain.DhcpPool{}, fmt.Errorf("%w: dhcp pool %d", ErrNotFound, id)
		}
		return domain.DhcpPool{}, fmt.Errorf("failed to find dhcp pool: %w", err)
	}
	return pool, nil
}

// FindAll lists all DHCP pools ordered by id
func (r *dhcpPoolRepositoryImpl) FindAll(ctx context.Context) ([]domain.DhcpPool, error) {
	return r.query(ctx, "SELECT "+dhcpColumns+" FROM dhcp_config ORDER BY id")
}

// FindByInterfaceID lists the pools configured for one interface
func (r *dhcpPoolRepositoryImpl) FindByInterfaceID(ctx context.Context, interfaceID int64) ([]domain.DhcpPool, error) {
	return r.query(ctx, "SELECT "+dhcpColumns+" FROM dhcp_config WHERE interface_id = ? ORDER BY id", interfaceID)
}

func (r *dhcpPoolRepositoryImpl) query(ctx context.Context, q string, args ...any) ([]domain.DhcpPool, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list dhcp pools: %w", err)
	}
	defer rows.Close()

	var pools []domain.DhcpPool
	for rows.Next() {
		pool, err := scanDhcpPool(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan dhcp pool: %w", err)
		}
		pools = append(pools, pool)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating dhcp pools: %w", err)
	}

	return pools, nil
}

// DeleteByID removes a DHCP pool by ID
func (r *dhcpPoolRepositoryImpl) DeleteByID(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM dhcp_config WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete dhcp pool: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: dhcp pool %d", ErrNotFound, id)
	}
	return nil
}

// ExistsByID checks if a DHCP pool exists by ID
func (r *dhcpPoolRepositoryImpl) ExistsByID(ctx context.Context, id int64) (bool, error) {
	var count int
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM dhcp_config WHERE id = ?", id).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to check dhcp pool existence: %w", err)
	}
	return count > 0, nil
}

// SetEnforcementState records the outcome of an enforcement attempt
func (r *dhcpPoolRepositoryImpl) SetEnforcementState(ctx context.Context, id int64, state domain.EnforcementState) error {
	result, err := r.db.ExecContext(ctx,
		"UPDATE dhcp_config SET enforcement_state = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?",
		string(state), id)
	if err != nil {
		return fmt.Errorf("failed to set enforcement state: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: dhcp pool %d", ErrNotFound, id)
	}
	return nil
}
