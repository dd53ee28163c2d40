package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Djnirds1984/Hybrid-Router/internal/domain"
)

// PortForwardRepository defines domain-specific operations for port
// forwarding entries. FindAll deliberately hides disabled entries, which is
// what API listings want; the backup export uses FindAllIncludingDisabled.
type PortForwardRepository interface {
	Repository[domain.PortForward, int64]
	FindAllIncludingDisabled(ctx context.Context) ([]domain.PortForward, error)
	SetEnforcementState(ctx context.Context, id int64, state domain.EnforcementState) error
}

type portForwardRepositoryImpl struct {
	db *sql.DB
}

// NewPortForwardRepository creates a new port forward repository
func NewPortForwardRepository(db *sql.DB) PortForwardRepository {
	return &portForwardRepositoryImpl{db: db}
}

const portForwardColumns = "id, name, external_port, internal_ip, internal_port, protocol, enabled, description, enforcement_state, created_at, updated_at"

func scanPortForward(row interface{ Scan(...any) error }) (domain.PortForward, error) {
	var fwd domain.PortForward
	var createdAt, updatedAt string
	err := row.Scan(&fwd.ID, &fwd.Name, &fwd.ExternalPort, &fwd.InternalIP,
		&fwd.InternalPort, &fwd.Protocol, &fwd.Enabled, &fwd.Description,
		&fwd.Enforcement, &createdAt, &updatedAt)
	if err != nil {
		return domain.PortForward{}, err
	}
	fwd.CreatedAt = parseTimestamp(createdAt)
	fwd.UpdatedAt = parseTimestamp(updatedAt)
	return fwd, nil
}

// Save creates or updates a port forward entry
func (r *portForwardRepositoryImpl) Save(ctx context.Context, fwd domain.PortForward) (domain.PortForward, error) {
	if fwd.ID == 0 {
		return r.create(ctx, fwd)
	}
	return r.update(ctx, fwd)
}

func (r *portForwardRepositoryImpl) create(ctx context.Context, fwd domain.PortForward) (domain.PortForward, error) {
	if fwd.Name == "" {
		return domain.PortForward{}, fmt.Errorf("%w: name is required", ErrInvalidEntity)
	}
	if fwd.InternalIP == "" || fwd.Protocol == "" {
		return domain.PortForward{}, fmt.Errorf("%w: internal_ip and protocol are required", ErrInvalidEntity)
	}

	result, err := r.db.ExecContext(ctx, `
		INSERT INTO port_forwarding (name, external_port, internal_ip, internal_port, protocol, enabled, description, enforcement_state)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		fwd.Name, fwd.ExternalPort, fwd.InternalIP, fwd.InternalPort,
		fwd.Protocol, fwd.Enabled, fwd.Description, string(fwd.Enforcement))
	if err != nil {
		return domain.PortForward{}, fmt.Errorf("failed to create port forward: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return domain.PortForward{}, fmt.Errorf("failed to get port forward ID: %w", err)
	}

	return r.FindByID(ctx, id)
}

func (r *portForwardRepositoryImpl) update(ctx context.Context, fwd domain.PortForward) (domain.PortForward, error) {
	result, err := r.db.ExecContext(ctx, `
		UPDATE port_forwarding
		SET name = ?, external_port = ?, internal_ip = ?, internal_port = ?,
			protocol = ?, enabled = ?, description = ?, enforcement_state = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?`,
		fwd.Name, fwd.ExternalPort, fwd.InternalIP, fwd.InternalPort,
		fwd.Protocol, fwd.Enabled, fwd.Description, string(fwd.Enforcement), fwd.ID)
	if err != nil {
		return domain.PortForward{}, fmt.Errorf("failed to update port forward: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return domain.PortForward{}, fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return domain.PortForward{}, fmt.Errorf("%w: port forward %d", ErrNotFound, fwd.ID)
	}

	return r.FindByID(ctx, fwd.ID)
}

// FindByID finds a port forward entry by ID
func (r *portForwardRepositoryImpl) FindByID(ctx context.Context, id int64) (domain.PortForward, error) {
	row := r.db.QueryRowContext(ctx, "SELECT "+portForwardColumns+" FROM port_forwarding WHERE id = ?", id)
	fwd, err := scanPortForward(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return domain.PortForward{}, fmt.Errorf("%w: port forward %d", ErrNotFound, id)
		}
		return domain.PortForward{}, fmt.Errorf("failed to find port forward: %w", err)
	}
	return fwd, nil
}

// FindAll lists enabled port forwards ordered by name
func (r *portForwardRepositoryImpl) FindAll(ctx context.Context) ([]domain.PortForward, error) {
	return r.query(ctx, "SELECT "+portForwardColumns+" FROM port_forwarding WHERE enabled = 1 ORDER BY name")
}

// FindAllIncludingDisabled lists every entry, used by the backup export
func (r *portForwardRepositoryImpl) FindAllIncludingDisabled(ctx context.Context) ([]domain.PortForward, error) {
	return r.query(ctx, "SELECT "+portForwardColumns+" FROM port_forwarding ORDER BY name")
}

func (r *portForwardRepositoryImpl) query(ctx context.Context, q string, args ...any) ([]domain.PortForward, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list port forwards: %w", err)
	}
	defer rows.Close()

	var fwds []domain.PortForward
	for rows.Next() {
		fwd, err := scanPortForward(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan port forward: %w", err)
		}
		fwds = append(fwds, fwd)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating port forwards: %w", err)
	}

	return fwds, nil
}

// DeleteByID removes a port forward entry by ID
func (r *portForwardRepositoryImpl) DeleteByID(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM port_forwarding WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete port forward: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: port forward %d", ErrNotFound, id)
	}
	return nil
}

// ExistsByID checks if a port forward entry exists by ID
func (r *portForwardRepositoryImpl) ExistsByID(ctx context.Context, id int64) (bool, error) {
	var count int
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM port_forwarding WHERE id = ?", id).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to check port forward existence: %w", err)
	}
	return count > 0, nil
}

// SetEnforcementState records the outcome of an enforcement attempt
func (r *portForwardRepositoryImpl) SetEnforcementState(ctx context.Context, id int64, state domain.EnforcementState) error {
	result, err := r.db.ExecContext(ctx,
		"UPDATE port_forwarding SET enforcement_state = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?",
		string(state), id)
	if err != nil {
		return fmt.Errorf("failed to set enforcement state: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: port forward %d", ErrNotFound, id)
	}
	return nil
}
