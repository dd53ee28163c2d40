package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Djnirds1984/Hybrid-Router/internal/domain"
)

// InterfaceRepository defines domain-specific operations for managed
// network interfaces
type InterfaceRepository interface {
	Repository[domain.Interface, int64]
	FindByName(ctx context.Context, name string) (domain.Interface, error)
	SetEnforcementState(ctx context.Context, id int64, state domain.EnforcementState) error
}

type interfaceRepositoryImpl struct {
	db *sql.DB
}

// NewInterfaceRepository creates a new interface repository
func NewInterfaceRepository(db *sql.DB) InterfaceRepository {
	return &interfaceRepositoryImpl{db: db}
}

const interfaceColumns = "id, name, kind, enabled, configuration, enforcement_state, created_at, updated_at"

func scanInterface(row interface{ Scan(...any) error }) (domain.Interface, error) {
	var iface domain.Interface
	var createdAt, updatedAt string
	err := row.Scan(&iface.ID, &iface.Name, &iface.Kind, &iface.Enabled,
		&iface.Configuration, &iface.Enforcement, &createdAt, &updatedAt)
	if err != nil {
		return domain.Interface{}, err
	}
	iface.CreatedAt = parseTimestamp(createdAt)
	iface.UpdatedAt = parseTimestamp(updatedAt)
	return iface, nil
}

// Save creates or updates an interface
func (r *interfaceRepositoryImpl) Save(ctx context.Context, iface domain.Interface) (domain.Interface, error) {
	if iface.ID == 0 {
		return r.create(ctx, iface)
	}
	return r.update(ctx, iface)
}

func (r *interfaceRepositoryImpl) create(ctx context.Context, iface domain.Interface) (domain.Interface, error) {
	if iface.Name == "" {
		return domain.Interface{}, fmt.Errorf("%w: interface name is required", ErrInvalidEntity)
	}
	if iface.Kind == "" {
		return domain.Interface{}, fmt.Errorf("%w: interface kind is required", ErrInvalidEntity)
	}

	var count int
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM interfaces WHERE name = ?", iface.Name).Scan(&count)
	if err != nil {
		return domain.Interface{}, fmt.Errorf("failed to check for duplicate interface name: %w", err)
	}
	if count > 0 {
		return domain.Interface{}, fmt.Errorf("%w: interface name '%s'", ErrDuplicate, iface.Name)
	}

	result, err := r.db.ExecContext(ctx, `
		INSERT INTO interfaces (name, kind, enabled, configuration, enforcement_state)
		VALUES (?, ?, ?, ?, ?)`,
		iface.Name, iface.Kind, iface.Enabled, iface.Configuration, string(iface.Enforcement))
	if err != nil {
		return domain.Interface{}, fmt.Errorf("failed to create interface: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return domain.Interface{}, fmt.Errorf("failed to get interface ID: %w", err)
	}

	return r.FindByID(ctx, id)
}

func (r *interfaceRepositoryImpl) update(ctx context.Context, iface domain.Interface) (domain.Interface, error) {
	var count int
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM interfaces WHERE name = ? AND id != ?", iface.Name, iface.ID).Scan(&count)
	if err != nil {
		return domain.Interface{}, fmt.Errorf("failed to check for duplicate interface name: %w", err)
	}
	if count > 0 {
		return domain.Interface{}, fmt.Errorf("%w: interface name '%s'", ErrDuplicate, iface.Name)
	}

	result, err := r.db.ExecContext(ctx, `
		UPDATE interfaces
		SET name = ?, kind = ?, enabled = ?, configuration = ?, enforcement_state = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?`,
		iface.Name, iface.Kind, iface.Enabled, iface.Configuration, string(iface.Enforcement), iface.ID)
	if err != nil {
		return domain.Interface{}, fmt.Errorf("failed to update interface: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return domain.Interface{}, fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return domain.Interface{}, fmt.Errorf("%w: interface %d", ErrNotFound, iface.ID)
	}

	return r.FindByID(ctx, iface.ID)
}

// FindByID finds an interface by ID
func (r *interfaceRepositoryImpl) FindByID(ctx context.Context, id int64) (domain.Interface, error) {
	row := r.db.QueryRowContext(ctx, "SELECT "+interfaceColumns+" FROM interfaces WHERE id = ?", id)
	iface, err := scanInterface(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return domain.Interface{}, fmt.Errorf("%w: interface %d", ErrNotFound, id)
		}
		return domain.Interface{}, fmt.Errorf("failed to find interface: %w", err)
	}
	return iface, nil
}

// FindByName finds an interface by its unique name
func (r *interfaceRepositoryImpl) FindByName(ctx context.Context, name string) (domain.Interface, error) {
	row := r.db.QueryRowContext(ctx, "SELECT "+interfaceColumns+" FROM interfaces WHERE name = ?", name)
	iface, err := scanInterface(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return domain.Interface{}, fmt.Errorf("%w: interface '%s'", ErrNotFound, name)
		}
		return domain.Interface{}, fmt.Errorf("failed to find interface: %w", err)
	}
	return iface, nil
}

// FindAll lists all interfaces ordered by name
func (r *interfaceRepositoryImpl) FindAll(ctx context.Context) ([]domain.Interface, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT "+interfaceColumns+" FROM interfaces ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("failed to list interfaces: %w", err)
	}
	defer rows.Close()

	var ifaces []domain.Interface
	for rows.Next() {
		iface, err := scanInterface(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan interface: %w", err)
		}
		ifaces = append(ifaces, iface)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating interfaces: %w", err)
	}

	return ifaces, nil
}

// DeleteByID removes an interface by ID. DHCP pools referencing the
// interface are removed with it.
func (r *interfaceRepositoryImpl) DeleteByID(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM interfaces WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete interface: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: interface %d", ErrNotFound, id)
	}
	return nil
}

// ExistsByID checks if an interface exists by ID
func (r *interfaceRepositoryImpl) ExistsByID(ctx context.Context, id int64) (bool, error) {
	var count int
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM interfaces WHERE id = ?", id).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to check interface existence: %w", err)
	}
	return count > 0, nil
}

// SetEnforcementState records the outcome of an enforcement attempt
func (r *interfaceRepositoryImpl) SetEnforcementState(ctx context.Context, id int64, state domain.EnforcementState) error {
	result, err := r.db.ExecContext(ctx,
		"UPDATE interfaces SET enforcement_state = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?",
		string(state), id)
	if err != nil {
		return fmt.Errorf("failed to set enforcement state: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: interface %d", ErrNotFound, id)
	}
	return nil
}
