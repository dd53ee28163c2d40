package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Djnirds1984/Hybrid-Router/internal/domain"
)

// UserRepository defines persistence for API users
type UserRepository interface {
	Create(ctx context.Context, user domain.User) (domain.User, error)
	FindByID(ctx context.Context, id int64) (domain.User, error)
	FindByUsername(ctx context.Context, username string) (domain.User, error)
	UpdatePassword(ctx context.Context, id int64, hash string) error
	Count(ctx context.Context) (int, error)
}

type userRepositoryImpl struct {
	db *sql.DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *sql.DB) UserRepository {
	return &userRepositoryImpl{db: db}
}

const userColumns = "id, username, password, role, created_at, updated_at"

func scanUser(row interface{ Scan(...any) error }) (domain.User, error) {
	var u domain.User
	var createdAt, updatedAt string
	err := row.Scan(&u.ID, &u.Username, &u.Password, &u.Role, &createdAt, &updatedAt)
	if err != nil {
		return domain.User{}, err
	}
	u.CreatedAt = parseTimestamp(createdAt)
	u.UpdatedAt = parseTimestamp(updatedAt)
	return u, nil
}

// Create inserts a new user, failing with ErrDuplicate on a taken username
func (r *userRepositoryImpl) Create(ctx context.Context, user domain.User) (domain.User, error) {
	if user.Username == "" || user.Password == "" {
		return domain.User{}, fmt.Errorf("%w: username and password are required", ErrInvalidEntity)
	}

	var count int
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM users WHERE username = ?", user.Username).Scan(&count)
	if err != nil {
		return domain.User{}, fmt.Errorf("failed to check for duplicate username: %w", err)
	}
	if count > 0 {
		return domain.User{}, fmt.Errorf("%w: username '%s'", ErrDuplicate, user.Username)
	}

	result, err := r.db.ExecContext(ctx,
		"INSERT INTO users (username, password, role) VALUES (?, ?, ?)",
		user.Username, user.Password, user.Role)
	if err != nil {
		return domain.User{}, fmt.Errorf("failed to create user: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return domain.User{}, fmt.Errorf("failed to get user ID: %w", err)
	}

	return r.FindByID(ctx, id)
}

// FindByID finds a user by ID
func (r *userRepositoryImpl) FindByID(ctx context.Context, id int64) (domain.User, error) {
	row := r.db.QueryRowContext(ctx, "SELECT "+userColumns+" FROM users WHERE id = ?", id)
	u, err := scanUser(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return domain.User{}, fmt.Errorf("%w: user %d", ErrNotFound, id)
		}
		return domain.User{}, fmt.Errorf("failed to find user: %w", err)
	}
	return u, nil
}

// FindByUsername finds a user by username
func (r *userRepositoryImpl) FindByUsername(ctx context.Context, username string) (domain.User, error) {
	row := r.db.QueryRowContext(ctx, "SELECT "+userColumns+" FROM users WHERE username = ?", username)
	u, err := scanUser(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return domain.User{}, fmt.Errorf("%w: user '%s'", ErrNotFound, username)
		}
		return domain.User{}, fmt.Errorf("failed to find user: %w", err)
	}
	return u, nil
}

// UpdatePassword replaces the stored password hash
func (r *userRepositoryImpl) UpdatePassword(ctx context.Context, id int64, hash string) error {
	result, err := r.db.ExecContext(ctx,
		"UPDATE users SET password = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?", hash, id)
	if err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: user %d", ErrNotFound, id)
	}
	return nil
}

// Count returns the number of users
func (r *userRepositoryImpl) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM users").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count users: %w", err)
	}
	return count, nil
}
