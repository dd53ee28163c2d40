package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/Djnirds1984/Hybrid-Router/internal/domain"
	"github.com/Djnirds1984/Hybrid-Router/internal/testutil"
)

func TestUserRepository_Create(t *testing.T) {
	db, cleanup := testutil.SetupTestDBWithMigrations(t, "TestUserRepository_Create")
	defer cleanup()

	repo := NewUserRepository(db)

	user, err := repo.Create(context.Background(), domain.User{
		Username: "admin",
		Password: "$2a$10$notarealhashbutlongenough",
		Role:     "admin",
	})
	if err != nil {
		t.Fatalf("Failed to create user: %v", err)
	}
	if user.ID == 0 {
		t.Error("Expected user ID to be set")
	}

	// Duplicate username
	_, err = repo.Create(context.Background(), domain.User{
		Username: "admin",
		Password: "$2a$10$anotherhash",
	})
	if !errors.Is(err, ErrDuplicate) {
		t.Errorf("Expected ErrDuplicate, got %v", err)
	}

	// Missing fields
	_, err = repo.Create(context.Background(), domain.User{Username: "nopass"})
	if !errors.Is(err, ErrInvalidEntity) {
		t.Errorf("Expected ErrInvalidEntity, got %v", err)
	}
}

func TestUserRepository_FindByUsername(t *testing.T) {
	db, cleanup := testutil.SetupTestDBWithMigrations(t, "TestUserRepository_FindByUsername")
	defer cleanup()

	repo := NewUserRepository(db)

	created, err := repo.Create(context.Background(), domain.User{
		Username: "admin",
		Password: "$2a$10$notarealhashbutlongenough",
		Role:     "admin",
	})
	if err != nil {
		t.Fatalf("Failed to create user: %v", err)
	}

	found, err := repo.FindByUsername(context.Background(), "admin")
	if err != nil {
		t.Fatalf("Failed to find user: %v", err)
	}
	if found.ID != created.ID {
		t.Errorf("Expected ID %d, got %d", created.ID, found.ID)
	}

	_, err = repo.FindByUsername(context.Background(), "ghost")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestUserRepository_UpdatePassword(t *testing.T) {
	db, cleanup := testutil.SetupTestDBWithMigrations(t, "TestUserRepository_UpdatePassword")
	defer cleanup()

	repo := NewUserRepository(db)

	user, err := repo.Create(context.Background(), domain.User{
		Username: "admin",
		Password: "$2a$10$oldhash",
		Role:     "admin",
	})
	if err != nil {
		t.Fatalf("Failed to create user: %v", err)
	}

	if err := repo.UpdatePassword(context.Background(), user.ID, "$2a$10$newhash"); err != nil {
		t.Fatalf("Failed to update password: %v", err)
	}

	found, err := repo.FindByID(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("Failed to find user: %v", err)
	}
	if found.Password != "$2a$10$newhash" {
		t.Errorf("Expected updated password hash, got %s", found.Password)
	}

	err = repo.UpdatePassword(context.Background(), 9999, "$2a$10$hash")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestUserRepository_Count(t *testing.T) {
	db, cleanup := testutil.SetupTestDBWithMigrations(t, "TestUserRepository_Count")
	defer cleanup()

	repo := NewUserRepository(db)

	count, err := repo.Count(context.Background())
	if err != nil {
		t.Fatalf("Failed to count users: %v", err)
	}
	if count != 0 {
		t.Errorf("Expected 0 users, got %d", count)
	}

	_, err = repo.Create(context.Background(), domain.User{Username: "admin", Password: "$2a$10$hash"})
	if err != nil {
		t.Fatalf("Failed to create user: %v", err)
	}

	count, err = repo.Count(context.Background())
	if err != nil {
		t.Fatalf("Failed to count users: %v", err)
	}
	if count != 1 {
		t.Errorf("Expected 1 user, got %d", count)
	}
}
