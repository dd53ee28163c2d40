package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/Djnirds1984/Hybrid-Router/internal/domain"
	"github.com/Djnirds1984/Hybrid-Router/internal/testutil"
)

func TestInterfaceRepository_Save(t *testing.T) {
	db, cleanup := testutil.SetupTestDBWithMigrations(t, "TestInterfaceRepository_Save")
	defer cleanup()

	repo := NewInterfaceRepository(db)

	// Test creating a new interface
	iface := domain.Interface{
		Name:          "eth0",
		Kind:          "ethernet",
		Enabled:       true,
		Configuration: `{"mode":"dhcp"}`,
	}

	saved, err := repo.Save(context.Background(), iface)
	if err != nil {
		t.Fatalf("Failed to save interface: %v", err)
	}

	if saved.ID == 0 {
		t.Error("Expected interface ID to be set")
	}
	if saved.Name != iface.Name {
		t.Errorf("Expected name %s, got %s", iface.Name, saved.Name)
	}
	if saved.Configuration != iface.Configuration {
		t.Errorf("Expected configuration %s, got %s", iface.Configuration, saved.Configuration)
	}

	// Test updating the interface
	saved.Enabled = false
	updated, err := repo.Save(context.Background(), saved)
	if err != nil {
		t.Fatalf("Failed to update interface: %v", err)
	}

	if updated.Enabled {
		t.Error("Expected interface to be disabled after update")
	}
}

func TestInterfaceRepository_Save_DuplicateName(t *testing.T) {
	db, cleanup := testutil.SetupTestDBWithMigrations(t, "TestInterfaceRepository_Save_DuplicateName")
	defer cleanup()

	repo := NewInterfaceRepository(db)

	_, err := repo.Save(context.Background(), domain.Interface{Name: "eth0", Kind: "ethernet"})
	if err != nil {
		t.Fatalf("Failed to save interface: %v", err)
	}

	_, err = repo.Save(context.Background(), domain.Interface{Name: "eth0", Kind: "ethernet"})
	if !errors.Is(err, ErrDuplicate) {
		t.Errorf("Expected ErrDuplicate, got %v", err)
	}
}

func TestInterfaceRepository_Save_MissingFields(t *testing.T) {
	db, cleanup := testutil.SetupTestDBWithMigrations(t, "TestInterfaceRepository_Save_MissingFields")
	defer cleanup()

	repo := NewInterfaceRepository(db)

	_, err := repo.Save(context.Background(), domain.Interface{Kind: "ethernet"})
	if !errors.Is(err, ErrInvalidEntity) {
		t.Errorf("Expected ErrInvalidEntity for missing name, got %v", err)
	}

	_, err = repo.Save(context.Background(), domain.Interface{Name: "eth0"})
	if !errors.Is(err, ErrInvalidEntity) {
		t.Errorf("Expected ErrInvalidEntity for missing kind, got %v", err)
	}
}

func TestInterfaceRepository_FindByID(t *testing.T) {
	db, cleanup := testutil.SetupTestDBWithMigrations(t, "TestInterfaceRepository_FindByID")
	defer cleanup()

	repo := NewInterfaceRepository(db)

	saved, err := repo.Save(context.Background(), domain.Interface{Name: "wlan0", Kind: "wireless"})
	if err != nil {
		t.Fatalf("Failed to save interface: %v", err)
	}

	found, err := repo.FindByID(context.Background(), saved.ID)
	if err != nil {
		t.Fatalf("Failed to find interface: %v", err)
	}

	if found.ID != saved.ID {
		t.Errorf("Expected ID %d, got %d", saved.ID, found.ID)
	}
	if found.Name != "wlan0" {
		t.Errorf("Expected name wlan0, got %s", found.Name)
	}

	// Not found case
	_, err = repo.FindByID(context.Background(), 9999)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestInterfaceRepository_FindByName(t *testing.T) {
	db, cleanup := testutil.SetupTestDBWithMigrations(t, "TestInterfaceRepository_FindByName")
	defer cleanup()

	repo := NewInterfaceRepository(db)

	_, err := repo.Save(context.Background(), domain.Interface{Name: "eth1", Kind: "ethernet"})
	if err != nil {
		t.Fatalf("Failed to save interface: %v", err)
	}

	found, err := repo.FindByName(context.Background(), "eth1")
	if err != nil {
		t.Fatalf("Failed to find interface: %v", err)
	}
	if found.Name != "eth1" {
		t.Errorf("Expected name eth1, got %s", found.Name)
	}

	_, err = repo.FindByName(context.Background(), "missing0")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestInterfaceRepository_FindAll(t *testing.T) {
	db, cleanup := testutil.SetupTestDBWithMigrations(t, "TestInterfaceRepository_FindAll")
	defer cleanup()

	repo := NewInterfaceRepository(db)

	for _, name := range []string{"wlan0", "eth0", "eth1"} {
		if _, err := repo.Save(context.Background(), domain.Interface{Name: name, Kind: "ethernet"}); err != nil {
			t.Fatalf("Failed to save interface %s: %v", name, err)
		}
	}

	ifaces, err := repo.FindAll(context.Background())
	if err != nil {
		t.Fatalf("Failed to list interfaces: %v", err)
	}

	if len(ifaces) != 3 {
		t.Fatalf("Expected 3 interfaces, got %d", len(ifaces))
	}

	// Listed sorted by name
	expected := []string{"eth0", "eth1", "wlan0"}
	for i, want := range expected {
		if ifaces[i].Name != want {
			t.Errorf("Expected interface %d to be %s, got %s", i, want, ifaces[i].Name)
		}
	}
}

func TestInterfaceRepository_DeleteByID(t *testing.T) {
	db, cleanup := testutil.SetupTestDBWithMigrations(t, "TestInterfaceRepository_DeleteByID")
	defer cleanup()

	repo := NewInterfaceRepository(db)

	saved, err := repo.Save(context.Background(), domain.Interface{Name: "eth0", Kind: "ethernet"})
	if err != nil {
		t.Fatalf("Failed to save interface: %v", err)
	}

	if err := repo.DeleteByID(context.Background(), saved.ID); err != nil {
		t.Fatalf("Failed to delete interface: %v", err)
	}

	_, err = repo.FindByID(context.Background(), saved.ID)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound after delete, got %v", err)
	}

	// Deleting again should report not found
	err = repo.DeleteByID(context.Background(), saved.ID)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound on second delete, got %v", err)
	}
}

func TestInterfaceRepository_SetEnforcementState(t *testing.T) {
	db, cleanup := testutil.SetupTestDBWithMigrations(t, "TestInterfaceRepository_SetEnforcementState")
	defer cleanup()

	repo := NewInterfaceRepository(db)

	saved, err := repo.Save(context.Background(), domain.Interface{Name: "eth0", Kind: "ethernet"})
	if err != nil {
		t.Fatalf("Failed to save interface: %v", err)
	}
	if saved.Enforcement != domain.EnforcementUntracked {
		t.Errorf("Expected untracked enforcement state, got %q", saved.Enforcement)
	}

	if err := repo.SetEnforcementState(context.Background(), saved.ID, domain.EnforcementApplied); err != nil {
		t.Fatalf("Failed to set enforcement state: %v", err)
	}

	found, err := repo.FindByID(context.Background(), saved.ID)
	if err != nil {
		t.Fatalf("Failed to find interface: %v", err)
	}
	if found.Enforcement != domain.EnforcementApplied {
		t.Errorf("Expected enforcement state %q, got %q", domain.EnforcementApplied, found.Enforcement)
	}

	err = repo.SetEnforcementState(context.Background(), 9999, domain.EnforcementFailed)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}
