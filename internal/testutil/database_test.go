package testutil

import (
	"testing"
)

func TestSetupTestDB(t *testing.T) {
	db, cleanup := SetupTestDB(t, "TestSetupTestDB")
	defer cleanup()

	if db == nil {
		t.Fatal("Expected non-nil database")
	}

	// Verify database connection works
	err := db.Ping()
	if err != nil {
		t.Errorf("Database ping failed: %v", err)
	}

	// Test that we can execute a query
	var result string
	err = db.QueryRow("SELECT 'test'").Scan(&result)
	if err != nil {
		t.Errorf("Test query failed: %v", err)
	}
	if result != "test" {
		t.Errorf("Expected 'test', got '%s'", result)
	}
}

func TestSetupTestDBWithMigrations(t *testing.T) {
	db, cleanup := SetupTestDBWithMigrations(t, "TestSetupTestDBWithMigrations")
	defer cleanup()

	if db == nil {
		t.Fatal("Expected non-nil database")
	}

	// Verify migration tables exist (schema_migrations should be created by migrator)
	var tableName string
	err := db.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name='schema_migrations'").Scan(&tableName)
	if err != nil {
		t.Errorf("Expected schema_migrations table to exist: %v", err)
	}

	// Verify main application tables exist
	tables := []string{"interfaces", "dhcp_config", "firewall_rules", "port_forwarding", "system_settings", "users"}
	for _, table := range tables {
		var count int
		err = db.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name=?", table).Scan(&count)
		if err != nil {
			t.Errorf("Error checking for table %s: %v", table, err)
		}
		if count == 0 {
			t.Errorf("Expected table %s to exist", table)
		}
	}
}

func TestSetupTestDBWithMigrations_SeedsDefaultSettings(t *testing.T) {
	db, cleanup := SetupTestDBWithMigrations(t, "TestSetupTestDBWithMigrations_SeedsDefaultSettings")
	defer cleanup()

	var value string
	err := db.QueryRow("SELECT value FROM system_settings WHERE key = 'router_name'").Scan(&value)
	if err != nil {
		t.Fatalf("Expected router_name setting to be seeded: %v", err)
	}
	if value != "HybridRouter" {
		t.Errorf("Expected 'HybridRouter', got '%s'", value)
	}

	var count int
	err = db.QueryRow("SELECT COUNT(*) FROM system_settings").Scan(&count)
	if err != nil {
		t.Fatalf("Failed to count settings: %v", err)
	}
	if count != 4 {
		t.Errorf("Expected 4 seeded settings, got %d", count)
	}
}

func TestSetupTestDB_MultipleInstances(t *testing.T) {
	// Test that we can create multiple test databases without conflicts
	db1, cleanup1 := SetupTestDB(t, "TestSetupTestDB_MultipleInstances_1")
	defer cleanup1()

	db2, cleanup2 := SetupTestDB(t, "TestSetupTestDB_MultipleInstances_2")
	defer cleanup2()

	// Both should work independently
	if err := db1.Ping(); err != nil {
		t.Errorf("First database failed: %v", err)
	}
	if err := db2.Ping(); err != nil {
		t.Errorf("Second database failed: %v", err)
	}

	// They should be separate instances
	if db1 == db2 {
		t.Error("Expected different database instances")
	}
}

func TestCleanupTestDB(t *testing.T) {
	// Cleanup with in-memory database should not error
	dsn := NewTestDSN("test-cleanup")
	if err := CleanupTestDB(dsn); err != nil {
		t.Errorf("CleanupTestDB should not error on in-memory database: %v", err)
	}

	// Cleanup with invalid DSN should error
	if err := CleanupTestDB("invalid-dsn"); err == nil {
		t.Error("Expected error for invalid DSN")
	}
}
