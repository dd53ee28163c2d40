package migrations

import (
	"database/sql"
)

// GetInitialMigrations returns the migrations that build the configuration
// store: the declarative tables the API persists into plus the users table
// for the access gate. Default settings are seeded here; the bootstrap admin
// user is created at startup by the auth store so the password hash is not
// baked into the schema.
func GetInitialMigrations() []Migration {
	return []Migration{
		{
			Version: 1,
			Name:    "create_config_tables",
			Up: func(tx *sql.Tx) error {
				_, err := tx.Exec(`
					CREATE TABLE interfaces (
						id INTEGER PRIMARY KEY AUTOINCREMENT,
						name TEXT NOT NULL UNIQUE,
						kind TEXT NOT NULL,
						enabled BOOLEAN NOT NULL DEFAULT 1,
						configuration TEXT NOT NULL DEFAULT '{}',
						enforcement_state TEXT NOT NULL DEFAULT '',
						created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
						updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
					)
				`)
				if err != nil {
					return err
				}

				_, err = tx.Exec(`
					CREATE TABLE dhcp_config (
						id INTEGER PRIMARY KEY AUTOINCREMENT,
						interface_id INTEGER NOT NULL,
						start_ip TEXT NOT NULL,
						end_ip TEXT NOT NULL,
						subnet_mask TEXT NOT NULL,
						lease_time INTEGER NOT NULL DEFAULT 86400,
						gateway TEXT NOT NULL DEFAULT '',
						dns_servers TEXT NOT NULL DEFAULT '',
						enabled BOOLEAN NOT NULL DEFAULT 1,
						enforcement_state TEXT NOT NULL DEFAULT '',
						created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
						updated_at DATETIME DEFAULT CURRENT_TIMESTAMP,
						FOREIGN KEY (interface_id) REFERENCES interfaces(id) ON DELETE CASCADE
					)
				`)
				if err != nil {
					return err
				}

				_, err = tx.Exec(`
					CREATE TABLE firewall_rules (
						id INTEGER PRIMARY KEY AUTOINCREMENT,
						chain TEXT NOT NULL,
						action TEXT NOT NULL,
						protocol TEXT NOT NULL DEFAULT '',
						source_ip TEXT NOT NULL DEFAULT '',
						dest_ip TEXT NOT NULL DEFAULT '',
						source_port INTEGER NOT NULL DEFAULT 0,
						dest_port INTEGER NOT NULL DEFAULT 0,
						enabled BOOLEAN NOT NULL DEFAULT 1,
						priority INTEGER NOT NULL DEFAULT 100,
						description TEXT NOT NULL DEFAULT '',
						enforcement_state TEXT NOT NULL DEFAULT '',
						created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
						updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
					)
				`)
				if err != nil {
					return err
				}

				_, err = tx.Exec(`
					CREATE TABLE port_forwarding (
						id INTEGER PRIMARY KEY AUTOINCREMENT,
						name TEXT NOT NULL,
						external_port INTEGER NOT NULL,
						internal_ip TEXT NOT NULL,
						internal_port INTEGER NOT NULL,
						protocol TEXT NOT NULL,
						enabled BOOLEAN NOT NULL DEFAULT 1,
						description TEXT NOT NULL DEFAULT '',
						enforcement_state TEXT NOT NULL DEFAULT '',
						created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
						updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
					)
				`)
				if err != nil {
					return err
				}

				_, err = tx.Exec(`
					CREATE TABLE system_settings (
						key TEXT PRIMARY KEY,
						value TEXT NOT NULL,
						description TEXT NOT NULL DEFAULT '',
						updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
					)
				`)
				if err != nil {
					return err
				}

				_, err = tx.Exec(`
					CREATE TABLE users (
						id INTEGER PRIMARY KEY AUTOINCREMENT,
						username TEXT NOT NULL UNIQUE,
						password TEXT NOT NULL,
						role TEXT NOT NULL DEFAULT 'admin',
						created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
						updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
					)
				`)
				if err != nil {
					return err
				}

				_, err = tx.Exec(`CREATE INDEX idx_dhcp_config_interface_id ON dhcp_config(interface_id)`)
				if err != nil {
					return err
				}

				_, err = tx.Exec(`CREATE INDEX idx_firewall_rules_priority ON firewall_rules(priority, id)`)
				return err
			},
			Down: func(tx *sql.Tx) error {
				for _, table := range []string{"users", "system_settings", "port_forwarding", "firewall_rules", "dhcp_config", "interfaces"} {
					if _, err := tx.Exec(`DROP TABLE IF EXISTS ` + table); err != nil {
						return err
					}
				}
				return nil
			},
		},
		{
			Version: 2,
			Name:    "seed_default_settings",
			Up: func(tx *sql.Tx) error {
				_, err := tx.Exec(`
					INSERT OR IGNORE INTO system_settings (key, value, description) VALUES
						('router_name', 'HybridRouter', 'Router hostname'),
						('timezone', 'UTC', 'System timezone'),
						('language', 'en', 'Interface language'),
						('theme', 'light', 'Interface theme')
				`)
				return err
			},
			Down: func(tx *sql.Tx) error {
				_, err := tx.Exec(`DELETE FROM system_settings WHERE key IN ('router_name', 'timezone', 'language', 'theme')`)
				return err
			},
		},
	}
}
