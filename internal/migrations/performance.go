package migrations

import (
	"database/sql"
)

// GetPerformanceMigrations returns performance optimization migrations
func GetPerformanceMigrations() []Migration {
	return []Migration{
		{
			Version: 10,
			Name:    "add_performance_indices",
			Up: func(tx *sql.Tx) error {
				// Add indices for better query performance
				indices := []string{
					"CREATE INDEX IF NOT EXISTS idx_interfaces_name ON interfaces(name)",
					"CREATE INDEX IF NOT EXISTS idx_dhcp_config_interface_id ON dhcp_config(interface_id)",
					"CREATE INDEX IF NOT EXISTS idx_firewall_rules_priority ON firewall_rules(priority)",
					"CREATE INDEX IF NOT EXISTS idx_port_forwarding_name ON port_forwarding(name)",
					"CREATE INDEX IF NOT EXISTS idx_users_username ON users(username)",
				}

				for _, indexSQL := range indices {
					if _, err := tx.Exec(indexSQL); err != nil {
						return err
					}
				}

				return nil
			},
			Down: func(tx *sql.Tx) error {
				// Drop performance indices
				indices := []string{
					"DROP INDEX IF EXISTS idx_interfaces_name",
					"DROP INDEX IF EXISTS idx_dhcp_config_interface_id",
					"DROP INDEX IF EXISTS idx_firewall_rules_priority",
					"DROP INDEX IF EXISTS idx_port_forwarding_name",
					"DROP INDEX IF EXISTS idx_users_username",
				}

				for _, dropSQL := range indices {
					if _, err := tx.Exec(dropSQL); err != nil {
						return err
					}
				}

				return nil
			},
		},
	}
}
