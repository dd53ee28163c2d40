// Package orchestrator validates configuration intents, persists them
// through the repositories and drives the executor bridge for anything
// that touches the live system. Handlers talk to this package, never to
// the repositories or the executor directly.
package orchestrator

import (
	"database/sql"
	"fmt"

	"github.com/Djnirds1984/Hybrid-Router/internal/executor"
	"github.com/Djnirds1984/Hybrid-Router/internal/repository"
)

// BackupVersion tags exported configuration documents.
const BackupVersion = "1.0.0"

// ValidationError describes a rejected intent. Always mapped to a 400.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func invalid(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// Orchestrator coordinates the configuration store and the executor.
type Orchestrator struct {
	interfaces repository.InterfaceRepository
	pools      repository.DhcpPoolRepository
	rules      repository.FirewallRuleRepository
	forwards   repository.PortForwardRepository
	settings   repository.SettingsRepository
	exec       executor.Executor
}

// New wires an orchestrator over a database handle and an executor.
func New(db *sql.DB, exec executor.Executor) *Orchestrator {
	return &Orchestrator{
		interfaces: repository.NewInterfaceRepository(db),
		pools:      repository.NewDhcpPoolRepository(db),
		rules:      repository.NewFirewallRuleRepository(db),
		forwards:   repository.NewPortForwardRepository(db),
		settings:   repository.NewSettingsRepository(db),
		exec:       exec,
	}
}
