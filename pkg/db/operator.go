// Package db defines the contract of PostgreSQL operations used to
// provision and migrate solution databases.
package db

import (
	"context"

	"github.com/fayvad/fbs/pkg/config"
)

// MaintenanceDatabase is the database used for server-level operations
// such as CREATE DATABASE.
const MaintenanceDatabase = "postgres"

// Operator runs SQL against one PostgreSQL database. An Operator is
// connected to a single database at a time.
type Operator interface {
	// Connect opens a connection to the database of cfg.
	Connect(ctx context.Context, cfg *config.DatabaseConfig) error

	// Close releases the connection.
	Close() error

	// Database returns the name of the connected database.
	Database() string

	// DatabaseExists checks pg_database for a database name.
	DatabaseExists(ctx context.Context, name string) (bool, error)

	// RoleExists checks pg_roles for a role name.
	RoleExists(ctx context.Context, name string) (bool, error)

	// CreateDatabase creates a database. The name must be a safe
	// identifier.
	CreateDatabase(ctx context.Context, name string) error

	// Exec runs statements one by one outside of a transaction and stops
	// at the first failure.
	Exec(ctx context.Context, stmts ...string) error

	// ExecInTx runs statements in one transaction. On failure the
	// transaction is rolled back.
	ExecInTx(ctx context.Context, stmts ...string) error

	// TableExists checks if a table exists in the public schema.
	TableExists(ctx context.Context, tableName string) (bool, error)

	// ListTables returns sorted names of tables in the public schema.
	ListTables(ctx context.Context) ([]string, error)
}

// Factory creates new, not connected operators.
type Factory func() Operator
