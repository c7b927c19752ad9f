// Package iodb runs SQL against PostgreSQL servers that host tracking
// and solution databases. It implements db.Operator on top of pgxpool.
package iodb

import (
	"context"

	"github.com/fayvad/fbs/pkg/config"
	"github.com/fayvad/fbs/pkg/db"
	"github.com/fayvad/fbs/pkg/schema"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// pgxOperator implements db.Operator interface using
// pgxpool for connection pooling.
type pgxOperator struct {
	pool     *pgxpool.Pool
	database string
}

// NewPgxOperator creates a new database operator
// (without connecting).
func NewPgxOperator() db.Operator {
	return &pgxOperator{}
}

// Connect establishes a small connection pool to PostgreSQL.
// Provisioning steps are short and sequential, so two
// connections are enough.
func (p *pgxOperator) Connect(
	ctx context.Context,
	cfg *config.DatabaseConfig,
) error {
	poolConfig, err := pgxpool.ParseConfig(cfg.DSN())
	if err != nil {
		return ConnectionError(cfg.Host, cfg.Port,
			cfg.Database, cfg.User, err)
	}
	poolConfig.MaxConns = 2
	poolConfig.MinConns = 0

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return ConnectionError(cfg.Host, cfg.Port,
			cfg.Database, cfg.User, err)
	}

	// Verify connection
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return ConnectionError(cfg.Host, cfg.Port,
			cfg.Database, cfg.User, err)
	}

	p.pool = pool
	p.database = cfg.Database
	return nil
}

// Close releases all database connections.
func (p *pgxOperator) Close() error {
	if p.pool != nil {
		p.pool.Close()
		p.pool = nil
	}
	return nil
}

func (p *pgxOperator) Database() string {
	return p.database
}

// DatabaseExists checks if a database exists on the server.
func (p *pgxOperator) DatabaseExists(
	ctx context.Context,
	name string,
) (bool, error) {
	if p.pool == nil {
		return false, NotConnectedError()
	}

	var exists bool
	err := p.pool.QueryRow(ctx,
		"SELECT EXISTS(SELECT 1 FROM pg_database WHERE datname = $1)",
		name,
	).Scan(&exists)
	if err != nil {
		return false, DatabaseCheckError(name, err)
	}
	return exists, nil
}

// RoleExists checks if a role exists on the server.
func (p *pgxOperator) RoleExists(
	ctx context.Context,
	name string,
) (bool, error) {
	if p.pool == nil {
		return false, NotConnectedError()
	}

	var exists bool
	err := p.pool.QueryRow(ctx,
		"SELECT EXISTS(SELECT 1 FROM pg_roles WHERE rolname = $1)",
		name,
	).Scan(&exists)
	if err != nil {
		return false, RoleCheckError(name, err)
	}
	return exists, nil
}

// CreateDatabase runs CREATE DATABASE. It cannot run inside
// a transaction.
func (p *pgxOperator) CreateDatabase(
	ctx context.Context,
	name string,
) error {
	if p.pool == nil {
		return NotConnectedError()
	}
	dn, err := schema.SafeIdent(name)
	if err != nil {
		return CreateDatabaseError(name, err)
	}
	if _, err := p.pool.Exec(ctx, "CREATE DATABASE "+dn); err != nil {
		return CreateDatabaseError(name, err)
	}
	return nil
}

// Exec runs statements one by one.
func (p *pgxOperator) Exec(
	ctx context.Context,
	stmts ...string,
) error {
	if p.pool == nil {
		return NotConnectedError()
	}
	for _, s := range stmts {
		if _, err := p.pool.Exec(ctx, s); err != nil {
			return ExecError(p.database, s, err)
		}
	}
	return nil
}

// ExecInTx runs statements in a single transaction.
func (p *pgxOperator) ExecInTx(
	ctx context.Context,
	stmts ...string,
) error {
	if p.pool == nil {
		return NotConnectedError()
	}
	return pgx.BeginFunc(ctx, p.pool, func(tx pgx.Tx) error {
		for _, s := range stmts {
			if _, err := tx.Exec(ctx, s); err != nil {
				return ExecError(p.database, s, err)
			}
		}
		return nil
	})
}

// TableExists checks if a table exists in the current
// database.
func (p *pgxOperator) TableExists(
	ctx context.Context,
	tableName string,
) (bool, error) {
	if p.pool == nil {
		return false, NotConnectedError()
	}

	query := `
		SELECT EXISTS (
			SELECT FROM information_schema.tables
			WHERE table_schema = 'public'
			AND table_name = $1
		)
	`

	var exists bool
	err := p.pool.QueryRow(ctx, query, tableName).Scan(&exists)
	if err != nil {
		return false, TableExistsCheckError(tableName, err)
	}

	return exists, nil
}

// ListTables returns names of all tables in the public
// schema.
func (p *pgxOperator) ListTables(ctx context.Context) ([]string, error) {
	if p.pool == nil {
		return nil, NotConnectedError()
	}

	query := `
		SELECT tablename
		FROM pg_tables
		WHERE schemaname = 'public'
		ORDER BY tablename
	`

	rows, err := p.pool.Query(ctx, query)
	if err != nil {
		return nil, QueryTablesError(err)
	}
	res, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, QueryTablesError(err)
	}
	return res, nil
}
