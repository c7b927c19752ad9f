// Package ioschema creates and migrates solution databases. This is an
// impure I/O package: it runs DDL through db.Operator and registers
// results in records.Store.
package ioschema

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/fayvad/fbs/pkg/config"
	"github.com/fayvad/fbs/pkg/db"
	"github.com/fayvad/fbs/pkg/discovery"
	"github.com/fayvad/fbs/pkg/errcode"
	"github.com/fayvad/fbs/pkg/records"
	"github.com/fayvad/fbs/pkg/schema"
	"github.com/gnames/gn"
	"github.com/gnames/gnfmt"
)

// MigrationCreateTable is the migration type of tables synthesized
// from discovered models.
const MigrationCreateTable = "create_table"

// Manager provisions solution databases.
type Manager struct {
	cfg   *config.Config
	newOp db.Factory
	store records.Store
}

// NewManager creates a new Manager.
func NewManager(cfg *config.Config, newOp db.Factory, store records.Store) *Manager {
	return &Manager{cfg: cfg, newOp: newOp, store: store}
}

// Prepare fills defaults of a solution config and validates it.
func (m *Manager) Prepare(sc schema.SolutionConfig) (schema.SolutionConfig, schema.ValidationResult) {
	sc = sc.WithDefaults(m.cfg.Schema.TablePrefix)
	return sc, sc.Validate()
}

// CreateSolutionSchema creates the database of a solution with its
// system and business tables and registers the solution. Every step
// uses its own connection. All DDL is idempotent, so a failed run can
// be repeated.
func (m *Manager) CreateSolutionSchema(
	ctx context.Context,
	sc schema.SolutionConfig,
) (*schema.CreateResult, error) {
	start := time.Now()
	sc, vr := m.Prepare(sc)
	if !vr.Valid {
		return nil, InvalidConfigError(sc.SolutionName, vr.Errors)
	}

	database := m.cfg.SolutionDatabase(sc.SolutionName)
	if _, err := schema.SafeIdent(database); err != nil {
		return nil, InvalidConfigError(sc.SolutionName, []string{err.Error()})
	}
	role := sc.DatabaseConfig.User
	plan := schema.NewPlan(sc)
	res := &schema.CreateResult{
		SolutionName: sc.SolutionName,
		Database:     database,
	}

	var exists bool
	err := m.withOperator(ctx, db.MaintenanceDatabase, func(op db.Operator) error {
		var err error
		exists, err = op.DatabaseExists(ctx, database)
		return err
	})
	if err != nil {
		return nil, err
	}

	if !exists {
		err = m.withOperator(ctx, db.MaintenanceDatabase, func(op db.Operator) error {
			return op.CreateDatabase(ctx, database)
		})
		if err != nil {
			return nil, err
		}
		res.CreatedDatabase = true
		slog.Info("Created solution database", "database", database)
	}

	err = m.withOperator(ctx, db.MaintenanceDatabase, func(op db.Operator) error {
		hasRole, err := op.RoleExists(ctx, role)
		if err != nil {
			return err
		}
		var stmts []string
		if !hasRole {
			stmts = append(stmts, schema.CreateRole(role, sc.DatabaseConfig.Password))
		}
		stmts = append(stmts, schema.DatabaseGrants(database, role)...)
		return op.Exec(ctx, stmts...)
	})
	if err != nil {
		return nil, GrantError(database, role, err)
	}

	err = m.withOperator(ctx, database, func(op db.Operator) error {
		return op.Exec(ctx, schema.SchemaGrants(role)...)
	})
	if err != nil {
		return nil, GrantError(database, role, err)
	}

	err = m.withOperator(ctx, database, func(op db.Operator) error {
		return op.ExecInTx(ctx, plan.Statements()...)
	})
	if err != nil {
		return nil, CreateSchemaError(database, err)
	}
	res.FBSTablesCreated = plan.SystemTableNames()
	res.BusinessTablesCreated = plan.BusinessTableNames()
	res.IndexesCreated = plan.IndexNames()

	if err := m.register(ctx, sc, database, plan.Definition()); err != nil {
		return nil, err
	}

	slog.Info("Solution schema ready",
		"solution", sc.SolutionName,
		"database", database,
		"system_tables", len(res.FBSTablesCreated),
		"business_tables", len(res.BusinessTablesCreated),
		"indexes", len(res.IndexesCreated),
		"duration", gnfmt.TimeString(time.Since(start).Seconds()),
	)
	return res, nil
}

// register upserts the solution record, merging the schema definition
// with the stored one.
func (m *Manager) register(
	ctx context.Context,
	sc schema.SolutionConfig,
	database string,
	def schema.Definition,
) error {
	current, err := m.definition(ctx, sc.SolutionName)
	if err != nil {
		return err
	}
	data, err := records.Encode(current.Merge(def))
	if err != nil {
		return err
	}
	return m.store.UpsertSolution(ctx, &records.SolutionSchema{
		SolutionName:     sc.SolutionName,
		Domain:           sc.Domain,
		DatabaseName:     database,
		DatabaseUser:     sc.DatabaseConfig.User,
		DatabasePassword: sc.DatabaseConfig.Password,
		TablePrefix:      sc.TablePrefix,
		BusinessPrefix:   sc.BusinessPrefix,
		SchemaDefinition: data,
		IsActive:         true,
	})
}

// definition returns the stored schema definition of a solution, or an
// empty one for a new solution.
func (m *Manager) definition(ctx context.Context, solution string) (schema.Definition, error) {
	res := make(schema.Definition)
	sol, err := m.store.Solution(ctx, solution)
	if isNotFound(err) {
		return res, nil
	}
	if err != nil {
		return nil, err
	}
	if err := records.Decode(sol.SchemaDefinition, &res); err != nil {
		return nil, err
	}
	return res, nil
}

// MigrationResult is the outcome of a migration pass.
type MigrationResult struct {
	SolutionName  string   `json:"solution_name"`
	Database      string   `json:"database"`
	TablesCreated []string `json:"tables_created"`
	TablesFailed  []string `json:"tables_failed,omitempty"`

	// TablesExisting were already in the database. No DDL runs for them,
	// their definitions are merged into the solution record.
	TablesExisting []string `json:"tables_existing,omitempty"`
}

// MigrateModels creates tables for discovered models in the database of
// a solution. Tables that already exist are skipped. Every executed
// statement is logged as a migration row with its actual status.
// Definitions of created and existing tables are merged into the
// solution record.
func (m *Manager) MigrateModels(
	ctx context.Context,
	solution string,
	models []discovery.Model,
) (*MigrationResult, error) {
	sol, err := m.store.Solution(ctx, solution)
	if err != nil {
		return nil, err
	}
	res := &MigrationResult{SolutionName: solution, Database: sol.DatabaseName}
	if len(models) == 0 {
		return res, nil
	}

	def := make(schema.Definition)
	err = m.withOperator(ctx, sol.DatabaseName, func(op db.Operator) error {
		for _, model := range models {
			table, ddl, td := schema.ModelTable(sol.TablePrefix, model)
			exists, execErr := op.TableExists(ctx, table)
			if execErr == nil && exists {
				def[table] = td
				res.TablesExisting = append(res.TablesExisting, table)
				slog.Info("Table exists, skipping",
					"solution", solution, "table", table)
				continue
			}
			mig := &records.SchemaMigration{
				SolutionName:  solution,
				MigrationType: MigrationCreateTable,
				Table:         table,
				SQLStatement:  ddl,
				Status:        records.StatusCompleted,
			}
			if execErr == nil {
				execErr = op.Exec(ctx, ddl)
			}
			if execErr != nil {
				mig.Status = records.StatusFailed
				mig.Error = execErr.Error()
				res.TablesFailed = append(res.TablesFailed, table)
				slog.Error("Migration statement failed",
					"solution", solution, "table", table, "error", execErr)
			} else {
				def[table] = td
				res.TablesCreated = append(res.TablesCreated, table)
			}
			mig.ExecutedAt = time.Now()
			if err := m.store.AddMigration(ctx, mig); err != nil {
				return err
			}
		}
		analyze(ctx, op, res.TablesCreated)
		return nil
	})
	if err != nil {
		return nil, err
	}

	if len(def) > 0 {
		current := make(schema.Definition)
		if err := records.Decode(sol.SchemaDefinition, &current); err != nil {
			return nil, err
		}
		data, err := records.Encode(current.Merge(def))
		if err != nil {
			return nil, err
		}
		sol.SchemaDefinition = data
		if err := m.store.UpsertSolution(ctx, sol); err != nil {
			return nil, err
		}
	}

	if len(res.TablesFailed) > 0 {
		return res, MigrateSchemaError(solution, res.TablesFailed)
	}
	return res, nil
}

// Tables returns names of tables present in a solution database.
func (m *Manager) Tables(ctx context.Context, database string) ([]string, error) {
	var res []string
	err := m.withOperator(ctx, database, func(op db.Operator) error {
		var err error
		res, err = op.ListTables(ctx)
		return err
	})
	return res, err
}

func (m *Manager) withOperator(
	ctx context.Context,
	database string,
	fn func(db.Operator) error,
) error {
	dbCfg := m.cfg.Database
	dbCfg.Database = database
	op := m.newOp()
	if err := op.Connect(ctx, &dbCfg); err != nil {
		return err
	}
	defer op.Close()
	return fn(op)
}

func isNotFound(err error) bool {
	var gnErr *gn.Error
	return errors.As(err, &gnErr) && gnErr.Code == errcode.StoreNotFoundError
}
