package ioschema_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/fayvad/fbs/internal/ioschema"
	"github.com/fayvad/fbs/internal/iotesting"
	"github.com/fayvad/fbs/pkg/config"
	"github.com/fayvad/fbs/pkg/discovery"
	"github.com/fayvad/fbs/pkg/errcode"
	"github.com/fayvad/fbs/pkg/records"
	"github.com/fayvad/fbs/pkg/schema"
	"github.com/gnames/gn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func acme() schema.SolutionConfig {
	return schema.SolutionConfig{
		SolutionName:   "acme",
		Domain:         "rental",
		DatabaseConfig: schema.DatabaseCredentials{User: "u", Password: "p"},
	}
}

func setup(t *testing.T) (*ioschema.Manager, *iotesting.FakePostgres, records.Store) {
	t.Helper()
	pg := iotesting.NewFakePostgres()
	store := iotesting.NewStore(t)
	return ioschema.NewManager(config.New(), pg.Factory(), store), pg, store
}

func TestCreateSolutionSchema(t *testing.T) {
	ctx := context.Background()
	m, pg, store := setup(t)

	res, err := m.CreateSolutionSchema(ctx, acme())
	require.NoError(t, err)

	assert.Equal(t, "fbs_acme_db", res.Database)
	assert.True(t, res.CreatedDatabase)
	assert.True(t, pg.HasDatabase("fbs_acme_db"))
	assert.Equal(t, []string{
		"fbs_discoveries", "fbs_solution_schemas", "fbs_schema_migrations",
		"fbs_workflow_definitions", "fbs_bi_dashboards",
	}, res.FBSTablesCreated)
	assert.Len(t, res.BusinessTablesCreated, 5)
	assert.Contains(t, res.IndexesCreated, "idx_rental_lease_property")

	assert.Len(t, pg.Tables("fbs_acme_db"), 10)
	assert.Equal(t, []string{
		"postgres", "postgres", "postgres", "fbs_acme_db", "fbs_acme_db",
	}, pg.Connects(), "each step uses its own connection")

	var grants []string
	for _, s := range pg.Statements("postgres") {
		grants = append(grants, s.SQL)
	}
	joined := strings.Join(grants, "\n")
	assert.Contains(t, joined, "CREATE DATABASE fbs_acme_db")
	assert.Contains(t, joined, "CREATE ROLE u LOGIN")
	assert.Contains(t, joined, "GRANT CONNECT, CREATE, TEMPORARY ON DATABASE fbs_acme_db TO u")

	sol, err := store.Solution(ctx, "acme")
	require.NoError(t, err)
	assert.Equal(t, "fbs_acme_db", sol.DatabaseName)
	assert.Equal(t, "rental_", sol.BusinessPrefix)
	var def schema.Definition
	require.NoError(t, records.Decode(sol.SchemaDefinition, &def))
	assert.Len(t, def, 10)
}

func TestCreateSolutionSchemaRolePassword(t *testing.T) {
	ctx := context.Background()
	m, pg, _ := setup(t)
	sc := acme()
	sc.DatabaseConfig.Password = "p$fbs$; DROP DATABASE fbs; DO $fbs$ BEGIN"

	_, err := m.CreateSolutionSchema(ctx, sc)
	require.NoError(t, err)
	assert.True(t, pg.HasRole("u"))

	var roleStmts []string
	for _, s := range pg.Statements("postgres") {
		assert.False(t, strings.HasPrefix(s.SQL, "DO"), s.SQL)
		assert.False(t, strings.HasPrefix(s.SQL, "DROP"), s.SQL)
		if strings.HasPrefix(s.SQL, "CREATE ROLE") {
			roleStmts = append(roleStmts, s.SQL)
		}
	}
	assert.Equal(t, []string{
		"CREATE ROLE u LOGIN PASSWORD 'p$fbs$; DROP DATABASE fbs; DO $fbs$ BEGIN'",
	}, roleStmts, "password stays inside one string literal")
}

func TestCreateSolutionSchemaExistingRole(t *testing.T) {
	ctx := context.Background()
	m, pg, _ := setup(t)
	pg.AddRole("u")

	_, err := m.CreateSolutionSchema(ctx, acme())
	require.NoError(t, err)
	for _, s := range pg.Statements("postgres") {
		assert.NotContains(t, s.SQL, "CREATE ROLE")
	}
}

func TestCreateSolutionSchemaRoleCheckFailure(t *testing.T) {
	m, pg, _ := setup(t)
	pg.Fail["pg_roles"] = errors.New("permission denied")

	_, err := m.CreateSolutionSchema(context.Background(), acme())
	var gnErr *gn.Error
	require.ErrorAs(t, err, &gnErr)
	assert.Equal(t, errcode.DBGrantError, gnErr.Code)
}

func TestCreateSolutionSchemaTwice(t *testing.T) {
	ctx := context.Background()
	m, pg, store := setup(t)

	res1, err := m.CreateSolutionSchema(ctx, acme())
	require.NoError(t, err)
	tables := pg.Tables("fbs_acme_db")

	res2, err := m.CreateSolutionSchema(ctx, acme())
	require.NoError(t, err)
	assert.False(t, res2.CreatedDatabase)
	assert.Equal(t, res1.FBSTablesCreated, res2.FBSTablesCreated)
	assert.Equal(t, tables, pg.Tables("fbs_acme_db"))

	for _, s := range pg.Statements("fbs_acme_db") {
		if strings.HasPrefix(s.SQL, "CREATE") {
			assert.Contains(t, s.SQL, "IF NOT EXISTS")
		}
	}

	all, err := store.Solutions(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestCreateSolutionSchemaInvalid(t *testing.T) {
	m, pg, _ := setup(t)
	sc := acme()
	sc.DatabaseConfig.User = ""

	_, err := m.CreateSolutionSchema(context.Background(), sc)
	var gnErr *gn.Error
	require.ErrorAs(t, err, &gnErr)
	assert.Equal(t, errcode.InvalidSolutionConfigError, gnErr.Code)
	assert.Empty(t, pg.Connects(), "validation runs before any connection")
}

func TestCreateSolutionSchemaRollback(t *testing.T) {
	ctx := context.Background()
	m, pg, store := setup(t)
	pg.Fail["rental_payment("] = errors.New("disk full")

	_, err := m.CreateSolutionSchema(ctx, acme())
	var gnErr *gn.Error
	require.ErrorAs(t, err, &gnErr)
	assert.Equal(t, errcode.SchemaCreateError, gnErr.Code)
	assert.True(t, pg.HasDatabase("fbs_acme_db"), "created database is kept")
	assert.Empty(t, pg.Tables("fbs_acme_db"), "table creation is rolled back")

	_, err = store.Solution(ctx, "acme")
	assert.Error(t, err, "failed solution is not registered")

	delete(pg.Fail, "rental_payment(")
	_, err = m.CreateSolutionSchema(ctx, acme())
	require.NoError(t, err, "rerun succeeds")
}

func TestCreateSolutionSchemaGrantFailure(t *testing.T) {
	m, pg, _ := setup(t)
	pg.Fail["ALTER DEFAULT PRIVILEGES"] = errors.New("permission denied")

	_, err := m.CreateSolutionSchema(context.Background(), acme())
	var gnErr *gn.Error
	require.ErrorAs(t, err, &gnErr)
	assert.Equal(t, errcode.DBGrantError, gnErr.Code)
}

func TestMigrateModels(t *testing.T) {
	ctx := context.Background()
	m, pg, store := setup(t)
	_, err := m.CreateSolutionSchema(ctx, acme())
	require.NoError(t, err)

	pg.Fail["fbs_res_partner"] = errors.New("syntax error")
	models := []discovery.Model{
		{ModelName: "sale.order", Fields: map[string]discovery.Field{"name": {Type: "char"}}},
		{ModelName: "res.partner", Fields: map[string]discovery.Field{"email": {Type: "char"}}},
	}
	res, err := m.MigrateModels(ctx, "acme", models)
	var gnErr *gn.Error
	require.ErrorAs(t, err, &gnErr)
	assert.Equal(t, errcode.SchemaMigrateError, gnErr.Code)
	assert.Equal(t, []string{"fbs_sale_order"}, res.TablesCreated)
	assert.Equal(t, []string{"fbs_res_partner"}, res.TablesFailed)
	assert.Contains(t, pg.Tables("fbs_acme_db"), "fbs_sale_order")

	var analyzed []string
	for _, s := range pg.Statements("fbs_acme_db") {
		if strings.HasPrefix(s.SQL, "ANALYZE") {
			analyzed = append(analyzed, s.SQL)
		}
	}
	assert.Equal(t, []string{"ANALYZE fbs_sale_order"}, analyzed,
		"only created tables are analyzed")

	migs, err := store.Migrations(ctx, "acme")
	require.NoError(t, err)
	require.Len(t, migs, 2, "every statement is logged")
	assert.Equal(t, records.StatusCompleted, migs[0].Status)
	assert.Equal(t, "fbs_sale_order", migs[0].Table)
	assert.Equal(t, records.StatusFailed, migs[1].Status)
	assert.NotEmpty(t, migs[1].Error)

	sol, err := store.Solution(ctx, "acme")
	require.NoError(t, err)
	var def schema.Definition
	require.NoError(t, records.Decode(sol.SchemaDefinition, &def))
	assert.Len(t, def, 11, "definition grows by created tables only")
	assert.Equal(t, "sale.order", def["fbs_sale_order"].Model)
}

func TestMigrateModelsAnalyzeFailure(t *testing.T) {
	ctx := context.Background()
	m, pg, _ := setup(t)
	_, err := m.CreateSolutionSchema(ctx, acme())
	require.NoError(t, err)

	pg.Fail["ANALYZE"] = errors.New("permission denied")
	models := []discovery.Model{
		{ModelName: "sale.order", Fields: map[string]discovery.Field{"name": {Type: "char"}}},
	}
	res, err := m.MigrateModels(ctx, "acme", models)
	require.NoError(t, err, "statistics failure does not fail migration")
	assert.Equal(t, []string{"fbs_sale_order"}, res.TablesCreated)
}

func TestMigrateModelsExistingTable(t *testing.T) {
	ctx := context.Background()
	m, pg, store := setup(t)
	_, err := m.CreateSolutionSchema(ctx, acme())
	require.NoError(t, err)
	pg.AddTable("fbs_acme_db", "fbs_res_partner")

	models := []discovery.Model{
		{ModelName: "sale.order", Fields: map[string]discovery.Field{"name": {Type: "char"}}},
		{ModelName: "res.partner", Fields: map[string]discovery.Field{"email": {Type: "char"}}},
	}
	res, err := m.MigrateModels(ctx, "acme", models)
	require.NoError(t, err)
	assert.Equal(t, []string{"fbs_sale_order"}, res.TablesCreated)
	assert.Equal(t, []string{"fbs_res_partner"}, res.TablesExisting)

	for _, s := range pg.Statements("fbs_acme_db") {
		assert.NotContains(t, s.SQL, "CREATE TABLE IF NOT EXISTS fbs_res_partner")
	}
	migs, err := store.Migrations(ctx, "acme")
	require.NoError(t, err)
	require.Len(t, migs, 1, "no migration row without a statement")
	assert.Equal(t, "fbs_sale_order", migs[0].Table)

	sol, err := store.Solution(ctx, "acme")
	require.NoError(t, err)
	var def schema.Definition
	require.NoError(t, records.Decode(sol.SchemaDefinition, &def))
	assert.Contains(t, def, "fbs_res_partner")

	// a second pass finds both tables
	res, err = m.MigrateModels(ctx, "acme", models)
	require.NoError(t, err)
	assert.Empty(t, res.TablesCreated)
	assert.Equal(t, []string{"fbs_sale_order", "fbs_res_partner"}, res.TablesExisting)
}

func TestMigrateModelsTableCheckFailure(t *testing.T) {
	ctx := context.Background()
	m, pg, store := setup(t)
	_, err := m.CreateSolutionSchema(ctx, acme())
	require.NoError(t, err)

	pg.Fail["information_schema.tables"] = errors.New("connection reset")
	models := []discovery.Model{
		{ModelName: "sale.order", Fields: map[string]discovery.Field{"name": {Type: "char"}}},
	}
	res, err := m.MigrateModels(ctx, "acme", models)
	var gnErr *gn.Error
	require.ErrorAs(t, err, &gnErr)
	assert.Equal(t, errcode.SchemaMigrateError, gnErr.Code)
	assert.Equal(t, []string{"fbs_sale_order"}, res.TablesFailed)
	assert.NotContains(t, pg.Tables("fbs_acme_db"), "fbs_sale_order")

	migs, err := store.Migrations(ctx, "acme")
	require.NoError(t, err)
	require.Len(t, migs, 1)
	assert.Equal(t, records.StatusFailed, migs[0].Status)
	assert.Contains(t, migs[0].Error, "connection reset")
}

func TestTables(t *testing.T) {
	ctx := context.Background()
	m, pg, _ := setup(t)
	_, err := m.CreateSolutionSchema(ctx, acme())
	require.NoError(t, err)

	tables, err := m.Tables(ctx, "fbs_acme_db")
	require.NoError(t, err)
	assert.Len(t, tables, 10)
	assert.Contains(t, tables, "rental_lease")

	pg.Fail["pg_tables"] = errors.New("permission denied")
	_, err = m.Tables(ctx, "fbs_acme_db")
	assert.Error(t, err)
}

func TestMigrateModelsUnknownSolution(t *testing.T) {
	m, _, _ := setup(t)
	_, err := m.MigrateModels(context.Background(), "ghost", nil)
	var gnErr *gn.Error
	require.ErrorAs(t, err, &gnErr)
	assert.Equal(t, errcode.StoreNotFoundError, gnErr.Code)
}
