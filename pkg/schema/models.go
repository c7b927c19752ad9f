// Package schema provides table definitions and DDL of solution
// databases: five FBS system tables and a business table set per
// domain. It also validates solution configurations and synthesizes
// tables from discovered Odoo fields.
package schema

import "time"

// DiscoveryRow stores the most recent discovery of a kind in a solution
// database.
type DiscoveryRow struct {
	ID int `db:"id" ddl:"SERIAL PRIMARY KEY"`

	// DiscoveryType is one of models, workflows, bi_features.
	DiscoveryType string `db:"discovery_type" ddl:"VARCHAR(50) NOT NULL"`

	Domain string `db:"domain" ddl:"VARCHAR(100) NOT NULL"`
	Name   string `db:"name" ddl:"VARCHAR(255) NOT NULL"`

	Version string `db:"version" ddl:"VARCHAR(50) NOT NULL DEFAULT '1.0'"`

	// Metadata is the raw discovery result.
	Metadata string `db:"metadata" ddl:"JSONB NOT NULL DEFAULT '{}'"`

	SchemaDefinition string `db:"schema_definition" ddl:"JSONB NOT NULL DEFAULT '{}'"`

	IsActive  bool      `db:"is_active" ddl:"BOOLEAN NOT NULL DEFAULT TRUE"`
	CreatedAt time.Time `db:"created_at" ddl:"TIMESTAMPTZ NOT NULL DEFAULT NOW()"`
	UpdatedAt time.Time `db:"updated_at" ddl:"TIMESTAMPTZ NOT NULL DEFAULT NOW()"`
}

// SolutionSchemaRow mirrors the solution record inside the solution
// database.
type SolutionSchemaRow struct {
	ID             int    `db:"id" ddl:"SERIAL PRIMARY KEY"`
	SolutionName   string `db:"solution_name" ddl:"VARCHAR(100) NOT NULL"`
	Domain         string `db:"domain" ddl:"VARCHAR(100) NOT NULL"`
	DatabaseName   string `db:"database_name" ddl:"VARCHAR(100) NOT NULL"`
	TablePrefix    string `db:"table_prefix" ddl:"VARCHAR(50) NOT NULL DEFAULT 'fbs_'"`
	BusinessPrefix string `db:"business_prefix" ddl:"VARCHAR(50) NOT NULL"`

	// SchemaDefinition accumulates table definitions and never shrinks.
	SchemaDefinition string `db:"schema_definition" ddl:"JSONB NOT NULL DEFAULT '{}'"`

	IsActive  bool      `db:"is_active" ddl:"BOOLEAN NOT NULL DEFAULT TRUE"`
	CreatedAt time.Time `db:"created_at" ddl:"TIMESTAMPTZ NOT NULL DEFAULT NOW()"`
	UpdatedAt time.Time `db:"updated_at" ddl:"TIMESTAMPTZ NOT NULL DEFAULT NOW()"`
}

// SchemaMigrationRow is one applied DDL statement.
type SchemaMigrationRow struct {
	ID            int    `db:"id" ddl:"SERIAL PRIMARY KEY"`
	SolutionName  string `db:"solution_name" ddl:"VARCHAR(100) NOT NULL"`
	MigrationType string `db:"migration_type" ddl:"VARCHAR(50) NOT NULL"`
	TableName     string `db:"table_name" ddl:"VARCHAR(255)"`
	SQLStatement  string `db:"sql_statement" ddl:"TEXT NOT NULL"`

	// Status is completed or failed.
	Status string `db:"status" ddl:"VARCHAR(20) NOT NULL DEFAULT 'completed'"`

	Error      string    `db:"error" ddl:"TEXT"`
	ExecutedAt time.Time `db:"executed_at" ddl:"TIMESTAMPTZ NOT NULL DEFAULT NOW()"`
}

// WorkflowDefinitionRow is an adapted workflow of the solution.
type WorkflowDefinitionRow struct {
	ID           int       `db:"id" ddl:"SERIAL PRIMARY KEY"`
	SolutionName string    `db:"solution_name" ddl:"VARCHAR(100) NOT NULL"`
	Model        string    `db:"model" ddl:"VARCHAR(255) NOT NULL"`
	WorkflowName string    `db:"workflow_name" ddl:"VARCHAR(255) NOT NULL"`
	States       string    `db:"states" ddl:"JSONB NOT NULL DEFAULT '[]'"`
	Transitions  string    `db:"transitions" ddl:"JSONB NOT NULL DEFAULT '[]'"`
	IsActive     bool      `db:"is_active" ddl:"BOOLEAN NOT NULL DEFAULT TRUE"`
	CreatedAt    time.Time `db:"created_at" ddl:"TIMESTAMPTZ NOT NULL DEFAULT NOW()"`
}

// BIDashboardRow is a dashboard derived from BI discovery.
type BIDashboardRow struct {
	ID           int       `db:"id" ddl:"SERIAL PRIMARY KEY"`
	SolutionName string    `db:"solution_name" ddl:"VARCHAR(100) NOT NULL"`
	Name         string    `db:"name" ddl:"VARCHAR(255) NOT NULL"`
	Model        string    `db:"model" ddl:"VARCHAR(255)"`
	Reports      string    `db:"reports" ddl:"JSONB NOT NULL DEFAULT '[]'"`
	Metrics      string    `db:"metrics" ddl:"JSONB NOT NULL DEFAULT '[]'"`
	Config       string    `db:"config" ddl:"JSONB NOT NULL DEFAULT '{}'"`
	IsActive     bool      `db:"is_active" ddl:"BOOLEAN NOT NULL DEFAULT TRUE"`
	CreatedAt    time.Time `db:"created_at" ddl:"TIMESTAMPTZ NOT NULL DEFAULT NOW()"`
}

// SystemTables returns the five FBS system tables in creation order.
func SystemTables() []Table {
	return []Table{
		{
			Name:  "discoveries",
			Model: DiscoveryRow{},
			Indexes: []Index{
				{Name: "key", Columns: []string{"discovery_type", "domain", "name", "version"}, Unique: true},
				{Name: "domain", Columns: []string{"domain"}},
			},
		},
		{
			Name:  "solution_schemas",
			Model: SolutionSchemaRow{},
			Indexes: []Index{
				{Name: "solution", Columns: []string{"solution_name"}, Unique: true},
			},
		},
		{
			Name:  "schema_migrations",
			Model: SchemaMigrationRow{},
			Indexes: []Index{
				{Name: "solution", Columns: []string{"solution_name", "executed_at"}},
			},
		},
		{
			Name:  "workflow_definitions",
			Model: WorkflowDefinitionRow{},
			Indexes: []Index{
				{Name: "solution", Columns: []string{"solution_name", "model"}},
			},
		},
		{
			Name:  "bi_dashboards",
			Model: BIDashboardRow{},
			Indexes: []Index{
				{Name: "solution", Columns: []string{"solution_name"}},
			},
		},
	}
}
