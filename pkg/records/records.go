// Package records provides tracking records that FBS keeps about
// solutions, applied migrations, discoveries and setup runs, and the
// contract of their store.
package records

import (
	"fmt"
	"time"

	"github.com/gnames/gnfmt"
	"github.com/gnames/gnuuid"
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Statuses of migrations and setup steps.
const (
	StatusRunning   = "running"
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

// DefaultVersion is the version of discovery records.
const DefaultVersion = "1.0"

// SolutionSchema is the registered schema of a solution.
type SolutionSchema struct {
	ID uint `gorm:"primaryKey" json:"id"`

	SolutionName     string `gorm:"column:solution_name;type:varchar(100);not null;uniqueIndex" json:"solution_name"`
	Domain           string `gorm:"column:domain;type:varchar(100);not null;index" json:"domain"`
	DatabaseName     string `gorm:"column:database_name;type:varchar(100);not null" json:"database_name"`
	DatabaseUser     string `gorm:"column:database_user;type:varchar(100);not null" json:"database_user"`
	DatabasePassword string `gorm:"column:database_password;type:varchar(255)" json:"-"`
	TablePrefix      string `gorm:"column:table_prefix;type:varchar(50);not null" json:"table_prefix"`
	BusinessPrefix   string `gorm:"column:business_prefix;type:varchar(50);not null" json:"business_prefix"`

	// SchemaDefinition accumulates table definitions of the solution.
	SchemaDefinition datatypes.JSON `gorm:"column:schema_definition;type:jsonb;not null" json:"schema_definition"`

	IsActive bool `gorm:"column:is_active;not null" json:"is_active"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (SolutionSchema) TableName() string { return "fbs_solution_schemas" }

// SchemaMigration is one DDL statement applied to a solution database.
// Rows are append-only.
type SchemaMigration struct {
	ID uint `gorm:"primaryKey" json:"id"`

	SolutionName  string `gorm:"column:solution_name;type:varchar(100);not null;index" json:"solution_name"`
	MigrationType string `gorm:"column:migration_type;type:varchar(50);not null" json:"migration_type"`
	Table         string `gorm:"column:table_name;type:varchar(255)" json:"table_name"`
	SQLStatement  string `gorm:"column:sql_statement;type:text;not null" json:"sql_statement"`
	Status        string `gorm:"column:status;type:varchar(20);not null;index" json:"status"`
	Error         string `gorm:"column:error;type:text" json:"error,omitempty"`

	ExecutedAt time.Time `gorm:"column:executed_at;not null" json:"executed_at"`
}

func (SchemaMigration) TableName() string { return "fbs_schema_migrations" }

// Discovery is the durable record of the latest discovery for a key
// (discovery_type, domain, name, version).
type Discovery struct {
	// ID is a UUID v5 of the key.
	ID uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`

	DiscoveryType string `gorm:"column:discovery_type;type:varchar(50);not null;uniqueIndex:idx_fbs_discovery_key,priority:1" json:"discovery_type"`
	Domain        string `gorm:"column:domain;type:varchar(100);not null;uniqueIndex:idx_fbs_discovery_key,priority:2" json:"domain"`
	Name          string `gorm:"column:name;type:varchar(255);not null;uniqueIndex:idx_fbs_discovery_key,priority:3" json:"name"`
	Version       string `gorm:"column:version;type:varchar(50);not null;uniqueIndex:idx_fbs_discovery_key,priority:4" json:"version"`

	Metadata         datatypes.JSON `gorm:"column:metadata;type:jsonb;not null" json:"metadata"`
	SchemaDefinition datatypes.JSON `gorm:"column:schema_definition;type:jsonb;not null" json:"schema_definition"`

	IsActive bool `gorm:"column:is_active;not null" json:"is_active"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (Discovery) TableName() string { return "fbs_discoveries" }

// DiscoveryID returns the deterministic ID of a discovery key.
func DiscoveryID(discoveryType, domain, name, version string) uuid.UUID {
	key := fmt.Sprintf("%s|%s|%s|%s", discoveryType, domain, name, version)
	return gnuuid.New(key)
}

// NewDiscovery creates an active discovery record. Metadata and schema
// definition are encoded to JSON.
func NewDiscovery(
	discoveryType, domain, name string,
	metadata, schemaDefinition any,
) (*Discovery, error) {
	meta, err := encode(metadata)
	if err != nil {
		return nil, err
	}
	def, err := encode(schemaDefinition)
	if err != nil {
		return nil, err
	}
	return &Discovery{
		ID:               DiscoveryID(discoveryType, domain, name, DefaultVersion),
		DiscoveryType:    discoveryType,
		Domain:           domain,
		Name:             name,
		Version:          DefaultVersion,
		Metadata:         meta,
		SchemaDefinition: def,
		IsActive:         true,
	}, nil
}

// SetupStep is one step of a setup run.
type SetupStep struct {
	ID uint `gorm:"primaryKey" json:"id"`

	// RunID is a ULID shared by all steps of one run. ULIDs sort by
	// creation time.
	RunID string `gorm:"column:run_id;type:varchar(26);not null;index" json:"run_id"`

	SolutionName string         `gorm:"column:solution_name;type:varchar(100);not null;index" json:"solution_name"`
	Step         string         `gorm:"column:step;type:varchar(50);not null" json:"step"`
	Position     int            `gorm:"column:position;not null" json:"position"`
	Status       string         `gorm:"column:status;type:varchar(20);not null" json:"status"`
	Output       datatypes.JSON `gorm:"column:output;type:jsonb" json:"output,omitempty"`
	Error        string         `gorm:"column:error;type:text" json:"error,omitempty"`

	StartedAt  time.Time  `gorm:"column:started_at;not null" json:"started_at"`
	FinishedAt *time.Time `gorm:"column:finished_at" json:"finished_at,omitempty"`
}

func (SetupStep) TableName() string { return "fbs_setup_steps" }

// AllModels returns all record models for GORM AutoMigrate.
func AllModels() []any {
	return []any{
		&SolutionSchema{},
		&SchemaMigration{},
		&Discovery{},
		&SetupStep{},
	}
}

// Encode converts a value to a JSON column.
func Encode(v any) (datatypes.JSON, error) {
	return encode(v)
}

// Decode reads a JSON column into v.
func Decode(data datatypes.JSON, v any) error {
	if len(data) == 0 {
		return nil
	}
	return gnfmt.GNjson{}.Decode(data, v)
}

func encode(v any) (datatypes.JSON, error) {
	if v == nil {
		return datatypes.JSON("{}"), nil
	}
	res, err := gnfmt.GNjson{}.Encode(v)
	if err != nil {
		return nil, fmt.Errorf("encode JSON column: %w", err)
	}
	return datatypes.JSON(res), nil
}
