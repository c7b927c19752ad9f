package records

import "context"

// Store keeps tracking records.
type Store interface {
	// Migrate creates or updates tables of tracking records.
	Migrate(ctx context.Context) error

	// Close releases the database connection.
	Close() error

	// UpsertSolution creates a solution record or replaces the record
	// with the same solution name.
	UpsertSolution(ctx context.Context, s *SolutionSchema) error

	// Solution returns the record of a solution. A missing solution is
	// an error with errcode.StoreNotFoundError.
	Solution(ctx context.Context, name string) (*SolutionSchema, error)

	// Solutions returns all solutions ordered by name.
	Solutions(ctx context.Context) ([]SolutionSchema, error)

	// AddMigration appends a migration row.
	AddMigration(ctx context.Context, m *SchemaMigration) error

	// Migrations returns migration rows of a solution in execution order.
	Migrations(ctx context.Context, solution string) ([]SchemaMigration, error)

	// UpsertDiscovery creates a discovery record or updates metadata
	// and schema definition of the record with the same key.
	UpsertDiscovery(ctx context.Context, d *Discovery) error

	// Discovery returns the record of a key or an error with
	// errcode.StoreNotFoundError.
	Discovery(ctx context.Context, discoveryType, domain, name, version string) (*Discovery, error)

	// Discoveries returns records with the given name, for example all
	// discoveries of a solution.
	Discoveries(ctx context.Context, name string) ([]Discovery, error)

	// SaveStep creates or updates a setup step.
	SaveStep(ctx context.Context, s *SetupStep) error

	// LatestRun returns steps of the most recent run of a solution in
	// step order. It returns nil if the solution has no runs.
	LatestRun(ctx context.Context, solution string) ([]SetupStep, error)
}
