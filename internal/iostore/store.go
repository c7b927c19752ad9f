// Package iostore implements records.Store with GORM. PostgreSQL is
// used in production, any GORM dialector works for tests.
package iostore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fayvad/fbs/pkg/config"
	"github.com/fayvad/fbs/pkg/records"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

type store struct {
	db   *gorm.DB
	pool *pgxpool.Pool
}

// New connects to the tracking database of the configuration.
func New(ctx context.Context, cfg *config.Config) (records.Store, error) {
	c := cfg.Database
	pool, err := pgxpool.New(ctx, c.DSN())
	if err != nil {
		return nil, ConnectionError(c.Host, c.Port, c.Database, err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, ConnectionError(c.Host, c.Port, c.Database, err)
	}

	sqlDB := stdlib.OpenDBFromPool(pool)
	res, err := open(postgres.New(postgres.Config{Conn: sqlDB}))
	if err != nil {
		pool.Close()
		return nil, ConnectionError(c.Host, c.Port, c.Database, err)
	}
	res.pool = pool
	return res, nil
}

// NewWithDialector creates a store on top of any GORM dialector.
func NewWithDialector(d gorm.Dialector) (records.Store, error) {
	res, err := open(d)
	if err != nil {
		return nil, ConnectionError("", 0, d.Name(), err)
	}
	return res, nil
}

func open(d gorm.Dialector) (*store, error) {
	db, err := gorm.Open(d, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}
	return &store{db: db}, nil
}

func (s *store) Migrate(ctx context.Context) error {
	if err := s.db.WithContext(ctx).AutoMigrate(records.AllModels()...); err != nil {
		return MigrateError(err)
	}
	return nil
}

func (s *store) Close() error {
	sqlDB, err := s.db.DB()
	if err == nil {
		err = sqlDB.Close()
	}
	if s.pool != nil {
		s.pool.Close()
	}
	return err
}

// UpsertSolution inserts a solution or updates the row with the same
// name in one statement. The creation time of an existing row is kept.
func (s *store) UpsertSolution(ctx context.Context, sol *records.SolutionSchema) error {
	sol.ID = 0
	sol.UpdatedAt = time.Now()
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "solution_name"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"domain", "database_name", "database_user", "database_password",
			"table_prefix", "business_prefix", "schema_definition", "is_active",
			"updated_at",
		}),
	}).Create(sol).Error
	if err != nil {
		return SaveError("solution "+sol.SolutionName, err)
	}
	return nil
}

func (s *store) Solution(ctx context.Context, name string) (*records.SolutionSchema, error) {
	var res records.SolutionSchema
	err := s.db.WithContext(ctx).Where("solution_name = ?", name).First(&res).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, NotFoundError("solution", name)
	}
	if err != nil {
		return nil, QueryError("solution "+name, err)
	}
	return &res, nil
}

func (s *store) Solutions(ctx context.Context) ([]records.SolutionSchema, error) {
	var res []records.SolutionSchema
	err := s.db.WithContext(ctx).Order("solution_name").Find(&res).Error
	if err != nil {
		return nil, QueryError("solutions", err)
	}
	return res, nil
}

func (s *store) AddMigration(ctx context.Context, m *records.SchemaMigration) error {
	if m.ExecutedAt.IsZero() {
		m.ExecutedAt = time.Now()
	}
	if err := s.db.WithContext(ctx).Create(m).Error; err != nil {
		return SaveError("migration of "+m.SolutionName, err)
	}
	return nil
}

func (s *store) Migrations(ctx context.Context, solution string) ([]records.SchemaMigration, error) {
	var res []records.SchemaMigration
	err := s.db.WithContext(ctx).
		Where("solution_name = ?", solution).
		Order("executed_at, id").
		Find(&res).Error
	if err != nil {
		return nil, QueryError("migrations of "+solution, err)
	}
	return res, nil
}

func (s *store) UpsertDiscovery(ctx context.Context, d *records.Discovery) error {
	if d.Version == "" {
		d.Version = records.DefaultVersion
	}
	d.ID = records.DiscoveryID(d.DiscoveryType, d.Domain, d.Name, d.Version)
	d.UpdatedAt = time.Now()
	// the latest writer wins
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "discovery_type"}, {Name: "domain"}, {Name: "name"}, {Name: "version"},
		},
		DoUpdates: clause.AssignmentColumns([]string{
			"metadata", "schema_definition", "is_active", "updated_at",
		}),
	}).Create(d).Error
	if err != nil {
		return SaveError(fmt.Sprintf("%s discovery %s/%s", d.DiscoveryType, d.Domain, d.Name), err)
	}
	return nil
}

func (s *store) Discovery(
	ctx context.Context,
	discoveryType, domain, name, version string,
) (*records.Discovery, error) {
	var res records.Discovery
	err := s.db.WithContext(ctx).
		Where("discovery_type = ? AND domain = ? AND name = ? AND version = ?",
			discoveryType, domain, name, version).
		First(&res).Error
	key := fmt.Sprintf("%s/%s/%s/%s", discoveryType, domain, name, version)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, NotFoundError("discovery", key)
	}
	if err != nil {
		return nil, QueryError("discovery "+key, err)
	}
	return &res, nil
}

func (s *store) Discoveries(ctx context.Context, name string) ([]records.Discovery, error) {
	var res []records.Discovery
	err := s.db.WithContext(ctx).
		Where("name = ?", name).
		Order("discovery_type, domain, version").
		Find(&res).Error
	if err != nil {
		return nil, QueryError("discoveries of "+name, err)
	}
	return res, nil
}

func (s *store) SaveStep(ctx context.Context, step *records.SetupStep) error {
	if err := s.db.WithContext(ctx).Save(step).Error; err != nil {
		return SaveError(fmt.Sprintf("setup step %s of %s", step.Step, step.SolutionName), err)
	}
	return nil
}

func (s *store) LatestRun(ctx context.Context, solution string) ([]records.SetupStep, error) {
	var last records.SetupStep
	err := s.db.WithContext(ctx).
		Where("solution_name = ?", solution).
		Order("run_id DESC").
		Limit(1).
		Find(&last).Error
	if err != nil {
		return nil, QueryError("setup runs of "+solution, err)
	}
	if last.RunID == "" {
		return nil, nil
	}

	var res []records.SetupStep
	err = s.db.WithContext(ctx).
		Where("run_id = ?", last.RunID).
		Order("position, id").
		Find(&res).Error
	if err != nil {
		return nil, QueryError("setup run "+last.RunID, err)
	}
	return res, nil
}
