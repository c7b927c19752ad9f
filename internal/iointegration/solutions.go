package iointegration

import (
	"context"
	"log/slog"
	"slices"
	"time"

	"github.com/fayvad/fbs/pkg/records"
	"github.com/fayvad/fbs/pkg/schema"
)

// SolutionSummary is a short description of a registered solution.
type SolutionSummary struct {
	SolutionName string    `json:"solution_name"`
	Domain       string    `json:"domain"`
	DatabaseName string    `json:"database_name"`
	IsActive     bool      `json:"is_active"`
	Tables       int       `json:"tables"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// MigrationStats counts migration rows by status.
type MigrationStats struct {
	Total     int `json:"total"`
	Completed int `json:"completed"`
	Failed    int `json:"failed"`
}

// Status describes the state of a solution.
type Status struct {
	SolutionSummary
	OdooDatabase string              `json:"odoo_database"`
	TablePrefix  string              `json:"table_prefix"`
	TableNames   []string            `json:"table_names"`

	// MissingTables are recorded in the schema definition but absent
	// from the solution database. UntrackedTables are the other way
	// round. Both are empty when the database cannot be listed, then
	// DatabaseError is set.
	MissingTables   []string `json:"missing_tables,omitempty"`
	UntrackedTables []string `json:"untracked_tables,omitempty"`
	DatabaseError   string   `json:"database_error,omitempty"`

	Migrations   MigrationStats      `json:"migrations"`
	LastRun      []records.SetupStep `json:"last_run,omitempty"`
	Discoveries  []DiscoverySummary  `json:"discoveries"`
}

// DiscoverySummary describes a stored discovery without its payload.
type DiscoverySummary struct {
	DiscoveryType string    `json:"discovery_type"`
	Domain        string    `json:"domain"`
	Name          string    `json:"name"`
	Version       string    `json:"version"`
	Total         int       `json:"total"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// ListSolutions returns summaries of all solutions ordered by name.
func (s *Service) ListSolutions(ctx context.Context) ([]SolutionSummary, error) {
	sols, err := s.store.Solutions(ctx)
	if err != nil {
		return nil, err
	}
	res := make([]SolutionSummary, 0, len(sols))
	for i := range sols {
		sum, _, err := summary(&sols[i])
		if err != nil {
			return nil, err
		}
		res = append(res, sum)
	}
	return res, nil
}

// SolutionStatus returns tables, migration counts, the latest setup run
// and stored discoveries of a solution. Recorded tables are compared
// with tables of the solution database.
func (s *Service) SolutionStatus(ctx context.Context, name string) (*Status, error) {
	sol, err := s.solution(ctx, name)
	if err != nil {
		return nil, err
	}
	sum, def, err := summary(sol)
	if err != nil {
		return nil, err
	}
	res := &Status{
		SolutionSummary: sum,
		OdooDatabase:    s.cfg.SolutionOdooDatabase(name),
		TablePrefix:     sol.TablePrefix,
		TableNames:      def.TableNames(),
	}

	live, err := s.schema.Tables(ctx, sol.DatabaseName)
	if err != nil {
		slog.Warn("Cannot list solution tables",
			"solution", name, "database", sol.DatabaseName, "error", err)
		res.DatabaseError = err.Error()
	} else {
		res.MissingTables, res.UntrackedTables = tableDrift(res.TableNames, live)
	}

	migs, err := s.store.Migrations(ctx, name)
	if err != nil {
		return nil, err
	}
	for _, m := range migs {
		res.Migrations.Total++
		switch m.Status {
		case records.StatusCompleted:
			res.Migrations.Completed++
		case records.StatusFailed:
			res.Migrations.Failed++
		}
	}

	if res.LastRun, err = s.store.LatestRun(ctx, name); err != nil {
		return nil, err
	}
	if res.Discoveries, err = s.discoveries(ctx, name); err != nil {
		return nil, err
	}
	return res, nil
}

// SolutionDiscoveries returns stored discoveries of a solution.
func (s *Service) SolutionDiscoveries(ctx context.Context, name string) ([]DiscoverySummary, error) {
	if _, err := s.solution(ctx, name); err != nil {
		return nil, err
	}
	return s.discoveries(ctx, name)
}

func (s *Service) discoveries(ctx context.Context, name string) ([]DiscoverySummary, error) {
	recs, err := s.store.Discoveries(ctx, name)
	if err != nil {
		return nil, err
	}
	res := make([]DiscoverySummary, 0, len(recs))
	for _, r := range recs {
		var meta struct {
			Total int `json:"total"`
		}
		if r.DiscoveryType != AdaptationType {
			if err := records.Decode(r.Metadata, &meta); err != nil {
				return nil, err
			}
		}
		res = append(res, DiscoverySummary{
			DiscoveryType: r.DiscoveryType,
			Domain:        r.Domain,
			Name:          r.Name,
			Version:       r.Version,
			Total:         meta.Total,
			UpdatedAt:     r.UpdatedAt,
		})
	}
	return res, nil
}

// tableDrift returns recorded tables absent from the database and
// database tables that are not recorded.
func tableDrift(recorded, live []string) (missing, untracked []string) {
	for _, t := range recorded {
		if !slices.Contains(live, t) {
			missing = append(missing, t)
		}
	}
	for _, t := range live {
		if !slices.Contains(recorded, t) {
			untracked = append(untracked, t)
		}
	}
	return missing, untracked
}

func summary(sol *records.SolutionSchema) (SolutionSummary, schema.Definition, error) {
	def := make(schema.Definition)
	if err := records.Decode(sol.SchemaDefinition, &def); err != nil {
		return SolutionSummary{}, nil, err
	}
	return SolutionSummary{
		SolutionName: sol.SolutionName,
		Domain:       sol.Domain,
		DatabaseName: sol.DatabaseName,
		IsActive:     sol.IsActive,
		Tables:       len(def),
		CreatedAt:    sol.CreatedAt,
		UpdatedAt:    sol.UpdatedAt,
	}, def, nil
}
