package iointegration

import (
	"context"
	"log/slog"
	"slices"

	"github.com/fayvad/fbs/internal/ioschema"
	"github.com/fayvad/fbs/pkg/adapt"
	"github.com/fayvad/fbs/pkg/apigen"
	"github.com/fayvad/fbs/pkg/discovery"
	"github.com/fayvad/fbs/pkg/records"
	"github.com/fayvad/fbs/pkg/schema"
)

// Operations of a provisioned solution.
const (
	OpDiscover = "discover"
	OpAdapt    = "adapt"
	OpStatus   = "status"
)

// Operations lists valid operation types.
var Operations = []string{OpDiscover, OpAdapt, OpStatus}

// AdaptationType is the discovery type of stored adaptation results.
const AdaptationType = "adaptation"

// OperationResult wraps the result of a solution operation.
type OperationResult struct {
	Operation    string `json:"operation"`
	SolutionName string `json:"solution_name"`
	Result       any    `json:"result"`
}

// SolutionOperations runs a post-setup operation on a solution.
func (s *Service) SolutionOperations(
	ctx context.Context,
	solution, op string,
) (*OperationResult, error) {
	if !slices.Contains(Operations, op) {
		return nil, UnknownOperationError(op)
	}
	sol, err := s.solution(ctx, solution)
	if err != nil {
		return nil, err
	}

	res := &OperationResult{Operation: op, SolutionName: solution}
	switch op {
	case OpDiscover:
		res.Result, err = s.discoverSolution(ctx, sol)
	case OpAdapt:
		res.Result, err = s.AdaptSolution(ctx, sol)
	case OpStatus:
		res.Result, err = s.SolutionStatus(ctx, solution)
	}
	if err != nil {
		return nil, err
	}
	return res, nil
}

// discoverSolution runs all discoveries against the Odoo database of a
// solution and stores the results.
func (s *Service) discoverSolution(
	ctx context.Context,
	sol *records.SolutionSchema,
) ([]*discovery.Result, error) {
	sess := s.solutionSession(sol.SolutionName)
	res := make([]*discovery.Result, 0, len(discovery.Kinds))
	for _, k := range discovery.Kinds {
		r, err := s.discoverer.Discover(ctx, sess, sol.Domain, k)
		if err != nil {
			return nil, err
		}
		if err = s.saveDiscovery(ctx, sol.Domain, sol.SolutionName, sol.TablePrefix, r); err != nil {
			return nil, err
		}
		res = append(res, r)
	}
	return res, nil
}

// AdaptSolution applies domain rules to stored discoveries of a solution
// and keeps the outcome as an adaptation record.
func (s *Service) AdaptSolution(
	ctx context.Context,
	sol *records.SolutionSchema,
) (*adapt.Result, error) {
	d, err := s.solutionDiscoveries(ctx, sol)
	if err != nil {
		return nil, err
	}
	res := adapt.Adapt(s.rules, sol.Domain, d)
	rec, err := records.NewDiscovery(
		AdaptationType, sol.Domain, sol.SolutionName, res, res.BusinessModels(),
	)
	if err != nil {
		return nil, err
	}
	if err = s.store.UpsertDiscovery(ctx, rec); err != nil {
		return nil, err
	}
	return res, nil
}

// MigrationReport is the outcome of a solution migration.
type MigrationReport struct {
	*ioschema.MigrationResult
	NewModels []string `json:"new_models"`
}

// MigrateSolutionSchema discovers models of the solution Odoo database
// again and creates tables for models that were not discovered before.
// Models which tables failed stay unknown, so the next migration retries
// them.
func (s *Service) MigrateSolutionSchema(
	ctx context.Context,
	solution string,
) (*MigrationReport, error) {
	sol, err := s.solution(ctx, solution)
	if err != nil {
		return nil, err
	}

	known := make(map[string]bool)
	current, err := s.loadDiscovery(ctx, sol.Domain, discovery.Models, solution)
	switch {
	case err == nil:
		for _, m := range current.Models {
			known[m.ModelName] = true
		}
	case !isNotFound(err):
		return nil, err
	}

	fresh, err := s.discoverer.DiscoverModels(ctx, s.solutionSession(solution), sol.Domain)
	if err != nil {
		return nil, err
	}
	var added []discovery.Model
	for _, m := range fresh.Models {
		if !known[m.ModelName] {
			added = append(added, m)
		}
	}

	report := &MigrationReport{NewModels: []string{}}
	for _, m := range added {
		report.NewModels = append(report.NewModels, m.ModelName)
	}
	mres, migErr := s.schema.MigrateModels(ctx, solution, added)
	if mres == nil {
		return nil, migErr
	}
	report.MigrationResult = mres

	failed := make(map[string]bool, len(mres.TablesFailed))
	for _, t := range mres.TablesFailed {
		failed[t] = true
	}
	stored := *fresh
	stored.Models = slices.DeleteFunc(slices.Clone(fresh.Models), func(m discovery.Model) bool {
		return failed[schema.ModelTableName(sol.TablePrefix, m.ModelName)]
	})
	stored.Total = len(stored.Models)
	if err = s.saveDiscovery(ctx, sol.Domain, solution, sol.TablePrefix, &stored); err != nil {
		return report, err
	}

	slog.Info("Solution schema migrated",
		"solution", solution,
		"new_models", len(added),
		"tables_created", len(mres.TablesCreated),
		"tables_failed", len(mres.TablesFailed),
	)
	return report, migErr
}

// GenerateAPIs describes CRUD endpoints of adapted models of a solution.
// Empty domain means the domain of the solution, empty models means all
// adapted models.
func (s *Service) GenerateAPIs(
	ctx context.Context,
	solution, domain string,
	models []string,
) (*apigen.Spec, error) {
	sol, err := s.solution(ctx, solution)
	if err != nil {
		return nil, err
	}
	if domain == "" {
		domain = sol.Domain
	}
	d, err := s.solutionDiscoveries(ctx, sol)
	if err != nil {
		return nil, err
	}
	ar := adapt.Adapt(s.rules, domain, d)
	return apigen.Build(solution, sol.TablePrefix, ar, models), nil
}
