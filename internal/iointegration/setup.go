package iointegration

import (
	"context"
	"log/slog"
	"time"

	"github.com/fayvad/fbs/internal/ioinstall"
	"github.com/fayvad/fbs/internal/ioschema"
	"github.com/fayvad/fbs/pkg/discovery"
	"github.com/fayvad/fbs/pkg/records"
	"github.com/fayvad/fbs/pkg/requirements"
	"github.com/fayvad/fbs/pkg/schema"
	"github.com/gnames/gn"
	"github.com/gnames/gnfmt"
	"github.com/oklog/ulid/v2"
)

// Setup steps in the order they run.
const (
	StepResolveRequirements = "resolve_requirements"
	StepProvisionDatabase   = "provision_database"
	StepInstallModules      = "install_modules"
	StepCreateSchema        = "create_schema"
	StepDiscoverModels      = "discover_models"
	StepDiscoverWorkflows   = "discover_workflows"
	StepDiscoverBI          = "discover_bi_features"
)

// SetupRequest describes a solution to set up.
type SetupRequest struct {
	SolutionName   string                     `json:"solution_name"`
	Domain         string                     `json:"domain"`
	Requirements   requirements.Request       `json:"requirements"`
	DatabaseConfig schema.DatabaseCredentials `json:"database_config"`

	// Resume continues the latest run of the solution, completed steps
	// are not repeated.
	Resume bool `json:"resume"`
}

// StepResult is the outcome of one setup step.
type StepResult struct {
	Step     string `json:"step"`
	Status   string `json:"status"`
	Skipped  bool   `json:"skipped,omitempty"`
	Duration string `json:"duration,omitempty"`
	Error    string `json:"error,omitempty"`
}

// SetupResult is the outcome of a setup run.
type SetupResult struct {
	RunID        string         `json:"run_id"`
	SolutionName string         `json:"solution_name"`
	Domain       string         `json:"domain"`
	OdooDatabase string         `json:"odoo_database"`
	Database     string         `json:"database"`
	Modules      []string       `json:"modules"`
	Steps        []StepResult   `json:"steps"`
	Discovered   map[string]int `json:"discovered"`
}

// setupState keeps outputs of steps. Outputs of completed steps of a
// resumed run are decoded into it.
type setupState struct {
	Requirements Resolution
	Provision    ioinstall.ProvisionResult
	Install      ioinstall.InstallResult
	Schema       schema.CreateResult
	Models       discovery.Result
	Workflows    discovery.Result
	BI           discovery.Result
}

type setupStep struct {
	name string
	out  any
	run  func(context.Context) error
}

// Phase2CompleteSetup resolves modules, creates the Odoo database of a
// solution, installs the modules, creates the solution schema and runs
// all discoveries against the new Odoo database. Every step is recorded.
// A failed step stops the run, nothing done before is undone.
func (s *Service) Phase2CompleteSetup(
	ctx context.Context,
	req SetupRequest,
) (*SetupResult, error) {
	start := time.Now()
	sc, vr := s.schema.Prepare(schema.SolutionConfig{
		SolutionName:   req.SolutionName,
		Domain:         req.Domain,
		DatabaseConfig: req.DatabaseConfig,
	})
	if !vr.Valid {
		return nil, ioschema.InvalidConfigError(sc.SolutionName, vr.Errors)
	}

	runID := ulid.Make().String()
	prev := make(map[string]records.SetupStep)
	if req.Resume {
		steps, err := s.store.LatestRun(ctx, sc.SolutionName)
		if err != nil {
			return nil, err
		}
		for _, st := range steps {
			runID = st.RunID
			prev[st.Step] = st
		}
	}

	st := &setupState{}
	res := &SetupResult{
		RunID:        runID,
		SolutionName: sc.SolutionName,
		Domain:       sc.Domain,
		OdooDatabase: s.cfg.SolutionOdooDatabase(sc.SolutionName),
		Database:     s.cfg.SolutionDatabase(sc.SolutionName),
	}

	for i, step := range s.setupSteps(sc, req.Requirements, st) {
		row, ok := prev[step.name]
		if ok && row.Status == records.StatusCompleted {
			if err := records.Decode(row.Output, step.out); err != nil {
				return res, StepError(sc.SolutionName, step.name, runID, err)
			}
			res.Steps = append(res.Steps, StepResult{
				Step: step.name, Status: records.StatusCompleted, Skipped: true,
			})
			slog.Info("Setup step skipped", "run", runID, "step", step.name)
			continue
		}

		sr, err := s.runStep(ctx, &row, runID, sc.SolutionName, i, step)
		res.Steps = append(res.Steps, sr)
		if err != nil {
			return res, StepError(sc.SolutionName, step.name, runID, err)
		}
	}

	res.Modules = st.Requirements.Modules
	res.Discovered = map[string]int{
		string(discovery.Models):     st.Models.Total,
		string(discovery.Workflows):  st.Workflows.Total,
		string(discovery.BIFeatures): st.BI.Total,
	}
	slog.Info("Solution setup finished",
		"solution", sc.SolutionName,
		"run", runID,
		"duration", gnfmt.TimeString(time.Since(start).Seconds()),
	)
	gn.Info("Solution <em>%s</em> is ready", sc.SolutionName)
	return res, nil
}

// runStep runs one step and records its start and its outcome. A row of
// a failed step of a resumed run is reused.
func (s *Service) runStep(
	ctx context.Context,
	row *records.SetupStep,
	runID, solution string,
	pos int,
	step setupStep,
) (StepResult, error) {
	start := time.Now()
	row.RunID = runID
	row.SolutionName = solution
	row.Step = step.name
	row.Position = pos
	row.Status = records.StatusRunning
	row.Output = nil
	row.Error = ""
	row.StartedAt = start
	row.FinishedAt = nil
	if err := s.store.SaveStep(ctx, row); err != nil {
		return StepResult{Step: step.name, Status: records.StatusFailed, Error: err.Error()}, err
	}
	slog.Info("Setup step started", "run", runID, "step", step.name)

	stepErr := step.run(ctx)
	fin := time.Now()
	row.FinishedAt = &fin
	res := StepResult{
		Step:     step.name,
		Duration: gnfmt.TimeString(fin.Sub(start).Seconds()),
	}

	if stepErr == nil {
		out, err := records.Encode(step.out)
		if err != nil {
			stepErr = err
		} else {
			row.Output = out
			row.Status = records.StatusCompleted
		}
	}
	if stepErr != nil {
		row.Status = records.StatusFailed
		row.Error = stepErr.Error()
	}
	res.Status = row.Status
	res.Error = row.Error

	// the step outcome is recorded even if the caller gave up
	if err := s.store.SaveStep(context.WithoutCancel(ctx), row); err != nil {
		slog.Error("Cannot record setup step", "run", runID, "step", step.name, "error", err)
		if stepErr == nil {
			stepErr = err
		}
	}
	if stepErr != nil {
		slog.Error("Setup step failed", "run", runID, "step", step.name, "error", stepErr)
	}
	return res, stepErr
}

func (s *Service) setupSteps(
	sc schema.SolutionConfig,
	req requirements.Request,
	st *setupState,
) []setupStep {
	prefix := sc.WithDefaults(s.cfg.Schema.TablePrefix).TablePrefix
	discover := func(kind discovery.Kind, out *discovery.Result) func(context.Context) error {
		return func(ctx context.Context) error {
			r, err := s.discoverer.Discover(ctx, s.solutionSession(sc.SolutionName), sc.Domain, kind)
			if err != nil {
				return err
			}
			*out = *r
			return s.saveDiscovery(ctx, sc.Domain, sc.SolutionName, prefix, r)
		}
	}

	return []setupStep{
		{StepResolveRequirements, &st.Requirements, func(ctx context.Context) error {
			r, err := s.ResolveRequirements(ctx, req)
			if err != nil {
				return err
			}
			st.Requirements = *r
			return nil
		}},
		{StepProvisionDatabase, &st.Provision, func(ctx context.Context) error {
			r, err := s.installer.ProvisionDatabase(ctx, sc.SolutionName)
			if err != nil {
				return err
			}
			st.Provision = *r
			return nil
		}},
		{StepInstallModules, &st.Install, func(ctx context.Context) error {
			r, err := s.installer.InstallModules(ctx, st.Provision.Database, st.Requirements.Modules)
			if err != nil {
				return err
			}
			st.Install = *r
			return nil
		}},
		{StepCreateSchema, &st.Schema, func(ctx context.Context) error {
			r, err := s.CreateSolutionSchema(ctx, sc)
			if err != nil {
				return err
			}
			st.Schema = *r
			return nil
		}},
		{StepDiscoverModels, &st.Models, discover(discovery.Models, &st.Models)},
		{StepDiscoverWorkflows, &st.Workflows, discover(discovery.Workflows, &st.Workflows)},
		{StepDiscoverBI, &st.BI, discover(discovery.BIFeatures, &st.BI)},
	}
}
