// Package iodiscovery inspects an Odoo database for domain models,
// workflow candidates and BI candidates.
package iodiscovery

import (
	"context"
	"log/slog"
	"time"

	"github.com/cheggaaa/pb/v3"
	"github.com/fayvad/fbs/pkg/config"
	"github.com/fayvad/fbs/pkg/discovery"
	"github.com/fayvad/fbs/pkg/odoo"
	"github.com/fayvad/fbs/pkg/rules"
	"github.com/gnames/gnfmt"
	"golang.org/x/sync/errgroup"
)

// Discoverer runs capability discovery against an Odoo session.
type Discoverer struct {
	rules         *rules.Rules
	jobs          int
	workflowLimit int
	biLimit       int
	withProgress  bool
}

// Option changes a Discoverer.
type Option func(*Discoverer)

// OptProgress shows progress bars during all-model scans.
func OptProgress(b bool) Option {
	return func(d *Discoverer) {
		d.withProgress = b
	}
}

// New creates a Discoverer.
func New(cfg *config.Config, r *rules.Rules, opts ...Option) *Discoverer {
	res := &Discoverer{
		rules:         r,
		jobs:          max(cfg.JobsNumber, 1),
		workflowLimit: cfg.Discovery.WorkflowLimit,
		biLimit:       cfg.Discovery.BILimit,
	}
	for _, opt := range opts {
		opt(res)
	}
	return res
}

// Discover runs one kind of discovery.
func (d *Discoverer) Discover(
	ctx context.Context,
	sess *odoo.Session,
	domain string,
	kind discovery.Kind,
) (*discovery.Result, error) {
	start := time.Now()
	var res *discovery.Result
	var err error
	switch kind {
	case discovery.Models:
		res, err = d.DiscoverModels(ctx, sess, domain)
	case discovery.Workflows:
		res, err = d.DiscoverWorkflows(ctx, sess, domain)
	case discovery.BIFeatures:
		res, err = d.DiscoverBI(ctx, sess, domain)
	default:
		return nil, UnknownKindError(string(kind))
	}
	if err != nil {
		return nil, err
	}
	slog.Info("Discovery finished",
		"database", res.Database,
		"domain", domain,
		"type", kind,
		"found", res.Total,
		"failed", len(res.Failures),
		"duration", gnfmt.TimeString(time.Since(start).Seconds()),
	)
	return res, nil
}

// DiscoverModels finds models which names match keywords of the domain
// and reads their fields and relationships. Models are read concurrently,
// results keep the order of ir.model.
func (d *Discoverer) DiscoverModels(
	ctx context.Context,
	sess *odoo.Session,
	domain string,
) (*discovery.Result, error) {
	names, err := listModels(ctx, sess)
	if err != nil {
		return nil, err
	}
	keywords := d.rules.Keywords(domain)
	var relevant []string
	for _, n := range names {
		if discovery.Relevant(n, keywords) {
			relevant = append(relevant, n)
		}
	}

	models := make([]*discovery.Model, len(relevant))
	failures := make([]error, len(relevant))

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(d.jobs)
	for i, name := range relevant {
		g.Go(func() error {
			m, err := inspectModel(gCtx, sess, name)
			if err != nil {
				if ctxErr := gCtx.Err(); ctxErr != nil {
					return ctxErr
				}
				failures[i] = err
				return nil
			}
			models[i] = m
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	res := newResult(sess, domain, discovery.Models)
	for i, m := range models {
		if m == nil {
			res.Failures = append(res.Failures, modelFailure(relevant[i], failures[i]))
			continue
		}
		res.Models = append(res.Models, *m)
	}
	res.Total = len(res.Models)
	return res, nil
}

// DiscoverWorkflows scans all models for workflow indicators. The scan
// stops when the workflow limit is reached.
func (d *Discoverer) DiscoverWorkflows(
	ctx context.Context,
	sess *odoo.Session,
	domain string,
) (*discovery.Result, error) {
	res := newResult(sess, domain, discovery.Workflows)
	err := d.scan(ctx, sess, "Scanning workflows", d.workflowLimit,
		func(name string, fields map[string]discovery.Field) bool {
			ind := discovery.WorkflowIndicators(fields)
			if !ind.Any() {
				return false
			}
			wf := discovery.BuildWorkflow(d.rules, name, fields, ind)
			res.Workflows = append(res.Workflows, wf)
			return true
		},
		res,
	)
	if err != nil {
		return nil, err
	}
	res.Total = len(res.Workflows)
	return res, nil
}

// DiscoverBI scans all models for BI candidates. The scan stops when the
// BI limit is reached.
func (d *Discoverer) DiscoverBI(
	ctx context.Context,
	sess *odoo.Session,
	domain string,
) (*discovery.Result, error) {
	res := newResult(sess, domain, discovery.BIFeatures)
	err := d.scan(ctx, sess, "Scanning BI features", d.biLimit,
		func(name string, fields map[string]discovery.Field) bool {
			if !discovery.BIQualifies(d.rules, name, fields) {
				return false
			}
			bi, err := d.biFeature(ctx, sess, name, fields)
			if err != nil {
				res.Failures = append(res.Failures, modelFailure(name, err))
			}
			res.BIFeatures = append(res.BIFeatures, bi)
			return true
		},
		res,
	)
	if err != nil {
		return nil, err
	}
	res.Total = len(res.BIFeatures)
	return res, nil
}

// scan walks all models in ir.model order, calls fn with fields of each
// model and stops after limit models were accepted by fn.
func (d *Discoverer) scan(
	ctx context.Context,
	sess *odoo.Session,
	prefix string,
	limit int,
	fn func(name string, fields map[string]discovery.Field) bool,
	res *discovery.Result,
) error {
	names, err := listModels(ctx, sess)
	if err != nil {
		return err
	}

	var bar *pb.ProgressBar
	if d.withProgress {
		bar = newProgressBar(len(names), prefix+": ")
		defer bar.Finish()
	}

	var accepted int
	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return err
		}
		if bar != nil {
			bar.Increment()
		}
		recs, err := sess.FieldsGet(ctx, name, discovery.FieldAttributes)
		if err != nil {
			res.Failures = append(res.Failures, modelFailure(name, err))
			continue
		}
		if fn(name, discovery.FieldsFromRecords(recs)) {
			accepted++
		}
		if limit > 0 && accepted >= limit {
			break
		}
	}
	return nil
}

func (d *Discoverer) biFeature(
	ctx context.Context,
	sess *odoo.Session,
	name string,
	fields map[string]discovery.Field,
) (discovery.BIFeature, error) {
	defReports, defDashboards := discovery.DefaultBI(d.rules, name)
	res := discovery.BIFeature{
		Model:      name,
		Reports:    discovery.Unique(defReports),
		Dashboards: discovery.Unique(defDashboards),
		Metrics:    discovery.Metrics(fields),
	}

	reports, err := sess.SearchRead(ctx, "ir.actions.report",
		[]any{[]any{"model", "=", name}}, []string{"name"}, 0)
	if err != nil {
		return res, err
	}
	var found []string
	for _, r := range reports {
		found = append(found, r.String("name"))
	}
	res.Reports = discovery.Unique(found, defReports)

	actions, err := sess.SearchRead(ctx, "ir.actions.act_window",
		[]any{[]any{"res_model", "=", name}}, []string{"name", "view_mode"}, 0)
	if err != nil {
		return res, err
	}
	found = nil
	for _, a := range actions {
		if discovery.IsChartView(a.String("view_mode")) {
			found = append(found, a.String("name"))
		}
	}
	res.Dashboards = discovery.Unique(found, defDashboards)
	return res, nil
}

func listModels(ctx context.Context, sess *odoo.Session) ([]string, error) {
	recs, err := sess.SearchRead(ctx, "ir.model", nil, []string{"model", "name"}, 0)
	if err != nil {
		return nil, err
	}
	res := make([]string, 0, len(recs))
	for _, r := range recs {
		if m := r.String("model"); m != "" {
			res = append(res, m)
		}
	}
	return res, nil
}

func inspectModel(
	ctx context.Context,
	sess *odoo.Session,
	name string,
) (*discovery.Model, error) {
	recs, err := sess.FieldsGet(ctx, name, discovery.FieldAttributes)
	if err != nil {
		return nil, err
	}
	res := &discovery.Model{
		ModelName:     name,
		Fields:        discovery.FieldsFromRecords(recs),
		Relationships: make(map[string]discovery.Relationship),
	}

	types := make([]any, len(discovery.RelationalTypes))
	for i, t := range discovery.RelationalTypes {
		types[i] = t
	}
	rels, err := sess.SearchRead(ctx, "ir.model.fields",
		[]any{
			[]any{"model", "=", name},
			[]any{"ttype", "in", types},
		},
		[]string{"name", "relation", "ttype"}, 0,
	)
	if err != nil {
		return nil, err
	}
	for _, r := range rels {
		res.Relationships[r.String("name")] = discovery.Relationship{
			RelatedModel: r.String("relation"),
			Type:         r.String("ttype"),
		}
	}
	return res, nil
}

func newResult(sess *odoo.Session, domain string, kind discovery.Kind) *discovery.Result {
	return &discovery.Result{
		Domain:   domain,
		Type:     kind,
		Database: sess.Database(),
	}
}

func modelFailure(model string, err error) discovery.ModelFailure {
	slog.Warn("Model inspection failed", "model", model, "error", err)
	return discovery.ModelFailure{Model: model, Error: err.Error()}
}

// newProgressBar creates a new progress bar with consistent
// settings.
func newProgressBar(
	total int,
	prefix string,
) *pb.ProgressBar {
	bar := pb.Full.Start(total)
	bar.Set("prefix", prefix)
	bar.Set(pb.CleanOnFinish, true)
	return bar
}
