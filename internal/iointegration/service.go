// Package iointegration ties discovery, installation, schema creation
// and adaptation into the three phases of a solution lifecycle:
// metadata discovery, complete setup and post-setup operations.
package iointegration

import (
	"context"
	"errors"

	"github.com/fayvad/fbs/internal/iocache"
	"github.com/fayvad/fbs/internal/iodiscovery"
	"github.com/fayvad/fbs/internal/ioinstall"
	"github.com/fayvad/fbs/internal/ioodoo"
	"github.com/fayvad/fbs/internal/ioschema"
	"github.com/fayvad/fbs/pkg/cache"
	"github.com/fayvad/fbs/pkg/config"
	"github.com/fayvad/fbs/pkg/db"
	"github.com/fayvad/fbs/pkg/errcode"
	"github.com/fayvad/fbs/pkg/odoo"
	"github.com/fayvad/fbs/pkg/records"
	"github.com/fayvad/fbs/pkg/rules"
	"github.com/gnames/gn"
)

// Service runs solution lifecycle operations. It is safe for concurrent
// use, but concurrent setups of the same solution are not coordinated.
type Service struct {
	cfg        *config.Config
	rules      *rules.Rules
	client     odoo.Client
	store      records.Store
	cache      cache.Cache
	schema     *ioschema.Manager
	installer  *ioinstall.Installer
	discoverer *iodiscovery.Discoverer
	reference  *odoo.Session

	runner       ioinstall.Runner
	withProgress bool
}

// Option changes a Service.
type Option func(*Service)

// OptCache sets the discovery cache.
func OptCache(c cache.Cache) Option {
	return func(s *Service) {
		s.cache = c
	}
}

// OptRunner sets the runner of PostgreSQL client tools.
func OptRunner(r ioinstall.Runner) Option {
	return func(s *Service) {
		s.runner = r
	}
}

// OptProgress shows progress bars of long scans and module installation.
func OptProgress(b bool) Option {
	return func(s *Service) {
		s.withProgress = b
	}
}

// New creates a Service. Without OptCache discovery reads go to the
// store only.
func New(
	cfg *config.Config,
	r *rules.Rules,
	client odoo.Client,
	store records.Store,
	newOp db.Factory,
	opts ...Option,
) *Service {
	res := &Service{
		cfg:       cfg,
		rules:     r,
		client:    client,
		store:     store,
		cache:     iocache.Noop{},
		schema:    ioschema.NewManager(cfg, newOp, store),
		reference: odoo.NewSession(client, ioodoo.Credentials(cfg)),
	}
	for _, opt := range opts {
		opt(res)
	}
	res.installer = ioinstall.New(
		cfg, client, ioodoo.Credentials(cfg), res.runner,
		ioinstall.OptProgress(res.withProgress),
	)
	res.discoverer = iodiscovery.New(cfg, r, iodiscovery.OptProgress(res.withProgress))
	return res
}

// Rules returns rule tables used by the service.
func (s *Service) Rules() *rules.Rules {
	return s.rules
}

// solutionSession opens a session to the Odoo database of a solution.
func (s *Service) solutionSession(solution string) *odoo.Session {
	cr := ioodoo.Credentials(s.cfg).WithDatabase(s.cfg.SolutionOdooDatabase(solution))
	return odoo.NewSession(s.client, cr)
}

// solution returns the record of a registered solution.
func (s *Service) solution(ctx context.Context, name string) (*records.SolutionSchema, error) {
	sol, err := s.store.Solution(ctx, name)
	if isNotFound(err) {
		return nil, SolutionNotFoundError(name)
	}
	return sol, err
}

func isNotFound(err error) bool {
	var gnErr *gn.Error
	return errors.As(err, &gnErr) && gnErr.Code == errcode.StoreNotFoundError
}
