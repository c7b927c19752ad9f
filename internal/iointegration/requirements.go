package iointegration

import (
	"context"

	"github.com/fayvad/fbs/internal/iocatalog"
	"github.com/fayvad/fbs/pkg/requirements"
	"github.com/fayvad/fbs/pkg/schema"
)

// Resolution is the module set of a requirements request.
type Resolution struct {
	Request requirements.Request `json:"request"`
	Modules []string             `json:"modules"`
	// Missing are dependencies absent from the reference catalog.
	Missing []string `json:"missing"`
}

// ResolveRequirements turns an industry, features or a module list into
// the dependency-closed set of Odoo modules of the reference catalog.
func (s *Service) ResolveRequirements(
	ctx context.Context,
	req requirements.Request,
) (*Resolution, error) {
	cat, err := iocatalog.Discover(ctx, s.rules, s.reference)
	if err != nil {
		return nil, err
	}
	rs := requirements.New(s.rules, cat)
	mods, err := rs.Resolve(req)
	if err != nil {
		return nil, err
	}
	return &Resolution{Request: req, Modules: mods, Missing: rs.Missing(mods)}, nil
}

// CreateSolutionSchema creates the PostgreSQL database of a solution
// without touching Odoo.
func (s *Service) CreateSolutionSchema(
	ctx context.Context,
	sc schema.SolutionConfig,
) (*schema.CreateResult, error) {
	return s.schema.CreateSolutionSchema(ctx, sc)
}
