package iointegration

import (
	"context"

	"github.com/fayvad/fbs/internal/iocatalog"
	"github.com/fayvad/fbs/pkg/catalog"
)

// Phase1Result summarizes the module catalog of the reference database
// and the choices available for a solution.
type Phase1Result struct {
	Database     string                       `json:"database"`
	Modules      []catalog.ModuleCatalogEntry `json:"modules"`
	TotalModules int                          `json:"total_modules"`
	Categories   map[string][]string          `json:"categories"`
	Installed    []string                     `json:"installed_modules"`
	Industries   []string                     `json:"industries"`
	Features     []string                     `json:"features"`
	Domains      []string                     `json:"domains"`
}

// Phase1MetadataDiscovery reads the module catalog of the reference
// database. It changes nothing and is safe to repeat.
func (s *Service) Phase1MetadataDiscovery(ctx context.Context) (*Phase1Result, error) {
	cat, err := iocatalog.Discover(ctx, s.rules, s.reference)
	if err != nil {
		return nil, err
	}
	return &Phase1Result{
		Database:     s.reference.Database(),
		Modules:      cat.List(),
		TotalModules: cat.Len(),
		Categories:   cat.Categories(),
		Installed:    cat.Installed(),
		Industries:   s.rules.IndustryNames(),
		Features:     s.rules.FeatureNames(),
		Domains:      s.rules.DomainNames(),
	}, nil
}
