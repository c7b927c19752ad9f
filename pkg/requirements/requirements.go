// Package requirements maps user intent (an industry, a feature list or
// an explicit module list) to the set of Odoo modules a solution needs,
// including their transitive dependencies.
package requirements

import (
	"log/slog"
	"slices"

	"github.com/fayvad/fbs/pkg/catalog"
	"github.com/fayvad/fbs/pkg/rules"
)

// AlwaysInstalled is a module that every Odoo database has, it is never
// part of the resolved set.
const AlwaysInstalled = "base"

// Request describes what a solution needs. Only the first non-empty field
// in the order Industry, Features, Direct is used.
type Request struct {
	Industry string   `json:"industry,omitempty" yaml:"industry"`
	Features []string `json:"features,omitempty" yaml:"features"`
	Direct   []string `json:"direct,omitempty"   yaml:"direct"`
}

// Kind returns which field of the request is used, or an empty string.
func (r Request) Kind() string {
	switch {
	case r.Industry != "":
		return "industry"
	case len(r.Features) > 0:
		return "features"
	case len(r.Direct) > 0:
		return "direct"
	default:
		return ""
	}
}

// Resolver resolves requests against rule tables and a module catalog.
type Resolver struct {
	rules   *rules.Rules
	catalog *catalog.Catalog
}

// New creates a resolver. The catalog provides module dependencies.
func New(r *rules.Rules, c *catalog.Catalog) *Resolver {
	return &Resolver{rules: r, catalog: c}
}

// Resolve returns a sorted list of modules for the request, dependencies
// included and the always installed module excluded.
func (r *Resolver) Resolve(req Request) ([]string, error) {
	var mods []string
	switch req.Kind() {
	case "industry":
		var ok bool
		mods, ok = r.rules.Industries[req.Industry]
		if !ok {
			return nil, UnknownIndustryError(req.Industry, r.rules.IndustryNames())
		}
	case "features":
		for _, f := range req.Features {
			fm, ok := r.rules.FeatureModules[f]
			if !ok {
				slog.Warn("Unknown feature is ignored", "feature", f)
				continue
			}
			mods = append(mods, fm...)
		}
	case "direct":
		mods = req.Direct
	default:
		return nil, MalformedRequestError()
	}
	return r.Closure(mods), nil
}

// Closure expands modules with their transitive dependencies found in
// the catalog. The result is sorted and applying Closure to it again
// gives the same list.
func (r *Resolver) Closure(modules []string) []string {
	seen := make(map[string]struct{})
	var visit func(string)
	visit = func(name string) {
		if name == "" || name == AlwaysInstalled {
			return
		}
		if _, ok := seen[name]; ok {
			return
		}
		seen[name] = struct{}{}
		if r.catalog == nil {
			return
		}
		e, ok := r.catalog.Get(name)
		if !ok {
			return
		}
		for _, d := range e.Dependencies {
			visit(d)
		}
	}
	for _, m := range modules {
		visit(m)
	}

	res := make([]string, 0, len(seen))
	for k := range seen {
		res = append(res, k)
	}
	slices.Sort(res)
	return res
}

// Missing returns modules of the list that are absent from the catalog.
func (r *Resolver) Missing(modules []string) []string {
	var res []string
	for _, m := range modules {
		if r.catalog == nil {
			res = append(res, m)
			continue
		}
		if _, ok := r.catalog.Get(m); !ok {
			res = append(res, m)
		}
	}
	return res
}
