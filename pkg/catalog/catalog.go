// Package catalog builds the Phase 1 module catalog of a reference Odoo
// database. Classification and feature estimation come from rule tables,
// the RPC part lives in internal/iocatalog.
package catalog

import (
	"slices"

	"github.com/fayvad/fbs/pkg/rules"
)

// ModuleCatalogEntry describes one Odoo module.
type ModuleCatalogEntry struct {
	Name              string   `json:"name"`
	DisplayName       string   `json:"display_name"`
	Description       string   `json:"description"`
	State             string   `json:"state"`
	Dependencies      []string `json:"dependencies"`
	Category          string   `json:"category"`
	EstimatedFeatures []string `json:"estimated_features"`
}

// ModuleRow is a module as read from ir.module.module.
type ModuleRow struct {
	ID            int
	Name          string
	DisplayName   string
	Description   string
	State         string
	DependencyIDs []int
}

// Catalog keeps entries by module name. Order follows the order of rows
// returned by Odoo.
type Catalog struct {
	Entries map[string]ModuleCatalogEntry `json:"modules"`
	Order   []string                      `json:"-"`
}

// Build classifies module rows. depNames resolves ids of
// ir.module.module.dependency records to module names.
func Build(r *rules.Rules, rows []ModuleRow, depNames map[int]string) *Catalog {
	res := &Catalog{
		Entries: make(map[string]ModuleCatalogEntry, len(rows)),
	}
	for _, row := range rows {
		if row.Name == "" || r.Skip(row.Name) {
			continue
		}
		if _, ok := res.Entries[row.Name]; ok {
			continue
		}
		deps := make([]string, 0, len(row.DependencyIDs))
		for _, id := range row.DependencyIDs {
			if name, ok := depNames[id]; ok {
				deps = append(deps, name)
			}
		}
		res.Entries[row.Name] = ModuleCatalogEntry{
			Name:              row.Name,
			DisplayName:       row.DisplayName,
			Description:       row.Description,
			State:             row.State,
			Dependencies:      deps,
			Category:          r.Category(row.Name),
			EstimatedFeatures: r.Features(row.Name),
		}
		res.Order = append(res.Order, row.Name)
	}
	return res
}

// Get returns an entry by module name.
func (c *Catalog) Get(name string) (ModuleCatalogEntry, bool) {
	e, ok := c.Entries[name]
	return e, ok
}

// Len returns the number of modules.
func (c *Catalog) Len() int {
	return len(c.Entries)
}

// List returns entries in catalog order.
func (c *Catalog) List() []ModuleCatalogEntry {
	res := make([]ModuleCatalogEntry, 0, len(c.Order))
	for _, name := range c.Order {
		res = append(res, c.Entries[name])
	}
	return res
}

// Categories groups module names by category, names keep catalog order.
func (c *Catalog) Categories() map[string][]string {
	res := make(map[string][]string)
	for _, name := range c.Order {
		cat := c.Entries[name].Category
		res[cat] = append(res[cat], name)
	}
	return res
}

// Installed returns sorted names of installed modules.
func (c *Catalog) Installed() []string {
	var res []string
	for name, e := range c.Entries {
		if e.State == "installed" {
			res = append(res, name)
		}
	}
	slices.Sort(res)
	return res
}
