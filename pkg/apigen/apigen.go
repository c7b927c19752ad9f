// Package apigen describes CRUD endpoints of adapted models of a
// solution. It produces descriptors only, no handlers are generated.
package apigen

import (
	"maps"
	"slices"
	"strings"

	"github.com/fayvad/fbs/pkg/adapt"
	"github.com/fayvad/fbs/pkg/schema"
)

// Endpoint is one REST operation of a resource.
type Endpoint struct {
	Method string `json:"method"`
	Path   string `json:"path"`
	Action string `json:"action"`
}

// Resource groups endpoints of one model.
type Resource struct {
	Model         string     `json:"model"`
	BusinessModel string     `json:"business_model,omitempty"`
	Table         string     `json:"table"`
	Path          string     `json:"path"`
	Fields        []string   `json:"fields"`
	BusinessLogic []string   `json:"business_logic,omitempty"`
	Endpoints     []Endpoint `json:"endpoints"`
}

// Spec is the API description of a solution.
type Spec struct {
	SolutionName string     `json:"solution_name"`
	Domain       string     `json:"domain"`
	BasePath     string     `json:"base_path"`
	Resources    []Resource `json:"resources"`
	// Missing lists requested models that have no adapted counterpart.
	Missing []string `json:"missing,omitempty"`
}

// Build creates endpoint descriptors for adapted models. If models is
// not empty, only models with these Odoo or business names are used.
// Resources are sorted by path.
func Build(solution, tablePrefix string, res *adapt.Result, models []string) *Spec {
	spec := &Spec{
		SolutionName: solution,
		Domain:       res.Domain,
		BasePath:     "/api/" + solution,
		Resources:    []Resource{},
	}

	wanted := make(map[string]bool, len(models))
	for _, m := range models {
		if m = strings.TrimSpace(m); m != "" {
			wanted[m] = false
		}
	}

	for _, m := range res.Models {
		if !m.Adapted {
			continue
		}
		if len(wanted) > 0 {
			_, byModel := wanted[m.ModelName]
			_, byBusiness := wanted[m.BusinessModel]
			if !byModel && !byBusiness {
				continue
			}
			if byModel {
				wanted[m.ModelName] = true
			}
			if byBusiness {
				wanted[m.BusinessModel] = true
			}
		}
		spec.Resources = append(spec.Resources, resource(spec.BasePath, tablePrefix, m))
	}

	for k, found := range wanted {
		if !found {
			spec.Missing = append(spec.Missing, k)
		}
	}
	slices.Sort(spec.Missing)
	slices.SortFunc(spec.Resources, func(a, b Resource) int {
		return strings.Compare(a.Path, b.Path)
	})
	return spec
}

func resource(base, tablePrefix string, m adapt.Model) Resource {
	name := m.BusinessModel
	table := m.BusinessModel
	if name == "" {
		name = strings.ReplaceAll(m.ModelName, ".", "_")
		table = schema.ModelTableName(tablePrefix, m.ModelName)
	}
	path := base + "/" + name + "/"
	item := path + "{id}/"
	return Resource{
		Model:         m.ModelName,
		BusinessModel: m.BusinessModel,
		Table:         table,
		Path:          path,
		Fields:        slices.Sorted(maps.Keys(m.Fields)),
		BusinessLogic: m.BusinessLogic,
		Endpoints: []Endpoint{
			{Method: "GET", Path: path, Action: "list"},
			{Method: "POST", Path: path, Action: "create"},
			{Method: "GET", Path: item, Action: "retrieve"},
			{Method: "PUT", Path: item, Action: "update"},
			{Method: "PATCH", Path: item, Action: "partial_update"},
			{Method: "DELETE", Path: item, Action: "delete"},
		},
	}
}
