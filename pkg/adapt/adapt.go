// Package adapt relabels discovered Odoo metadata into business-domain
// terms using the domain mappings of rule tables. Adaptation is a pure
// function of rules, a domain name and discoveries.
package adapt

import (
	"fmt"
	"log/slog"
	"maps"
	"slices"
	"strings"

	"github.com/fayvad/fbs/pkg/discovery"
	"github.com/fayvad/fbs/pkg/rules"
)

const unmappedNote = "no %s mapping for %s in domain %s, passed through unchanged"

// Model is a discovered model after adaptation.
type Model struct {
	ModelName     string                            `json:"model_name"`
	BusinessModel string                            `json:"business_model,omitempty"`
	Fields        map[string]discovery.Field        `json:"fields"`
	Relationships map[string]discovery.Relationship `json:"relationships"`
	FieldMappings map[string]string                 `json:"field_mappings,omitempty"`
	BusinessLogic []string                          `json:"business_logic,omitempty"`
	Adapted       bool                              `json:"adapted"`
	Note          string                            `json:"note,omitempty"`
}

// Workflow is a discovered workflow after adaptation.
type Workflow struct {
	discovery.Workflow
	WorkflowName   string   `json:"workflow_name,omitempty"`
	OriginalStates []string `json:"original_states,omitempty"`
	Adapted        bool     `json:"adapted"`
	Note           string   `json:"note,omitempty"`
}

// BIFeature is a discovered BI feature after adaptation.
type BIFeature struct {
	discovery.BIFeature
	BusinessReports    []string `json:"business_reports,omitempty"`
	BusinessDashboards []string `json:"business_dashboards,omitempty"`
	Adapted            bool     `json:"adapted"`
	Note               string   `json:"note,omitempty"`
}

// Result is the outcome of adaptation. For a domain without rules
// KnownDomain is false and OriginalDiscoveries holds the input.
type Result struct {
	Domain              string                 `json:"domain"`
	KnownDomain         bool                   `json:"known_domain"`
	Models              []Model                `json:"adapted_models,omitempty"`
	Workflows           []Workflow             `json:"adapted_workflows,omitempty"`
	BIFeatures          []BIFeature            `json:"adapted_bi_features,omitempty"`
	OriginalDiscoveries *discovery.Discoveries `json:"original_discoveries,omitempty"`
	Warnings            []string               `json:"warnings,omitempty"`
}

// Adapt applies domain mappings of rules to discoveries.
func Adapt(r *rules.Rules, domain string, d discovery.Discoveries) *Result {
	res := &Result{Domain: domain}
	dm, ok := r.Domain(domain)
	if !ok {
		msg := fmt.Sprintf("no adaptation rules for domain %s", domain)
		slog.Warn("Adaptation skipped", "domain", domain, "reason", msg)
		res.OriginalDiscoveries = &d
		res.Warnings = append(res.Warnings, msg)
		return res
	}
	res.KnownDomain = true

	for _, m := range d.Models {
		res.Models = append(res.Models, res.adaptModel(domain, dm, m))
	}
	for _, w := range d.Workflows {
		res.Workflows = append(res.Workflows, adaptWorkflow(domain, dm, w))
	}
	for _, b := range d.BIFeatures {
		res.BIFeatures = append(res.BIFeatures, adaptBI(domain, dm, b))
	}
	return res
}

// AdaptedModels returns names of models that had a mapping.
func (r *Result) AdaptedModels() []string {
	var res []string
	for _, m := range r.Models {
		if m.Adapted {
			res = append(res, m.ModelName)
		}
	}
	return res
}

// BusinessModels returns business model names keyed by Odoo model.
func (r *Result) BusinessModels() map[string]string {
	res := make(map[string]string)
	for _, m := range r.Models {
		if m.Adapted {
			res[m.ModelName] = m.BusinessModel
		}
	}
	return res
}

func (r *Result) adaptModel(
	domain string,
	dm rules.DomainMapping,
	m discovery.Model,
) Model {
	mm, ok := dm.Models[m.ModelName]
	if !ok {
		return Model{
			ModelName:     m.ModelName,
			Fields:        m.Fields,
			Relationships: m.Relationships,
			Note:          fmt.Sprintf(unmappedNote, "model", m.ModelName, domain),
		}
	}

	res := Model{
		ModelName:     m.ModelName,
		BusinessModel: mm.BusinessModel,
		Fields:        renameKeys(m.Fields, mm.FieldMappings, r.collision(m.ModelName)),
		Relationships: renameKeys(m.Relationships, mm.FieldMappings, nil),
		FieldMappings: make(map[string]string),
		BusinessLogic: slices.Clone(mm.BusinessLogic),
		Adapted:       true,
	}
	for old, nw := range mm.FieldMappings {
		if _, ok := m.Fields[old]; ok {
			res.FieldMappings[old] = nw
		}
	}
	return res
}

func (r *Result) collision(model string) func(string) {
	return func(field string) {
		msg := fmt.Sprintf("renamed field %s of %s collides with an existing field", field, model)
		slog.Warn("Adaptation collision", "model", model, "field", field)
		r.Warnings = append(r.Warnings, msg)
	}
}

// renameKeys copies a map renaming keys that appear in mapping. Renamed
// entries win over existing keys with the same name.
func renameKeys[V any](
	src map[string]V,
	mapping map[string]string,
	onCollision func(string),
) map[string]V {
	res := make(map[string]V, len(src))
	for k, v := range src {
		if _, ok := mapping[k]; !ok {
			res[k] = v
		}
	}
	for _, k := range slices.Sorted(maps.Keys(src)) {
		nw, ok := mapping[k]
		if !ok {
			continue
		}
		if _, exists := res[nw]; exists && onCollision != nil {
			onCollision(nw)
		}
		res[nw] = src[k]
	}
	return res
}

func adaptWorkflow(
	domain string,
	dm rules.DomainMapping,
	w discovery.Workflow,
) Workflow {
	wm, ok := dm.Workflows[w.Model]
	if !ok {
		return Workflow{
			Workflow: w,
			Note:     fmt.Sprintf(unmappedNote, "workflow", w.Model, domain),
		}
	}

	res := Workflow{
		Workflow:       w,
		WorkflowName:   wm.WorkflowName,
		OriginalStates: slices.Clone(w.States),
		Adapted:        true,
	}
	res.States = make([]string, len(w.States))
	for i, s := range w.States {
		res.States[i] = mapState(wm.StateMappings, s)
	}
	res.Transitions = make([]string, len(w.Transitions))
	for i, t := range w.Transitions {
		res.Transitions[i] = mapTransition(wm.StateMappings, t)
	}
	return res
}

func mapState(mapping map[string]string, state string) string {
	if nw, ok := mapping[state]; ok {
		return nw
	}
	return state
}

// mapTransition renames both ends of a transition written as from_to_to.
func mapTransition(mapping map[string]string, t string) string {
	from, to, ok := strings.Cut(t, "_to_")
	if !ok {
		return t
	}
	return mapState(mapping, from) + "_to_" + mapState(mapping, to)
}

func adaptBI(
	domain string,
	dm rules.DomainMapping,
	b discovery.BIFeature,
) BIFeature {
	bm, ok := dm.BI[b.Model]
	if !ok {
		return BIFeature{
			BIFeature: b,
			Note:      fmt.Sprintf(unmappedNote, "BI", b.Model, domain),
		}
	}
	return BIFeature{
		BIFeature:          b,
		BusinessReports:    slices.Clone(bm.Reports),
		BusinessDashboards: slices.Clone(bm.Dashboards),
		Adapted:            true,
	}
}
