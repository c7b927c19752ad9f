// Package discovery describes what capability discovery finds in an Odoo
// database: domain models with their fields and relationships, workflow
// candidates and BI candidates. Heuristics that qualify models are pure
// functions here, RPC probing is done by internal/iodiscovery.
package discovery

import (
	"fmt"
	"strings"
)

// Kind is a discovery kind.
type Kind string

const (
	Models     Kind = "models"
	Workflows  Kind = "workflows"
	BIFeatures Kind = "bi_features"
)

// Kinds lists all discovery kinds in the order they run during setup.
var Kinds = []Kind{Models, Workflows, BIFeatures}

// ParseKind converts a string to a Kind.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "models", "model":
		return Models, nil
	case "workflows", "workflow":
		return Workflows, nil
	case "bi_features", "bi", "bi-features":
		return BIFeatures, nil
	default:
		return "", fmt.Errorf("unknown discovery type %q", s)
	}
}

// Field is metadata of one model field.
type Field struct {
	Description string   `json:"description"`
	Type        string   `json:"type"`
	Required    bool     `json:"required"`
	Readonly    bool     `json:"readonly"`
	Size        int      `json:"size,omitempty"`
	Selection   []string `json:"selection,omitempty"`
	Relation    string   `json:"relation,omitempty"`
	OnDelete    string   `json:"on_delete,omitempty"`
}

// Relationship is a relational field of a model.
type Relationship struct {
	RelatedModel string `json:"related_model"`
	Type         string `json:"type"`
}

// Model is a discovered Odoo model.
type Model struct {
	ModelName     string                  `json:"model_name"`
	Fields        map[string]Field        `json:"fields"`
	Relationships map[string]Relationship `json:"relationships"`
}

// Workflow is a heuristically detected workflow of a model. States and
// transitions are approximate.
type Workflow struct {
	Model           string   `json:"model"`
	States          []string `json:"states"`
	Transitions     []string `json:"transitions"`
	Triggers        []string `json:"triggers"`
	ApprovalProcess []string `json:"approval_process"`
	WorkflowActions []string `json:"workflow_actions"`
	ValidationRules []string `json:"validation_rules"`
}

// BIFeature lists reports, dashboards and metrics of a model.
type BIFeature struct {
	Model      string   `json:"model"`
	Reports    []string `json:"reports"`
	Dashboards []string `json:"dashboards"`
	Metrics    []string `json:"metrics"`
}

// ModelFailure records a model that could not be inspected.
type ModelFailure struct {
	Model string `json:"model"`
	Error string `json:"error"`
}

// Result is the outcome of one discovery run.
type Result struct {
	Domain     string         `json:"domain"`
	Type       Kind           `json:"discovery_type"`
	Database   string         `json:"database"`
	Models     []Model        `json:"discovered_models,omitempty"`
	Workflows  []Workflow     `json:"discovered_workflows,omitempty"`
	BIFeatures []BIFeature    `json:"discovered_bi_features,omitempty"`
	Total      int            `json:"total"`
	Failures   []ModelFailure `json:"failures,omitempty"`
}

// Discoveries combines results of all kinds for adaptation.
type Discoveries struct {
	Models     []Model     `json:"models"`
	Workflows  []Workflow  `json:"workflows"`
	BIFeatures []BIFeature `json:"bi_features"`
}

// Merge adds discovered items of a result to discoveries.
func (d *Discoveries) Merge(r *Result) {
	if r == nil {
		return
	}
	d.Models = append(d.Models, r.Models...)
	d.Workflows = append(d.Workflows, r.Workflows...)
	d.BIFeatures = append(d.BIFeatures, r.BIFeatures...)
}

// ModelNames returns names of discovered models.
func (r *Result) ModelNames() []string {
	var res []string
	switch r.Type {
	case Models:
		for _, m := range r.Models {
			res = append(res, m.ModelName)
		}
	case Workflows:
		for _, w := range r.Workflows {
			res = append(res, w.Model)
		}
	case BIFeatures:
		for _, b := range r.BIFeatures {
			res = append(res, b.Model)
		}
	}
	return res
}
