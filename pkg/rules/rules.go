// Package rules holds the declarative tables that drive module
// classification, requirements resolution, discovery heuristics and
// domain adaptation. Default tables are embedded in pkg/templates and can
// be replaced by a file set in schema.rules_file.
package rules

import (
	"fmt"
	"slices"
	"strings"

	"github.com/fayvad/fbs/pkg/templates"
	"gopkg.in/yaml.v3"
)

// Rules is the complete set of rule tables.
type Rules struct {
	// SkipPrefixes filter out technical modules during Phase 1.
	SkipPrefixes []string `yaml:"skip_prefixes"`

	// Categories classify modules by name prefix, the first match wins.
	Categories []CategoryRule `yaml:"categories"`

	// DefaultCategory is used when no prefix matches.
	DefaultCategory string `yaml:"default_category"`

	// ModuleFeatures estimate feature tags of a module by its name.
	ModuleFeatures map[string][]string `yaml:"module_features"`

	// DefaultFeatures are used for modules absent from ModuleFeatures.
	DefaultFeatures []string `yaml:"default_features"`

	// Industries map an industry name to modules.
	Industries map[string][]string `yaml:"industries"`

	// FeatureModules map a feature tag to modules.
	FeatureModules map[string][]string `yaml:"feature_modules"`

	// DomainKeywords select relevant models of a domain by substring.
	DomainKeywords map[string][]string `yaml:"domain_keywords"`

	// WorkflowTransitions are known transitions of common models.
	WorkflowTransitions map[string][]string `yaml:"workflow_transitions"`

	// BIKeywords qualify a model for BI discovery by its name.
	BIKeywords []string `yaml:"bi_keywords"`

	// BIDefaults add reports and dashboards to models by keyword.
	BIDefaults []BIDefault `yaml:"bi_defaults"`

	// Domains contain adaptation mappings per business domain.
	Domains map[string]DomainMapping `yaml:"domains"`
}

// CategoryRule assigns Category to modules which names start with Prefix.
type CategoryRule struct {
	Prefix   string `yaml:"prefix"`
	Category string `yaml:"category"`
}

// BIDefault lists reports and dashboards for models that contain Keyword.
type BIDefault struct {
	Keyword    string   `yaml:"keyword"`
	Reports    []string `yaml:"reports"`
	Dashboards []string `yaml:"dashboards"`
}

// DomainMapping contains adaptation rules of one business domain.
type DomainMapping struct {
	Models    map[string]ModelMapping    `yaml:"models"     json:"models"`
	Workflows map[string]WorkflowMapping `yaml:"workflows"  json:"workflows"`
	BI        map[string]BIMapping       `yaml:"bi"         json:"bi"`
}

// ModelMapping relabels an Odoo model as a business model.
type ModelMapping struct {
	BusinessModel string            `yaml:"business_model" json:"business_model"`
	FieldMappings map[string]string `yaml:"field_mappings" json:"field_mappings"`
	BusinessLogic []string          `yaml:"business_logic" json:"business_logic"`
}

// WorkflowMapping relabels workflow states of an Odoo model.
type WorkflowMapping struct {
	WorkflowName  string            `yaml:"workflow_name"  json:"workflow_name"`
	StateMappings map[string]string `yaml:"state_mappings" json:"state_mappings"`
}

// BIMapping lists business reports and dashboards of an Odoo model.
type BIMapping struct {
	Reports    []string `yaml:"reports"    json:"reports"`
	Dashboards []string `yaml:"dashboards" json:"dashboards"`
}

// Default returns the embedded rule tables.
func Default() (*Rules, error) {
	return Parse([]byte(templates.RulesYAML))
}

// Parse decodes rule tables from YAML and checks them.
func Parse(data []byte) (*Rules, error) {
	var res Rules
	if err := yaml.Unmarshal(data, &res); err != nil {
		return nil, fmt.Errorf("cannot decode rules: %w", err)
	}
	if err := res.check(); err != nil {
		return nil, err
	}
	if res.DefaultCategory == "" {
		res.DefaultCategory = "other"
	}
	if len(res.DefaultFeatures) == 0 {
		res.DefaultFeatures = []string{"basic_functionality"}
	}
	return &res, nil
}

func (r *Rules) check() error {
	for i, c := range r.Categories {
		if c.Prefix == "" || c.Category == "" {
			return fmt.Errorf("category rule %d needs prefix and category", i+1)
		}
	}
	for name, d := range r.Domains {
		for model, m := range d.Models {
			if m.BusinessModel == "" {
				return fmt.Errorf("domain %s: model %s has no business_model", name, model)
			}
		}
	}
	return nil
}

// Skip reports whether a module is filtered out of the catalog.
func (r *Rules) Skip(module string) bool {
	for _, p := range r.SkipPrefixes {
		if strings.HasPrefix(module, p) {
			return true
		}
	}
	return false
}

// Category classifies a module by its name.
func (r *Rules) Category(module string) string {
	for _, c := range r.Categories {
		if strings.HasPrefix(module, c.Prefix) {
			return c.Category
		}
	}
	return r.DefaultCategory
}

// Features estimates feature tags of a module.
func (r *Rules) Features(module string) []string {
	if ff, ok := r.ModuleFeatures[module]; ok {
		return slices.Clone(ff)
	}
	return slices.Clone(r.DefaultFeatures)
}

// Domain returns adaptation rules of a domain.
func (r *Rules) Domain(name string) (DomainMapping, bool) {
	d, ok := r.Domains[name]
	return d, ok
}

// Keywords returns model-name keywords of a domain. Domains without
// keywords use the domain name itself.
func (r *Rules) Keywords(domain string) []string {
	if kw, ok := r.DomainKeywords[domain]; ok {
		return kw
	}
	return []string{domain}
}

// IndustryNames returns sorted known industries.
func (r *Rules) IndustryNames() []string {
	return sortedKeys(r.Industries)
}

// FeatureNames returns sorted known features.
func (r *Rules) FeatureNames() []string {
	return sortedKeys(r.FeatureModules)
}

// DomainNames returns sorted domains with adaptation rules.
func (r *Rules) DomainNames() []string {
	return sortedKeys(r.Domains)
}

func sortedKeys[V any](m map[string]V) []string {
	res := make([]string, 0, len(m))
	for k := range m {
		res = append(res, k)
	}
	slices.Sort(res)
	return res
}
