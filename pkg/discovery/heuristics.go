package discovery

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/fayvad/fbs/pkg/odoo"
	"github.com/fayvad/fbs/pkg/rules"
)

// FieldAttributes are requested from fields_get.
var FieldAttributes = []string{
	"string", "type", "required", "readonly", "size",
	"selection", "relation", "ondelete",
}

// RelationalTypes are Odoo field types that link models.
var RelationalTypes = []string{"many2one", "one2many", "many2many"}

var numericTypes = map[string]struct{}{
	"integer": {}, "float": {}, "monetary": {},
}

var dateTypes = map[string]struct{}{
	"date": {}, "datetime": {},
}

// FieldFromRecord converts a fields_get description.
func FieldFromRecord(rec odoo.Record) Field {
	return Field{
		Description: rec.String("string"),
		Type:        rec.String("type"),
		Required:    rec.Bool("required"),
		Readonly:    rec.Bool("readonly"),
		Size:        rec.Int("size"),
		Selection:   rec.Selection("selection"),
		Relation:    rec.String("relation"),
		OnDelete:    rec.String("ondelete"),
	}
}

// FieldsFromRecords converts a fields_get result.
func FieldsFromRecords(recs map[string]odoo.Record) map[string]Field {
	res := make(map[string]Field, len(recs))
	for k, v := range recs {
		res[k] = FieldFromRecord(v)
	}
	return res
}

// Relevant reports whether a model name contains any of the keywords.
func Relevant(model string, keywords []string) bool {
	for _, kw := range keywords {
		if kw != "" && strings.Contains(model, kw) {
			return true
		}
	}
	return false
}

// Indicators are field names that hint a model carries a workflow.
type Indicators struct {
	State    []string
	Workflow []string
	Action   []string
	Approval []string
	Confirm  []string
	Validate []string
}

// Any reports whether at least one indicator was found.
func (i Indicators) Any() bool {
	return len(i.State)+len(i.Workflow)+len(i.Action)+
		len(i.Approval)+len(i.Confirm)+len(i.Validate) > 0
}

// WorkflowIndicators inspects field names of a model. Every list is
// sorted.
func WorkflowIndicators(fields map[string]Field) Indicators {
	var res Indicators
	for _, name := range slices.Sorted(maps.Keys(fields)) {
		f := fields[name]
		if isStateField(name, f) {
			res.State = append(res.State, name)
		}
		if strings.Contains(name, "workflow") || strings.Contains(name, "wkf") {
			res.Workflow = append(res.Workflow, name)
		}
		if strings.HasPrefix(name, "action_") {
			res.Action = append(res.Action, name)
		}
		if strings.Contains(name, "approv") {
			res.Approval = append(res.Approval, name)
		}
		if strings.Contains(name, "confirm") {
			res.Confirm = append(res.Confirm, name)
		}
		if strings.Contains(name, "validat") {
			res.Validate = append(res.Validate, name)
		}
	}
	return res
}

func isStateField(name string, f Field) bool {
	switch {
	case name == "state" || name == "status" || name == "stage_id":
		return true
	case strings.HasSuffix(name, "_state") || strings.HasSuffix(name, "_status"):
		return f.Type == "selection"
	default:
		return false
	}
}

// BuildWorkflow turns indicators into a workflow description. States come
// from the selection of the first state field. Transitions of models known
// to rules are taken from there, others get a chain of consecutive states.
func BuildWorkflow(
	r *rules.Rules,
	model string,
	fields map[string]Field,
	ind Indicators,
) Workflow {
	res := Workflow{
		Model:           model,
		States:          []string{},
		Transitions:     []string{},
		Triggers:        Unique(ind.Action, ind.Confirm),
		ApprovalProcess: Unique(ind.Approval),
		WorkflowActions: Unique(ind.Workflow, ind.Action),
		ValidationRules: Unique(ind.Validate),
	}
	for _, name := range ind.State {
		if sel := fields[name].Selection; len(sel) > 0 {
			res.States = slices.Clone(sel)
			break
		}
	}

	if tr, ok := r.WorkflowTransitions[model]; ok {
		res.Transitions = slices.Clone(tr)
		return res
	}
	for i := 1; i < len(res.States); i++ {
		res.Transitions = append(res.Transitions,
			fmt.Sprintf("%s_to_%s", res.States[i-1], res.States[i]))
	}
	return res
}

// Density counts field types relevant for BI.
type Density struct {
	Numeric   int
	Date      int
	Selection int
	Relation  int
}

// FieldDensity counts BI relevant fields of a model.
func FieldDensity(fields map[string]Field) Density {
	var res Density
	for _, f := range fields {
		switch {
		case has(numericTypes, f.Type):
			res.Numeric++
		case has(dateTypes, f.Type):
			res.Date++
		case f.Type == "selection":
			res.Selection++
		case slices.Contains(RelationalTypes, f.Type):
			res.Relation++
		}
	}
	return res
}

// BIQualifies reports whether a model is interesting for BI: it is dense
// in numeric, date, selection or relational fields, or its name contains
// a BI keyword.
func BIQualifies(r *rules.Rules, model string, fields map[string]Field) bool {
	d := FieldDensity(fields)
	if d.Numeric > 2 || d.Date > 1 || d.Selection > 1 || d.Relation > 3 {
		return true
	}
	return Relevant(model, r.BIKeywords)
}

// Metrics returns sorted numeric fields of a model.
func Metrics(fields map[string]Field) []string {
	res := []string{}
	for _, name := range slices.Sorted(maps.Keys(fields)) {
		if has(numericTypes, fields[name].Type) {
			res = append(res, name)
		}
	}
	return res
}

// DefaultBI returns reports and dashboards that rules assign to a model
// by keywords of its name.
func DefaultBI(r *rules.Rules, model string) (reports, dashboards []string) {
	for _, d := range r.BIDefaults {
		if d.Keyword != "" && strings.Contains(model, d.Keyword) {
			reports = append(reports, d.Reports...)
			dashboards = append(dashboards, d.Dashboards...)
		}
	}
	return reports, dashboards
}

// IsChartView reports whether a view_mode of a window action includes a
// graph or pivot view.
func IsChartView(viewMode string) bool {
	for _, m := range strings.Split(viewMode, ",") {
		m = strings.TrimSpace(m)
		if m == "graph" || m == "pivot" {
			return true
		}
	}
	return false
}

func has(set map[string]struct{}, k string) bool {
	_, ok := set[k]
	return ok
}

// Unique merges lists preserving the first occurrence of each item.
func Unique(lists ...[]string) []string {
	seen := make(map[string]struct{})
	res := []string{}
	for _, l := range lists {
		for _, s := range l {
			if _, ok := seen[s]; ok {
				continue
			}
			seen[s] = struct{}{}
			res = append(res, s)
		}
	}
	return res
}
