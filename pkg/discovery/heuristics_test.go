package discovery_test

import (
	"testing"

	"github.com/fayvad/fbs/pkg/discovery"
	"github.com/fayvad/fbs/pkg/odoo"
	"github.com/fayvad/fbs/pkg/rules"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseKind(t *testing.T) {
	tests := []struct {
		in  string
		res discovery.Kind
		err bool
	}{
		{"models", discovery.Models, false},
		{" Workflows ", discovery.Workflows, false},
		{"bi", discovery.BIFeatures, false},
		{"bi_features", discovery.BIFeatures, false},
		{"reports", "", true},
	}
	for _, v := range tests {
		res, err := discovery.ParseKind(v.in)
		if v.err {
			assert.Error(t, err, v.in)
			continue
		}
		require.NoError(t, err, v.in)
		assert.Equal(t, v.res, res, v.in)
	}
}

func TestFieldFromRecord(t *testing.T) {
	rec := odoo.Record{
		"string":    "Status",
		"type":      "selection",
		"required":  true,
		"readonly":  false,
		"selection": []any{[]any{"draft", "Draft"}, []any{"done", "Done"}},
		"relation":  false,
		"size":      false,
	}
	f := discovery.FieldFromRecord(rec)
	assert.Equal(t, "Status", f.Description)
	assert.Equal(t, "selection", f.Type)
	assert.True(t, f.Required)
	assert.Equal(t, []string{"draft", "done"}, f.Selection)
	assert.Empty(t, f.Relation)
	assert.Zero(t, f.Size)
}

func TestWorkflowIndicators(t *testing.T) {
	fields := map[string]discovery.Field{
		"state":           {Type: "selection", Selection: []string{"draft", "sent", "sale"}},
		"invoice_status":  {Type: "selection"},
		"delivery_status": {Type: "char"},
		"action_confirm":  {Type: "boolean"},
		"approver_id":     {Type: "many2one"},
		"is_confirmed":    {Type: "boolean"},
		"validation_date": {Type: "date"},
		"wkf_instance":    {Type: "char"},
		"name":            {Type: "char"},
	}
	ind := discovery.WorkflowIndicators(fields)
	assert.True(t, ind.Any())
	assert.Equal(t, []string{"invoice_status", "state"}, ind.State)
	assert.Equal(t, []string{"wkf_instance"}, ind.Workflow)
	assert.Equal(t, []string{"action_confirm"}, ind.Action)
	assert.Equal(t, []string{"approver_id"}, ind.Approval)
	assert.Equal(t, []string{"action_confirm", "is_confirmed"}, ind.Confirm)
	assert.Equal(t, []string{"validation_date"}, ind.Validate)

	plain := discovery.WorkflowIndicators(map[string]discovery.Field{
		"name": {Type: "char"},
	})
	assert.False(t, plain.Any())
}

func TestBuildWorkflow(t *testing.T) {
	r, err := rules.Default()
	require.NoError(t, err)

	fields := map[string]discovery.Field{
		"state":          {Type: "selection", Selection: []string{"new", "open", "closed"}},
		"action_confirm": {Type: "boolean"},
	}
	ind := discovery.WorkflowIndicators(fields)

	t.Run("linear transitions", func(t *testing.T) {
		wf := discovery.BuildWorkflow(r, "helpdesk.ticket", fields, ind)
		assert.Equal(t, []string{"new", "open", "closed"}, wf.States)
		assert.Equal(t, []string{"new_to_open", "open_to_closed"}, wf.Transitions)
		assert.Equal(t, []string{"action_confirm"}, wf.Triggers)
		assert.Equal(t, []string{"action_confirm"}, wf.WorkflowActions)
		assert.Empty(t, wf.ApprovalProcess)
	})

	t.Run("known model", func(t *testing.T) {
		wf := discovery.BuildWorkflow(r, "sale.order", fields, ind)
		assert.Equal(t, r.WorkflowTransitions["sale.order"], wf.Transitions)
	})
}

func TestBIQualifies(t *testing.T) {
	r, err := rules.Default()
	require.NoError(t, err)

	tests := []struct {
		msg    string
		model  string
		fields map[string]discovery.Field
		res    bool
	}{
		{
			msg:   "numeric dense",
			model: "x.measure",
			fields: map[string]discovery.Field{
				"a": {Type: "float"}, "b": {Type: "integer"}, "c": {Type: "monetary"},
			},
			res: true,
		},
		{
			msg:   "two numeric fields are not enough",
			model: "x.measure",
			fields: map[string]discovery.Field{
				"a": {Type: "float"}, "b": {Type: "integer"},
			},
			res: false,
		},
		{
			msg:   "dates",
			model: "x.event",
			fields: map[string]discovery.Field{
				"start": {Type: "date"}, "stop": {Type: "datetime"},
			},
			res: true,
		},
		{
			msg:   "selections",
			model: "x.flag",
			fields: map[string]discovery.Field{
				"a": {Type: "selection"}, "b": {Type: "selection"},
			},
			res: true,
		},
		{
			msg:   "relations",
			model: "x.link",
			fields: map[string]discovery.Field{
				"a": {Type: "many2one"}, "b": {Type: "one2many"},
				"c": {Type: "many2many"}, "d": {Type: "many2one"},
			},
			res: true,
		},
		{
			msg:    "keyword",
			model:  "sale.report",
			fields: map[string]discovery.Field{},
			res:    true,
		},
		{
			msg:   "plain model",
			model: "res.lang",
			fields: map[string]discovery.Field{
				"name": {Type: "char"}, "code": {Type: "char"},
			},
			res: false,
		},
	}

	for _, v := range tests {
		assert.Equal(t, v.res, discovery.BIQualifies(r, v.model, v.fields), v.msg)
	}
}

func TestMetricsAndDefaults(t *testing.T) {
	r, err := rules.Default()
	require.NoError(t, err)

	fields := map[string]discovery.Field{
		"amount_total": {Type: "monetary"},
		"qty":          {Type: "float"},
		"name":         {Type: "char"},
	}
	assert.Equal(t, []string{"amount_total", "qty"}, discovery.Metrics(fields))

	reports, dashboards := discovery.DefaultBI(r, "sale.order")
	assert.Contains(t, reports, "sales_analysis")
	assert.Equal(t, []string{"sales_dashboard"}, dashboards)

	reports, dashboards = discovery.DefaultBI(r, "res.lang")
	assert.Empty(t, reports)
	assert.Empty(t, dashboards)

	assert.True(t, discovery.IsChartView("tree,graph"))
	assert.True(t, discovery.IsChartView("pivot"))
	assert.False(t, discovery.IsChartView("tree,form"))
}

func TestMerge(t *testing.T) {
	var d discovery.Discoveries
	d.Merge(&discovery.Result{
		Type:   discovery.Models,
		Models: []discovery.Model{{ModelName: "res.partner"}},
	})
	d.Merge(&discovery.Result{
		Type:      discovery.Workflows,
		Workflows: []discovery.Workflow{{Model: "sale.order"}},
	})
	d.Merge(nil)
	assert.Len(t, d.Models, 1)
	assert.Len(t, d.Workflows, 1)
	assert.Empty(t, d.BIFeatures)
}
