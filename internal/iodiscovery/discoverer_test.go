package iodiscovery_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/fayvad/fbs/internal/iodiscovery"
	"github.com/fayvad/fbs/internal/iotesting"
	"github.com/fayvad/fbs/pkg/config"
	"github.com/fayvad/fbs/pkg/discovery"
	"github.com/fayvad/fbs/pkg/errcode"
	"github.com/fayvad/fbs/pkg/odoo"
	"github.com/fayvad/fbs/pkg/rules"
	"github.com/gnames/gn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixture() *iotesting.FakeOdoo {
	fake := iotesting.NewFakeOdoo()
	fake.AddModel("res.lang", map[string]odoo.Record{
		"name": {"string": "Name", "type": "char"},
		"code": {"string": "Code", "type": "char"},
	})
	fake.AddModel("product.template", map[string]odoo.Record{
		"name":       {"string": "Name", "type": "char", "required": true},
		"list_price": {"string": "Sales Price", "type": "float"},
		"categ_id": {
			"string": "Category", "type": "many2one",
			"relation": "product.category", "ondelete": "restrict",
		},
	})
	fake.AddModel("res.partner", map[string]odoo.Record{
		"name":  {"string": "Name", "type": "char"},
		"email": {"string": "Email", "type": "char"},
	})
	fake.AddModel("sale.order", map[string]odoo.Record{
		"name": {"string": "Order Reference", "type": "char"},
		"state": {
			"string": "Status", "type": "selection",
			"selection": []any{
				[]any{"draft", "Quotation"},
				[]any{"sale", "Sales Order"},
				[]any{"cancel", "Cancelled"},
			},
		},
		"partner_id":   {"string": "Customer", "type": "many2one", "relation": "res.partner"},
		"amount_total": {"string": "Total", "type": "monetary"},
		"date_order":   {"string": "Order Date", "type": "datetime"},
	})
	fake.AddModel("hr.leave", map[string]odoo.Record{
		"state": {
			"string": "Status", "type": "selection",
			"selection": []any{[]any{"confirm", "To Approve"}, []any{"validate", "Approved"}},
		},
		"date_from": {"type": "datetime"},
		"date_to":   {"type": "datetime"},
	})
	fake.Add("ir.actions.report", odoo.Record{"name": "Quotation / Order", "model": "sale.order"})
	fake.Add("ir.actions.act_window", odoo.Record{
		"name": "Sales Analysis", "res_model": "sale.order", "view_mode": "graph,pivot",
	})
	fake.Add("ir.actions.act_window", odoo.Record{
		"name": "Quotations", "res_model": "sale.order", "view_mode": "tree,form",
	})
	return fake
}

func testDiscoverer(t *testing.T, opts ...config.Option) *iodiscovery.Discoverer {
	t.Helper()
	r, err := rules.Default()
	require.NoError(t, err)
	cfg := config.New()
	cfg.Update(append([]config.Option{config.OptJobsNumber(3)}, opts...))
	return iodiscovery.New(cfg, r)
}

func testSession(fake *iotesting.FakeOdoo) *odoo.Session {
	return odoo.NewSession(fake, odoo.Credentials{URL: "http://odoo", Database: "acme_odoo"})
}

func TestDiscoverModels(t *testing.T) {
	fake := fixture()
	d := testDiscoverer(t)

	res, err := d.Discover(context.Background(), testSession(fake), "rental", discovery.Models)
	require.NoError(t, err)

	assert.Equal(t, "rental", res.Domain)
	assert.Equal(t, discovery.Models, res.Type)
	assert.Equal(t, "acme_odoo", res.Database)
	assert.Equal(t, []string{"product.template", "res.partner", "sale.order"}, res.ModelNames(),
		"keyword match keeps ir.model order")
	assert.Equal(t, 3, res.Total)
	assert.Empty(t, res.Failures)

	pt := res.Models[0]
	assert.Equal(t, "float", pt.Fields["list_price"].Type)
	assert.True(t, pt.Fields["name"].Required)
	assert.Equal(t, "restrict", pt.Fields["categ_id"].OnDelete)
	assert.Equal(t, discovery.Relationship{
		RelatedModel: "product.category", Type: "many2one",
	}, pt.Relationships["categ_id"])
	assert.Len(t, pt.Relationships, 1)
}

func TestDiscoverModelsAccumulatesFailures(t *testing.T) {
	fake := fixture()
	fake.Fail["res.partner.fields_get"] = errors.New("access error")
	d := testDiscoverer(t)

	res, err := d.DiscoverModels(context.Background(), testSession(fake), "rental")
	require.NoError(t, err)
	assert.Equal(t, []string{"product.template", "sale.order"}, res.ModelNames())
	require.Len(t, res.Failures, 1)
	assert.Equal(t, "res.partner", res.Failures[0].Model)
	assert.NotEmpty(t, res.Failures[0].Error)
}

func TestDiscoverModelsTopLevelFailure(t *testing.T) {
	fake := fixture()
	fake.Fail["ir.model.search_read"] = errors.New("down")
	d := testDiscoverer(t)

	_, err := d.DiscoverModels(context.Background(), testSession(fake), "rental")
	var gnErr *gn.Error
	require.ErrorAs(t, err, &gnErr)
	assert.Equal(t, errcode.OdooRPCError, gnErr.Code)
}

func TestDiscoverWorkflows(t *testing.T) {
	fake := fixture()
	d := testDiscoverer(t)

	res, err := d.DiscoverWorkflows(context.Background(), testSession(fake), "rental")
	require.NoError(t, err)
	assert.Equal(t, []string{"sale.order", "hr.leave"}, res.ModelNames(),
		"scans all models regardless of domain")

	so := res.Workflows[0]
	assert.Equal(t, []string{"draft", "sale", "cancel"}, so.States)
	r, _ := rules.Default()
	assert.Equal(t, r.WorkflowTransitions["sale.order"], so.Transitions)

	t.Run("limit", func(t *testing.T) {
		d := testDiscoverer(t, config.OptDiscoveryWorkflowLimit(1))
		res, err := d.DiscoverWorkflows(context.Background(), testSession(fake), "rental")
		require.NoError(t, err)
		assert.Equal(t, []string{"sale.order"}, res.ModelNames())
		assert.Equal(t, 1, res.Total)
	})
}

func TestWorkflowCapBoundsCalls(t *testing.T) {
	fake := iotesting.NewFakeOdoo()
	for i := range 30 {
		fake.AddModel(fmt.Sprintf("x.model%02d", i), map[string]odoo.Record{
			"state": {"type": "selection", "selection": []any{[]any{"a", "A"}}},
		})
	}
	d := testDiscoverer(t)

	res, err := d.DiscoverWorkflows(context.Background(), testSession(fake), "any")
	require.NoError(t, err)
	assert.Equal(t, 20, res.Total)

	var reads int
	for _, c := range fake.Calls() {
		if c.Method == "fields_get" {
			reads++
		}
	}
	assert.Equal(t, 20, reads, "scan stops at the limit")
}

func TestDiscoverBI(t *testing.T) {
	fake := fixture()
	d := testDiscoverer(t)

	res, err := d.Discover(context.Background(), testSession(fake), "rental", discovery.BIFeatures)
	require.NoError(t, err)
	assert.Equal(t, []string{"sale.order", "hr.leave"}, res.ModelNames())

	so := res.BIFeatures[0]
	assert.Equal(t, "Quotation / Order", so.Reports[0])
	assert.Contains(t, so.Reports, "sales_analysis")
	assert.Equal(t, []string{"Sales Analysis", "sales_dashboard"}, so.Dashboards)
	assert.Equal(t, []string{"amount_total"}, so.Metrics)

	t.Run("report lookup failure keeps defaults", func(t *testing.T) {
		fake := fixture()
		fake.Fail["ir.actions.report"] = errors.New("no access")
		res, err := d.DiscoverBI(context.Background(), testSession(fake), "rental")
		require.NoError(t, err)
		require.Len(t, res.BIFeatures, 2)
		assert.Contains(t, res.BIFeatures[0].Reports, "sales_analysis")
		assert.Len(t, res.Failures, 2)
	})
}

func TestDiscoverUnknownKind(t *testing.T) {
	d := testDiscoverer(t)
	_, err := d.Discover(context.Background(), testSession(fixture()), "rental", "charts")
	var gnErr *gn.Error
	require.ErrorAs(t, err, &gnErr)
	assert.Equal(t, errcode.UnknownDiscoveryTypeError, gnErr.Code)
}
