package iotesting

import "github.com/fayvad/fbs/pkg/odoo"

// OdooFixture returns a fake Odoo with a small module catalog, a few
// sales and HR models, and sales reports.
func OdooFixture() *FakeOdoo {
	fake := NewFakeOdoo()
	fake.AddModule("base", "installed")
	fake.AddModule("product", "uninstalled", "base")
	fake.AddModule("account", "uninstalled", "base")
	fake.AddModule("sale", "uninstalled", "product", "account")
	fake.AddModule("sale_management", "uninstalled", "sale")
	fake.AddModule("contacts", "uninstalled", "base")
	fake.AddModule("maintenance", "uninstalled", "base")
	fake.AddModule("calendar", "uninstalled", "base")
	fake.AddModule("hr", "uninstalled", "base")

	fake.AddModel("res.lang", map[string]odoo.Record{
		"name": {"string": "Name", "type": "char"},
	})
	fake.AddModel("product.template", map[string]odoo.Record{
		"name":       {"string": "Name", "type": "char", "required": true},
		"list_price": {"string": "Sales Price", "type": "float"},
		"type":       {"string": "Type", "type": "selection", "selection": []any{}},
		"categ_id": {
			"string": "Category", "type": "many2one", "relation": "product.category",
		},
	})
	fake.AddModel("res.partner", map[string]odoo.Record{
		"name":  {"string": "Name", "type": "char"},
		"email": {"string": "Email", "type": "char"},
		"phone": {"string": "Phone", "type": "char"},
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
	fake.AddModel("hr.employee", map[string]odoo.Record{
		"name":          {"string": "Name", "type": "char"},
		"department_id": {"string": "Department", "type": "many2one", "relation": "hr.department"},
	})
	fake.Add("ir.actions.report", odoo.Record{"name": "Quotation / Order", "model": "sale.order"})
	fake.Add("ir.actions.act_window", odoo.Record{
		"name": "Sales Analysis", "res_model": "sale.order", "view_mode": "graph,pivot",
	})
	return fake
}
