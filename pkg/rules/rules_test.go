package rules_test

import (
	"testing"

	"github.com/fayvad/fbs/pkg/rules"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	r, err := rules.Default()
	require.NoError(t, err)

	assert.Equal(t, []string{"base_", "web_", "auth_"}, r.SkipPrefixes)
	assert.ElementsMatch(t, []string{"stock", "product"}, r.FeatureModules["inventory_control"])
	assert.Equal(t, []string{"ecommerce", "hr", "rental"}, r.DomainNames())
	assert.Contains(t, r.IndustryNames(), "rental")
	assert.Contains(t, r.FeatureNames(), "inventory_control")

	rental, ok := r.Domain("rental")
	require.True(t, ok)
	assert.Equal(t, "rental_property", rental.Models["product.template"].BusinessModel)
	assert.Equal(t, "monthly_rent", rental.Models["product.template"].FieldMappings["list_price"])
}

func TestClassify(t *testing.T) {
	r, err := rules.Default()
	require.NoError(t, err)

	tests := []struct {
		module   string
		skip     bool
		category string
	}{
		{"sale", false, "sales"},
		{"sale_management", false, "sales"},
		{"sale_renting", false, "rental"},
		{"crm", false, "sales"},
		{"account_payment", false, "accounting"},
		{"website_sale", false, "ecommerce"},
		{"hr_holidays", false, "human_resources"},
		{"base_import", true, "other"},
		{"web_editor", true, "other"},
		{"auth_signup", true, "other"},
		{"lunch", false, "other"},
	}

	for _, v := range tests {
		assert.Equal(t, v.skip, r.Skip(v.module), v.module)
		assert.Equal(t, v.category, r.Category(v.module), v.module)
	}
}

func TestFeatures(t *testing.T) {
	r, err := rules.Default()
	require.NoError(t, err)

	assert.Equal(t, []string{"inventory_control", "warehouse_management", "stock_moves"},
		r.Features("stock"))
	assert.Equal(t, []string{"basic_functionality"}, r.Features("lunch"))

	ff := r.Features("lunch")
	ff[0] = "changed"
	assert.Equal(t, []string{"basic_functionality"}, r.Features("lunch"),
		"callers get a copy")
}

func TestKeywords(t *testing.T) {
	r, err := rules.Default()
	require.NoError(t, err)
	assert.Contains(t, r.Keywords("rental"), "product")
	assert.Equal(t, []string{"fleet"}, r.Keywords("fleet"))
}

func TestParse(t *testing.T) {
	t.Run("defaults are filled", func(t *testing.T) {
		r, err := rules.Parse([]byte("skip_prefixes: [x_]\n"))
		require.NoError(t, err)
		assert.Equal(t, "other", r.Category("anything"))
		assert.Equal(t, []string{"basic_functionality"}, r.Features("anything"))
	})

	t.Run("broken yaml", func(t *testing.T) {
		_, err := rules.Parse([]byte("categories: [\n"))
		assert.Error(t, err)
	})

	t.Run("incomplete category", func(t *testing.T) {
		_, err := rules.Parse([]byte("categories:\n  - {prefix: sale}\n"))
		assert.Error(t, err)
	})

	t.Run("model without business model", func(t *testing.T) {
		data := `
domains:
  rental:
    models:
      res.partner:
        field_mappings: {name: tenant_name}
`
		_, err := rules.Parse([]byte(data))
		assert.Error(t, err)
	})
}
