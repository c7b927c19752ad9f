package apigen_test

import (
	"testing"

	"github.com/fayvad/fbs/pkg/adapt"
	"github.com/fayvad/fbs/pkg/apigen"
	"github.com/fayvad/fbs/pkg/discovery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func adapted() *adapt.Result {
	return &adapt.Result{
		Domain:      "rental",
		KnownDomain: true,
		Models: []adapt.Model{
			{
				ModelName:     "res.partner",
				BusinessModel: "rental_tenant",
				Fields: map[string]discovery.Field{
					"tenant_name":  {Type: "char"},
					"tenant_email": {Type: "char"},
				},
				Adapted: true,
			},
			{
				ModelName:     "product.template",
				BusinessModel: "rental_property",
				Fields:        map[string]discovery.Field{"property_name": {Type: "char"}},
				BusinessLogic: []string{"availability_check"},
				Adapted:       true,
			},
			{
				ModelName: "calendar.event",
				Fields:    map[string]discovery.Field{"name": {Type: "char"}},
			},
		},
	}
}

func TestBuild(t *testing.T) {
	spec := apigen.Build("acme", "fbs_", adapted(), nil)
	assert.Equal(t, "/api/acme", spec.BasePath)
	assert.Equal(t, "rental", spec.Domain)
	require.Len(t, spec.Resources, 2, "only adapted models get endpoints")

	prop := spec.Resources[0]
	assert.Equal(t, "product.template", prop.Model)
	assert.Equal(t, "/api/acme/rental_property/", prop.Path)
	assert.Equal(t, "rental_property", prop.Table)
	assert.Equal(t, []string{"availability_check"}, prop.BusinessLogic)
	assert.Len(t, prop.Endpoints, 6)
	assert.Equal(t, "/api/acme/rental_property/{id}/", prop.Endpoints[2].Path)

	tenant := spec.Resources[1]
	assert.Equal(t, []string{"tenant_email", "tenant_name"}, tenant.Fields)
}

func TestBuildFilter(t *testing.T) {
	spec := apigen.Build("acme", "fbs_", adapted(),
		[]string{"rental_tenant", "product.template", "ghost", " "})
	assert.Len(t, spec.Resources, 2)
	assert.Equal(t, []string{"ghost"}, spec.Missing)

	spec = apigen.Build("acme", "fbs_", adapted(), []string{"res.partner"})
	require.Len(t, spec.Resources, 1)
	assert.Equal(t, "rental_tenant", spec.Resources[0].BusinessModel)
	assert.Empty(t, spec.Missing)
}

func TestBuildUnknownDomain(t *testing.T) {
	res := &adapt.Result{Domain: "farm"}
	spec := apigen.Build("acme", "fbs_", res, nil)
	assert.Empty(t, spec.Resources)
	assert.NotNil(t, spec.Resources)
}
