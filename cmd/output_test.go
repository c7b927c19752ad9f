package cmd

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/fayvad/fbs/internal/iointegration"
	"github.com/fayvad/fbs/pkg/apigen"
	"github.com/fayvad/fbs/pkg/discovery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckFormat(t *testing.T) {
	for _, f := range []string{"json", "table", "simple"} {
		assert.NoError(t, checkFormat(f))
	}
	assert.Error(t, checkFormat("xml"))
}

func TestRender(t *testing.T) {
	spec := &apigen.Spec{
		SolutionName: "acme",
		Resources: []apigen.Resource{{
			Model: "res.partner",
			Path:  "/api/acme/rental_tenant/",
			Endpoints: []apigen.Endpoint{
				{Method: "GET", Path: "/api/acme/rental_tenant/", Action: "list"},
				{Method: "POST", Path: "/api/acme/rental_tenant/", Action: "create"},
			},
		}},
	}
	tv := apisView(spec)
	require.Len(t, tv.rows, 2)

	var buf bytes.Buffer
	require.NoError(t, render(&buf, formatSimple, spec, tv))
	assert.Equal(t,
		"GET\t/api/acme/rental_tenant/\tlist\tres.partner\n"+
			"POST\t/api/acme/rental_tenant/\tcreate\tres.partner\n",
		buf.String())

	buf.Reset()
	require.NoError(t, render(&buf, formatTable, spec, tv))
	assert.Contains(t, buf.String(), "METHOD")
	assert.Contains(t, buf.String(), "res.partner")

	buf.Reset()
	require.NoError(t, render(&buf, formatJSON, spec, tv))
	var back apigen.Spec
	require.NoError(t, json.Unmarshal(buf.Bytes(), &back))
	assert.Equal(t, "acme", back.SolutionName)
}

func TestViews(t *testing.T) {
	res := &discovery.Result{
		Type: discovery.Workflows,
		Workflows: []discovery.Workflow{{
			Model:           "sale.order",
			States:          []string{"draft", "sale"},
			WorkflowActions: []string{"action_confirm"},
		}},
	}
	tv := discoveryView(res)
	assert.Equal(t, []string{"MODEL", "STATES", "ACTIONS"}, tv.header)
	assert.Equal(t, [][]string{{"sale.order", "draft,sale", "action_confirm"}}, tv.rows)

	sv := solutionsView([]iointegration.SolutionSummary{{
		SolutionName: "acme", Domain: "rental", DatabaseName: "fbs_acme_db",
		Tables: 10, UpdatedAt: time.Now(),
	}})
	require.Len(t, sv.rows, 1)
	assert.Equal(t, "10", sv.rows[0][3])

	st := setupView(&iointegration.SetupResult{Steps: []iointegration.StepResult{
		{Step: "resolve_requirements", Status: "completed", Skipped: true},
	}})
	assert.Equal(t, "completed (skipped)", st.rows[0][1])
}
