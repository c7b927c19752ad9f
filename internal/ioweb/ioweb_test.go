package ioweb_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/fayvad/fbs/internal/iointegration"
	"github.com/fayvad/fbs/internal/iotesting"
	"github.com/fayvad/fbs/internal/ioweb"
	"github.com/fayvad/fbs/pkg/config"
	"github.com/fayvad/fbs/pkg/rules"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const acmeBody = `{
  "solution_name": "acme",
  "domain": "rental",
  "requirements": {"industry": "rental"},
  "database_config": {"user": "acme", "password": "secret"}
}`

func newRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r, err := rules.Default()
	require.NoError(t, err)
	cfg := config.New()
	svc := iointegration.New(cfg, r,
		iotesting.OdooFixture(),
		iotesting.NewStore(t),
		iotesting.NewFakePostgres().Factory(),
		iointegration.OptCache(iotesting.NewMemoryCache()),
		iointegration.OptRunner(iotesting.NewFakeRunner()),
	)
	return ioweb.NewRouter(cfg, svc)
}

func call(
	t *testing.T,
	r http.Handler,
	method, path, body string,
) (int, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var res map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res), w.Body.String())
	return w.Code, res
}

func TestHealth(t *testing.T) {
	r := newRouter(t)
	code, res := call(t, r, "GET", "/health/", "")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, true, res["success"])
	assert.Equal(t, "ok", res["status"])
}

func TestPhase1Metadata(t *testing.T) {
	r := newRouter(t)
	code, res := call(t, r, "GET", "/phase1/metadata/", "")
	require.Equal(t, http.StatusOK, code)
	meta := res["metadata"].(map[string]any)
	assert.Equal(t, "fbs_reference", meta["database"])
	assert.InDelta(t, 9, meta["total_modules"], 0)
}

func TestDiscoveries(t *testing.T) {
	r := newRouter(t)

	code, res := call(t, r, "GET", "/discoveries/rental/models/", "")
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, false, res["success"])
	assert.NotEmpty(t, res["error"])
	assert.NotContains(t, res["error"], "<em>")

	code, res = call(t, r, "POST", "/discoveries/rental/models/", "")
	require.Equal(t, http.StatusOK, code)
	d := res["discovery"].(map[string]any)
	assert.InDelta(t, 3, d["total"], 0)

	code, res = call(t, r, "GET", "/discoveries/rental/models/?name=fbs_reference", "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, true, res["success"])

	code, _ = call(t, r, "POST", "/discoveries/rental/forecasts/", "")
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestSetup(t *testing.T) {
	tests := []struct {
		msg, path, body string
		code            int
	}{
		{"solutions", "/solutions/setup/", acmeBody, http.StatusCreated},
		{"phase2", "/phase2/setup/", acmeBody, http.StatusCreated},
		{"no body", "/solutions/setup/", "{", http.StatusBadRequest},
		{"no name", "/solutions/setup/", `{"domain": "rental"}`, http.StatusBadRequest},
		{"bad name", "/solutions/setup/",
			`{"solution_name": "Acme-1", "domain": "rental"}`, http.StatusBadRequest},
		{"industry", "/solutions/setup/",
			`{"solution_name": "acme", "domain": "rental",
			  "requirements": {"industry": "mining"},
			  "database_config": {"user": "acme", "password": "secret"}}`,
			http.StatusBadRequest},
	}

	for _, v := range tests {
		t.Run(v.msg, func(t *testing.T) {
			r := newRouter(t)
			code, res := call(t, r, "POST", v.path, v.body)
			assert.Equal(t, v.code, code)
			assert.Equal(t, code == http.StatusCreated, res["success"])
		})
	}
}

func TestSolutions(t *testing.T) {
	r := newRouter(t)
	code, res := call(t, r, "GET", "/solutions/", "")
	require.Equal(t, http.StatusOK, code)
	assert.InDelta(t, 0, res["count"], 0)

	code, res = call(t, r, "POST", "/solutions/setup/", acmeBody)
	require.Equal(t, http.StatusCreated, code, res["error"])
	setup := res["setup"].(map[string]any)
	assert.Len(t, setup["steps"], 7)

	code, res = call(t, r, "GET", "/solutions/", "")
	require.Equal(t, http.StatusOK, code)
	assert.InDelta(t, 1, res["count"], 0)

	code, res = call(t, r, "GET", "/solutions/acme/status/", "")
	require.Equal(t, http.StatusOK, code)
	status := res["status"].(map[string]any)
	assert.Equal(t, "acme_odoo", status["odoo_database"])

	code, res = call(t, r, "GET", "/solutions/acme/discoveries/", "")
	require.Equal(t, http.StatusOK, code)
	assert.Len(t, res["discoveries"], 3)

	code, _ = call(t, r, "POST", "/solutions/acme/migrate/", "")
	assert.Equal(t, http.StatusOK, code)

	code, res = call(t, r, "GET", "/solutions/acme/apis/?models=rental_tenant", "")
	require.Equal(t, http.StatusOK, code)
	api := res["api"].(map[string]any)
	assert.Len(t, api["resources"], 1)

	code, _ = call(t, r, "GET", "/solutions/ghost/status/", "")
	assert.Equal(t, http.StatusNotFound, code)
}

func TestOperations(t *testing.T) {
	r := newRouter(t)
	code, _ := call(t, r, "POST", "/solutions/setup/", acmeBody)
	require.Equal(t, http.StatusCreated, code)

	tests := []struct {
		msg, solution, body string
		code                int
	}{
		{"status", "acme", `{"operation_type": "status"}`, http.StatusOK},
		{"adapt", "acme", `{"operation_type": "adapt"}`, http.StatusOK},
		{"discover", "acme", `{"operation_type": "discover"}`, http.StatusOK},
		{"unknown", "acme", `{"operation_type": "explode"}`, http.StatusBadRequest},
		{"missing", "acme", `{}`, http.StatusBadRequest},
		{"no solution", "ghost", `{"operation_type": "status"}`, http.StatusNotFound},
	}

	for _, v := range tests {
		t.Run(v.msg, func(t *testing.T) {
			code, res := call(t, r,
				"POST", "/solutions/"+v.solution+"/operations/", v.body)
			assert.Equal(t, v.code, code)
			if code == http.StatusOK {
				op := res["operation"].(map[string]any)
				assert.Equal(t, v.msg, op["operation"])
			}
		})
	}
}
