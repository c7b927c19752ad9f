package ioodoo

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/fayvad/fbs/pkg/config"
	"github.com/fayvad/fbs/pkg/errcode"
	"github.com/fayvad/fbs/pkg/odoo"
	"github.com/gnames/gn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	intResponse = `<?xml version="1.0"?>
<methodResponse><params><param><value><int>7</int></value></param></params></methodResponse>`

	falseResponse = `<?xml version="1.0"?>
<methodResponse><params><param><value><boolean>0</boolean></value></param></params></methodResponse>`

	listResponse = `<?xml version="1.0"?>
<methodResponse><params><param><value><array><data>
<value><struct>
<member><name>id</name><value><int>1</int></value></member>
<member><name>name</name><value><string>sale</string></value></member>
</struct></value>
</data></array></value></param></params></methodResponse>`

	faultResponse = `<?xml version="1.0"?>
<methodResponse><fault><value><struct>
<member><name>faultCode</name><value><int>1</int></value></member>
<member><name>faultString</name><value><string>Access Denied</string></value></member>
</struct></value></fault></methodResponse>`
)

func testClient(retries int) *client {
	cfg := config.New()
	cfg.Update([]config.Option{
		config.OptOdooTimeoutSec(5),
		config.OptOdooRetries(retries),
	})
	c := New(cfg).(*client)
	c.backoff = 0
	return c
}

func TestAuthenticate(t *testing.T) {
	tests := []struct {
		msg  string
		body string
		uid  int
		code gn.ErrorCode
	}{
		{"uid", intResponse, 7, 0},
		{"wrong credentials", falseResponse, 0, errcode.OdooAuthError},
		{"fault", faultResponse, 0, errcode.OdooAuthError},
	}

	for _, v := range tests {
		var path string
		srv := httptest.NewServer(http.HandlerFunc(
			func(w http.ResponseWriter, r *http.Request) {
				path = r.URL.Path
				_, _ = io.WriteString(w, v.body)
			}))

		cr := odoo.Credentials{URL: srv.URL, Database: "ref", User: "admin", Password: "x"}
		uid, err := testClient(1).Authenticate(context.Background(), cr)
		srv.Close()

		assert.Equal(t, "/xmlrpc/2/common", path, v.msg)
		if v.code == 0 {
			require.NoError(t, err, v.msg)
			assert.Equal(t, v.uid, uid, v.msg)
			continue
		}
		var gnErr *gn.Error
		require.ErrorAs(t, err, &gnErr, v.msg)
		assert.Equal(t, v.code, gnErr.Code, v.msg)
	}
}

func TestExecuteKw(t *testing.T) {
	var body string
	srv := httptest.NewServer(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			b, _ := io.ReadAll(r.Body)
			body = string(b)
			_, _ = io.WriteString(w, listResponse)
		}))
	defer srv.Close()

	cr := odoo.Credentials{URL: srv.URL, Database: "ref", User: "admin", Password: "x"}
	res, err := testClient(1).ExecuteKw(
		context.Background(), cr, 2,
		"ir.module.module", "search_read",
		[]any{[]any{}},
		map[string]any{"fields": []string{"name"}},
	)
	require.NoError(t, err)
	assert.Contains(t, body, "<methodName>execute_kw</methodName>")
	assert.Contains(t, body, "ir.module.module")

	recs, err := odoo.ToRecords(res)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, "sale", recs[0].String("name"))
	assert.Equal(t, 1, recs[0].Int("id"))
}

func TestRetries(t *testing.T) {
	t.Run("transport failures are retried", func(t *testing.T) {
		var hits atomic.Int32
		srv := httptest.NewServer(http.HandlerFunc(
			func(w http.ResponseWriter, r *http.Request) {
				if hits.Add(1) < 3 {
					w.WriteHeader(http.StatusBadGateway)
					return
				}
				_, _ = io.WriteString(w, intResponse)
			}))
		defer srv.Close()

		cr := odoo.Credentials{URL: srv.URL, Database: "ref"}
		res, err := testClient(3).ExecuteKw(context.Background(), cr, 2,
			"res.partner", "search_count", []any{[]any{}}, map[string]any{})
		require.NoError(t, err)
		assert.Equal(t, int32(3), hits.Load())
		n, ok := odoo.AsInt(res)
		assert.True(t, ok)
		assert.Equal(t, 7, n)
	})

	t.Run("faults are not retried", func(t *testing.T) {
		var hits atomic.Int32
		srv := httptest.NewServer(http.HandlerFunc(
			func(w http.ResponseWriter, r *http.Request) {
				hits.Add(1)
				_, _ = io.WriteString(w, faultResponse)
			}))
		defer srv.Close()

		cr := odoo.Credentials{URL: srv.URL, Database: "ref"}
		_, err := testClient(3).ExecuteKw(context.Background(), cr, 2,
			"res.partner", "read", []any{[]any{1}}, map[string]any{})
		var gnErr *gn.Error
		require.ErrorAs(t, err, &gnErr)
		assert.Equal(t, errcode.OdooRPCError, gnErr.Code)
		assert.Equal(t, int32(1), hits.Load())
		assert.True(t, strings.Contains(err.Error(), "Access Denied") ||
			strings.Contains(gnErr.Err.Error(), "Access Denied"))
	})

	t.Run("unreachable server", func(t *testing.T) {
		srv := httptest.NewServer(http.NotFoundHandler())
		url := srv.URL
		srv.Close()

		cr := odoo.Credentials{URL: url, Database: "ref"}
		_, err := testClient(2).Authenticate(context.Background(), cr)
		var gnErr *gn.Error
		require.ErrorAs(t, err, &gnErr)
		assert.Equal(t, errcode.OdooConnectionError, gnErr.Code)
	})
}
