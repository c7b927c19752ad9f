package iotesting

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/fayvad/fbs/pkg/odoo"
)

// Call is a recorded execute_kw invocation of FakeOdoo.
type Call struct {
	Database string
	Model    string
	Method   string
	Args     []any
	Kwargs   map[string]any
}

// FakeOdoo is an in-memory odoo.Client. All databases share the same
// data. Domains are evaluated as a conjunction of [field, op, value]
// terms; supported operators are =, !=, in, not in, like and ilike.
type FakeOdoo struct {
	// Password that Authenticate accepts, empty accepts any password.
	Password string
	// UID returned by Authenticate, 2 if zero.
	UID int

	// Data holds rows per model.
	Data map[string][]odoo.Record
	// Fields holds fields_get results per model.
	Fields map[string]map[string]odoo.Record
	// Fail makes calls fail, keys are "model.method" or "model".
	Fail map[string]error

	mu    sync.Mutex
	calls []Call
}

// NewFakeOdoo creates an empty fake.
func NewFakeOdoo() *FakeOdoo {
	return &FakeOdoo{
		Data:   make(map[string][]odoo.Record),
		Fields: make(map[string]map[string]odoo.Record),
		Fail:   make(map[string]error),
	}
}

// AddModule adds an ir.module.module row and returns its id.
func (f *FakeOdoo) AddModule(name, state string, deps ...string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	var depIDs []any
	for _, d := range deps {
		id := len(f.Data["ir.module.module.dependency"]) + 1
		f.Data["ir.module.module.dependency"] = append(
			f.Data["ir.module.module.dependency"],
			odoo.Record{"id": id, "name": d},
		)
		depIDs = append(depIDs, id)
	}
	if depIDs == nil {
		depIDs = []any{}
	}
	id := len(f.Data["ir.module.module"]) + 1
	f.Data["ir.module.module"] = append(f.Data["ir.module.module"], odoo.Record{
		"id":              id,
		"name":            name,
		"shortdesc":       strings.ToUpper(name[:1]) + name[1:],
		"summary":         false,
		"state":           state,
		"dependencies_id": depIDs,
	})
	return id
}

// AddModel adds an ir.model row together with its field descriptions.
// Relational fields are also registered in ir.model.fields.
func (f *FakeOdoo) AddModel(model string, fields map[string]odoo.Record) {
	f.mu.Lock()
	defer f.mu.Unlock()
	id := len(f.Data["ir.model"]) + 1
	f.Data["ir.model"] = append(f.Data["ir.model"], odoo.Record{
		"id":    id,
		"model": model,
		"name":  model,
	})
	if fields == nil {
		fields = map[string]odoo.Record{}
	}
	f.Fields[model] = fields
	names := make([]string, 0, len(fields))
	for k := range fields {
		names = append(names, k)
	}
	slices.Sort(names)
	for _, name := range names {
		fld := fields[name]
		fid := len(f.Data["ir.model.fields"]) + 1
		f.Data["ir.model.fields"] = append(f.Data["ir.model.fields"], odoo.Record{
			"id":       fid,
			"model":    model,
			"name":     name,
			"ttype":    fld.String("type"),
			"relation": fld["relation"],
		})
	}
}

// Add appends a row to a model.
func (f *FakeOdoo) Add(model string, rec odoo.Record) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := rec["id"]; !ok {
		rec["id"] = len(f.Data[model]) + 1
	}
	f.Data[model] = append(f.Data[model], rec)
}

// Calls returns recorded execute_kw calls.
func (f *FakeOdoo) Calls() []Call {
	f.mu.Lock()
	defer f.mu.Unlock()
	return slices.Clone(f.calls)
}

// CallCount returns how many times a method of a model was called.
func (f *FakeOdoo) CallCount(model, method string) int {
	var res int
	for _, c := range f.Calls() {
		if c.Model == model && c.Method == method {
			res++
		}
	}
	return res
}

// Authenticate implements odoo.Client.
func (f *FakeOdoo) Authenticate(ctx context.Context, cr odoo.Credentials) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if err, ok := f.Fail["authenticate"]; ok {
		return 0, odoo.ConnectionError(cr.URL, err)
	}
	if f.Password != "" && cr.Password != f.Password {
		return 0, odoo.AuthError(cr.URL, cr.Database, cr.User, nil)
	}
	if f.UID == 0 {
		return 2, nil
	}
	return f.UID, nil
}

// ExecuteKw implements odoo.Client.
func (f *FakeOdoo) ExecuteKw(
	ctx context.Context,
	cr odoo.Credentials,
	uid int,
	model, method string,
	args []any,
	kwargs map[string]any,
) (any, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, Call{
		Database: cr.Database,
		Model:    model,
		Method:   method,
		Args:     args,
		Kwargs:   kwargs,
	})
	if err, ok := f.Fail[model+"."+method]; ok {
		return nil, odoo.RPCError(model, method, err)
	}
	if err, ok := f.Fail[model]; ok {
		return nil, odoo.RPCError(model, method, err)
	}

	switch method {
	case "search_read":
		var domain []any
		if len(args) > 0 {
			domain, _ = args[0].([]any)
		}
		fields := toStrings(kwargs["fields"])
		limit, _ := odoo.AsInt(kwargs["limit"])
		return f.searchRead(model, domain, fields, limit), nil
	case "search":
		var domain []any
		if len(args) > 0 {
			domain, _ = args[0].([]any)
		}
		res := []any{}
		for _, r := range f.searchRead(model, domain, []string{"id"}, 0) {
			res = append(res, r.(map[string]any)["id"])
		}
		return res, nil
	case "read":
		var ids []any
		if len(args) > 0 {
			ids = toAnySlice(args[0])
		}
		domain := []any{[]any{"id", "in", ids}}
		return f.searchRead(model, domain, toStrings(kwargs["fields"]), 0), nil
	case "fields_get":
		res := make(map[string]any)
		for k, v := range f.Fields[model] {
			res[k] = map[string]any(v)
		}
		return res, nil
	case "button_immediate_install":
		var ids []any
		if len(args) > 0 {
			ids = toAnySlice(args[0])
		}
		for _, r := range f.Data[model] {
			if containsValue(ids, r["id"]) {
				r["state"] = "installed"
			}
		}
		return true, nil
	default:
		return nil, odoo.RPCError(model, method, fmt.Errorf("method %s is not supported", method))
	}
}

func (f *FakeOdoo) searchRead(model string, domain []any, fields []string, limit int) []any {
	res := []any{}
	for _, r := range f.Data[model] {
		if !matchDomain(r, domain) {
			continue
		}
		row := make(map[string]any)
		if len(fields) == 0 {
			for k, v := range r {
				row[k] = v
			}
		} else {
			row["id"] = r["id"]
			for _, k := range fields {
				if v, ok := r[k]; ok {
					row[k] = v
				} else {
					row[k] = false
				}
			}
		}
		res = append(res, row)
		if limit > 0 && len(res) == limit {
			break
		}
	}
	return res
}

func matchDomain(r odoo.Record, domain []any) bool {
	for _, term := range domain {
		t, ok := term.([]any)
		if !ok || len(t) != 3 {
			continue
		}
		field, _ := t[0].(string)
		op, _ := t[1].(string)
		if !matchTerm(r[field], op, t[2]) {
			return false
		}
	}
	return true
}

func matchTerm(val any, op string, arg any) bool {
	if pair, ok := val.([]any); ok && len(pair) == 2 {
		// many2one [id, name]
		val = pair[0]
	}
	switch op {
	case "=":
		return sameValue(val, arg)
	case "!=":
		return !sameValue(val, arg)
	case "in":
		return containsValue(toAnySlice(arg), val)
	case "not in":
		return !containsValue(toAnySlice(arg), val)
	case "like", "ilike":
		s, _ := val.(string)
		sub, _ := arg.(string)
		if op == "ilike" {
			s, sub = strings.ToLower(s), strings.ToLower(sub)
		}
		return strings.Contains(s, sub)
	default:
		return false
	}
}

func sameValue(a, b any) bool {
	if ai, ok := odoo.AsInt(a); ok {
		bi, ok := odoo.AsInt(b)
		return ok && ai == bi
	}
	return fmt.Sprint(a) == fmt.Sprint(b)
}

func containsValue(vals []any, v any) bool {
	for _, x := range vals {
		if sameValue(x, v) {
			return true
		}
	}
	return false
}

func toAnySlice(v any) []any {
	switch s := v.(type) {
	case []any:
		return s
	case []int:
		res := make([]any, len(s))
		for i := range s {
			res[i] = s[i]
		}
		return res
	case []string:
		res := make([]any, len(s))
		for i := range s {
			res[i] = s[i]
		}
		return res
	default:
		return nil
	}
}

func toStrings(v any) []string {
	switch s := v.(type) {
	case []string:
		return s
	case []any:
		res := make([]string, 0, len(s))
		for _, x := range s {
			if str, ok := x.(string); ok {
				res = append(res, str)
			}
		}
		return res
	default:
		return nil
	}
}
