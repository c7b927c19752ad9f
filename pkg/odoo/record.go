package odoo

import (
	"fmt"
)

// Record is one row returned by read, search_read or fields_get.
// Odoo returns false instead of null for empty values, accessors
// convert such values to zero values.
type Record map[string]any

// String returns a string field, or an empty string.
func (r Record) String(key string) string {
	if s, ok := r[key].(string); ok {
		return s
	}
	return ""
}

// Int returns an integer field, or zero.
func (r Record) Int(key string) int {
	i, _ := AsInt(r[key])
	return i
}

// Bool returns a boolean field.
func (r Record) Bool(key string) bool {
	b, _ := r[key].(bool)
	return b
}

// IDs returns ids of a one2many or many2many field.
func (r Record) IDs(key string) []int {
	vals, ok := r[key].([]any)
	if !ok {
		return nil
	}
	res := make([]int, 0, len(vals))
	for _, v := range vals {
		if i, ok := AsInt(v); ok {
			res = append(res, i)
		}
	}
	return res
}

// Many2One returns id and display name of a many2one field.
func (r Record) Many2One(key string) (int, string) {
	vals, ok := r[key].([]any)
	if !ok || len(vals) < 2 {
		return 0, ""
	}
	id, _ := AsInt(vals[0])
	name, _ := vals[1].(string)
	return id, name
}

// Selection returns keys of a selection field description, which Odoo
// sends as a list of [key, label] pairs.
func (r Record) Selection(key string) []string {
	vals, ok := r[key].([]any)
	if !ok {
		return nil
	}
	res := make([]string, 0, len(vals))
	for _, v := range vals {
		pair, ok := v.([]any)
		if !ok || len(pair) == 0 {
			continue
		}
		if s, ok := pair[0].(string); ok {
			res = append(res, s)
		}
	}
	return res
}

// AsInt converts numeric values produced by XML-RPC decoding to int.
func AsInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case int32:
		return int(n), true
	case float64:
		return int(n), true
	default:
		return 0, false
	}
}

// ToRecords converts a list result of an RPC call to records.
func ToRecords(v any) ([]Record, error) {
	switch rows := v.(type) {
	case []Record:
		return rows, nil
	case []any:
		res := make([]Record, 0, len(rows))
		for i, row := range rows {
			switch m := row.(type) {
			case map[string]any:
				res = append(res, Record(m))
			case Record:
				res = append(res, m)
			default:
				return nil, fmt.Errorf("row %d is %T, not a struct", i, row)
			}
		}
		return res, nil
	case bool:
		// false for an empty result
		return nil, nil
	default:
		return nil, fmt.Errorf("result is %T, not a list", v)
	}
}

// ToFields converts a fields_get result to a map of field descriptions.
func ToFields(v any) (map[string]Record, error) {
	m, ok := v.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("fields_get result is %T, not a struct", v)
	}
	res := make(map[string]Record, len(m))
	for k, f := range m {
		fm, ok := f.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("field %s is %T, not a struct", k, f)
		}
		res[k] = Record(fm)
	}
	return res, nil
}
