package schema

import (
	"fmt"
	"reflect"
	"strings"
)

// Placeholders used in ddl tags and index definitions.
const (
	tablePrefixVar    = "{p}"
	businessPrefixVar = "{bp}"
)

// Prefixes are the name prefixes of a solution's tables.
type Prefixes struct {
	// Table is the prefix of FBS system tables, for example "fbs_".
	Table string

	// Business is the prefix of domain business tables, for example
	// "rental_".
	Business string
}

func (p Prefixes) expand(s string) string {
	s = strings.ReplaceAll(s, businessPrefixVar, p.Business)
	return strings.ReplaceAll(s, tablePrefixVar, p.Table)
}

// DDLGenerator defines how table definitions generate PostgreSQL DDL.
type DDLGenerator interface {
	// TableDDL returns the CREATE TABLE statement for the table.
	TableDDL(p Prefixes) string

	// IndexDDL returns CREATE INDEX statements for the table.
	// Returns empty slice if no indexes needed.
	IndexDDL(p Prefixes) []string

	// TableName returns the prefixed PostgreSQL table name.
	TableName(p Prefixes) string
}

// Index is a secondary index of a table.
type Index struct {
	// Name is appended to idx_<table>_ to form the index name.
	Name    string
	Columns []string
	Unique  bool
}

// Table binds a row model with db/ddl struct tags to a table name.
type Table struct {
	// Name is the table name without prefix.
	Name string

	// Business is true for domain business tables, which use the
	// business prefix. System tables use the table prefix.
	Business bool

	// Model is a struct with db and ddl tags on its fields.
	Model any

	Indexes []Index
}

var _ DDLGenerator = Table{}

// TableName returns the prefixed name of the table.
func (t Table) TableName(p Prefixes) string {
	if t.Business {
		return p.Business + t.Name
	}
	return p.Table + t.Name
}

// TableDDL returns an idempotent CREATE TABLE statement.
func (t Table) TableDDL(p Prefixes) string {
	return generateDDL(t.Model, t.TableName(p), p)
}

// IndexDDL returns idempotent CREATE INDEX statements.
func (t Table) IndexDDL(p Prefixes) []string {
	table := t.TableName(p)
	res := make([]string, 0, len(t.Indexes))
	for _, idx := range t.Indexes {
		unique := ""
		if idx.Unique {
			unique = "UNIQUE "
		}
		res = append(res, fmt.Sprintf(
			"CREATE %sINDEX IF NOT EXISTS %s ON %s(%s);",
			unique, t.indexName(table, idx), table, strings.Join(idx.Columns, ", "),
		))
	}
	return res
}

// IndexNames returns names of the table's indexes.
func (t Table) IndexNames(p Prefixes) []string {
	table := t.TableName(p)
	res := make([]string, len(t.Indexes))
	for i, idx := range t.Indexes {
		res[i] = t.indexName(table, idx)
	}
	return res
}

func (t Table) indexName(table string, idx Index) string {
	return "idx_" + table + "_" + idx.Name
}

// Columns returns column names and their DDL types in declaration
// order.
func (t Table) Columns(p Prefixes) ([]string, map[string]string) {
	return columns(t.Model, p)
}

// Definition describes the table for a schema definition record.
func (t Table) Definition(p Prefixes) TableDef {
	_, cols := t.Columns(p)
	source := SourceSystem
	if t.Business {
		source = SourceBusiness
	}
	return TableDef{Source: source, Columns: cols}
}

// generateDDL creates a CREATE TABLE statement from struct tags.
func generateDDL(model any, tableName string, p Prefixes) string {
	names, types := columns(model, p)
	cols := make([]string, len(names))
	for i, n := range names {
		cols[i] = fmt.Sprintf("    %s %s", n, types[n])
	}

	return fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (\n%s\n);",
		tableName,
		strings.Join(cols, ",\n"))
}

func columns(model any, p Prefixes) ([]string, map[string]string) {
	v := reflect.ValueOf(model)
	if v.Kind() == reflect.Ptr {
		v = v.Elem()
	}
	t := v.Type()

	var names []string
	types := make(map[string]string)
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		dbTag := field.Tag.Get("db")
		ddlTag := field.Tag.Get("ddl")

		if dbTag != "" && ddlTag != "" {
			names = append(names, dbTag)
			types[dbTag] = p.expand(ddlTag)
		}
	}
	return names, types
}
