package schema

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/fayvad/fbs/pkg/discovery"
)

// Sources of table definitions.
const (
	SourceSystem    = "system"
	SourceBusiness  = "business"
	SourceDiscovery = "discovery"
)

// TableDef describes one table of a solution schema.
type TableDef struct {
	// Source tells where the table came from.
	Source string `json:"source"`

	// Model is the Odoo model of tables synthesized from discovery.
	Model string `json:"model,omitempty"`

	// Columns maps column names to their SQL types.
	Columns map[string]string `json:"columns"`
}

// Definition maps table names to their definitions. It is stored as
// schema_definition of a solution.
type Definition map[string]TableDef

// Merge returns a union of d and other. Tables and columns are only
// added, a definition never shrinks. Column types of other win.
func (d Definition) Merge(other Definition) Definition {
	res := make(Definition, len(d)+len(other))
	for name, td := range d {
		td.Columns = maps.Clone(td.Columns)
		res[name] = td
	}
	for name, td := range other {
		cur, ok := res[name]
		if !ok {
			td.Columns = maps.Clone(td.Columns)
			res[name] = td
			continue
		}
		if cur.Columns == nil {
			cur.Columns = make(map[string]string)
		}
		maps.Copy(cur.Columns, td.Columns)
		if cur.Model == "" {
			cur.Model = td.Model
		}
		res[name] = cur
	}
	return res
}

// TableNames returns sorted table names.
func (d Definition) TableNames() []string {
	return slices.Sorted(maps.Keys(d))
}

// Odoo field types mapped to PostgreSQL. Relational types without a
// column of their own are absent from columns of synthesized tables.
var odooTypes = map[string]string{
	"char":      "VARCHAR(255)",
	"text":      "TEXT",
	"html":      "TEXT",
	"integer":   "INTEGER",
	"float":     "DOUBLE PRECISION",
	"monetary":  "NUMERIC(16,2)",
	"boolean":   "BOOLEAN",
	"date":      "DATE",
	"datetime":  "TIMESTAMP",
	"selection": "VARCHAR(100)",
	"many2one":  "INTEGER",
	"binary":    "BYTEA",
	"json":      "JSONB",
}

var noColumn = map[string]bool{
	"one2many":  true,
	"many2many": true,
}

const defaultColumnType = "VARCHAR(255)"

// ColumnType returns the PostgreSQL type of an Odoo field. Unknown
// types become VARCHAR(255).
func ColumnType(f discovery.Field) string {
	if f.Type == "char" && f.Size > 0 {
		return fmt.Sprintf("VARCHAR(%d)", f.Size)
	}
	if t, ok := odooTypes[f.Type]; ok {
		return t
	}
	return defaultColumnType
}

// ModelTableName returns the name of a table synthesized for an Odoo
// model, for example fbs_sale_order for sale.order.
func ModelTableName(prefix, model string) string {
	return prefix + strings.ReplaceAll(model, ".", "_")
}

// ModelTable synthesizes a CREATE TABLE statement from discovered
// fields of an Odoo model. Fields with names that are not valid
// identifiers and relational fields without a column are skipped.
func ModelTable(prefix string, m discovery.Model) (string, string, TableDef) {
	name := ModelTableName(prefix, m.ModelName)
	def := TableDef{
		Source:  SourceDiscovery,
		Model:   m.ModelName,
		Columns: map[string]string{"id": "SERIAL PRIMARY KEY"},
	}
	cols := []string{`    "id" SERIAL PRIMARY KEY`}
	for _, fn := range slices.Sorted(maps.Keys(m.Fields)) {
		f := m.Fields[fn]
		if fn == "id" || noColumn[f.Type] {
			continue
		}
		if _, err := SafeIdent(fn); err != nil {
			continue
		}
		typ := ColumnType(f)
		def.Columns[fn] = typ
		cols = append(cols, fmt.Sprintf(`    "%s" %s`, fn, typ))
	}
	ddl := fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (\n%s\n);",
		name, strings.Join(cols, ",\n"))
	return name, ddl, def
}
