package ioschema

import (
	"fmt"
	"strings"

	"github.com/fayvad/fbs/pkg/errcode"
	"github.com/gnames/gn"
)

// InvalidConfigError is returned for a solution config that did not
// pass validation.
func InvalidConfigError(solution string, problems []string) error {
	msg := `Invalid configuration of solution <em>%s</em>:
  - %s`
	return &gn.Error{
		Code: errcode.InvalidSolutionConfigError,
		Msg:  msg,
		Vars: []any{solution, strings.Join(problems, "\n  - ")},
		Err:  fmt.Errorf("invalid solution config: %s", strings.Join(problems, "; ")),
	}
}

// GrantError is returned when privileges cannot be granted.
func GrantError(database, role string, err error) error {
	msg := `Cannot grant privileges on <em>%s</em> to <em>%s</em>

The configured database user needs CREATEROLE and owner rights`
	return &gn.Error{
		Code: errcode.DBGrantError,
		Msg:  msg,
		Vars: []any{database, role},
		Err:  fmt.Errorf("grant privileges on %s to %s: %w", database, role, err),
	}
}

// CreateSchemaError is returned when tables of a solution cannot be
// created. No table of the failed run is kept.
func CreateSchemaError(database string, err error) error {
	msg := `Cannot create tables in <em>%s</em>

Changes were rolled back, it is safe to run the command again`
	return &gn.Error{
		Code: errcode.SchemaCreateError,
		Msg:  msg,
		Vars: []any{database},
		Err:  fmt.Errorf("create solution tables in %s: %w", database, err),
	}
}

// MigrateSchemaError is returned when some migration statements failed.
func MigrateSchemaError(solution string, tables []string) error {
	msg := `Migration of <em>%s</em> failed for %d table(s): %s

Failed statements are recorded with status "failed"`
	return &gn.Error{
		Code: errcode.SchemaMigrateError,
		Msg:  msg,
		Vars: []any{solution, len(tables), strings.Join(tables, ", ")},
		Err:  fmt.Errorf("migrate %s: failed tables %v", solution, tables),
	}
}
