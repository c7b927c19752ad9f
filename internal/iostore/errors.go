package iostore

import (
	"fmt"

	"github.com/fayvad/fbs/pkg/errcode"
	"github.com/gnames/gn"
)

// ConnectionError is returned when the tracking database is unreachable.
func ConnectionError(host string, port int, database string, err error) error {
	msg := `Cannot connect to tracking database <em>%s</em> at <em>%s:%d</em>

Check the database section of the configuration file`
	return &gn.Error{
		Code: errcode.DBConnectionError,
		Msg:  msg,
		Vars: []any{database, host, port},
		Err:  fmt.Errorf("connect to tracking database %s: %w", database, err),
	}
}

// MigrateError is returned when tracking tables cannot be created.
func MigrateError(err error) error {
	return &gn.Error{
		Code: errcode.SchemaMigrateError,
		Msg:  "Cannot create tracking tables",
		Err:  fmt.Errorf("migrate tracking tables: %w", err),
	}
}

// SaveError is returned when a record cannot be written.
func SaveError(what string, err error) error {
	return &gn.Error{
		Code: errcode.StoreSaveError,
		Msg:  "Cannot save <em>%s</em>",
		Vars: []any{what},
		Err:  fmt.Errorf("save %s: %w", what, err),
	}
}

// QueryError is returned when records cannot be read.
func QueryError(what string, err error) error {
	return &gn.Error{
		Code: errcode.StoreQueryError,
		Msg:  "Cannot read <em>%s</em>",
		Vars: []any{what},
		Err:  fmt.Errorf("query %s: %w", what, err),
	}
}

// NotFoundError is returned when a record does not exist.
func NotFoundError(kind, key string) error {
	return &gn.Error{
		Code: errcode.StoreNotFoundError,
		Msg:  "No %s <em>%s</em>",
		Vars: []any{kind, key},
		Err:  fmt.Errorf("%s %s not found", kind, key),
	}
}
