package iodb

import (
	"fmt"

	"github.com/fayvad/fbs/pkg/errcode"
	"github.com/gnames/gn"
)

// ConnectionError is returned when database connection fails.
func ConnectionError(host string, port int, database, user string, err error) error {
	msg := `Cannot connect to PostgreSQL database <em>%s</em>

Possible causes:
  - PostgreSQL is not running on <em>%s:%d</em>
  - User <em>%s</em> has no access to the database
  - Database configuration is incorrect

Check it with:
  <em>pg_isready -h %s -p %d</em>`
	return &gn.Error{
		Code: errcode.DBConnectionError,
		Msg:  msg,
		Vars: []any{database, host, port, user, host, port},
		Err: fmt.Errorf("failed to connect to %s:%d/%s: %w",
			host, port, database, err),
	}
}

// NotConnectedError is returned when an operation runs before Connect.
func NotConnectedError() error {
	return &gn.Error{
		Code: errcode.DBNotConnectedError,
		Msg:  "Database is not connected",
		Err:  fmt.Errorf("database is not connected"),
	}
}

// DatabaseCheckError is returned when pg_database cannot be queried.
func DatabaseCheckError(name string, err error) error {
	return &gn.Error{
		Code: errcode.DBDatabaseCheckError,
		Msg:  "Cannot check if database <em>%s</em> exists",
		Vars: []any{name},
		Err:  fmt.Errorf("check database %s: %w", name, err),
	}
}

// RoleCheckError is returned when pg_roles cannot be queried.
func RoleCheckError(name string, err error) error {
	return &gn.Error{
		Code: errcode.DBRoleCheckError,
		Msg:  "Cannot check if role <em>%s</em> exists",
		Vars: []any{name},
		Err:  fmt.Errorf("check role %s: %w", name, err),
	}
}

// CreateDatabaseError is returned when CREATE DATABASE fails.
func CreateDatabaseError(name string, err error) error {
	return &gn.Error{
		Code: errcode.DBCreateDatabaseError,
		Msg:  "Cannot create database <em>%s</em>",
		Vars: []any{name},
		Err:  fmt.Errorf("create database %s: %w", name, err),
	}
}

// ExecError is returned when a statement fails.
func ExecError(database, stmt string, err error) error {
	return &gn.Error{
		Code: errcode.DBExecError,
		Msg:  "SQL statement failed in database <em>%s</em>",
		Vars: []any{database},
		Err:  fmt.Errorf("exec %q: %w", firstLine(stmt), err),
	}
}

// TableExistsCheckError is returned when table existence check fails.
func TableExistsCheckError(table string, err error) error {
	return &gn.Error{
		Code: errcode.DBTableExistsCheckError,
		Msg:  "Cannot check if table <em>%s</em> exists",
		Vars: []any{table},
		Err:  fmt.Errorf("check table %s: %w", table, err),
	}
}

// QueryTablesError is returned when tables cannot be listed.
func QueryTablesError(err error) error {
	return &gn.Error{
		Code: errcode.DBQueryTablesError,
		Msg:  "Cannot list database tables",
		Err:  fmt.Errorf("list tables: %w", err),
	}
}

func firstLine(s string) string {
	for i, r := range s {
		if r == '\n' {
			return s[:i]
		}
	}
	return s
}
