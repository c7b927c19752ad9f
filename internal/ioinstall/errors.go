package ioinstall

import (
	"fmt"
	"strings"

	"github.com/fayvad/fbs/pkg/errcode"
	"github.com/gnames/gn"
)

// DumpError is returned when the reference database cannot be dumped.
func DumpError(database string, err error) error {
	msg := `Cannot dump reference database <em>%s</em>

Check installer host, user and password, and that pg_dump is installed`
	return &gn.Error{
		Code: errcode.InstallerDumpError,
		Msg:  msg,
		Vars: []any{database},
		Err:  fmt.Errorf("pg_dump %s: %w", database, err),
	}
}

// CreateError is returned when createdb fails.
func CreateError(database string, err error) error {
	msg := "Cannot create Odoo database <em>%s</em>"
	return &gn.Error{
		Code: errcode.InstallerCreateError,
		Msg:  msg,
		Vars: []any{database},
		Err:  fmt.Errorf("createdb %s: %w", database, err),
	}
}

// RestoreError is returned when the dump cannot be loaded into the new
// database.
func RestoreError(database string, err error) error {
	msg := `Cannot restore reference dump into <em>%s</em>

The partially restored database is dropped, run setup again`
	return &gn.Error{
		Code: errcode.InstallerRestoreError,
		Msg:  msg,
		Vars: []any{database},
		Err:  fmt.Errorf("psql restore into %s: %w", database, err),
	}
}

// ModuleError is returned when modules cannot be installed.
func ModuleError(database string, modules []string, err error) error {
	msg := "Cannot install modules <em>%s</em> into <em>%s</em>"
	return &gn.Error{
		Code: errcode.InstallerModuleError,
		Msg:  msg,
		Vars: []any{strings.Join(modules, ", "), database},
		Err:  fmt.Errorf("install modules %v into %s: %w", modules, database, err),
	}
}
