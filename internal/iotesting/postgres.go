package iotesting

import (
	"context"
	"errors"
	"regexp"
	"slices"
	"strings"
	"sync"

	"github.com/fayvad/fbs/pkg/config"
	"github.com/fayvad/fbs/pkg/db"
)

var (
	createTableRe = regexp.MustCompile(`(?i)^CREATE TABLE (?:IF NOT EXISTS )?([A-Za-z0-9_]+)`)
	createRoleRe  = regexp.MustCompile(`(?i)^CREATE ROLE ([A-Za-z0-9_]+)`)
)

// Statement is a SQL statement received by FakePostgres.
type Statement struct {
	Database string
	SQL      string
	InTx     bool
}

// FakePostgres is an in-memory PostgreSQL server. Operators created by
// Operator share its state.
type FakePostgres struct {
	// Fail maps a substring of a statement to the error returned for
	// statements that contain it. Catalog lookups match by the catalog
	// name: pg_database, pg_roles, pg_tables, information_schema.tables.
	Fail map[string]error

	// ConnectErr, if set, is returned by Connect.
	ConnectErr error

	mu        sync.Mutex
	databases map[string]map[string]bool
	roles     map[string]bool
	log       []Statement
	connects  []string
}

// NewFakePostgres creates a server with the maintenance database only.
func NewFakePostgres() *FakePostgres {
	return &FakePostgres{
		Fail:  make(map[string]error),
		roles: make(map[string]bool),
		databases: map[string]map[string]bool{
			db.MaintenanceDatabase: {},
		},
	}
}

// Factory returns a db.Factory of operators of the fake server.
func (f *FakePostgres) Factory() db.Factory {
	return func() db.Operator {
		return &fakeOperator{srv: f}
	}
}

// AddDatabase creates a database.
func (f *FakePostgres) AddDatabase(name string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.databases[name]; !ok {
		f.databases[name] = make(map[string]bool)
	}
}

// AddTable creates a table in an existing database.
func (f *FakePostgres) AddTable(database, table string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if tables, ok := f.databases[database]; ok {
		tables[table] = true
	}
}

// AddRole creates a role.
func (f *FakePostgres) AddRole(name string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.roles[name] = true
}

// HasRole reports if a role exists.
func (f *FakePostgres) HasRole(name string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.roles[name]
}

// HasDatabase reports if a database exists.
func (f *FakePostgres) HasDatabase(name string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.databases[name]
	return ok
}

// Tables returns sorted tables of a database.
func (f *FakePostgres) Tables(database string) []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	var res []string
	for t := range f.databases[database] {
		res = append(res, t)
	}
	slices.Sort(res)
	return res
}

// Statements returns statements executed in a database.
func (f *FakePostgres) Statements(database string) []Statement {
	f.mu.Lock()
	defer f.mu.Unlock()
	var res []Statement
	for _, s := range f.log {
		if s.Database == database {
			res = append(res, s)
		}
	}
	return res
}

// Connects returns databases in the order they were connected to.
func (f *FakePostgres) Connects() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return slices.Clone(f.connects)
}

func (f *FakePostgres) failure(stmt string) error {
	for k, err := range f.Fail {
		if strings.Contains(stmt, k) {
			return err
		}
	}
	return nil
}

// apply runs statements under the lock. In a transaction nothing is
// applied if any statement fails.
func (f *FakePostgres) apply(database string, inTx bool, stmts []string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	tables, ok := f.databases[database]
	if !ok {
		return errors.New("database " + database + " does not exist")
	}

	created := make(map[string]bool)
	for _, s := range stmts {
		if err := f.failure(s); err != nil {
			if !inTx {
				f.log = append(f.log, Statement{Database: database, SQL: s})
			}
			return err
		}
		if m := createRoleRe.FindStringSubmatch(s); m != nil && !inTx {
			f.roles[m[1]] = true
		}
		if m := createTableRe.FindStringSubmatch(s); m != nil {
			if !inTx {
				tables[m[1]] = true
			}
			created[m[1]] = true
		}
		if !inTx {
			f.log = append(f.log, Statement{Database: database, SQL: s})
		}
	}
	if inTx {
		for t := range created {
			tables[t] = true
		}
		for _, s := range stmts {
			f.log = append(f.log, Statement{Database: database, SQL: s, InTx: true})
		}
	}
	return nil
}

type fakeOperator struct {
	srv      *FakePostgres
	database string
}

func (o *fakeOperator) Connect(_ context.Context, cfg *config.DatabaseConfig) error {
	if o.srv.ConnectErr != nil {
		return o.srv.ConnectErr
	}
	if !o.srv.HasDatabase(cfg.Database) {
		return errors.New("database " + cfg.Database + " does not exist")
	}
	o.srv.mu.Lock()
	o.srv.connects = append(o.srv.connects, cfg.Database)
	o.srv.mu.Unlock()
	o.database = cfg.Database
	return nil
}

func (o *fakeOperator) Close() error {
	o.database = ""
	return nil
}

func (o *fakeOperator) Database() string {
	return o.database
}

func (o *fakeOperator) DatabaseExists(_ context.Context, name string) (bool, error) {
	if err := o.srv.failure("pg_database"); err != nil {
		return false, err
	}
	return o.srv.HasDatabase(name), nil
}

func (o *fakeOperator) RoleExists(_ context.Context, name string) (bool, error) {
	if err := o.srv.failure("pg_roles"); err != nil {
		return false, err
	}
	return o.srv.HasRole(name), nil
}

func (o *fakeOperator) CreateDatabase(_ context.Context, name string) error {
	stmt := "CREATE DATABASE " + name
	if err := o.srv.failure(stmt); err != nil {
		return err
	}
	o.srv.AddDatabase(name)
	o.srv.mu.Lock()
	o.srv.log = append(o.srv.log, Statement{Database: o.database, SQL: stmt})
	o.srv.mu.Unlock()
	return nil
}

func (o *fakeOperator) Exec(_ context.Context, stmts ...string) error {
	return o.srv.apply(o.database, false, stmts)
}

func (o *fakeOperator) ExecInTx(_ context.Context, stmts ...string) error {
	return o.srv.apply(o.database, true, stmts)
}

func (o *fakeOperator) TableExists(_ context.Context, name string) (bool, error) {
	if err := o.srv.failure("information_schema.tables"); err != nil {
		return false, err
	}
	return slices.Contains(o.srv.Tables(o.database), name), nil
}

func (o *fakeOperator) ListTables(_ context.Context) ([]string, error) {
	if err := o.srv.failure("pg_tables"); err != nil {
		return nil, err
	}
	return o.srv.Tables(o.database), nil
}
