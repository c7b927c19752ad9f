// Package ioinstall duplicates the reference Odoo database for a solution
// and installs Odoo modules into the copy.
package ioinstall

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/cheggaaa/pb/v3"
	"github.com/dustin/go-humanize"
	"github.com/fayvad/fbs/pkg/config"
	"github.com/fayvad/fbs/pkg/odoo"
	"github.com/fayvad/fbs/pkg/schema"
	"github.com/gnames/gnfmt"
)

const moduleModel = "ir.module.module"

// ProvisionResult describes an Odoo database of a solution.
type ProvisionResult struct {
	Database string `json:"database"`
	Source   string `json:"source"`
	Created  bool   `json:"created"`
	DumpSize string `json:"dump_size,omitempty"`
}

// InstallResult describes a module installation run.
type InstallResult struct {
	Database         string   `json:"database"`
	Installed        []string `json:"installed"`
	AlreadyInstalled []string `json:"already_installed"`
	Missing          []string `json:"missing"`
}

// Installer creates Odoo databases of solutions.
type Installer struct {
	cfg          *config.Config
	client       odoo.Client
	creds        odoo.Credentials
	runner       Runner
	withProgress bool
}

// Option changes an Installer.
type Option func(*Installer)

// OptProgress shows a progress bar during module installation.
func OptProgress(b bool) Option {
	return func(in *Installer) {
		in.withProgress = b
	}
}

// New creates an Installer. Odoo credentials are used for module
// installation, the database field is replaced with the target database.
func New(
	cfg *config.Config,
	client odoo.Client,
	creds odoo.Credentials,
	runner Runner,
	opts ...Option,
) *Installer {
	if runner == nil {
		runner = ExecRunner{}
	}
	res := &Installer{cfg: cfg, client: client, creds: creds, runner: runner}
	for _, opt := range opts {
		opt(res)
	}
	return res
}

// ProvisionDatabase copies the reference Odoo database into the database
// of the solution. An existing target database is left untouched.
func (in *Installer) ProvisionDatabase(
	ctx context.Context,
	solution string,
) (*ProvisionResult, error) {
	start := time.Now()
	ic := in.cfg.Installer
	target := in.cfg.SolutionOdooDatabase(solution)
	source := in.cfg.Odoo.ReferenceDatabase
	res := &ProvisionResult{Database: target, Source: source}

	for _, name := range []string{target, source} {
		if _, err := schema.SafeIdent(name); err != nil {
			return nil, CreateError(target, err)
		}
	}

	if ic.TimeoutMin > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, time.Duration(ic.TimeoutMin)*time.Minute)
		defer cancel()
	}

	exists, err := in.databaseExists(ctx, target)
	if err != nil {
		return nil, CreateError(target, err)
	}
	if exists {
		slog.Info("Odoo database already exists", "database", target)
		return res, nil
	}

	dir, err := os.MkdirTemp("", "fbs-dump-")
	if err != nil {
		return nil, DumpError(source, err)
	}
	defer os.RemoveAll(dir)
	dump := filepath.Join(dir, source+".sql")

	args := append(in.connArgs(), "--no-owner", "--no-privileges", "-f", dump, source)
	if err = in.run(ctx, ic.PgDump, args...); err != nil {
		return nil, DumpError(source, err)
	}
	if fi, err := os.Stat(dump); err == nil {
		res.DumpSize = humanize.Bytes(uint64(fi.Size()))
	}
	slog.Info("Dumped reference database", "database", source, "size", res.DumpSize)

	args = append(in.connArgs(), target)
	if err = in.run(ctx, ic.Createdb, args...); err != nil {
		return nil, CreateError(target, err)
	}
	res.Created = true

	args = append(in.connArgs(), "-q", "-v", "ON_ERROR_STOP=1", "-d", target, "-f", dump)
	if err = in.run(ctx, ic.Psql, args...); err != nil {
		// a half restored database would pass the existence check of
		// the next run
		if dropErr := in.dropDatabase(context.WithoutCancel(ctx), target); dropErr != nil {
			slog.Error("Cannot drop partially restored database",
				"database", target, "error", dropErr)
		}
		return nil, RestoreError(target, err)
	}

	slog.Info("Odoo database ready",
		"database", target,
		"source", source,
		"duration", gnfmt.TimeString(time.Since(start).Seconds()),
	)
	return res, nil
}

// InstallModules installs modules into an Odoo database by calling
// button_immediate_install for every module that is not installed yet.
// Modules unknown to the database are reported as missing.
func (in *Installer) InstallModules(
	ctx context.Context,
	database string,
	modules []string,
) (*InstallResult, error) {
	res := &InstallResult{
		Database:         database,
		Installed:        []string{},
		AlreadyInstalled: []string{},
		Missing:          []string{},
	}
	if len(modules) == 0 {
		return res, nil
	}
	modules = slices.Clone(modules)
	slices.Sort(modules)
	modules = slices.Compact(modules)

	sess := odoo.NewSession(in.client, in.creds.WithDatabase(database))
	names := make([]any, len(modules))
	for i := range modules {
		names[i] = modules[i]
	}
	recs, err := sess.SearchRead(
		ctx, moduleModel,
		[]any{[]any{"name", "in", names}},
		[]string{"id", "name", "state"}, 0,
	)
	if err != nil {
		return nil, ModuleError(database, modules, err)
	}
	found := make(map[string]odoo.Record, len(recs))
	for _, r := range recs {
		found[r.String("name")] = r
	}

	var todo []odoo.Record
	for _, m := range modules {
		r, ok := found[m]
		switch {
		case !ok:
			res.Missing = append(res.Missing, m)
		case r.String("state") == "installed":
			res.AlreadyInstalled = append(res.AlreadyInstalled, m)
		default:
			todo = append(todo, r)
		}
	}
	if len(res.Missing) > 0 {
		slog.Warn("Modules are not available in Odoo",
			"database", database, "modules", res.Missing)
	}
	if len(todo) == 0 {
		return res, nil
	}

	var bar *pb.ProgressBar
	if in.withProgress {
		bar = pb.Full.Start(len(todo))
		bar.Set("prefix", "Installing modules ")
		bar.Set(pb.CleanOnFinish, true)
		defer bar.Finish()
	}

	for _, r := range todo {
		name := r.String("name")
		_, err := sess.Execute(ctx, moduleModel, "button_immediate_install",
			[]any{[]any{r.Int("id")}}, nil)
		if err != nil {
			return res, ModuleError(database, []string{name}, err)
		}
		res.Installed = append(res.Installed, name)
		if bar != nil {
			bar.Increment()
		}
	}

	slog.Info("Installed Odoo modules",
		"database", database, "modules", strings.Join(res.Installed, ","))
	return res, nil
}

func (in *Installer) databaseExists(ctx context.Context, name string) (bool, error) {
	q := fmt.Sprintf(
		"SELECT 1 FROM pg_database WHERE datname = %s", schema.QuoteLiteral(name),
	)
	args := append(in.connArgs(), "-d", "postgres", "-tAc", q)
	out, err := in.runOutput(ctx, in.cfg.Installer.Psql, args...)
	if err != nil {
		return false, err
	}
	return strings.TrimSpace(string(out)) == "1", nil
}

func (in *Installer) dropDatabase(ctx context.Context, name string) error {
	q := "DROP DATABASE IF EXISTS " + name
	args := append(in.connArgs(), "-d", "postgres", "-c", q)
	return in.run(ctx, in.cfg.Installer.Psql, args...)
}

func (in *Installer) connArgs() []string {
	ic := in.cfg.Installer
	return []string{"-h", ic.Host, "-p", strconv.Itoa(ic.Port), "-U", ic.User}
}

func (in *Installer) run(ctx context.Context, name string, args ...string) error {
	_, err := in.runOutput(ctx, name, args...)
	return err
}

// runOutput runs a PostgreSQL client tool. Output of failed commands is
// logged, it usually carries the actual reason of the failure.
func (in *Installer) runOutput(
	ctx context.Context,
	name string,
	args ...string,
) ([]byte, error) {
	env := []string{"PGPASSWORD=" + in.cfg.Installer.Password}
	out, err := in.runner.Run(ctx, env, name, args...)
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			err = fmt.Errorf("%s timed out: %w", name, ctx.Err())
		}
		slog.Error("Command failed",
			"command", name,
			"output", strings.TrimSpace(string(out)),
			"error", err,
		)
		return out, err
	}
	return out, nil
}
