package iotesting

import (
	"context"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
)

// Command is an external program call recorded by FakeRunner.
type Command struct {
	Env  []string
	Name string
	Args []string
}

// FakeRunner pretends to be pg_dump, createdb and psql. Databases
// created with createdb are remembered, and psql reports them on an
// existence query.
type FakeRunner struct {
	// Fail maps a program name to the error it returns.
	Fail map[string]error
	// FailArgs maps a substring of space-joined arguments to the error
	// returned by any program called with them.
	FailArgs map[string]error
	// Output is returned together with a failure.
	Output string

	mu        sync.Mutex
	databases map[string]bool
	commands  []Command
}

// NewFakeRunner creates a runner without databases.
func NewFakeRunner() *FakeRunner {
	return &FakeRunner{
		Fail:      make(map[string]error),
		FailArgs:  make(map[string]error),
		databases: make(map[string]bool),
	}
}

// AddDatabase marks a database as existing.
func (f *FakeRunner) AddDatabase(name string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.databases[name] = true
}

// HasDatabase reports if a database exists.
func (f *FakeRunner) HasDatabase(name string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.databases[name]
}

// Commands returns recorded calls.
func (f *FakeRunner) Commands() []Command {
	f.mu.Lock()
	defer f.mu.Unlock()
	return slices.Clone(f.commands)
}

// Programs returns names of called programs in order.
func (f *FakeRunner) Programs() []string {
	var res []string
	for _, c := range f.Commands() {
		res = append(res, c.Name)
	}
	return res
}

// Run implements the installer runner.
func (f *FakeRunner) Run(
	ctx context.Context,
	env []string,
	name string,
	args ...string,
) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.commands = append(f.commands, Command{Env: env, Name: name, Args: args})
	if err, ok := f.Fail[name]; ok {
		return []byte(f.Output), err
	}
	joined := strings.Join(args, " ")
	for k, err := range f.FailArgs {
		if strings.Contains(joined, k) {
			return []byte(f.Output), err
		}
	}

	switch filepath.Base(name) {
	case "pg_dump":
		if file := argAfter(args, "-f"); file != "" {
			err := os.WriteFile(file, []byte("-- dump\n"), 0644)
			if err != nil {
				return nil, err
			}
		}
	case "createdb":
		f.databases[args[len(args)-1]] = true
	case "psql":
		if q := argAfter(args, "-c"); strings.HasPrefix(q, "DROP DATABASE") {
			fields := strings.Fields(q)
			delete(f.databases, fields[len(fields)-1])
			return nil, nil
		}
		q := argAfter(args, "-tAc")
		if q == "" {
			return nil, nil
		}
		for db := range f.databases {
			if strings.Contains(q, "'"+db+"'") {
				return []byte("1\n"), nil
			}
		}
	}
	return nil, nil
}

func argAfter(args []string, flag string) string {
	for i := range args[:max(len(args)-1, 0)] {
		if args[i] == flag {
			return args[i+1]
		}
	}
	return ""
}
