package iointegration

import (
	"fmt"
	"strings"

	"github.com/fayvad/fbs/pkg/errcode"
	"github.com/gnames/gn"
)

// SolutionNotFoundError is returned for a solution that was never set up.
func SolutionNotFoundError(name string) error {
	msg := `Solution <em>%s</em> is not registered

Run setup for the solution first`
	return &gn.Error{
		Code: errcode.SolutionNotFoundError,
		Msg:  msg,
		Vars: []any{name},
		Err:  fmt.Errorf("solution %s not found", name),
	}
}

// StepError is returned when a setup step fails. The run can be resumed
// from this step.
func StepError(solution, step, runID string, err error) error {
	msg := `Setup of <em>%s</em> failed at step <em>%s</em>

Fix the cause and resume run %s`
	return &gn.Error{
		Code: errcode.SetupStepError,
		Msg:  msg,
		Vars: []any{solution, step, runID},
		Err:  fmt.Errorf("setup %s step %s: %w", solution, step, err),
	}
}

// UnknownOperationError is returned for an unsupported solution
// operation.
func UnknownOperationError(op string) error {
	msg := `Unknown operation <em>%s</em>

Valid operations are: %s`
	return &gn.Error{
		Code: errcode.UnknownOperationError,
		Msg:  msg,
		Vars: []any{op, strings.Join(Operations, ", ")},
		Err:  fmt.Errorf("unknown operation %q", op),
	}
}

// DiscoveryNotFoundError is returned when nothing was discovered for a key
// yet.
func DiscoveryNotFoundError(domain, kind, name string) error {
	msg := `No <em>%s</em> discovery of <em>%s</em> for domain <em>%s</em>

Refresh the discovery first`
	return &gn.Error{
		Code: errcode.StoreNotFoundError,
		Msg:  msg,
		Vars: []any{kind, name, domain},
		Err:  fmt.Errorf("discovery %s/%s/%s not found", domain, kind, name),
	}
}
