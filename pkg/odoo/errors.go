package odoo

import (
	"errors"
	"fmt"

	"github.com/fayvad/fbs/pkg/errcode"
	"github.com/gnames/gn"
)

// ConnectionError is returned when Odoo cannot be reached.
func ConnectionError(url string, err error) error {
	msg := `Cannot reach Odoo at <em>%s</em>

<em>How to fix:</em>
  1. Check that Odoo is running
  2. Verify odoo.url in the configuration`

	return &gn.Error{
		Code: errcode.OdooConnectionError,
		Msg:  msg,
		Vars: []any{url},
		Err:  fmt.Errorf("odoo transport failure at %s: %w", url, err),
	}
}

// AuthError is returned when Odoo rejects credentials.
func AuthError(url, db, user string, err error) error {
	msg := "Odoo rejected user <em>%s</em> for database <em>%s</em>"
	if err == nil {
		err = errors.New("authentication returned no uid")
	}
	return &gn.Error{
		Code: errcode.OdooAuthError,
		Msg:  msg,
		Vars: []any{user, db},
		Err:  fmt.Errorf("odoo authentication at %s/%s: %w", url, db, err),
	}
}

// RPCError is returned when Odoo answers a call with a fault.
func RPCError(model, method string, err error) error {
	msg := "Odoo call <em>%s.%s</em> failed"
	return &gn.Error{
		Code: errcode.OdooRPCError,
		Msg:  msg,
		Vars: []any{model, method},
		Err:  fmt.Errorf("execute_kw %s.%s: %w", model, method, err),
	}
}

// ResponseError is returned when a result has an unexpected shape.
func ResponseError(model, method string, err error) error {
	msg := "Unexpected response from <em>%s.%s</em>"
	return &gn.Error{
		Code: errcode.OdooResponseError,
		Msg:  msg,
		Vars: []any{model, method},
		Err:  fmt.Errorf("decode %s.%s: %w", model, method, err),
	}
}
