// Package odoo defines the contract of an Odoo RPC endpoint and a session
// that authenticates once and issues execute_kw calls on behalf of the
// discovery and installer components.
//
// The package does no network I/O itself. A Client implementation that
// talks XML-RPC lives in internal/ioodoo.
package odoo

import (
	"context"
)

// Credentials identify an Odoo database and the user that works with it.
type Credentials struct {
	// URL is the base URL of Odoo, for example http://localhost:8069.
	URL string
	// Database is the Odoo database name.
	Database string
	User     string
	Password string
}

// WithDatabase returns a copy of credentials pointing to another database
// of the same Odoo server.
func (c Credentials) WithDatabase(db string) Credentials {
	c.Database = db
	return c
}

// Client is an Odoo RPC endpoint. It corresponds to the `common` and
// `object` XML-RPC services.
type Client interface {
	// Authenticate returns the user id for the credentials.
	Authenticate(ctx context.Context, cr Credentials) (int, error)

	// ExecuteKw calls a method of a model.
	ExecuteKw(
		ctx context.Context,
		cr Credentials,
		uid int,
		model, method string,
		args []any,
		kwargs map[string]any,
	) (any, error)
}
