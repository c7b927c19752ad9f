// Package ioodoo implements odoo.Client over Odoo XML-RPC endpoints
// /xmlrpc/2/common and /xmlrpc/2/object.
package ioodoo

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"net/rpc"
	"strings"
	"time"

	"github.com/fayvad/fbs/pkg/config"
	"github.com/fayvad/fbs/pkg/odoo"
	"github.com/kolo/xmlrpc"
)

type client struct {
	timeout   time.Duration
	retries   int
	backoff   time.Duration
	transport http.RoundTripper
}

// New creates an XML-RPC client configured by Odoo settings.
func New(cfg *config.Config) odoo.Client {
	timeout := time.Duration(cfg.Odoo.TimeoutSec) * time.Second
	return &client{
		timeout: timeout,
		retries: cfg.Odoo.Retries,
		backoff: 500 * time.Millisecond,
		transport: &http.Transport{
			Proxy: http.ProxyFromEnvironment,
			DialContext: (&net.Dialer{
				Timeout:   timeout,
				KeepAlive: 30 * time.Second,
			}).DialContext,
			MaxIdleConnsPerHost:   16,
			IdleConnTimeout:       90 * time.Second,
			ResponseHeaderTimeout: timeout,
		},
	}
}

// Credentials builds credentials of the reference database from config.
func Credentials(cfg *config.Config) odoo.Credentials {
	return odoo.Credentials{
		URL:      cfg.Odoo.URL,
		Database: cfg.Odoo.ReferenceDatabase,
		User:     cfg.Odoo.User,
		Password: cfg.Odoo.Password,
	}
}

// Authenticate implements odoo.Client.
func (c *client) Authenticate(ctx context.Context, cr odoo.Credentials) (int, error) {
	var reply any
	args := []any{cr.Database, cr.User, cr.Password, map[string]any{}}
	err := c.call(ctx, cr.URL+"/xmlrpc/2/common", "authenticate", args, &reply)
	if err != nil {
		if isFault(err) {
			return 0, odoo.AuthError(cr.URL, cr.Database, cr.User, err)
		}
		return 0, odoo.ConnectionError(cr.URL, err)
	}
	uid, ok := odoo.AsInt(reply)
	if !ok || uid <= 0 {
		// Odoo answers false for wrong credentials
		return 0, odoo.AuthError(cr.URL, cr.Database, cr.User, nil)
	}
	return uid, nil
}

// ExecuteKw implements odoo.Client.
func (c *client) ExecuteKw(
	ctx context.Context,
	cr odoo.Credentials,
	uid int,
	model, method string,
	args []any,
	kwargs map[string]any,
) (any, error) {
	var reply any
	params := []any{cr.Database, uid, cr.Password, model, method, args, kwargs}
	err := c.call(ctx, cr.URL+"/xmlrpc/2/object", "execute_kw", params, &reply)
	if err != nil {
		if isFault(err) {
			return nil, odoo.RPCError(model, method, err)
		}
		return nil, odoo.ConnectionError(cr.URL, err)
	}
	return reply, nil
}

// call performs one XML-RPC request, retrying transport failures.
func (c *client) call(
	ctx context.Context,
	endpoint, method string,
	args []any,
	reply any,
) error {
	attempts := max(c.retries, 1)
	var err error
	for i := range attempts {
		if err = c.callOnce(ctx, endpoint, method, args, reply); err == nil {
			return nil
		}
		if isFault(err) || ctx.Err() != nil || i == attempts-1 {
			break
		}
		wait := c.backoff * time.Duration(i+1)
		slog.Warn("Odoo call failed, retrying",
			"endpoint", endpoint,
			"method", method,
			"attempt", i+1,
			"wait", wait,
			"error", err,
		)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
		}
	}
	return err
}

func (c *client) callOnce(
	ctx context.Context,
	endpoint, method string,
	args []any,
	reply any,
) error {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}
	// A fresh rpc client per call lets concurrent calls run in parallel,
	// connections are still pooled by the shared transport.
	rc, err := xmlrpc.NewClient(endpoint, ctxTransport{ctx: ctx, base: c.transport})
	if err != nil {
		return err
	}
	defer rc.Close()
	return rc.Call(method, args, reply)
}

// ctxTransport binds outgoing requests to a context. It is not an
// *http.Transport, so closing an xmlrpc client keeps the shared pool.
type ctxTransport struct {
	ctx  context.Context
	base http.RoundTripper
}

func (t ctxTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	return t.base.RoundTrip(req.WithContext(t.ctx))
}

// isFault reports whether Odoo answered with an XML-RPC fault, as opposed
// to a transport failure.
func isFault(err error) bool {
	var se rpc.ServerError
	if errors.As(err, &se) {
		return strings.HasPrefix(string(se), "Fault(")
	}
	return false
}
