/*
Copyright © 2025 Dmitry Mozzherin <dmozzherin@gmail.com>

Permission is hereby granted, free of charge, to any person obtaining a copy
of this software and associated documentation files (the "Software"), to deal
in the Software without restriction, including without limitation the rights
to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
copies of the Software, and to permit persons to whom the Software is
furnished to do so, subject to the following conditions:

The above copyright notice and this permission notice shall be included in
all copies or substantial portions of the Software.

THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
THE SOFTWARE.
*/
package cmd

import (
	"context"
	"log/slog"

	"github.com/fayvad/fbs/internal/iocache"
	"github.com/fayvad/fbs/internal/iodb"
	"github.com/fayvad/fbs/internal/iofs"
	"github.com/fayvad/fbs/internal/iointegration"
	"github.com/fayvad/fbs/internal/ioodoo"
	"github.com/fayvad/fbs/internal/iostore"
	"github.com/fayvad/fbs/pkg/db"
	"github.com/fayvad/fbs/pkg/records"
	"github.com/gnames/gn"
)

// newService connects to the tracking database, the discovery cache and
// Odoo. The returned function releases the connections.
func newService(
	ctx context.Context,
	progress bool,
) (*iointegration.Service, func(), error) {
	r, err := iofs.LoadRules(cfg)
	if err != nil {
		return nil, nil, err
	}

	st, err := openStore(ctx)
	if err != nil {
		return nil, nil, err
	}

	c, err := iocache.New(ctx, cfg)
	if err != nil {
		st.Close()
		return nil, nil, err
	}

	svc := iointegration.New(cfg, r, ioodoo.New(cfg), st, iodb.NewPgxOperator,
		iointegration.OptCache(c),
		iointegration.OptProgress(progress),
	)
	closeFn := func() {
		if err := c.Close(); err != nil {
			slog.Warn("Cannot close cache", "error", err)
		}
		if err := st.Close(); err != nil {
			slog.Warn("Cannot close store", "error", err)
		}
	}
	return svc, closeFn, nil
}

// openStore creates the tracking database when it is missing and brings
// its tables up to date.
func openStore(ctx context.Context) (records.Store, error) {
	op := iodb.NewPgxOperator()
	maint := cfg.Database
	maint.Database = db.MaintenanceDatabase
	if err := op.Connect(ctx, &maint); err != nil {
		return nil, err
	}
	exists, err := op.DatabaseExists(ctx, cfg.Database.Database)
	if err == nil && !exists {
		err = op.CreateDatabase(ctx, cfg.Database.Database)
		if err == nil {
			gn.Info("Created tracking database <em>%s</em>", cfg.Database.Database)
		}
	}
	op.Close()
	if err != nil {
		return nil, err
	}

	st, err := iostore.New(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if err = st.Migrate(ctx); err != nil {
		st.Close()
		return nil, err
	}
	return st, nil
}
