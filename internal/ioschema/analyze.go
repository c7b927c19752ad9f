package ioschema

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/fayvad/fbs/pkg/db"
	"github.com/gnames/gnfmt"
)

// analyze refreshes planner statistics of freshly created tables.
// ANALYZE cannot run inside a transaction block. A failure does not
// undo the migration, so it is only logged.
func analyze(ctx context.Context, op db.Operator, tables []string) {
	if len(tables) == 0 {
		return
	}
	start := time.Now()
	stmt := "ANALYZE " + strings.Join(tables, ", ")
	if err := op.Exec(ctx, stmt); err != nil {
		slog.Warn("Cannot analyze migrated tables",
			"database", op.Database(), "error", err)
		return
	}
	slog.Info("Analyzed migrated tables",
		"database", op.Database(),
		"tables", len(tables),
		"duration", gnfmt.TimeString(time.Since(start).Seconds()),
	)
}
