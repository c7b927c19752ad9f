// Package iocatalog reads the module catalog of an Odoo database.
package iocatalog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fayvad/fbs/pkg/catalog"
	"github.com/fayvad/fbs/pkg/odoo"
	"github.com/fayvad/fbs/pkg/rules"
	"github.com/gnames/gnfmt"
	"github.com/gnames/gnlib"
)

var moduleFields = []string{
	"name", "shortdesc", "summary", "state", "dependencies_id",
}

// Discover enumerates modules of the session database and builds a
// catalog. Dependency ids of all modules are resolved in one batched
// read.
func Discover(
	ctx context.Context,
	r *rules.Rules,
	sess *odoo.Session,
) (*catalog.Catalog, error) {
	start := time.Now()
	recs, err := sess.SearchRead(ctx, "ir.module.module", nil, moduleFields, 0)
	if err != nil {
		return nil, err
	}

	rows := make([]catalog.ModuleRow, 0, len(recs))
	var depIDs []int
	for _, rec := range recs {
		row := catalog.ModuleRow{
			ID:            rec.Int("id"),
			Name:          rec.String("name"),
			DisplayName:   gnlib.FixUtf8(rec.String("shortdesc")),
			Description:   gnlib.FixUtf8(rec.String("summary")),
			State:         rec.String("state"),
			DependencyIDs: rec.IDs("dependencies_id"),
		}
		if r.Skip(row.Name) {
			continue
		}
		depIDs = append(depIDs, row.DependencyIDs...)
		rows = append(rows, row)
	}

	depNames, err := dependencyNames(ctx, sess, depIDs)
	if err != nil {
		return nil, err
	}

	res := catalog.Build(r, rows, depNames)
	slog.Info("Module catalog discovered",
		"database", sess.Database(),
		"modules", res.Len(),
		"skipped", len(recs)-len(rows),
		"duration", gnfmt.TimeString(time.Since(start).Seconds()),
	)
	return res, nil
}

func dependencyNames(
	ctx context.Context,
	sess *odoo.Session,
	ids []int,
) (map[int]string, error) {
	res := make(map[int]string)
	if len(ids) == 0 {
		return res, nil
	}
	uniq := make([]int, 0, len(ids))
	seen := make(map[int]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		uniq = append(uniq, id)
	}

	recs, err := sess.Read(ctx, "ir.module.module.dependency", uniq, []string{"name"})
	if err != nil {
		return nil, err
	}
	for _, rec := range recs {
		res[rec.Int("id")] = rec.String("name")
	}
	return res, nil
}
