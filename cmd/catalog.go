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
	"strings"

	"github.com/fayvad/fbs/internal/iointegration"
	"github.com/gnames/gn"
	"github.com/spf13/cobra"
)

// getCatalogCmd returns the catalog command.
func getCatalogCmd() *cobra.Command {
	var format string

	catalogCmd := &cobra.Command{
		Use:   "catalog",
		Short: "Show module catalog of the reference Odoo database",
		Long: `Read all modules of the reference Odoo database, classify them
into business categories and estimate their features (phase 1).

Nothing is changed in Odoo, the command is safe to repeat.

Examples:
  fbs catalog
  fbs catalog --output-format table`,
		RunE: func(cmd *cobra.Command, args []string) error {
			err := runCatalog(cmd, format)
			if err != nil {
				gn.PrintErrorMessage(err)
			}
			return err
		},
	}

	catalogCmd.Flags().StringVarP(&format, "output-format", "o", formatTable,
		"output format: json, table or simple")
	return catalogCmd
}

func runCatalog(cmd *cobra.Command, format string) error {
	if err := checkFormat(format); err != nil {
		return err
	}
	ctx := context.Background()
	svc, closeFn, err := newService(ctx, false)
	if err != nil {
		return err
	}
	defer closeFn()

	res, err := svc.Phase1MetadataDiscovery(ctx)
	if err != nil {
		return err
	}
	if format != formatJSON {
		gn.Info("Reference database <em>%s</em> has <em>%d</em> modules",
			res.Database, res.TotalModules)
	}
	return render(cmd.OutOrStdout(), format, res, catalogView(res))
}

func catalogView(res *iointegration.Phase1Result) view {
	tv := view{header: []string{"MODULE", "CATEGORY", "STATE", "FEATURES"}}
	for _, m := range res.Modules {
		tv.rows = append(tv.rows, []string{
			m.Name, m.Category, m.State, strings.Join(m.EstimatedFeatures, ","),
		})
	}
	return tv
}
