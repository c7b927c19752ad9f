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

	"github.com/gnames/gn"
	"github.com/spf13/cobra"
)

// getMigrateCmd returns the migrate command.
// Extracted as a function to facilitate testing and dynamic
// command registration.
func getMigrateCmd() *cobra.Command {
	var solution string

	migrateCmd := &cobra.Command{
		Use:   "migrate",
		Short: "Create tables for models new in the solution Odoo database",
		Long: `Migrate compares a fresh model discovery of the solution Odoo
database with the stored one and creates tables for new models.

Every statement is logged in the schema migration table as completed
or failed. Tables of failed models are tried again by the next run.
Existing tables are never changed or dropped.

Examples:
  fbs migrate -s acme`,
		RunE: func(cmd *cobra.Command, args []string) error {
			err := runMigrate(cmd, solution)
			if err != nil {
				gn.PrintErrorMessage(err)
			}
			return err
		},
	}

	migrateCmd.Flags().StringVarP(&solution, "solution-name", "s", "", "solution name")
	_ = migrateCmd.MarkFlagRequired("solution-name")
	return migrateCmd
}

func runMigrate(cmd *cobra.Command, solution string) error {
	ctx := context.Background()
	svc, closeFn, err := newService(ctx, true)
	if err != nil {
		return err
	}
	defer closeFn()

	res, err := svc.MigrateSolutionSchema(ctx, solution)
	if err != nil {
		return err
	}

	switch {
	case len(res.NewModels) == 0:
		gn.Info("Schema of <em>%s</em> is up to date", solution)
	case len(res.TablesFailed) > 0:
		gn.Warn("<warn>%d</warn> tables failed, run migrate again after fixing the cause",
			len(res.TablesFailed))
	default:
		gn.Info("Created <em>%d</em> tables", len(res.TablesCreated))
	}
	if len(res.TablesExisting) > 0 {
		gn.Info("Skipped <em>%d</em> tables that already exist", len(res.TablesExisting))
	}
	return printJSON(cmd.OutOrStdout(), res)
}
