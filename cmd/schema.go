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

	"github.com/fayvad/fbs/pkg/schema"
	"github.com/gnames/gn"
	"github.com/spf13/cobra"
)

// getSchemaCmd returns the schema command.
func getSchemaCmd() *cobra.Command {
	var sf solutionFlags

	schemaCmd := &cobra.Command{
		Use:   "schema",
		Short: "Create the PostgreSQL database of a solution",
		Long: `Create the database of a solution without touching Odoo.

This command:
  1. Creates the solution database if it does not exist
  2. Creates the owner role and grants it access
  3. Creates FBS system tables and business tables of the domain
  4. Registers the solution in the tracking database

All statements are idempotent, a failed run can be repeated.

Examples:
  fbs schema -s acme -d rental --db-user acme --db-password secret`,
		RunE: func(cmd *cobra.Command, args []string) error {
			err := runSchema(cmd, sf.config())
			if err != nil {
				gn.PrintErrorMessage(err)
			}
			return err
		},
	}
	sf.add(schemaCmd)
	return schemaCmd
}

func runSchema(cmd *cobra.Command, sc schema.SolutionConfig) error {
	ctx := context.Background()
	svc, closeFn, err := newService(ctx, false)
	if err != nil {
		return err
	}
	defer closeFn()

	res, err := svc.CreateSolutionSchema(ctx, sc)
	if err != nil {
		return err
	}
	gn.Info("Database <em>%s</em>: %d system tables, %d business tables",
		res.Database, len(res.FBSTablesCreated), len(res.BusinessTablesCreated))
	return printJSON(cmd.OutOrStdout(), res)
}
