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

// getOperateCmd returns the operate command.
func getOperateCmd() *cobra.Command {
	var solution string

	operateCmd := &cobra.Command{
		Use:   "operate OPERATION",
		Short: "Run an operation on a provisioned solution",
		Long: `Run a post-setup operation on a solution (phase 3).

OPERATION is one of:
  discover  discover models, workflows and BI features again
  adapt     map discovered Odoo models to business models of the domain
  status    show tables, migrations and the latest setup run, and
            compare recorded tables with the solution database

Examples:
  fbs operate status -s acme
  fbs operate adapt -s acme`,
		Args:      cobra.ExactArgs(1),
		ValidArgs: iointegration.Operations,
		RunE: func(cmd *cobra.Command, args []string) error {
			err := runOperate(cmd, solution, args[0])
			if err != nil {
				gn.PrintErrorMessage(err)
			}
			return err
		},
	}

	operateCmd.Flags().StringVarP(&solution, "solution-name", "s", "", "solution name")
	_ = operateCmd.MarkFlagRequired("solution-name")
	return operateCmd
}

func runOperate(cmd *cobra.Command, solution, op string) error {
	ctx := context.Background()
	svc, closeFn, err := newService(ctx, true)
	if err != nil {
		return err
	}
	defer closeFn()

	res, err := svc.SolutionOperations(ctx, solution, strings.ToLower(op))
	if err != nil {
		return err
	}
	if st, ok := res.Result.(*iointegration.Status); ok && len(st.MissingTables) > 0 {
		gn.Warn("<warn>%d</warn> recorded tables are missing from <em>%s</em>",
			len(st.MissingTables), st.DatabaseName)
	}
	return printJSON(cmd.OutOrStdout(), res)
}
