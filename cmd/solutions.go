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
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/fayvad/fbs/internal/iointegration"
	"github.com/gnames/gn"
	"github.com/spf13/cobra"
)

// getSolutionsCmd returns the solutions command.
func getSolutionsCmd() *cobra.Command {
	var format string

	solutionsCmd := &cobra.Command{
		Use:   "solutions",
		Short: "List registered solutions",
		Long: `List solutions registered in the tracking database.

Examples:
  fbs solutions
  fbs solutions -o json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			err := runSolutions(cmd, format)
			if err != nil {
				gn.PrintErrorMessage(err)
			}
			return err
		},
	}

	solutionsCmd.Flags().StringVarP(&format, "output-format", "o", formatTable,
		"output format: json, table or simple")
	return solutionsCmd
}

func runSolutions(cmd *cobra.Command, format string) error {
	if err := checkFormat(format); err != nil {
		return err
	}
	ctx := context.Background()
	svc, closeFn, err := newService(ctx, false)
	if err != nil {
		return err
	}
	defer closeFn()

	res, err := svc.ListSolutions(ctx)
	if err != nil {
		return err
	}
	return render(cmd.OutOrStdout(), format, res, solutionsView(res))
}

func solutionsView(res []iointegration.SolutionSummary) view {
	tv := view{header: []string{"SOLUTION", "DOMAIN", "DATABASE", "TABLES", "UPDATED"}}
	for _, s := range res {
		tv.rows = append(tv.rows, []string{
			s.SolutionName,
			s.Domain,
			s.DatabaseName,
			strconv.Itoa(s.Tables),
			humanize.Time(s.UpdatedAt),
		})
	}
	return tv
}
