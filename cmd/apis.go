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

	"github.com/fayvad/fbs/pkg/apigen"
	"github.com/gnames/gn"
	"github.com/spf13/cobra"
)

// getGenerateAPIsCmd returns the generate-apis command.
func getGenerateAPIsCmd() *cobra.Command {
	var (
		solution string
		domain   string
		models   []string
		format   string
	)

	apisCmd := &cobra.Command{
		Use:   "generate-apis",
		Short: "Describe CRUD endpoints of adapted solution models",
		Long: `Generate REST endpoint descriptions for business models of a
solution. Only Odoo models that map to a business model of the domain
get endpoints.

Examples:
  fbs generate-apis --solution-name acme
  fbs generate-apis -s acme --models rental_property,rental_lease -o table
  fbs generate-apis -s acme --domain rental -o simple`,
		RunE: func(cmd *cobra.Command, args []string) error {
			err := runGenerateAPIs(cmd, solution, domain, models, format)
			if err != nil {
				gn.PrintErrorMessage(err)
			}
			return err
		},
	}

	fl := apisCmd.Flags()
	fl.StringVarP(&solution, "solution-name", "s", "", "solution name")
	fl.StringVarP(&domain, "domain", "d", "", "business domain (default: domain of the solution)")
	fl.StringSliceVarP(&models, "models", "m", nil,
		"Odoo or business model names (default: all adapted models)")
	fl.StringVarP(&format, "output-format", "o", formatJSON,
		"output format: json, table or simple")
	_ = apisCmd.MarkFlagRequired("solution-name")
	return apisCmd
}

func runGenerateAPIs(
	cmd *cobra.Command,
	solution, domain string,
	models []string,
	format string,
) error {
	if err := checkFormat(format); err != nil {
		return err
	}
	ctx := context.Background()
	svc, closeFn, err := newService(ctx, false)
	if err != nil {
		return err
	}
	defer closeFn()

	res, err := svc.GenerateAPIs(ctx, solution, domain, models)
	if err != nil {
		return err
	}
	if len(res.Missing) > 0 {
		gn.Warn("No adapted models for <warn>%v</warn>", res.Missing)
	}
	return render(cmd.OutOrStdout(), format, res, apisView(res))
}

func apisView(res *apigen.Spec) view {
	tv := view{header: []string{"METHOD", "PATH", "ACTION", "MODEL"}}
	for _, r := range res.Resources {
		for _, e := range r.Endpoints {
			tv.rows = append(tv.rows, []string{e.Method, e.Path, e.Action, r.Model})
		}
	}
	return tv
}
