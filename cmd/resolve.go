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

	"github.com/fayvad/fbs/pkg/requirements"
	"github.com/gnames/gn"
	"github.com/spf13/cobra"
)

// requirementFlags are shared by resolve and setup.
type requirementFlags struct {
	industry string
	features []string
	modules  []string
}

func (f *requirementFlags) add(cmd *cobra.Command) {
	fl := cmd.Flags()
	fl.StringVarP(&f.industry, "industry", "i", "",
		"industry template, for example rental")
	fl.StringSliceVar(&f.features, "features", nil,
		"business features, for example accounting,inventory")
	fl.StringSliceVarP(&f.modules, "modules", "m", nil,
		"Odoo modules to install directly")
}

func (f *requirementFlags) request() requirements.Request {
	return requirements.Request{
		Industry: f.industry,
		Features: f.features,
		Direct:   f.modules,
	}
}

// getResolveCmd returns the resolve command.
func getResolveCmd() *cobra.Command {
	var rf requirementFlags

	resolveCmd := &cobra.Command{
		Use:   "resolve",
		Short: "Resolve business requirements into Odoo modules",
		Long: `Resolve an industry, a list of features or a list of modules
into Odoo modules with all their dependencies.

Only one kind of requirement is used: industry wins over features,
features win over modules.

Examples:
  fbs resolve --industry rental
  fbs resolve --features accounting,crm
  fbs resolve -m sale_management`,
		RunE: func(cmd *cobra.Command, args []string) error {
			err := runResolve(cmd, rf.request())
			if err != nil {
				gn.PrintErrorMessage(err)
			}
			return err
		},
	}
	rf.add(resolveCmd)
	return resolveCmd
}

func runResolve(cmd *cobra.Command, req requirements.Request) error {
	ctx := context.Background()
	svc, closeFn, err := newService(ctx, false)
	if err != nil {
		return err
	}
	defer closeFn()

	res, err := svc.ResolveRequirements(ctx, req)
	if err != nil {
		return err
	}
	if len(res.Missing) > 0 {
		gn.Warn("Modules absent from the reference catalog: <warn>%v</warn>", res.Missing)
	}
	return printJSON(cmd.OutOrStdout(), res)
}
