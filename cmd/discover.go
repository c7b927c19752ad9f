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
	"strings"

	"github.com/fayvad/fbs/pkg/discovery"
	"github.com/gnames/gn"
	"github.com/spf13/cobra"
)

// getDiscoverCmd returns the discover command.
func getDiscoverCmd() *cobra.Command {
	var (
		domain string
		cached bool
		name   string
		format string
	)

	discoverCmd := &cobra.Command{
		Use:   "discover TYPE",
		Short: "Discover models, workflows or BI features",
		Long: `Discover capabilities of the reference Odoo database.

TYPE is one of models, workflows or bi_features. Results are stored in
the tracking database and in the discovery cache.

With --cached the latest stored result is shown without calling Odoo,
--name selects results of a solution instead of the reference database.

Examples:
  fbs discover models --domain rental
  fbs discover workflows -d rental -o table
  fbs discover models -d rental --cached --name acme`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			err := runDiscover(cmd, args[0], domain, name, cached, format)
			if err != nil {
				gn.PrintErrorMessage(err)
			}
			return err
		},
	}

	fl := discoverCmd.Flags()
	fl.StringVarP(&domain, "domain", "d", "", "business domain, for example rental")
	fl.BoolVarP(&cached, "cached", "c", false, "show stored result")
	fl.StringVarP(&name, "name", "n", "", "solution name of a stored result")
	fl.StringVarP(&format, "output-format", "o", formatJSON,
		"output format: json, table or simple")
	_ = discoverCmd.MarkFlagRequired("domain")
	return discoverCmd
}

func runDiscover(
	cmd *cobra.Command,
	kind, domain, name string,
	cached bool,
	format string,
) error {
	if err := checkFormat(format); err != nil {
		return err
	}
	ctx := context.Background()
	svc, closeFn, err := newService(ctx, format != formatJSON)
	if err != nil {
		return err
	}
	defer closeFn()

	var res *discovery.Result
	if cached {
		res, err = svc.CachedDiscovery(ctx, domain, kind, name)
	} else {
		res, err = svc.RefreshDiscovery(ctx, domain, kind)
	}
	if err != nil {
		return err
	}
	if len(res.Failures) > 0 {
		gn.Warn("<warn>%d</warn> models could not be inspected, see the log",
			len(res.Failures))
	}
	return render(cmd.OutOrStdout(), format, res, discoveryView(res))
}

func discoveryView(res *discovery.Result) view {
	var tv view
	switch res.Type {
	case discovery.Models:
		tv.header = []string{"MODEL", "FIELDS", "RELATIONS"}
		for _, m := range res.Models {
			tv.rows = append(tv.rows, []string{
				m.ModelName,
				strconv.Itoa(len(m.Fields)),
				strconv.Itoa(len(m.Relationships)),
			})
		}
	case discovery.Workflows:
		tv.header = []string{"MODEL", "STATES", "ACTIONS"}
		for _, w := range res.Workflows {
			tv.rows = append(tv.rows, []string{
				w.Model,
				strings.Join(w.States, ","),
				strings.Join(w.WorkflowActions, ","),
			})
		}
	case discovery.BIFeatures:
		tv.header = []string{"MODEL", "REPORTS", "DASHBOARDS", "METRICS"}
		for _, b := range res.BIFeatures {
			tv.rows = append(tv.rows, []string{
				b.Model,
				strconv.Itoa(len(b.Reports)),
				strconv.Itoa(len(b.Dashboards)),
				strings.Join(b.Metrics, ","),
			})
		}
	}
	return tv
}
