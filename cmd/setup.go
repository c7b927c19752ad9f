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

	"github.com/fayvad/fbs/internal/iointegration"
	"github.com/fayvad/fbs/pkg/schema"
	"github.com/gnames/gn"
	"github.com/spf13/cobra"
)

// solutionFlags describe a solution database and its owner.
type solutionFlags struct {
	name       string
	domain     string
	dbUser     string
	dbPassword string
}

func (f *solutionFlags) add(cmd *cobra.Command) {
	fl := cmd.Flags()
	fl.StringVarP(&f.name, "solution-name", "s", "",
		"solution name: lowercase letters, digits and underscores")
	fl.StringVarP(&f.domain, "domain", "d", "", "business domain, for example rental")
	fl.StringVar(&f.dbUser, "db-user", "", "owner role of the solution database")
	fl.StringVar(&f.dbPassword, "db-password", "", "password of the owner role")
	_ = cmd.MarkFlagRequired("solution-name")
	_ = cmd.MarkFlagRequired("domain")
}

func (f *solutionFlags) config() schema.SolutionConfig {
	return schema.SolutionConfig{
		SolutionName: f.name,
		Domain:       f.domain,
		DatabaseConfig: schema.DatabaseCredentials{
			User:     f.dbUser,
			Password: f.dbPassword,
		},
	}
}

// getSetupCmd returns the setup command.
func getSetupCmd() *cobra.Command {
	var (
		sf     solutionFlags
		rf     requirementFlags
		resume bool
	)

	setupCmd := &cobra.Command{
		Use:   "setup",
		Short: "Set up a complete solution",
		Long: `Run the complete setup of a solution (phase 2):

  1. resolve requirements into Odoo modules
  2. copy the reference Odoo database with pg_dump, createdb and psql
  3. install modules into the copy
  4. create the solution PostgreSQL database and its tables
  5. discover models, workflows and BI features of the copy

Every step is recorded. A failed step stops the run and nothing done
before is undone. Use --resume to continue the latest run, completed
steps are not repeated.

Examples:
  fbs setup -s acme -d rental --industry rental \
    --db-user acme --db-password secret
  fbs setup -s acme -d rental --industry rental \
    --db-user acme --db-password secret --resume`,
		RunE: func(cmd *cobra.Command, args []string) error {
			req := iointegration.SetupRequest{
				Requirements: rf.request(),
				Resume:       resume,
			}
			sc := sf.config()
			req.SolutionName = sc.SolutionName
			req.Domain = sc.Domain
			req.DatabaseConfig = sc.DatabaseConfig
			err := runSetup(cmd, req)
			if err != nil {
				gn.PrintErrorMessage(err)
			}
			return err
		},
	}

	sf.add(setupCmd)
	rf.add(setupCmd)
	setupCmd.Flags().BoolVarP(&resume, "resume", "r", false,
		"continue the latest run of the solution")
	return setupCmd
}

func runSetup(cmd *cobra.Command, req iointegration.SetupRequest) error {
	ctx := context.Background()
	svc, closeFn, err := newService(ctx, true)
	if err != nil {
		return err
	}
	defer closeFn()

	res, err := svc.Phase2CompleteSetup(ctx, req)
	if res != nil {
		tv := setupView(res)
		if rerr := render(cmd.OutOrStdout(), formatTable, res, tv); rerr != nil {
			return rerr
		}
	}
	if err != nil {
		return err
	}
	gn.Info("Run <em>%s</em>: %d modules, %d models discovered",
		res.RunID, len(res.Modules), res.Discovered["models"])
	return nil
}

func setupView(res *iointegration.SetupResult) view {
	tv := view{header: []string{"STEP", "STATUS", "DURATION", "ERROR"}}
	for _, s := range res.Steps {
		status := s.Status
		if s.Skipped {
			status += " (skipped)"
		}
		tv.rows = append(tv.rows, []string{s.Step, status, s.Duration, s.Error})
	}
	return tv
}
