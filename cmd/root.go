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
	"fmt"
	"log/slog"
	"os"

	"github.com/fayvad/fbs/internal/ioconfig"
	"github.com/fayvad/fbs/internal/iofs"
	"github.com/fayvad/fbs/internal/iologger"
	app "github.com/fayvad/fbs/pkg"
	"github.com/fayvad/fbs/pkg/config"
	"github.com/gnames/gn"
	"github.com/spf13/cobra"
)

var (
	homeDir string
	opts    []config.Option
	cfg     *config.Config
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = getRootCmd()

func getRootCmd() *cobra.Command {
	res := &cobra.Command{
		Version: fmt.Sprintf("version: %s\nbuild:   %s", app.Version, app.Build),
		Use:     "fbs",
		Short:   "Discovers Odoo capabilities and builds solution databases",
		Long: `FBS (Fayvad Business Suite) turns a reference Odoo installation
into business solutions.

Phases:
  1. catalog: read the module catalog of the reference Odoo database
  2. setup: duplicate the reference database for a solution, install
     modules, create the solution PostgreSQL schema and discover models,
     workflows and BI features
  3. operate: rediscover, adapt and inspect a provisioned solution

Configuration precedence (highest to lowest):
  1. CLI flags
  2. Environment variables (FBS_*), also read from ./.env
  3. Config file (~/.config/fbs/config.yaml)
  4. Built-in defaults

Nested fields use underscores (odoo.url is FBS_ODOO_URL).`,
		PersistentPreRunE: bootstrap,
		SilenceErrors:     true,
		SilenceUsage:      true,
	}

	// Remove the automatic "fbs version" prefix
	res.SetVersionTemplate("{{.Version}}\n")
	// Override version flag to use -V (consistent with other gn projects)
	res.Flags().BoolP("version", "V", false, "version for fbs")
	persistentFlags(res)

	res.AddCommand(
		getCatalogCmd(),
		getResolveCmd(),
		getDiscoverCmd(),
		getSetupCmd(),
		getSchemaCmd(),
		getMigrateCmd(),
		getOperateCmd(),
		getSolutionsCmd(),
		getGenerateAPIsCmd(),
		getServeCmd(),
	)
	return res
}

func bootstrap(cmd *cobra.Command, _ []string) error {
	var err error
	homeDir, err = os.UserHomeDir()
	if err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	if err = iofs.EnsureDirs(homeDir); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	// Initialize logging with hardcoded defaults
	// Will be reconfigured later with user's config settings
	if err = iologger.Init(config.LogDir(homeDir), config.New().Log); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	if err = iofs.EnsureConfigFile(homeDir); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}
	if err = iofs.EnsureRulesFile(homeDir); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	if err = ioconfig.LoadDotEnv(".env"); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	var cfgViper *config.Config
	if cfgViper, err = ioconfig.Load(config.ConfigFilePath(homeDir)); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	cfg = config.New()
	opts = cfgViper.ToOptions()
	opts = append(opts, flagOptions(cmd)...)
	opts = append(opts, config.OptHomeDir(homeDir))
	cfg.Update(opts)

	// Reconfigure logging with user's settings
	if err = iologger.Init(config.LogDir(cfg.HomeDir), cfg.Log); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	slog.Info("Configuration loaded", "config_file", config.ConfigFilePath(homeDir))
	return nil
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}
