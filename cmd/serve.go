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
	"os"
	"os/signal"
	"syscall"

	"github.com/fayvad/fbs/internal/ioweb"
	"github.com/fayvad/fbs/pkg/config"
	"github.com/gin-gonic/gin"
	"github.com/gnames/gn"
	"github.com/spf13/cobra"
)

// getServeCmd returns the serve command.
func getServeCmd() *cobra.Command {
	var (
		port  int
		debug bool
	)

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the REST API",
		Long: `Start the REST API of FBS. The server stops on SIGINT or SIGTERM
and waits for running requests.

Examples:
  fbs serve
  fbs serve --port 8080`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("port") {
				cfg.Update([]config.Option{config.OptServerPort(port)})
			}
			err := runServe(debug)
			if err != nil {
				gn.PrintErrorMessage(err)
			}
			return err
		},
	}

	serveCmd.Flags().IntVarP(&port, "port", "p", 8000, "port of the REST API")
	serveCmd.Flags().BoolVar(&debug, "debug", false, "run gin in debug mode")
	return serveCmd
}

func runServe(debug bool) error {
	if !debug {
		gin.SetMode(gin.ReleaseMode)
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	svc, closeFn, err := newService(ctx, false)
	if err != nil {
		return err
	}
	defer closeFn()

	gn.Info("REST API listens on port <em>%d</em>", cfg.Server.Port)
	return ioweb.Run(ctx, cfg, svc)
}
