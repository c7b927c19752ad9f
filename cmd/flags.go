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
	"github.com/fayvad/fbs/pkg/config"
	"github.com/spf13/cobra"
)

// persistentFlags adds settings that override config.yaml and FBS_*
// variables for any command.
func persistentFlags(cmd *cobra.Command) {
	pf := cmd.PersistentFlags()
	pf.String("odoo-url", "", "URL of the Odoo server")
	pf.String("reference-db", "", "reference Odoo database")
	pf.String("redis-addr", "", "Redis address of the discovery cache")
	pf.String("log-level", "", "log level (debug, info, warn, error)")
	pf.IntP("jobs", "j", 0, "number of models read concurrently during discovery")
}

// flagOptions converts explicitly set persistent flags to options.
func flagOptions(cmd *cobra.Command) []config.Option {
	var res []config.Option
	fs := cmd.Flags()

	str := func(name string, opt func(string) config.Option) {
		if fs.Changed(name) {
			s, _ := fs.GetString(name)
			res = append(res, opt(s))
		}
	}
	str("odoo-url", config.OptOdooURL)
	str("reference-db", config.OptOdooReferenceDatabase)
	str("redis-addr", config.OptCacheRedisAddr)
	str("log-level", config.OptLogLevel)

	if fs.Changed("jobs") {
		i, _ := fs.GetInt("jobs")
		res = append(res, config.OptJobsNumber(i))
	}
	return res
}
