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
	"io"
	"slices"
	"strings"

	"github.com/gnames/gn"
	"github.com/gnames/gnfmt"
	"github.com/olekukonko/tablewriter"
)

// Output formats of command results.
const (
	formatJSON   = "json"
	formatTable  = "table"
	formatSimple = "simple"
)

var formats = []string{formatJSON, formatTable, formatSimple}

// view is a tabular form of a result.
type view struct {
	header []string
	rows   [][]string
}

func checkFormat(format string) error {
	if slices.Contains(formats, format) {
		return nil
	}
	gn.Warn("Unknown output format <em>%s</em>, use one of %s",
		format, strings.Join(formats, ", "))
	return fmt.Errorf("unknown output format %q", format)
}

// render prints a result as pretty JSON, a table or tab-separated lines.
func render(w io.Writer, format string, v any, tv view) error {
	switch format {
	case formatTable:
		tw := tablewriter.NewWriter(w)
		tw.SetHeader(tv.header)
		tw.AppendBulk(tv.rows)
		tw.Render()
		return nil
	case formatSimple:
		for _, row := range tv.rows {
			if _, err := fmt.Fprintln(w, strings.Join(row, "\t")); err != nil {
				return err
			}
		}
		return nil
	default:
		return printJSON(w, v)
	}
}

func printJSON(w io.Writer, v any) error {
	enc := gnfmt.GNjson{Pretty: true}
	out, err := enc.Encode(v)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(out))
	return err
}
