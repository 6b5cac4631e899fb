// SPDX-License-Identifier: MIT

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/katalvlaran/unfold/unfold"
)

func newRunCmd(a *app) *cobra.Command {
	var (
		out       string
		format    string
		triangles bool
	)
	cmd := &cobra.Command{
		Use:   "run <mesh>",
		Short: "Unfold one mesh and print the parameterization and verdict",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if out != "" && !cmd.Flags().Changed("format") && strings.HasSuffix(out, ".yaml") {
				format = "yaml"
			}
			if format != "json" && format != "yaml" {
				return fmt.Errorf("--format must be json or yaml, got %q", format)
			}

			store, err := a.openCache()
			if err != nil {
				return err
			}
			if store != nil {
				defer store.Close()
			}

			res, cached, err := a.unfoldFile(cmd.Context(), args[0], store)
			if err != nil {
				return err
			}
			a.log.Info("unfolded",
				zap.String("mesh", args[0]),
				zap.Bool("acceptable", res.Verdict.Acceptable),
				zap.Bool("cached", cached))

			if !triangles {
				res = withoutTriangles(res)
			}
			w := cmd.OutOrStdout()
			if out != "" {
				f, err := os.Create(out)
				if err != nil {
					return fmt.Errorf("create %s: %w", out, err)
				}
				defer f.Close()
				w = f
			}

			return writeResult(w, res, format)
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "write the result here instead of stdout")
	cmd.Flags().StringVarP(&format, "format", "f", "json", "json or yaml")
	cmd.Flags().BoolVar(&triangles, "triangles", false, "include per-triangle distortion rows")

	return cmd
}

// withoutTriangles returns a shallow copy of res whose report drops the
// per-triangle rows.
func withoutTriangles(res *unfold.Result) *unfold.Result {
	cp := *res
	rep := *res.Report
	rep.Triangles = nil
	cp.Report = &rep

	return &cp
}

func writeResult(w io.Writer, res *unfold.Result, format string) error {
	if format == "yaml" {
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(res); err != nil {
			return err
		}

		return enc.Close()
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	return enc.Encode(res)
}
