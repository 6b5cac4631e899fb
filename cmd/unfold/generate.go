// SPDX-License-Identifier: MIT

package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/katalvlaran/unfold/builder"
	"github.com/katalvlaran/unfold/mesh"
)

func newGenerateCmd(*app) *cobra.Command {
	var (
		size   int
		out    string
		seed   int64
		jitter float64
	)
	cmd := &cobra.Command{
		Use:   "generate <kind>",
		Short: "Write a fixture mesh (" + strings.Join(builder.Kinds(), ", ") + ")",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cons, err := builder.ByName(args[0], size)
			if err != nil {
				return err
			}
			if jitter < 0 || jitter >= 0.25 {
				return fmt.Errorf("--jitter must be in [0, 0.25), got %g", jitter)
			}
			opts := []builder.Option{builder.WithNormals()}
			if jitter > 0 {
				opts = append(opts, builder.WithSeed(seed), builder.WithJitter(jitter))
			}
			m, err := builder.Build(opts, cons)
			if err != nil {
				return err
			}
			if out == "" {
				return mesh.Encode(cmd.OutOrStdout(), m, mesh.FormatYAML)
			}
			if err = mesh.WriteFile(out, m); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s: %d vertices, %d triangles\n",
				out, len(m.Vertices), len(m.Triangles))

			return nil
		},
	}
	cmd.Flags().IntVarP(&size, "size", "s", 8, "resolution of the fixture")
	cmd.Flags().StringVarP(&out, "out", "o", "", "output file (.yaml or .json); stdout when empty")
	cmd.Flags().Int64Var(&seed, "seed", 1, "seed for --jitter")
	cmd.Flags().Float64Var(&jitter, "jitter", 0, "in-plane displacement of interior grid vertices, fraction of a cell")

	return cmd
}
