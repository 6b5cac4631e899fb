// SPDX-License-Identifier: MIT

package main

import (
	"fmt"
	"runtime"
	"sort"
	"text/tabwriter"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

func newBatchCmd(a *app) *cobra.Command {
	var jobs int
	cmd := &cobra.Command{
		Use:   "batch <glob>",
		Short: "Unfold every mesh matching a ** glob and print one line per file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			paths, err := doublestar.FilepathGlob(args[0], doublestar.WithFilesOnly())
			if err != nil {
				return fmt.Errorf("glob %q: %w", args[0], err)
			}
			if len(paths) == 0 {
				return fmt.Errorf("glob %q matched no files", args[0])
			}
			sort.Strings(paths)
			if jobs <= 0 {
				jobs = runtime.GOMAXPROCS(0)
			}

			store, err := a.openCache()
			if err != nil {
				return err
			}
			if store != nil {
				defer store.Close()
			}

			ctx := cmd.Context()
			lines := make([]string, len(paths))
			failed := make([]bool, len(paths))
			var g errgroup.Group
			g.SetLimit(jobs)
			for i, p := range paths {
				i, p := i, p
				g.Go(func() error {
					res, cached, err := a.unfoldFile(ctx, p, store)
					if err != nil {
						a.log.Warn("unfold failed", zap.String("mesh", p), zap.Error(err))
					}
					lines[i] = summaryLine(p, res, cached, err)
					failed[i] = err != nil || !res.Verdict.Acceptable
					return nil
				})
			}
			_ = g.Wait()

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			n := 0
			for i, line := range lines {
				fmt.Fprintln(tw, line)
				if failed[i] {
					n++
				}
			}
			if err = tw.Flush(); err != nil {
				return err
			}
			if err = ctx.Err(); err != nil {
				return err
			}
			if n > 0 {
				return fmt.Errorf("%d of %d meshes failed or were rejected", n, len(paths))
			}

			return nil
		},
	}
	cmd.Flags().IntVarP(&jobs, "jobs", "j", 0, "meshes unfolded at once (0 = all CPUs)")

	return cmd
}
