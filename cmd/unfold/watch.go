// SPDX-License-Identifier: MIT

package main

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newWatchCmd(a *app) *cobra.Command {
	var debounce time.Duration
	cmd := &cobra.Command{
		Use:   "watch <mesh|glob>",
		Short: "Re-unfold meshes whenever they change on disk",
		Long: "Unfolds every matching mesh once, then again after each write.\n" +
			"Bursts of events for one file within --debounce collapse into one run.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pattern := filepath.Clean(args[0])
			if !doublestar.ValidatePathPattern(pattern) {
				return fmt.Errorf("bad pattern %q", args[0])
			}
			if debounce <= 0 {
				return fmt.Errorf("--debounce must be > 0, got %s", debounce)
			}

			w, err := fsnotify.NewWatcher()
			if err != nil {
				return fmt.Errorf("watcher: %w", err)
			}
			defer w.Close()
			base, rest := doublestar.SplitPattern(filepath.ToSlash(pattern))
			if err = watchDirs(w, filepath.FromSlash(base), strings.Contains(rest, "/")); err != nil {
				return err
			}

			store, err := a.openCache()
			if err != nil {
				return err
			}
			if store != nil {
				defer store.Close()
			}

			ctx := cmd.Context()
			out := cmd.OutOrStdout()
			process := func(p string) {
				res, cached, err := a.unfoldFile(ctx, p, store)
				if err != nil {
					a.log.Warn("unfold failed", zap.String("mesh", p), zap.Error(err))
				}
				fmt.Fprintln(out, summaryLine(p, res, cached, err))
			}

			initial, err := doublestar.FilepathGlob(pattern, doublestar.WithFilesOnly())
			if err != nil {
				return fmt.Errorf("glob %q: %w", pattern, err)
			}
			for _, p := range initial {
				process(p)
			}
			a.log.Info("watching", zap.String("pattern", pattern), zap.Int("files", len(initial)))

			pending := make(chan string)
			timers := make(map[string]*time.Timer)
			defer func() {
				for _, t := range timers {
					t.Stop()
				}
			}()
			for {
				select {
				case <-ctx.Done():
					return nil

				case ev, ok := <-w.Events:
					if !ok {
						return nil
					}
					if ev.Has(fsnotify.Create) {
						if fi, err := os.Stat(ev.Name); err == nil && fi.IsDir() {
							_ = watchDirs(w, ev.Name, true)
							continue
						}
					}
					if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
						continue
					}
					name := filepath.Clean(ev.Name)
					if ok, _ := doublestar.PathMatch(pattern, name); !ok {
						continue
					}
					if t, ok := timers[name]; ok {
						t.Stop()
					}
					timers[name] = time.AfterFunc(debounce, func() {
						select {
						case pending <- name:
						case <-ctx.Done():
						}
					})

				case p := <-pending:
					delete(timers, p)
					process(p)

				case err, ok := <-w.Errors:
					if !ok {
						return nil
					}
					a.log.Warn("watch error", zap.Error(err))
				}
			}
		},
	}
	cmd.Flags().DurationVar(&debounce, "debounce", 200*time.Millisecond, "quiet period before a changed file is re-run")

	return cmd
}

// watchDirs adds dir, and with recursive every directory below it, to w.
func watchDirs(w *fsnotify.Watcher, dir string, recursive bool) error {
	if !recursive {
		if err := w.Add(dir); err != nil {
			return fmt.Errorf("watch %s: %w", dir, err)
		}

		return nil
	}

	return filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if err = w.Add(p); err != nil {
			return fmt.Errorf("watch %s: %w", p, err)
		}

		return nil
	})
}
