// SPDX-License-Identifier: MIT

package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/katalvlaran/unfold/cache"
	"github.com/katalvlaran/unfold/internal/config"
	"github.com/katalvlaran/unfold/internal/logger"
	"github.com/katalvlaran/unfold/mesh"
	"github.com/katalvlaran/unfold/unfold"
)

// app is the state shared by all subcommands of one invocation.
type app struct {
	cfgPath string
	flags   overrides
	cfg     *config.Config
	log     *zap.Logger
}

// overrides mirrors the persistent flags; only flags the user set are
// applied over the loaded config.
type overrides struct {
	logLevel    string
	logFile     string
	method      string
	solver      string
	workers     int
	timeout     time.Duration
	maxAngle    float64
	maxArea     float64
	tolerance   float64
	cache       bool
	cachePath   string
	noNormalize bool
}

func newRootCmd() *cobra.Command {
	a := &app{log: zap.NewNop()}
	root := &cobra.Command{
		Use:           "unfold",
		Short:         "Flatten triangle meshes into 2D cut patterns (LSCM)",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.cfgPath, "config", "", "config file (default ./unfold.yaml or $XDG_CONFIG_HOME/unfold/config.yaml)")
	pf.StringVar(&a.flags.logLevel, "log-level", "", "debug, info, warn or error")
	pf.StringVar(&a.flags.logFile, "log-file", "", "also log to this rotating file")
	pf.StringVarP(&a.flags.method, "method", "m", "", "lscm, harmonic or angle_based")
	pf.StringVar(&a.flags.solver, "solver", "", "auto, cholesky or cg")
	pf.Float64Var(&a.flags.tolerance, "tolerance", 0, "relative residual bound of the solve")
	pf.IntVarP(&a.flags.workers, "workers", "w", 0, "per-triangle workers (0 = all CPUs)")
	pf.DurationVar(&a.flags.timeout, "timeout", 0, "deadline per mesh (0 = none)")
	pf.Float64Var(&a.flags.maxAngle, "max-angle", 0, "max angle distortion in degrees")
	pf.Float64Var(&a.flags.maxArea, "max-area", 0, "max area distortion |A2/A3 - 1|")
	pf.BoolVar(&a.flags.cache, "cache", false, "reuse results from the sqlite cache")
	pf.StringVar(&a.flags.cachePath, "cache-path", "", "sqlite cache file")
	pf.BoolVar(&a.flags.noNormalize, "no-normalize", false, "keep the raw LSCM scale")

	root.AddCommand(newRunCmd(a), newGenerateCmd(a), newBatchCmd(a), newWatchCmd(a))

	return root
}

// setup loads the config, applies changed flags, validates and starts
// logging.
func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(a.cfgPath)
	if err != nil {
		return err
	}
	f := cmd.Flags()
	if f.Changed("log-level") {
		cfg.Logging.Level = a.flags.logLevel
	}
	if f.Changed("log-file") {
		cfg.Logging.File = a.flags.logFile
	}
	if f.Changed("method") {
		cfg.Unfold.Method = a.flags.method
	}
	if f.Changed("solver") {
		cfg.Unfold.Solver = a.flags.solver
	}
	if f.Changed("tolerance") {
		cfg.Unfold.Tolerance = a.flags.tolerance
	}
	if f.Changed("workers") {
		cfg.Unfold.Workers = a.flags.workers
	}
	if f.Changed("timeout") {
		cfg.Unfold.Timeout = a.flags.timeout
	}
	if f.Changed("max-angle") {
		cfg.Thresholds.MaxAngleDistortionDeg = a.flags.maxAngle
	}
	if f.Changed("max-area") {
		cfg.Thresholds.MaxAreaDistortion = a.flags.maxArea
	}
	if f.Changed("cache") {
		cfg.Cache.Enabled = a.flags.cache
	}
	if f.Changed("cache-path") {
		cfg.Cache.Path = a.flags.cachePath
	}
	if f.Changed("no-normalize") {
		cfg.Unfold.Normalize = !a.flags.noNormalize
	}
	if err = cfg.Validate(); err != nil {
		return err
	}
	if err = logger.Init(cfg.Logging.Level, cfg.Logging.File); err != nil {
		return err
	}
	a.cfg, a.log = cfg, logger.Named("cli")

	return nil
}

// openCache returns nil when caching is off.
func (a *app) openCache() (*cache.Store, error) {
	if !a.cfg.Cache.Enabled {
		return nil, nil
	}

	return cache.Open(a.cfg.Cache.Path)
}

// unfoldFile reads and unfolds one mesh file. cached reports a cache hit.
func (a *app) unfoldFile(ctx context.Context, path string, store *cache.Store) (res *unfold.Result, cached bool, err error) {
	m, err := mesh.ReadFile(path)
	if err != nil {
		return nil, false, err
	}

	return a.unfoldMesh(ctx, m, store)
}

func (a *app) unfoldMesh(ctx context.Context, m *mesh.Mesh, store *cache.Store) (*unfold.Result, bool, error) {
	opts, err := a.cfg.UnfoldOptions()
	if err != nil {
		return nil, false, err
	}
	method, _ := a.cfg.Method()

	var key string
	if store != nil {
		key = cache.Key(m.ContentHash()+"|"+a.cfg.Unfold.Fingerprint(), method, a.cfg.Thresholds)
		res, ok, err := store.Get(ctx, key)
		switch {
		case err != nil:
			a.log.Warn("cache read failed", zap.Error(err))
		case ok:
			a.log.Debug("cache hit", zap.String("key", key))
			return res, true, nil
		}
	}

	if d := a.cfg.Unfold.Timeout; d > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d)
		defer cancel()
	}
	res, err := unfold.Unfold(ctx, m, append(opts, unfold.WithLogger(logger.Named("unfold")))...)
	if err != nil {
		return nil, false, err
	}

	if store != nil {
		if err = store.Put(ctx, key, res); err != nil {
			a.log.Warn("cache write failed", zap.Error(err))
		}
	}

	return res, false, nil
}

// summaryLine renders the one-line outcome used by batch and watch.
func summaryLine(path string, res *unfold.Result, cached bool, err error) string {
	if err != nil {
		return fmt.Sprintf("%s\tERROR\t%v", path, err)
	}
	status := "OK"
	if !res.Verdict.Acceptable {
		status = "REJECT"
	}
	line := fmt.Sprintf("%s\t%s\tangle=%.3f°\tarea=%.4f\tquality=%.3f\tsize=%.3fx%.3f",
		path, status, res.Report.Angle.Max, res.Report.Area.Max, res.Report.Quality,
		res.Verdict.MaterialWidth, res.Verdict.MaterialHeight)
	if cached {
		line += "\t(cached)"
	}

	return line
}
