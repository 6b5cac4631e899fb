// SPDX-License-Identifier: MIT

// Package parallel splits index ranges into contiguous chunks and runs them
// on a bounded errgroup. Results are deterministic: chunks are fixed by
// (n, workers) alone, callers write into per-chunk or per-index slots, and
// when several chunks fail the error of the lowest chunk is returned.
package parallel

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// Range is the half-open index interval [Lo, Hi).
type Range struct {
	Lo, Hi int
}

// Len returns Hi - Lo.
func (r Range) Len() int { return r.Hi - r.Lo }

// minChunk keeps tiny inputs on a single goroutine.
const minChunk = 64

// Workers resolves a worker count: n ≤ 0 means runtime.GOMAXPROCS(0).
func Workers(n int) int {
	if n <= 0 {
		return runtime.GOMAXPROCS(0)
	}

	return n
}

// Split cuts [0, n) into at most `workers` contiguous ranges of near-equal
// length, none shorter than minChunk unless n itself is. It returns nil for
// n ≤ 0.
func Split(n, workers int) []Range {
	if n <= 0 {
		return nil
	}
	w := Workers(workers)
	if maxW := (n + minChunk - 1) / minChunk; w > maxW {
		w = maxW
	}

	out := make([]Range, w)
	size, rem := n/w, n%w
	lo := 0
	for i := 0; i < w; i++ {
		hi := lo + size
		if i < rem {
			hi++
		}
		out[i] = Range{Lo: lo, Hi: hi}
		lo = hi
	}

	return out
}

// Run executes fn once per range with at most `workers` goroutines. fn gets
// the chunk index so it can fill chunk-local output. Every chunk runs even
// when another fails, so the error reported (that of the lowest failing
// chunk) does not depend on scheduling. A cancelled ctx stops chunks that
// have not started yet and is reported as ctx.Err().
func Run(ctx context.Context, ranges []Range, workers int, fn func(ctx context.Context, chunk int, r Range) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if len(ranges) == 1 {
		return fn(ctx, 0, ranges[0])
	}

	errs := make([]error, len(ranges))
	var g errgroup.Group
	g.SetLimit(Workers(workers))
	for i := range ranges {
		i := i
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return nil
			}
			errs[i] = fn(ctx, i, ranges[i])

			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return err
	}
	for _, err := range errs {
		if err != nil {
			return err
		}
	}

	return nil
}

// ForChunks is Split followed by Run.
func ForChunks(ctx context.Context, n, workers int, fn func(ctx context.Context, chunk int, r Range) error) error {
	return Run(ctx, Split(n, workers), workers, fn)
}
