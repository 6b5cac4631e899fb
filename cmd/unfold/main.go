// SPDX-License-Identifier: MIT

// Command unfold flattens triangle meshes into cut patterns.
//
//	unfold run part.yaml --out part.uv.json
//	unfold generate hemisphere --size 10 --out dome.yaml
//	unfold batch 'parts/**/*.yaml' --jobs 4
//	unfold watch part.yaml
//
// Settings come from defaults, then unfold.yaml (or --config), then flags.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/katalvlaran/unfold/internal/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCmd().ExecuteContext(ctx)
	stop()
	logger.Sync()
	if err != nil {
		fmt.Fprintln(os.Stderr, "unfold:", err)
		os.Exit(1)
	}
}
