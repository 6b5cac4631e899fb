// SPDX-License-Identifier: MIT

package unfold

import (
	"context"
	"errors"
	"fmt"

	"github.com/katalvlaran/unfold/geometry"
	"github.com/katalvlaran/unfold/mesh"
	"github.com/katalvlaran/unfold/sparse"
)

// Sentinel errors. Every failure of Unfold matches exactly one of them
// through errors.Is; the typed carriers (*mesh.InputError,
// *mesh.TopologyError, *geometry.DegenerateError, *sparse.SolveError) stay
// reachable through errors.As.
var (
	// ErrInvalidInput marks malformed caller data, including bad pins,
	// thresholds and options.
	ErrInvalidInput = mesh.ErrInvalidInput

	// ErrInvalidTopology marks a non-manifold edge, a bow-tie vertex or
	// inconsistent winding.
	ErrInvalidTopology = mesh.ErrInvalidTopology

	// ErrUnsupportedTopology marks a closed surface, several boundary loops or
	// several components.
	ErrUnsupportedTopology = mesh.ErrUnsupportedTopology

	// ErrDegenerateGeometry marks a triangle with (near) zero area.
	ErrDegenerateGeometry = geometry.ErrDegenerateGeometry

	// ErrSolveFailure marks a singular system, non-convergence or an
	// excessive residual.
	ErrSolveFailure = sparse.ErrSolveFailure

	// ErrTimeout marks a context deadline that expired mid-pipeline. It is
	// always wrapped together with context.DeadlineExceeded.
	ErrTimeout = errors.New("unfold: timeout")

	// ErrUnsupportedMethod marks a known method name without an
	// implementation.
	ErrUnsupportedMethod = errors.New("unfold: unsupported method")
)

// stageError tags err with the pipeline stage it came from. When err is the
// context's own error, expiry becomes ErrTimeout and cancellation passes
// through as ctx.Err(). A stage failure that merely coincides with expiry
// keeps its own error.
func stageError(ctx context.Context, stage string, err error) error {
	if cerr := ctx.Err(); cerr != nil && errors.Is(err, cerr) {
		if errors.Is(cerr, context.DeadlineExceeded) {
			return fmt.Errorf("%w during %s: %w", ErrTimeout, stage, cerr)
		}

		return fmt.Errorf("unfold: %s: %w", stage, cerr)
	}

	return fmt.Errorf("unfold: %s: %w", stage, err)
}
