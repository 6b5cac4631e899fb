// SPDX-License-Identifier: MIT

package parallel

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplit(t *testing.T) {
	assert.Nil(t, Split(0, 4))
	assert.Equal(t, []Range{{0, 10}}, Split(10, 8), "small inputs stay in one chunk")

	rs := Split(1000, 3)
	require.Len(t, rs, 3)
	assert.Equal(t, Range{0, 334}, rs[0])
	assert.Equal(t, Range{334, 667}, rs[1])
	assert.Equal(t, Range{667, 1000}, rs[2])

	total := 0
	for i, r := range Split(12345, 7) {
		if i > 0 {
			assert.Equal(t, total, r.Lo)
		}
		total += r.Len()
	}
	assert.Equal(t, 12345, total)
}

func TestForChunks_VisitsEveryIndexOnce(t *testing.T) {
	const n = 5000
	hits := make([]int32, n)
	err := ForChunks(context.Background(), n, 8, func(_ context.Context, _ int, r Range) error {
		for i := r.Lo; i < r.Hi; i++ {
			atomic.AddInt32(&hits[i], 1)
		}

		return nil
	})
	require.NoError(t, err)
	for i, h := range hits {
		require.EqualValues(t, 1, h, "index %d", i)
	}
}

func TestRun_LowestChunkErrorWins(t *testing.T) {
	rs := Split(1000, 4)
	for trial := 0; trial < 20; trial++ {
		err := Run(context.Background(), rs, 4, func(_ context.Context, chunk int, _ Range) error {
			if chunk >= 1 {
				return fmt.Errorf("chunk %d", chunk)
			}

			return nil
		})
		require.EqualError(t, err, "chunk 1")
	}
}

func TestRun_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	called := false
	err := ForChunks(ctx, 10, 1, func(context.Context, int, Range) error {
		called = true

		return nil
	})
	assert.True(t, errors.Is(err, context.Canceled))
	assert.False(t, called)
}

func TestWorkers(t *testing.T) {
	assert.Equal(t, 3, Workers(3))
	assert.Positive(t, Workers(0))
}
