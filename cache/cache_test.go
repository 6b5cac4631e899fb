// SPDX-License-Identifier: MIT

package cache_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/unfold/builder"
	"github.com/katalvlaran/unfold/cache"
	"github.com/katalvlaran/unfold/manufacturing"
	"github.com/katalvlaran/unfold/unfold"
)

func squareResult(t *testing.T) (string, *unfold.Result) {
	t.Helper()
	m := builder.MustBuild(nil, builder.Square(1))
	res, err := unfold.Unfold(context.Background(), m)
	require.NoError(t, err)

	return cache.Key(m.ContentHash(), res.Method, manufacturing.DefaultThresholds()), res
}

func TestStore_PutGet(t *testing.T) {
	ctx := context.Background()
	s, err := cache.Open(cache.MemoryPath)
	require.NoError(t, err)
	defer s.Close()

	key, res := squareResult(t)
	_, ok, err := s.Get(ctx, key)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.Put(ctx, key, res))
	got, ok, err := s.Get(ctx, key)
	require.NoError(t, err)
	require.True(t, ok)

	assert.Equal(t, res.Method, got.Method)
	assert.Equal(t, res.Parameterization, got.Parameterization)
	assert.Equal(t, res.Report, got.Report)
	assert.Equal(t, res.Verdict, got.Verdict)
	assert.Nil(t, got.Stages)

	require.NoError(t, s.Put(ctx, key, res), "replace")
	n, err := s.Len(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestStore_PersistsAcrossOpen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "cache.db")
	key, res := squareResult(t)

	s, err := cache.Open(path)
	require.NoError(t, err)
	require.NoError(t, s.Put(ctx, key, res))
	require.NoError(t, s.Close())

	s, err = cache.Open(path)
	require.NoError(t, err)
	defer s.Close()
	got, ok, err := s.Get(ctx, key)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, res.Verdict, got.Verdict)
}

func TestStore_Purge(t *testing.T) {
	ctx := context.Background()
	s, err := cache.Open(cache.MemoryPath)
	require.NoError(t, err)
	defer s.Close()

	_, res := squareResult(t)
	for _, k := range []string{"a", "b", "c"} {
		require.NoError(t, s.Put(ctx, k, res))
	}

	n, err := s.Purge(ctx, time.Hour)
	require.NoError(t, err)
	assert.Zero(t, n)

	n, err = s.Purge(ctx, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)

	left, err := s.Len(ctx)
	require.NoError(t, err)
	assert.Zero(t, left)
}

func TestStore_Closed(t *testing.T) {
	s, err := cache.Open(cache.MemoryPath)
	require.NoError(t, err)
	require.NoError(t, s.Close())

	ctx := context.Background()
	_, _, err = s.Get(ctx, "k")
	assert.ErrorIs(t, err, cache.ErrClosed)
	assert.ErrorIs(t, s.Put(ctx, "k", &unfold.Result{}), cache.ErrClosed)
	_, err = s.Purge(ctx, 0)
	assert.ErrorIs(t, err, cache.ErrClosed)
	assert.ErrorIs(t, s.Close(), cache.ErrClosed)
}

func TestKey(t *testing.T) {
	th := manufacturing.DefaultThresholds()
	base := cache.Key("h", unfold.MethodLSCM, th)

	assert.Len(t, base, 64)
	assert.Equal(t, base, cache.Key("h", unfold.MethodLSCM, th))
	assert.NotEqual(t, base, cache.Key("g", unfold.MethodLSCM, th))
	assert.NotEqual(t, base, cache.Key("h", unfold.MethodHarmonic, th))
	th.CuttingTolerance = 0.5
	assert.NotEqual(t, base, cache.Key("h", unfold.MethodLSCM, th))
}
