// SPDX-License-Identifier: MIT

package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/katalvlaran/unfold/mesh"
	"github.com/katalvlaran/unfold/unfold"
)

// syncBuffer lets the watch test read output while the command writes it.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestMain(m *testing.M) {
	xdg, err := os.MkdirTemp("", "unfold-xdg")
	if err != nil {
		panic(err)
	}
	os.Setenv("XDG_CONFIG_HOME", xdg)
	code := m.Run()
	os.RemoveAll(xdg)
	os.Exit(code)
}

// execute runs the CLI with quiet logging.
func execute(t *testing.T, ctx context.Context, out io.Writer, args ...string) error {
	cmd := newRootCmd()
	cmd.SetOut(out)
	cmd.SetErr(io.Discard)
	cmd.SetArgs(append([]string{"--log-level", "error"}, args...))

	return cmd.ExecuteContext(ctx)
}

func mustRun(t *testing.T, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	require.NoError(t, execute(t, context.Background(), &out, args...))
	return out.String()
}

func generate(t *testing.T, dir, kind string, size int) string {
	t.Helper()
	path := filepath.Join(dir, kind+".yaml")
	mustRun(t, "generate", kind, "--size", strconv.Itoa(size), "--out", path)
	return path
}

func TestGenerate(t *testing.T) {
	dir := t.TempDir()
	out := mustRun(t, "generate", "grid", "--size", "3", "--out", filepath.Join(dir, "g.json"))
	assert.Contains(t, out, "16 vertices, 18 triangles")

	m, err := mesh.ReadFile(filepath.Join(dir, "g.json"))
	require.NoError(t, err)
	assert.Equal(t, 16, m.VertexCount())
	assert.Len(t, m.Normals, 16)

	stdout := mustRun(t, "generate", "octahedron")
	m, err = mesh.Decode(strings.NewReader(stdout))
	require.NoError(t, err)
	assert.Equal(t, 8, m.TriangleCount())

	var buf bytes.Buffer
	assert.Error(t, execute(t, context.Background(), &buf, "generate", "teapot"))
	assert.Error(t, execute(t, context.Background(), &buf, "generate", "grid", "--jitter", "0.5"))
}

func TestRun_JSON(t *testing.T) {
	path := generate(t, t.TempDir(), "grid", 4)

	var res unfold.Result
	require.NoError(t, json.Unmarshal([]byte(mustRun(t, "run", path)), &res))
	assert.Equal(t, unfold.MethodLSCM, res.Method)
	assert.True(t, res.Verdict.Acceptable)
	assert.InDelta(t, 1.0, res.Report.Quality, 1e-9)
	assert.Len(t, res.Parameterization.UV, 25)
	assert.Empty(t, res.Report.Triangles)

	require.NoError(t, json.Unmarshal([]byte(mustRun(t, "run", path, "--triangles")), &res))
	assert.Len(t, res.Report.Triangles, 32)
}

func TestRun_YAMLToFile(t *testing.T) {
	dir := t.TempDir()
	path := generate(t, dir, "hemisphere", 6)
	out := filepath.Join(dir, "dome.uv.yaml")
	mustRun(t, "run", path, "--out", out, "--solver", "cg", "--workers", "2")

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	var doc map[string]any
	require.NoError(t, yaml.Unmarshal(data, &doc))
	assert.Equal(t, "lscm", doc["method"])
	assert.Contains(t, doc, "verdict")
}

func TestRun_FlagsOverrideConfig(t *testing.T) {
	dir := t.TempDir()
	path := generate(t, dir, "hemisphere", 6)
	cfg := filepath.Join(dir, "unfold.yaml")
	require.NoError(t, os.WriteFile(cfg, []byte("thresholds:\n  max_angle_distortion_deg: 0.001\n"), 0o644))

	var res unfold.Result
	require.NoError(t, json.Unmarshal([]byte(mustRun(t, "--config", cfg, "run", path)), &res))
	assert.False(t, res.Verdict.Acceptable)
	assert.NotEmpty(t, res.Verdict.Reasons)

	require.NoError(t, json.Unmarshal([]byte(mustRun(t, "--config", cfg, "--max-angle", "90", "--max-area", "100", "run", path)), &res))
	assert.True(t, res.Verdict.Acceptable)
}

func TestRun_Errors(t *testing.T) {
	dir := t.TempDir()
	closed := generate(t, dir, "octahedron", 1)
	grid := generate(t, dir, "grid", 2)
	var buf bytes.Buffer
	ctx := context.Background()

	assert.ErrorIs(t, execute(t, ctx, &buf, "run", closed), unfold.ErrUnsupportedTopology)
	assert.ErrorIs(t, execute(t, ctx, &buf, "run", filepath.Join(dir, "missing.yaml")), os.ErrNotExist)
	assert.Error(t, execute(t, ctx, &buf, "run", grid, "--format", "xml"))
	assert.Error(t, execute(t, ctx, &buf, "run", grid, "--method", "origami"))
	assert.ErrorIs(t, execute(t, ctx, &buf, "run", grid, "--method", "angle_based"), unfold.ErrUnsupportedMethod)
	assert.Error(t, execute(t, ctx, &buf, "run"))
}

func TestBatch(t *testing.T) {
	dir := t.TempDir()
	sub := filepath.Join(dir, "parts", "nested")
	require.NoError(t, os.MkdirAll(sub, 0o755))
	generate(t, filepath.Join(dir, "parts"), "grid", 3)
	generate(t, sub, "disk", 4)
	generate(t, sub, "octahedron", 1)

	var out bytes.Buffer
	err := execute(t, context.Background(), &out, "batch", filepath.Join(dir, "parts", "**", "*.yaml"), "--jobs", "2")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 of 3")

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[0], "grid.yaml")
	assert.Contains(t, lines[0], "OK")
	assert.Contains(t, lines[1], "disk.yaml")
	assert.Contains(t, lines[1], "OK")
	assert.Contains(t, lines[2], "octahedron.yaml")
	assert.Contains(t, lines[2], "ERROR")

	out.Reset()
	assert.Error(t, execute(t, context.Background(), &out, "batch", filepath.Join(dir, "*.obj")))
}

func TestBatch_Cache(t *testing.T) {
	dir := t.TempDir()
	generate(t, dir, "grid", 3)
	db := filepath.Join(dir, "cache.db")
	args := []string{"--cache", "--cache-path", db, "batch", filepath.Join(dir, "*.yaml")}

	first := mustRun(t, args...)
	assert.NotContains(t, first, "(cached)")
	second := mustRun(t, args...)
	assert.Contains(t, second, "(cached)")

	third := mustRun(t, append([]string{"--no-normalize"}, args...)...)
	assert.NotContains(t, third, "(cached)", "different settings miss the cache")
}

func TestWatch(t *testing.T) {
	dir := t.TempDir()
	path := generate(t, dir, "grid", 2)
	grid, err := mesh.ReadFile(path)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	out := &syncBuffer{}
	done := make(chan error, 1)
	go func() {
		done <- execute(t, ctx, out, "watch", path, "--debounce", "20ms")
	}()

	require.Eventually(t, func() bool {
		return strings.Count(out.String(), "OK") == 1
	}, 10*time.Second, 10*time.Millisecond, "initial run")

	// Let the watcher settle, then rewrite the file in a burst.
	time.Sleep(100 * time.Millisecond)
	for i := 0; i < 3; i++ {
		require.NoError(t, mesh.WriteFile(path, grid))
	}
	require.Eventually(t, func() bool {
		return strings.Count(out.String(), "OK") >= 2
	}, 10*time.Second, 10*time.Millisecond, "re-run after write")

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watch did not stop")
	}
	assert.Contains(t, out.String(), filepath.Base(path))
}
