// SPDX-License-Identifier: MIT
// Package: unfold/builder
//
// variants.go - single triangles, rigid placement and name lookup.

package builder

import (
	"fmt"
	"sort"
	"strings"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/katalvlaran/unfold/mesh"
)

// Triangle returns a Constructor for the single triangle (a, b, c).
// Collinear corners are accepted here; geometry evaluation rejects them.
func Triangle(a, b, c r3.Vec) Constructor {
	return func(m *mesh.Mesh, _ builderConfig) error {
		i := m.AddVertex(a)
		m.AddVertex(b)
		m.AddVertex(c)
		m.AddTriangle(i, i+1, i+2)

		return nil
	}
}

// Translated runs inner and then moves the vertices it added by offset.
// Combined with other constructors it yields disconnected components.
func Translated(offset r3.Vec, inner Constructor) Constructor {
	return func(m *mesh.Mesh, cfg builderConfig) error {
		if inner == nil {
			return fmt.Errorf("Translated: nil constructor: %w", ErrConstructFailed)
		}
		base := len(m.Vertices)
		if err := inner(m, cfg); err != nil {
			return err
		}
		for i := base; i < len(m.Vertices); i++ {
			m.Vertices[i] = r3.Add(m.Vertices[i], offset)
		}

		return nil
	}
}

// Fixture sizes used by ByName, keyed by kind. Size scales resolution.
var kinds = map[string]func(size int) Constructor{
	"grid":       func(n int) Constructor { return Grid(n, n, 1, 1) },
	"hemisphere": func(n int) Constructor { return Hemisphere(n, 2*n, 1) },
	"octahedron": func(int) Constructor { return Octahedron(1) },
	"fan":        func(n int) Constructor { return Fan(n) },
	"annulus":    func(n int) Constructor { return Annulus(2*n, 0.5, 1) },
	"disk":       func(n int) Constructor { return Disk(2*n, 1) },
}

// ByName returns the fixture constructor for kind (case-insensitive) at the
// given resolution. Known kinds are listed by Kinds.
func ByName(kind string, size int) (Constructor, error) {
	mk, ok := kinds[strings.ToLower(kind)]
	if !ok {
		return nil, fmt.Errorf("ByName: %q (known: %s): %w", kind, strings.Join(Kinds(), ", "), ErrUnknownKind)
	}

	return mk(size), nil
}

// Kinds lists the names accepted by ByName, sorted.
func Kinds() []string {
	out := make([]string, 0, len(kinds))
	for k := range kinds {
		out = append(out, k)
	}
	sort.Strings(out)

	return out
}
