// SPDX-License-Identifier: MIT
// Package: unfold/mesh
//
// document.go - YAML/JSON mesh documents and file helpers.

package mesh

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gonum.org/v1/gonum/spatial/r3"
	"gopkg.in/yaml.v3"
)

// Format selects the serialization of a mesh document.
type Format int

const (
	// FormatYAML is the default document format.
	FormatYAML Format = iota
	// FormatJSON writes compact JSON. Reading JSON goes through the YAML
	// decoder, which accepts it unchanged.
	FormatJSON
)

// FormatFromPath picks the format from the file extension (.json → JSON,
// anything else → YAML).
func FormatFromPath(path string) Format {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return FormatJSON
	}

	return FormatYAML
}

// Document is the on-disk form of a Mesh:
//
//	vertices:  [[x, y, z], ...]
//	triangles: [[a, b, c], ...]
//	normals:   [[x, y, z], ...]   # optional
type Document struct {
	Vertices  [][]float64 `yaml:"vertices" json:"vertices"`
	Triangles [][]int     `yaml:"triangles" json:"triangles"`
	Normals   [][]float64 `yaml:"normals,omitempty" json:"normals,omitempty"`
}

// Mesh converts d to a Mesh, rejecting rows that are not exactly three wide.
// The result is not validated further; call Validate or Analyze.
func (d *Document) Mesh() (*Mesh, error) {
	m := &Mesh{
		Vertices:  make([]r3.Vec, len(d.Vertices)),
		Triangles: make([]Triangle, len(d.Triangles)),
	}

	var i int
	for i = range d.Vertices {
		if len(d.Vertices[i]) != 3 {
			return nil, inputErr("vertices", i, "expected 3 coordinates, got %d", len(d.Vertices[i]))
		}
		m.Vertices[i] = r3.Vec{X: d.Vertices[i][0], Y: d.Vertices[i][1], Z: d.Vertices[i][2]}
	}
	for i = range d.Triangles {
		if len(d.Triangles[i]) != 3 {
			return nil, inputErr("triangles", i, "expected 3 indices, got %d", len(d.Triangles[i]))
		}
		m.Triangles[i] = Triangle{d.Triangles[i][0], d.Triangles[i][1], d.Triangles[i][2]}
	}
	if len(d.Normals) > 0 {
		m.Normals = make([]r3.Vec, len(d.Normals))
		for i = range d.Normals {
			if len(d.Normals[i]) != 3 {
				return nil, inputErr("normals", i, "expected 3 components, got %d", len(d.Normals[i]))
			}
			m.Normals[i] = r3.Vec{X: d.Normals[i][0], Y: d.Normals[i][1], Z: d.Normals[i][2]}
		}
	}

	return m, nil
}

// NewDocument converts m into its document form.
func NewDocument(m *Mesh) *Document {
	d := &Document{
		Vertices:  make([][]float64, len(m.Vertices)),
		Triangles: make([][]int, len(m.Triangles)),
	}
	for i, p := range m.Vertices {
		d.Vertices[i] = []float64{p.X, p.Y, p.Z}
	}
	for i, t := range m.Triangles {
		d.Triangles[i] = []int{t[0], t[1], t[2]}
	}
	if len(m.Normals) > 0 {
		d.Normals = make([][]float64, len(m.Normals))
		for i, n := range m.Normals {
			d.Normals[i] = []float64{n.X, n.Y, n.Z}
		}
	}

	return d
}

// Decode reads a YAML or JSON mesh document from r.
func Decode(r io.Reader) (*Mesh, error) {
	var d Document
	if err := yaml.NewDecoder(r).Decode(&d); err != nil {
		if err == io.EOF {
			return nil, inputErr("document", -1, "empty document")
		}

		return nil, fmt.Errorf("mesh: decode: %w", err)
	}

	return d.Mesh()
}

// Encode writes m to w in format f.
func Encode(w io.Writer, m *Mesh, f Format) error {
	d := NewDocument(m)
	switch f {
	case FormatJSON:
		if err := json.NewEncoder(w).Encode(d); err != nil {
			return fmt.Errorf("mesh: encode json: %w", err)
		}
	default:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(d); err != nil {
			return fmt.Errorf("mesh: encode yaml: %w", err)
		}
		if err := enc.Close(); err != nil {
			return fmt.Errorf("mesh: encode yaml: %w", err)
		}
	}

	return nil
}

// ReadFile decodes the mesh document at path.
func ReadFile(path string) (*Mesh, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("mesh: read %s: %w", path, err)
	}
	defer f.Close()

	m, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return m, nil
}

// WriteFile encodes m to path, choosing the format from the extension.
func WriteFile(path string, m *Mesh) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("mesh: write %s: %w", path, err)
	}
	if err = Encode(f, m, FormatFromPath(path)); err != nil {
		_ = f.Close()

		return err
	}

	return f.Close()
}
