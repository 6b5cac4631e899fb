// SPDX-License-Identifier: MIT

// Package manufacturing turns a distortion report and a UV layout into a
// cut/no-cut verdict and a recommended material size.
//
// Validate is a pure function: no logging, no I/O, no state.
package manufacturing

import (
	"errors"
	"fmt"
	"math"

	"github.com/jbeda/geom"

	"github.com/katalvlaran/unfold/distortion"
	"github.com/katalvlaran/unfold/mesh"
)

// ErrInvalidThresholds indicates a negative, zero or non-finite threshold
// where a positive one is required. It matches mesh.ErrInvalidInput too.
var ErrInvalidThresholds = fmt.Errorf("manufacturing: invalid thresholds: %w", mesh.ErrInvalidInput)

// Default limits.
const (
	DefaultMaxAngleDistortionDeg = 15.0
	DefaultMaxAreaDistortion     = 2.0
)

// sizeSlack absorbs float noise before rounding up, so 2.0 at increment 0.1
// stays 2.0 instead of becoming 2.1.
const sizeSlack = 1e-9

// Thresholds are the caller's fabrication limits. Material dimensions of 0
// mean unbounded material; CuttingTolerance and SizeIncrement of 0 leave the
// bounding box exact.
type Thresholds struct {
	MaxAngleDistortionDeg float64 `json:"max_angle_distortion_deg" yaml:"max_angle_distortion_deg"`
	MaxAreaDistortion     float64 `json:"max_area_distortion" yaml:"max_area_distortion"`
	MaterialWidth         float64 `json:"material_width" yaml:"material_width"`
	MaterialHeight        float64 `json:"material_height" yaml:"material_height"`
	CuttingTolerance      float64 `json:"cutting_tolerance" yaml:"cutting_tolerance"`
	SizeIncrement         float64 `json:"size_increment" yaml:"size_increment"`
}

// DefaultThresholds returns 15° / 2.0 with unbounded material.
func DefaultThresholds() Thresholds {
	return Thresholds{
		MaxAngleDistortionDeg: DefaultMaxAngleDistortionDeg,
		MaxAreaDistortion:     DefaultMaxAreaDistortion,
	}
}

// Check reports the first nonsensical field.
func (t Thresholds) Check() error {
	positive := []struct {
		name string
		v    float64
	}{
		{"max_angle_distortion_deg", t.MaxAngleDistortionDeg},
		{"max_area_distortion", t.MaxAreaDistortion},
	}
	for _, f := range positive {
		if !(f.v > 0) || math.IsInf(f.v, 0) {
			return fmt.Errorf("%w: %s must be finite and > 0, got %g", ErrInvalidThresholds, f.name, f.v)
		}
	}
	nonNegative := []struct {
		name string
		v    float64
	}{
		{"material_width", t.MaterialWidth},
		{"material_height", t.MaterialHeight},
		{"cutting_tolerance", t.CuttingTolerance},
		{"size_increment", t.SizeIncrement},
	}
	for _, f := range nonNegative {
		if !(f.v >= 0) || math.IsInf(f.v, 0) {
			return fmt.Errorf("%w: %s must be finite and ≥ 0, got %g", ErrInvalidThresholds, f.name, f.v)
		}
	}

	return nil
}

// Verdict is the terminal output of the pipeline.
type Verdict struct {
	Acceptable         bool      `json:"acceptable" yaml:"acceptable"`
	MaxAngleDistortion float64   `json:"max_angle_distortion_deg" yaml:"max_angle_distortion_deg"`
	MaxAreaDistortion  float64   `json:"max_area_distortion" yaml:"max_area_distortion"`
	Bounds             geom.Rect `json:"bounds" yaml:"bounds"` // exact UV bounding box
	MaterialWidth      float64   `json:"material_width" yaml:"material_width"`
	MaterialHeight     float64   `json:"material_height" yaml:"material_height"`
	FitsMaterial       bool      `json:"fits_material" yaml:"fits_material"`
	Reasons            []string  `json:"reasons,omitempty" yaml:"reasons,omitempty"`
}

// Validate applies th to rep and sizes the material for uv.
//
// Acceptable is maxAngle ≤ th.MaxAngleDistortionDeg AND
// maxArea ≤ th.MaxAreaDistortion. The recommended size is the UV bounding box
// grown by CuttingTolerance on every side, then rounded up to a multiple of
// SizeIncrement. FitsMaterial is informational and never flips Acceptable.
func Validate(rep *distortion.Report, uv []geom.Coord, th Thresholds) (*Verdict, error) {
	if rep == nil {
		return nil, errors.New("manufacturing: nil report")
	}
	if err := th.Check(); err != nil {
		return nil, err
	}

	v := &Verdict{
		MaxAngleDistortion: rep.Angle.Max,
		MaxAreaDistortion:  rep.Area.Max,
	}
	angleOK := v.MaxAngleDistortion <= th.MaxAngleDistortionDeg
	areaOK := v.MaxAreaDistortion <= th.MaxAreaDistortion
	v.Acceptable = angleOK && areaOK
	if !angleOK {
		v.Reasons = append(v.Reasons, fmt.Sprintf("max angle distortion %.4g° exceeds %.4g°",
			v.MaxAngleDistortion, th.MaxAngleDistortionDeg))
	}
	if !areaOK {
		v.Reasons = append(v.Reasons, fmt.Sprintf("max area distortion %.4g exceeds %.4g",
			v.MaxAreaDistortion, th.MaxAreaDistortion))
	}

	v.Bounds = Bounds(uv)
	v.MaterialWidth = roundUp(v.Bounds.Width()+2*th.CuttingTolerance, th.SizeIncrement)
	v.MaterialHeight = roundUp(v.Bounds.Height()+2*th.CuttingTolerance, th.SizeIncrement)
	v.FitsMaterial = fits(v.MaterialWidth, v.MaterialHeight, th.MaterialWidth, th.MaterialHeight)
	if !v.FitsMaterial {
		v.Reasons = append(v.Reasons, fmt.Sprintf("pattern needs %.4g×%.4g, material is %.4g×%.4g",
			v.MaterialWidth, v.MaterialHeight, th.MaterialWidth, th.MaterialHeight))
	}

	return v, nil
}

// Bounds returns the axis-aligned bounding box of uv; the zero Rect when uv
// is empty.
func Bounds(uv []geom.Coord) geom.Rect {
	if len(uv) == 0 {
		return geom.Rect{}
	}
	r := geom.Rect{Min: uv[0], Max: uv[0]}
	for _, p := range uv[1:] {
		r.ExpandToContainCoord(p)
	}

	return r
}

func roundUp(x, inc float64) float64 {
	if inc <= 0 {
		return x
	}

	return math.Ceil(x/inc-sizeSlack) * inc
}

// fits reports whether a w×h pattern fits on mw×mh material in either
// orientation. Zero material dimensions are unbounded.
func fits(w, h, mw, mh float64) bool {
	within := func(a, limit float64) bool { return limit == 0 || a <= limit }

	return (within(w, mw) && within(h, mh)) || (within(h, mw) && within(w, mh))
}
