// Package array implements the element geometry and per-element phase
// control of a phased array of radiating/receiving elements.
package array

import (
	"errors"
	"fmt"
	"math"
	"strings"

	log "github.com/sirupsen/logrus"
	"github.com/wiless/vlib"
)

// GeometryType selects the element layout of an array.
type GeometryType int

const (
	Linear GeometryType = iota
	Curved
	Circular
	Rectangular
)

var GeometryTypes = [...]string{
	"Linear",
	"Curved",
	"Circular",
	"Rectangular",
}

func (g GeometryType) String() string {
	if int(g) >= len(GeometryTypes) || g < 0 {
		return "Unknown-GeometryType"
	}
	return GeometryTypes[g]
}

// ParseGeometry matches a geometry name case-insensitively.
func ParseGeometry(str string) (GeometryType, error) {
	for i, name := range GeometryTypes {
		if strings.EqualFold(name, str) {
			return GeometryType(i), nil
		}
	}
	return Linear, fmt.Errorf("array: unknown geometry %q", str)
}

var (
	ErrElementCount   = errors.New("array: num_elements must be at least 1")
	ErrLengthMismatch = errors.New("array: vector length does not match element count")
)

// Settings holds the configuration of a single phased array together
// with its derived element table. Element positions, phases and
// amplitudes are recomputed wholesale by CreateElements; they are never
// patched in place.
type Settings struct {
	ID             string
	Geometry       GeometryType
	N              int
	Spacing        float64 // element spacing, in wavelengths by convention
	Curvature      float64 // arc radius for Curved geometry, same units as Spacing
	Centre         vlib.Location3D
	OrientationDeg float64

	positions  vlib.VectorC
	normals    vlib.VectorC
	phases     vlib.VectorF
	amplitudes vlib.VectorF
}

func (s *Settings) SetDefault() {
	s.Geometry = Linear
	s.N = 8
	s.Spacing = 0.5
	s.Curvature = 10.0
	s.Centre = vlib.Origin3D
	s.OrientationDeg = 0
}

// NewSettings returns a Settings with defaults applied and the element
// table created.
func NewSettings() *Settings {
	result := new(Settings)
	result.SetDefault()
	_ = result.CreateElements()
	return result
}

// CreateElements recomputes the element table from the current
// geometry parameters. Phases are reset to zero and amplitudes to one;
// any earlier steering or apodization is discarded.
func (s *Settings) CreateElements() error {
	if s.N < 1 {
		return ErrElementCount
	}

	var local, normals vlib.VectorC
	switch s.Geometry {
	case Curved:
		local, normals = dropCurvedElements(s.N, s.Spacing, s.Curvature)
	case Circular:
		local, normals = dropCircularElements(s.N, s.Spacing)
	case Rectangular:
		local, normals = dropRectangularElements(s.N, s.Spacing)
	default:
		local, normals = dropLinearElements(s.N, s.Spacing)
	}

	// Standard 2D rotation by OrientationDeg; GetEJtheta(d) is
	// exp(-jd), so negate for counter-clockwise rotation.
	rot := vlib.GetEJtheta(-s.OrientationDeg)
	centre := complex(s.Centre.X, s.Centre.Y)
	s.positions = vlib.NewVectorC(s.N)
	s.normals = vlib.NewVectorC(s.N)
	for i := 0; i < s.N; i++ {
		s.positions[i] = local[i]*rot + centre
		s.normals[i] = normals[i] * rot
	}
	s.phases = vlib.NewVectorF(s.N)
	s.amplitudes = ones(s.N)
	return nil
}

// dropLinearElements spaces N elements along the local x-axis, centred
// on the origin. Normals point along local +y.
func dropLinearElements(N int, spacing float64) (pos, normals vlib.VectorC) {
	pos = vlib.NewVectorC(N)
	normals = vlib.NewVectorC(N)
	for i := 0; i < N; i++ {
		x := (float64(i) - float64(N-1)/2.0) * spacing
		pos[i] = complex(x, 0)
		normals[i] = complex(0, 1)
	}
	return pos, normals
}

// dropCurvedElements places N elements on a circular arc of the given
// radius. Total arc length is (N-1)*spacing; a non-positive radius
// falls back to a 90 degree subtended angle.
func dropCurvedElements(N int, spacing, radius float64) (pos, normals vlib.VectorC) {
	pos = vlib.NewVectorC(N)
	normals = vlib.NewVectorC(N)

	totalAngle := math.Pi / 2
	if radius > 0 {
		arcLength := float64(N-1) * spacing
		totalAngle = arcLength / radius
	} else {
		log.Warnf("array: non-positive curvature radius %v, defaulting subtended angle to 90deg", radius)
	}

	for i := 0; i < N; i++ {
		theta := 0.0
		if N > 1 {
			theta = -totalAngle/2 + totalAngle*float64(i)/float64(N-1)
		}
		sin, cos := math.Sin(theta), math.Cos(theta)
		pos[i] = complex(radius*sin, radius*(1-cos))
		normals[i] = complex(sin, cos)
	}
	return pos, normals
}

// dropCircularElements spreads N elements over a full circle whose
// circumference equals N*spacing. Element 0 sits at angle 0; there is
// no endpoint duplication.
func dropCircularElements(N int, spacing float64) (pos, normals vlib.VectorC) {
	pos = vlib.NewVectorC(N)
	normals = vlib.NewVectorC(N)
	radius := spacing * float64(N) / (2 * math.Pi)
	for i := 0; i < N; i++ {
		angle := 2 * math.Pi * float64(i) / float64(N)
		sin, cos := math.Sin(angle), math.Cos(angle)
		pos[i] = complex(radius*cos, radius*sin)
		normals[i] = complex(cos, sin)
	}
	return pos, normals
}

// dropRectangularElements arranges N elements on the smallest
// square-ish grid (rows = floor(sqrt(N))), truncated to exactly N.
func dropRectangularElements(N int, spacing float64) (pos, normals vlib.VectorC) {
	pos = vlib.NewVectorC(N)
	normals = vlib.NewVectorC(N)
	rows := int(math.Sqrt(float64(N)))
	cols := int(math.Ceil(float64(N) / float64(rows)))

	idx := 0
	for i := 0; i < rows && idx < N; i++ {
		for j := 0; j < cols && idx < N; j++ {
			x := (float64(j) - float64(cols-1)/2.0) * spacing
			y := (float64(i) - float64(rows-1)/2.0) * spacing
			pos[idx] = complex(x, y)
			normals[idx] = complex(0, 1)
			idx++
		}
	}
	return pos, normals
}

func ones(N int) vlib.VectorF {
	result := vlib.NewVectorF(N)
	for i := range result {
		result[i] = 1.0
	}
	return result
}

func (s *Settings) ensureElements() {
	if len(s.positions) != s.N {
		_ = s.CreateElements()
	}
}

// Positions returns a copy of the element positions as x+jy.
func (s *Settings) Positions() vlib.VectorC {
	s.ensureElements()
	result := vlib.NewVectorC(s.N)
	copy(result, s.positions)
	return result
}

// Normals returns a copy of the element unit normals as x+jy.
func (s *Settings) Normals() vlib.VectorC {
	s.ensureElements()
	result := vlib.NewVectorC(s.N)
	copy(result, s.normals)
	return result
}

// Phases returns a copy of the per-element phase offsets in radians.
func (s *Settings) Phases() vlib.VectorF {
	s.ensureElements()
	result := vlib.NewVectorF(s.N)
	copy(result, s.phases)
	return result
}

// Amplitudes returns a copy of the per-element amplitude weights.
func (s *Settings) Amplitudes() vlib.VectorF {
	s.ensureElements()
	result := vlib.NewVectorF(s.N)
	copy(result, s.amplitudes)
	return result
}
