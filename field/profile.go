package field

import (
	"math"
	"math/cmplx"

	"gonum.org/v1/gonum/floats"

	"github.com/wiless/beamform/array"
	"github.com/wiless/vlib"
)

// Angles returns count observation angles in radians, spread evenly
// over [-spanDeg/2, +spanDeg/2].
func Angles(count int, spanDeg float64) vlib.VectorF {
	half := array.Radian(spanDeg / 2)
	return linspace(-half, half, count)
}

// ComputeArrayFactor sums the far-field steering vector of every
// element of every array over the angle sweep (radians). Planar
// wavefront approximation: spatial phase k*(x*sin(theta)+y*cos(theta)).
func ComputeArrayFactor(arrays []*array.Settings, lambda float64, anglesRad vlib.VectorF) vlib.VectorC {
	k := 2 * math.Pi / lambda
	result := vlib.NewVectorC(len(anglesRad))

	for _, a := range arrays {
		positions := a.Positions()
		phases := a.Phases()
		amplitudes := a.Amplitudes()

		for ai, theta := range anglesRad {
			sin, cos := math.Sin(theta), math.Cos(theta)
			var sum complex128
			for i := range positions {
				spatial := k * (real(positions[i])*sin + imag(positions[i])*cos)
				sum += complex(amplitudes[i], 0) * cmplx.Exp(complex(0, spatial+phases[i]))
			}
			result[ai] += sum
		}
	}
	return result
}

// BeamProfile is the far-field radiation pattern over an angle sweep.
type BeamProfile struct {
	AnglesDeg   vlib.VectorF
	Magnitude   vlib.VectorF // |AF| normalized by its own maximum
	MagnitudeDb vlib.VectorF // 20*log10, floored at -60 dB
	Scaled      vlib.VectorF // 1 + dB/60: floor maps to 0, peak to 1
}

// NewBeamProfile derives the magnitude views from a raw array factor.
// The operation order is fixed: normalize, clip, log, floor, rescale.
func NewBeamProfile(anglesRad vlib.VectorF, af vlib.VectorC) *BeamProfile {
	n := len(anglesRad)
	p := &BeamProfile{
		AnglesDeg:   vlib.NewVectorF(n),
		Magnitude:   vlib.NewVectorF(n),
		MagnitudeDb: vlib.NewVectorF(n),
		Scaled:      vlib.NewVectorF(n),
	}
	for i, theta := range anglesRad {
		p.AnglesDeg[i] = theta * 180.0 / math.Pi
		p.Magnitude[i] = cmplx.Abs(af[i])
	}

	// Normalize; an all-zero factor stays at zeros.
	if peak := floats.Max(p.Magnitude); peak > 0 {
		floats.Scale(1.0/peak, p.Magnitude)
	}

	for i, m := range p.Magnitude {
		if m < 1e-10 {
			m = 1e-10
		} else if m > 1 {
			m = 1
		}
		db := 20 * math.Log10(m)
		if db < -60 {
			db = -60
		}
		p.MagnitudeDb[i] = db
		p.Scaled[i] = 1 + db/60
	}
	return p
}

// ComputeBeamProfile runs the array factor over a count-point sweep of
// spanDeg degrees and returns the derived profile.
func ComputeBeamProfile(arrays []*array.Settings, lambda float64, count int, spanDeg float64) *BeamProfile {
	angles := Angles(count, spanDeg)
	return NewBeamProfile(angles, ComputeArrayFactor(arrays, lambda, angles))
}
