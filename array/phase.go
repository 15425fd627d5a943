package array

import (
	"math"
	"math/cmplx"

	"github.com/wiless/vlib"
)

// Radian converts degrees to radians.
func Radian(degree float64) float64 {
	return degree * math.Pi / 180.0
}

// SetSteering assigns the progressive phase ramp that points the main
// lobe at angleDeg (0 = broadside, positive angles toward +x).
//
// Sign convention: phase_i = -k*d_i*sin(theta), with d_i the element
// offset from the array centre. The negative ramp is used for every
// geometry; tests pin this.
//
// lambda must be in the same length units as Spacing and the element
// positions; with Spacing expressed in wavelengths pass lambda=1. The
// ramp then matches the spatial phase a far-field observer at angleDeg
// sees, so the contributions add coherently.
func (s *Settings) SetSteering(angleDeg, lambda float64) {
	s.ensureElements()
	k := 2 * math.Pi / lambda
	theta := Radian(angleDeg)
	sin, cos := math.Sin(theta), math.Cos(theta)

	phases := vlib.NewVectorF(s.N)
	if s.Geometry == Linear {
		for i := 0; i < s.N; i++ {
			d := (float64(i) - float64(s.N-1)/2.0) * s.Spacing
			phases[i] = -k * d * sin
		}
	} else {
		// Project positions on the steering unit vector and remove
		// the mean so the phase is zero at the array centroid.
		proj := vlib.NewVectorF(s.N)
		for i := 0; i < s.N; i++ {
			proj[i] = real(s.positions[i])*sin + imag(s.positions[i])*cos
		}
		mean := vlib.Sum(proj) / float64(s.N)
		for i := 0; i < s.N; i++ {
			phases[i] = -k * (proj[i] - mean)
		}
	}
	s.phases = phases
}

// SetFocus assigns per-element delays so that every wavefront arrives
// at (fx, fy) simultaneously. The farthest element gets zero delay and
// all delays are non-negative.
func (s *Settings) SetFocus(fx, fy, freqHz, speedMps float64) {
	s.ensureElements()
	focus := complex(fx, fy)

	distances := vlib.NewVectorF(s.N)
	for i := 0; i < s.N; i++ {
		distances[i] = cmplx.Abs(s.positions[i] - focus)
	}
	maxDist := vlib.Max(distances)

	phases := vlib.NewVectorF(s.N)
	for i := 0; i < s.N; i++ {
		delay := (maxDist - distances[i]) / speedMps
		phases[i] = 2 * math.Pi * freqHz * delay
	}
	s.phases = phases
}

// SetProgressivePhase applies the uniform ramp phase_i = i*delta.
func (s *Settings) SetProgressivePhase(delta float64) {
	s.ensureElements()
	phases := vlib.NewVectorF(s.N)
	for i := 0; i < s.N; i++ {
		phases[i] = float64(i) * delta
	}
	s.phases = phases
}

// SetPhases replaces all element phase offsets (radians).
func (s *Settings) SetPhases(phases vlib.VectorF) error {
	s.ensureElements()
	if len(phases) != s.N {
		return ErrLengthMismatch
	}
	result := vlib.NewVectorF(s.N)
	copy(result, phases)
	s.phases = result
	return nil
}

// SetAmplitudes replaces all element amplitude weights, e.g. for
// apodization windows.
func (s *Settings) SetAmplitudes(amplitudes vlib.VectorF) error {
	s.ensureElements()
	if len(amplitudes) != s.N {
		return ErrLengthMismatch
	}
	result := vlib.NewVectorF(s.N)
	copy(result, amplitudes)
	s.amplitudes = result
	return nil
}

// BlackmanWindow returns an N-point Blackman taper normalized to unit
// sum, as used for receiver-mode apodization.
func BlackmanWindow(N int) vlib.VectorF {
	result := vlib.NewVectorF(N)
	if N == 1 {
		result[0] = 1.0
		return result
	}
	for i := 0; i < N; i++ {
		x := float64(i) / float64(N-1)
		result[i] = 0.42 - 0.5*math.Cos(2*math.Pi*x) + 0.08*math.Cos(4*math.Pi*x)
	}
	total := vlib.Sum(result)
	for i := range result {
		result[i] /= total
	}
	return result
}
