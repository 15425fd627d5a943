package beamform

import (
	"github.com/wiless/beamform/field"
)

// InterferenceMap computes the combined complex field of all arrays
// over the grid, using the session's field model and frequency set.
func (s *Session) InterferenceMap(g *field.Grid) (*field.FieldResult, error) {
	synth := field.Synthesizer{Freqs: s.Freqs, Model: s.Model}
	return synth.ComputeField(s.arrays, g)
}

// Profile computes the combined far-field beam profile over a
// count-point sweep spanning spanDeg degrees, with the element phases
// as currently configured.
func (s *Session) Profile(count int, spanDeg float64) (*field.BeamProfile, error) {
	if err := s.Freqs.Validate(); err != nil {
		return nil, err
	}
	lambda := s.Freqs.Wavelength(0)
	return field.ComputeBeamProfile(s.arrays, lambda, count, spanDeg), nil
}

// SteeredProfile steers each array at its own angle before computing
// the combined profile. The angle list must match the array count
// exactly.
func (s *Session) SteeredProfile(count int, spanDeg float64, anglesDeg []float64) (*field.BeamProfile, error) {
	if len(anglesDeg) != len(s.arrays) {
		return nil, ErrSteeringCount
	}
	if err := s.Freqs.Validate(); err != nil {
		return nil, err
	}
	lambda := s.Freqs.Wavelength(0)
	for i, a := range s.arrays {
		a.SetSteering(anglesDeg[i], lambda)
	}
	return field.ComputeBeamProfile(s.arrays, lambda, count, spanDeg), nil
}
