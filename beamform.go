// Package beamform composes phased arrays into a simulation session
// and exposes the combined interference-field and beam-profile
// computations.
package beamform

import (
	"errors"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"github.com/wiless/vlib"

	"github.com/wiless/beamform/array"
	"github.com/wiless/beamform/field"
)

var ErrSteeringCount = errors.New("beamform: steering angle count does not match array count")

// GenericStruct is a free-form configuration record as decoded from
// JSON request bodies.
type GenericStruct map[string]interface{}

// Session owns the arrays and frequency set of one simulation. It is a
// plain value object: compute calls are pure, and concurrent writers
// on the same Session must be serialized by the caller.
type Session struct {
	Freqs field.FrequencySet
	Model field.FieldModel

	arrays []*array.Settings
}

// NewSession returns a session with a single 1 kHz tone in air and the
// physical field model.
func NewSession() *Session {
	result := new(Session)
	result.Freqs = field.NewFrequencySet(field.SpeedOfSoundAir, 1000.0)
	result.Model = field.Physical
	return result
}

// AddArray adds an array to the session and returns its id, assigning
// a fresh one when the array carries none.
func (s *Session) AddArray(a *array.Settings) string {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	s.arrays = append(s.arrays, a)
	log.WithFields(log.Fields{
		"id":       a.ID,
		"geometry": a.Geometry.String(),
		"N":        a.N,
	}).Info("beamform: array added")
	return a.ID
}

// AddArrayConfig decodes an external configuration record and adds the
// resulting array.
func (s *Session) AddArrayConfig(record GenericStruct) (string, error) {
	a, err := array.DecodeConfig(record)
	if err != nil {
		return "", err
	}
	return s.AddArray(a), nil
}

// Array returns the array with the given id, or nil.
func (s *Session) Array(id string) *array.Settings {
	for _, a := range s.arrays {
		if a.ID == id {
			return a
		}
	}
	return nil
}

// Arrays returns the session's arrays. The slice is a copy; the
// Settings are shared.
func (s *Session) Arrays() []*array.Settings {
	result := make([]*array.Settings, len(s.arrays))
	copy(result, s.arrays)
	return result
}

func (s *Session) NumArrays() int {
	return len(s.arrays)
}

// RemoveArray drops the array with the given id and reports whether it
// was present.
func (s *Session) RemoveArray(id string) bool {
	for i, a := range s.arrays {
		if a.ID == id {
			s.arrays = append(s.arrays[:i], s.arrays[i+1:]...)
			log.WithField("id", id).Info("beamform: array removed")
			return true
		}
	}
	return false
}

// ClearArrays removes every array from the session.
func (s *Session) ClearArrays() {
	s.arrays = nil
}

// SteerAll points every array at the same angle, using the first
// frequency's wavelength.
func (s *Session) SteerAll(angleDeg float64) error {
	if err := s.Freqs.Validate(); err != nil {
		return err
	}
	lambda := s.Freqs.Wavelength(0)
	for _, a := range s.arrays {
		a.SetSteering(angleDeg, lambda)
	}
	return nil
}

// FocusAll focuses every array on the same point, using the first
// frequency.
func (s *Session) FocusAll(fx, fy float64) error {
	if err := s.Freqs.Validate(); err != nil {
		return err
	}
	for _, a := range s.arrays {
		a.SetFocus(fx, fy, s.Freqs.FreqHz[0], s.Freqs.SpeedMps)
	}
	return nil
}

// ElementPositions returns the positions of every element of every
// array, flattened in array order.
func (s *Session) ElementPositions() vlib.VectorC {
	var result vlib.VectorC
	for _, a := range s.arrays {
		result = append(result, a.Positions()...)
	}
	return result
}
