// Package field computes interference fields over spatial grids and
// far-field array factors for sets of phased arrays.
package field

import (
	"errors"
	"fmt"

	"github.com/wiless/vlib"
)

// Common propagation speeds, m/s.
const (
	SpeedOfLight       = 3.0e8
	SpeedOfSoundAir    = 343.0
	SpeedOfSoundTissue = 1500.0
)

var ErrNoFrequencies = errors.New("field: frequency set is empty")

// FrequencySet is one or more operating frequencies plus the
// propagation speed of the medium. Wavelengths are always derived,
// never stored.
type FrequencySet struct {
	FreqHz   vlib.VectorF
	SpeedMps float64
}

func NewFrequencySet(speedMps float64, freqHz ...float64) FrequencySet {
	return FrequencySet{FreqHz: vlib.VectorF(freqHz), SpeedMps: speedMps}
}

func (f FrequencySet) Validate() error {
	if len(f.FreqHz) == 0 {
		return ErrNoFrequencies
	}
	if f.SpeedMps <= 0 {
		return fmt.Errorf("field: non-positive propagation speed %v", f.SpeedMps)
	}
	for _, freq := range f.FreqHz {
		if freq <= 0 {
			return fmt.Errorf("field: non-positive frequency %v", freq)
		}
	}
	return nil
}

// Wavelength returns speed/frequency for the i-th frequency.
func (f FrequencySet) Wavelength(i int) float64 {
	return f.SpeedMps / f.FreqHz[i]
}

func (f FrequencySet) Wavelengths() vlib.VectorF {
	result := vlib.NewVectorF(len(f.FreqHz))
	for i := range f.FreqHz {
		result[i] = f.Wavelength(i)
	}
	return result
}
