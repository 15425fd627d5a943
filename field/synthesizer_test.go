package field

import (
	"math"
	"math/cmplx"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wiless/beamform/array"
)

func linearArray(t *testing.T, n int) *array.Settings {
	t.Helper()
	a := array.NewSettings()
	a.N = n
	a.Spacing = 0.5
	require.NoError(t, a.CreateElements())
	return a
}

func TestComputeFieldEmptyFrequencies(t *testing.T) {
	sy := Synthesizer{}
	_, err := sy.ComputeField(nil, NewCenteredGrid(1, 3))
	assert.ErrorIs(t, err, ErrNoFrequencies)
}

func TestComputeFieldRejectsDegenerateGrid(t *testing.T) {
	a := linearArray(t, 8)
	sy := NewSynthesizer(NewFrequencySet(343, 1000))
	_, err := sy.ComputeField([]*array.Settings{a}, NewGrid(-1, 1, -1, 1, 0))
	assert.ErrorIs(t, err, ErrGridResolution)
}

func TestComputeFieldNoArrays(t *testing.T) {
	sy := NewSynthesizer(NewFrequencySet(343, 1000))
	result, err := sy.ComputeField(nil, NewCenteredGrid(1, 3))
	require.NoError(t, err)
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			assert.Equal(t, complex(0, 0), result.At(i, j))
		}
	}
}

func TestFocusPeaksAtFocalPoint(t *testing.T) {
	a := linearArray(t, 8)
	freq, speed := 343.0, 343.0 // lambda = 1
	a.SetFocus(0, 2, freq, speed)

	sy := NewSynthesizer(NewFrequencySet(speed, freq))
	// Keep the grid off the array line so no sample sits on an element.
	g := NewGrid(-2, 2, 1, 3, 41)
	result, err := sy.ComputeField([]*array.Settings{a}, g)
	require.NoError(t, err)

	intensity := result.Intensity()
	peak, prow, pcol := -1.0, 0, 0
	for i := range intensity {
		for j := range intensity[i] {
			if intensity[i][j] > peak {
				peak, prow, pcol = intensity[i][j], i, j
			}
		}
	}
	px, py := g.X[prow][pcol], g.Y[prow][pcol]
	dist := math.Hypot(px-0, py-2)
	assert.LessOrEqual(t, dist, 0.3, "peak at (%v,%v), expected near focus (0,2)", px, py)
}

func TestFrequencyCountInvariantScale(t *testing.T) {
	a := linearArray(t, 4)
	g := NewCenteredGrid(2, 11)

	one := NewSynthesizer(NewFrequencySet(343, 1000))
	two := NewSynthesizer(NewFrequencySet(343, 1000, 1000))

	r1, err := one.ComputeField([]*array.Settings{a}, g)
	require.NoError(t, err)
	r2, err := two.ComputeField([]*array.Settings{a}, g)
	require.NoError(t, err)

	// Duplicating a frequency must not change the field: the sum is
	// divided by the frequency count.
	for i := 0; i < g.Ny; i++ {
		for j := 0; j < g.Nx; j++ {
			assert.InDelta(t, cmplx.Abs(r1.At(i, j)), cmplx.Abs(r2.At(i, j)), 1e-9)
		}
	}
}

func TestFieldFiniteOnElementPosition(t *testing.T) {
	a := array.NewSettings()
	a.N = 1
	require.NoError(t, a.CreateElements()) // single element at the origin

	sy := NewSynthesizer(NewFrequencySet(343, 1000))
	g := NewCenteredGrid(1, 3) // includes (0,0) exactly
	result, err := sy.ComputeField([]*array.Settings{a}, g)
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			v := result.At(i, j)
			assert.False(t, math.IsNaN(real(v)) || math.IsInf(real(v), 0))
			assert.False(t, math.IsNaN(imag(v)) || math.IsInf(imag(v), 0))
		}
	}
}

func TestHeuristicDiffersFromPhysical(t *testing.T) {
	a := linearArray(t, 4)
	g := NewCenteredGrid(2, 11)
	freqs := NewFrequencySet(343, 1000)

	phys, err := Synthesizer{Freqs: freqs, Model: Physical}.ComputeField([]*array.Settings{a}, g)
	require.NoError(t, err)
	heur, err := Synthesizer{Freqs: freqs, Model: Heuristic}.ComputeField([]*array.Settings{a}, g)
	require.NoError(t, err)

	// Heuristic is purely real, Physical is not.
	assert.Zero(t, imag(heur.At(5, 5)))
	differs := false
	for i := 0; i < g.Ny && !differs; i++ {
		for j := 0; j < g.Nx; j++ {
			if cmplx.Abs(phys.At(i, j)-heur.At(i, j)) > 1e-9 {
				differs = true
				break
			}
		}
	}
	assert.True(t, differs)
}

func TestWorkerCountDoesNotChangeResult(t *testing.T) {
	a := linearArray(t, 8)
	g := NewCenteredGrid(3, 17)
	freqs := NewFrequencySet(343, 500, 1000)

	serial, err := Synthesizer{Freqs: freqs, Workers: 1}.ComputeField([]*array.Settings{a}, g)
	require.NoError(t, err)
	parallel, err := Synthesizer{Freqs: freqs, Workers: 7}.ComputeField([]*array.Settings{a}, g)
	require.NoError(t, err)

	for i := 0; i < g.Ny; i++ {
		for j := 0; j < g.Nx; j++ {
			assert.InDelta(t, real(serial.At(i, j)), real(parallel.At(i, j)), 1e-12)
			assert.InDelta(t, imag(serial.At(i, j)), imag(parallel.At(i, j)), 1e-12)
		}
	}
}

func TestIntensityDbRange(t *testing.T) {
	a := linearArray(t, 8)
	sy := NewSynthesizer(NewFrequencySet(343, 1000))
	g := NewCenteredGrid(2, 21)
	result, err := sy.ComputeField([]*array.Settings{a}, g)
	require.NoError(t, err)

	db := result.IntensityDb()
	peak := math.Inf(-1)
	for i := range db {
		for j := range db[i] {
			assert.GreaterOrEqual(t, db[i][j], -40.0)
			assert.LessOrEqual(t, db[i][j], 0.0)
			peak = math.Max(peak, db[i][j])
		}
	}
	assert.InDelta(t, 0, peak, 1e-6)
}

func TestHeuristicInterferenceMinMax(t *testing.T) {
	a := linearArray(t, 4)
	sy := Synthesizer{Freqs: NewFrequencySet(343, 1000), Model: Heuristic}
	g := NewCenteredGrid(2, 21)
	result, err := sy.ComputeField([]*array.Settings{a}, g)
	require.NoError(t, err)

	m := result.Interference()
	lo, hi := math.Inf(1), math.Inf(-1)
	for i := range m {
		for j := range m[i] {
			lo = math.Min(lo, m[i][j])
			hi = math.Max(hi, m[i][j])
		}
	}
	assert.InDelta(t, 0, lo, 1e-12)
	assert.InDelta(t, 1, hi, 1e-12)
}

func TestHeuristicProgressiveFormula(t *testing.T) {
	a := linearArray(t, 4)
	delta := 0.3
	a.SetProgressivePhase(delta)

	freq := 2.0
	sy := Synthesizer{Freqs: NewFrequencySet(343, freq), Model: Heuristic}
	g := NewGrid(0.7, 0.7, 1.3, 1.3, 1) // single observation point
	result, err := sy.ComputeField([]*array.Settings{a}, g)
	require.NoError(t, err)

	// sum_i sin(2*pi*f + i*delta + 2*pi*f*r_i), term for term.
	var want float64
	for i, p := range a.Positions() {
		r := math.Hypot(0.7-real(p), 1.3-imag(p))
		want += math.Sin(2*math.Pi*freq + float64(i)*delta + 2*math.Pi*freq*r)
	}
	assert.InDelta(t, want, real(result.At(0, 0)), 1e-12)
}

func TestParseFieldModel(t *testing.T) {
	m, err := ParseFieldModel("heuristic")
	require.NoError(t, err)
	assert.Equal(t, Heuristic, m)
	_, err = ParseFieldModel("quantum")
	assert.Error(t, err)
}
