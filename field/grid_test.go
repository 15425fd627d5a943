package field

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFrequencySetValidate(t *testing.T) {
	assert.ErrorIs(t, FrequencySet{SpeedMps: 343}.Validate(), ErrNoFrequencies)
	assert.Error(t, NewFrequencySet(0, 1000).Validate())
	assert.Error(t, NewFrequencySet(343, -5).Validate())
	assert.NoError(t, NewFrequencySet(343, 1000, 2000).Validate())
}

func TestWavelength(t *testing.T) {
	f := NewFrequencySet(SpeedOfLight, 28e9, 3e9)
	assert.InDelta(t, 0.0107, f.Wavelength(0), 1e-4)
	assert.InDelta(t, 0.1, f.Wavelength(1), 1e-12)

	lambdas := f.Wavelengths()
	require.Len(t, lambdas, 2)
	assert.InDelta(t, f.Wavelength(1), lambdas[1], 1e-12)
}

func TestGridMesh(t *testing.T) {
	g := NewGrid(-1, 1, 0, 4, 5)
	require.Equal(t, 5, g.Nx)
	require.Equal(t, 5, g.Ny)

	// X varies along columns, Y along rows; endpoints included.
	assert.InDelta(t, -1, g.X[0][0], 1e-12)
	assert.InDelta(t, 1, g.X[0][4], 1e-12)
	assert.InDelta(t, g.X[0][2], g.X[4][2], 1e-12)
	assert.InDelta(t, 0, g.Y[0][0], 1e-12)
	assert.InDelta(t, 4, g.Y[4][0], 1e-12)
	assert.InDelta(t, g.Y[2][0], g.Y[2][4], 1e-12)
}

func TestCenteredAndForwardGrids(t *testing.T) {
	c := NewCenteredGrid(3, 7)
	assert.InDelta(t, -3, c.X[0][0], 1e-12)
	assert.InDelta(t, -3, c.Y[0][0], 1e-12)
	assert.InDelta(t, 3, c.Y[6][0], 1e-12)

	f := NewForwardGrid(3, 7)
	assert.InDelta(t, 0, f.Y[0][0], 1e-12)
	assert.InDelta(t, 6, f.Y[6][0], 1e-12)
}
