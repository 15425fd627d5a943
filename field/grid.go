package field

import (
	"errors"

	"github.com/wiless/vlib"
)

var ErrGridResolution = errors.New("field: grid resolution must be at least 1")

// Grid is a rectangular sampling of the spatial domain. X and Y hold
// the coordinate of every sample point, meshgrid style: X[row][col]
// varies along columns, Y[row][col] along rows. A Grid is immutable
// once created; parameter changes call for a fresh Grid.
type Grid struct {
	X, Y vlib.MatrixF
	Nx   int
	Ny   int
}

// NewGrid samples [xmin,xmax] x [ymin,ymax] with resolution points per
// axis, endpoints included.
func NewGrid(xmin, xmax, ymin, ymax float64, resolution int) *Grid {
	g := &Grid{Nx: resolution, Ny: resolution}
	x := linspace(xmin, xmax, resolution)
	y := linspace(ymin, ymax, resolution)

	g.X = vlib.NewMatrixF(resolution, resolution)
	g.Y = vlib.NewMatrixF(resolution, resolution)
	for i := 0; i < resolution; i++ {
		for j := 0; j < resolution; j++ {
			g.X[i][j] = x[j]
			g.Y[i][j] = y[i]
		}
	}
	return g
}

// NewCenteredGrid covers [-gridRange, gridRange] on both axes.
func NewCenteredGrid(gridRange float64, resolution int) *Grid {
	return NewGrid(-gridRange, gridRange, -gridRange, gridRange, resolution)
}

// NewForwardGrid covers x in [-gridRange, gridRange], y in
// [0, 2*gridRange]; the half-plane in front of an array placed on the
// x-axis.
func NewForwardGrid(gridRange float64, resolution int) *Grid {
	return NewGrid(-gridRange, gridRange, 0, 2*gridRange, resolution)
}

func linspace(start, stop float64, n int) vlib.VectorF {
	result := vlib.NewVectorF(n)
	if n == 1 {
		result[0] = start
		return result
	}
	step := (stop - start) / float64(n-1)
	for i := 0; i < n; i++ {
		result[i] = start + float64(i)*step
	}
	return result
}
