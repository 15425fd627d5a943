package field

import (
	"fmt"
	"math"
	"math/cmplx"
	"runtime"
	"strings"
	"sync"

	log "github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/floats"

	"github.com/wiless/beamform/array"
	"github.com/wiless/vlib"
)

// FieldModel selects the superposition formula used per element.
type FieldModel int

const (
	// Physical accumulates A*exp(j(kr+phi))/sqrt(r), a cylindrical
	// wave with 1/sqrt(r) decay.
	Physical FieldModel = iota
	// Heuristic accumulates sin(2*pi*f + phi + 2*pi*f*r), a
	// qualitative constructive/destructive visualization with no
	// physical amplitude decay.
	Heuristic
)

var FieldModels = [...]string{
	"Physical",
	"Heuristic",
}

func (m FieldModel) String() string {
	if int(m) >= len(FieldModels) || m < 0 {
		return "Unknown-FieldModel"
	}
	return FieldModels[m]
}

// ParseFieldModel matches a model name case-insensitively.
func ParseFieldModel(str string) (FieldModel, error) {
	for i, name := range FieldModels {
		if strings.EqualFold(name, str) {
			return FieldModel(i), nil
		}
	}
	return Physical, fmt.Errorf("field: unknown field model %q", str)
}

// Synthesizer superposes the wave contribution of every element of
// every array over a Grid. A Synthesizer is a pure function of its
// inputs: ComputeField snapshots the element tables and returns a
// freshly allocated result.
type Synthesizer struct {
	Freqs   FrequencySet
	Model   FieldModel
	Workers int // goroutines for the row loop; <=0 means NumCPU
}

func NewSynthesizer(freqs FrequencySet) Synthesizer {
	return Synthesizer{Freqs: freqs, Model: Physical}
}

// element is the flattened per-element snapshot the workers read.
type element struct {
	x, y  float64
	phase float64
	amp   float64
}

// ComputeField returns the complex field over the grid, summed across
// elements, arrays and frequencies and divided by the frequency count
// so the amplitude scale does not depend on how many frequencies are
// superposed.
func (sy Synthesizer) ComputeField(arrays []*array.Settings, g *Grid) (*FieldResult, error) {
	if err := sy.Freqs.Validate(); err != nil {
		return nil, err
	}
	if g.Nx < 1 || g.Ny < 1 {
		return nil, ErrGridResolution
	}

	elements := snapshotElements(arrays)
	raw := make([][]complex128, g.Ny)
	for i := range raw {
		raw[i] = make([]complex128, g.Nx)
	}
	result := &FieldResult{Grid: g, Model: sy.Model, raw: raw}
	if len(elements) == 0 {
		return result, nil
	}

	workers := sy.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > g.Ny {
		workers = g.Ny
	}

	// Each worker owns a contiguous block of rows, so the
	// accumulation needs no locking; rows are independent.
	var wg sync.WaitGroup
	rowsPerWorker := (g.Ny + workers - 1) / workers
	for w := 0; w < workers; w++ {
		r0 := w * rowsPerWorker
		r1 := r0 + rowsPerWorker
		if r1 > g.Ny {
			r1 = g.Ny
		}
		if r0 >= r1 {
			break
		}
		wg.Add(1)
		go func(r0, r1 int) {
			defer wg.Done()
			sy.accumulateRows(elements, g, raw, r0, r1)
		}(r0, r1)
	}
	wg.Wait()

	log.WithFields(log.Fields{
		"model":    sy.Model.String(),
		"elements": len(elements),
		"grid":     fmt.Sprintf("%dx%d", g.Ny, g.Nx),
	}).Debug("field: computed interference field")
	return result, nil
}

func snapshotElements(arrays []*array.Settings) []element {
	var result []element
	for _, a := range arrays {
		positions := a.Positions()
		phases := a.Phases()
		amplitudes := a.Amplitudes()
		for i := range positions {
			result = append(result, element{
				x:     real(positions[i]),
				y:     imag(positions[i]),
				phase: phases[i],
				amp:   amplitudes[i],
			})
		}
	}
	return result
}

func (sy Synthesizer) accumulateRows(elements []element, g *Grid, raw [][]complex128, r0, r1 int) {
	nfreq := float64(len(sy.Freqs.FreqHz))
	for fi := range sy.Freqs.FreqHz {
		freq := sy.Freqs.FreqHz[fi]
		lambda := sy.Freqs.Wavelength(fi)
		k := 2 * math.Pi / lambda
		rfloor := lambda / 100.0

		for row := r0; row < r1; row++ {
			for col := 0; col < g.Nx; col++ {
				x, y := g.X[row][col], g.Y[row][col]
				var sum complex128
				for _, el := range elements {
					dx := x - el.x
					dy := y - el.y
					r := math.Sqrt(dx*dx + dy*dy)
					if sy.Model == Heuristic {
						sum += complex(math.Sin(2*math.Pi*freq+el.phase+2*math.Pi*freq*r), 0)
						continue
					}
					if r < rfloor {
						r = rfloor
					}
					sum += complex(el.amp/math.Sqrt(r), 0) * cmplx.Exp(complex(0, k*r+el.phase))
				}
				raw[row][col] += sum / complex(nfreq, 0)
			}
		}
	}
}

// FieldResult is the raw complex field over a Grid. All scalar views
// are derived on demand; nothing is discarded before the dB scaling.
type FieldResult struct {
	Grid  *Grid
	Model FieldModel
	raw   [][]complex128
}

func (r *FieldResult) At(row, col int) complex128 {
	return r.raw[row][col]
}

// Magnitude returns |field| per grid point.
func (r *FieldResult) Magnitude() vlib.MatrixF {
	return r.view(func(v complex128) float64 { return cmplx.Abs(v) })
}

// Intensity returns |field|^2 per grid point.
func (r *FieldResult) Intensity() vlib.MatrixF {
	return r.view(func(v complex128) float64 {
		a := cmplx.Abs(v)
		return a * a
	})
}

// Phase returns arg(field) per grid point, radians.
func (r *FieldResult) Phase() vlib.MatrixF {
	return r.view(cmplx.Phase)
}

// IntensityDb returns the display scaling of the intensity: normalized
// by its own maximum, converted with 10*log10(.+1e-10) and clipped to
// [-40, 0] dB. Reproducible exactly from the raw field.
func (r *FieldResult) IntensityDb() vlib.MatrixF {
	intensity := r.Intensity()
	peak := matrixMax(intensity)

	result := vlib.NewMatrixF(r.Grid.Ny, r.Grid.Nx)
	for i := range intensity {
		for j := range intensity[i] {
			db := 10 * math.Log10(intensity[i][j]/(peak+1e-10)+1e-10)
			if db < -40 {
				db = -40
			} else if db > 0 {
				db = 0
			}
			result[i][j] = db
		}
	}
	return result
}

// Interference returns the model-appropriate normalized map: intensity
// normalized by its maximum for Physical, min-max scaled amplitude for
// Heuristic. An all-constant field stays at zeros rather than dividing
// by zero.
func (r *FieldResult) Interference() vlib.MatrixF {
	if r.Model == Heuristic {
		amp := r.view(func(v complex128) float64 { return real(v) })
		lo, hi := matrixMin(amp), matrixMax(amp)
		result := vlib.NewMatrixF(r.Grid.Ny, r.Grid.Nx)
		if hi == lo {
			return result
		}
		for i := range amp {
			for j := range amp[i] {
				result[i][j] = (amp[i][j] - lo) / (hi - lo)
			}
		}
		return result
	}

	intensity := r.Intensity()
	peak := matrixMax(intensity)
	result := vlib.NewMatrixF(r.Grid.Ny, r.Grid.Nx)
	if peak == 0 {
		return result
	}
	for i := range intensity {
		for j := range intensity[i] {
			result[i][j] = intensity[i][j] / peak
		}
	}
	return result
}

func (r *FieldResult) view(fn func(complex128) float64) vlib.MatrixF {
	result := vlib.NewMatrixF(r.Grid.Ny, r.Grid.Nx)
	for i := range r.raw {
		for j := range r.raw[i] {
			result[i][j] = fn(r.raw[i][j])
		}
	}
	return result
}

func matrixMax(m vlib.MatrixF) float64 {
	result := math.Inf(-1)
	for i := range m {
		result = math.Max(result, floats.Max(m[i]))
	}
	return result
}

func matrixMin(m vlib.MatrixF) float64 {
	result := math.Inf(1)
	for i := range m {
		result = math.Min(result, floats.Min(m[i]))
	}
	return result
}
