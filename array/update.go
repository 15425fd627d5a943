package array

import (
	"fmt"
	"strings"

	ms "github.com/mitchellh/mapstructure"
	log "github.com/sirupsen/logrus"
	"github.com/wiless/vlib"
)

// Update is a tagged reconfiguration request. Each variant replaces the
// derived state it touches wholesale; partial updates are not
// representable.
type Update interface {
	apply(s *Settings) error
}

// Apply executes one update on the array. Geometry updates atomically
// rebuild the element table; phase and amplitude updates replace the
// respective vectors.
func (s *Settings) Apply(u Update) error {
	return u.apply(s)
}

// GeometryUpdate replaces the full geometry configuration and rebuilds
// the element table.
type GeometryUpdate struct {
	Geometry       GeometryType
	N              int
	Spacing        float64
	Curvature      float64
	Centre         vlib.Location3D
	OrientationDeg float64
}

func (u GeometryUpdate) apply(s *Settings) error {
	prev := *s
	s.Geometry = u.Geometry
	s.N = u.N
	s.Spacing = u.Spacing
	s.Curvature = u.Curvature
	s.Centre = u.Centre
	s.OrientationDeg = u.OrientationDeg
	if err := s.CreateElements(); err != nil {
		*s = prev
		return err
	}
	return nil
}

// SteeringUpdate points the main lobe at AngleDeg.
type SteeringUpdate struct {
	AngleDeg float64
	Lambda   float64
}

func (u SteeringUpdate) apply(s *Settings) error {
	s.SetSteering(u.AngleDeg, u.Lambda)
	return nil
}

// FocusUpdate focuses all elements on a point.
type FocusUpdate struct {
	X, Y     float64
	FreqHz   float64
	SpeedMps float64
}

func (u FocusUpdate) apply(s *Settings) error {
	s.SetFocus(u.X, u.Y, u.FreqHz, u.SpeedMps)
	return nil
}

// PhaseUpdate replaces the per-element phase offsets.
type PhaseUpdate struct {
	Phases vlib.VectorF
}

func (u PhaseUpdate) apply(s *Settings) error {
	return s.SetPhases(u.Phases)
}

// AmplitudeUpdate replaces the per-element amplitude weights.
type AmplitudeUpdate struct {
	Amplitudes vlib.VectorF
}

func (u AmplitudeUpdate) apply(s *Settings) error {
	return s.SetAmplitudes(u.Amplitudes)
}

// Config is the external configuration record for one array, as
// produced by callers from JSON bodies or stored scenarios.
type Config struct {
	ID          string    `mapstructure:"array_id"`
	Geometry    string    `mapstructure:"geometry"`
	NumElements int       `mapstructure:"num_elements"`
	Spacing     float64   `mapstructure:"spacing"`
	Curvature   float64   `mapstructure:"curvature"`
	Position    []float64 `mapstructure:"position"`
	Orientation float64   `mapstructure:"orientation"`

	// steering | focus | custom; empty leaves all phases at zero.
	PhaseMode   string    `mapstructure:"phase_mode"`
	SteerAngle  float64   `mapstructure:"steering_angle"`
	WavelengthM float64   `mapstructure:"wavelength"`
	Focus       []float64 `mapstructure:"focus"`
	FreqHz      float64   `mapstructure:"frequency"`
	SpeedMps    float64   `mapstructure:"propagation_speed"`
	Phases      []float64 `mapstructure:"phases"`
	Amplitudes  []float64 `mapstructure:"amplitudes"`
}

// DecodeConfig builds a Settings from a generic configuration record,
// merging absent fields with the defaults.
func DecodeConfig(record map[string]interface{}) (*Settings, error) {
	cfg := Config{
		Geometry:    "linear",
		NumElements: 8,
		Spacing:     0.5,
		Curvature:   10.0,
		SpeedMps:    3.0e8,
	}
	// JSON numbers arrive as float64; decode weakly so integer fields
	// still fill in.
	dec, err := ms.NewDecoder(&ms.DecoderConfig{Result: &cfg, WeaklyTypedInput: true})
	if err != nil {
		return nil, fmt.Errorf("array: building config decoder: %w", err)
	}
	if err := dec.Decode(record); err != nil {
		return nil, fmt.Errorf("array: decoding config record: %w", err)
	}
	return cfg.Settings()
}

// Settings validates the record and materializes the array.
func (cfg Config) Settings() (*Settings, error) {
	geometry, err := ParseGeometry(cfg.Geometry)
	if err != nil {
		return nil, err
	}

	s := new(Settings)
	s.SetDefault()
	s.ID = cfg.ID
	s.Geometry = geometry
	s.N = cfg.NumElements
	s.Spacing = cfg.Spacing
	s.Curvature = cfg.Curvature
	s.OrientationDeg = cfg.Orientation
	if len(cfg.Position) >= 2 {
		s.Centre.SetXY(cfg.Position[0], cfg.Position[1])
	}
	if err := s.CreateElements(); err != nil {
		return nil, err
	}

	switch strings.ToLower(cfg.PhaseMode) {
	case "", "none":
		// leave zero phases
	case "steering":
		lambda := cfg.WavelengthM
		if lambda == 0 && cfg.FreqHz > 0 {
			lambda = cfg.SpeedMps / cfg.FreqHz
		}
		if lambda == 0 {
			lambda = 1.0
		}
		s.SetSteering(cfg.SteerAngle, lambda)
	case "focus":
		if len(cfg.Focus) < 2 {
			return nil, fmt.Errorf("array: phase_mode focus needs a 2-point focus, got %v", cfg.Focus)
		}
		if cfg.FreqHz <= 0 {
			return nil, fmt.Errorf("array: phase_mode focus needs a positive frequency, got %v", cfg.FreqHz)
		}
		s.SetFocus(cfg.Focus[0], cfg.Focus[1], cfg.FreqHz, cfg.SpeedMps)
	case "custom":
		if err := s.SetPhases(vlib.VectorF(cfg.Phases)); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("array: unknown phase_mode %q", cfg.PhaseMode)
	}

	if len(cfg.Amplitudes) > 0 {
		if err := s.SetAmplitudes(vlib.VectorF(cfg.Amplitudes)); err != nil {
			return nil, err
		}
	}

	log.WithFields(log.Fields{"geometry": s.Geometry.String(), "N": s.N}).
		Debug("array: decoded configuration record")
	return s, nil
}
