// Package scenario stores named beamforming presets as JSON files and
// validates them before use.
package scenario

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	log "github.com/sirupsen/logrus"
	"github.com/wiless/vlib"

	"github.com/wiless/beamform"
	"github.com/wiless/beamform/array"
	"github.com/wiless/beamform/field"
)

var ErrNotFound = errors.New("scenario: not found")

// Scenario is one stored preset. The field set mirrors the external
// configuration record of a single-array simulation.
type Scenario struct {
	Name             string  `json:"name"`
	Description      string  `json:"description"`
	NumElements      int     `json:"num_elements"`
	FrequencyHz      float64 `json:"frequency"`
	ArrayType        string  `json:"array_type"`
	BeamAngleDeg     float64 `json:"beam_angle"`
	ElementSpacing   float64 `json:"element_spacing"`
	PropagationSpeed float64 `json:"propagation_speed"`
	Mode             string  `json:"mode"` // transmitter | receiver
	// CurvatureRadius 0 means unset; the geometry default applies.
	CurvatureRadius float64 `json:"curvature_radius,omitempty"`
	GridRange       float64 `json:"grid_range,omitempty"`
	Application     string  `json:"application,omitempty"`
}

// Validate checks the ranges the store accepts: 2..256 elements,
// positive frequency, a known geometry, and positive curvature for
// curved arrays.
func (sc Scenario) Validate() error {
	if sc.Name == "" {
		return errors.New("scenario: missing name")
	}
	if sc.NumElements < 2 || sc.NumElements > 256 {
		return fmt.Errorf("scenario: num_elements must be between 2 and 256, got %d", sc.NumElements)
	}
	if sc.FrequencyHz <= 0 {
		return fmt.Errorf("scenario: frequency must be positive, got %v", sc.FrequencyHz)
	}
	geometry, err := array.ParseGeometry(sc.ArrayType)
	if err != nil {
		return err
	}
	if geometry == array.Curved && sc.CurvatureRadius < 0 {
		return fmt.Errorf("scenario: curvature_radius must be positive when set for curved arrays, got %v", sc.CurvatureRadius)
	}
	return nil
}

// Session materializes a ready simulation session from the preset:
// geometry created, beam steered, and receiver-mode Blackman tapering
// applied.
func (sc Scenario) Session() (*beamform.Session, error) {
	if err := sc.Validate(); err != nil {
		return nil, err
	}

	speed := sc.PropagationSpeed
	if speed <= 0 {
		speed = field.SpeedOfLight
	}

	// ElementSpacing is stored in wavelengths; the session computes in
	// physical units, so scale by the actual wavelength here.
	lambda := speed / sc.FrequencyHz
	a := array.NewSettings()
	a.Geometry, _ = array.ParseGeometry(sc.ArrayType)
	a.N = sc.NumElements
	a.Spacing = lambda / 2
	if sc.ElementSpacing > 0 {
		a.Spacing = sc.ElementSpacing * lambda
	}
	if sc.CurvatureRadius > 0 {
		a.Curvature = sc.CurvatureRadius
	}
	if err := a.CreateElements(); err != nil {
		return nil, err
	}

	session := beamform.NewSession()
	session.Freqs = field.NewFrequencySet(speed, sc.FrequencyHz)
	session.AddArray(a)
	if sc.BeamAngleDeg != 0 {
		if err := session.SteerAll(sc.BeamAngleDeg); err != nil {
			return nil, err
		}
	}
	if strings.EqualFold(sc.Mode, "receiver") {
		if err := a.SetAmplitudes(array.BlackmanWindow(a.N)); err != nil {
			return nil, err
		}
	}
	return session, nil
}

// Summary is the listing view of a stored scenario.
type Summary struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Manager reads and writes scenarios under a single directory, one
// JSON file per preset.
type Manager struct {
	Dir string
}

// NewManager creates the directory if needed and seeds the built-in
// presets that are not already present.
func NewManager(dir string) (*Manager, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("scenario: creating store dir: %w", err)
	}
	m := &Manager{Dir: dir}
	for _, sc := range Defaults() {
		if _, err := os.Stat(m.path(sc.Name)); err == nil {
			continue
		}
		if err := m.Save(sc); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// Slug converts a scenario name to its file stem.
func Slug(name string) string {
	return strings.ReplaceAll(strings.ToLower(name), " ", "_")
}

func (m *Manager) path(name string) string {
	return filepath.Join(m.Dir, Slug(name)+".json")
}

// Save validates and writes the scenario, overwriting any preset of
// the same name.
func (m *Manager) Save(sc Scenario) error {
	if err := sc.Validate(); err != nil {
		return err
	}
	vlib.SaveStructure(sc, m.path(sc.Name), true)
	log.WithField("name", sc.Name).Info("scenario: saved")
	return nil
}

// Load reads a scenario by name. A missing preset is ErrNotFound, not
// a failure.
func (m *Manager) Load(name string) (Scenario, error) {
	var sc Scenario
	path := m.path(name)
	if _, err := os.Stat(path); err != nil {
		return sc, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	vlib.LoadStructure(path, &sc)
	// Save only writes validated records, so an empty name means the
	// file did not decode.
	if sc.Name == "" {
		return Scenario{}, fmt.Errorf("scenario: unreadable preset file %s", path)
	}
	return sc, nil
}

// Delete removes a stored scenario and reports whether it existed.
func (m *Manager) Delete(name string) bool {
	err := os.Remove(m.path(name))
	return err == nil
}

// List returns a summary for every readable preset in the store.
func (m *Manager) List() []Summary {
	entries, err := os.ReadDir(m.Dir)
	if err != nil {
		log.WithError(err).Error("scenario: listing store dir")
		return nil
	}
	var result []Summary
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		stem := strings.TrimSuffix(entry.Name(), ".json")
		var sc Scenario
		vlib.LoadStructure(filepath.Join(m.Dir, entry.Name()), &sc)
		if sc.Name == "" {
			log.WithField("file", entry.Name()).Warn("scenario: skipping unreadable preset file")
			continue
		}
		desc := sc.Description
		if desc == "" {
			desc = sc.Application
		}
		result = append(result, Summary{ID: stem, Name: sc.Name, Description: desc})
	}
	return result
}

// Defaults are the built-in presets seeded into a fresh store.
func Defaults() []Scenario {
	return []Scenario{
		{
			Name:             "5G Beamforming",
			Description:      "5G millimeter wave beamforming for wireless communications",
			NumElements:      64,
			FrequencyHz:      28e9,
			ArrayType:        "Linear",
			ElementSpacing:   0.5,
			PropagationSpeed: field.SpeedOfLight,
			Mode:             "transmitter",
			GridRange:        3,
			Application:      "5G wireless communications, high-frequency directional transmission",
		},
		{
			Name:             "Ultrasound Imaging",
			Description:      "Medical ultrasound imaging with curved transducer array",
			NumElements:      128,
			FrequencyHz:      5e6,
			ArrayType:        "Curved",
			ElementSpacing:   0.5,
			PropagationSpeed: field.SpeedOfSoundTissue,
			Mode:             "transmitter",
			GridRange:        1.5,
			Application:      "Medical imaging, non-invasive tissue visualization",
		},
		{
			Name:             "Tumor Ablation",
			Description:      "Focused ultrasound for tumor ablation therapy",
			NumElements:      32,
			FrequencyHz:      1e6,
			ArrayType:        "Curved",
			ElementSpacing:   0.5,
			PropagationSpeed: field.SpeedOfSoundTissue,
			Mode:             "transmitter",
			CurvatureRadius:  4.0,
			GridRange:        5,
			Application:      "Therapeutic ultrasound, non-invasive tumor treatment",
		},
		{
			Name:             "Receiver Mode 5G",
			Description:      "5G receiver array for direction of arrival estimation",
			NumElements:      16,
			FrequencyHz:      10e9,
			ArrayType:        "Linear",
			ElementSpacing:   0.5,
			PropagationSpeed: field.SpeedOfLight,
			Mode:             "receiver",
			GridRange:        7,
			Application:      "5G signal reception, direction of arrival estimation",
		},
	}
}
