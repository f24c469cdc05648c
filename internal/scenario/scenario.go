// Package scenario parses YAML observation scripts for simulated attendance
// runs, replacing the camera with a timed sequence of sightings.
package scenario

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/kozaktomas/face-attendance/internal/store"
	"gopkg.in/yaml.v3"
)

// Duration wraps time.Duration with YAML string parsing ("500ms", "2s").
type Duration time.Duration

// UnmarshalYAML parses a Go duration string.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	if parsed < 0 {
		return fmt.Errorf("negative duration %q", s)
	}
	*d = Duration(parsed)
	return nil
}

// Std returns the wrapped time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// Student is a roster entry seeded before the run.
type Student struct {
	ID   string `yaml:"id"`
	Name string `yaml:"name"`
}

// Step is one simulated sighting. Recognized defaults to true.
type Step struct {
	Wait       Duration `yaml:"wait"`
	Person     string   `yaml:"person"`
	Recognized *bool    `yaml:"recognized"`
}

// IsRecognized reports the recognized flag with its default applied.
func (s Step) IsRecognized() bool {
	return s.Recognized == nil || *s.Recognized
}

// Scenario is a scripted attendance run.
type Scenario struct {
	Name     string    `yaml:"name"`
	Students []Student `yaml:"students"`
	Steps    []Step    `yaml:"steps"`
}

// Parse decodes and validates a scenario document.
func Parse(data []byte) (*Scenario, error) {
	var sc Scenario
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return nil, fmt.Errorf("parsing scenario: %w", err)
	}
	if err := sc.validate(); err != nil {
		return nil, err
	}
	return &sc, nil
}

// Load reads and parses a scenario file.
func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading scenario file: %w", err)
	}
	return Parse(data)
}

func (sc *Scenario) validate() error {
	if len(sc.Steps) == 0 {
		return errors.New("scenario has no steps")
	}

	roster := make(map[string]bool, len(sc.Students))
	for _, s := range sc.Students {
		if err := store.ValidateStudentID(s.ID); err != nil {
			return fmt.Errorf("student %q: %w", s.ID, err)
		}
		if s.Name == "" {
			return fmt.Errorf("student %q: missing name", s.ID)
		}
		if roster[s.ID] {
			return fmt.Errorf("student %q listed twice", s.ID)
		}
		roster[s.ID] = true
	}

	for i, step := range sc.Steps {
		if step.Person == "" {
			return fmt.Errorf("step %d: missing person", i+1)
		}
		if !roster[step.Person] {
			return fmt.Errorf("step %d: person %q not in roster", i+1, step.Person)
		}
	}
	return nil
}

// NameOf returns the display name for a roster ID.
func (sc *Scenario) NameOf(id string) string {
	for _, s := range sc.Students {
		if s.ID == id {
			return s.Name
		}
	}
	return id
}
