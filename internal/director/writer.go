package director

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// ScenarioVersion is written into every scenario file.
const ScenarioVersion = "1.0"

// Validate checks scenes and captions of the scenario.
func (s *Scenario) Validate() error {
	if s.FPS <= 0 {
		return fmt.Errorf("%w: fps must be positive, got %d", ErrInvalidTimeline, s.FPS)
	}
	if err := Timeline(s.Scenes).Validate(); err != nil {
		return err
	}
	return ValidateCaptions(s.Captions)
}

// EncodeScenario writes a scenario as YAML to w
func EncodeScenario(w io.Writer, scenario *Scenario) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(scenario); err != nil {
		return fmt.Errorf("encode scenario: %w", err)
	}
	return enc.Close()
}

// WriteScenario writes a scenario to a YAML file
func WriteScenario(scenario *Scenario, path string) error {
	data, err := yaml.Marshal(scenario)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// ReadScenario reads a scenario from a YAML file and validates it
func ReadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, fmt.Errorf("parse scenario %s: %w", path, err)
	}
	if err := scenario.Validate(); err != nil {
		return nil, fmt.Errorf("scenario %s: %w", path, err)
	}

	return &scenario, nil
}
