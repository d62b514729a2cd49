package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Scenario defines one generation check.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario checks.
	Description string `yaml:"description"`

	// Definitions is a .cue or .yaml file, or a directory of .cue files.
	// Relative paths are resolved against the scenario file location.
	Definitions string `yaml:"definitions"`

	// Config overrides generator settings. Empty values take the defaults.
	Config ScenarioConfig `yaml:"config,omitempty"`

	Expect Expectation `yaml:"expect"`
}

// ScenarioConfig mirrors prelude.Config.
type ScenarioConfig struct {
	BaseType  string `yaml:"base_type,omitempty"`
	Generator string `yaml:"generator,omitempty"`
	Path      string `yaml:"path,omitempty"`
}

// Expectation is the outcome a scenario asserts.
type Expectation struct {
	// TypeCount is the expected table size. Nil skips the check.
	TypeCount *int `yaml:"type_count,omitempty"`

	// Validation lists expected validation error codes in order.
	Validation []string `yaml:"validation,omitempty"`

	// Error is a substring of the expected generation error.
	Error string `yaml:"error,omitempty"`

	// Contains lists substrings the generated content must include.
	Contains []string `yaml:"contains,omitempty"`

	// Golden compares the content against testdata/golden/<name>.golden.
	Golden bool `yaml:"golden,omitempty"`
}

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	// Strict decoding catches typos like "expects:" vs "expect:"
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if scenario.Definitions != "" && !filepath.IsAbs(scenario.Definitions) {
		scenario.Definitions = filepath.Join(filepath.Dir(path), scenario.Definitions)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	return &scenario, nil
}

// LoadScenarios loads every *.yaml scenario in dir, sorted by file name.
func LoadScenarios(dir string) ([]*Scenario, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*.yaml"))
	if err != nil {
		return nil, err
	}

	scenarios := make([]*Scenario, 0, len(paths))
	seen := make(map[string]string, len(paths))
	for _, path := range paths {
		s, err := LoadScenario(path)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
		}
		if prev, ok := seen[s.Name]; ok {
			return nil, fmt.Errorf("%s: scenario name %q already used by %s", filepath.Base(path), s.Name, prev)
		}
		seen[s.Name] = filepath.Base(path)
		scenarios = append(scenarios, s)
	}
	return scenarios, nil
}

// validateScenario checks that required fields are present and consistent.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Description == "" {
		return fmt.Errorf("description is required")
	}
	if s.Definitions == "" {
		return fmt.Errorf("definitions is required")
	}
	if s.Expect.Error != "" && (s.Expect.Golden || len(s.Expect.Contains) > 0) {
		return fmt.Errorf("expect.error cannot be combined with contains or golden")
	}
	return nil
}
