// Package scenario replays scripted carousel sessions in virtual time.
//
// A scenario is a YAML document:
//
//	config:
//	  variant: client-slider
//	width: 1280
//	items: [acme, globex, initech, umbrella, hooli]
//	steps:
//	  - {at: 1s, action: next}
//	  - {at: 5s, action: resize, arg: 375}
//	  - {at: 6s, action: items, items: [a, b]}
//	until: 20s
package scenario

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/sarchlab/carousel/config"
	"github.com/sarchlab/carousel/rotation"
)

// ErrUnknownAction is returned for steps whose action is not supported.
var ErrUnknownAction = errors.New("unknown action")

// Actions a step can take.
const (
	ActionNext   = "next"
	ActionPrev   = "prev"
	ActionGoTo   = "goto"
	ActionResize = "resize"
	ActionItems  = "items"
	ActionClose  = "close"
)

// A Step is one scripted input.
type Step struct {
	At     string   `yaml:"at"`
	Action string   `yaml:"action"`
	Arg    int      `yaml:"arg,omitempty"`
	Items  []string `yaml:"items,omitempty"`

	at time.Duration
}

// Time returns the parsed At.
func (s Step) Time() time.Duration {
	return s.at
}

// A Scenario is a scripted session.
type Scenario struct {
	Name   string        `yaml:"name"`
	Config config.Config `yaml:"config"`
	Width  int           `yaml:"width"`
	Items  []string      `yaml:"items"`
	Steps  []Step        `yaml:"steps"`
	Until  string        `yaml:"until"`

	until    time.Duration
	rotation rotation.Config
}

// Load reads and validates a scenario file.
func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario: %w", err)
	}

	s, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return s, nil
}

// Parse decodes and validates a scenario.
func Parse(data []byte) (*Scenario, error) {
	s := &Scenario{}
	if err := yaml.Unmarshal(data, s); err != nil {
		return nil, fmt.Errorf("failed to parse scenario: %w", err)
	}

	if err := s.validate(); err != nil {
		return nil, err
	}

	return s, nil
}

func (s *Scenario) validate() error {
	var err error

	if s.rotation, err = s.Config.RotationConfig(); err != nil {
		return err
	}

	if s.Until != "" {
		if s.until, err = time.ParseDuration(s.Until); err != nil {
			return fmt.Errorf("invalid until: %w", err)
		}
	}

	for i := range s.Steps {
		step := &s.Steps[i]

		if step.at, err = time.ParseDuration(step.At); err != nil {
			return fmt.Errorf("step %d: invalid at: %w", i, err)
		}

		if step.at < 0 {
			return fmt.Errorf("step %d: negative time %s", i, step.At)
		}

		switch step.Action {
		case ActionNext, ActionPrev, ActionGoTo, ActionResize, ActionItems,
			ActionClose:
		default:
			return fmt.Errorf("step %d: %w %q", i, ErrUnknownAction, step.Action)
		}
	}

	if s.until == 0 && s.rotation.AutoAdvanceEnabled() {
		return errors.New("until is required when auto-advance is enabled")
	}

	return nil
}

// RotationConfig returns the resolved controller configuration.
func (s *Scenario) RotationConfig() rotation.Config {
	return s.rotation
}
