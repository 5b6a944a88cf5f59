package harness

import (
	"fmt"
	"io/fs"
	"regexp"
	"time"

	"github.com/google/uuid"

	"github.com/cpcf/skein/config"
)

// Scenario is one render, assert and clean-up cycle for a configuration.
type Scenario struct {
	Name        string            `yaml:"name"`
	Description string            `yaml:"description"`
	Context     map[string]string `yaml:"context"`
	Expect      Expectation       `yaml:"expect"`
	// XFail marks a scenario expected to fail and gives the reason. It
	// still runs; failing does not fail the suite.
	XFail string `yaml:"xfail"`
	Skip  struct {
		OS string `yaml:"os"`
	} `yaml:"skip"`
}

// Suite is a list of scenarios for one template.
type Suite struct {
	Template  string     `yaml:"template"`
	Scenarios []Scenario `yaml:"scenarios"`
}

// Validate implements config.Validator.
func (s *Suite) Validate() error {
	seen := make(map[string]bool, len(s.Scenarios))
	for i, sc := range s.Scenarios {
		if sc.Name == "" {
			return fmt.Errorf("scenario %d: name is required", i)
		}
		if seen[sc.Name] {
			return fmt.Errorf("scenario %q defined twice", sc.Name)
		}
		seen[sc.Name] = true

		patterns := []string{sc.Skip.OS}
		for _, c := range sc.Expect.Commands {
			if c.Run == "" {
				return fmt.Errorf("scenario %q: command without run", sc.Name)
			}
			patterns = append(patterns, c.SkipOS)
		}
		for _, p := range patterns {
			if _, err := regexp.Compile(p); err != nil {
				return fmt.Errorf("scenario %q: invalid os pattern: %w", sc.Name, err)
			}
		}
	}
	return nil
}

// Find returns the scenario with the given name.
func (s *Suite) Find(name string) (Scenario, bool) {
	for _, sc := range s.Scenarios {
		if sc.Name == name {
			return sc, true
		}
	}
	return Scenario{}, false
}

func LoadSuite(path string) (*Suite, error) {
	var s Suite
	if err := config.LoadYAML(path, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

func LoadSuiteFS(fsys fs.FS, name string) (*Suite, error) {
	var s Suite
	if err := config.LoadYAMLFS(fsys, name, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

type Status string

const (
	Passed  Status = "passed"
	Failed  Status = "failed"
	XFailed Status = "xfailed"
	XPassed Status = "xpassed"
	Skipped Status = "skipped"
)

// Outcome is the result of running one scenario. Err is the single cause
// of failure, if any.
type Outcome struct {
	Scenario string
	Status   Status
	Err      error
	RunID    uuid.UUID
	// Skipped lists command checks that did not run.
	Skipped  []string
	Duration time.Duration
	// KeptAt is where a failing tree was copied, when keeping is enabled.
	KeptAt string
}

// Failed reports whether the outcome fails a suite.
func (o Outcome) Failed() bool {
	return o.Status == Failed
}
