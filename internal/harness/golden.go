package harness

import (
	"testing"

	"github.com/roach88/typegen/internal/testutil"
)

// RunWithGolden runs a scenario and, when it expects a golden comparison,
// compares the generated prelude with testdata/golden/{scenario.Name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
//
// Returns the result so callers can inspect failed expectations. The error is
// non-nil only when the scenario could not run.
func RunWithGolden(t *testing.T, scenario *Scenario) (*Result, error) {
	t.Helper()

	result, err := Run(scenario)
	if err != nil {
		return nil, err
	}

	if scenario.Expect.Golden {
		testutil.AssertGolden(t, scenario.Name, []byte(result.Artifact.Content))
	}
	return result, nil
}
