package scenario

import (
	"context"
	"strings"
	"testing"

	"github.com/sebdah/goldie/v2"
)

// TraceText renders a trace the way golden files store it: one step per
// line with a trailing newline.
func TraceText(trace []string) []byte {
	if len(trace) == 0 {
		return nil
	}
	return []byte(strings.Join(trace, "\n") + "\n")
}

// RunWithGolden executes a scenario and compares its trace against
// testdata/golden/{scenario.Name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/scenario -update
//
// Returns the result so callers can check Pass and Errors as well.
func RunWithGolden(t *testing.T, s *Scenario) (*Result, error) {
	t.Helper()

	result, err := Run(context.Background(), s)
	if err != nil {
		return nil, err
	}
	AssertGolden(t, s.Name, result)
	return result, nil
}

// AssertGolden compares an existing result's trace against a golden file.
func AssertGolden(t *testing.T, name string, result *Result) {
	t.Helper()

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, name, TraceText(result.Trace))
}
