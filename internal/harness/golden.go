package harness

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/roach88/manikin/internal/ir"
)

// TraceSnapshot is the golden form of a run: the trace and final state in
// canonical JSON.
type TraceSnapshot struct {
	Scenario string
	Trace    []TraceEvent
	State    ir.IRObject
}

func (s TraceSnapshot) ir() ir.IRObject {
	return ir.NewObject(
		ir.O{Key: "scenario", Value: ir.IRString(s.Scenario)},
		ir.O{Key: "trace", Value: traceIR(s.Trace)},
		ir.O{Key: "state", Value: s.State},
	)
}

// RunWithGolden runs sc and compares its trace and final state with
// testdata/golden/<name>.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/... -update
//
// Returns an error if the scenario could not run. Expectation and assertion
// failures are left in the Result for the caller to check.
func RunWithGolden(t *testing.T, reg *Registry, sc *Scenario, opts ...Option) (*Result, error) {
	t.Helper()

	result, err := Run(reg, sc, opts...)
	if err != nil {
		return nil, err
	}
	if err := AssertGolden(t, sc.Name, result); err != nil {
		return nil, err
	}
	return result, nil
}

// AssertGolden compares an existing result with its golden file.
func AssertGolden(t *testing.T, name string, result *Result) error {
	t.Helper()

	snapshot := TraceSnapshot{Scenario: name, Trace: result.Trace, State: result.State}
	data, err := ir.MarshalCanonical(snapshot.ir())
	if err != nil {
		return err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, name, data)
	return nil
}

// LoadDir loads every *.yaml scenario in dir, ordered by file name.
func LoadDir(dir string) ([]*Scenario, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var names []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".yaml") {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	scenarios := make([]*Scenario, 0, len(names))
	for _, name := range names {
		sc, err := LoadScenario(filepath.Join(dir, name))
		if err != nil {
			return nil, err
		}
		scenarios = append(scenarios, sc)
	}
	return scenarios, nil
}

// RunDir runs every scenario in dir as a subtest, each checked against its
// golden file and required to pass.
func RunDir(t *testing.T, reg *Registry, dir string, opts ...Option) {
	t.Helper()

	scenarios, err := LoadDir(dir)
	if err != nil {
		t.Fatalf("load scenarios: %v", err)
	}
	if len(scenarios) == 0 {
		t.Fatalf("no scenarios in %s", dir)
	}
	for _, sc := range scenarios {
		t.Run(sc.Name, func(t *testing.T) {
			result, err := RunWithGolden(t, reg, sc, opts...)
			if err != nil {
				t.Fatalf("run: %v", err)
			}
			for _, e := range result.Errors {
				t.Error(e)
			}
		})
	}
}
