package harness

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	"gopkg.in/yaml.v3"
)

//go:embed scenario.cue
var scenarioSchema string

// Scenario is a scripted sequence of sends with expectations.
type Scenario struct {
	// Name identifies the scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what the scenario validates.
	Description string `yaml:"description"`

	// Session fixes the journal session ids. Defaults to the name.
	Session string `yaml:"session,omitempty"`

	// Store restricts the run to one store kind. Empty runs every store.
	Store string `yaml:"store,omitempty"`

	// Setup sends establish initial state and must commit.
	Setup []SendStep `yaml:"setup,omitempty"`

	// Flow is the scenario proper.
	Flow []SendStep `yaml:"flow"`

	// Assertions are checked against the trace and the final World.
	Assertions []Assertion `yaml:"assertions"`
}

// SendStep sends one message.
type SendStep struct {
	// To is the target reference, "kind/name".
	To string `yaml:"to"`

	// Message is the registered message name.
	Message string `yaml:"message"`

	// Args are passed to the message constructor.
	Args map[string]any `yaml:"args,omitempty"`

	// Expect checks the send's outcome. Nil expects a commit.
	Expect *ExpectClause `yaml:"expect,omitempty"`
}

// ExpectClause describes how a send should end.
type ExpectClause struct {
	// Outcome is committed, rejected or rolled_back.
	Outcome string `yaml:"outcome"`

	// Kind is the contract error kind of a failed send.
	Kind string `yaml:"kind,omitempty"`

	// Result is the effect result of a committed send, compared canonically.
	Result any `yaml:"result,omitempty"`
}

// Assertion validates the trace or the final state.
type Assertion struct {
	// Type is one of the Assert* constants.
	Type string `yaml:"type"`

	// To is the identifier reference (final_state, trace_contains).
	To string `yaml:"to,omitempty"`

	// Expect is a subset of the canonical current value (final_state).
	Expect map[string]any `yaml:"expect,omitempty"`

	// Old is a subset of the canonical old value (final_state).
	Old map[string]any `yaml:"old,omitempty"`

	// Absent asserts the identifier holds no committed state (final_state).
	Absent bool `yaml:"absent,omitempty"`

	// Message is the message name (trace_contains, trace_count).
	Message string `yaml:"message,omitempty"`

	// Outcome filters dispatches by outcome (trace_contains, trace_count).
	Outcome string `yaml:"outcome,omitempty"`

	// Count is the expected number of dispatches (trace_count).
	Count int `yaml:"count,omitempty"`

	// Messages is the expected order (trace_order).
	Messages []string `yaml:"messages,omitempty"`
}

// Assertion type constants.
const (
	AssertFinalState    = "final_state"
	AssertTraceContains = "trace_contains"
	AssertTraceOrder    = "trace_order"
	AssertTraceCount    = "trace_count"
)

// LoadScenario reads and parses a scenario YAML file.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}
	sc, err := ParseScenario(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return sc, nil
}

// ParseScenario checks a scenario document against the schema and decodes
// it. Unknown fields are rejected.
func ParseScenario(data []byte) (*Scenario, error) {
	var raw any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	if err := validateSchema(raw); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	var sc Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&sc); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	if sc.Session == "" {
		sc.Session = sc.Name
	}
	return &sc, nil
}

// validateSchema unifies a decoded document with #Scenario.
func validateSchema(doc any) error {
	ctx := cuecontext.New()
	schema := ctx.CompileString(scenarioSchema, cue.Filename("scenario.cue"))
	if err := schema.Err(); err != nil {
		return fmt.Errorf("compile scenario schema: %w", err)
	}

	v := schema.FillPath(cue.ParsePath("scenario"), doc)
	if err := v.Validate(cue.Concrete(true)); err != nil {
		return fmt.Errorf("%s", cueerrors.Details(err, nil))
	}
	return nil
}
