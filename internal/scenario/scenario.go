package scenario

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Scenario drives ledger operations and checks the resulting state.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Setup steps establish initial state. They are not traced and must
	// all succeed.
	Setup []Step `yaml:"setup,omitempty"`

	// Flow steps are traced and checked against Refused.
	Flow []Step `yaml:"flow"`

	// Assertions are evaluated against state reloaded from the store after
	// the flow completes.
	Assertions []Assertion `yaml:"assertions"`
}

// Step invokes one operation, e.g. "play.record".
type Step struct {
	Op   string         `yaml:"op"`
	Args map[string]any `yaml:"args,omitempty"`

	// Refused marks a step the ledger is expected to reject.
	Refused bool `yaml:"refused,omitempty"`
}

// Assertion checks final state. Which fields apply depends on Type.
type Assertion struct {
	Type string `yaml:"type"`

	Game   string `yaml:"game,omitempty"`
	Team   string `yaml:"team,omitempty"`
	Player string `yaml:"player,omitempty"`
	Set    string `yaml:"set,omitempty"`
	Period int    `yaml:"period,omitempty"`

	// period_score
	Us       int `yaml:"us,omitempty"`
	Opponent int `yaml:"opponent,omitempty"`

	// game_numbers
	Wins        int `yaml:"wins,omitempty"`
	Losses      int `yaml:"losses,omitempty"`
	Draws       int `yaml:"draws,omitempty"`
	GamesPlayed int `yaml:"games_played,omitempty"`

	// stat
	Scope string `yaml:"scope,omitempty"`
	Key   string `yaml:"key,omitempty"`
	Side  string `yaml:"side,omitempty"`

	// count, health
	Collection string `yaml:"collection,omitempty"`

	// Value is an int for numeric assertions and a bool for finished and
	// audit_clean.
	Value any `yaml:"value,omitempty"`
}

// Assertion type constants.
const (
	AssertPeriodScore = "period_score"
	AssertGameNumbers = "game_numbers"
	AssertStat        = "stat"
	AssertRunCount    = "run_count"
	AssertPlays       = "plays"
	AssertFinished    = "finished"
	AssertAuditClean  = "audit_clean"
	AssertHealth      = "health"
	AssertCount       = "count"
	AssertJournal     = "journal"
)

// Load reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}
	return Parse(data)
}

// Parse decodes a scenario document with strict field checking.
func Parse(data []byte) (*Scenario, error) {
	var s Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true) // Reject unknown fields
	if err := decoder.Decode(&s); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	if err := validate(&s); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &s, nil
}

func validate(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Description == "" {
		return fmt.Errorf("description is required")
	}
	if len(s.Flow) == 0 {
		return fmt.Errorf("flow list is required and must be non-empty")
	}

	for i, step := range append(append([]Step{}, s.Setup...), s.Flow...) {
		if _, ok := operations[step.Op]; !ok {
			return fmt.Errorf("step %d: unknown op %q", i+1, step.Op)
		}
	}

	valid := map[string]bool{
		AssertPeriodScore: true, AssertGameNumbers: true, AssertStat: true,
		AssertRunCount: true, AssertPlays: true, AssertFinished: true,
		AssertAuditClean: true, AssertHealth: true, AssertCount: true,
		AssertJournal: true,
	}
	for i, a := range s.Assertions {
		if !valid[a.Type] {
			return fmt.Errorf("assertion %d: invalid type %q", i+1, a.Type)
		}
	}
	return nil
}
