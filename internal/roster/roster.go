// Package roster imports teams, players and lineups from a YAML season file.
//
// A season file is decoded strictly (unknown keys are rejected) and then
// checked against an embedded CUE schema before anything reaches the ledger.
package roster

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	"gopkg.in/yaml.v3"

	"github.com/roach88/statbook/internal/domain"
)

//go:embed season.cue
var schemaCUE string

// Season is a parsed roster document.
type Season struct {
	Season string `yaml:"season,omitempty" json:"season,omitempty"`
	Teams  []Team `yaml:"teams" json:"teams"`
}

type Team struct {
	Name    string   `yaml:"name" json:"name"`
	Image   string   `yaml:"image,omitempty" json:"image,omitempty"`
	Players []Player `yaml:"players,omitempty" json:"players,omitempty"`
	Sets    []Set    `yaml:"sets,omitempty" json:"sets,omitempty"`
}

type Player struct {
	Name   string `yaml:"name" json:"name"`
	Number int    `yaml:"number" json:"number"`
}

type Set struct {
	Name string `yaml:"name" json:"name"`
}

// ValidationError lists every schema violation found in a season file.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid roster: %s", strings.Join(e.Problems, "; "))
}

// Load reads and parses a season file.
func Load(path string) (*Season, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read roster file: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates a season document.
func Parse(data []byte) (*Season, error) {
	var s Season
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&s); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	if err := validate(&s); err != nil {
		return nil, err
	}
	return &s, nil
}

// validate unifies s with the embedded schema and checks what the schema
// cannot express.
func validate(s *Season) error {
	ctx := cuecontext.New()
	schema := ctx.CompileString(schemaCUE, cue.Filename("season.cue"))
	if err := schema.Err(); err != nil {
		return fmt.Errorf("compile roster schema: %w", err)
	}

	doc := ctx.Encode(s)
	if err := doc.Err(); err != nil {
		return fmt.Errorf("encode roster: %w", err)
	}

	v := schema.LookupPath(cue.ParsePath("#Season")).Unify(doc)
	var problems []string
	if err := v.Validate(cue.Concrete(true)); err != nil {
		for _, e := range cueerrors.Errors(err) {
			problems = append(problems, describe(e))
		}
	}
	problems = append(problems, duplicates(s)...)

	if len(problems) > 0 {
		return &ValidationError{Problems: problems}
	}
	return nil
}

func describe(e cueerrors.Error) string {
	format, args := e.Msg()
	msg := fmt.Sprintf(format, args...)
	if path := e.Path(); len(path) > 0 {
		return strings.Join(path, ".") + ": " + msg
	}
	return msg
}

// duplicates reports repeated team names, and repeated player numbers or
// set names within a team.
func duplicates(s *Season) []string {
	var problems []string
	teams := map[string]bool{}
	for i, t := range s.Teams {
		name := domain.NormalizeName(t.Name)
		if teams[name] {
			problems = append(problems, fmt.Sprintf("teams.%d.name: duplicate team %q", i, name))
		}
		teams[name] = true

		numbers := map[int]bool{}
		for j, p := range t.Players {
			if numbers[p.Number] {
				problems = append(problems, fmt.Sprintf("teams.%d.players.%d.number: duplicate number %d", i, j, p.Number))
			}
			numbers[p.Number] = true
		}
		sets := map[string]bool{}
		for j, set := range t.Sets {
			name := domain.NormalizeName(set.Name)
			if sets[name] {
				problems = append(problems, fmt.Sprintf("teams.%d.sets.%d.name: duplicate set %q", i, j, name))
			}
			sets[name] = true
		}
	}
	return problems
}
