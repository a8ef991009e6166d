package domain

import (
	"encoding/json"
	"fmt"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Result is a finished game's outcome for the tracked team.
type Result string

const (
	Win  Result = "Win"
	Loss Result = "Loss"
	Draw Result = "Draw"
)

// GameNumbers are the win/loss/draw counters stored on Team and Player.
// Invariant: GamesPlayed == Wins + Losses + Draws, all fields >= 0.
type GameNumbers struct {
	Wins        int `json:"wins"`
	Losses      int `json:"losses"`
	Draws       int `json:"draws"`
	GamesPlayed int `json:"games_played"`
}

// Record returns n with the result bucket and GamesPlayed moved by delta.
// Decrements clamp at 0.
func (n GameNumbers) Record(r Result, delta int) GameNumbers {
	switch r {
	case Win:
		n.Wins = clampAdd(n.Wins, delta)
	case Loss:
		n.Losses = clampAdd(n.Losses, delta)
	case Draw:
		n.Draws = clampAdd(n.Draws, delta)
	default:
		return n
	}
	n.GamesPlayed = clampAdd(n.GamesPlayed, delta)
	return n
}

// Consistent reports whether the GamesPlayed invariant holds.
func (n GameNumbers) Consistent() bool {
	return n.GamesPlayed == n.Wins+n.Losses+n.Draws
}

// Negative reports whether any counter is below zero.
func (n GameNumbers) Negative() bool {
	return n.Wins < 0 || n.Losses < 0 || n.Draws < 0 || n.GamesPlayed < 0
}

// Sub returns the field-wise difference n - other.
func (n GameNumbers) Sub(other GameNumbers) GameNumbers {
	return GameNumbers{
		Wins:        n.Wins - other.Wins,
		Losses:      n.Losses - other.Losses,
		Draws:       n.Draws - other.Draws,
		GamesPlayed: n.GamesPlayed - other.GamesPlayed,
	}
}

// IsZero reports whether every field is 0.
func (n GameNumbers) IsZero() bool {
	return n == GameNumbers{}
}

func (n GameNumbers) String() string {
	return fmt.Sprintf("%d-%d-%d (%d played)", n.Wins, n.Losses, n.Draws, n.GamesPlayed)
}

func clampAdd(v, delta int) int {
	v += delta
	if v < 0 {
		return 0
	}
	return v
}

// FreeThrowState tracks whether a period is inside a free-throw sequence.
type FreeThrowState int

const (
	Idle FreeThrowState = iota
	InFreeThrowRun
)

func (s FreeThrowState) String() string {
	if s == InFreeThrowRun {
		return "InFreeThrowRun"
	}
	return "Idle"
}

func (s FreeThrowState) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *FreeThrowState) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return fmt.Errorf("unmarshal free throw state: %w", err)
	}
	switch name {
	case "Idle", "":
		*s = Idle
	case "InFreeThrowRun":
		*s = InFreeThrowRun
	default:
		return fmt.Errorf("unknown free throw state %q", name)
	}
	return nil
}

// NormalizeName returns name in NFC form with surrounding space removed.
func NormalizeName(name string) string {
	return strings.TrimSpace(norm.NFC.String(name))
}
