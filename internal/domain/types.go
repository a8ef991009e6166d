package domain

import (
	"github.com/roach88/statbook/internal/stats"
)

// OpponentID is the player id used for plays made by the opposing team.
const OpponentID = "Opponent"

// Team is the tracked team.
type Team struct {
	ID          string           `json:"id"`
	Name        string           `json:"name"`
	ImageRef    string           `json:"image_ref,omitempty"` // Opaque; stored by an external collaborator
	GameNumbers GameNumbers      `json:"game_numbers"`
	Stats       stats.SideTotals `json:"stats"` // Aggregated across finished games
}

// Player belongs to one team. It is orphaned when TeamID no longer resolves.
type Player struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	Number      int          `json:"number"`
	TeamID      string       `json:"team_id"`
	GameNumbers GameNumbers  `json:"game_numbers"`
	Stats       stats.Vector `json:"stats"` // Career
}

// Set is a lineup. RunCount counts possessions run while it was active.
type Set struct {
	ID       string       `json:"id"`
	Name     string       `json:"name"`
	TeamID   string       `json:"team_id"`
	RunCount int          `json:"run_count"`
	Stats    stats.Vector `json:"stats"`
}

// SetSnapshot is a lineup's totals scoped to a single game.
type SetSnapshot struct {
	RunCount int          `json:"run_count"`
	Stats    stats.Vector `json:"stats"`
}

// Game is one game's mutable record.
type Game struct {
	ID               string                  `json:"id"`
	TeamID           string                  `json:"team_id"`
	OpposingTeamName string                  `json:"opposing_team_name"`
	IsFinished       bool                    `json:"is_finished"`
	ActivePlayers    []string                `json:"active_players"`
	ActiveSets       []string                `json:"active_sets"`
	GamePlayedList   []string                `json:"game_played_list"` // Players credited with participation
	BoxScore         map[string]stats.Vector `json:"box_score"`
	StatTotals       stats.SideTotals        `json:"stat_totals"`
	Periods          []Period                `json:"periods"`
	Sets             map[string]SetSnapshot  `json:"sets"`
}

// Period holds a running score and its play-by-play, most recent first.
type Period struct {
	Us         int               `json:"us"`
	Opponent   int               `json:"opponent"`
	PlayByPlay []PlayByPlayEntry `json:"play_by_play"`
	FreeThrow  FreeThrowState    `json:"free_throw"`
}

// Score returns the period score for side.
func (p Period) Score(side stats.Side) int {
	if side == stats.Opponent {
		return p.Opponent
	}
	return p.Us
}

// PlayByPlayEntry records one play with enough context to reverse it.
type PlayByPlayEntry struct {
	PlayerID string      `json:"player_id"` // Player id or OpponentID
	Action   stats.Key   `json:"action"`    // First stat key of the play
	Actions  []stats.Key `json:"actions"`
	Side     stats.Side  `json:"side"`
	SetID    string      `json:"set_id,omitempty"`

	// OnCourt lists the players whose plus/minus moved with this play.
	OnCourt []string `json:"on_court,omitempty"`

	// PriorFreeThrow is the period's free-throw state before the play.
	PriorFreeThrow FreeThrowState `json:"prior_free_throw"`

	// RunCounted is set when the play closed a run on SetID.
	RunCounted bool `json:"run_counted,omitempty"`

	// AddedPeriods counts the trailing periods the play materialized.
	AddedPeriods int `json:"added_periods,omitempty"`
}

// Points returns the play's scoring value.
func (e PlayByPlayEntry) Points() int {
	return stats.PlayPoints(e.Actions)
}

// Clone returns a deep copy so callers can mutate without aliasing the store.
func (g Game) Clone() Game {
	out := g
	out.ActivePlayers = cloneStrings(g.ActivePlayers)
	out.ActiveSets = cloneStrings(g.ActiveSets)
	out.GamePlayedList = cloneStrings(g.GamePlayedList)
	if g.BoxScore != nil {
		out.BoxScore = make(map[string]stats.Vector, len(g.BoxScore))
		for id, v := range g.BoxScore {
			out.BoxScore[id] = v
		}
	}
	if g.Sets != nil {
		out.Sets = make(map[string]SetSnapshot, len(g.Sets))
		for id, s := range g.Sets {
			out.Sets[id] = s
		}
	}
	if g.Periods != nil {
		out.Periods = make([]Period, len(g.Periods))
		for i, p := range g.Periods {
			out.Periods[i] = p.Clone()
		}
	}
	return out
}

// Clone returns a deep copy of the period.
func (p Period) Clone() Period {
	out := p
	if p.PlayByPlay != nil {
		out.PlayByPlay = make([]PlayByPlayEntry, len(p.PlayByPlay))
		for i, e := range p.PlayByPlay {
			e.Actions = append([]stats.Key(nil), e.Actions...)
			e.OnCourt = cloneStrings(e.OnCourt)
			out.PlayByPlay[i] = e
		}
	}
	return out
}

func cloneStrings(in []string) []string {
	if in == nil {
		return nil
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}

// ContainsID reports whether id appears in ids.
func ContainsID(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

// RemoveID returns ids without any occurrence of id.
func RemoveID(ids []string, id string) []string {
	out := make([]string, 0, len(ids))
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}
