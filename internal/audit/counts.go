// Package audit detects and repairs drift between denormalized counters and
// the finished-game log.
//
// The finished games are the ground truth: every team and player counter can
// be recomputed from them, so a correction is a plain overwrite and running
// it twice changes nothing the second time.
package audit

import (
	"log/slog"

	"github.com/roach88/statbook/internal/completion"
	"github.com/roach88/statbook/internal/domain"
	"github.com/roach88/statbook/internal/repo"
	"github.com/roach88/statbook/internal/stats"
)

// TeamAudit compares a team's stored numbers with the recomputed ones.
// Discrepancy is Stored - Expected.
type TeamAudit struct {
	TeamID      string             `json:"team_id"`
	Name        string             `json:"name"`
	Stored      domain.GameNumbers `json:"stored"`
	Expected    domain.GameNumbers `json:"expected"`
	Discrepancy domain.GameNumbers `json:"discrepancy"`
}

// PlayerAudit compares a player's stored numbers with the recomputed ones.
type PlayerAudit struct {
	PlayerID    string             `json:"player_id"`
	Name        string             `json:"name"`
	Stored      domain.GameNumbers `json:"stored"`
	Expected    domain.GameNumbers `json:"expected"`
	Discrepancy domain.GameNumbers `json:"discrepancy"`
}

// GameDetail describes one finished game as the audit counted it.
type GameDetail struct {
	GameID         string        `json:"game_id"`
	TeamID         string        `json:"team_id"`
	Result         domain.Result `json:"result"`
	UsPoints       int           `json:"us_points"`
	OpponentPoints int           `json:"opponent_points"`
	Participants   []string      `json:"participants"`
}

// CountAudit is the result of AuditGameCounts.
type CountAudit struct {
	Teams   []TeamAudit   `json:"teams"`
	Players []PlayerAudit `json:"players"`
	Games   []GameDetail  `json:"games"`
}

// Clean reports whether every team and player matches the log.
func (c CountAudit) Clean() bool {
	for _, t := range c.Teams {
		if !t.Discrepancy.IsZero() {
			return false
		}
	}
	for _, p := range c.Players {
		if !p.Discrepancy.IsZero() {
			return false
		}
	}
	return true
}

// Correction summarizes CorrectGameCounts.
type Correction struct {
	TeamsUpdated   int `json:"teams_updated"`
	PlayersUpdated int `json:"players_updated"`
}

// Auditor reads and repairs the unit of work.
type Auditor struct {
	uow    repo.UnitOfWork
	logger *slog.Logger
}

// New creates an Auditor. A nil logger uses slog.Default().
func New(uow repo.UnitOfWork, logger *slog.Logger) *Auditor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Auditor{uow: uow, logger: logger}
}

type expectation struct {
	teams   map[string]domain.GameNumbers
	players map[string]domain.GameNumbers
	games   []GameDetail
}

// expected folds every finished game into recomputed numbers.
func (a *Auditor) expected() expectation {
	exp := expectation{
		teams:   map[string]domain.GameNumbers{},
		players: map[string]domain.GameNumbers{},
	}
	for _, g := range a.uow.Games().Filter(func(g domain.Game) bool { return g.IsFinished }) {
		result := completion.CalculateGameResult(g)
		exp.teams[g.TeamID] = exp.teams[g.TeamID].Record(result, 1)

		seen := map[string]bool{}
		participants := []string{}
		for _, id := range g.GamePlayedList {
			if seen[id] {
				continue
			}
			seen[id] = true
			participants = append(participants, id)
			exp.players[id] = exp.players[id].Record(result, 1)
		}

		exp.games = append(exp.games, GameDetail{
			GameID:         g.ID,
			TeamID:         g.TeamID,
			Result:         result,
			UsPoints:       g.StatTotals.Us.Get(stats.Points),
			OpponentPoints: g.StatTotals.Opponent.Get(stats.Points),
			Participants:   participants,
		})
	}
	return exp
}

// AuditGameCounts recomputes every team's and player's numbers from the
// finished games and reports the per-field discrepancy.
func (a *Auditor) AuditGameCounts() CountAudit {
	exp := a.expected()
	out := CountAudit{Games: exp.games}

	for _, t := range a.uow.Teams().All() {
		want := exp.teams[t.ID]
		out.Teams = append(out.Teams, TeamAudit{
			TeamID:      t.ID,
			Name:        t.Name,
			Stored:      t.GameNumbers,
			Expected:    want,
			Discrepancy: t.GameNumbers.Sub(want),
		})
	}
	for _, p := range a.uow.Players().All() {
		want := exp.players[p.ID]
		out.Players = append(out.Players, PlayerAudit{
			PlayerID:    p.ID,
			Name:        p.Name,
			Stored:      p.GameNumbers,
			Expected:    want,
			Discrepancy: p.GameNumbers.Sub(want),
		})
	}

	if !out.Clean() {
		a.logger.Warn("game count drift detected", "teams", len(out.Teams), "players", len(out.Players))
	}
	return out
}

// CorrectGameCounts overwrites every team's and player's numbers with the
// values recomputed from the finished games.
func (a *Auditor) CorrectGameCounts() Correction {
	exp := a.expected()
	var c Correction

	for _, t := range a.uow.Teams().All() {
		want := exp.teams[t.ID]
		if t.GameNumbers == want {
			continue
		}
		a.logger.Info("correcting team numbers", "team_id", t.ID, "from", t.GameNumbers.String(), "to", want.String())
		t.GameNumbers = want
		a.uow.Teams().Put(t)
		c.TeamsUpdated++
	}
	for _, p := range a.uow.Players().All() {
		want := exp.players[p.ID]
		if p.GameNumbers == want {
			continue
		}
		a.logger.Info("correcting player numbers", "player_id", p.ID, "from", p.GameNumbers.String(), "to", want.String())
		p.GameNumbers = want
		a.uow.Players().Put(p)
		c.PlayersUpdated++
	}
	return c
}
