// Package completion finalizes games exactly once and reverses that on reopen.
package completion

import (
	"log/slog"

	"github.com/roach88/statbook/internal/domain"
	"github.com/roach88/statbook/internal/stats"
)

// Actions is the state accessor a completion runs against.
//
// CurrentGame must read the game fresh on every call; the workflow never
// trusts a snapshot captured before it was invoked.
type Actions interface {
	CurrentGame() (domain.Game, bool)
	RecordTeamResult(teamID string, r domain.Result, delta int) bool
	RecordPlayerResult(playerID string, r domain.Result, delta int) bool
	FoldStats(game domain.Game, sign int)
	SetFinished(finished bool) bool
}

// CalculateGameResult compares the two sides' Points totals.
func CalculateGameResult(g domain.Game) domain.Result {
	us := g.StatTotals.Us.Get(stats.Points)
	them := g.StatTotals.Opponent.Get(stats.Points)
	switch {
	case us > them:
		return domain.Win
	case us < them:
		return domain.Loss
	default:
		return domain.Draw
	}
}

// CanComplete reports whether g may still be completed.
func CanComplete(g domain.Game) bool {
	return !g.IsFinished
}

// Workflow runs completion and reopen transitions.
type Workflow struct {
	logger *slog.Logger
}

// New creates a Workflow. A nil logger uses slog.Default().
func New(logger *slog.Logger) *Workflow {
	if logger == nil {
		logger = slog.Default()
	}
	return &Workflow{logger: logger}
}

// CompleteGame finalizes the game and credits the result to the team and to
// every player in GamePlayedList. Returns false without mutating anything if
// the game is missing or already finished.
//
// The sub-updates are not rolled back if a later one reports failure; the
// auditor repairs any resulting drift.
func (w *Workflow) CompleteGame(gameID, teamID string, a Actions) bool {
	game, ok := a.CurrentGame()
	if !ok {
		w.logger.Warn("complete game: game not found", "game_id", gameID)
		return false
	}
	if !CanComplete(game) {
		w.logger.Warn("completion conflict: game already finished",
			"game_id", gameID,
			"team_id", teamID,
		)
		return false
	}
	teamID, ok = w.resolveTeam(game, teamID)
	if !ok {
		return false
	}

	result := CalculateGameResult(game)
	if !a.RecordTeamResult(teamID, result, 1) {
		w.logger.Warn("complete game: team numbers not updated", "game_id", gameID, "team_id", teamID)
	}
	for _, playerID := range game.GamePlayedList {
		if !a.RecordPlayerResult(playerID, result, 1) {
			w.logger.Warn("complete game: player numbers not updated", "game_id", gameID, "player_id", playerID)
		}
	}
	a.FoldStats(game, 1)
	a.SetFinished(true)

	w.logger.Info("game completed",
		"game_id", gameID,
		"team_id", teamID,
		"result", result,
		"participants", len(game.GamePlayedList),
	)
	return true
}

// ReopenGame reverses CompleteGame for a finished game.
func (w *Workflow) ReopenGame(gameID, teamID string, a Actions) bool {
	game, ok := a.CurrentGame()
	if !ok {
		w.logger.Warn("reopen game: game not found", "game_id", gameID)
		return false
	}
	if !game.IsFinished {
		w.logger.Warn("reopen game: game is not finished", "game_id", gameID)
		return false
	}
	teamID, ok = w.resolveTeam(game, teamID)
	if !ok {
		return false
	}

	result := CalculateGameResult(game)
	a.RecordTeamResult(teamID, result, -1)
	for _, playerID := range game.GamePlayedList {
		a.RecordPlayerResult(playerID, result, -1)
	}
	a.FoldStats(game, -1)
	a.SetFinished(false)

	w.logger.Info("game reopened", "game_id", gameID, "team_id", teamID, "result", result)
	return true
}

func (w *Workflow) resolveTeam(game domain.Game, teamID string) (string, bool) {
	if teamID == "" {
		return game.TeamID, true
	}
	if teamID != game.TeamID {
		w.logger.Warn("game belongs to another team",
			"game_id", game.ID,
			"team_id", teamID,
			"game_team_id", game.TeamID,
		)
		return "", false
	}
	return teamID, true
}
