package ledger

import (
	"github.com/roach88/statbook/internal/completion"
	"github.com/roach88/statbook/internal/domain"
)

// CompleteGame finalizes a game through the completion workflow.
func (l *Ledger) CompleteGame(gameID, teamID string) bool {
	return l.workflow.CompleteGame(gameID, teamID, l.CompletionActions(gameID))
}

// ReopenGame reverses a completed game.
func (l *Ledger) ReopenGame(gameID, teamID string) bool {
	return l.workflow.ReopenGame(gameID, teamID, l.CompletionActions(gameID))
}

// CompletionActions returns repository-backed completion actions for gameID.
// Every call reads through to the unit of work.
func (l *Ledger) CompletionActions(gameID string) completion.Actions {
	return &repoActions{l: l, gameID: gameID}
}

type repoActions struct {
	l      *Ledger
	gameID string
}

func (a *repoActions) CurrentGame() (domain.Game, bool) {
	return a.l.uow.Games().Get(a.gameID)
}

func (a *repoActions) RecordTeamResult(teamID string, r domain.Result, delta int) bool {
	team, ok := a.l.uow.Teams().Get(teamID)
	if !ok {
		return false
	}
	team.GameNumbers = team.GameNumbers.Record(r, delta)
	a.l.uow.Teams().Put(team)
	return true
}

func (a *repoActions) RecordPlayerResult(playerID string, r domain.Result, delta int) bool {
	player, ok := a.l.uow.Players().Get(playerID)
	if !ok {
		return false
	}
	player.GameNumbers = player.GameNumbers.Record(r, delta)
	a.l.uow.Players().Put(player)
	return true
}

// FoldStats adds (sign=1) or removes (sign=-1) the game's totals from the
// team aggregate and each box score from the player's career stats.
func (a *repoActions) FoldStats(game domain.Game, sign int) {
	if team, ok := a.l.uow.Teams().Get(game.TeamID); ok {
		team.Stats = team.Stats.Add(game.StatTotals, sign)
		a.l.uow.Teams().Put(team)
	}
	for playerID, box := range game.BoxScore {
		player, ok := a.l.uow.Players().Get(playerID)
		if !ok {
			continue
		}
		player.Stats = player.Stats.Add(box, sign)
		a.l.uow.Players().Put(player)
	}
}

func (a *repoActions) SetFinished(finished bool) bool {
	game, ok := a.l.uow.Games().Get(a.gameID)
	if !ok {
		return false
	}
	game.IsFinished = finished
	a.l.uow.Games().Put(game)
	return true
}
