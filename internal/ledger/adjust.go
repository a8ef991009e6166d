package ledger

import (
	"github.com/roach88/statbook/internal/domain"
	"github.com/roach88/statbook/internal/stats"
)

// UpdateBoxScore shifts one stat in a player's box score.
func (l *Ledger) UpdateBoxScore(gameID, playerID string, k stats.Key, amount int) bool {
	if !l.uow.Players().Has(playerID) {
		l.logger.Warn("update box score: player not found", "game_id", gameID, "player_id", playerID)
		return false
	}
	game, ok := l.mutableGame("update box score", gameID)
	if !ok {
		return false
	}
	if game.BoxScore == nil {
		game.BoxScore = map[string]stats.Vector{}
	}
	game.BoxScore[playerID] = stats.ApplyDelta(game.BoxScore[playerID], k, amount)
	l.uow.Games().Put(game)
	return true
}

// UpdateTotals shifts one stat in a side's game totals.
func (l *Ledger) UpdateTotals(gameID string, k stats.Key, amount int, side stats.Side) bool {
	game, ok := l.mutableGame("update totals", gameID)
	if !ok {
		return false
	}
	game.StatTotals = stats.ApplyDeltaForSide(game.StatTotals, k, amount, side)
	l.uow.Games().Put(game)
	return true
}

// UpdateTeamStats shifts one stat in a team's aggregate for side.
func (l *Ledger) UpdateTeamStats(teamID string, k stats.Key, amount int, side stats.Side) bool {
	team, ok := l.uow.Teams().Get(teamID)
	if !ok {
		l.logger.Warn("update team stats: team not found", "team_id", teamID)
		return false
	}
	team.Stats = stats.ApplyDeltaForSide(team.Stats, k, amount, side)
	l.uow.Teams().Put(team)
	return true
}

// UpdatePlayerStats shifts one stat in a player's career totals.
func (l *Ledger) UpdatePlayerStats(playerID string, k stats.Key, amount int) bool {
	player, ok := l.uow.Players().Get(playerID)
	if !ok {
		l.logger.Warn("update player stats: player not found", "player_id", playerID)
		return false
	}
	player.Stats = stats.ApplyDelta(player.Stats, k, amount)
	l.uow.Players().Put(player)
	return true
}

// UpdateSetStats shifts one stat on a lineup. With a gameID, the game's
// snapshot for the lineup moves too.
func (l *Ledger) UpdateSetStats(gameID, setID string, k stats.Key, amount int) bool {
	set, ok := l.uow.Sets().Get(setID)
	if !ok {
		l.logger.Warn("update set stats: set not found", "set_id", setID)
		return false
	}
	if gameID != "" {
		game, ok := l.mutableGame("update set stats", gameID)
		if !ok {
			return false
		}
		snap := game.Sets[setID]
		snap.Stats = stats.ApplyDelta(snap.Stats, k, amount)
		if game.Sets == nil {
			game.Sets = map[string]domain.SetSnapshot{}
		}
		game.Sets[setID] = snap
		l.uow.Games().Put(game)
	}
	set.Stats = stats.ApplyDelta(set.Stats, k, amount)
	l.uow.Sets().Put(set)
	return true
}

// IncrementSetRun moves a lineup's run count by delta, on the lineup and,
// with a gameID, on the game's snapshot.
func (l *Ledger) IncrementSetRun(gameID, setID string, delta int) bool {
	set, ok := l.uow.Sets().Get(setID)
	if !ok {
		l.logger.Warn("increment set run: set not found", "set_id", setID)
		return false
	}
	if gameID != "" {
		game, ok := l.mutableGame("increment set run", gameID)
		if !ok {
			return false
		}
		if game.Sets == nil {
			game.Sets = map[string]domain.SetSnapshot{}
		}
		snap := game.Sets[setID]
		snap.RunCount += delta
		game.Sets[setID] = snap
		l.uow.Games().Put(game)
	}
	set.RunCount += delta
	l.uow.Sets().Put(set)
	return true
}
