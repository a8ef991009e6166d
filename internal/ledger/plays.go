package ledger

import (
	"github.com/roach88/statbook/internal/domain"
	"github.com/roach88/statbook/internal/stats"
)

// Play is one recorded event.
type Play struct {
	GameID   string
	PlayerID string // Player id or domain.OpponentID
	Stats    []stats.Key
	Period   int
	Side     stats.Side

	// SetID names the lineup the play is attributed to, if any.
	SetID string
}

// Outcome reports what RecordPlay did.
type Outcome struct {
	OK        bool
	Points    int
	RunClosed bool // The play closed a possession for the active lineup
}

// RecordPlay applies a play to the game and prepends it to the period log.
func (l *Ledger) RecordPlay(p Play) Outcome {
	if len(p.Stats) == 0 {
		l.logger.Warn("record play: no stats given", "game_id", p.GameID)
		return Outcome{}
	}
	for _, k := range p.Stats {
		if !k.Valid() {
			l.logger.Warn("record play: invalid stat key", "game_id", p.GameID, "key", int(k))
			return Outcome{}
		}
	}
	if p.Period < 0 {
		l.logger.Warn("record play: period not found", "game_id", p.GameID, "period", p.Period)
		return Outcome{}
	}
	if p.PlayerID != domain.OpponentID && !l.uow.Players().Has(p.PlayerID) {
		l.logger.Warn("record play: player not found", "game_id", p.GameID, "player_id", p.PlayerID)
		return Outcome{}
	}
	if p.SetID != "" && !l.uow.Sets().Has(p.SetID) {
		l.logger.Warn("record play: set not found", "game_id", p.GameID, "set_id", p.SetID)
		return Outcome{}
	}
	game, ok := l.mutableGame("record play", p.GameID)
	if !ok {
		return Outcome{}
	}

	added := max(0, p.Period+1-len(game.Periods))
	game.Periods = materializePeriod(game.Periods, p.Period)
	prior := game.Periods[p.Period].FreeThrow
	runClosed := ShouldIncrementSetRun(p.PlayerID, p.Stats, prior == domain.InFreeThrowRun)

	entry := domain.PlayByPlayEntry{
		PlayerID:       p.PlayerID,
		Action:         p.Stats[0],
		Actions:        append([]stats.Key(nil), p.Stats...),
		Side:           p.Side,
		SetID:          p.SetID,
		PriorFreeThrow: prior,
		RunCounted:     runClosed && p.SetID != "",
		AddedPeriods:   added,
	}
	if entry.Points() != 0 {
		entry.OnCourt = append([]string(nil), game.ActivePlayers...)
	}

	applyEntry(&game, p.Period, entry, 1)

	period := &game.Periods[p.Period]
	period.PlayByPlay = append([]domain.PlayByPlayEntry{entry}, period.PlayByPlay...)
	period.FreeThrow = NextFreeThrowState(prior, p.Stats)

	l.uow.Games().Put(game)
	l.applySetEntity(entry, 1)

	l.logger.Debug("play recorded",
		"game_id", p.GameID,
		"player_id", p.PlayerID,
		"action", entry.Action,
		"period", p.Period,
		"side", p.Side,
		"points", entry.Points(),
		"run_closed", runClosed,
	)
	return Outcome{OK: true, Points: entry.Points(), RunClosed: runClosed}
}

// UndoLastPlay removes the most recent play in the period and reverses it
// exactly, including the period's free-throw state. Periods the play
// materialized are dropped again while they are still empty.
func (l *Ledger) UndoLastPlay(gameID string, period int) bool {
	game, ok := l.mutableGame("undo play", gameID)
	if !ok {
		return false
	}
	if period < 0 || period >= len(game.Periods) || len(game.Periods[period].PlayByPlay) == 0 {
		l.logger.Warn("undo play: nothing to undo", "game_id", gameID, "period", period)
		return false
	}

	entry := game.Periods[period].PlayByPlay[0]
	l.removeEntry(&game, period, 0)
	game.Periods[period].FreeThrow = entry.PriorFreeThrow
	game.Periods = trimPeriods(game.Periods, entry.AddedPeriods)

	l.uow.Games().Put(game)
	l.applySetEntity(entry, -1)

	l.logger.Debug("play undone", "game_id", gameID, "period", period, "action", entry.Action)
	return true
}

// RemovePlayFromPeriod removes the play at index (0 is the most recent) and
// reverses its stats. Removing the head play also restores the free-throw
// state; removing an older play leaves it alone.
func (l *Ledger) RemovePlayFromPeriod(gameID string, period, index int) bool {
	if index == 0 {
		return l.UndoLastPlay(gameID, period)
	}
	game, ok := l.mutableGame("remove play", gameID)
	if !ok {
		return false
	}
	if period < 0 || period >= len(game.Periods) {
		l.logger.Warn("remove play: period not found", "game_id", gameID, "period", period)
		return false
	}
	if index < 0 || index >= len(game.Periods[period].PlayByPlay) {
		l.logger.Warn("remove play: play not found", "game_id", gameID, "period", period, "index", index)
		return false
	}

	entry := game.Periods[period].PlayByPlay[index]
	l.removeEntry(&game, period, index)

	l.uow.Games().Put(game)
	l.applySetEntity(entry, -1)
	return true
}

// ResetPeriod zeroes the period's scores and clears its log. Box score and
// side totals are left as they are; callers wanting a full rollback revert
// those separately.
func (l *Ledger) ResetPeriod(gameID string, period int) bool {
	if period < 0 {
		l.logger.Warn("reset period: period not found", "game_id", gameID, "period", period)
		return false
	}
	game, ok := l.mutableGame("reset period", gameID)
	if !ok {
		return false
	}
	game.Periods = materializePeriod(game.Periods, period)
	game.Periods[period] = domain.Period{}
	l.uow.Games().Put(game)
	return true
}

func (l *Ledger) removeEntry(game *domain.Game, period, index int) {
	entry := game.Periods[period].PlayByPlay[index]
	applyEntry(game, period, entry, -1)

	log := game.Periods[period].PlayByPlay
	out := make([]domain.PlayByPlayEntry, 0, len(log)-1)
	out = append(out, log[:index]...)
	out = append(out, log[index+1:]...)
	game.Periods[period].PlayByPlay = out
}

// applyEntry applies (sign=1) or reverses (sign=-1) a play's effect on the
// game record. It does not touch the play-by-play log.
func applyEntry(game *domain.Game, period int, e domain.PlayByPlayEntry, sign int) {
	isOpponent := e.PlayerID == domain.OpponentID
	points := e.Points() * sign

	if game.BoxScore == nil {
		game.BoxScore = map[string]stats.Vector{}
	}

	for _, k := range e.Actions {
		if !isOpponent {
			game.BoxScore[e.PlayerID] = stats.ApplyDelta(game.BoxScore[e.PlayerID], k, sign)
		}
		game.StatTotals = stats.ApplyDeltaForSide(game.StatTotals, k, sign, e.Side)
	}

	if points != 0 {
		if !isOpponent {
			game.BoxScore[e.PlayerID] = stats.ApplyDelta(game.BoxScore[e.PlayerID], stats.Points, points)
		}
		game.StatTotals = stats.ApplyDeltaForSide(game.StatTotals, stats.Points, points, e.Side)

		p := &game.Periods[period]
		if e.Side == stats.Opponent {
			p.Opponent += points
		} else {
			p.Us += points
		}

		swing := stats.SignedPlusMinus(e.Side, points)
		for _, id := range e.OnCourt {
			game.BoxScore[id] = stats.ApplyDelta(game.BoxScore[id], stats.PlusMinus, swing)
		}
	}

	if e.SetID != "" {
		if game.Sets == nil {
			game.Sets = map[string]domain.SetSnapshot{}
		}
		snap := game.Sets[e.SetID]
		snap.Stats = applyLineup(snap.Stats, e, sign)
		if e.RunCounted {
			snap.RunCount += sign
		}
		game.Sets[e.SetID] = snap
	}
}

// applyLineup folds a play into a lineup vector. The lineup collects its own
// side's stats and the plus/minus swing of every scoring play.
func applyLineup(v stats.Vector, e domain.PlayByPlayEntry, sign int) stats.Vector {
	points := e.Points() * sign
	if e.Side == stats.Us {
		for _, k := range e.Actions {
			v = stats.ApplyDelta(v, k, sign)
		}
		v = stats.ApplyDelta(v, stats.Points, points)
	}
	return stats.ApplyDelta(v, stats.PlusMinus, stats.SignedPlusMinus(e.Side, points))
}

// applySetEntity mirrors a play's lineup effect onto the Set entity.
func (l *Ledger) applySetEntity(e domain.PlayByPlayEntry, sign int) {
	if e.SetID == "" {
		return
	}
	set, ok := l.uow.Sets().Get(e.SetID)
	if !ok {
		l.logger.Warn("lineup not found, game snapshot updated only", "set_id", e.SetID)
		return
	}
	set.Stats = applyLineup(set.Stats, e, sign)
	if e.RunCounted {
		set.RunCount += sign
	}
	l.uow.Sets().Put(set)
}
