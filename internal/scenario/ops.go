package scenario

import (
	"fmt"

	"github.com/roach88/statbook/internal/cascade"
	"github.com/roach88/statbook/internal/domain"
	"github.com/roach88/statbook/internal/ledger"
	"github.com/roach88/statbook/internal/stats"
)

// outcome is what one step did. entity is the id the journal files it under.
type outcome struct {
	ok     bool
	detail string
	entity string
}

func done(ok bool, entity string) outcome {
	return outcome{ok: ok, entity: entity}
}

type opFunc func(r *runner, a *argReader) outcome

var operations = map[string]opFunc{
	"team.add":       opTeamAdd,
	"team.update":    opTeamUpdate,
	"team.remove":    opTeamRemove,
	"player.add":     opPlayerAdd,
	"player.update":  opPlayerUpdate,
	"player.remove":  opPlayerRemove,
	"set.add":        opSetAdd,
	"set.remove":     opSetRemove,
	"game.add":       opGameAdd,
	"game.remove":    opGameRemove,
	"player.active":  opPlayerActive,
	"set.active":     opSetActive,
	"play.record":    opPlayRecord,
	"play.undo":      opPlayUndo,
	"play.remove":    opPlayRemove,
	"period.reset":   opPeriodReset,
	"box.update":     opBoxUpdate,
	"totals.update":  opTotalsUpdate,
	"team.stats":     opTeamStats,
	"player.stats":   opPlayerStats,
	"set.stats":      opSetStats,
	"set.run":        opSetRun,
	"game.complete":  opGameComplete,
	"game.reopen":    opGameReopen,
	"delete":         opDelete,
	"audit.correct":  opAuditCorrect,
	"validate.fix":   opValidateFix,
	"team.numbers":   opTeamNumbers,
	"player.numbers": opPlayerNumbers,
}

// guard runs fn only if every argument was read cleanly.
func (r *runner) guard(a *argReader, fn func() outcome) outcome {
	if a.err != nil {
		return outcome{}
	}
	return fn()
}

func opTeamAdd(r *runner, a *argReader) outcome {
	id, name, image := a.str("id"), a.str("name"), a.optStr("image")
	return r.guard(a, func() outcome {
		r.gen.Push(id)
		return done(true, r.ledger.AddTeam(name, image).ID)
	})
}

func opTeamUpdate(r *runner, a *argReader) outcome {
	id := a.str("team")
	var u ledger.TeamUpdate
	if _, ok := a.args["name"]; ok {
		name := a.str("name")
		u.Name = &name
	}
	if _, ok := a.args["image"]; ok {
		image := a.str("image")
		u.ImageRef = &image
	}
	return r.guard(a, func() outcome { return done(r.ledger.UpdateTeam(id, u), id) })
}

func opPlayerAdd(r *runner, a *argReader) outcome {
	id, name, number, team := a.str("id"), a.str("name"), a.integer("number"), a.str("team")
	return r.guard(a, func() outcome {
		r.gen.Push(id)
		return done(true, r.ledger.AddPlayer(name, number, team).ID)
	})
}

func opPlayerUpdate(r *runner, a *argReader) outcome {
	id := a.str("player")
	var u ledger.PlayerUpdate
	if _, ok := a.args["name"]; ok {
		name := a.str("name")
		u.Name = &name
	}
	if _, ok := a.args["number"]; ok {
		number := a.integer("number")
		u.Number = &number
	}
	if _, ok := a.args["team"]; ok {
		team := a.str("team")
		u.TeamID = &team
	}
	return r.guard(a, func() outcome { return done(r.ledger.UpdatePlayer(id, u), id) })
}

func opSetAdd(r *runner, a *argReader) outcome {
	id, name, team := a.str("id"), a.str("name"), a.str("team")
	return r.guard(a, func() outcome {
		r.gen.Push(id)
		return done(true, r.ledger.AddSet(name, team).ID)
	})
}

func opGameAdd(r *runner, a *argReader) outcome {
	id, team, opp := a.str("id"), a.str("team"), a.str("opponent")
	periods := a.optInteger("periods", 1)
	return r.guard(a, func() outcome {
		r.gen.Push(id)
		game, ok := r.ledger.AddGame(team, opp)
		if !ok {
			// The pushed id was not consumed; drain it so it cannot leak
			// into the next add.
			r.gen.Generate()
			return done(false, id)
		}
		if periods > 1 {
			r.ledger.ResetPeriod(game.ID, periods-1)
		}
		return done(true, game.ID)
	})
}

func opPlayerActive(r *runner, a *argReader) outcome {
	game, player, active := a.str("game"), a.str("player"), a.optBool("active", true)
	return r.guard(a, func() outcome { return done(r.ledger.SetPlayerActive(game, player, active), game) })
}

func opSetActive(r *runner, a *argReader) outcome {
	game, set, active := a.str("game"), a.str("set"), a.optBool("active", true)
	return r.guard(a, func() outcome { return done(r.ledger.SetLineupActive(game, set, active), game) })
}

func opPlayRecord(r *runner, a *argReader) outcome {
	p := ledger.Play{
		GameID:   a.str("game"),
		PlayerID: a.str("player"),
		Stats:    a.keys("stats"),
		Period:   a.optInteger("period", 0),
		SetID:    a.optStr("set"),
	}
	p.Side = a.side("side")
	if _, given := a.args["side"]; !given && p.PlayerID == domain.OpponentID {
		p.Side = stats.Opponent
	}
	return r.guard(a, func() outcome {
		out := r.ledger.RecordPlay(p)
		o := done(out.OK, p.GameID)
		if out.OK {
			o.detail = fmt.Sprintf("points=%d run=%t", out.Points, out.RunClosed)
		}
		return o
	})
}

func opPlayUndo(r *runner, a *argReader) outcome {
	game, period := a.str("game"), a.optInteger("period", 0)
	return r.guard(a, func() outcome { return done(r.ledger.UndoLastPlay(game, period), game) })
}

func opPlayRemove(r *runner, a *argReader) outcome {
	game, period, index := a.str("game"), a.optInteger("period", 0), a.integer("index")
	return r.guard(a, func() outcome { return done(r.ledger.RemovePlayFromPeriod(game, period, index), game) })
}

func opPeriodReset(r *runner, a *argReader) outcome {
	game, period := a.str("game"), a.integer("period")
	return r.guard(a, func() outcome { return done(r.ledger.ResetPeriod(game, period), game) })
}

func opBoxUpdate(r *runner, a *argReader) outcome {
	game, player, k, amount := a.str("game"), a.str("player"), a.key("stat"), a.integer("amount")
	return r.guard(a, func() outcome { return done(r.ledger.UpdateBoxScore(game, player, k, amount), game) })
}

func opTotalsUpdate(r *runner, a *argReader) outcome {
	game, k, amount, side := a.str("game"), a.key("stat"), a.integer("amount"), a.side("side")
	return r.guard(a, func() outcome { return done(r.ledger.UpdateTotals(game, k, amount, side), game) })
}

func opTeamStats(r *runner, a *argReader) outcome {
	team, k, amount, side := a.str("team"), a.key("stat"), a.integer("amount"), a.side("side")
	return r.guard(a, func() outcome { return done(r.ledger.UpdateTeamStats(team, k, amount, side), team) })
}

func opPlayerStats(r *runner, a *argReader) outcome {
	player, k, amount := a.str("player"), a.key("stat"), a.integer("amount")
	return r.guard(a, func() outcome { return done(r.ledger.UpdatePlayerStats(player, k, amount), player) })
}

func opSetStats(r *runner, a *argReader) outcome {
	game, set, k, amount := a.optStr("game"), a.str("set"), a.key("stat"), a.integer("amount")
	return r.guard(a, func() outcome { return done(r.ledger.UpdateSetStats(game, set, k, amount), set) })
}

func opSetRun(r *runner, a *argReader) outcome {
	game, set, delta := a.optStr("game"), a.str("set"), a.integer("delta")
	return r.guard(a, func() outcome { return done(r.ledger.IncrementSetRun(game, set, delta), set) })
}

func opGameComplete(r *runner, a *argReader) outcome {
	game, team := a.str("game"), a.optStr("team")
	return r.guard(a, func() outcome { return done(r.ledger.CompleteGame(game, team), game) })
}

func opGameReopen(r *runner, a *argReader) outcome {
	game, team := a.str("game"), a.optStr("team")
	return r.guard(a, func() outcome { return done(r.ledger.ReopenGame(game, team), game) })
}

func opDelete(r *runner, a *argReader) outcome {
	typ, id := a.str("type"), a.str("id")
	t, err := cascade.ParseEntityType(typ)
	if err != nil && a.err == nil {
		a.err = err
	}
	return r.guard(a, func() outcome {
		info := r.cascade.GetDeletionInfo(t, id)
		o := done(r.cascade.Delete(t, id), id)
		if o.ok {
			o.detail = fmt.Sprintf("games=%d players=%d sets=%d", len(info.Games), len(info.Players), len(info.Sets))
		}
		return o
	})
}

func opAuditCorrect(r *runner, a *argReader) outcome {
	c := r.auditor.CorrectGameCounts()
	return outcome{ok: true, detail: fmt.Sprintf("teams=%d players=%d", c.TeamsUpdated, c.PlayersUpdated)}
}

func opValidateFix(r *runner, a *argReader) outcome {
	n := r.auditor.RunFullValidation().ApplyFixes()
	return outcome{ok: true, detail: fmt.Sprintf("fixed=%d", n)}
}

func readNumbers(a *argReader) domain.GameNumbers {
	return domain.GameNumbers{
		Wins:        a.optInteger("wins", 0),
		Losses:      a.optInteger("losses", 0),
		Draws:       a.optInteger("draws", 0),
		GamesPlayed: a.optInteger("games_played", 0),
	}
}

// opTeamNumbers overwrites stored numbers directly, bypassing the ledger, to
// simulate drift.
func opTeamNumbers(r *runner, a *argReader) outcome {
	id, n := a.str("team"), readNumbers(a)
	return r.guard(a, func() outcome {
		team, ok := r.repo.Teams().Get(id)
		if !ok {
			return done(false, id)
		}
		team.GameNumbers = n
		r.repo.Teams().Put(team)
		return done(true, id)
	})
}

func opPlayerNumbers(r *runner, a *argReader) outcome {
	id, n := a.str("player"), readNumbers(a)
	return r.guard(a, func() outcome {
		player, ok := r.repo.Players().Get(id)
		if !ok {
			return done(false, id)
		}
		player.GameNumbers = n
		r.repo.Players().Put(player)
		return done(true, id)
	})
}

func opTeamRemove(r *runner, a *argReader) outcome {
	id := a.str("team")
	return r.guard(a, func() outcome { return done(r.ledger.RemoveTeam(id), id) })
}

func opPlayerRemove(r *runner, a *argReader) outcome {
	id := a.str("player")
	return r.guard(a, func() outcome { return done(r.ledger.RemovePlayer(id), id) })
}

func opSetRemove(r *runner, a *argReader) outcome {
	id := a.str("set")
	return r.guard(a, func() outcome { return done(r.ledger.RemoveSet(id), id) })
}

func opGameRemove(r *runner, a *argReader) outcome {
	id := a.str("game")
	return r.guard(a, func() outcome { return done(r.ledger.RemoveGame(id), id) })
}
