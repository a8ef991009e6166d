package scenario

import (
	"fmt"
	"log/slog"

	"github.com/roach88/statbook/internal/audit"
	"github.com/roach88/statbook/internal/domain"
	"github.com/roach88/statbook/internal/repo"
	"github.com/roach88/statbook/internal/stats"
)

func checkAssertions(r *repo.Repository, journalLen int, assertions []Assertion, result *Result, logger *slog.Logger) {
	auditor := audit.New(r, logger)
	for i, a := range assertions {
		if err := check(r, auditor, journalLen, a); err != nil {
			result.failf("assertion %d (%s): %v", i+1, a.Type, err)
		}
	}
}

func check(r *repo.Repository, auditor *audit.Auditor, journalLen int, a Assertion) error {
	switch a.Type {
	case AssertPeriodScore:
		g, err := game(r, a.Game)
		if err != nil {
			return err
		}
		if a.Period < 0 || a.Period >= len(g.Periods) {
			return fmt.Errorf("game %s has no period %d", a.Game, a.Period)
		}
		p := g.Periods[a.Period]
		if p.Us != a.Us || p.Opponent != a.Opponent {
			return fmt.Errorf("period %d score %d-%d, want %d-%d", a.Period, p.Us, p.Opponent, a.Us, a.Opponent)
		}
		return nil

	case AssertGameNumbers:
		want := domain.GameNumbers{Wins: a.Wins, Losses: a.Losses, Draws: a.Draws, GamesPlayed: a.GamesPlayed}
		var got domain.GameNumbers
		switch {
		case a.Team != "":
			t, ok := r.Teams().Get(a.Team)
			if !ok {
				return fmt.Errorf("team %s not found", a.Team)
			}
			got = t.GameNumbers
		case a.Player != "":
			p, ok := r.Players().Get(a.Player)
			if !ok {
				return fmt.Errorf("player %s not found", a.Player)
			}
			got = p.GameNumbers
		default:
			return fmt.Errorf("team or player is required")
		}
		if got != want {
			return fmt.Errorf("numbers %s, want %s", got, want)
		}
		return nil

	case AssertStat:
		got, err := statValue(r, a)
		if err != nil {
			return err
		}
		return compareInt("value", got, a.Value)

	case AssertRunCount:
		var got int
		if a.Game != "" {
			g, err := game(r, a.Game)
			if err != nil {
				return err
			}
			got = g.Sets[a.Set].RunCount
		} else {
			s, ok := r.Sets().Get(a.Set)
			if !ok {
				return fmt.Errorf("set %s not found", a.Set)
			}
			got = s.RunCount
		}
		return compareInt("run count", got, a.Value)

	case AssertPlays:
		g, err := game(r, a.Game)
		if err != nil {
			return err
		}
		got := 0
		if a.Period < len(g.Periods) {
			got = len(g.Periods[a.Period].PlayByPlay)
		}
		return compareInt("plays", got, a.Value)

	case AssertFinished:
		g, err := game(r, a.Game)
		if err != nil {
			return err
		}
		return compareBool("finished", g.IsFinished, a.Value)

	case AssertAuditClean:
		return compareBool("audit clean", auditor.AuditGameCounts().Clean(), a.Value)

	case AssertHealth:
		return compareInt("health", auditor.RunFullValidation().Score(a.Collection), a.Value)

	case AssertCount:
		var got int
		switch a.Collection {
		case repo.TeamsCollection:
			got = r.Teams().Len()
		case repo.PlayersCollection:
			got = r.Players().Len()
		case repo.SetsCollection:
			got = r.Sets().Len()
		case repo.GamesCollection:
			got = r.Games().Len()
		default:
			return fmt.Errorf("unknown collection %q", a.Collection)
		}
		return compareInt("count", got, a.Value)

	case AssertJournal:
		return compareInt("journal entries", journalLen, a.Value)
	}
	return fmt.Errorf("unknown assertion type %q", a.Type)
}

// statValue reads one stat. Scope selects the vector: box (game+player),
// totals (game, side), team (team, side), player (career), set (entity) or
// lineup (game+set snapshot).
func statValue(r *repo.Repository, a Assertion) (int, error) {
	k, err := stats.ParseKey(a.Key)
	if err != nil {
		return 0, err
	}
	side := stats.Us
	if a.Side != "" {
		if side, err = stats.ParseSide(a.Side); err != nil {
			return 0, err
		}
	}

	switch a.Scope {
	case "box":
		g, err := game(r, a.Game)
		if err != nil {
			return 0, err
		}
		return g.BoxScore[a.Player].Get(k), nil
	case "totals":
		g, err := game(r, a.Game)
		if err != nil {
			return 0, err
		}
		return g.StatTotals.Get(side).Get(k), nil
	case "lineup":
		g, err := game(r, a.Game)
		if err != nil {
			return 0, err
		}
		return g.Sets[a.Set].Stats.Get(k), nil
	case "team":
		t, ok := r.Teams().Get(a.Team)
		if !ok {
			return 0, fmt.Errorf("team %s not found", a.Team)
		}
		return t.Stats.Get(side).Get(k), nil
	case "player":
		p, ok := r.Players().Get(a.Player)
		if !ok {
			return 0, fmt.Errorf("player %s not found", a.Player)
		}
		return p.Stats.Get(k), nil
	case "set":
		s, ok := r.Sets().Get(a.Set)
		if !ok {
			return 0, fmt.Errorf("set %s not found", a.Set)
		}
		return s.Stats.Get(k), nil
	}
	return 0, fmt.Errorf("unknown scope %q", a.Scope)
}

func game(r *repo.Repository, id string) (domain.Game, error) {
	g, ok := r.Games().Get(id)
	if !ok {
		return domain.Game{}, fmt.Errorf("game %s not found", id)
	}
	return g, nil
}

func compareInt(what string, got int, want any) error {
	n, ok := want.(int)
	if !ok && want != nil {
		return fmt.Errorf("value must be an int, got %T", want)
	}
	if got != n {
		return fmt.Errorf("%s %d, want %d", what, got, n)
	}
	return nil
}

func compareBool(what string, got bool, want any) error {
	b, ok := want.(bool)
	if !ok && want != nil {
		return fmt.Errorf("value must be a bool, got %T", want)
	}
	if got != b {
		return fmt.Errorf("%s %t, want %t", what, got, b)
	}
	return nil
}
