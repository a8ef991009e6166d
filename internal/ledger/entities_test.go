package ledger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/statbook/internal/domain"
	"github.com/roach88/statbook/internal/stats"
)

func TestAddEntities_AssignFreshIDs(t *testing.T) {
	f := newFixture(t)

	team, ok := f.repo.Teams().Get("team-1")
	require.True(t, ok)
	assert.Equal(t, "Hawks", team.Name)

	player, ok := f.repo.Players().Get("player-2")
	require.True(t, ok)
	assert.Equal(t, 7, player.Number)
	assert.Equal(t, "team-1", player.TeamID)

	g := f.mustGame(t)
	assert.Equal(t, "Owls", g.OpposingTeamName)
	assert.Len(t, g.Periods, 1)
	assert.False(t, g.IsFinished)
}

func TestAddGame_RequiresTeam(t *testing.T) {
	l, r := newTestLedger(t)
	_, ok := l.AddGame("nope", "Owls")
	assert.False(t, ok)
	assert.Zero(t, r.Games().Len())
}

func TestUpdateTeamAndPlayer(t *testing.T) {
	f := newFixture(t)
	name := "  Night Hawks "
	require.True(t, f.l.UpdateTeam("team-1", TeamUpdate{Name: &name}))
	team, _ := f.repo.Teams().Get("team-1")
	assert.Equal(t, "Night Hawks", team.Name)

	number := 23
	require.True(t, f.l.UpdatePlayer("player-1", PlayerUpdate{Number: &number}))
	player, _ := f.repo.Players().Get("player-1")
	assert.Equal(t, 23, player.Number)
	assert.Equal(t, "Ann", player.Name)

	assert.False(t, f.l.UpdateTeam("nope", TeamUpdate{Name: &name}))
	assert.False(t, f.l.UpdatePlayer("nope", PlayerUpdate{}))
}

func TestRemoveEntities(t *testing.T) {
	f := newFixture(t)
	assert.True(t, f.l.RemovePlayer("player-1"))
	assert.False(t, f.l.RemovePlayer("player-1"))
	assert.True(t, f.l.RemoveSet("set-1"))
	assert.False(t, f.l.RemoveSet("set-1"))
	assert.True(t, f.l.RemoveGame(f.game))
	assert.False(t, f.l.RemoveGame(f.game))
	assert.True(t, f.l.RemoveTeam("team-1"))
	assert.False(t, f.l.RemoveTeam("team-1"))
}

func TestSetPlayerActive_CreditsParticipationOnce(t *testing.T) {
	f := newFixture(t)
	require.True(t, f.l.SetPlayerActive(f.game, "player-1", true))
	require.True(t, f.l.SetPlayerActive(f.game, "player-1", false))
	require.True(t, f.l.SetPlayerActive(f.game, "player-1", true))

	g := f.mustGame(t)
	assert.Equal(t, []string{"player-1"}, g.ActivePlayers)
	assert.Equal(t, []string{"player-1"}, g.GamePlayedList)

	assert.False(t, f.l.SetPlayerActive(f.game, "ghost", true))
	assert.False(t, f.l.SetPlayerActive("missing", "player-1", true))
}

func TestSetLineupActive_SeedsSnapshot(t *testing.T) {
	f := newFixture(t)
	require.True(t, f.l.SetLineupActive(f.game, "set-1", true))

	g := f.mustGame(t)
	assert.Equal(t, []string{"set-1"}, g.ActiveSets)
	assert.Contains(t, g.Sets, "set-1")

	require.True(t, f.l.SetLineupActive(f.game, "set-1", false))
	g = f.mustGame(t)
	assert.Empty(t, g.ActiveSets)
	assert.Contains(t, g.Sets, "set-1", "history survives deactivation")

	assert.False(t, f.l.SetLineupActive(f.game, "ghost", true))
}

func TestDirectStatUpdates(t *testing.T) {
	f := newFixture(t)

	require.True(t, f.l.UpdateBoxScore(f.game, "player-1", stats.Blocks, 2))
	require.True(t, f.l.UpdateTotals(f.game, stats.Blocks, 2, stats.Us))
	require.True(t, f.l.UpdateTeamStats("team-1", stats.Steals, 1, stats.Opponent))
	require.True(t, f.l.UpdatePlayerStats("player-1", stats.FoulsDrawn, 3))
	require.True(t, f.l.UpdateSetStats(f.game, "set-1", stats.Deflections, 1))
	require.True(t, f.l.IncrementSetRun(f.game, "set-1", 2))

	g := f.mustGame(t)
	assert.Equal(t, 2, g.BoxScore["player-1"].Get(stats.Blocks))
	assert.Equal(t, 2, g.StatTotals.Us.Get(stats.Blocks))
	assert.Equal(t, 1, g.Sets["set-1"].Stats.Get(stats.Deflections))
	assert.Equal(t, 2, g.Sets["set-1"].RunCount)

	team, _ := f.repo.Teams().Get("team-1")
	assert.Equal(t, 1, team.Stats.Opponent.Get(stats.Steals))
	player, _ := f.repo.Players().Get("player-1")
	assert.Equal(t, 3, player.Stats.Get(stats.FoulsDrawn))
	set, _ := f.repo.Sets().Get("set-1")
	assert.Equal(t, 1, set.Stats.Get(stats.Deflections))
	assert.Equal(t, 2, set.RunCount)

	require.True(t, f.l.UpdateSetStats("", "set-1", stats.Deflections, 1))
	set, _ = f.repo.Sets().Get("set-1")
	assert.Equal(t, 2, set.Stats.Get(stats.Deflections))

	assert.False(t, f.l.UpdateTeamStats("nope", stats.Steals, 1, stats.Us))
	assert.False(t, f.l.UpdatePlayerStats("nope", stats.Steals, 1))
	assert.False(t, f.l.UpdateSetStats("", "nope", stats.Steals, 1))
	assert.False(t, f.l.IncrementSetRun("", "nope", 1))
	assert.False(t, f.l.UpdateBoxScore("nope", "player-1", stats.Steals, 1))

	before := f.mustGame(t)
	assert.False(t, f.l.UpdateBoxScore(f.game, "ghost", stats.Steals, 1))
	assert.False(t, f.l.UpdateBoxScore(f.game, domain.OpponentID, stats.Steals, 1))
	assert.Equal(t, before, f.mustGame(t))
}

func TestCompleteGame_DrawThroughLedger(t *testing.T) {
	f := newFixture(t)
	require.True(t, f.l.SetPlayerActive(f.game, "player-1", true))
	require.True(t, f.l.SetPlayerActive(f.game, "player-2", true))
	require.True(t, f.l.UpdateTotals(f.game, stats.Points, 88, stats.Us))
	require.True(t, f.l.UpdateTotals(f.game, stats.Points, 88, stats.Opponent))

	require.True(t, f.l.CompleteGame(f.game, "team-1"))

	draw := domain.GameNumbers{Draws: 1, GamesPlayed: 1}
	team, _ := f.repo.Teams().Get("team-1")
	assert.Equal(t, draw, team.GameNumbers)
	assert.Equal(t, 88, team.Stats.Us.Get(stats.Points))
	for _, id := range []string{"player-1", "player-2"} {
		p, _ := f.repo.Players().Get(id)
		assert.Equal(t, draw, p.GameNumbers, id)
	}
	assert.True(t, f.mustGame(t).IsFinished)

	assert.False(t, f.l.CompleteGame(f.game, "team-1"), "second completion is a conflict")
	team, _ = f.repo.Teams().Get("team-1")
	assert.Equal(t, draw, team.GameNumbers)
	assert.Equal(t, 88, team.Stats.Us.Get(stats.Points))
}

func TestCompleteReopen_KeepsGamesPlayedInvariant(t *testing.T) {
	f := newFixture(t)
	require.True(t, f.l.SetPlayerActive(f.game, "player-1", true))
	f.l.RecordPlay(Play{GameID: f.game, PlayerID: "player-1", Stats: keys(stats.TwoPointMakes), Side: stats.Us})

	ops := []func() bool{
		func() bool { return f.l.CompleteGame(f.game, "team-1") },
		func() bool { return f.l.CompleteGame(f.game, "team-1") },
		func() bool { return f.l.ReopenGame(f.game, "team-1") },
		func() bool { return f.l.ReopenGame(f.game, "team-1") },
		func() bool { return f.l.CompleteGame(f.game, "team-1") },
	}
	for _, op := range ops {
		op()
		team, _ := f.repo.Teams().Get("team-1")
		assert.True(t, team.GameNumbers.Consistent(), "team %v", team.GameNumbers)
		player, _ := f.repo.Players().Get("player-1")
		assert.True(t, player.GameNumbers.Consistent(), "player %v", player.GameNumbers)
	}

	team, _ := f.repo.Teams().Get("team-1")
	assert.Equal(t, domain.GameNumbers{Wins: 1, GamesPlayed: 1}, team.GameNumbers)
	player, _ := f.repo.Players().Get("player-1")
	assert.Equal(t, 2, player.Stats.Get(stats.Points), "career stats folded once")
}

func TestReopenGame_UnfoldsCareerStats(t *testing.T) {
	f := newFixture(t)
	f.l.RecordPlay(Play{GameID: f.game, PlayerID: "player-2", Stats: keys(stats.ThreePointMakes), Side: stats.Us})
	require.True(t, f.l.CompleteGame(f.game, ""))
	require.True(t, f.l.ReopenGame(f.game, ""))

	player, _ := f.repo.Players().Get("player-2")
	assert.Equal(t, stats.Vector{}, player.Stats)
	team, _ := f.repo.Teams().Get("team-1")
	assert.Equal(t, stats.SideTotals{}, team.Stats)
	assert.True(t, team.GameNumbers.IsZero())
	assert.False(t, f.mustGame(t).IsFinished)
}
