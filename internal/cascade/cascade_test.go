package cascade

import (
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/statbook/internal/domain"
	"github.com/roach88/statbook/internal/repo"
	"github.com/roach88/statbook/internal/stats"
)

// twoTeams seeds teams t1 and t2, each with a game, two players and a set.
func twoTeams(t *testing.T) (*Engine, *repo.Repository) {
	t.Helper()
	r := repo.NewRepository()
	for _, team := range []string{"t1", "t2"} {
		r.Teams().Put(domain.Team{ID: team, Name: team})
		r.Players().Put(domain.Player{ID: team + "-p1", TeamID: team})
		r.Players().Put(domain.Player{ID: team + "-p2", TeamID: team})
		r.Sets().Put(domain.Set{ID: team + "-s1", TeamID: team})
		r.Games().Put(domain.Game{
			ID:             team + "-g1",
			TeamID:         team,
			ActivePlayers:  []string{team + "-p1", team + "-p2"},
			GamePlayedList: []string{team + "-p1", team + "-p2"},
			ActiveSets:     []string{team + "-s1"},
			BoxScore:       map[string]stats.Vector{team + "-p1": stats.ApplyDelta(stats.Vector{}, stats.Points, 4)},
			Sets:           map[string]domain.SetSnapshot{team + "-s1": {RunCount: 3}},
		})
	}
	return New(r, slog.New(slog.NewTextHandler(io.Discard, nil))), r
}

func TestGetDeletionInfo_Team(t *testing.T) {
	e, _ := twoTeams(t)
	info := e.GetDeletionInfo(TeamEntity, "t1")

	require.Len(t, info.Games, 1)
	assert.Equal(t, "t1-g1", info.Games[0].ID)
	assert.Len(t, info.Players, 2)
	require.Len(t, info.Sets, 1)
	assert.Equal(t, "t1-s1", info.Sets[0].ID)
}

func TestGetDeletionInfo_PlayerAndSet(t *testing.T) {
	e, _ := twoTeams(t)

	info := e.GetDeletionInfo(PlayerEntity, "t2-p1")
	require.Len(t, info.Games, 1)
	assert.Equal(t, "t2-g1", info.Games[0].ID)
	assert.Empty(t, info.Players)

	info = e.GetDeletionInfo(SetEntity, "t1-s1")
	require.Len(t, info.Games, 1)
	assert.Equal(t, "t1-g1", info.Games[0].ID)

	assert.True(t, e.GetDeletionInfo(PlayerEntity, "nobody").Empty())
}

func TestDeleteTeam_OnlyTouchesOwnedEntities(t *testing.T) {
	e, r := twoTeams(t)
	before := map[string]any{
		"game":   mustGet(t, r.Games(), "t2-g1"),
		"player": mustGet(t, r.Players(), "t2-p1"),
		"set":    mustGet(t, r.Sets(), "t2-s1"),
	}

	require.True(t, e.DeleteTeam("t1"))

	assert.False(t, r.Teams().Has("t1"))
	assert.False(t, r.Games().Has("t1-g1"))
	assert.False(t, r.Players().Has("t1-p1"))
	assert.False(t, r.Players().Has("t1-p2"))
	assert.False(t, r.Sets().Has("t1-s1"))

	assert.True(t, r.Teams().Has("t2"))
	assert.Equal(t, before["game"], mustGet(t, r.Games(), "t2-g1"))
	assert.Equal(t, before["player"], mustGet(t, r.Players(), "t2-p1"))
	assert.Equal(t, before["set"], mustGet(t, r.Sets(), "t2-s1"))
	assert.Equal(t, 1, r.Games().Len())
	assert.Equal(t, 2, r.Players().Len())
	assert.Equal(t, 1, r.Sets().Len())
}

func TestDeletePlayer_DetachesButKeepsHistory(t *testing.T) {
	e, r := twoTeams(t)
	require.True(t, e.DeletePlayer("t1-p1"))

	assert.False(t, r.Players().Has("t1-p1"))
	g := mustGet(t, r.Games(), "t1-g1")
	assert.Equal(t, []string{"t1-p2"}, g.ActivePlayers)
	assert.Equal(t, 4, g.BoxScore["t1-p1"].Get(stats.Points), "box score history stays")
	assert.Contains(t, g.GamePlayedList, "t1-p1")

	assert.Equal(t, []string{"t2-p1", "t2-p2"}, mustGet(t, r.Games(), "t2-g1").ActivePlayers)
}

func TestDeleteSet_DetachesButKeepsSnapshot(t *testing.T) {
	e, r := twoTeams(t)
	require.True(t, e.DeleteSet("t2-s1"))

	g := mustGet(t, r.Games(), "t2-g1")
	assert.Empty(t, g.ActiveSets)
	assert.Equal(t, 3, g.Sets["t2-s1"].RunCount)
	assert.False(t, r.Sets().Has("t2-s1"))
}

func TestDeleteGame_Leaf(t *testing.T) {
	e, r := twoTeams(t)
	require.True(t, e.DeleteGame("t1-g1"))
	assert.Equal(t, 2, r.Teams().Len())
	assert.Equal(t, 4, r.Players().Len())
	assert.False(t, e.DeleteGame("t1-g1"))
}

func TestDelete_MissingIDsAreNoOps(t *testing.T) {
	e, r := twoTeams(t)
	assert.False(t, e.Delete(TeamEntity, "nope"))
	assert.False(t, e.Delete(PlayerEntity, "nope"))
	assert.False(t, e.Delete(SetEntity, "nope"))
	assert.False(t, e.Delete(EntityType("coach"), "nope"))
	assert.Equal(t, 2, r.Teams().Len())
}

func TestParseEntityType(t *testing.T) {
	et, err := ParseEntityType("set")
	require.NoError(t, err)
	assert.Equal(t, SetEntity, et)
	_, err = ParseEntityType("league")
	assert.Error(t, err)
}

func mustGet[T any](t *testing.T, c *repo.Collection[T], id string) T {
	t.Helper()
	v, ok := c.Get(id)
	require.True(t, ok, "missing %s", id)
	return v
}
