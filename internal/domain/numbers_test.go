package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/statbook/internal/stats"
)

func TestGameNumbers_Record(t *testing.T) {
	n := GameNumbers{}.Record(Win, 1).Record(Draw, 1).Record(Loss, 1)
	assert.Equal(t, GameNumbers{Wins: 1, Losses: 1, Draws: 1, GamesPlayed: 3}, n)
	assert.True(t, n.Consistent())

	n = n.Record(Win, -1)
	assert.Equal(t, GameNumbers{Wins: 0, Losses: 1, Draws: 1, GamesPlayed: 2}, n)
}

func TestGameNumbers_RecordClampsAtZero(t *testing.T) {
	n := GameNumbers{}.Record(Loss, -1)
	assert.Equal(t, GameNumbers{}, n)
	assert.False(t, n.Negative())
}

func TestGameNumbers_UnknownResultIsIdentity(t *testing.T) {
	n := GameNumbers{Wins: 2, GamesPlayed: 2}
	assert.Equal(t, n, n.Record(Result("Forfeit"), 1))
}

func TestGameNumbers_Sub(t *testing.T) {
	stored := GameNumbers{Wins: 5, Losses: 3, Draws: 1, GamesPlayed: 9}
	expected := GameNumbers{Wins: 6, Losses: 1, Draws: 1, GamesPlayed: 8}
	assert.Equal(t, GameNumbers{Wins: -1, Losses: 2, Draws: 0, GamesPlayed: 1}, stored.Sub(expected))
	assert.True(t, expected.Sub(expected).IsZero())
}

func TestFreeThrowState_JSON(t *testing.T) {
	data, err := json.Marshal(InFreeThrowRun)
	require.NoError(t, err)
	assert.Equal(t, `"InFreeThrowRun"`, string(data))

	var s FreeThrowState
	require.NoError(t, json.Unmarshal([]byte(`"Idle"`), &s))
	assert.Equal(t, Idle, s)
	assert.Error(t, json.Unmarshal([]byte(`"Bonus"`), &s))
}

func TestNormalizeName(t *testing.T) {
	// "e" followed by a combining acute accent composes to a single rune.
	assert.Equal(t, "Jos\u00e9", NormalizeName("  Jose\u0301 "))
	assert.Equal(t, "", NormalizeName("   "))
}

func TestGame_CloneDoesNotAlias(t *testing.T) {
	g := Game{
		ID:            "g1",
		ActivePlayers: []string{"p1"},
		BoxScore:      map[string]stats.Vector{"p1": {}},
		Periods: []Period{{
			PlayByPlay: []PlayByPlayEntry{{PlayerID: "p1", Actions: []stats.Key{stats.Steals}}},
		}},
		Sets: map[string]SetSnapshot{"s1": {RunCount: 1}},
	}

	c := g.Clone()
	c.ActivePlayers[0] = "p2"
	c.BoxScore["p1"] = stats.ApplyDelta(c.BoxScore["p1"], stats.Points, 2)
	c.Periods[0].PlayByPlay[0].Actions[0] = stats.Blocks
	c.Sets["s1"] = SetSnapshot{RunCount: 5}

	assert.Equal(t, "p1", g.ActivePlayers[0])
	assert.Zero(t, g.BoxScore["p1"].Get(stats.Points))
	assert.Equal(t, stats.Steals, g.Periods[0].PlayByPlay[0].Actions[0])
	assert.Equal(t, 1, g.Sets["s1"].RunCount)
}

func TestIDHelpers(t *testing.T) {
	ids := []string{"a", "b", "a"}
	assert.True(t, ContainsID(ids, "b"))
	assert.False(t, ContainsID(ids, "c"))
	assert.Equal(t, []string{"b"}, RemoveID(ids, "a"))
}
