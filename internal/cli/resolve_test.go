package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/statbook/internal/domain"
	"github.com/roach88/statbook/internal/repo"
)

func rosterRepo() *repo.Repository {
	r := repo.NewRepository()
	r.Teams().Put(domain.Team{ID: "0192aaaa-t1", Name: "Hawks"})
	r.Teams().Put(domain.Team{ID: "0192bbbb-t2", Name: "Owls"})
	r.Players().Put(domain.Player{ID: "p1", Name: "Ann Lee", Number: 4, TeamID: "0192aaaa-t1"})
	r.Players().Put(domain.Player{ID: "p2", Name: "José Ruiz", Number: 11, TeamID: "0192aaaa-t1"})
	r.Players().Put(domain.Player{ID: "p3", Name: "Ann Lea", Number: 4, TeamID: "0192bbbb-t2"})
	r.Sets().Put(domain.Set{ID: "s1", Name: "Zone", TeamID: "0192aaaa-t1"})
	r.Games().Put(domain.Game{ID: "0192cccc-g1", TeamID: "0192aaaa-t1"})
	r.Games().Put(domain.Game{ID: "0192cccd-g2", TeamID: "0192aaaa-t1"})
	return r
}

func TestResolveTeam(t *testing.T) {
	r := rosterRepo()
	tests := []struct {
		query string
		want  string
	}{
		{"0192aaaa-t1", "0192aaaa-t1"},
		{"hawks", "0192aaaa-t1"},
		{"  OWLS ", "0192bbbb-t2"},
		{"0192bb", "0192bbbb-t2"},
		{"Hawk", "0192aaaa-t1"},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			got, err := resolveTeam(r, tt.query)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := resolveTeam(r, "0192")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ambiguous")

	_, err = resolveTeam(r, "Eagles")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `team "Eagles" not found`)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestResolvePlayer(t *testing.T) {
	r := rosterRepo()

	got, err := resolvePlayer(r, "0192aaaa-t1", "jose ruiz")
	require.NoError(t, err)
	assert.Equal(t, "p2", got)

	got, err = resolvePlayer(r, "0192aaaa-t1", "#4")
	require.NoError(t, err)
	assert.Equal(t, "p1", got)

	_, err = resolvePlayer(r, "", "#4")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ambiguous")

	_, err = resolvePlayer(r, "", "ann le")
	require.Error(t, err, "equally close to two players")
	assert.Contains(t, err.Error(), "p1, p3")

	got, err = resolvePlayer(r, "0192bbbb-t2", "ann le")
	require.NoError(t, err)
	assert.Equal(t, "p3", got)

	_, err = resolvePlayer(r, "", "#x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid jersey number")
}

func TestResolveGame_IDsOnly(t *testing.T) {
	r := rosterRepo()

	got, err := resolveGame(r, "0192cccd")
	require.NoError(t, err)
	assert.Equal(t, "0192cccd-g2", got)

	_, err = resolveGame(r, "0192ccc")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ambiguous")

	_, err = resolveGame(r, "g1")
	require.Error(t, err, "short refs must match an id exactly")
}

func TestResolveEntity(t *testing.T) {
	r := rosterRepo()

	got, err := resolveEntity(r, "set", "zone")
	require.NoError(t, err)
	assert.Equal(t, "s1", got)

	_, err = resolveEntity(r, "league", "x")
	assert.Error(t, err)
}
