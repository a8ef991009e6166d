package roster

import (
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/statbook/internal/domain"
	"github.com/roach88/statbook/internal/ids"
	"github.com/roach88/statbook/internal/ledger"
	"github.com/roach88/statbook/internal/repo"
)

func TestLoad(t *testing.T) {
	s, err := Load(filepath.Join("testdata", "season.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "2026", s.Season)
	require.Len(t, s.Teams, 2)
	assert.Equal(t, "hawks.png", s.Teams[0].Image)
	assert.Len(t, s.Teams[0].Players, 2)
	assert.Len(t, s.Teams[0].Sets, 2)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join("testdata", "nope.yaml"))
	assert.Error(t, err)
}

func TestParse_RejectsUnknownFields(t *testing.T) {
	_, err := Parse([]byte("teams:\n  - name: Hawks\n    coach: Pat\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "coach")
}

func TestParse_SchemaViolations(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"no teams", "season: x\n"},
		{"empty team list", "teams: []\n"},
		{"blank team name", "teams:\n  - name: '  '\n"},
		{"number out of range", "teams:\n  - name: Hawks\n    players:\n      - name: Ann\n        number: 100\n"},
		{"negative number", "teams:\n  - name: Hawks\n    players:\n      - name: Ann\n        number: -1\n"},
		{"blank set name", "teams:\n  - name: Hawks\n    sets:\n      - name: ''\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.doc))
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.NotEmpty(t, verr.Problems)
		})
	}
}

func TestParse_Duplicates(t *testing.T) {
	doc := `
teams:
  - name: Hawks
    players:
      - {name: Ann, number: 4}
      - {name: Bea, number: 4}
    sets:
      - name: Zone
      - name: " Zone"
  - name: Hawks
`
	_, err := Parse([]byte(doc))
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Len(t, verr.Problems, 3)
}

func TestApply_Idempotent(t *testing.T) {
	s, err := Load(filepath.Join("testdata", "season.yaml"))
	require.NoError(t, err)

	r := repo.NewRepository()
	l := ledger.New(r, ids.UUIDv7Generator{}, slog.New(slog.NewTextHandler(io.Discard, nil)))

	sum := Apply(l, r, s)
	assert.Equal(t, Summary{TeamsAdded: 2, PlayersAdded: 3, SetsAdded: 2}, sum)

	hawks := r.Teams().Filter(func(t domain.Team) bool { return t.Name == "Hawks" })
	require.Len(t, hawks, 1)
	assert.Equal(t, "hawks.png", hawks[0].ImageRef)

	jose := r.Players().Filter(func(p domain.Player) bool { return p.Number == 11 })
	require.Len(t, jose, 1)
	assert.Equal(t, "José Ruiz", jose[0].Name, "names are stored in NFC")
	assert.Equal(t, hawks[0].ID, jose[0].TeamID)

	again := Apply(l, r, s)
	assert.Equal(t, Summary{Existing: 7}, again)
	assert.Equal(t, 2, r.Teams().Len())
	assert.Equal(t, 3, r.Players().Len())
	assert.Equal(t, 2, r.Sets().Len())
}
