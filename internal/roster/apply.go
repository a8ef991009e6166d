package roster

import (
	"github.com/roach88/statbook/internal/domain"
	"github.com/roach88/statbook/internal/ledger"
	"github.com/roach88/statbook/internal/repo"
)

// Summary counts what Apply created and what already existed.
type Summary struct {
	TeamsAdded   int `json:"teams_added"`
	PlayersAdded int `json:"players_added"`
	SetsAdded    int `json:"sets_added"`
	Existing     int `json:"existing"`
}

// Apply adds the season's teams, players and sets through the ledger.
// Entities already present (same normalized name, and for players the same
// team and number) are left alone, so re-importing a file is a no-op.
func Apply(l *ledger.Ledger, uow repo.UnitOfWork, s *Season) Summary {
	var sum Summary
	for _, t := range s.Teams {
		name := domain.NormalizeName(t.Name)
		team, found := findTeam(uow, name)
		if found {
			sum.Existing++
		} else {
			team = l.AddTeam(name, t.Image)
			sum.TeamsAdded++
		}

		for _, p := range t.Players {
			if hasPlayer(uow, team.ID, p.Number) {
				sum.Existing++
				continue
			}
			l.AddPlayer(p.Name, p.Number, team.ID)
			sum.PlayersAdded++
		}
		for _, set := range t.Sets {
			if hasSet(uow, team.ID, domain.NormalizeName(set.Name)) {
				sum.Existing++
				continue
			}
			l.AddSet(set.Name, team.ID)
			sum.SetsAdded++
		}
	}
	return sum
}

func findTeam(uow repo.UnitOfWork, name string) (domain.Team, bool) {
	teams := uow.Teams().Filter(func(t domain.Team) bool { return t.Name == name })
	if len(teams) == 0 {
		return domain.Team{}, false
	}
	return teams[0], true
}

func hasPlayer(uow repo.UnitOfWork, teamID string, number int) bool {
	return len(uow.Players().Filter(func(p domain.Player) bool {
		return p.TeamID == teamID && p.Number == number
	})) > 0
}

func hasSet(uow repo.UnitOfWork, teamID, name string) bool {
	return len(uow.Sets().Filter(func(s domain.Set) bool {
		return s.TeamID == teamID && s.Name == name
	})) > 0
}
