package ledger

import (
	"github.com/roach88/statbook/internal/domain"
	"github.com/roach88/statbook/internal/stats"
)

// TeamUpdate lists the team fields to change; nil fields are kept.
type TeamUpdate struct {
	Name     *string
	ImageRef *string
}

// PlayerUpdate lists the player fields to change; nil fields are kept.
type PlayerUpdate struct {
	Name   *string
	Number *int
	TeamID *string
}

// AddTeam creates a team with a fresh id.
func (l *Ledger) AddTeam(name, imageRef string) domain.Team {
	team := domain.Team{
		ID:       l.ids.Generate(),
		Name:     domain.NormalizeName(name),
		ImageRef: imageRef,
	}
	l.uow.Teams().Put(team)
	l.logger.Info("team added", "team_id", team.ID, "name", team.Name)
	return team
}

// UpdateTeam changes a team's name or image reference.
func (l *Ledger) UpdateTeam(teamID string, u TeamUpdate) bool {
	team, ok := l.uow.Teams().Get(teamID)
	if !ok {
		l.logger.Warn("update team: team not found", "team_id", teamID)
		return false
	}
	if u.Name != nil {
		team.Name = domain.NormalizeName(*u.Name)
	}
	if u.ImageRef != nil {
		team.ImageRef = *u.ImageRef
	}
	l.uow.Teams().Put(team)
	return true
}

// RemoveTeam deletes only the team record. Use cascade.Engine.DeleteTeam to
// remove its games, players and sets as well.
func (l *Ledger) RemoveTeam(teamID string) bool {
	if !l.uow.Teams().Delete(teamID) {
		l.logger.Warn("remove team: team not found", "team_id", teamID)
		return false
	}
	return true
}

// AddPlayer creates a player with a fresh id. The team need not exist yet.
func (l *Ledger) AddPlayer(name string, number int, teamID string) domain.Player {
	player := domain.Player{
		ID:     l.ids.Generate(),
		Name:   domain.NormalizeName(name),
		Number: number,
		TeamID: teamID,
	}
	l.uow.Players().Put(player)
	l.logger.Info("player added", "player_id", player.ID, "name", player.Name, "team_id", teamID)
	return player
}

// UpdatePlayer changes a player's name, number or team.
func (l *Ledger) UpdatePlayer(playerID string, u PlayerUpdate) bool {
	player, ok := l.uow.Players().Get(playerID)
	if !ok {
		l.logger.Warn("update player: player not found", "player_id", playerID)
		return false
	}
	if u.Name != nil {
		player.Name = domain.NormalizeName(*u.Name)
	}
	if u.Number != nil {
		player.Number = *u.Number
	}
	if u.TeamID != nil {
		player.TeamID = *u.TeamID
	}
	l.uow.Players().Put(player)
	return true
}

// RemovePlayer deletes only the player record.
func (l *Ledger) RemovePlayer(playerID string) bool {
	if !l.uow.Players().Delete(playerID) {
		l.logger.Warn("remove player: player not found", "player_id", playerID)
		return false
	}
	return true
}

// AddSet creates a lineup with a fresh id.
func (l *Ledger) AddSet(name, teamID string) domain.Set {
	set := domain.Set{
		ID:     l.ids.Generate(),
		Name:   domain.NormalizeName(name),
		TeamID: teamID,
	}
	l.uow.Sets().Put(set)
	l.logger.Info("set added", "set_id", set.ID, "name", set.Name, "team_id", teamID)
	return set
}

// RemoveSet deletes only the lineup record.
func (l *Ledger) RemoveSet(setID string) bool {
	if !l.uow.Sets().Delete(setID) {
		l.logger.Warn("remove set: set not found", "set_id", setID)
		return false
	}
	return true
}

// AddGame creates an unfinished game for an existing team.
func (l *Ledger) AddGame(teamID, opposingTeamName string) (domain.Game, bool) {
	if !l.uow.Teams().Has(teamID) {
		l.logger.Warn("add game: team not found", "team_id", teamID)
		return domain.Game{}, false
	}
	game := domain.Game{
		ID:               l.ids.Generate(),
		TeamID:           teamID,
		OpposingTeamName: domain.NormalizeName(opposingTeamName),
		ActivePlayers:    []string{},
		ActiveSets:       []string{},
		GamePlayedList:   []string{},
		BoxScore:         map[string]stats.Vector{},
		Periods:          []domain.Period{{}},
		Sets:             map[string]domain.SetSnapshot{},
	}
	l.uow.Games().Put(game)
	l.logger.Info("game added", "game_id", game.ID, "team_id", teamID, "opponent", game.OpposingTeamName)
	return game, true
}

// RemoveGame deletes a game record.
func (l *Ledger) RemoveGame(gameID string) bool {
	if !l.uow.Games().Delete(gameID) {
		l.logger.Warn("remove game: game not found", "game_id", gameID)
		return false
	}
	return true
}

// SetPlayerActive puts a player on or off the court. Putting a player on the
// court credits them with participation in the game.
func (l *Ledger) SetPlayerActive(gameID, playerID string, active bool) bool {
	game, ok := l.mutableGame("set player active", gameID)
	if !ok {
		return false
	}
	if !active {
		game.ActivePlayers = domain.RemoveID(game.ActivePlayers, playerID)
		l.uow.Games().Put(game)
		return true
	}
	if !l.uow.Players().Has(playerID) {
		l.logger.Warn("set player active: player not found", "game_id", gameID, "player_id", playerID)
		return false
	}
	if !domain.ContainsID(game.ActivePlayers, playerID) {
		game.ActivePlayers = append(game.ActivePlayers, playerID)
	}
	if !domain.ContainsID(game.GamePlayedList, playerID) {
		game.GamePlayedList = append(game.GamePlayedList, playerID)
	}
	l.uow.Games().Put(game)
	return true
}

// SetLineupActive activates or deactivates a lineup for the game.
// Activating seeds the game's snapshot for that lineup.
func (l *Ledger) SetLineupActive(gameID, setID string, active bool) bool {
	game, ok := l.mutableGame("set lineup active", gameID)
	if !ok {
		return false
	}
	if !active {
		game.ActiveSets = domain.RemoveID(game.ActiveSets, setID)
		l.uow.Games().Put(game)
		return true
	}
	if !l.uow.Sets().Has(setID) {
		l.logger.Warn("set lineup active: set not found", "game_id", gameID, "set_id", setID)
		return false
	}
	if !domain.ContainsID(game.ActiveSets, setID) {
		game.ActiveSets = append(game.ActiveSets, setID)
	}
	if game.Sets == nil {
		game.Sets = map[string]domain.SetSnapshot{}
	}
	if _, seeded := game.Sets[setID]; !seeded {
		game.Sets[setID] = domain.SetSnapshot{}
	}
	l.uow.Games().Put(game)
	return true
}
