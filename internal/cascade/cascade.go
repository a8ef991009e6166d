// Package cascade keeps references valid when entities are deleted.
//
// Deleting a team removes everything that belongs to it. Deleting a player
// or a lineup only detaches it from the games that list it as active; box
// scores and per-game lineup snapshots are history and stay.
package cascade

import (
	"fmt"
	"log/slog"

	"github.com/roach88/statbook/internal/domain"
	"github.com/roach88/statbook/internal/repo"
)

// EntityType names a deletable collection.
type EntityType string

const (
	TeamEntity   EntityType = "team"
	PlayerEntity EntityType = "player"
	SetEntity    EntityType = "set"
	GameEntity   EntityType = "game"
)

// ParseEntityType resolves a collection name.
func ParseEntityType(s string) (EntityType, error) {
	switch t := EntityType(s); t {
	case TeamEntity, PlayerEntity, SetEntity, GameEntity:
		return t, nil
	default:
		return "", fmt.Errorf("unknown entity type %q", s)
	}
}

// DeletionInfo lists the entities a deletion would reach.
type DeletionInfo struct {
	Games   []domain.Game   `json:"games"`
	Players []domain.Player `json:"players"`
	Sets    []domain.Set    `json:"sets"`
}

// Empty reports whether nothing references the entity.
func (d DeletionInfo) Empty() bool {
	return len(d.Games) == 0 && len(d.Players) == 0 && len(d.Sets) == 0
}

// Engine runs cascading deletions over a unit of work.
type Engine struct {
	uow    repo.UnitOfWork
	logger *slog.Logger
}

// New creates an Engine. A nil logger uses slog.Default().
func New(uow repo.UnitOfWork, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{uow: uow, logger: logger}
}

// GetDeletionInfo lists the entities referencing id. It never mutates.
func (e *Engine) GetDeletionInfo(t EntityType, id string) DeletionInfo {
	var info DeletionInfo
	switch t {
	case TeamEntity:
		info.Games = e.uow.Games().Filter(func(g domain.Game) bool { return g.TeamID == id })
		info.Players = e.uow.Players().Filter(func(p domain.Player) bool { return p.TeamID == id })
		info.Sets = e.uow.Sets().Filter(func(s domain.Set) bool { return s.TeamID == id })
	case PlayerEntity:
		info.Games = e.uow.Games().Filter(func(g domain.Game) bool {
			return domain.ContainsID(g.ActivePlayers, id) || domain.ContainsID(g.GamePlayedList, id)
		})
	case SetEntity:
		info.Games = e.uow.Games().Filter(func(g domain.Game) bool {
			_, hasHistory := g.Sets[id]
			return domain.ContainsID(g.ActiveSets, id) || hasHistory
		})
	}
	return info
}

// DeleteTeam removes the team and every game, player and set it owns.
func (e *Engine) DeleteTeam(teamID string) bool {
	if !e.uow.Teams().Has(teamID) {
		e.logger.Warn("delete team: team not found", "team_id", teamID)
		return false
	}
	info := e.GetDeletionInfo(TeamEntity, teamID)
	for _, g := range info.Games {
		e.uow.Games().Delete(g.ID)
	}
	for _, p := range info.Players {
		e.uow.Players().Delete(p.ID)
	}
	for _, s := range info.Sets {
		e.uow.Sets().Delete(s.ID)
	}
	e.uow.Teams().Delete(teamID)

	e.logger.Info("team deleted",
		"team_id", teamID,
		"games", len(info.Games),
		"players", len(info.Players),
		"sets", len(info.Sets),
	)
	return true
}

// DeletePlayer detaches the player from every game's active list, then
// removes the player.
func (e *Engine) DeletePlayer(playerID string) bool {
	if !e.uow.Players().Has(playerID) {
		e.logger.Warn("delete player: player not found", "player_id", playerID)
		return false
	}
	detached := 0
	for _, g := range e.uow.Games().Filter(func(g domain.Game) bool { return domain.ContainsID(g.ActivePlayers, playerID) }) {
		g.ActivePlayers = domain.RemoveID(g.ActivePlayers, playerID)
		e.uow.Games().Put(g)
		detached++
	}
	e.uow.Players().Delete(playerID)

	e.logger.Info("player deleted", "player_id", playerID, "games_detached", detached)
	return true
}

// DeleteSet detaches the lineup from every game's active list, then removes
// the lineup.
func (e *Engine) DeleteSet(setID string) bool {
	if !e.uow.Sets().Has(setID) {
		e.logger.Warn("delete set: set not found", "set_id", setID)
		return false
	}
	detached := 0
	for _, g := range e.uow.Games().Filter(func(g domain.Game) bool { return domain.ContainsID(g.ActiveSets, setID) }) {
		g.ActiveSets = domain.RemoveID(g.ActiveSets, setID)
		e.uow.Games().Put(g)
		detached++
	}
	e.uow.Sets().Delete(setID)

	e.logger.Info("set deleted", "set_id", setID, "games_detached", detached)
	return true
}

// DeleteGame removes a game. Nothing references games, so nothing cascades.
func (e *Engine) DeleteGame(gameID string) bool {
	if !e.uow.Games().Delete(gameID) {
		e.logger.Warn("delete game: game not found", "game_id", gameID)
		return false
	}
	e.logger.Info("game deleted", "game_id", gameID)
	return true
}

// Delete dispatches to the delete operation for t.
func (e *Engine) Delete(t EntityType, id string) bool {
	switch t {
	case TeamEntity:
		return e.DeleteTeam(id)
	case PlayerEntity:
		return e.DeletePlayer(id)
	case SetEntity:
		return e.DeleteSet(id)
	case GameEntity:
		return e.DeleteGame(id)
	default:
		e.logger.Warn("delete: unknown entity type", "type", t, "id", id)
		return false
	}
}
