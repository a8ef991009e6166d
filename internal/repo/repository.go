// Package repo holds the four entity collections behind a unit of work.
//
// Components that reach across collections (cascade deletion, auditing)
// depend on UnitOfWork rather than on package-level stores.
package repo

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/roach88/statbook/internal/domain"
)

// Collection names used for persistence.
const (
	TeamsCollection   = "teams"
	PlayersCollection = "players"
	SetsCollection    = "sets"
	GamesCollection   = "games"
)

// UnitOfWork exposes every entity collection.
type UnitOfWork interface {
	Teams() *Collection[domain.Team]
	Players() *Collection[domain.Player]
	Sets() *Collection[domain.Set]
	Games() *Collection[domain.Game]
}

// Persister stores opaque collection blobs.
type Persister interface {
	Persist(ctx context.Context, collection string, state []byte) error
	Load(ctx context.Context, collection string) (state []byte, found bool, err error)
}

// Repository is the in-memory UnitOfWork.
type Repository struct {
	teams   *Collection[domain.Team]
	players *Collection[domain.Player]
	sets    *Collection[domain.Set]
	games   *Collection[domain.Game]
}

// NewRepository returns an empty repository.
func NewRepository() *Repository {
	return &Repository{
		teams:   newCollection(func(t domain.Team) string { return t.ID }, nil),
		players: newCollection(func(p domain.Player) string { return p.ID }, nil),
		sets:    newCollection(func(s domain.Set) string { return s.ID }, nil),
		games:   newCollection(func(g domain.Game) string { return g.ID }, domain.Game.Clone),
	}
}

func (r *Repository) Teams() *Collection[domain.Team]     { return r.teams }
func (r *Repository) Players() *Collection[domain.Player] { return r.players }
func (r *Repository) Sets() *Collection[domain.Set]       { return r.sets }
func (r *Repository) Games() *Collection[domain.Game]     { return r.games }

// Save writes every collection through p.
func (r *Repository) Save(ctx context.Context, p Persister) error {
	blobs := map[string]any{
		TeamsCollection:   r.teams.snapshot(),
		PlayersCollection: r.players.snapshot(),
		SetsCollection:    r.sets.snapshot(),
		GamesCollection:   r.games.snapshot(),
	}
	for _, name := range []string{TeamsCollection, PlayersCollection, SetsCollection, GamesCollection} {
		data, err := json.Marshal(blobs[name])
		if err != nil {
			return fmt.Errorf("save %s: %w", name, err)
		}
		if err := p.Persist(ctx, name, data); err != nil {
			return fmt.Errorf("save %s: %w", name, err)
		}
	}
	return nil
}

// Load replaces every collection with the state held by p.
// Collections p has never seen load as empty.
func (r *Repository) Load(ctx context.Context, p Persister) error {
	if err := loadInto(ctx, p, TeamsCollection, r.teams); err != nil {
		return err
	}
	if err := loadInto(ctx, p, PlayersCollection, r.players); err != nil {
		return err
	}
	if err := loadInto(ctx, p, SetsCollection, r.sets); err != nil {
		return err
	}
	return loadInto(ctx, p, GamesCollection, r.games)
}

func loadInto[T any](ctx context.Context, p Persister, name string, c *Collection[T]) error {
	data, found, err := p.Load(ctx, name)
	if err != nil {
		return fmt.Errorf("load %s: %w", name, err)
	}
	items := map[string]T{}
	if found && len(data) > 0 {
		if err := json.Unmarshal(data, &items); err != nil {
			return fmt.Errorf("load %s: %w", name, err)
		}
	}
	c.replace(items)
	return nil
}
