// Package ledger owns game records and the entity mutations built on them.
//
// Every operation reads current state from the unit of work, computes the
// new state and writes it back with no suspension point in between. A
// missing id is never an error: the operation logs a warning, leaves state
// untouched and reports false.
package ledger

import (
	"log/slog"

	"github.com/roach88/statbook/internal/completion"
	"github.com/roach88/statbook/internal/domain"
	"github.com/roach88/statbook/internal/ids"
	"github.com/roach88/statbook/internal/repo"
)

// Ledger is the mutation API over a unit of work.
type Ledger struct {
	uow      repo.UnitOfWork
	ids      ids.Generator
	logger   *slog.Logger
	workflow *completion.Workflow
}

// New creates a Ledger. A nil generator uses UUIDv7 ids; a nil logger uses
// slog.Default().
func New(uow repo.UnitOfWork, gen ids.Generator, logger *slog.Logger) *Ledger {
	if gen == nil {
		gen = ids.UUIDv7Generator{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Ledger{
		uow:      uow,
		ids:      gen,
		logger:   logger,
		workflow: completion.New(logger),
	}
}

// Game returns the stored game.
func (l *Ledger) Game(gameID string) (domain.Game, bool) {
	return l.uow.Games().Get(gameID)
}

// mutableGame loads a game for mutation, refusing missing and finished games.
func (l *Ledger) mutableGame(op, gameID string) (domain.Game, bool) {
	game, ok := l.uow.Games().Get(gameID)
	if !ok {
		l.logger.Warn(op+": game not found", "game_id", gameID)
		return domain.Game{}, false
	}
	if game.IsFinished {
		l.logger.Warn(op+": game is finished", "game_id", gameID)
		return domain.Game{}, false
	}
	return game, true
}

// materializePeriod grows periods so that index exists. New periods are zero.
func materializePeriod(periods []domain.Period, index int) []domain.Period {
	for len(periods) <= index {
		periods = append(periods, domain.Period{})
	}
	return periods
}

// trimPeriods drops up to n trailing periods that hold no score, plays or
// free-throw run.
func trimPeriods(periods []domain.Period, n int) []domain.Period {
	for ; n > 0 && len(periods) > 0; n-- {
		last := periods[len(periods)-1]
		if last.Us != 0 || last.Opponent != 0 || len(last.PlayByPlay) != 0 || last.FreeThrow != domain.Idle {
			break
		}
		periods = periods[:len(periods)-1]
	}
	return periods
}
