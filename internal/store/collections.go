package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// Persist replaces the stored state of one collection.
func (s *Store) Persist(ctx context.Context, collection string, state []byte) error {
	if err := upsertCollection(ctx, s.db, collection, state, s.clock.Next()); err != nil {
		return fmt.Errorf("persist %s: %w", collection, err)
	}
	return nil
}

// Load returns the stored state of one collection. found is false if the
// collection was never persisted.
func (s *Store) Load(ctx context.Context, collection string) ([]byte, bool, error) {
	var state string
	err := s.db.QueryRowContext(ctx, `
		SELECT state FROM collections WHERE name = ?
	`, collection).Scan(&state)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("load %s: %w", collection, err)
	}
	return []byte(state), true, nil
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func upsertCollection(ctx context.Context, db execer, name string, state []byte, seq int64) error {
	_, err := db.ExecContext(ctx, `
		INSERT INTO collections (name, state, seq)
		VALUES (?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET state = excluded.state, seq = excluded.seq
	`, name, string(state), seq)
	return err
}

// Batch buffers collection writes and journal entries so they land in one
// transaction. It satisfies the same Persist/Load contract as Store; Load
// sees buffered writes first.
type Batch struct {
	store   *Store
	states  map[string][]byte
	order   []string
	entries []pendingEntry
}

type pendingEntry struct {
	op       string
	entityID string
	detail   any
}

// Batch starts an empty batch.
func (s *Store) Batch() *Batch {
	return &Batch{store: s, states: map[string][]byte{}}
}

// Persist buffers a collection write. A later write to the same collection
// replaces the earlier one.
func (b *Batch) Persist(_ context.Context, collection string, state []byte) error {
	if _, seen := b.states[collection]; !seen {
		b.order = append(b.order, collection)
	}
	b.states[collection] = append([]byte(nil), state...)
	return nil
}

// Load returns the buffered state, falling back to the store.
func (b *Batch) Load(ctx context.Context, collection string) ([]byte, bool, error) {
	if state, ok := b.states[collection]; ok {
		return state, true, nil
	}
	return b.store.Load(ctx, collection)
}

// Journal buffers a journal entry.
func (b *Batch) Journal(op, entityID string, detail any) {
	b.entries = append(b.entries, pendingEntry{op: op, entityID: entityID, detail: detail})
}

// Commit writes every buffered state and journal entry atomically.
// The batch is empty afterwards whether or not Commit succeeds.
func (b *Batch) Commit(ctx context.Context) error {
	defer func() {
		b.states = map[string][]byte{}
		b.order = nil
		b.entries = nil
	}()

	tx, err := b.store.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("commit batch: begin tx: %w", err)
	}
	defer tx.Rollback() // No-op if committed

	for _, name := range b.order {
		if err := upsertCollection(ctx, tx, name, b.states[name], b.store.clock.Next()); err != nil {
			return fmt.Errorf("commit batch: persist %s: %w", name, err)
		}
	}
	for _, e := range b.entries {
		if _, err := appendJournal(ctx, tx, b.store.clock.Next(), e.op, e.entityID, e.detail); err != nil {
			return fmt.Errorf("commit batch: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit batch: commit: %w", err)
	}
	return nil
}
