package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"strings"
)

// JournalEntry is one recorded ledger mutation.
type JournalEntry struct {
	Seq      int64           `json:"seq"`
	Op       string          `json:"op"`
	EntityID string          `json:"entity_id,omitempty"`
	Detail   json.RawMessage `json:"detail"`
}

// AppendJournal records a mutation and returns its seq.
func (s *Store) AppendJournal(ctx context.Context, op, entityID string, detail any) (int64, error) {
	return appendJournal(ctx, s.db, s.clock.Next(), op, entityID, detail)
}

func appendJournal(ctx context.Context, db execer, seq int64, op, entityID string, detail any) (int64, error) {
	detailJSON, err := marshalDetail(detail)
	if err != nil {
		return 0, fmt.Errorf("append journal %s: %w", op, err)
	}
	_, err = db.ExecContext(ctx, `
		INSERT INTO journal (seq, op, entity_id, detail)
		VALUES (?, ?, ?, ?)
	`, seq, op, entityID, detailJSON)
	if err != nil {
		return 0, fmt.Errorf("append journal %s: %w", op, err)
	}
	return seq, nil
}

// ReadJournal returns journal entries ordered by seq. An empty entityID reads
// every entry; limit <= 0 means no limit, otherwise the most recent limit
// entries are returned, still in ascending order.
//
// Returns an empty slice (not nil) if nothing matches.
func (s *Store) ReadJournal(ctx context.Context, entityID string, limit int) ([]JournalEntry, error) {
	query := `SELECT seq, op, entity_id, detail FROM journal`
	var args []any
	if entityID != "" {
		query += ` WHERE entity_id = ?`
		args = append(args, entityID)
	}
	query += ` ORDER BY seq DESC`
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query journal: %w", err)
	}
	defer rows.Close()

	entries := []JournalEntry{}
	for rows.Next() {
		var e JournalEntry
		var detail string
		if err := rows.Scan(&e.Seq, &e.Op, &e.EntityID, &detail); err != nil {
			return nil, fmt.Errorf("scan journal: %w", err)
		}
		e.Detail = json.RawMessage(detail)
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate journal: %w", err)
	}

	slices.Reverse(entries)
	return entries, nil
}

// marshalDetail encodes detail with HTML escaping disabled so names keep
// their characters in stored JSON.
func marshalDetail(detail any) (string, error) {
	if detail == nil {
		return "{}", nil
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(detail); err != nil {
		return "", fmt.Errorf("marshal detail: %w", err)
	}
	return strings.TrimSpace(buf.String()), nil
}
