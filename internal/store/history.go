package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"
)

// Audit actions recorded against the order history
const (
	ActionDownload = "download"
	ActionDisplay  = "display"
	ActionPrint    = "print"
	ActionExport   = "export"
	ActionArchive  = "archive"
	ActionDelete   = "delete"
	ActionLogin    = "login"
)

// HistoryEntry is one audit record of an action taken on a supplier's
// order files.
type HistoryEntry struct {
	ID        int64                  `json:"id"`
	Supplier  string                 `json:"supplier"`
	Action    string                 `json:"action"`
	File      string                 `json:"file,omitempty"`
	Actor     string                 `json:"actor,omitempty"`
	Details   map[string]interface{} `json:"details,omitempty"`
	CreatedAt time.Time              `json:"created_at"`
}

// RecordAction appends one entry to the order history
func (s *Store) RecordAction(ctx context.Context, entry HistoryEntry) error {
	var details sql.NullString
	if entry.Details != nil {
		data, err := json.Marshal(entry.Details)
		if err != nil {
			return fmt.Errorf("encode history details: %w", err)
		}
		details = sql.NullString{String: string(data), Valid: true}
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO order_history (supplier, action, file, actor, details)
		VALUES (?, ?, ?, ?, ?)`,
		entry.Supplier, entry.Action, entry.File, entry.Actor, details)
	if err != nil {
		return fmt.Errorf("record %s action: %w", entry.Action, err)
	}

	s.logger.DebugContext(ctx, "action recorded",
		slog.String("supplier", entry.Supplier),
		slog.String("action", entry.Action),
		slog.String("file", entry.File))
	return nil
}

// History returns the most recent entries for a supplier, newest first
func (s *Store) History(ctx context.Context, supplier string, limit int) ([]HistoryEntry, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, supplier, action, file, actor, details, created_at
		FROM order_history
		WHERE supplier = ?
		ORDER BY created_at DESC, id DESC
		LIMIT ?`, supplier, limit)
	if err != nil {
		return nil, fmt.Errorf("load history for %s: %w", supplier, err)
	}
	defer rows.Close()

	var entries []HistoryEntry
	for rows.Next() {
		var (
			entry       HistoryEntry
			file, actor sql.NullString
			details     sql.NullString
			createdAt   string
		)
		if err := rows.Scan(&entry.ID, &entry.Supplier, &entry.Action,
			&file, &actor, &details, &createdAt); err != nil {
			return nil, fmt.Errorf("scan history entry: %w", err)
		}
		entry.File = file.String
		entry.Actor = actor.String
		if details.Valid && details.String != "" {
			if err := json.Unmarshal([]byte(details.String), &entry.Details); err != nil {
				return nil, fmt.Errorf("decode history details: %w", err)
			}
		}
		entry.CreatedAt, _ = time.Parse("2006-01-02 15:04:05", createdAt)
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}
