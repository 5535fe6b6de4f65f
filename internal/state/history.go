package state

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// RunRecord summarizes one settled orchestration run.
type RunRecord struct {
	// UserKey identifies the user the run belonged to.
	UserKey string
	// Message is the user message that started the run.
	Message string
	// Action is the planned action, or "operation_cancelled".
	Action string
	// Outcome is the outcome kind ("ok", "cancelled", "fatal").
	Outcome string
	// Reason is the cancellation reason, if any.
	Reason string
	// ToolCount is the number of tool results the run produced.
	ToolCount int
	// StartedAt is when the run was admitted.
	StartedAt time.Time
	// Duration is how long the run took to settle.
	Duration time.Duration
}

// RecordRun persists one settled run.
func (db *DB) RecordRun(ctx context.Context, rec RunRecord) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	_, err := db.conn.ExecContext(ctx, `
		INSERT INTO runs (user_key, message, action, outcome, reason, tool_count, started_at, duration_ms)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.UserKey, rec.Message, rec.Action, rec.Outcome, rec.Reason,
		rec.ToolCount, rec.StartedAt, rec.Duration.Milliseconds(),
	)
	if err != nil {
		return fmt.Errorf("record run: %w", err)
	}
	return nil
}

// RecentRuns returns the most recent runs for a user, newest first.
func (db *DB) RecentRuns(ctx context.Context, userKey string, limit int) ([]RunRecord, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	if limit <= 0 {
		limit = 20
	}

	rows, err := db.conn.QueryContext(ctx, `
		SELECT user_key, message, action, outcome, COALESCE(reason, ''), tool_count, started_at, duration_ms
		FROM runs WHERE user_key = ? ORDER BY id DESC LIMIT ?`,
		userKey, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var records []RunRecord
	for rows.Next() {
		var rec RunRecord
		var durationMs int64
		if err := rows.Scan(&rec.UserKey, &rec.Message, &rec.Action, &rec.Outcome,
			&rec.Reason, &rec.ToolCount, &rec.StartedAt, &durationMs); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		rec.Duration = time.Duration(durationMs) * time.Millisecond
		records = append(records, rec)
	}
	return records, rows.Err()
}

// UpsertFAQ stores or replaces one FAQ entry.
func (db *DB) UpsertFAQ(ctx context.Context, topic, answer string) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	_, err := db.conn.ExecContext(ctx, `
		INSERT INTO faq_entries (topic, answer) VALUES (?, ?)
		ON CONFLICT(topic) DO UPDATE SET answer = excluded.answer`,
		topic, answer,
	)
	if err != nil {
		return fmt.Errorf("upsert faq %q: %w", topic, err)
	}
	return nil
}

// LookupFAQ returns the answer text for a topic, or "" when unknown.
func (db *DB) LookupFAQ(ctx context.Context, topic string) (string, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	var answer string
	err := db.conn.QueryRowContext(ctx,
		"SELECT answer FROM faq_entries WHERE topic = ?", topic,
	).Scan(&answer)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", nil
		}
		return "", fmt.Errorf("lookup faq %q: %w", topic, err)
	}
	return answer, nil
}
