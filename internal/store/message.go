package store

import (
	"database/sql"
	"time"
)

// UpsertMessage inserts or updates a message (idempotent on counterpart_id + msg_key).
func (db *DB) UpsertMessage(m *Message) error {
	now := time.Now().UnixMilli()
	_, err := db.Exec(`
		INSERT INTO messages (counterpart_id, msg_key, sender_id, receiver_id, content, from_me, status, sent_at, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(counterpart_id, msg_key) DO UPDATE SET
			content = excluded.content,
			status = excluded.status,
			sent_at = excluded.sent_at`,
		m.CounterpartID, m.MsgKey, m.SenderID, m.ReceiverID, m.Content, m.FromMe, m.Status, m.SentAt, now)
	return err
}

// ListMessages returns messages for one conversation using keyset pagination
// by sent timestamp, newest first.
func (db *DB) ListMessages(counterpartID int64, beforeTs int64, limit int) ([]Message, error) {
	if limit <= 0 {
		limit = 50
	}
	if beforeTs <= 0 {
		beforeTs = time.Now().UnixMilli() + 1
	}
	rows, err := db.Query(`
		SELECT id, counterpart_id, msg_key, sender_id, receiver_id, content, from_me, status, sent_at
		FROM messages
		WHERE counterpart_id = ? AND sent_at < ?
		ORDER BY sent_at DESC
		LIMIT ?`, counterpartID, beforeTs, limit)
	if err != nil {
		return nil, err
	}
	return scanMessages(rows)
}

// AllMessages returns the most recent messages across every conversation,
// newest first. Feed for the conversation aggregation.
func (db *DB) AllMessages(limit int) ([]Message, error) {
	if limit <= 0 {
		limit = 500
	}
	rows, err := db.Query(`
		SELECT id, counterpart_id, msg_key, sender_id, receiver_id, content, from_me, status, sent_at
		FROM messages
		ORDER BY sent_at DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	return scanMessages(rows)
}

// DeleteMessage removes a cached message by its key within a conversation.
func (db *DB) DeleteMessage(counterpartID int64, msgKey string) error {
	_, err := db.Exec(`DELETE FROM messages WHERE counterpart_id = ? AND msg_key = ?`, counterpartID, msgKey)
	return err
}

func scanMessages(rows *sql.Rows) ([]Message, error) {
	defer func() { _ = rows.Close() }()

	var msgs []Message
	for rows.Next() {
		var m Message
		if err := rows.Scan(&m.ID, &m.CounterpartID, &m.MsgKey, &m.SenderID, &m.ReceiverID, &m.Content, &m.FromMe, &m.Status, &m.SentAt); err != nil {
			return nil, err
		}
		msgs = append(msgs, m)
	}
	return msgs, rows.Err()
}
