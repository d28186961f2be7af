// ABOUTME: Broadcast message store methods with per-recipient read scoping
// ABOUTME: Message and recipient rows are written in one transaction

package store

import (
	"context"
	"fmt"
	"time"
)

// CreateMessage inserts a message together with its recipient snapshot.
// The two writes share a transaction so a message is never visible
// without its recipient set.
func (s *SQLiteStore) CreateMessage(ctx context.Context, m *Message) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO messages (id, text, created_by, created_at) VALUES (?, ?, ?, ?)`,
		m.ID,
		m.Text,
		m.CreatedBy,
		m.CreatedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting message: %w", err)
	}

	for _, userID := range m.Recipients {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO message_recipients (message_id, user_id) VALUES (?, ?)`,
			m.ID, userID,
		)
		if err != nil {
			return fmt.Errorf("inserting recipient: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing message: %w", err)
	}

	s.logger.Info("created message", "id", m.ID, "recipients", len(m.Recipients))
	return nil
}

// ListMessagesForUser returns messages whose recipient set contains
// userID, oldest first. Recipient sets are not loaded.
func (s *SQLiteStore) ListMessagesForUser(ctx context.Context, userID string) ([]*Message, error) {
	query := `
		SELECT m.id, m.text, m.created_by, m.created_at
		FROM messages m
		JOIN message_recipients mr ON mr.message_id = m.id
		WHERE mr.user_id = ?
		ORDER BY m.created_at
	`

	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("querying messages: %w", err)
	}
	defer rows.Close()

	var msgs []*Message
	for rows.Next() {
		var m Message
		var createdAtStr string
		if err := rows.Scan(&m.ID, &m.Text, &m.CreatedBy, &createdAtStr); err != nil {
			return nil, fmt.Errorf("scanning message: %w", err)
		}
		m.CreatedAt, err = time.Parse(time.RFC3339, createdAtStr)
		if err != nil {
			return nil, fmt.Errorf("parsing created_at: %w", err)
		}
		msgs = append(msgs, &m)
	}
	return msgs, rows.Err()
}
