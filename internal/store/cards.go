// ABOUTME: Card store methods for create, field-filtered updates, and owner-scoped lists
// ABOUTME: Cards are standalone rows; group membership lives in group_cards

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// CardUpdate holds the patchable card fields. Nil fields are left unchanged.
type CardUpdate struct {
	Word      *string
	Translate *string
}

// CreateCard inserts a new card record.
func (s *SQLiteStore) CreateCard(ctx context.Context, c *Card) error {
	query := `
		INSERT INTO cards (id, word, translate, created_by, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	_, err := s.db.ExecContext(ctx, query,
		c.ID,
		c.Word,
		c.Translate,
		c.CreatedBy,
		c.CreatedAt.UTC().Format(time.RFC3339),
		c.UpdatedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting card: %w", err)
	}

	s.logger.Info("created card", "id", c.ID, "word", c.Word, "created_by", c.CreatedBy)
	return nil
}

// GetCard retrieves a card by ID.
func (s *SQLiteStore) GetCard(ctx context.Context, id string) (*Card, error) {
	query := `
		SELECT id, word, translate, created_by, created_at, updated_at
		FROM cards
		WHERE id = ?
	`

	row := s.db.QueryRowContext(ctx, query, id)

	var c Card
	var createdAtStr, updatedAtStr string
	err := row.Scan(&c.ID, &c.Word, &c.Translate, &c.CreatedBy, &createdAtStr, &updatedAtStr)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scanning card: %w", err)
	}

	if err := parseCardTimes(&c, createdAtStr, updatedAtStr); err != nil {
		return nil, err
	}
	return &c, nil
}

// UpdateCard applies the non-nil fields of upd to the card and bumps
// updated_at. Returns the updated card, or ErrNotFound.
func (s *SQLiteStore) UpdateCard(ctx context.Context, id string, upd CardUpdate) (*Card, error) {
	set := "updated_at = ?"
	args := []any{time.Now().UTC().Format(time.RFC3339)}

	if upd.Word != nil {
		set += ", word = ?"
		args = append(args, *upd.Word)
	}
	if upd.Translate != nil {
		set += ", translate = ?"
		args = append(args, *upd.Translate)
	}
	args = append(args, id)

	res, err := s.db.ExecContext(ctx, `UPDATE cards SET `+set+` WHERE id = ?`, args...)
	if err != nil {
		return nil, fmt.Errorf("updating card: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("checking rows affected: %w", err)
	}
	if n == 0 {
		return nil, ErrNotFound
	}

	return s.GetCard(ctx, id)
}

// ListCards returns cards matching the filter, oldest first.
func (s *SQLiteStore) ListCards(ctx context.Context, f CardFilter) ([]*Card, error) {
	query := `
		SELECT id, word, translate, created_by, created_at, updated_at
		FROM cards
	`
	var args []any
	if f.CreatedBy != nil {
		query += ` WHERE created_by = ?`
		args = append(args, *f.CreatedBy)
	}
	query += ` ORDER BY created_at`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying cards: %w", err)
	}
	defer rows.Close()

	var cards []*Card
	for rows.Next() {
		c, err := s.scanCardRow(rows)
		if err != nil {
			return nil, err
		}
		cards = append(cards, c)
	}
	return cards, rows.Err()
}

// DeleteCard removes a card row. Group references to it are removed too.
func (s *SQLiteStore) DeleteCard(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM group_cards WHERE card_id = ?`, id); err != nil {
		return fmt.Errorf("deleting card references: %w", err)
	}

	res, err := s.db.ExecContext(ctx, `DELETE FROM cards WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting card: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking rows affected: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *SQLiteStore) scanCardRow(rows *sql.Rows) (*Card, error) {
	var c Card
	var createdAtStr, updatedAtStr string

	if err := rows.Scan(&c.ID, &c.Word, &c.Translate, &c.CreatedBy, &createdAtStr, &updatedAtStr); err != nil {
		return nil, fmt.Errorf("scanning card: %w", err)
	}

	if err := parseCardTimes(&c, createdAtStr, updatedAtStr); err != nil {
		return nil, err
	}
	return &c, nil
}

func parseCardTimes(c *Card, createdAtStr, updatedAtStr string) error {
	var err error
	c.CreatedAt, err = time.Parse(time.RFC3339, createdAtStr)
	if err != nil {
		return fmt.Errorf("parsing created_at: %w", err)
	}
	c.UpdatedAt, err = time.Parse(time.RFC3339, updatedAtStr)
	if err != nil {
		return fmt.Errorf("parsing updated_at: %w", err)
	}
	return nil
}
