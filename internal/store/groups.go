// ABOUTME: Group store methods including the (name, owner) upsert lookup
// ABOUTME: Card references live in group_cards, ordered by append position

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// CreateGroup inserts a new group record.
func (s *SQLiteStore) CreateGroup(ctx context.Context, g *Group) error {
	query := `
		INSERT INTO groups (id, name, created_by, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
	`

	_, err := s.db.ExecContext(ctx, query,
		g.ID,
		g.Name,
		g.CreatedBy,
		g.CreatedAt.UTC().Format(time.RFC3339),
		g.UpdatedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting group: %w", err)
	}

	s.logger.Info("created group", "id", g.ID, "name", g.Name, "created_by", g.CreatedBy)
	return nil
}

// GetGroup retrieves a group by ID with its cards populated.
func (s *SQLiteStore) GetGroup(ctx context.Context, id string) (*Group, error) {
	query := `
		SELECT id, name, created_by, created_at, updated_at
		FROM groups
		WHERE id = ?
	`

	g, err := s.scanGroup(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, err
	}

	g.Cards, err = s.listGroupCards(ctx, g.ID)
	if err != nil {
		return nil, err
	}
	return g, nil
}

// GetGroupByNameAndOwner retrieves a group by its (name, created_by) key.
// This is the lookup backing the group upsert.
func (s *SQLiteStore) GetGroupByNameAndOwner(ctx context.Context, name, createdBy string) (*Group, error) {
	query := `
		SELECT id, name, created_by, created_at, updated_at
		FROM groups
		WHERE name = ? AND created_by = ?
	`

	g, err := s.scanGroup(s.db.QueryRowContext(ctx, query, name, createdBy))
	if err != nil {
		return nil, err
	}

	g.Cards, err = s.listGroupCards(ctx, g.ID)
	if err != nil {
		return nil, err
	}
	return g, nil
}

// ListGroups returns groups matching the filter, cards populated, oldest first.
func (s *SQLiteStore) ListGroups(ctx context.Context, f GroupFilter) ([]*Group, error) {
	query := `
		SELECT id, name, created_by, created_at, updated_at
		FROM groups
	`
	var args []any
	if f.CreatedBy != nil {
		query += ` WHERE created_by = ?`
		args = append(args, *f.CreatedBy)
	}
	query += ` ORDER BY created_at`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying groups: %w", err)
	}
	defer rows.Close()

	var groups []*Group
	for rows.Next() {
		g, err := s.scanGroupRow(rows)
		if err != nil {
			return nil, err
		}
		groups = append(groups, g)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, g := range groups {
		g.Cards, err = s.listGroupCards(ctx, g.ID)
		if err != nil {
			return nil, err
		}
	}
	return groups, nil
}

// DeleteGroup removes a group and its card references. The cards
// themselves are kept. Returns ErrNotFound if no row was deleted.
func (s *SQLiteStore) DeleteGroup(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM groups WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting group: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking rows affected: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}

	s.logger.Info("deleted group", "id", id)
	return nil
}

// AppendCardToGroup adds a card reference at the end of the group's list.
// Idempotent for a (group, card) pair already present.
//
// Two concurrent appends can compute the same MAX(position)+1; the
// unique (group_id, position) index rejects the loser, which retries
// with a fresh position.
func (s *SQLiteStore) AppendCardToGroup(ctx context.Context, groupID, cardID string) error {
	query := `
		INSERT INTO group_cards (group_id, card_id, position)
		VALUES (?, ?, (SELECT COALESCE(MAX(position), 0) + 1 FROM group_cards WHERE group_id = ?))
	`

	var err error
	for attempt := 0; attempt < 5; attempt++ {
		if _, err = s.db.ExecContext(ctx, query, groupID, cardID, groupID); err == nil {
			return nil
		}
		if !isUniqueConstraintError(err) {
			return fmt.Errorf("appending card to group: %w", err)
		}
		if in, checkErr := s.groupContainsCard(ctx, groupID, cardID); checkErr == nil && in {
			// The (group_id, card_id) key collided: the card is already
			// in the list.
			return nil
		}
	}
	return fmt.Errorf("appending card to group: %w", err)
}

// groupContainsCard reports whether the card is already in the group's list.
func (s *SQLiteStore) groupContainsCard(ctx context.Context, groupID, cardID string) (bool, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT 1 FROM group_cards WHERE group_id = ? AND card_id = ?`,
		groupID, cardID).Scan(&n)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// listGroupCards returns the group's cards in append order.
func (s *SQLiteStore) listGroupCards(ctx context.Context, groupID string) ([]Card, error) {
	query := `
		SELECT c.id, c.word, c.translate, c.created_by, c.created_at, c.updated_at
		FROM cards c
		JOIN group_cards gc ON gc.card_id = c.id
		WHERE gc.group_id = ?
		ORDER BY gc.position
	`

	rows, err := s.db.QueryContext(ctx, query, groupID)
	if err != nil {
		return nil, fmt.Errorf("querying group cards: %w", err)
	}
	defer rows.Close()

	cards := []Card{}
	for rows.Next() {
		c, err := s.scanCardRow(rows)
		if err != nil {
			return nil, err
		}
		cards = append(cards, *c)
	}
	return cards, rows.Err()
}

func (s *SQLiteStore) scanGroup(row *sql.Row) (*Group, error) {
	var g Group
	var createdAtStr, updatedAtStr string

	err := row.Scan(&g.ID, &g.Name, &g.CreatedBy, &createdAtStr, &updatedAtStr)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scanning group: %w", err)
	}

	return &g, parseGroupTimes(&g, createdAtStr, updatedAtStr)
}

func (s *SQLiteStore) scanGroupRow(rows *sql.Rows) (*Group, error) {
	var g Group
	var createdAtStr, updatedAtStr string

	if err := rows.Scan(&g.ID, &g.Name, &g.CreatedBy, &createdAtStr, &updatedAtStr); err != nil {
		return nil, fmt.Errorf("scanning group: %w", err)
	}

	return &g, parseGroupTimes(&g, createdAtStr, updatedAtStr)
}

func parseGroupTimes(g *Group, createdAtStr, updatedAtStr string) error {
	var err error
	g.CreatedAt, err = time.Parse(time.RFC3339, createdAtStr)
	if err != nil {
		return fmt.Errorf("parsing created_at: %w", err)
	}
	g.UpdatedAt, err = time.Parse(time.RFC3339, updatedAtStr)
	if err != nil {
		return fmt.Errorf("parsing updated_at: %w", err)
	}
	return nil
}
