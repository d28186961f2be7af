// ABOUTME: Resource gateway for groups and cards
// ABOUTME: Applies authorization policy before delegating to the store

package deck

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/flashdeck/flashdeck/internal/auth"
	"github.com/flashdeck/flashdeck/internal/policy"
	"github.com/flashdeck/flashdeck/internal/store"
)

// ErrGroupNotFound is returned when a card's target group cannot be
// resolved. Distinct from an ownership denial: the group reference was
// client-supplied and may simply not exist.
var ErrGroupNotFound = errors.New("group not found")

// Store defines the persistence operations the deck service needs.
type Store interface {
	CreateGroup(ctx context.Context, g *store.Group) error
	GetGroup(ctx context.Context, id string) (*store.Group, error)
	GetGroupByNameAndOwner(ctx context.Context, name, createdBy string) (*store.Group, error)
	ListGroups(ctx context.Context, f store.GroupFilter) ([]*store.Group, error)
	DeleteGroup(ctx context.Context, id string) error
	AppendCardToGroup(ctx context.Context, groupID, cardID string) error

	CreateCard(ctx context.Context, c *store.Card) error
	GetCard(ctx context.Context, id string) (*store.Card, error)
	UpdateCard(ctx context.Context, id string, upd store.CardUpdate) (*store.Card, error)
	ListCards(ctx context.Context, f store.CardFilter) ([]*store.Card, error)
	DeleteCard(ctx context.Context, id string) error
}

// Service mediates every group and card operation. Single-resource
// denials are reported as store.ErrNotFound so callers cannot tell a
// foreign resource from an absent one.
type Service struct {
	store  Store
	logger *slog.Logger
}

// NewService creates a deck service.
func NewService(s Store) *Service {
	return &Service{
		store:  s,
		logger: slog.Default().With("component", "deck"),
	}
}

// GetOrCreateGroup returns the principal's group with the given name,
// creating it if none exists. The upsert is keyed on (name, owner), so
// repeated creation returns the same group identity.
func (s *Service) GetOrCreateGroup(ctx context.Context, p *auth.Principal, name string) (*store.Group, error) {
	g, err := s.store.GetGroupByNameAndOwner(ctx, name, p.ID)
	if err == nil {
		return g, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("looking up group: %w", err)
	}

	now := time.Now().UTC()
	g = &store.Group{
		ID:        uuid.NewString(),
		Name:      name,
		CreatedBy: p.ID,
		CreatedAt: now,
		UpdatedAt: now,
		Cards:     []store.Card{},
	}
	if err := s.store.CreateGroup(ctx, g); err != nil {
		// A concurrent request may have won the race on the unique
		// (name, owner) index; honor its row.
		if existing, lookupErr := s.store.GetGroupByNameAndOwner(ctx, name, p.ID); lookupErr == nil {
			return existing, nil
		}
		return nil, fmt.Errorf("creating group: %w", err)
	}
	return g, nil
}

// GetGroup returns a group by ID with its cards populated.
func (s *Service) GetGroup(ctx context.Context, p *auth.Principal, id string) (*store.Group, error) {
	g, err := s.store.GetGroup(ctx, id)
	if err != nil {
		return nil, err
	}
	if !policy.CanAccess(p, g.CreatedBy) {
		return nil, store.ErrNotFound
	}
	return g, nil
}

// ListGroups returns the principal's own groups.
func (s *Service) ListGroups(ctx context.Context, p *auth.Principal) ([]*store.Group, error) {
	return s.store.ListGroups(ctx, store.GroupFilter{CreatedBy: &p.ID})
}

// ListAllGroups returns every group visible to the principal: all groups
// for admins, own groups otherwise.
func (s *Service) ListAllGroups(ctx context.Context, p *auth.Principal) ([]*store.Group, error) {
	scope := policy.ListScope(p)
	if scope.All {
		return s.store.ListGroups(ctx, store.GroupFilter{})
	}
	return s.store.ListGroups(ctx, store.GroupFilter{CreatedBy: &scope.OwnerID})
}

// DeleteGroup removes a group, returning the deleted record. The group's
// cards are kept.
func (s *Service) DeleteGroup(ctx context.Context, p *auth.Principal, id string) (*store.Group, error) {
	g, err := s.GetGroup(ctx, p, id)
	if err != nil {
		return nil, err
	}
	if err := s.store.DeleteGroup(ctx, id); err != nil {
		return nil, err
	}
	return g, nil
}

// CreateCard creates a card and appends it to the target group's list.
// Admins resolve the group by ID; regular users by (groupName, own ID).
//
// The card insert and the list append are two independent writes. On
// append failure the freshly created card is deleted so a failed request
// does not leave an orphan; a crash between the writes still can.
func (s *Service) CreateCard(ctx context.Context, p *auth.Principal, word, translate, groupName, groupID string) (*store.Card, error) {
	g, err := s.resolveGroup(ctx, p, groupName, groupID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	c := &store.Card{
		ID:        uuid.NewString(),
		Word:      word,
		Translate: translate,
		CreatedBy: p.ID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.store.CreateCard(ctx, c); err != nil {
		return nil, fmt.Errorf("creating card: %w", err)
	}

	if err := s.store.AppendCardToGroup(ctx, g.ID, c.ID); err != nil {
		if cleanupErr := s.store.DeleteCard(ctx, c.ID); cleanupErr != nil {
			s.logger.Error("orphaned card after failed group append",
				"card_id", c.ID, "group_id", g.ID, "error", cleanupErr)
		}
		return nil, fmt.Errorf("appending card to group: %w", err)
	}

	return c, nil
}

// resolveGroup finds the group a new card should join.
func (s *Service) resolveGroup(ctx context.Context, p *auth.Principal, groupName, groupID string) (*store.Group, error) {
	var g *store.Group
	var err error

	if p.IsAdmin() && groupID != "" {
		g, err = s.store.GetGroup(ctx, groupID)
	} else {
		g, err = s.store.GetGroupByNameAndOwner(ctx, groupName, p.ID)
	}
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrGroupNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("resolving group: %w", err)
	}
	return g, nil
}

// GetCard returns a card by ID.
func (s *Service) GetCard(ctx context.Context, p *auth.Principal, id string) (*store.Card, error) {
	c, err := s.store.GetCard(ctx, id)
	if err != nil {
		return nil, err
	}
	if !policy.CanAccess(p, c.CreatedBy) {
		return nil, store.ErrNotFound
	}
	return c, nil
}

// UpdateCard applies a partial update to a card.
func (s *Service) UpdateCard(ctx context.Context, p *auth.Principal, id string, upd store.CardUpdate) (*store.Card, error) {
	if _, err := s.GetCard(ctx, p, id); err != nil {
		return nil, err
	}
	return s.store.UpdateCard(ctx, id, upd)
}

// ListCards returns every card visible to the principal.
func (s *Service) ListCards(ctx context.Context, p *auth.Principal) ([]*store.Card, error) {
	scope := policy.ListScope(p)
	if scope.All {
		return s.store.ListCards(ctx, store.CardFilter{})
	}
	return s.store.ListCards(ctx, store.CardFilter{CreatedBy: &scope.OwnerID})
}
