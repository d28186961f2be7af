// ABOUTME: Broadcast message service with send-time recipient snapshots
// ABOUTME: Reads are scoped to the recipient set; the set itself stays server-side

package inbox

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

// ErrForbidden is returned when the principal may not broadcast.
var ErrForbidden = errors.New("forbidden")

// Store defines the persistence operations the inbox service needs.
type Store interface {
	CreateMessage(ctx context.Context, m *store.Message) error
	ListMessagesForUser(ctx context.Context, userID string) ([]*store.Message, error)
	ListUserIDs(ctx context.Context) ([]string, error)
}

// Service handles broadcast notifications.
type Service struct {
	store  Store
	logger *slog.Logger
}

// NewService creates an inbox service.
func NewService(s Store) *Service {
	return &Service{
		store:  s,
		logger: slog.Default().With("component", "inbox"),
	}
}

// Broadcast sends a message to every user registered at send time. The
// recipient list is a snapshot, not a subscription: users created after
// the broadcast never see it.
func (s *Service) Broadcast(ctx context.Context, p *auth.Principal, text string) (*store.Message, error) {
	if !policy.CanBroadcast(p) {
		return nil, ErrForbidden
	}

	recipients, err := s.store.ListUserIDs(ctx)
	if err != nil {
		return nil, fmt.Errorf("snapshotting recipients: %w", err)
	}

	m := &store.Message{
		ID:         uuid.NewString(),
		Text:       text,
		CreatedBy:  p.ID,
		CreatedAt:  time.Now().UTC(),
		Recipients: recipients,
	}
	if err := s.store.CreateMessage(ctx, m); err != nil {
		return nil, fmt.Errorf("creating message: %w", err)
	}

	s.logger.Info("broadcast sent", "id", m.ID, "from", p.Username, "recipients", len(recipients))
	return m, nil
}

// List returns the messages addressed to the principal. Recipient sets
// are never loaded into the result.
func (s *Service) List(ctx context.Context, p *auth.Principal) ([]*store.Message, error) {
	return s.store.ListMessagesForUser(ctx, p.ID)
}
