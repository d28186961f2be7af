// ABOUTME: HTTP JSON API surface for flashdeck
// ABOUTME: Owns the route table, response shapes, and error mapping

package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"tailscale.com/tsnet"

	"github.com/flashdeck/flashdeck/internal/auth"
	"github.com/flashdeck/flashdeck/internal/config"
	"github.com/flashdeck/flashdeck/internal/deck"
	"github.com/flashdeck/flashdeck/internal/inbox"
	"github.com/flashdeck/flashdeck/internal/store"
)

// RefreshCookieName is the name of the HTTP-only refresh token cookie.
const RefreshCookieName = "flashdeck_refresh"

// storeTimeout bounds every persistence call made from a handler so a
// stuck database cannot hang a request indefinitely.
const storeTimeout = 5 * time.Second

// Store combines the persistence operations of the services with the
// user lookups the auth flows need directly.
type Store interface {
	deck.Store
	inbox.Store

	CreateUser(ctx context.Context, u *store.User) error
	GetUser(ctx context.Context, id string) (*store.User, error)
	GetUserByUsername(ctx context.Context, username string) (*store.User, error)
}

// Server wires the auth components and resource services to HTTP routes.
type Server struct {
	cfg      *config.Config
	store    Store
	tokens   *auth.TokenService
	registry *auth.RefreshTokenRegistry
	creds    *auth.CredentialVerifier
	deck     *deck.Service
	inbox    *inbox.Service
	mux      *http.ServeMux
	logger   *slog.Logger

	httpServer  *http.Server
	tsnetServer *tsnet.Server
}

// GroupResponse is the JSON shape for a group.
type GroupResponse struct {
	ID        string         `json:"id"`
	Name      string         `json:"name"`
	CreatedBy string         `json:"createdBy"`
	Cards     []CardResponse `json:"cards"`
	CreatedAt string         `json:"createdAt"`
	UpdatedAt string         `json:"updatedAt"`
}

// CardResponse is the JSON shape for a card.
type CardResponse struct {
	ID        string `json:"id"`
	Word      string `json:"word"`
	Translate string `json:"translate"`
	CreatedBy string `json:"createdBy"`
	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
}

// MessageResponse is the JSON shape for a broadcast message. The
// recipient set is deliberately absent.
type MessageResponse struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	CreatedBy string `json:"createdBy"`
	CreatedAt string `json:"createdAt"`
}

func toGroupResponse(g *store.Group) GroupResponse {
	cards := make([]CardResponse, 0, len(g.Cards))
	for i := range g.Cards {
		cards = append(cards, toCardResponse(&g.Cards[i]))
	}
	return GroupResponse{
		ID:        g.ID,
		Name:      g.Name,
		CreatedBy: g.CreatedBy,
		Cards:     cards,
		CreatedAt: g.CreatedAt.Format(time.RFC3339),
		UpdatedAt: g.UpdatedAt.Format(time.RFC3339),
	}
}

func toCardResponse(c *store.Card) CardResponse {
	return CardResponse{
		ID:        c.ID,
		Word:      c.Word,
		Translate: c.Translate,
		CreatedBy: c.CreatedBy,
		CreatedAt: c.CreatedAt.Format(time.RFC3339),
		UpdatedAt: c.UpdatedAt.Format(time.RFC3339),
	}
}

func toMessageResponse(m *store.Message) MessageResponse {
	return MessageResponse{
		ID:        m.ID,
		Text:      m.Text,
		CreatedBy: m.CreatedBy,
		CreatedAt: m.CreatedAt.Format(time.RFC3339),
	}
}

// NewServer creates the API server and registers all routes.
func NewServer(cfg *config.Config, st Store) *Server {
	s := &Server{
		cfg:      cfg,
		store:    st,
		tokens:   auth.NewTokenService([]byte(cfg.Auth.AccessSecret), []byte(cfg.Auth.RefreshSecret), cfg.Auth.AccessTTL, cfg.Auth.RefreshTTL),
		registry: auth.NewRefreshTokenRegistry(),
		creds:    auth.NewCredentialVerifier(),
		deck:     deck.NewService(st),
		inbox:    inbox.NewService(st),
		mux:      http.NewServeMux(),
		logger:   slog.Default().With("component", "api"),
	}
	s.registerRoutes()
	return s
}

// registerRoutes wires every endpoint. The auth middleware guards all
// resource routes; registration, login, token refresh, and health stay
// open.
func (s *Server) registerRoutes() {
	s.mux.HandleFunc("GET /health", s.handleHealth)

	s.mux.HandleFunc("POST /register", s.handleRegister)
	s.mux.HandleFunc("POST /register-admin", s.handleRegisterAdmin)
	s.mux.HandleFunc("POST /login", s.handleLogin)
	s.mux.HandleFunc("POST /token", s.handleRefresh)

	authed := auth.Middleware(s.tokens)

	s.mux.Handle("POST /groups", authed(http.HandlerFunc(s.handleCreateGroup)))
	s.mux.Handle("GET /groups", authed(http.HandlerFunc(s.handleListGroups)))
	s.mux.Handle("GET /groups-all", authed(http.HandlerFunc(s.handleListAllGroups)))
	s.mux.Handle("GET /groups/{id}", authed(http.HandlerFunc(s.handleGetGroup)))
	s.mux.Handle("DELETE /groups/{id}", authed(http.HandlerFunc(s.handleDeleteGroup)))

	s.mux.Handle("POST /cards", authed(http.HandlerFunc(s.handleCreateCard)))
	s.mux.Handle("GET /cards", authed(http.HandlerFunc(s.handleListCards)))
	s.mux.Handle("GET /cards/{id}", authed(http.HandlerFunc(s.handleGetCard)))
	s.mux.Handle("PATCH /cards/{id}", authed(http.HandlerFunc(s.handleUpdateCard)))

	s.mux.Handle("POST /messages", authed(http.HandlerFunc(s.handleCreateMessage)))
	s.mux.Handle("GET /messages", authed(http.HandlerFunc(s.handleListMessages)))
}

// Handler returns the root handler, used by Run and by tests.
func (s *Server) Handler() http.Handler {
	return s.mux
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// requestContext derives a bounded context for persistence calls.
func requestContext(r *http.Request) (context.Context, context.CancelFunc) {
	return context.WithTimeout(r.Context(), storeTimeout)
}

// writeJSON writes a JSON response with the given status code.
func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("encoding response", "error", err)
	}
}

// sendJSONError writes a machine-readable {error} body.
func (s *Server) sendJSONError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, map[string]string{"error": message})
}

// sendServiceError maps service-layer errors to HTTP statuses. Ownership
// denials and absent resources share one 404 so resource existence never
// leaks to non-owners.
func (s *Server) sendServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		s.sendJSONError(w, http.StatusNotFound, "not found")
	case errors.Is(err, deck.ErrGroupNotFound):
		s.sendJSONError(w, http.StatusNotFound, "group not found")
	case errors.Is(err, inbox.ErrForbidden):
		s.sendJSONError(w, http.StatusForbidden, "forbidden")
	default:
		s.logger.Error("internal error", "error", err)
		s.sendJSONError(w, http.StatusInternalServerError, err.Error())
	}
}
