// ABOUTME: Handlers for broadcast message routes
// ABOUTME: Sending is open to any authenticated principal; reads are recipient-scoped

package api

import (
	"encoding/json"
	"net/http"

	"github.com/flashdeck/flashdeck/internal/auth"
)

// createMessageRequest is the JSON request body for POST /messages.
type createMessageRequest struct {
	Text string `json:"text"`
}

func (s *Server) handleCreateMessage(w http.ResponseWriter, r *http.Request) {
	p := auth.MustFromContext(r.Context())

	var req createMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.sendJSONError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Text == "" {
		s.sendJSONError(w, http.StatusBadRequest, "text is required")
		return
	}

	ctx, cancel := requestContext(r)
	defer cancel()

	m, err := s.inbox.Broadcast(ctx, p, req.Text)
	if err != nil {
		s.sendServiceError(w, err)
		return
	}

	s.writeJSON(w, http.StatusCreated, toMessageResponse(m))
}

func (s *Server) handleListMessages(w http.ResponseWriter, r *http.Request) {
	p := auth.MustFromContext(r.Context())

	ctx, cancel := requestContext(r)
	defer cancel()

	msgs, err := s.inbox.List(ctx, p)
	if err != nil {
		s.sendServiceError(w, err)
		return
	}

	resp := make([]MessageResponse, 0, len(msgs))
	for _, m := range msgs {
		resp = append(resp, toMessageResponse(m))
	}
	s.writeJSON(w, http.StatusOK, resp)
}
