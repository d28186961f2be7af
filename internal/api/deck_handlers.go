// ABOUTME: Handlers for group and card resource routes
// ABOUTME: All routes run behind the bearer middleware; policy lives in the deck service

package api

import (
	"encoding/json"
	"net/http"

	"github.com/flashdeck/flashdeck/internal/auth"
	"github.com/flashdeck/flashdeck/internal/store"
)

// createGroupRequest is the JSON request body for POST /groups.
type createGroupRequest struct {
	Name string `json:"name"`
}

// createCardRequest is the JSON request body for POST /cards.
// Regular users address the group by name; admins may address any group
// by ID.
type createCardRequest struct {
	Word      string `json:"word"`
	Translate string `json:"translate"`
	GroupName string `json:"groupName"`
	GroupID   string `json:"groupId"`
}

// updateCardRequest is the JSON request body for PATCH /cards/{id}.
// Absent fields are left unchanged.
type updateCardRequest struct {
	Word      *string `json:"word"`
	Translate *string `json:"translate"`
}

// deleteGroupResponse is the JSON response for DELETE /groups/{id}.
type deleteGroupResponse struct {
	Message string        `json:"message"`
	Group   GroupResponse `json:"group"`
}

func (s *Server) handleCreateGroup(w http.ResponseWriter, r *http.Request) {
	p := auth.MustFromContext(r.Context())

	var req createGroupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.sendJSONError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Name == "" {
		s.sendJSONError(w, http.StatusBadRequest, "name is required")
		return
	}

	ctx, cancel := requestContext(r)
	defer cancel()

	g, err := s.deck.GetOrCreateGroup(ctx, p, req.Name)
	if err != nil {
		s.sendServiceError(w, err)
		return
	}

	s.writeJSON(w, http.StatusCreated, toGroupResponse(g))
}

func (s *Server) handleListGroups(w http.ResponseWriter, r *http.Request) {
	p := auth.MustFromContext(r.Context())

	ctx, cancel := requestContext(r)
	defer cancel()

	groups, err := s.deck.ListGroups(ctx, p)
	if err != nil {
		s.sendServiceError(w, err)
		return
	}

	s.writeJSON(w, http.StatusOK, groupResponses(groups))
}

func (s *Server) handleListAllGroups(w http.ResponseWriter, r *http.Request) {
	p := auth.MustFromContext(r.Context())

	ctx, cancel := requestContext(r)
	defer cancel()

	groups, err := s.deck.ListAllGroups(ctx, p)
	if err != nil {
		s.sendServiceError(w, err)
		return
	}

	s.writeJSON(w, http.StatusOK, groupResponses(groups))
}

func (s *Server) handleGetGroup(w http.ResponseWriter, r *http.Request) {
	p := auth.MustFromContext(r.Context())

	ctx, cancel := requestContext(r)
	defer cancel()

	g, err := s.deck.GetGroup(ctx, p, r.PathValue("id"))
	if err != nil {
		s.sendServiceError(w, err)
		return
	}

	s.writeJSON(w, http.StatusOK, toGroupResponse(g))
}

func (s *Server) handleDeleteGroup(w http.ResponseWriter, r *http.Request) {
	p := auth.MustFromContext(r.Context())

	ctx, cancel := requestContext(r)
	defer cancel()

	g, err := s.deck.DeleteGroup(ctx, p, r.PathValue("id"))
	if err != nil {
		s.sendServiceError(w, err)
		return
	}

	s.writeJSON(w, http.StatusOK, deleteGroupResponse{
		Message: "group deleted",
		Group:   toGroupResponse(g),
	})
}

func (s *Server) handleCreateCard(w http.ResponseWriter, r *http.Request) {
	p := auth.MustFromContext(r.Context())

	var req createCardRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.sendJSONError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Word == "" || req.Translate == "" {
		s.sendJSONError(w, http.StatusBadRequest, "word and translate are required")
		return
	}
	if req.GroupName == "" && req.GroupID == "" {
		s.sendJSONError(w, http.StatusBadRequest, "groupName or groupId is required")
		return
	}

	ctx, cancel := requestContext(r)
	defer cancel()

	c, err := s.deck.CreateCard(ctx, p, req.Word, req.Translate, req.GroupName, req.GroupID)
	if err != nil {
		s.sendServiceError(w, err)
		return
	}

	s.writeJSON(w, http.StatusCreated, toCardResponse(c))
}

func (s *Server) handleListCards(w http.ResponseWriter, r *http.Request) {
	p := auth.MustFromContext(r.Context())

	ctx, cancel := requestContext(r)
	defer cancel()

	cards, err := s.deck.ListCards(ctx, p)
	if err != nil {
		s.sendServiceError(w, err)
		return
	}

	resp := make([]CardResponse, 0, len(cards))
	for _, c := range cards {
		resp = append(resp, toCardResponse(c))
	}
	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetCard(w http.ResponseWriter, r *http.Request) {
	p := auth.MustFromContext(r.Context())

	ctx, cancel := requestContext(r)
	defer cancel()

	c, err := s.deck.GetCard(ctx, p, r.PathValue("id"))
	if err != nil {
		s.sendServiceError(w, err)
		return
	}

	s.writeJSON(w, http.StatusOK, toCardResponse(c))
}

func (s *Server) handleUpdateCard(w http.ResponseWriter, r *http.Request) {
	p := auth.MustFromContext(r.Context())

	var req updateCardRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.sendJSONError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Word == nil && req.Translate == nil {
		s.sendJSONError(w, http.StatusBadRequest, "nothing to update")
		return
	}

	ctx, cancel := requestContext(r)
	defer cancel()

	c, err := s.deck.UpdateCard(ctx, p, r.PathValue("id"), store.CardUpdate{
		Word:      req.Word,
		Translate: req.Translate,
	})
	if err != nil {
		s.sendServiceError(w, err)
		return
	}

	s.writeJSON(w, http.StatusOK, toCardResponse(c))
}

func groupResponses(groups []*store.Group) []GroupResponse {
	resp := make([]GroupResponse, 0, len(groups))
	for _, g := range groups {
		resp = append(resp, toGroupResponse(g))
	}
	return resp
}
