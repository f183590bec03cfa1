// ABOUTME: Card and tag handlers
// ABOUTME: Card types are checked against the plugin registry before they are stored

package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/2389/benotes/internal/plugins"
	"github.com/2389/benotes/internal/store"
)

func (s *server) handleListCards(w http.ResponseWriter, r *http.Request) {
	ts, err := s.tenantStore(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	var pageID *string
	if v := r.URL.Query().Get("page_id"); v != "" {
		pageID = &v
	}
	cards, err := ts.ListCards(r.Context(), pageID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	out := make([]CardResponse, len(cards))
	for i, c := range cards {
		out[i] = toCardResponse(c)
	}
	plugins.WriteJSON(w, http.StatusOK, map[string]any{"cards": out})
}

type createCardRequest struct {
	PageID   *string         `json:"page_id"`
	Type     string          `json:"type"`
	Plugin   string          `json:"plugin"`
	Content  json.RawMessage `json:"content"`
	Metadata json.RawMessage `json:"metadata"`
}

func (s *server) handleCreateCard(w http.ResponseWriter, r *http.Request) {
	var req createCardRequest
	if err := plugins.DecodeJSON(w, r, &req); err != nil {
		badRequest(w, "invalid request body")
		return
	}
	if err := s.plugins.ValidateCardType(req.Plugin, req.Type); err != nil {
		if errors.Is(err, plugins.ErrPluginNotFound) || errors.Is(err, plugins.ErrUnknownCardType) {
			badRequest(w, err.Error())
			return
		}
		s.writeError(w, r, err)
		return
	}

	ts, err := s.tenantStore(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	card := &store.Card{
		PageID:   req.PageID,
		Type:     req.Type,
		Plugin:   req.Plugin,
		Content:  req.Content,
		Metadata: req.Metadata,
	}
	if err := ts.CreateCard(r.Context(), card); err != nil {
		s.writeError(w, r, err)
		return
	}
	plugins.WriteJSON(w, http.StatusCreated, toCardResponse(card))
}

func (s *server) handleGetCard(w http.ResponseWriter, r *http.Request) {
	ts, err := s.tenantStore(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	card, err := ts.GetCard(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	plugins.WriteJSON(w, http.StatusOK, toCardResponse(card))
}

type updateCardRequest struct {
	Content  json.RawMessage `json:"content"`
	Metadata json.RawMessage `json:"metadata"`
}

func (s *server) handleUpdateCard(w http.ResponseWriter, r *http.Request) {
	var req updateCardRequest
	if err := plugins.DecodeJSON(w, r, &req); err != nil {
		badRequest(w, "invalid request body")
		return
	}
	ts, err := s.tenantStore(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	card, err := ts.UpdateCard(r.Context(), chi.URLParam(r, "id"), req.Content, req.Metadata)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	plugins.WriteJSON(w, http.StatusOK, toCardResponse(card))
}

func (s *server) handleDeleteCard(w http.ResponseWriter, r *http.Request) {
	ts, err := s.tenantStore(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := ts.DeleteCard(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *server) handleListTags(w http.ResponseWriter, r *http.Request) {
	ts, err := s.tenantStore(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	tags, err := ts.ListTags(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	out := make([]TagResponse, len(tags))
	for i, t := range tags {
		out[i] = TagResponse{ID: t.ID, Name: t.Name, Color: t.Color}
	}
	plugins.WriteJSON(w, http.StatusOK, map[string]any{"tags": out})
}

type createTagRequest struct {
	Name  string `json:"name"`
	Color string `json:"color"`
}

func (s *server) handleCreateTag(w http.ResponseWriter, r *http.Request) {
	var req createTagRequest
	if err := plugins.DecodeJSON(w, r, &req); err != nil {
		badRequest(w, "invalid request body")
		return
	}
	ts, err := s.tenantStore(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	tag, err := ts.CreateTag(r.Context(), req.Name, req.Color)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	plugins.WriteJSON(w, http.StatusCreated, TagResponse{ID: tag.ID, Name: tag.Name, Color: tag.Color})
}

func (s *server) handleDeleteTag(w http.ResponseWriter, r *http.Request) {
	ts, err := s.tenantStore(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := ts.DeleteTag(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
