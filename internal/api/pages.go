// ABOUTME: Page handlers: list, create, fetch by id or slug, tree children, content save, rename, delete
// ABOUTME: Content is stored verbatim; the server never parses the editor document

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/2389/benotes/internal/plugins"
)

func (s *server) handleListPages(w http.ResponseWriter, r *http.Request) {
	ts, err := s.tenantStore(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	pages, err := ts.ListPages(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	plugins.WriteJSON(w, http.StatusOK, map[string]any{"pages": toPageResponses(pages)})
}

type createPageRequest struct {
	Title    string  `json:"title"`
	ParentID *string `json:"parent_id"`
}

func (s *server) handleCreatePage(w http.ResponseWriter, r *http.Request) {
	var req createPageRequest
	if err := plugins.DecodeJSON(w, r, &req); err != nil {
		badRequest(w, "invalid request body")
		return
	}
	ts, err := s.tenantStore(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	page, err := ts.CreatePage(r.Context(), req.Title, req.ParentID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	plugins.WriteJSON(w, http.StatusCreated, toPageResponse(page))
}

func (s *server) handleGetPage(w http.ResponseWriter, r *http.Request) {
	ts, err := s.tenantStore(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	page, err := ts.GetPage(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	plugins.WriteJSON(w, http.StatusOK, toPageResponse(page))
}

// handleGetPageBySlug returns the earliest page with the slug. Slugs are not
// unique, so later pages with the same title shape are only reachable by id.
func (s *server) handleGetPageBySlug(w http.ResponseWriter, r *http.Request) {
	ts, err := s.tenantStore(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	page, err := ts.GetPageBySlug(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	plugins.WriteJSON(w, http.StatusOK, toPageResponse(page))
}

func (s *server) handleListChildPages(w http.ResponseWriter, r *http.Request) {
	ts, err := s.tenantStore(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	id := chi.URLParam(r, "id")
	if _, err := ts.GetPage(r.Context(), id); err != nil {
		s.writeError(w, r, err)
		return
	}
	children, err := ts.ListChildPages(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	plugins.WriteJSON(w, http.StatusOK, map[string]any{"pages": toPageResponses(children)})
}

type updateContentRequest struct {
	Content string `json:"content"`
}

func (s *server) handleUpdatePageContent(w http.ResponseWriter, r *http.Request) {
	var req updateContentRequest
	if err := plugins.DecodeJSON(w, r, &req); err != nil {
		badRequest(w, "invalid request body")
		return
	}
	ts, err := s.tenantStore(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	page, err := ts.UpdatePageContent(r.Context(), chi.URLParam(r, "id"), req.Content)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	plugins.WriteJSON(w, http.StatusOK, toPageResponse(page))
}

type renamePageRequest struct {
	Title string `json:"title"`
}

func (s *server) handleRenamePage(w http.ResponseWriter, r *http.Request) {
	var req renamePageRequest
	if err := plugins.DecodeJSON(w, r, &req); err != nil {
		badRequest(w, "invalid request body")
		return
	}
	ts, err := s.tenantStore(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	page, err := ts.RenamePage(r.Context(), chi.URLParam(r, "id"), req.Title)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	plugins.WriteJSON(w, http.StatusOK, toPageResponse(page))
}

func (s *server) handleDeletePage(w http.ResponseWriter, r *http.Request) {
	ts, err := s.tenantStore(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := ts.DeletePage(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
