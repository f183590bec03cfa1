// ABOUTME: Plugin listing and the operator-only tenant reset endpoint

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/2389/benotes/internal/auth"
	"github.com/2389/benotes/internal/plugins"
)

func (s *server) handleListPlugins(w http.ResponseWriter, r *http.Request) {
	all := s.plugins.All()
	out := make([]PluginResponse, len(all))
	for i, p := range all {
		out[i] = toPluginResponse(p)
	}
	plugins.WriteJSON(w, http.StatusOK, map[string]any{"plugins": out})
}

// handleResetTenant deletes a tenant's data file. Destructive, no backup.
func (s *server) handleResetTenant(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := s.tenants.Reset(r.Context(), id); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.logger.Warn("tenant store reset via api",
		"tenant", id,
		"by", auth.MustFromContext(r.Context()).Name,
	)
	w.WriteHeader(http.StatusNoContent)
}
