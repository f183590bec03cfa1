// ABOUTME: Maps domain errors onto HTTP responses
// ABOUTME: Unexpected failures are logged and surface as a bare 500

package api

import (
	"errors"
	"net/http"

	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/2389/benotes/internal/plugins"
	"github.com/2389/benotes/internal/tenant"
)

func (s *server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, tenant.ErrInvalidTenantID) {
		plugins.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	if plugins.StatusFor(err) == http.StatusInternalServerError {
		s.logger.Error("request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"request_id", chimw.GetReqID(r.Context()),
			"error", err,
		)
	}
	plugins.WriteStoreError(w, err)
}

func badRequest(w http.ResponseWriter, message string) {
	plugins.WriteError(w, http.StatusBadRequest, message)
}
