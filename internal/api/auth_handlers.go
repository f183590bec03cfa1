// ABOUTME: Registration and login handlers
// ABOUTME: Login materializes the caller's tenant before issuing a token

package api

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/2389/benotes/internal/auth"
	"github.com/2389/benotes/internal/plugins"
	"github.com/2389/benotes/internal/store"
	"github.com/2389/benotes/internal/tenant"
)

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (s *server) handleRegister(w http.ResponseWriter, r *http.Request) {
	if !s.allowRegistration {
		plugins.WriteError(w, http.StatusForbidden, "registration is disabled")
		return
	}

	var req registerRequest
	if err := plugins.DecodeJSON(w, r, &req); err != nil {
		badRequest(w, "invalid request body")
		return
	}

	// The name becomes the tenant ID, so it must be path-safe.
	req.Name = strings.TrimSpace(req.Name)
	if err := tenant.ValidateID(req.Name); err != nil {
		badRequest(w, "name must be 1-64 letters, digits, '-' or '_'")
		return
	}
	if !strings.Contains(req.Email, "@") {
		badRequest(w, "a valid email is required")
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if errors.Is(err, auth.ErrPasswordTooShort) {
		badRequest(w, err.Error())
		return
	}
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	sys, err := s.tenants.System(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	user := &store.User{Name: req.Name, Email: req.Email, PasswordHash: hash}
	if err := sys.CreateUser(r.Context(), user); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			plugins.WriteError(w, http.StatusConflict, "name or email already registered")
			return
		}
		s.writeError(w, r, err)
		return
	}

	s.logger.Info("user registered", "user_id", user.ID, "name", user.Name)
	plugins.WriteJSON(w, http.StatusCreated, toUserResponse(user))
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
	User      UserResponse `json:"user"`
}

func (s *server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := plugins.DecodeJSON(w, r, &req); err != nil {
		badRequest(w, "invalid request body")
		return
	}

	sys, err := s.tenants.System(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	user, err := sys.GetUserByEmail(r.Context(), req.Email)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		s.writeError(w, r, err)
		return
	}
	if user == nil || auth.CheckPassword(user.PasswordHash, req.Password) != nil {
		plugins.WriteError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	// Safe on every login: registration and store bootstrap are idempotent.
	if _, err := s.tenants.Init(r.Context(), user.Name, user.Name); err != nil {
		s.writeError(w, r, err)
		return
	}

	expiresAt := time.Now().Add(s.tokenTTL)
	token, err := s.issuer.Generate(auth.Identity{UserID: user.ID, Name: user.Name}, s.tokenTTL)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.logger.Info("user logged in", "user_id", user.ID, "tenant", user.Name)
	plugins.WriteJSON(w, http.StatusOK, loginResponse{
		Token:     token,
		ExpiresAt: expiresAt.UTC(),
		User:      toUserResponse(user),
	})
}

func (s *server) handleMe(w http.ResponseWriter, r *http.Request) {
	id := auth.MustFromContext(r.Context())
	plugins.WriteJSON(w, http.StatusOK, map[string]string{
		"user_id": id.UserID,
		"name":    id.Name,
		"tenant":  id.TenantID(),
	})
}
