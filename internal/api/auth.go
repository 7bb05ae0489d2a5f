package api

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/joestump/linkpage/internal/auth"
	"github.com/joestump/linkpage/internal/metrics"
	"github.com/joestump/linkpage/internal/store"
)

// authAPIHandler serves registration and login.
type authAPIHandler struct {
	users  store.Users
	hasher *auth.Hasher
	issuer *auth.Issuer
	logger *slog.Logger
}

func registerAuthRoutes(r chi.Router, h *authAPIHandler) {
	r.Post("/auth/register", h.Register)
	r.Post("/auth/login", h.Login)
}

// Register creates an account.
// POST /auth/register
//
// @Summary      Register
// @Description  Creates an account. Usernames are case-insensitive and must be unique, as must emails when given.
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        body  body      RegisterRequest  true  "New account"
// @Success      200   {object}  MessageResponse
// @Failure      400   {object}  ErrorResponse
// @Failure      500   {object}  ErrorResponse
// @Router       /auth/register [post]
func (h *authAPIHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if !decodeBody(w, r, &req) {
		metrics.RegistrationsTotal.WithLabelValues("invalid").Inc()
		return
	}

	username := store.NormalizeUsername(req.Username)
	email := strings.ToLower(strings.TrimSpace(req.Email))
	for _, err := range []error{
		store.ValidateUsername(username),
		store.ValidatePassword(req.Password),
		store.ValidateEmail(email),
	} {
		if err != nil {
			metrics.RegistrationsTotal.WithLabelValues("invalid").Inc()
			writeError(w, http.StatusBadRequest, err.Error(), codeValidation)
			return
		}
	}

	hash, err := h.hasher.Hash(req.Password)
	if err != nil {
		metrics.RegistrationsTotal.WithLabelValues("error").Inc()
		writeInternal(w, r, h.logger, "hash password", err)
		return
	}

	u, err := h.users.Create(r.Context(), &store.User{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
	})
	if err != nil {
		if isAny(err, conflictErrors) {
			metrics.RegistrationsTotal.WithLabelValues("conflict").Inc()
		} else {
			metrics.RegistrationsTotal.WithLabelValues("error").Inc()
		}
		writeStoreError(w, r, h.logger, "user not found", err)
		return
	}

	metrics.RegistrationsTotal.WithLabelValues("created").Inc()
	h.logger.InfoContext(r.Context(), "user registered",
		slog.String("user_id", u.ID),
		slog.String("username", u.Username),
	)
	writeJSON(w, http.StatusOK, MessageResponse{Message: "User registered successfully"})
}

// Login exchanges credentials for an access token. An unknown username and a
// wrong password produce the same response.
// POST /auth/login
//
// @Summary      Log in
// @Description  Verifies the credentials and returns a signed bearer token.
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        body  body      LoginRequest  true  "Credentials"
// @Success      200   {object}  LoginResponse
// @Failure      400   {object}  ErrorResponse
// @Failure      401   {object}  ErrorResponse
// @Failure      500   {object}  ErrorResponse
// @Router       /auth/login [post]
func (h *authAPIHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !decodeBody(w, r, &req) {
		metrics.LoginsTotal.WithLabelValues("invalid").Inc()
		return
	}
	username := store.NormalizeUsername(req.Username)
	if username == "" || req.Password == "" {
		metrics.LoginsTotal.WithLabelValues("invalid").Inc()
		writeError(w, http.StatusBadRequest, "username and password are required", codeValidation)
		return
	}

	u, err := h.users.GetByUsername(r.Context(), username)
	if errors.Is(err, store.ErrNotFound) {
		h.rejectLogin(w, r, username)
		return
	}
	if err != nil {
		metrics.LoginsTotal.WithLabelValues("error").Inc()
		writeInternal(w, r, h.logger, "load user for login", err)
		return
	}

	ok, err := h.hasher.Verify(u.PasswordHash, req.Password)
	if err != nil {
		metrics.LoginsTotal.WithLabelValues("error").Inc()
		writeInternal(w, r, h.logger, "verify password", err)
		return
	}
	if !ok {
		h.rejectLogin(w, r, username)
		return
	}

	token, expiresAt, err := h.issuer.Issue(auth.Identity{UserID: u.ID, Username: u.Username})
	if err != nil {
		metrics.LoginsTotal.WithLabelValues("error").Inc()
		writeInternal(w, r, h.logger, "issue token", err)
		return
	}

	metrics.LoginsTotal.WithLabelValues("success").Inc()
	writeJSON(w, http.StatusOK, LoginResponse{
		Token:     token,
		TokenType: "Bearer",
		ExpiresAt: expiresAt,
	})
}

func (h *authAPIHandler) rejectLogin(w http.ResponseWriter, r *http.Request, username string) {
	metrics.LoginsTotal.WithLabelValues("failure").Inc()
	h.logger.InfoContext(r.Context(), "login rejected", slog.String("username", username))
	writeError(w, http.StatusUnauthorized, "invalid username or password", codeInvalidCredentials)
}
