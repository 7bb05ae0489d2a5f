package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/joestump/linkpage/internal/store"
)

// usersAPIHandler serves the caller's profile and public profiles.
type usersAPIHandler struct {
	users  store.Users
	links  store.Links
	logger *slog.Logger
}

// registerUserRoutes registers the protected /users/me routes. The public
// profile route is registered separately by the router.
func registerUserRoutes(r chi.Router, h *usersAPIHandler) {
	r.Get("/users/me", h.Me)
	r.Put("/users/me", h.UpdateMe)
}

// Me returns the authenticated user.
// GET /users/me
//
// @Summary      Get current user
// @Description  Returns the authenticated user's account. The password is never included.
// @Tags         Users
// @Produce      json
// @Success      200  {object}  UserResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      403  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Failure      500  {object}  ErrorResponse
// @Security     BearerToken
// @Router       /users/me [get]
func (h *usersAPIHandler) Me(w http.ResponseWriter, r *http.Request) {
	uid, ok := callerID(w, r)
	if !ok {
		return
	}
	u, err := h.users.GetByID(r.Context(), uid)
	if err != nil {
		writeStoreError(w, r, h.logger, "user not found", err)
		return
	}
	writeJSON(w, http.StatusOK, toUserResponse(u))
}

// UpdateMe edits the authenticated user's profile.
// PUT /users/me
//
// @Summary      Update current user
// @Description  Updates name, bio and avatar. Omitted fields are unchanged.
// @Tags         Users
// @Accept       json
// @Produce      json
// @Param        body  body      UpdateProfileRequest  true  "Profile fields"
// @Success      200   {object}  UserResponse
// @Failure      400   {object}  ErrorResponse
// @Failure      401   {object}  ErrorResponse
// @Failure      403   {object}  ErrorResponse
// @Failure      404   {object}  ErrorResponse
// @Failure      500   {object}  ErrorResponse
// @Security     BearerToken
// @Router       /users/me [put]
func (h *usersAPIHandler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	uid, ok := callerID(w, r)
	if !ok {
		return
	}
	var req UpdateProfileRequest
	if !decodeBody(w, r, &req) {
		return
	}
	upd := req.toUpdate()
	if err := upd.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error(), codeValidation)
		return
	}

	u, err := h.users.UpdateProfile(r.Context(), uid, upd)
	if err != nil {
		writeStoreError(w, r, h.logger, "user not found", err)
		return
	}
	writeJSON(w, http.StatusOK, toUserResponse(u))
}

// Profile returns a user's public page: profile fields and links.
// GET /users/{username}
//
// @Summary      Get public profile
// @Description  Returns the public profile and links of a user. Email and password are never included.
// @Tags         Users
// @Produce      json
// @Param        username  path      string  true  "Username"
// @Success      200       {object}  PublicProfileResponse
// @Failure      404       {object}  ErrorResponse
// @Failure      500       {object}  ErrorResponse
// @Router       /users/{username} [get]
func (h *usersAPIHandler) Profile(w http.ResponseWriter, r *http.Request) {
	username := store.NormalizeUsername(chi.URLParam(r, "username"))
	u, err := h.users.GetByUsername(r.Context(), username)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "user not found", codeNotFound)
		return
	}
	if err != nil {
		writeInternal(w, r, h.logger, "load public profile", err)
		return
	}

	links, err := h.links.ListByOwner(r.Context(), u.ID)
	if err != nil {
		writeInternal(w, r, h.logger, "list public links", err)
		return
	}

	writeJSON(w, http.StatusOK, PublicProfileResponse{
		Username: u.Username,
		Name:     u.Name,
		Bio:      u.Bio,
		Avatar:   u.Avatar,
		Links:    toLinkResponses(links),
	})
}
