package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/joestump/linkpage/internal/metrics"
	"github.com/joestump/linkpage/internal/store"
)

// linksAPIHandler provides REST handlers for the caller's links.
type linksAPIHandler struct {
	links  store.Links
	logger *slog.Logger
}

// registerLinkRoutes registers link routes on r.
func registerLinkRoutes(r chi.Router, h *linksAPIHandler) {
	r.Get("/links", h.List)
	r.Post("/links", h.Create)
	r.Put("/links/{id}", h.Update)
	r.Delete("/links/{id}", h.Delete)
}

// List returns the caller's links, oldest first.
// GET /links
//
// @Summary      List links
// @Description  Returns the links owned by the caller in creation order.
// @Tags         Links
// @Produce      json
// @Success      200  {array}   LinkResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      403  {object}  ErrorResponse
// @Failure      500  {object}  ErrorResponse
// @Security     BearerToken
// @Router       /links [get]
func (h *linksAPIHandler) List(w http.ResponseWriter, r *http.Request) {
	uid, ok := callerID(w, r)
	if !ok {
		return
	}
	links, err := h.links.ListByOwner(r.Context(), uid)
	if err != nil {
		writeInternal(w, r, h.logger, "list links", err)
		return
	}
	metrics.LinkOperationsTotal.WithLabelValues("list").Inc()
	writeJSON(w, http.StatusOK, toLinkResponses(links))
}

// Create adds a link owned by the caller.
// POST /links
//
// @Summary      Create a link
// @Description  Adds a link to the caller's page. Titles are unique per user.
// @Tags         Links
// @Accept       json
// @Produce      json
// @Param        body  body      CreateLinkRequest  true  "Link to create"
// @Success      200   {object}  LinkResponse
// @Failure      400   {object}  ErrorResponse
// @Failure      401   {object}  ErrorResponse
// @Failure      403   {object}  ErrorResponse
// @Failure      500   {object}  ErrorResponse
// @Security     BearerToken
// @Router       /links [post]
func (h *linksAPIHandler) Create(w http.ResponseWriter, r *http.Request) {
	uid, ok := callerID(w, r)
	if !ok {
		return
	}
	var req CreateLinkRequest
	if !decodeBody(w, r, &req) {
		return
	}

	l := req.toLink(uid)
	for _, err := range []error{
		store.ValidateTitle(l.Title),
		store.ValidateURL(l.URL),
		store.ValidateOptionalURL(l.ImageURL),
	} {
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error(), codeValidation)
			return
		}
	}

	created, err := h.links.Create(r.Context(), l)
	if err != nil {
		writeStoreError(w, r, h.logger, "link not found", err)
		return
	}
	metrics.LinkOperationsTotal.WithLabelValues("create").Inc()
	writeJSON(w, http.StatusOK, toLinkResponse(created))
}

// Update edits one of the caller's links.
// PUT /links/{id}
//
// @Summary      Update a link
// @Description  Updates title, url and image url. Omitted fields are unchanged. Links owned by other users are reported as not found.
// @Tags         Links
// @Accept       json
// @Produce      json
// @Param        id    path      string             true  "Link ID"
// @Param        body  body      UpdateLinkRequest  true  "Fields to update"
// @Success      200   {object}  LinkResponse
// @Failure      400   {object}  ErrorResponse
// @Failure      401   {object}  ErrorResponse
// @Failure      403   {object}  ErrorResponse
// @Failure      404   {object}  ErrorResponse
// @Failure      500   {object}  ErrorResponse
// @Security     BearerToken
// @Router       /links/{id} [put]
func (h *linksAPIHandler) Update(w http.ResponseWriter, r *http.Request) {
	uid, ok := callerID(w, r)
	if !ok {
		return
	}
	var req UpdateLinkRequest
	if !decodeBody(w, r, &req) {
		return
	}
	upd := req.toUpdate()
	if err := upd.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error(), codeValidation)
		return
	}

	updated, err := h.links.Update(r.Context(), chi.URLParam(r, "id"), uid, upd)
	if err != nil {
		writeStoreError(w, r, h.logger, "link not found", err)
		return
	}
	metrics.LinkOperationsTotal.WithLabelValues("update").Inc()
	writeJSON(w, http.StatusOK, toLinkResponse(updated))
}

// Delete removes one of the caller's links.
// DELETE /links/{id}
//
// @Summary      Delete a link
// @Description  Deletes a link owned by the caller. Links owned by other users are reported as not found.
// @Tags         Links
// @Produce      json
// @Param        id   path      string  true  "Link ID"
// @Success      200  {object}  MessageResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      403  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Failure      500  {object}  ErrorResponse
// @Security     BearerToken
// @Router       /links/{id} [delete]
func (h *linksAPIHandler) Delete(w http.ResponseWriter, r *http.Request) {
	uid, ok := callerID(w, r)
	if !ok {
		return
	}
	if err := h.links.Delete(r.Context(), chi.URLParam(r, "id"), uid); err != nil {
		writeStoreError(w, r, h.logger, "link not found", err)
		return
	}
	metrics.LinkOperationsTotal.WithLabelValues("delete").Inc()
	writeJSON(w, http.StatusOK, MessageResponse{Message: "Link deleted"})
}
