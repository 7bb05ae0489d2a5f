package api

import (
	"net/http"

	"github.com/joestump/linkpage/internal/auth"
)

// callerID returns the authenticated user id. Protected routes always run
// behind RequireToken, so a missing identity means the route was mounted
// without it.
func callerID(w http.ResponseWriter, r *http.Request) (string, bool) {
	id, ok := auth.IdentityFromContext(r.Context())
	if !ok || id.UserID == "" {
		writeError(w, http.StatusUnauthorized, "unauthorized", codeUnauthorized)
		return "", false
	}
	return id.UserID, true
}
