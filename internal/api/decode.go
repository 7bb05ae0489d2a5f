package api

import (
	"encoding/json"
	"net/http"
)

const maxBodyBytes = 1 << 20

// decodeBody decodes the JSON request body into v. Unknown fields are
// ignored. On failure it writes a 400 and returns false.
func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", codeValidation)
		return false
	}
	return true
}
