package httpapi

import (
	"net/http"
	"strings"
)

// bearerFromRequest extracts the opaque bearer credential from the
// Authorization header. Empty string when the header is absent or not
// a Bearer scheme.
func bearerFromRequest(r *http.Request) string {
	header := r.Header.Get("Authorization")
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}
