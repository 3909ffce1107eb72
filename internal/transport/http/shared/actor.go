package shared

import (
	"net/http"
	"strings"
)

// Actor names who performed an administrative action for the audit trail.
// There is no authentication layer; callers self-identify via X-Actor.
func Actor(r *http.Request) string {
	if v := strings.TrimSpace(r.Header.Get("X-Actor")); v != "" {
		return v
	}
	return "anonymous"
}
