package shared

import (
	"net"
	"net/http"
	"strings"
)

// ClientIP returns the remote host without the port. Forwarded headers are
// ignored on purpose; the service is expected to sit behind a trusted proxy
// that rewrites RemoteAddr.
func ClientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(strings.TrimSpace(r.RemoteAddr))
	if err != nil {
		return strings.TrimSpace(r.RemoteAddr)
	}
	return host
}
