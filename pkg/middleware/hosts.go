package middleware

import (
	"net"
	"net/http"
	"strings"
)

// TrustedHosts passes requests whose Host matches one of hosts to next and
// sends the rest to reject. A "*" entry allows every host. Entries of the
// form "*.example.com" match any subdomain.
func TrustedHosts(hosts []string, reject http.Handler) func(http.Handler) http.Handler {
	allowAll := len(hosts) == 0
	normalized := make([]string, 0, len(hosts))
	for _, h := range hosts {
		h = strings.ToLower(strings.TrimSpace(h))
		if h == "*" {
			allowAll = true
		}
		if h != "" {
			normalized = append(normalized, h)
		}
	}

	return func(next http.Handler) http.Handler {
		if allowAll {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if hostAllowed(r.Host, normalized) {
				next.ServeHTTP(w, r)
				return
			}
			reject.ServeHTTP(w, r)
		})
	}
}

func hostAllowed(host string, allowed []string) bool {
	if h, _, err := net.SplitHostPort(host); err == nil {
		host = h
	}
	host = strings.ToLower(host)

	for _, pattern := range allowed {
		if pattern == host {
			return true
		}
		if suffix, ok := strings.CutPrefix(pattern, "*"); ok && strings.HasSuffix(host, suffix) {
			return true
		}
	}
	return false
}
