package middleware

import (
	"net/http"
	"net/url"
	"strings"
)

// TrimSlash returns middleware that redirects requests with trailing slashes
// to their canonical form without the slash. The root path "/" is preserved.
// Requests with a body are redirected with 308 so the method survives.
// The redirect target is built from the original request URI so it stays
// correct behind a module that strips its prefix.
func TrimSlash() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if len(r.URL.Path) > 1 && strings.HasSuffix(r.URL.Path, "/") {
				http.Redirect(w, r, canonical(r), redirectStatus(r))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func canonical(r *http.Request) string {
	u := r.URL
	if r.RequestURI != "" {
		if parsed, err := url.ParseRequestURI(r.RequestURI); err == nil {
			u = parsed
		}
	}

	target := strings.TrimSuffix(u.Path, "/")
	if target == "" {
		target = "/"
	}
	if u.RawQuery != "" {
		target += "?" + u.RawQuery
	}
	return target
}

func redirectStatus(r *http.Request) int {
	if r.Method == http.MethodGet || r.Method == http.MethodHead {
		return http.StatusMovedPermanently
	}
	return http.StatusPermanentRedirect
}
