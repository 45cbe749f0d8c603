package api

import (
	"net/http"

	"github.com/JaimeStill/pdf-lab/internal/faults"
)

// unmatched answers requests that match no route with the error envelope
// instead of the mux's plain-text 404 and 405 responses.
func unmatched(mux *http.ServeMux, rs *faults.Responder) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h, pattern := mux.Handler(r)
		if pattern != "" {
			mux.ServeHTTP(w, r)
			return
		}

		probe := &statusProbe{header: http.Header{}}
		h.ServeHTTP(probe, r)

		switch probe.status {
		case http.StatusMethodNotAllowed:
			if allow := probe.header.Get("Allow"); allow != "" {
				w.Header().Set("Allow", allow)
			}
			rs.MethodNotAllowed(w, r)
		case http.StatusNotFound:
			rs.NotFound(w, r)
		default:
			mux.ServeHTTP(w, r)
		}
	})
}

// statusProbe captures the status and headers a handler would write.
type statusProbe struct {
	header http.Header
	status int
}

func (p *statusProbe) Header() http.Header { return p.header }

func (p *statusProbe) Write(b []byte) (int, error) {
	if p.status == 0 {
		p.status = http.StatusOK
	}
	return len(b), nil
}

func (p *statusProbe) WriteHeader(status int) {
	if p.status == 0 {
		p.status = status
	}
}
