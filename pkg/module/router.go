package module

import (
	"net/http"
	"sort"
	"strings"
)

// Router dispatches to mounted modules by longest matching prefix and falls
// back to natively registered handlers.
type Router struct {
	native   *http.ServeMux
	modules  []*Module
	notFound http.Handler
}

// NewRouter creates an empty router.
func NewRouter() *Router {
	return &Router{
		native: http.NewServeMux(),
	}
}

// HandleNative registers a handler on the underlying ServeMux using the
// standard method-and-path pattern syntax.
func (r *Router) HandleNative(pattern string, handler http.HandlerFunc) {
	r.native.HandleFunc(pattern, handler)
}

// NotFound sets the handler used when no module or native route matches.
func (r *Router) NotFound(handler http.Handler) {
	r.notFound = handler
}

// Mount attaches a module. Modules with longer prefixes take precedence.
func (r *Router) Mount(m *Module) {
	r.modules = append(r.modules, m)
	sort.SliceStable(r.modules, func(i, j int) bool {
		return len(r.modules[i].prefix) > len(r.modules[j].prefix)
	})
}

// ServeHTTP implements http.Handler.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	for _, m := range r.modules {
		if matches(req.URL.Path, m.prefix) {
			m.Serve(w, req)
			return
		}
	}

	if r.notFound != nil {
		if _, pattern := r.native.Handler(req); pattern == "" {
			r.notFound.ServeHTTP(w, req)
			return
		}
	}

	r.native.ServeHTTP(w, req)
}

func matches(path, prefix string) bool {
	if path == prefix {
		return true
	}
	return strings.HasPrefix(path, prefix+"/")
}
