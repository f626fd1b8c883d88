package api

import (
	"net/http"
	"sort"
	"strings"

	"github.com/malusev998/currency-calc/metrics"
)

// Router instruments every route under its registered URL; anything else is
// a 404 counted as metrics.UnmatchedEndpoint.
type Router struct {
	metrics metrics.Provider
	routes  map[string]map[string]http.Handler
	urls    []string
}

func NewRouter(m metrics.Provider) *Router {
	if m == nil {
		m = metrics.Noop()
	}

	return &Router{
		metrics: m,
		routes:  make(map[string]map[string]http.Handler),
	}
}

func (r *Router) Get(url string, handler http.Handler) {
	r.handle(http.MethodGet, url, handler)
}

func (r *Router) Post(url string, handler http.Handler) {
	r.handle(http.MethodPost, url, handler)
}

func (r *Router) Delete(url string, handler http.Handler) {
	r.handle(http.MethodDelete, url, handler)
}

func (r *Router) handle(method, url string, handler http.Handler) {
	methods, ok := r.routes[url]

	if !ok {
		methods = make(map[string]http.Handler)
		r.routes[url] = methods
		r.urls = append(r.urls, url)
	}

	methods[method] = handler
}

func (r *Router) Mux() *http.ServeMux {
	mux := http.NewServeMux()

	for _, url := range r.urls {
		mux.Handle(url, metrics.Middleware(r.metrics, url, methodHandler(r.routes[url])))
	}

	mux.Handle("/", metrics.Middleware(r.metrics, metrics.UnmatchedEndpoint, http.NotFoundHandler()))

	return mux
}

func methodHandler(handlers map[string]http.Handler) http.Handler {
	allowed := make([]string, 0, len(handlers))

	for method := range handlers {
		allowed = append(allowed, method)
	}

	sort.Strings(allowed)
	allow := strings.Join(allowed, ", ")

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		handler, ok := handlers[r.Method]

		if !ok {
			w.Header().Set("Allow", allow)
			http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
			return
		}

		handler.ServeHTTP(w, r)
	})
}
