package http

import (
	"net/http"

	"DeadlineAgent/internal/http/handlers"
)

// Router bundles the front-end endpoints behind one handler.
type Router struct {
	mux *http.ServeMux
}

// NewRouter registers all handlers on a fresh mux.
func NewRouter(scrape *handlers.ScrapeHandler, assignments *handlers.AssignmentsHandler) *Router {
	mux := http.NewServeMux()
	scrape.Register(mux)
	assignments.Register(mux)

	return &Router{mux: mux}
}

// Handler exposes the mux for an http.Server.
func (r *Router) Handler() http.Handler {
	return r.mux
}
