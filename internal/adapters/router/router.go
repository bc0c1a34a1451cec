// Package router provides the console's Navigator: it tracks the current route and a bounded history.
package router

import (
	"log/slog"
	"strings"
	"sync"
)

const defaultHistoryLimit = 50

// Router implements ports.Navigator in memory.
type Router struct {
	mu      sync.RWMutex
	current string
	history []string
	limit   int
	logger  *slog.Logger
}

// Options configures a Router.
type Options struct {
	// Initial is the route the console starts on; defaults to "/".
	Initial string
	// HistoryLimit bounds the remembered routes; defaults to 50.
	HistoryLimit int
	Logger       *slog.Logger
}

// New constructs a Router.
func New(opts Options) *Router {
	initial := normalize(opts.Initial)
	limit := opts.HistoryLimit
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	return &Router{
		current: initial,
		history: []string{initial},
		limit:   limit,
		logger:  opts.Logger,
	}
}

// Navigate moves to route. Navigating to the current route is a no-op.
func (r *Router) Navigate(route string) {
	route = normalize(route)

	r.mu.Lock()
	if route == r.current {
		r.mu.Unlock()
		return
	}
	from := r.current
	r.current = route
	r.history = append(r.history, route)
	if len(r.history) > r.limit {
		r.history = r.history[len(r.history)-r.limit:]
	}
	r.mu.Unlock()

	if r.logger != nil {
		r.logger.Debug("navigate", "from", from, "to", route)
	}
}

// CurrentRoute returns the active route.
func (r *Router) CurrentRoute() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.current
}

// History returns visited routes, oldest first.
func (r *Router) History() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]string(nil), r.history...)
}

func normalize(route string) string {
	route = strings.TrimSpace(route)
	if route == "" {
		return "/"
	}
	if !strings.HasPrefix(route, "/") {
		route = "/" + route
	}
	return route
}
