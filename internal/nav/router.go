// Package nav implements the page dispatcher for the server-rendered back
// office. Unlike the chi mux that fronts the application, this router keeps
// an ordered table of slash-delimited patterns with :name placeholders,
// answers "which view is shown" and enforces the authentication guard before
// any page handler runs.
package nav

import (
	"log/slog"
	"net/http"
	"strings"
)

// HandlerFunc renders the page for a resolved route. Placeholder segments are
// delivered in params keyed by their name without the leading colon.
type HandlerFunc func(w http.ResponseWriter, r *http.Request, params map[string]string) error

// Guard answers whether the current principal may view a normalized path.
type Guard interface {
	CanActivate(r *http.Request, path string) bool
	CurrentUser(r *http.Request) string
}

type route struct {
	pattern  string
	segments []string
	handler  HandlerFunc
}

// Router resolves normalized paths against registered patterns in insertion
// order, first match wins. Registration happens during startup only; the
// table is read-only once the server accepts traffic.
type Router struct {
	logger    *slog.Logger
	guard     Guard
	loginPath string
	homePath  string
	routes    []route
	index     map[string]int
}

// NewRouter constructs a Router with guard redirects targeting loginPath and
// homePath (the dashboard).
func NewRouter(logger *slog.Logger, guard Guard, loginPath, homePath string) *Router {
	return &Router{
		logger:    logger,
		guard:     guard,
		loginPath: Normalize(loginPath),
		homePath:  Normalize(homePath),
		index:     make(map[string]int),
	}
}

// Handle registers a handler for a pattern. Re-registering a pattern replaces
// the handler in place, so its position in the match order is preserved.
func (rt *Router) Handle(pattern string, handler HandlerFunc) {
	pattern = Normalize(pattern)
	if i, ok := rt.index[pattern]; ok {
		rt.logger.Warn("route handler replaced", slog.String("pattern", pattern))
		rt.routes[i].handler = handler
		return
	}
	rt.index[pattern] = len(rt.routes)
	rt.routes = append(rt.routes, route{
		pattern:  pattern,
		segments: strings.Split(pattern, "/"),
		handler:  handler,
	})
}

// Navigate sends the client to path, normalizing the leading slash. All page
// transitions funnel through here so the router stays the sole driver.
func (rt *Router) Navigate(w http.ResponseWriter, r *http.Request, path string) {
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	http.Redirect(w, r, path, http.StatusSeeOther)
}

// ServeHTTP resolves the current location: normalize, guard, match, dispatch.
// A failed or unmatched page never surfaces an error; the router falls back
// to the dashboard, which is always reachable for an authenticated user.
func (rt *Router) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	path := Normalize(r.URL.Path)

	if path != rt.loginPath && !rt.guard.CanActivate(r, path) {
		rt.Navigate(w, r, rt.loginPath)
		return
	}
	if path == rt.loginPath && rt.guard.CurrentUser(r) != "" {
		rt.Navigate(w, r, rt.homePath)
		return
	}

	segments := strings.Split(path, "/")
	for _, rc := range rt.routes {
		params, ok := rc.match(path, segments)
		if !ok {
			continue
		}
		if err := rc.handler(w, r, params); err != nil {
			rt.logger.Error("page handler failed",
				slog.String("path", path),
				slog.String("pattern", rc.pattern),
				slog.Any("error", err))
			rt.fallback(w, r, path)
		}
		return
	}

	rt.logger.Warn("no route found", slog.String("path", path))
	rt.fallback(w, r, path)
}

// fallback redirects to the dashboard unless the dashboard itself failed, in
// which case redirecting again would loop.
func (rt *Router) fallback(w http.ResponseWriter, r *http.Request, path string) {
	if path == rt.homePath {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	rt.Navigate(w, r, rt.homePath)
}

func (rc route) match(path string, segments []string) (map[string]string, bool) {
	if rc.pattern == path {
		return nil, true
	}
	if !strings.Contains(rc.pattern, ":") {
		return nil, false
	}
	if len(rc.segments) != len(segments) {
		return nil, false
	}
	params := make(map[string]string)
	for i, seg := range rc.segments {
		if strings.HasPrefix(seg, ":") {
			params[seg[1:]] = segments[i]
			continue
		}
		if seg != segments[i] {
			return nil, false
		}
	}
	return params, true
}

// Normalize maps the raw request path onto the canonical form used for
// matching: "/index.html" and the empty string become "/", an accidental
// leading double slash collapses, and trailing slashes are stripped except
// for the root itself.
func Normalize(path string) string {
	for strings.HasPrefix(path, "//") {
		path = path[1:]
	}
	if path == "" || path == "/index.html" {
		return "/"
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	if len(path) > 1 {
		path = strings.TrimRight(path, "/")
		if path == "" {
			path = "/"
		}
	}
	return path
}
