package nav

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
)

type stubGuard struct {
	user string
}

func (g stubGuard) CanActivate(r *http.Request, path string) bool {
	if path == "/login" {
		return g.user == ""
	}
	return g.user != ""
}

func (g stubGuard) CurrentUser(r *http.Request) string {
	return g.user
}

// countingHandler records log output per level so tests can assert on the
// router's warning behaviour.
type countingHandler struct {
	mu     sync.Mutex
	counts map[slog.Level]int
}

func newCountingHandler() *countingHandler {
	return &countingHandler{counts: make(map[slog.Level]int)}
}

func (h *countingHandler) Enabled(context.Context, slog.Level) bool { return true }

func (h *countingHandler) Handle(_ context.Context, rec slog.Record) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.counts[rec.Level]++
	return nil
}

func (h *countingHandler) WithAttrs([]slog.Attr) slog.Handler { return h }
func (h *countingHandler) WithGroup(string) slog.Handler      { return h }

func (h *countingHandler) count(level slog.Level) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.counts[level]
}

func okHandler(body string) HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request, params map[string]string) error {
		_, err := w.Write([]byte(body))
		return err
	}
}

// resolve follows router-issued redirects until a page renders, returning the
// final path and recorder.
func resolve(t *testing.T, rt *Router, path string) (string, *httptest.ResponseRecorder) {
	t.Helper()
	for i := 0; i < 10; i++ {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rt.ServeHTTP(rec, req)
		if loc := rec.Header().Get("Location"); rec.Code == http.StatusSeeOther && loc != "" {
			path = loc
			continue
		}
		return path, rec
	}
	t.Fatalf("redirect loop resolving %s", path)
	return "", nil
}

func newTestRouter(guard Guard) (*Router, *countingHandler) {
	logs := newCountingHandler()
	rt := NewRouter(slog.New(logs), guard, "/login", "/")
	return rt, logs
}

func TestMatchPathParams(t *testing.T) {
	rt, _ := newTestRouter(stubGuard{user: "u1"})
	var got map[string]string
	rt.Handle("/", okHandler("home"))
	rt.Handle("/orders/:id", func(w http.ResponseWriter, r *http.Request, params map[string]string) error {
		got = params
		return nil
	})

	path, _ := resolve(t, rt, "/orders/42")
	if path != "/orders/42" {
		t.Fatalf("expected /orders/42 to resolve in place, got %s", path)
	}
	if got == nil || got["id"] != "42" {
		t.Fatalf("expected params {id: 42}, got %v", got)
	}

	// Different segment count must not match and falls back to the dashboard.
	path, _ = resolve(t, rt, "/orders/42/extra")
	if path != "/" {
		t.Fatalf("expected fallback to /, got %s", path)
	}
}

func TestExactMatchPrecedence(t *testing.T) {
	rt, _ := newTestRouter(stubGuard{user: "u1"})
	var matched string
	rt.Handle("/customers", func(w http.ResponseWriter, r *http.Request, params map[string]string) error {
		matched = "exact"
		return nil
	})
	rt.Handle("/:page", func(w http.ResponseWriter, r *http.Request, params map[string]string) error {
		matched = "placeholder"
		return nil
	})

	resolve(t, rt, "/customers")
	if matched != "exact" {
		t.Fatalf("expected exact pattern to win, got %s", matched)
	}
}

func TestGuardRedirects(t *testing.T) {
	rt, _ := newTestRouter(stubGuard{})
	rt.Handle("/", okHandler("home"))
	rt.Handle("/login", okHandler("login"))
	rt.Handle("/orders/:id", okHandler("order"))

	path, _ := resolve(t, rt, "/orders/7")
	if path != "/login" {
		t.Fatalf("unauthenticated request should land on /login, got %s", path)
	}

	authed, _ := newTestRouter(stubGuard{user: "u1"})
	authed.Handle("/", okHandler("home"))
	authed.Handle("/login", okHandler("login"))

	path, _ = resolve(t, authed, "/login")
	if path != "/" {
		t.Fatalf("authenticated /login should land on /, got %s", path)
	}
}

func TestUnmatchedRouteFallsBack(t *testing.T) {
	rt, logs := newTestRouter(stubGuard{user: "u1"})
	rt.Handle("/", okHandler("home"))

	path, rec := resolve(t, rt, "/does-not-exist")
	if path != "/" {
		t.Fatalf("expected fallback to /, got %s", path)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected dashboard to render, got %d", rec.Code)
	}
	if logs.count(slog.LevelWarn) != 1 {
		t.Fatalf("expected exactly one warning, got %d", logs.count(slog.LevelWarn))
	}
}

func TestHandlerErrorFallsBack(t *testing.T) {
	rt, logs := newTestRouter(stubGuard{user: "u1"})
	rt.Handle("/", okHandler("home"))
	rt.Handle("/broken", func(w http.ResponseWriter, r *http.Request, params map[string]string) error {
		return errors.New("render failed")
	})

	path, _ := resolve(t, rt, "/broken")
	if path != "/" {
		t.Fatalf("expected fallback to /, got %s", path)
	}
	if logs.count(slog.LevelError) != 1 {
		t.Fatalf("expected handler failure to be logged, got %d", logs.count(slog.LevelError))
	}
}

func TestDashboardFailureDoesNotLoop(t *testing.T) {
	rt, _ := newTestRouter(stubGuard{user: "u1"})
	rt.Handle("/", func(w http.ResponseWriter, r *http.Request, params map[string]string) error {
		return errors.New("render failed")
	})

	_, rec := resolve(t, rt, "/")
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500 when the dashboard itself fails, got %d", rec.Code)
	}
}

func TestHandleReplacesInPlace(t *testing.T) {
	rt, _ := newTestRouter(stubGuard{user: "u1"})
	var matched string
	rt.Handle("/customers", func(w http.ResponseWriter, r *http.Request, params map[string]string) error {
		matched = "first"
		return nil
	})
	rt.Handle("/:page", func(w http.ResponseWriter, r *http.Request, params map[string]string) error {
		matched = "placeholder"
		return nil
	})
	rt.Handle("/customers", func(w http.ResponseWriter, r *http.Request, params map[string]string) error {
		matched = "second"
		return nil
	})

	resolve(t, rt, "/customers")
	if matched != "second" {
		t.Fatalf("expected replacement handler to keep original position, got %s", matched)
	}
}

func TestNormalize(t *testing.T) {
	cases := map[string]string{
		"":             "/",
		"/":            "/",
		"/index.html":  "/",
		"//orders":     "/orders",
		"/orders/":     "/orders",
		"orders":       "/orders",
		"/orders/42/":  "/orders/42",
		"///customers": "/customers",
	}
	for in, want := range cases {
		if got := Normalize(in); got != want {
			t.Errorf("Normalize(%q) = %q, want %q", in, got, want)
		}
	}
}
